package engine

import (
	"github.com/Gobusters/ectologger"
	"github.com/Victor-armando18/payload-mapper/internal/infrastructure"
	"github.com/Victor-armando18/payload-mapper/internal/infrastructure/logger"
	"github.com/Victor-armando18/payload-mapper/internal/usecase"
)

// Options point the service at its data files. Empty paths disable the
// corresponding source.
type Options struct {
	MappingsDir           string
	InvoicingItemsPath    string
	MetadataVariablesPath string
	GuardsPath            string
	Logger                ectologger.Logger
}

func NewService(opts Options) Service {
	deps := usecase.Dependencies{
		Configs:    infrastructure.NewFileConfigLoader(opts.MappingsDir),
		Vocabulary: infrastructure.NewFileVocabularyLoader(opts.InvoicingItemsPath, opts.MetadataVariablesPath),
		Logger:     opts.Logger,
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	if opts.GuardsPath != "" {
		deps.Guards = infrastructure.NewFileGuardLoader(opts.GuardsPath)
		deps.GuardExecutor = infrastructure.NewJsonLogicGuardExecutor()
	}
	return usecase.NewEngineService(deps)
}
