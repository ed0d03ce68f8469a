package interfaces

import (
	"context"

	"github.com/Victor-armando18/payload-mapper/internal/domain"
	"github.com/Victor-armando18/payload-mapper/internal/domain/engine"
)

// ConfigLoader resolves a named mapping configuration (disk, network, etc.).
type ConfigLoader interface {
	Load(ctx context.Context, name string) (*domain.Configuration, error)
}

// VocabularyLoader provides the declared invoicing items and metadata variables.
type VocabularyLoader interface {
	Load(ctx context.Context) (*domain.Vocabulary, error)
}

type GuardLoader interface {
	Load(ctx context.Context) (*domain.GuardPack, error)
}

// GuardExecutor checks one guard against a payload. A nil violation means the
// guard did not match.
type GuardExecutor interface {
	Execute(ctx context.Context, guard domain.GuardRule, payload map[string]any) (*domain.GuardViolation, error)
}

// EngineFacade is the entry point the HTTP service and the CLI talk to.
type EngineFacade interface {
	Generate(ctx context.Context, req engine.RunRequest) (*engine.RunReport, error)
	Validate(ctx context.Context, req engine.ValidationRequest) (*engine.ValidationReport, error)
	ValidateExpression(ctx context.Context, expression string) (*domain.ExpressionValidationResult, error)
	Vocabulary(ctx context.Context) (*domain.Vocabulary, error)
}
