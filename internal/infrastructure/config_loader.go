package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Victor-armando18/payload-mapper/internal/domain"
	"github.com/Victor-armando18/payload-mapper/internal/domain/model"
	"github.com/Victor-armando18/payload-mapper/internal/infrastructure/yaml"
	"github.com/Victor-armando18/payload-mapper/internal/interfaces"
)

var configExtensions = []string{".yml", ".yaml"}

// FileConfigLoader resolves configuration names to <dir>/<name>.yml or .yaml.
type FileConfigLoader struct {
	dir string
}

func NewFileConfigLoader(dir string) interfaces.ConfigLoader {
	return &FileConfigLoader{dir: dir}
}

func (l *FileConfigLoader) Load(ctx context.Context, name string) (*domain.Configuration, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return nil, fmt.Errorf("%w: invalid configuration name %q", domain.ErrConfigNotFound, name)
	}
	for _, ext := range configExtensions {
		path := filepath.Join(l.dir, name+ext)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return yaml.LoadConfigFile(path)
	}
	return nil, fmt.Errorf("%w: %s in %s", domain.ErrConfigNotFound, name, l.dir)
}

// FileVocabularyLoader reads the invoicing items and metadata variables lists
// from JSON files. A missing path yields an empty list.
type FileVocabularyLoader struct {
	invoicingItemsPath    string
	metadataVariablesPath string
}

func NewFileVocabularyLoader(invoicingItemsPath, metadataVariablesPath string) interfaces.VocabularyLoader {
	return &FileVocabularyLoader{
		invoicingItemsPath:    invoicingItemsPath,
		metadataVariablesPath: metadataVariablesPath,
	}
}

func (l *FileVocabularyLoader) Load(ctx context.Context) (*domain.Vocabulary, error) {
	vocab := &domain.Vocabulary{
		InvoicingItems:    []domain.InvoicingItem{},
		MetadataVariables: []domain.MetadataVariable{},
	}
	if err := readJSONFile(l.invoicingItemsPath, &vocab.InvoicingItems); err != nil {
		return nil, fmt.Errorf("failed to load invoicing items: %w", err)
	}
	if err := readJSONFile(l.metadataVariablesPath, &vocab.MetadataVariables); err != nil {
		return nil, fmt.Errorf("failed to load metadata variables: %w", err)
	}
	return vocab, nil
}

// FileGuardLoader reads a guard pack. Without a path no guards run.
type FileGuardLoader struct {
	path string
}

func NewFileGuardLoader(path string) interfaces.GuardLoader {
	return &FileGuardLoader{path: path}
}

func (l *FileGuardLoader) Load(ctx context.Context) (*domain.GuardPack, error) {
	pack := &domain.GuardPack{Guards: []domain.GuardRule{}}
	if err := readJSONFile(l.path, pack); err != nil {
		return nil, fmt.Errorf("failed to load guard pack: %w", err)
	}
	return pack, nil
}

// LoadRecordFile reads an order record and applies the ingestion defaults.
func LoadRecordFile(path string, now time.Time) (*model.OrderRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record file %s: %w", path, err)
	}
	var record model.OrderRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record %s: %w", path, err)
	}
	return model.NormalizeRecord(&record, now), nil
}

func readJSONFile(path string, out any) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", path, err)
	}
	return nil
}
