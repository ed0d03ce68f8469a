// Package engine exposes the payload mapper to programs outside this module.
package engine

import (
	"context"
	"time"

	"github.com/Victor-armando18/payload-mapper/internal/domain"
	"github.com/Victor-armando18/payload-mapper/internal/domain/model"
	"github.com/Victor-armando18/payload-mapper/internal/infrastructure"
	"github.com/Victor-armando18/payload-mapper/internal/infrastructure/expression"
	"github.com/Victor-armando18/payload-mapper/internal/infrastructure/yaml"
	"github.com/Victor-armando18/payload-mapper/internal/interfaces"
)

func ParseConfig(data []byte) (*Configuration, error) {
	return yaml.ParseConfig(data)
}

func LoadConfigFile(path string) (*Configuration, error) {
	return yaml.LoadConfigFile(path)
}

// SerializeConfig renders a configuration with the explanatory header.
func SerializeConfig(cfg *Configuration) ([]byte, error) {
	return yaml.SerializeConfig(cfg)
}

// LoadRecordFile reads an order record and fills ingestion defaults.
func LoadRecordFile(path string) (*OrderRecord, error) {
	return infrastructure.LoadRecordFile(path, time.Now())
}

// LoadVocabulary reads the declared invoicing items and metadata variables.
// An empty path yields an empty list.
func LoadVocabulary(invoicingItemsPath, metadataVariablesPath string) (*Vocabulary, error) {
	return infrastructure.NewFileVocabularyLoader(invoicingItemsPath, metadataVariablesPath).Load(context.Background())
}

func NormalizeRecord(record *OrderRecord) *OrderRecord {
	return model.NormalizeRecord(record, time.Now())
}

// Generate builds the payload for one country. Check Success before using it.
func Generate(cfg *Configuration, record *OrderRecord, country string) PayloadGenerationResult {
	return interfaces.GeneratePayload(cfg, record, country)
}

func ValidateConfiguration(cfg *Configuration, vocab Vocabulary) []ValidationError {
	return interfaces.ValidateConfiguration(cfg, vocab)
}

func ValidateExpression(expr string, vocab Vocabulary) ExpressionValidationResult {
	return interfaces.ValidateExpression(expr, vocab)
}

func Summarize(diags []ValidationError) ValidationSummary {
	return domain.Summarize(diags)
}

// ExtractMetadata lists the variables a configuration reads, with examples.
func ExtractMetadata(cfg *Configuration) []MetadataVariable {
	return expression.ExtractMetadata(cfg)
}
