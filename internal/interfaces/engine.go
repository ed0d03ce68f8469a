package interfaces

import (
	"github.com/Victor-armando18/payload-mapper/internal/domain"
	"github.com/Victor-armando18/payload-mapper/internal/domain/engine"
	"github.com/Victor-armando18/payload-mapper/internal/domain/model"
	"github.com/Victor-armando18/payload-mapper/internal/infrastructure/expression"
	"github.com/Victor-armando18/payload-mapper/internal/usecase/runvalidation"
)

// GeneratePayload runs a generation pass with the default expression evaluator.
func GeneratePayload(cfg *domain.Configuration, record *model.OrderRecord, country string) engine.PayloadGenerationResult {
	return engine.NewEngine(expression.NewEvaluator()).Generate(cfg, record, country)
}

func ValidateExpression(expr string, vocab domain.Vocabulary) domain.ExpressionValidationResult {
	return expression.NewValidator(expression.NewEvaluator()).Validate(expr, vocab.InvoicingItems, vocab.MetadataVariables)
}

func ValidateConfiguration(cfg *domain.Configuration, vocab domain.Vocabulary) []domain.ValidationError {
	uc := &runvalidation.UseCase{
		Validator: expression.NewValidator(expression.NewEvaluator()),
	}
	return uc.Run(cfg, vocab)
}
