package interfaces

import (
	"testing"
	"time"

	"github.com/Victor-armando18/payload-mapper/internal/domain"
	"github.com/Victor-armando18/payload-mapper/internal/domain/model"
	"github.com/stretchr/testify/assert"
)

func TestGeneratePayload(t *testing.T) {
	cfg := &domain.Configuration{}
	cfg.FieldMappings.Set("code", &domain.FieldMapping{
		Type:                 domain.FieldTypeString,
		ExpressionsByCountry: []domain.CountryExpression{{Countries: []string{"IT"}, Expression: "#input.orderMetadata.orderCode"}},
	})
	record := model.NormalizeRecord(&model.OrderRecord{
		Input: model.OrderInput{OrderMetadata: &model.OrderMetadata{OrderCode: "IT-1"}},
	}, time.Now())

	res := GeneratePayload(cfg, record, "IT")
	assert.True(t, res.Success)
	assert.Equal(t, "IT-1", res.Payload["code"])
}

func TestValidateConfigurationAndExpression(t *testing.T) {
	cfg := &domain.Configuration{ConditionMappings: []domain.ConditionMapping{
		{ConditionType: "TIP", ExpressionsByCountry: []domain.CountryExpression{{Countries: []string{"ES"}, Expression: "#invoicingItems['TIP']?.amount?.value"}}},
		{ConditionType: "TIP", ExpressionsByCountry: []domain.CountryExpression{{Countries: []string{"PT"}, Expression: "0"}}},
	}}
	vocab := domain.Vocabulary{InvoicingItems: []domain.InvoicingItem{{Name: "TIP"}}}

	diags := ValidateConfiguration(cfg, vocab)
	assert.Len(t, diags, 1)
	assert.Equal(t, domain.SeverityWarning, diags[0].Severity)

	res := ValidateExpression("#invoicingItems['TIP'] ?? 0", vocab)
	assert.True(t, res.Valid)
	assert.Len(t, res.Warnings, 1)
}
