package engine_test

import (
	"testing"
	"time"

	"github.com/Victor-armando18/payload-mapper/internal/domain"
	"github.com/Victor-armando18/payload-mapper/internal/domain/engine"
	"github.com/Victor-armando18/payload-mapper/internal/domain/model"
	"github.com/Victor-armando18/payload-mapper/internal/infrastructure/expression"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func es(expression string, countries ...string) []domain.CountryExpression {
	if len(countries) == 0 {
		countries = []string{"ES"}
	}
	return []domain.CountryExpression{{Countries: countries, Expression: expression}}
}

func record() *model.OrderRecord {
	return model.NormalizeRecord(&model.OrderRecord{
		Input: model.OrderInput{
			OrderMetadata: &model.OrderMetadata{
				OrderCode: "ORD-1",
				OrderID:   12345,
				Payments: []model.Payment{
					{Amount: 10, PaymentMethod: "CARD"},
					{Amount: 2.5, PaymentMethod: "VOUCHER"},
				},
			},
			Operation:      model.LiteralOperation("complete"),
			ProcessingTime: "2024-03-05T10:20:30Z",
		},
		InvoicingItems: map[string]model.InvoicingItemAmount{
			"DELIVERY_FEE": {NetAmount: &model.AmountValue{Value: 1.9}},
		},
		FinancialSourceCountryCodeValue: "ES",
		CurrencyCodeValue:               "EUR",
	}, mustTime())
}

func mustTime() time.Time {
	return time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
}

func newEngine() *engine.Engine {
	return engine.NewEngine(expression.NewEvaluator())
}

func TestGenerate_ScalarField(t *testing.T) {
	cfg := &domain.Configuration{}
	cfg.FieldMappings.Set("orderId", &domain.FieldMapping{
		Type:                 domain.FieldTypeString,
		ExpressionsByCountry: es("#input.orderMetadata.orderId", "ES", "FR"),
	})

	res := newEngine().Generate(cfg, record(), "ES")

	assert.True(t, res.Success)
	assert.Empty(t, res.Errors)
	assert.Equal(t, "12345", res.Payload["orderId"])
	assert.NotContains(t, res.Payload, "items")
}

func TestGenerate_MissingCountry(t *testing.T) {
	cfg := &domain.Configuration{}
	cfg.FieldMappings.Set("orderId", &domain.FieldMapping{
		Type:                 domain.FieldTypeString,
		ExpressionsByCountry: es("#input.orderMetadata.orderId", "FR"),
	})
	cfg.FieldMappings.Set("currency", &domain.FieldMapping{
		Type:                 domain.FieldTypeString,
		ExpressionsByCountry: es("#currencyCodeValue"),
	})

	res := newEngine().Generate(cfg, record(), "ES")

	assert.False(t, res.Success)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, engine.FieldError{Field: "orderId", Error: "No expression found for country ES"}, res.Errors[0])
	assert.NotContains(t, res.Payload, "orderId")
	assert.Equal(t, "EUR", res.Payload["currency"])
}

func TestGenerate_DefaultsAreWritten(t *testing.T) {
	cfg := &domain.Configuration{}
	cfg.FieldMappings.Set("vertical", &domain.FieldMapping{
		Type:                 domain.FieldTypeOptionalString,
		ExpressionsByCountry: es("#input.orderMetadata.vertical"),
	})
	cfg.FieldMappings.Set("total", &domain.FieldMapping{
		Type:                 domain.FieldTypeDouble,
		ExpressionsByCountry: es("#invoicingItems['MISSING']?.netAmount?.value"),
	})
	cfg.FieldMappings.Set("processedAt", &domain.FieldMapping{
		Type:                 domain.FieldTypeLocalDateTime,
		Format:               "dd/MM/yyyy",
		ExpressionsByCountry: es("#input.processingTime"),
	})

	res := newEngine().Generate(cfg, record(), "ES")

	require.True(t, res.Success, res.Errors)
	assert.Equal(t, "", res.Payload["vertical"])
	assert.Equal(t, "0.00", res.Payload["total"])
	assert.Equal(t, "05/03/2024", res.Payload["processedAt"])
}

func TestGenerate_EvaluationFailureSkipsField(t *testing.T) {
	cfg := &domain.Configuration{}
	cfg.FieldMappings.Set("broken", &domain.FieldMapping{
		Type:                 domain.FieldTypeString,
		ExpressionsByCountry: es("#input.orderMetadata.orderId +"),
	})

	res := newEngine().Generate(cfg, record(), "ES")

	assert.False(t, res.Success)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "broken", res.Errors[0].Field)
	assert.NotContains(t, res.Payload, "broken")
}

func TestGenerate_ArrayField(t *testing.T) {
	items := domain.NewFieldMappings()
	items.Set("amount", &domain.FieldMapping{Type: domain.FieldTypeDouble, ExpressionsByCountry: es("#item.amount")})
	items.Set("method", &domain.FieldMapping{Type: domain.FieldTypeString, ExpressionsByCountry: es("#item.paymentMethod")})

	cfg := &domain.Configuration{}
	cfg.FieldMappings.Set("payments", &domain.FieldMapping{
		Type:                 domain.FieldTypeArray,
		ExpressionsByCountry: es("#input.orderMetadata.payments"),
		ItemsMappings:        items,
	})

	res := newEngine().Generate(cfg, record(), "ES")

	require.True(t, res.Success, res.Errors)
	assert.Equal(t, []any{
		map[string]any{"amount": "10.00", "method": "CARD"},
		map[string]any{"amount": "2.50", "method": "VOUCHER"},
	}, res.Payload["payments"])
}

func TestGenerate_ArrayItemFailuresAreIndependent(t *testing.T) {
	items := domain.NewFieldMappings()
	items.Set("amount", &domain.FieldMapping{Type: domain.FieldTypeDouble, ExpressionsByCountry: es("#item.amount")})
	items.Set("code", &domain.FieldMapping{Type: domain.FieldTypeString, ExpressionsByCountry: es("#item.paymentMethod - 1")})
	items.Set("provider", &domain.FieldMapping{Type: domain.FieldTypeString, ExpressionsByCountry: es("#item.clearingProvider", "FR")})

	cfg := &domain.Configuration{}
	cfg.FieldMappings.Set("payments", &domain.FieldMapping{
		Type:                 domain.FieldTypeArray,
		ExpressionsByCountry: es("#input.orderMetadata.payments"),
		ItemsMappings:        items,
	})

	res := newEngine().Generate(cfg, record(), "ES")

	assert.False(t, res.Success)
	fields := []string{}
	for _, e := range res.Errors {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{"payments.provider", "payments.code", "payments.code"}, fields)
	assert.Equal(t, []any{
		map[string]any{"amount": "10.00"},
		map[string]any{"amount": "2.50"},
	}, res.Payload["payments"])
}

func TestGenerate_ArrayExpressionNotAList(t *testing.T) {
	items := domain.NewFieldMappings()
	items.Set("amount", &domain.FieldMapping{Type: domain.FieldTypeDouble, ExpressionsByCountry: es("#item.amount")})

	cfg := &domain.Configuration{}
	cfg.FieldMappings.Set("payments", &domain.FieldMapping{
		Type:                 domain.FieldTypeArray,
		ExpressionsByCountry: es("#input.orderMetadata.orderId"),
		ItemsMappings:        items,
	})

	res := newEngine().Generate(cfg, record(), "ES")

	assert.False(t, res.Success)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "payments", res.Errors[0].Field)
	assert.NotContains(t, res.Payload, "payments")
}

func TestGenerate_ArrayWithoutItemsMappings(t *testing.T) {
	cfg := &domain.Configuration{}
	cfg.FieldMappings.Set("lines", &domain.FieldMapping{
		Type:                 domain.FieldTypeArray,
		ExpressionsByCountry: es("42"),
	})
	cfg.FieldMappings.Set("methods", &domain.FieldMapping{
		Type:                 domain.FieldTypeArray,
		ExpressionsByCountry: es("streamMap(#input.orderMetadata.payments, 'paymentMethod')"),
	})

	res := newEngine().Generate(cfg, record(), "ES")

	assert.False(t, res.Success)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "lines", res.Errors[0].Field)
	assert.NotContains(t, res.Payload, "lines")
	assert.Equal(t, []any{"CARD", "VOUCHER"}, res.Payload["methods"])
}

func TestGenerate_NilMappingIsUnresolved(t *testing.T) {
	items := domain.NewFieldMappings()
	items.Set("amount", nil)

	cfg := &domain.Configuration{}
	cfg.FieldMappings.Set("broken", nil)
	cfg.FieldMappings.Set("payments", &domain.FieldMapping{
		Type:                 domain.FieldTypeArray,
		ExpressionsByCountry: es("#input.orderMetadata.payments"),
		ItemsMappings:        items,
	})

	var res engine.PayloadGenerationResult
	require.NotPanics(t, func() { res = newEngine().Generate(cfg, record(), "ES") })

	assert.Equal(t, []engine.FieldError{
		{Field: "broken", Error: "No expression found for country ES"},
		{Field: "payments.amount", Error: "No expression found for country ES"},
	}, res.Errors)
	assert.NotContains(t, res.Payload, "broken")
	assert.Equal(t, []any{map[string]any{}, map[string]any{}}, res.Payload["payments"])
}

func TestGenerate_Conditions(t *testing.T) {
	cfg := &domain.Configuration{ConditionMappings: []domain.ConditionMapping{
		{ConditionType: "BASE_PRICE", ExpressionsByCountry: es("#invoicingItems['BASE_PRICE']?.netAmount?.value")},
		{ConditionType: "DELIVERY", ExpressionsByCountry: es("#invoicingItems['DELIVERY_FEE']?.netAmount?.value")},
		{ConditionType: "BROKEN", ExpressionsByCountry: es("#invoicingItems['DELIVERY_FEE'] +")},
		{ConditionType: "FR_ONLY", ExpressionsByCountry: es("1", "FR")},
	}}

	res := newEngine().Generate(cfg, record(), "ES")

	assert.False(t, res.Success)
	assert.Equal(t, map[string]any{"condition": []engine.Condition{
		{ConditionType: "BASE_PRICE", ConditionValue: "0.00"},
		{ConditionType: "DELIVERY", ConditionValue: "1.90"},
	}}, res.Payload["items"])

	require.Len(t, res.Errors, 2)
	assert.Equal(t, "BROKEN", res.Errors[0].Field)
	assert.Equal(t, engine.FieldError{Field: "FR_ONLY", Error: "No expression found for country ES"}, res.Errors[1])
}

func TestGenerate_ConditionsAbsentWhenNoneWritten(t *testing.T) {
	cfg := &domain.Configuration{ConditionMappings: []domain.ConditionMapping{
		{ConditionType: "BROKEN", ExpressionsByCountry: es("(")},
	}}

	res := newEngine().Generate(cfg, record(), "ES")

	assert.NotContains(t, res.Payload, "items")
	assert.Len(t, res.Errors, 1)
}

func TestGenerate_Observer(t *testing.T) {
	cfg := &domain.Configuration{}
	cfg.FieldMappings.Set("orderId", &domain.FieldMapping{Type: domain.FieldTypeString, ExpressionsByCountry: es("#input.orderMetadata.orderId")})
	cfg.FieldMappings.Set("missing", &domain.FieldMapping{Type: domain.FieldTypeString, ExpressionsByCountry: es("1", "IT")})

	var steps []engine.ExecutionStep
	e := newEngine()
	e.Observer = func(s engine.ExecutionStep) { steps = append(steps, s) }

	e.Generate(cfg, record(), "ES")

	require.Len(t, steps, 2)
	assert.Equal(t, engine.ExecutionStep{Phase: engine.PhaseFields, Field: "orderId", Action: engine.ActionEvaluated}, steps[0])
	assert.Equal(t, engine.ActionUnresolved, steps[1].Action)
}

func TestGenerate_NilConfiguration(t *testing.T) {
	res := newEngine().Generate(nil, record(), "ES")

	assert.True(t, res.Success)
	assert.Empty(t, res.Payload)
}
