package engine_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Victor-armando18/payload-mapper/pkg/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dataDir = filepath.Join("..", "..", "data")

func sampleService() engine.Service {
	return engine.NewService(engine.Options{
		MappingsDir:           filepath.Join(dataDir, "mappings"),
		InvoicingItemsPath:    filepath.Join(dataDir, "vocabulary", "invoicing-items.json"),
		MetadataVariablesPath: filepath.Join(dataDir, "vocabulary", "metadata-variables.json"),
		GuardsPath:            filepath.Join(dataDir, "guards", "payload-guards.json"),
	})
}

func TestSampleData_Validates(t *testing.T) {
	report, err := sampleService().Validate(context.Background(), engine.ValidationRequest{ConfigName: "order-payload"})
	require.NoError(t, err)

	assert.True(t, report.Summary.Valid, report.Diagnostics)
	assert.Zero(t, report.Summary.WarningCount, report.Diagnostics)
}

func TestSampleData_Generates(t *testing.T) {
	record, err := engine.LoadRecordFile(filepath.Join(dataDir, "records", "sample-order.json"))
	require.NoError(t, err)

	report, err := sampleService().Generate(context.Background(), engine.RunRequest{
		ConfigName: "order-payload",
		Record:     record,
		Country:    "ES",
	})
	require.NoError(t, err)
	require.True(t, report.Success, report.Errors)

	p := report.Payload
	assert.Equal(t, "987654321", p["orderId"])
	assert.Equal(t, "ABC-123", p["orderCode"])
	assert.Equal(t, "complete", p["operation"])
	assert.Equal(t, "2024/03/05", p["creationDate"])
	assert.Equal(t, "FOOD", p["vertical"])
	assert.Equal(t, "EUR", p["currency"])
	assert.Equal(t, "ES01", p["companyCode"])
	assert.Equal(t, "23.40", p["totalPaid"])
	assert.Equal(t, "MIXED", p["paymentMethods"])
	assert.Equal(t, []any{
		map[string]any{"method": "CARD", "amount": "18.40", "provider": "ADYEN"},
		map[string]any{"method": "VOUCHER", "amount": "5.00", "provider": ""},
	}, p["payments"])
	assert.Equal(t, map[string]any{"condition": []engine.Condition{
		{ConditionType: "BASE_PRICE", ConditionValue: "19.50"},
		{ConditionType: "DELIVERY_FEE", ConditionValue: "2.90"},
		{ConditionType: "SERVICE_FEE", ConditionValue: "1.00"},
	}}, p["items"])
	assert.Empty(t, report.GuardsHit)
}

func TestSampleData_GuardsFire(t *testing.T) {
	record, err := engine.LoadRecordFile(filepath.Join(dataDir, "records", "sample-order.json"))
	require.NoError(t, err)
	record.Input.OrderMetadata.Payments = nil

	report, err := sampleService().Generate(context.Background(), engine.RunRequest{
		ConfigName: "order-payload",
		Record:     record,
		Country:    "PT",
	})
	require.NoError(t, err)

	assert.Equal(t, "PT01", report.Payload["companyCode"])
	assert.Equal(t, []engine.GuardViolation{
		{RuleID: "nothing-paid", Reason: "Violation Detected", Context: "Order total paid is zero"},
	}, report.GuardsHit)
}
