package infrastructure

import (
	"testing"
	"time"

	"github.com/Victor-armando18/payload-mapper/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyRecordPatch(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	original := model.NormalizeRecord(&model.OrderRecord{
		Input: model.OrderInput{
			OrderMetadata: &model.OrderMetadata{OrderCode: "ORD-1"},
			Operation:     model.LiteralOperation("complete"),
		},
		CurrencyCodeValue: "EUR",
	}, now)

	patch := []byte(`[
		{"op":"replace","path":"/input/orderMetadata/orderCode","value":"ORD-2"},
		{"op":"add","path":"/invoicingItems/DELIVERY_FEE","value":{"netAmount":{"value":3.2}}}
	]`)

	updated, err := ApplyRecordPatch(original, patch, now)
	require.NoError(t, err)

	assert.Equal(t, "ORD-2", updated.Input.OrderMetadata.OrderCode)
	assert.Equal(t, 3.2, updated.InvoicingItems["DELIVERY_FEE"].NetAmount.Value)
	assert.Equal(t, "complete", model.OperationName(updated.Input.Operation))
	assert.Equal(t, "ORD-1", original.Input.OrderMetadata.OrderCode)
}

func TestApplyRecordPatch_Errors(t *testing.T) {
	now := time.Now()

	_, err := ApplyRecordPatch(nil, []byte(`not a patch`), now)
	assert.ErrorContains(t, err, "failed to decode patch")

	_, err = ApplyRecordPatch(nil, []byte(`[{"op":"remove","path":"/does/not/exist"}]`), now)
	assert.ErrorContains(t, err, "failed to apply patch")
}
