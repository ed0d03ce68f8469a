package upstream

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Victor-armando18/payload-mapper/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const transactionJSON = `{
  "id": "tx-1",
  "timestamp": "2024-03-05T10:00:00Z",
  "invoiceItems": [
    {"items": [
      {"concept": "BASE_PRICE", "amount": {"number": 10}, "taxDetails": {"netAmount": {"number": 8.26}, "grossAmount": {"number": 10}}},
      {"concept": "DELIVERY_FEE", "amount": {"number": 2.5}, "taxDetails": null}
    ]},
    {"items": [
      {"concept": "DELIVERY_FEE", "amount": {"number": 3}, "taxDetails": null}
    ]}
  ]
}`

const orderJSON = `{
  "order": {
    "orderId": 987,
    "orderCode": "ABC-987",
    "orderHandlingStrategy": "PICKUP",
    "countryCode": {"value": "ES"},
    "cityCode": "BCN",
    "currencyCode": "EUR"
  },
  "storeAddress": {"storeAddressId": "42", "partnerFamily": "GROCERY", "partnerCancellationStrategy": null},
  "customer": {"customerCancellationStrategy": "REFUND"},
  "timing": {"creationDateTime": "2024-03-05T09:00:00Z", "dispatchingDateTime": null, "finalStatusDateTime": "2024-03-05T11:00:00Z"}
}`

func TestMapToRecord(t *testing.T) {
	var tx Transaction
	require.NoError(t, json.Unmarshal([]byte(transactionJSON), &tx))
	var order OrderDetails
	require.NoError(t, json.Unmarshal([]byte(orderJSON), &order))

	now := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	record := MapToRecord(&tx, order, now)

	t.Run("tax details win over plain amount", func(t *testing.T) {
		base := record.InvoicingItems["BASE_PRICE"]
		require.NotNil(t, base.NetAmount)
		assert.Equal(t, 8.26, base.NetAmount.Value)
		assert.Equal(t, 10.0, base.GrossAmount.Value)
		assert.Nil(t, base.Amount)
	})

	t.Run("last concept wins", func(t *testing.T) {
		fee := record.InvoicingItems["DELIVERY_FEE"]
		require.NotNil(t, fee.Amount)
		assert.Equal(t, 3.0, fee.Amount.Value)
		assert.Nil(t, fee.NetAmount)
	})

	t.Run("order metadata", func(t *testing.T) {
		md := record.Input.OrderMetadata
		assert.Equal(t, int64(987), md.OrderID)
		assert.Equal(t, "ABC-987", md.OrderCode)
		assert.Equal(t, "PICKUP", md.HandlingStrategy)
		require.NotNil(t, md.StoreAddressID)
		assert.Equal(t, int64(42), *md.StoreAddressID)
		assert.Equal(t, "GROCERY", *md.PartnerFamily)
		assert.Nil(t, md.PartnerCancellationStrategy)
		assert.Equal(t, "REFUND", *md.CustomerCancellationStrategy)
		assert.Nil(t, md.OrderDispatchingTime)
		assert.Equal(t, "2024-03-05T11:00:00Z", *md.FinalStatusDateTime)
		assert.Nil(t, md.Vertical)
		assert.Empty(t, md.Payments)
	})

	t.Run("context values", func(t *testing.T) {
		assert.Equal(t, "ES", record.FinancialSourceCountryCodeValue)
		assert.Equal(t, "EUR", record.CurrencyCodeValue)
		assert.Equal(t, "BCN", record.CityCodeValue)
		assert.False(t, record.IsVatOptimisedOrder)
		assert.Equal(t, "complete", model.OperationName(record.Input.Operation))
		assert.Equal(t, "2024-03-05T12:00:00Z", record.Input.ProcessingTime)
	})
}

func TestMapToRecord_MissingParts(t *testing.T) {
	record := MapToRecord(nil, OrderDetails{}, time.Now())

	assert.Empty(t, record.InvoicingItems)
	assert.Nil(t, record.Input.OrderMetadata.StoreAddressID)
	assert.Nil(t, record.Input.OrderMetadata.PartnerFamily)
	assert.NotNil(t, record.Input.ShouldIncludeMarketplaceItemsOnly)
}
