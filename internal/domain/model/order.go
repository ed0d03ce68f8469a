package model

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/spf13/cast"
)

const DefaultHandlingStrategy = "GEN2"

// OrderRecord is the normalized input a payload is generated from.
type OrderRecord struct {
	Input                           OrderInput                     `json:"input"`
	InvoicingItems                  map[string]InvoicingItemAmount `json:"invoicingItems"`
	FinancialSourceCountryCodeValue string                         `json:"financialSourceCountryCodeValue"`
	CurrencyCodeValue               string                         `json:"currencyCodeValue"`
	CityCodeValue                   string                         `json:"cityCodeValue"`
	IsVatOptimisedOrder             bool                           `json:"isVatOptimisedOrder"`
}

type OrderInput struct {
	OrderMetadata                     *OrderMetadata `json:"orderMetadata"`
	Operation                         Operation      `json:"operation"`
	ProcessingTime                    string         `json:"processingTime"`
	ShouldIncludeMarketplaceItemsOnly *bool          `json:"shouldIncludeMarketplaceItemsOnly,omitempty"`
}

type OrderMetadata struct {
	OrderCode                    string    `json:"orderCode"`
	OrderID                      int64     `json:"orderId"`
	StoreAddressID               *int64    `json:"storeAddressId,omitempty"`
	HandlingStrategy             string    `json:"handlingStrategy"`
	OrderCreationTime            string    `json:"orderCreationTime"`
	FinalStatusDateTime          *string   `json:"finalStatusDateTime,omitempty"`
	OrderDispatchingTime         *string   `json:"orderDispatchingTime,omitempty"`
	Vertical                     *string   `json:"vertical,omitempty"`
	Subvertical                  *string   `json:"subvertical,omitempty"`
	PartnerFamily                *string   `json:"partnerFamily,omitempty"`
	PartnerCancellationStrategy  *string   `json:"partnerCancellationStrategy,omitempty"`
	CustomerCancellationStrategy *string   `json:"customerCancellationStrategy,omitempty"`
	Payments                     []Payment `json:"payments"`
}

type Payment struct {
	Amount           float64 `json:"amount"`
	PaymentMethod    string  `json:"paymentMethod"`
	ClearingProvider string  `json:"clearingProvider"`
}

// UnmarshalJSON accepts amounts sent as numbers or numeric strings.
func (p *Payment) UnmarshalJSON(data []byte) error {
	var raw struct {
		Amount           any    `json:"amount"`
		PaymentMethod    string `json:"paymentMethod"`
		ClearingProvider string `json:"clearingProvider"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Amount = cast.ToFloat64(raw.Amount)
	p.PaymentMethod = raw.PaymentMethod
	p.ClearingProvider = raw.ClearingProvider
	return nil
}

type AmountValue struct {
	Value float64 `json:"value"`
}

type InvoicingItemAmount struct {
	GrossAmount *AmountValue `json:"grossAmount,omitempty"`
	NetAmount   *AmountValue `json:"netAmount,omitempty"`
	Amount      *AmountValue `json:"amount,omitempty"`
}

// --- Operation ---

// Operation names what is being done to the order. It holds either a literal
// name or a function that derives one.
type Operation struct {
	literal *string
	derive  func() string
}

func LiteralOperation(name string) Operation {
	return Operation{literal: &name}
}

func DerivedOperation(derive func() string) Operation {
	return Operation{derive: derive}
}

// OperationName always returns a string, empty when nothing is known.
func OperationName(op Operation) string {
	switch {
	case op.literal != nil:
		return *op.literal
	case op.derive != nil:
		return op.derive()
	default:
		return ""
	}
}

func (o Operation) IsZero() bool {
	return o.literal == nil && o.derive == nil
}

func (o Operation) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"name": OperationName(o)})
}

// UnmarshalJSON accepts the historical shapes: a bare string, an object with a
// name of any scalar type, or null.
func (o *Operation) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*o = LiteralOperation("")
		return nil
	}

	var name string
	if err := json.Unmarshal(trimmed, &name); err == nil {
		*o = LiteralOperation(name)
		return nil
	}

	var obj struct {
		Name any `json:"name"`
	}
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return err
	}
	if obj.Name == nil {
		*o = LiteralOperation("")
		return nil
	}
	*o = LiteralOperation(cast.ToString(obj.Name))
	return nil
}

// --- Ingestion ---

func defaultOrderMetadata(now time.Time) *OrderMetadata {
	return &OrderMetadata{
		HandlingStrategy:  DefaultHandlingStrategy,
		OrderCreationTime: now.UTC().Format(time.RFC3339Nano),
		Payments:          []Payment{},
	}
}

// NormalizeRecord fills the defaults downstream code relies on. Running it a
// second time changes nothing.
func NormalizeRecord(r *OrderRecord, now time.Time) *OrderRecord {
	if r.Input.OrderMetadata == nil {
		r.Input.OrderMetadata = defaultOrderMetadata(now)
	}
	if r.Input.ProcessingTime == "" {
		r.Input.ProcessingTime = now.UTC().Format(time.RFC3339Nano)
	}
	if r.Input.Operation.IsZero() {
		r.Input.Operation = LiteralOperation("")
	}
	if r.Input.ShouldIncludeMarketplaceItemsOnly == nil {
		f := false
		r.Input.ShouldIncludeMarketplaceItemsOnly = &f
	}
	if r.Input.OrderMetadata.Payments == nil {
		r.Input.OrderMetadata.Payments = []Payment{}
	}
	if r.InvoicingItems == nil {
		r.InvoicingItems = map[string]InvoicingItemAmount{}
	}
	return r
}

// --- Expression views ---

func (a InvoicingItemAmount) ToMap() map[string]any {
	out := map[string]any{}
	if a.GrossAmount != nil {
		out["grossAmount"] = map[string]any{"value": a.GrossAmount.Value}
	}
	if a.NetAmount != nil {
		out["netAmount"] = map[string]any{"value": a.NetAmount.Value}
	}
	if a.Amount != nil {
		out["amount"] = map[string]any{"value": a.Amount.Value}
	}
	return out
}

func (p Payment) ToMap() map[string]any {
	return map[string]any{
		"amount":           p.Amount,
		"paymentMethod":    p.PaymentMethod,
		"clearingProvider": p.ClearingProvider,
	}
}

func (m *OrderMetadata) ToMap() map[string]any {
	if m == nil {
		return nil
	}
	payments := make([]any, len(m.Payments))
	for i, p := range m.Payments {
		payments[i] = p.ToMap()
	}
	out := map[string]any{
		"orderCode":                    m.OrderCode,
		"orderId":                      m.OrderID,
		"storeAddressId":               nil,
		"handlingStrategy":             m.HandlingStrategy,
		"orderCreationTime":            m.OrderCreationTime,
		"finalStatusDateTime":          deref(m.FinalStatusDateTime),
		"orderDispatchingTime":         deref(m.OrderDispatchingTime),
		"vertical":                     deref(m.Vertical),
		"subvertical":                  deref(m.Subvertical),
		"partnerFamily":                deref(m.PartnerFamily),
		"partnerCancellationStrategy":  deref(m.PartnerCancellationStrategy),
		"customerCancellationStrategy": deref(m.CustomerCancellationStrategy),
		"payments":                     payments,
	}
	if m.StoreAddressID != nil {
		out["storeAddressId"] = *m.StoreAddressID
	}
	return out
}

func (in OrderInput) ToMap() map[string]any {
	op := in.Operation
	marketplaceOnly := in.ShouldIncludeMarketplaceItemsOnly != nil && *in.ShouldIncludeMarketplaceItemsOnly
	return map[string]any{
		"orderMetadata": in.OrderMetadata.ToMap(),
		"operation": map[string]any{
			"name": func() string { return OperationName(op) },
		},
		"processingTime":                    in.ProcessingTime,
		"shouldIncludeMarketplaceItemsOnly": func() bool { return marketplaceOnly },
	}
}

func (r *OrderRecord) InvoicingItemsMap() map[string]any {
	out := make(map[string]any, len(r.InvoicingItems))
	for name, amount := range r.InvoicingItems {
		out[name] = amount.ToMap()
	}
	return out
}

func deref(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
