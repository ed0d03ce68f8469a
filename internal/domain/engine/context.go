package engine

import (
	"fmt"

	"github.com/Victor-armando18/payload-mapper/internal/domain"
	"github.com/Victor-armando18/payload-mapper/internal/domain/model"
)

const (
	BindingInput               = "input"
	BindingInvoicingItems      = "invoicingItems"
	BindingCountryCode         = "financialSourceCountryCodeValue"
	BindingCurrencyCode        = "currencyCodeValue"
	BindingCityCode            = "cityCodeValue"
	BindingIsVatOptimisedOrder = "isVatOptimisedOrder"
	BindingItem                = "item"
)

var closedBindings = map[string]bool{
	BindingInput:               true,
	BindingInvoicingItems:      true,
	BindingCountryCode:         true,
	BindingCurrencyCode:        true,
	BindingCityCode:            true,
	BindingIsVatOptimisedOrder: true,
	BindingItem:                true,
}

// Context is the set of named values an expression can reference. It is never
// mutated; WithItem and Bind return extended copies.
type Context struct {
	bindings map[string]any
}

// BuildContext projects a record into its root bindings.
func BuildContext(record *model.OrderRecord) Context {
	if record == nil {
		record = &model.OrderRecord{}
	}
	return Context{bindings: map[string]any{
		BindingInput:               record.Input.ToMap(),
		BindingInvoicingItems:      record.InvoicingItemsMap(),
		BindingCountryCode:         record.FinancialSourceCountryCodeValue,
		BindingCurrencyCode:        record.CurrencyCodeValue,
		BindingCityCode:            record.CityCodeValue,
		BindingIsVatOptimisedOrder: record.IsVatOptimisedOrder,
	}}
}

// WithItem returns the context used for one element of an array field.
func (c Context) WithItem(item any) Context {
	next, _ := c.Bind(BindingItem, item)
	return next
}

// Bind rejects any name outside the documented bindings.
func (c Context) Bind(name string, value any) (Context, error) {
	if !closedBindings[name] {
		return c, fmt.Errorf("%w: %s", domain.ErrUnknownBinding, name)
	}
	next := make(map[string]any, len(c.bindings)+1)
	for k, v := range c.bindings {
		next[k] = v
	}
	next[name] = value
	return Context{bindings: next}, nil
}

func (c Context) Lookup(name string) (any, bool) {
	v, ok := c.bindings[name]
	return v, ok
}

// Vars returns a shallow copy of the bindings for the evaluator.
func (c Context) Vars() map[string]any {
	out := make(map[string]any, len(c.bindings))
	for k, v := range c.bindings {
		out[k] = v
	}
	return out
}
