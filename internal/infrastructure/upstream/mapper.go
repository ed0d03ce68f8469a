// Package upstream maps the financial transaction and order documents of the
// upstream order API into an order record.
package upstream

import (
	"time"

	"github.com/Victor-armando18/payload-mapper/internal/domain/model"
	"github.com/spf13/cast"
)

const DefaultOperation = "complete"

type Number struct {
	Number float64 `json:"number"`
}

type TaxDetails struct {
	NetAmount   Number `json:"netAmount"`
	GrossAmount Number `json:"grossAmount"`
}

type InvoiceItem struct {
	Concept    string      `json:"concept"`
	Amount     *Number     `json:"amount"`
	TaxDetails *TaxDetails `json:"taxDetails"`
}

type InvoiceItemGroup struct {
	Items []InvoiceItem `json:"items"`
}

type Transaction struct {
	ID           string             `json:"id"`
	Timestamp    string             `json:"timestamp"`
	InvoiceItems []InvoiceItemGroup `json:"invoiceItems"`
}

type CountryCode struct {
	Value string `json:"value"`
}

type OrderSummary struct {
	OrderID               int64       `json:"orderId"`
	OrderCode             string      `json:"orderCode"`
	OrderHandlingStrategy string      `json:"orderHandlingStrategy"`
	CountryCode           CountryCode `json:"countryCode"`
	CityCode              string      `json:"cityCode"`
	CurrencyCode          string      `json:"currencyCode"`
	IsB2BOrder            bool        `json:"isB2BOrder"`
	IsMarketplaceOrder    bool        `json:"isMarketplaceOrder"`
	IsSplitOrder          bool        `json:"isSplitOrder"`
	IsPrimeOrder          bool        `json:"isPrimeOrder"`
}

type StoreAddress struct {
	StoreAddressID              string  `json:"storeAddressId"`
	PartnerFamily               string  `json:"partnerFamily"`
	PartnerCancellationStrategy *string `json:"partnerCancellationStrategy"`
}

type Customer struct {
	CustomerCancellationStrategy *string `json:"customerCancellationStrategy"`
}

type Timing struct {
	CreationDateTime    string  `json:"creationDateTime"`
	DispatchingDateTime *string `json:"dispatchingDateTime"`
	FinalStatusDateTime *string `json:"finalStatusDateTime"`
}

type OrderDetails struct {
	Order        OrderSummary  `json:"order"`
	StoreAddress *StoreAddress `json:"storeAddress,omitempty"`
	Customer     *Customer     `json:"customer,omitempty"`
	Timing       Timing        `json:"timing"`
}

// MapToRecord builds an order record from one transaction and its order.
// Tax detail amounts win over the plain amount; a repeated concept keeps the
// last value seen.
func MapToRecord(tx *Transaction, order OrderDetails, now time.Time) *model.OrderRecord {
	items := map[string]model.InvoicingItemAmount{}
	if tx != nil {
		for _, group := range tx.InvoiceItems {
			for _, item := range group.Items {
				if item.Concept == "" {
					continue
				}
				items[item.Concept] = amountOf(item)
			}
		}
	}

	metadata := &model.OrderMetadata{
		OrderCode:            order.Order.OrderCode,
		OrderID:              order.Order.OrderID,
		HandlingStrategy:     order.Order.OrderHandlingStrategy,
		OrderCreationTime:    order.Timing.CreationDateTime,
		FinalStatusDateTime:  nonEmpty(order.Timing.FinalStatusDateTime),
		OrderDispatchingTime: nonEmpty(order.Timing.DispatchingDateTime),
		Payments:             []model.Payment{},
	}
	if sa := order.StoreAddress; sa != nil {
		if id, err := cast.ToInt64E(sa.StoreAddressID); err == nil && sa.StoreAddressID != "" {
			metadata.StoreAddressID = &id
		}
		if sa.PartnerFamily != "" {
			family := sa.PartnerFamily
			metadata.PartnerFamily = &family
		}
		metadata.PartnerCancellationStrategy = nonEmpty(sa.PartnerCancellationStrategy)
	}
	if order.Customer != nil {
		metadata.CustomerCancellationStrategy = nonEmpty(order.Customer.CustomerCancellationStrategy)
	}

	marketplaceOnly := false
	record := &model.OrderRecord{
		Input: model.OrderInput{
			OrderMetadata:                     metadata,
			Operation:                         model.LiteralOperation(DefaultOperation),
			ProcessingTime:                    now.UTC().Format(time.RFC3339Nano),
			ShouldIncludeMarketplaceItemsOnly: &marketplaceOnly,
		},
		InvoicingItems:                  items,
		FinancialSourceCountryCodeValue: order.Order.CountryCode.Value,
		CurrencyCodeValue:               order.Order.CurrencyCode,
		CityCodeValue:                   order.Order.CityCode,
		IsVatOptimisedOrder:             false,
	}
	return model.NormalizeRecord(record, now)
}

func amountOf(item InvoiceItem) model.InvoicingItemAmount {
	switch {
	case item.TaxDetails != nil:
		return model.InvoicingItemAmount{
			GrossAmount: &model.AmountValue{Value: item.TaxDetails.GrossAmount.Number},
			NetAmount:   &model.AmountValue{Value: item.TaxDetails.NetAmount.Number},
		}
	case item.Amount != nil:
		return model.InvoicingItemAmount{Amount: &model.AmountValue{Value: item.Amount.Number}}
	default:
		return model.InvoicingItemAmount{}
	}
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
