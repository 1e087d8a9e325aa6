package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	catalog "github.com/luckyfood/stockpilot/internal/catalog/domain"
)

// Lot is a batch of units sharing one expiration date. Lots have no
// identity of their own; they live inside an item's ordered collection.
type Lot struct {
	Quantity       int    `json:"quantity"`
	ExpirationDate string `json:"expirationDate"`
}

const lotDateLayout = "2006-01-02"

func (l Lot) Validate() error {
	if l.Quantity < 0 {
		return fmt.Errorf("lot quantity cannot be negative")
	}
	if _, err := time.Parse(lotDateLayout, l.ExpirationDate); err != nil {
		return fmt.Errorf("invalid lot expirationDate %q", l.ExpirationDate)
	}
	return nil
}

// Expires reports the lot's expiration instant. Unparseable dates are
// rejected at validation time; here they read as the zero time.
func (l Lot) Expires() time.Time {
	ts, _ := time.Parse(lotDateLayout, l.ExpirationDate)
	return ts
}

// SumLots is the single definition of the derived quantity.
func SumLots(lots []Lot) int {
	total := 0
	for _, lot := range lots {
		total += lot.Quantity
	}
	return total
}

// DecodeLots converts a loosely-typed lots value, as it arrives inside a
// partial update payload, into typed lots.
func DecodeLots(v any) ([]Lot, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode lots field: %w", err)
	}
	var lots []Lot
	if err := json.Unmarshal(raw, &lots); err != nil {
		return nil, fmt.Errorf("lots field is not a lot list: %w", err)
	}
	return lots, nil
}

// CustomerType distinguishes the fulfilment channel of an item.
type CustomerType string

const (
	CustomerTypeRegular CustomerType = "Regular"
	CustomerTypeWalmart CustomerType = "Walmart"
)

func (c CustomerType) Valid() bool {
	return c == CustomerTypeRegular || c == CustomerTypeWalmart
}

// InventoryItem is one stocked SKU. Quantity is derived from the lots and
// must never diverge from their sum; TotalSales is bumped by the sales
// feed, never by inventory writes.
type InventoryItem struct {
	ID           string       `json:"id"`
	ProductID    string       `json:"productId"`
	SKU          string       `json:"sku"`
	Lots         []Lot        `json:"lots"`
	Locations    []string     `json:"locations"`
	CustomerType CustomerType `json:"customerType"`
	OnHold       bool         `json:"onHold"`
	Quantity     int          `json:"quantity"`
	TotalSales   int          `json:"totalSales"`
}

// InventoryForm is the creation payload: an item without identity,
// quantity, or totalSales.
type InventoryForm struct {
	ProductID    string       `json:"productId"`
	SKU          string       `json:"sku"`
	Lots         []Lot        `json:"lots"`
	Locations    []string     `json:"locations"`
	CustomerType CustomerType `json:"customerType"`
	OnHold       bool         `json:"onHold"`
}

func (f InventoryForm) Validate() error {
	if f.ProductID == "" {
		return fmt.Errorf("productId is required")
	}
	if f.SKU == "" {
		return fmt.Errorf("sku is required")
	}
	if !f.CustomerType.Valid() {
		return fmt.Errorf("invalid customerType %q", f.CustomerType)
	}
	for i, lot := range f.Lots {
		if err := lot.Validate(); err != nil {
			return fmt.Errorf("lot %d: %w", i, err)
		}
	}
	return nil
}

// ItemUpdate is one partial-field merge inside a batch update.
type ItemUpdate struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"data"`
}

// Pallets is the pallet count of a combined row, or a "not applicable"
// marker when the product's pallet size is unusable.
type Pallets struct {
	Value      float64
	Applicable bool
}

func (p Pallets) MarshalJSON() ([]byte, error) {
	if !p.Applicable {
		return json.Marshal("N/A")
	}
	return json.Marshal(p.Value)
}

func (p *Pallets) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = Pallets{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid pallets value: %s", data)
	}
	*p = Pallets{Value: v, Applicable: true}
	return nil
}

// CombinedInventoryItem is the view-only projection of an item joined with
// its product. Never persisted; recomputed from the two collections.
type CombinedInventoryItem struct {
	InventoryItem
	ProductName  string               `json:"productName"`
	ItemNumber   string               `json:"itemNumber"`
	ProductType  catalog.ProductType  `json:"productType"`
	Pallets      Pallets              `json:"pallets"`
	TargetLabel  catalog.TargetLabel  `json:"targetLabel"`
	CountryLabel catalog.CountryLabel `json:"countryLabel"`
}

// Combine joins inventory items with their products. Items whose product
// is missing keep zero product fields and a not-applicable pallet count.
func Combine(items []InventoryItem, products []catalog.Product) []CombinedInventoryItem {
	byID := make(map[string]catalog.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	combined := make([]CombinedInventoryItem, 0, len(items))
	for _, item := range items {
		row := CombinedInventoryItem{InventoryItem: item}
		if product, ok := byID[item.ProductID]; ok {
			row.ProductName = product.Name
			row.ItemNumber = product.ItemNumber
			row.ProductType = product.ProductType
			row.TargetLabel = product.TargetLabel
			row.CountryLabel = product.CountryLabel
			if cases, ok := product.CasesPerPalletCount(); ok {
				row.Pallets = Pallets{
					Value:      float64(item.Quantity) / float64(cases),
					Applicable: true,
				}
			}
		}
		combined = append(combined, row)
	}
	return combined
}

// Repository is the inventory data access contract. Create and Update own
// the derived-quantity invariant; BatchUpdate deliberately does not touch
// it and applies the supplied merges verbatim.
type Repository interface {
	Create(ctx context.Context, orgID string, form InventoryForm) (*InventoryItem, error)
	Get(ctx context.Context, orgID, itemID string) (*InventoryItem, error)
	List(ctx context.Context, orgID string) ([]InventoryItem, error)
	Update(ctx context.Context, orgID, itemID string, fields map[string]any) error
	BatchUpdate(ctx context.Context, orgID string, updates []ItemUpdate) error
	Delete(ctx context.Context, orgID, itemID string) error
	// IncrementTotalSales atomically adds delta sold units to an item.
	IncrementTotalSales(ctx context.Context, orgID, itemID string, delta int) error
	// Subscribe delivers the full item list on every collection change.
	Subscribe(orgID string, onUpdate func([]InventoryItem)) (cancel func())
}
