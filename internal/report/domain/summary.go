package domain

import (
	"time"

	catalog "github.com/luckyfood/stockpilot/internal/catalog/domain"
	inventory "github.com/luckyfood/stockpilot/internal/inventory/domain"
)

// expiringWindow is how far ahead the summary looks for expiring stock.
const expiringWindow = 30 * 24 * time.Hour

// TypeBreakdown counts items and units of one storage temperature class.
type TypeBreakdown struct {
	Items int `json:"items"`
	Units int `json:"units"`
}

// Summary is the dashboard aggregation over the combined view.
type Summary struct {
	ProductCount  int                                   `json:"productCount"`
	ItemCount     int                                   `json:"itemCount"`
	UnitsOnHand   int                                   `json:"unitsOnHand"`
	ItemsOnHold   int                                   `json:"itemsOnHold"`
	ExpiringUnits int                                   `json:"expiringUnits"`
	ByProductType map[catalog.ProductType]TypeBreakdown `json:"byProductType"`
}

// ExpiringUnits sums the lot quantities of an item that expire within the
// window starting at now. Lots already expired count too; they are still
// unsellable stock.
func ExpiringUnits(item inventory.InventoryItem, now time.Time) int {
	cutoff := now.Add(expiringWindow)
	units := 0
	for _, lot := range item.Lots {
		if !lot.Expires().After(cutoff) {
			units += lot.Quantity
		}
	}
	return units
}

// BuildSummary aggregates the combined view as of now.
func BuildSummary(rows []inventory.CombinedInventoryItem, productCount int, now time.Time) Summary {
	summary := Summary{
		ProductCount:  productCount,
		ItemCount:     len(rows),
		ByProductType: make(map[catalog.ProductType]TypeBreakdown),
	}

	for _, row := range rows {
		summary.UnitsOnHand += row.Quantity
		if row.OnHold {
			summary.ItemsOnHold++
		}
		summary.ExpiringUnits += ExpiringUnits(row.InventoryItem, now)

		if row.ProductType != "" {
			breakdown := summary.ByProductType[row.ProductType]
			breakdown.Items++
			breakdown.Units += row.Quantity
			summary.ByProductType[row.ProductType] = breakdown
		}
	}
	return summary
}
