package recommend

import (
	"sort"
	"time"

	inventorydomain "github.com/luckyfood/stockpilot/internal/inventory/domain"
	reportdomain "github.com/luckyfood/stockpilot/internal/report/domain"
)

// Recommendation suggests a restock for one inventory item.
type Recommendation struct {
	ItemID              string `json:"itemId"`
	SKU                 string `json:"sku"`
	ProductName         string `json:"productName"`
	SellableQuantity    int    `json:"sellableQuantity"`
	ReorderPoint        int    `json:"reorderPoint"`
	RecommendedQuantity int    `json:"recommendedQuantity"`
	Reason              string `json:"reason"`
}

// Engine produces restock recommendations from the combined view. The
// output is deterministic for a given view and clock.
type Engine struct {
	now func() time.Time
}

func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// Recommend flags items whose sellable stock sits at or below the
// sales-derived reorder point. Sellable stock excludes units expiring
// within the report window and items on hold contribute nothing.
//
// The reorder point is half of lifetime sales, floored at one unit for
// items that have sold at all. Items with no sales history are skipped;
// there is no demand signal to reorder against.
func (e *Engine) Recommend(rows []inventorydomain.CombinedInventoryItem) []Recommendation {
	now := e.now()
	recommendations := make([]Recommendation, 0)

	for _, row := range rows {
		if row.TotalSales <= 0 {
			continue
		}

		sellable := row.Quantity - reportdomain.ExpiringUnits(row.InventoryItem, now)
		if row.OnHold {
			sellable = 0
		}

		reorderPoint := row.TotalSales / 2
		if reorderPoint < 1 {
			reorderPoint = 1
		}
		if sellable > reorderPoint {
			continue
		}

		recommendations = append(recommendations, Recommendation{
			ItemID:              row.ID,
			SKU:                 row.SKU,
			ProductName:         row.ProductName,
			SellableQuantity:    sellable,
			ReorderPoint:        reorderPoint,
			RecommendedQuantity: reorderPoint*2 - sellable,
			Reason:              reason(row, sellable),
		})
	}

	sort.Slice(recommendations, func(i, j int) bool {
		return recommendations[i].SKU < recommendations[j].SKU
	})
	return recommendations
}

func reason(row inventorydomain.CombinedInventoryItem, sellable int) string {
	switch {
	case row.OnHold:
		return "item is on hold; no sellable stock"
	case sellable <= 0:
		return "all remaining stock expires within 30 days"
	default:
		return "sellable stock at or below reorder point"
	}
}
