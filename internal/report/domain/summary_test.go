package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalog "github.com/luckyfood/stockpilot/internal/catalog/domain"
	inventory "github.com/luckyfood/stockpilot/internal/inventory/domain"
)

func TestBuildSummaryAggregates(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	rows := []inventory.CombinedInventoryItem{
		{
			InventoryItem: inventory.InventoryItem{
				ID:       "i1",
				Quantity: 100,
				OnHold:   true,
				Lots: []inventory.Lot{
					{Quantity: 40, ExpirationDate: "2026-08-10"},
					{Quantity: 60, ExpirationDate: "2027-01-01"},
				},
			},
			ProductType: catalog.ProductTypeFrozen,
		},
		{
			InventoryItem: inventory.InventoryItem{ID: "i2", Quantity: 30},
			ProductType:   catalog.ProductTypeFrozen,
		},
		{
			// orphan item without a product
			InventoryItem: inventory.InventoryItem{ID: "i3", Quantity: 5},
		},
	}

	summary := BuildSummary(rows, 7, now)

	assert.Equal(t, 7, summary.ProductCount)
	assert.Equal(t, 3, summary.ItemCount)
	assert.Equal(t, 135, summary.UnitsOnHand)
	assert.Equal(t, 1, summary.ItemsOnHold)
	assert.Equal(t, 40, summary.ExpiringUnits)

	frozen := summary.ByProductType[catalog.ProductTypeFrozen]
	assert.Equal(t, 2, frozen.Items)
	assert.Equal(t, 130, frozen.Units)
	_, hasBlank := summary.ByProductType[""]
	assert.False(t, hasBlank, "orphan items do not get a type bucket")
}

func TestExpiringUnitsCountsAlreadyExpiredLots(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	item := inventory.InventoryItem{
		Lots: []inventory.Lot{
			{Quantity: 10, ExpirationDate: "2026-07-01"},
			{Quantity: 20, ExpirationDate: "2026-08-20"},
			{Quantity: 30, ExpirationDate: "2026-12-01"},
		},
	}
	require.Equal(t, 30, ExpiringUnits(item, now))
}

func TestBuildSummaryEmpty(t *testing.T) {
	summary := BuildSummary(nil, 0, time.Now())
	assert.Zero(t, summary.UnitsOnHand)
	assert.Empty(t, summary.ByProductType)
}
