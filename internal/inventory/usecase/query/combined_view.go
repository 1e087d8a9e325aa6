package query

import (
	"context"
	"fmt"

	catalogdomain "github.com/luckyfood/stockpilot/internal/catalog/domain"
	"github.com/luckyfood/stockpilot/internal/inventory/domain"
)

// CombinedViewQuery joins inventory items with their catalog products.
type CombinedViewQuery struct {
	OrgID string
}

// CombinedViewHandler handles combined view queries.
type CombinedViewHandler struct {
	inventory domain.Repository
	catalog   catalogdomain.Repository
}

func NewCombinedViewHandler(inventory domain.Repository, catalog catalogdomain.Repository) *CombinedViewHandler {
	return &CombinedViewHandler{inventory: inventory, catalog: catalog}
}

// Handle executes the combined view query. Items whose product is missing
// still appear, with blank product columns and pallets not applicable.
func (h *CombinedViewHandler) Handle(ctx context.Context, q CombinedViewQuery) ([]domain.CombinedInventoryItem, error) {
	if q.OrgID == "" {
		return nil, fmt.Errorf("org id is required")
	}

	items, err := h.inventory.List(ctx, q.OrgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	products, err := h.catalog.List(ctx, q.OrgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return domain.Combine(items, products), nil
}
