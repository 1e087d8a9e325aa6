package query

import (
	"context"
	"fmt"

	"github.com/luckyfood/stockpilot/internal/inventory/domain"
)

// ListItemsQuery represents the query to list an organization's inventory.
type ListItemsQuery struct {
	OrgID string
}

// ListItemsHandler handles list items queries.
type ListItemsHandler struct {
	repo domain.Repository
}

func NewListItemsHandler(repo domain.Repository) *ListItemsHandler {
	return &ListItemsHandler{repo: repo}
}

// Handle executes the list items query.
func (h *ListItemsHandler) Handle(ctx context.Context, q ListItemsQuery) ([]domain.InventoryItem, error) {
	if q.OrgID == "" {
		return nil, fmt.Errorf("org id is required")
	}
	items, err := h.repo.List(ctx, q.OrgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	return items, nil
}
