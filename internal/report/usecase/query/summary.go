package query

import (
	"context"
	"fmt"
	"time"

	catalogdomain "github.com/luckyfood/stockpilot/internal/catalog/domain"
	inventorydomain "github.com/luckyfood/stockpilot/internal/inventory/domain"
	"github.com/luckyfood/stockpilot/internal/report/domain"
)

// SummaryQuery represents the query for the dashboard summary.
type SummaryQuery struct {
	OrgID string
}

// SummaryHandler handles summary queries.
type SummaryHandler struct {
	inventory inventorydomain.Repository
	catalog   catalogdomain.Repository
	now       func() time.Time
}

func NewSummaryHandler(inventory inventorydomain.Repository, catalog catalogdomain.Repository) *SummaryHandler {
	return &SummaryHandler{inventory: inventory, catalog: catalog, now: time.Now}
}

// Handle executes the summary query.
func (h *SummaryHandler) Handle(ctx context.Context, q SummaryQuery) (*domain.Summary, error) {
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

	rows := inventorydomain.Combine(items, products)
	summary := domain.BuildSummary(rows, len(products), h.now())
	return &summary, nil
}
