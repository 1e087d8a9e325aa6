package query

import (
	"context"
	"fmt"

	"github.com/luckyfood/stockpilot/internal/catalog/domain"
)

// ListProductsQuery represents the query for the full catalog of an org.
type ListProductsQuery struct {
	OrgID string
}

// ListProductsHandler handles list products queries.
type ListProductsHandler struct {
	repo domain.Repository
}

func NewListProductsHandler(repo domain.Repository) *ListProductsHandler {
	return &ListProductsHandler{repo: repo}
}

// Handle executes the list products query.
func (h *ListProductsHandler) Handle(ctx context.Context, q ListProductsQuery) ([]domain.Product, error) {
	if q.OrgID == "" {
		return nil, fmt.Errorf("org id is required")
	}

	products, err := h.repo.List(ctx, q.OrgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}
