package query

import (
	"context"
	"fmt"

	"github.com/luckyfood/stockpilot/internal/catalog/domain"
)

// SearchProductsQuery represents an exact-match keyword search.
type SearchProductsQuery struct {
	OrgID   string
	Keyword string
}

// SearchProductsHandler handles product search queries.
type SearchProductsHandler struct {
	repo domain.Repository
}

func NewSearchProductsHandler(repo domain.Repository) *SearchProductsHandler {
	return &SearchProductsHandler{repo: repo}
}

// Handle executes the search. Matching is equality on name or itemNumber;
// a product matching both appears once.
func (h *SearchProductsHandler) Handle(ctx context.Context, q SearchProductsQuery) ([]domain.Product, error) {
	if q.OrgID == "" {
		return nil, fmt.Errorf("org id is required")
	}
	if q.Keyword == "" {
		return nil, fmt.Errorf("keyword is required")
	}

	products, err := h.repo.Search(ctx, q.OrgID, q.Keyword)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}
