package command

import (
	"context"
	"fmt"

	"github.com/luckyfood/stockpilot/internal/inventory/domain"
)

// RecordSaleCommand bumps an item's totalSales counter from the sales
// feed. It never touches lots or the derived quantity.
type RecordSaleCommand struct {
	OrgID    string
	ItemID   string
	Quantity int
}

// RecordSaleHandler handles sale events from the point-of-sale feed.
type RecordSaleHandler struct {
	repo domain.Repository
}

func NewRecordSaleHandler(repo domain.Repository) *RecordSaleHandler {
	return &RecordSaleHandler{repo: repo}
}

// Handle executes the record sale command.
func (h *RecordSaleHandler) Handle(ctx context.Context, cmd RecordSaleCommand) error {
	if cmd.OrgID == "" {
		return fmt.Errorf("org id is required")
	}
	if cmd.ItemID == "" {
		return fmt.Errorf("item id is required")
	}
	if cmd.Quantity <= 0 {
		return fmt.Errorf("sale quantity must be positive")
	}

	if err := h.repo.IncrementTotalSales(ctx, cmd.OrgID, cmd.ItemID, cmd.Quantity); err != nil {
		return fmt.Errorf("failed to record sale: %w", err)
	}
	return nil
}
