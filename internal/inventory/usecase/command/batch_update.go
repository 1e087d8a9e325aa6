package command

import (
	"context"
	"fmt"

	"github.com/luckyfood/stockpilot/internal/inventory/domain"
)

// BatchUpdateCommand applies several partial merges as one atomic batch.
type BatchUpdateCommand struct {
	OrgID   string
	Updates []domain.ItemUpdate
}

// BatchUpdateHandler handles batch update commands.
type BatchUpdateHandler struct {
	repo domain.Repository
}

func NewBatchUpdateHandler(repo domain.Repository) *BatchUpdateHandler {
	return &BatchUpdateHandler{repo: repo}
}

// Handle applies the merges all-or-nothing. Unlike the single-item update,
// this path does not recompute quantity when an update carries lots; the
// supplied fields land verbatim.
func (h *BatchUpdateHandler) Handle(ctx context.Context, cmd BatchUpdateCommand) error {
	if cmd.OrgID == "" {
		return fmt.Errorf("org id is required")
	}
	if len(cmd.Updates) == 0 {
		return fmt.Errorf("at least one update is required")
	}
	for i, update := range cmd.Updates {
		if update.ID == "" {
			return fmt.Errorf("update %d: item id is required", i)
		}
		if len(update.Fields) == 0 {
			return fmt.Errorf("update %d: no fields to update", i)
		}
	}

	if err := h.repo.BatchUpdate(ctx, cmd.OrgID, cmd.Updates); err != nil {
		return err
	}
	return nil
}
