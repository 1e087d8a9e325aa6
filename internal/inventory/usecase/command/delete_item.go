package command

import (
	"context"
	"fmt"

	"github.com/luckyfood/stockpilot/internal/inventory/domain"
	"github.com/luckyfood/stockpilot/kafka"
	"github.com/luckyfood/stockpilot/pkg/logger"
)

// DeleteItemCommand removes one item. Deletion is immediate and
// irreversible; there is no soft delete.
type DeleteItemCommand struct {
	OrgID  string
	ItemID string
}

// DeleteItemHandler handles delete item commands.
type DeleteItemHandler struct {
	repo   domain.Repository
	events InventoryEventPublisher
}

func NewDeleteItemHandler(repo domain.Repository, events InventoryEventPublisher) *DeleteItemHandler {
	return &DeleteItemHandler{repo: repo, events: events}
}

// Handle executes the delete item command.
func (h *DeleteItemHandler) Handle(ctx context.Context, cmd DeleteItemCommand) error {
	if cmd.OrgID == "" {
		return fmt.Errorf("org id is required")
	}
	if cmd.ItemID == "" {
		return fmt.Errorf("item id is required")
	}

	if err := h.repo.Delete(ctx, cmd.OrgID, cmd.ItemID); err != nil {
		return err
	}

	if h.events != nil {
		event := kafka.InventoryChangedEvent{
			EventType: kafka.EventTypeInventoryDeleted,
			OrgID:     cmd.OrgID,
			ItemID:    cmd.ItemID,
		}
		if err := h.events.PublishInventoryChanged(ctx, event); err != nil {
			logger.Error(ctx).Err(err).
				Str("item_id", cmd.ItemID).
				Msg("Failed to publish inventory event")
		}
	}
	return nil
}
