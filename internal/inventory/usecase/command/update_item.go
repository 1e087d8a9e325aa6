package command

import (
	"context"
	"fmt"

	"github.com/luckyfood/stockpilot/internal/inventory/domain"
	"github.com/luckyfood/stockpilot/kafka"
	"github.com/luckyfood/stockpilot/pkg/logger"
)

// UpdateItemCommand applies a partial field merge to one item.
type UpdateItemCommand struct {
	OrgID  string
	ItemID string
	Fields map[string]any
}

// UpdateItemHandler handles update item commands.
type UpdateItemHandler struct {
	repo   domain.Repository
	events InventoryEventPublisher
}

func NewUpdateItemHandler(repo domain.Repository, events InventoryEventPublisher) *UpdateItemHandler {
	return &UpdateItemHandler{repo: repo, events: events}
}

// Handle validates and applies the merge. A lots field is validated lot by
// lot; the repository recomputes quantity in the same merge. The identity
// field is never mergeable.
func (h *UpdateItemHandler) Handle(ctx context.Context, cmd UpdateItemCommand) error {
	if cmd.OrgID == "" {
		return fmt.Errorf("org id is required")
	}
	if cmd.ItemID == "" {
		return fmt.Errorf("item id is required")
	}
	if len(cmd.Fields) == 0 {
		return fmt.Errorf("no fields to update")
	}

	fields := make(map[string]any, len(cmd.Fields))
	for k, v := range cmd.Fields {
		if k == "id" {
			continue
		}
		fields[k] = v
	}

	if lotsValue, ok := fields["lots"]; ok {
		lots, err := domain.DecodeLots(lotsValue)
		if err != nil {
			return err
		}
		for i, lot := range lots {
			if err := lot.Validate(); err != nil {
				return fmt.Errorf("lot %d: %w", i, err)
			}
		}
	}

	if err := h.repo.Update(ctx, cmd.OrgID, cmd.ItemID, fields); err != nil {
		return err
	}

	if h.events != nil {
		if item, err := h.repo.Get(ctx, cmd.OrgID, cmd.ItemID); err == nil {
			event := kafka.InventoryChangedEvent{
				OrgID:    cmd.OrgID,
				ItemID:   item.ID,
				SKU:      item.SKU,
				Quantity: item.Quantity,
			}
			if err := h.events.PublishInventoryChanged(ctx, event); err != nil {
				logger.Error(ctx).Err(err).
					Str("item_id", item.ID).
					Msg("Failed to publish inventory event")
			}
		}
	}
	return nil
}
