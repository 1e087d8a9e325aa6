package command

import (
	"context"
	"fmt"

	"github.com/luckyfood/stockpilot/internal/inventory/domain"
	"github.com/luckyfood/stockpilot/kafka"
	"github.com/luckyfood/stockpilot/pkg/logger"
)

// InventoryEventPublisher publishes inventory events. Nil disables
// publishing.
type InventoryEventPublisher interface {
	PublishInventoryChanged(ctx context.Context, event kafka.InventoryChangedEvent) error
}

// CreateItemCommand represents the command to create an inventory item.
type CreateItemCommand struct {
	OrgID string
	Form  domain.InventoryForm
}

// CreateItemHandler handles create item commands.
type CreateItemHandler struct {
	repo   domain.Repository
	events InventoryEventPublisher
}

func NewCreateItemHandler(repo domain.Repository, events InventoryEventPublisher) *CreateItemHandler {
	return &CreateItemHandler{repo: repo, events: events}
}

// Handle executes the create item command. The item's quantity is the sum
// of its lots and totalSales starts at zero.
func (h *CreateItemHandler) Handle(ctx context.Context, cmd CreateItemCommand) (*domain.InventoryItem, error) {
	if cmd.OrgID == "" {
		return nil, fmt.Errorf("org id is required")
	}
	if err := cmd.Form.Validate(); err != nil {
		return nil, err
	}

	item, err := h.repo.Create(ctx, cmd.OrgID, cmd.Form)
	if err != nil {
		return nil, fmt.Errorf("failed to create inventory item: %w", err)
	}

	h.publishChanged(ctx, cmd.OrgID, item, kafka.EventTypeInventoryChanged)
	return item, nil
}

func (h *CreateItemHandler) publishChanged(ctx context.Context, orgID string, item *domain.InventoryItem, eventType string) {
	if h.events == nil {
		return
	}
	event := kafka.InventoryChangedEvent{
		EventType: eventType,
		OrgID:     orgID,
		ItemID:    item.ID,
		SKU:       item.SKU,
		Quantity:  item.Quantity,
	}
	if err := h.events.PublishInventoryChanged(ctx, event); err != nil {
		logger.Error(ctx).Err(err).
			Str("item_id", item.ID).
			Msg("Failed to publish inventory event")
	}
}
