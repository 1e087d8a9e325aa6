package command

import (
	"context"
	"fmt"

	"github.com/luckyfood/stockpilot/internal/catalog/domain"
	"github.com/luckyfood/stockpilot/kafka"
	"github.com/luckyfood/stockpilot/pkg/logger"
)

// ProductEventPublisher publishes catalog events. Nil disables publishing.
type ProductEventPublisher interface {
	PublishProductCreated(ctx context.Context, event kafka.ProductCreatedEvent) error
}

// CreateProductCommand represents the command to create a product.
type CreateProductCommand struct {
	OrgID string
	Form  domain.ProductForm
}

// CreateProductHandler handles create product commands.
type CreateProductHandler struct {
	repo   domain.Repository
	events ProductEventPublisher
}

func NewCreateProductHandler(repo domain.Repository, events ProductEventPublisher) *CreateProductHandler {
	return &CreateProductHandler{repo: repo, events: events}
}

// Handle executes the create product command.
func (h *CreateProductHandler) Handle(ctx context.Context, cmd CreateProductCommand) (*domain.Product, error) {
	if cmd.OrgID == "" {
		return nil, fmt.Errorf("org id is required")
	}
	if err := cmd.Form.Validate(); err != nil {
		return nil, err
	}

	product, err := h.repo.Create(ctx, cmd.OrgID, cmd.Form)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	if h.events != nil {
		event := kafka.ProductCreatedEvent{
			OrgID:      cmd.OrgID,
			ProductID:  product.ID,
			Name:       product.Name,
			ItemNumber: product.ItemNumber,
		}
		if err := h.events.PublishProductCreated(ctx, event); err != nil {
			logger.Error(ctx).Err(err).
				Str("product_id", product.ID).
				Msg("Failed to publish product.created event")
		}
	}

	return product, nil
}
