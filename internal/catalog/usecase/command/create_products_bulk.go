package command

import (
	"context"
	"fmt"

	"github.com/luckyfood/stockpilot/internal/catalog/domain"
)

// CreateProductsBulkCommand represents the command to create several
// products as one atomic batch.
type CreateProductsBulkCommand struct {
	OrgID string
	Forms []domain.ProductForm
}

// CreateProductsBulkHandler handles bulk product creation.
type CreateProductsBulkHandler struct {
	repo domain.Repository
}

func NewCreateProductsBulkHandler(repo domain.Repository) *CreateProductsBulkHandler {
	return &CreateProductsBulkHandler{repo: repo}
}

// Handle executes the bulk create command. Any invalid form rejects the
// whole batch before it reaches the store; the store's batch write keeps
// the rest all-or-nothing.
func (h *CreateProductsBulkHandler) Handle(ctx context.Context, cmd CreateProductsBulkCommand) error {
	if cmd.OrgID == "" {
		return fmt.Errorf("org id is required")
	}
	if len(cmd.Forms) == 0 {
		return fmt.Errorf("at least one product is required")
	}
	for i, form := range cmd.Forms {
		if err := form.Validate(); err != nil {
			return fmt.Errorf("product %d: %w", i, err)
		}
	}

	if err := h.repo.CreateBulk(ctx, cmd.OrgID, cmd.Forms); err != nil {
		return fmt.Errorf("failed to bulk create products: %w", err)
	}
	return nil
}
