package repository

import (
	"context"
	"fmt"

	"github.com/luckyfood/stockpilot/internal/docstore"
	"github.com/luckyfood/stockpilot/internal/inventory/domain"
)

// ErrNotFound mirrors the store's missing-document error for callers that
// do not want to depend on the docstore package.
var ErrNotFound = docstore.ErrNotFound

// DocstoreRepository implements the inventory contract over the document
// store. The derived-quantity invariant lives here: any write that carries
// lots also carries the recomputed quantity, in the same merge.
type DocstoreRepository struct {
	store docstore.Store
	hub   *docstore.Hub
}

func NewDocstoreRepository(store docstore.Store, hub *docstore.Hub) *DocstoreRepository {
	return &DocstoreRepository{store: store, hub: hub}
}

func (r *DocstoreRepository) path(orgID string) string {
	return docstore.CollectionPath(orgID, docstore.CollectionInventory)
}

func (r *DocstoreRepository) Create(ctx context.Context, orgID string, form domain.InventoryForm) (*domain.InventoryItem, error) {
	fields, err := docstore.Encode(form)
	if err != nil {
		return nil, err
	}
	quantity := domain.SumLots(form.Lots)
	fields["quantity"] = quantity
	fields["totalSales"] = 0

	id, err := r.store.Create(ctx, r.path(orgID), fields)
	if err != nil {
		return nil, fmt.Errorf("failed to create inventory item: %w", err)
	}

	return &domain.InventoryItem{
		ID:           id,
		ProductID:    form.ProductID,
		SKU:          form.SKU,
		Lots:         form.Lots,
		Locations:    form.Locations,
		CustomerType: form.CustomerType,
		OnHold:       form.OnHold,
		Quantity:     quantity,
		TotalSales:   0,
	}, nil
}

func (r *DocstoreRepository) Get(ctx context.Context, orgID, itemID string) (*domain.InventoryItem, error) {
	items, err := r.List(ctx, orgID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == itemID {
			return &items[i], nil
		}
	}
	return nil, fmt.Errorf("inventory item %s: %w", itemID, ErrNotFound)
}

func (r *DocstoreRepository) List(ctx context.Context, orgID string) ([]domain.InventoryItem, error) {
	docs, err := r.store.List(ctx, r.path(orgID))
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	return decodeItems(docs)
}

// Update merges partial fields. When lots are among them the quantity is
// recomputed and written in the same merge, never as a second write.
func (r *DocstoreRepository) Update(ctx context.Context, orgID, itemID string, fields map[string]any) error {
	merged, err := withDerivedQuantity(fields)
	if err != nil {
		return err
	}

	if err := r.store.Update(ctx, r.path(orgID), itemID, merged); err != nil {
		return fmt.Errorf("failed to update inventory item %s: %w", itemID, err)
	}
	return nil
}

// BatchUpdate applies the merges exactly as supplied. It does not
// recompute quantity even when an update carries lots; callers that need
// the invariant must go through Update.
func (r *DocstoreRepository) BatchUpdate(ctx context.Context, orgID string, updates []domain.ItemUpdate) error {
	docUpdates := make([]docstore.DocumentUpdate, 0, len(updates))
	for _, update := range updates {
		docUpdates = append(docUpdates, docstore.DocumentUpdate{
			ID:     update.ID,
			Fields: update.Fields,
		})
	}

	if err := r.store.BatchUpdate(ctx, r.path(orgID), docUpdates); err != nil {
		return fmt.Errorf("failed to batch update inventory: %w", err)
	}
	return nil
}

// IncrementTotalSales bumps the sales counter in the store itself, so
// concurrent sale events for one item never lose increments.
func (r *DocstoreRepository) IncrementTotalSales(ctx context.Context, orgID, itemID string, delta int) error {
	if err := r.store.Increment(ctx, r.path(orgID), itemID, "totalSales", delta); err != nil {
		return fmt.Errorf("failed to record %d sold units on item %s: %w", delta, itemID, err)
	}
	return nil
}

func (r *DocstoreRepository) Delete(ctx context.Context, orgID, itemID string) error {
	if err := r.store.Delete(ctx, r.path(orgID), itemID); err != nil {
		return fmt.Errorf("failed to delete inventory item %s: %w", itemID, err)
	}
	return nil
}

func (r *DocstoreRepository) Subscribe(orgID string, onUpdate func([]domain.InventoryItem)) (cancel func()) {
	return r.hub.Subscribe(r.path(orgID), func(docs []docstore.Document) {
		items, err := decodeItems(docs)
		if err != nil {
			items = []domain.InventoryItem{}
		}
		onUpdate(items)
	})
}

func withDerivedQuantity(fields map[string]any) (map[string]any, error) {
	lotsValue, hasLots := fields["lots"]
	if !hasLots {
		return fields, nil
	}

	lots, err := domain.DecodeLots(lotsValue)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		merged[k] = v
	}
	merged["quantity"] = domain.SumLots(lots)
	return merged, nil
}

func decodeItems(docs []docstore.Document) ([]domain.InventoryItem, error) {
	items := make([]domain.InventoryItem, 0, len(docs))
	for _, doc := range docs {
		var item domain.InventoryItem
		if err := doc.Decode(&item); err != nil {
			return nil, err
		}
		item.ID = doc.ID
		items = append(items, item)
	}
	return items, nil
}
