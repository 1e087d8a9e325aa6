package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luckyfood/stockpilot/internal/inventory/domain"
)

func TestUpdateItemStripsIdentityField(t *testing.T) {
	repo := newFakeRepo()
	seedItem(repo, domain.InventoryItem{ID: "i1", SKU: "SKU-1"})
	handler := NewUpdateItemHandler(repo, nil)

	err := handler.Handle(context.Background(), UpdateItemCommand{
		OrgID:  "acme",
		ItemID: "i1",
		Fields: map[string]any{"id": "forged", "onHold": true},
	})
	require.NoError(t, err)

	require.Len(t, repo.updates, 1)
	_, hasID := repo.updates[0]["id"]
	assert.False(t, hasID)
	assert.Equal(t, true, repo.updates[0]["onHold"])
}

func TestUpdateItemRejectsInvalidLots(t *testing.T) {
	repo := newFakeRepo()
	seedItem(repo, domain.InventoryItem{ID: "i1"})
	handler := NewUpdateItemHandler(repo, nil)

	err := handler.Handle(context.Background(), UpdateItemCommand{
		OrgID:  "acme",
		ItemID: "i1",
		Fields: map[string]any{
			"lots": []any{
				map[string]any{"quantity": float64(-4), "expirationDate": "2026-09-01"},
			},
		},
	})
	require.Error(t, err)
	assert.Empty(t, repo.updates)
}

func TestUpdateItemRequiresFields(t *testing.T) {
	handler := NewUpdateItemHandler(newFakeRepo(), nil)

	err := handler.Handle(context.Background(), UpdateItemCommand{
		OrgID:  "acme",
		ItemID: "i1",
	})
	assert.Error(t, err)
}

func TestUpdateItemPublishesChangedEvent(t *testing.T) {
	repo := newFakeRepo()
	seedItem(repo, domain.InventoryItem{ID: "i1", SKU: "SKU-1", Quantity: 12})
	events := &fakePublisher{}
	handler := NewUpdateItemHandler(repo, events)

	err := handler.Handle(context.Background(), UpdateItemCommand{
		OrgID:  "acme",
		ItemID: "i1",
		Fields: map[string]any{"onHold": true},
	})
	require.NoError(t, err)

	require.Len(t, events.events, 1)
	assert.Equal(t, "i1", events.events[0].ItemID)
	assert.Equal(t, "SKU-1", events.events[0].SKU)
}

func TestBatchUpdateValidatesEveryEntry(t *testing.T) {
	repo := newFakeRepo()
	handler := NewBatchUpdateHandler(repo)

	err := handler.Handle(context.Background(), BatchUpdateCommand{
		OrgID: "acme",
		Updates: []domain.ItemUpdate{
			{ID: "i1", Fields: map[string]any{"onHold": true}},
			{ID: "", Fields: map[string]any{"onHold": false}},
		},
	})
	require.Error(t, err)
	assert.Empty(t, repo.updates, "a rejected batch applies nothing")
}

func TestBatchUpdatePassesMergesThrough(t *testing.T) {
	repo := newFakeRepo()
	handler := NewBatchUpdateHandler(repo)

	err := handler.Handle(context.Background(), BatchUpdateCommand{
		OrgID: "acme",
		Updates: []domain.ItemUpdate{
			{ID: "i1", Fields: map[string]any{
				"lots": []any{
					map[string]any{"quantity": float64(9), "expirationDate": "2026-09-01"},
				},
			}},
		},
	})
	require.NoError(t, err)

	require.Len(t, repo.updates, 1)
	_, hasQuantity := repo.updates[0]["quantity"]
	assert.False(t, hasQuantity, "batch path never derives quantity")
}

func TestCreateItemValidatesForm(t *testing.T) {
	handler := NewCreateItemHandler(newFakeRepo(), nil)

	_, err := handler.Handle(context.Background(), CreateItemCommand{
		OrgID: "acme",
		Form:  domain.InventoryForm{SKU: "SKU-1", CustomerType: domain.CustomerTypeRegular},
	})
	assert.Error(t, err, "productId is required")
}

func TestCreateItemPublishesChangedEvent(t *testing.T) {
	repo := newFakeRepo()
	events := &fakePublisher{}
	handler := NewCreateItemHandler(repo, events)

	item, err := handler.Handle(context.Background(), CreateItemCommand{
		OrgID: "acme",
		Form: domain.InventoryForm{
			ProductID:    "p1",
			SKU:          "SKU-1",
			CustomerType: domain.CustomerTypeRegular,
			Lots:         []domain.Lot{{Quantity: 8, ExpirationDate: "2026-09-01"}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 8, item.Quantity)

	require.Len(t, events.events, 1)
	assert.Equal(t, 8, events.events[0].Quantity)
}
