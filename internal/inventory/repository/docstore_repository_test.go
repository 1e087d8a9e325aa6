package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luckyfood/stockpilot/internal/docstore"
	"github.com/luckyfood/stockpilot/internal/inventory/domain"
)

// fakeStore is an in-memory Store that records the merges it receives.
type fakeStore struct {
	mu        sync.Mutex
	docs      map[string][]docstore.Document
	updates   []docstore.DocumentUpdate
	nextID    int
	updateErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: make(map[string][]docstore.Document)}
}

func (f *fakeStore) add(path, id string, fields map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[path] = append(f.docs[path], docstore.Document{ID: id, Data: fields})
}

func (f *fakeStore) Create(_ context.Context, path string, fields map[string]any) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := fmt.Sprintf("doc-%d", f.nextID)
	f.docs[path] = append(f.docs[path], docstore.Document{ID: id, Data: fields})
	return id, nil
}

func (f *fakeStore) BatchCreate(_ context.Context, path string, docs []map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, fields := range docs {
		f.nextID++
		f.docs[path] = append(f.docs[path], docstore.Document{
			ID:   fmt.Sprintf("doc-%d", f.nextID),
			Data: fields,
		})
	}
	return nil
}

func (f *fakeStore) Update(_ context.Context, _ string, id string, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, docstore.DocumentUpdate{ID: id, Fields: fields})
	return nil
}

func (f *fakeStore) BatchUpdate(_ context.Context, _ string, updates []docstore.DocumentUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, updates...)
	return nil
}

func (f *fakeStore) Increment(_ context.Context, path, id, field string, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, doc := range f.docs[path] {
		if doc.ID != id {
			continue
		}
		current, _ := doc.Data[field].(int)
		f.docs[path][i].Data[field] = current + delta
		return nil
	}
	return docstore.ErrNotFound
}

func (f *fakeStore) Delete(_ context.Context, path, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.docs[path][:0]
	found := false
	for _, doc := range f.docs[path] {
		if doc.ID == id {
			found = true
			continue
		}
		kept = append(kept, doc)
	}
	f.docs[path] = kept
	if !found {
		return docstore.ErrNotFound
	}
	return nil
}

func (f *fakeStore) Query(_ context.Context, path, field, value string) ([]docstore.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []docstore.Document
	for _, doc := range f.docs[path] {
		if stored, ok := doc.Data[field].(string); ok && stored == value {
			matched = append(matched, doc)
		}
	}
	return matched, nil
}

func (f *fakeStore) List(_ context.Context, path string) ([]docstore.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]docstore.Document{}, f.docs[path]...), nil
}

func (f *fakeStore) recorded() []docstore.DocumentUpdate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]docstore.DocumentUpdate{}, f.updates...)
}

func newRepo(store *fakeStore) *DocstoreRepository {
	return NewDocstoreRepository(store, docstore.NewHub(store.List))
}

func TestCreateDerivesQuantityAndZeroSales(t *testing.T) {
	store := newFakeStore()
	repo := newRepo(store)

	item, err := repo.Create(context.Background(), "acme", domain.InventoryForm{
		ProductID:    "p1",
		SKU:          "SKU-1",
		CustomerType: domain.CustomerTypeRegular,
		Lots: []domain.Lot{
			{Quantity: 40, ExpirationDate: "2026-10-01"},
			{Quantity: 60, ExpirationDate: "2026-12-01"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 100, item.Quantity)
	assert.Equal(t, 0, item.TotalSales)

	path := docstore.CollectionPath("acme", docstore.CollectionInventory)
	docs, err := store.List(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, 100, docs[0].Data["quantity"])
	assert.Equal(t, 0, docs[0].Data["totalSales"])
}

func TestCreateWithNoLotsHasZeroQuantity(t *testing.T) {
	store := newFakeStore()
	repo := newRepo(store)

	item, err := repo.Create(context.Background(), "acme", domain.InventoryForm{
		ProductID:    "p1",
		SKU:          "SKU-1",
		CustomerType: domain.CustomerTypeWalmart,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, item.Quantity)
}

func TestUpdateWithLotsRecomputesQuantityInSameMerge(t *testing.T) {
	store := newFakeStore()
	repo := newRepo(store)

	err := repo.Update(context.Background(), "acme", "i1", map[string]any{
		"lots": []any{
			map[string]any{"quantity": float64(5), "expirationDate": "2026-09-01"},
			map[string]any{"quantity": float64(7), "expirationDate": "2026-11-15"},
		},
		"onHold": true,
	})
	require.NoError(t, err)

	updates := store.recorded()
	require.Len(t, updates, 1)
	assert.Equal(t, 12, updates[0].Fields["quantity"])
	assert.Equal(t, true, updates[0].Fields["onHold"])
}

func TestUpdateWithoutLotsLeavesQuantityAlone(t *testing.T) {
	store := newFakeStore()
	repo := newRepo(store)

	err := repo.Update(context.Background(), "acme", "i1", map[string]any{
		"locations": []string{"Aisle 4"},
	})
	require.NoError(t, err)

	updates := store.recorded()
	require.Len(t, updates, 1)
	_, hasQuantity := updates[0].Fields["quantity"]
	assert.False(t, hasQuantity, "a lot-free merge must not touch quantity")
}

func TestUpdateRejectsMalformedLots(t *testing.T) {
	store := newFakeStore()
	repo := newRepo(store)

	err := repo.Update(context.Background(), "acme", "i1", map[string]any{
		"lots": "not a list",
	})
	require.Error(t, err)
	assert.Empty(t, store.recorded())
}

func TestBatchUpdateAppliesFieldsVerbatim(t *testing.T) {
	store := newFakeStore()
	repo := newRepo(store)

	err := repo.BatchUpdate(context.Background(), "acme", []domain.ItemUpdate{
		{ID: "i1", Fields: map[string]any{
			"lots": []any{
				map[string]any{"quantity": float64(3), "expirationDate": "2026-09-01"},
			},
		}},
		{ID: "i2", Fields: map[string]any{"onHold": true}},
	})
	require.NoError(t, err)

	updates := store.recorded()
	require.Len(t, updates, 2)
	_, hasQuantity := updates[0].Fields["quantity"]
	assert.False(t, hasQuantity, "batch merges land exactly as supplied")
	assert.Equal(t, true, updates[1].Fields["onHold"])
}

func TestGetReturnsNotFoundForMissingItem(t *testing.T) {
	store := newFakeStore()
	repo := newRepo(store)

	_, err := repo.Get(context.Background(), "acme", "ghost")
	assert.True(t, errors.Is(err, docstore.ErrNotFound))
}

func TestGetFindsItemByID(t *testing.T) {
	store := newFakeStore()
	path := docstore.CollectionPath("acme", docstore.CollectionInventory)
	store.add(path, "i1", map[string]any{
		"productId":  "p1",
		"sku":        "SKU-1",
		"quantity":   float64(25),
		"totalSales": float64(4),
	})
	repo := newRepo(store)

	item, err := repo.Get(context.Background(), "acme", "i1")
	require.NoError(t, err)
	assert.Equal(t, 25, item.Quantity)
	assert.Equal(t, 4, item.TotalSales)
}

func TestIncrementTotalSalesIsNotAFieldMerge(t *testing.T) {
	store := newFakeStore()
	path := docstore.CollectionPath("acme", docstore.CollectionInventory)
	store.add(path, "i1", map[string]any{"sku": "SKU-1", "totalSales": 4})
	repo := newRepo(store)

	require.NoError(t, repo.IncrementTotalSales(context.Background(), "acme", "i1", 3))

	docs, err := store.List(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, 7, docs[0].Data["totalSales"])
	// No merge recorded: the counter moves inside the store, not through
	// a read-modify-write of the document.
	assert.Empty(t, store.recorded())
}

func TestIncrementTotalSalesMissingItem(t *testing.T) {
	store := newFakeStore()
	repo := newRepo(store)

	err := repo.IncrementTotalSales(context.Background(), "acme", "ghost", 1)
	assert.True(t, errors.Is(err, docstore.ErrNotFound))
}

func TestDeleteRemovesDocument(t *testing.T) {
	store := newFakeStore()
	path := docstore.CollectionPath("acme", docstore.CollectionInventory)
	store.add(path, "i1", map[string]any{"sku": "SKU-1"})
	repo := newRepo(store)

	require.NoError(t, repo.Delete(context.Background(), "acme", "i1"))

	docs, err := store.List(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, docs)
}
