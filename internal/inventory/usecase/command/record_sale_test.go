package command

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luckyfood/stockpilot/internal/docstore"
	"github.com/luckyfood/stockpilot/internal/inventory/domain"
	"github.com/luckyfood/stockpilot/kafka"
)

// fakeRepo is an in-memory Repository recording the merges it receives.
type fakeRepo struct {
	mu         sync.Mutex
	items      map[string]domain.InventoryItem
	updates    []map[string]any
	increments []int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[string]domain.InventoryItem)}
}

func (f *fakeRepo) Create(_ context.Context, _ string, form domain.InventoryForm) (*domain.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item := domain.InventoryItem{
		ID:           "i1",
		ProductID:    form.ProductID,
		SKU:          form.SKU,
		Lots:         form.Lots,
		CustomerType: form.CustomerType,
		Quantity:     domain.SumLots(form.Lots),
	}
	f.items[item.ID] = item
	return &item, nil
}

func (f *fakeRepo) Get(_ context.Context, _ string, itemID string) (*domain.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[itemID]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	return &item, nil
}

func (f *fakeRepo) List(context.Context, string) ([]domain.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []domain.InventoryItem
	for _, item := range f.items {
		items = append(items, item)
	}
	return items, nil
}

func (f *fakeRepo) Update(_ context.Context, _ string, itemID string, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[itemID]
	if !ok {
		return docstore.ErrNotFound
	}
	f.updates = append(f.updates, fields)
	if sales, ok := fields["totalSales"].(int); ok {
		item.TotalSales = sales
	}
	f.items[itemID] = item
	return nil
}

func (f *fakeRepo) BatchUpdate(_ context.Context, _ string, updates []domain.ItemUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, update := range updates {
		f.updates = append(f.updates, update.Fields)
	}
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, _ string, itemID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[itemID]; !ok {
		return docstore.ErrNotFound
	}
	delete(f.items, itemID)
	return nil
}

func (f *fakeRepo) IncrementTotalSales(_ context.Context, _ string, itemID string, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[itemID]
	if !ok {
		return docstore.ErrNotFound
	}
	item.TotalSales += delta
	f.items[itemID] = item
	f.increments = append(f.increments, delta)
	return nil
}

func (f *fakeRepo) Subscribe(string, func([]domain.InventoryItem)) func() {
	return func() {}
}

type fakePublisher struct {
	mu     sync.Mutex
	events []kafka.InventoryChangedEvent
}

func (f *fakePublisher) PublishInventoryChanged(_ context.Context, event kafka.InventoryChangedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func seedItem(repo *fakeRepo, item domain.InventoryItem) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.items[item.ID] = item
}

func TestRecordSaleBumpsTotalSalesOnly(t *testing.T) {
	repo := newFakeRepo()
	seedItem(repo, domain.InventoryItem{ID: "i1", SKU: "SKU-1", Quantity: 50, TotalSales: 7})
	handler := NewRecordSaleHandler(repo)

	err := handler.Handle(context.Background(), RecordSaleCommand{
		OrgID:    "acme",
		ItemID:   "i1",
		Quantity: 3,
	})
	require.NoError(t, err)

	require.Len(t, repo.increments, 1)
	assert.Equal(t, 3, repo.increments[0])
	assert.Equal(t, 10, repo.items["i1"].TotalSales)
	// The sale lands as an in-store increment, never as a field merge
	// that could clobber lots or the derived quantity.
	assert.Empty(t, repo.updates)
}

func TestRecordSaleConcurrentEventsLoseNoIncrements(t *testing.T) {
	repo := newFakeRepo()
	seedItem(repo, domain.InventoryItem{ID: "i1", SKU: "SKU-1", TotalSales: 0})
	handler := NewRecordSaleHandler(repo)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = handler.Handle(context.Background(), RecordSaleCommand{
				OrgID:    "acme",
				ItemID:   "i1",
				Quantity: 5,
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 40, repo.items["i1"].TotalSales)
}

func TestRecordSaleRejectsNonPositiveQuantity(t *testing.T) {
	handler := NewRecordSaleHandler(newFakeRepo())

	err := handler.Handle(context.Background(), RecordSaleCommand{
		OrgID:    "acme",
		ItemID:   "i1",
		Quantity: 0,
	})
	assert.Error(t, err)
}

func TestRecordSaleMissingItem(t *testing.T) {
	handler := NewRecordSaleHandler(newFakeRepo())

	err := handler.Handle(context.Background(), RecordSaleCommand{
		OrgID:    "acme",
		ItemID:   "ghost",
		Quantity: 1,
	})
	assert.Error(t, err)
}
