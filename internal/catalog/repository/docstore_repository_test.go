package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luckyfood/stockpilot/internal/catalog/domain"
	"github.com/luckyfood/stockpilot/internal/docstore"
)

// fakeStore is an in-memory Store with controllable failures.
type fakeStore struct {
	mu       sync.Mutex
	docs     map[string][]docstore.Document
	nextID   int
	batchErr error
	queryErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: make(map[string][]docstore.Document)}
}

func (f *fakeStore) add(path string, id string, fields map[string]any) {
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
	if f.batchErr != nil {
		return f.batchErr
	}
	for _, fields := range docs {
		f.nextID++
		f.docs[path] = append(f.docs[path], docstore.Document{
			ID:   fmt.Sprintf("doc-%d", f.nextID),
			Data: fields,
		})
	}
	return nil
}

func (f *fakeStore) Update(context.Context, string, string, map[string]any) error {
	return nil
}

func (f *fakeStore) BatchUpdate(context.Context, string, []docstore.DocumentUpdate) error {
	return nil
}

func (f *fakeStore) Delete(context.Context, string, string) error { return nil }

func (f *fakeStore) Increment(context.Context, string, string, string, int) error {
	return nil
}

func (f *fakeStore) Query(_ context.Context, path, field, value string) ([]docstore.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.queryErr != nil {
		return nil, f.queryErr
	}
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

func productFields(name, itemNumber string) map[string]any {
	return map[string]any{
		"name":            name,
		"itemNumber":      itemNumber,
		"productType":     "Frozen",
		"casesPerPallet":  "48",
		"shelfLifeInDays": "365",
		"targetLabel":     "Regular Customer",
		"countryLabel":    "US",
	}
}

func TestSearchDeduplicatesDoubleMatch(t *testing.T) {
	store := newFakeStore()
	path := docstore.CollectionPath("acme", docstore.CollectionProducts)
	// name and itemNumber both equal the keyword
	store.add(path, "p1", productFields("1234", "1234"))

	repo := NewDocstoreRepository(store, docstore.NewHub(store.List))

	products, err := repo.Search(context.Background(), "acme", "1234")
	require.NoError(t, err)
	require.Len(t, products, 1, "a document matching both conditions appears exactly once")
	assert.Equal(t, "p1", products[0].ID)
}

func TestSearchUnionsBothFields(t *testing.T) {
	store := newFakeStore()
	path := docstore.CollectionPath("acme", docstore.CollectionProducts)
	store.add(path, "p1", productFields("Frozen Peas", "A-77"))
	store.add(path, "p2", productFields("K", "B-12"))
	store.add(path, "p3", productFields("Waffles", "K"))

	repo := NewDocstoreRepository(store, docstore.NewHub(store.List))

	products, err := repo.Search(context.Background(), "acme", "K")
	require.NoError(t, err)
	require.Len(t, products, 2)

	ids := map[string]bool{}
	for _, p := range products {
		ids[p.ID] = true
	}
	assert.True(t, ids["p2"])
	assert.True(t, ids["p3"])
}

func TestSearchNoMatches(t *testing.T) {
	store := newFakeStore()
	repo := NewDocstoreRepository(store, docstore.NewHub(store.List))

	products, err := repo.Search(context.Background(), "acme", "nothing")
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestSearchPropagatesQueryFailure(t *testing.T) {
	store := newFakeStore()
	store.queryErr = errors.New("backend unavailable")
	repo := NewDocstoreRepository(store, docstore.NewHub(store.List))

	_, err := repo.Search(context.Background(), "acme", "K")
	assert.Error(t, err)
}

func TestCreateAssignsStoreIdentity(t *testing.T) {
	store := newFakeStore()
	repo := NewDocstoreRepository(store, docstore.NewHub(store.List))

	product, err := repo.Create(context.Background(), "acme", domain.ProductForm{
		Name:            "Frozen Peas",
		ItemNumber:      "A-77",
		ProductType:     domain.ProductTypeFrozen,
		CasesPerPallet:  "48",
		ShelfLifeInDays: "365",
		TargetLabel:     domain.TargetLabelRegular,
		CountryLabel:    domain.CountryLabelUS,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, product.ID)
	assert.Equal(t, "Frozen Peas", product.Name)

	// the stored document must not carry an id field of its own
	path := docstore.CollectionPath("acme", docstore.CollectionProducts)
	docs, err := store.List(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	_, hasID := docs[0].Data["id"]
	assert.False(t, hasID)
}

func TestCreateBulkFailureCommitsNothing(t *testing.T) {
	store := newFakeStore()
	store.batchErr = errors.New("constraint violation")
	repo := NewDocstoreRepository(store, docstore.NewHub(store.List))

	err := repo.CreateBulk(context.Background(), "acme", []domain.ProductForm{
		{Name: "A", ItemNumber: "1"},
		{Name: "B", ItemNumber: "2"},
	})
	require.Error(t, err)

	path := docstore.CollectionPath("acme", docstore.CollectionProducts)
	docs, err := store.List(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, docs, "failed batch must persist no documents")
}
