package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/luckyfood/stockpilot/internal/catalog/domain"
	"github.com/luckyfood/stockpilot/internal/docstore"
)

// DocstoreRepository implements the catalog contract over the document
// store and its snapshot hub.
type DocstoreRepository struct {
	store docstore.Store
	hub   *docstore.Hub
}

func NewDocstoreRepository(store docstore.Store, hub *docstore.Hub) *DocstoreRepository {
	return &DocstoreRepository{store: store, hub: hub}
}

func (r *DocstoreRepository) path(orgID string) string {
	return docstore.CollectionPath(orgID, docstore.CollectionProducts)
}

func (r *DocstoreRepository) Create(ctx context.Context, orgID string, form domain.ProductForm) (*domain.Product, error) {
	fields, err := docstore.Encode(form)
	if err != nil {
		return nil, err
	}

	id, err := r.store.Create(ctx, r.path(orgID), fields)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return &domain.Product{
		ID:              id,
		Name:            form.Name,
		ItemNumber:      form.ItemNumber,
		ProductType:     form.ProductType,
		CasesPerPallet:  form.CasesPerPallet,
		ShelfLifeInDays: form.ShelfLifeInDays,
		TargetLabel:     form.TargetLabel,
		CountryLabel:    form.CountryLabel,
	}, nil
}

func (r *DocstoreRepository) CreateBulk(ctx context.Context, orgID string, forms []domain.ProductForm) error {
	docs := make([]map[string]any, 0, len(forms))
	for _, form := range forms {
		fields, err := docstore.Encode(form)
		if err != nil {
			return err
		}
		docs = append(docs, fields)
	}

	if err := r.store.BatchCreate(ctx, r.path(orgID), docs); err != nil {
		return fmt.Errorf("failed to bulk create products: %w", err)
	}
	return nil
}

func (r *DocstoreRepository) List(ctx context.Context, orgID string) ([]domain.Product, error) {
	docs, err := r.store.List(ctx, r.path(orgID))
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return decodeProducts(docs)
}

// Search runs the name and itemNumber equality lookups concurrently and
// merges the results, keeping each document once.
func (r *DocstoreRepository) Search(ctx context.Context, orgID, keyword string) ([]domain.Product, error) {
	path := r.path(orgID)

	var (
		wg      sync.WaitGroup
		byName  []docstore.Document
		byItem  []docstore.Document
		nameErr error
		itemErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		byName, nameErr = r.store.Query(ctx, path, "name", keyword)
	}()
	go func() {
		defer wg.Done()
		byItem, itemErr = r.store.Query(ctx, path, "itemNumber", keyword)
	}()
	wg.Wait()

	if nameErr != nil {
		return nil, fmt.Errorf("failed to search products by name: %w", nameErr)
	}
	if itemErr != nil {
		return nil, fmt.Errorf("failed to search products by itemNumber: %w", itemErr)
	}

	seen := make(map[string]struct{}, len(byName)+len(byItem))
	merged := make([]docstore.Document, 0, len(byName)+len(byItem))
	for _, doc := range append(byName, byItem...) {
		if _, dup := seen[doc.ID]; dup {
			continue
		}
		seen[doc.ID] = struct{}{}
		merged = append(merged, doc)
	}

	return decodeProducts(merged)
}

func (r *DocstoreRepository) Subscribe(orgID string, onUpdate func([]domain.Product)) (cancel func()) {
	return r.hub.Subscribe(r.path(orgID), func(docs []docstore.Document) {
		products, err := decodeProducts(docs)
		if err != nil {
			// decoding trouble degrades the same way a feed error does
			products = []domain.Product{}
		}
		onUpdate(products)
	})
}

func decodeProducts(docs []docstore.Document) ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(docs))
	for _, doc := range docs {
		var product domain.Product
		if err := doc.Decode(&product); err != nil {
			return nil, err
		}
		product.ID = doc.ID
		products = append(products, product)
	}
	return products, nil
}
