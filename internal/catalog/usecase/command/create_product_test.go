package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luckyfood/stockpilot/internal/catalog/domain"
	"github.com/luckyfood/stockpilot/kafka"
)

type fakeRepo struct {
	created  []domain.ProductForm
	bulked   [][]domain.ProductForm
	lastOrg  string
	products []domain.Product
}

func (f *fakeRepo) Create(_ context.Context, orgID string, form domain.ProductForm) (*domain.Product, error) {
	f.lastOrg = orgID
	f.created = append(f.created, form)
	return &domain.Product{ID: "p1", Name: form.Name, ItemNumber: form.ItemNumber}, nil
}

func (f *fakeRepo) CreateBulk(_ context.Context, orgID string, forms []domain.ProductForm) error {
	f.lastOrg = orgID
	f.bulked = append(f.bulked, forms)
	return nil
}

func (f *fakeRepo) List(context.Context, string) ([]domain.Product, error) {
	return f.products, nil
}

func (f *fakeRepo) Search(context.Context, string, string) ([]domain.Product, error) {
	return f.products, nil
}

func (f *fakeRepo) Subscribe(string, func([]domain.Product)) func() {
	return func() {}
}

type fakePublisher struct {
	events []kafka.ProductCreatedEvent
}

func (f *fakePublisher) PublishProductCreated(_ context.Context, event kafka.ProductCreatedEvent) error {
	f.events = append(f.events, event)
	return nil
}

func validForm() domain.ProductForm {
	return domain.ProductForm{
		Name:            "Frozen Peas",
		ItemNumber:      "A-77",
		ProductType:     domain.ProductTypeFrozen,
		CasesPerPallet:  "48",
		ShelfLifeInDays: "365",
		TargetLabel:     domain.TargetLabelRegular,
		CountryLabel:    domain.CountryLabelUS,
	}
}

func TestCreateProduct(t *testing.T) {
	repo := &fakeRepo{}
	publisher := &fakePublisher{}
	handler := NewCreateProductHandler(repo, publisher)

	product, err := handler.Handle(context.Background(), CreateProductCommand{
		OrgID: "acme",
		Form:  validForm(),
	})
	require.NoError(t, err)
	assert.Equal(t, "p1", product.ID)
	assert.Equal(t, "acme", repo.lastOrg)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, "p1", publisher.events[0].ProductID)
	assert.Equal(t, "acme", publisher.events[0].OrgID)
}

func TestCreateProductRejectsInvalidEnum(t *testing.T) {
	repo := &fakeRepo{}
	handler := NewCreateProductHandler(repo, nil)

	form := validForm()
	form.ProductType = "Lukewarm"

	_, err := handler.Handle(context.Background(), CreateProductCommand{OrgID: "acme", Form: form})
	assert.Error(t, err)
	assert.Empty(t, repo.created)
}

func TestCreateProductRequiresOrg(t *testing.T) {
	handler := NewCreateProductHandler(&fakeRepo{}, nil)

	_, err := handler.Handle(context.Background(), CreateProductCommand{Form: validForm()})
	assert.Error(t, err)
}

func TestCreateProductsBulkValidatesEveryForm(t *testing.T) {
	repo := &fakeRepo{}
	handler := NewCreateProductsBulkHandler(repo)

	bad := validForm()
	bad.CountryLabel = "Mars"

	err := handler.Handle(context.Background(), CreateProductsBulkCommand{
		OrgID: "acme",
		Forms: []domain.ProductForm{validForm(), bad},
	})
	require.Error(t, err)
	assert.Empty(t, repo.bulked, "invalid form must reject the whole batch")
}

func TestCreateProductsBulk(t *testing.T) {
	repo := &fakeRepo{}
	handler := NewCreateProductsBulkHandler(repo)

	err := handler.Handle(context.Background(), CreateProductsBulkCommand{
		OrgID: "acme",
		Forms: []domain.ProductForm{validForm(), validForm()},
	})
	require.NoError(t, err)
	require.Len(t, repo.bulked, 1)
	assert.Len(t, repo.bulked[0], 2)
}
