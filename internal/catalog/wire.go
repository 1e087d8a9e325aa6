//go:build wireinject
// +build wireinject

package catalog

import (
	"github.com/google/wire"

	"github.com/luckyfood/stockpilot/internal/catalog/delivery/http"
	"github.com/luckyfood/stockpilot/internal/catalog/usecase/command"
	"github.com/luckyfood/stockpilot/internal/catalog/usecase/query"
	"github.com/luckyfood/stockpilot/internal/docstore"
)

// RepositorySet wires the catalog repository.
var RepositorySet = wire.NewSet(
	ProvideCatalogRepository,
)

// InitializeHTTPHandler initializes the catalog HTTP handler with all
// dependencies.
func InitializeHTTPHandler(store docstore.Store, hub *docstore.Hub, events command.ProductEventPublisher) (*http.ProductHandler, error) {
	wire.Build(
		RepositorySet,
		command.NewCreateProductHandler,
		command.NewCreateProductsBulkHandler,
		query.NewListProductsHandler,
		query.NewSearchProductsHandler,
		http.NewProductHandler,
	)
	return nil, nil
}
