//go:build wireinject
// +build wireinject

package inventory

import (
	"github.com/google/wire"

	catalogdomain "github.com/luckyfood/stockpilot/internal/catalog/domain"
	"github.com/luckyfood/stockpilot/internal/docstore"
	"github.com/luckyfood/stockpilot/internal/inventory/delivery/http"
	"github.com/luckyfood/stockpilot/internal/inventory/usecase/command"
	"github.com/luckyfood/stockpilot/internal/inventory/usecase/query"
)

// RepositorySet wires the inventory repository.
var RepositorySet = wire.NewSet(
	ProvideInventoryRepository,
)

// InitializeHTTPHandler initializes the inventory HTTP handler with all
// dependencies.
func InitializeHTTPHandler(store docstore.Store, hub *docstore.Hub, catalog catalogdomain.Repository, events command.InventoryEventPublisher) (*http.InventoryHandler, error) {
	wire.Build(
		RepositorySet,
		command.NewCreateItemHandler,
		command.NewUpdateItemHandler,
		command.NewDeleteItemHandler,
		command.NewBatchUpdateHandler,
		query.NewListItemsHandler,
		query.NewCombinedViewHandler,
		http.NewInventoryHandler,
	)
	return nil, nil
}

// InitializeRecordSaleHandler initializes the sales feed command handler.
func InitializeRecordSaleHandler(store docstore.Store, hub *docstore.Hub) (*command.RecordSaleHandler, error) {
	wire.Build(
		RepositorySet,
		command.NewRecordSaleHandler,
	)
	return nil, nil
}
