package inventory

import (
	"github.com/luckyfood/stockpilot/internal/docstore"
	"github.com/luckyfood/stockpilot/internal/inventory/domain"
	"github.com/luckyfood/stockpilot/internal/inventory/repository"
)

// ProvideInventoryRepository provides the inventory repository.
func ProvideInventoryRepository(store docstore.Store, hub *docstore.Hub) domain.Repository {
	return repository.NewDocstoreRepository(store, hub)
}
