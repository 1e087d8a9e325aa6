package catalog

import (
	"github.com/luckyfood/stockpilot/internal/catalog/domain"
	"github.com/luckyfood/stockpilot/internal/catalog/repository"
	"github.com/luckyfood/stockpilot/internal/docstore"
)

// ProvideCatalogRepository provides the catalog repository.
func ProvideCatalogRepository(store docstore.Store, hub *docstore.Hub) domain.Repository {
	return repository.NewDocstoreRepository(store, hub)
}
