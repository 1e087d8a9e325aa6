//go:build wireinject
// +build wireinject

package http

import (
	"github.com/google/wire"

	"github.com/luckyfood/stockpilot/internal/catalog"
	"github.com/luckyfood/stockpilot/internal/docstore"
	"github.com/luckyfood/stockpilot/internal/inventory"
	invquery "github.com/luckyfood/stockpilot/internal/inventory/usecase/query"
	"github.com/luckyfood/stockpilot/internal/recommend"
)

// InitializeHTTPHandler initializes the recommendation HTTP handler with
// all dependencies.
func InitializeHTTPHandler(store docstore.Store, hub *docstore.Hub) (*RecommendHandler, error) {
	wire.Build(
		catalog.RepositorySet,
		inventory.RepositorySet,
		recommend.NewEngine,
		invquery.NewCombinedViewHandler,
		NewRecommendHandler,
	)
	return nil, nil
}
