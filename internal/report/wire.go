//go:build wireinject
// +build wireinject

package report

import (
	"github.com/google/wire"

	"github.com/luckyfood/stockpilot/internal/catalog"
	"github.com/luckyfood/stockpilot/internal/docstore"
	"github.com/luckyfood/stockpilot/internal/inventory"
	invquery "github.com/luckyfood/stockpilot/internal/inventory/usecase/query"
	"github.com/luckyfood/stockpilot/internal/report/delivery/http"
	"github.com/luckyfood/stockpilot/internal/report/usecase/query"
)

// InitializeHTTPHandler initializes the report HTTP handler with all
// dependencies.
func InitializeHTTPHandler(store docstore.Store, hub *docstore.Hub) (*http.ReportHandler, error) {
	wire.Build(
		catalog.RepositorySet,
		inventory.RepositorySet,
		query.NewSummaryHandler,
		invquery.NewCombinedViewHandler,
		http.NewReportHandler,
	)
	return nil, nil
}
