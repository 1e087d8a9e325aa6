package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	invquery "github.com/luckyfood/stockpilot/internal/inventory/usecase/query"
	"github.com/luckyfood/stockpilot/internal/report/export"
	"github.com/luckyfood/stockpilot/internal/report/usecase/query"
	"github.com/luckyfood/stockpilot/pkg/logger"
)

// ReportHandler handles HTTP requests for reports.
type ReportHandler struct {
	summaryHandler  *query.SummaryHandler
	combinedHandler *invquery.CombinedViewHandler
}

func NewReportHandler(summaryHandler *query.SummaryHandler, combinedHandler *invquery.CombinedViewHandler) *ReportHandler {
	return &ReportHandler{summaryHandler: summaryHandler, combinedHandler: combinedHandler}
}

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Summary godoc
// @Summary Dashboard summary
// @Description Aggregated counts over catalog and inventory
// @Tags Reports
// @Produce json
// @Param orgID path string true "Organization ID"
// @Success 200 {object} Response
// @Router /api/orgs/{orgID}/report/summary [get]
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	orgID := mux.Vars(r)["orgID"]

	summary, err := h.summaryHandler.Handle(r.Context(), query.SummaryQuery{OrgID: orgID})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to build summary")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to build summary",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: summary})
}

// Export godoc
// @Summary Export inventory workbook
// @Description Streams the combined view as an xlsx attachment
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param orgID path string true "Organization ID"
// @Success 200 {file} binary "workbook"
// @Router /api/orgs/{orgID}/report/export [get]
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	orgID := mux.Vars(r)["orgID"]

	rows, err := h.combinedHandler.Handle(r.Context(), invquery.CombinedViewQuery{OrgID: orgID})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to build combined view for export")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to build export",
		})
		return
	}

	filename := fmt.Sprintf("inventory-%s-%s.xlsx", orgID, time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := export.WriteCombinedView(w, rows); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to write workbook")
	}
}

// RegisterRoutes registers all report routes.
func (h *ReportHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/orgs/{orgID}/report/summary", h.Summary).Methods("GET")
	router.HandleFunc("/api/orgs/{orgID}/report/export", h.Export).Methods("GET")
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
