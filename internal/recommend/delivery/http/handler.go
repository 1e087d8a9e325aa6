package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	invquery "github.com/luckyfood/stockpilot/internal/inventory/usecase/query"
	"github.com/luckyfood/stockpilot/internal/recommend"
	"github.com/luckyfood/stockpilot/pkg/logger"
)

// RecommendHandler handles HTTP requests for restock recommendations.
type RecommendHandler struct {
	engine          *recommend.Engine
	combinedHandler *invquery.CombinedViewHandler
}

func NewRecommendHandler(engine *recommend.Engine, combinedHandler *invquery.CombinedViewHandler) *RecommendHandler {
	return &RecommendHandler{engine: engine, combinedHandler: combinedHandler}
}

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Recommendations godoc
// @Summary Restock recommendations
// @Description Deterministic restock suggestions derived from the combined view
// @Tags Recommendations
// @Produce json
// @Param orgID path string true "Organization ID"
// @Success 200 {object} Response
// @Router /api/orgs/{orgID}/recommendations [get]
func (h *RecommendHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	orgID := mux.Vars(r)["orgID"]

	rows, err := h.combinedHandler.Handle(r.Context(), invquery.CombinedViewQuery{OrgID: orgID})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to build combined view for recommendations")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to build recommendations",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: h.engine.Recommend(rows)})
}

// RegisterRoutes registers all recommendation routes.
func (h *RecommendHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/orgs/{orgID}/recommendations", h.Recommendations).Methods("GET")
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
