package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/luckyfood/stockpilot/internal/catalog/domain"
	"github.com/luckyfood/stockpilot/internal/catalog/usecase/command"
	"github.com/luckyfood/stockpilot/internal/catalog/usecase/query"
	"github.com/luckyfood/stockpilot/pkg/logger"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	createHandler *command.CreateProductHandler
	bulkHandler   *command.CreateProductsBulkHandler
	listHandler   *query.ListProductsHandler
	searchHandler *query.SearchProductsHandler
	repo          domain.Repository
}

func NewProductHandler(
	createHandler *command.CreateProductHandler,
	bulkHandler *command.CreateProductsBulkHandler,
	listHandler *query.ListProductsHandler,
	searchHandler *query.SearchProductsHandler,
	repo domain.Repository,
) *ProductHandler {
	return &ProductHandler{
		createHandler: createHandler,
		bulkHandler:   bulkHandler,
		listHandler:   listHandler,
		searchHandler: searchHandler,
		repo:          repo,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ListProducts godoc
// @Summary List products
// @Description Returns the full product catalog of the organization
// @Tags Products
// @Produce json
// @Param orgID path string true "Organization ID"
// @Success 200 {object} Response
// @Router /api/orgs/{orgID}/products [get]
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	orgID := mux.Vars(r)["orgID"]

	products, err := h.listHandler.Handle(r.Context(), query.ListProductsQuery{OrgID: orgID})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list products")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list products",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: products})
}

// CreateProduct godoc
// @Summary Create product
// @Description Creates one product; the store assigns its id
// @Tags Products
// @Accept json
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param product body domain.ProductForm true "Product form"
// @Success 201 {object} Response
// @Failure 400 {object} Response
// @Router /api/orgs/{orgID}/products [post]
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	orgID := mux.Vars(r)["orgID"]

	var form domain.ProductForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	product, err := h.createHandler.Handle(r.Context(), command.CreateProductCommand{
		OrgID: orgID,
		Form:  form,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create product")
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Product created successfully",
		Data:    product,
	})
}

// CreateProductsBulk godoc
// @Summary Bulk create products
// @Description Creates several products in one atomic batch
// @Tags Products
// @Accept json
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param products body []domain.ProductForm true "Product forms"
// @Success 201 {object} Response
// @Failure 400 {object} Response
// @Router /api/orgs/{orgID}/products/bulk [post]
func (h *ProductHandler) CreateProductsBulk(w http.ResponseWriter, r *http.Request) {
	orgID := mux.Vars(r)["orgID"]

	var forms []domain.ProductForm
	if err := json.NewDecoder(r.Body).Decode(&forms); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	err := h.bulkHandler.Handle(r.Context(), command.CreateProductsBulkCommand{
		OrgID: orgID,
		Forms: forms,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to bulk create products")
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: fmt.Sprintf("%d products created successfully", len(forms)),
	})
}

// SearchProducts godoc
// @Summary Search products
// @Description Exact-match search against name and itemNumber
// @Tags Products
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param q query string true "Keyword"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Router /api/orgs/{orgID}/products/search [get]
func (h *ProductHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	orgID := mux.Vars(r)["orgID"]
	keyword := r.URL.Query().Get("q")

	products, err := h.searchHandler.Handle(r.Context(), query.SearchProductsQuery{
		OrgID:   orgID,
		Keyword: keyword,
	})
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: products})
}

// StreamProducts godoc
// @Summary Stream product snapshots
// @Description Server-sent events; each event is the full current catalog
// @Tags Products
// @Produce text/event-stream
// @Param orgID path string true "Organization ID"
// @Success 200 {string} string "event stream"
// @Router /api/orgs/{orgID}/products/stream [get]
func (h *ProductHandler) StreamProducts(w http.ResponseWriter, r *http.Request) {
	orgID := mux.Vars(r)["orgID"]

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Streaming not supported",
		})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	snapshots := make(chan []domain.Product, 1)
	cancel := h.repo.Subscribe(orgID, func(products []domain.Product) {
		select {
		case snapshots <- products:
		case <-r.Context().Done():
		}
	})
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case products := <-snapshots:
			payload, err := json.Marshal(products)
			if err != nil {
				logger.Error(r.Context()).Err(err).Msg("Failed to encode product snapshot")
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

// RegisterRoutes registers all catalog routes.
func (h *ProductHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/orgs/{orgID}/products", h.ListProducts).Methods("GET")
	router.HandleFunc("/api/orgs/{orgID}/products", h.CreateProduct).Methods("POST")
	router.HandleFunc("/api/orgs/{orgID}/products/bulk", h.CreateProductsBulk).Methods("POST")
	router.HandleFunc("/api/orgs/{orgID}/products/search", h.SearchProducts).Methods("GET")
	router.HandleFunc("/api/orgs/{orgID}/products/stream", h.StreamProducts).Methods("GET")
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
