package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/luckyfood/stockpilot/internal/docstore"
	"github.com/luckyfood/stockpilot/internal/inventory/domain"
	"github.com/luckyfood/stockpilot/internal/inventory/usecase/command"
	"github.com/luckyfood/stockpilot/internal/inventory/usecase/query"
	"github.com/luckyfood/stockpilot/pkg/logger"
)

// InventoryHandler handles HTTP requests for inventory items.
type InventoryHandler struct {
	createHandler   *command.CreateItemHandler
	updateHandler   *command.UpdateItemHandler
	deleteHandler   *command.DeleteItemHandler
	batchHandler    *command.BatchUpdateHandler
	listHandler     *query.ListItemsHandler
	combinedHandler *query.CombinedViewHandler
	repo            domain.Repository
}

func NewInventoryHandler(
	createHandler *command.CreateItemHandler,
	updateHandler *command.UpdateItemHandler,
	deleteHandler *command.DeleteItemHandler,
	batchHandler *command.BatchUpdateHandler,
	listHandler *query.ListItemsHandler,
	combinedHandler *query.CombinedViewHandler,
	repo domain.Repository,
) *InventoryHandler {
	return &InventoryHandler{
		createHandler:   createHandler,
		updateHandler:   updateHandler,
		deleteHandler:   deleteHandler,
		batchHandler:    batchHandler,
		listHandler:     listHandler,
		combinedHandler: combinedHandler,
		repo:            repo,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ListItems godoc
// @Summary List inventory items
// @Description Returns every inventory item of the organization
// @Tags Inventory
// @Produce json
// @Param orgID path string true "Organization ID"
// @Success 200 {object} Response
// @Router /api/orgs/{orgID}/inventory [get]
func (h *InventoryHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	orgID := mux.Vars(r)["orgID"]

	items, err := h.listHandler.Handle(r.Context(), query.ListItemsQuery{OrgID: orgID})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list inventory")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list inventory",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: items})
}

// CreateItem godoc
// @Summary Create inventory item
// @Description Creates an item; quantity is derived from its lots and totalSales starts at zero
// @Tags Inventory
// @Accept json
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param item body domain.InventoryForm true "Inventory form"
// @Success 201 {object} Response
// @Failure 400 {object} Response
// @Router /api/orgs/{orgID}/inventory [post]
func (h *InventoryHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	orgID := mux.Vars(r)["orgID"]

	var form domain.InventoryForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	item, err := h.createHandler.Handle(r.Context(), command.CreateItemCommand{
		OrgID: orgID,
		Form:  form,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create inventory item")
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Inventory item created successfully",
		Data:    item,
	})
}

// UpdateItem godoc
// @Summary Update inventory item
// @Description Merges the supplied fields; a lots field recomputes quantity in the same write
// @Tags Inventory
// @Accept json
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param itemID path string true "Item ID"
// @Param fields body object true "Fields to merge"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /api/orgs/{orgID}/inventory/{itemID} [patch]
func (h *InventoryHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orgID := vars["orgID"]
	itemID := vars["itemID"]

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	err := h.updateHandler.Handle(r.Context(), command.UpdateItemCommand{
		OrgID:  orgID,
		ItemID: itemID,
		Fields: fields,
	})
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, Response{
				Success: false,
				Error:   "Inventory item not found",
			})
			return
		}
		logger.Error(r.Context()).Err(err).Msg("Failed to update inventory item")
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Inventory item updated successfully",
	})
}

// DeleteItem godoc
// @Summary Delete inventory item
// @Description Removes the item permanently
// @Tags Inventory
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param itemID path string true "Item ID"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /api/orgs/{orgID}/inventory/{itemID} [delete]
func (h *InventoryHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orgID := vars["orgID"]
	itemID := vars["itemID"]

	err := h.deleteHandler.Handle(r.Context(), command.DeleteItemCommand{
		OrgID:  orgID,
		ItemID: itemID,
	})
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, Response{
				Success: false,
				Error:   "Inventory item not found",
			})
			return
		}
		logger.Error(r.Context()).Err(err).Msg("Failed to delete inventory item")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Inventory item deleted successfully",
	})
}

// BatchUpdate godoc
// @Summary Batch update inventory
// @Description Applies several field merges as one atomic batch; quantity is never recomputed on this path
// @Tags Inventory
// @Accept json
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param updates body []domain.ItemUpdate true "Item updates"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Router /api/orgs/{orgID}/inventory/batch [post]
func (h *InventoryHandler) BatchUpdate(w http.ResponseWriter, r *http.Request) {
	orgID := mux.Vars(r)["orgID"]

	var updates []domain.ItemUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	err := h.batchHandler.Handle(r.Context(), command.BatchUpdateCommand{
		OrgID:   orgID,
		Updates: updates,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to batch update inventory")
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: fmt.Sprintf("%d inventory items updated successfully", len(updates)),
	})
}

// CombinedView godoc
// @Summary Combined inventory view
// @Description Inventory items joined with their catalog products, including the derived pallet count
// @Tags Inventory
// @Produce json
// @Param orgID path string true "Organization ID"
// @Success 200 {object} Response
// @Router /api/orgs/{orgID}/inventory/combined [get]
func (h *InventoryHandler) CombinedView(w http.ResponseWriter, r *http.Request) {
	orgID := mux.Vars(r)["orgID"]

	combined, err := h.combinedHandler.Handle(r.Context(), query.CombinedViewQuery{OrgID: orgID})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to build combined view")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to build combined view",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: combined})
}

// StreamItems godoc
// @Summary Stream inventory snapshots
// @Description Server-sent events; each event is the full current inventory
// @Tags Inventory
// @Produce text/event-stream
// @Param orgID path string true "Organization ID"
// @Success 200 {string} string "event stream"
// @Router /api/orgs/{orgID}/inventory/stream [get]
func (h *InventoryHandler) StreamItems(w http.ResponseWriter, r *http.Request) {
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

	snapshots := make(chan []domain.InventoryItem, 1)
	cancel := h.repo.Subscribe(orgID, func(items []domain.InventoryItem) {
		select {
		case snapshots <- items:
		case <-r.Context().Done():
		}
	})
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case items := <-snapshots:
			payload, err := json.Marshal(items)
			if err != nil {
				logger.Error(r.Context()).Err(err).Msg("Failed to encode inventory snapshot")
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

// RegisterRoutes registers all inventory routes.
func (h *InventoryHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/orgs/{orgID}/inventory", h.ListItems).Methods("GET")
	router.HandleFunc("/api/orgs/{orgID}/inventory", h.CreateItem).Methods("POST")
	router.HandleFunc("/api/orgs/{orgID}/inventory/batch", h.BatchUpdate).Methods("POST")
	router.HandleFunc("/api/orgs/{orgID}/inventory/combined", h.CombinedView).Methods("GET")
	router.HandleFunc("/api/orgs/{orgID}/inventory/stream", h.StreamItems).Methods("GET")
	router.HandleFunc("/api/orgs/{orgID}/inventory/{itemID}", h.UpdateItem).Methods("PATCH")
	router.HandleFunc("/api/orgs/{orgID}/inventory/{itemID}", h.DeleteItem).Methods("DELETE")
}

// RegisterHealthCheck registers the health check endpoint.
func (h *InventoryHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, Response{
				Success: false,
				Error:   "Database unavailable",
			})
			return
		}

		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "StockPilot service is healthy",
		})
	}).Methods("GET")
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
