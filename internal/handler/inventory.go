package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dukerupert/larder/internal/auth"
	"github.com/dukerupert/larder/internal/model"
	"github.com/dukerupert/larder/internal/store"
	"github.com/dukerupert/larder/internal/validate"
	ws "github.com/dukerupert/larder/internal/websocket"
)

// InventoryHandler serves one container kind — the same handler type is
// mounted once for the pantry and once for the shopping list.
type InventoryHandler struct {
	kind        model.InventoryKind
	inventories *store.InventoryStore
	hub         *ws.Hub
	logger      *slog.Logger
}

func NewInventoryHandler(kind model.InventoryKind, is *store.InventoryStore, hub *ws.Hub, logger *slog.Logger) *InventoryHandler {
	return &InventoryHandler{kind: kind, inventories: is, hub: hub, logger: logger}
}

type itemRequest struct {
	Name     string  `json:"name"`
	Form     string  `json:"form"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

func (req *itemRequest) validate() *validate.Result {
	return validate.Check(
		validate.Required("name", req.Name),
		validate.Positive("quantity", req.Quantity),
		validate.Required("unit", req.Unit),
	)
}

func (h *InventoryHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.container(w, r)
	if !ok {
		return
	}

	items, err := h.inventories.ListItems(inv.ID)
	if err != nil {
		h.logger.Error("list items", "error", err)
		writeAuthError(w, err)
		return
	}
	if items == nil {
		items = []model.InventoryItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *InventoryHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.container(w, r)
	if !ok {
		return
	}

	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if result := req.validate(); !result.OK() {
		writeValidationErrors(w, result)
		return
	}

	existing, err := h.inventories.FindItem(inv.ID, req.Name, req.Form)
	if err != nil {
		h.logger.Error("find item", "error", err)
		writeAuthError(w, err)
		return
	}
	if existing != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "an item with that name and form already exists"})
		return
	}

	item, err := h.inventories.CreateItem(inv.ID, req.Name, req.Form, req.Quantity, req.Unit)
	if err != nil {
		h.logger.Error("create item", "error", err)
		writeAuthError(w, err)
		return
	}

	h.hub.Broadcast(ws.NewMessage(string(h.kind), "created", item.ID))
	writeJSON(w, http.StatusCreated, item)
}

func (h *InventoryHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	inv, item, ok := h.ownedItem(w, r)
	if !ok {
		return
	}

	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if result := req.validate(); !result.OK() {
		writeValidationErrors(w, result)
		return
	}

	// Renaming onto another existing item is a duplicate
	existing, err := h.inventories.FindItem(inv.ID, req.Name, req.Form)
	if err != nil {
		h.logger.Error("find item", "error", err)
		writeAuthError(w, err)
		return
	}
	if existing != nil && existing.ID != item.ID {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "an item with that name and form already exists"})
		return
	}

	updated, err := h.inventories.UpdateItem(item.ID, req.Name, req.Form, req.Quantity, req.Unit)
	if err != nil {
		h.logger.Error("update item", "error", err)
		writeAuthError(w, err)
		return
	}

	h.hub.Broadcast(ws.NewMessage(string(h.kind), "updated", updated.ID))
	writeJSON(w, http.StatusOK, updated)
}

func (h *InventoryHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	_, item, ok := h.ownedItem(w, r)
	if !ok {
		return
	}

	if err := h.inventories.DeleteItem(item.ID); err != nil {
		h.logger.Error("delete item", "error", err)
		writeAuthError(w, err)
		return
	}

	h.hub.Broadcast(ws.NewMessage(string(h.kind), "deleted", item.ID))
	w.WriteHeader(http.StatusNoContent)
}

// container resolves the caller's inventory of this handler's kind.
func (h *InventoryHandler) container(w http.ResponseWriter, r *http.Request) (*model.Inventory, bool) {
	ac, ok := auth.FromContext(r.Context())
	if !ok {
		writeAuthError(w, auth.ErrUnauthorized)
		return nil, false
	}
	inv, err := h.inventories.GetOrCreate(ac.UserID, h.kind)
	if err != nil {
		h.logger.Error("get inventory", "error", err)
		writeAuthError(w, err)
		return nil, false
	}
	return inv, true
}

// ownedItem loads the path item and checks it belongs to the caller's
// container of this kind: 404 for a missing ID, 403 for someone else's.
func (h *InventoryHandler) ownedItem(w http.ResponseWriter, r *http.Request) (*model.Inventory, *model.InventoryItem, bool) {
	inv, ok := h.container(w, r)
	if !ok {
		return nil, nil, false
	}

	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return nil, nil, false
	}

	item, err := h.inventories.GetItemByID(id)
	if err != nil {
		h.logger.Error("get item", "error", err)
		writeAuthError(w, err)
		return nil, nil, false
	}
	if item == nil {
		writeAuthError(w, auth.ErrNotFound)
		return nil, nil, false
	}
	if item.InventoryID != inv.ID {
		writeAuthError(w, auth.ErrForbidden)
		return nil, nil, false
	}
	return inv, item, true
}
