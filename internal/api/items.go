package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/homesync/homesync/internal/chat"
)

type itemPayload struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
}

func handleListItems(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	items, err := deps.Store.ListAll(r.Context())
	if err != nil {
		writeError(r.Context(), w, http.StatusInternalServerError, "STORE_ERROR", err.Error(), true)
		return
	}
	payload := make([]itemPayload, 0, len(items))
	for _, item := range items {
		payload = append(payload, itemPayload{Item: item.Name, Quantity: item.Quantity})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": payload})
}

type updateItemRequest struct {
	Quantity *int `json:"quantity"`
}

// handleUpdateItem is the structured mutation surface. It reuses the
// chat mutation handler so the confirmation strings match across both
// entry points.
func handleUpdateItem(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	itemName := strings.TrimSpace(r.PathValue("item"))
	if itemName == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "item name is required", false)
		return
	}

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "invalid JSON body: "+err.Error(), false)
		return
	}
	if req.Quantity == nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "quantity is required", false)
		return
	}
	if *req.Quantity < 0 {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "quantity must be >= 0", false)
		return
	}

	message := chat.UpdateInventory(r.Context(), deps.Store, itemName, *req.Quantity)
	writeJSON(w, http.StatusOK, map[string]any{
		"item":     itemName,
		"quantity": *req.Quantity,
		"message":  message,
	})
}
