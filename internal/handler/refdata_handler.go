package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"records-web-server/internal/ports"
	"records-web-server/internal/util"
)

type RefDataHandler struct {
	ports.RefDataService
}

func NewRefDataHandler(refDataService ports.RefDataService) *RefDataHandler {
	return &RefDataHandler{refDataService}
}

// ListStatuses : GET /api/refdata/statuses
func (h *RefDataHandler) ListStatuses(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	statuses, err := h.RefDataService.ListStatuses(ctx)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(statuses)
}

// ListSectionCategories : GET /api/refdata/categories
func (h *RefDataHandler) ListSectionCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	categories, err := h.RefDataService.ListSectionCategories(ctx)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(categories)
}
