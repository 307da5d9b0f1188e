package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"records-web-server/internal/model/requestresponse"
	"records-web-server/internal/ports"
	"records-web-server/internal/repository"
	"records-web-server/internal/security"
	"records-web-server/internal/util"
)

type DocumentHandler struct {
	ports.DocumentService
}

func NewDocumentHandler(documentService ports.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService}
}

// GetDocument : GET /api/files/{id} — метаданные + pre-signed GET URL
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		util.HandleError(w, "некорректный id", http.StatusBadRequest)
		return
	}

	result, err := h.DocumentService.GetDocument(ctx, id, claims.AccountID, claims.IsAdmin)
	if errors.Is(err, repository.ErrNotFound) {
		util.HandleError(w, "документ не найден", http.StatusNotFound)
		return
	}
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	response := requestresponse.DocumentResponse{
		ID:               result.Document.ID,
		OriginalFileName: result.Document.OriginalFileName,
		ContentType:      result.Document.ContentType,
		FileSize:         result.Document.FileSize,
		Status:           result.Document.Status,
		ExpiryDate:       result.Document.ExpiryDate,
		PresignedURL:     result.GetURL,
		CreatedAt:        result.Document.CreatedAt,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// UpdateExpiry : PUT /api/files/{id}/expiry — перенос срока действия.
// Если новый срок в будущем, флаг "уже оповещён" сбрасывается.
func (h *DocumentHandler) UpdateExpiry(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		util.HandleError(w, "некорректный id", http.StatusBadRequest)
		return
	}

	var request requestresponse.UpdateExpiryRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	document, err := h.DocumentService.UpdateExpiry(ctx, id, claims.AccountID, claims.IsAdmin, request.ExpiryDate)
	if errors.Is(err, repository.ErrNotFound) {
		util.HandleError(w, "документ не найден", http.StatusNotFound)
		return
	}
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(document)
}

// DeleteDocument : DELETE /api/files/{id} — логическое удаление
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		util.HandleError(w, "некорректный id", http.StatusBadRequest)
		return
	}

	err = h.DocumentService.DeleteDocument(ctx, id, claims.AccountID, claims.IsAdmin)
	if errors.Is(err, repository.ErrNotFound) {
		util.HandleError(w, "документ не найден", http.StatusNotFound)
		return
	}
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
