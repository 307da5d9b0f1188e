package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"records-web-server/internal/model"
	"records-web-server/internal/model/requestresponse"
	"records-web-server/internal/ports"
	"records-web-server/internal/repository"
	"records-web-server/internal/security"
	"records-web-server/internal/util"
)

type RecordHandler struct {
	ports.RecordService
}

func NewRecordHandler(recordService ports.RecordService) *RecordHandler {
	return &RecordHandler{recordService}
}

// parseInt64Param : числовой query-параметр, nil если не задан
func parseInt64Param(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, &model.ValidationError{Field: name, Message: "ожидается целое число"}
	}
	return &value, nil
}

// ListRecords : GET /api/records/{family}
// Фильтры конъюнктивные: все заданные объединяются через AND.
func (h *RecordHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	query := r.URL.Query()
	params := model.ListParams{
		SortBy:    query.Get("sort"),
		SortOrder: query.Get("order"),
	}

	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			util.HandleError(w, "page: ожидается целое число", http.StatusBadRequest)
			return
		}
		params.Page = page
	}
	if raw := query.Get("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			util.HandleError(w, "size: ожидается целое число", http.StatusBadRequest)
			return
		}
		params.Size = size
	}

	for name, target := range map[string]**int64{
		"statut_id":   &params.StatusID,
		"owner_id":    &params.OwnerID,
		"category_id": &params.SectionCategoryID,
		"doc_id":      &params.DocumentID,
	} {
		value, err := parseInt64Param(r, name)
		if err != nil {
			util.HandleServiceError(w, err)
			return
		}
		*target = value
	}

	if search := query.Get("search"); search != "" {
		params.Search = &search
	}
	if raw := query.Get("expiring_within_days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			util.HandleError(w, "expiring_within_days: ожидается целое число", http.StatusBadRequest)
			return
		}
		params.ExpiringWithinDays = &days
	}

	// обычный пользователь видит только собственные записи
	if !claims.IsAdmin {
		params.OwnerID = &claims.AccountID
	}

	response, err := h.RecordService.ListRecords(ctx, chi.URLParam(r, "family"), params)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// GetRecord : GET /api/records/{family}/{id}
func (h *RecordHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
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

	record, err := h.RecordService.GetRecord(ctx, chi.URLParam(r, "family"), id, claims.AccountID, claims.IsAdmin)
	if errors.Is(err, repository.ErrNotFound) {
		util.HandleError(w, "запись не найдена", http.StatusNotFound)
		return
	}
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(record)
}

// CreateRecord : POST /api/records/{family}
func (h *RecordHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	var request requestresponse.CreateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	response, err := h.RecordService.CreateRecord(ctx, chi.URLParam(r, "family"), claims.AccountID, &request)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)
}

// UpdateRecord : PUT /api/records/{family}/{id}
func (h *RecordHandler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
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

	var request requestresponse.UpdateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	record, err := h.RecordService.UpdateRecord(ctx, chi.URLParam(r, "family"), id, claims.AccountID, claims.IsAdmin, &request)
	if errors.Is(err, repository.ErrNotFound) {
		util.HandleError(w, "запись не найдена", http.StatusNotFound)
		return
	}
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(record)
}

// DeleteRecord : DELETE /api/records/{family}/{id} — логическое удаление
func (h *RecordHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
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

	err = h.RecordService.DeleteRecord(ctx, chi.URLParam(r, "family"), id, claims.AccountID, claims.IsAdmin)
	if errors.Is(err, repository.ErrNotFound) {
		util.HandleError(w, "запись не найдена", http.StatusNotFound)
		return
	}
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
