package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"records-web-server/internal/model"
)

func LogError(message string, err error) error {
	log.Printf("%s: %v", message, err)
	return fmt.Errorf("%s: %w", message, err)
}

func HandleError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Code    int    `json:"code"`
	}{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}

	json.NewEncoder(w).Encode(errorResponse)
}

// HandleServiceError : ValidationError превращается в 400, ErrAccessDenied
// в 403, остальное — в 500. Ошибки валидации и доступа — вина клиента,
// в лог как сбой системы не пишем.
func HandleServiceError(w http.ResponseWriter, err error) {
	var validationErr *model.ValidationError
	if errors.As(err, &validationErr) {
		HandleError(w, validationErr.Error(), http.StatusBadRequest)
		return
	}
	if errors.Is(err, model.ErrAccessDenied) {
		HandleError(w, model.ErrAccessDenied.Error(), http.StatusForbidden)
		return
	}
	HandleError(w, err.Error(), http.StatusInternalServerError)
}
