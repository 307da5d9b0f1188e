package requestresponse

import (
	"time"

	"records-web-server/internal/model"
)

// ListRecordsResponse : страница проекций + общее количество активных строк
type ListRecordsResponse struct {
	Items []model.RecordProjection `json:"items"`
	Total int64                    `json:"total"`
	Page  int                      `json:"page"`
	Size  int                      `json:"size"`
}

// CreateRecordRequest : создание записи вместе с метаданными файла.
// Файл загружается клиентом напрямую в хранилище по выданному PUT URL.
type CreateRecordRequest struct {
	Reference         string     `json:"reference"`
	Description       string     `json:"description"`
	StatusID          int64      `json:"statut_id"`
	SectionCategoryID *int64     `json:"section_category_id,omitempty"`
	FileName          string     `json:"file_name"`
	ContentType       string     `json:"content_type"`
	FileSize          int64      `json:"file_size"`
	ExpiryDate        *time.Time `json:"expiry_date,omitempty"`
}

// CreateRecordResponse : созданная запись и URL для загрузки файла
type CreateRecordResponse struct {
	Record    *model.Record   `json:"record"`
	Document  *model.Document `json:"document"`
	UploadURL string          `json:"upload_url,omitempty"`
}

// UpdateRecordRequest : изменяемые скалярные поля записи
type UpdateRecordRequest struct {
	Reference         *string `json:"reference,omitempty"`
	Description       *string `json:"description,omitempty"`
	StatusID          *int64  `json:"statut_id,omitempty"`
	SectionCategoryID *int64  `json:"section_category_id,omitempty"`
}

// ErrorResponse : тело ответа с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
