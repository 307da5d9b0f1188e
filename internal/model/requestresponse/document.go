package requestresponse

import (
	"time"

	"records-web-server/internal/model"
)

// DocumentResponse : метаданные документа с pre-signed GET URL
type DocumentResponse struct {
	ID               int64                `json:"id"`
	OriginalFileName string               `json:"original_file_name"`
	ContentType      string               `json:"content_type"`
	FileSize         int64                `json:"file_size"`
	Status           model.DocumentStatus `json:"status"`
	ExpiryDate       *time.Time           `json:"expiry_date,omitempty"`
	PresignedURL     string               `json:"presigned_url,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
}

// UpdateExpiryRequest : перенос срока действия документа
type UpdateExpiryRequest struct {
	ExpiryDate *time.Time `json:"expiry_date"`
}
