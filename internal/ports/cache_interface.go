package ports

import (
	"context"

	"records-web-server/internal/model"
)

// CacheRepository : кэш метаданных документов (Redis).
// Инвалидируется при любой мутации документа.
type CacheRepository interface {
	SetDocument(ctx context.Context, document *model.Document) error
	GetDocument(ctx context.Context, id int64) (*model.Document, error)
	DeleteDocument(ctx context.Context, id int64) error
}
