package ports

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"records-web-server/internal/model"
)

// DocumentRepository : SQL слой для таблицы files
type DocumentRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, document *model.Document) error
	GetByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*model.Document, error)
	// GetByIDIncludingDeleted — прямой поиск по id для аудита, единственная
	// выборка, которой разрешено видеть active=false
	GetByIDIncludingDeleted(ctx context.Context, exec sqlx.ExtContext, id int64) (*model.Document, error)
	// UpdateExpiry переносит срок действия с защитой по version.
	// Если новый срок в будущем — сбрасывает expiry_alert_sent.
	UpdateExpiry(ctx context.Context, exec sqlx.ExtContext, id int64, version int, expiry *time.Time) error
	SoftDelete(ctx context.Context, exec sqlx.ExtContext, id int64) error

	// Выборки сканера: только ACTIVE и active=true
	ListAlertCandidates(ctx context.Context, exec sqlx.ExtContext, now time.Time, window time.Duration) ([]model.Document, error)
	ListOverdue(ctx context.Context, exec sqlx.ExtContext, now time.Time) ([]model.Document, error)

	// Обновления сканера, условные по version: 0 затронутых строк — ErrVersionConflict
	MarkAlertSent(ctx context.Context, exec sqlx.ExtContext, id int64, version int) error
	MarkExpired(ctx context.Context, exec sqlx.ExtContext, id int64, version int) error

	BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error)
}

// DocumentService : операции над документами для контроллеров.
// requesterID/isAdmin — identity вызывающего: не-администратор работает
// только с собственными документами, иначе model.ErrAccessDenied.
type DocumentService interface {
	GetDocument(ctx context.Context, id int64, requesterID int64, isAdmin bool) (*model.GetDocumentResult, error)
	UpdateExpiry(ctx context.Context, id int64, requesterID int64, isAdmin bool, expiry *time.Time) (*model.Document, error)
	DeleteDocument(ctx context.Context, id int64, requesterID int64, isAdmin bool) error
}
