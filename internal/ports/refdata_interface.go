package ports

import (
	"context"

	"github.com/jmoiron/sqlx"

	"records-web-server/internal/model"
)

// RefDataRepository : справочники статусов и категорий.
// Count-методы нужны сидеру: признак "уже применён" живёт в самой БД,
// а не в глобальном флаге процесса.
type RefDataRepository interface {
	CountStatuses(ctx context.Context, exec sqlx.ExtContext) (int64, error)
	InsertStatuses(ctx context.Context, exec sqlx.ExtContext, statuses []model.DocStatus) error
	CountSectionCategories(ctx context.Context, exec sqlx.ExtContext) (int64, error)
	InsertSectionCategories(ctx context.Context, exec sqlx.ExtContext, categories []model.SectionCategory) error
	ListStatuses(ctx context.Context, exec sqlx.ExtContext) ([]model.DocStatus, error)
	ListSectionCategories(ctx context.Context, exec sqlx.ExtContext) ([]model.SectionCategory, error)
}

// RefDataService : чтение справочников для контроллеров
type RefDataService interface {
	ListStatuses(ctx context.Context) ([]model.DocStatus, error)
	ListSectionCategories(ctx context.Context) ([]model.SectionCategory, error)
}
