package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"records-web-server/config"
	"records-web-server/internal/model"
)

// AccountRepository : справочник владельцев. Учётные записи ведёт внешний
// сервис, здесь только чтение для проекций и текста оповещений.
type AccountRepository struct {
	*config.Database
}

func NewAccountRepository(database *config.Database) *AccountRepository {
	return &AccountRepository{database}
}

func (r *AccountRepository) GetByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*model.Account, error) {
	query := `SELECT id, full_name, email, is_admin, active FROM accounts WHERE id = $1 AND active = TRUE`

	var account model.Account
	if err := sqlx.GetContext(ctx, exec, &account, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// RefDataRepository : справочники статусов и категорий + поддержка сидинга
type RefDataRepository struct {
	*config.Database
}

func NewRefDataRepository(database *config.Database) *RefDataRepository {
	return &RefDataRepository{database}
}

// CountStatuses : количество строк справочника — проверка "сид уже применён"
func (r *RefDataRepository) CountStatuses(ctx context.Context, exec sqlx.ExtContext) (int64, error) {
	var count int64
	if err := sqlx.GetContext(ctx, exec, &count, `SELECT COUNT(*) FROM docstatus`); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *RefDataRepository) InsertStatuses(ctx context.Context, exec sqlx.ExtContext, statuses []model.DocStatus) error {
	query := `INSERT INTO docstatus (name, description) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`
	for _, status := range statuses {
		if _, err := exec.ExecContext(ctx, query, status.Name, status.Description); err != nil {
			return err
		}
	}
	return nil
}

func (r *RefDataRepository) CountSectionCategories(ctx context.Context, exec sqlx.ExtContext) (int64, error) {
	var count int64
	if err := sqlx.GetContext(ctx, exec, &count, `SELECT COUNT(*) FROM section_category`); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *RefDataRepository) InsertSectionCategories(ctx context.Context, exec sqlx.ExtContext, categories []model.SectionCategory) error {
	query := `INSERT INTO section_category (code, name) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`
	for _, category := range categories {
		if _, err := exec.ExecContext(ctx, query, category.Code, category.Name); err != nil {
			return err
		}
	}
	return nil
}

// ListStatuses : активные статусы для выпадающих списков контроллеров
func (r *RefDataRepository) ListStatuses(ctx context.Context, exec sqlx.ExtContext) ([]model.DocStatus, error) {
	statuses := []model.DocStatus{}
	query := `SELECT id, name, description, active FROM docstatus WHERE active = TRUE ORDER BY name`
	if err := sqlx.SelectContext(ctx, exec, &statuses, query); err != nil {
		return nil, err
	}
	return statuses, nil
}

func (r *RefDataRepository) ListSectionCategories(ctx context.Context, exec sqlx.ExtContext) ([]model.SectionCategory, error) {
	categories := []model.SectionCategory{}
	query := `SELECT id, code, name, active FROM section_category WHERE active = TRUE ORDER BY name`
	if err := sqlx.SelectContext(ctx, exec, &categories, query); err != nil {
		return nil, err
	}
	return categories, nil
}
