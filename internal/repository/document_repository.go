package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"records-web-server/config"
	"records-web-server/internal/model"
)

// documentColumns — единый список столбцов таблицы files для SELECT-запросов
const documentColumns = `id, file_name, original_file_name, content_type, file_size,
	file_path, owner_id, status, expiry_date, expiry_alert_sent, version, active,
	created_at, updated_at`

type DocumentRepository struct {
	*config.Database
}

func NewDocumentRepository(database *config.Database) *DocumentRepository {
	return &DocumentRepository{database}
}

// Create : сохраняем новый документ, БД выдаёт id и таймстампы
func (r *DocumentRepository) Create(ctx context.Context, exec sqlx.ExtContext, document *model.Document) error {
	query := `
		INSERT INTO files (file_name, original_file_name, content_type, file_size,
			file_path, owner_id, status, expiry_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, version, created_at, updated_at
	`
	row := exec.QueryRowxContext(
		ctx,
		query,
		document.FileName,
		document.OriginalFileName,
		document.ContentType,
		document.FileSize,
		document.FilePath,
		document.OwnerID,
		document.Status,
		document.ExpiryDate,
	)
	return row.Scan(&document.ID, &document.Version, &document.CreatedAt, &document.UpdatedAt)
}

// GetByID : возвращает активный документ, логически удалённые невидимы
func (r *DocumentRepository) GetByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*model.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM files WHERE id = $1 AND active = TRUE`

	var document model.Document
	if err := sqlx.GetContext(ctx, exec, &document, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &document, nil
}

// GetByIDIncludingDeleted : прямой поиск по id для аудита — единственная
// выборка без фильтра active
func (r *DocumentRepository) GetByIDIncludingDeleted(ctx context.Context, exec sqlx.ExtContext, id int64) (*model.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM files WHERE id = $1`

	var document model.Document
	if err := sqlx.GetContext(ctx, exec, &document, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &document, nil
}

// UpdateExpiry : переносит срок действия с защитой по version.
// Если новый срок в будущем — сбрасываем expiry_alert_sent, чтобы после
// переноса не остался висеть флаг "уже оповещён".
func (r *DocumentRepository) UpdateExpiry(ctx context.Context, exec sqlx.ExtContext, id int64, version int, expiry *time.Time) error {
	query := `
		UPDATE files
		SET expiry_date = $3,
		    expiry_alert_sent = CASE
		        WHEN $3::timestamptz IS NOT NULL AND $3::timestamptz > NOW() THEN FALSE
		        ELSE expiry_alert_sent
		    END,
		    version = version + 1,
		    updated_at = NOW()
		WHERE id = $1 AND version = $2 AND active = TRUE
	`
	result, err := exec.ExecContext(ctx, query, id, version, expiry)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrVersionConflict
	}
	return nil
}

// SoftDelete : логическое удаление, физическое удаление не предусмотрено
func (r *DocumentRepository) SoftDelete(ctx context.Context, exec sqlx.ExtContext, id int64) error {
	query := `
		UPDATE files
		SET active = FALSE, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND active = TRUE
	`
	result, err := exec.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAlertCandidates : документы внутри окна оповещения, ещё не оповещённые
func (r *DocumentRepository) ListAlertCandidates(ctx context.Context, exec sqlx.ExtContext, now time.Time, window time.Duration) ([]model.Document, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM files
		WHERE status = 'ACTIVE' AND active = TRUE
		  AND expiry_alert_sent = FALSE
		  AND expiry_date IS NOT NULL
		  AND expiry_date >= $1 AND expiry_date <= $2
		ORDER BY expiry_date ASC
	`
	documents := []model.Document{}
	if err := sqlx.SelectContext(ctx, exec, &documents, query, now, now.Add(window)); err != nil {
		return nil, err
	}
	return documents, nil
}

// ListOverdue : активные документы с прошедшим сроком действия
func (r *DocumentRepository) ListOverdue(ctx context.Context, exec sqlx.ExtContext, now time.Time) ([]model.Document, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM files
		WHERE status = 'ACTIVE' AND active = TRUE
		  AND expiry_date IS NOT NULL
		  AND expiry_date < $1
		ORDER BY expiry_date ASC
	`
	documents := []model.Document{}
	if err := sqlx.SelectContext(ctx, exec, &documents, query, now); err != nil {
		return nil, err
	}
	return documents, nil
}

// MarkAlertSent : выставляет флаг оповещения ровно один раз.
// Условие по version и по самому флагу: при конкурентном изменении
// ноль затронутых строк — ErrVersionConflict, вызывающий пропускает документ.
func (r *DocumentRepository) MarkAlertSent(ctx context.Context, exec sqlx.ExtContext, id int64, version int) error {
	query := `
		UPDATE files
		SET expiry_alert_sent = TRUE, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
		  AND expiry_alert_sent = FALSE AND active = TRUE
	`
	result, err := exec.ExecContext(ctx, query, id, version)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrVersionConflict
	}
	return nil
}

// MarkExpired : переход ACTIVE -> EXPIRED, монотонный — условие по статусу
// гарантирует, что EXPIRED назад не откатывается
func (r *DocumentRepository) MarkExpired(ctx context.Context, exec sqlx.ExtContext, id int64, version int) error {
	query := `
		UPDATE files
		SET status = 'EXPIRED', version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
		  AND status = 'ACTIVE' AND active = TRUE
	`
	result, err := exec.ExecContext(ctx, query, id, version)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrVersionConflict
	}
	return nil
}

func (r *DocumentRepository) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	return tx, func() error { return tx.Rollback() }, func() error { return tx.Commit() }, nil
}
