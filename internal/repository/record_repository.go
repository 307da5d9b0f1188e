package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"records-web-server/config"
	"records-web-server/internal/model"
)

// recordColumns — общие столбцы всех таблиц семейств
const recordColumns = `id, doc_id, doneby, statut_id, section_category_id,
	date_time, reference, description, active`

// projectionColumns — плоская форма для списков: скаляры записи плюс
// идентифицирующие поля документа, владельца и статуса
const projectionColumns = `r.id, r.date_time, r.reference, r.description,
	r.doc_id, d.original_file_name AS document_name, d.status AS document_status,
	d.expiry_date AS document_expiry, d.owner_id,
	r.doneby, a.full_name AS doneby_name,
	r.statut_id, s.name AS status_name,
	r.section_category_id, sc.name AS section_category_name`

// recordJoins — присоединения проекции. Документ присоединяется с
// повторной проверкой d.active: без неё удалённый документ просачивался бы
// в выдачу через живую запись.
const recordJoins = `
	JOIN files d ON d.id = r.doc_id AND d.active = TRUE
	JOIN accounts a ON a.id = r.doneby
	JOIN docstatus s ON s.id = r.statut_id
	LEFT JOIN section_category sc ON sc.id = r.section_category_id`

// likeEscaper — экранирование метасимволов LIKE в пользовательском поиске
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// RecordRepository — единый движок выборок для всех семейств записей.
// Имя таблицы берётся из статического реестра model.RecordFamilies,
// пользовательский ввод в SQL-текст не попадает.
type RecordRepository struct {
	*config.Database
}

func NewRecordRepository(database *config.Database) *RecordRepository {
	return &RecordRepository{database}
}

// List : страница проекций + общее количество по тем же фильтрам
func (r *RecordRepository) List(ctx context.Context, exec sqlx.ExtContext, family model.RecordFamily, params model.ListParams) ([]model.RecordProjection, int64, error) {
	where, args := buildListWhere(family, params)
	orderBy := buildOrderBy(family, params.SortBy, params.SortOrder)

	argNum := len(args) + 1
	dataQuery := fmt.Sprintf(
		`SELECT %s FROM %s r %s %s %s LIMIT $%d OFFSET $%d`,
		projectionColumns, family.Table, recordJoins, where, orderBy, argNum, argNum+1,
	)
	dataArgs := append(append([]interface{}{}, args...), params.Size, params.Page*params.Size)

	projections := []model.RecordProjection{}
	if err := sqlx.SelectContext(ctx, exec, &projections, dataQuery, dataArgs...); err != nil {
		return nil, 0, fmt.Errorf("ошибка выборки записей %s: %w", family.Name, err)
	}

	countQuery := fmt.Sprintf(
		`SELECT COUNT(*) FROM %s r %s %s`,
		family.Table, recordJoins, where,
	)
	var total int64
	if err := sqlx.GetContext(ctx, exec, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчёта записей %s: %w", family.Name, err)
	}

	return projections, total, nil
}

// GetByID : активная запись семейства по id
func (r *RecordRepository) GetByID(ctx context.Context, exec sqlx.ExtContext, family model.RecordFamily, id int64) (*model.Record, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM %s WHERE id = $1 AND active = TRUE`,
		recordColumns, family.Table,
	)

	var record model.Record
	if err := sqlx.GetContext(ctx, exec, &record, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// Create : вставка общих столбцов, специфику семейства заполняют контроллеры
func (r *RecordRepository) Create(ctx context.Context, exec sqlx.ExtContext, family model.RecordFamily, record *model.Record) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (doc_id, doneby, statut_id, section_category_id, date_time, reference, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		family.Table,
	)
	row := exec.QueryRowxContext(
		ctx,
		query,
		record.DocumentID,
		record.DoneByID,
		record.StatusID,
		record.SectionCategoryID,
		record.DateTime,
		record.Reference,
		record.Description,
	)
	return row.Scan(&record.ID)
}

// Update : изменяемые скалярные поля; ссылки doc_id/doneby неизменяемы
func (r *RecordRepository) Update(ctx context.Context, exec sqlx.ExtContext, family model.RecordFamily, record *model.Record) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET reference = $2, description = $3, statut_id = $4, section_category_id = $5
		WHERE id = $1 AND active = TRUE`,
		family.Table,
	)
	result, err := exec.ExecContext(ctx, query,
		record.ID, record.Reference, record.Description, record.StatusID, record.SectionCategoryID)
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

// SoftDelete : логическое удаление записи, документ не трогаем
func (r *RecordRepository) SoftDelete(ctx context.Context, exec sqlx.ExtContext, family model.RecordFamily, id int64) error {
	query := fmt.Sprintf(`UPDATE %s SET active = FALSE WHERE id = $1 AND active = TRUE`, family.Table)

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

// buildListWhere строит WHERE-условие списка. Фильтры конъюнктивные:
// все заданные объединяются через AND. r.active = TRUE добавляется всегда
// (проверка d.active живёт в recordJoins).
func buildListWhere(family model.RecordFamily, params model.ListParams) (string, []interface{}) {
	conditions := []string{"r.active = TRUE"}
	var args []interface{}
	argNum := 1

	if params.StatusID != nil {
		conditions = append(conditions, fmt.Sprintf("r.statut_id = $%d", argNum))
		args = append(args, *params.StatusID)
		argNum++
	}

	if params.OwnerID != nil {
		conditions = append(conditions, fmt.Sprintf("d.owner_id = $%d", argNum))
		args = append(args, *params.OwnerID)
		argNum++
	}

	if params.SectionCategoryID != nil {
		conditions = append(conditions, fmt.Sprintf("r.section_category_id = $%d", argNum))
		args = append(args, *params.SectionCategoryID)
		argNum++
	}

	if params.DocumentID != nil {
		conditions = append(conditions, fmt.Sprintf("r.doc_id = $%d", argNum))
		args = append(args, *params.DocumentID)
		argNum++
	}

	// Поиск — case-insensitive подстрока, OR по текстовым колонкам семейства.
	// Метасимволы LIKE в пользовательском вводе экранируются: "100%" ищет
	// буквальный процент, а не произвольный хвост.
	if params.Search != nil && *params.Search != "" {
		like := make([]string, 0, len(family.SearchColumns))
		for _, column := range family.SearchColumns {
			like = append(like, fmt.Sprintf(`LOWER(%s) LIKE $%d ESCAPE '\'`, column, argNum))
		}
		conditions = append(conditions, "("+strings.Join(like, " OR ")+")")
		args = append(args, "%"+likeEscaper.Replace(strings.ToLower(*params.Search))+"%")
		argNum++
	}

	if params.ExpiringWithinDays != nil {
		conditions = append(conditions, fmt.Sprintf(
			"d.expiry_date IS NOT NULL AND d.expiry_date <= NOW() + make_interval(days => $%d)", argNum))
		args = append(args, *params.ExpiringWithinDays)
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

// buildOrderBy строит ORDER BY по whitelist семейства.
// Неизвестные поля отклоняются сервисом до запроса; здесь остаётся
// только подстановка колонки из реестра.
func buildOrderBy(family model.RecordFamily, sortBy, sortOrder string) string {
	column, ok := family.SortColumns[sortBy]
	if !ok {
		column = "r.date_time"
	}

	direction := "ASC"
	if sortOrder == model.SortDesc {
		direction = "DESC"
	}

	// r.id в хвосте — стабильный порядок при равных значениях,
	// иначе страницы могут пересекаться
	return fmt.Sprintf("ORDER BY %s %s, r.id %s", column, direction, direction)
}
