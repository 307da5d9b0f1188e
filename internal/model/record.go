package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrAccessDenied — объект принадлежит другому владельцу.
// Администратору доступны все объекты, остальным — только собственные.
var ErrAccessDenied = errors.New("доступ запрещён")

// Record : общая часть записи любого семейства документов.
// Каждая запись ссылается ровно на один Document (физический файл),
// один Account (doneBy) и один DocStatus. Специфичные для семейства
// колонки остаются в таблице, но ядром не читаются.
type Record struct {
	ID                int64     `db:"id" json:"id"`
	DocumentID        int64     `db:"doc_id" json:"doc_id"`
	DoneByID          int64     `db:"doneby" json:"doneby"`
	StatusID          int64     `db:"statut_id" json:"statut_id"`
	SectionCategoryID *int64    `db:"section_category_id" json:"section_category_id,omitempty"`
	DateTime          time.Time `db:"date_time" json:"date_time"`
	Reference         string    `db:"reference" json:"reference"`
	Description       string    `db:"description" json:"description"`
	Active            bool      `db:"active" json:"active"`
}

// RecordProjection : плоская форма для списков — скалярные поля записи
// плюс минимум идентифицирующих полей документа, владельца и статуса.
// Полный граф не загружаем, чтобы не тянуть лишнее при отрисовке списков.
type RecordProjection struct {
	ID                  int64          `db:"id" json:"id"`
	DateTime            time.Time      `db:"date_time" json:"date_time"`
	Reference           string         `db:"reference" json:"reference"`
	Description         string         `db:"description" json:"description"`
	DocumentID          int64          `db:"doc_id" json:"doc_id"`
	DocumentName        string         `db:"document_name" json:"document_name"`
	DocumentStatus      DocumentStatus `db:"document_status" json:"document_status"`
	DocumentExpiry      *time.Time     `db:"document_expiry" json:"document_expiry,omitempty"`
	OwnerID             int64          `db:"owner_id" json:"owner_id"`
	DoneByID            int64          `db:"doneby" json:"doneby"`
	DoneByName          string         `db:"doneby_name" json:"doneby_name"`
	StatusID            int64          `db:"statut_id" json:"statut_id"`
	StatusName          string         `db:"status_name" json:"status_name"`
	SectionCategoryID   *int64         `db:"section_category_id" json:"section_category_id,omitempty"`
	SectionCategoryName *string        `db:"section_category_name" json:"section_category_name,omitempty"`
}

// RecordFamily : метаданные одного семейства записей.
// Единый движок выборок параметризуется этой структурой вместо
// дублирования одинаковых запросов по каждому семейству.
type RecordFamily struct {
	// Name — имя семейства в URL и логах
	Name string
	// Table — таблица семейства в БД
	Table string
	// SearchColumns — текстовые колонки для case-insensitive поиска (OR)
	SearchColumns []string
	// SortColumns — whitelist сортировки: внешнее имя -> колонка.
	// Всё, чего нет в map, отклоняется до запроса (защита от инъекций
	// через динамический ORDER BY).
	SortColumns map[string]string
}

// commonSortColumns — поля сортировки, общие для всех семейств
func commonSortColumns(extra map[string]string) map[string]string {
	cols := map[string]string{
		"id":        "r.id",
		"dateTime":  "r.date_time",
		"reference": "r.reference",
	}
	for k, v := range extra {
		cols[k] = v
	}
	return cols
}

// RecordFamilies — реестр всех семейств записей.
// Ключ — сегмент {family} в URL.
var RecordFamilies = map[string]RecordFamily{
	"insurances": {
		Name:          "insurances",
		Table:         "insurances",
		SearchColumns: []string{"r.concerns", "r.coverage", "r.reference"},
		SortColumns:   commonSortColumns(map[string]string{"dateValidity": "r.date_validity"}),
	},
	"construction-permits": {
		Name:          "construction-permits",
		Table:         "construction_permits",
		SearchColumns: []string{"r.reference", "r.description"},
		SortColumns:   commonSortColumns(nil),
	},
	"concession-agreements": {
		Name:          "concession-agreements",
		Table:         "concession_agreements",
		SearchColumns: []string{"r.reference", "r.description", "r.counterparty"},
		SortColumns:   commonSortColumns(map[string]string{"counterparty": "r.counterparty"}),
	},
	"certificates-licenses": {
		Name:          "certificates-licenses",
		Table:         "certificates_licenses",
		SearchColumns: []string{"r.reference", "r.description", "r.issuer"},
		SortColumns:   commonSortColumns(map[string]string{"issuer": "r.issuer"}),
	},
	"third-party-claims": {
		Name:          "third-party-claims",
		Table:         "third_party_claims",
		SearchColumns: []string{"r.reference", "r.description", "r.claimant"},
		SortColumns:   commonSortColumns(nil),
	},
	"litigation-followups": {
		Name:          "litigation-followups",
		Table:         "litigation_followups",
		SearchColumns: []string{"r.reference", "r.description"},
		SortColumns:   commonSortColumns(nil),
	},
	"due-diligences": {
		Name:          "due-diligences",
		Table:         "due_diligences",
		SearchColumns: []string{"r.reference", "r.description"},
		SortColumns:   commonSortColumns(nil),
	},
	"estates": {
		Name:          "estates",
		Table:         "estates",
		SearchColumns: []string{"r.reference", "r.description", "r.location"},
		SortColumns:   commonSortColumns(map[string]string{"location": "r.location"}),
	},
}

// Границы пагинации единые для всех семейств
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Направления сортировки
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// ListParams : параметры выборки списка записей.
// Фильтры конъюнктивные: все заданные условия объединяются через AND.
// nil = фильтр не применяется.
type ListParams struct {
	Page      int
	Size      int
	SortBy    string
	SortOrder string

	StatusID          *int64
	OwnerID           *int64
	SectionCategoryID *int64
	DocumentID        *int64
	Search            *string
	// ExpiringWithinDays — записи, чей документ истекает в ближайшие N дней
	ExpiringWithinDays *int
}

// ValidationError : некорректные параметры запроса.
// Отклоняется до обращения к БД и не считается сбоем системы.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("некорректный параметр %s: %s", e.Field, e.Message)
}
