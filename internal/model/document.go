package model

import "time"

// DocumentStatus : статус жизненного цикла документа
type DocumentStatus string

const (
	// StatusActive — документ действует и может редактироваться
	StatusActive DocumentStatus = "ACTIVE"
	// StatusArchived — документ в архиве, только для чтения
	StatusArchived DocumentStatus = "ARCHIVED"
	// StatusExpired — срок действия документа истёк, переход выполняет только сканер
	StatusExpired DocumentStatus = "EXPIRED"
)

// IsEditable : редактировать можно только ACTIVE документы
func (s DocumentStatus) IsEditable() bool {
	return s == StatusActive
}

// Document : метаданные хранимого файла с полями жизненного цикла.
// Version — счётчик оптимистичной блокировки, увеличивается при каждой записи.
// Active=false означает логическое удаление: такие строки невидимы для всех
// выборок, кроме прямого поиска по id для аудита.
type Document struct {
	ID               int64          `db:"id" json:"id"`
	FileName         string         `db:"file_name" json:"file_name"`
	OriginalFileName string         `db:"original_file_name" json:"original_file_name"`
	ContentType      string         `db:"content_type" json:"content_type"`
	FileSize         int64          `db:"file_size" json:"file_size"`
	FilePath         string         `db:"file_path" json:"file_path"`
	OwnerID          int64          `db:"owner_id" json:"owner_id"`
	Status           DocumentStatus `db:"status" json:"status"`
	ExpiryDate       *time.Time     `db:"expiry_date" json:"expiry_date,omitempty"`
	ExpiryAlertSent  bool           `db:"expiry_alert_sent" json:"expiry_alert_sent"`
	Version          int            `db:"version" json:"version"`
	Active           bool           `db:"active" json:"active"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

// IsExpired : срок действия прошёл относительно now
func (d *Document) IsExpired(now time.Time) bool {
	return d.ExpiryDate != nil && d.ExpiryDate.Before(now)
}

// InAlertWindow : документ внутри окна оповещения [now, now+window]
func (d *Document) InAlertWindow(now time.Time, window time.Duration) bool {
	if d.ExpiryDate == nil {
		return false
	}
	return !d.ExpiryDate.Before(now) && !d.ExpiryDate.After(now.Add(window))
}

// GetDocumentResult : документ вместе с pre-signed GET URL для скачивания
type GetDocumentResult struct {
	Document *Document
	GetURL   string
}
