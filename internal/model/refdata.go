package model

import "time"

// Account : минимальная карточка владельца — достаточно для проекций
// списков и для составления текста оповещения. Управление учётными
// записями живёт во внешнем сервисе.
type Account struct {
	ID       int64  `db:"id" json:"id"`
	FullName string `db:"full_name" json:"full_name"`
	Email    string `db:"email" json:"email"`
	IsAdmin  bool   `db:"is_admin" json:"is_admin"`
	Active   bool   `db:"active" json:"active"`
}

// DocStatus : справочник статусов записей, общий для всех семейств
type DocStatus struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	Active      bool   `db:"active" json:"active"`
}

// SectionCategory : категория раздела для классификации записей
type SectionCategory struct {
	ID     int64  `db:"id" json:"id"`
	Code   string `db:"code" json:"code"`
	Name   string `db:"name" json:"name"`
	Active bool   `db:"active" json:"active"`
}

// ExpiryAlert : содержимое оповещения об истечении срока документа
type ExpiryAlert struct {
	DocumentID int64
	FileName   string
	Recipient  string
	Subject    string
	Body       string
	ExpiryDate time.Time
}
