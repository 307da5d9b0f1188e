package ports

import (
	"context"

	"github.com/jmoiron/sqlx"

	"records-web-server/internal/model"
	"records-web-server/internal/model/requestresponse"
)

// RecordRepository : единый SQL движок для всех семейств записей.
// Конкретное семейство задаётся метаданными model.RecordFamily.
type RecordRepository interface {
	// List возвращает страницу проекций и общее количество активных строк.
	// active=true накладывается и на запись, и на присоединённый документ.
	List(ctx context.Context, exec sqlx.ExtContext, family model.RecordFamily, params model.ListParams) ([]model.RecordProjection, int64, error)
	GetByID(ctx context.Context, exec sqlx.ExtContext, family model.RecordFamily, id int64) (*model.Record, error)
	Create(ctx context.Context, exec sqlx.ExtContext, family model.RecordFamily, record *model.Record) error
	Update(ctx context.Context, exec sqlx.ExtContext, family model.RecordFamily, record *model.Record) error
	SoftDelete(ctx context.Context, exec sqlx.ExtContext, family model.RecordFamily, id int64) error
}

// RecordService : операции списков/CRUD для контроллеров.
// Видимость записи определяется владельцем её документа: не-администратор
// читает и меняет только записи собственных документов.
type RecordService interface {
	ListRecords(ctx context.Context, familyName string, params model.ListParams) (*requestresponse.ListRecordsResponse, error)
	GetRecord(ctx context.Context, familyName string, id int64, requesterID int64, isAdmin bool) (*model.Record, error)
	CreateRecord(ctx context.Context, familyName string, ownerID int64, req *requestresponse.CreateRecordRequest) (*requestresponse.CreateRecordResponse, error)
	UpdateRecord(ctx context.Context, familyName string, id int64, requesterID int64, isAdmin bool, req *requestresponse.UpdateRecordRequest) (*model.Record, error)
	DeleteRecord(ctx context.Context, familyName string, id int64, requesterID int64, isAdmin bool) error
}
