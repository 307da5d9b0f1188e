package service

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"records-web-server/config"
	"records-web-server/internal/model"
	"records-web-server/internal/model/requestresponse"
	"records-web-server/internal/ports"
	"records-web-server/internal/util"
)

// RecordService : операции списков и CRUD поверх единого движка выборок.
// Одна реализация обслуживает все семейства записей — конкретное семейство
// выбирается по имени из реестра model.RecordFamilies.
type RecordService struct {
	recordRepository   ports.RecordRepository
	documentRepository ports.DocumentRepository
	cacheRepository    ports.CacheRepository
	storageInterface   ports.S3Storage
	ttl                time.Duration
}

func NewRecordService(
	recordRepository ports.RecordRepository,
	documentRepository ports.DocumentRepository,
	cacheRepository ports.CacheRepository,
	storageInterface ports.S3Storage,
	ttl time.Duration,
) *RecordService {
	return &RecordService{
		recordRepository:   recordRepository,
		documentRepository: documentRepository,
		cacheRepository:    cacheRepository,
		storageInterface:   storageInterface,
		ttl:                ttl,
	}
}

// resolveFamily : имя семейства проверяется по реестру до любого запроса
func resolveFamily(familyName string) (model.RecordFamily, error) {
	family, ok := model.RecordFamilies[familyName]
	if !ok {
		return model.RecordFamily{}, &model.ValidationError{
			Field:   "family",
			Message: fmt.Sprintf("неизвестное семейство записей %q", familyName),
		}
	}
	return family, nil
}

// validateListParams : проверка и нормализация параметров выборки.
// Некорректные значения отклоняются до обращения к БД; size молча
// ограничивается максимумом, как и задумано контрактом.
func validateListParams(family model.RecordFamily, params *model.ListParams) error {
	if params.Page < 0 {
		return &model.ValidationError{Field: "page", Message: "номер страницы не может быть отрицательным"}
	}

	if params.Size <= 0 {
		params.Size = model.DefaultPageSize
	}
	if params.Size > model.MaxPageSize {
		params.Size = model.MaxPageSize
	}

	switch params.SortOrder {
	case "":
		params.SortOrder = model.SortAsc
	case model.SortAsc, model.SortDesc:
	default:
		return &model.ValidationError{Field: "order", Message: "допустимы только asc и desc"}
	}

	if params.SortBy == "" {
		params.SortBy = "dateTime"
	}
	if _, ok := family.SortColumns[params.SortBy]; !ok {
		return &model.ValidationError{
			Field:   "sort",
			Message: fmt.Sprintf("поле %q не входит в список допустимых для сортировки", params.SortBy),
		}
	}

	if params.Search != nil {
		trimmed := strings.TrimSpace(*params.Search)
		if trimmed == "" {
			params.Search = nil
		} else {
			params.Search = &trimmed
		}
	}

	if params.ExpiringWithinDays != nil && *params.ExpiringWithinDays < 0 {
		return &model.ValidationError{Field: "expiring_within_days", Message: "количество дней не может быть отрицательным"}
	}

	return nil
}

// ListRecords : страница проекций с конъюнктивным набором фильтров
func (s *RecordService) ListRecords(ctx context.Context, familyName string, params model.ListParams) (*requestresponse.ListRecordsResponse, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return nil, fmt.Errorf("[RecordService] database connection не найден в context")
	}

	family, err := resolveFamily(familyName)
	if err != nil {
		return nil, err
	}
	if err := validateListParams(family, &params); err != nil {
		return nil, err
	}

	items, total, err := s.recordRepository.List(ctx, db, family, params)
	if err != nil {
		return nil, util.LogError("[RecordService] не удалось получить список записей", err)
	}

	return &requestresponse.ListRecordsResponse{
		Items: items,
		Total: total,
		Page:  params.Page,
		Size:  params.Size,
	}, nil
}

// GetRecord : активная запись по id. Владение определяется по документу
// записи: не-администратору доступны только собственные записи.
func (s *RecordService) GetRecord(ctx context.Context, familyName string, id int64, requesterID int64, isAdmin bool) (*model.Record, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return nil, fmt.Errorf("[RecordService] database connection не найден в context")
	}

	family, err := resolveFamily(familyName)
	if err != nil {
		return nil, err
	}

	record, err := s.recordRepository.GetByID(ctx, db, family, id)
	if err != nil {
		return nil, err
	}

	document, err := s.documentRepository.GetByID(ctx, db, record.DocumentID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && document.OwnerID != requesterID {
		return nil, model.ErrAccessDenied
	}
	return record, nil
}

// CreateRecord : создаёт документ и запись атомарно в одной транзакции —
// частичное создание не оставляет запись без документа. Возвращает
// pre-signed PUT URL: файл клиент загружает в хранилище сам.
func (s *RecordService) CreateRecord(ctx context.Context, familyName string, ownerID int64, req *requestresponse.CreateRecordRequest) (*requestresponse.CreateRecordResponse, error) {
	family, err := resolveFamily(familyName)
	if err != nil {
		return nil, err
	}

	if req.FileName == "" {
		return nil, &model.ValidationError{Field: "file_name", Message: "имя файла обязательно"}
	}
	if req.StatusID == 0 {
		return nil, &model.ValidationError{Field: "statut_id", Message: "статус обязателен"}
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	fileExt := filepath.Ext(req.FileName)
	storedName := uuid.New().String() + fileExt
	storagePath := fmt.Sprintf("records/%s/%s", family.Name, storedName)

	document := &model.Document{
		FileName:         storedName,
		OriginalFileName: req.FileName,
		ContentType:      contentType,
		FileSize:         req.FileSize,
		FilePath:         storagePath,
		OwnerID:          ownerID,
		Status:           model.StatusActive,
		ExpiryDate:       req.ExpiryDate,
	}

	record := &model.Record{
		DoneByID:          ownerID,
		StatusID:          req.StatusID,
		SectionCategoryID: req.SectionCategoryID,
		DateTime:          time.Now().UTC(),
		Reference:         req.Reference,
		Description:       req.Description,
	}

	exec, rollback, commit, err := s.documentRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[RecordService] не удалось начать транзакцию", err)
	}
	defer rollback()

	if err := s.documentRepository.Create(ctx, exec, document); err != nil {
		return nil, util.LogError("[RecordService] не удалось сохранить документ", err)
	}

	record.DocumentID = document.ID
	if err := s.recordRepository.Create(ctx, exec, family, record); err != nil {
		return nil, util.LogError("[RecordService] не удалось сохранить запись", err)
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[RecordService] ошибка коммита транзакции", err)
	}

	putURL, err := s.storageInterface.GeneratePresignedPutURL(ctx, storagePath, s.ttl)
	if err != nil {
		// документ и запись уже созданы, URL можно перевыпустить позже
		log.Printf("[RecordService] ошибка генерации pre-signed PUT URL для %s: %v", storagePath, err)
		putURL = ""
	}

	return &requestresponse.CreateRecordResponse{
		Record:    record,
		Document:  document,
		UploadURL: putURL,
	}, nil
}

// UpdateRecord : изменение скалярных полей. Запись, чей документ больше
// не редактируем (ARCHIVED/EXPIRED), менять нельзя.
func (s *RecordService) UpdateRecord(ctx context.Context, familyName string, id int64, requesterID int64, isAdmin bool, req *requestresponse.UpdateRecordRequest) (*model.Record, error) {
	family, err := resolveFamily(familyName)
	if err != nil {
		return nil, err
	}

	exec, rollback, commit, err := s.documentRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[RecordService] не удалось начать транзакцию", err)
	}
	defer rollback()

	record, err := s.recordRepository.GetByID(ctx, exec, family, id)
	if err != nil {
		return nil, err
	}

	document, err := s.documentRepository.GetByID(ctx, exec, record.DocumentID)
	if err != nil {
		return nil, util.LogError("[RecordService] документ записи не найден", err)
	}
	if !isAdmin && document.OwnerID != requesterID {
		return nil, model.ErrAccessDenied
	}
	if !document.Status.IsEditable() {
		return nil, &model.ValidationError{
			Field:   "statut",
			Message: fmt.Sprintf("документ в статусе %s не редактируется", document.Status),
		}
	}

	if req.Reference != nil {
		record.Reference = *req.Reference
	}
	if req.Description != nil {
		record.Description = *req.Description
	}
	if req.StatusID != nil {
		record.StatusID = *req.StatusID
	}
	if req.SectionCategoryID != nil {
		record.SectionCategoryID = req.SectionCategoryID
	}

	if err := s.recordRepository.Update(ctx, exec, family, record); err != nil {
		return nil, util.LogError("[RecordService] не удалось обновить запись", err)
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[RecordService] ошибка коммита транзакции", err)
	}

	return record, nil
}

// DeleteRecord : логическое удаление записи; документ остаётся жить —
// на него могут ссылаться аудиторские выборки
func (s *RecordService) DeleteRecord(ctx context.Context, familyName string, id int64, requesterID int64, isAdmin bool) error {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return fmt.Errorf("[RecordService] database connection не найден в context")
	}

	family, err := resolveFamily(familyName)
	if err != nil {
		return err
	}

	record, err := s.recordRepository.GetByID(ctx, db, family, id)
	if err != nil {
		return err
	}

	document, err := s.documentRepository.GetByID(ctx, db, record.DocumentID)
	if err != nil {
		return err
	}
	if !isAdmin && document.OwnerID != requesterID {
		return model.ErrAccessDenied
	}

	return s.recordRepository.SoftDelete(ctx, db, family, id)
}
