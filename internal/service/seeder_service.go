package service

import (
	"context"
	"log"

	"records-web-server/config"
	"records-web-server/internal/model"
	"records-web-server/internal/ports"
	"records-web-server/internal/util"
)

// SeedService : наполнение справочников при старте.
// Признак "сид уже применён" проверяется по самой БД (количество строк),
// а не по глобальному флагу процесса — повторный запуск безопасен.
type SeedService struct {
	refDataRepository ports.RefDataRepository
	db                *config.Database
}

func NewSeedService(refDataRepository ports.RefDataRepository, db *config.Database) *SeedService {
	return &SeedService{
		refDataRepository: refDataRepository,
		db:                db,
	}
}

// defaultStatuses — статусы записей по умолчанию
var defaultStatuses = []model.DocStatus{
	{Name: "In Progress", Description: "Документ в обработке"},
	{Name: "Validated", Description: "Документ проверен и утверждён"},
	{Name: "Rejected", Description: "Документ отклонён"},
	{Name: "Canceled", Description: "Документ аннулирован"},
	{Name: "Applicable", Description: "Документ действует"},
	{Name: "Suspended", Description: "Действие документа приостановлено"},
	{Name: "Replaced", Description: "Документ заменён новой версией"},
	{Name: "Litigious", Description: "Документ в споре или судебном разбирательстве"},
	{Name: "Acquired", Description: "Актив или документ приобретён"},
	{Name: "Sold", Description: "Актив или документ продан"},
	{Name: "Transferred", Description: "Документ или актив передан"},
}

// defaultSectionCategories — категории разделов по умолчанию
var defaultSectionCategories = []model.SectionCategory{
	{Code: "FIN", Name: "financial"},
	{Code: "PRC", Name: "procurement"},
	{Code: "HR", Name: "hr"},
	{Code: "TEC", Name: "technical"},
	{Code: "IT", Name: "IT"},
	{Code: "RE", Name: "real estate"},
	{Code: "SH", Name: "shareholders"},
	{Code: "LEG", Name: "legal"},
	{Code: "QA", Name: "quality"},
	{Code: "HSE", Name: "HSE"},
	{Code: "EQP", Name: "equipment"},
}

// Run : явный шаг старта приложения, вызывается из main до запуска сервера
func (s *SeedService) Run(ctx context.Context) error {
	if err := s.seedStatuses(ctx); err != nil {
		return err
	}
	if err := s.seedSectionCategories(ctx); err != nil {
		return err
	}
	return nil
}

func (s *SeedService) seedStatuses(ctx context.Context) error {
	count, err := s.refDataRepository.CountStatuses(ctx, s.db)
	if err != nil {
		return util.LogError("[SeedService] ошибка проверки справочника статусов", err)
	}
	if count > 0 {
		log.Printf("[SeedService] справочник статусов уже наполнен (%d строк), пропуск", count)
		return nil
	}

	if err := s.refDataRepository.InsertStatuses(ctx, s.db, defaultStatuses); err != nil {
		return util.LogError("[SeedService] ошибка наполнения справочника статусов", err)
	}

	log.Printf("[SeedService] справочник статусов наполнен: %d строк", len(defaultStatuses))
	return nil
}

func (s *SeedService) seedSectionCategories(ctx context.Context) error {
	count, err := s.refDataRepository.CountSectionCategories(ctx, s.db)
	if err != nil {
		return util.LogError("[SeedService] ошибка проверки справочника категорий", err)
	}
	if count > 0 {
		log.Printf("[SeedService] справочник категорий уже наполнен (%d строк), пропуск", count)
		return nil
	}

	if err := s.refDataRepository.InsertSectionCategories(ctx, s.db, defaultSectionCategories); err != nil {
		return util.LogError("[SeedService] ошибка наполнения справочника категорий", err)
	}

	log.Printf("[SeedService] справочник категорий наполнен: %d строк", len(defaultSectionCategories))
	return nil
}
