package service

import (
	"context"
	"fmt"

	"records-web-server/config"
	"records-web-server/internal/model"
	"records-web-server/internal/ports"
	"records-web-server/internal/util"
)

// RefDataService : чтение справочников для выпадающих списков клиента
type RefDataService struct {
	refDataRepository ports.RefDataRepository
}

func NewRefDataService(refDataRepository ports.RefDataRepository) *RefDataService {
	return &RefDataService{refDataRepository: refDataRepository}
}

func (s *RefDataService) ListStatuses(ctx context.Context) ([]model.DocStatus, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return nil, fmt.Errorf("[RefDataService] database connection не найден в context")
	}

	statuses, err := s.refDataRepository.ListStatuses(ctx, db)
	if err != nil {
		return nil, util.LogError("[RefDataService] не удалось получить справочник статусов", err)
	}
	return statuses, nil
}

func (s *RefDataService) ListSectionCategories(ctx context.Context) ([]model.SectionCategory, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return nil, fmt.Errorf("[RefDataService] database connection не найден в context")
	}

	categories, err := s.refDataRepository.ListSectionCategories(ctx, db)
	if err != nil {
		return nil, util.LogError("[RefDataService] не удалось получить справочник категорий", err)
	}
	return categories, nil
}
