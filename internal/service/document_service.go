package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"records-web-server/config"
	"records-web-server/internal/model"
	"records-web-server/internal/ports"
	"records-web-server/internal/repository"
	"records-web-server/internal/util"
)

type DocumentService struct {
	documentRepository ports.DocumentRepository
	cacheRepository    ports.CacheRepository
	storageInterface   ports.S3Storage
	ttl                time.Duration
}

func NewDocumentService(
	documentRepository ports.DocumentRepository,
	cacheRepository ports.CacheRepository,
	storageInterface ports.S3Storage,
	ttl time.Duration,
) *DocumentService {
	return &DocumentService{
		documentRepository: documentRepository,
		cacheRepository:    cacheRepository,
		storageInterface:   storageInterface,
		ttl:                ttl,
	}
}

// GetDocument : метаданные документа с pre-signed GET URL.
// Сначала кэш, при промахе — БД с последующим кэшированием.
func (s *DocumentService) GetDocument(ctx context.Context, id int64, requesterID int64, isAdmin bool) (*model.GetDocumentResult, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return nil, fmt.Errorf("[DocumentService] database connection не найден в context")
	}

	document, err := s.cacheRepository.GetDocument(ctx, id)
	if err != nil {
		log.Printf("[DocumentService] ошибка чтения кэша: %v", err)
	}

	if document == nil {
		document, err = s.documentRepository.GetByID(ctx, db, id)
		if err != nil {
			return nil, err
		}

		if err := s.cacheRepository.SetDocument(ctx, document); err != nil {
			log.Printf("[DocumentService] ошибка кэширования документа %d: %v", id, err)
		} else {
			log.Printf("[DocumentService] документ %d взят из БД и кэширован в Redis", id)
		}
	} else {
		log.Printf("[DocumentService] документ %d взят из кэша Redis", id)
	}

	if !isAdmin && document.OwnerID != requesterID {
		return nil, model.ErrAccessDenied
	}

	var getURL string
	if document.FilePath != "" {
		getURL, err = s.storageInterface.GeneratePresignedGetURL(ctx, document.FilePath, s.ttl)
		if err != nil {
			return nil, util.LogError("[DocumentService] не удалось сгенерировать pre-signed GET URL", err)
		}
	}

	return &model.GetDocumentResult{
		Document: document,
		GetURL:   getURL,
	}, nil
}

// UpdateExpiry : перенос срока действия документа. Запись условна по
// version: при гонке со сканером делаем одну повторную попытку на свежих
// данных, наружу конфликт не отдаём.
func (s *DocumentService) UpdateExpiry(ctx context.Context, id int64, requesterID int64, isAdmin bool, expiry *time.Time) (*model.Document, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return nil, fmt.Errorf("[DocumentService] database connection не найден в context")
	}

	for attempt := 0; attempt < 2; attempt++ {
		document, err := s.documentRepository.GetByID(ctx, db, id)
		if err != nil {
			return nil, err
		}
		if !isAdmin && document.OwnerID != requesterID {
			return nil, model.ErrAccessDenied
		}

		err = s.documentRepository.UpdateExpiry(ctx, db, id, document.Version, expiry)
		if errors.Is(err, repository.ErrVersionConflict) {
			continue // перечитываем и пробуем ещё раз
		}
		if err != nil {
			return nil, util.LogError("[DocumentService] не удалось обновить срок действия", err)
		}

		if err := s.cacheRepository.DeleteDocument(ctx, id); err != nil {
			log.Printf("[DocumentService] ошибка инвалидации кэша документа %d: %v", id, err)
		}

		return s.documentRepository.GetByID(ctx, db, id)
	}

	return nil, util.LogError("[DocumentService] не удалось обновить срок действия",
		repository.ErrVersionConflict)
}

// DeleteDocument : логическое удаление документа и инвалидация кэша
func (s *DocumentService) DeleteDocument(ctx context.Context, id int64, requesterID int64, isAdmin bool) error {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return fmt.Errorf("[DocumentService] database connection не найден в context")
	}

	document, err := s.documentRepository.GetByID(ctx, db, id)
	if err != nil {
		return err
	}
	if !isAdmin && document.OwnerID != requesterID {
		return model.ErrAccessDenied
	}

	if err := s.documentRepository.SoftDelete(ctx, db, id); err != nil {
		return err
	}

	if err := s.cacheRepository.DeleteDocument(ctx, id); err != nil {
		log.Printf("[DocumentService] ошибка инвалидации кэша документа %d: %v", id, err)
	}

	log.Printf("[DocumentService] документ %d помечен удалённым", id)
	return nil
}
