package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"records-web-server/internal/model"
	"records-web-server/internal/repository"
	"records-web-server/internal/service"
)

func newTestDocumentService() (*service.DocumentService, *MockDocumentRepository, *MockCacheRepository, *MockS3Storage) {
	mockDocRepo := new(MockDocumentRepository)
	mockCache := new(MockCacheRepository)
	mockStorage := new(MockS3Storage)

	svc := service.NewDocumentService(mockDocRepo, mockCache, mockStorage, time.Hour)

	return svc, mockDocRepo, mockCache, mockStorage
}

func activeDocument(id int64, version int) *model.Document {
	return &model.Document{
		ID:               id,
		FileName:         "a1b2.pdf",
		OriginalFileName: "contract.pdf",
		FilePath:         "records/insurances/a1b2.pdf",
		OwnerID:          7,
		Status:           model.StatusActive,
		Version:          version,
		Active:           true,
	}
}

// ===== Тесты GetDocument =====

func TestGetDocument_FromCache(t *testing.T) {
	svc, mockDocRepo, mockCache, mockStorage := newTestDocumentService()

	document := activeDocument(1, 0)
	mockCache.On("GetDocument", mock.Anything, int64(1)).Return(document, nil)
	mockStorage.On("GeneratePresignedGetURL", mock.Anything, document.FilePath, time.Hour).
		Return("http://get-url", nil)

	result, err := svc.GetDocument(dbContext(), 1, 7, false)

	require.NoError(t, err)
	assert.Equal(t, document, result.Document)
	assert.Equal(t, "http://get-url", result.GetURL)
	mockDocRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetDocument_CacheMissGoesToDatabase(t *testing.T) {
	svc, mockDocRepo, mockCache, mockStorage := newTestDocumentService()

	document := activeDocument(1, 0)
	mockCache.On("GetDocument", mock.Anything, int64(1)).Return(nil, nil)
	mockDocRepo.On("GetByID", mock.Anything, mock.Anything, int64(1)).Return(document, nil)
	mockCache.On("SetDocument", mock.Anything, document).Return(nil)
	mockStorage.On("GeneratePresignedGetURL", mock.Anything, document.FilePath, time.Hour).
		Return("http://get-url", nil)

	result, err := svc.GetDocument(dbContext(), 1, 7, false)

	require.NoError(t, err)
	assert.Equal(t, document, result.Document)
	mockCache.AssertExpectations(t)
}

func TestGetDocument_NotFound(t *testing.T) {
	svc, mockDocRepo, mockCache, _ := newTestDocumentService()

	mockCache.On("GetDocument", mock.Anything, int64(99)).Return(nil, nil)
	mockDocRepo.On("GetByID", mock.Anything, mock.Anything, int64(99)).
		Return(nil, repository.ErrNotFound)

	result, err := svc.GetDocument(dbContext(), 99, 7, false)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetDocument_ForeignOwnerDenied(t *testing.T) {
	svc, _, mockCache, mockStorage := newTestDocumentService()

	document := activeDocument(1, 0) // владелец 7
	mockCache.On("GetDocument", mock.Anything, int64(1)).Return(document, nil)

	result, err := svc.GetDocument(dbContext(), 1, 42, false)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, model.ErrAccessDenied)
	mockStorage.AssertNotCalled(t, "GeneratePresignedGetURL", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetDocument_AdminSeesForeignDocument(t *testing.T) {
	svc, _, mockCache, mockStorage := newTestDocumentService()

	document := activeDocument(1, 0)
	mockCache.On("GetDocument", mock.Anything, int64(1)).Return(document, nil)
	mockStorage.On("GeneratePresignedGetURL", mock.Anything, document.FilePath, time.Hour).
		Return("http://get-url", nil)

	result, err := svc.GetDocument(dbContext(), 1, 42, true)

	require.NoError(t, err)
	assert.Equal(t, document, result.Document)
}

// ===== Тесты UpdateExpiry =====

func TestUpdateExpiry_InvalidatesCache(t *testing.T) {
	svc, mockDocRepo, mockCache, _ := newTestDocumentService()

	expiry := time.Now().UTC().Add(30 * 24 * time.Hour)
	document := activeDocument(1, 3)
	mockDocRepo.On("GetByID", mock.Anything, mock.Anything, int64(1)).Return(document, nil)
	mockDocRepo.On("UpdateExpiry", mock.Anything, mock.Anything, int64(1), 3, &expiry).Return(nil)
	mockCache.On("DeleteDocument", mock.Anything, int64(1)).Return(nil)

	updated, err := svc.UpdateExpiry(dbContext(), 1, 7, false, &expiry)

	require.NoError(t, err)
	assert.NotNil(t, updated)
	mockCache.AssertExpectations(t)
}

func TestUpdateExpiry_RetriesOnVersionConflict(t *testing.T) {
	svc, mockDocRepo, mockCache, _ := newTestDocumentService()

	expiry := time.Now().UTC().Add(30 * 24 * time.Hour)
	stale := activeDocument(1, 3)
	fresh := activeDocument(1, 4)

	// первая попытка проигрывает гонку сканеру, вторая идёт по свежей версии
	mockDocRepo.On("GetByID", mock.Anything, mock.Anything, int64(1)).Return(stale, nil).Once()
	mockDocRepo.On("UpdateExpiry", mock.Anything, mock.Anything, int64(1), 3, &expiry).
		Return(repository.ErrVersionConflict).Once()
	mockDocRepo.On("GetByID", mock.Anything, mock.Anything, int64(1)).Return(fresh, nil)
	mockDocRepo.On("UpdateExpiry", mock.Anything, mock.Anything, int64(1), 4, &expiry).Return(nil)
	mockCache.On("DeleteDocument", mock.Anything, int64(1)).Return(nil)

	_, err := svc.UpdateExpiry(dbContext(), 1, 7, false, &expiry)

	require.NoError(t, err)
	mockDocRepo.AssertExpectations(t)
}

func TestUpdateExpiry_GivesUpAfterSecondConflict(t *testing.T) {
	svc, mockDocRepo, _, _ := newTestDocumentService()

	expiry := time.Now().UTC().Add(24 * time.Hour)
	mockDocRepo.On("GetByID", mock.Anything, mock.Anything, int64(1)).Return(activeDocument(1, 3), nil)
	mockDocRepo.On("UpdateExpiry", mock.Anything, mock.Anything, int64(1), 3, &expiry).
		Return(repository.ErrVersionConflict)

	_, err := svc.UpdateExpiry(dbContext(), 1, 7, false, &expiry)

	assert.ErrorIs(t, err, repository.ErrVersionConflict)
}

func TestUpdateExpiry_ForeignOwnerDenied(t *testing.T) {
	svc, mockDocRepo, _, _ := newTestDocumentService()

	expiry := time.Now().UTC().Add(24 * time.Hour)
	mockDocRepo.On("GetByID", mock.Anything, mock.Anything, int64(1)).Return(activeDocument(1, 3), nil)

	updated, err := svc.UpdateExpiry(dbContext(), 1, 42, false, &expiry)

	assert.Nil(t, updated)
	assert.ErrorIs(t, err, model.ErrAccessDenied)
	mockDocRepo.AssertNotCalled(t, "UpdateExpiry",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateExpiry_AdminUpdatesForeignDocument(t *testing.T) {
	svc, mockDocRepo, mockCache, _ := newTestDocumentService()

	expiry := time.Now().UTC().Add(24 * time.Hour)
	mockDocRepo.On("GetByID", mock.Anything, mock.Anything, int64(1)).Return(activeDocument(1, 3), nil)
	mockDocRepo.On("UpdateExpiry", mock.Anything, mock.Anything, int64(1), 3, &expiry).Return(nil)
	mockCache.On("DeleteDocument", mock.Anything, int64(1)).Return(nil)

	_, err := svc.UpdateExpiry(dbContext(), 1, 42, true, &expiry)

	require.NoError(t, err)
	mockDocRepo.AssertExpectations(t)
}

// ===== Тесты DeleteDocument =====

func TestDeleteDocument_SoftDeleteAndCacheInvalidation(t *testing.T) {
	svc, mockDocRepo, mockCache, _ := newTestDocumentService()

	mockDocRepo.On("GetByID", mock.Anything, mock.Anything, int64(1)).Return(activeDocument(1, 0), nil)
	mockDocRepo.On("SoftDelete", mock.Anything, mock.Anything, int64(1)).Return(nil)
	mockCache.On("DeleteDocument", mock.Anything, int64(1)).Return(nil)

	err := svc.DeleteDocument(dbContext(), 1, 7, false)

	require.NoError(t, err)
	mockDocRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestDeleteDocument_NotFound(t *testing.T) {
	svc, mockDocRepo, mockCache, _ := newTestDocumentService()

	mockDocRepo.On("GetByID", mock.Anything, mock.Anything, int64(99)).
		Return(nil, repository.ErrNotFound)

	err := svc.DeleteDocument(dbContext(), 99, 7, false)

	assert.ErrorIs(t, err, repository.ErrNotFound)
	mockDocRepo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything, mock.Anything)
	mockCache.AssertNotCalled(t, "DeleteDocument", mock.Anything, mock.Anything)
}

func TestDeleteDocument_ForeignOwnerDenied(t *testing.T) {
	svc, mockDocRepo, mockCache, _ := newTestDocumentService()

	mockDocRepo.On("GetByID", mock.Anything, mock.Anything, int64(1)).Return(activeDocument(1, 0), nil)

	err := svc.DeleteDocument(dbContext(), 1, 42, false)

	assert.ErrorIs(t, err, model.ErrAccessDenied)
	mockDocRepo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything, mock.Anything)
	mockCache.AssertNotCalled(t, "DeleteDocument", mock.Anything, mock.Anything)
}

func TestDeleteDocument_AdminDeletesForeignDocument(t *testing.T) {
	svc, mockDocRepo, mockCache, _ := newTestDocumentService()

	mockDocRepo.On("GetByID", mock.Anything, mock.Anything, int64(1)).Return(activeDocument(1, 0), nil)
	mockDocRepo.On("SoftDelete", mock.Anything, mock.Anything, int64(1)).Return(nil)
	mockCache.On("DeleteDocument", mock.Anything, int64(1)).Return(nil)

	err := svc.DeleteDocument(dbContext(), 1, 42, true)

	require.NoError(t, err)
	mockDocRepo.AssertExpectations(t)
}
