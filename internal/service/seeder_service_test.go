package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"records-web-server/config"
	"records-web-server/internal/model"
	"records-web-server/internal/service"
)

type MockRefDataRepository struct{ mock.Mock }

func (m *MockRefDataRepository) CountStatuses(ctx context.Context, exec sqlx.ExtContext) (int64, error) {
	args := m.Called(ctx, exec)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRefDataRepository) InsertStatuses(ctx context.Context, exec sqlx.ExtContext, statuses []model.DocStatus) error {
	return m.Called(ctx, exec, statuses).Error(0)
}

func (m *MockRefDataRepository) CountSectionCategories(ctx context.Context, exec sqlx.ExtContext) (int64, error) {
	args := m.Called(ctx, exec)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRefDataRepository) InsertSectionCategories(ctx context.Context, exec sqlx.ExtContext, categories []model.SectionCategory) error {
	return m.Called(ctx, exec, categories).Error(0)
}

func (m *MockRefDataRepository) ListStatuses(ctx context.Context, exec sqlx.ExtContext) ([]model.DocStatus, error) {
	args := m.Called(ctx, exec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DocStatus), args.Error(1)
}

func (m *MockRefDataRepository) ListSectionCategories(ctx context.Context, exec sqlx.ExtContext) ([]model.SectionCategory, error) {
	args := m.Called(ctx, exec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SectionCategory), args.Error(1)
}

func newTestSeedService() (*service.SeedService, *MockRefDataRepository) {
	mockRepo := new(MockRefDataRepository)
	return service.NewSeedService(mockRepo, &config.Database{}), mockRepo
}

func TestSeedRun_EmptyTablesGetSeeded(t *testing.T) {
	svc, mockRepo := newTestSeedService()

	mockRepo.On("CountStatuses", mock.Anything, mock.Anything).Return(int64(0), nil)
	mockRepo.On("InsertStatuses", mock.Anything, mock.Anything,
		mock.MatchedBy(func(statuses []model.DocStatus) bool { return len(statuses) > 0 })).
		Return(nil)
	mockRepo.On("CountSectionCategories", mock.Anything, mock.Anything).Return(int64(0), nil)
	mockRepo.On("InsertSectionCategories", mock.Anything, mock.Anything,
		mock.MatchedBy(func(categories []model.SectionCategory) bool { return len(categories) > 0 })).
		Return(nil)

	err := svc.Run(context.Background())

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestSeedRun_NonEmptyTablesSkipped(t *testing.T) {
	svc, mockRepo := newTestSeedService()

	// признак "уже наполнено" берётся из самой БД, а не из состояния процесса
	mockRepo.On("CountStatuses", mock.Anything, mock.Anything).Return(int64(11), nil)
	mockRepo.On("CountSectionCategories", mock.Anything, mock.Anything).Return(int64(11), nil)

	err := svc.Run(context.Background())

	require.NoError(t, err)
	mockRepo.AssertNotCalled(t, "InsertStatuses", mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "InsertSectionCategories", mock.Anything, mock.Anything, mock.Anything)
}

func TestSeedRun_RepeatedRunInsertsOnce(t *testing.T) {
	svc, mockRepo := newTestSeedService()

	mockRepo.On("CountStatuses", mock.Anything, mock.Anything).Return(int64(0), nil).Once()
	mockRepo.On("InsertStatuses", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	mockRepo.On("CountSectionCategories", mock.Anything, mock.Anything).Return(int64(0), nil).Once()
	mockRepo.On("InsertSectionCategories", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	// повторный запуск видит уже наполненные таблицы
	mockRepo.On("CountStatuses", mock.Anything, mock.Anything).Return(int64(11), nil)
	mockRepo.On("CountSectionCategories", mock.Anything, mock.Anything).Return(int64(11), nil)

	require.NoError(t, svc.Run(context.Background()))
	require.NoError(t, svc.Run(context.Background()))

	mockRepo.AssertNumberOfCalls(t, "InsertStatuses", 1)
	mockRepo.AssertNumberOfCalls(t, "InsertSectionCategories", 1)
}

func TestSeedRun_CountFailureAborts(t *testing.T) {
	svc, mockRepo := newTestSeedService()

	mockRepo.On("CountStatuses", mock.Anything, mock.Anything).
		Return(int64(0), errors.New("connection refused"))

	err := svc.Run(context.Background())

	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "InsertStatuses", mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "CountSectionCategories", mock.Anything, mock.Anything)
}
