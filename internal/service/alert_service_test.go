package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"records-web-server/config"
	"records-web-server/internal/model"
	"records-web-server/internal/service"
)

type MockAccountDirectory struct{ mock.Mock }

func (m *MockAccountDirectory) GetByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*model.Account, error) {
	args := m.Called(ctx, exec, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Send(ctx context.Context, recipient, subject, body string) error {
	return m.Called(ctx, recipient, subject, body).Error(0)
}

func newTestDispatcher(timeout time.Duration) (*service.AlertDispatcherService, *MockAccountDirectory, *MockNotifier) {
	mockDirectory := new(MockAccountDirectory)
	mockNotifier := new(MockNotifier)

	dispatcher := service.NewAlertDispatcherService(mockDirectory, mockNotifier, &config.Database{}, timeout)

	return dispatcher, mockDirectory, mockNotifier
}

func alertDocument(in time.Duration) *model.Document {
	expiry := time.Now().UTC().Add(in)
	return &model.Document{
		ID:               1,
		OriginalFileName: "contract.pdf",
		OwnerID:          7,
		Status:           model.StatusActive,
		ExpiryDate:       &expiry,
		Active:           true,
	}
}

func TestDispatch_SendsToOwnerEmail(t *testing.T) {
	dispatcher, mockDirectory, mockNotifier := newTestDispatcher(time.Second)

	owner := &model.Account{ID: 7, FullName: "Иван Петров", Email: "ivan@example.com"}
	mockDirectory.On("GetByID", mock.Anything, mock.Anything, int64(7)).Return(owner, nil)
	mockNotifier.On("Send", mock.Anything, "ivan@example.com",
		mock.MatchedBy(func(subject string) bool { return subject != "" }),
		mock.MatchedBy(func(body string) bool { return body != "" })).
		Return(nil)

	err := dispatcher.Dispatch(context.Background(), alertDocument(72*time.Hour))

	require.NoError(t, err)
	mockNotifier.AssertExpectations(t)
}

func TestDispatch_NoExpiryDate(t *testing.T) {
	dispatcher, mockDirectory, _ := newTestDispatcher(time.Second)

	document := alertDocument(time.Hour)
	document.ExpiryDate = nil

	err := dispatcher.Dispatch(context.Background(), document)

	assert.Error(t, err)
	mockDirectory.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatch_OwnerLookupFailure(t *testing.T) {
	dispatcher, mockDirectory, mockNotifier := newTestDispatcher(time.Second)

	mockDirectory.On("GetByID", mock.Anything, mock.Anything, int64(7)).
		Return(nil, errors.New("владелец не найден"))

	err := dispatcher.Dispatch(context.Background(), alertDocument(time.Hour))

	assert.Error(t, err)
	mockNotifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatch_NotifierFailurePropagates(t *testing.T) {
	dispatcher, mockDirectory, mockNotifier := newTestDispatcher(time.Second)

	owner := &model.Account{ID: 7, FullName: "Иван Петров", Email: "ivan@example.com"}
	mockDirectory.On("GetByID", mock.Anything, mock.Anything, int64(7)).Return(owner, nil)
	mockNotifier.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("webhook: 502"))

	err := dispatcher.Dispatch(context.Background(), alertDocument(time.Hour))

	assert.Error(t, err)
}

func TestDispatch_NotifierGetsDeadline(t *testing.T) {
	dispatcher, mockDirectory, mockNotifier := newTestDispatcher(50 * time.Millisecond)

	owner := &model.Account{ID: 7, FullName: "Иван Петров", Email: "ivan@example.com"}
	mockDirectory.On("GetByID", mock.Anything, mock.Anything, int64(7)).Return(owner, nil)

	var hadDeadline bool
	mockNotifier.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			_, hadDeadline = args.Get(0).(context.Context).Deadline()
		}).
		Return(nil)

	err := dispatcher.Dispatch(context.Background(), alertDocument(time.Hour))

	require.NoError(t, err)
	assert.True(t, hadDeadline)
}
