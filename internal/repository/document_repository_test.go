package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"records-web-server/internal/model"
)

func documentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "file_name", "original_file_name", "content_type", "file_size",
		"file_path", "owner_id", "status", "expiry_date", "expiry_alert_sent",
		"version", "active", "created_at", "updated_at",
	})
}

func TestDocumentGetByID_SoftDeletedInvisible(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := NewDocumentRepository(database)

	mock.ExpectQuery("SELECT (.+) FROM files WHERE id = (.+) AND active = TRUE").
		WithArgs(int64(5)).
		WillReturnRows(documentRows())

	document, err := repo.GetByID(context.Background(), database, 5)

	assert.Nil(t, document)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocumentGetByIDIncludingDeleted_SeesInactive(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := NewDocumentRepository(database)

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM files WHERE id = \\$1$").
		WithArgs(int64(5)).
		WillReturnRows(documentRows().
			AddRow(5, "a.pdf", "act.pdf", "application/pdf", 100, "records/estates/a.pdf",
				1, "ACTIVE", nil, false, 3, false, now, now))

	document, err := repo.GetByIDIncludingDeleted(context.Background(), database, 5)

	require.NoError(t, err)
	assert.False(t, document.Active)
	assert.Equal(t, 3, document.Version)
}

func TestDocumentUpdateExpiry_VersionConflict(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := NewDocumentRepository(database)

	expiry := time.Now().Add(72 * time.Hour)
	mock.ExpectExec("UPDATE files SET expiry_date =").
		WithArgs(int64(1), 2, &expiry).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateExpiry(context.Background(), database, 1, 2, &expiry)

	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestDocumentUpdateExpiry_Success(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := NewDocumentRepository(database)

	expiry := time.Now().Add(72 * time.Hour)
	mock.ExpectExec("UPDATE files SET expiry_date =").
		WithArgs(int64(1), 2, &expiry).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateExpiry(context.Background(), database, 1, 2, &expiry)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentMarkAlertSent_SecondCallConflicts(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := NewDocumentRepository(database)

	mock.ExpectExec("UPDATE files SET expiry_alert_sent = TRUE").
		WithArgs(int64(9), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// повторная запись флага упирается в условие expiry_alert_sent = FALSE
	mock.ExpectExec("UPDATE files SET expiry_alert_sent = TRUE").
		WithArgs(int64(9), 1).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.MarkAlertSent(context.Background(), database, 9, 1))
	assert.ErrorIs(t, repo.MarkAlertSent(context.Background(), database, 9, 1), ErrVersionConflict)
}

func TestDocumentMarkExpired_OnlyFromActive(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := NewDocumentRepository(database)

	// статус уже не ACTIVE — условие не совпало, переход не выполняется
	mock.ExpectExec("UPDATE files SET status = 'EXPIRED'").
		WithArgs(int64(4), 6).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkExpired(context.Background(), database, 4, 6)

	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestDocumentListAlertCandidates_WindowBounds(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := NewDocumentRepository(database)

	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	window := 7 * 24 * time.Hour
	inWindow := now.Add(3 * 24 * time.Hour)

	mock.ExpectQuery("SELECT (.+) FROM files WHERE status = 'ACTIVE' AND active = TRUE AND expiry_alert_sent = FALSE").
		WithArgs(now, now.Add(window)).
		WillReturnRows(documentRows().
			AddRow(1, "a.pdf", "act.pdf", "application/pdf", 10, "p/a.pdf",
				1, "ACTIVE", inWindow, false, 0, true, now, now))

	documents, err := repo.ListAlertCandidates(context.Background(), database, now, window)

	require.NoError(t, err)
	require.Len(t, documents, 1)
	assert.Equal(t, model.StatusActive, documents[0].Status)
	assert.False(t, documents[0].ExpiryAlertSent)
}

func TestDocumentSoftDelete_NotFound(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := NewDocumentRepository(database)

	mock.ExpectExec("UPDATE files SET active = FALSE").
		WithArgs(int64(77)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SoftDelete(context.Background(), database, 77)

	assert.ErrorIs(t, err, ErrNotFound)
}
