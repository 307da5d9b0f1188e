package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDocumentStatusIsEditable(t *testing.T) {
	assert.True(t, StatusActive.IsEditable())
	assert.False(t, StatusArchived.IsEditable())
	assert.False(t, StatusExpired.IsEditable())
}

func TestDocumentIsExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	assert.True(t, (&Document{ExpiryDate: &past}).IsExpired(now))
	assert.False(t, (&Document{ExpiryDate: &future}).IsExpired(now))
	// без срока действия документ бессрочный
	assert.False(t, (&Document{}).IsExpired(now))
}

func TestDocumentInAlertWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	window := 7 * 24 * time.Hour

	inside := now.Add(3 * 24 * time.Hour)
	atUpperBound := now.Add(window)
	beyond := now.Add(8 * 24 * time.Hour)
	past := now.Add(-time.Hour)

	assert.True(t, (&Document{ExpiryDate: &inside}).InAlertWindow(now, window))
	assert.True(t, (&Document{ExpiryDate: &atUpperBound}).InAlertWindow(now, window))
	assert.False(t, (&Document{ExpiryDate: &beyond}).InAlertWindow(now, window))
	assert.False(t, (&Document{ExpiryDate: &past}).InAlertWindow(now, window))
	assert.False(t, (&Document{}).InAlertWindow(now, window))
}

func TestRecordFamiliesSortWhitelist(t *testing.T) {
	for name, family := range RecordFamilies {
		assert.Equal(t, name, family.Name)
		assert.NotEmpty(t, family.Table)
		assert.NotEmpty(t, family.SearchColumns, "семейство %s без колонок поиска", name)
		// dateTime — сортировка по умолчанию, обязана быть у каждого семейства
		assert.Contains(t, family.SortColumns, "dateTime")
	}
}
