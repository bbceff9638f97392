package chatbot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday, March 12 2025, 14:30 UTC.
var testNow = time.Date(2025, 3, 12, 14, 30, 0, 0, time.UTC)

func TestParseTimeframeToday(t *testing.T) {
	tr, err := ParseTimeframe("today", testNow)
	require.NoError(t, err)

	require.NotNil(t, tr.From)
	require.NotNil(t, tr.To)
	assert.Equal(t, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), *tr.From)
	assert.Equal(t, time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC), *tr.To)
	assert.False(t, tr.Ascending)
}

func TestParseTimeframeThisWeekStartsMonday(t *testing.T) {
	tr, err := ParseTimeframe("this week", testNow)
	require.NoError(t, err)

	require.NotNil(t, tr.From)
	assert.Equal(t, time.Monday, tr.From.Weekday())
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), *tr.From)
	assert.Equal(t, time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC), *tr.To)
}

func TestParseTimeframeUpcomingIsAscendingAndOpenEnded(t *testing.T) {
	tr, err := ParseTimeframe("upcoming", testNow)
	require.NoError(t, err)

	require.NotNil(t, tr.From)
	assert.Equal(t, testNow, *tr.From)
	assert.Nil(t, tr.To)
	assert.True(t, tr.Ascending)
}

func TestParseTimeframePast(t *testing.T) {
	for _, phrase := range []string{"past", "recent", "previous"} {
		tr, err := ParseTimeframe(phrase, testNow)
		require.NoError(t, err, phrase)

		assert.Nil(t, tr.From, phrase)
		require.NotNil(t, tr.To, phrase)
		assert.Equal(t, testNow, *tr.To, phrase)
		assert.False(t, tr.Ascending, phrase)
	}
}

func TestParseTimeframeMonthBucket(t *testing.T) {
	tr, err := ParseTimeframe("last month", testNow)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), *tr.From)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), *tr.To)
}

func TestParseTimeframeYearBucket(t *testing.T) {
	tr, err := ParseTimeframe("this year", testNow)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), *tr.From)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), *tr.To)
}

func TestParseTimeframeWeekBucket(t *testing.T) {
	tr, err := ParseTimeframe("next week", testNow)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC), *tr.From)
	assert.Equal(t, time.Date(2025, 3, 24, 0, 0, 0, 0, time.UTC), *tr.To)
}

func TestParseTimeframeSpecificDateBucketsToDay(t *testing.T) {
	tr, err := ParseTimeframe("2025-06-01", testNow)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), *tr.From)
	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), *tr.To)
}

func TestParseTimeframeWeekdayPhrase(t *testing.T) {
	// Next Tuesday after Wednesday March 12 is March 18.
	tr, err := ParseTimeframe("next tuesday", testNow)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 3, 18, 0, 0, 0, 0, time.UTC), *tr.From)
}

func TestParseTimeframeUnparseable(t *testing.T) {
	_, err := ParseTimeframe("whenever the mood strikes", testNow)

	var derr *Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, CodeValidationFailed, derr.Code)
	assert.Contains(t, derr.Message, "whenever the mood strikes")
}
