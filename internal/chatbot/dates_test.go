package chatbot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMeetingDateBareTimeRollsToTomorrow(t *testing.T) {
	// Wednesday 16:00; "3pm" has already passed today.
	now := time.Date(2025, 3, 12, 16, 0, 0, 0, time.UTC)

	got, err := NormalizeMeetingDate("3pm", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 13, 15, 0, 0, 0, time.UTC), got)
}

func TestNormalizeMeetingDateBareTimeStillAheadStaysToday(t *testing.T) {
	now := time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC)

	got, err := NormalizeMeetingDate("3pm", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC), got)
}

func TestNormalizeMeetingDateTomorrowWithTime(t *testing.T) {
	now := time.Date(2025, 3, 12, 16, 0, 0, 0, time.UTC)

	got, err := NormalizeMeetingDate("tomorrow at 2pm", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 13, 14, 0, 0, 0, time.UTC), got)
}

func TestNormalizeMeetingDateDayWithoutTimeDefaultsToNine(t *testing.T) {
	now := time.Date(2025, 3, 12, 16, 0, 0, 0, time.UTC)

	got, err := NormalizeMeetingDate("tomorrow", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 13, 9, 0, 0, 0, time.UTC), got)
}

func TestNormalizeMeetingDateWeekdayWithTime(t *testing.T) {
	// Wednesday; next friday is March 14.
	now := time.Date(2025, 3, 12, 16, 0, 0, 0, time.UTC)

	got, err := NormalizeMeetingDate("next friday at 15:00", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC), got)
}

func TestNormalizeMeetingDateExplicitPastDateNotRolled(t *testing.T) {
	now := time.Date(2025, 3, 12, 16, 0, 0, 0, time.UTC)

	// An explicit calendar date in the recent past is taken literally.
	got, err := NormalizeMeetingDate("2025-03-10 15:00", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC), got)
}

func TestNormalizeMeetingDateMonthNamePastDateNotRolled(t *testing.T) {
	now := time.Date(2025, 3, 12, 16, 0, 0, 0, time.UTC)

	// A full month name anchors the date just like an ISO date does.
	for _, input := range []string{"January 5, 2025 10:00", "january 5 2025 10:00"} {
		got, err := NormalizeMeetingDate(input, now)
		require.NoError(t, err, input)
		assert.Equal(t, time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC), got, input)
	}
}

func TestNormalizeMeetingDateTooFarInPast(t *testing.T) {
	now := time.Date(2025, 3, 12, 16, 0, 0, 0, time.UTC)

	_, err := NormalizeMeetingDate("2019-01-01 10:00", now)
	var derr *Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, CodeValidationFailed, derr.Code)
	assert.Contains(t, derr.Message, "too far in the past")
}

func TestNormalizeMeetingDateUnparseable(t *testing.T) {
	now := time.Date(2025, 3, 12, 16, 0, 0, 0, time.UTC)

	_, err := NormalizeMeetingDate("sometime soonish", now)
	var derr *Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, CodeValidationFailed, derr.Code)
	assert.Contains(t, derr.Message, "'sometime soonish'")
}
