package chatbot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextMeetingSlotMorning(t *testing.T) {
	now := time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC) // Wednesday
	assert.Equal(t, time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC), nextMeetingSlot(now))
}

func TestNextMeetingSlotMidday(t *testing.T) {
	now := time.Date(2025, 3, 12, 11, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC), nextMeetingSlot(now))
}

func TestNextMeetingSlotEveningRollsToNextDay(t *testing.T) {
	now := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 13, 10, 0, 0, 0, time.UTC), nextMeetingSlot(now))
}

func TestNextMeetingSlotSkipsWeekend(t *testing.T) {
	// Friday evening rolls to Saturday, which rolls to Monday.
	now := time.Date(2025, 3, 14, 16, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 17, 10, 0, 0, 0, time.UTC), nextMeetingSlot(now))

	// Saturday morning also lands on Monday.
	now = time.Date(2025, 3, 15, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 17, 10, 0, 0, 0, time.UTC), nextMeetingSlot(now))
}

func TestSuggestedTitle(t *testing.T) {
	assert.Equal(t, "Planning Meeting", suggestedTitle(""))
	assert.Equal(t, "Budget Review Meeting", suggestedTitle("budget review"))
	assert.Equal(t, "Quarterly Sync Meeting", suggestedTitle("QUARTERLY sync"))
}
