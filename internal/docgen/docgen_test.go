package docgen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"commission-assistant-backend/internal/models"
)

func TestRenderPVText(t *testing.T) {
	pv := &models.PV{
		ID:             7,
		MeetingTitle:   "Quarterly Sync",
		MeetingDate:    time.Date(2025, 3, 13, 10, 0, 0, 0, time.UTC),
		CommissionName: "Budget",
		Content:        "Decisions were made.",
		CreatedAt:      time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC),
	}

	text := RenderPVText(pv)
	assert.Contains(t, text, "MINUTES OF MEETING (PV 7)")
	assert.Contains(t, text, "Commission: Budget")
	assert.Contains(t, text, "Meeting:    Quarterly Sync")
	assert.Contains(t, text, "Decisions were made.")
}

func TestRenderPVTextEmptyContent(t *testing.T) {
	text := RenderPVText(&models.PV{ID: 1})
	assert.Contains(t, text, "(no content recorded)")
}

func TestPVTextURL(t *testing.T) {
	l := Links{BaseURL: "http://localhost:8080/"}
	assert.Equal(t, "http://localhost:8080/api/pvs/7/text", l.PVTextURL(7))
}
