package docgen

import (
	"fmt"
	"strings"

	"commission-assistant-backend/internal/models"
)

// RenderPVText produces the plain-text document for a PV. The chatbot's
// download action and the /api/pvs/{id}/text endpoint both serve this.
func RenderPVText(pv *models.PV) string {
	var b strings.Builder
	fmt.Fprintf(&b, "MINUTES OF MEETING (PV %d)\n", pv.ID)
	b.WriteString(strings.Repeat("=", 40))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Commission: %s\n", pv.CommissionName)
	fmt.Fprintf(&b, "Meeting:    %s\n", pv.MeetingTitle)
	fmt.Fprintf(&b, "Held on:    %s\n", pv.MeetingDate.Format("Monday, January 2, 2006 at 15:04"))
	fmt.Fprintf(&b, "Recorded:   %s\n\n", pv.CreatedAt.Format("January 2, 2006"))
	b.WriteString(strings.Repeat("-", 40))
	b.WriteString("\n\n")
	if pv.Content != "" {
		b.WriteString(pv.Content)
		b.WriteString("\n")
	} else {
		b.WriteString("(no content recorded)\n")
	}
	return b.String()
}

// Links builds download URLs for rendered PV documents.
type Links struct {
	BaseURL string
}

func (l Links) PVTextURL(pvID int64) string {
	return fmt.Sprintf("%s/api/pvs/%d/text", strings.TrimRight(l.BaseURL, "/"), pvID)
}
