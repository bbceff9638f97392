package recordings

import (
	"fmt"
	"strings"

	"commission-assistant-backend/internal/chatbot"
	"commission-assistant-backend/internal/models"
)

const summarySystemPrompt = `You are an expert meeting secretary. Analyze the provided meeting transcript and produce a structured minutes-of-meeting document (PV) in Markdown. Use only information present in the transcript. Structure the output with the headings "## Discussion Summary", "## Decisions Made" and "## Action Items". When the transcript contains no decisions or no action items, state that under the heading instead of inventing any.`

const emptySummaryBody = `## Discussion Summary
[No transcription provided or speech detected.]

## Decisions Made
[No specific decisions identified in the transcript.]

## Action Items
[No specific action items identified in the transcript.]`

const failedSummaryBody = `## Discussion Summary
[The summary could not be generated from the transcript.]

## Decisions Made
[No specific decisions identified in the transcript.]

## Action Items
[No specific action items identified in the transcript.]`

func summaryHeader(m *models.Meeting) string {
	return fmt.Sprintf("**Meeting Title:** %s\n**Date:** %s\n**Location:** %s\n\n",
		m.Title, m.Date.Format("2006-01-02 15:04"), m.Location)
}

func summaryMessages(meeting *models.Meeting, transcript string) []chatbot.ChatMessage {
	var b strings.Builder
	b.WriteString("Generate the meeting summary / PV in Markdown for the following meeting:\n\n")
	b.WriteString(summaryHeader(meeting))
	b.WriteString("Analyze the following transcript and do not invent information:\n\n")
	fmt.Fprintf(&b, "```transcript\n%s\n```\n", transcript)

	return []chatbot.ChatMessage{
		{Role: "system", Content: summarySystemPrompt},
		{Role: "user", Content: b.String()},
	}
}
