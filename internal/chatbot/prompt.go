package chatbot

import (
	"fmt"
	"time"

	"commission-assistant-backend/internal/models"
)

// Turn is one prior exchange supplied by the caller. History is ephemeral
// and caller-owned; nothing here persists it.
type Turn struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// ChatMessage is a role/content pair for the upstream chat-completion API.
type ChatMessage struct {
	Role    string
	Content string
}

// historyTokenBudget bounds how much history goes to the model, using the
// rough 4-chars-per-token estimate.
const historyTokenBudget = 1500

const systemPromptTemplate = `You are the assistant for a commission and meeting management application. The user talking to you is %s (%s).
Today is %s.

You can perform these actions. When the user's message maps to one, respond with ONLY a JSON object, no prose and no code fences:
{"intent": "<intent>", "params": {...}}

Intents and their params:
- list_commissions: {}
- list_meetings: {"timeframe": "...", "commission_name_or_id": "..."} (both optional)
- list_users: {"commission_name_or_id": "...", "name_or_email": "..."} (both optional)
- list_pvs: {"commission_name_or_id": "...", "meeting_title": "...", "timeframe": "..."} (all optional)
- create_commission: {"name": "...", "description": "..."}
- create_meeting: {"title": "...", "date": "...", "location": "...", "gps": "...", "commission_name_or_id": "..."}
- add_commission_member: {"commission_name_or_id": "...", "user_name_or_email": "..."}
- remove_commission_member: {"commission_name_or_id": "...", "user_name_or_email": "..."}
- suggest_details: {"item_type": "meeting", "context": "..."}
- generate_pv_text: {"pv_id": <number>}

If the user asks to go to a page of the application, respond with:
{"reply": "<short confirmation>", "action": {"type": "navigate", "target": "</path>", "params": {...}}}
Valid targets: /commissions, /meetings, /users, /generate-pv, /send-email, /commissions/<id>.

Pass the user's wording through in params; do not resolve names to IDs yourself. For anything else (greetings, questions about the app, small talk), reply with plain conversational text.`

// buildMessages assembles the outbound message list: system prompt, then
// as much history as fits the budget (newest turns win, chronological
// order preserved), then the current message.
func buildMessages(user *models.User, message string, history []Turn, now time.Time) []ChatMessage {
	msgs := []ChatMessage{{
		Role:    "system",
		Content: fmt.Sprintf(systemPromptTemplate, user.Name, user.Email, now.Format("Monday, January 2, 2006")),
	}}

	budget := historyTokenBudget
	start := len(history)
	for i := len(history) - 1; i >= 0; i-- {
		cost := len(history[i].Text)/4 + 1
		if cost > budget {
			break
		}
		budget -= cost
		start = i
	}
	for _, turn := range history[start:] {
		role := "user"
		if turn.Sender == "bot" {
			role = "assistant"
		}
		msgs = append(msgs, ChatMessage{Role: role, Content: turn.Text})
	}

	return append(msgs, ChatMessage{Role: "user", Content: message})
}
