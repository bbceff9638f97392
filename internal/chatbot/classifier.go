package chatbot

import (
	"encoding/json"
	"strings"
)

// Reply is the classified form of a raw model response: exactly one of an
// intent, a navigation action, or plain text.
type Reply struct {
	Intent   *IntentReply
	Navigate *NavigateReply
	Text     string
}

type IntentReply struct {
	Kind   IntentKind
	Params map[string]any
}

type NavigateReply struct {
	Target string
	Params map[string]any
	Text   string
}

// llmEnvelope covers the two structured shapes the model is prompted to
// emit. Decoding into it never fails for any JSON object; shape checks
// happen after.
type llmEnvelope struct {
	Intent string         `json:"intent"`
	Params map[string]any `json:"params"`
	Reply  string         `json:"reply"`
	Action *struct {
		Type   string         `json:"type"`
		Target string         `json:"target"`
		Params map[string]any `json:"params"`
	} `json:"action"`
}

// Classify interprets raw model output as an intent, a navigation action,
// or plain text. Markdown code fences are stripped before parsing. A JSON
// payload counts as structured only when it decodes to an object; scalars,
// arrays, and objects matching neither known shape degrade to plain text
// so an unexpected reply never fails the turn.
func Classify(raw string) Reply {
	trimmed := stripFences(raw)

	var probe any
	if err := json.Unmarshal([]byte(trimmed), &probe); err == nil {
		if _, isObject := probe.(map[string]any); isObject {
			var env llmEnvelope
			if err := json.Unmarshal([]byte(trimmed), &env); err == nil {
				if kind := strings.TrimSpace(env.Intent); kind != "" {
					params := env.Params
					if params == nil {
						params = map[string]any{}
					}
					return Reply{Intent: &IntentReply{Kind: IntentKind(kind), Params: params}}
				}
				if env.Action != nil && env.Action.Type == "navigate" {
					text := env.Reply
					if text == "" {
						text = "Okay, navigating..."
					}
					return Reply{Navigate: &NavigateReply{
						Target: strings.TrimSpace(env.Action.Target),
						Params: env.Action.Params,
						Text:   text,
					}}
				}
			}
		}
	}

	// Fall back to the original text, not the fence-stripped variant: if
	// the model wrapped prose in fences by mistake the user should still
	// see what it said.
	return Reply{Text: raw}
}

func stripFences(raw string) string {
	s := strings.ReplaceAll(raw, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
