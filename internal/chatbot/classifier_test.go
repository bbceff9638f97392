package chatbot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyIntent(t *testing.T) {
	reply := Classify(`{"intent": "list_meetings", "params": {"timeframe": "upcoming"}}`)

	require.NotNil(t, reply.Intent)
	assert.Equal(t, IntentListMeetings, reply.Intent.Kind)
	assert.Equal(t, "upcoming", reply.Intent.Params["timeframe"])
}

func TestClassifyIntentWithoutParams(t *testing.T) {
	reply := Classify(`{"intent": "list_commissions"}`)

	require.NotNil(t, reply.Intent)
	assert.Equal(t, IntentListCommissions, reply.Intent.Kind)
	assert.NotNil(t, reply.Intent.Params)
}

func TestClassifyStripsCodeFences(t *testing.T) {
	reply := Classify("```json\n{\"intent\": \"list_commissions\"}\n```")

	require.NotNil(t, reply.Intent)
	assert.Equal(t, IntentListCommissions, reply.Intent.Kind)
}

func TestClassifyNavigate(t *testing.T) {
	reply := Classify(`{"reply": "Taking you there.", "action": {"type": "navigate", "target": "/meetings"}}`)

	require.NotNil(t, reply.Navigate)
	assert.Equal(t, "/meetings", reply.Navigate.Target)
	assert.Equal(t, "Taking you there.", reply.Navigate.Text)
}

func TestClassifyNavigateDefaultText(t *testing.T) {
	reply := Classify(`{"action": {"type": "navigate", "target": "/users"}}`)

	require.NotNil(t, reply.Navigate)
	assert.Equal(t, "Okay, navigating...", reply.Navigate.Text)
}

func TestClassifyPlainText(t *testing.T) {
	reply := Classify("Hello! How can I help you today?")

	assert.Nil(t, reply.Intent)
	assert.Nil(t, reply.Navigate)
	assert.Equal(t, "Hello! How can I help you today?", reply.Text)
}

func TestClassifyTruncatedJSONFallsBackToText(t *testing.T) {
	raw := `{"intent": "list_meetings"`
	reply := Classify(raw)

	assert.Nil(t, reply.Intent)
	assert.Equal(t, raw, reply.Text)
}

func TestClassifyScalarJSONFallsBackToText(t *testing.T) {
	reply := Classify(`42`)
	assert.Nil(t, reply.Intent)
	assert.Equal(t, "42", reply.Text)

	reply = Classify(`["a", "b"]`)
	assert.Nil(t, reply.Intent)
	assert.Equal(t, `["a", "b"]`, reply.Text)
}

func TestClassifyUnknownObjectShapeFallsBackToText(t *testing.T) {
	raw := `{"foo": "bar"}`
	reply := Classify(raw)

	assert.Nil(t, reply.Intent)
	assert.Nil(t, reply.Navigate)
	assert.Equal(t, raw, reply.Text)
}

func TestClassifyFencedProseKeepsOriginalText(t *testing.T) {
	raw := "```\njust some words\n```"
	reply := Classify(raw)

	assert.Equal(t, raw, reply.Text)
}
