package recordings

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"commission-assistant-backend/internal/chatbot"
	"commission-assistant-backend/internal/models"
)

type fakeTranscriber struct {
	text     string
	err      error
	filename string
}

func (f *fakeTranscriber) Transcribe(_ context.Context, filename string, _ io.Reader) (string, error) {
	f.filename = filename
	return f.text, f.err
}

type fakeCompleter struct {
	response string
	err      error
	called   bool
	messages []chatbot.ChatMessage
}

func (f *fakeCompleter) Complete(_ context.Context, messages []chatbot.ChatMessage) (string, error) {
	f.called = true
	f.messages = messages
	return f.response, f.err
}

func testMeeting() *models.Meeting {
	return &models.Meeting{
		ID:           5,
		CommissionID: 1,
		Title:        "Quarterly Sync",
		Date:         time.Date(2025, 3, 13, 10, 0, 0, 0, time.UTC),
		Location:     "Room 2",
	}
}

func TestTranscribeTrimsText(t *testing.T) {
	tr := &fakeTranscriber{text: "  hello from the meeting \n"}
	svc := NewService(tr, &fakeCompleter{}, zap.NewNop())

	got, err := svc.Transcribe(context.Background(), "meeting.webm", strings.NewReader("audio"))
	require.NoError(t, err)
	assert.Equal(t, "hello from the meeting", got)
	assert.Equal(t, "meeting.webm", tr.filename)
}

func TestTranscribeUpstreamFailure(t *testing.T) {
	tr := &fakeTranscriber{err: errors.New("connection refused")}
	svc := NewService(tr, &fakeCompleter{}, zap.NewNop())

	_, err := svc.Transcribe(context.Background(), "meeting.webm", strings.NewReader("audio"))
	var derr *chatbot.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, chatbot.CodeUpstreamUnavailable, derr.Code)
}

func TestSummarizeEmptyTranscriptSkipsModel(t *testing.T) {
	completer := &fakeCompleter{}
	svc := NewService(&fakeTranscriber{}, completer, zap.NewNop())

	got, err := svc.Summarize(context.Background(), testMeeting(), "   ")
	require.NoError(t, err)
	assert.False(t, completer.called)
	assert.Contains(t, got, "**Meeting Title:** Quarterly Sync")
	assert.Contains(t, got, "[No transcription provided or speech detected.]")
}

func TestSummarizeSendsTranscriptToModel(t *testing.T) {
	completer := &fakeCompleter{response: "## Discussion Summary\nBudget was discussed."}
	svc := NewService(&fakeTranscriber{}, completer, zap.NewNop())

	_, err := svc.Summarize(context.Background(), testMeeting(), "we talked about the budget")
	require.NoError(t, err)
	require.Len(t, completer.messages, 2)
	assert.Equal(t, "system", completer.messages[0].Role)
	assert.Contains(t, completer.messages[1].Content, "we talked about the budget")
	assert.Contains(t, completer.messages[1].Content, "Quarterly Sync")
}

func TestSummarizePrependsHeaderWhenMissing(t *testing.T) {
	completer := &fakeCompleter{response: "## Discussion Summary\nBudget was discussed."}
	svc := NewService(&fakeTranscriber{}, completer, zap.NewNop())

	got, err := svc.Summarize(context.Background(), testMeeting(), "transcript text")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "**Meeting Title:** Quarterly Sync"))
	assert.Contains(t, got, "## Discussion Summary")
}

func TestSummarizeKeepsModelHeader(t *testing.T) {
	completer := &fakeCompleter{response: "**Meeting Title:** Quarterly Sync\n\n## Discussion Summary\nBudget."}
	svc := NewService(&fakeTranscriber{}, completer, zap.NewNop())

	got, err := svc.Summarize(context.Background(), testMeeting(), "transcript text")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(got, "**Meeting Title:**"))
}

func TestSummarizeEmptyModelReplyFallsBack(t *testing.T) {
	completer := &fakeCompleter{response: "   "}
	svc := NewService(&fakeTranscriber{}, completer, zap.NewNop())

	got, err := svc.Summarize(context.Background(), testMeeting(), "transcript text")
	require.NoError(t, err)
	assert.Contains(t, got, "**Meeting Title:** Quarterly Sync")
	assert.Contains(t, got, "[The summary could not be generated from the transcript.]")
}

func TestSummarizeUpstreamFailure(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("rate limited")}
	svc := NewService(&fakeTranscriber{}, completer, zap.NewNop())

	_, err := svc.Summarize(context.Background(), testMeeting(), "transcript text")
	var derr *chatbot.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, chatbot.CodeUpstreamUnavailable, derr.Code)
}
