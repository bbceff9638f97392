package recordings

import (
	"context"
	"io"
	"strings"

	"go.uber.org/zap"

	"commission-assistant-backend/internal/chatbot"
	"commission-assistant-backend/internal/models"
)

// Transcriber converts an uploaded audio recording to text.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

// Service turns meeting recordings into transcripts and PV drafts. Both
// steps go through the same upstream model provider as the chatbot.
type Service struct {
	transcriber Transcriber
	completer   chatbot.Completer
	log         *zap.Logger
}

func NewService(transcriber Transcriber, completer chatbot.Completer, log *zap.Logger) *Service {
	return &Service{transcriber: transcriber, completer: completer, log: log}
}

// Transcribe runs the uploaded audio through the transcription model.
func (s *Service) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	text, err := s.transcriber.Transcribe(ctx, filename, audio)
	if err != nil {
		s.log.Error("transcription failed", zap.Error(err), zap.String("filename", filename))
		return "", chatbot.NewUpstreamUnavailable("The transcription service is unavailable right now. Please try again in a moment.", err)
	}
	return strings.TrimSpace(text), nil
}

// Summarize drafts a PV from a meeting transcript. An empty transcript
// yields the bare document structure without a model call, and a model
// reply that dropped the meeting details gets the header prepended.
func (s *Service) Summarize(ctx context.Context, meeting *models.Meeting, transcript string) (string, error) {
	header := summaryHeader(meeting)
	if strings.TrimSpace(transcript) == "" {
		return header + emptySummaryBody, nil
	}

	raw, err := s.completer.Complete(ctx, summaryMessages(meeting, transcript))
	if err != nil {
		s.log.Error("summary generation failed", zap.Error(err), zap.Int64("meeting_id", meeting.ID))
		return "", chatbot.NewUpstreamUnavailable("Sorry, I couldn't generate the meeting summary right now. Please try again in a moment.", err)
	}

	summary := strings.TrimSpace(raw)
	if summary == "" {
		return header + failedSummaryBody, nil
	}
	if !strings.Contains(summary, "**Meeting Title:**") {
		summary = header + summary
	}
	return summary, nil
}
