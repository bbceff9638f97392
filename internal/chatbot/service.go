package chatbot

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"commission-assistant-backend/internal/models"
)

// Completer is the upstream chat-completion call. The concrete client owns
// its timeout and retry behavior; the service only sees the final text or
// failure.
type Completer interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}

// Service ties the pipeline together: prompt assembly, the upstream model
// call, classification, and dispatch. No handler runs unless the upstream
// call and classification both succeed.
type Service struct {
	llm      Completer
	handlers *Handlers
	log      *zap.Logger
}

func NewService(llm Completer, handlers *Handlers, log *zap.Logger) *Service {
	return &Service{llm: llm, handlers: handlers, log: log}
}

// HandleMessage processes one chatbot turn for the acting user. The error
// return is always a *Error; callers map its code to an HTTP status.
func (s *Service) HandleMessage(ctx context.Context, user *models.User, message string, history []Turn) (*Result, error) {
	msgs := buildMessages(user, message, history, s.handlers.now().In(s.handlers.userLocation(user)))

	raw, err := s.llm.Complete(ctx, msgs)
	if err != nil {
		s.log.Error("llm completion failed", zap.Error(err), zap.Int64("user_id", user.ID))
		return nil, NewUpstreamUnavailable("Sorry, I'm having trouble thinking right now. Please try again in a moment.", err)
	}

	reply := Classify(raw)

	var result *Result
	switch {
	case reply.Intent != nil:
		result, err = s.handlers.Route(ctx, user, reply.Intent)
	case reply.Navigate != nil:
		result, err = s.handlers.Navigate(ctx, user, reply.Navigate)
	default:
		return &Result{Reply: reply.Text}, nil
	}

	if err != nil {
		var derr *Error
		if errors.As(err, &derr) {
			return nil, derr
		}
		s.log.Error("unexpected handler failure", zap.Error(err), zap.Int64("user_id", user.ID))
		return nil, NewInternal(err)
	}
	return result, nil
}
