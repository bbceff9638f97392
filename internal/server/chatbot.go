package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"commission-assistant-backend/internal/types"
)

const (
	maxMessageLength = 2000
	chatTimeout      = 30 * time.Second
)

func (s *Server) handleChatbot(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		s.writeError(w, http.StatusUnprocessableEntity, "message is required")
		return
	}
	if len(req.Message) > maxMessageLength {
		s.writeError(w, http.StatusUnprocessableEntity, "message is too long")
		return
	}
	for _, turn := range req.History {
		if turn.Sender != "user" && turn.Sender != "bot" {
			s.writeError(w, http.StatusUnprocessableEntity, "history sender must be 'user' or 'bot'")
			return
		}
		if len(turn.Text) > maxMessageLength {
			s.writeError(w, http.StatusUnprocessableEntity, "history entry is too long")
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), chatTimeout)
	defer cancel()

	result, err := s.chat.HandleMessage(ctx, s.currentUser(r), req.Message, req.History)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}
