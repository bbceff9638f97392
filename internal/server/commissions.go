package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"commission-assistant-backend/internal/chatbot"
	"commission-assistant-backend/internal/models"
	"commission-assistant-backend/internal/store"
	"commission-assistant-backend/internal/types"
)

func idParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func (s *Server) handleListCommissions(w http.ResponseWriter, r *http.Request) {
	commissions, err := s.store.ListCommissions(r.Context())
	if err != nil {
		s.log.Error("commission list failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to list commissions")
		return
	}
	s.writeJSON(w, http.StatusOK, commissions)
}

func (s *Server) handleCreateCommission(w http.ResponseWriter, r *http.Request) {
	var req types.CommissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		s.writeError(w, http.StatusUnprocessableEntity, "name is required")
		return
	}

	exists, err := s.store.CommissionNameExists(r.Context(), req.Name)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to create commission")
		return
	}
	if exists {
		s.writeError(w, http.StatusUnprocessableEntity, "a commission with that name already exists")
		return
	}

	commission := &models.Commission{Name: req.Name, Description: strings.TrimSpace(req.Description)}
	if err := s.store.CreateCommission(r.Context(), commission); err != nil {
		s.log.Error("commission creation failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to create commission")
		return
	}
	if err := s.store.AddMember(r.Context(), commission.ID, s.currentUser(r).ID); err != nil {
		s.log.Error("creator membership failed", zap.Error(err))
	}
	s.writeJSON(w, http.StatusCreated, commission)
}

func (s *Server) handleGetCommission(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid commission id")
		return
	}
	commission, err := s.store.CommissionByID(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to load commission")
		return
	}
	if commission == nil {
		s.writeError(w, http.StatusNotFound, "commission not found")
		return
	}
	s.writeJSON(w, http.StatusOK, commission)
}

func (s *Server) handleUpdateCommission(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid commission id")
		return
	}
	var req types.CommissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		s.writeError(w, http.StatusUnprocessableEntity, "name is required")
		return
	}

	commission := &models.Commission{ID: id, Name: req.Name, Description: strings.TrimSpace(req.Description)}
	if err := s.store.UpdateCommission(r.Context(), commission); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "commission not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "failed to update commission")
		return
	}
	s.writeJSON(w, http.StatusOK, commission)
}

func (s *Server) handleDeleteCommission(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid commission id")
		return
	}
	if err := s.store.DeleteCommission(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "commission not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "failed to delete commission")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCommissionMembers(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid commission id")
		return
	}
	users, err := s.store.ListUsers(r.Context(), chatbot.UserFilter{CommissionID: id})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to list members")
		return
	}
	s.writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleAddCommissionMember(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid commission id")
		return
	}
	var req types.AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == 0 {
		s.writeError(w, http.StatusUnprocessableEntity, "userId is required")
		return
	}
	commission, err := s.store.CommissionByID(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to add member")
		return
	}
	if commission == nil {
		s.writeError(w, http.StatusNotFound, "commission not found")
		return
	}
	if err := s.store.AddMember(r.Context(), id, req.UserID); err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to add member")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveCommissionMember(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid commission id")
		return
	}
	userID, err := idParam(r, "userID")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if err := s.store.RemoveMember(r.Context(), id, userID); err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to remove member")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCommissionMeetings(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid commission id")
		return
	}
	meetings, err := s.store.ListMeetings(r.Context(), chatbot.MeetingFilter{CommissionID: id})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to list meetings")
		return
	}
	s.writeJSON(w, http.StatusOK, meetings)
}

// handleSendCommissionEmail mails every member of the commission.
func (s *Server) handleSendCommissionEmail(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid commission id")
		return
	}
	var req types.SendEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Body) == "" {
		s.writeError(w, http.StatusUnprocessableEntity, "subject and body are required")
		return
	}

	commission, err := s.store.CommissionByID(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to send email")
		return
	}
	if commission == nil {
		s.writeError(w, http.StatusNotFound, "commission not found")
		return
	}

	member, err := s.store.IsMember(r.Context(), id, s.currentUser(r).ID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to send email")
		return
	}
	if !member {
		s.writeError(w, http.StatusForbidden, "you must be a member of this commission to email it")
		return
	}

	users, err := s.store.ListUsers(r.Context(), chatbot.UserFilter{CommissionID: id})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to send email")
		return
	}
	recipients := make([]string, 0, len(users))
	for _, u := range users {
		recipients = append(recipients, u.Email)
	}

	if err := s.mailer.Send(r.Context(), recipients, req.Subject, req.Body); err != nil {
		s.log.Error("commission email failed", zap.Error(err), zap.Int64("commission_id", id))
		s.writeError(w, http.StatusBadGateway, "failed to send email")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"sent": len(recipients)})
}
