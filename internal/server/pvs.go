package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"commission-assistant-backend/internal/chatbot"
	"commission-assistant-backend/internal/docgen"
	"commission-assistant-backend/internal/models"
	"commission-assistant-backend/internal/types"
)

func (s *Server) handleListPVs(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	commissions, err := s.store.UserCommissions(r.Context(), user.ID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to list PVs")
		return
	}

	filter := chatbot.PVFilter{}
	for _, c := range commissions {
		filter.CommissionIDs = append(filter.CommissionIDs, c.ID)
	}
	if len(filter.CommissionIDs) == 0 {
		s.writeJSON(w, http.StatusOK, []models.PV{})
		return
	}

	pvs, err := s.store.ListPVs(r.Context(), filter)
	if err != nil {
		s.log.Error("pv list failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to list PVs")
		return
	}
	s.writeJSON(w, http.StatusOK, pvs)
}

func (s *Server) handleCreatePV(w http.ResponseWriter, r *http.Request) {
	var req types.PVRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.MeetingID == 0 || strings.TrimSpace(req.Content) == "" {
		s.writeError(w, http.StatusUnprocessableEntity, "meetingId and content are required")
		return
	}

	meeting, err := s.store.MeetingByID(r.Context(), req.MeetingID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to create PV")
		return
	}
	if meeting == nil {
		s.writeError(w, http.StatusNotFound, "meeting not found")
		return
	}

	member, err := s.store.IsMember(r.Context(), meeting.CommissionID, s.currentUser(r).ID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to create PV")
		return
	}
	if !member {
		s.writeError(w, http.StatusForbidden, "you must be a member of this commission to record PVs")
		return
	}

	pv := &models.PV{MeetingID: req.MeetingID, Content: req.Content}
	if err := s.store.CreatePV(r.Context(), pv); err != nil {
		s.log.Error("pv creation failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to create PV")
		return
	}
	s.writeJSON(w, http.StatusCreated, pv)
}

func (s *Server) handleGetPV(w http.ResponseWriter, r *http.Request) {
	pv, ok := s.loadAccessiblePV(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, pv)
}

// handlePVText serves the rendered plain-text document the chatbot's
// download action points at.
func (s *Server) handlePVText(w http.ResponseWriter, r *http.Request) {
	pv, ok := s.loadAccessiblePV(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=pv_%d.txt", pv.ID))
	_, _ = w.Write([]byte(docgen.RenderPVText(pv)))
}

func (s *Server) loadAccessiblePV(w http.ResponseWriter, r *http.Request) (*models.PV, bool) {
	id, err := idParam(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid PV id")
		return nil, false
	}
	pv, err := s.store.PVByID(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to load PV")
		return nil, false
	}
	if pv == nil {
		s.writeError(w, http.StatusNotFound, "PV not found")
		return nil, false
	}
	member, err := s.store.IsMember(r.Context(), pv.CommissionID, s.currentUser(r).ID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to load PV")
		return nil, false
	}
	if !member {
		s.writeError(w, http.StatusForbidden, "you must be a member of this commission to access this PV")
		return nil, false
	}
	return pv, true
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context(), chatbot.UserFilter{
		NameOrEmail: r.URL.Query().Get("q"),
	})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	s.writeJSON(w, http.StatusOK, users)
}
