package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"commission-assistant-backend/internal/chatbot"
	"commission-assistant-backend/internal/models"
	"commission-assistant-backend/internal/store"
	"commission-assistant-backend/internal/types"
)

func (s *Server) handleListMeetings(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	commissions, err := s.store.UserCommissions(r.Context(), user.ID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to list meetings")
		return
	}

	filter := chatbot.MeetingFilter{}
	for _, c := range commissions {
		filter.CommissionIDs = append(filter.CommissionIDs, c.ID)
	}
	if len(filter.CommissionIDs) == 0 {
		s.writeJSON(w, http.StatusOK, []models.Meeting{})
		return
	}

	if tf := r.URL.Query().Get("timeframe"); tf != "" {
		tr, err := chatbot.ParseTimeframe(tf, s.now(user))
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		filter.From, filter.To, filter.Ascending = tr.From, tr.To, tr.Ascending
	}

	meetings, err := s.store.ListMeetings(r.Context(), filter)
	if err != nil {
		s.log.Error("meeting list failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to list meetings")
		return
	}
	s.writeJSON(w, http.StatusOK, meetings)
}

func (s *Server) handleCreateMeeting(w http.ResponseWriter, r *http.Request) {
	var req types.MeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.Date == "" || req.CommissionID == 0 {
		s.writeError(w, http.StatusUnprocessableEntity, "commissionId, title and date are required")
		return
	}

	user := s.currentUser(r)
	member, err := s.store.IsMember(r.Context(), req.CommissionID, user.ID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to create meeting")
		return
	}
	if !member {
		s.writeError(w, http.StatusForbidden, "you must be a member of this commission to schedule meetings")
		return
	}

	date, err := chatbot.NormalizeMeetingDate(req.Date, s.now(user))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	location := strings.TrimSpace(req.Location)
	if location == "" {
		location = "To be determined"
	}
	meeting := &models.Meeting{
		CommissionID: req.CommissionID,
		Title:        req.Title,
		Date:         date,
		Location:     location,
		GPS:          strings.TrimSpace(req.GPS),
	}
	if err := s.store.CreateMeeting(r.Context(), meeting); err != nil {
		s.log.Error("meeting creation failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to create meeting")
		return
	}
	s.writeJSON(w, http.StatusCreated, meeting)
}

func (s *Server) handleGetMeeting(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid meeting id")
		return
	}
	meeting, err := s.store.MeetingByID(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to load meeting")
		return
	}
	if meeting == nil {
		s.writeError(w, http.StatusNotFound, "meeting not found")
		return
	}
	s.writeJSON(w, http.StatusOK, meeting)
}

func (s *Server) handleUpdateMeeting(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid meeting id")
		return
	}
	existing, err := s.store.MeetingByID(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to update meeting")
		return
	}
	if existing == nil {
		s.writeError(w, http.StatusNotFound, "meeting not found")
		return
	}

	var req types.MeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if title := strings.TrimSpace(req.Title); title != "" {
		existing.Title = title
	}
	if req.Date != "" {
		date, err := chatbot.NormalizeMeetingDate(req.Date, s.now(s.currentUser(r)))
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		existing.Date = date
	}
	if location := strings.TrimSpace(req.Location); location != "" {
		existing.Location = location
	}
	if gps := strings.TrimSpace(req.GPS); gps != "" {
		existing.GPS = gps
	}

	if err := s.store.UpdateMeeting(r.Context(), existing); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "meeting not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "failed to update meeting")
		return
	}
	s.writeJSON(w, http.StatusOK, existing)
}

func (s *Server) handleDeleteMeeting(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid meeting id")
		return
	}
	if err := s.store.DeleteMeeting(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "meeting not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "failed to delete meeting")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// now returns the current time in the user's timezone, falling back to the
// configured default.
func (s *Server) now(user *models.User) time.Time {
	if user != nil && user.Timezone != "" {
		if loc, err := time.LoadLocation(user.Timezone); err == nil {
			return time.Now().In(loc)
		}
	}
	return time.Now().In(s.loc)
}
