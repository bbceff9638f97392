package server

import (
	"encoding/json"
	"net/http"

	"commission-assistant-backend/internal/types"
)

// maxRecordingBytes caps uploaded audio at 50MB, matching the transcription
// service limit.
const maxRecordingBytes = 50 << 20

func (s *Server) handleTranscribeRecording(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRecordingBytes)
	if err := r.ParseMultipartForm(maxRecordingBytes); err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, "a recording file is required")
		return
	}
	file, header, err := r.FormFile("recording")
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, "a recording file is required")
		return
	}
	defer file.Close()

	text, err := s.recordings.Transcribe(r.Context(), header.Filename, file)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	msg := "Transcription successful."
	if text == "" {
		msg = "Transcription complete, but no speech detected."
	}
	s.writeJSON(w, http.StatusOK, types.TranscriptionResponse{Message: msg, Transcription: text})
}

func (s *Server) handleRecordingSummary(w http.ResponseWriter, r *http.Request) {
	var req types.SummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.MeetingID == 0 {
		s.writeError(w, http.StatusUnprocessableEntity, "meetingId is required")
		return
	}

	meeting, err := s.store.MeetingByID(r.Context(), req.MeetingID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to generate summary")
		return
	}
	if meeting == nil {
		s.writeError(w, http.StatusNotFound, "meeting not found")
		return
	}

	member, err := s.store.IsMember(r.Context(), meeting.CommissionID, s.currentUser(r).ID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to generate summary")
		return
	}
	if !member {
		s.writeError(w, http.StatusForbidden, "you must be a member of this commission to generate its summaries")
		return
	}

	summary, err := s.recordings.Summarize(r.Context(), meeting, req.Transcription)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, types.SummaryResponse{Message: "Meeting summary generated.", Summary: summary})
}
