package types

import "commission-assistant-backend/internal/chatbot"

type ChatRequest struct {
	Message string         `json:"message"`
	History []chatbot.Turn `json:"history,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Timezone string `json:"timezone,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string `json:"token"`
}

type CommissionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type MeetingRequest struct {
	CommissionID int64  `json:"commissionId"`
	Title        string `json:"title"`
	Date         string `json:"date"`
	Location     string `json:"location,omitempty"`
	GPS          string `json:"gps,omitempty"`
}

type PVRequest struct {
	MeetingID int64  `json:"meetingId"`
	Content   string `json:"content"`
}

type AddMemberRequest struct {
	UserID int64 `json:"userId"`
}

type TranscriptionResponse struct {
	Message       string `json:"message"`
	Transcription string `json:"transcription"`
}

type SummaryRequest struct {
	MeetingID     int64  `json:"meetingId"`
	Transcription string `json:"transcription"`
}

type SummaryResponse struct {
	Message string `json:"message"`
	Summary string `json:"summary"`
}

type SendEmailRequest struct {
	CommissionID int64  `json:"commissionId"`
	Subject      string `json:"subject"`
	Body         string `json:"body"`
}
