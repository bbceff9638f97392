package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"commission-assistant-backend/internal/chatbot"
	"commission-assistant-backend/internal/config"
	"commission-assistant-backend/internal/mailer"
	"commission-assistant-backend/internal/models"
	"commission-assistant-backend/internal/recordings"
	"commission-assistant-backend/internal/types"
)

// DataStore is the persistence surface the HTTP API needs: everything the
// chatbot uses plus accounts and plain CRUD.
type DataStore interface {
	chatbot.Store

	CreateUser(ctx context.Context, u *models.User) error
	UserByID(ctx context.Context, id int64) (*models.User, error)

	ListCommissions(ctx context.Context) ([]models.Commission, error)
	CommissionByID(ctx context.Context, id int64) (*models.Commission, error)
	UpdateCommission(ctx context.Context, c *models.Commission) error
	DeleteCommission(ctx context.Context, id int64) error

	MeetingByID(ctx context.Context, id int64) (*models.Meeting, error)
	UpdateMeeting(ctx context.Context, m *models.Meeting) error
	DeleteMeeting(ctx context.Context, id int64) error

	CreatePV(ctx context.Context, pv *models.PV) error
}

// Sessions issues and resolves bearer session tokens.
type Sessions interface {
	Create(ctx context.Context, userID int64) (string, error)
	UserID(ctx context.Context, token string) (int64, error)
	Delete(ctx context.Context, token string) error
}

type Server struct {
	router     *chi.Mux
	cfg        config.Config
	store      DataStore
	sessions   Sessions
	chat       *chatbot.Service
	recordings *recordings.Service
	mailer     mailer.Mailer
	oauthCfg   *oauth2.Config
	log        *zap.Logger
	loc        *time.Location
}

func NewServer(cfg config.Config, data DataStore, sessions Sessions, chat *chatbot.Service, rec *recordings.Service, mail mailer.Mailer, log *zap.Logger) *Server {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	oCfg := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Warn("invalid APP_TIMEZONE, falling back to UTC", zap.String("timezone", cfg.Timezone))
		loc = time.UTC
	}

	s := &Server{
		router:     r,
		cfg:        cfg,
		store:      data,
		sessions:   sessions,
		chat:       chat,
		recordings: rec,
		mailer:     mail,
		oauthCfg:   oCfg,
		log:        log,
		loc:        loc,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)

	s.router.Post("/api/signup", s.handleSignup)
	s.router.Post("/api/login", s.handleLogin)
	s.router.Get("/api/auth/google", s.handleGoogleAuth)
	s.router.Get("/api/auth/google/callback", s.handleGoogleCallback)

	s.router.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Post("/api/logout", s.handleLogout)
		r.Get("/api/user", s.handleCurrentUser)

		r.Post("/api/chatbot", s.handleChatbot)

		r.Get("/api/commissions", s.handleListCommissions)
		r.Post("/api/commissions", s.handleCreateCommission)
		r.Get("/api/commissions/{id}", s.handleGetCommission)
		r.Put("/api/commissions/{id}", s.handleUpdateCommission)
		r.Delete("/api/commissions/{id}", s.handleDeleteCommission)
		r.Get("/api/commissions/{id}/users", s.handleCommissionMembers)
		r.Post("/api/commissions/{id}/users", s.handleAddCommissionMember)
		r.Delete("/api/commissions/{id}/users/{userID}", s.handleRemoveCommissionMember)
		r.Get("/api/commissions/{id}/meetings", s.handleCommissionMeetings)
		r.Post("/api/commissions/{id}/send-email", s.handleSendCommissionEmail)

		r.Get("/api/meetings", s.handleListMeetings)
		r.Post("/api/meetings", s.handleCreateMeeting)
		r.Get("/api/meetings/{id}", s.handleGetMeeting)
		r.Put("/api/meetings/{id}", s.handleUpdateMeeting)
		r.Delete("/api/meetings/{id}", s.handleDeleteMeeting)

		r.Post("/api/recordings/transcribe", s.handleTranscribeRecording)
		r.Post("/api/recordings/summary", s.handleRecordingSummary)

		r.Get("/api/pvs", s.handleListPVs)
		r.Post("/api/pvs", s.handleCreatePV)
		r.Get("/api/pvs/{id}", s.handleGetPV)
		r.Get("/api/pvs/{id}/text", s.handlePVText)

		r.Get("/api/users", s.handleListUsers)
	})
}

func (s *Server) Router() http.Handler { return s.router }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	s.writeJSON(w, code, types.ErrorResponse{Error: msg})
}

// writeDomainError maps a chatbot domain error to its HTTP status with the
// message as the reply body; anything else becomes a generic 500.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	var derr *chatbot.Error
	if errors.As(err, &derr) {
		s.writeJSON(w, derr.HTTPStatus(), map[string]string{"reply": derr.Message})
		return
	}
	s.log.Error("unexpected error", zap.Error(err))
	s.writeError(w, http.StatusInternalServerError, "Sorry, an internal error occurred. Please try again later.")
}
