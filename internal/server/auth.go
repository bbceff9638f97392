package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"

	"commission-assistant-backend/internal/models"
	"commission-assistant-backend/internal/types"
)

type contextKey string

const userContextKey contextKey = "user"

// requireAuth resolves the bearer token to a user and stores it on the
// request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := s.sessions.UserID(r.Context(), sessionToken(r))
		if err != nil {
			s.log.Error("session lookup failed", zap.Error(err))
			s.writeError(w, http.StatusInternalServerError, "session lookup failed")
			return
		}
		if userID == 0 {
			s.writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		user, err := s.store.UserByID(r.Context(), userID)
		if err != nil {
			s.log.Error("user lookup failed", zap.Error(err))
			s.writeError(w, http.StatusInternalServerError, "user lookup failed")
			return
		}
		if user == nil {
			s.writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
	})
}

func (s *Server) currentUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(userContextKey).(*models.User)
	return user
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req types.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || len(req.Password) < 8 {
		s.writeError(w, http.StatusUnprocessableEntity, "name, email and a password of at least 8 characters are required")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, "invalid email address")
		return
	}

	existing, err := s.store.UserByEmail(r.Context(), req.Email)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "signup failed")
		return
	}
	if existing != nil {
		s.writeError(w, http.StatusUnprocessableEntity, "an account with this email already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "signup failed")
		return
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		Timezone:     req.Timezone,
		PasswordHash: string(hash),
	}
	if err := s.store.CreateUser(r.Context(), user); err != nil {
		s.log.Error("user creation failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "signup failed")
		return
	}

	s.issueSession(w, r, user, http.StatusCreated)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := s.store.UserByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		s.writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	s.issueSession(w, r, user, http.StatusOK)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), sessionToken(r)); err != nil {
		s.log.Error("session delete failed", zap.Error(err))
	}
	clearSessionCookie(w)
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.currentUser(r))
}

func (s *Server) issueSession(w http.ResponseWriter, r *http.Request, user *models.User, code int) {
	token, err := s.sessions.Create(r.Context(), user.ID)
	if err != nil {
		s.log.Error("session creation failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "session creation failed")
		return
	}
	setSessionCookie(w, token, s.cfg.SessionTTL)
	s.writeJSON(w, code, types.AuthResponse{Token: token})
}

// Google OAuth.

func (s *Server) handleGoogleAuth(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg.ClientID == "" || s.oauthCfg.ClientSecret == "" {
		s.writeError(w, http.StatusServiceUnavailable, "Google sign-in is not configured")
		return
	}
	state := uuid.NewString()
	setOAuthStateCookie(w, state)
	http.Redirect(w, r, s.oauthCfg.AuthCodeURL(state), http.StatusFound)
}

func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(OAuthStateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		s.writeError(w, http.StatusBadRequest, "invalid OAuth state")
		return
	}
	clearOAuthStateCookie(w)

	code := r.URL.Query().Get("code")
	if code == "" {
		s.writeError(w, http.StatusBadRequest, "missing authorization code")
		return
	}

	token, err := s.oauthCfg.Exchange(r.Context(), code)
	if err != nil {
		s.log.Error("oauth exchange failed", zap.Error(err))
		s.writeError(w, http.StatusBadGateway, "Google sign-in failed")
		return
	}

	profile, err := s.fetchGoogleProfile(r.Context(), token)
	if err != nil {
		s.log.Error("google profile fetch failed", zap.Error(err))
		s.writeError(w, http.StatusBadGateway, "Google sign-in failed")
		return
	}

	user, err := s.store.UserByEmail(r.Context(), profile.Email)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	if user == nil {
		user = &models.User{Name: profile.Name, Email: profile.Email}
		if err := s.store.CreateUser(r.Context(), user); err != nil {
			s.log.Error("user creation failed", zap.Error(err))
			s.writeError(w, http.StatusInternalServerError, "login failed")
			return
		}
	}

	s.issueSession(w, r, user, http.StatusOK)
}

type googleProfile struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (s *Server) fetchGoogleProfile(ctx context.Context, token *oauth2.Token) (*googleProfile, error) {
	client := s.oauthCfg.Client(ctx, token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("userinfo returned %d: %s", resp.StatusCode, body)
	}
	var profile googleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, err
	}
	if profile.Email == "" {
		return nil, fmt.Errorf("userinfo response missing email")
	}
	return &profile, nil
}
