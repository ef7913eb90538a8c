package httpapi

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"portfolio-backend-go/internal/models"
	"portfolio-backend-go/internal/storage"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt int64       `json:"expiresAt"`
	User      models.User `json:"user"`
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	if err := s.Validator.Struct(req); err != nil {
		writeServiceError(w, err)
		return
	}
	user, err := s.Store.Users().Validate(r.Context(), req.Username, req.Password)
	if errors.Is(err, storage.ErrInvalidCredentials) {
		WriteError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if err != nil {
		s.logError(r, "login failed", err)
		WriteError(w, http.StatusInternalServerError, "Login failed")
		return
	}
	token, exp, err := s.Tokens.CreateAccessToken(user)
	if err != nil {
		s.logError(r, "sign token", err)
		WriteError(w, http.StatusInternalServerError, "Login failed")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	s.Log.Info("user logged in", zap.Int("user_id", user.ID), zap.String("username", user.Username))
	WriteJSON(w, http.StatusOK, LoginResponse{Token: token, ExpiresAt: exp.Unix(), User: user})
}

func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	WriteJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

func (s *Server) CurrentUser(w http.ResponseWriter, r *http.Request) {
	session, _ := CurrentSession(r)
	user, err := s.Store.Users().Get(r.Context(), session.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		WriteError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}
	if err != nil {
		s.logError(r, "load current user", err)
		WriteError(w, http.StatusInternalServerError, "Failed to fetch user")
		return
	}
	WriteJSON(w, http.StatusOK, user)
}
