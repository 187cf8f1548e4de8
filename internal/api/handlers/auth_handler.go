package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/platescout/platescout/internal/domain/entities"
	"github.com/platescout/platescout/internal/domain/repositories"
	"github.com/platescout/platescout/internal/session"
	"github.com/platescout/platescout/internal/web"
	apperrors "github.com/platescout/platescout/pkg/errors"
)

// AuthHandler handles registration, login, and logout
type AuthHandler struct {
	users    repositories.UserRepository
	sessions *session.Manager
	renderer *web.Renderer
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users repositories.UserRepository, sessions *session.Manager, renderer *web.Renderer) *AuthHandler {
	return &AuthHandler{
		users:    users,
		sessions: sessions,
		renderer: renderer,
	}
}

// ShowLogin handles GET /login. Visiting the page drops any existing
// session.
func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	h.renderer.Render(w, "login", nil)
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	userID := r.FormValue("userid")
	password := r.FormValue("password")

	user, err := h.users.GetByUserID(r.Context(), userID)
	if err != nil {
		if !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			log.Error().Err(err).Msg("login lookup failed")
		}
		h.renderer.Render(w, "error", &web.ErrorData{
			Error: "Username / password not match",
			Back:  "/login",
		})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		h.renderer.Render(w, "error", &web.ErrorData{
			Error: "Username / password not match",
			Back:  "/login",
		})
		return
	}

	if err := h.sessions.Save(w, &session.Session{UserID: user.UserID}); err != nil {
		log.Error().Err(err).Msg("failed to save session")
		h.renderer.Render(w, "error", &web.ErrorData{Error: "Internal error", Back: "/login"})
		return
	}
	http.Redirect(w, r, "/read", http.StatusFound)
}

// Logout handles GET /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

// ShowRegister handles GET /register. Visiting the page drops any
// existing session.
func (h *AuthHandler) ShowRegister(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	h.renderer.Render(w, "register", nil)
}

// Register handles POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	userID := r.FormValue("userid")
	password := r.FormValue("password")

	if err := entities.ValidateCredentials(userID, password); err != nil {
		h.renderError(w, err, "/register")
		return
	}

	// Refuse taken names up front for a friendlier error; the keyed
	// store still catches races as a conflict on Create.
	if _, err := h.users.GetByUserID(r.Context(), userID); err == nil {
		h.renderer.Render(w, "error", &web.ErrorData{
			Error: "Username is used",
			Back:  "/register",
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")
		h.renderer.Render(w, "error", &web.ErrorData{Error: "Internal error", Back: "/register"})
		return
	}

	user := &entities.User{UserID: userID, PasswordHash: string(hash)}
	if err := h.users.Create(r.Context(), user); err != nil {
		h.renderError(w, err, "/register")
		return
	}

	if err := h.sessions.Save(w, &session.Session{UserID: user.UserID}); err != nil {
		log.Error().Err(err).Msg("failed to save session")
		h.renderer.Render(w, "error", &web.ErrorData{Error: "Internal error", Back: "/register"})
		return
	}
	http.Redirect(w, r, "/read", http.StatusFound)
}

func (h *AuthHandler) renderError(w http.ResponseWriter, err error, back string) {
	msg := "Internal error"
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) &&
		(appErr.Type == apperrors.ErrorTypeValidation || appErr.Type == apperrors.ErrorTypeConflict) {
		msg = appErr.Message
	} else {
		log.Error().Err(err).Msg("registration failed")
	}
	h.renderer.Render(w, "error", &web.ErrorData{Error: msg, Back: back})
}
