package web

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"picfolio/internal/auth"
	"picfolio/internal/logger"
	"picfolio/internal/session"
	"picfolio/models"
)

func (h *WebHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, r, "register", &PageData{})
		return
	}

	s := h.sessions.Get(r)
	form := parseCredentials(r)
	if err := h.validate.Struct(form); err != nil {
		h.redirectWithFlash(w, r, s, session.FlashDanger, validationMessage(err), "/register")
		return
	}

	user, err := h.authService.Register(r.Context(), form.Username, form.Password)
	switch {
	case errors.Is(err, auth.ErrDuplicateUsername):
		h.redirectWithFlash(w, r, s, session.FlashDanger, "Username already exists. Please choose a different one.", "/register")
		return
	case errors.Is(err, auth.ErrPasswordTooLong):
		h.redirectWithFlash(w, r, s, session.FlashDanger, "Password is too long", "/register")
		return
	case errors.Is(err, auth.ErrEmptyUsername):
		h.redirectWithFlash(w, r, s, session.FlashDanger, "Username is required", "/register")
		return
	case err != nil:
		h.serverError(w, r, err)
		return
	}

	h.eventLogService.Record(r.Context(), models.UserRegistered, user.Username, "", "")
	h.redirectWithFlash(w, r, s, session.FlashSuccess, "Account created successfully. You can now login.", "/login")
}

func (h *WebHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, r, "login", &PageData{})
		return
	}

	s := h.sessions.Get(r)
	form := parseCredentials(r)
	if err := h.validate.Struct(form); err != nil {
		h.metrics.RecordLogin("failure")
		h.redirectWithFlash(w, r, s, session.FlashDanger, "Invalid credentials", "/login")
		return
	}

	user, err := h.authService.Authenticate(r.Context(), form.Username, form.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		logger.Info("login rejected", zap.String("username", form.Username))
		h.metrics.RecordLogin("failure")
		h.redirectWithFlash(w, r, s, session.FlashDanger, "Invalid credentials", "/login")
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	s.Login(user.Username)
	h.metrics.RecordLogin("success")
	h.eventLogService.Record(r.Context(), models.UserLoggedIn, user.Username, "", "")
	h.redirectWithFlash(w, r, s, session.FlashSuccess, "Login successful", "/upload")
}

// Logout clears the login but keeps any word game in progress.
func (h *WebHandler) Logout(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Get(r)
	if username := s.Username(); username != "" {
		h.eventLogService.Record(r.Context(), models.UserLoggedOut, username, "", "")
	}
	s.Logout()
	h.redirectWithFlash(w, r, s, session.FlashSuccess, "You have been logged out", "/")
}
