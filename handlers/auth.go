package handlers

import (
	"net/http"
	"net/url"
	"time"

	"survivor-league/interfaces"
	"survivor-league/logging"
	"survivor-league/middleware"
)

// AuthHandler handles magic-link login and logout
type AuthHandler struct {
	authService   interfaces.AuthService
	linkBaseURL   string
	logLinks      bool
	secureCookies bool
	logger        *logging.Logger
}

// AuthHandlerConfig controls how login links and cookies are issued
type AuthHandlerConfig struct {
	// LinkBaseURL prefixes the token in logged login links
	LinkBaseURL string
	// LogLinks writes login links to the log. Only enabled in development.
	LogLinks bool
	// SecureCookies marks the session cookie Secure
	SecureCookies bool
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService interfaces.AuthService, cfg AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		linkBaseURL:   cfg.LinkBaseURL,
		logLinks:      cfg.LogLinks,
		secureCookies: cfg.SecureCookies,
		logger:        logging.WithPrefix("AuthHandler"),
	}
}

type magicLinkRequest struct {
	Email string `json:"email"`
}

type verifyRequest struct {
	Token string `json:"token"`
}

// RequestMagicLink handles POST /api/auth/magic-link. It always answers 202
// so the response does not reveal whether an email is registered.
func (h *AuthHandler) RequestMagicLink(w http.ResponseWriter, r *http.Request) {
	var req magicLinkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	token, err := h.authService.RequestMagicLink(r.Context(), req.Email)
	switch {
	case err != nil:
		h.logger.Errorf("Failed to issue magic link: %v", err)
	case token != "" && h.logLinks:
		h.logger.Infof("Magic link for %s: %s?token=%s", req.Email, h.linkBaseURL, url.QueryEscape(token))
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

// Verify handles POST /api/auth/verify
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Token == "" {
		writeError(w, http.StatusBadRequest, "token is required")
		return
	}

	authResponse, err := h.authService.VerifyMagicLink(r.Context(), req.Token)
	if err != nil {
		writeServiceError(w, h.logger, "Verify", err)
		return
	}

	h.setAuthCookie(w, authResponse.Token, time.Now().Add(h.authService.TokenExpiry()))
	h.logger.Infof("Player %d (%s) logged in", authResponse.Player.ID, authResponse.Player.Name)
	writeJSON(w, http.StatusOK, authResponse)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.setAuthCookie(w, "", time.Unix(0, 0))
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) setAuthCookie(w http.ResponseWriter, token string, expires time.Time) {
	cookie := &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	}
	if token == "" {
		cookie.MaxAge = -1
	}
	http.SetCookie(w, cookie)
}
