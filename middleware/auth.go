package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"survivor-league/interfaces"
	"survivor-league/logging"
	"survivor-league/models"
)

// PlayerContextKey is the key used to store the player in request context
type PlayerContextKey string

const PlayerKey PlayerContextKey = "player"

// AuthCookieName carries the session token for browser clients
const AuthCookieName = "auth_token"

// AuthMiddleware handles JWT authentication
type AuthMiddleware struct {
	authService interfaces.AuthService
	logger      *logging.Logger
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(authService interfaces.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		logger:      logging.WithPrefix("Auth"),
	}
}

// RequireAuth rejects requests without a valid session token
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		player, err := m.getPlayerFromRequest(r)
		if err != nil {
			m.logger.Debugf("Rejected %s %s: %v", r.Method, r.URL.Path, err)
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		ctx := context.WithValue(r.Context(), PlayerKey, player)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects requests from anyone but an administrator. Unauthenticated
// requests get 401, authenticated non-admins 403.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		player := GetPlayerFromContext(r)
		if !m.authService.IsAdmin(player) {
			m.logger.Warnf("Player %d denied admin access to %s %s", player.ID, r.Method, r.URL.Path)
			writeJSONError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// OptionalAuth adds the player to context if authenticated
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		player, _ := m.getPlayerFromRequest(r)
		if player != nil {
			ctx := context.WithValue(r.Context(), PlayerKey, player)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// getPlayerFromRequest extracts and validates the player from the request
func (m *AuthMiddleware) getPlayerFromRequest(r *http.Request) (*models.Player, error) {
	// Expected format: "Bearer <token>"
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return m.authService.GetPlayerFromToken(r.Context(), parts[1])
		}
	}

	cookie, err := r.Cookie(AuthCookieName)
	if err == nil && cookie.Value != "" {
		return m.authService.GetPlayerFromToken(r.Context(), cookie.Value)
	}

	return nil, http.ErrNoCookie
}

// GetPlayerFromContext retrieves the authenticated player from request context
func GetPlayerFromContext(r *http.Request) *models.Player {
	if player, ok := r.Context().Value(PlayerKey).(*models.Player); ok {
		return player
	}
	return nil
}

// IsAuthenticated checks if the request has an authenticated player
func IsAuthenticated(r *http.Request) bool {
	return GetPlayerFromContext(r) != nil
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
