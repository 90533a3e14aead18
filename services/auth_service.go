package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"survivor-league/logging"
	"survivor-league/models"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenExpiry is the session lifetime when none is configured
const DefaultTokenExpiry = 30 * 24 * time.Hour

// AuthService handles magic-link login and session tokens
type AuthService struct {
	players     PlayerRepository
	jwtSecret   []byte
	tokenExpiry time.Duration
	adminEmails map[string]bool
	logger      *logging.Logger
	now         func() time.Time
}

// JWTClaims represents the claims in our JWT token
type JWTClaims struct {
	PlayerID int    `json:"player_id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	jwt.RegisteredClaims
}

// AuthResponse is returned after a successful login
type AuthResponse struct {
	Token  string        `json:"token"`
	Player models.Player `json:"player"`
}

// NewAuthService creates a new authentication service
func NewAuthService(players PlayerRepository, jwtSecret string, tokenExpiry time.Duration, adminEmails []string) *AuthService {
	if tokenExpiry <= 0 {
		tokenExpiry = DefaultTokenExpiry
	}
	admins := make(map[string]bool, len(adminEmails))
	for _, email := range adminEmails {
		if email = models.NormalizeEmail(email); email != "" {
			admins[email] = true
		}
	}
	return &AuthService{
		players:     players,
		jwtSecret:   []byte(jwtSecret),
		tokenExpiry: tokenExpiry,
		adminEmails: admins,
		logger:      logging.WithPrefix("AuthService"),
		now:         time.Now,
	}
}

// RequestMagicLink issues a login token for a known player. Unknown emails
// return an empty token and no error so callers cannot probe for accounts.
func (a *AuthService) RequestMagicLink(ctx context.Context, email string) (string, error) {
	player, err := a.players.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			a.logger.Debugf("Magic link requested for unknown email %s", models.NormalizeEmail(email))
			return "", nil
		}
		return "", fmt.Errorf("failed to look up player: %w", err)
	}

	token, err := player.IssueLoginToken(a.now())
	if err != nil {
		return "", fmt.Errorf("failed to generate login token: %w", err)
	}
	if err := a.players.SaveLoginToken(ctx, player); err != nil {
		return "", err
	}
	return token, nil
}

// VerifyMagicLink exchanges a login token for a session token. Login tokens
// are single use.
func (a *AuthService) VerifyMagicLink(ctx context.Context, token string) (*AuthResponse, error) {
	selector, verifier, ok := models.SplitLoginToken(token)
	if !ok {
		return nil, fmt.Errorf("malformed login token: %w", ErrUnauthorized)
	}

	player, err := a.players.GetByLoginSelector(ctx, selector)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("invalid or expired login token: %w", ErrUnauthorized)
		}
		return nil, err
	}

	now := a.now()
	if !player.CheckLoginToken(verifier, now) {
		return nil, fmt.Errorf("invalid or expired login token: %w", ErrUnauthorized)
	}

	player.ClearLoginToken(now)
	if err := a.players.SaveLoginToken(ctx, player); err != nil {
		return nil, err
	}

	session, err := a.GenerateToken(player)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	a.logger.Infof("Player %d logged in", player.ID)
	return &AuthResponse{Token: session, Player: player.ToPublic()}, nil
}

// GenerateToken creates a new JWT token for the player
func (a *AuthService) GenerateToken(player *models.Player) (string, error) {
	now := a.now()
	claims := JWTClaims{
		PlayerID: player.ID,
		Email:    player.Email,
		Name:     player.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "survivor-league",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.jwtSecret)
}

// ValidateToken validates a JWT token and returns the claims
func (a *AuthService) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return a.jwtSecret, nil
	}, jwt.WithTimeFunc(a.now))
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrUnauthorized)
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token: %w", ErrUnauthorized)
}

// GetPlayerFromToken validates a token and loads its player
func (a *AuthService) GetPlayerFromToken(ctx context.Context, tokenString string) (*models.Player, error) {
	claims, err := a.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	player, err := a.players.GetByID(ctx, claims.PlayerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("player %d no longer exists: %w", claims.PlayerID, ErrUnauthorized)
		}
		return nil, err
	}
	return player, nil
}

// IsAdmin reports whether the player may use admin routes
func (a *AuthService) IsAdmin(player *models.Player) bool {
	if player == nil {
		return false
	}
	return player.IsAdmin || a.adminEmails[models.NormalizeEmail(player.Email)]
}

// TokenExpiry is the session lifetime
func (a *AuthService) TokenExpiry() time.Duration {
	return a.tokenExpiry
}
