package models

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// LoginTokenTTL is how long a magic-link token stays valid.
const LoginTokenTTL = 30 * time.Minute

// Player is a league member. Players are created the first time they submit a tribe.
type Player struct {
	ID       int                  `json:"id" bson:"_id"`
	Email    string               `json:"email" bson:"email"`
	Name     string               `json:"name" bson:"name"`
	TribeIDs []primitive.ObjectID `json:"tribeIds" bson:"tribe_ids"`
	Badges   []EarnedBadge        `json:"badges" bson:"badges"`
	IsAdmin  bool                 `json:"isAdmin,omitempty" bson:"is_admin"`

	// Magic-link token: the selector is stored in clear for lookup, the verifier
	// only as a bcrypt hash.
	LoginSelector     string     `json:"-" bson:"login_selector,omitempty"`
	LoginVerifierHash string     `json:"-" bson:"login_verifier_hash,omitempty"`
	LoginTokenExpiry  *time.Time `json:"-" bson:"login_token_expiry,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

// NormalizeEmail lower-cases and trims an email address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ToPublic returns a copy without login-token fields or email.
func (p *Player) ToPublic() Player {
	return Player{
		ID:        p.ID,
		Name:      p.Name,
		TribeIDs:  p.TribeIDs,
		Badges:    p.Badges,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// HasBadge reports whether the player already earned code for season.
func (p *Player) HasBadge(code BadgeCode, season int) bool {
	for _, b := range p.Badges {
		if b.Code == code && b.Season == season {
			return true
		}
	}
	return false
}

// IssueLoginToken creates a new magic-link token and returns it in the form
// "selector.verifier". Only the bcrypt hash of the verifier is kept on the player.
func (p *Player) IssueLoginToken(now time.Time) (string, error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	verifier := hex.EncodeToString(raw)

	hash, err := bcrypt.GenerateFromPassword([]byte(verifier), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	selector := uuid.NewString()
	expiry := now.Add(LoginTokenTTL)
	p.LoginSelector = selector
	p.LoginVerifierHash = string(hash)
	p.LoginTokenExpiry = &expiry
	p.UpdatedAt = now

	return selector + "." + verifier, nil
}

// SplitLoginToken separates a magic-link token into selector and verifier.
func SplitLoginToken(token string) (selector, verifier string, ok bool) {
	selector, verifier, ok = strings.Cut(token, ".")
	if !ok || selector == "" || verifier == "" {
		return "", "", false
	}
	return selector, verifier, true
}

// CheckLoginToken verifies the verifier half of a magic-link token.
func (p *Player) CheckLoginToken(verifier string, now time.Time) bool {
	if p.LoginVerifierHash == "" || p.LoginTokenExpiry == nil {
		return false
	}
	if !now.Before(*p.LoginTokenExpiry) {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(p.LoginVerifierHash), []byte(verifier)) == nil
}

// ClearLoginToken invalidates the current magic-link token.
func (p *Player) ClearLoginToken(now time.Time) {
	p.LoginSelector = ""
	p.LoginVerifierHash = ""
	p.LoginTokenExpiry = nil
	p.UpdatedAt = now
}
