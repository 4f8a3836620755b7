package utils // package utils provides helpers for issuing and reading visitor tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and verifying signed tokens
	"github.com/google/uuid"
)

// Visitor roles carried in the "role" claim.  Every browser starts as a
// GUEST; a successful remote login re-issues the token as MEMBER.
const (
	RoleGuest  = "GUEST"
	RoleMember = "MEMBER"
)

// ErrInvalidToken is returned for tokens that fail signature, expiry or
// claim checks.
var ErrInvalidToken = errors.New("invalid visitor token")

// VisitorToken is a signed HS256 JWT identifying one visitor together with
// its expiry.  The visitor id is the key under which all per-visitor state
// (selection, pending booking, remote login) is stored.
type VisitorToken struct {
	Token     string    `json:"token"`
	VisitorID string    `json:"visitor_id"`
	Role      string    `json:"role"`
	Exp       time.Time `json:"expires_at"`
}

// NewVisitorID returns a fresh random visitor id.
func NewVisitorID() string {
	return uuid.NewString()
}

// NewVisitorToken signs a token for visitorID.  The claims are sub (the
// visitor id), role, exp and iat.
func NewVisitorToken(secret, visitorID, role string, ttl time.Duration) (VisitorToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":  visitorID,
		"role": role,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return VisitorToken{}, err
	}
	return VisitorToken{Token: signed, VisitorID: visitorID, Role: role, Exp: exp}, nil
}

// ParseVisitorToken verifies raw and returns its visitor id and role.  Only
// HMAC signed tokens are accepted.
func ParseVisitorToken(secret, raw string) (visitorID, role string, err error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return "", "", ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", ErrInvalidToken
	}
	visitorID, _ = claims["sub"].(string)
	role, _ = claims["role"].(string)
	if visitorID == "" || (role != RoleGuest && role != RoleMember) {
		return "", "", ErrInvalidToken
	}
	return visitorID, role, nil
}
