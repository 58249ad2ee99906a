package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoSession    = errors.New("no session")
	ErrInvalidToken = errors.New("invalid token")
)

// SessionResolver resolves the calling user from a request. Tokens are
// HS256 JWTs issued by the auth provider; the user id is the subject.
type SessionResolver struct {
	secret     []byte
	cookieName string
}

// NewSessionResolver creates a resolver for tokens signed with secret and
// carried in cookieName or an Authorization bearer header
func NewSessionResolver(secret, cookieName string) *SessionResolver {
	return &SessionResolver{
		secret:     []byte(secret),
		cookieName: cookieName,
	}
}

// CookieName returns the session cookie name
func (r *SessionResolver) CookieName() string {
	return r.cookieName
}

// UserID returns the id of the user the request belongs to
func (r *SessionResolver) UserID(req *http.Request) (string, error) {
	token := r.tokenFromRequest(req)
	if token == "" {
		return "", ErrNoSession
	}
	return r.Verify(token)
}

// Verify checks the token signature and expiry and returns its subject
func (r *SessionResolver) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return r.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	// The subject becomes a key prefix, it must be a single path segment
	if claims.Subject == "" || strings.Contains(claims.Subject, "/") {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}

// IssueToken mints a session token for userID, valid for ttl
func (r *SessionResolver) IssueToken(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})

	return token.SignedString(r.secret)
}

func (r *SessionResolver) tokenFromRequest(req *http.Request) string {
	if c, err := req.Cookie(r.cookieName); err == nil && c.Value != "" {
		return c.Value
	}

	header := req.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	return ""
}
