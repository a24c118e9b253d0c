package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the cookie carrying the session token.
const CookieName = "auth_token"

var ErrInvalidSession = errors.New("invalid session token")

// Identity is what a verified session carries for the request.
type Identity struct {
	ID          string
	Username    string
	AccessToken string
}

// Claims represents the session JWT claims. The access token is sealed.
type Claims struct {
	UserID      string `json:"id"`
	Username    string `json:"username"`
	AccessToken string `json:"access_token"`
	jwt.RegisteredClaims
}

// Sessions issues and verifies the HS256 session token stored in the cookie.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	sealer *Sealer
	now    func() time.Time
}

func NewSessions(secret string, ttl time.Duration) (*Sessions, error) {
	if secret == "" {
		return nil, errors.New("session secret is empty")
	}
	sealer, err := NewSealer(secret)
	if err != nil {
		return nil, err
	}
	return &Sessions{secret: []byte(secret), ttl: ttl, sealer: sealer, now: time.Now}, nil
}

func (s *Sessions) TTL() time.Duration { return s.ttl }

func (s *Sessions) Issue(id Identity) (string, error) {
	sealed, err := s.sealer.Seal(id.AccessToken)
	if err != nil {
		return "", fmt.Errorf("seal access token: %w", err)
	}

	now := s.now()
	claims := &Claims{
		UserID:      id.ID,
		Username:    id.Username,
		AccessToken: sealed,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

// Verify checks signature, algorithm and expiry, then opens the sealed
// access token. Every failure is reported as ErrInvalidSession.
func (s *Sessions) Verify(tokenString string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidSession
	}

	accessToken, err := s.sealer.Open(claims.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	return &Identity{ID: claims.UserID, Username: claims.Username, AccessToken: accessToken}, nil
}
