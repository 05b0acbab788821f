package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const sessionTokenTTL = 30 * 24 * time.Hour

var ErrTokenInvalid = errors.New("token invalid")

// Service issues anonymous session tokens. A token only names the storage
// namespace of one client; there are no users behind it.
type Service struct {
	secret []byte
	now    func() time.Time
}

type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type Token struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

func NewService(secret string) *Service {
	return &Service{secret: []byte(secret), now: time.Now}
}

func (s *Service) Issue() (Token, error) {
	sessionID := uuid.NewString()
	expiresAt := s.now().Add(sessionTokenTTL)

	signed, err := s.signToken(sessionID, expiresAt)
	if err != nil {
		return Token{}, err
	}
	return Token{
		Token:     signed,
		TokenType: "Bearer",
		SessionID: sessionID,
		ExpiresAt: expiresAt.UTC(),
	}, nil
}

// Validate returns the session id carried by token.
func (s *Service) Validate(token string) (string, error) {
	claims, err := parseToken(token, s.secret)
	if err != nil {
		return "", err
	}
	return claims.SessionID, nil
}

func (s *Service) signToken(sessionID string, expiresAt time.Time) (string, error) {
	claims := Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(s.now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func parseToken(token string, secret []byte) (*Claims, error) {
	parsed, err := parseClaimsFn(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.SessionID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

var parseClaimsFn = jwt.ParseWithClaims
