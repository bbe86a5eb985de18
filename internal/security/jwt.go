package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Rrens/fitness-coach/internal/domain"
)

// TokenService issues and verifies HS256 bearer tokens carrying the user id
// in the subject claim.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewTokenService creates a new token service
func NewTokenService(secret string, ttl time.Duration, issuer string) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: issuer,
		now:    time.Now,
	}
}

// WithClock replaces the clock used for issuing and expiry checks
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// Issue signs a token for subject that expires after the configured TTL
func (s *TokenService) Issue(subject domain.UserID) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := jwt.RegisteredClaims{
		Subject:   subject.String(),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    s.issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// Verify checks signature and expiry and returns the subject. Every failure
// is reported as domain.InvalidCredential; the cause is kept for logging.
func (s *TokenService) Verify(tokenString string) (domain.UserID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", domain.NewAuthError(domain.InvalidCredential, err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", domain.NewAuthError(domain.InvalidCredential, errors.New("invalid token"))
	}

	if claims.Subject == "" {
		return "", domain.NewAuthError(domain.InvalidCredential, errors.New("missing subject claim"))
	}

	return domain.UserID(claims.Subject), nil
}

// TTL returns the token lifetime
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}
