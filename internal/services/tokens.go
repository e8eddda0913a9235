package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultResetTokenTTL = 10 * time.Minute
	resetTokenIssuer     = "murmur"
	resetTokenAudience   = "password-reset"
)

var errMissingSigningKey = errors.New("signing key must be provided")

// TokenServiceConfig configures the password-reset token issuer.
type TokenServiceConfig struct {
	SigningKey []byte
	TokenTTL   time.Duration
	Clock      func() time.Time
}

// TokenService issues and verifies short-lived HS256 password-reset
// tokens. Expiry semantics live entirely in the token; the store keeps
// no reset state.
type TokenService struct {
	config TokenServiceConfig
	clock  func() time.Time
}

func NewTokenService(cfg TokenServiceConfig) *TokenService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultResetTokenTTL
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	cfg.Clock = clock
	return &TokenService{config: cfg, clock: clock}
}

// IssueResetToken produces a signed token whose subject is the user id.
func (s *TokenService) IssueResetToken(userID uint) (string, error) {
	if len(s.config.SigningKey) == 0 {
		return "", errMissingSigningKey
	}

	now := s.clock().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		Issuer:    resetTokenIssuer,
		Audience:  []string{resetTokenAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.config.SigningKey)
}

// VerifyResetToken validates the token and returns the user id it was
// issued for.
func (s *TokenService) VerifyResetToken(tokenString string) (uint, error) {
	if len(s.config.SigningKey) == 0 {
		return 0, errMissingSigningKey
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, fmt.Errorf("unexpected signing algorithm: %s", token.Method.Alg())
			}
			return s.config.SigningKey, nil
		},
		jwt.WithIssuer(resetTokenIssuer),
		jwt.WithAudience(resetTokenAudience),
		jwt.WithTimeFunc(s.clock),
	)
	if err != nil {
		return 0, err
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed subject claim: %w", err)
	}
	return uint(id), nil
}
