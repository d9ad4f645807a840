package auth

import (
	"errors"
	"time"

	"taskboard/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is the single verification failure. Malformed, expired,
// tampered and wrong-type tokens are indistinguishable to callers.
var ErrInvalidToken = errors.New("auth: invalid or expired token")

const clockSkew = 30 * time.Second

type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	audience      string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewManager(cfg config.AuthConfig) (*Manager, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.JWTRefreshSecret == "" {
		return nil, errors.New("JWT_REFRESH_SECRET is required")
	}
	if cfg.JWTSecret == cfg.JWTRefreshSecret {
		return nil, errors.New("access and refresh secrets must differ")
	}
	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return nil, errors.New("token TTLs must be positive")
	}

	return &Manager{
		accessSecret:  []byte(cfg.JWTSecret),
		refreshSecret: []byte(cfg.JWTRefreshSecret),
		issuer:        cfg.JWTIssuer,
		audience:      cfg.JWTAudience,
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
	}, nil
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

func (m *Manager) AccessTTL() time.Duration  { return m.accessTTL }
func (m *Manager) RefreshTTL() time.Duration { return m.refreshTTL }

/* ===================== ISSUE TOKENS ===================== */

func (m *Manager) IssuePair(now time.Time, sub Subject) (TokenPair, error) {
	access, err := m.IssueAccess(now, sub)
	if err != nil {
		return TokenPair{}, err
	}

	// refresh tokens carry only the subject id
	refresh, err := m.issue(now, TokenTypeRefresh, Subject{UserID: sub.UserID})
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func (m *Manager) IssueAccess(now time.Time, sub Subject) (string, error) {
	if sub.UserID == "" || sub.Email == "" || sub.Role == "" {
		return "", errors.New("auth: access subject requires user id, email and role")
	}
	return m.issue(now, TokenTypeAccess, sub)
}

/* ===================== VERIFY TOKEN ===================== */

func (m *Manager) Verify(tokenString string, expected TokenType, now time.Time) (Claims, error) {
	secret, ok := m.secretFor(expected)
	if !ok || tokenString == "" {
		return Claims{}, ErrInvalidToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithLeeway(clockSkew),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	if m.audience != "" {
		opts = append(opts, jwt.WithAudience(m.audience))
	}

	var claims Claims
	_, err := jwt.NewParser(opts...).ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	if claims.TokenType != expected || claims.UserID == "" {
		return Claims{}, ErrInvalidToken
	}
	if expected == TokenTypeAccess && (claims.Role == "" || claims.Email == "") {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}

/* ===================== INTERNAL ISSUE ===================== */

func (m *Manager) issue(now time.Time, tokenType TokenType, sub Subject) (string, error) {
	secret, ok := m.secretFor(tokenType)
	if !ok {
		return "", errors.New("auth: unknown token type")
	}

	ttl := m.accessTTL
	if tokenType == TokenTypeRefresh {
		ttl = m.refreshTTL
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   sub.UserID,
			Audience:  audienceOrNil(m.audience),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		UserID:    sub.UserID,
		Email:     sub.Email,
		Role:      sub.Role,
		TokenType: tokenType,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

func (m *Manager) secretFor(t TokenType) ([]byte, bool) {
	switch t {
	case TokenTypeAccess:
		return m.accessSecret, true
	case TokenTypeRefresh:
		return m.refreshSecret, true
	default:
		return nil, false
	}
}

func audienceOrNil(aud string) jwt.ClaimStrings {
	if aud == "" {
		return nil
	}
	return jwt.ClaimStrings{aud}
}
