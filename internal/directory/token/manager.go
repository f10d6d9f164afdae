package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/desempeno/evaluacion-backend/internal/directory/domain"
	"github.com/desempeno/evaluacion-backend/pkg/config"
	"github.com/desempeno/evaluacion-backend/pkg/errors"
)

// Claims are the JWT claims issued after a successful login.
type Claims struct {
	Cedula int64       `json:"cedula"`
	Nombre string      `json:"nombre"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Manager issues and validates access tokens
type Manager struct {
	secret []byte
	expiry time.Duration
	issuer string
}

// NewManager creates a token manager from configuration
func NewManager(cfg *config.JWTConfig) *Manager {
	return &Manager{
		secret: []byte(cfg.Secret),
		expiry: cfg.AccessExpiry,
		issuer: cfg.Issuer,
	}
}

// Generate creates a signed token for an authenticated employee
func (m *Manager) Generate(employee *domain.Employee) (string, error) {
	now := time.Now()

	claims := Claims{
		Cedula: employee.Cedula,
		Nombre: employee.Nombre,
		Role:   employee.Role(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Validate parses and validates a token string, returning its claims
func (m *Manager) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.TokenInvalid()
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.TokenExpired()
		}
		return nil, errors.TokenInvalid()
	}

	if !token.Valid {
		return nil, errors.TokenInvalid()
	}

	return claims, nil
}
