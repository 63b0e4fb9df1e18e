package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/abdidvp/kraftstore/internal/domain"
	"github.com/golang-jwt/jwt/v4"
)

type sessionClaims struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// JWTIssuer signs session claims as HS256 JSON Web Tokens.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTIssuer(secret string, ttl time.Duration) (*JWTIssuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	return &JWTIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (j *JWTIssuer) Issue(c domain.SessionClaims) (string, error) {
	now := j.now()
	claims := sessionClaims{
		ID:    c.ID,
		Email: c.Email,
		Name:  c.Name,
		Role:  c.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

func (j *JWTIssuer) Parse(token string) (domain.SessionClaims, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil || !parsed.Valid || claims.ID == "" || !claims.Role.Valid() {
		return domain.SessionClaims{}, domain.ErrUnauthorized
	}
	return domain.SessionClaims{
		ID:    claims.ID,
		Email: claims.Email,
		Name:  claims.Name,
		Role:  claims.Role,
	}, nil
}
