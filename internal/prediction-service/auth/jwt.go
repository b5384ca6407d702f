package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("token ausente")
	ErrInvalidToken = errors.New("token inválido")
)

// Authenticator resolve o token do cliente para o id do usuário.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// JWT valida tokens HS256 emitidos pelo provedor de identidade; o usuário vem do claim "sub".
type JWT struct {
	secret []byte
}

func NewJWT(secret string) *JWT { return &JWT{secret: []byte(secret)} }

func (j *JWT) Authenticate(_ context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrMissingToken
	}
	tok, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("algoritmo inválido")
		}
		return j.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return "", ErrInvalidToken
	}
	sub, err := tok.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}

// Issue assina um token de acesso para o usuário (ambiente local e testes).
func (j *JWT) Issue(userID string, ttl time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
}

// BearerToken extrai o token do header Authorization.
// Para WebSocket (navegador não manda header) aceita também ?access_token=.
func BearerToken(r *http.Request, allowQuery bool) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(h), "bearer ") {
		return strings.TrimSpace(h[len("Bearer "):])
	}
	if allowQuery {
		return r.URL.Query().Get("access_token")
	}
	return ""
}
