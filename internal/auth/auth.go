// Package auth implementa el auth provider de Haven: identities de password
// con bcrypt y sesiones bearer JWT (HS256).
//
// El resto del sistema consume sólo la interfaz CurrentUserProvider; si
// mañana esto se reemplaza por un provider externo (social login), los
// handlers no cambian.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/dropDatabas3/haven/internal/domain/repository"
)

// CurrentUserProvider resuelve el usuario autenticado de un request.
type CurrentUserProvider interface {
	// CurrentUser retorna el usuario del bearer token o ErrUnauthorized.
	CurrentUser(r *http.Request) (*repository.User, error)
}

type Service struct {
	Users     repository.UserRepository
	Secret    []byte
	Issuer    string
	AccessTTL time.Duration
}

func NewService(users repository.UserRepository, secret, issuer string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{Users: users, Secret: []byte(secret), Issuer: issuer, AccessTTL: ttl}
}

// Signup crea el usuario y retorna un access token (auto-login).
func (s *Service) Signup(ctx context.Context, email, name, password string) (*repository.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", fmt.Errorf("%w: email", repository.ErrInvalidInput)
	}
	if len(password) < 8 {
		return nil, "", fmt.Errorf("%w: password too short", repository.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user, _, err := s.Users.Create(ctx, repository.CreateUserInput{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login valida credenciales y retorna un access token.
func (s *Service) Login(ctx context.Context, email, password string) (*repository.User, string, error) {
	user, ident, err := s.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, "", repository.ErrUnauthorized
		}
		return nil, "", err
	}
	if ident == nil || !s.Users.CheckPassword(ident.PasswordHash, password) {
		return nil, "", repository.ErrUnauthorized
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *Service) issueToken(u *repository.User) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   u.ID,
		Issuer:    s.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.AccessTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

// CurrentUser implementa CurrentUserProvider sobre el header Authorization.
func (s *Service) CurrentUser(r *http.Request) (*repository.User, error) {
	raw := bearerToken(r)
	if raw == "" {
		return nil, repository.ErrUnauthorized
	}

	parsed, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.Secret, nil
	}, jwt.WithIssuer(s.Issuer), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, repository.ErrUnauthorized
	}

	claims := parsed.Claims.(*jwt.RegisteredClaims)
	user, err := s.Users.GetByID(r.Context(), claims.Subject)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, repository.ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
