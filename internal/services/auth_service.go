package services

import (
	"database/sql"
	"errors"
	"time"

	"marketbay/internal/domain"
	"marketbay/internal/repos"
	"marketbay/internal/validate"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Identity is the verified caller attached to each authenticated request.
type Identity struct {
	UserID string
	Role   string
}

type AuthService struct {
	Users  *repos.UserRepo
	Secret []byte
	TTL    time.Duration
}

func NewAuthService(users *repos.UserRepo, secret string, ttl time.Duration) *AuthService {
	return &AuthService{Users: users, Secret: []byte(secret), TTL: ttl}
}

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (s *AuthService) Register(email, password string) (*domain.User, string, error) {
	email, ok := validate.Email(email)
	if !ok {
		return nil, "", &ValidationError{Fields: []string{"email"}}
	}
	if !validate.Password(password) {
		return nil, "", &ValidationError{Fields: []string{"password"}}
	}
	if _, err := s.Users.ByEmail(email); err == nil {
		return nil, "", &ConflictError{Resource: "user", Field: "email", Value: email}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	u := &domain.User{
		ID:    uuid.NewString(),
		Email: email,
		Hash:  string(hash),
		Role:  domain.RoleCustomer,
	}
	if err := s.Users.Create(u); err != nil {
		return nil, "", err
	}

	tok, err := s.mint(u)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

// Login deliberately collapses "no such user" and "wrong password" into
// one generic failure.
func (s *AuthService) Login(email, password string) (*domain.User, string, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, "", ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, "", ErrBadCreds
	}
	tok, err := s.mint(u)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

func (s *AuthService) mint(u *domain.User) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
		},
	})
	return t.SignedString(s.Secret)
}

// Verify parses and validates a token, returning the caller's identity.
func (s *AuthService) Verify(token string) (*Identity, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	if c.Subject == "" {
		return nil, jwt.ErrTokenInvalidSubject
	}
	return &Identity{UserID: c.Subject, Role: c.Role}, nil
}
