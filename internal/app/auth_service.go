// Package app holds the application services and business logic.
package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"artesanal/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials indicates that the provided email or password was incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidToken indicates that the session token failed validation.
	ErrInvalidToken = errors.New("invalid session token")
	// ErrUserNotFound indicates that the user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken indicates that an account already exists for the email.
	ErrEmailTaken = errors.New("email already registered")
)

// AuthService handles account credentials and session tokens.
type AuthService struct {
	users    domain.UserRepository
	secret   []byte
	tokenTTL time.Duration
}

// NewAuthService creates an authentication service signing tokens with the
// given secret.
func NewAuthService(users domain.UserRepository, secret []byte) *AuthService {
	return &AuthService{users: users, secret: secret, tokenTTL: 24 * time.Hour}
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Login authenticates a user by email and password and issues a session
// token.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil || user == nil {
		return domain.User{}, "", ErrInvalidCredentials
	}
	if user.PasswordHash == "" {
		return domain.User{}, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, "", ErrInvalidCredentials
	}
	token, err := s.issueToken(user)
	if err != nil {
		return domain.User{}, "", err
	}
	return *user, token, nil
}

// Register creates an account and issues a session token.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (domain.User, string, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return domain.User{}, "", err
	}
	if existing != nil {
		return domain.User{}, "", ErrEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, "", err
	}
	user, err := s.users.Create(ctx, email, name, string(hash))
	if err != nil {
		return domain.User{}, "", err
	}
	token, err := s.issueToken(user)
	if err != nil {
		return domain.User{}, "", err
	}
	return *user, token, nil
}

// LoginWithIdentity issues a session for an externally authenticated
// identity (SSO), auto-provisioning the account on first login. SSO
// accounts carry no password hash.
func (s *AuthService) LoginWithIdentity(ctx context.Context, email, name string) (domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return domain.User{}, "", err
	}
	if user == nil {
		user, err = s.users.Create(ctx, email, name, "")
		if err != nil {
			// Retry the lookup in case creation raced a unique constraint.
			user, err = s.users.GetByEmail(ctx, email)
			if err != nil || user == nil {
				return domain.User{}, "", fmt.Errorf("provision sso user: %w", err)
			}
		}
	}
	token, err := s.issueToken(user)
	if err != nil {
		return domain.User{}, "", err
	}
	return *user, token, nil
}

// ParseToken validates a session token and resolves its user.
func (s *AuthService) ParseToken(ctx context.Context, token string) (domain.User, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return domain.User{}, ErrInvalidToken
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return domain.User{}, ErrInvalidToken
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if user == nil {
		return domain.User{}, ErrUserNotFound
	}
	return *user, nil
}

// UpdateProfile shallow-merges the patch into the stored user record.
func (s *AuthService) UpdateProfile(ctx context.Context, id int64, patch domain.UserPatch) (domain.User, error) {
	user, err := s.users.UpdateProfile(ctx, id, patch)
	if err != nil {
		return domain.User{}, err
	}
	if user == nil {
		return domain.User{}, ErrUserNotFound
	}
	return *user, nil
}

func (s *AuthService) issueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
		Email: user.Email,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
