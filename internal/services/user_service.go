package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"jangbu/internal/core"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

const minPasswordLength = 8

type UserStore interface {
	CreateUser(ctx context.Context, u core.User) (core.User, error)
	UserByEmail(ctx context.Context, email string) (core.User, error)
}

// TokenIssuer signs a token for a user id.
type TokenIssuer interface {
	Issue(userID int64) (string, error)
}

type UserService struct {
	store  UserStore
	tokens TokenIssuer
}

func NewUserService(store UserStore, tokens TokenIssuer) *UserService {
	return &UserService{store: store, tokens: tokens}
}

// SignUp registers a user and returns them with a fresh token. The email is
// normalized to lower case; a taken email reports ErrDuplicate.
func (s *UserService) SignUp(ctx context.Context, email, nickname, password string) (core.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !validEmail(email) {
		return core.User{}, "", errors.New("invalid email")
	}
	if strings.TrimSpace(nickname) == "" {
		return core.User{}, "", core.ErrEmptyName
	}
	if len(password) < minPasswordLength {
		return core.User{}, "", fmt.Errorf("password too short (min %d characters)", minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return core.User{}, "", fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, core.User{
		Email:        email,
		Nickname:     strings.TrimSpace(nickname),
		PasswordHash: string(hash),
	})
	if err != nil {
		return core.User{}, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return core.User{}, "", fmt.Errorf("issue token: %w", err)
	}

	slog.InfoContext(ctx, "User registered", "user_id", user.ID, "email", user.Email)
	return user, token, nil
}

// Login verifies credentials and returns the user with a fresh token. An
// unknown email and a wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (core.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.store.UserByEmail(ctx, email)
	if errors.Is(err, core.ErrNotFound) {
		return core.User{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return core.User{}, "", fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return core.User{}, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return core.User{}, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

func validEmail(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return strings.Contains(email[at+1:], ".")
}
