package services

import (
	"context"
	"errors"
	"testing"

	"jangbu/internal/core"
)

func TestSignUpAndLogin(t *testing.T) {
	svc := NewUserService(newFakeUserStore(), fakeTokenIssuer{})
	ctx := context.Background()

	user, token, err := svc.SignUp(ctx, "Budget@Example.com", "가계부지기", "supersecret")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}
	if user.Email != "budget@example.com" {
		t.Fatalf("email should be lower-cased, got %s", user.Email)
	}
	if user.PasswordHash == "supersecret" {
		t.Fatal("password must not be stored in the clear")
	}

	got, token, err := svc.Login(ctx, "budget@example.com", "supersecret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != user.ID || token == "" {
		t.Fatalf("login returned wrong user: %+v", got)
	}
}

func TestSignUpValidation(t *testing.T) {
	svc := NewUserService(newFakeUserStore(), fakeTokenIssuer{})
	ctx := context.Background()

	cases := []struct {
		name     string
		email    string
		nickname string
		password string
	}{
		{"no at sign", "not-an-email", "nick", "supersecret"},
		{"no domain dot", "a@b", "nick", "supersecret"},
		{"empty nickname", "a@example.com", "  ", "supersecret"},
		{"short password", "a@example.com", "nick", "short"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := svc.SignUp(ctx, tc.email, tc.nickname, tc.password); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	svc := NewUserService(newFakeUserStore(), fakeTokenIssuer{})
	ctx := context.Background()

	if _, _, err := svc.SignUp(ctx, "dup@example.com", "first", "supersecret"); err != nil {
		t.Fatalf("first sign up: %v", err)
	}
	_, _, err := svc.SignUp(ctx, "DUP@example.com", "second", "supersecret")
	if !errors.Is(err, core.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

// Wrong password and unknown email are indistinguishable.
func TestLoginInvalidCredentials(t *testing.T) {
	svc := NewUserService(newFakeUserStore(), fakeTokenIssuer{})
	ctx := context.Background()

	if _, _, err := svc.SignUp(ctx, "who@example.com", "nick", "supersecret"); err != nil {
		t.Fatalf("sign up: %v", err)
	}

	if _, _, err := svc.Login(ctx, "who@example.com", "wrongpassword"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "supersecret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}
