package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"golang.org/x/crypto/bcrypt"
)

func TestPassthroughAcceptsAnyCredentials(t *testing.T) {
	var authn Passthrough

	identity, err := authn.Authenticate(context.Background(), "a@b.com", "anything")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if identity.ID == "" || identity.Email != "a@b.com" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestPassthroughDeterministicIdentity(t *testing.T) {
	var authn Passthrough
	ctx := context.Background()

	first, _ := authn.Authenticate(ctx, "a@b.com", "x")
	second, _ := authn.Authenticate(ctx, " A@B.COM ", "y")
	if first.ID != second.ID {
		t.Fatalf("same email must map to the same user id")
	}

	other, _ := authn.Authenticate(ctx, "c@d.com", "x")
	if other.ID == first.ID {
		t.Fatalf("distinct emails must map to distinct ids")
	}
}

func TestPassthroughRemoteFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var authn Passthrough
	if _, err := authn.Authenticate(ctx, "a@b.com", "x"); err == nil {
		t.Fatalf("expected error when the remote call fails")
	}
}

func TestCredentialsSuccess(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	hash, _ := bcrypt.GenerateFromPassword([]byte("pass"), bcrypt.DefaultCost)
	mock.ExpectQuery(`SELECT id, name, email, avatar_url, password_hash`).
		WithArgs("user@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "avatar_url", "password_hash"}).
			AddRow("user-1", "User", "user@example.com", "", string(hash)))

	authn := NewCredentials(mock)
	identity, err := authn.Authenticate(context.Background(), "user@example.com", "pass")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if identity.ID != "user-1" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestCredentialsWrongPassword(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	hash, _ := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.DefaultCost)
	mock.ExpectQuery(`SELECT id, name, email, avatar_url, password_hash`).
		WithArgs("user@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "avatar_url", "password_hash"}).
			AddRow("user-1", "User", "user@example.com", "", string(hash)))

	authn := NewCredentials(mock)
	if _, err := authn.Authenticate(context.Background(), "user@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestCredentialsUnknownUser(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, name, email, avatar_url, password_hash`).
		WithArgs("ghost@example.com").
		WillReturnError(errors.New("no rows"))

	authn := NewCredentials(mock)
	if _, err := authn.Authenticate(context.Background(), "ghost@example.com", "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}
