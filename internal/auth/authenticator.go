package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/darshan87986/cultural-explorer/internal/db"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Identity is the result of a successful authentication.
type Identity struct {
	ID        string
	Name      string
	Email     string
	AvatarURL string
}

// Authenticator validates a credential pair against whatever backs the
// directory's accounts. The session store only depends on this interface, so
// real validation can be substituted without touching it.
type Authenticator interface {
	Authenticate(ctx context.Context, email, secret string) (Identity, error)
}

// Passthrough stands in for the hosted auth service the directory defers to:
// any credential pair is accepted and the identity is derived from the email,
// so the same address always maps to the same user. The only failure mode is
// the remote call itself, observed through the context.
type Passthrough struct{}

func (Passthrough) Authenticate(ctx context.Context, email, _ string) (Identity, error) {
	if err := ctx.Err(); err != nil {
		return Identity{}, err
	}
	normalized := strings.ToLower(strings.TrimSpace(email))
	return Identity{
		ID:    uuid.NewSHA1(uuid.NameSpaceOID, []byte(normalized)).String(),
		Email: email,
	}, nil
}

// Credentials validates against the users table with bcrypt.
type Credentials struct {
	db db.Querier
}

func NewCredentials(querier db.Querier) *Credentials {
	return &Credentials{db: querier}
}

func (a *Credentials) Authenticate(ctx context.Context, email, secret string) (Identity, error) {
	row := a.db.QueryRow(ctx, `
		SELECT id, name, email, avatar_url, password_hash
		FROM users WHERE email = $1
	`, email)

	var identity Identity
	var hash string
	if err := row.Scan(&identity.ID, &identity.Name, &identity.Email, &identity.AvatarURL, &hash); err != nil {
		return Identity{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
		return Identity{}, ErrInvalidCredentials
	}
	return identity, nil
}
