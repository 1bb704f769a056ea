package auth

import (
	"context"
	"errors"

	"github.com/docket-app/docket/internal/domain/user"
	"github.com/docket-app/docket/internal/security"
	"github.com/docket-app/docket/internal/session"
)

var (
	// ErrInvalidCredentials is returned for an unknown name and for a wrong
	// password alike, so callers cannot tell which field was wrong.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPasswordMismatch   = errors.New("passwords do not match")
)

// UserStore is the slice of the credential store the service needs.
type UserStore interface {
	GetByName(ctx context.Context, name string) (user.User, error)
	Create(ctx context.Context, name, email, passwordHash, role string) (user.User, error)
}

type Service struct {
	users UserStore
}

func NewService(users UserStore) *Service {
	return &Service{users: users}
}

// Authenticate verifies a name/password pair against the credential store
// and returns the identity to install into a session. It has no side
// effects on the store.
func (s *Service) Authenticate(ctx context.Context, name, password string) (session.Identity, error) {
	u, err := s.users.GetByName(ctx, name)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return session.Identity{}, ErrInvalidCredentials
		}

		return session.Identity{}, err
	}

	err = security.CheckPassword(u.PasswordHash, password)

	if err != nil {
		return session.Identity{}, ErrInvalidCredentials
	}

	return session.Identity{
		UserID: u.ID,
		Role:   u.Role,
		Name:   u.Name,
	}, nil
}

// Register hashes the password and inserts a new user with the default
// role. Uniqueness of (name, email) is enforced by the store's constraint,
// not by a pre-check, so two racing registrations cannot both win.
func (s *Service) Register(ctx context.Context, name, email, password, confirm string) (int64, error) {
	if password != confirm {
		return 0, ErrPasswordMismatch
	}

	hash, err := security.HashPassword(password)

	if err != nil {
		return 0, err
	}

	u, err := s.users.Create(ctx, name, email, hash, user.RoleUser)

	if err != nil {
		return 0, err
	}

	return u.ID, nil
}
