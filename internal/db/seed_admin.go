package db

import (
	"context"
	"errors"

	"github.com/docket-app/docket/internal/config"
	"github.com/docket-app/docket/internal/domain/user"
	"github.com/docket-app/docket/internal/security"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureAdminUser seeds the configured admin account on startup. There is
// no in-app path to the admin role, so a fresh database gets one here.
func EnsureAdminUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.AdminName == "" || cfg.AdminPassword == "" {
		return nil
	}

	// check if the user exists

	var dummy int64

	err := pool.QueryRow(ctx, `SELECT id FROM users WHERE name = $1`, cfg.AdminName).Scan(&dummy)

	if err == nil {
		return nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := security.HashPassword(cfg.AdminPassword)

	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		`,
		cfg.AdminName, cfg.AdminEmail, hash, user.RoleAdmin,
	)

	return err
}
