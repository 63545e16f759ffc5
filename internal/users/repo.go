package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arkade-dev/storefront-api/internal/apperr"
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Insert(ctx context.Context, u User) (User, error) {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO users(id, name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role,
	).Scan(&u.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return User{}, apperr.Validationf("email already in use")
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *Repo) FindByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, email, password_hash, role, created_at
		FROM users WHERE email=$1`, email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, apperr.NotFoundf("no user with email %s", email)
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *Repo) FindByID(ctx context.Context, id string) (User, error) {
	var u User
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, email, password_hash, role, created_at
		FROM users WHERE id=$1`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, apperr.NotFoundf("no user with id %s", id)
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *Repo) List(ctx context.Context) ([]User, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, email, password_hash, role, created_at
		FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n)
	return n, err
}
