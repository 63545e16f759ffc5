package reviews

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arkade-dev/storefront-api/internal/apperr"
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Insert(ctx context.Context, rev Review) (Review, error) {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO reviews(id, product_id, user_id, rating, title, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		rev.ID, rev.ProductID, rev.UserID, rev.Rating, rev.Title, rev.Comment,
	).Scan(&rev.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return Review{}, apperr.Validationf("review already submitted for this product")
	}
	if err != nil {
		return Review{}, err
	}
	return rev, nil
}

func (r *Repo) ListByProduct(ctx context.Context, productID string) ([]Review, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, product_id, user_id, rating, title, comment, created_at
		FROM reviews WHERE product_id=$1 ORDER BY created_at DESC`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		var rev Review
		if err := rows.Scan(&rev.ID, &rev.ProductID, &rev.UserID, &rev.Rating, &rev.Title, &rev.Comment, &rev.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}
