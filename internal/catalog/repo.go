package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arkade-dev/storefront-api/internal/apperr"
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Insert(ctx context.Context, p Product) (Product, error) {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO products(id, name, description, price_cents, image)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Description, p.PriceCents, p.Image,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *Repo) FindByID(ctx context.Context, id string) (Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, description, price_cents, image, created_at, updated_at
		FROM products WHERE id=$1`, id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Image, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, apperr.NotFoundf("no product with id %s", id)
	}
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *Repo) List(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, description, price_cents, image, created_at, updated_at
		FROM products ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Image, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) Update(ctx context.Context, p Product) (Product, error) {
	err := r.DB.QueryRow(ctx, `
		UPDATE products
		SET name=$2, description=$3, price_cents=$4, image=$5, updated_at=now()
		WHERE id=$1
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Description, p.PriceCents, p.Image,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, apperr.NotFoundf("no product with id %s", p.ID)
	}
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFoundf("no product with id %s", id)
	}
	return nil
}
