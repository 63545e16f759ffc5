package orders

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arkade-dev/storefront-api/internal/apperr"
)

// Repo persists orders in postgres: one row in orders plus one row per item
// in order_items, written in a single transaction. That transaction is the
// atomicity unit of order creation.
type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Insert(ctx context.Context, o Order) (Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO orders(id, user_id, status, subtotal_cents, tax_cents,
		                   shipping_fee_cents, total_cents, client_secret, payment_intent_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		o.ID, o.UserID, o.Status, o.SubtotalCents, o.TaxCents,
		o.ShippingFeeCents, o.TotalCents, o.ClientSecret, o.PaymentIntentID,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return Order{}, err
	}

	for i, it := range o.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items(order_id, position, product_id, quantity, unit_price_cents, name, image)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			o.ID, i, it.ProductID, it.Quantity, it.UnitPriceCents, it.Name, it.Image,
		)
		if err != nil {
			return Order{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}
	return o, nil
}

const orderColumns = `id, user_id, status, subtotal_cents, tax_cents,
	shipping_fee_cents, total_cents, client_secret, payment_intent_id, created_at, updated_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.UserID, &o.Status, &o.SubtotalCents, &o.TaxCents,
		&o.ShippingFeeCents, &o.TotalCents, &o.ClientSecret, &o.PaymentIntentID,
		&o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func (r *Repo) FindByID(ctx context.Context, id string) (Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, apperr.NotFoundf("no order with id %s", id)
	}
	if err != nil {
		return Order{}, err
	}
	items, err := r.loadItems(ctx, []string{o.ID})
	if err != nil {
		return Order{}, err
	}
	o.Items = items[o.ID]
	return o, nil
}

func (r *Repo) FindAll(ctx context.Context) ([]Order, error) {
	return r.query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

func (r *Repo) FindByUser(ctx context.Context, userID string) ([]Order, error) {
	return r.query(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id=$1 ORDER BY created_at DESC`, userID)
}

func (r *Repo) query(ctx context.Context, sql string, args ...any) ([]Order, error) {
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	ids := make([]string, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Items = items[out[i].ID]
	}
	return out, nil
}

func (r *Repo) loadItems(ctx context.Context, orderIDs []string) (map[string][]OrderItem, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT order_id, product_id, quantity, unit_price_cents, name, image
		FROM order_items WHERE order_id = ANY($1)
		ORDER BY order_id, position`, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]OrderItem, len(orderIDs))
	for rows.Next() {
		var orderID string
		var it OrderItem
		if err := rows.Scan(&orderID, &it.ProductID, &it.Quantity, &it.UnitPriceCents, &it.Name, &it.Image); err != nil {
			return nil, err
		}
		out[orderID] = append(out[orderID], it)
	}
	return out, rows.Err()
}

// UpdatePayment records the payment reference and status on the existing row.
func (r *Repo) UpdatePayment(ctx context.Context, id, paymentIntentID string, status Status) (Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, `
		UPDATE orders SET payment_intent_id=$2, status=$3, updated_at=now()
		WHERE id=$1
		RETURNING `+orderColumns, id, paymentIntentID, status))
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, apperr.NotFoundf("no order with id %s", id)
	}
	if err != nil {
		return Order{}, err
	}
	items, err := r.loadItems(ctx, []string{o.ID})
	if err != nil {
		return Order{}, err
	}
	o.Items = items[o.ID]
	return o, nil
}
