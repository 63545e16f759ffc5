package audit

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRecord struct {
	OrderID         string
	PaymentIntentID string
	AmountCents     int64
	OccurredAt      time.Time
}

// Recorder is what the consumer service writes through.
type Recorder interface {
	Record(ctx context.Context, rec PaymentRecord) error
}

type Repo struct{ DB *pgxpool.Pool }

// Record is idempotent per order: replayed events hit the conflict clause.
func (r *Repo) Record(ctx context.Context, rec PaymentRecord) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO payment_audit(order_id, payment_intent_id, amount_cents, occurred_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (order_id) DO NOTHING`,
		rec.OrderID, rec.PaymentIntentID, rec.AmountCents, rec.OccurredAt,
	)
	return err
}
