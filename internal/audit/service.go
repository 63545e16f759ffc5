// Package audit consumes order events and keeps a durable trail of confirmed
// payments, independent of the orders table.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/arkade-dev/storefront-api/internal/kafka"
	"github.com/arkade-dev/storefront-api/internal/orders"
	"github.com/arkade-dev/storefront-api/internal/redisx"
)

type Service struct {
	Repo        Recorder
	Redis       *redis.Client // optional; nil disables the dedup fast path
	ServiceName string
}

// HandleOrderPaid is wired as the consumer handler for the order.paid topic.
func (s *Service) HandleOrderPaid(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderPaid {
		return nil
	}

	if s.Redis != nil {
		dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
		if seen, _ := redisx.Exists(ctx, s.Redis, dkey); seen {
			return nil
		}
		_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
	}

	p, err := kafkax.UnwrapPayload[orders.OrderPaidPayload](env.Payload)
	if err != nil {
		return err
	}

	if err := s.Repo.Record(ctx, PaymentRecord{
		OrderID:         p.OrderID,
		PaymentIntentID: p.PaymentIntentID,
		AmountCents:     p.TotalCents,
		OccurredAt:      p.PaidAt,
	}); err != nil {
		return err
	}

	slog.InfoContext(ctx, "payment recorded", "order_id", p.OrderID, "amount_cents", p.TotalCents)
	return nil
}
