package orders

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/arkade-dev/storefront-api/internal/apperr"
	"github.com/arkade-dev/storefront-api/internal/auth"
	kafkax "github.com/arkade-dev/storefront-api/internal/kafka"
	"github.com/arkade-dev/storefront-api/internal/payments"
)

// Store is the persistence the workflow needs (interface so tests can swap in
// an in-memory one).
type Store interface {
	Insert(ctx context.Context, o Order) (Order, error)
	FindByID(ctx context.Context, id string) (Order, error)
	FindAll(ctx context.Context) ([]Order, error)
	FindByUser(ctx context.Context, userID string) ([]Order, error)
	UpdatePayment(ctx context.Context, id, paymentIntentID string, status Status) (Order, error)
}

// CreateInput is the typed request for order creation. Tax and shipping fee
// decode into pointers so "absent" and "zero" are told apart once, here.
type CreateInput struct {
	Items            []CartItem `json:"items"`
	TaxCents         *int64     `json:"tax"`
	ShippingFeeCents *int64     `json:"shipping_fee"`
}

const intentCurrency = "usd"

// Service orchestrates the checkout workflow: validate -> price -> payment
// intent -> persist. Each call is request-scoped; failures are not retried.
type Service struct {
	Pricer   *Pricer
	Payments payments.Service
	Store    Store

	// Producers are optional; a nil producer skips publishing.
	CreatedProducer *kafkax.Producer
	PaidProducer    *kafkax.Producer
	ServiceName     string
}

// Create builds and persists one order, or nothing at all. The payment intent
// is obtained before the insert; if the insert then fails, the intent is
// voided best-effort so no charge handle outlives a missing order.
func (s *Service) Create(ctx context.Context, in CreateInput, who auth.Identity) (Order, error) {
	if len(in.Items) == 0 {
		return Order{}, apperr.Validationf("no cart items provided")
	}
	if in.TaxCents == nil || in.ShippingFeeCents == nil {
		return Order{}, apperr.Validationf("please provide tax and shipping fee")
	}

	items, subtotal, err := s.Pricer.PriceCart(ctx, in.Items)
	if err != nil {
		return Order{}, err
	}
	total := subtotal + *in.TaxCents + *in.ShippingFeeCents

	intent, err := s.Payments.CreateIntent(ctx, total, intentCurrency)
	if err != nil {
		return Order{}, fmt.Errorf("create payment intent: %w", err)
	}

	order := Order{
		ID:               uuid.NewString(),
		UserID:           who.UserID,
		Items:            items,
		SubtotalCents:    subtotal,
		TaxCents:         *in.TaxCents,
		ShippingFeeCents: *in.ShippingFeeCents,
		TotalCents:       total,
		ClientSecret:     intent.ClientSecret,
		PaymentIntentID:  intent.ID,
		Status:           StatusPending,
	}

	saved, err := s.Store.Insert(ctx, order)
	if err != nil {
		if cancelErr := s.Payments.CancelIntent(ctx, intent.ID); cancelErr != nil {
			slog.ErrorContext(ctx, "failed to void payment intent for unpersisted order",
				"payment_intent_id", intent.ID, "error", cancelErr)
		}
		return Order{}, fmt.Errorf("persist order: %w", err)
	}

	s.publish(s.CreatedProducer, EventOrderCreated, saved.ID, OrderCreatedPayload{
		OrderID:       saved.ID,
		UserID:        saved.UserID,
		Items:         saved.Items,
		SubtotalCents: saved.SubtotalCents,
		TotalCents:    saved.TotalCents,
	})
	return saved, nil
}

// GetAll returns every order. The HTTP layer gates this to admins.
func (s *Service) GetAll(ctx context.Context) ([]Order, error) {
	return s.Store.FindAll(ctx)
}

// Get fetches one order, enforcing the owner-or-admin rule.
func (s *Service) Get(ctx context.Context, id string, who auth.Identity) (Order, error) {
	o, err := s.Store.FindByID(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if err := auth.CheckOwnership(who, o.UserID); err != nil {
		return Order{}, err
	}
	return o, nil
}

// ListMine returns the requester's own orders.
func (s *Service) ListMine(ctx context.Context, who auth.Identity) ([]Order, error) {
	return s.Store.FindByUser(ctx, who.UserID)
}

// MarkPaid records a confirmed payment reference on the order and moves it to
// paid. Calling it again with the same reference is a no-op transition
// (paid stays paid); any other transition into paid must be legal.
func (s *Service) MarkPaid(ctx context.Context, id, paymentIntentID string, who auth.Identity) (Order, error) {
	if paymentIntentID == "" {
		return Order{}, apperr.Validationf("please provide payment intent id")
	}

	o, err := s.Store.FindByID(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if err := auth.CheckOwnership(who, o.UserID); err != nil {
		return Order{}, err
	}
	if o.Status != StatusPaid && !CanTransition(o.Status, StatusPaid) {
		return Order{}, apperr.Validationf("order %s cannot move from %s to %s", id, o.Status, StatusPaid)
	}

	updated, err := s.Store.UpdatePayment(ctx, id, paymentIntentID, StatusPaid)
	if err != nil {
		return Order{}, err
	}

	if o.Status != StatusPaid { // only announce the first transition
		s.publish(s.PaidProducer, EventOrderPaid, updated.ID, OrderPaidPayload{
			OrderID:         updated.ID,
			UserID:          updated.UserID,
			PaymentIntentID: updated.PaymentIntentID,
			TotalCents:      updated.TotalCents,
			PaidAt:          updated.UpdatedAt,
		})
	}
	return updated, nil
}

func (s *Service) publish(p *kafkax.Producer, eventType, orderID string, payload any) {
	if p == nil {
		return
	}
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		CorrelationID: orderID,
		Payload:       kafkax.MustMarshal(payload),
	}
	p.Publish(PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
