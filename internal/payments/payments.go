// Package payments is the payment-intent collaborator: given an amount it
// returns an opaque client secret the buyer uses to complete the charge.
package payments

import "context"

type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	AmountCents  int64  `json:"amount"`
	Currency     string `json:"currency"`
}

type Service interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string) (Intent, error)
	// CancelIntent voids an intent whose order never got persisted.
	CancelIntent(ctx context.Context, id string) error
}
