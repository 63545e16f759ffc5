package orders

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusFailed  Status = "failed"
)

// pending is the only non-terminal state. Nothing currently drives the
// pending->failed edge; a payment-webhook handler would.
var validNext = map[Status]map[Status]bool{
	StatusPending: {StatusPaid: true, StatusFailed: true},
	StatusPaid:    {},
	StatusFailed:  {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}
