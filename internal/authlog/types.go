package authlog

import (
	"context"
	"time"
)

// Entry is one gateway verdict. Card number, CVV and expiry are never
// written here; only the last-4 display suffix survives a submission.
type Entry struct {
	ID            int64     `json:"id"`
	TransactionID string    `json:"transaction_id"`
	SessionID     string    `json:"session_id"`
	AmountCents   int64     `json:"amount_cents"`
	MCC           string    `json:"mcc"`
	CardSuffix    string    `json:"card_suffix"`
	Status        string    `json:"status"` // approved, declined, failed
	Message       string    `json:"message,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type Recorder interface {
	Record(ctx context.Context, e *Entry) error
}
