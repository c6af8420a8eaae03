package authlog

import (
	"context"
	"fmt"

	"pitstop/internal/db"
)

type Repository struct{ q db.Querier }

func NewRepository(q db.Querier) *Repository { return &Repository{q: q} }

// EnsureSchema creates the log table when it does not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	_, err := r.q.Exec(ctx, `
CREATE TABLE IF NOT EXISTS payment_logs (
    id             BIGSERIAL PRIMARY KEY,
    transaction_id TEXT        NOT NULL,
    session_id     TEXT        NOT NULL,
    amount_cents   BIGINT      NOT NULL,
    mcc            TEXT        NOT NULL,
    card_suffix    TEXT        NOT NULL,
    status         TEXT        NOT NULL,
    message        TEXT        NOT NULL DEFAULT '',
    created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
)`)
	if err != nil {
		return fmt.Errorf("ensure payment_logs schema: %w", err)
	}
	return nil
}

func (r *Repository) Record(ctx context.Context, e *Entry) error {
	if err := r.q.QueryRow(ctx, `
INSERT INTO payment_logs (transaction_id, session_id, amount_cents, mcc, card_suffix, status, message)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, created_at
`, e.TransactionID, e.SessionID, e.AmountCents, e.MCC, e.CardSuffix, e.Status, e.Message).
		Scan(&e.ID, &e.CreatedAt); err != nil {
		return fmt.Errorf("record authorization: %w", err)
	}
	return nil
}

// Nop discards entries. Used when no database is configured.
type Nop struct{}

func (Nop) Record(context.Context, *Entry) error { return nil }
