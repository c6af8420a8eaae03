package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pitstop/internal/authlog"
	"pitstop/internal/cardform"
	"pitstop/internal/catalog"
	"pitstop/internal/mailer"
	"pitstop/internal/notifications"
	"pitstop/internal/payments"
)

type Outcome string

const (
	OutcomeApproved Outcome = "approved"
	OutcomeDeclined Outcome = "declined"
	OutcomeFailed   Outcome = "failed"
)

// Result is what a submission attempt produced once it reached the
// gateway. Guard failures never produce a Result; they come back as errors.
type Result struct {
	Outcome       Outcome `json:"outcome"`
	Message       string  `json:"message"`
	TransactionID string  `json:"transaction_id"`
	AmountCents   int64   `json:"amount_cents"`
}

// Controller drives a submission through validating → submitting →
// (success | failure) and owns the user-facing toasts along the way.
type Controller struct {
	catalog  *catalog.Catalog
	gateway  payments.Gateway
	sessions *Manager
	toasts   *notifications.Center
	logger   *zap.SugaredLogger

	// Optional collaborators; nil-safe.
	Recorder   authlog.Recorder
	Mail       mailer.Client
	AlertEmail string
}

func NewController(
	cat *catalog.Catalog,
	gateway payments.Gateway,
	sessions *Manager,
	toasts *notifications.Center,
	logger *zap.SugaredLogger,
) *Controller {
	return &Controller{
		catalog:  cat,
		gateway:  gateway,
		sessions: sessions,
		toasts:   toasts,
		logger:   logger,
		Recorder: authlog.Nop{},
	}
}

// Submit validates the session's form, sends one authorization request,
// and maps the verdict onto session state and toasts. Validation errors
// (ErrEmptySelection, ErrMissingFields, ErrSubmissionInFlight) surface a
// toast and return before any network activity.
func (c *Controller) Submit(ctx context.Context, sessionID string) (Result, error) {
	sub, err := c.sessions.BeginSubmission(sessionID)
	if err != nil {
		switch err {
		case ErrEmptySelection:
			c.toasts.Publish(sessionID, notifications.LevelError, "Select at least one service before paying.", false)
		case ErrMissingFields:
			c.toasts.Publish(sessionID, notifications.LevelError, "Please fill in all card details.", false)
		case ErrSubmissionInFlight:
			c.toasts.Publish(sessionID, notifications.LevelError, "Your payment is still being processed.", false)
		}
		return Result{}, err
	}

	progressID := c.toasts.Publish(sessionID, notifications.LevelInfo, "Processing payment…", true)

	txID := uuid.NewString()
	month, year := cardform.SplitExpiry(sub.ExpiryDate)
	req := payments.AuthorizationRequest{
		CardNumber:  cardform.StripPAN(sub.CardNumber),
		CVV:         sub.CVV,
		Amount:      float64(sub.AmountCents) / 100,
		MCCCode:     sub.MCC,
		ExpiryMonth: month,
		ExpiryYear:  year,
	}

	resp, err := c.gateway.Authorize(ctx, req)

	c.toasts.Dismiss(sessionID, progressID)

	switch {
	case err != nil:
		c.sessions.EndSubmission(sessionID, false)
		c.logger.Errorw("authorization failed", "transaction", txID, "error", err)
		msg := "Payment service unavailable. Please try again."
		c.toasts.Publish(sessionID, notifications.LevelError, msg, false)
		c.record(ctx, txID, sub, string(OutcomeFailed), err.Error())
		return Result{
			Outcome:       OutcomeFailed,
			Message:       msg,
			TransactionID: txID,
			AmountCents:   sub.AmountCents,
		}, nil

	case !resp.Approved():
		c.sessions.EndSubmission(sessionID, false)
		c.logger.Infow("authorization declined",
			"transaction", txID, "status", resp.Status, "amount_cents", sub.AmountCents)
		msg := fmt.Sprintf("Payment declined: %s", resp.Reason())
		c.toasts.Publish(sessionID, notifications.LevelError, msg, false)
		c.record(ctx, txID, sub, string(OutcomeDeclined), resp.Reason())
		return Result{
			Outcome:       OutcomeDeclined,
			Message:       msg,
			TransactionID: txID,
			AmountCents:   sub.AmountCents,
		}, nil

	default:
		c.sessions.EndSubmission(sessionID, true)
		c.logger.Infow("authorization approved",
			"transaction", txID, "amount_cents", sub.AmountCents, "mcc", sub.MCC)
		msg := resp.ResponseMessage
		if msg == "" {
			msg = fmt.Sprintf("Payment of $%.2f accepted.", float64(sub.AmountCents)/100)
		}
		c.toasts.Publish(sessionID, notifications.LevelSuccess, msg, false)
		c.record(ctx, txID, sub, string(OutcomeApproved), resp.ResponseMessage)
		c.alertShop(txID, sub)
		return Result{
			Outcome:       OutcomeApproved,
			Message:       msg,
			TransactionID: txID,
			AmountCents:   sub.AmountCents,
		}, nil
	}
}

func (c *Controller) record(ctx context.Context, txID string, sub submission, status, message string) {
	entry := &authlog.Entry{
		TransactionID: txID,
		SessionID:     sub.SessionID,
		AmountCents:   sub.AmountCents,
		MCC:           sub.MCC,
		CardSuffix:    cardform.PANSuffix(sub.CardNumber),
		Status:        status,
		Message:       message,
	}
	if err := c.Recorder.Record(ctx, entry); err != nil {
		c.logger.Errorw("record authorization", "transaction", txID, "error", err)
	}
}

// alertShop emails the shop about a paid order. Best effort, off the
// request path.
func (c *Controller) alertShop(txID string, sub submission) {
	if c.Mail == nil || c.AlertEmail == "" {
		return
	}

	var services []string
	for _, svc := range c.catalog.Services() {
		if _, ok := sub.Selected[svc.ID]; ok {
			services = append(services, svc.Name)
		}
	}

	data := struct {
		TransactionID string
		Cardholder    string
		CardSuffix    string
		Amount        string
		Services      []string
	}{
		TransactionID: txID,
		Cardholder:    sub.Cardholder,
		CardSuffix:    cardform.PANSuffix(sub.CardNumber),
		Amount:        fmt.Sprintf("%.2f", float64(sub.AmountCents)/100),
		Services:      services,
	}

	go func() {
		if err := c.Mail.Send(mailer.OrderAlertTemplate, alertRecipientName, c.AlertEmail, data); err != nil {
			c.logger.Errorw("order alert mail", "transaction", txID, "error", err)
		}
	}()
}

const alertRecipientName = "Front Desk"
