package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pitstop/internal/authlog"
	"pitstop/internal/catalog"
	"pitstop/internal/notifications"
	"pitstop/internal/payments"
)

type stubGateway struct {
	calls   int
	lastReq payments.AuthorizationRequest
	resp    payments.AuthorizationResponse
	err     error
}

func (g *stubGateway) Authorize(_ context.Context, req payments.AuthorizationRequest) (payments.AuthorizationResponse, error) {
	g.calls++
	g.lastReq = req
	return g.resp, g.err
}

type stubRecorder struct {
	entries []*authlog.Entry
}

func (r *stubRecorder) Record(_ context.Context, e *authlog.Entry) error {
	r.entries = append(r.entries, e)
	return nil
}

type fixture struct {
	controller *Controller
	sessions   *Manager
	toasts     *notifications.Center
	gateway    *stubGateway
	recorder   *stubRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cat, err := catalog.New([]catalog.Service{
		{ID: "oil", Name: "Oil Change", PriceCents: 4999, MCC: "7538"},
		{ID: "wash", Name: "Car Wash", PriceCents: 1999, MCC: "7542"},
	})
	require.NoError(t, err)

	sessions := NewManager(cat, time.Hour)
	toasts := notifications.NewCenter()
	gateway := &stubGateway{}
	recorder := &stubRecorder{}

	controller := NewController(cat, gateway, sessions, toasts, zap.NewNop().Sugar())
	controller.Recorder = recorder

	return &fixture{
		controller: controller,
		sessions:   sessions,
		toasts:     toasts,
		gateway:    gateway,
		recorder:   recorder,
	}
}

// readySession creates a session with "oil" selected and every card field
// filled, ready to submit.
func (f *fixture) readySession(t *testing.T) string {
	t.Helper()

	id := f.sessions.Create().ID
	_, err := f.sessions.Toggle(id, "oil")
	require.NoError(t, err)

	_, ok, err := f.sessions.SetField(id, FieldCardNumber, "4111111111111111")
	require.NoError(t, err)
	require.True(t, ok)
	_, _, err = f.sessions.SetField(id, FieldCardholder, "Jordan Mechanicson")
	require.NoError(t, err)
	_, _, err = f.sessions.SetField(id, FieldExpiry, "1225")
	require.NoError(t, err)
	_, _, err = f.sessions.SetField(id, FieldCVV, "123")
	require.NoError(t, err)

	return id
}

func TestSubmitApproved(t *testing.T) {
	f := newFixture(t)
	f.gateway.resp = payments.AuthorizationResponse{Status: "APPROVED", ResponseMessage: "OK"}
	id := f.readySession(t)

	result, err := f.controller.Submit(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, OutcomeApproved, result.Outcome)
	assert.Equal(t, "OK", result.Message)
	assert.Equal(t, int64(4999), result.AmountCents)
	assert.NotEmpty(t, result.TransactionID)

	// Wire payload carries digits only and the split expiry.
	assert.Equal(t, 1, f.gateway.calls)
	assert.Equal(t, "4111111111111111", f.gateway.lastReq.CardNumber)
	assert.Equal(t, "123", f.gateway.lastReq.CVV)
	assert.InDelta(t, 49.99, f.gateway.lastReq.Amount, 0.001)
	assert.Equal(t, "7538", f.gateway.lastReq.MCCCode)
	assert.Equal(t, "12", f.gateway.lastReq.ExpiryMonth)
	assert.Equal(t, "25", f.gateway.lastReq.ExpiryYear)

	// Session is wiped on approval.
	view, err := f.sessions.View(id)
	require.NoError(t, err)
	assert.Empty(t, view.Selected)
	assert.Empty(t, view.CardNumber)
	assert.Empty(t, view.CardholderName)
	assert.Empty(t, view.ExpiryDate)
	assert.Empty(t, view.CVV)
	assert.False(t, view.Processing)

	// Terminal state leaves only the success toast pending.
	pending := f.toasts.Drain(id)
	require.Len(t, pending, 1)
	assert.Equal(t, notifications.LevelSuccess, pending[0].Level)
	assert.Equal(t, "OK", pending[0].Message)
}

func TestSubmitApprovedFallbackMessage(t *testing.T) {
	f := newFixture(t)
	f.gateway.resp = payments.AuthorizationResponse{Status: "APPROVED"}
	id := f.readySession(t)

	result, err := f.controller.Submit(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, "Payment of $49.99 accepted.", result.Message)
}

func TestSubmitDeclined(t *testing.T) {
	f := newFixture(t)
	f.gateway.resp = payments.AuthorizationResponse{Status: "DECLINED", ResponseMessage: "Insufficient funds"}
	id := f.readySession(t)

	result, err := f.controller.Submit(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, OutcomeDeclined, result.Outcome)
	assert.Contains(t, result.Message, "Insufficient funds")

	// Form survives a decline so the user can correct and retry.
	view, err := f.sessions.View(id)
	require.NoError(t, err)
	assert.Equal(t, []string{"oil"}, view.Selected)
	assert.Equal(t, "4111 1111 1111 1111", view.CardNumber)
	assert.False(t, view.Processing)

	pending := f.toasts.Drain(id)
	require.Len(t, pending, 1)
	assert.Equal(t, notifications.LevelError, pending[0].Level)
	assert.Contains(t, pending[0].Message, "Insufficient funds")
}

func TestSubmitTransportFailure(t *testing.T) {
	f := newFixture(t)
	f.gateway.err = errors.New("connection refused")
	id := f.readySession(t)

	result, err := f.controller.Submit(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, OutcomeFailed, result.Outcome)

	view, err := f.sessions.View(id)
	require.NoError(t, err)
	assert.False(t, view.Processing)
	assert.Equal(t, []string{"oil"}, view.Selected)

	pending := f.toasts.Drain(id)
	require.Len(t, pending, 1)
	assert.Equal(t, notifications.LevelError, pending[0].Level)
}

func TestSubmitEmptySelectionNeverCallsGateway(t *testing.T) {
	f := newFixture(t)
	id := f.sessions.Create().ID

	_, err := f.controller.Submit(context.Background(), id)
	assert.ErrorIs(t, err, ErrEmptySelection)
	assert.Zero(t, f.gateway.calls)

	pending := f.toasts.Drain(id)
	require.Len(t, pending, 1)
	assert.Equal(t, notifications.LevelError, pending[0].Level)
}

func TestSubmitMissingFieldsNeverCallsGateway(t *testing.T) {
	f := newFixture(t)
	id := f.sessions.Create().ID
	_, err := f.sessions.Toggle(id, "oil")
	require.NoError(t, err)

	_, err = f.controller.Submit(context.Background(), id)
	assert.ErrorIs(t, err, ErrMissingFields)
	assert.Zero(t, f.gateway.calls)
}

func TestSubmitRecordsOutcomeWithoutCardData(t *testing.T) {
	f := newFixture(t)
	f.gateway.resp = payments.AuthorizationResponse{Status: "DECLINED", ResponseMessage: "Insufficient funds"}
	id := f.readySession(t)

	_, err := f.controller.Submit(context.Background(), id)
	require.NoError(t, err)

	require.Len(t, f.recorder.entries, 1)
	entry := f.recorder.entries[0]
	assert.Equal(t, id, entry.SessionID)
	assert.Equal(t, "declined", entry.Status)
	assert.Equal(t, "Insufficient funds", entry.Message)
	assert.Equal(t, int64(4999), entry.AmountCents)
	assert.Equal(t, "1111", entry.CardSuffix)
	assert.NotContains(t, entry.CardSuffix, "4111 ")
}

func TestSubmitUnknownSession(t *testing.T) {
	f := newFixture(t)

	_, err := f.controller.Submit(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Zero(t, f.gateway.calls)
}
