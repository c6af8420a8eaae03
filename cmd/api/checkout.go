package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pitstop/internal/checkout"
)

// CreateSession godoc
//
//	@Summary		Start a checkout session
//	@Description	Creates an empty checkout session: no selection, blank card fields
//	@Tags			Checkout
//	@Produce		json
//	@Success		201	{object}	checkout.View	"Session created"
//	@Router			/checkout/sessions [post]
func (app *application) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	view := app.sessions.Create()

	if err := app.jsonResponse(w, http.StatusCreated, view); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) getSessionHandler(w http.ResponseWriter, r *http.Request) {
	view, err := app.sessions.View(chi.URLParam(r, "sessionID"))
	if err != nil {
		app.notFoundResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, view); err != nil {
		app.internalServerError(w, r, err)
	}
}

// ToggleSelection godoc
//
//	@Summary		Toggle a service in the selection
//	@Description	Adds the service to the session's selection, or removes it when already selected
//	@Tags			Checkout
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	checkout.View	"Updated session"
//	@Failure		400	{object}	error			"Unknown service"
//	@Failure		404	{object}	error			"Session not found"
//	@Router			/checkout/sessions/{sessionID}/selection [post]
func (app *application) toggleSelectionHandler(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ServiceID string `json:"service_id" validate:"required"`
	}
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	view, err := app.sessions.Toggle(chi.URLParam(r, "sessionID"), payload.ServiceID)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrSessionNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.badRequestResponse(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, view); err != nil {
		app.internalServerError(w, r, err)
	}
}

// UpdateCardField godoc
//
//	@Summary		Normalize one card input
//	@Description	Runs a keystroke's raw value through the field's formatter and stores the result; rejected edits keep the previous value
//	@Tags			Checkout
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	cardFieldResponse	"Stored field state"
//	@Failure		400	{object}	error				"Unknown field"
//	@Failure		404	{object}	error				"Session not found"
//	@Router			/checkout/sessions/{sessionID}/card [put]
func (app *application) updateCardFieldHandler(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Field string `json:"field" validate:"required"`
		Value string `json:"value"`
	}
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	field, err := checkout.ParseField(payload.Field)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	view, accepted, err := app.sessions.SetField(chi.URLParam(r, "sessionID"), field, payload.Value)
	if err != nil {
		app.notFoundResponse(w, r, err)
		return
	}

	resp := cardFieldResponse{Accepted: accepted, Session: view}
	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

type cardFieldResponse struct {
	Accepted bool          `json:"accepted"`
	Session  checkout.View `json:"session"`
}

// SubmitCheckout godoc
//
//	@Summary		Submit the payment
//	@Description	Validates the form, authorizes the card with the gateway, and reports the verdict
//	@Tags			Checkout
//	@Produce		json
//	@Success		200	{object}	checkout.Result	"Gateway verdict"
//	@Failure		404	{object}	error			"Session not found"
//	@Failure		409	{object}	error			"Submission already in flight"
//	@Failure		422	{object}	error			"Validation failed"
//	@Router			/checkout/sessions/{sessionID}/submit [post]
func (app *application) submitCheckoutHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	result, err := app.controller.Submit(ctx, chi.URLParam(r, "sessionID"))
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrSessionNotFound):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, checkout.ErrSubmissionInFlight):
			app.conflictResponse(w, r, err)
		case errors.Is(err, checkout.ErrEmptySelection), errors.Is(err, checkout.ErrMissingFields):
			app.unprocessableEntityResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, result); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) drainNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if _, err := app.sessions.View(sessionID); err != nil {
		app.notFoundResponse(w, r, err)
		return
	}

	pending := app.toasts.Drain(sessionID)

	if err := app.jsonResponse(w, http.StatusOK, pending); err != nil {
		app.internalServerError(w, r, err)
	}
}
