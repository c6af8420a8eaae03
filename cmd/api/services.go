package main

import "net/http"

// ListServices godoc
//
//	@Summary		List offered services
//	@Description	Returns the shop's fixed-price service catalog in display order
//	@Tags			Catalog
//	@Produce		json
//	@Success		200	{array}	catalog.Service	"Catalog retrieved successfully"
//	@Router			/services [get]
func (app *application) listServicesHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.jsonResponse(w, http.StatusOK, app.catalog.Services()); err != nil {
		app.internalServerError(w, r, err)
	}
}
