package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"parfumvilag/internal/domain/offers"
)

type offerPayload struct {
	PerfumeID int64    `json:"perfume_id" validate:"required,gt=0"`
	StoreName string   `json:"store_name" validate:"required,max=255"`
	URL       string   `json:"url" validate:"omitempty,url"`
	Price     *float64 `json:"price" validate:"omitempty,gte=0"`
	Currency  string   `json:"currency" validate:"omitempty,len=3"`
}

func (app *application) readOfferPayload(w http.ResponseWriter, r *http.Request) (*offers.Offer, bool) {
	var payload offerPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return nil, false
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return nil, false
	}
	return &offers.Offer{
		PerfumeID: payload.PerfumeID,
		StoreName: strings.TrimSpace(payload.StoreName),
		URL:       payload.URL,
		Price:     payload.Price,
		Currency:  strings.ToUpper(payload.Currency),
	}, true
}

// listOffersHandler godoc
//
//	@Summary	List store offers
//	@Tags		stores
//	@Produce	json
//	@Param		perfume_id	query		int	false	"Only offers of this perfume"
//	@Success	200			{array}		offers.Offer
//	@Failure	400			{object}	errorResponse
//	@Router		/stores [get]
func (app *application) listOffersHandler(w http.ResponseWriter, r *http.Request) {
	var perfumeID *int64
	if raw := r.URL.Query().Get("perfume_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			app.badRequestResponse(w, r, errors.New("invalid perfume_id"))
			return
		}
		perfumeID = &id
	}

	list, err := app.store.Offers.List(r.Context(), perfumeID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, list)
}

// getOfferHandler godoc
//
//	@Summary	Get a store offer
//	@Tags		stores
//	@Produce	json
//	@Param		id	path		int	true	"Offer ID"
//	@Success	200	{object}	offers.Offer
//	@Failure	404	{object}	errorResponse
//	@Router		/stores/{id} [get]
func (app *application) getOfferHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	o, err := app.store.Offers.GetByID(r.Context(), id)
	if err != nil {
		app.offerError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, o)
}

// createOfferHandler godoc
//
//	@Summary	Create a store offer
//	@Tags		stores
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		offerPayload	true	"Offer"
//	@Success	201		{object}	offers.Offer
//	@Failure	400		{object}	errorResponse
//	@Security	ApiKeyAuth
//	@Router		/stores [post]
func (app *application) createOfferHandler(w http.ResponseWriter, r *http.Request) {
	o, ok := app.readOfferPayload(w, r)
	if !ok {
		return
	}
	if err := app.store.Offers.Create(r.Context(), o); err != nil {
		app.offerError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusCreated, o)
}

// updateOfferHandler godoc
//
//	@Summary	Update a store offer
//	@Tags		stores
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int				true	"Offer ID"
//	@Param		payload	body		offerPayload	true	"Offer"
//	@Success	200		{object}	offers.Offer
//	@Failure	404		{object}	errorResponse
//	@Security	ApiKeyAuth
//	@Router		/stores/{id} [put]
func (app *application) updateOfferHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	o, ok := app.readOfferPayload(w, r)
	if !ok {
		return
	}
	o.ID = id
	if err := app.store.Offers.Update(r.Context(), o); err != nil {
		app.offerError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, o)
}

// deleteOfferHandler godoc
//
//	@Summary	Delete a store offer
//	@Tags		stores
//	@Param		id	path	int	true	"Offer ID"
//	@Success	204
//	@Failure	404	{object}	errorResponse
//	@Security	ApiKeyAuth
//	@Router		/stores/{id} [delete]
func (app *application) deleteOfferHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := app.store.Offers.Delete(r.Context(), id); err != nil {
		app.offerError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *application) offerError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, offers.ErrNotFound):
		app.notFoundResponse(w, r, err)
	case errors.Is(err, offers.ErrUnknownPerfume):
		app.badRequestResponse(w, r, err)
	default:
		app.internalServerError(w, r, err)
	}
}
