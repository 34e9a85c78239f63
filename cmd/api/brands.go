package main

import (
	"errors"
	"net/http"
	"strings"

	"parfumvilag/internal/domain/brands"
)

type brandPayload struct {
	Name string `json:"name" validate:"required,max=255"`
}

// listBrandsHandler godoc
//
//	@Summary	List brands
//	@Tags		brands
//	@Produce	json
//	@Success	200	{array}		brands.Brand
//	@Failure	500	{object}	errorResponse
//	@Router		/brands [get]
func (app *application) listBrandsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.store.Brands.List(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, list)
}

// getBrandHandler godoc
//
//	@Summary	Get a brand
//	@Tags		brands
//	@Produce	json
//	@Param		id	path		int	true	"Brand ID"
//	@Success	200	{object}	brands.Brand
//	@Failure	404	{object}	errorResponse
//	@Router		/brands/{id} [get]
func (app *application) getBrandHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	b, err := app.store.Brands.GetByID(r.Context(), id)
	if err != nil {
		app.brandError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, b)
}

// createBrandHandler godoc
//
//	@Summary	Create a brand
//	@Tags		brands
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		brandPayload	true	"Brand"
//	@Success	201		{object}	brands.Brand
//	@Failure	409		{object}	errorResponse
//	@Security	ApiKeyAuth
//	@Router		/brands [post]
func (app *application) createBrandHandler(w http.ResponseWriter, r *http.Request) {
	var payload brandPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	b := &brands.Brand{Name: strings.TrimSpace(payload.Name)}
	if err := app.store.Brands.Create(r.Context(), b); err != nil {
		app.brandError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusCreated, b)
}

// updateBrandHandler godoc
//
//	@Summary	Rename a brand
//	@Tags		brands
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int				true	"Brand ID"
//	@Param		payload	body		brandPayload	true	"Brand"
//	@Success	200		{object}	brands.Brand
//	@Failure	404		{object}	errorResponse
//	@Failure	409		{object}	errorResponse
//	@Security	ApiKeyAuth
//	@Router		/brands/{id} [put]
func (app *application) updateBrandHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	var payload brandPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	b := &brands.Brand{ID: id, Name: strings.TrimSpace(payload.Name)}
	if err := app.store.Brands.Update(r.Context(), b); err != nil {
		app.brandError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, b)
}

// deleteBrandHandler godoc
//
//	@Summary	Delete a brand
//	@Tags		brands
//	@Param		id	path	int	true	"Brand ID"
//	@Success	204
//	@Failure	404	{object}	errorResponse
//	@Security	ApiKeyAuth
//	@Router		/brands/{id} [delete]
func (app *application) deleteBrandHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := app.store.Brands.Delete(r.Context(), id); err != nil {
		app.brandError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *application) brandError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, brands.ErrNotFound):
		app.notFoundResponse(w, r, err)
	case errors.Is(err, brands.ErrDuplicate):
		app.conflictResponse(w, r, err)
	default:
		app.internalServerError(w, r, err)
	}
}
