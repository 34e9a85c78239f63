package main

import (
	"errors"
	"net/http"

	"parfumvilag/internal/domain/savedperfumes"
)

type savePerfumePayload struct {
	PerfumeID int64 `json:"perfume_id" validate:"required,gt=0"`
}

type toggleResponse struct {
	IsFavorite bool   `json:"isFavorite"`
	Message    string `json:"message"`
}

func (app *application) savedPerfumeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, savedperfumes.ErrNotFound), errors.Is(err, savedperfumes.ErrUnknownPerfume):
		app.notFoundResponse(w, r, err)
	default:
		app.internalServerError(w, r, err)
	}
}

// listSavedPerfumesHandler godoc
//
//	@Summary	List the caller's saved perfumes
//	@Tags		saved-perfumes
//	@Produce	json
//	@Success	200	{array}	int64
//	@Security	ApiKeyAuth
//	@Router		/saved-perfumes [get]
func (app *application) listSavedPerfumesHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	ids, err := app.store.SavedPerfumes.List(r.Context(), user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, ids)
}

// savePerfumeHandler godoc
//
//	@Summary		Save a perfume
//	@Description	Idempotent: 201 when newly saved, 200 when it already was.
//	@Tags			saved-perfumes
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		savePerfumePayload	true	"Perfume to save"
//	@Success		200		{object}	messageResponse
//	@Success		201		{object}	messageResponse
//	@Failure		400		{object}	errorResponse
//	@Failure		404		{object}	errorResponse
//	@Security		ApiKeyAuth
//	@Router			/saved-perfumes [post]
func (app *application) savePerfumeHandler(w http.ResponseWriter, r *http.Request) {
	var payload savePerfumePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)
	created, err := app.store.SavedPerfumes.Save(r.Context(), user.ID, payload.PerfumeID)
	if err != nil {
		app.savedPerfumeError(w, r, err)
		return
	}

	if !created {
		app.jsonResponse(w, http.StatusOK, messageResponse{Message: "perfume already saved"})
		return
	}
	app.jsonResponse(w, http.StatusCreated, messageResponse{Message: "perfume saved"})
}

// removeSavedPerfumeHandler godoc
//
//	@Summary	Remove a saved perfume
//	@Tags		saved-perfumes
//	@Param		perfumeID	path	int	true	"Perfume ID"
//	@Success	204
//	@Failure	404	{object}	errorResponse
//	@Security	ApiKeyAuth
//	@Router		/saved-perfumes/{perfumeID} [delete]
func (app *application) removeSavedPerfumeHandler(w http.ResponseWriter, r *http.Request) {
	perfumeID, err := parseIDParam(r, "perfumeID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)
	if err := app.store.SavedPerfumes.Remove(r.Context(), user.ID, perfumeID); err != nil {
		app.savedPerfumeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toggleSavedPerfumeHandler godoc
//
//	@Summary	Toggle a saved perfume
//	@Tags		saved-perfumes
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		savePerfumePayload	true	"Perfume to toggle"
//	@Success	200		{object}	toggleResponse
//	@Failure	400		{object}	errorResponse
//	@Failure	404		{object}	errorResponse
//	@Security	ApiKeyAuth
//	@Router		/saved-perfumes/toggle [post]
func (app *application) toggleSavedPerfumeHandler(w http.ResponseWriter, r *http.Request) {
	var payload savePerfumePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)
	saved, err := app.store.SavedPerfumes.Toggle(r.Context(), user.ID, payload.PerfumeID)
	if err != nil {
		app.savedPerfumeError(w, r, err)
		return
	}

	resp := toggleResponse{IsFavorite: saved, Message: "perfume removed from favorites"}
	if saved {
		resp.Message = "perfume added to favorites"
	}
	app.jsonResponse(w, http.StatusOK, resp)
}
