package main

import (
	"errors"
	"net/http"
	"strconv"

	"parfumvilag/internal/domain/perfumenotes"
)

// listPerfumeNotesHandler godoc
//
//	@Summary	List perfume-note links
//	@Tags		perfume-notes
//	@Produce	json
//	@Param		perfume_id	query		int	false	"Only links of this perfume"
//	@Success	200			{array}		perfumenotes.Link
//	@Failure	400			{object}	errorResponse
//	@Router		/perfume-notes [get]
func (app *application) listPerfumeNotesHandler(w http.ResponseWriter, r *http.Request) {
	var perfumeID *int64
	if raw := r.URL.Query().Get("perfume_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			app.badRequestResponse(w, r, errors.New("invalid perfume_id"))
			return
		}
		perfumeID = &id
	}

	links, err := app.store.PerfumeNotes.List(r.Context(), perfumeID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, links)
}

// createPerfumeNoteHandler godoc
//
//	@Summary	Attach a note to a perfume
//	@Tags		perfume-notes
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		perfumenotes.Link	true	"Link"
//	@Success	201		{object}	perfumenotes.Link
//	@Failure	400		{object}	errorResponse
//	@Failure	409		{object}	errorResponse
//	@Security	ApiKeyAuth
//	@Router		/perfume-notes [post]
func (app *application) createPerfumeNoteHandler(w http.ResponseWriter, r *http.Request) {
	var link perfumenotes.Link
	if err := readJSON(w, r, &link); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(link); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.PerfumeNotes.Create(r.Context(), link); err != nil {
		switch {
		case errors.Is(err, perfumenotes.ErrConflict):
			app.conflictResponse(w, r, err)
		case errors.Is(err, perfumenotes.ErrUnknownReference):
			app.badRequestResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}
	app.jsonResponse(w, http.StatusCreated, link)
}

// deletePerfumeNoteHandler godoc
//
//	@Summary	Detach a note from a perfume
//	@Tags		perfume-notes
//	@Param		perfumeID	path	int	true	"Perfume ID"
//	@Param		noteID		path	int	true	"Note ID"
//	@Success	204
//	@Failure	404	{object}	errorResponse
//	@Security	ApiKeyAuth
//	@Router		/perfume-notes/{perfumeID}/{noteID} [delete]
func (app *application) deletePerfumeNoteHandler(w http.ResponseWriter, r *http.Request) {
	perfumeID, err := parseIDParam(r, "perfumeID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	noteID, err := parseIDParam(r, "noteID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.PerfumeNotes.Delete(r.Context(), perfumeID, noteID); err != nil {
		if errors.Is(err, perfumenotes.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
