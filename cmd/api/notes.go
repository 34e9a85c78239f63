package main

import (
	"errors"
	"net/http"
	"strings"

	"parfumvilag/internal/domain/notes"
)

type notePayload struct {
	Name string `json:"name" validate:"required,max=255"`
	Type string `json:"type" validate:"omitempty,max=50"`
}

func (app *application) readNotePayload(w http.ResponseWriter, r *http.Request) (*notes.Note, bool) {
	var payload notePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return nil, false
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return nil, false
	}
	return &notes.Note{Name: strings.TrimSpace(payload.Name), Type: strings.TrimSpace(payload.Type)}, true
}

// listNotesHandler godoc
//
//	@Summary	List scent notes
//	@Tags		notes
//	@Produce	json
//	@Success	200	{array}		notes.Note
//	@Failure	500	{object}	errorResponse
//	@Router		/notes [get]
func (app *application) listNotesHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.store.Notes.List(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, list)
}

// getNoteHandler godoc
//
//	@Summary	Get a scent note
//	@Tags		notes
//	@Produce	json
//	@Param		id	path		int	true	"Note ID"
//	@Success	200	{object}	notes.Note
//	@Failure	404	{object}	errorResponse
//	@Router		/notes/{id} [get]
func (app *application) getNoteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	n, err := app.store.Notes.GetByID(r.Context(), id)
	if err != nil {
		app.noteError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, n)
}

// createNoteHandler godoc
//
//	@Summary	Create a scent note
//	@Tags		notes
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		notePayload	true	"Note"
//	@Success	201		{object}	notes.Note
//	@Failure	409		{object}	errorResponse
//	@Security	ApiKeyAuth
//	@Router		/notes [post]
func (app *application) createNoteHandler(w http.ResponseWriter, r *http.Request) {
	n, ok := app.readNotePayload(w, r)
	if !ok {
		return
	}
	if err := app.store.Notes.Create(r.Context(), n); err != nil {
		app.noteError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusCreated, n)
}

// updateNoteHandler godoc
//
//	@Summary	Update a scent note
//	@Tags		notes
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int			true	"Note ID"
//	@Param		payload	body		notePayload	true	"Note"
//	@Success	200		{object}	notes.Note
//	@Failure	404		{object}	errorResponse
//	@Security	ApiKeyAuth
//	@Router		/notes/{id} [put]
func (app *application) updateNoteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	n, ok := app.readNotePayload(w, r)
	if !ok {
		return
	}
	n.ID = id
	if err := app.store.Notes.Update(r.Context(), n); err != nil {
		app.noteError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, n)
}

// deleteNoteHandler godoc
//
//	@Summary	Delete a scent note
//	@Tags		notes
//	@Param		id	path	int	true	"Note ID"
//	@Success	204
//	@Failure	404	{object}	errorResponse
//	@Security	ApiKeyAuth
//	@Router		/notes/{id} [delete]
func (app *application) deleteNoteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := app.store.Notes.Delete(r.Context(), id); err != nil {
		app.noteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *application) noteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, notes.ErrNotFound):
		app.notFoundResponse(w, r, err)
	case errors.Is(err, notes.ErrDuplicate):
		app.conflictResponse(w, r, err)
	default:
		app.internalServerError(w, r, err)
	}
}
