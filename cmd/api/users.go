package main

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"parfumvilag/internal/domain/users"
)

type userKey string

const userCtx userKey = "user"

func getUserFromContext(r *http.Request) *users.User {
	if user, ok := r.Context().Value(userCtx).(*users.User); ok {
		return user
	}
	return nil
}

// UpdateUserPayload carries the fields to change; omitted fields keep their
// current value. An empty phone or profile_picture_url clears it.
type UpdateUserPayload struct {
	Name              *string `json:"name" validate:"omitempty,min=1,max=100"`
	Email             *string `json:"email" validate:"omitempty,email,max=255"`
	Password          *string `json:"password" validate:"omitempty,min=6,max=72"`
	Phone             *string `json:"phone" validate:"omitempty,max=30"`
	ProfilePictureURL *string `json:"profile_picture_url" validate:"omitempty,url"`
}

// getCurrentUserHandler godoc
//
//	@Summary	Get current user profile
//	@Tags		users
//	@Produce	json
//	@Success	200	{object}	users.User
//	@Failure	401	{object}	errorResponse
//	@Security	ApiKeyAuth
//	@Router		/users/me [get]
func (app *application) getCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	app.jsonResponse(w, http.StatusOK, getUserFromContext(r))
}

// updateCurrentUserHandler godoc
//
//	@Summary		Update current user profile
//	@Description	Updates any combination of name, email, password, phone and profile picture URL.
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		UpdateUserPayload	true	"Fields to update"
//	@Success		200		{object}	users.User
//	@Failure		400		{object}	errorResponse
//	@Failure		409		{object}	errorResponse
//	@Security		ApiKeyAuth
//	@Router			/users/me [put]
func (app *application) updateCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	var payload UpdateUserPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	updated := *getUserFromContext(r)
	if payload.Name != nil {
		updated.Name = strings.TrimSpace(*payload.Name)
	}
	if payload.Email != nil {
		updated.Email = strings.TrimSpace(*payload.Email)
	}
	if payload.Phone != nil {
		updated.Phone = emptyToNil(*payload.Phone)
	}
	if payload.ProfilePictureURL != nil {
		updated.ProfilePictureURL = emptyToNil(*payload.ProfilePictureURL)
	}
	if payload.Password != nil {
		if err := updated.Password.Set(*payload.Password); err != nil {
			app.internalServerError(w, r, err)
			return
		}
	}

	if err := app.store.Users.Update(r.Context(), &updated); err != nil {
		switch {
		case errors.Is(err, users.ErrDuplicateEmail):
			app.conflictResponse(w, r, err)
		case errors.Is(err, users.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.jsonResponse(w, http.StatusOK, &updated)
}

type profilePictureResponse struct {
	ProfilePictureURL string `json:"profile_picture_url"`
}

// uploadProfilePictureHandler godoc
//
//	@Summary		Upload profile picture
//	@Description	Uploads the image to Cloudinary, stores its URL and removes the previous picture.
//	@Tags			users
//	@Accept			mpfd
//	@Produce		json
//	@Param			profile_picture	formData	file	true	"JPEG, PNG or WebP image (max 5 MB)"
//	@Success		200				{object}	profilePictureResponse
//	@Failure		400				{object}	errorResponse
//	@Failure		503				{object}	errorResponse
//	@Security		ApiKeyAuth
//	@Router			/users/me/profile-picture [post]
func (app *application) uploadProfilePictureHandler(w http.ResponseWriter, r *http.Request) {
	if app.images == nil {
		app.serviceUnavailableResponse(w, r, errImagesDisabled)
		return
	}
	user := getUserFromContext(r)

	file, err := readImageUpload(w, r, "profile_picture")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	url, err := app.images.Upload(r.Context(), file, profilePictureFolder, uuid.NewString())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	previous, err := app.store.Users.SetProfilePicture(r.Context(), user.ID, url)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if previous != nil && *previous != "" && *previous != url {
		old := *previous
		app.background(func() {
			ctx, cancel := context.WithTimeout(context.Background(), imageDeleteTimeout)
			defer cancel()
			if err := app.images.Delete(ctx, old); err != nil {
				app.logger.Warnw("failed to delete old profile picture", "url", old, "error", err)
			}
		})
	}

	app.jsonResponse(w, http.StatusOK, profilePictureResponse{ProfilePictureURL: url})
}

func emptyToNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
