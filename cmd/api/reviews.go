package main

import (
	"errors"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"parfumvilag/internal/domain/perfumes"
	"parfumvilag/internal/domain/reviews"
)

type reviewPayload struct {
	ScentTrailRating  int    `json:"scent_trail_rating" validate:"required,min=1,max=5"`
	LongevityRating   int    `json:"longevity_rating" validate:"required,min=1,max=5"`
	ValueRating       int    `json:"value_rating" validate:"required,min=1,max=5"`
	OverallImpression int    `json:"overall_impression" validate:"required,min=1,max=5"`
	ReviewText        string `json:"review_text" validate:"max=2000"`
}

func (p reviewPayload) apply(review *reviews.Review) {
	review.ScentTrailRating = p.ScentTrailRating
	review.LongevityRating = p.LongevityRating
	review.ValueRating = p.ValueRating
	review.OverallImpression = p.OverallImpression
	review.ReviewText = strings.TrimSpace(p.ReviewText)
}

type perfumeReviewsResponse struct {
	Reviews []reviews.Review `json:"reviews"`
	Summary reviews.Summary  `json:"summary"`
}

func (app *application) reviewError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, reviews.ErrNotFound), errors.Is(err, reviews.ErrUnknownPerfume):
		app.notFoundResponse(w, r, err)
	case errors.Is(err, reviews.ErrConflict):
		app.conflictResponse(w, r, err)
	default:
		app.internalServerError(w, r, err)
	}
}

// getPerfumeReviewsHandler godoc
//
//	@Summary		List reviews of a perfume
//	@Description	Returns the reviews newest first together with the average of each rating.
//	@Tags			reviews
//	@Produce		json
//	@Param			perfumeID	path		int	true	"Perfume ID"
//	@Success		200			{object}	perfumeReviewsResponse
//	@Failure		400			{object}	errorResponse
//	@Failure		404			{object}	errorResponse
//	@Router			/reviews/perfume/{perfumeID} [get]
func (app *application) getPerfumeReviewsHandler(w http.ResponseWriter, r *http.Request) {
	perfumeID, err := parseIDParam(r, "perfumeID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	exists, err := app.store.Perfumes.Exists(r.Context(), perfumeID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if !exists {
		app.notFoundResponse(w, r, perfumes.ErrNotFound)
		return
	}

	var resp perfumeReviewsResponse
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		resp.Reviews, err = app.store.Reviews.ListByPerfume(ctx, perfumeID)
		return err
	})
	g.Go(func() error {
		var err error
		resp.Summary, err = app.store.Reviews.Summary(ctx, perfumeID)
		return err
	})
	if err := g.Wait(); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, resp)
}

// createReviewHandler godoc
//
//	@Summary	Review a perfume
//	@Tags		reviews
//	@Accept		json
//	@Produce	json
//	@Param		perfumeID	path		int				true	"Perfume ID"
//	@Param		payload		body		reviewPayload	true	"Ratings from 1 to 5"
//	@Success	201			{object}	reviews.Review
//	@Failure	400			{object}	errorResponse
//	@Failure	404			{object}	errorResponse
//	@Failure	409			{object}	errorResponse
//	@Security	ApiKeyAuth
//	@Router		/reviews/perfume/{perfumeID} [post]
func (app *application) createReviewHandler(w http.ResponseWriter, r *http.Request) {
	perfumeID, err := parseIDParam(r, "perfumeID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload reviewPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)
	review := &reviews.Review{
		PerfumeID: perfumeID,
		UserID:    user.ID,
		UserName:  user.Name,
		AvatarURL: user.ProfilePictureURL,
	}
	payload.apply(review)

	if err := app.store.Reviews.Create(r.Context(), review); err != nil {
		app.reviewError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusCreated, review)
}

// getReviewHandler godoc
//
//	@Summary	Get a review
//	@Tags		reviews
//	@Produce	json
//	@Param		id	path		int	true	"Review ID"
//	@Success	200	{object}	reviews.Review
//	@Failure	404	{object}	errorResponse
//	@Router		/reviews/{id} [get]
func (app *application) getReviewHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	review, err := app.store.Reviews.GetByID(r.Context(), id)
	if err != nil {
		app.reviewError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, review)
}

// updateReviewHandler godoc
//
//	@Summary		Update own review
//	@Description	Only the author can update a review; anyone else gets 404.
//	@Tags			reviews
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int				true	"Review ID"
//	@Param			payload	body		reviewPayload	true	"Ratings from 1 to 5"
//	@Success		200		{object}	reviews.Review
//	@Failure		400		{object}	errorResponse
//	@Failure		404		{object}	errorResponse
//	@Security		ApiKeyAuth
//	@Router			/reviews/{id} [put]
func (app *application) updateReviewHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload reviewPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)
	review := &reviews.Review{
		ID:        id,
		UserID:    user.ID,
		UserName:  user.Name,
		AvatarURL: user.ProfilePictureURL,
	}
	payload.apply(review)

	if err := app.store.Reviews.Update(r.Context(), review); err != nil {
		app.reviewError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, review)
}

// deleteReviewHandler godoc
//
//	@Summary	Delete own review
//	@Tags		reviews
//	@Param		id	path	int	true	"Review ID"
//	@Success	204
//	@Failure	404	{object}	errorResponse
//	@Security	ApiKeyAuth
//	@Router		/reviews/{id} [delete]
func (app *application) deleteReviewHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)
	if err := app.store.Reviews.Delete(r.Context(), id, user.ID); err != nil {
		app.reviewError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
