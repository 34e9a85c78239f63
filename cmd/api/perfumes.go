package main

import (
	"cmp"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"parfumvilag/internal/domain/perfumes"
	"parfumvilag/internal/params"
)

const (
	defaultRandomLimit = 5
	maxRandomLimit     = 50
)

// parseIDParam reads a positive integer id from the URL path.
func parseIDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// listPerfumesHandler godoc
//
//	@Summary		List catalog perfumes
//	@Description	Faceted search with sorting and pagination. Price bounds apply to the lowest positive store price.
//	@Tags			perfumes
//	@Produce		json
//	@Param			query		query		string	false	"Substring of the perfume or brand name"
//	@Param			brand		query		string	false	"Exact brand name"
//	@Param			note		query		string	false	"Exact note name"
//	@Param			gender		query		string	false	"male, female or unisex"
//	@Param			min_price	query		number	false	"Lowest derived price"
//	@Param			max_price	query		number	false	"Highest derived price"
//	@Param			sort		query		string	false	"name-asc (default), name-desc, price-asc, price-desc"
//	@Param			page		query		int		false	"Page number, starting at 1"
//	@Param			per_page	query		int		false	"Items per page (1-100, default 24)"
//	@Success		200			{object}	perfumes.Page
//	@Failure		400			{object}	errorResponse
//	@Failure		500			{object}	errorResponse
//	@Router			/perfumes/all [get]
func (app *application) listPerfumesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	pg, err := params.ParsePage(q, app.catalog)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	f := perfumes.Filter{
		Query:    q.Get("query"),
		Brand:    q.Get("brand"),
		Note:     q.Get("note"),
		Gender:   q.Get("gender"),
		MinPrice: params.ParsePriceBound(q, "min_price"),
		MaxPrice: params.ParsePriceBound(q, "max_price"),
		Sort:     perfumes.ParseSort(cmp.Or(q.Get("sort"), app.catalog.Sort)),
	}

	page, err := app.store.Perfumes.List(r.Context(), f, pg)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, page)
}

// priceRangeHandler godoc
//
//	@Summary		Catalog price range
//	@Description	Floor of the lowest and ceiling of the highest positive store price.
//	@Tags			perfumes
//	@Produce		json
//	@Success		200	{object}	perfumes.PriceRange
//	@Failure		500	{object}	errorResponse
//	@Router			/perfumes/price-range [get]
func (app *application) priceRangeHandler(w http.ResponseWriter, r *http.Request) {
	pr, err := app.store.Perfumes.PriceRange(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, pr)
}

// randomPerfumesHandler godoc
//
//	@Summary		Random priced perfumes
//	@Tags			perfumes
//	@Produce		json
//	@Param			limit	query		int	false	"Number of perfumes (1-50, default 5)"
//	@Success		200		{array}		perfumes.PerfumeCard
//	@Failure		500		{object}	errorResponse
//	@Router			/perfumes/random [get]
func (app *application) randomPerfumesHandler(w http.ResponseWriter, r *http.Request) {
	limit := params.ParseLimit(r.URL.Query(), defaultRandomLimit, maxRandomLimit)

	cards, err := app.store.Perfumes.Random(r.Context(), limit)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, cards)
}

// featuredPerfumesHandler godoc
//
//	@Summary	Featured perfumes
//	@Tags		perfumes
//	@Produce	json
//	@Success	200	{array}		perfumes.PerfumeCard
//	@Failure	500	{object}	errorResponse
//	@Router		/perfumes/featured [get]
func (app *application) featuredPerfumesHandler(w http.ResponseWriter, r *http.Request) {
	cards, err := app.store.Perfumes.Featured(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, cards)
}

// batchPerfumesHandler godoc
//
//	@Summary		Perfumes by id
//	@Description	Returns cards for a comma separated id list, in the order given. Invalid ids are ignored.
//	@Tags			perfumes
//	@Produce		json
//	@Param			ids	query		string	true	"Comma separated perfume ids"
//	@Success		200	{array}		perfumes.PerfumeCard
//	@Failure		400	{object}	errorResponse
//	@Failure		500	{object}	errorResponse
//	@Router			/perfumes/batch [get]
func (app *application) batchPerfumesHandler(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("ids")
	if strings.TrimSpace(raw) == "" {
		app.badRequestResponse(w, r, errors.New("ids query parameter is required"))
		return
	}

	ids := params.ParseIDList(raw)
	if len(ids) == 0 {
		app.jsonResponse(w, http.StatusOK, []perfumes.PerfumeCard{})
		return
	}

	cards, err := app.store.Perfumes.GetByIDs(r.Context(), ids)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, cards)
}

// getPerfumeHandler godoc
//
//	@Summary	Perfume detail
//	@Tags		perfumes
//	@Produce	json
//	@Param		id	path		int	true	"Perfume ID"
//	@Success	200	{object}	perfumes.PerfumeDetail
//	@Failure	400	{object}	errorResponse
//	@Failure	404	{object}	errorResponse
//	@Failure	500	{object}	errorResponse
//	@Router		/perfumes/{id} [get]
func (app *application) getPerfumeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	d, err := app.store.Perfumes.GetDetail(r.Context(), id)
	if err != nil {
		if errors.Is(err, perfumes.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, d)
}

type perfumePayload struct {
	Name        string `json:"name" validate:"required,max=255"`
	BrandID     *int64 `json:"brand_id" validate:"omitempty,gt=0"`
	Gender      string `json:"gender" validate:"required,oneof=male female unisex"`
	Type        string `json:"type" validate:"max=50"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
	IsFeatured  bool   `json:"is_featured"`
}

func (p perfumePayload) toPerfume() *perfumes.Perfume {
	return &perfumes.Perfume{
		Name:        strings.TrimSpace(p.Name),
		BrandID:     p.BrandID,
		Gender:      perfumes.Gender(p.Gender),
		Type:        cmp.Or(strings.TrimSpace(p.Type), "Unknown Type"),
		Description: p.Description,
		ImageURL:    p.ImageURL,
		IsFeatured:  p.IsFeatured,
	}
}

func (app *application) readPerfumePayload(w http.ResponseWriter, r *http.Request) (*perfumes.Perfume, bool) {
	var payload perfumePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return nil, false
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return nil, false
	}
	return payload.toPerfume(), true
}

// createPerfumeHandler godoc
//
//	@Summary	Create a perfume
//	@Tags		perfumes-admin
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		perfumePayload	true	"Perfume"
//	@Success	201		{object}	perfumes.Perfume
//	@Failure	400		{object}	errorResponse
//	@Failure	403		{object}	errorResponse
//	@Security	ApiKeyAuth
//	@Router		/perfumes [post]
func (app *application) createPerfumeHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := app.readPerfumePayload(w, r)
	if !ok {
		return
	}

	if err := app.store.Perfumes.Create(r.Context(), p); err != nil {
		if errors.Is(err, perfumes.ErrInvalidBrand) {
			app.badRequestResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusCreated, p)
}

// updatePerfumeHandler godoc
//
//	@Summary	Replace a perfume
//	@Tags		perfumes-admin
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int				true	"Perfume ID"
//	@Param		payload	body		perfumePayload	true	"Perfume"
//	@Success	200		{object}	perfumes.Perfume
//	@Failure	400		{object}	errorResponse
//	@Failure	404		{object}	errorResponse
//	@Security	ApiKeyAuth
//	@Router		/perfumes/{id} [put]
func (app *application) updatePerfumeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	p, ok := app.readPerfumePayload(w, r)
	if !ok {
		return
	}
	p.ID = id

	if err := app.store.Perfumes.Update(r.Context(), p); err != nil {
		switch {
		case errors.Is(err, perfumes.ErrNotFound):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, perfumes.ErrInvalidBrand):
			app.badRequestResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}
	app.jsonResponse(w, http.StatusOK, p)
}

// deletePerfumeHandler godoc
//
//	@Summary	Delete a perfume
//	@Tags		perfumes-admin
//	@Param		id	path	int	true	"Perfume ID"
//	@Success	204
//	@Failure	404	{object}	errorResponse
//	@Security	ApiKeyAuth
//	@Router		/perfumes/{id} [delete]
func (app *application) deletePerfumeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Perfumes.Delete(r.Context(), id); err != nil {
		if errors.Is(err, perfumes.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// uploadPerfumeImageHandler godoc
//
//	@Summary	Upload a perfume image
//	@Tags		perfumes-admin
//	@Accept		mpfd
//	@Produce	json
//	@Param		id		path		int		true	"Perfume ID"
//	@Param		image	formData	file	true	"JPEG, PNG or WebP, max 5MB"
//	@Success	200		{object}	map[string]string
//	@Failure	400		{object}	errorResponse
//	@Failure	404		{object}	errorResponse
//	@Security	ApiKeyAuth
//	@Router		/perfumes/{id}/image [post]
func (app *application) uploadPerfumeImageHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if app.images == nil {
		app.serviceUnavailableResponse(w, r, errImagesDisabled)
		return
	}

	exists, err := app.store.Perfumes.Exists(r.Context(), id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if !exists {
		app.notFoundResponse(w, r, perfumes.ErrNotFound)
		return
	}

	file, err := readImageUpload(w, r, "image")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	publicID := fmt.Sprintf("perfume_%d_%s", id, uuid.NewString())
	imageURL, err := app.images.Upload(r.Context(), file, perfumeImageFolder, publicID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Perfumes.SetImageURL(r.Context(), id, imageURL); err != nil {
		app.internalServerError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, map[string]string{"image_url": imageURL})
}
