package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parfumvilag/internal/domain/perfumes"
	"parfumvilag/internal/domain/reviews"
	"parfumvilag/internal/domain/storage"
)

func ratings(overall int) map[string]any {
	return map[string]any{
		"scent_trail_rating": 4,
		"longevity_rating":   3,
		"value_rating":       5,
		"overall_impression": overall,
		"review_text":        "  lovely dry-down  ",
	}
}

func TestReviewsFlow(t *testing.T) {
	fr := newFakeReviews()
	fu := newFakeUsers(
		newUser(t, 1, "anna@example.com", "secret1", false),
		newUser(t, 2, "bea@example.com", "secret1", false),
	)
	fp := &fakePerfumes{details: map[int64]*perfumes.PerfumeDetail{10: {Perfume: perfumes.Perfume{ID: 10}}}}
	app := newTestApplication(t, &storage.Container{Perfumes: fp, Users: fu, Reviews: fr})
	mux := app.mount()

	rr := executeRequest(mux, jsonRequest(t, http.MethodPost, "/api/reviews/perfume/10", ratings(4)))
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = executeRequest(mux, withToken(t, app, jsonRequest(t, http.MethodPost, "/api/reviews/perfume/10", ratings(4)), 1))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created reviews.Review
	decodeBody(t, rr, &created)
	assert.Equal(t, int64(10), created.PerfumeID)
	assert.Equal(t, int64(1), created.UserID)
	assert.Equal(t, "lovely dry-down", created.ReviewText)

	t.Run("second review by same user conflicts", func(t *testing.T) {
		rr := executeRequest(mux, withToken(t, app, jsonRequest(t, http.MethodPost, "/api/reviews/perfume/10", ratings(5)), 1))
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("ratings out of range", func(t *testing.T) {
		for _, overall := range []int{0, 6} {
			rr := executeRequest(mux, withToken(t, app, jsonRequest(t, http.MethodPost, "/api/reviews/perfume/10", ratings(overall)), 2))
			assert.Equal(t, http.StatusBadRequest, rr.Code, "overall=%d", overall)
		}
	})

	t.Run("listing includes summary", func(t *testing.T) {
		rr := executeRequest(mux, withToken(t, app, jsonRequest(t, http.MethodPost, "/api/reviews/perfume/10", ratings(2)), 2))
		require.Equal(t, http.StatusCreated, rr.Code)

		rr = executeRequest(mux, httptest.NewRequest(http.MethodGet, "/api/reviews/perfume/10", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		var body perfumeReviewsResponse
		decodeBody(t, rr, &body)
		assert.Len(t, body.Reviews, 2)
		assert.Equal(t, 2, body.Summary.Total)
		assert.InDelta(t, 3.0, body.Summary.Averages.Overall, 0.001)
	})

	t.Run("unknown perfume", func(t *testing.T) {
		rr := executeRequest(mux, httptest.NewRequest(http.MethodGet, "/api/reviews/perfume/999", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	path := fmt.Sprintf("/api/reviews/%d", created.ID)

	t.Run("only the author may update", func(t *testing.T) {
		rr := executeRequest(mux, withToken(t, app, jsonRequest(t, http.MethodPut, path, ratings(1)), 2))
		assert.Equal(t, http.StatusNotFound, rr.Code)

		rr = executeRequest(mux, withToken(t, app, jsonRequest(t, http.MethodPut, path, ratings(1)), 1))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		rr = executeRequest(mux, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rr.Code)
		var got reviews.Review
		decodeBody(t, rr, &got)
		assert.Equal(t, 1, got.OverallImpression)
	})

	t.Run("only the author may delete", func(t *testing.T) {
		rr := executeRequest(mux, withToken(t, app, httptest.NewRequest(http.MethodDelete, path, nil), 2))
		assert.Equal(t, http.StatusNotFound, rr.Code)

		rr = executeRequest(mux, withToken(t, app, httptest.NewRequest(http.MethodDelete, path, nil), 1))
		assert.Equal(t, http.StatusNoContent, rr.Code)

		rr = executeRequest(mux, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
