package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parfumvilag/internal/domain/storage"
)

func TestSavedPerfumes(t *testing.T) {
	fs := newFakeSaved(10, 11)
	fu := newFakeUsers(newUser(t, 1, "anna@example.com", "secret1", false))
	app := newTestApplication(t, &storage.Container{Users: fu, SavedPerfumes: fs})
	mux := app.mount()

	save := func(perfumeID int64) *httptest.ResponseRecorder {
		req := jsonRequest(t, http.MethodPost, "/api/saved-perfumes", map[string]int64{"perfume_id": perfumeID})
		return executeRequest(mux, withToken(t, app, req, 1))
	}

	assert.Equal(t, http.StatusCreated, save(10).Code)
	assert.Equal(t, http.StatusOK, save(10).Code)
	assert.Equal(t, http.StatusNotFound, save(999).Code)

	rr := executeRequest(mux, withToken(t, app, httptest.NewRequest(http.MethodGet, "/api/saved-perfumes", nil), 1))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[10]", rr.Body.String())

	t.Run("toggle", func(t *testing.T) {
		toggle := func() toggleResponse {
			req := jsonRequest(t, http.MethodPost, "/api/saved-perfumes/toggle", map[string]int64{"perfume_id": 11})
			rr := executeRequest(mux, withToken(t, app, req, 1))
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
			var resp toggleResponse
			decodeBody(t, rr, &resp)
			return resp
		}

		first := toggle()
		assert.True(t, first.IsFavorite)
		assert.NotEmpty(t, first.Message)

		second := toggle()
		assert.False(t, second.IsFavorite)
	})

	t.Run("remove", func(t *testing.T) {
		rr := executeRequest(mux, withToken(t, app, httptest.NewRequest(http.MethodDelete, "/api/saved-perfumes/10", nil), 1))
		assert.Equal(t, http.StatusNoContent, rr.Code)

		rr = executeRequest(mux, withToken(t, app, httptest.NewRequest(http.MethodDelete, "/api/saved-perfumes/10", nil), 1))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("requires auth", func(t *testing.T) {
		rr := executeRequest(mux, httptest.NewRequest(http.MethodGet, "/api/saved-perfumes", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
