package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"parfumvilag/internal/auth"
	"parfumvilag/internal/config"
	"parfumvilag/internal/domain/perfumes"
	"parfumvilag/internal/domain/reviews"
	"parfumvilag/internal/domain/savedperfumes"
	"parfumvilag/internal/domain/storage"
	"parfumvilag/internal/domain/users"
	"parfumvilag/internal/params"
	"parfumvilag/internal/ratelimiter"
)

func newTestApplication(t *testing.T, store *storage.Container) *application {
	t.Helper()

	cfg := &config.Config{
		Env: "test",
		Auth: config.AuthConfig{
			BasicUser:       "admin",
			BasicPass:       "s3cret",
			Secret:          "access-secret",
			RefreshSecret:   "refresh-secret",
			AccessTokenExp:  time.Hour,
			RefreshTokenExp: 24 * time.Hour,
			Issuer:          "parfumvilag-test",
		},
		RateLimiter: config.RateLimiterConfig{
			RequestsPerTimeFrame: 100,
			TimeFrame:            time.Minute,
		},
	}

	return &application{
		config: cfg,
		store:  store,
		logger: zap.NewNop().Sugar(),
		authenticator: auth.NewJWTAuthenticator(
			cfg.Auth.Secret,
			cfg.Auth.RefreshSecret,
			cfg.Auth.Issuer,
			cfg.Auth.Issuer,
			cfg.Auth.AccessTokenExp,
			cfg.Auth.RefreshTokenExp,
		),
		rateLimiter: ratelimiter.NewFixedWindowLimiter(cfg.RateLimiter.RequestsPerTimeFrame, cfg.RateLimiter.TimeFrame),
		catalog:     params.DefaultCatalog(),
	}
}

func executeRequest(mux http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func jsonRequest(t *testing.T, method, url string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withToken(t *testing.T, app *application, req *http.Request, userID int64) *http.Request {
	t.Helper()
	token, _, err := app.authenticator.GenerateTokens(userID)
	require.NoError(t, err)
	req.Header.Set("x-auth-token", token)
	return req
}

func withBasicAuth(req *http.Request, user, pass string) *http.Request {
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(user+":"+pass)))
	return req
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v), rr.Body.String())
}

// fakePerfumes records the arguments of the catalog reads it serves.
// Methods a test does not exercise fall through to the nil embedded Store.
type fakePerfumes struct {
	perfumes.Store

	page      *perfumes.Page
	listErr   error
	gotFilter perfumes.Filter
	gotPage   params.Pagination
	listCalls int

	cards  []perfumes.PerfumeCard
	gotIDs []int64

	details map[int64]*perfumes.PerfumeDetail
	created []*perfumes.Perfume
}

func (f *fakePerfumes) List(_ context.Context, filter perfumes.Filter, pg params.Pagination) (*perfumes.Page, error) {
	f.listCalls++
	f.gotFilter = filter
	f.gotPage = pg
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.page != nil {
		return f.page, nil
	}
	return &perfumes.Page{Perfumes: []perfumes.PerfumeCard{}, CurrentPage: pg.Page}, nil
}

func (f *fakePerfumes) GetByIDs(_ context.Context, ids []int64) ([]perfumes.PerfumeCard, error) {
	f.gotIDs = ids
	return f.cards, nil
}

func (f *fakePerfumes) GetDetail(_ context.Context, id int64) (*perfumes.PerfumeDetail, error) {
	d, ok := f.details[id]
	if !ok {
		return nil, perfumes.ErrNotFound
	}
	return d, nil
}

func (f *fakePerfumes) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.details[id]
	return ok, nil
}

func (f *fakePerfumes) Create(_ context.Context, p *perfumes.Perfume) error {
	p.ID = int64(len(f.created) + 100)
	f.created = append(f.created, p)
	return nil
}

type fakeUsers struct {
	mu     sync.Mutex
	byID   map[int64]*users.User
	nextID int64
}

func newFakeUsers(existing ...*users.User) *fakeUsers {
	f := &fakeUsers{byID: map[int64]*users.User{}, nextID: 1}
	for _, u := range existing {
		f.byID[u.ID] = u
		if u.ID >= f.nextID {
			f.nextID = u.ID + 1
		}
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u *users.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return users.ErrDuplicateEmail
		}
	}
	u.ID = f.nextID
	f.nextID++
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, users.ErrNotFound
}

func (f *fakeUsers) Update(_ context.Context, u *users.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, existing := range f.byID {
		if id != u.ID && existing.Email == u.Email {
			return users.ErrDuplicateEmail
		}
	}
	if _, ok := f.byID[u.ID]; !ok {
		return users.ErrNotFound
	}
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUsers) SetProfilePicture(_ context.Context, userID int64, url string) (*string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return nil, users.ErrNotFound
	}
	previous := u.ProfilePictureURL
	u.ProfilePictureURL = &url
	return previous, nil
}

func newUser(t *testing.T, id int64, email, pass string, admin bool) *users.User {
	t.Helper()
	u := &users.User{ID: id, Name: "User " + email, Email: email, IsAdmin: admin}
	require.NoError(t, u.Password.Set(pass))
	return u
}

type fakeReviews struct {
	reviews map[int64]*reviews.Review
	nextID  int64
}

func newFakeReviews() *fakeReviews {
	return &fakeReviews{reviews: map[int64]*reviews.Review{}, nextID: 1}
}

func (f *fakeReviews) Create(_ context.Context, r *reviews.Review) error {
	for _, existing := range f.reviews {
		if existing.UserID == r.UserID && existing.PerfumeID == r.PerfumeID {
			return reviews.ErrConflict
		}
	}
	r.ID = f.nextID
	f.nextID++
	stored := *r
	f.reviews[r.ID] = &stored
	return nil
}

func (f *fakeReviews) GetByID(_ context.Context, id int64) (*reviews.Review, error) {
	r, ok := f.reviews[id]
	if !ok {
		return nil, reviews.ErrNotFound
	}
	return r, nil
}

func (f *fakeReviews) ListByPerfume(_ context.Context, perfumeID int64) ([]reviews.Review, error) {
	out := []reviews.Review{}
	for _, r := range f.reviews {
		if r.PerfumeID == perfumeID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReviews) Summary(_ context.Context, perfumeID int64) (reviews.Summary, error) {
	var s reviews.Summary
	for _, r := range f.reviews {
		if r.PerfumeID != perfumeID {
			continue
		}
		s.Total++
		s.Averages.Overall += float64(r.OverallImpression)
	}
	if s.Total > 0 {
		s.Averages.Overall /= float64(s.Total)
	}
	return s, nil
}

func (f *fakeReviews) Update(_ context.Context, r *reviews.Review) error {
	existing, ok := f.reviews[r.ID]
	if !ok || existing.UserID != r.UserID {
		return reviews.ErrNotFound
	}
	r.PerfumeID = existing.PerfumeID
	stored := *r
	f.reviews[r.ID] = &stored
	return nil
}

func (f *fakeReviews) Delete(_ context.Context, reviewID, userID int64) error {
	existing, ok := f.reviews[reviewID]
	if !ok || existing.UserID != userID {
		return reviews.ErrNotFound
	}
	delete(f.reviews, reviewID)
	return nil
}

type savedKey struct{ user, perfume int64 }

type fakeSaved struct {
	saved map[savedKey]bool
	known map[int64]bool
}

func newFakeSaved(known ...int64) *fakeSaved {
	f := &fakeSaved{saved: map[savedKey]bool{}, known: map[int64]bool{}}
	for _, id := range known {
		f.known[id] = true
	}
	return f
}

func (f *fakeSaved) List(_ context.Context, userID int64) ([]int64, error) {
	ids := []int64{}
	for k := range f.saved {
		if k.user == userID {
			ids = append(ids, k.perfume)
		}
	}
	return ids, nil
}

func (f *fakeSaved) Save(_ context.Context, userID, perfumeID int64) (bool, error) {
	if !f.known[perfumeID] {
		return false, savedperfumes.ErrUnknownPerfume
	}
	k := savedKey{userID, perfumeID}
	if f.saved[k] {
		return false, nil
	}
	f.saved[k] = true
	return true, nil
}

func (f *fakeSaved) Remove(_ context.Context, userID, perfumeID int64) error {
	k := savedKey{userID, perfumeID}
	if !f.saved[k] {
		return savedperfumes.ErrNotFound
	}
	delete(f.saved, k)
	return nil
}

func (f *fakeSaved) Toggle(ctx context.Context, userID, perfumeID int64) (bool, error) {
	k := savedKey{userID, perfumeID}
	if f.saved[k] {
		delete(f.saved, k)
		return false, nil
	}
	return f.Save(ctx, userID, perfumeID)
}
