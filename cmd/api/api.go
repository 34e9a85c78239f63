package main

import (
	"context"
	"errors"
	"expvar"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"parfumvilag/docs" // registers the swagger spec
	"parfumvilag/internal/auth"
	"parfumvilag/internal/config"
	"parfumvilag/internal/domain/storage"
	"parfumvilag/internal/mailer"
	"parfumvilag/internal/params"
	"parfumvilag/internal/ratelimiter"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type application struct {
	config        *config.Config
	store         *storage.Container
	pinger        pinger
	logger        *zap.SugaredLogger
	images        imageStore    // nil when Cloudinary is not configured
	mailer        mailer.Client // nil when SMTP is not configured
	authenticator auth.Authenticator
	rateLimiter   ratelimiter.Limiter
	catalog       params.CatalogDefaults

	wg sync.WaitGroup
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "x-auth-token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(app.RateLimiterMiddleware)

	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/api", func(r chi.Router) {
		r.With(app.BasicAuthMiddleware()).Get("/health", app.healthCheckHandler)
		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("doc.json")))

		admin := func(r chi.Router) chi.Router {
			return r.With(app.AuthTokenMiddleware, app.RequireAdmin)
		}

		r.Route("/perfumes", func(r chi.Router) {
			r.Get("/all", app.listPerfumesHandler)
			r.Get("/price-range", app.priceRangeHandler)
			r.Get("/random", app.randomPerfumesHandler)
			r.Get("/featured", app.featuredPerfumesHandler)
			r.Get("/batch", app.batchPerfumesHandler)
			r.Get("/{id}", app.getPerfumeHandler)

			admin(r).Post("/", app.createPerfumeHandler)
			admin(r).Put("/{id}", app.updatePerfumeHandler)
			admin(r).Delete("/{id}", app.deletePerfumeHandler)
			admin(r).Post("/{id}/image", app.uploadPerfumeImageHandler)
		})

		r.Route("/brands", func(r chi.Router) {
			r.Get("/", app.listBrandsHandler)
			r.Get("/{id}", app.getBrandHandler)
			admin(r).Post("/", app.createBrandHandler)
			admin(r).Put("/{id}", app.updateBrandHandler)
			admin(r).Delete("/{id}", app.deleteBrandHandler)
		})

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", app.listNotesHandler)
			r.Get("/{id}", app.getNoteHandler)
			admin(r).Post("/", app.createNoteHandler)
			admin(r).Put("/{id}", app.updateNoteHandler)
			admin(r).Delete("/{id}", app.deleteNoteHandler)
		})

		r.Route("/stores", func(r chi.Router) {
			r.Get("/", app.listOffersHandler)
			r.Get("/{id}", app.getOfferHandler)
			admin(r).Post("/", app.createOfferHandler)
			admin(r).Put("/{id}", app.updateOfferHandler)
			admin(r).Delete("/{id}", app.deleteOfferHandler)
		})

		r.Route("/perfume-notes", func(r chi.Router) {
			r.Get("/", app.listPerfumeNotesHandler)
			admin(r).Post("/", app.createPerfumeNoteHandler)
			admin(r).Delete("/{perfumeID}/{noteID}", app.deletePerfumeNoteHandler)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", app.registerUserHandler)
			r.Post("/login", app.loginHandler)
			r.Post("/refresh", app.refreshTokenHandler)
		})

		r.Route("/users/me", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Get("/", app.getCurrentUserHandler)
			r.Put("/", app.updateCurrentUserHandler)
			r.Post("/profile-picture", app.uploadProfilePictureHandler)
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/perfume/{perfumeID}", app.getPerfumeReviewsHandler)
			r.Get("/{id}", app.getReviewHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.AuthTokenMiddleware)
				r.Post("/perfume/{perfumeID}", app.createReviewHandler)
				r.Put("/{id}", app.updateReviewHandler)
				r.Delete("/{id}", app.deleteReviewHandler)
			})
		})

		r.Route("/saved-perfumes", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Get("/", app.listSavedPerfumesHandler)
			r.Post("/", app.savePerfumeHandler)
			r.Post("/toggle", app.toggleSavedPerfumeHandler)
			r.Delete("/{perfumeID}", app.removeSavedPerfumeHandler)
		})
	})

	return r
}

func (app *application) run(mux http.Handler) error {
	// Docs
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.APIURL
	docs.SwaggerInfo.BasePath = "/api"

	srv := &http.Server{
		Addr:         app.config.Addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		err := srv.Shutdown(ctx)

		app.logger.Infow("waiting for background tasks")
		app.wg.Wait()

		shutdown <- err
	}()

	app.logger.Infow("server has started", "addr", app.config.Addr, "env", app.config.Env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.Addr, "env", app.config.Env)

	return nil
}
