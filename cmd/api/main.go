package main

import (
	"context"
	"expvar"
	"fmt"
	"os"
	"runtime"

	"github.com/cloudinary/cloudinary-go/v2"

	"parfumvilag/internal/auth"
	"parfumvilag/internal/config"
	"parfumvilag/internal/db"
	"parfumvilag/internal/domain/storage"
	"parfumvilag/internal/logging"
	"parfumvilag/internal/mailer"
	"parfumvilag/internal/params"
	"parfumvilag/internal/ratelimiter"
)

var version = "1.0.0"

//	@title			Parfümvilág API
//	@description	Perfume catalog with faceted search, price comparison, reviews and favorites.

//	@BasePath					/api
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						x-auth-token
//	@securityDefinitions.basic	BasicAuth

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(!cfg.IsProduction())
	defer logger.Sync()

	// Database
	pool, err := db.Open(context.Background(), db.Options{
		URL:         cfg.DB.Addr,
		MaxConns:    cfg.DB.MaxConns,
		MaxIdleTime: cfg.DB.MaxIdleTime,
		Migrate:     cfg.DB.AutoMigrate,
		Logger:      logger,
	})
	if err != nil {
		logger.Fatal(err)
	}
	defer pool.Close()

	store := storage.NewContainer(pool)

	app := &application{
		config:  cfg,
		store:   store,
		pinger:  pool,
		logger:  logger,
		catalog: catalogDefaults(cfg),
		authenticator: auth.NewJWTAuthenticator(
			cfg.Auth.Secret,
			cfg.Auth.RefreshSecret,
			cfg.Auth.Issuer,
			cfg.Auth.Issuer,
			cfg.Auth.AccessTokenExp,
			cfg.Auth.RefreshTokenExp,
		),
	}

	// cloudinary
	if cfg.CloudinaryURL != "" {
		cld, err := cloudinary.NewFromURL(cfg.CloudinaryURL)
		if err != nil {
			logger.Fatal(err)
		}
		app.images = &cloudinaryImages{cld: cld}
	} else {
		logger.Warn("CLOUDINARY_URL not set, image uploads disabled")
	}

	// mailer
	if cfg.Mail.SMTPHost != "" {
		smtp, err := mailer.NewSMTPClient(cfg.Mail.SMTPHost, cfg.Mail.SMTPPort, cfg.Mail.Username, cfg.Mail.Password, cfg.Mail.FromEmail)
		if err != nil {
			logger.Fatal(err)
		}
		app.mailer = smtp
	} else {
		logger.Warn("SMTP_HOST not set, welcome emails disabled")
	}

	// Rate limiter
	limiter := ratelimiter.NewFixedWindowLimiter(cfg.RateLimiter.RequestsPerTimeFrame, cfg.RateLimiter.TimeFrame)
	stop := make(chan struct{})
	defer close(stop)
	go limiter.Cleanup(cfg.RateLimiter.TimeFrame*10, stop)
	app.rateLimiter = limiter

	//Metrics collected http://localhost:5000/api/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("database", expvar.Func(func() any {
		s := pool.Stat()
		return map[string]any{
			"total_conns":    s.TotalConns(),
			"idle_conns":     s.IdleConns(),
			"acquired_conns": s.AcquiredConns(),
			"max_conns":      s.MaxConns(),
		}
	}))
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.mount()

	if err := app.run(mux); err != nil {
		logger.Fatal(err)
	}
}

func catalogDefaults(cfg *config.Config) params.CatalogDefaults {
	d := params.DefaultCatalog()
	d.PerPage = cfg.Catalog.DefaultPerPage
	d.MaxPerPage = cfg.Catalog.MaxPerPage
	return d
}
