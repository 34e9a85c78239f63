package main

import (
	"fmt"
	"time"
)

// background runs fn in its own goroutine. A panic is logged, not
// propagated; run waits for pending tasks before returning.
func (app *application) background(fn func()) {
	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		defer func() {
			if err := recover(); err != nil {
				app.logger.Errorw("background task panicked", "error", fmt.Sprint(err))
			}
		}()
		fn()
	}()
}

// sendWelcomeEmail is best effort: registration succeeds even if it fails.
func (app *application) sendWelcomeEmail(name, email string) {
	if app.mailer == nil {
		return
	}
	vars := struct {
		Username   string
		CatalogURL string
	}{
		Username:   name,
		CatalogURL: app.config.FrontendURL + "/perfumes",
	}

	app.background(func() {
		start := time.Now()
		if err := app.mailer.Send(welcomeTemplate, name, email, vars); err != nil {
			app.logger.Errorw("error sending welcome email", "email", email, "error", err)
			return
		}
		app.logger.Infow("welcome email sent", "email", email, "took", time.Since(start).String())
	})
}
