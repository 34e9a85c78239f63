package mailer

import (
	"embed"
	"errors"
)

const (
	FromName            = "Parfümvilág"
	maxRetires          = 3
	UserWelcomeTemplate = "user_welcome.tmpl"
)

var ErrNotConfigured = errors.New("mailer: SMTP host is not configured")

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, username, email string, data any) error
}
