package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	mail "gopkg.in/mail.v2"
)

type SMTPClient struct {
	dialer    *mail.Dialer
	fromEmail string
}

func NewSMTPClient(host string, port int, username, password, fromEmail string) (*SMTPClient, error) {
	if host == "" {
		return nil, ErrNotConfigured
	}

	d := mail.NewDialer(host, port, username, password)
	d.Timeout = 10 * time.Second

	return &SMTPClient{dialer: d, fromEmail: fromEmail}, nil
}

// render executes the "subject" and "body" blocks of templateFile.
func render(templateFile string, data any) (subject, body string, err error) {
	tmpl, err := template.ParseFS(FS, "templates/"+templateFile)
	if err != nil {
		return "", "", err
	}

	var sb, bb bytes.Buffer
	if err := tmpl.ExecuteTemplate(&sb, "subject", data); err != nil {
		return "", "", err
	}
	if err := tmpl.ExecuteTemplate(&bb, "body", data); err != nil {
		return "", "", err
	}
	return sb.String(), bb.String(), nil
}

func (c *SMTPClient) Send(templateFile, username, email string, data any) error {
	subject, body, err := render(templateFile, data)
	if err != nil {
		return fmt.Errorf("render %s: %w", templateFile, err)
	}

	m := mail.NewMessage()
	m.SetAddressHeader("From", c.fromEmail, FromName)
	m.SetAddressHeader("To", email, username)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	var lastErr error
	for i := 0; i < maxRetires; i++ {
		if lastErr = c.dialer.DialAndSend(m); lastErr == nil {
			return nil
		}
		// exponential backoff
		time.Sleep(time.Second * time.Duration(i+1))
	}

	return fmt.Errorf("failed to send email after %d attempts, error: %v", maxRetires, lastErr)
}
