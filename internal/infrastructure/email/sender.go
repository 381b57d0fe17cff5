package email

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"net/url"

	"coursestream/internal/infrastructure/logger"

	"github.com/pkg/errors"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	defaultHost = "https://api.sendgrid.com"
	endpoint    = "/v3/mail/send"
	senderName  = "CourseStream Support"
)

// Sender delivers transactional email.
type Sender interface {
	SendPasswordReset(ctx context.Context, toEmail, toName, token string) error
}

func resetLink(frontend, token string) string {
	return fmt.Sprintf("%s/reset-password?token=%s", frontend, url.QueryEscape(token))
}

type SendGridSender struct {
	key      string
	host     string
	from     *sgmail.Email
	frontend string
}

func NewSendGridSender(apiKey, senderEmail, frontend string) *SendGridSender {
	return &SendGridSender{
		key:      apiKey,
		host:     defaultHost,
		from:     sgmail.NewEmail(senderName, senderEmail),
		frontend: frontend,
	}
}

// WithHost points the sender at another API host.
func (s *SendGridSender) WithHost(host string) *SendGridSender {
	s.host = host
	return s
}

func (s *SendGridSender) SendPasswordReset(_ context.Context, toEmail, toName, token string) error {
	link := resetLink(s.frontend, token)
	text := fmt.Sprintf("Hi %s,\n\nUse this link to choose a new password: %s\n\nThe link expires in 24 hours. If you did not ask for it, ignore this email.", toName, link)
	body := fmt.Sprintf(`<p>Hi %s,</p><p><a href="%s">Choose a new password</a></p><p>The link expires in 24 hours. If you did not ask for it, ignore this email.</p>`,
		html.EscapeString(toName), html.EscapeString(link))

	m := sgmail.NewSingleEmail(s.from, "Password recovery", sgmail.NewEmail(toName, toEmail), text, body)

	req := sendgrid.GetRequest(s.key, endpoint, s.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	res, err := sendgrid.API(req)
	if err != nil {
		return errors.Wrap(err, "sendgrid request")
	}
	if res.StatusCode >= http.StatusBadRequest {
		return errors.Errorf("sendgrid error: status=%d body=%s", res.StatusCode, res.Body)
	}
	return nil
}

// ConsoleSender logs the reset link instead of sending it. Used when no
// SendGrid key is configured.
type ConsoleSender struct {
	log      *logger.Logger
	frontend string
}

func NewConsoleSender(log *logger.Logger, frontend string) *ConsoleSender {
	return &ConsoleSender{log: log, frontend: frontend}
}

func (s *ConsoleSender) SendPasswordReset(_ context.Context, toEmail, _ string, token string) error {
	s.log.Info("password reset email", "to", toEmail, "link", resetLink(s.frontend, token))
	return nil
}
