package mailer

import (
	"context"
	"fmt"
	"net/http"
	"net/mail"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

type requestFunc func(ctx context.Context, req rest.Request) (*rest.Response, error)

// SendgridMailer delivers mail through the SendGrid v3 API.
type SendgridMailer struct {
	key    string
	from   *sgmail.Email
	do     requestFunc
	logger *zap.Logger
}

// NewSendgridMailer constructs a SendGrid backed mailer.
func NewSendgridMailer(apiKey string, from mail.Address, logger *zap.Logger) *SendgridMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SendgridMailer{
		key:    apiKey,
		from:   sgmail.NewEmail(from.Name, from.Address),
		do:     sendgrid.MakeRequestWithContext,
		logger: logger,
	}
}

// Send posts the message and treats any 4xx/5xx status as a failure.
func (m *SendgridMailer) Send(ctx context.Context, msg Message) error {
	if msg.To.Address == "" {
		return fmt.Errorf("recipient address required")
	}
	req := sendgrid.GetRequest(m.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m.prepare(msg))

	res, err := m.do(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid status %d: %s", res.StatusCode, res.Body)
	}
	m.logger.Debug("email sent", zap.String("to", msg.To.Address), zap.Int("status", res.StatusCode))
	return nil
}

func (m *SendgridMailer) prepare(msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	p.AddTos(sgmail.NewEmail(msg.To.Name, msg.To.Address))

	v3 := sgmail.NewV3Mail()
	v3.SetFrom(m.from)
	v3.AddPersonalizations(p)
	if msg.Text != "" {
		v3.AddContent(sgmail.NewContent("text/plain", msg.Text))
	}
	if msg.HTML != "" {
		v3.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}
	return v3
}
