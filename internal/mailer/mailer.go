// Package mailer composes and delivers the transactional e-mails the shop
// sends, currently only the password reset link.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"bazar-backend/internal/config"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/rs/zerolog"
)

type sendFunc func(addr string, a sasl.Client, from string, to []string, r io.Reader) error

// SMTPSender delivers plain-text mail through an authenticated SMTP relay.
// smtp.SendMail upgrades the connection with STARTTLS when the server offers it.
type SMTPSender struct {
	addr   string
	from   string
	auth   sasl.Client
	logger zerolog.Logger

	send sendFunc
	now  func() time.Time
}

func NewSMTPSender(cfg *config.Config, logger zerolog.Logger) *SMTPSender {
	return &SMTPSender{
		addr:   net.JoinHostPort(cfg.SMTPHost, strconv.Itoa(cfg.SMTPPort)),
		from:   cfg.EmailFrom,
		auth:   sasl.NewPlainClient("", cfg.EmailUser, cfg.EmailPass),
		logger: logger,
		send:   smtp.SendMail,
		now:    time.Now,
	}
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := s.compose(to, subject, body)
	if err != nil {
		return fmt.Errorf("compose message: %w", err)
	}

	if err := s.send(s.addr, s.auth, s.from, []string{to}, bytes.NewReader(msg)); err != nil {
		return fmt.Errorf("send mail via %s: %w", s.addr, err)
	}

	s.logger.Debug().Str("to", to).Str("subject", subject).Msg("Mail sent")
	return nil
}

func (s *SMTPSender) compose(to, subject, body string) ([]byte, error) {
	var h mail.Header
	h.SetDate(s.now())
	h.SetAddressList("From", []*mail.Address{{Name: "Bazar", Address: s.from}})
	h.SetAddressList("To", []*mail.Address{{Address: to}})
	h.SetSubject(subject)
	if err := h.GenerateMessageID(); err != nil {
		return nil, err
	}
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(w, body); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
