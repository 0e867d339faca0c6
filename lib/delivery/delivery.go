package delivery

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"

	"barman/lib/configutil"
	"barman/lib/fetch"
	"barman/lib/releaseflow"
	"barman/lib/render"
	"barman/lib/scraper"
	"barman/lib/scrapers/jv"
	"barman/lib/scrapers/lemonde"
	"barman/lib/telemetry"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("barman/lib/delivery")

const report_delivery_mail = "delivery.mail"

const GenericFailure = "Command failed. Try again, maybe?"

// UserMessage turns a pipeline error into a short sentence fit for the
// person who asked, internals stay in the logs.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, fetch.ErrTimeout):
		return "The site did not answer in time. Try again later."
	case errors.Is(err, lemonde.ErrInvalidLogin):
		return "The login was refused, check LEMONDE_EMAIL and LEMONDE_PASSWD."
	case errors.Is(err, lemonde.ErrEmptyResult), errors.Is(err, scraper.ErrEmptyResult):
		return "Nothing usable was fetched, try again."
	case errors.Is(err, render.ErrRenderFailure):
		return "The article could not be turned into a PDF."
	case errors.Is(err, jv.ErrInvalidArgument):
		return "Invalid request: check the month, platform and window."
	case errors.Is(err, releaseflow.ErrPlatformRequired):
		return "Choose a platform first."
	case errors.Is(err, releaseflow.ErrBusy):
		return "A listing is already on its way, wait for it."
	}
	return GenericFailure
}

// Document is a rendered file ready to be handed over.
type Document struct {
	Path      string
	SourceURL string
	Warning   string
}

// Sink hands a document to the person who asked for it and says where it
// went.
type Sink interface {
	Deliver(ctx context.Context, doc Document) (string, error)
}

// FileSink leaves the document where the renderer wrote it.
type FileSink struct{}

func (FileSink) Deliver(ctx context.Context, doc Document) (string, error) {
	abs, err := filepath.Abs(doc.Path)
	if err != nil {
		return "", err
	}
	_, err = os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("rendered file: %w", err)
	}
	return abs, nil
}

// MailSink sends the document as an attachment then deletes it.
type MailSink struct {
	config  configutil.MailConfig
	secrets configutil.MailSecrets
	to      []string
	tel     telemetry.API

	send func(mail *email.Email, addr string, auth smtp.Auth) error
}

func NewMailSink(config configutil.MailConfig, secrets configutil.MailSecrets, to []string, tel telemetry.API) MailSink {
	return MailSink{
		config:  config,
		secrets: secrets,
		to:      to,
		tel:     telemetry.NewScopedAPI("delivery", tel),
		send: func(mail *email.Email, addr string, auth smtp.Auth) error {
			return mail.Send(addr, auth)
		},
	}
}

func (s MailSink) Compose(doc Document) (*email.Email, error) {
	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Barman <%s>", s.config.From)
	mail.To = s.to
	mail.Subject = fmt.Sprintf("Article: %s", strings.TrimSuffix(filepath.Base(doc.Path), ".pdf"))

	body := fmt.Sprintf("Here is the article you asked for.\n\n%s\n", doc.SourceURL)
	if doc.Warning != "" {
		body += "\n" + doc.Warning + "\n"
	}
	mail.Text = []byte(body)

	_, err := mail.AttachFile(doc.Path)
	if err != nil {
		return nil, fmt.Errorf("attach %s: %w", doc.Path, err)
	}
	return mail, nil
}

func (s MailSink) Deliver(ctx context.Context, doc Document) (string, error) {
	_, span := tracer.Start(ctx, "MailSink.Deliver")
	defer span.End()

	mail, err := s.Compose(doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to compose email")
		return "", err
	}

	addr := fmt.Sprintf("%s:%d", s.config.Server, s.config.Port)
	user := s.secrets.Username
	if user == "" {
		user = s.config.From
	}
	err = s.send(mail, addr, smtp.PlainAuth("", user, s.secrets.Password, s.config.Server))
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = s.send(mail, addr, nil)
	}
	if err != nil {
		s.tel.ReportBroken(report_delivery_mail, err, addr)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send email")
		return "", err
	}

	err = os.Remove(doc.Path)
	if err != nil {
		s.tel.ReportWarning(report_delivery_mail, "failed to remove sent file", err)
	}
	return strings.Join(s.to, ", "), nil
}
