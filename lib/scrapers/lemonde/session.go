package lemonde

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/url"
	"strings"
	"time"

	"barman/lib/configutil"
	"barman/lib/fetch"
	"barman/lib/telemetry"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const (
	report_session_login = "session.login"
	report_session_fetch = "session.fetch"
)

// ErrInvalidLogin means the site refused the credentials, retrying cannot
// help.
var ErrInvalidLogin = errors.New("invalid login")

// Session is one authenticated browsing session. It must be closed by its
// creator on every path, successful or not.
type Session struct {
	http     *resty.Client
	loginURL *url.URL
	pacing   [2]time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
	tel      telemetry.API
}

func NewSession(cfg configutil.Config, tel telemetry.API) (*Session, error) {
	tel = telemetry.NewScopedAPI("lemonde", tel)

	loginURL, err := url.Parse(cfg.Lemonde.LoginURL)
	if err != nil {
		return nil, fmt.Errorf("parse login url: %w", err)
	}
	httpClient, err := fetch.NewRestyClient(fetch.OptionsFromConfig(cfg.Fetch), "lemonde", tel)
	if err != nil {
		return nil, err
	}

	return &Session{
		http:     httpClient,
		loginURL: loginURL,
		pacing: [2]time.Duration{
			configutil.Seconds(cfg.Lemonde.PacingSeconds[0]),
			configutil.Seconds(cfg.Lemonde.PacingSeconds[1]),
		},
		sleep: sleepContext,
		tel:   tel,
	}, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// loginForm collects the login form's fields verbatim, so hidden tokens are
// posted back untouched, and resolves where the form posts to.
func (s *Session) loginForm(markup string) (map[string]string, string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBufferString(markup))
	if err != nil {
		return nil, "", err
	}
	form := doc.Find(`form[method="post"], form[method="POST"]`).First()
	if form.Length() == 0 {
		form = doc.Find("form").First()
	}
	if form.Length() == 0 {
		return nil, "", fmt.Errorf("%w: login page has no form", ErrInvalidLogin)
	}

	payload := map[string]string{}
	form.Find("input").Each(func(_ int, input *goquery.Selection) {
		name, hasName := input.Attr("name")
		value, hasValue := input.Attr("value")
		if hasName && hasValue {
			payload[name] = value
		}
	})

	target := s.loginURL.String()
	action, _ := form.Attr("action")
	if strings.TrimSpace(action) != "" {
		resolved, err := s.loginURL.Parse(strings.TrimSpace(action))
		if err == nil {
			target = resolved.String()
		}
	}
	return payload, target, nil
}

// Login signs in with creds then waits a short random delay before the
// session may be used.
func (s *Session) Login(ctx context.Context, creds configutil.Credentials) error {
	page, err := fetch.Get(ctx, s.http, s.loginURL.String())
	if err != nil {
		return err
	}
	payload, target, err := s.loginForm(page)
	if err != nil {
		s.tel.ReportBroken(report_session_login, err)
		return err
	}
	payload["email"] = creds.Email
	payload["password"] = creds.Password

	res, err := s.http.R().
		SetContext(ctx).
		SetFormData(payload).
		Post(target)
	if err != nil {
		return fetch.ClassifyError("post login", err)
	}
	body, err := fetch.DecodeBody(res)
	if err != nil {
		return err
	}
	if res.StatusCode() != 200 || !strings.Contains(body, creds.Email) {
		s.tel.ReportWarning(report_session_login, res.Status())
		return ErrInvalidLogin
	}
	s.tel.ReportDebug("login was ok")

	pause := s.pacing[0]
	if s.pacing[1] > s.pacing[0] {
		pause += time.Duration(rand.Int64N(int64(s.pacing[1] - s.pacing[0])))
	}
	return s.sleep(ctx, pause)
}

// Fetch retrieves a page with the session's cookies.
func (s *Session) Fetch(ctx context.Context, target string) (string, error) {
	markup, err := fetch.Get(ctx, s.http, target)
	if err != nil {
		if !fetch.IsTimeout(err) {
			s.tel.ReportBroken(report_session_fetch, target, err)
		}
		return "", err
	}
	return markup, nil
}

func (s *Session) Close() {
	s.http.GetClient().CloseIdleConnections()
}
