package lemonde

import (
	"context"
	"errors"

	"barman/lib/configutil"
	"barman/lib/fetch"
	"barman/lib/render"
	"barman/lib/retry"
	"barman/lib/telemetry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("barman/lib/scrapers/lemonde")

const report_download = "download"

// IncompleteWarning accompanies documents rendered without their embedded
// media.
const IncompleteWarning = "Article contained multimedia that was removed; it is probably incomplete."

// Renderer is implemented by render.Renderer.
type Renderer interface {
	Render(ctx context.Context, fragment string, profile render.Profile, sourceURL string) (string, error)
}

// Result is a rendered article on disk.
type Result struct {
	Path string
	// Warning is set when the document is known to be degraded.
	Warning string
}

// Client downloads articles into pdf documents.
type Client struct {
	cfg        configutil.Config
	creds      configutil.Credentials
	policy     retry.Policy
	sanitizer  Sanitizer
	renderer   Renderer
	newSession func() (*Session, error)
	tel        telemetry.API
}

func NewClient(cfg configutil.Config, creds configutil.Credentials, renderer Renderer, tel telemetry.API) Client {
	tel = telemetry.NewScopedAPI("lemonde", tel)
	return Client{
		cfg:       cfg,
		creds:     creds,
		policy:    retry.PolicyFromConfig(cfg.Retry),
		sanitizer: NewSanitizer(cfg.Lemonde, tel),
		renderer:  renderer,
		newSession: func() (*Session, error) {
			return NewSession(cfg, tel)
		},
		tel: tel,
	}
}

// WithPolicy replaces the retry policy.
func (c Client) WithPolicy(policy retry.Policy) Client {
	c.policy = policy
	return c
}

// fetchArticle logs in with a fresh session and fetches url, the session is
// released before returning whatever happened.
func (c Client) fetchArticle(ctx context.Context, url string) (string, error) {
	session, err := c.newSession()
	if err != nil {
		return "", err
	}
	defer session.Close()

	err = session.Login(ctx, c.creds)
	if err != nil {
		return "", err
	}
	return session.Fetch(ctx, url)
}

// Fetch retrieves url while authenticated, retrying the whole login and
// fetch sequence on timeouts. notify is told about every retry.
func (c Client) Fetch(ctx context.Context, url string, profile render.Profile, notify func(retry.Notice)) (Article, error) {
	markup, err := retry.Do(ctx, c.policy, fetch.IsTimeout, notify, func(ctx context.Context) (string, error) {
		return c.fetchArticle(ctx, url)
	})
	if err != nil {
		return Article{}, err
	}
	return Article{Markup: markup, Profile: profile}, nil
}

// Download fetches, sanitizes and renders the article at url. When the
// renderer fails, embedded media is stripped and rendering is tried once
// more, the result then carries IncompleteWarning.
func (c Client) Download(ctx context.Context, url string, profile render.Profile, notify func(retry.Notice)) (Result, error) {
	ctx, span := tracer.Start(ctx, "Download")
	defer span.End()
	span.SetAttributes(
		attribute.String("url", url),
		attribute.String("profile", profile.String()),
	)

	article, err := c.Fetch(ctx, url, profile, notify)
	if err != nil {
		c.tel.ReportWarning(report_download, url, err)
		return Result{}, err
	}

	content, err := ExtractContent(article.Markup, c.cfg.Lemonde.ArticleSelector, url)
	if err != nil {
		c.tel.ReportWarning(report_download, url, err)
		return Result{}, err
	}
	sanitized, err := c.sanitizer.Sanitize(content)
	if err != nil {
		return Result{}, err
	}

	path, err := c.renderer.Render(ctx, sanitized, article.Profile, url)
	if err == nil {
		return Result{Path: path}, nil
	}
	if !errors.Is(err, render.ErrRenderFailure) {
		return Result{}, err
	}

	c.tel.ReportWarning(report_download, "render failed, stripping embedded media", err)
	stripped, err := c.sanitizer.Strip(sanitized, c.cfg.Lemonde.FallbackSelectors...)
	if err != nil {
		return Result{}, err
	}
	path, err = c.renderer.Render(ctx, stripped, article.Profile, url)
	if err != nil {
		return Result{}, err
	}
	return Result{Path: path, Warning: IncompleteWarning}, nil
}
