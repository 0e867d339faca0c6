package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http/cookiejar"
	"time"

	"barman/lib/configutil"
	"barman/lib/restyutil"
	"barman/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("barman/lib/fetch")

const (
	report_fetch_static = "fetch.static"
	report_fetch_render = "fetch.render"
)

var (
	// ErrTimeout is returned when a page did not answer within its bound,
	// it is the only fetch error worth retrying.
	ErrTimeout = errors.New("fetch timed out")
	ErrStatus  = errors.New("unexpected response status")
)

// IsTimeout reports whether err is a timeout of any layer, the fetcher's own
// bound, a context deadline or a network timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}

type Options struct {
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64
	RenderSettle      time.Duration
	RenderTimeout     time.Duration
	ChromePath        string
	DumpDir           string
}

func OptionsFromConfig(cfg configutil.FetchConfig) Options {
	return Options{
		UserAgent:         cfg.UserAgent,
		Timeout:           configutil.Seconds(cfg.TimeoutSeconds),
		RequestsPerSecond: cfg.RequestsPerSecond,
		RenderSettle:      configutil.Seconds(cfg.RenderSettleSeconds),
		RenderTimeout:     configutil.Seconds(cfg.RenderTimeoutSeconds),
		ChromePath:        cfg.ChromePath,
		DumpDir:           cfg.DebugDumpDir,
	}
}

// Browser loads a page with script execution and returns the resulting
// markup. An empty result with a nil error means "no result".
type Browser interface {
	Render(ctx context.Context, url string) (string, error)
}

// Client retrieves raw markup for a url. It holds no state between calls
// besides its cookie jar and rate limiter.
type Client struct {
	http    *resty.Client
	browser Browser
	tel     telemetry.API
}

// NewRestyClient builds the http client shared by every static fetch: a
// cookie jar, the cloudflare transport, a fixed user agent, a per request
// timeout and a rate limiter.
func NewRestyClient(opts Options, name string, tel telemetry.API) (*resty.Client, error) {
	httpClient := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	httpClient.SetCookieJar(jar)
	httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	httpClient.SetHeader("user-agent", opts.UserAgent)
	httpClient.SetTimeout(opts.Timeout)

	limit := rate.Inf
	burst := 1
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
		burst = max(1, int(opts.RequestsPerSecond))
	}
	rateLimiter := rate.NewLimiter(limit, burst)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(httpClient, "barman/"+name, tel)
	if opts.DumpDir != "" {
		out, err := restyutil.NewFilesystemOutput(opts.DumpDir)
		if err != nil {
			return nil, err
		}
		out.Dump(httpClient, name)
	}
	return httpClient, nil
}

func NewClient(opts Options, tel telemetry.API) (*Client, error) {
	tel = telemetry.NewScopedAPI("fetch", tel)
	httpClient, err := NewRestyClient(opts, "fetch", tel)
	if err != nil {
		return nil, err
	}
	return &Client{
		http:    httpClient,
		browser: NewChromeBrowser(opts, tel),
		tel:     tel,
	}, nil
}

// WithBrowser replaces the browser used for render-mode fetches.
func (c *Client) WithBrowser(b Browser) *Client {
	c.browser = b
	return c
}

// Fetch returns the markup of url, executing scripts first when renderJS is
// set. It never retries.
func (c *Client) Fetch(ctx context.Context, url string, renderJS bool) (string, error) {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()
	span.SetAttributes(
		attribute.String("url", url),
		attribute.Bool("render_js", renderJS),
	)

	var markup string
	var err error
	if renderJS {
		markup, err = c.render(ctx, url)
	} else {
		markup, err = c.static(ctx, url)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	span.SetAttributes(attribute.Int("markup_len", len(markup)))
	return markup, nil
}

func (c *Client) static(ctx context.Context, url string) (string, error) {
	markup, err := Get(ctx, c.http, url)
	if errors.Is(err, ErrStatus) {
		c.tel.ReportBroken(report_fetch_static, url, err)
	}
	return markup, err
}

// Get issues a GET with client and returns the body decoded to utf-8.
// Timeouts match ErrTimeout and non 2xx answers match ErrStatus.
func Get(ctx context.Context, client *resty.Client, url string) (string, error) {
	res, err := client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return "", ClassifyError("get "+url, err)
	}
	if res.IsError() {
		return "", fmt.Errorf("get %s: %w: %s", url, ErrStatus, res.Status())
	}
	return DecodeBody(res)
}

// ClassifyError wraps err with ErrTimeout when it is a timeout.
func ClassifyError(op string, err error) error {
	if IsTimeout(err) {
		return fmt.Errorf("%s: %w: %w", op, ErrTimeout, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// DecodeBody converts a response body to utf-8 according to its
// content-type header and any meta charset tag.
func DecodeBody(res *resty.Response) (string, error) {
	reader, err := charset.NewReader(bytes.NewReader(res.Body()), res.Header().Get("content-type"))
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", res.Request.URL, err)
	}
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", res.Request.URL, err)
	}
	return string(decoded), nil
}

func (c *Client) render(ctx context.Context, url string) (string, error) {
	markup, err := c.browser.Render(ctx, url)
	if err != nil {
		if IsTimeout(err) && ctx.Err() == nil {
			return "", fmt.Errorf("render %s: %w: %w", url, ErrTimeout, err)
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		c.tel.ReportWarning(report_fetch_render, url, err)
		return "", nil
	}
	return markup, nil
}
