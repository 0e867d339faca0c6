package fetch

import (
	"context"
	"fmt"

	"barman/lib/telemetry"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
)

// ChromeBrowser drives a fresh headless chrome for every page.
type ChromeBrowser struct {
	opts Options
	tel  telemetry.API
}

func NewChromeBrowser(opts Options, tel telemetry.API) ChromeBrowser {
	return ChromeBrowser{opts: opts, tel: tel}
}

func AllocatorOptions(userAgent, chromePath string) []chromedp.ExecAllocatorOption {
	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoDefaultBrowserCheck,
		chromedp.NoFirstRun,
		chromedp.Headless,
		chromedp.DisableGPU,
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("exclude-switches", "enable-automation"),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("password-store", "basic"),
		chromedp.Flag("use-mock-keychain", true),
		chromedp.WindowSize(1920, 1080),
	}
	if userAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(userAgent))
	}
	if chromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(chromePath))
	}
	return allocOpts
}

func (b ChromeBrowser) Render(ctx context.Context, url string) (string, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, AllocatorOptions(b.opts.UserAgent, b.opts.ChromePath)...)
	defer allocCancel()
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	// starts the browser on a context that outlives the navigation bound
	err := chromedp.Run(browserCtx)
	if err != nil {
		return "", fmt.Errorf("start browser: %w", err)
	}

	navCtx, navCancel := context.WithTimeout(browserCtx, b.opts.RenderTimeout)
	defer navCancel()
	err = chromedp.Run(navCtx, chromedp.Navigate(url))
	if err != nil {
		return "", fmt.Errorf("navigate: %w", err)
	}

	var html string
	err = chromedp.Run(browserCtx,
		chromedp.Sleep(b.opts.RenderSettle),
		chromedp.MouseEvent(input.MouseMoved, 200, 300),
		chromedp.KeyEvent(kb.PageDown),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("read page: %w", err)
	}
	b.tel.ReportDebug("rendered page", url, len(html))
	return html, nil
}
