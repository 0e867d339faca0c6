package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ChromeConverter prints documents to pdf with a headless chrome.
type ChromeConverter struct {
	ChromePath string
	Timeout    time.Duration
}

func (c ChromeConverter) allocatorOptions(opts PageOptions) []chromedp.ExecAllocatorOption {
	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
	)
	if opts.LocalFileAccess {
		allocOpts = append(allocOpts, chromedp.Flag("allow-file-access-from-files", true))
	}
	if c.ChromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(c.ChromePath))
	}
	return allocOpts
}

func (c ChromeConverter) Convert(ctx context.Context, document string, opts PageOptions) ([]byte, error) {
	dir, err := os.MkdirTemp("", "barman-render-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	source := filepath.Join(dir, "document.html")
	err = os.WriteFile(source, []byte(document), 0600)
	if err != nil {
		return nil, err
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, c.allocatorOptions(opts)...)
	defer allocCancel()
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	margin := opts.MarginInches()
	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+source),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPaperWidth(opts.PaperWidth).
				WithPaperHeight(opts.PaperHeight).
				WithMarginTop(margin).
				WithMarginBottom(margin).
				WithMarginLeft(margin).
				WithMarginRight(margin).
				WithPrintBackground(true).
				WithGenerateDocumentOutline(opts.Outline).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = data
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("print to pdf: %w", err)
	}
	return pdf, nil
}
