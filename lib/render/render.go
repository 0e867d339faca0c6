package render

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"barman/lib/telemetry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("barman/lib/render")

const report_render = "render"

// ErrRenderFailure marks a failure of the pdf engine itself, as opposed to
// a network failure upstream.
var ErrRenderFailure = errors.New("render failed")

// Converter turns a complete document into pdf bytes.
type Converter interface {
	Convert(ctx context.Context, document string, opts PageOptions) ([]byte, error)
}

type Renderer struct {
	outputDir string
	converter Converter
	tel       telemetry.API
}

func NewRenderer(outputDir string, converter Converter, tel telemetry.API) Renderer {
	if outputDir == "" {
		outputDir = "."
	}
	return Renderer{
		outputDir: outputDir,
		converter: converter,
		tel:       telemetry.NewScopedAPI("render", tel),
	}
}

// OutputName derives the pdf file name from the last path segment of the
// source url, without its extension.
func OutputName(sourceURL string) string {
	segment := sourceURL
	parsed, err := url.Parse(sourceURL)
	if err == nil {
		segment = parsed.Path
	}
	segment = path.Base(strings.TrimRight(segment, "/"))
	segment = strings.TrimSuffix(segment, path.Ext(segment))
	if segment == "" || segment == "." || segment == "/" {
		segment = "article"
	}
	return segment + ".pdf"
}

// Render prints a sanitized fragment with profile and writes it next to
// the other outputs, returning the file path. Every failure wraps
// ErrRenderFailure, except cancellation which returns the context's error.
func (r Renderer) Render(ctx context.Context, fragment string, profile Profile, sourceURL string) (string, error) {
	ctx, span := tracer.Start(ctx, "Render")
	defer span.End()
	span.SetAttributes(attribute.String("profile", profile.String()))

	document, opts := BuildDocument(fragment, profile)
	pdf, err := r.converter.Convert(ctx, document, opts)
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if err != nil {
		r.tel.ReportWarning(report_render, sourceURL, err)
		return "", fmt.Errorf("%w: %w", ErrRenderFailure, err)
	}

	err = os.MkdirAll(r.outputDir, 0755)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRenderFailure, err)
	}
	out := filepath.Join(r.outputDir, OutputName(sourceURL))
	err = os.WriteFile(out, pdf, 0644)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRenderFailure, err)
	}
	r.tel.ReportDebug("rendered document", out, len(pdf))
	return out, nil
}
