package htmlpdf

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// PDFRenderer converts a self-contained HTML document to PDF bytes.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, htmlContent string) ([]byte, error)
}

// ChromeRenderer prints HTML to PDF through a headless Chromium instance.
// The browser is launched once at construction and shared across calls;
// each render gets its own page.
type ChromeRenderer struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	logger   *zap.Logger
	mu       sync.Mutex
	closed   bool
}

// NewChromeRenderer launches Chromium. browserPath overrides the binary
// location; empty means the launcher resolves one itself.
func NewChromeRenderer(logger *zap.Logger, browserPath string) (*ChromeRenderer, error) {
	l := launcher.New().Headless(true).NoSandbox(true)
	if browserPath != "" {
		l = l.Bin(browserPath)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch headless browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect to browser: %w", err)
	}

	return &ChromeRenderer{
		browser:  browser,
		launcher: l,
		logger:   logger,
	}, nil
}

func (r *ChromeRenderer) RenderPDF(ctx context.Context, htmlContent string) ([]byte, error) {
	page, err := r.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer page.Close()

	if err := page.SetDocumentContent(htmlContent); err != nil {
		return nil, fmt.Errorf("set document content: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait for document load: %w", err)
	}

	stream, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground:   true,
		PreferCSSPageSize: true,
	})
	if err != nil {
		return nil, fmt.Errorf("print to pdf: %w", err)
	}

	pdfBytes, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("read pdf stream: %w", err)
	}

	r.logger.Debug("rendered html to pdf", zap.Int("bytes", len(pdfBytes)))
	return pdfBytes, nil
}

// Close shuts down the shared browser. The renderer is unusable afterwards.
func (r *ChromeRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true

	err := r.browser.Close()
	r.launcher.Kill()
	return err
}
