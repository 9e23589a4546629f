package report

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"sentiment-dashboard/utils"
)

// PDFExporter prints HTML reports to PDF with headless Chrome.
type PDFExporter struct {
	chromeBin string
	timeout   time.Duration
	retry     *utils.RetryConfig
	logger    *utils.Logger
}

// NewPDFExporter creates a PDFExporter. An empty chromeBin means the
// browser is looked up on PATH and in the usual install locations.
func NewPDFExporter(chromeBin string, maxRetries int, logger *utils.Logger) *PDFExporter {
	return &PDFExporter{
		chromeBin: chromeBin,
		timeout:   60 * time.Second,
		retry:     utils.NewRetryConfig(maxRetries, 2*time.Second, logger),
		logger:    logger,
	}
}

// Export renders html into a PDF at outPath.
func (e *PDFExporter) Export(ctx context.Context, html []byte, outPath string) error {
	tmp, err := os.CreateTemp("", "sentiment-report-*.html")
	if err != nil {
		return fmt.Errorf("pdf: temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(html); err != nil {
		tmp.Close()
		return fmt.Errorf("pdf: write temp html: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("pdf: close temp html: %w", err)
	}

	chromeBin := findChromeBinary(e.chromeBin)
	e.logger.Info("[pdf] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	var pdf []byte
	err = e.retry.Do("print-pdf", func() error {
		browserCtx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
		defer cancel()

		browserCtx, cancelTimeout := context.WithTimeout(browserCtx, e.timeout)
		defer cancelTimeout()

		return chromedp.Run(browserCtx,
			chromedp.Navigate("file://"+tmp.Name()),
			chromedp.WaitReady("body"),
			chromedp.ActionFunc(func(ctx context.Context) error {
				data, _, err := page.PrintToPDF().
					WithPrintBackground(true).
					WithPreferCSSPageSize(true).
					Do(ctx)
				if err != nil {
					return err
				}
				pdf = data
				return nil
			}),
		)
	})
	if err != nil {
		return fmt.Errorf("pdf: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fmt.Errorf("pdf: create output dir: %w", err)
	}
	if err := os.WriteFile(outPath, pdf, 0644); err != nil {
		return fmt.Errorf("pdf: write %q: %w", outPath, err)
	}
	e.logger.Info("[pdf] wrote %s (%d bytes)", outPath, len(pdf))
	return nil
}

// findChromeBinary locates Chrome/Chromium. A configured path wins.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
