package specdoc

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-specdoc/internal/fileutil"
)

// Paper sizes accepted by PageSetup.
const (
	PaperLetter = "letter"
	PaperA4     = "a4"
)

// paperInches is width and height per paper size.
var paperInches = map[string][2]float64{
	PaperLetter: {8.5, 11},
	PaperA4:     {8.27, 11.69},
}

// Margin bounds in inches.
const (
	defaultMarginInches = 0.5
	maxMarginInches     = 2
)

// footerTemplate is filled in by Chrome: pageNumber and totalPages are
// special class names of its print templates.
const footerTemplate = `<div style="width:100%;font-size:8px;text-align:center;color:#555">` +
	`<span class="pageNumber"></span> / <span class="totalPages"></span></div>`

// PageSetup controls the PDF page layout.
type PageSetup struct {
	Paper        string  // PaperLetter or PaperA4; empty = letter
	MarginInches float64 // Applied to every side; 0 = 0.5
	PageNumbers  bool    // Print "page / total" in the footer
}

func (s PageSetup) withDefaults() PageSetup {
	if s.Paper == "" {
		s.Paper = PaperLetter
	}
	if s.MarginInches == 0 {
		s.MarginInches = defaultMarginInches
	}
	return s
}

// Validate reports an unknown paper size or an out of range margin.
func (s PageSetup) Validate() error {
	s = s.withDefaults()
	if _, ok := paperInches[strings.ToLower(s.Paper)]; !ok {
		return fmt.Errorf("%w: unknown paper %q (must be %s or %s)", ErrInvalidPageSetup, s.Paper, PaperLetter, PaperA4)
	}
	if s.MarginInches < 0 || s.MarginInches > maxMarginInches {
		return fmt.Errorf("%w: margin %.2fin must be between 0 and %din", ErrInvalidPageSetup, s.MarginInches, maxMarginInches)
	}
	return nil
}

// printOptions translates the setup into Chrome print parameters. The setup
// must be valid.
func (s PageSetup) printOptions() *proto.PagePrintToPDF {
	s = s.withDefaults()
	size := paperInches[strings.ToLower(s.Paper)]
	margin := s.MarginInches

	opts := &proto.PagePrintToPDF{
		PaperWidth:      &size[0],
		PaperHeight:     &size[1],
		MarginTop:       &margin,
		MarginBottom:    &margin,
		MarginLeft:      &margin,
		MarginRight:     &margin,
		PrintBackground: true,
	}
	if s.PageNumbers {
		opts.DisplayHeaderFooter = true
		opts.HeaderTemplate = "<span></span>"
		opts.FooterTemplate = footerTemplate
	}
	return opts
}

// PDFConverter renders a complete HTML document to PDF bytes.
type PDFConverter interface {
	ToPDF(ctx context.Context, htmlContent string) ([]byte, error)
	Close() error
}

// pageRenderer loads a URL in a browser and prints it.
type pageRenderer interface {
	Print(ctx context.Context, url string, opts *proto.PagePrintToPDF) ([]byte, error)
	Close() error
}

// Compile-time interface checks.
var (
	_ PDFConverter = (*chromeConverter)(nil)
	_ pageRenderer = (*rodRenderer)(nil)
)

// rodRenderer drives headless Chrome through go-rod. The browser is
// launched on the first Print, so HTML-only builds never start it.
type rodRenderer struct {
	browser *rod.Browser
	timeout time.Duration // Per page load
}

func (r *rodRenderer) connect() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}
	if os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("CI") == "true" {
		l = l.NoSandbox(true)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: launching Chrome: %v", ErrBrowserConnect, err)
	}
	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.browser = browser
	return nil
}

// Print opens url in a new tab, waits for it to load and returns the PDF.
// Cancelling ctx aborts the load and the print.
func (r *rodRenderer) Print(ctx context.Context, url string, opts *proto.PagePrintToPDF) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := r.connect(); err != nil {
		return nil, err
	}

	tab, err := r.browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = tab.Close() }()

	page := tab.Context(ctx).Timeout(r.timeout)
	defer page.CancelTimeout()

	if err := page.WaitLoad(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	stream, err := page.PDF(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return data, nil
}

func (r *rodRenderer) Close() error {
	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	r.browser = nil
	return err
}

// chromeConverter hands the HTML to the renderer through a temp file, so
// relative resources and large documents load like a normal page.
type chromeConverter struct {
	renderer pageRenderer
	page     PageSetup
}

func newChromeConverter(timeout time.Duration, page PageSetup) *chromeConverter {
	return &chromeConverter{
		renderer: &rodRenderer{timeout: timeout},
		page:     page,
	}
}

func (c *chromeConverter) ToPDF(ctx context.Context, htmlContent string) ([]byte, error) {
	path, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return c.renderer.Print(ctx, fileURL(path), c.page.printOptions())
}

// Close shuts the browser down if it was launched.
func (c *chromeConverter) Close() error {
	return c.renderer.Close()
}

// fileURL turns an absolute path into a file:// URL on every platform.
func fileURL(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p // C:/x on Windows
	}
	return "file://" + p
}
