package browser

import (
	"fmt"
	"io"

	"github.com/playwright-community/playwright-go"
)

// PageHandle is the slice of the Playwright page surface the registry and
// tool catalog actually use. playwright.Page satisfies it directly; tests
// substitute fakes.
type PageHandle interface {
	URL() string
	Goto(url string, options ...playwright.PageGotoOptions) (playwright.Response, error)
	Click(selector string, options ...playwright.PageClickOptions) error
	Fill(selector string, value string, options ...playwright.PageFillOptions) error
	InputValue(selector string, options ...playwright.PageInputValueOptions) (string, error)
	WaitForSelector(selector string, options ...playwright.PageWaitForSelectorOptions) (playwright.ElementHandle, error)
	SetInputFiles(selector string, files interface{}, options ...playwright.PageSetInputFilesOptions) error
	Screenshot(options ...playwright.PageScreenshotOptions) ([]byte, error)
	Mouse() playwright.Mouse
	Content() (string, error)
	Title() (string, error)
	Close(options ...playwright.PageCloseOptions) error
}

var _ PageHandle = (playwright.Page)(nil)

// ContextHandle is an isolated browser context owned by exactly one session.
type ContextHandle interface {
	NewPage() (PageHandle, error)
	Close() error
}

// Launcher provides browser contexts to the session registry. The production
// implementation carves contexts out of a single shared Chromium process;
// tests inject stubs.
type Launcher interface {
	NewContext() (ContextHandle, error)
	Close() error
}

type playwrightLauncher struct {
	pw       *playwright.Playwright
	browser  playwright.Browser
	headless bool
}

// NewPlaywrightLauncher installs (if needed) and starts Playwright, then
// launches one shared Chromium process. Each session receives its own
// isolated context from this process.
func NewPlaywrightLauncher(headless bool) (Launcher, error) {
	// Discard driver output so it cannot interleave with server logs.
	opts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if err := playwright.Install(opts); err != nil {
		return nil, fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: &headless,
	}
	b, err := pw.Chromium.Launch(launchOpts)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	return &playwrightLauncher{pw: pw, browser: b, headless: headless}, nil
}

func (l *playwrightLauncher) NewContext() (ContextHandle, error) {
	ctx, err := l.browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  DefaultViewportWidth,
			Height: DefaultViewportHeight,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create context: %w", err)
	}
	return &playwrightContext{ctx: ctx}, nil
}

func (l *playwrightLauncher) Close() error {
	var errs []error
	if err := l.browser.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := l.pw.Stop(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing playwright: %v", errs)
	}
	return nil
}

// playwrightContext adapts playwright.BrowserContext to ContextHandle so
// NewPage can return the narrow PageHandle type.
type playwrightContext struct {
	ctx playwright.BrowserContext
}

func (c *playwrightContext) NewPage() (PageHandle, error) {
	page, err := c.ctx.NewPage()
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (c *playwrightContext) Close() error {
	return c.ctx.Close()
}
