package browser

import (
	"errors"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Test doubles for the launcher, context, and page handles. The fake page
// embeds the playwright.Page interface so only the methods the registry
// actually touches need real implementations.

type fakeLauncher struct {
	mu        sync.Mutex
	contexts  []*fakeContext
	launchErr error
	closed    bool
}

func (l *fakeLauncher) NewContext() (ContextHandle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.launchErr != nil {
		return nil, l.launchErr
	}
	ctx := &fakeContext{}
	l.contexts = append(l.contexts, ctx)
	return ctx, nil
}

func (l *fakeLauncher) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

type fakeContext struct {
	mu       sync.Mutex
	pages    []*fakePage
	closed   bool
	closeErr error
}

func (c *fakeContext) NewPage() (PageHandle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	page := &fakePage{url: "about:blank", values: make(map[string]string)}
	c.pages = append(c.pages, page)
	return page, nil
}

func (c *fakeContext) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return c.closeErr
}

func (c *fakeContext) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

type fakePage struct {
	playwright.Page

	mu        sync.Mutex
	url       string
	title     string
	markup    string
	values    map[string]string
	gotoCalls int
	gotoDelay time.Duration
	gotoErr   error
	clickErr  error
	clicks    []string
	waitErr   error
	closed    bool
	closeErr  error

	// normalize rewrites filled values before readback, emulating
	// widgets that transform input.
	normalize func(string) string

	mouse fakeMouse
}

func (p *fakePage) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

func (p *fakePage) Goto(url string, options ...playwright.PageGotoOptions) (playwright.Response, error) {
	p.mu.Lock()
	p.gotoCalls++
	delay := p.gotoDelay
	err := p.gotoErr
	p.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.url = url
	p.mu.Unlock()
	return nil, nil
}

func (p *fakePage) Click(selector string, options ...playwright.PageClickOptions) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.clickErr != nil {
		return p.clickErr
	}
	p.clicks = append(p.clicks, selector)
	return nil
}

func (p *fakePage) Fill(selector, value string, options ...playwright.PageFillOptions) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.normalize != nil {
		value = p.normalize(value)
	}
	p.values[selector] = value
	return nil
}

func (p *fakePage) InputValue(selector string, options ...playwright.PageInputValueOptions) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	value, ok := p.values[selector]
	if !ok {
		return "", errors.New("no such input")
	}
	return value, nil
}

func (p *fakePage) WaitForSelector(selector string, options ...playwright.PageWaitForSelectorOptions) (playwright.ElementHandle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.waitErr != nil {
		return nil, p.waitErr
	}
	return nil, nil
}

func (p *fakePage) SetInputFiles(selector string, files interface{}, options ...playwright.PageSetInputFilesOptions) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	inputs, ok := files.([]playwright.InputFile)
	if !ok || len(inputs) == 0 {
		return errors.New("unexpected files payload")
	}
	p.values[selector] = inputs[0].Name
	return nil
}

func (p *fakePage) Screenshot(options ...playwright.PageScreenshotOptions) ([]byte, error) {
	return []byte("png-bytes"), nil
}

func (p *fakePage) Mouse() playwright.Mouse {
	return &p.mouse
}

func (p *fakePage) Content() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.markup, nil
}

func (p *fakePage) Title() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.title, nil
}

func (p *fakePage) Close(options ...playwright.PageCloseOptions) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return p.closeErr
}

type fakeMouse struct {
	playwright.Mouse

	mu     sync.Mutex
	clicks []Position
}

func (m *fakeMouse) Click(x, y float64, options ...playwright.MouseClickOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clicks = append(m.clicks, Position{X: x, Y: y})
	return nil
}

// newTestManager returns a registry backed by fakes.
func newTestManager(opts ...Option) (*Manager, *fakeLauncher) {
	launcher := &fakeLauncher{}
	return NewManager(launcher, opts...), launcher
}
