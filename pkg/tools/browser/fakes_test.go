package browser

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/autopilot/pkg/browser"
)

// Test doubles mirroring the engine's handle interfaces. The stub page
// embeds playwright.Page so only the touched methods need implementations.

type stubLauncher struct {
	mu       sync.Mutex
	contexts []*stubContext
}

func (l *stubLauncher) NewContext() (browser.ContextHandle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ctx := &stubContext{}
	l.contexts = append(l.contexts, ctx)
	return ctx, nil
}

func (l *stubLauncher) Close() error { return nil }

type stubContext struct {
	mu    sync.Mutex
	pages []*stubPage
}

func (c *stubContext) NewPage() (browser.PageHandle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	page := &stubPage{
		url:    "about:blank",
		markup: "<html><body><h1>Careers</h1></body></html>",
		values: make(map[string]string),
	}
	c.pages = append(c.pages, page)
	return page, nil
}

func (c *stubContext) Close() error { return nil }

type stubPage struct {
	playwright.Page

	mu      sync.Mutex
	url     string
	title   string
	markup  string
	values  map[string]string
	waitErr error
	mouse   stubMouse
}

func (p *stubPage) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

func (p *stubPage) Goto(url string, options ...playwright.PageGotoOptions) (playwright.Response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.url = url
	return nil, nil
}

func (p *stubPage) Click(selector string, options ...playwright.PageClickOptions) error {
	return nil
}

func (p *stubPage) Fill(selector, value string, options ...playwright.PageFillOptions) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[selector] = value
	return nil
}

func (p *stubPage) InputValue(selector string, options ...playwright.PageInputValueOptions) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	value, ok := p.values[selector]
	if !ok {
		return "", errors.New("no such input")
	}
	return value, nil
}

func (p *stubPage) WaitForSelector(selector string, options ...playwright.PageWaitForSelectorOptions) (playwright.ElementHandle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.waitErr != nil {
		return nil, p.waitErr
	}
	return nil, nil
}

func (p *stubPage) SetInputFiles(selector string, files interface{}, options ...playwright.PageSetInputFilesOptions) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	inputs, ok := files.([]playwright.InputFile)
	if !ok || len(inputs) == 0 {
		return errors.New("unexpected files payload")
	}
	p.values[selector] = inputs[0].Name
	return nil
}

func (p *stubPage) Screenshot(options ...playwright.PageScreenshotOptions) ([]byte, error) {
	return []byte("png-bytes"), nil
}

func (p *stubPage) Mouse() playwright.Mouse { return &p.mouse }

func (p *stubPage) Content() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.markup, nil
}

func (p *stubPage) Title() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.title, nil
}

func (p *stubPage) Close(options ...playwright.PageCloseOptions) error { return nil }

type stubMouse struct {
	playwright.Mouse
}

func (m *stubMouse) Click(x, y float64, options ...playwright.MouseClickOptions) error {
	return nil
}

// memStore records Put calls and returns deterministic references.
type memStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
	err   error
}

func newMemStore() *memStore {
	return &memStore{blobs: make(map[string][]byte)}
}

func (s *memStore) Put(ctx context.Context, key string, r io.Reader) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.blobs[key] = data
	return "mem://" + key, nil
}

func (s *memStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

func (s *memStore) Delete(ctx context.Context, key string) error { return nil }
