package browser

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Session owns one isolated browser context and the pages inside it.
// Pages are created lazily and multiplexed by page id; operations that
// arrive without a page id share the implicit DefaultPageID page.
// Pages are never shared across sessions.
type Session struct {
	// ID is the opaque registry token for this session.
	ID string

	// CreatedAt is the timestamp when the session was created.
	CreatedAt time.Time

	ctx        ContextHandle
	navTimeout time.Duration

	mu     sync.Mutex
	pages  map[string]PageHandle
	closed bool
}

func newSession(id string, ctx ContextHandle, navTimeout time.Duration) *Session {
	return &Session{
		ID:         id,
		CreatedAt:  time.Now(),
		ctx:        ctx,
		navTimeout: navTimeout,
		pages:      make(map[string]PageHandle),
	}
}

// Page returns the page for pageID, creating it lazily. An empty pageID
// addresses the session's implicit page.
func (s *Session) Page(pageID string) (PageHandle, error) {
	if pageID == "" {
		pageID = DefaultPageID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		// Guards operations that lost a race against Destroy.
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, s.ID)
	}

	if page, ok := s.pages[pageID]; ok {
		return page, nil
	}

	page, err := s.ctx.NewPage()
	if err != nil {
		return nil, &InfrastructureError{Op: "new page", Err: err}
	}
	s.pages[pageID] = page
	return page, nil
}

// PageCount returns the number of live pages in this session.
func (s *Session) PageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pages)
}

// Navigate drives the page to url. If the page is already at url it returns
// immediately without re-navigating. Otherwise the navigation is raced
// against the session's deadline with a network-mostly-idle readiness
// signal; whichever resolves first wins, and a timeout simply yields the
// state the page reached.
func (s *Session) Navigate(pageID, url string) (*NavigationResult, error) {
	page, err := s.Page(pageID)
	if err != nil {
		return nil, err
	}

	if page.URL() == url {
		title, _ := page.Title()
		return &NavigationResult{URL: url, Title: title, AlreadyThere: true}, nil
	}

	// Inner timeout is deliberately looser than the race deadline; the race
	// decides, the driver option only keeps the abandoned branch finite.
	inner := float64((2 * s.navTimeout).Milliseconds())

	timedOut, err := raceDeadline(s.navTimeout, func() error {
		_, gotoErr := page.Goto(url, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateNetworkidle,
			Timeout:   &inner,
		})
		return gotoErr
	})
	if err != nil {
		return nil, fmt.Errorf("navigation failed: %w", err)
	}

	title, _ := page.Title()
	return &NavigationResult{URL: page.URL(), Title: title, TimedOut: timedOut}, nil
}

// Click clicks a target located by exactly one strategy. A click that
// triggers navigation is raced against the same deadline policy as Navigate.
func (s *Session) Click(pageID string, target ClickTarget) (*ClickResult, error) {
	if err := validateClickTarget(target); err != nil {
		return nil, err
	}

	page, err := s.Page(pageID)
	if err != nil {
		return nil, err
	}

	var timedOut bool
	if target.Position != nil {
		timedOut, err = s.clickAt(page, *target.Position)
	} else {
		selector := target.Selector
		if target.XPath != "" {
			selector = "xpath=" + target.XPath
		}
		timeout := float64(s.navTimeout.Milliseconds())
		timedOut, err = raceDeadline(s.navTimeout, func() error {
			return page.Click(selector, playwright.PageClickOptions{Timeout: &timeout})
		})
	}
	if err != nil {
		return nil, fmt.Errorf("click failed: %w", err)
	}

	return &ClickResult{URL: page.URL(), TimedOut: timedOut}, nil
}

// clickAt performs a coordinate click with a small randomized offset and
// delay so repeated automated clicks do not land pixel-identical.
func (s *Session) clickAt(page PageHandle, pos Position) (bool, error) {
	x := pos.X + rand.Float64()*6 - 3
	y := pos.Y + rand.Float64()*6 - 3
	time.Sleep(time.Duration(50+rand.Intn(100)) * time.Millisecond)

	return raceDeadline(s.navTimeout, func() error {
		return page.Mouse().Click(x, y)
	})
}

func validateClickTarget(target ClickTarget) error {
	strategies := 0
	if target.Selector != "" {
		strategies++
	}
	if target.XPath != "" {
		strategies++
	}
	if target.Position != nil {
		strategies++
	}
	if strategies != 1 {
		return fmt.Errorf("exactly one of selector, xpath, or coordinates must be given, got %d", strategies)
	}
	return nil
}

// Fill writes value into the input matched by selector, then reads the
// field back. A readback that differs from what was written is reported as
// a mismatch warning, not a failure.
func (s *Session) Fill(pageID, selector, value string) (*FillResult, error) {
	page, err := s.Page(pageID)
	if err != nil {
		return nil, err
	}

	if err := page.Fill(selector, value); err != nil {
		return nil, fmt.Errorf("fill failed: %w", err)
	}

	result := &FillResult{Selector: selector, Value: value}
	readback, err := page.InputValue(selector)
	if err != nil {
		// Readback is best effort; the write itself succeeded.
		return result, nil
	}

	result.Readback = readback
	result.Mismatch = readback != value
	return result, nil
}

// ReadValue returns the current value of the input matched by selector.
func (s *Session) ReadValue(pageID, selector string) (string, error) {
	page, err := s.Page(pageID)
	if err != nil {
		return "", err
	}

	value, err := page.InputValue(selector)
	if err != nil {
		return "", fmt.Errorf("read value failed: %w", err)
	}
	return value, nil
}

// Upload waits for the file input matched by selector to exist, then sets
// its files to the content at filePath.
func (s *Session) Upload(pageID, selector, filePath string) error {
	page, err := s.Page(pageID)
	if err != nil {
		return err
	}

	timeout := float64(s.navTimeout.Milliseconds())
	if _, err := page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: &timeout,
	}); err != nil {
		return fmt.Errorf("%w: %s", ErrElementNotFound, selector)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read upload file: %w", err)
	}

	file := playwright.InputFile{
		Name:   filepath.Base(filePath),
		Buffer: data,
	}
	if err := page.SetInputFiles(selector, []playwright.InputFile{file}); err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	return nil
}

// Screenshot captures a full-page image of the given page.
func (s *Session) Screenshot(pageID string) ([]byte, error) {
	page, err := s.Page(pageID)
	if err != nil {
		return nil, err
	}

	fullPage := true
	data, err := page.Screenshot(playwright.PageScreenshotOptions{FullPage: &fullPage})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return data, nil
}

// Content returns the page's current markup.
func (s *Session) Content(pageID string) (string, error) {
	page, err := s.Page(pageID)
	if err != nil {
		return "", err
	}

	content, err := page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to read page content: %w", err)
	}
	return content, nil
}

// CurrentURL returns the page's current URL without navigating.
func (s *Session) CurrentURL(pageID string) (string, error) {
	page, err := s.Page(pageID)
	if err != nil {
		return "", err
	}
	return page.URL(), nil
}

// destroy closes every page, then the context. Close failures are collected
// so the caller can log them; destroy never leaves a page reachable.
func (s *Session) destroy() []error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	pages := s.pages
	s.pages = make(map[string]PageHandle)
	s.mu.Unlock()

	var errs []error
	for _, page := range pages {
		if err := page.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.ctx.Close(); err != nil {
		errs = append(errs, err)
	}
	return errs
}
