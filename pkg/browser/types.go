package browser

import "time"

// Default values for session operations.
const (
	DefaultNavigationTimeout = 10 * time.Second
	DefaultViewportWidth     = 1280
	DefaultViewportHeight    = 720
	DefaultMaxSessions       = 100

	// DefaultPageID addresses the implicit page used when no page id is given.
	DefaultPageID = "main"
)

// Position is a viewport coordinate pair for coordinate-based clicks.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ClickTarget selects the element to click. Exactly one locating strategy
// must be set.
type ClickTarget struct {
	// Selector is a CSS selector.
	Selector string

	// XPath is an XPath expression.
	XPath string

	// Position clicks at raw viewport coordinates. A small randomized
	// offset and delay are applied to avoid bot-detection artifacts.
	Position *Position
}

// NavigationResult describes the page state a navigation ended in.
type NavigationResult struct {
	// URL is the page URL after the navigation settled or timed out.
	URL string

	// Title is the page title, best effort.
	Title string

	// AlreadyThere is true when the page was already at the requested URL
	// and no navigation was performed.
	AlreadyThere bool

	// TimedOut is true when the readiness signal lost the race against the
	// deadline. The page holds whatever state it reached; this is not an
	// error.
	TimedOut bool
}

// ClickResult describes the outcome of a click.
type ClickResult struct {
	// URL is the current page URL after the click (it may have navigated).
	URL string

	// TimedOut is true when a click-triggered navigation lost the race
	// against the deadline.
	TimedOut bool
}

// FillResult describes the outcome of filling an input.
type FillResult struct {
	Selector string
	Value    string

	// Readback is the field's value read back after filling.
	Readback string

	// Mismatch is true when the readback differs from the written value.
	// Some rich-text widgets normalize input; this is a warning, not a
	// failure.
	Mismatch bool
}

// SessionInfo is a registry-level snapshot of one live session.
type SessionInfo struct {
	ID        string
	CreatedAt time.Time
	Pages     int
}
