package browser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) (*Session, *fakeContext) {
	t.Helper()
	m, launcher := newTestManager(WithNavigationTimeout(200 * time.Millisecond))

	id, err := m.Create()
	require.NoError(t, err)
	session, err := m.Get(id)
	require.NoError(t, err)

	return session, launcher.contexts[0]
}

func firstPage(t *testing.T, ctx *fakeContext) *fakePage {
	t.Helper()
	require.NotEmpty(t, ctx.pages)
	return ctx.pages[0]
}

func TestNavigateIsIdempotent(t *testing.T) {
	session, ctx := newTestSession(t)

	result, err := session.Navigate("", "https://example.com/jobs/42")
	require.NoError(t, err)
	assert.False(t, result.AlreadyThere)
	assert.Equal(t, "https://example.com/jobs/42", result.URL)

	// Second navigation to the same URL performs no actual navigation.
	result, err = session.Navigate("", "https://example.com/jobs/42")
	require.NoError(t, err)
	assert.True(t, result.AlreadyThere)
	assert.Equal(t, 1, firstPage(t, ctx).gotoCalls)
}

func TestNavigateTimeoutIsSoft(t *testing.T) {
	session, ctx := newTestSession(t)

	// Prime the page so the slow goto races from a known URL.
	_, err := session.Navigate("", "https://example.com")
	require.NoError(t, err)
	firstPage(t, ctx).gotoDelay = time.Second

	result, err := session.Navigate("", "https://example.com/slow")
	require.NoError(t, err)
	assert.True(t, result.TimedOut)
	// The loser was abandoned; the page reports whatever state it reached.
	assert.Equal(t, "https://example.com", result.URL)
}

func TestNavigateErrorIsReported(t *testing.T) {
	session, ctx := newTestSession(t)
	_, err := session.Navigate("", "https://example.com")
	require.NoError(t, err)

	firstPage(t, ctx).gotoErr = assert.AnError
	_, err = session.Navigate("", "https://example.com/other")
	assert.Error(t, err)
}

func TestClickRequiresExactlyOneStrategy(t *testing.T) {
	session, _ := newTestSession(t)

	_, err := session.Click("", ClickTarget{})
	assert.Error(t, err)

	_, err = session.Click("", ClickTarget{Selector: "#go", XPath: "//button"})
	assert.Error(t, err)
}

func TestClickBySelectorAndXPath(t *testing.T) {
	session, ctx := newTestSession(t)

	_, err := session.Click("", ClickTarget{Selector: "button.apply"})
	require.NoError(t, err)

	_, err = session.Click("", ClickTarget{XPath: "//button[@type='submit']"})
	require.NoError(t, err)

	page := firstPage(t, ctx)
	require.Len(t, page.clicks, 2)
	assert.Equal(t, "button.apply", page.clicks[0])
	assert.True(t, strings.HasPrefix(page.clicks[1], "xpath="))
}

func TestClickByCoordinatesAppliesJitter(t *testing.T) {
	session, ctx := newTestSession(t)

	_, err := session.Click("", ClickTarget{Position: &Position{X: 100, Y: 200}})
	require.NoError(t, err)

	page := firstPage(t, ctx)
	require.Len(t, page.mouse.clicks, 1)
	click := page.mouse.clicks[0]
	// Jittered, but near the requested point.
	assert.InDelta(t, 100, click.X, 3.0)
	assert.InDelta(t, 200, click.Y, 3.0)
}

func TestFillReportsMismatchWarning(t *testing.T) {
	session, ctx := newTestSession(t)
	// Force page creation, then install a lower-casing widget.
	_, err := session.Page("")
	require.NoError(t, err)
	firstPage(t, ctx).normalize = strings.ToLower

	result, err := session.Fill("", "input[name=email]", "Jane.Doe@Example.com")
	require.NoError(t, err)
	assert.True(t, result.Mismatch)
	assert.Equal(t, "jane.doe@example.com", result.Readback)

	// Faithful widgets produce no warning.
	firstPage(t, ctx).normalize = nil
	result, err = session.Fill("", "input[name=name]", "Jane Doe")
	require.NoError(t, err)
	assert.False(t, result.Mismatch)
}

func TestReadValue(t *testing.T) {
	session, _ := newTestSession(t)

	_, err := session.Fill("", "#field", "hello")
	require.NoError(t, err)

	value, err := session.ReadValue("", "#field")
	require.NoError(t, err)
	assert.Equal(t, "hello", value)

	_, err = session.ReadValue("", "#absent")
	assert.Error(t, err)
}

func TestUploadWaitsForElement(t *testing.T) {
	session, ctx := newTestSession(t)
	_, err := session.Page("")
	require.NoError(t, err)

	resume := filepath.Join(t.TempDir(), "resume.pdf")
	require.NoError(t, os.WriteFile(resume, []byte("%PDF-1.4"), 0600))

	require.NoError(t, session.Upload("", "input[type=file]", resume))
	assert.Equal(t, "resume.pdf", firstPage(t, ctx).values["input[type=file]"])

	firstPage(t, ctx).waitErr = assert.AnError
	err = session.Upload("", "input[type=file]", resume)
	assert.ErrorIs(t, err, ErrElementNotFound)
}

func TestScreenshotReturnsBytes(t *testing.T) {
	session, _ := newTestSession(t)

	data, err := session.Screenshot("")
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestOperationsAfterDestroyReturnSessionNotFound(t *testing.T) {
	session, _ := newTestSession(t)
	session.destroy()

	_, err := session.Navigate("", "https://example.com")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = session.Page("late")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
