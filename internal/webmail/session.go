// Package webmail drives a browser-rendered webmail compose form through
// Playwright. The mail UI is not built for scripting: element structure is
// unstable, compose may open in a pane or a popup, and fields hide inside
// frames. Everything here is built around bounded waits and fallback chains
// so a flaky UI degrades to a per-message failure, never a hang.
package webmail

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/config"
)

// Session owns one live browser automation context bound to one
// authenticated identity. At most one Session is open per pipeline
// invocation; it must be closed on every exit path (Close is idempotent).
type Session struct {
	cfg config.WebmailConfig

	mu    sync.Mutex
	state State

	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
}

// NewSession returns a closed session; Open launches the browser.
func NewSession(cfg config.WebmailConfig) *Session {
	return &Session{cfg: cfg}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) transition(op string, from, to State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != from {
		return &StateError{Op: op, State: s.state}
	}
	s.state = to
	return nil
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Open launches the browser, restores the persisted session snapshot when
// one exists, navigates to the mail surface, and ensures the identity is
// authenticated. On any failure the partially acquired resources are
// released before returning.
func (s *Session) Open(ctx context.Context) error {
	if err := s.transition("open", StateClosed, StateOpening); err != nil {
		return err
	}

	if err := s.open(ctx); err != nil {
		s.setState(StateClosed)
		s.release()
		return err
	}
	s.setState(StateReady)
	return nil
}

func (s *Session) open(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "webmail: open")
	}

	pw, err := playwright.Run()
	if err != nil {
		return eris.Wrap(err, "webmail: start playwright")
	}
	s.pw = pw

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(s.cfg.Headless),
	})
	if err != nil {
		return eris.Wrap(err, "webmail: launch browser")
	}
	s.browser = browser

	opts := playwright.BrowserNewContextOptions{}
	if _, statErr := os.Stat(s.cfg.SessionPath); statErr == nil {
		opts.StorageStatePath = playwright.String(s.cfg.SessionPath)
	}
	bctx, err := browser.NewContext(opts)
	if err != nil {
		return eris.Wrap(err, "webmail: new context")
	}
	s.context = bctx

	page, err := bctx.NewPage()
	if err != nil {
		return eris.Wrap(err, "webmail: new page")
	}
	page.SetDefaultTimeout(30000)
	s.page = page

	if err := s.ensureLoggedIn(ctx); err != nil {
		return err
	}
	return s.persistSnapshot()
}

// ensureLoggedIn navigates to the mail surface. An unauthenticated view is
// fatal for headless sessions; interactive sessions get a bounded wait for
// the user to finish the login form, after which the fresh session snapshot
// is persisted for future runs.
func (s *Session) ensureLoggedIn(ctx context.Context) error {
	navTimeout := float64(s.cfg.NavTimeoutSecs * 1000)
	if _, err := s.page.Goto(s.cfg.MailURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(navTimeout),
	}); err != nil {
		return eris.Wrapf(err, "webmail: navigate to %s", s.cfg.MailURL)
	}
	// Best effort settle; a busy mailbox never reaches networkidle.
	_ = s.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(20000),
	})

	if !looksLikeLogin(s.page.URL()) {
		return nil
	}

	if s.cfg.Headless {
		return ErrLoginRequired
	}

	zap.L().Info("waiting for interactive login",
		zap.Int("timeout_secs", s.cfg.LoginWaitSecs),
	)
	deadline := time.Now().Add(time.Duration(s.cfg.LoginWaitSecs) * time.Second)
	for time.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return eris.Wrap(err, "webmail: login wait")
		}
		if !looksLikeLogin(s.page.URL()) {
			zap.L().Info("login complete, persisting session snapshot")
			return s.persistSnapshot()
		}
		s.page.WaitForTimeout(1000)
	}
	return eris.New("webmail: login not completed within wait window")
}

func looksLikeLogin(url string) bool {
	u := strings.ToLower(url)
	return strings.Contains(u, "login")
}

// persistSnapshot writes the authenticated storage state to disk. The
// session may rotate cookies at any point, so this runs after open, after
// every send, and at close.
func (s *Session) persistSnapshot() error {
	if s.context == nil {
		return nil
	}
	if _, err := s.context.StorageState(s.cfg.SessionPath); err != nil {
		return eris.Wrap(err, "webmail: persist session snapshot")
	}
	return nil
}

// Close persists the snapshot and releases the page, context, browser, and
// driver. Safe to call multiple times and after a partial Open.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return nil
	}
	s.state = StateClosing
	s.mu.Unlock()

	if err := s.persistSnapshot(); err != nil {
		zap.L().Warn("session snapshot not persisted at close", zap.Error(err))
	}
	s.release()
	s.setState(StateClosed)
	return nil
}

// release tears down whatever subset of the automation stack exists.
// Teardown failures are logged, not propagated: there is no recovery from a
// browser that will not die.
func (s *Session) release() {
	if s.context != nil {
		if err := s.context.Close(); err != nil {
			zap.L().Debug("context close", zap.Error(err))
		}
		s.context = nil
		s.page = nil
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			zap.L().Debug("browser close", zap.Error(err))
		}
		s.browser = nil
	}
	if s.pw != nil {
		if err := s.pw.Stop(); err != nil {
			zap.L().Debug("playwright stop", zap.Error(err))
		}
		s.pw = nil
	}
}

// Ensure opens a session, verifies (or interactively establishes) the
// authenticated state, and closes again. Used by `outreach login` and by the
// interactive pre-flight so the user logs in before being asked to approve
// drafts.
func Ensure(ctx context.Context, cfg config.WebmailConfig) error {
	session := NewSession(cfg)
	defer session.Close()
	if err := session.Open(ctx); err != nil {
		return eris.Wrap(err, "webmail: ensure session")
	}
	return nil
}
