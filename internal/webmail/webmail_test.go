package webmail

import (
	"context"
	"errors"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/outreach-cli/internal/config"
	"github.com/sells-group/outreach-cli/internal/model"
)

// fakeLocator satisfies just enough of playwright.Locator for resolver
// tests; everything else panics via the embedded nil interface.
type embeddedLocator struct {
	playwright.Locator
}

type fakeLocator struct {
	embeddedLocator
	visible bool
	waits   *int
}

var _ playwright.Locator = (*fakeLocator)(nil)

func (f *fakeLocator) WaitFor(options ...playwright.LocatorWaitForOptions) error {
	if f.waits != nil {
		*f.waits++
	}
	if f.visible {
		return nil
	}
	return errors.New("timeout waiting for visible")
}

func (f *fakeLocator) First() playwright.Locator { return f }

// Locator must be spelled out: the playwright.Locator interface is embedded
// one level deep (via embeddedLocator) because a directly embedded field named
// Locator would collide with this method.
func (f *fakeLocator) Locator(selectorOrLocator interface{}, options ...playwright.LocatorLocatorOptions) playwright.Locator {
	return f
}

func fakeSurface(label string, byCSS map[string]*fakeLocator, byRole map[string]*fakeLocator) surface {
	missing := &fakeLocator{visible: false}
	return surface{
		label: label,
		css: func(selector string) playwright.Locator {
			if loc, ok := byCSS[selector]; ok {
				return loc
			}
			return missing
		},
		byRole: func(role playwright.AriaRole, name string, exact bool) playwright.Locator {
			if loc, ok := byRole[name]; ok {
				return loc
			}
			return missing
		},
	}
}

func TestResolve_FirstVisibleWins(t *testing.T) {
	hit := &fakeLocator{visible: true}
	s := fakeSurface("page", map[string]*fakeLocator{"#second": hit}, nil)

	got, err := resolve([]surface{s}, "recipient field", []probe{
		cssProbe("#first"),
		cssProbe("#second"),
		cssProbe("#third"),
	})
	require.NoError(t, err)
	assert.Same(t, playwright.Locator(hit), got)
}

func TestResolve_FallsThroughToLaterSurface(t *testing.T) {
	hit := &fakeLocator{visible: true}
	empty := fakeSurface("page", nil, nil)
	frame := fakeSurface("frame", map[string]*fakeLocator{"#field": hit}, nil)

	got, err := resolve([]surface{empty, frame}, "subject field", []probe{cssProbe("#field")})
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestResolve_RoleProbe(t *testing.T) {
	hit := &fakeLocator{visible: true}
	s := fakeSurface("page", nil, map[string]*fakeLocator{"Send": hit})

	got, err := resolve([]surface{s}, "send button", []probe{
		roleProbe(*playwright.AriaRoleButton, "Send", true),
	})
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestSendProbes_ExactNameFirst(t *testing.T) {
	// The primary probe must match the accessible name "Send" exactly so
	// "More send options" never wins.
	first := sendProbes[0]
	assert.Equal(t, *playwright.AriaRoleButton, first.role)
	assert.Equal(t, "Send", first.name)
	assert.True(t, first.exact)
	assert.Empty(t, first.css)
}

func TestResolve_ExhaustedChainNamesStep(t *testing.T) {
	s := fakeSurface("page", nil, nil)
	_, err := resolve([]surface{s}, "send button", []probe{cssProbe("#a"), cssProbe("#b")})
	require.Error(t, err)
	assert.True(t, IsElementError(err))
	assert.Contains(t, err.Error(), "send button")
}

func TestResolve_TriesEveryProbe(t *testing.T) {
	waits := 0
	loc := &fakeLocator{visible: false, waits: &waits}
	s := surface{
		label: "page",
		css:   func(string) playwright.Locator { return loc },
		byRole: func(playwright.AriaRole, string, bool) playwright.Locator {
			return loc
		},
	}
	_, err := resolve([]surface{s}, "body field", []probe{cssProbe("#a"), cssProbe("#b"), cssProbe("#c")})
	assert.Error(t, err)
	assert.Equal(t, 3, waits)
}

func TestSessionStateString(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "opening", StateOpening.String())
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "sending", StateSending.String())
	assert.Equal(t, "closing", StateClosing.String())
}

func TestSession_SendBeforeOpenRejected(t *testing.T) {
	s := NewSession(config.WebmailConfig{})
	ok := s.SendOne(context.Background(), model.Draft{To: "a@b.co"}, nil)
	assert.False(t, ok)
	assert.Equal(t, StateClosed, s.State())
}

func TestSession_CloseIdempotent(t *testing.T) {
	s := NewSession(config.WebmailConfig{})
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, StateClosed, s.State())
}

func TestSession_InvalidTransition(t *testing.T) {
	s := NewSession(config.WebmailConfig{})
	err := s.transition("open", StateReady, StateOpening)
	require.Error(t, err)
	var se *StateError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "open", se.Op)
	assert.Equal(t, StateClosed, se.State)
}

func TestLooksLikeLogin(t *testing.T) {
	assert.True(t, looksLikeLogin("https://login.microsoftonline.com/common/oauth2"))
	assert.True(t, looksLikeLogin("https://outlook.office.com/Login?ru=/mail"))
	assert.False(t, looksLikeLogin("https://outlook.office.com/mail/"))
}
