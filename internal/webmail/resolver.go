package webmail

import (
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// A compose-form element may live in the main document or in one of several
// embedded frames, and its structure shifts between UI revisions. Each field
// therefore gets an ordered fallback chain of probes evaluated short-circuit
// across every surface: the first probe that resolves a visible element
// within its timeout wins.

const defaultProbeTimeout = 2 * time.Second

// probe is one structural query in a fallback chain: either a CSS selector
// or an accessible role+name lookup.
type probe struct {
	css     string
	role    playwright.AriaRole
	name    string
	exact   bool
	timeout time.Duration
}

func cssProbe(selector string) probe {
	return probe{css: selector}
}

func roleProbe(role playwright.AriaRole, name string, exact bool) probe {
	return probe{role: role, name: name, exact: exact}
}

// surface is one searchable root: the main page or an embedded frame.
type surface struct {
	label  string
	css    func(selector string) playwright.Locator
	byRole func(role playwright.AriaRole, name string, exact bool) playwright.Locator
}

// composeSurfaces returns the page plus any frame whose URL looks like part
// of the mail client, in probe order.
func composeSurfaces(page playwright.Page, frameHint string) []surface {
	out := []surface{pageSurface(page)}
	for _, frame := range page.Frames() {
		if frame == page.MainFrame() {
			continue
		}
		url := strings.ToLower(frame.URL())
		if url == "" || !strings.Contains(url, frameHint) {
			continue
		}
		f := frame
		out = append(out, surface{
			label: "frame:" + f.URL(),
			css: func(selector string) playwright.Locator {
				return f.Locator(selector)
			},
			byRole: func(role playwright.AriaRole, name string, exact bool) playwright.Locator {
				return f.GetByRole(role, playwright.FrameGetByRoleOptions{Name: name, Exact: playwright.Bool(exact)})
			},
		})
	}
	return out
}

func pageSurface(page playwright.Page) surface {
	return surface{
		label: "page",
		css: func(selector string) playwright.Locator {
			return page.Locator(selector)
		},
		byRole: func(role playwright.AriaRole, name string, exact bool) playwright.Locator {
			return page.GetByRole(role, playwright.PageGetByRoleOptions{Name: name, Exact: playwright.Bool(exact)})
		},
	}
}

// resolve walks every surface and probe in order and returns the first
// visible match. Exhausting the chain yields an ElementError naming step.
func resolve(surfaces []surface, step string, probes []probe) (playwright.Locator, error) {
	for _, s := range surfaces {
		for _, p := range probes {
			var loc playwright.Locator
			if p.css != "" {
				loc = s.css(p.css).First()
			} else {
				loc = s.byRole(p.role, p.name, p.exact).First()
			}
			timeout := p.timeout
			if timeout <= 0 {
				timeout = defaultProbeTimeout
			}
			err := loc.WaitFor(playwright.LocatorWaitForOptions{
				State:   playwright.WaitForSelectorStateVisible,
				Timeout: playwright.Float(float64(timeout.Milliseconds())),
			})
			if err == nil {
				return loc, nil
			}
		}
	}
	return nil, &ElementError{Step: step}
}
