package webmail

import "github.com/playwright-community/playwright-go"

// Structural queries for Outlook Web. These are inherently volatile external
// facts: each chain is ordered most-specific first, with progressively
// looser fallbacks for UI revisions we have seen in the wild.

// frameHint filters which embedded frames are worth searching.
const frameHint = "outlook"

// newMailProbes locate the affordance that opens a compose surface.
var newMailProbes = []probe{
	cssProbe("button:has-text('New mail')"),
	cssProbe("button:has-text('New message')"),
	cssProbe("button:has-text('New')"),
	cssProbe("[aria-label*='New mail']"),
	cssProbe("[aria-label*='New message']"),
	cssProbe("[aria-label*='Compose']"),
}

// toProbes locate the recipient field. Outlook uses a contenteditable div
// with aria-label "To", not an input; the input variants cover older
// revisions.
var toProbes = []probe{
	cssProbe("[aria-label='To']"),
	cssProbe("div[contenteditable='true'][aria-label='To']"),
	cssProbe("[aria-label*='To']"),
	cssProbe("input[aria-label*='To']"),
	cssProbe("input[placeholder*='To']"),
	cssProbe("input[placeholder*='Enter recipient']"),
	cssProbe("[aria-label*='To recipients'] input"),
	cssProbe("[role='combobox'][aria-label*='To']"),
	cssProbe("input[placeholder*='recipient']"),
}

var subjectProbes = []probe{
	cssProbe("input[aria-label='Subject']"),
	cssProbe("input[placeholder='Add a subject']"),
	cssProbe("input[placeholder*='subject']"),
	cssProbe("input[aria-label*='Add a subject']"),
}

var bodyProbes = []probe{
	cssProbe("div[role='textbox']"),
	cssProbe("div[aria-label*='Message body']"),
	cssProbe("div[contenteditable='true']"),
}

var attachProbes = []probe{
	cssProbe("[aria-label='Attach file']"),
	cssProbe("button[aria-label='Attach file']"),
	cssProbe("button:has-text('Attach file')"),
	cssProbe("[aria-label*='Attach file']"),
}

// attachMenuLabels are candidate labels for the menu entry that opens a
// native file chooser.
var attachMenuLabels = []string{
	"Browse this computer",
	"Attach a file",
	"Browse",
	"Upload from this device",
}

// sendProbes locate the primary Send button. The role probe matches the
// exact accessible name so "More send options" (whose label also contains
// "Send") never wins.
var sendProbes = []probe{
	roleProbe(*playwright.AriaRoleButton, "Send", true),
	cssProbe("[aria-label='Send']"),
	cssProbe("button[aria-label='Send']"),
	cssProbe("button:has-text('Send')"),
	cssProbe("[id^='splitButton-'][id*='primaryActionButton']"),
}
