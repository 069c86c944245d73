package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"

	"github.com/sells-group/outreach-cli/internal/model"
)

func init() {
	pterm.DisableStyling()
}

func sampleDraft() model.Draft {
	return model.Draft{
		Candidate: model.Candidate{Name: "Acme", Domain: "acme.com"},
		To:        "info@acme.com",
		Subject:   "Quick intro",
		Body:      "Hi there.",
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"lowercase y", "y\n", true},
		{"yes", "yes\n", true},
		{"uppercase", "YES\n", true},
		{"padded", "  y  \n", true},
		{"no", "n\n", false},
		{"empty line", "\n", false},
		{"closed input", "", false},
		{"garbage", "send it\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrinterWith(&out, strings.NewReader(tt.input))
			got := p.Confirm(sampleDraft(), nil)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "info@acme.com")
			assert.Contains(t, out.String(), "Send this email? [y/N]:")
		})
	}
}

func TestConfirmShowsAttachments(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinterWith(&out, strings.NewReader("y\n"))
	p.Confirm(sampleDraft(), []string{"deck.pdf", "onepager.pdf"})
	assert.Contains(t, out.String(), "Attachments: deck.pdf, onepager.pdf")
}

func TestReport_AllCategories(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinterWith(&out, strings.NewReader(""))

	r := &model.Report{
		Discovered: []model.Candidate{
			{Name: "Acme", Domain: "acme.com", OneLiner: "widgets"},
			{Name: "Globex", Domain: "globex.com"},
		},
		WithEmail: []model.SentRecord{
			{Candidate: model.Candidate{Name: "Acme"}, Email: "info@acme.com"},
		},
		Drafts:                []model.Draft{sampleDraft()},
		Sent:                  []string{"info@acme.com"},
		FailedSend:            []string{"hello@globex.com"},
		SkippedNoEmail:        []string{"Initech"},
		SkippedAlreadyEmailed: []string{"Hooli"},
	}
	p.Report(r)
	got := out.String()

	assert.Contains(t, got, "Acme | acme.com | widgets")
	assert.Contains(t, got, "Globex | globex.com | -")
	assert.Contains(t, got, "Acme -> info@acme.com")
	assert.Contains(t, got, "Skipped (no email)")
	assert.Contains(t, got, "Initech")
	assert.Contains(t, got, "Skipped (already emailed)")
	assert.Contains(t, got, "Hooli")
	assert.Contains(t, got, "Subject: Quick intro")
	assert.Contains(t, got, "Sent")
	assert.Contains(t, got, "Failed to send")
	assert.Contains(t, got, "hello@globex.com")
}

func TestReport_EmptyStateHints(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinterWith(&out, strings.NewReader(""))
	p.Report(&model.Report{})
	assert.Contains(t, out.String(), "discovery returned 0 candidates")

	out.Reset()
	p = NewPrinterWith(&out, strings.NewReader(""))
	p.Report(&model.Report{SkippedAlreadyEmailed: []string{"Acme"}})
	assert.Contains(t, out.String(), "none new")
}
