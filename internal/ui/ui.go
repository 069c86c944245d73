// Package ui renders the run report and interactive send prompts for the
// terminal.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"

	"github.com/sells-group/outreach-cli/internal/model"
)

// Printer writes human-facing output. Reads for prompts come from in;
// everything else goes to out.
type Printer struct {
	out io.Writer
	in  *bufio.Reader
}

func NewPrinter() *Printer {
	return &Printer{out: os.Stdout, in: bufio.NewReader(os.Stdin)}
}

// NewPrinterWith is the injectable variant used by tests.
func NewPrinterWith(out io.Writer, in io.Reader) *Printer {
	return &Printer{out: out, in: bufio.NewReader(in)}
}

// Report renders every outcome category of a finished run.
func (p *Printer) Report(r *model.Report) {
	section := pterm.DefaultSection.WithWriter(p.out)

	section.Println("Discovered")
	switch {
	case len(r.Discovered) == 0 && len(r.SkippedAlreadyEmailed) == 0:
		p.hint("none; discovery returned 0 candidates, check API key, model, and criteria")
	case len(r.Discovered) == 0:
		p.hint("none new; all discovered companies were already emailed")
	}
	for _, c := range r.Discovered {
		oneLiner := c.OneLiner
		if oneLiner == "" {
			oneLiner = "-"
		}
		fmt.Fprintf(p.out, "  %s | %s | %s\n", c.Name, c.Domain, oneLiner)
	}

	section.Println("With email")
	for _, rec := range r.WithEmail {
		fmt.Fprintf(p.out, "  %s -> %s\n", rec.Candidate.Name, rec.Email)
	}

	if len(r.SkippedNoEmail) > 0 {
		section.Println("Skipped (no email)")
		for _, name := range r.SkippedNoEmail {
			fmt.Fprintf(p.out, "  %s\n", name)
		}
	}
	if len(r.SkippedAlreadyEmailed) > 0 {
		section.Println("Skipped (already emailed)")
		for _, name := range r.SkippedAlreadyEmailed {
			fmt.Fprintf(p.out, "  %s\n", name)
		}
	}

	section.Println("Drafts")
	for _, d := range r.Drafts {
		p.printDraft(d, r.Attachments)
	}

	if len(r.Sent) > 0 {
		section.Println("Sent")
		for _, addr := range r.Sent {
			fmt.Fprintf(p.out, "  %s\n", pterm.Green(addr))
		}
	}
	if len(r.FailedSend) > 0 {
		section.Println("Failed to send")
		for _, addr := range r.FailedSend {
			fmt.Fprintf(p.out, "  %s\n", pterm.Red(addr))
		}
	}
}

// Confirm shows a draft and asks whether to send it. Anything other than an
// explicit yes, including closed stdin, declines.
func (p *Printer) Confirm(draft model.Draft, attachments []string) bool {
	p.printDraft(draft, attachments)
	fmt.Fprint(p.out, "\nSend this email? [y/N]: ")

	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func (p *Printer) printDraft(d model.Draft, attachments []string) {
	fmt.Fprintf(p.out, "\n  To: %s | %s\n", pterm.Cyan(d.To), d.Candidate.Name)
	fmt.Fprintf(p.out, "  Subject: %s\n", d.Subject)
	if len(attachments) > 0 {
		fmt.Fprintf(p.out, "  Attachments: %s\n", strings.Join(attachments, ", "))
	}
	fmt.Fprintf(p.out, "  Body:\n%s\n", d.Body)
}

func (p *Printer) hint(msg string) {
	fmt.Fprintf(p.out, "  %s\n", pterm.Gray("("+msg+")"))
}
