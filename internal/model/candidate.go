package model

import (
	"time"

	"github.com/sells-group/outreach-cli/internal/normalize"
)

// OneLinerMaxLen bounds the length of a candidate's one-line description.
const OneLinerMaxLen = 120

// Candidate represents a company to reach out to, produced by discovery or
// supplied via a list file. Immutable once created.
type Candidate struct {
	Name     string `json:"name"`
	Domain   string `json:"domain"`
	OneLiner string `json:"one_liner,omitempty"`
	// Email, when pre-supplied (e.g. from a list file), skips the
	// contact-finding step for this candidate.
	Email string `json:"email,omitempty"`
}

// Key returns the candidate's identity: the normalized domain when present,
// else the normalized name. Used for dedup and uniqueness.
func (c Candidate) Key() string {
	if d := normalize.Domain(c.Domain); d != "" {
		return d
	}
	return normalize.Name(c.Name)
}

// DedupeCandidates collapses candidates sharing an identity key, preserving
// first-seen order. Candidates with an empty key are dropped.
func DedupeCandidates(in []Candidate) []Candidate {
	seen := make(map[string]struct{}, len(in))
	out := make([]Candidate, 0, len(in))
	for _, c := range in {
		key := c.Key()
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Draft is a composed outreach message for one candidate. Created once per
// candidate per pipeline pass; never mutated; consumed at most once by the
// send layer.
type Draft struct {
	Candidate Candidate `json:"candidate"`
	To        string    `json:"to"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
}

// RunStatus represents the current state of an outreach run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run represents a single recorded outreach invocation.
type Run struct {
	ID        string    `json:"id"`
	Criteria  string    `json:"criteria"`
	Status    RunStatus `json:"status"`
	Report    *Report   `json:"report,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SentRecord pairs a candidate with the address a message went to.
type SentRecord struct {
	Candidate Candidate `json:"candidate"`
	Email     string    `json:"email"`
}

// Report aggregates the categorized outcomes of one pipeline invocation.
// Append-only for the duration of the run, owned by the orchestrator.
type Report struct {
	Discovered            []Candidate  `json:"discovered"`
	Attachments           []string     `json:"attachments,omitempty"`
	WithEmail             []SentRecord `json:"with_email"`
	Drafts                []Draft      `json:"drafts"`
	Sent                  []string     `json:"sent"`
	FailedSend            []string     `json:"failed_send"`
	SkippedNoEmail        []string     `json:"skipped_no_email"`
	SkippedAlreadyEmailed []string     `json:"skipped_already_emailed"`
}
