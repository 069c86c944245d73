// Package intel defines the intelligence provider the orchestrator drives:
// discover candidate companies, find a contact address, draft a message.
// The orchestrator treats all three as opaque, potentially slow, and
// rate-limited; any implementation satisfying Provider will do.
package intel

import (
	"context"

	"github.com/sells-group/outreach-cli/internal/model"
)

// DraftRequest carries the typed input to Draft.
type DraftRequest struct {
	Candidate   model.Candidate
	To          string
	Purpose     string
	Tone        string
	Notes       string
	SubjectHint string
}

// Provider exposes the three intelligence capabilities the pipeline needs.
type Provider interface {
	// Discover returns candidates matching the criteria. The result may
	// contain duplicates by domain; callers dedupe preserving first-seen
	// order.
	Discover(ctx context.Context, criteria string) ([]model.Candidate, error)

	// FindContact returns the best contact address for a candidate, or
	// ("", nil) when none could be found. A non-nil error indicates a
	// broken upstream, not a missing address.
	FindContact(ctx context.Context, c model.Candidate) (string, error)

	// Draft produces a personalized subject and body. Malformed or missing
	// structured output is a hard error for that candidate.
	Draft(ctx context.Context, req DraftRequest) (*model.Draft, error)
}
