package pipeline

import (
	"context"
	"fmt"

	"github.com/sells-group/outreach-cli/internal/intel"
	"github.com/sells-group/outreach-cli/internal/model"
)

// fakeProvider satisfies intel.Provider with canned data and call tracking.
type fakeProvider struct {
	discovered   []model.Candidate
	discoverErr  error
	contacts     map[string]string // candidate name -> email ("" = not found)
	findErr      error
	draftErr     error
	findCalls    []string
	draftCalls   []string
	discoverRuns int
}

func (f *fakeProvider) Discover(ctx context.Context, criteria string) ([]model.Candidate, error) {
	f.discoverRuns++
	if f.discoverErr != nil {
		return nil, f.discoverErr
	}
	return f.discovered, nil
}

func (f *fakeProvider) FindContact(ctx context.Context, c model.Candidate) (string, error) {
	f.findCalls = append(f.findCalls, c.Name)
	if f.findErr != nil {
		return "", f.findErr
	}
	return f.contacts[c.Name], nil
}

func (f *fakeProvider) Draft(ctx context.Context, req intel.DraftRequest) (*model.Draft, error) {
	f.draftCalls = append(f.draftCalls, req.Candidate.Name)
	if f.draftErr != nil {
		return nil, f.draftErr
	}
	return &model.Draft{
		Candidate: req.Candidate,
		To:        req.To,
		Subject:   fmt.Sprintf("Hello %s", req.Candidate.Name),
		Body:      fmt.Sprintf("Regarding %s.", req.Candidate.OneLiner),
	}, nil
}

// fakeSender tracks session lifecycle and fails sends to chosen recipients.
type fakeSender struct {
	openCalls  int
	closeCalls int
	openErr    error
	failTo     map[string]bool
	sentTo     []string
}

func (f *fakeSender) Open(ctx context.Context) error {
	f.openCalls++
	return f.openErr
}

func (f *fakeSender) SendOne(ctx context.Context, draft model.Draft, attachments []string) bool {
	if f.failTo[draft.To] {
		return false
	}
	f.sentTo = append(f.sentTo, draft.To)
	return true
}

func (f *fakeSender) Close() error {
	f.closeCalls++
	return nil
}
