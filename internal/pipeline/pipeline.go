// Package pipeline drives the end-to-end outreach loop: discover candidates,
// skip the already-contacted, find addresses, draft, optionally confirm,
// send, and record. All stages run sequentially: the send layer holds one
// exclusive browser session, and provider calls are rate-sensitive enough
// that predictable pacing beats fan-out.
package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/contacted"
	"github.com/sells-group/outreach-cli/internal/intel"
	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/normalize"
	"github.com/sells-group/outreach-cli/internal/store"
)

// Sender is the send-session surface the pipeline drives. Sessions are
// opened lazily (first approved send) and closed before the iteration's
// processing block exits, on every path.
type Sender interface {
	Open(ctx context.Context) error
	SendOne(ctx context.Context, draft model.Draft, attachments []string) bool
	Close() error
}

// ConfirmFunc presents a draft for human approval; a false return (or a nil
// callback when confirmation is required) means drafted-but-not-sent.
type ConfirmFunc func(draft model.Draft, attachments []string) bool

// Request carries one pipeline invocation's parameters.
type Request struct {
	Criteria    string
	Purpose     string
	Tone        string
	Notes       string
	SubjectHint string

	// MaxCandidates caps successful sends; 0 means no cap (single
	// discovery round).
	MaxCandidates int

	Attachments []string

	// Candidates, when non-nil, is used as-is and discovery is skipped.
	Candidates []model.Candidate

	// ConfirmBeforeSend gates every send behind Confirm.
	ConfirmBeforeSend bool
	Confirm           ConfirmFunc

	// Interactive indicates a headed browser: the authenticated session is
	// established up front so login happens before any approval prompt.
	Interactive bool
}

// Pipeline wires the orchestrator's collaborators.
type Pipeline struct {
	provider  intel.Provider
	contacts  *contacted.Store
	history   store.Store
	newSender func() Sender
	ensure    func(ctx context.Context) error
	now       func() time.Time
}

// New creates a Pipeline. history may be nil when run recording is not
// wanted (tests, one-off invocations). ensure establishes an authenticated
// session without keeping it open; newSender builds the lazily opened
// session for actual sends.
func New(
	provider intel.Provider,
	contacts *contacted.Store,
	history store.Store,
	newSender func() Sender,
	ensure func(ctx context.Context) error,
) *Pipeline {
	return &Pipeline{
		provider:  provider,
		contacts:  contacts,
		history:   history,
		newSender: newSender,
		ensure:    ensure,
		now:       time.Now,
	}
}

// Run executes the full outreach loop and returns the aggregated report.
// Provider failures abort the run (broken upstream); send failures never do.
func (p *Pipeline) Run(ctx context.Context, req Request) (*model.Report, error) {
	log := zap.L().With(zap.String("criteria", req.Criteria))
	report := &model.Report{Attachments: req.Attachments}

	runID := p.recordStart(ctx, req.Criteria)
	var runErr error
	defer func() { p.recordFinish(ctx, runID, report, runErr) }()

	for _, a := range req.Attachments {
		if _, err := os.Stat(a); err != nil {
			log.Warn("attachment not found, will be skipped at send time", zap.String("path", a))
		}
	}

	// Headed runs log in before any discovery or drafting so the user is
	// not mid-approval when the login form appears.
	if req.Interactive && p.ensure != nil {
		log.Info("checking webmail session; a browser window may open for login")
		if err := p.ensure(ctx); err != nil {
			log.Warn("could not establish webmail session; sends may fail", zap.Error(err))
		}
	}

	sentSoFar := 0
	for {
		emailed := p.contacts.Load()

		var rawList []model.Candidate
		if req.Candidates != nil {
			rawList = req.Candidates
		} else {
			discovered, err := p.provider.Discover(ctx, req.Criteria)
			if err != nil {
				runErr = eris.Wrap(err, "pipeline: discover")
				return report, runErr
			}
			rawList = discovered
		}
		rawList = model.DedupeCandidates(rawList)

		var toProcess []model.Candidate
		for _, c := range rawList {
			if _, ok := emailed[c.Key()]; ok {
				report.SkippedAlreadyEmailed = append(report.SkippedAlreadyEmailed, c.Name)
			} else {
				toProcess = append(toProcess, c)
			}
		}

		batch := toProcess
		if req.MaxCandidates > 0 {
			remaining := req.MaxCandidates - sentSoFar
			if remaining < len(batch) {
				batch = batch[:remaining]
			}
		}
		if len(batch) == 0 {
			break
		}
		report.Discovered = append(report.Discovered, batch...)

		sentThisRound, err := p.processBatch(ctx, req, report, batch)
		sentSoFar += sentThisRound
		if err != nil {
			runErr = err
			return report, runErr
		}

		if req.MaxCandidates == 0 || sentSoFar >= req.MaxCandidates {
			break
		}
		// Re-running discovery with the same criteria mostly reproduces the
		// same list; a round with zero successful sends cannot make progress
		// toward the cap, so stop rather than spin.
		if sentThisRound == 0 {
			log.Warn("discovery round produced no successful sends, stopping",
				zap.Int("sent", sentSoFar),
				zap.Int("cap", req.MaxCandidates),
			)
			break
		}
	}

	return report, nil
}

// processBatch runs find->draft->confirm->send for each candidate in order.
// The send session opens lazily on the first approved send and is closed
// when this block exits, error or not.
func (p *Pipeline) processBatch(ctx context.Context, req Request, report *model.Report, batch []model.Candidate) (sent int, err error) {
	var session Sender
	defer func() {
		if session != nil {
			if cerr := session.Close(); cerr != nil {
				zap.L().Warn("send session close", zap.Error(cerr))
			}
		}
	}()

	for _, cand := range batch {
		email := normalize.Email(cand.Email)
		if email == "" {
			found, ferr := p.provider.FindContact(ctx, cand)
			if ferr != nil {
				return sent, eris.Wrapf(ferr, "pipeline: find contact for %s", cand.Name)
			}
			email = found
		}
		if email == "" {
			report.SkippedNoEmail = append(report.SkippedNoEmail, cand.Name)
			continue
		}
		report.WithEmail = append(report.WithEmail, model.SentRecord{Candidate: cand, Email: email})

		draft, derr := p.provider.Draft(ctx, intel.DraftRequest{
			Candidate:   cand,
			To:          email,
			Purpose:     req.Purpose,
			Tone:        req.Tone,
			Notes:       req.Notes,
			SubjectHint: req.SubjectHint,
		})
		if derr != nil {
			return sent, eris.Wrapf(derr, "pipeline: draft for %s", cand.Name)
		}
		report.Drafts = append(report.Drafts, *draft)

		shouldSend := true
		if req.ConfirmBeforeSend {
			shouldSend = req.Confirm != nil && req.Confirm(*draft, req.Attachments)
		}
		if !shouldSend {
			continue
		}

		if session == nil {
			session = p.newSender()
			if oerr := session.Open(ctx); oerr != nil {
				return sent, eris.Wrap(oerr, "pipeline: open send session")
			}
		}

		if session.SendOne(ctx, *draft, req.Attachments) {
			report.Sent = append(report.Sent, draft.To)
			if rerr := p.contacts.Record(cand.Key(), p.now()); rerr != nil {
				zap.L().Error("contacted record not persisted", zap.String("key", cand.Key()), zap.Error(rerr))
			}
			sent++
		} else {
			report.FailedSend = append(report.FailedSend, draft.To)
		}
	}
	return sent, nil
}

func (p *Pipeline) recordStart(ctx context.Context, criteria string) string {
	if p.history == nil {
		return ""
	}
	run, err := p.history.CreateRun(ctx, criteria)
	if err != nil {
		zap.L().Warn("run history create failed", zap.Error(err))
		return ""
	}
	return run.ID
}

func (p *Pipeline) recordFinish(ctx context.Context, runID string, report *model.Report, runErr error) {
	if p.history == nil || runID == "" {
		return
	}
	status := model.RunStatusComplete
	if runErr != nil {
		status = model.RunStatusFailed
	}
	if err := p.history.CompleteRun(ctx, runID, status, report); err != nil {
		zap.L().Warn("run history complete failed", zap.Error(err))
	}
}
