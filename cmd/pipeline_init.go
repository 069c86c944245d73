package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/contacted"
	"github.com/sells-group/outreach-cli/internal/intel"
	"github.com/sells-group/outreach-cli/internal/pipeline"
	"github.com/sells-group/outreach-cli/internal/store"
	"github.com/sells-group/outreach-cli/internal/webmail"
	anthropicpkg "github.com/sells-group/outreach-cli/pkg/anthropic"
)

// pipelineEnv bundles the pipeline with the resources it borrows, so
// commands can tear everything down with one Close.
type pipelineEnv struct {
	Pipeline *pipeline.Pipeline
	Provider *intel.Claude
	Store    store.Store
}

func (e *pipelineEnv) Close() {
	if e.Store != nil {
		if err := e.Store.Close(); err != nil {
			zap.L().Warn("store close", zap.Error(err))
		}
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// initPipeline wires the orchestrator: provider, dedup store, run history,
// and the webmail session factory.
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	if cfg.Anthropic.Key == "" {
		return nil, eris.New("anthropic API key not configured (set OUTREACH_ANTHROPIC_KEY or anthropic.key)")
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	provider := intel.NewClaude(anthropicpkg.NewClient(cfg.Anthropic.Key), cfg.Anthropic)
	contacts := contacted.NewStore(cfg.Outreach.ContactedPath)

	webmailCfg := cfg.Webmail
	p := pipeline.New(
		provider,
		contacts,
		st,
		func() pipeline.Sender { return webmail.NewSession(webmailCfg) },
		func(ctx context.Context) error { return webmail.Ensure(ctx, webmailCfg) },
	)

	return &pipelineEnv{Pipeline: p, Provider: provider, Store: st}, nil
}
