// Package store persists outreach run history. The dedup mapping lives in
// the contacted package's JSON file; this store only records what each
// invocation did, for `outreach history` and the webhook server.
package store

import (
	"context"

	"github.com/sells-group/outreach-cli/internal/model"
)

// Store defines the persistence interface for run history.
type Store interface {
	CreateRun(ctx context.Context, criteria string) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, status model.RunStatus, report *model.Report) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, limit int) ([]model.Run, error)

	Migrate(ctx context.Context) error
	Close() error
}
