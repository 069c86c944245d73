package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/outreach-cli/internal/contacted"
	"github.com/sells-group/outreach-cli/internal/model"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect outreach history",
	Long:  "Commands for listing past runs and the companies already emailed.",
}

// -- history runs --

var historyRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List past outreach runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := st.ListRuns(ctx, limit)
		if err != nil {
			return eris.Wrap(err, "history runs")
		}

		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}

		formatRunsList(os.Stdout, runs)
		return nil
	},
}

// -- history show --

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show full details of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "history show")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	},
}

// -- history contacted --

var historyContactedCmd = &cobra.Command{
	Use:   "contacted",
	Short: "List companies already emailed",
	RunE: func(cmd *cobra.Command, _ []string) error {
		entries := contacted.NewStore(cfg.Outreach.ContactedPath).Load()
		if len(entries) == 0 {
			fmt.Fprintln(os.Stderr, "No companies recorded.")
			return nil
		}
		formatContacted(os.Stdout, entries)
		return nil
	},
}

func init() {
	historyRunsCmd.Flags().Int("limit", 50, "max number of runs to display")

	historyCmd.AddCommand(historyRunsCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyContactedCmd)
	rootCmd.AddCommand(historyCmd)
}

// formatRunsList writes a tabular list of runs to w.
func formatRunsList(out io.Writer, runs []model.Run) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tCRITERIA\tSTATUS\tSENT\tCREATED\tDURATION")
	_, _ = fmt.Fprintln(w, "--\t--------\t------\t----\t-------\t--------")

	for _, r := range runs {
		dur := r.UpdatedAt.Sub(r.CreatedAt).Round(time.Second).String()

		criteria := r.Criteria
		if len(criteria) > 40 {
			criteria = criteria[:37] + "..."
		}

		sent := 0
		if r.Report != nil {
			sent = len(r.Report.Sent)
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			truncateID(r.ID),
			criteria,
			r.Status,
			sent,
			r.CreatedAt.Format("2006-01-02 15:04"),
			dur,
		)
	}
	_ = w.Flush()
}

// formatContacted writes the dedup store's entries sorted by domain.
func formatContacted(out io.Writer, entries map[string]string) {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "COMPANY\tEMAILED_AT")
	for _, k := range keys {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", k, entries[k])
	}
	_ = w.Flush()
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
