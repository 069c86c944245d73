package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/listfile"
	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/pipeline"
	"github.com/sells-group/outreach-cli/internal/ui"
)

var (
	runCriteria      string
	runListFile      string
	runPurpose       string
	runSubject       string
	runTone          string
	runNotes         string
	runMaxCandidates int
	runNoConfirm     bool
	runAttach        []string
	runHeadless      bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the outreach pipeline",
	Long:  "Discovers candidates (or reads them from a list file), finds contact addresses, drafts emails, and sends approved ones through Outlook Web.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		applyRunFlags(cmd)

		req, err := buildRequest()
		if err != nil {
			return err
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		printer := ui.NewPrinter()
		if req.ConfirmBeforeSend {
			req.Confirm = printer.Confirm
		}

		report, runErr := env.Pipeline.Run(ctx, req)
		if report != nil {
			printer.Report(report)
		}
		if runErr != nil {
			return eris.Wrap(runErr, "outreach run")
		}

		usage := env.Provider.Usage()
		zap.L().Info("run complete",
			zap.Int("discovered", len(report.Discovered)),
			zap.Int("sent", len(report.Sent)),
			zap.Int("failed", len(report.FailedSend)),
			zap.Int64("input_tokens", usage.InputTokens),
			zap.Int64("output_tokens", usage.OutputTokens),
			zap.Float64("est_cost_usd", usage.USD),
		)
		return nil
	},
}

// applyRunFlags overlays explicitly set flags onto the loaded config, so
// config file values act as defaults.
func applyRunFlags(cmd *cobra.Command) {
	set := func(name string, apply func()) {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
	set("criteria", func() { cfg.Outreach.Criteria = runCriteria })
	set("list-file", func() { cfg.Outreach.ListFile = runListFile })
	set("purpose", func() { cfg.Outreach.Purpose = runPurpose })
	set("subject", func() { cfg.Outreach.Subject = runSubject })
	set("tone", func() { cfg.Outreach.Tone = runTone })
	set("notes", func() { cfg.Outreach.Notes = runNotes })
	set("max-candidates", func() { cfg.Outreach.MaxCandidates = runMaxCandidates })
	set("no-confirm", func() { cfg.Outreach.NoConfirm = runNoConfirm })
	set("attach", func() { cfg.Outreach.Attach = runAttach })
	set("headless", func() { cfg.Webmail.Headless = runHeadless })
}

// buildRequest turns the effective config into a pipeline request. A list
// file supplies candidates directly; otherwise criteria drives discovery.
func buildRequest() (pipeline.Request, error) {
	o := cfg.Outreach

	var candidates []model.Candidate
	if o.ListFile != "" {
		parsed, err := listfile.Parse(o.ListFile)
		if err != nil {
			return pipeline.Request{}, eris.Wrapf(err, "parse list file %s", o.ListFile)
		}
		candidates = parsed
	} else if o.Criteria == "" {
		return pipeline.Request{}, eris.New("provide --criteria or --list-file")
	}

	return pipeline.Request{
		Criteria:          o.Criteria,
		Purpose:           o.Purpose,
		Tone:              o.Tone,
		Notes:             o.Notes,
		SubjectHint:       o.Subject,
		MaxCandidates:     o.MaxCandidates,
		Attachments:       o.Attach,
		Candidates:        candidates,
		ConfirmBeforeSend: !o.NoConfirm,
		Interactive:       !cfg.Webmail.Headless,
	}, nil
}

func init() {
	runCmd.Flags().StringVar(&runCriteria, "criteria", "", "search criteria for candidates (e.g. 'Seed-stage B2B SaaS in fintech')")
	runCmd.Flags().StringVar(&runListFile, "list-file", "", "path to a pipe-delimited candidate list file")
	runCmd.Flags().StringVar(&runPurpose, "purpose", "", "purpose of the outreach email")
	runCmd.Flags().StringVar(&runSubject, "subject", "", "subject hint for drafted emails")
	runCmd.Flags().StringVar(&runTone, "tone", "", "tone of the drafted emails")
	runCmd.Flags().StringVar(&runNotes, "notes", "", "extra notes woven into each draft")
	runCmd.Flags().IntVar(&runMaxCandidates, "max-candidates", 0, "cap on successful sends (0 = no cap, single pass)")
	runCmd.Flags().BoolVar(&runNoConfirm, "no-confirm", false, "send without asking for confirmation")
	runCmd.Flags().StringSliceVar(&runAttach, "attach", nil, "file to attach to every email (repeatable)")
	runCmd.Flags().BoolVar(&runHeadless, "headless", false, "run the browser headless (requires a valid saved session)")
	rootCmd.AddCommand(runCmd)
}
