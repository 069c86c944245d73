package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/pipeline"
	"github.com/sells-group/outreach-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start webhook server for outreach requests",
	Long:  "Accepts outreach requests over HTTP and runs them headless without confirmation prompts. Requires a valid saved webmail session.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// No human at the console to complete a login or approve sends.
		cfg.Webmail.Headless = true

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		mux := newServeMux(ctx, env.Pipeline, env.Store)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(context.Background())
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// webhookRequest is the POST /webhook/outreach payload.
type webhookRequest struct {
	Criteria      string `json:"criteria"`
	Purpose       string `json:"purpose"`
	Tone          string `json:"tone"`
	Notes         string `json:"notes"`
	MaxCandidates int    `json:"max_candidates"`
}

func newServeMux(ctx context.Context, p *pipeline.Pipeline, st store.Store) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /webhook/outreach", func(w http.ResponseWriter, r *http.Request) {
		var req webhookRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.Criteria == "" {
			http.Error(w, `{"error":"criteria is required"}`, http.StatusBadRequest)
			return
		}

		if req.Purpose == "" {
			req.Purpose = cfg.Outreach.Purpose
		}
		if req.Tone == "" {
			req.Tone = cfg.Outreach.Tone
		}

		// Run asynchronously; the run history store carries the outcome.
		go func() {
			report, err := p.Run(ctx, pipeline.Request{
				Criteria:      req.Criteria,
				Purpose:       req.Purpose,
				Tone:          req.Tone,
				Notes:         req.Notes,
				MaxCandidates: req.MaxCandidates,
			})
			if err != nil {
				zap.L().Error("webhook outreach failed",
					zap.String("criteria", req.Criteria),
					zap.Error(err),
				)
				return
			}
			zap.L().Info("webhook outreach complete",
				zap.String("criteria", req.Criteria),
				zap.Int("sent", len(report.Sent)),
			)
		}()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{
			"status":   "accepted",
			"criteria": req.Criteria,
		})
	})

	mux.HandleFunc("GET /runs", func(w http.ResponseWriter, r *http.Request) {
		runs, err := st.ListRuns(r.Context(), 100)
		if err != nil {
			http.Error(w, `{"error":"list runs failed"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(runs)
	})

	return mux
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
