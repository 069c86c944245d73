package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/webmail"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Establish and save a webmail session",
	Long:  "Opens a headed browser at the configured mail URL, waits for you to complete login, and saves the session snapshot for later headless runs.",
	RunE: func(cmd *cobra.Command, args []string) error {
		webmailCfg := cfg.Webmail
		webmailCfg.Headless = false

		if err := webmail.Ensure(cmd.Context(), webmailCfg); err != nil {
			return eris.Wrap(err, "webmail login")
		}

		zap.L().Info("session saved", zap.String("path", webmailCfg.SessionPath))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
