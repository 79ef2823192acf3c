package commands

import (
	"context"
	"fmt"
	"os"
	"teaptrack-backend/lib/telemetry"

	"github.com/spf13/cobra"
)

var verbose *bool

var rootCmd = &cobra.Command{
	Use:   "teaptrack",
	Short: "teaptrack scrapes TEAP competency progress off COMET and tracks it over time.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.SetupSlog(*verbose)
	},
}

func init() {
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Config is the CLI configuration, read from teaptrack.json5 with
// optional teaptrack.local.json5 overrides.
type Config struct {
	BaseUrl string `json:"base_url"`
	// an authenticated LMS session cookie, login is handled outside
	// this tool
	SessionCookieName     string `json:"session_cookie_name"`
	SessionCookieValue    string `json:"session_cookie_value"`
	Database              string `json:"database"`
	UserID                string `json:"user_id"`
	RequestDelaySeconds   int    `json:"request_delay_seconds"`
	RetryBaseDelaySeconds int    `json:"retry_base_delay_seconds"`
}
