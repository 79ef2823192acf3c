package commands

import (
	"log/slog"
	"time"
	"teaptrack-backend/lib/configutil"
	"teaptrack-backend/lib/scrapers/comet"
	"teaptrack-backend/lib/scrapers/comet/core"
	"teaptrack-backend/lib/snapshotstore"
	"teaptrack-backend/lib/timezone"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(scrapeCmd)
}

func watchProgress(sink *core.ChannelSink) {
	steps := 0
	for e := range sink.Events() {
		switch e.Kind {
		case core.EventStepCount:
			steps = e.Steps
		case core.EventStepIndex:
			slog.Info("progress", "step", e.Step, "of", steps)
		case core.EventPhase:
			slog.Info(e.Phase)
		case core.EventStatus:
			if e.Status != "" {
				slog.Warn(e.Status)
			}
		case core.EventURL:
			slog.Debug("fetching", "url", e.Url)
		}
	}
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Runs a full extraction against COMET and stores the snapshot.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configutil.ReadConfig[Config]("teaptrack.json5")
		if err != nil {
			return err
		}

		client, err := core.NewClient(cmd.Context(), core.ClientOptions{
			BaseUrl:            cfg.BaseUrl,
			SessionCookieName:  cfg.SessionCookieName,
			SessionCookieValue: cfg.SessionCookieValue,
		})
		if err != nil {
			return err
		}

		sink := core.NewChannelSink()
		go watchProgress(sink)
		defer sink.Close()

		scraper := comet.NewScraper(client, comet.Options{
			RetryBaseDelay: time.Duration(cfg.RetryBaseDelaySeconds) * time.Second,
			RequestDelay:   time.Duration(cfg.RequestDelaySeconds) * time.Second,
			Sink:           sink,
		})

		t1 := time.Now()
		ds, err := scraper.Run(cmd.Context())
		if err != nil {
			return err
		}
		slog.Info("extraction finished",
			"competencies", len(ds.Competencies),
			"seconds", time.Since(t1).Seconds(),
		)

		store, err := snapshotstore.Open(databasePath(cfg))
		if err != nil {
			return err
		}
		defer store.Close()

		err = store.Push(cmd.Context(), timezone.Now(), ds)
		if err != nil {
			return err
		}
		slog.Info("snapshot stored", "user_id", ds.Profile.UserID)
		return nil
	},
}

func databasePath(cfg Config) string {
	if cfg.Database == "" {
		return "teaptrack.db"
	}
	return cfg.Database
}
