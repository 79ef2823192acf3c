package commands

import (
	"context"
	"fmt"
	"os"
	"time"
	"teaptrack-backend/lib/configutil"
	"teaptrack-backend/lib/snapshotstore"
	"teaptrack-backend/lib/timezone"
	"teaptrack-backend/services/tracker"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var trackMonths *int

func init() {
	trackMonths = trackCmd.Flags().Int("months", 3, "Trailing window, in months, for the rate extrapolation.")
	rootCmd.AddCommand(trackCmd)
}

func loadLatest(ctx context.Context) (*tracker.CompetencyDataset, time.Time, error) {
	cfg, err := configutil.ReadConfig[Config]("teaptrack.json5")
	if err != nil {
		return nil, time.Time{}, err
	}
	store, err := snapshotstore.Open(databasePath(cfg))
	if err != nil {
		return nil, time.Time{}, err
	}
	defer store.Close()

	userID := cfg.UserID
	if userID == "" {
		users, err := store.Users(ctx)
		if err != nil {
			return nil, time.Time{}, err
		}
		if len(users) != 1 {
			return nil, time.Time{}, fmt.Errorf(
				"store has %d users, set user_id in the config to pick one", len(users),
			)
		}
		userID = users[0]
	}
	return store.Pull(ctx, userID)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}

var trackCmd = &cobra.Command{
	Use:   "track [--months <n>]",
	Short: "Prints the weighted tracking table for the latest snapshot.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, takenAt, err := loadLatest(cmd.Context())
		if err != nil {
			return err
		}
		rows := tracker.GenerateTracking(ds)
		now := timezone.Now()

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{
			"Competency", "Weight", "Weighted", "Submission", "Grading", "Uploaded", "Graded",
		})
		for _, row := range rows {
			t.AppendRow(table.Row{
				row.Name,
				fmt.Sprintf("%.3f", row.Weight),
				fmt.Sprintf("%.3f", row.WeightedScore),
				row.SubmissionStatus,
				row.GradingStatus,
				formatDate(row.LastModified),
				formatDate(row.GradeDate),
			})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()

		uploaded := tracker.UploadedCurve(rows, now)
		graded := tracker.GradedCurve(rows, now)
		fmt.Printf(
			"\nsnapshot from %s: uploaded %.1f points, graded %.1f points\n",
			takenAt.Format("2006-01-02"),
			tracker.ValueAt(uploaded, now),
			tracker.ValueAt(graded, now),
		)

		window := time.Duration(*trackMonths) * 4 * 7 * 24 * time.Hour
		projection := tracker.Extrapolate(uploaded, now, window)
		fmt.Printf(
			"trailing %d months: %.2f points/week uploaded\n",
			*trackMonths, projection.PointsPerWeek,
		)
		if expected := tracker.ExpectedCurve(ds.Profile); expected != nil {
			fmt.Printf(
				"expected by now: %.1f points\n",
				tracker.ValueAt(expected, now),
			)
		}
		return nil
	},
}
