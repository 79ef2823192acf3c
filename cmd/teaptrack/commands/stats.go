package commands

import (
	"fmt"
	"teaptrack-backend/services/tracker"

	"github.com/spf13/cobra"
)

var electiveSlots *int

func init() {
	electiveSlots = statsCmd.Flags().Int(
		"elective-slots",
		tracker.DefaultElectiveSlotCount,
		"Elective competency slots excluded from completion percentages.",
	)
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints completion statistics for the latest snapshot.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, takenAt, err := loadLatest(cmd.Context())
		if err != nil {
			return err
		}
		s := tracker.Summarize(ds, tracker.StatsOptions{
			ElectiveSlotCount: *electiveSlots,
		})

		fmt.Printf("%s (snapshot from %s)\n", ds.Profile.Name, takenAt.Format("2006-01-02"))
		fmt.Printf("signed off:        %d [%.2f%%]\n", s.SignedOff, s.SignedOffPercent())
		fmt.Printf("partial:           %d [%.2f%%]\n", s.PartiallySignedOff, s.PartiallySignedOffPercent())
		fmt.Printf("untouched:         %d [%.2f%%]\n", s.Untouched, s.UntouchedPercent())
		fmt.Printf("awaiting grading:  %d [%.2f%%]\n", s.AwaitingGrading, s.AwaitingGradingPercent())
		if s.MeanGradingWait > 0 {
			fmt.Printf("mean grading wait: %.0f days\n", s.MeanGradingWait.Hours()/24)
		}
		return nil
	},
}
