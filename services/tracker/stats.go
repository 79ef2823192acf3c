package tracker

import "time"

type StatsOptions struct {
	// Number of elective slots that can never all be completed
	// (module 8 offers more competencies than a registrar sits).
	// Excluded from the assessable total when computing percentages.
	ElectiveSlotCount int
}

const DefaultElectiveSlotCount = 6

// Summary is the headline completion statistics for a dataset.
type Summary struct {
	// competencies counted toward completion percentages
	Assessable         int
	SignedOff          int
	PartiallySignedOff int
	Untouched          int
	AwaitingGrading    int
	// mean time between upload and sign-off, 0 when nothing has both
	// dates
	MeanGradingWait time.Duration
}

func (s Summary) percent(n int) float64 {
	if s.Assessable == 0 {
		return 0
	}
	return float64(n) * 100 / float64(s.Assessable)
}

func (s Summary) SignedOffPercent() float64          { return s.percent(s.SignedOff) }
func (s Summary) PartiallySignedOffPercent() float64 { return s.percent(s.PartiallySignedOff) }
func (s Summary) UntouchedPercent() float64          { return s.percent(s.Untouched) }
func (s Summary) AwaitingGradingPercent() float64    { return s.percent(s.AwaitingGrading) }

// Summarize computes completion statistics over a dataset.
func Summarize(ds *CompetencyDataset, opts StatsOptions) Summary {
	var s Summary

	var totalWait time.Duration
	waits := 0
	for _, c := range ds.Competencies {
		switch {
		case c.Score == 1.0:
			s.SignedOff++
		case c.Score > 0 && c.Score < 1.0:
			s.PartiallySignedOff++
		}
		if c.SubmissionStatus == StatusSubmitted && c.GradingStatus == StatusNotGraded {
			s.AwaitingGrading++
		}
		if c.LastModified != nil && c.GradeDate != nil {
			totalWait += c.GradeDate.Sub(*c.LastModified)
			waits++
		}
	}

	s.Assessable = len(ds.Competencies) - opts.ElectiveSlotCount
	if s.Assessable < 0 {
		s.Assessable = 0
	}
	s.Untouched = s.Assessable - s.SignedOff - s.PartiallySignedOff
	if waits > 0 {
		s.MeanGradingWait = totalWait / time.Duration(waits)
	}

	return s
}
