package tracker

import (
	"sort"
	"strconv"
	"time"
)

// CurvePoint is one step of a right-continuous cumulative series.
type CurvePoint struct {
	Time  time.Time
	Value float64
}

func cumulative(rows []TrackingRow, at func(TrackingRow) *time.Time, value func(TrackingRow) float64, now time.Time) []CurvePoint {
	var kept []TrackingRow
	for _, r := range rows {
		if at(r) != nil {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return at(kept[i]).Before(*at(kept[j]))
	})

	curve := make([]CurvePoint, 0, len(kept)+1)
	total := 0.0
	for _, r := range kept {
		total += value(r)
		curve = append(curve, CurvePoint{Time: *at(r), Value: total})
	}
	// extend flat to now
	return append(curve, CurvePoint{Time: now, Value: total})
}

// UploadedCurve is the cumulative potential points of every
// competency with an uploaded artifact, stepped at upload time.
func UploadedCurve(rows []TrackingRow, now time.Time) []CurvePoint {
	return cumulative(
		rows,
		func(r TrackingRow) *time.Time {
			if r.SubmissionStatus == StatusNoAttempt {
				return nil
			}
			return r.LastModified
		},
		func(r TrackingRow) float64 { return r.MaxUploadedScore },
		now,
	)
}

// GradedCurve is the cumulative earned points of every graded
// competency, stepped at grading time.
func GradedCurve(rows []TrackingRow, now time.Time) []CurvePoint {
	return cumulative(
		rows,
		func(r TrackingRow) *time.Time {
			if r.GradingStatus != StatusGraded {
				return nil
			}
			return r.GradeDate
		},
		func(r TrackingRow) float64 { return r.WeightedScore },
		now,
	)
}

// ValueAt evaluates a step curve at t: the value of the last point at
// or before t, 0 before the first point.
func ValueAt(curve []CurvePoint, t time.Time) float64 {
	value := 0.0
	for _, p := range curve {
		if p.Time.After(t) {
			break
		}
		value = p.Value
	}
	return value
}

// Projection is a linear extrapolation of an uploaded curve from its
// trailing window.
type Projection struct {
	Now time.Time
	// curve value at Now
	Current float64
	// points gained per week over the window
	PointsPerWeek float64
}

const week = 7 * 24 * time.Hour

// Extrapolate fits a rate to the trailing window of a curve.
func Extrapolate(curve []CurvePoint, now time.Time, window time.Duration) Projection {
	current := ValueAt(curve, now)
	before := ValueAt(curve, now.Add(-window))
	weeks := float64(window) / float64(week)

	p := Projection{Now: now, Current: current}
	if weeks > 0 {
		p.PointsPerWeek = (current - before) / weeks
	}
	return p
}

// At projects the curve's value at a future time.
func (p Projection) At(t time.Time) float64 {
	weeks := float64(t.Sub(p.Now)) / float64(week)
	return p.Current + p.PointsPerWeek*weeks
}

// ExpectedCurve is the configured expected trajectory for a profile's
// program length, anchored at whole years from the program start. Nil
// when the program length has no configured trajectory.
func ExpectedCurve(profile ProfileData) []CurvePoint {
	anchors, ok := refData.ExpectedPoints[strconv.Itoa(profile.ProgramLength)]
	if !ok {
		return nil
	}
	curve := make([]CurvePoint, len(anchors))
	for i, points := range anchors {
		curve[i] = CurvePoint{
			Time:  profile.StartDate.AddDate(i, 0, 0),
			Value: points,
		}
	}
	return curve
}
