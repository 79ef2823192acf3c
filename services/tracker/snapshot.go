package tracker

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
	"teaptrack-backend/lib/timezone"
)

const snapshotTimeLayout = "2006-01-02 15:04:05"

// Timestamp is a datetime in the persisted snapshot document,
// serialized as "YYYY-MM-DD HH:MM:SS".
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.In(timezone.Location).Format(snapshotTimeLayout))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.ParseInLocation(snapshotTimeLayout, s, timezone.Location)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// yearCount tolerates the program length being stored either as a
// number or as a numeric string, older snapshots have both.
type yearCount int

func (y yearCount) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(y))
}

func (y *yearCount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("program_length: %w", err)
	}
	*y = yearCount(n)
	return nil
}

type snapshotProfile struct {
	UserID        string     `json:"user_id"`
	Name          string     `json:"name"`
	StartDate     *Timestamp `json:"start_date"`
	ProgramLength yearCount  `json:"program_length"`
}

type snapshotCompetency struct {
	Name             string     `json:"name"`
	Score            float64    `json:"score"`
	Feedback         string     `json:"feedback"`
	Url              string     `json:"url"`
	SubmissionStatus string     `json:"submission_status"`
	GradingStatus    string     `json:"grading_status"`
	LastModifyDate   *Timestamp `json:"last_modify_date"`
	GradeDate        *Timestamp `json:"grade_date"`
	Assessor         string     `json:"assessor,omitempty"`
}

type snapshotPoints struct {
	Modules map[string]map[string]float64 `json:"modules"`
	Summary map[string]map[string]float64 `json:"summary"`
}

type snapshotPlan struct {
	Competencies []string          `json:"competencies"`
	Notes        map[string]string `json:"notes"`
	StartDate    *Timestamp        `json:"start_date,omitempty"`
	EndDate      *Timestamp        `json:"end_date,omitempty"`
}

type snapshotDocument struct {
	ProfileData  snapshotProfile      `json:"profile_data"`
	Competencies []snapshotCompetency `json:"competencies"`
	Points       snapshotPoints       `json:"points"`
	TrainingPlan *snapshotPlan        `json:"training_plan,omitempty"`
}

func toTimestamp(t *time.Time) *Timestamp {
	if t == nil {
		return nil
	}
	return &Timestamp{*t}
}

func fromTimestamp(t *Timestamp) *time.Time {
	if t == nil {
		return nil
	}
	out := t.Time
	return &out
}

// MarshalSnapshot serializes a dataset into the persisted snapshot
// document shape.
func MarshalSnapshot(ds *CompetencyDataset) ([]byte, error) {
	start := Timestamp{ds.Profile.StartDate}
	doc := snapshotDocument{
		ProfileData: snapshotProfile{
			UserID:        ds.Profile.UserID,
			Name:          ds.Profile.Name,
			StartDate:     &start,
			ProgramLength: yearCount(ds.Profile.ProgramLength),
		},
		Points: snapshotPoints{
			Modules: ds.Points.Modules,
			Summary: ds.Points.Summary,
		},
	}
	for _, c := range ds.Competencies {
		doc.Competencies = append(doc.Competencies, snapshotCompetency{
			Name:             c.Name,
			Score:            c.Score,
			Feedback:         c.Feedback,
			Url:              c.SourceUrl,
			SubmissionStatus: c.SubmissionStatus,
			GradingStatus:    c.GradingStatus,
			LastModifyDate:   toTimestamp(c.LastModified),
			GradeDate:        toTimestamp(c.GradeDate),
			Assessor:         c.Assessor,
		})
	}
	if ds.Plan != nil {
		doc.TrainingPlan = &snapshotPlan{
			Competencies: ds.Plan.Competencies,
			Notes:        ds.Plan.Notes,
			StartDate:    toTimestamp(ds.Plan.StartDate),
			EndDate:      toTimestamp(ds.Plan.EndDate),
		}
	}
	return json.MarshalIndent(doc, "", "    ")
}

// UnmarshalSnapshot parses a persisted snapshot document back into a
// dataset. The round trip through MarshalSnapshot is lossless.
func UnmarshalSnapshot(data []byte) (*CompetencyDataset, error) {
	var doc snapshotDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	ds := &CompetencyDataset{
		Profile: ProfileData{
			UserID:        doc.ProfileData.UserID,
			Name:          doc.ProfileData.Name,
			ProgramLength: int(doc.ProfileData.ProgramLength),
		},
		Points: ModulePointsSnapshot{
			Modules: doc.Points.Modules,
			Summary: doc.Points.Summary,
		},
	}
	if doc.ProfileData.StartDate != nil {
		ds.Profile.StartDate = doc.ProfileData.StartDate.Time
	}
	if ds.Points.Modules == nil {
		ds.Points.Modules = map[string]map[string]float64{}
	}
	if ds.Points.Summary == nil {
		ds.Points.Summary = map[string]map[string]float64{}
	}
	for _, c := range doc.Competencies {
		ds.Competencies = append(ds.Competencies, CompetencyRecord{
			Name:             c.Name,
			Score:            c.Score,
			Feedback:         c.Feedback,
			SourceUrl:        c.Url,
			SubmissionStatus: c.SubmissionStatus,
			GradingStatus:    c.GradingStatus,
			LastModified:     fromTimestamp(c.LastModifyDate),
			GradeDate:        fromTimestamp(c.GradeDate),
			Assessor:         c.Assessor,
		})
	}
	if doc.TrainingPlan != nil {
		ds.Plan = &TrainingPlan{
			Competencies: doc.TrainingPlan.Competencies,
			Notes:        doc.TrainingPlan.Notes,
			StartDate:    fromTimestamp(doc.TrainingPlan.StartDate),
			EndDate:      fromTimestamp(doc.TrainingPlan.EndDate),
		}
	}
	return ds, nil
}
