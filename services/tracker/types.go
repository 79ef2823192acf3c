package tracker

import "time"

// Well-known status values. Both statuses are otherwise free text
// lifted straight from the site.
const (
	StatusNoAttempt = "No attempt"
	StatusSubmitted = "Submitted"
	StatusInvalid   = "Invalid"
	StatusGraded    = "Graded"
	StatusNotGraded = "Not graded"
)

// ProfileData identifies the registrar and their program. StartDate
// and ProgramLength may be overridden by the caller with previously
// stored values, the site's own fields are occasionally wrong.
type ProfileData struct {
	UserID    string
	Name      string
	StartDate time.Time
	// length of the program in whole years
	ProgramLength int
}

// CompetencyRecord is one gradable curriculum item. It is created
// from a module grade-report row and enriched in place by the detail
// pass.
type CompetencyRecord struct {
	// hierarchical code, e.g. "3.2.1.4"
	Name     string
	Score    float64
	Feedback string
	// detail page url
	SourceUrl        string
	SubmissionStatus string
	GradingStatus    string
	LastModified     *time.Time
	GradeDate        *time.Time
	Assessor         string
}

// ModulePointsSnapshot holds the per-category mean rows scraped from
// the grade reports, keyed by module then category. Used for
// cross-checking only.
type ModulePointsSnapshot struct {
	// raw mean of grades
	Modules map[string]map[string]float64
	// weighted mean of grades
	Summary map[string]map[string]float64
}

func NewModulePointsSnapshot() ModulePointsSnapshot {
	return ModulePointsSnapshot{
		Modules: map[string]map[string]float64{},
		Summary: map[string]map[string]float64{},
	}
}

func setPoint(m map[string]map[string]float64, module, category string, score float64) {
	inner, ok := m[module]
	if !ok {
		inner = map[string]float64{}
		m[module] = inner
	}
	inner[category] = score
}

func (s ModulePointsSnapshot) SetModuleMean(module, category string, score float64) {
	setPoint(s.Modules, module, category, score)
}

func (s ModulePointsSnapshot) SetSummaryMean(module, category string, score float64) {
	setPoint(s.Summary, module, category, score)
}

// TrainingPlan is caller-owned planning state carried through the
// persisted snapshot untouched.
type TrainingPlan struct {
	Competencies []string
	Notes        map[string]string
	StartDate    *time.Time
	EndDate      *time.Time
}

// CompetencyDataset is the aggregate root produced by one extraction
// run (or loaded from a persisted snapshot). Immutable after
// construction apart from the two profile overrides and the plan.
type CompetencyDataset struct {
	Profile      ProfileData
	Competencies []CompetencyRecord
	Points       ModulePointsSnapshot
	Plan         *TrainingPlan
}
