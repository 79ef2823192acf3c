package extract

import (
	"strings"
	"time"
	"teaptrack-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// Statuses recorded when a detail page cannot be read. Submission and
// grading statuses are otherwise free text lifted from the page.
const (
	StatusInvalid   = "Invalid"
	StatusSubmitted = "Submitted"
	StatusNoAttempt = "No attempt"
	StatusGraded    = "Graded"
	StatusNotGraded = "Not graded"
)

// Detail is the per-competency data scraped from its detail page.
type Detail struct {
	SubmissionStatus string
	GradingStatus    string
	LastModified     *time.Time
	GradeDate        *time.Time
	Assessor         string
}

// layoutVariant captures the module-6 page divergence: those detail
// pages describe the competency in plain text instead of a leading
// table, shifting every table index down by one.
type layoutVariant int

const (
	layoutStandard layoutVariant = iota
	layoutModuleSix
)

func layoutFor(code string) layoutVariant {
	if strings.HasPrefix(code, "6") {
		return layoutModuleSix
	}
	return layoutStandard
}

func (v layoutVariant) submissionTableIndex() int {
	if v == layoutModuleSix {
		return 0
	}
	return 1
}

func (v layoutVariant) gradingTableIndex() int {
	return v.submissionTableIndex() + 1
}

// tableRows returns the body rows of the idx-th table on the page.
func tableRows(doc *goquery.Document, idx int) *goquery.Selection {
	return doc.Find("table").Eq(idx).Find("tbody").First().Find("tr")
}

// rowValue returns the value cell of a label/value detail row.
func rowValue(rows *goquery.Selection, idx int) (string, bool) {
	if idx >= rows.Length() {
		return "", false
	}
	fields := strings.Split(strings.TrimSpace(htmlutil.CellLines(rows.Eq(idx))), "\n")
	if len(fields) < 2 {
		return "", false
	}
	return strings.TrimSpace(fields[1]), true
}

// submissionTriple reads the submission-status table. Any shortfall in
// the expected shape degrades the whole triple to Invalid/absent, the
// markup genuinely varies per module and a broken page must not kill
// the run.
func submissionTriple(doc *goquery.Document, variant layoutVariant) (submission, grading string, lastModified *time.Time) {
	rows := tableRows(doc, variant.submissionTableIndex())

	offset := 0
	if rows.Length() > 0 && strings.Contains(rows.Eq(0).Text(), "Attempt number") {
		offset = 1
	}

	submission, ok := rowValue(rows, 0+offset)
	if !ok {
		return StatusInvalid, StatusInvalid, nil
	}
	grading, ok = rowValue(rows, 1+offset)
	if !ok {
		return StatusInvalid, StatusInvalid, nil
	}
	timeText, ok := rowValue(rows, 2+offset)
	if !ok {
		return StatusInvalid, StatusInvalid, nil
	}
	lastModified, err := parseDetailTime(timeText)
	if err != nil {
		return StatusInvalid, StatusInvalid, nil
	}

	return submission, grading, lastModified
}

// gradingPair reads the grading table. A missing or short table means
// the competency simply has not been graded, both fields stay absent.
func gradingPair(doc *goquery.Document, variant layoutVariant) (gradeDate *time.Time, assessor string) {
	rows := tableRows(doc, variant.gradingTableIndex())

	timeText, ok := rowValue(rows, 1)
	if !ok {
		return nil, ""
	}
	gradeDate, err := parseDetailTime(timeText)
	if err != nil {
		return nil, ""
	}
	assessor, ok = rowValue(rows, 2)
	if !ok {
		return nil, ""
	}
	return gradeDate, assessor
}

// ParseDetail reads a competency's detail page. It never fails:
// unreadable sections degrade to Invalid statuses and absent dates.
func ParseDetail(doc *goquery.Document, code string) Detail {
	variant := layoutFor(code)

	var d Detail
	d.SubmissionStatus, d.GradingStatus, d.LastModified = submissionTriple(doc, variant)
	d.GradeDate, d.Assessor = gradingPair(doc, variant)

	// An item cannot be accepted for credit before it was submitted.
	// When the two disagree the grading event is the more trustworthy
	// submission signal.
	if d.GradeDate != nil && d.LastModified != nil && d.GradeDate.Before(*d.LastModified) {
		d.LastModified = d.GradeDate
	}
	// Signed off without an uploaded artifact.
	if d.GradeDate != nil && d.LastModified == nil {
		d.LastModified = d.GradeDate
		d.SubmissionStatus = StatusSubmitted
	}

	return d
}
