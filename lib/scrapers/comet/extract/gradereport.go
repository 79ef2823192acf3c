package extract

import (
	"fmt"
	"strconv"
	"strings"
	"teaptrack-backend/lib/htmlutil"
	"teaptrack-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// AssignmentRow is one gradable competency entry on a module's grade
// report.
type AssignmentRow struct {
	// hierarchical competency code, e.g. "3.2.1.4"
	Name     string
	Score    float64
	Feedback string
	// detail page for this competency
	SourceUrl string
}

// CategoryMean is a "Mean of grades" summary row.
type CategoryMean struct {
	Module   string
	Category string
	Score    float64
}

// WeightedMean is a "Weighted mean of grades" summary row.
type WeightedMean struct {
	Module   string
	Category string
	Score    float64
}

// GradeReport is everything recovered from one module's grade-report
// page.
type GradeReport struct {
	Assignments   []AssignmentRow
	Means         []CategoryMean
	WeightedMeans []WeightedMean
	// sum of the "NaturalCourse" total rows, informational only
	CourseTotal float64
}

type rowKind int

const (
	rowUnrecognized rowKind = iota
	rowAssignment
	rowCategoryMean
	rowWeightedMean
	rowCourseTotal
)

// rowMatchers are evaluated in priority order against the row text.
var rowMatchers = []struct {
	prefix string
	kind   rowKind
}{
	{"Assignment", rowAssignment},
	{"Mean of grades", rowCategoryMean},
	{"Weighted mean of grades", rowWeightedMean},
	{"NaturalCourse", rowCourseTotal},
}

func classifyRow(text string) rowKind {
	for _, m := range rowMatchers {
		if strings.HasPrefix(text, m.prefix) {
			return m.kind
		}
	}
	return rowUnrecognized
}

// parseScore maps the site's literal no-value marker "-" to zero, a
// zero score is never inferred any other way.
func parseScore(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "-" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// parseAssignmentRow parses the newline-joined text of an assignment
// row, e.g. "Assignment3.2.1.4\n-\nsome feedback". The leading
// "Assignment" is screen-reader boilerplate the site injects into the
// name cell.
func parseAssignmentRow(text string) (AssignmentRow, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "Assignment")

	fields := strings.Split(text, "\n")
	if len(fields) < 2 {
		return AssignmentRow{}, fmt.Errorf("assignment row has %d fields, want at least 2", len(fields))
	}
	score, err := parseScore(fields[1])
	if err != nil {
		return AssignmentRow{}, fmt.Errorf("assignment score: %w", err)
	}
	feedback := "N/A"
	if len(fields) > 2 {
		feedback = fields[2]
	}
	return AssignmentRow{
		Name:     strings.TrimSpace(fields[0]),
		Score:    score,
		Feedback: feedback,
	}, nil
}

func parseCategoryMeanRow(text string) (CategoryMean, error) {
	text = textutil.StripLabel(text, "Mean of grades")
	fields := strings.Split(text, "\n")
	if len(fields) < 2 {
		return CategoryMean{}, fmt.Errorf("mean-of-grades row has %d fields, want 2", len(fields))
	}
	score, err := parseScore(fields[1])
	if err != nil {
		return CategoryMean{}, fmt.Errorf("mean-of-grades score: %w", err)
	}

	path := strings.Split(fields[0], ".")
	category := strings.Join(path[:min(2, len(path))], ".")
	category = strings.ReplaceAll(category, " total", "")
	return CategoryMean{
		Module:   strings.TrimSpace(path[0]),
		Category: strings.TrimSpace(category),
		Score:    score,
	}, nil
}

func parseWeightedMeanRow(text string) (WeightedMean, error) {
	text = textutil.StripLabel(text, "Weighted mean of grades")
	text = strings.ReplaceAll(text, ". Include empty grades.", "")
	fields := strings.Split(text, "\n")
	if len(fields) < 2 {
		return WeightedMean{}, fmt.Errorf("weighted-mean row has %d fields, want 2", len(fields))
	}
	score, err := parseScore(fields[1])
	if err != nil {
		return WeightedMean{}, fmt.Errorf("weighted-mean score: %w", err)
	}

	category := strings.TrimSpace(strings.ReplaceAll(fields[0], "Competency ", ""))
	module, _, _ := strings.Cut(category, ".")
	return WeightedMean{
		Module:   strings.TrimSpace(module),
		Category: category,
		Score:    score,
	}, nil
}

func parseCourseTotalRow(text string) (float64, error) {
	fields := strings.Split(strings.TrimSpace(text), "\n")
	if len(fields) < 2 {
		return 0, fmt.Errorf("course-total row has %d fields, want 2", len(fields))
	}
	return parseScore(fields[1])
}

// ParseGradeReport walks the first table on a module's grade-report
// page and classifies every body row. The markup varies by module, so
// unrecognized rows are skipped rather than treated as failures, but a
// recognized row that fails to parse fails the whole page.
func ParseGradeReport(doc *goquery.Document) (GradeReport, error) {
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return GradeReport{}, fmt.Errorf("grade-report page has no table")
	}
	body := table.Find("tbody").First()
	if body.Length() == 0 {
		return GradeReport{}, fmt.Errorf("grade-report table has no body")
	}

	var report GradeReport
	var rowErr error
	body.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		text := strings.TrimSpace(htmlutil.CellLines(row))

		switch classifyRow(text) {
		case rowAssignment:
			assignment, err := parseAssignmentRow(text)
			if err != nil {
				rowErr = err
				return false
			}
			assignment.SourceUrl = row.Find("a").First().AttrOr("href", "")
			report.Assignments = append(report.Assignments, assignment)
		case rowCategoryMean:
			mean, err := parseCategoryMeanRow(text)
			if err != nil {
				rowErr = err
				return false
			}
			report.Means = append(report.Means, mean)
		case rowWeightedMean:
			mean, err := parseWeightedMeanRow(text)
			if err != nil {
				rowErr = err
				return false
			}
			report.WeightedMeans = append(report.WeightedMeans, mean)
		case rowCourseTotal:
			total, err := parseCourseTotalRow(text)
			if err != nil {
				rowErr = err
				return false
			}
			report.CourseTotal += total
		}
		return true
	})
	if rowErr != nil {
		return GradeReport{}, rowErr
	}

	return report, nil
}
