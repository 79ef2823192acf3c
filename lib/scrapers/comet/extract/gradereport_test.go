package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func doc(t *testing.T, page string) *goquery.Document {
	d, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	return d
}

func TestParseAssignmentRow(t *testing.T) {
	testCases := []struct {
		text     string
		expected AssignmentRow
	}{
		{
			text: "Assignment3.2.1.4\n-\n",
			expected: AssignmentRow{
				Name:     "3.2.1.4",
				Score:    0,
				Feedback: "N/A",
			},
		},
		{
			text: "Assignment2.4.2.1\n0.75\nGood work, resubmit section 2.",
			expected: AssignmentRow{
				Name:     "2.4.2.1",
				Score:    0.75,
				Feedback: "Good work, resubmit section 2.",
			},
		},
		{
			text: "Assignment1.1.1.1\n1.00",
			expected: AssignmentRow{
				Name:     "1.1.1.1",
				Score:    1,
				Feedback: "N/A",
			},
		},
	}

	for _, test := range testCases {
		row, err := parseAssignmentRow(test.text)
		require.NoError(t, err, test.text)
		diff := cmp.Diff(test.expected, row)
		if diff != "" {
			t.Fatal(diff)
		}
	}
}

func TestParseAssignmentRowBadScore(t *testing.T) {
	_, err := parseAssignmentRow("Assignment3.2.1.4\nnot a number\n")
	require.Error(t, err)
}

func TestParseCategoryMeanRow(t *testing.T) {
	mean, err := parseCategoryMeanRow("Mean of grades 3.2 total\n0.8")
	require.NoError(t, err)
	require.Equal(t, CategoryMean{
		Module:   "3",
		Category: "3.2",
		Score:    0.8,
	}, mean)
}

func TestParseWeightedMeanRow(t *testing.T) {
	mean, err := parseWeightedMeanRow(
		"Weighted mean of grades. Include empty grades. Competency 3.2\n0.75",
	)
	require.NoError(t, err)
	require.Equal(t, WeightedMean{
		Module:   "3",
		Category: "3.2",
		Score:    0.75,
	}, mean)
}

const gradeReportPage = `
<html><body>
<table>
	<tbody>
		<tr>
			<th><span class="sr-only">Assignment</span><a href="/mod/assign/view.php?id=900">3.2.1.4</a></th>
			<td>-</td>
			<td></td>
		</tr>
		<tr>
			<th><span class="sr-only">Assignment</span><a href="/mod/assign/view.php?id=901">3.2.2.1</a></th>
			<td>0.5</td>
			<td>Keep going.</td>
		</tr>
		<tr>
			<th>Some header row the site injects</th>
			<td>ignored</td>
		</tr>
		<tr>
			<th>Mean of grades 3.2 total</th>
			<td>0.25</td>
		</tr>
		<tr>
			<th>Weighted mean of grades. Include empty grades. Competency 3.2</th>
			<td>0.2</td>
		</tr>
		<tr>
			<th>NaturalCourse total</th>
			<td>12.5</td>
		</tr>
	</tbody>
</table>
</body></html>`

func TestParseGradeReport(t *testing.T) {
	report, err := ParseGradeReport(doc(t, gradeReportPage))
	require.NoError(t, err)

	diff := cmp.Diff(GradeReport{
		Assignments: []AssignmentRow{
			{
				Name:      "3.2.1.4",
				Score:     0,
				Feedback:  "N/A",
				SourceUrl: "/mod/assign/view.php?id=900",
			},
			{
				Name:      "3.2.2.1",
				Score:     0.5,
				Feedback:  "Keep going.",
				SourceUrl: "/mod/assign/view.php?id=901",
			},
		},
		Means: []CategoryMean{
			{Module: "3", Category: "3.2", Score: 0.25},
		},
		WeightedMeans: []WeightedMean{
			{Module: "3", Category: "3.2", Score: 0.2},
		},
		CourseTotal: 12.5,
	}, report)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestParseGradeReportNoTable(t *testing.T) {
	_, err := ParseGradeReport(doc(t, `<html><body><p>nothing here</p></body></html>`))
	require.Error(t, err)
}
