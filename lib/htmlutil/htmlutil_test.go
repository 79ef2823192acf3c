package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{input: "  hello   world  ", expected: "hello world"},
		{input: "line\none", expected: "lineone"},
		{input: "tab\there", expected: "tabhere"},
	}
	for _, test := range testCases {
		require.Equal(t, test.expected, CleanText(test.input), test.input)
	}
}

func TestGetAnchors(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<html><body><a href="/one">  First   Link </a><a>no href</a></body></html>`,
	))
	require.NoError(t, err)

	anchors := GetAnchors(doc.Find("a"))
	require.Equal(t, []Anchor{
		{Name: "First Link", Href: "/one"},
		{Name: "no href", Href: ""},
	}, anchors)
}

func TestCellLines(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
<html><body><table><tbody>
	<tr>
		<th> <span>Assignment</span>3.2.1.4 </th>
		<td>-</td>
		<td></td>
	</tr>
</tbody></table></body></html>`))
	require.NoError(t, err)

	row := doc.Find("tr").First()
	require.Equal(t, "Assignment3.2.1.4\n-\n", CellLines(row))
}
