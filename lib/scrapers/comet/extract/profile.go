package extract

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"
	"teaptrack-backend/lib/htmlutil"
	"teaptrack-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// Identity is the profile-page half of the registrar's profile data,
// the user id comes from the dashboard.
type Identity struct {
	Name      string
	StartDate time.Time
	// length of the program in whole years
	ProgramLength int
}

// ProfileLink finds the profile link on the dashboard and pulls the
// user id out of its query string.
func ProfileLink(doc *goquery.Document) (userID string, href string, err error) {
	for _, a := range doc.Find("a").Nodes {
		if !strings.Contains(htmlutil.GetText(a), "Profile") {
			continue
		}
		for _, attr := range a.Attr {
			if attr.Key == "href" {
				href = attr.Val
				break
			}
		}
		if href == "" {
			continue
		}
		link, err := url.Parse(href)
		if err != nil {
			return "", "", fmt.Errorf("malformed profile link %q: %w", href, err)
		}
		userID = link.Query().Get("id")
		if userID == "" {
			return "", "", fmt.Errorf("profile link %q carries no id", href)
		}
		return userID, href, nil
	}
	return "", "", fmt.Errorf("could not find a profile link on the dashboard")
}

func definitionValue(doc *goquery.Document, label string) (string, error) {
	var value string
	doc.Find("dt").EachWithBreak(func(_ int, dt *goquery.Selection) bool {
		if strings.TrimSpace(dt.Text()) != label {
			return true
		}
		value = dt.Parent().Find("dd").First().Text()
		return false
	})
	if value == "" {
		return "", fmt.Errorf("could not find %q on the profile page", label)
	}
	return value, nil
}

// Profile extracts the registrar's name and program dates from the
// profile page. The program length is the start-to-end span rounded
// to whole years.
func Profile(doc *goquery.Document) (Identity, error) {
	name := textutil.Squeeze(doc.Find("div.page-header-headings").Text())
	if name == "" {
		return Identity{}, fmt.Errorf("could not find the page header on the profile page")
	}

	startText, err := definitionValue(doc, "Program Start")
	if err != nil {
		return Identity{}, err
	}
	start, err := parseProfileDate(startText)
	if err != nil {
		return Identity{}, fmt.Errorf("program start: %w", err)
	}

	endText, err := definitionValue(doc, "Expected Program End Date")
	if err != nil {
		return Identity{}, err
	}
	end, err := parseProfileDate(endText)
	if err != nil {
		return Identity{}, fmt.Errorf("program end: %w", err)
	}

	years := int(math.Round(end.Sub(start).Hours() / 24 / 365))

	return Identity{
		Name:          name,
		StartDate:     start,
		ProgramLength: years,
	}, nil
}
