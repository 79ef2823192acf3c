package extract

import (
	"strings"
	"time"
	"teaptrack-backend/lib/timezone"
)

const (
	// e.g. "14 February 2022" on the profile page
	profileDateLayout = "2 January 2006"
	// e.g. "Monday, 4 March 2024, 2:15 PM" in detail tables
	detailTimeLayout = "Monday, 2 January 2006, 3:04 PM"
)

func parseProfileDate(s string) (time.Time, error) {
	return time.ParseInLocation(profileDateLayout, strings.TrimSpace(s), timezone.Location)
}

// parseDetailTime parses a detail-table timestamp. The literal "-" is
// the site's marker for no value and maps to nil.
func parseDetailTime(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "-" {
		return nil, nil
	}
	t, err := time.ParseInLocation(detailTimeLayout, s, timezone.Location)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
