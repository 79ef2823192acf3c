package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Australia/Sydney")
	if err != nil {
		panic(err)
	}
}

// The LMS renders every timestamp in Australian local time with no
// zone marker, so all parsed dates are pinned here rather than to
// wherever the process happens to run.
func Now() time.Time {
	return time.Now().In(Location)
}
