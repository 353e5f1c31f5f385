package catalog

import (
	"regexp"
	"strconv"
	"time"
)

// dayMonth matches D.M. / DD.MM. with an optional trailing dot
var dayMonth = regexp.MustCompile(`(\d{1,2})\.(\d{1,2})\.?`)

// ExtractStartDate finds the first day.month pair in text and turns it into a
// date. The year is today's, or the following one when the month lies before
// today's month (a January catalog scraped in December).
func ExtractStartDate(text string, today time.Time) (time.Time, bool) {
	m := dayMonth.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(m[2])
	if err != nil {
		return time.Time{}, false
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	year := today.Year()
	if month < int(today.Month()) {
		year++
	}

	// time.Date normalises 31.02 into March; reject anything that moved
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || int(d.Month()) != month {
		return time.Time{}, false
	}
	return d, true
}
