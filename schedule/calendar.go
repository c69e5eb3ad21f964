// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package schedule

import (
	"fmt"
	"time"
)

const monthsPerYear = 12

// Months returns the number of calendar months completed between [from] and
// [to]. Month n completes at [from]'s day-of-month and clock time n months
// later; when that day does not exist the month's last day is used. Partial
// months are truncated.
func Months(from, to time.Time) (uint64, error) {
	from, to = from.UTC(), to.UTC()
	if to.Before(from) {
		return 0, fmt.Errorf("%w: %s is before %s", ErrInvalidTimeRange, to, from)
	}

	months := (to.Year()-from.Year())*monthsPerYear + int(to.Month()) - int(from.Month())
	if months > 0 && to.Before(addMonths(from, months)) {
		months--
	}
	return uint64(months), nil
}

// addMonths returns the instant [n] months after [t], clamping the day to the
// length of the target month.
func addMonths(t time.Time, n int) time.Time {
	offset := int(t.Month()) - 1 + n
	year := t.Year() + offset/monthsPerYear
	month := time.Month(offset%monthsPerYear + 1)
	day := min(t.Day(), daysIn(year, month))
	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
