package coerce

import (
	"regexp"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
)

// Output layouts, in strftime notation.
const (
	DateLayout     = "%Y-%m-%d"
	DateTimeLayout = "%Y-%m-%d %H:%M:%S"
)

// dateLayouts are tried in order; the first full match wins. Day-first forms
// come before month-first ones, so "01/12/2018" is the first of December.
var dateLayouts = []string{
	"Mon Jan 2 15:04:05 2006",
	time.RFC3339,
	"2/1/2006 15:04:05",
	"2006-1-2 15:04:05",
	"2/1/2006 15:04",
	"2006-1-2 15:04",
	"2/1/2006",
	"1/2/2006",
	"2006-1-2",
	"2.1.2006",
	"20060102",
}

// dayMonthRe captures the two middle fields of a "Y-x-x H:i:s" time.
var dayMonthRe = regexp.MustCompile(`^([0-9]{4})-([0-9]{2})-([0-9]{2})( .*)$`)

var startedRe = regexp.MustCompile(`^[0-9]{4}-[0-9]{1,2}-[0-9]{1,2} [0-9]{1,2}:[0-9]{1,2}(:[0-9]{1,2})?$`)

// Date parses value with the known agent date formats and writes it with the
// strftime layout. Empty values, "0", "n/a" and "boot_time" (any case) report
// false. A value matching no known format is returned unchanged.
func Date(value, layout string) (string, bool) {
	if isNullDate(value) {
		return "", false
	}

	t, ok := parseDate(value)
	if !ok {
		return value, true
	}

	return strftime.Format(layout, t), true
}

// BootTime normalizes an operating system boot time to [DateTimeLayout].
//
// Some agents write boot times as year-day-month. The value is read that way
// only when it is not a valid year-month-day time, so a value where both
// readings are valid (day 12 or lower) keeps its year-month-day reading.
func BootTime(value string) (string, bool) {
	const ymd = "2006-01-02 15:04:05"

	if _, err := time.Parse(ymd, value); err != nil {
		swapped := dayMonthRe.ReplaceAllString(value, "$1-$3-$2$4")
		if t, err := time.Parse(ymd, swapped); err == nil {
			value = t.Format(ymd)
		}
	}

	return Date(value, DateTimeLayout)
}

// DateTime validates a process start time in "Y-m-d H:i[:s]" form and
// rewrites it as [DateTimeLayout]. Anything else reports false.
func DateTime(value string) (string, bool) {
	if !startedRe.MatchString(value) {
		return "", false
	}

	for _, layout := range []string{"2006-1-2 15:4:5", "2006-1-2 15:4"} {
		if t, err := time.Parse(layout, value); err == nil {
			return strftime.Format(DateTimeLayout, t), true
		}
	}

	return "", false
}

func parseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func isNullDate(value string) bool {
	switch strings.ToLower(value) {
	case "", "0", "n/a", "boot_time":
		return true
	}

	return false
}
