// Package coerce converts loosely typed inventory values into the types and
// units of the canonical format.
//
// Every function is pure. Conversions that cannot produce a meaningful value
// report false instead of returning a zero value, and callers remove the
// field.
//
// [CastBool] never fails: everything except "", "0", false and numeric zero
// is true, including text such as "no" or "disabled".
package coerce

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/docker/go-units"

	"go.jacobcolvin.com/invconv/document"
)

var (
	numericRe = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

	powerWhRe    = regexp.MustCompile(`(?i)^([0-9]+(\.[0-9]+)?) Wh$`)
	powerMWhRe   = regexp.MustCompile(`(?i)^([0-9]+) mWh$`)
	digitsRe     = regexp.MustCompile(`^[0-9]+$`)
	zeroDecimals = regexp.MustCompile(`^([0-9]+)\.0+$`)

	voltageVRe  = regexp.MustCompile(`(?i)^([0-9]+(\.[0-9]+)?) ?V$`)
	voltageMVRe = regexp.MustCompile(`(?i)^([0-9]+) mV$`)

	memoryRe = regexp.MustCompile(`(?i)^([0-9]+([.,][0-9])?) ?(.?B)$`)
)

// CastBool returns the truthiness of v. Only "", "0", false, numeric zero and
// empty objects or lists are false.
func CastBool(v document.Value) document.Bool {
	switch x := v.(type) {
	case document.Bool:
		return x
	case document.String:
		return x != "" && x != "0"
	case document.Int:
		return x != 0
	case document.Float:
		return x != 0
	case document.List:
		return len(x) > 0
	case *document.Object:
		return x.Len() > 0
	}

	return false
}

// CastInt returns v as an integer when it is numeric and has no fractional
// part. Surrounding whitespace is ignored; decimal and exponent forms are
// accepted when they are integral ("10.0", "1e3").
func CastInt(v document.Value) (document.Int, bool) {
	if i, ok := v.(document.Int); ok {
		return i, true
	}

	s, ok := document.Text(v)
	if !ok {
		return 0, false
	}

	s = strings.TrimSpace(s)
	if !numericRe.MatchString(s) {
		return 0, false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return document.Int(i), true
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}

	return document.Int(int64(f)), true
}

// BatteryPower converts a battery capacity or power to milliwatt-hours.
//
// Accepted forms are integers, "<n> Wh" with an optional decimal part,
// "<n> mWh", digit strings and "<n>.0". Units are case-insensitive.
func BatteryPower(v document.Value) (document.Int, bool) {
	if i, ok := v.(document.Int); ok {
		return i, true
	}

	s, ok := document.Text(v)
	if !ok {
		return 0, false
	}

	if m := powerWhRe.FindStringSubmatch(s); m != nil {
		return milli(m[1])
	}

	if m := powerMWhRe.FindStringSubmatch(s); m != nil {
		return atoi(m[1])
	}

	if digitsRe.MatchString(s) {
		return atoi(s)
	}

	if m := zeroDecimals.FindStringSubmatch(s); m != nil {
		return atoi(m[1])
	}

	return 0, false
}

// BatteryVoltage converts a voltage to millivolts.
//
// Accepted forms are "<n> V" and "<n>V" with an optional decimal part,
// "<n> mV" and digit strings. Units are case-insensitive.
func BatteryVoltage(v document.Value) (document.Int, bool) {
	s, ok := document.Text(v)
	if !ok {
		return 0, false
	}

	if m := voltageVRe.FindStringSubmatch(s); m != nil {
		return milli(m[1])
	}

	if m := voltageMVRe.FindStringSubmatch(s); m != nil {
		return atoi(m[1])
	}

	if digitsRe.MatchString(s) {
		return atoi(s)
	}

	return 0, false
}

// Memory converts a memory size to mebibytes.
//
// Integer values are assumed to be mebibytes already and pass through. Sizes
// with a unit ("2048 Mb", "2.0Gb", "2097152Kb", "512b") use binary multiples
// and are rounded to the nearest mebibyte. A comma decimal separator is
// accepted.
func Memory(v document.Value) (document.Int, bool) {
	if i, ok := CastInt(v); ok {
		return i, true
	}

	s, ok := document.Text(v)
	if !ok {
		return 0, false
	}

	m := memoryRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}

	unit := strings.ToLower(m[3])
	switch unit {
	case "b", "kb", "mb", "gb", "tb", "pb":
	default:
		return 0, false
	}

	bytes, err := units.RAMInBytes(strings.Replace(m[1], ",", ".", 1) + unit)
	if err != nil {
		return 0, false
	}

	return document.Int(math.Round(float64(bytes) / units.MiB)), true
}

// SplitPCIID splits a "vendor:product" identifier. Missing parts are empty.
func SplitPCIID(id string) (vendor, product string) {
	vendor, product, _ = strings.Cut(id, ":")

	return vendor, product
}

func milli(number string) (document.Int, bool) {
	f, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, false
	}

	return document.Int(math.Round(f * 1000)), true
}

func atoi(s string) (document.Int, bool) {
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}

	return document.Int(i), true
}
