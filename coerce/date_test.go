package coerce_test

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"go.jacobcolvin.com/invconv/coerce"
	"go.jacobcolvin.com/invconv/document"
)

func TestDate(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		in   string
		want string
		ok   bool
	}{
		"iso":             {in: "2018-01-12", want: "2018-01-12", ok: true},
		"day first":       {in: "01/12/2018", want: "2018-12-01", ok: true},
		"month first":     {in: "01/15/2018", want: "2018-01-15", ok: true},
		"compact":         {in: "20201207", want: "2020-12-07", ok: true},
		"dotted":          {in: "03.04.2020", want: "2020-04-03", ok: true},
		"rfc3339":         {in: "2014-05-13T00:00:00Z", want: "2014-05-13", ok: true},
		"american":        {in: "Thu Mar 14 15:05:41 2013", want: "2013-03-14", ok: true},
		"with time":       {in: "2020-04-03 10:12", want: "2020-04-03", ok: true},
		"unknown format":  {in: "sometime in 2019", want: "sometime in 2019", ok: true},
		"empty":           {in: ""},
		"zero":            {in: "0"},
		"n/a":             {in: "N/A"},
		"boot_time":       {in: "BOOT_TIME"},
		"unpadded":        {in: "2020-4-3", want: "2020-04-03", ok: true},
		"day first time":  {in: "25/12/2020 08:30:00", want: "2020-12-25", ok: true},
		"impossible date": {in: "31/02/2020", want: "31/02/2020", ok: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, ok := coerce.Date(tc.in, coerce.DateLayout)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBootTime(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		in   string
		want string
	}{
		"year day month":      {in: "2022-21-09 05:21:23", want: "2022-09-21 05:21:23"},
		"year month day":      {in: "2022-09-21 05:21:23", want: "2022-09-21 05:21:23"},
		"ambiguous":           {in: "2022-10-04 05:21:23", want: "2022-10-04 05:21:23"},
		"day first":           {in: "04/10/2022 05:21:23", want: "2022-10-04 05:21:23"},
		"invalid either way":  {in: "2022-31-31 05:21:23", want: "2022-31-31 05:21:23"},
		"year day month leap": {in: "2024-29-02 00:00:00", want: "2024-02-29 00:00:00"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, ok := coerce.BootTime(tc.in)
			assert.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}

	_, ok := coerce.BootTime("boot_time")
	assert.False(t, ok)
}

func TestDateTime(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		in   string
		want string
		ok   bool
	}{
		"no seconds":    {in: "2022-1-5 9:03", want: "2022-01-05 09:03:00", ok: true},
		"full":          {in: "2022-01-05 09:03:07", want: "2022-01-05 09:03:07", ok: true},
		"invalid month": {in: "2022-13-05 09:03"},
		"time only":     {in: "09:03"},
		"ps style":      {in: "Jan05"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, ok := coerce.DateTime(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDateRoundTrip(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		layout string
		minDay int
		timed  bool
	}{
		"american":      {layout: "Mon Jan 2 15:04:05 2006", minDay: 1, timed: true},
		"rfc3339":       {layout: time.RFC3339, minDay: 1, timed: true},
		"day first":     {layout: "02/01/2006", minDay: 1},
		"day first hms": {layout: "2/1/2006 15:04:05", minDay: 1, timed: true},
		"iso hms":       {layout: "2006-01-02 15:04:05", minDay: 1, timed: true},
		"iso":           {layout: "2006-01-02", minDay: 1},
		"dotted":        {layout: "2.1.2006", minDay: 1},
		"compact":       {layout: "20060102", minDay: 1},
		// Month-first values only reach their own layout when the day cannot
		// be a month.
		"month first": {layout: "01/02/2006", minDay: 13},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			parameters := gopter.DefaultTestParameters()
			parameters.MinSuccessfulTests = 200
			properties := gopter.NewProperties(parameters)

			properties.Property("formatted dates parse back", prop.ForAll(
				func(year, month, day, secs int) bool {
					d := time.Date(year, time.Month(month), day, 0, 0, secs, 0, time.UTC)

					layout := coerce.DateLayout
					want := d.Format("2006-01-02")

					if tc.timed {
						layout = coerce.DateTimeLayout
						want = d.Format("2006-01-02 15:04:05")
					}

					got, ok := coerce.Date(d.Format(tc.layout), layout)

					return ok && got == want
				},
				gen.IntRange(1971, 2037),
				gen.IntRange(1, 12),
				gen.IntRange(tc.minDay, 28),
				gen.IntRange(0, 86399),
			))

			properties.TestingRun(t)
		})
	}
}

func TestDateSentinels(t *testing.T) {
	t.Parallel()

	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("sentinels are absent in any case", prop.ForAll(
		func(s string, upper bool) bool {
			if upper {
				s = strings.ToUpper(s)
			}

			_, ok := coerce.Date(s, coerce.DateLayout)

			return !ok
		},
		gen.OneConstOf("", "n/a", "N/a", "boot_time", "Boot_Time", "0"),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestCastProperties(t *testing.T) {
	t.Parallel()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("CastBool is total", prop.ForAll(
		func(s string) bool {
			got := coerce.CastBool(document.String(s))

			return bool(got) == (s != "" && s != "0")
		},
		gen.AnyString(),
	))

	properties.Property("CastInt round-trips integers", prop.ForAll(
		func(i int64) bool {
			got, ok := coerce.CastInt(document.String(strconv.FormatInt(i, 10)))

			return ok && int64(got) == i
		},
		gen.Int64(),
	))

	properties.Property("CastInt rejects non-numeric text", prop.ForAll(
		func(s string) bool {
			_, ok := coerce.CastInt(document.String(s))

			return !ok
		},
		gen.AlphaString(),
	))

	properties.Property("BatteryPower accepts decimal Wh", prop.ForAll(
		func(mwh int64) bool {
			in := strconv.FormatFloat(float64(mwh)/1000, 'f', 3, 64) + " Wh"
			got, ok := coerce.BatteryPower(document.String(in))

			return ok && int64(got) == mwh
		},
		gen.Int64Range(0, 1_000_000),
	))

	properties.TestingRun(t)
}
