package record

import (
	"fmt"
	"strings"
	"time"
)

// Precision is the externally reported precision of an ImpreciseDate.
type Precision string

const (
	PrecisionYear  Precision = "year"
	PrecisionMonth Precision = "month"
	PrecisionDay   Precision = "day"
)

// referenceHour is used when no time of day is known, keeping the calendar date
// stable across local/UTC boundaries.
const referenceHour = 3

const utcSuffix = "+00:00"

// layouts by number of known components after the year.
var layouts = [...]string{
	"2006",
	"2006-01",
	"2006-01-02",
	"2006-01-02T15",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
}

// ImpreciseDate is a date known to year, month or day precision. Time of day may also
// be known, refining Time and ISO, but precision is never reported finer than day.
type ImpreciseDate struct {
	Time      time.Time // UTC; 03:00 when no time of day is known
	ISO       string    // e.g. "2014", "2014-03", "2014-03-20T14:05+00:00"
	Precision Precision
}

// NewImpreciseDate builds a date from a year and the known finer components, in order:
// zero-based month index, day, hour, minute, second. A component can only be given
// when every coarser component is given, so precision always cascades.
//
//	NewImpreciseDate(2014)           // 2014 (year)
//	NewImpreciseDate(2014, 2)        // 2014-03 (month)
//	NewImpreciseDate(2014, 2, 20, 9) // 2014-03-20T09+00:00 (day)
func NewImpreciseDate(year int, fields ...int) (ImpreciseDate, error) {
	if len(fields) > 5 {
		return ImpreciseDate{}, fmt.Errorf("%w: %d components after year, at most 5", ErrInvalidDate, len(fields))
	}
	if year < 0 || year > 9999 {
		return ImpreciseDate{}, fmt.Errorf("%w: year %d", ErrInvalidDate, year)
	}

	// month index, day, hour, minute, second
	values := [5]int{0, 1, referenceHour, 0, 0}
	limits := [5][2]int{{0, 11}, {1, 31}, {0, 23}, {0, 59}, {0, 59}}
	names := [5]string{"month index", "day", "hour", "minute", "second"}
	if len(fields) > 2 {
		values[2] = 0
	}
	for i, v := range fields {
		if v < limits[i][0] || v > limits[i][1] {
			return ImpreciseDate{}, fmt.Errorf("%w: %s %d", ErrInvalidDate, names[i], v)
		}
		values[i] = v
	}

	t := time.Date(year, time.Month(values[0]+1), values[1], values[2], values[3], values[4], 0, time.UTC)
	if t.Day() != values[1] {
		return ImpreciseDate{}, fmt.Errorf("%w: day %d not in %s %d", ErrInvalidDate, values[1], time.Month(values[0]+1), year)
	}

	iso := t.Format(layouts[len(fields)])
	if len(fields) > 2 {
		iso += utcSuffix
	}

	precision := PrecisionDay
	switch len(fields) {
	case 0:
		precision = PrecisionYear
	case 1:
		precision = PrecisionMonth
	}

	return ImpreciseDate{Time: t, ISO: iso, Precision: precision}, nil
}

// ParseImpreciseDate is the inverse of NewImpreciseDate.
// RFC 3339 timestamps with any offset are also accepted and normalised to UTC.
func ParseImpreciseDate(s string) (ImpreciseDate, error) {
	text := s
	timed := strings.HasSuffix(text, utcSuffix)
	if timed {
		text = strings.TrimSuffix(text, utcSuffix)
	}

	for n, layout := range layouts {
		if timed != (n > 2) {
			continue
		}
		t, err := time.Parse(layout, text)
		if err != nil {
			continue
		}
		return NewImpreciseDate(t.Year(), components(t, n)...)
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return NewImpreciseDate(t.Year(), components(t.UTC(), 5)...)
	}
	return ImpreciseDate{}, fmt.Errorf("%w: cannot parse %q", ErrInvalidDate, s)
}

// components returns the first n components of t after the year.
func components(t time.Time, n int) []int {
	all := []int{int(t.Month()) - 1, t.Day(), t.Hour(), t.Minute(), t.Second()}
	return all[:n]
}

// String returns the ISO text.
func (d ImpreciseDate) String() string { return d.ISO }

// MarshalText encodes the date as its ISO text, so dates serialise as plain strings in records.
func (d ImpreciseDate) MarshalText() ([]byte, error) { return []byte(d.ISO), nil }

// UnmarshalText parses ISO text produced by MarshalText.
func (d *ImpreciseDate) UnmarshalText(b []byte) error {
	parsed, err := ParseImpreciseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
