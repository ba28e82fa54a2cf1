package domain

import (
	"fmt"
	"time"
)

// dayLayout is the canonical textual form of a calendar day.
const dayLayout = "2006-01-02"

// Day is a calendar day as a plain (year, month, day) triple. It carries no
// time zone: a Day means "this wall-clock day in whatever reference frame it
// was derived from", so two Days may only be compared when both were derived
// from the same frame. Puzzle schedules store frame-less Days; the only
// places an instant becomes a Day are DayOf call sites, which must name
// their frame explicitly.
type Day struct {
	Year  int
	Month time.Month
	Date  int
}

// DayOf extracts the calendar day an instant falls on when viewed in loc.
func DayOf(t time.Time, loc *time.Location) Day {
	year, month, date := t.In(loc).Date()
	return Day{Year: year, Month: month, Date: date}
}

// ParseDay parses the canonical YYYY-MM-DD form. Wrong arity, non-numeric
// fields, and out-of-range month or day all yield ErrMalformedDate.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	year, month, date := t.Date()
	return Day{Year: year, Month: month, Date: date}, nil
}

// String renders the canonical YYYY-MM-DD form; ParseDay(d.String()) == d.
func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Date)
}

// Equal reports field-wise equality. No conversion happens here: both
// operands are already plain triples.
func (d Day) Equal(o Day) bool {
	return d.Year == o.Year && d.Month == o.Month && d.Date == o.Date
}

// After reports whether d falls strictly after o, comparing (year, month,
// day) lexicographically. This is the comparison behind the future embargo.
func (d Day) After(o Day) bool {
	if d.Year != o.Year {
		return d.Year > o.Year
	}
	if d.Month != o.Month {
		return d.Month > o.Month
	}
	return d.Date > o.Date
}

// IsZero reports whether d is the zero value, i.e. never set.
func (d Day) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Date == 0
}

// UTC returns the instant at which d begins when read in UTC. Used only to
// encode a Day into a date column; never for day comparisons.
func (d Day) UTC() time.Time {
	return time.Date(d.Year, d.Month, d.Date, 0, 0, 0, 0, time.UTC)
}

// MarshalJSON encodes the canonical string form.
func (d Day) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes the canonical string form.
func (d *Day) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("%w: %s", ErrMalformedDate, data)
	}
	parsed, err := ParseDay(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
