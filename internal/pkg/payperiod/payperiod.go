package payperiod

import (
	"errors"
	"time"
)

const dateLayout = "2006-01-02"

var (
	ErrInvalidLength = errors.New("pay period length must be positive")
	ErrInvalidIndex  = errors.New("pay period index must not be negative")
)

// Period is a fixed-length window of whole days. Start is midnight of the
// first day and End is the last instant of the last day, both inclusive.
type Period struct {
	Index int
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside [Start, End].
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// StartDate returns the first day as YYYY-MM-DD.
func (p Period) StartDate() string {
	return p.Start.Format(dateLayout)
}

// EndDate returns the last day as YYYY-MM-DD.
func (p Period) EndDate() string {
	return p.End.Format(dateLayout)
}

func (p Period) IsCurrent() bool {
	return p.Index == 0
}

// Calculator derives pay periods from an anchor date. Periods repeat every
// Length days in both directions from the anchor.
type Calculator struct {
	anchor   civilDate
	length   int
	location *time.Location
	now      func() time.Time
}

type Option func(*Calculator)

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) {
		c.now = now
	}
}

// NewCalculator builds a calculator. Only the calendar date of anchor is
// used, read in loc.
func NewCalculator(anchor time.Time, lengthDays int, loc *time.Location, opts ...Option) (*Calculator, error) {
	if lengthDays <= 0 {
		return nil, ErrInvalidLength
	}
	if loc == nil {
		loc = time.UTC
	}
	c := &Calculator{
		anchor:   dateOf(anchor.In(loc)),
		length:   lengthDays,
		location: loc,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Location is the zone that defines calendar days.
func (c *Calculator) Location() *time.Location {
	return c.location
}

// Period returns the period index steps back from the current one. Index 0
// is the period containing today.
func (c *Calculator) Period(index int) (Period, error) {
	if index < 0 {
		return Period{}, ErrInvalidIndex
	}

	today := dateOf(c.now().In(c.location))
	elapsed := today.daysSince(c.anchor)
	offset := floorDiv(elapsed, c.length) - index

	first := c.anchor.addDays(offset * c.length)
	last := first.addDays(c.length - 1)

	return Period{
		Index: index,
		Start: first.startIn(c.location),
		End:   last.addDays(1).startIn(c.location).Add(-time.Nanosecond),
	}, nil
}

// Periods returns count periods, most recent first.
func (c *Calculator) Periods(count int) ([]Period, error) {
	if count <= 0 {
		return []Period{}, nil
	}
	periods := make([]Period, 0, count)
	for i := 0; i < count; i++ {
		p, err := c.Period(i)
		if err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, nil
}

// civilDate is a calendar day with no zone, so day arithmetic is immune to DST.
type civilDate struct {
	t time.Time // midnight UTC
}

func dateOf(t time.Time) civilDate {
	y, m, d := t.Date()
	return civilDate{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d civilDate) addDays(n int) civilDate {
	return civilDate{t: d.t.AddDate(0, 0, n)}
}

func (d civilDate) daysSince(o civilDate) int {
	return int(d.t.Sub(o.t).Hours() / 24)
}

func (d civilDate) startIn(loc *time.Location) time.Time {
	y, m, day := d.t.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, loc)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
