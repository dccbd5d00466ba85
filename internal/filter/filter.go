// Package filter narrows a record sequence by free text and an inclusive
// calendar-day range.
package filter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"recordbook/internal/model"
)

// ErrInvalidDate is returned when a date bound cannot be parsed.
var ErrInvalidDate = errors.New("invalid date")

const dateLayout = "2006-01-02"

// Criteria narrows a record sequence. Zero values mean unconstrained.
type Criteria struct {
	Text  string
	Start *time.Time
	End   *time.Time
}

// Apply returns the records matching c, preserving their relative order.
// Day boundaries are computed in loc; nil means time.Local.
func Apply(records []model.Record, c Criteria, loc *time.Location) []model.Record {
	out := make([]model.Record, 0, len(records))
	m := newMatcher(c, loc)
	for _, r := range records {
		if m.match(r) {
			out = append(out, r)
		}
	}
	return out
}

type matcher struct {
	text     string
	folded   string
	start    *time.Time
	end      *time.Time
	location *time.Location
}

func newMatcher(c Criteria, loc *time.Location) matcher {
	if loc == nil {
		loc = time.Local
	}
	m := matcher{text: c.Text, folded: strings.ToLower(c.Text), location: loc}
	if c.Start != nil {
		d := StartOfDay(*c.Start, loc)
		m.start = &d
	}
	if c.End != nil {
		d := StartOfDay(*c.End, loc)
		m.end = &d
	}
	return m
}

func (m matcher) match(r model.Record) bool {
	// Name is case-folded, phone is matched as typed.
	if m.text != "" &&
		!strings.Contains(strings.ToLower(r.FullName), m.folded) &&
		!strings.Contains(r.PhoneNumber, m.text) {
		return false
	}

	day := StartOfDay(r.DateSubmitted, m.location)
	if m.start != nil && day.Before(*m.start) {
		return false
	}
	if m.end != nil && day.After(*m.end) {
		return false
	}
	return true
}

// StartOfDay truncates t to midnight of its calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, loc)
}

// ParseDate reads a date bound as either 2006-01-02 (interpreted in loc) or
// RFC 3339. The empty string yields a nil bound.
func ParseDate(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.ParseInLocation(dateLayout, s, loc); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return &t, nil
}

// ParseCriteria builds Criteria from raw user input.
func ParseCriteria(text, start, end string, loc *time.Location) (Criteria, error) {
	from, err := ParseDate(start, loc)
	if err != nil {
		return Criteria{}, fmt.Errorf("start: %w", err)
	}
	to, err := ParseDate(end, loc)
	if err != nil {
		return Criteria{}, fmt.Errorf("end: %w", err)
	}
	return Criteria{Text: text, Start: from, End: to}, nil
}
