// Package hours validates reservation times against the restaurant's
// opening schedule.
package hours

import (
	"fmt"
	"time"
)

// OpenRange is a daily opening window, inclusive on both ends
type OpenRange struct {
	Open  ClockTime
	Close ClockTime
}

// ClockTime is a wall-clock time of day
type ClockTime struct {
	Hour   int
	Minute int
}

// minutes returns the time of day as minutes since midnight
func (c ClockTime) minutes() int {
	return c.Hour*60 + c.Minute
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Schedule holds per-weekday opening windows and optional midday breaks
type Schedule struct {
	OpenRanges map[time.Weekday][]OpenRange
	Breaks     map[time.Weekday]*OpenRange
}

// DefaultSchedule is open 10:00-22:00 every day with a 14:00-17:00 break
// Monday through Friday.
func DefaultSchedule() *Schedule {
	open := []OpenRange{{Open: ClockTime{10, 0}, Close: ClockTime{22, 0}}}
	lunch := &OpenRange{Open: ClockTime{14, 0}, Close: ClockTime{17, 0}}

	ranges := make(map[time.Weekday][]OpenRange)
	breaks := make(map[time.Weekday]*OpenRange)
	for d := time.Sunday; d <= time.Saturday; d++ {
		ranges[d] = open
	}
	for d := time.Monday; d <= time.Friday; d++ {
		breaks[d] = lunch
	}
	return &Schedule{OpenRanges: ranges, Breaks: breaks}
}

// IsOpenAt reports whether the restaurant is open at the given instant
func (s *Schedule) IsOpenAt(t time.Time) bool {
	day := t.Weekday()
	minute := t.Hour()*60 + t.Minute()

	open := false
	for _, r := range s.OpenRanges[day] {
		if r.Open.minutes() <= minute && minute <= r.Close.minutes() {
			open = true
			break
		}
	}
	if !open {
		return false
	}
	if br := s.Breaks[day]; br != nil {
		if br.Open.minutes() <= minute && minute < br.Close.minutes() {
			return false
		}
	}
	return true
}

// ValidateReservationTime returns an error describing why a reservation may
// not start at the given instant, or nil when it may.
func (s *Schedule) ValidateReservationTime(t time.Time) error {
	day := t.Weekday()
	ranges := s.OpenRanges[day]
	if len(ranges) == 0 {
		return fmt.Errorf("restaurant is closed on %s", day)
	}
	if !s.IsOpenAt(t) {
		if br := s.Breaks[day]; br != nil {
			minute := t.Hour()*60 + t.Minute()
			if br.Open.minutes() <= minute && minute < br.Close.minutes() {
				return fmt.Errorf("restaurant is on break %s-%s on %s", br.Open, br.Close, day)
			}
		}
		return fmt.Errorf("restaurant is open %s-%s on %s", ranges[0].Open, ranges[0].Close, day)
	}
	return nil
}

// NextOpening returns the next instant at or after from when the restaurant
// is open, looking up to a week ahead.
func (s *Schedule) NextOpening(from time.Time) time.Time {
	if s.IsOpenAt(from) {
		return from
	}

	day := from.Weekday()
	minute := from.Hour()*60 + from.Minute()

	// Later today: next range opening, or end of the midday break.
	if br := s.Breaks[day]; br != nil && br.Open.minutes() <= minute && minute < br.Close.minutes() {
		return time.Date(from.Year(), from.Month(), from.Day(), br.Close.Hour, br.Close.Minute, 0, 0, from.Location())
	}
	for _, r := range s.OpenRanges[day] {
		if minute < r.Open.minutes() {
			return time.Date(from.Year(), from.Month(), from.Day(), r.Open.Hour, r.Open.Minute, 0, 0, from.Location())
		}
	}

	// Following days.
	for i := 1; i <= 7; i++ {
		next := from.AddDate(0, 0, i)
		ranges := s.OpenRanges[next.Weekday()]
		if len(ranges) > 0 {
			open := ranges[0].Open
			return time.Date(next.Year(), next.Month(), next.Day(), open.Hour, open.Minute, 0, 0, from.Location())
		}
	}
	return time.Time{}
}
