// Package dates buckets API dates by ISO week and calendar month.
//
// The API sends dates without a time of day ("2024-01-31"). They are treated
// as calendar dates: parsed in UTC, truncated to midnight and compared by
// day. No timezone conversion is applied.
package dates

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Week is an ISO 8601 week: week 1 contains the first Thursday of Year and
// weeks run Monday to Sunday.
type Week struct {
	Year   int
	Number int
}

func (w Week) String() string {
	return fmt.Sprintf("%04d-W%02d", w.Year, w.Number)
}

// Before orders weeks chronologically.
func (w Week) Before(other Week) bool {
	if w.Year != other.Year {
		return w.Year < other.Year
	}
	return w.Number < other.Number
}

// Monday returns the first day of the week.
func (w Week) Monday() time.Time {
	// January 4th is always in week 1.
	jan4 := time.Date(w.Year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7
	return jan4.AddDate(0, 0, -offset+(w.Number-1)*7)
}

// WeekOf returns the ISO week containing the calendar date of t.
func WeekOf(t time.Time) Week {
	year, week := Day(t).ISOWeek()
	return Week{Year: year, Number: week}
}

// Day truncates t to midnight UTC of its calendar date. The wall-clock date
// of t is kept; only the time of day and location are dropped.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// InInterval reports whether the calendar date of t falls within
// [start, end], both ends inclusive.
func InInterval(t, start, end time.Time) bool {
	d := Day(t)
	return !d.Before(Day(start)) && !d.After(Day(end))
}

// ParseDate parses an API date or timestamp and returns its calendar date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("dates: empty date")
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("dates: parse %q: %w", s, err)
	}
	return Day(t), nil
}

// FormatDate renders t the way the API expects date parameters.
func FormatDate(t time.Time) string {
	return Day(t).Format("2006-01-02")
}

// Month is a calendar month bucket.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the calendar month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// Start returns the first day of the month.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

func (m Month) Before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// PartitionByWeek groups items by the ISO week of the date returned by dateOf.
// Items keep their input order within a week. Items whose date cannot be
// determined are returned separately.
func PartitionByWeek[T any](items []T, dateOf func(T) (time.Time, error)) (map[Week][]T, []T) {
	buckets := make(map[Week][]T)
	var undated []T
	for _, item := range items {
		d, err := dateOf(item)
		if err != nil {
			undated = append(undated, item)
			continue
		}
		w := WeekOf(d)
		buckets[w] = append(buckets[w], item)
	}
	return buckets, undated
}

// SortedWeeks returns the keys of buckets in chronological order.
func SortedWeeks[T any](buckets map[Week]T) []Week {
	weeks := make([]Week, 0, len(buckets))
	for w := range buckets {
		weeks = append(weeks, w)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Before(weeks[j]) })
	return weeks
}

// SortedMonths returns the keys of buckets in chronological order.
func SortedMonths[T any](buckets map[Month]T) []Month {
	months := make([]Month, 0, len(buckets))
	for m := range buckets {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
	return months
}
