// Package period converts an EMI frequency and an instant into canonical
// period keys and boundaries. Weekly periods are Monday-anchored (Monday 00:00
// UTC up to, not including, the following Monday 00:00), monthly periods use
// "YYYY-MM" keys, quarters are calendar quarters (Jan-Mar = Q1). Consecutive
// periods never overlap and never gap.
package period

import (
	"fmt"
	"time"

	"github.com/good4it/good4it_backend/internal/core/domain"
)

// MonthKeyFormat is the canonical zero-padded month key layout.
const MonthKeyFormat = "2006-01"

// Key returns the canonical period key for t under the given frequency.
// Weekly keys are the Monday start date ("2006-01-02"), monthly keys are
// "YYYY-MM", quarterly keys are display strings like "Q1 2024".
func Key(freq domain.EMIFrequency, t time.Time) (string, error) {
	t = t.UTC()
	switch freq {
	case domain.FrequencyWeekly:
		return weekStart(t).Format("2006-01-02"), nil
	case domain.FrequencyMonthly:
		return t.Format(MonthKeyFormat), nil
	case domain.FrequencyQuarterly:
		quarter := (int(t.Month())-1)/3 + 1
		return fmt.Sprintf("Q%d %d", quarter, t.Year()), nil
	default:
		return "", fmt.Errorf("unknown EMI frequency %q", freq)
	}
}

// Bounds returns the half-open interval [start, end) of the period containing
// t under the given frequency.
func Bounds(freq domain.EMIFrequency, t time.Time) (time.Time, time.Time, error) {
	t = t.UTC()
	switch freq {
	case domain.FrequencyWeekly:
		start := weekStart(t)
		return start, start.AddDate(0, 0, 7), nil
	case domain.FrequencyMonthly:
		start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, 0), nil
	case domain.FrequencyQuarterly:
		quarterStartMonth := time.Month(((int(t.Month())-1)/3)*3 + 1)
		start := time.Date(t.Year(), quarterStartMonth, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 3, 0), nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("unknown EMI frequency %q", freq)
	}
}

// NextStart returns the first instant of the period following the one that
// contains t.
func NextStart(freq domain.EMIFrequency, t time.Time) (time.Time, error) {
	_, end, err := Bounds(freq, t)
	if err != nil {
		return time.Time{}, err
	}
	return end, nil
}

// SamePeriod reports whether a and b fall into the same period under freq.
func SamePeriod(freq domain.EMIFrequency, a, b time.Time) (bool, error) {
	keyA, err := Key(freq, a)
	if err != nil {
		return false, err
	}
	keyB, err := Key(freq, b)
	if err != nil {
		return false, err
	}
	return keyA == keyB, nil
}

// MonthKey formats t as a canonical "YYYY-MM" month key.
func MonthKey(t time.Time) string {
	return t.UTC().Format(MonthKeyFormat)
}

// ParseMonthKey parses a canonical "YYYY-MM" month key into the first instant
// of that month (UTC).
func ParseMonthKey(key string) (time.Time, error) {
	t, err := time.Parse(MonthKeyFormat, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month key %q: %w", key, err)
	}
	return t, nil
}

// AddMonths returns the month key n months after the given key.
func AddMonths(key string, n int) (string, error) {
	t, err := ParseMonthKey(key)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, n, 0).Format(MonthKeyFormat), nil
}

// MonthEnd returns the exclusive end of the month identified by key, i.e. the
// first instant of the following month.
func MonthEnd(key string) (time.Time, error) {
	t, err := ParseMonthKey(key)
	if err != nil {
		return time.Time{}, err
	}
	return t.AddDate(0, 1, 0), nil
}

// weekStart returns Monday 00:00 UTC of the week containing t.
func weekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	// time.Weekday is Sunday-based; shift so Monday is day zero.
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
