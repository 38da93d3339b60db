package domain

import (
	"strconv"
	"strings"
	"time"
)

const (
	// UserDateLayout is the day/month/year form used for data entry.
	UserDateLayout = "02/01/2006"
	// ISODateLayout is the storage form.
	ISODateLayout = "2006-01-02"
)

// DateOnly drops the clock part of t, keeping its calendar day in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseUserDate parses a DD/MM/YYYY date. Single digit day and month are
// accepted. Failures are reported as *ValidationError on field.
func ParseUserDate(field, text string) (time.Time, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return time.Time{}, Invalid(field, "date is required")
	}
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return time.Time{}, Invalid(field, "date must be DD/MM/YYYY: "+text)
	}
	t, ok := civilDate(parts[2], parts[1], parts[0])
	if !ok {
		return time.Time{}, Invalid(field, "not a valid date: "+text)
	}
	return t, nil
}

// ParseISODate parses a YYYY-MM-DD storage date.
func ParseISODate(text string) (time.Time, error) {
	t, err := time.Parse(ISODateLayout, strings.TrimSpace(text))
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// ParseDateBound parses a filter bound given either as DD/MM/YYYY or as
// YYYY-MM-DD. ok is false for empty or unparseable input.
func ParseDateBound(text string) (t time.Time, ok bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := ParseUserDate("", s); err == nil {
		return t, true
	}
	if t, err := ParseISODate(s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func FormatUserDate(t time.Time) string { return t.Format(UserDateLayout) }

func FormatISODate(t time.Time) string { return t.Format(ISODateLayout) }

func civilDate(ys, ms, ds string) (time.Time, bool) {
	y, err1 := strconv.Atoi(ys)
	m, err2 := strconv.Atoi(ms)
	d, err3 := strconv.Atoi(ds)
	if err1 != nil || err2 != nil || err3 != nil || len(ys) != 4 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes 31/02 into March; reject that.
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}
