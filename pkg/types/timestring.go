package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// timeLayout is the canonical wire and storage format for a time of day.
const timeLayout = "15:04"

var (
	// ErrInvalidTimeString возвращается при некорректном формате времени (ожидается HH:MM)
	ErrInvalidTimeString = errors.New("types: invalid time string format")

	// ErrTimeOutOfDay возвращается, когда арифметика над временем выходит за пределы суток
	ErrTimeOutOfDay = errors.New("types: time arithmetic crosses midnight")
)

// TimeString is a time of day in 24h "HH:MM" form ("09:30", "17:00").
// It is stored as TEXT, compared lexicographically (safe for zero-padded
// values) and converted to minutes since midnight for interval math.
type TimeString string

// NewTimeString builds a TimeString from the clock part of t.
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// NewTimeStringFromString parses and validates s as "HH:MM".
func NewTimeStringFromString(s string) (TimeString, error) {
	t := TimeString(s)
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

// Validate reports whether the value is a well-formed zero-padded "HH:MM".
func (t TimeString) Validate() error {
	parsed, err := time.Parse(timeLayout, string(t))
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	// time.Parse принимает "9:30", но канонический вид - с ведущим нулём,
	// иначе ломается лексикографическое сравнение
	if parsed.Format(timeLayout) != string(t) {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return nil
}

// IsZero reports whether the value is empty.
func (t TimeString) IsZero() bool {
	return t == ""
}

// String returns the raw "HH:MM" form.
func (t TimeString) String() string {
	return string(t)
}

// Minutes returns the value as minutes since midnight.
func (t TimeString) Minutes() (int, error) {
	parsed, err := time.Parse(timeLayout, string(t))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// IsBefore reports whether t is strictly earlier than other.
// Both values must be valid zero-padded "HH:MM".
func (t TimeString) IsBefore(other TimeString) bool {
	return string(t) < string(other)
}

// IsAfter reports whether t is strictly later than other.
func (t TimeString) IsAfter(other TimeString) bool {
	return string(t) > string(other)
}

// AddMinutes returns the time m minutes later. Crossing midnight is an
// error: callers treat it as "does not fit into this day".
func (t TimeString) AddMinutes(m int) (TimeString, error) {
	mins, err := t.Minutes()
	if err != nil {
		return "", err
	}
	total := mins + m
	if total < 0 || total > 24*60 {
		return "", fmt.Errorf("%w: %s + %dm", ErrTimeOutOfDay, t, m)
	}
	if total == 24*60 {
		// ровно конец суток считаем валидной границей интервала
		return TimeString("24:00"), nil
	}
	return TimeString(fmt.Sprintf("%02d:%02d", total/60, total%60)), nil
}

// Format12Hour renders the time in 12-hour clock form, e.g. "9:00 AM".
func (t TimeString) Format12Hour() string {
	parsed, err := time.Parse(timeLayout, string(t))
	if err != nil {
		return string(t)
	}
	return parsed.Format("3:04 PM")
}

// FormatMinutes12Hour renders minutes since midnight in 12-hour clock form.
// Values beyond the end of the day are clamped into the day (an interval end
// of 24:00 renders as 12:00 AM).
func FormatMinutes12Hour(mins int) string {
	mins = ((mins % (24 * 60)) + 24*60) % (24 * 60)
	ref := time.Date(2000, 1, 1, mins/60, mins%60, 0, 0, time.UTC)
	return ref.Format("3:04 PM")
}

// Value implements driver.Valuer; stores the raw "HH:MM" text.
func (t TimeString) Value() (driver.Value, error) {
	return string(t), nil
}

// Scan implements sql.Scanner for TEXT and TIME columns.
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case string:
		*t = TimeString(v)
		return nil
	case []byte:
		*t = TimeString(v)
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidTimeString, src)
	}
}
