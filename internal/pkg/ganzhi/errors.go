package ganzhi

import "fmt"

// InvalidDateError reports a birth date or time that cannot be used,
// before any pillar arithmetic runs.
type InvalidDateError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidDateError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// CalendarConversionError reports a lunar date that has no solar equivalent,
// such as a leap month in a year without one.
type CalendarConversionError struct {
	Year  int
	Month int
	Day   int
	Leap  bool
	Err   error
}

func (e *CalendarConversionError) Error() string {
	leap := ""
	if e.Leap {
		leap = " (leap)"
	}
	return fmt.Sprintf("cannot convert lunar date %04d-%02d-%02d%s: %v", e.Year, e.Month, e.Day, leap, e.Err)
}

func (e *CalendarConversionError) Unwrap() error { return e.Err }
