package ganzhi

import (
	"errors"
	"fmt"
)

// LunarConverter turns a lunar calendar date into its solar equivalent.
type LunarConverter interface {
	LunarToSolar(year, month, day int, leap bool) (Date, error)
}

// Result is everything derived from one birth moment.
type Result struct {
	Input    Date
	Calendar CalendarSystem
	Solar    Date
	Hour     int
	Pillars  FourPillars
	Elements ElementTally
}

// Calculator validates a birth moment, converts lunar input and computes
// the four pillars.
type Calculator struct {
	lunar LunarConverter
}

// NewCalculator returns a Calculator. A nil converter falls back to the
// lunar-go tables.
func NewCalculator(lunar LunarConverter) *Calculator {
	if lunar == nil {
		lunar = LunarGo{}
	}
	return &Calculator{lunar: lunar}
}

// ComputePillars validates the input, resolves lunar dates and returns the
// pillars with their element tally. hour may be UnknownHour.
func (c *Calculator) ComputePillars(year, month, day, hour int, cal CalendarSystem) (Result, error) {
	in := Date{Year: year, Month: month, Day: day}
	if err := ValidateDate(in, cal); err != nil {
		return Result{}, err
	}
	if err := ValidateHour(hour); err != nil {
		return Result{}, err
	}

	solar := in
	if cal.IsLunar() {
		converted, err := c.lunar.LunarToSolar(year, month, day, cal == LunarLeap)
		if err != nil {
			var convErr *CalendarConversionError
			if !errors.As(err, &convErr) {
				err = &CalendarConversionError{Year: year, Month: month, Day: day, Leap: cal == LunarLeap, Err: err}
			}
			return Result{}, err
		}
		solar = converted
	}

	if hour == UnknownHour {
		hour = DefaultHour
	}
	pillars := ComputeSolar(solar, hour)
	return Result{
		Input:    in,
		Calendar: cal,
		Solar:    solar,
		Hour:     hour,
		Pillars:  pillars,
		Elements: pillars.Tally(),
	}, nil
}

// MustCompute is ComputePillars for callers holding known-good input, such
// as tests and the CLI examples.
func (c *Calculator) MustCompute(year, month, day, hour int, cal CalendarSystem) Result {
	r, err := c.ComputePillars(year, month, day, hour, cal)
	if err != nil {
		panic(fmt.Sprintf("ganzhi: %v", err))
	}
	return r
}
