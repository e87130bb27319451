package ganzhi

import (
	"errors"
	"fmt"

	"github.com/6tail/lunar-go/calendar"
)

// LunarDate is a date in the Korean/Chinese lunisolar calendar.
type LunarDate struct {
	Year  int
	Month int
	Day   int
	Leap  bool
}

// String renders the date the way it is written in Korean, e.g.
// "1990년 윤5월 3일".
func (d LunarDate) String() string {
	leap := ""
	if d.Leap {
		leap = "윤"
	}
	return fmt.Sprintf("%d년 %s%d월 %d일", d.Year, leap, d.Month, d.Day)
}

// LunarGo converts dates with the tables of github.com/6tail/lunar-go.
// That library panics on impossible dates, so every call is guarded.
type LunarGo struct{}

var _ LunarConverter = LunarGo{}

// LunarToSolar converts a lunar date. Leap months are addressed by a
// negative month number in lunar-go.
func (LunarGo) LunarToSolar(year, month, day int, leap bool) (d Date, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &CalendarConversionError{Year: year, Month: month, Day: day, Leap: leap, Err: panicError(r)}
		}
	}()

	if leap {
		if lm := calendar.NewLunarYear(year).GetLeapMonth(); lm != month {
			return Date{}, &CalendarConversionError{Year: year, Month: month, Day: day, Leap: true,
				Err: fmt.Errorf("year %d has no leap month %d", year, month)}
		}
		month = -month
	}
	solar := calendar.NewLunarFromYmd(year, month, day).GetSolar()
	return Date{Year: solar.GetYear(), Month: solar.GetMonth(), Day: solar.GetDay()}, nil
}

// SolarToLunar converts a valid solar date into the lunar calendar.
func (LunarGo) SolarToLunar(d Date) (ld LunarDate, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &InvalidDateError{Field: "birthDate", Value: d.String(), Reason: panicError(r).Error()}
		}
	}()

	l := calendar.NewSolarFromYmd(d.Year, d.Month, d.Day).GetLunar()
	m := l.GetMonth()
	return LunarDate{Year: l.GetYear(), Month: abs(m), Day: l.GetDay(), Leap: m < 0}, nil
}

func panicError(r any) error {
	switch v := r.(type) {
	case error:
		return v
	case string:
		return errors.New(v)
	default:
		return fmt.Errorf("%v", v)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
