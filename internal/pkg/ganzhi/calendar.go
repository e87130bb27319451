package ganzhi

import (
	"fmt"
	"strconv"
)

// Supported year range for birth dates.
const (
	MinYear = 1900
	MaxYear = 2100
)

// UnknownHour marks a birth time the user did not know. It computes as noon.
const UnknownHour = -1

// DefaultHour is used in place of UnknownHour.
const DefaultHour = 12

// CalendarSystem tells which calendar a birth date was given in.
type CalendarSystem int

const (
	Solar CalendarSystem = iota
	Lunar
	LunarLeap
)

func (c CalendarSystem) String() string {
	switch c {
	case Lunar:
		return "lunar"
	case LunarLeap:
		return "lunar-leap"
	default:
		return "solar"
	}
}

// IsLunar reports whether dates in this system need conversion first.
func (c CalendarSystem) IsLunar() bool { return c == Lunar || c == LunarLeap }

// Date is a proleptic calendar date without a time zone.
type Date struct {
	Year  int
	Month int
	Day   int
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// IsLeapYear applies the Gregorian rule.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysIn returns the number of days of a solar month.
func DaysIn(year, month int) int {
	switch month {
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}

// ValidateDate checks a date in the given calendar system. Lunar days are
// only range-checked here; whether the lunar month really has that many
// days is decided during conversion.
func ValidateDate(d Date, cal CalendarSystem) error {
	if d.Year < MinYear || d.Year > MaxYear {
		return &InvalidDateError{Field: "year", Value: strconv.Itoa(d.Year),
			Reason: fmt.Sprintf("out of range %d-%d", MinYear, MaxYear)}
	}
	if d.Month < 1 || d.Month > 12 {
		return &InvalidDateError{Field: "month", Value: strconv.Itoa(d.Month), Reason: "out of range 1-12"}
	}
	maxDay := 30
	if !cal.IsLunar() {
		maxDay = DaysIn(d.Year, d.Month)
	}
	if d.Day < 1 || d.Day > maxDay {
		return &InvalidDateError{Field: "day", Value: strconv.Itoa(d.Day),
			Reason: fmt.Sprintf("%s has no day %d", d.monthLabel(cal), d.Day)}
	}
	return nil
}

func (d Date) monthLabel(cal CalendarSystem) string {
	if cal.IsLunar() {
		return fmt.Sprintf("lunar month %d", d.Month)
	}
	return fmt.Sprintf("%04d-%02d", d.Year, d.Month)
}

// ValidateHour accepts 0-23 and UnknownHour.
func ValidateHour(hour int) error {
	if hour == UnknownHour || (hour >= 0 && hour <= 23) {
		return nil
	}
	return &InvalidDateError{Field: "hour", Value: strconv.Itoa(hour), Reason: "out of range 0-23"}
}

// JulianDayNumber returns the proleptic Gregorian Julian Day Number of the
// date at noon.
func JulianDayNumber(year, month, day int) int {
	a := (14 - month) / 12
	y := year + 4800 - a
	m := month + 12*a - 3
	return day + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045
}

// jieDay holds the approximate day of each solar month on which the "jie"
// solar term opens a new pillar month. Index 1 is January (小寒), index 2
// is February (立春).
var jieDay = [13]int{0, 6, 4, 6, 5, 6, 6, 7, 8, 8, 8, 7, 7}

// monthBranch returns the branch governing the pillar month of a date.
func monthBranch(d Date) Branch {
	m := d.Month
	if d.Day < jieDay[d.Month] {
		m--
	}
	return Branch(mod(m, 12))
}

// pillarYear is the year counted from 立春 rather than January 1.
func pillarYear(d Date) int {
	if d.Before(Date{Year: d.Year, Month: 2, Day: jieDay[2]}) {
		return d.Year - 1
	}
	return d.Year
}

// Offsets exposes the raw sexagenary offsets of a solar date, before they
// are reduced into pillars.
type Offsets struct {
	Year       int
	Month      int
	Day        int
	HourBranch int
}

// ComputeOffsets derives the year, month, day and hour-branch offsets.
func ComputeOffsets(d Date, hour int) Offsets {
	if hour == UnknownHour {
		hour = DefaultHour
	}
	year := pillarYear(d) - 4
	monthsSinceTiger := mod(int(monthBranch(d))-2, 12)
	return Offsets{
		Year:       year,
		Month:      year*12 + 2 + monthsSinceTiger,
		Day:        JulianDayNumber(d.Year, d.Month, d.Day) + 49,
		HourBranch: mod((hour+1)/2, 12),
	}
}

// ComputeSolar is the pure pillar arithmetic for a valid solar date.
func ComputeSolar(d Date, hour int) FourPillars {
	o := ComputeOffsets(d, hour)
	day := PillarFromOffset(o.Day)
	hb := Branch(o.HourBranch)
	return FourPillars{
		Year:  PillarFromOffset(o.Year),
		Month: PillarFromOffset(o.Month),
		Day:   day,
		Hour: Pillar{
			Stem:   Stem(mod(int(day.Stem)*2+int(hb), 10)),
			Branch: hb,
		},
	}
}

// HourBranch returns the two-hour period an hour of the day falls in.
func HourBranch(hour int) Branch {
	if hour == UnknownHour {
		hour = DefaultHour
	}
	return Branch(mod((hour+1)/2, 12))
}
