package consultation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/app/models"
	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/pkg/ganzhi"
)

var (
	datePattern = regexp.MustCompile(`^\s*(\d{1,4})\s*[-./]\s*(\d{1,2})\s*[-./]\s*(\d{1,2})\s*$`)
	timePattern = regexp.MustCompile(`^(?:(am|pm|오전|오후)\s*)?(\d{1,2})(?:\s*:\s*(\d{2})|\s*시(?:\s*(\d{1,2})\s*분)?)?\s*(am|pm|오전|오후)?\s*$`)
)

// Traditional two-hour names, each mapped to the first hour of its span.
var hourNames = map[string]int{
	"자시": 0, "축시": 2, "인시": 4, "묘시": 6, "진시": 8, "사시": 10,
	"오시": 12, "미시": 14, "신시": 16, "유시": 18, "술시": 20, "해시": 22,
}

// ParseBirthInfo validates the posted form and converts it into typed
// birth data. The name is sanitized and checked with s.
func ParseBirthInfo(info *models.UserInfo, s *Sanitizer) (models.BirthInfo, error) {
	if info == nil {
		return models.BirthInfo{}, invalid(models.ErrMissingRawData)
	}

	name, err := s.ValidateName(info.Name)
	if err != nil {
		return models.BirthInfo{}, invalid(err)
	}

	cal, err := ParseCalendarType(info.CalendarType, info.IsLeap)
	if err != nil {
		return models.BirthInfo{}, invalid(err)
	}

	date, err := ParseBirthDate(info.BirthDate)
	if err != nil {
		return models.BirthInfo{}, invalid(err)
	}
	if err := ganzhi.ValidateDate(date, cal); err != nil {
		return models.BirthInfo{}, invalid(err)
	}

	hour, minute, err := ParseBirthTime(info.BirthTime)
	if err != nil {
		return models.BirthInfo{}, invalid(err)
	}

	return models.BirthInfo{
		Name:     name,
		Gender:   s.Clean(info.Gender),
		Date:     date,
		Hour:     hour,
		Minute:   minute,
		Calendar: cal,
		Location: s.Clean(info.Location),
	}, nil
}

// invalid tags err as a validation failure while keeping it matchable.
func invalid(err error) error {
	return fmt.Errorf("%w: %w", models.ErrValidation, err)
}

// ParseBirthDate reads "YYYY-MM-DD". Dots and slashes are accepted as
// separators.
func ParseBirthDate(raw string) (ganzhi.Date, error) {
	if strings.TrimSpace(raw) == "" {
		return ganzhi.Date{}, &ganzhi.InvalidDateError{Field: "birthDate", Reason: "is required"}
	}
	m := datePattern.FindStringSubmatch(norm.NFKC.String(raw))
	if m == nil {
		return ganzhi.Date{}, &ganzhi.InvalidDateError{Field: "birthDate", Value: raw, Reason: "expected YYYY-MM-DD"}
	}
	y, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	d, _ := strconv.Atoi(m[3])
	return ganzhi.Date{Year: y, Month: mo, Day: d}, nil
}

// ParseBirthTime returns the hour and minute of a birth time. Unknown or
// empty input yields ganzhi.UnknownHour.
func ParseBirthTime(raw string) (hour, minute int, err error) {
	t := strings.TrimSpace(fold(norm.NFKC.String(raw)))
	if t == "" || strings.HasPrefix(t, "unknown") || strings.HasPrefix(t, "모름") {
		return ganzhi.UnknownHour, 0, nil
	}

	for name, h := range hourNames {
		if strings.HasPrefix(t, name) {
			return h, 0, nil
		}
	}

	m := timePattern.FindStringSubmatch(t)
	if m == nil {
		return 0, 0, &ganzhi.InvalidDateError{Field: "birthTime", Value: raw, Reason: "expected HH:MM"}
	}
	hour, _ = strconv.Atoi(m[2])
	switch {
	case m[3] != "":
		minute, _ = strconv.Atoi(m[3])
	case m[4] != "":
		minute, _ = strconv.Atoi(m[4])
	}

	meridiem := m[1]
	if m[5] != "" {
		if meridiem != "" {
			return 0, 0, &ganzhi.InvalidDateError{Field: "birthTime", Value: raw, Reason: "am/pm given twice"}
		}
		meridiem = m[5]
	}

	switch meridiem {
	case "am", "오전":
		if hour > 12 || hour == 0 {
			return 0, 0, &ganzhi.InvalidDateError{Field: "birthTime", Value: raw, Reason: "12-hour clock expects 1-12"}
		}
		if hour == 12 {
			hour = 0
		}
	case "pm", "오후":
		if hour > 12 || hour == 0 {
			return 0, 0, &ganzhi.InvalidDateError{Field: "birthTime", Value: raw, Reason: "12-hour clock expects 1-12"}
		}
		if hour != 12 {
			hour += 12
		}
	}

	if err := ganzhi.ValidateHour(hour); err != nil {
		return 0, 0, err
	}
	if minute > 59 {
		return 0, 0, &ganzhi.InvalidDateError{Field: "birthTime", Value: raw, Reason: "minute out of range 0-59"}
	}
	return hour, minute, nil
}

// ParseCalendarType maps the form's calendar selector to a calendar system.
// An empty value means solar.
func ParseCalendarType(raw string, isLeap bool) (ganzhi.CalendarSystem, error) {
	var cal ganzhi.CalendarSystem
	switch strings.TrimSpace(fold(norm.NFC.String(raw))) {
	case "", "solar", "양력":
		cal = ganzhi.Solar
	case "lunar", "음력":
		cal = ganzhi.Lunar
	case "lunar-leap", "음력-윤달", "윤달":
		cal = ganzhi.LunarLeap
	default:
		return ganzhi.Solar, &ganzhi.InvalidDateError{Field: "calendarType", Value: raw, Reason: "expected solar, lunar or lunar-leap"}
	}
	if isLeap && cal == ganzhi.Lunar {
		cal = ganzhi.LunarLeap
	}
	return cal, nil
}

// fold builds a new Caser per call; Casers are not safe for concurrent use.
func fold(s string) string {
	return cases.Fold().String(s)
}
