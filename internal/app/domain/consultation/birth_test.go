package consultation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/app/models"
	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/pkg/ganzhi"
)

func TestParseBirthTime(t *testing.T) {
	tests := []struct {
		in         string
		hour, min  int
		wantErrMsg string
	}{
		{in: "14:30", hour: 14, min: 30},
		{in: "00:05", hour: 0, min: 5},
		{in: "7", hour: 7},
		{in: "pm 7:30", hour: 19, min: 30},
		{in: "PM 12:10", hour: 12, min: 10},
		{in: "am 12:00", hour: 0},
		{in: "오후 3:15", hour: 15, min: 15},
		{in: "자시", hour: 0},
		{in: "해시", hour: 22},
		{in: "오시 (11:30-13:29)", hour: 12},
		{in: "", hour: ganzhi.UnknownHour},
		{in: "unknown", hour: ganzhi.UnknownHour},
		{in: "Unknown (12:00)", hour: ganzhi.UnknownHour},
		{in: "24:00", wantErrMsg: "out of range 0-23"},
		{in: "pm 13:00", wantErrMsg: "12-hour clock"},
		{in: "10:75", wantErrMsg: "minute out of range"},
		{in: "noon", wantErrMsg: "expected HH:MM"},
		{in: "7:30pm", hour: 19, min: 30},
		{in: "7:30 PM", hour: 19, min: 30},
		{in: "11:05am", hour: 11, min: 5},
		{in: "3시 15분 오후", hour: 15, min: 15},
		{in: "14시", hour: 14},
		{in: "14시 30분", hour: 14, min: 30},
		{in: " 09:45 ", hour: 9, min: 45},
		{in: "pm 7:30pm", wantErrMsg: "am/pm given twice"},
		{in: "1430", wantErrMsg: "expected HH:MM"},
		{in: "123", wantErrMsg: "expected HH:MM"},
		{in: "12:3x", wantErrMsg: "expected HH:MM"},
		{in: "12:3", wantErrMsg: "expected HH:MM"},
		{in: "14:00 tomorrow", wantErrMsg: "expected HH:MM"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			hour, minute, err := ParseBirthTime(tt.in)
			if tt.wantErrMsg != "" {
				var dateErr *ganzhi.InvalidDateError
				require.ErrorAs(t, err, &dateErr)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.hour, hour)
			assert.Equal(t, tt.min, minute)
		})
	}
}

func TestParseCalendarType(t *testing.T) {
	tests := []struct {
		in     string
		isLeap bool
		want   ganzhi.CalendarSystem
	}{
		{"", false, ganzhi.Solar},
		{"solar", false, ganzhi.Solar},
		{"SOLAR", false, ganzhi.Solar},
		{"양력", false, ganzhi.Solar},
		{"lunar", false, ganzhi.Lunar},
		{"음력", false, ganzhi.Lunar},
		{"Lunar", true, ganzhi.LunarLeap},
		{"lunar-leap", false, ganzhi.LunarLeap},
		{"음력-윤달", false, ganzhi.LunarLeap},
		{"solar", true, ganzhi.Solar},
	}

	for _, tt := range tests {
		got, err := ParseCalendarType(tt.in, tt.isLeap)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseCalendarType("julian", false)
	var dateErr *ganzhi.InvalidDateError
	require.ErrorAs(t, err, &dateErr)
	assert.Equal(t, "calendarType", dateErr.Field)
}

func TestParseBirthDate(t *testing.T) {
	d, err := ParseBirthDate("1990-01-01")
	require.NoError(t, err)
	assert.Equal(t, ganzhi.Date{Year: 1990, Month: 1, Day: 1}, d)

	d, err = ParseBirthDate("2024.2.10")
	require.NoError(t, err)
	assert.Equal(t, ganzhi.Date{Year: 2024, Month: 2, Day: 10}, d)

	for _, bad := range []string{"", "1990", "01/01", "1990-01-01T00:00"} {
		_, err := ParseBirthDate(bad)
		var dateErr *ganzhi.InvalidDateError
		assert.ErrorAs(t, err, &dateErr, bad)
	}
}

func TestParseBirthInfo(t *testing.T) {
	s := NewSanitizer()
	valid := func() *models.UserInfo {
		return &models.UserInfo{
			Name:         "홍길동",
			Gender:       "male",
			BirthDate:    "1990-01-01",
			BirthTime:    "14:00",
			CalendarType: "solar",
		}
	}

	t.Run("valid", func(t *testing.T) {
		b, err := ParseBirthInfo(valid(), s)
		require.NoError(t, err)
		assert.Equal(t, "홍길동", b.Name)
		assert.Equal(t, ganzhi.Date{Year: 1990, Month: 1, Day: 1}, b.Date)
		assert.Equal(t, 14, b.Hour)
		assert.Equal(t, ganzhi.Solar, b.Calendar)
	})

	t.Run("missing user info", func(t *testing.T) {
		_, err := ParseBirthInfo(nil, s)
		assert.ErrorIs(t, err, models.ErrMissingRawData)
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("bad name", func(t *testing.T) {
		info := valid()
		info.Name = "R2D2"
		_, err := ParseBirthInfo(info, s)
		assert.ErrorIs(t, err, models.ErrInvalidName)
	})

	invalid := []struct {
		name  string
		mod   func(*models.UserInfo)
		field string
	}{
		{"missing date", func(u *models.UserInfo) { u.BirthDate = "" }, "birthDate"},
		{"month 13", func(u *models.UserInfo) { u.BirthDate = "1990-13-01" }, "month"},
		{"feb 30 solar", func(u *models.UserInfo) { u.BirthDate = "1990-02-30" }, "day"},
		{"lunar day 31", func(u *models.UserInfo) { u.BirthDate = "1990-02-31"; u.CalendarType = "음력" }, "day"},
		{"year before range", func(u *models.UserInfo) { u.BirthDate = "1899-12-31" }, "year"},
		{"hour 25", func(u *models.UserInfo) { u.BirthTime = "25:00" }, "hour"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			info := valid()
			tt.mod(info)
			_, err := ParseBirthInfo(info, s)
			assert.ErrorIs(t, err, models.ErrValidation)
			var dateErr *ganzhi.InvalidDateError
			require.ErrorAs(t, err, &dateErr)
			assert.Equal(t, tt.field, dateErr.Field)
		})
	}

	t.Run("lunar feb 30 passes validation", func(t *testing.T) {
		info := valid()
		info.BirthDate = "1990-02-30"
		info.CalendarType = "lunar"
		b, err := ParseBirthInfo(info, s)
		require.NoError(t, err)
		assert.Equal(t, ganzhi.Lunar, b.Calendar)
	})
}
