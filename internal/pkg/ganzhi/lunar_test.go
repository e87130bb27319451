package ganzhi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLunarGo_LunarToSolar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		year  int
		month int
		day   int
		leap  bool
		want  Date
	}{
		{"new year 1990", 1990, 1, 1, false, Date{1990, 1, 27}},
		{"new year 2024", 2024, 1, 1, false, Date{2024, 2, 10}},
		{"leap fourth month 2020", 2020, 4, 1, true, Date{2020, 5, 23}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := LunarGo{}.LunarToSolar(tc.year, tc.month, tc.day, tc.leap)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLunarGo_MissingLeapMonth(t *testing.T) {
	_, err := LunarGo{}.LunarToSolar(2021, 4, 1, true)

	var convErr *CalendarConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, 2021, convErr.Year)
	assert.Contains(t, err.Error(), "leap")
}

func TestLunarGo_SolarToLunar(t *testing.T) {
	got, err := LunarGo{}.SolarToLunar(Date{2020, 5, 23})
	require.NoError(t, err)

	assert.Equal(t, LunarDate{Year: 2020, Month: 4, Day: 1, Leap: true}, got)
	assert.Equal(t, "2020년 윤4월 1일", got.String())
}

func TestCalculator_LunarRoundTrip(t *testing.T) {
	calc := NewCalculator(nil)

	cases := []struct {
		year, month, day int
		cal              CalendarSystem
	}{
		{1990, 1, 1, Lunar},
		{1985, 8, 15, Lunar},
		{2001, 12, 29, Lunar},
		{2020, 4, 10, LunarLeap},
	}

	for _, c := range cases {
		viaLunar, err := calc.ComputePillars(c.year, c.month, c.day, 9, c.cal)
		require.NoError(t, err)

		solar, err := LunarGo{}.LunarToSolar(c.year, c.month, c.day, c.cal == LunarLeap)
		require.NoError(t, err)
		viaSolar, err := calc.ComputePillars(solar.Year, solar.Month, solar.Day, 9, Solar)
		require.NoError(t, err)

		assert.Equal(t, viaSolar.Pillars, viaLunar.Pillars, "lunar %d-%d-%d", c.year, c.month, c.day)
		assert.Equal(t, viaSolar.Elements, viaLunar.Elements)
	}
}
