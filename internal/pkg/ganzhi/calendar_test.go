package ganzhi

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLunarConverter struct {
	mock.Mock
}

func (m *MockLunarConverter) LunarToSolar(year, month, day int, leap bool) (Date, error) {
	args := m.Called(year, month, day, leap)
	return args.Get(0).(Date), args.Error(1)
}

func pillar(t *testing.T, hanja string) Pillar {
	t.Helper()
	for i := 0; i < 60; i++ {
		p := PillarFromOffset(i)
		if p.Hanja() == hanja {
			return p
		}
	}
	t.Fatalf("no pillar %q", hanja)
	return Pillar{}
}

func TestComputeSolar_GoldenValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		date Date
		hour int
		want [4]string
	}{
		{"1990-01-01 14h", Date{1990, 1, 1}, 14, [4]string{"己巳", "丙子", "丙寅", "乙未"}},
		{"2000-01-01 midnight", Date{2000, 1, 1}, 0, [4]string{"己卯", "丙子", "戊午", "壬子"}},
		{"lichun 1984", Date{1984, 2, 4}, 12, [4]string{"甲子", "丙寅", "戊辰", "戊午"}},
		{"day before lichun 1984", Date{1984, 2, 3}, 12, [4]string{"癸亥", "乙丑", "丁卯", "丙午"}},
		{"seollal 2024", Date{2024, 2, 10}, 9, [4]string{"甲辰", "丙寅", "甲辰", "己巳"}},
		{"jiazi day epoch", Date{1949, 10, 1}, 0, [4]string{"己丑", "癸酉", "甲子", "甲子"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeSolar(tc.date, tc.hour)
			want := FourPillars{
				Year:  pillar(t, tc.want[0]),
				Month: pillar(t, tc.want[1]),
				Day:   pillar(t, tc.want[2]),
				Hour:  pillar(t, tc.want[3]),
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("ComputeSolar(%s, %d) mismatch (-want +got):\n%s", tc.date, tc.hour, diff)
			}
		})
	}
}

func TestComputeSolar_GoldenRendering(t *testing.T) {
	fp := ComputeSolar(Date{1990, 1, 1}, 14)

	assert.Equal(t, "기사년 병자월 병인일 을미시", fp.String())
	assert.Equal(t, "己巳 丙子 丙寅 乙未", fp.Hanja())
	assert.Equal(t, "목2 화3 토2 금0 수1", fp.Tally().String())
	assert.Equal(t, []Element{Fire}, fp.Tally().Dominant())
	assert.Equal(t, []Element{Metal}, fp.Tally().Missing())
}

func TestComputeSolar_Deterministic(t *testing.T) {
	for y := 1900; y <= 2100; y += 13 {
		for m := 1; m <= 12; m++ {
			d := Date{y, m, min(m*2, DaysIn(y, m))}
			first := ComputeSolar(d, 7)
			second := ComputeSolar(d, 7)
			require.Equal(t, first, second, "date %s", d)
		}
	}
}

func TestComputeSolar_TallySumsToEight(t *testing.T) {
	for y := 1900; y <= 2100; y += 7 {
		for m := 1; m <= 12; m++ {
			for _, day := range []int{1, 4, 15, DaysIn(y, m)} {
				for _, h := range []int{0, 5, 12, 23} {
					fp := ComputeSolar(Date{y, m, day}, h)
					require.Equal(t, 8, fp.Tally().Total(), "%d-%d-%d %dh", y, m, day, h)
				}
			}
		}
	}
}

func TestComputeSolar_StemBranchParity(t *testing.T) {
	for y := 1900; y <= 2100; y += 3 {
		for m := 1; m <= 12; m++ {
			for h := 0; h < 24; h += 5 {
				fp := ComputeSolar(Date{y, m, 9}, h)
				for _, p := range fp.All() {
					diff := mod(int(p.Stem)-int(p.Branch), 2)
					require.Zero(t, diff, "pillar %s of %d-%d %dh", p.Hanja(), y, m, h)
				}
			}
		}
	}
}

func TestComputeSolar_DayContinuityAcrossYears(t *testing.T) {
	for y := 1900; y < 2100; y++ {
		last := ComputeSolar(Date{y, 12, 31}, 12).Day
		first := ComputeSolar(Date{y + 1, 1, 1}, 12).Day

		assert.Equal(t, mod(int(last.Stem)+1, 10), int(first.Stem), "stem %d/%d", y, y+1)
		assert.Equal(t, mod(int(last.Branch)+1, 12), int(first.Branch), "branch %d/%d", y, y+1)
		assert.Equal(t, last.Next(), first)
	}
}

func TestComputeSolar_DayContinuityAcrossMonths(t *testing.T) {
	y := 2023
	for m := 1; m < 12; m++ {
		last := ComputeSolar(Date{y, m, DaysIn(y, m)}, 0).Day
		first := ComputeSolar(Date{y, m + 1, 1}, 0).Day
		assert.Equal(t, last.Next(), first, "month %d", m)
	}
}

func TestComputeSolar_HourBranches(t *testing.T) {
	d := Date{1995, 6, 15}

	h23 := ComputeSolar(d, 23).Hour
	h0 := ComputeSolar(d, 0).Hour
	h1 := ComputeSolar(d, 1).Hour
	h2 := ComputeSolar(d, 2).Hour
	h3 := ComputeSolar(d, 3).Hour

	assert.Equal(t, h23.Branch, h0.Branch, "23h and 00h share 子")
	assert.Equal(t, Branch(0), h0.Branch)
	assert.Equal(t, h1.Branch, h2.Branch, "01h and 02h share 丑")
	assert.Equal(t, Branch(1), h1.Branch)
	assert.Equal(t, mod(int(h2.Branch)+1, 12), int(h3.Branch))

	assert.Equal(t, "庚子", h0.Hanja())
	assert.Equal(t, "辛丑", h1.Hanja())
	assert.Equal(t, "壬寅", h3.Hanja())
}

func TestComputeSolar_TwelveHourPillarsPerDay(t *testing.T) {
	d := Date{2011, 3, 11}
	dayPillar := ComputeSolar(d, 0).Day

	seen := map[Pillar]bool{}
	for h := 0; h < 24; h++ {
		fp := ComputeSolar(d, h)
		require.Equal(t, dayPillar, fp.Day, "only the hour pillar may change")
		hb := HourBranch(h)
		require.Equal(t, hb, fp.Hour.Branch)
		require.Equal(t, Stem(mod(int(dayPillar.Stem)*2+int(hb), 10)), fp.Hour.Stem)
		seen[fp.Hour] = true
	}
	assert.Len(t, seen, 12)
}

func TestJulianDayNumber(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 2451545, JulianDayNumber(2000, 1, 1))
	assert.Equal(t, 2433191, JulianDayNumber(1949, 10, 1))
	assert.Equal(t, 2447893, JulianDayNumber(1990, 1, 1))
	assert.Equal(t, 2299161, JulianDayNumber(1582, 10, 15))
}

func TestValidateDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		date  Date
		cal   CalendarSystem
		field string
	}{
		{"month 13", Date{2000, 13, 1}, Solar, "month"},
		{"month 0", Date{2000, 0, 1}, Solar, "month"},
		{"day 32", Date{2000, 1, 32}, Solar, "day"},
		{"no leap day", Date{2023, 2, 29}, Solar, "day"},
		{"april 31", Date{2023, 4, 31}, Solar, "day"},
		{"year too early", Date{1850, 1, 1}, Solar, "year"},
		{"lunar day 31", Date{2000, 1, 31}, Lunar, "day"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateDate(tc.date, tc.cal)
			var dateErr *InvalidDateError
			require.ErrorAs(t, err, &dateErr)
			assert.Equal(t, tc.field, dateErr.Field)
			assert.NotEmpty(t, dateErr.Reason)
		})
	}

	assert.NoError(t, ValidateDate(Date{2024, 2, 29}, Solar))
	assert.NoError(t, ValidateDate(Date{2023, 2, 30}, Lunar))
}

func TestCalculator_ComputePillars(t *testing.T) {
	t.Run("unknown hour computes as noon", func(t *testing.T) {
		calc := NewCalculator(new(MockLunarConverter))
		unknown, err := calc.ComputePillars(1990, 1, 1, UnknownHour, Solar)
		require.NoError(t, err)
		noon, err := calc.ComputePillars(1990, 1, 1, 12, Solar)
		require.NoError(t, err)

		assert.Equal(t, noon.Pillars, unknown.Pillars)
		assert.Equal(t, 12, unknown.Hour)
	})

	t.Run("invalid hour is rejected before arithmetic", func(t *testing.T) {
		calc := NewCalculator(new(MockLunarConverter))
		_, err := calc.ComputePillars(1990, 1, 1, 24, Solar)

		var dateErr *InvalidDateError
		require.ErrorAs(t, err, &dateErr)
		assert.Equal(t, "hour", dateErr.Field)
	})

	t.Run("lunar input goes through the converter", func(t *testing.T) {
		conv := new(MockLunarConverter)
		conv.On("LunarToSolar", 1990, 1, 1, false).Return(Date{1990, 1, 27}, nil).Once()
		calc := NewCalculator(conv)

		got, err := calc.ComputePillars(1990, 1, 1, 12, Lunar)
		require.NoError(t, err)

		assert.Equal(t, Date{1990, 1, 27}, got.Solar)
		assert.Equal(t, ComputeSolar(Date{1990, 1, 27}, 12), got.Pillars)
		conv.AssertExpectations(t)
	})

	t.Run("leap flag reaches the converter", func(t *testing.T) {
		conv := new(MockLunarConverter)
		conv.On("LunarToSolar", 2020, 4, 1, true).Return(Date{2020, 5, 23}, nil).Once()
		calc := NewCalculator(conv)

		_, err := calc.ComputePillars(2020, 4, 1, 12, LunarLeap)
		require.NoError(t, err)
		conv.AssertExpectations(t)
	})

	t.Run("conversion failure propagates", func(t *testing.T) {
		convErr := &CalendarConversionError{Year: 2021, Month: 4, Day: 1, Leap: true, Err: errors.New("no leap month")}
		conv := new(MockLunarConverter)
		conv.On("LunarToSolar", 2021, 4, 1, true).Return(Date{}, convErr).Once()
		calc := NewCalculator(conv)

		_, err := calc.ComputePillars(2021, 4, 1, 12, LunarLeap)
		var target *CalendarConversionError
		require.ErrorAs(t, err, &target)
		assert.True(t, target.Leap)
	})

	t.Run("plain converter errors are wrapped", func(t *testing.T) {
		conv := new(MockLunarConverter)
		conv.On("LunarToSolar", 1990, 3, 30, false).Return(Date{}, errors.New("short month")).Once()
		calc := NewCalculator(conv)

		_, err := calc.ComputePillars(1990, 3, 30, 12, Lunar)
		var target *CalendarConversionError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, 30, target.Day)
		assert.EqualError(t, errors.Unwrap(err), "short month")
	})
}

func TestPillar_Index(t *testing.T) {
	for i := 0; i < 60; i++ {
		p := PillarFromOffset(i)
		require.Equal(t, i, p.Index())
		require.Equal(t, p, PillarFromOffset(i+60))
		require.Equal(t, p, PillarFromOffset(i-60))
	}
}
