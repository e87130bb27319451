// Package zodiac places a birth date on the twelve Western signs using the
// same coarse approximations as the web front-end. It is not an ephemeris.
package zodiac

import "math"

// Signs in order starting from Aries.
var Signs = [12]string{
	"양자리", "황소자리", "쌍둥이자리", "게자리", "사자자리", "처녀자리",
	"천칭자리", "전갈자리", "사수자리", "염소자리", "물병자리", "물고기자리",
}

// Sign is one of the twelve signs.
type Sign struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

// SignAt wraps any index onto the twelve signs.
func SignAt(index int) Sign {
	i := ((index % 12) + 12) % 12
	return Sign{Index: i, Name: Signs[i]}
}

// Chart is the "big three" placement.
type Chart struct {
	Sun       Sign `json:"sun"`
	Moon      Sign `json:"moon"`
	Ascendant Sign `json:"ascendant"`
}

type span struct {
	startMonth, startDay int
	endMonth, endDay     int
}

// sunSpans follows Signs order.
var sunSpans = [12]span{
	{3, 21, 4, 19},
	{4, 20, 5, 20},
	{5, 21, 6, 21},
	{6, 22, 7, 22},
	{7, 23, 8, 22},
	{8, 23, 9, 22},
	{9, 23, 10, 22},
	{10, 23, 11, 21},
	{11, 22, 12, 21},
	{12, 22, 1, 19},
	{1, 20, 2, 18},
	{2, 19, 3, 20},
}

// SunSign returns the sign whose date span contains month/day.
func SunSign(month, day int) Sign {
	for i, s := range sunSpans {
		if (month == s.startMonth && day >= s.startDay) || (month == s.endMonth && day <= s.endDay) {
			return SignAt(i)
		}
	}
	return SignAt(11)
}

// MoonSign approximates the moon by the day of month on a 27-day cycle.
func MoonSign(day int) Sign {
	return SignAt(int(math.Floor(float64(day%27) / 2.25)))
}

// Ascendant shifts the sun sign back one sign for every two hours of the day.
func Ascendant(sun Sign, hour int) Sign {
	idx := math.Mod(float64(sun.Index+12)-float64(hour)/2, 12)
	return SignAt(int(math.Floor(idx)))
}

// Compute builds the chart for a solar date and an hour in 0-23.
func Compute(month, day, hour int) Chart {
	sun := SunSign(month, day)
	return Chart{
		Sun:       sun,
		Moon:      MoonSign(day),
		Ascendant: Ascendant(sun, hour),
	}
}
