package zodiac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSunSign_Boundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		month, day int
		want       string
	}{
		{3, 20, "물고기자리"},
		{3, 21, "양자리"},
		{4, 19, "양자리"},
		{4, 20, "황소자리"},
		{6, 21, "쌍둥이자리"},
		{6, 22, "게자리"},
		{8, 23, "처녀자리"},
		{10, 23, "전갈자리"},
		{12, 21, "사수자리"},
		{12, 22, "염소자리"},
		{1, 1, "염소자리"},
		{1, 19, "염소자리"},
		{1, 20, "물병자리"},
		{2, 18, "물병자리"},
		{2, 19, "물고기자리"},
		{2, 29, "물고기자리"},
	}

	for _, tc := range tests {
		got := SunSign(tc.month, tc.day)
		assert.Equal(t, tc.want, got.Name, "%d/%d", tc.month, tc.day)
	}
}

func TestMoonSign(t *testing.T) {
	assert.Equal(t, "양자리", MoonSign(1).Name)
	assert.Equal(t, "황소자리", MoonSign(3).Name)
	assert.Equal(t, "물고기자리", MoonSign(26).Name)
	assert.Equal(t, "양자리", MoonSign(27).Name)
	assert.Equal(t, "황소자리", MoonSign(30).Name)
}

func TestAscendant(t *testing.T) {
	aries := SignAt(0)

	assert.Equal(t, 0, Ascendant(aries, 0).Index)
	assert.Equal(t, 11, Ascendant(aries, 1).Index)
	assert.Equal(t, 6, Ascendant(aries, 12).Index)
	assert.Equal(t, 0, Ascendant(aries, 23).Index)
}

func TestCompute(t *testing.T) {
	chart := Compute(1, 1, 14)

	assert.Equal(t, Chart{
		Sun:       Sign{Index: 9, Name: "염소자리"},
		Moon:      Sign{Index: 0, Name: "양자리"},
		Ascendant: Sign{Index: 2, Name: "쌍둥이자리"},
	}, chart)
}

func TestSignAt_Wraps(t *testing.T) {
	assert.Equal(t, SignAt(1), SignAt(13))
	assert.Equal(t, SignAt(11), SignAt(-1))
}
