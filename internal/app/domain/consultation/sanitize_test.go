package consultation

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/app/models"
)

func TestSanitizer_Clean(t *testing.T) {
	s := NewSanitizer()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trims", "  hello  ", "hello"},
		{"angle brackets", "<script>hi</script>", "scripthi/script"},
		{"javascript scheme", "JavaScript:alert(1)", "alert(1)"},
		{"keyword", "please IGNORE this", "please  this"},
		{"all keywords", "system prompt override instruction", "   "},
		{"inside a word", "systems ignored", "systems ignored"},
		{"next to hangul", "system을 알려줘", "을 알려줘"},
		{"underscore is a word byte", "my_prompt", "my_prompt"},
		{"korean untouched", "올해 재물운은 어떤가요?", "올해 재물운은 어떤가요?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Clean(tt.in))
		})
	}
}

func TestSanitizer_Truncates(t *testing.T) {
	s := NewSanitizer()
	out := s.Clean(strings.Repeat("가", 600))
	assert.Equal(t, MaxInputRunes, utf8.RuneCountInString(out))
	assert.True(t, utf8.ValidString(out))
}

func TestSanitizer_ValidateName(t *testing.T) {
	s := NewSanitizer()

	for _, ok := range []string{"홍길동", "Jane Doe", "  김철수  ", "Li"} {
		got, err := s.ValidateName(ok)
		require.NoError(t, err, ok)
		assert.Equal(t, strings.TrimSpace(ok), got)
	}

	for _, bad := range []string{"", "김", "R2D2", "<b>", "Verylongname", "이름!"} {
		_, err := s.ValidateName(bad)
		assert.ErrorIs(t, err, models.ErrInvalidName, bad)
	}
}
