package consultation

import (
	"regexp"
	"strings"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
	"golang.org/x/text/unicode/norm"

	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/app/models"
)

// MaxInputRunes bounds every free-text field after cleaning.
const MaxInputRunes = 500

// Words that read like attempts to steer the model. They are removed only
// as whole words.
var injectionWords = []string{"system", "prompt", "ignore", "override", "instruction"}

var namePattern = regexp.MustCompile(`^[a-zA-Z가-힣\s]{2,10}$`)

// Sanitizer cleans user supplied text before it is placed in a prompt.
type Sanitizer struct {
	scripts  ahocorasick.AhoCorasick
	keywords ahocorasick.AhoCorasick
}

// NewSanitizer builds the keyword automatons.
func NewSanitizer() *Sanitizer {
	opts := ahocorasick.Opts{
		AsciiCaseInsensitive: true,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
	}
	scripts := ahocorasick.NewAhoCorasickBuilder(opts)
	keywords := ahocorasick.NewAhoCorasickBuilder(opts)
	return &Sanitizer{
		scripts:  scripts.Build([]string{"javascript:"}),
		keywords: keywords.Build(injectionWords),
	}
}

// Clean trims the input, drops angle brackets, script URLs and steering
// keywords, and cuts the result to MaxInputRunes.
func (s *Sanitizer) Clean(input string) string {
	out := strings.TrimSpace(input)
	out = strings.NewReplacer("<", "", ">", "").Replace(out)
	out = remove(out, s.scripts.FindAll(out), false)
	out = remove(out, s.keywords.FindAll(out), true)
	return truncateRunes(out, MaxInputRunes)
}

// ValidateName normalizes and cleans a name, then checks it is 2 to 10
// Hangul or Latin letters.
func (s *Sanitizer) ValidateName(name string) (string, error) {
	cleaned := s.Clean(norm.NFC.String(name))
	if !namePattern.MatchString(cleaned) {
		return "", models.ErrInvalidName
	}
	return cleaned, nil
}

func remove(text string, matches []ahocorasick.Match, wholeWords bool) string {
	if len(matches) == 0 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for i := range matches {
		m := &matches[i]
		if wholeWords && !atWordBoundary(text, m.Start(), m.End()) {
			continue
		}
		b.WriteString(text[last:m.Start()])
		last = m.End()
	}
	b.WriteString(text[last:])
	return b.String()
}

// atWordBoundary treats only ASCII letters, digits and '_' as word bytes,
// so a keyword next to Hangul still counts as a whole word.
func atWordBoundary(text string, start, end int) bool {
	if start > 0 && isWordByte(text[start-1]) {
		return false
	}
	if end < len(text) && isWordByte(text[end]) {
		return false
	}
	return true
}

func isWordByte(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
