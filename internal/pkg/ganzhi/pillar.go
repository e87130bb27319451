package ganzhi

import (
	"fmt"
	"strings"
)

// Pillar pairs one stem with one branch. Only the 60 pairs reachable from
// a single offset exist, so stem and branch always share parity.
type Pillar struct {
	Stem   Stem
	Branch Branch
}

// PillarFromOffset maps an arbitrary integer offset onto the sexagenary cycle.
func PillarFromOffset(offset int) Pillar {
	return Pillar{
		Stem:   Stem(mod(offset, 10)),
		Branch: Branch(mod(offset, 12)),
	}
}

// Index returns the position of the pillar in the 60-cycle, 甲子 being 0.
func (p Pillar) Index() int {
	return mod(6*int(p.Stem)-5*int(p.Branch), 60)
}

// Next returns the pillar one step further along the cycle.
func (p Pillar) Next() Pillar {
	return PillarFromOffset(p.Index() + 1)
}

// String returns the Hangul reading, e.g. "갑자".
func (p Pillar) String() string {
	return p.Stem.Hangul() + p.Branch.Hangul()
}

// Hanja returns the two Chinese characters, e.g. "甲子".
func (p Pillar) Hanja() string {
	return p.Stem.Hanja() + p.Branch.Hanja()
}

// FourPillars is the year, month, day and hour designation of a birth moment.
type FourPillars struct {
	Year  Pillar
	Month Pillar
	Day   Pillar
	Hour  Pillar
}

// All returns the pillars in year, month, day, hour order.
func (fp FourPillars) All() [4]Pillar {
	return [4]Pillar{fp.Year, fp.Month, fp.Day, fp.Hour}
}

// String renders the pillars the way they appear in a saju reading:
// "기사년 병자월 병인일 을미시".
func (fp FourPillars) String() string {
	return fmt.Sprintf("%s년 %s월 %s일 %s시", fp.Year, fp.Month, fp.Day, fp.Hour)
}

// Hanja renders the eight characters separated by spaces.
func (fp FourPillars) Hanja() string {
	parts := make([]string, 0, 4)
	for _, p := range fp.All() {
		parts = append(parts, p.Hanja())
	}
	return strings.Join(parts, " ")
}

// Tally counts the element of each of the eight characters.
func (fp FourPillars) Tally() ElementTally {
	var t ElementTally
	for _, p := range fp.All() {
		t[p.Stem.Element()]++
		t[p.Branch.Element()]++
	}
	return t
}

// ElementTally holds one counter per element, indexed by Element.
type ElementTally [5]int

// Count returns the counter for e.
func (t ElementTally) Count(e Element) int { return t[e] }

// Total is always 8 for a tally built from FourPillars.
func (t ElementTally) Total() int {
	sum := 0
	for _, n := range t {
		sum += n
	}
	return sum
}

// Dominant returns the elements holding the highest count.
func (t ElementTally) Dominant() []Element {
	best := 0
	for _, n := range t {
		best = max(best, n)
	}
	var out []Element
	for _, e := range Elements {
		if t[e] == best && best > 0 {
			out = append(out, e)
		}
	}
	return out
}

// Missing returns the elements that do not appear at all.
func (t ElementTally) Missing() []Element {
	var out []Element
	for _, e := range Elements {
		if t[e] == 0 {
			out = append(out, e)
		}
	}
	return out
}

// Map keys the counts by English element name.
func (t ElementTally) Map() map[string]int {
	m := make(map[string]int, len(Elements))
	for _, e := range Elements {
		m[e.Name()] = t[e]
	}
	return m
}

// String renders the tally as "목2 화3 토2 금0 수1".
func (t ElementTally) String() string {
	var b strings.Builder
	for i, e := range Elements {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s%d", e, t[e])
	}
	return b.String()
}
