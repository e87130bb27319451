package ganzhi

// Element is one of the five phases every stem and branch belongs to.
type Element int

const (
	Wood Element = iota
	Fire
	Earth
	Metal
	Water
)

// Elements lists the five phases in generating order.
var Elements = [5]Element{Wood, Fire, Earth, Metal, Water}

var (
	elementHangul = [5]string{"목", "화", "토", "금", "수"}
	elementHanja  = [5]string{"木", "火", "土", "金", "水"}
	elementNames  = [5]string{"wood", "fire", "earth", "metal", "water"}
)

// String returns the Hangul name of the element.
func (e Element) String() string { return elementHangul[e] }

// Hanja returns the Chinese character of the element.
func (e Element) Hanja() string { return elementHanja[e] }

// Name returns the lowercase English name, used as a JSON key.
func (e Element) Name() string { return elementNames[e] }

// Stem is a heavenly stem, cyclic index 0-9.
type Stem int

var (
	stemHanja   = [10]string{"甲", "乙", "丙", "丁", "戊", "己", "庚", "辛", "壬", "癸"}
	stemHangul  = [10]string{"갑", "을", "병", "정", "무", "기", "경", "신", "임", "계"}
	stemElement = [10]Element{Wood, Wood, Fire, Fire, Earth, Earth, Metal, Metal, Water, Water}
)

func (s Stem) Hanja() string { return stemHanja[s] }
func (s Stem) Hangul() string { return stemHangul[s] }
func (s Stem) Element() Element { return stemElement[s] }
func (s Stem) String() string { return stemHangul[s] }
func (s Stem) Index() int { return int(s) }

// Branch is an earthly branch, cyclic index 0-11. Branch 0 is 子.
type Branch int

var (
	branchHanja   = [12]string{"子", "丑", "寅", "卯", "辰", "巳", "午", "未", "申", "酉", "戌", "亥"}
	branchHangul  = [12]string{"자", "축", "인", "묘", "진", "사", "오", "미", "신", "유", "술", "해"}
	branchAnimal  = [12]string{"쥐", "소", "호랑이", "토끼", "용", "뱀", "말", "양", "원숭이", "닭", "개", "돼지"}
	branchElement = [12]Element{Water, Earth, Wood, Wood, Earth, Fire, Fire, Earth, Metal, Metal, Earth, Water}
)

func (b Branch) Hanja() string { return branchHanja[b] }
func (b Branch) Hangul() string { return branchHangul[b] }
func (b Branch) Element() Element { return branchElement[b] }
func (b Branch) String() string { return branchHangul[b] }
func (b Branch) Index() int { return int(b) }

// Animal returns the zodiac animal associated with the branch.
func (b Branch) Animal() string { return branchAnimal[b] }

// HourName returns the traditional two-hour period name, e.g. "자시".
func (b Branch) HourName() string { return branchHangul[b] + "시" }

// mod is a floored modulo so negative offsets stay inside the cycle.
func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
