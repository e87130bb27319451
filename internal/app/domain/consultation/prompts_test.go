package consultation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPrompts_Embedded(t *testing.T) {
	p, err := LoadPrompts("")
	require.NoError(t, err)
	assert.Contains(t, p.Persona, "해요체")

	out, err := p.Render(PromptSajuConsultation, PromptData{
		Name:      "홍길동",
		Gender:    "male",
		BirthDate: "1990-01-01",
		BirthTime: "14:00",
		Calendar:  "양력",
		Lunar:     "1989년 12월 5일",
		Pillars:   "기사년 병자월 병인일 을미시",
		Hanja:     "己巳 丙子 丙寅 乙未",
		Elements:  "목2 화3 토2 금0 수1",
		Dominant:  "화",
		Missing:   "금",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "확정 사주 명식: 기사년 병자월 병인일 을미시")
	assert.Contains(t, out, `"사주 명식: 기사년 병자월 병인일 을미시"`)
	assert.Contains(t, out, "부족한 기운: 금")
	assert.Contains(t, out, "음력 1989년 12월 5일")
}

func TestPrompts_RenderAll(t *testing.T) {
	p, err := LoadPrompts("")
	require.NoError(t, err)

	data := PromptData{
		Name: "Jane", Pillars: "갑자년 병인월 무진일 무오시", Elements: "목1 화2 토3 금0 수2",
		Sun: "염소자리", Moon: "양자리", Ascendant: "쌍둥이자리", Question: "올해 운세는?",
	}
	for _, name := range requiredPrompts {
		out, err := p.Render(name, data)
		require.NoError(t, err, name)
		assert.NotEmpty(t, out, name)
		assert.Equal(t, strings.TrimSpace(out), out)
	}

	chat, err := p.Render(PromptAstrologyChat, data)
	require.NoError(t, err)
	assert.Contains(t, chat, "상승궁: 쌍둥이자리")
	assert.Contains(t, chat, `"올해 운세는?"`)

	_, err = p.Render("tarot", data)
	assert.Error(t, err)
}

func TestLoadPrompts_Override(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompts.yaml")
	content := `persona: 테스트 페르소나
saju_consultation: "S {{.Pillars}}"
astrology_consultation: "A {{.Sun}}"
saju_chat: "SC {{.Question}}"
astrology_chat: "AC {{.Question}}"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	p, err := LoadPrompts(path)
	require.NoError(t, err)
	assert.Equal(t, "테스트 페르소나", p.Persona)

	out, err := p.Render(PromptSajuChat, PromptData{Question: "q"})
	require.NoError(t, err)
	assert.Equal(t, "SC q", out)
}

func TestParsePrompts_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"not yaml", "persona: [unclosed"},
		{"no persona", "saju_consultation: x\nastrology_consultation: x\nsaju_chat: x\nastrology_chat: x\n"},
		{"missing prompt", "persona: p\nsaju_consultation: x\nsaju_chat: x\nastrology_chat: x\n"},
		{"bad template", "persona: p\nsaju_consultation: \"{{.Name\"\nastrology_consultation: x\nsaju_chat: x\nastrology_chat: x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePrompts([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}

	_, err := LoadPrompts(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
