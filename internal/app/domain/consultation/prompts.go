package consultation

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var defaultPrompts []byte

// Prompt names in the catalog.
const (
	PromptSajuConsultation      = "saju_consultation"
	PromptAstrologyConsultation = "astrology_consultation"
	PromptSajuChat              = "saju_chat"
	PromptAstrologyChat         = "astrology_chat"
)

var requiredPrompts = []string{
	PromptSajuConsultation,
	PromptAstrologyConsultation,
	PromptSajuChat,
	PromptAstrologyChat,
}

// PromptData is the value every prompt template is executed with.
type PromptData struct {
	Name      string
	Gender    string
	BirthDate string
	BirthTime string
	Calendar  string
	Lunar     string
	Location  string

	Pillars  string
	Hanja    string
	Elements string
	Dominant string
	Missing  string

	Sun       string
	Moon      string
	Ascendant string

	Question string
}

// Prompts holds the persona and the compiled prompt templates.
type Prompts struct {
	Persona   string
	templates map[string]*template.Template
}

type promptFile struct {
	Persona string            `yaml:"persona"`
	Rest    map[string]string `yaml:",inline"`
}

// LoadPrompts reads the catalog from path, or the embedded catalog when
// path is empty.
func LoadPrompts(path string) (*Prompts, error) {
	data := defaultPrompts
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompts file %s: %w", path, err)
		}
		data = b
	}
	return ParsePrompts(data)
}

// ParsePrompts compiles a YAML catalog. All four prompts and the persona
// must be present.
func ParsePrompts(data []byte) (*Prompts, error) {
	var f promptFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse prompts: %w", err)
	}
	if strings.TrimSpace(f.Persona) == "" {
		return nil, fmt.Errorf("prompts: persona is empty")
	}

	p := &Prompts{
		Persona:   strings.TrimSpace(f.Persona),
		templates: make(map[string]*template.Template, len(requiredPrompts)),
	}
	for _, name := range requiredPrompts {
		text, ok := f.Rest[name]
		if !ok || strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("prompts: %s is missing", name)
		}
		tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("prompts: %s: %w", name, err)
		}
		p.templates[name] = tmpl
	}
	return p, nil
}

// Render executes the named prompt.
func (p *Prompts) Render(name string, data PromptData) (string, error) {
	tmpl, ok := p.templates[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt %q", name)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return strings.TrimSpace(b.String()), nil
}
