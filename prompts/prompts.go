package prompts

import (
	"bytes"
	"embed"
	"strings"
	"text/template"
)

//go:embed templates/*
var templatesFS embed.FS

// PersonaData fills the persona templates.
type PersonaData struct {
	AssistantName string
	Organization  string
	Destinations  []string
}

// Priming is the scripted exchange that establishes the persona before the
// first real question.
type Priming struct {
	Instruction    string // user
	Acknowledgment string // assistant
	Persona        string // user
	Ready          string // assistant
}

func DefaultPersonaData() PersonaData {
	return PersonaData{
		AssistantName: "Bright Path Assistant",
		Organization:  "Bright Path Study Abroad",
		Destinations:  []string{"the USA", "the UK", "Canada", "Australia", "Germany", "Ireland"},
	}
}

// RenderPersona renders the full persona definition.
func RenderPersona(data PersonaData) (string, error) {
	return render("templates/persona.md", data)
}

// RenderPriming renders all four priming turns.
func RenderPriming(data PersonaData) (Priming, error) {
	var p Priming
	var err error

	if p.Instruction, err = render("templates/instruction.md", data); err != nil {
		return Priming{}, err
	}
	if p.Acknowledgment, err = render("templates/acknowledgment.md", data); err != nil {
		return Priming{}, err
	}
	if p.Persona, err = RenderPersona(data); err != nil {
		return Priming{}, err
	}
	if p.Ready, err = render("templates/ready.md", data); err != nil {
		return Priming{}, err
	}

	return p, nil
}

func render(name string, data PersonaData) (string, error) {
	content, err := templatesFS.ReadFile(name)
	if err != nil {
		return "", err
	}

	tmpl, err := template.New(name).Funcs(template.FuncMap{"join": strings.Join}).Parse(string(content))
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return strings.TrimSpace(buf.String()), nil
}
