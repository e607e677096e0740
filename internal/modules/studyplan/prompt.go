package studyplan

import (
	"bytes"
	"embed"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed prompts/study_plan.yaml
var promptFS embed.FS

// Prompt is a rendered instruction pair for the text model.
type Prompt struct {
	System string
	User   string
}

type promptSpec struct {
	Name    string `yaml:"name"`
	Version int    `yaml:"version"`
	System  string `yaml:"system"`
	User    string `yaml:"user"`
}

type promptInput struct {
	Subject string
	Level   string
	Days    int
	Hours   string
}

type compiledPrompt struct {
	spec   promptSpec
	system *template.Template
	user   *template.Template
}

var (
	promptOnce sync.Once
	promptTmpl *compiledPrompt
	promptErr  error
)

func loadPrompt() (*compiledPrompt, error) {
	promptOnce.Do(func() {
		data, err := promptFS.ReadFile("prompts/study_plan.yaml")
		if err != nil {
			promptErr = fmt.Errorf("read prompt spec: %w", err)
			return
		}
		var spec promptSpec
		if err := yaml.Unmarshal(data, &spec); err != nil {
			promptErr = fmt.Errorf("parse prompt spec: %w", err)
			return
		}
		if strings.TrimSpace(spec.User) == "" {
			promptErr = fmt.Errorf("prompt spec %q has empty user template", spec.Name)
			return
		}
		sysT, err := template.New("system").Option("missingkey=zero").Parse(spec.System)
		if err != nil {
			promptErr = fmt.Errorf("%s system template parse: %w", spec.Name, err)
			return
		}
		userT, err := template.New("user").Option("missingkey=zero").Parse(spec.User)
		if err != nil {
			promptErr = fmt.Errorf("%s user template parse: %w", spec.Name, err)
			return
		}
		promptTmpl = &compiledPrompt{spec: spec, system: sysT, user: userT}
	})
	return promptTmpl, promptErr
}

// BuildPrompt renders the generation prompt. The output is a pure function
// of params.
func BuildPrompt(params Params) (Prompt, error) {
	if err := checkParams(params, 0); err != nil {
		return Prompt{}, err
	}
	tmpl, err := loadPrompt()
	if err != nil {
		return Prompt{}, err
	}
	in := promptInput{
		Subject: strings.TrimSpace(params.Subject),
		Level:   strings.TrimSpace(params.Level),
		Days:    params.Days,
		Hours:   strconv.FormatFloat(params.HoursPerDay, 'f', -1, 64),
	}
	render := func(t *template.Template) (string, error) {
		var b bytes.Buffer
		if err := t.Execute(&b, in); err != nil {
			return "", err
		}
		return strings.TrimSpace(b.String()), nil
	}
	system, err := render(tmpl.system)
	if err != nil {
		return Prompt{}, fmt.Errorf("render system prompt: %w", err)
	}
	user, err := render(tmpl.user)
	if err != nil {
		return Prompt{}, fmt.Errorf("render user prompt: %w", err)
	}
	return Prompt{System: system, User: user}, nil
}

// checkParams enforces the generation preconditions. maxDays <= 0 means no cap.
func checkParams(p Params, maxDays int) error {
	switch {
	case strings.TrimSpace(p.Subject) == "":
		return fmt.Errorf("%w: subject is required", ErrInvalidParameters)
	case strings.TrimSpace(p.Level) == "":
		return fmt.Errorf("%w: level is required", ErrInvalidParameters)
	case p.Days < 1:
		return fmt.Errorf("%w: days must be at least 1", ErrInvalidParameters)
	case maxDays > 0 && p.Days > maxDays:
		return fmt.Errorf("%w: days must be at most %d", ErrInvalidParameters, maxDays)
	case !(p.HoursPerDay > 0) || p.HoursPerDay > 24:
		return fmt.Errorf("%w: hours per day must be greater than 0 and at most 24", ErrInvalidParameters)
	}
	return nil
}
