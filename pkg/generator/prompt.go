package generator

import (
	"bytes"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/go-go-golems/naofs/pkg/generation"
	"github.com/pkg/errors"
)

const systemTemplate = `Return ONLY JSON in this exact schema (no code fences, no extra text):
{
  "language":{{ .Language | toJson }},
  "verbosity":{{ .Verbosity | toJson }},
  "sections":[
    { "id":"", "title":"", "body":"", "children":[] }
  ]
}
Rules:
- Titles short & descriptive (one line).
- Body plain text (no markdown), concise at verbosity={{ .Verbosity }}.
- Children optional; same shape if present.
- No commentary or extra keys. Only the JSON object above.`

const userTemplate = `Topic: {{ .Prompt | trim }}`

type PromptTemplate struct {
	system *template.Template
	user   *template.Template
}

func NewPromptTemplate() (*PromptTemplate, error) {
	system, err := template.New("system").Funcs(sprig.TxtFuncMap()).Parse(systemTemplate)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse system prompt")
	}
	user, err := template.New("user").Funcs(sprig.TxtFuncMap()).Parse(userTemplate)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse user prompt")
	}
	return &PromptTemplate{system: system, user: user}, nil
}

func (p *PromptTemplate) Render(req generation.Request) (Prompt, error) {
	var system, user bytes.Buffer
	if err := p.system.Execute(&system, req); err != nil {
		return Prompt{}, errors.Wrap(err, "could not render system prompt")
	}
	if err := p.user.Execute(&user, req); err != nil {
		return Prompt{}, errors.Wrap(err, "could not render user prompt")
	}
	return Prompt{System: system.String(), User: user.String(), Request: req}, nil
}
