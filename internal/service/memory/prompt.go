package memory

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"text/template"

	"github.com/sandevgo/recall/internal/core"
)

const defaultPrompt = `{{.Context}}
{{- if .Asker}}
The person asking the question is called '{{.Asker}}'.
{{- end}}
You are a helpful assistant who has been listening to this chat. Using only the messages above and no prior knowledge, answer this question: {{.Question}}
`

type promptData struct {
	Context  string
	Asker    string
	Question string
}

// Prompt renders the final request sent to the language model. Operators can
// replace the default by dropping a template file into the runtime directory.
type Prompt struct {
	tmpl *template.Template
}

// DefaultPromptTemplate is the source of the built-in prompt, for operators
// who want a starting point for their own.
func DefaultPromptTemplate() string {
	return defaultPrompt
}

func DefaultPrompt() *Prompt {
	return &Prompt{tmpl: template.Must(template.New("prompt").Parse(defaultPrompt))}
}

// LoadPrompt parses the template at path, falling back to the default when
// the file does not exist.
func LoadPrompt(path string) (*Prompt, error) {
	if path == "" {
		return DefaultPrompt(), nil
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultPrompt(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt template: %w", err)
	}

	tmpl, err := template.New("prompt").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template: %w", err)
	}
	return &Prompt{tmpl: tmpl}, nil
}

func (p *Prompt) Build(block core.ContextBlock, asker, question string) (string, error) {
	var buf bytes.Buffer
	err := p.tmpl.Execute(&buf, promptData{
		Context:  block.Text,
		Asker:    asker,
		Question: question,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return buf.String(), nil
}
