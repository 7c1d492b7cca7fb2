package prompts

import (
	"bytes"
	"text/template"
)

type SystemPromptData struct {
	DefaultTaskPriceSats int64
}

// GenerateSystemPrompt renders the system prompt template with the
// operator-configured values. A zero default task price leaves the pricing
// guideline out entirely.
func GenerateSystemPrompt(baseTemplate string, data SystemPromptData) (string, error) {
	tmpl, err := template.New("system").Parse(baseTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
