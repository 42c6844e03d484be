// Package prompt holds the static system prompts and fallback replies used by
// the response providers. The texts live in an embedded YAML file so wording
// can be revised without touching code.
package prompt

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"telecom-agent/internal/domain"
)

// SupportPhone is the human support number every prompt and fallback mentions.
const SupportPhone = "0799000000"

//go:embed prompts.yaml
var promptsYAML []byte

// Registry maps a language code to its system prompt and fallback reply.
// Unknown codes resolve to English.
type Registry struct {
	systemPrompts map[string]string
	fallbacks     map[string]string
}

type promptsFile struct {
	SystemPrompts map[string]string `yaml:"system_prompts"`
	Fallbacks     map[string]string `yaml:"fallbacks"`
}

// NewRegistry parses the embedded prompt data and verifies every supported
// language is covered.
func NewRegistry() (*Registry, error) {
	var file promptsFile
	if err := yaml.Unmarshal(promptsYAML, &file); err != nil {
		return nil, fmt.Errorf("parse prompts: %w", err)
	}

	for _, lang := range domain.SupportedLanguages {
		if file.SystemPrompts[lang] == "" {
			return nil, fmt.Errorf("missing system prompt for language %q", lang)
		}
		if file.Fallbacks[lang] == "" {
			return nil, fmt.Errorf("missing fallback for language %q", lang)
		}
	}

	return &Registry{
		systemPrompts: file.SystemPrompts,
		fallbacks:     file.Fallbacks,
	}, nil
}

// SystemPrompt returns the prompt for language, or the English one when the
// code is unknown.
func (r *Registry) SystemPrompt(language string) string {
	if p, ok := r.systemPrompts[language]; ok {
		return p
	}
	return r.systemPrompts[domain.LanguageEnglish]
}

// Fallback returns the apology reply for language, or the English one when the
// code is unknown.
func (r *Registry) Fallback(language string) string {
	if f, ok := r.fallbacks[language]; ok {
		return f
	}
	return r.fallbacks[domain.LanguageEnglish]
}
