package prompts

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// embeds all .yaml files in the templates folder into Go program at compile time
//
//go:embed templates/*.yaml
var templateFS embed.FS

// DefaultStyle is used when a session does not request a specific
// interviewer style.
const DefaultStyle = "general"

// PromptProvider is what consumers of interviewer prompts depend on.
type PromptProvider interface {
	SystemPrompt(style string) (string, error)
	Styles() []string
}

type PromptManager struct {
	prompts map[string]string // style -> complete system prompt
}

// loaded prompt template
type PromptTemplate struct {
	BasePrompt string            `yaml:"base_prompt"`
	Styles     map[string]string `yaml:"styles"`
}

// creates a new prompt manager and loads templates
func NewPromptManager() (*PromptManager, error) {
	pm := &PromptManager{
		prompts: make(map[string]string),
	}

	if err := pm.loadPrompts(); err != nil {
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}

	return pm, nil
}

// SystemPrompt returns the complete interviewer system prompt for a style.
func (pm *PromptManager) SystemPrompt(style string) (string, error) {
	prompt, exists := pm.prompts[style]
	if !exists {
		return "", fmt.Errorf("unknown interviewer style: %s", style)
	}
	return prompt, nil
}

// Styles lists the available interviewer styles in stable order.
func (pm *PromptManager) Styles() []string {
	styles := make([]string, 0, len(pm.prompts))
	for style := range pm.prompts {
		styles = append(styles, style)
	}
	sort.Strings(styles)
	return styles
}

// loadPrompts loads all YAML prompt files from the embedded filesystem
func (pm *PromptManager) loadPrompts() error {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return fmt.Errorf("failed to read templates directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		data, err := templateFS.ReadFile("templates/" + entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", entry.Name(), err)
		}

		var promptTemplate PromptTemplate
		if err := yaml.Unmarshal(data, &promptTemplate); err != nil {
			return fmt.Errorf("failed to parse template file %s: %w", entry.Name(), err)
		}

		for style, stylePrompt := range promptTemplate.Styles {
			var fullPrompt strings.Builder
			if promptTemplate.BasePrompt != "" {
				fullPrompt.WriteString(promptTemplate.BasePrompt)
				fullPrompt.WriteString("\n\n")
			}
			fullPrompt.WriteString(stylePrompt)
			pm.prompts[style] = fullPrompt.String()
		}
	}

	if len(pm.prompts) == 0 {
		return fmt.Errorf("no prompt templates found")
	}
	if _, ok := pm.prompts[DefaultStyle]; !ok {
		return fmt.Errorf("default interviewer style %q missing from templates", DefaultStyle)
	}

	return nil
}
