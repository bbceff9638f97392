package llm

import (
	"os"

	"gopkg.in/yaml.v3"
)

// PromptSpec is the optional tuning file for the assistant model. It lets
// operators adjust model and sampling parameters without a rebuild.
type PromptSpec struct {
	Model string `yaml:"model"`
	Style struct {
		Temperature float32 `yaml:"temperature"`
		MaxTokens   int     `yaml:"max_tokens"`
	} `yaml:"style"`
}

// LoadPromptSpec reads a YAML tuning file. A missing file is not an error;
// the client falls back to its defaults.
func LoadPromptSpec(path string) (*PromptSpec, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &PromptSpec{}, nil
		}
		return nil, err
	}
	var spec PromptSpec
	if err := yaml.Unmarshal(b, &spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Apply overlays the spec's non-zero fields onto opts.
func (s *PromptSpec) Apply(opts Options) Options {
	if s.Model != "" {
		opts.Model = s.Model
	}
	if s.Style.Temperature > 0 {
		opts.Temperature = s.Style.Temperature
	}
	if s.Style.MaxTokens > 0 {
		opts.MaxTokens = s.Style.MaxTokens
	}
	return opts
}
