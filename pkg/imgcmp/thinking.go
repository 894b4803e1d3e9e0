package imgcmp

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ThinkingMode selects whether the model exposes a reasoning trace
type ThinkingMode string

const (
	ThinkingDisabled ThinkingMode = "disabled"
	ThinkingEnabled  ThinkingMode = "enabled"
	ThinkingAuto     ThinkingMode = "auto"
)

// ThinkingModes lists every accepted value in display order
var ThinkingModes = []ThinkingMode{ThinkingDisabled, ThinkingEnabled, ThinkingAuto}

// ParseThinkingMode accepts exactly one of the ThinkingModes literals
func ParseThinkingMode(s string) (ThinkingMode, error) {
	for _, mode := range ThinkingModes {
		if s == string(mode) {
			return mode, nil
		}
	}
	return "", fmt.Errorf("invalid thinking mode %q (choose from %s)", s, thinkingChoices())
}

// String implements flag.Value
func (m *ThinkingMode) String() string {
	if m == nil || *m == "" {
		return string(ThinkingDisabled)
	}
	return string(*m)
}

// Set implements flag.Value
func (m *ThinkingMode) Set(s string) error {
	mode, err := ParseThinkingMode(s)
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// UnmarshalYAML lets config files use the same literals as the flag
func (m *ThinkingMode) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return m.Set(s)
}

func thinkingChoices() string {
	names := make([]string, len(ThinkingModes))
	for i, mode := range ThinkingModes {
		names[i] = string(mode)
	}
	return strings.Join(names, ", ")
}
