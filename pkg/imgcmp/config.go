package imgcmp

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultModel = "doubao-seed-1-6-250615"

	// DefaultPrompt asks the model to answer exactly "Yes" when the images match
	DefaultPrompt = "你是一个负责测试穿戴产品的工程师，第一张图是设计稿，第二张图是测试设备图像，两张图像显示内容是否一致？如果一致，请回复“Yes”，否则请回复“No”并说明原因。"
)

// Config is one comparison run. It is not modified after parsing.
type Config struct {
	DesignImage string       `yaml:"-"`
	DeviceImage string       `yaml:"-"`
	Model       string       `yaml:"model"`
	Thinking    ThinkingMode `yaml:"thinking"`
	Prompt      string       `yaml:"prompt"`
	BaseURL     string       `yaml:"base_url"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() Config {
	return Config{
		Model:    DefaultModel,
		Thinking: ThinkingDisabled,
		Prompt:   DefaultPrompt,
	}
}

// LoadConfigFile overlays the keys present in the YAML file at path onto base
func LoadConfigFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDotEnv loads variables from the dotenv file at path without overriding ones already set
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
