package common

import (
	"fmt"
	"os"
	"time"

	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog/log"
)

const (
	DefaultClickUpBaseURL     = "https://api.clickup.com/api/v2"
	DefaultClickUpTimeout     = 30 * time.Second
	DefaultClickUpMaxAttempts = 3
	DefaultClickUpConcurrency = 4
	DefaultClickUpMaxPages    = 10

	DefaultGeminiModel          = "gemini-2.0-flash"
	DefaultGeminiTimeout        = 2 * time.Minute
	DefaultRecommendMaxAttempts = 3
	DefaultSummaryMaxChars      = 4000
	DefaultSummaryMaxNameLength = 60
	DefaultSummaryTasksPerList  = 5
)

type ClickUpConfig struct {
	BaseURL     string        `koanf:"base_url"`
	Timeout     time.Duration `koanf:"timeout"`
	MaxAttempts int           `koanf:"max_attempts"`
	Concurrency int           `koanf:"concurrency"`
	MaxPages    int           `koanf:"max_pages"`
}

type GeminiConfig struct {
	Model       string        `koanf:"model"`
	Timeout     time.Duration `koanf:"timeout"`
	MaxAttempts int           `koanf:"max_attempts"`
}

type SummaryConfig struct {
	MaxChars      int `koanf:"max_chars"`
	MaxNameLength int `koanf:"max_name_length"`
	TasksPerList  int `koanf:"tasks_per_list"`
}

// TemplateConfig overrides one entry of the static template link list.
type TemplateConfig struct {
	Name    string `koanf:"name"`
	URL     string `koanf:"url"`
	UseCase string `koanf:"use_case"`
}

// LocalConfig represents the optional config file structure. Zero values are
// replaced with defaults by WithDefaults.
type LocalConfig struct {
	ClickUp   ClickUpConfig    `koanf:"clickup"`
	Gemini    GeminiConfig     `koanf:"gemini"`
	Summary   SummaryConfig    `koanf:"summary"`
	Templates []TemplateConfig `koanf:"templates"`
	FlagsFile string           `koanf:"flags_file"`
}

func (c LocalConfig) WithDefaults() LocalConfig {
	if c.ClickUp.BaseURL == "" {
		c.ClickUp.BaseURL = DefaultClickUpBaseURL
	}
	if c.ClickUp.Timeout == 0 {
		c.ClickUp.Timeout = DefaultClickUpTimeout
	}
	if c.ClickUp.MaxAttempts == 0 {
		c.ClickUp.MaxAttempts = DefaultClickUpMaxAttempts
	}
	if c.ClickUp.Concurrency == 0 {
		c.ClickUp.Concurrency = DefaultClickUpConcurrency
	}
	if c.ClickUp.MaxPages == 0 {
		c.ClickUp.MaxPages = DefaultClickUpMaxPages
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = DefaultGeminiModel
	}
	if c.Gemini.Timeout == 0 {
		c.Gemini.Timeout = DefaultGeminiTimeout
	}
	if c.Gemini.MaxAttempts == 0 {
		c.Gemini.MaxAttempts = DefaultRecommendMaxAttempts
	}
	if c.Summary.MaxChars == 0 {
		c.Summary.MaxChars = DefaultSummaryMaxChars
	}
	if c.Summary.MaxNameLength == 0 {
		c.Summary.MaxNameLength = DefaultSummaryMaxNameLength
	}
	if c.Summary.TasksPerList == 0 {
		c.Summary.TasksPerList = DefaultSummaryTasksPerList
	}
	if c.FlagsFile == "" {
		c.FlagsFile = os.Getenv("CLICKUPAI_FLAGS_FILE")
	}
	return c
}

// Validate ensures the LocalConfig is usable
func (c LocalConfig) Validate() error {
	if c.ClickUp.MaxAttempts < 0 || c.Gemini.MaxAttempts < 0 {
		return fmt.Errorf("max_attempts must not be negative")
	}
	if c.ClickUp.Concurrency < 0 {
		return fmt.Errorf("clickup.concurrency must not be negative")
	}
	if c.Summary.MaxChars < 0 || c.Summary.MaxNameLength < 0 || c.Summary.TasksPerList < 0 {
		return fmt.Errorf("summary limits must not be negative")
	}
	for i, t := range c.Templates {
		if t.Name == "" {
			return fmt.Errorf("template %d: name is required", i)
		}
		if t.URL == "" {
			return fmt.Errorf("template %s: url is required", t.Name)
		}
	}
	return nil
}

// LoadLocalConfig loads the config file at configPath. A missing file yields
// the defaults.
func LoadLocalConfig(configPath string) (LocalConfig, error) {
	if configPath == "" {
		return LocalConfig{}.WithDefaults(), nil
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return LocalConfig{}.WithDefaults(), nil
	}

	parser := GetParserForExtension(configPath)
	if parser == nil {
		return LocalConfig{}, fmt.Errorf("unsupported config file extension: %s", configPath)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(configPath), parser); err != nil {
		return LocalConfig{}, fmt.Errorf("error loading config: %w", err)
	}

	var config LocalConfig
	if err := k.Unmarshal("", &config); err != nil {
		return LocalConfig{}, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return LocalConfig{}, fmt.Errorf("invalid config: %w", err)
	}

	return config.WithDefaults(), nil
}

// LoadConfig discovers and loads the config file from the config home. The
// CLICKUPAI_CONFIG environment variable names an explicit file instead.
func LoadConfig() (LocalConfig, error) {
	if path := os.Getenv("CLICKUPAI_CONFIG"); path != "" {
		return LoadLocalConfig(path)
	}

	result := DiscoverConfigFile(GetConfigHome(), ConfigCandidates)
	if len(result.AllFound) > 1 {
		log.Warn().Strs("found", result.AllFound).Str("using", result.ChosenPath).
			Msg("Multiple config files found; only the highest precedence one is used")
	}
	return LoadLocalConfig(result.ChosenPath)
}
