package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	DBPath      string   `yaml:"db_path"`
	ModelDir    string   `yaml:"model_dir,omitempty"`
	UseTagger   bool     `yaml:"use_tagger"`
	PackPaths   []string `yaml:"pack_paths,omitempty"`
	ColorOutput bool     `yaml:"color_output"`

	Typo       TypoSettings       `yaml:"typo"`
	Normalizer NormalizerSettings `yaml:"normalizer"`
	Entity     EntitySettings     `yaml:"entity"`
}

// TypoSettings holds the correction chain's tunables
type TypoSettings struct {
	MaxEditDistance     int     `yaml:"max_edit_distance"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
}

// NormalizerSettings holds the normalizer's preserve flags and limits
type NormalizerSettings struct {
	MaxQueryLength      int  `yaml:"max_query_length"`
	MinQueryLength      int  `yaml:"min_query_length"`
	PreserveCase        bool `yaml:"preserve_case"`
	PreservePunctuation bool `yaml:"preserve_punctuation"`
	PreserveNumbers     bool `yaml:"preserve_numbers"`
	PreserveEmails      bool `yaml:"preserve_emails"`
	PreserveURLs        bool `yaml:"preserve_urls"`
	PreservePhones      bool `yaml:"preserve_phones"`
	RemoveStopWords     bool `yaml:"remove_stop_words"`
}

// EntitySettings holds the resolver's toggles and threshold
type EntitySettings struct {
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`
	EnableContext       bool    `yaml:"enable_context"`
	EnableFuzzy         bool    `yaml:"enable_fuzzy"`
}

// Default returns the default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		DBPath:    filepath.Join(homeDir, ".contractnlp", "contractnlp.db"),
		ModelDir:  filepath.Join(homeDir, ".contractnlp", "models"),
		UseTagger: false,
		Typo: TypoSettings{
			MaxEditDistance:     2,
			SimilarityThreshold: 0.75,
		},
		Normalizer: NormalizerSettings{
			MaxQueryLength:      1000,
			MinQueryLength:      1,
			PreserveCase:        true,
			PreservePunctuation: true,
			PreserveNumbers:     true,
			PreserveEmails:      true,
			PreserveURLs:        true,
			PreservePhones:      true,
		},
		Entity: EntitySettings{
			ConfidenceThreshold: 0.75,
			EnableContext:       true,
			EnableFuzzy:         true,
		},
	}
}

// Load reads configuration from file, creating with defaults if it doesn't exist
func Load(path string) (*Config, error) {
	// If file doesn't exist, create it with defaults
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		if err := cfg.Save(path); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	// Read existing file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default() // Start with defaults
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to file
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the default config file path
func GetConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".contractnlp", "config.yaml")
}
