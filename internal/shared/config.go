package shared

import (
	"fmt"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Config is the optional sniffy.yaml. Empty variant fields fall back to the
// profile defaults.
type Config struct {
	Sniffer Variant `yaml:"sniffer"`
	Fixer   Variant `yaml:"fixer"`

	History struct {
		Enabled bool   `yaml:"enabled"`
		DSN     string `yaml:"dsn"` // sqlite file, default under $XDG_DATA_HOME/sniffy
	} `yaml:"history"`

	Reporting struct {
		OutDir string `yaml:"out_dir"` // "" = no report files
	} `yaml:"reporting"`

	Logging struct {
		Format string `yaml:"format"` // "json"|"text"
		Level  string `yaml:"level"`  // "info"|"debug"|"warn"|"error"
	} `yaml:"logging"`
}

// Variant configures one audit profile.
type Variant struct {
	Root      string   `yaml:"root"`      // rule source tree
	Config    string   `yaml:"config"`    // project lint configuration
	Snapshot  string   `yaml:"snapshot"`  // snapshot json
	Extension string   `yaml:"extension"` // flat discovery source extension
	Exclude   []string `yaml:"exclude"`   // structured discovery path filters
}

// Variant returns the section for a profile name.
func (c Config) Variant(name string) Variant {
	switch name {
	case "sniffer":
		return c.Sniffer
	case "fixer":
		return c.Fixer
	default:
		return Variant{}
	}
}

func DefaultHistoryDSN() string {
	return filepath.Join(xdg.DataHome, "sniffy", "history.db")
}

func DefaultConfig() Config {
	var c Config
	c.History.DSN = DefaultHistoryDSN()
	c.Logging.Format = "text"
	c.Logging.Level = "info"
	return c
}

// LoadConfig merges the YAML file at path (optional) over the defaults and
// applies env overrides.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return c, fmt.Errorf("read config: %w", err)
		}
		var fc Config
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return c, fmt.Errorf("parse config %s: %w", path, err)
		}
		if err := mergo.Merge(&c, fc, mergo.WithOverride); err != nil {
			return c, fmt.Errorf("merge config: %w", err)
		}
	}
	// Env overrides (simple, explicit)
	if v := os.Getenv("SNIFFY_HISTORY_DSN"); v != "" {
		c.History.DSN = v
		c.History.Enabled = true
	}
	if v := os.Getenv("SNIFFY_SNIFFER_SNAPSHOT"); v != "" {
		c.Sniffer.Snapshot = v
	}
	if v := os.Getenv("SNIFFY_FIXER_SNAPSHOT"); v != "" {
		c.Fixer.Snapshot = v
	}
	if v := os.Getenv("SNIFFY_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("SNIFFY_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("SNIFFY_OUT_DIR"); v != "" {
		c.Reporting.OutDir = v
	}
	return c, nil
}
