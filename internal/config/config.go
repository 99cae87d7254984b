package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/Mavwarf/appicon/internal/paths"
)

// DefaultOutput is the output directory used when none is configured.
const DefaultOutput = "./icons"

// DefaultPrefix is the icon filename prefix used when none is configured.
const DefaultPrefix = "AppIcon"

// History backends.
const (
	HistoryFile   = "file"
	HistorySQLite = "sqlite"
	HistoryOff    = "off"
)

// MQTT holds broker settings for the completion notification.
type MQTT struct {
	Broker   string `json:"broker,omitempty" yaml:"broker" env:"APPICON_MQTT_BROKER"`
	Topic    string `json:"topic,omitempty" yaml:"topic" env:"APPICON_MQTT_TOPIC"`
	ClientID string `json:"client_id,omitempty" yaml:"client_id" env:"APPICON_MQTT_CLIENT_ID"`
	Username string `json:"username,omitempty" yaml:"username" env:"APPICON_MQTT_USERNAME"`
	Password string `json:"password,omitempty" yaml:"password" env:"APPICON_MQTT_PASSWORD"`
	QoS      int    `json:"qos,omitempty" yaml:"qos" env:"APPICON_MQTT_QOS"`
	Retain   bool   `json:"retain,omitempty" yaml:"retain" env:"APPICON_MQTT_RETAIN"`
}

// Notify holds where to announce finished runs. Empty fields disable
// the corresponding channel.
type Notify struct {
	// Message is the notification text template; see tmpl.Expand.
	// Empty uses a built-in summary.
	Message        string            `json:"message,omitempty" yaml:"message" env:"APPICON_NOTIFY_MESSAGE"`
	WebhookURL     string            `json:"webhook_url,omitempty" yaml:"webhook_url" env:"APPICON_WEBHOOK_URL"`
	WebhookHeaders map[string]string `json:"webhook_headers,omitempty" yaml:"webhook_headers"`
	MQTT           MQTT              `json:"mqtt,omitempty" yaml:"mqtt"`
}

// Config holds the settings a run falls back to when a flag is absent.
type Config struct {
	Output       string `json:"output,omitempty" yaml:"output" env:"APPICON_OUTPUT"`
	Prefix       string `json:"prefix,omitempty" yaml:"prefix" env:"APPICON_PREFIX"`
	Resampler    string `json:"resampler,omitempty" yaml:"resampler" env:"APPICON_RESAMPLER"`
	DeviceIdioms bool   `json:"device_idioms,omitempty" yaml:"device_idioms" env:"APPICON_DEVICE_IDIOMS"`
	ICNS         bool   `json:"icns,omitempty" yaml:"icns" env:"APPICON_ICNS"`
	History      string `json:"history,omitempty" yaml:"history" env:"APPICON_HISTORY"` // "file" | "sqlite" | "off"
	Notify       Notify `json:"notify,omitempty" yaml:"notify"`

	// Source is the file the config was read from, "" for built-in defaults.
	Source string `json:"-" yaml:"-"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Output:  DefaultOutput,
		Prefix:  DefaultPrefix,
		History: HistoryFile,
	}
}

// UnmarshalJSON sets defaults then decodes the JSON structure.
// Go's json.Unmarshal merges into existing struct fields, so only
// values present in JSON override the defaults.
func (c *Config) UnmarshalJSON(data []byte) error {
	*c = Defaults()
	type Alias Config
	return json.Unmarshal(data, (*Alias)(c))
}

// Load reads the config file and applies APPICON_* environment
// overrides. It tries, in order:
//  1. explicitPath (if non-empty; must exist)
//  2. appicon-config.json / .yaml next to the running binary
//  3. appicon-config.json / .yaml in DataDir()
//
// Finding no file is not an error: built-in defaults are used.
func Load(explicitPath string) (Config, error) {
	cfg, err := loadFile(explicitPath)
	if err != nil {
		return Config{}, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(explicitPath string) (Config, error) {
	if explicitPath != "" {
		return readConfig(explicitPath)
	}

	var dirs []string
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	dirs = append(dirs, paths.DataDir())

	for _, dir := range dirs {
		for _, name := range []string{paths.ConfigFileName, paths.ConfigYAMLFileName} {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				return readConfig(p)
			}
		}
	}
	return Defaults(), nil
}

// ApplyEnv overrides cfg with any APPICON_* variables that are set.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	switch c.History {
	case HistoryFile, HistorySQLite, HistoryOff:
	default:
		return fmt.Errorf("config: history must be %q, %q or %q, got %q",
			HistoryFile, HistorySQLite, HistoryOff, c.History)
	}
	if c.Notify.MQTT.QoS < 0 || c.Notify.MQTT.QoS > 2 {
		return fmt.Errorf("config: mqtt qos must be 0, 1 or 2, got %d", c.Notify.MQTT.QoS)
	}
	if c.Notify.MQTT.Broker != "" && c.Notify.MQTT.Topic == "" {
		return fmt.Errorf("config: mqtt broker set without a topic")
	}
	return nil
}

func readConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	cfg := Defaults()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	cfg.Source = path
	return cfg, nil
}
