package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestUnmarshalDefaults(t *testing.T) {
	var cfg Config
	if err := json.Unmarshal([]byte(`{"icns": true}`), &cfg); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if cfg.Output != DefaultOutput {
		t.Errorf("Output = %q, want %q", cfg.Output, DefaultOutput)
	}
	if cfg.Prefix != DefaultPrefix {
		t.Errorf("Prefix = %q, want %q", cfg.Prefix, DefaultPrefix)
	}
	if cfg.History != HistoryFile {
		t.Errorf("History = %q, want %q", cfg.History, HistoryFile)
	}
	if !cfg.ICNS {
		t.Error("ICNS = false, want true")
	}
}

func TestLoadJSON(t *testing.T) {
	p := writeFile(t, "appicon-config.json", `{
		"output": "build/icons",
		"prefix": "Flow",
		"resampler": "catmullrom",
		"history": "sqlite",
		"notify": {
			"webhook_url": "https://example.com/hook",
			"webhook_headers": {"Authorization": "Bearer $TOKEN"},
			"mqtt": {"broker": "tcp://localhost:1883", "topic": "build/icons", "qos": 1}
		}
	}`)

	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output != "build/icons" || cfg.Prefix != "Flow" || cfg.Resampler != "catmullrom" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.History != HistorySQLite {
		t.Errorf("History = %q, want sqlite", cfg.History)
	}
	if cfg.Notify.WebhookHeaders["Authorization"] != "Bearer $TOKEN" {
		t.Errorf("headers = %v", cfg.Notify.WebhookHeaders)
	}
	if cfg.Notify.MQTT.QoS != 1 || cfg.Notify.MQTT.Topic != "build/icons" {
		t.Errorf("mqtt = %+v", cfg.Notify.MQTT)
	}
	if cfg.Source != p {
		t.Errorf("Source = %q, want %q", cfg.Source, p)
	}
}

func TestLoadYAML(t *testing.T) {
	p := writeFile(t, "appicon-config.yaml", `
prefix: Wave
device_idioms: true
notify:
  mqtt:
    broker: tcp://localhost:1883
    topic: icons/done
    retain: true
`)

	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Prefix != "Wave" || !cfg.DeviceIdioms {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Output != DefaultOutput {
		t.Errorf("Output = %q, want default %q", cfg.Output, DefaultOutput)
	}
	if !cfg.Notify.MQTT.Retain || cfg.Notify.MQTT.Topic != "icons/done" {
		t.Errorf("mqtt = %+v", cfg.Notify.MQTT)
	}
}

func TestLoadExplicitMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("expected error for missing explicit config")
	}
	if !strings.Contains(err.Error(), "reading config") {
		t.Errorf("error = %v", err)
	}
}

func TestLoadMalformed(t *testing.T) {
	p := writeFile(t, "bad.json", `{"output": `)
	if _, err := Load(p); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadNoFileUsesDefaults(t *testing.T) {
	t.Setenv("APPDATA", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output != DefaultOutput || cfg.Prefix != DefaultPrefix {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFromDataDir(t *testing.T) {
	appdata := t.TempDir()
	t.Setenv("APPDATA", appdata)
	dir := filepath.Join(appdata, "appicon")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "appicon-config.json"), []byte(`{"prefix":"Data"}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Prefix != "Data" {
		t.Errorf("Prefix = %q, want Data", cfg.Prefix)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	p := writeFile(t, "appicon-config.json", `{"prefix": "FromFile", "output": "file-out"}`)
	t.Setenv("APPICON_PREFIX", "FromEnv")
	t.Setenv("APPICON_ICNS", "true")
	t.Setenv("APPICON_MQTT_QOS", "2")
	t.Setenv("APPICON_MQTT_BROKER", "tcp://broker:1883")
	t.Setenv("APPICON_MQTT_TOPIC", "t")

	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Prefix != "FromEnv" {
		t.Errorf("Prefix = %q, want FromEnv", cfg.Prefix)
	}
	if cfg.Output != "file-out" {
		t.Errorf("Output = %q, want file-out (unset env must not override)", cfg.Output)
	}
	if !cfg.ICNS {
		t.Error("ICNS = false, want true from env")
	}
	if cfg.Notify.MQTT.QoS != 2 || cfg.Notify.MQTT.Broker != "tcp://broker:1883" {
		t.Errorf("mqtt = %+v", cfg.Notify.MQTT)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"history off", func(c *Config) { c.History = HistoryOff }, false},
		{"bad history", func(c *Config) { c.History = "s3" }, true},
		{"bad qos", func(c *Config) { c.Notify.MQTT.QoS = 3 }, true},
		{"broker without topic", func(c *Config) { c.Notify.MQTT.Broker = "tcp://x:1883" }, true},
	}
	for _, tt := range tests {
		cfg := Defaults()
		tt.mutate(&cfg)
		err := cfg.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}
