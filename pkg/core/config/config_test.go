package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	mdwerror "github.com/msto63/oil/foundation/core/error"
	mdwlog "github.com/msto63/oil/foundation/core/log"
)

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"seconds", "30s", 30 * time.Second, false},
		{"minutes", "5m", 5 * time.Minute, false},
		{"hours", "2h", 2 * time.Hour, false},
		{"complex", "1h30m", 90 * time.Minute, false},
		{"milliseconds", "100ms", 100 * time.Millisecond, false},
		{"invalid", "invalid", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))

			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalText() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && d.Duration != tt.expected {
				t.Errorf("UnmarshalText() = %v, want %v", d.Duration, tt.expected)
			}
		})
	}
}

func TestDuration_MarshalText(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{"seconds", 30 * time.Second, "30s"},
		{"minutes", 5 * time.Minute, "5m0s"},
		{"hours", 2 * time.Hour, "2h0m0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Duration{tt.duration}
			result, err := d.MarshalText()

			if err != nil {
				t.Errorf("MarshalText() error = %v", err)
				return
			}

			if string(result) != tt.expected {
				t.Errorf("MarshalText() = %v, want %v", string(result), tt.expected)
			}
		})
	}
}

func TestConfig_applyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	// General defaults
	if cfg.General.Name != "oil" {
		t.Errorf("General.Name = %v, want oil", cfg.General.Name)
	}
	if cfg.General.LogLevel != "info" {
		t.Errorf("General.LogLevel = %v, want info", cfg.General.LogLevel)
	}
	if cfg.General.LogFormat != "text" {
		t.Errorf("General.LogFormat = %v, want text", cfg.General.LogFormat)
	}

	// Parser defaults
	if cfg.Parser.MaxInputLength != 1<<20 {
		t.Errorf("Parser.MaxInputLength = %v, want %v", cfg.Parser.MaxInputLength, 1<<20)
	}

	// Output defaults
	if cfg.Output.Format != "json" || cfg.Output.Indent != 2 {
		t.Errorf("Output = %+v, want json/2", cfg.Output)
	}

	// Server defaults
	if cfg.Server.Port != 9300 || cfg.Server.LivePort != 9301 {
		t.Errorf("Server ports = %v/%v, want 9300/9301", cfg.Server.Port, cfg.Server.LivePort)
	}
	if cfg.Server.KeepaliveInterval.Duration != 30*time.Second {
		t.Errorf("Server.KeepaliveInterval = %v, want 30s", cfg.Server.KeepaliveInterval.Duration)
	}

	// Cache defaults
	if cfg.Cache.MaxItems != 256 {
		t.Errorf("Cache.MaxItems = %v, want 256", cfg.Cache.MaxItems)
	}
	if cfg.Cache.TTL.Duration != 10*time.Minute {
		t.Errorf("Cache.TTL = %v, want 10m", cfg.Cache.TTL.Duration)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestConfig_Addresses(t *testing.T) {
	cfg := Default()
	if got := cfg.ListenAddress(); got != "0.0.0.0:9300" {
		t.Errorf("ListenAddress() = %v", got)
	}
	if got := cfg.LiveAddress(); got != "0.0.0.0:9301" {
		t.Errorf("LiveAddress() = %v", got)
	}

	cfg.Server.LivePort = 0
	if got := cfg.LiveAddress(); got != "" {
		t.Errorf("LiveAddress() with port 0 = %v, want empty", got)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"log level", func(c *Config) { c.General.LogLevel = "loud" }},
		{"log format", func(c *Config) { c.General.LogFormat = "xml" }},
		{"output format", func(c *Config) { c.Output.Format = "csv" }},
		{"indent", func(c *Config) { c.Output.Indent = 12 }},
		{"port", func(c *Config) { c.Server.Port = 70000 }},
		{"live port", func(c *Config) { c.Server.LivePort = -2 }},
		{"max input", func(c *Config) { c.Parser.MaxInputLength = -5 }},
		{"cache", func(c *Config) { c.Cache.MaxItems = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() expected error")
			}
			if !mdwerror.HasCode(err, mdwerror.CodeInvalidConfig) {
				t.Errorf("Validate() code = %v, want INVALID_CONFIG", mdwerror.GetCode(err))
			}
		})
	}
}

func TestConfig_LogConfig(t *testing.T) {
	cfg := Default()
	cfg.General.LogLevel = "debug"
	cfg.General.LogFormat = "json"

	lc, err := cfg.LogConfig()
	if err != nil {
		t.Fatalf("LogConfig() error = %v", err)
	}
	if lc.Level != mdwlog.LevelDebug || lc.Format != mdwlog.FormatJSON || lc.Name != "oil" {
		t.Errorf("LogConfig() = %+v", lc)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.toml")
	if err == nil {
		t.Fatal("Load() expected error for non-existent file")
	}
	if !mdwerror.HasCode(err, mdwerror.CodeConfigError) {
		t.Errorf("Load() code = %v, want CONFIG_ERROR", mdwerror.GetCode(err))
	}
}

func TestLoad_Formats(t *testing.T) {
	tests := []struct {
		file    string
		content string
	}{
		{
			file: "oil.toml",
			content: `
[general]
name = "oil-test"
log_level = "debug"

[server]
port = 9999
host = "127.0.0.1"

[cache]
ttl = "1m"
`,
		},
		{
			file: "oil.yaml",
			content: `
general:
  name: oil-test
  log_level: debug
server:
  port: 9999
  host: 127.0.0.1
cache:
  ttl: 1m
`,
		},
		{
			file: "oil.cue",
			content: `
general: {
	name:      "oil-test"
	log_level: "debug"
}
server: {
	port: 9999
	host: "127.0.0.1"
}
cache: ttl: "1m"
`,
		},
	}

	for _, tt := range tests {
		t.Run(filepath.Ext(tt.file), func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write test config: %v", err)
			}

			cfg, err := Load(configPath)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}

			if cfg.General.Name != "oil-test" {
				t.Errorf("General.Name = %v, want oil-test", cfg.General.Name)
			}
			if cfg.General.LogLevel != "debug" {
				t.Errorf("General.LogLevel = %v, want debug", cfg.General.LogLevel)
			}
			if cfg.ListenAddress() != "127.0.0.1:9999" {
				t.Errorf("ListenAddress() = %v, want 127.0.0.1:9999", cfg.ListenAddress())
			}
			if cfg.Cache.TTL.Duration != time.Minute {
				t.Errorf("Cache.TTL = %v, want 1m", cfg.Cache.TTL.Duration)
			}

			// Check defaults were applied for missing values
			if cfg.Server.LivePort != 9301 {
				t.Errorf("Server.LivePort = %v, want 9301 (default)", cfg.Server.LivePort)
			}
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name   string
		format string
		data   string
	}{
		{"unknown format", "ini", "a=1"},
		{"broken toml", "toml", "[general"},
		{"broken yaml", "yaml", "general: [1"},
		{"bad duration", "toml", "[cache]\nttl = \"soon\""},
		{"cue unknown section", "cue", "bogus: 1"},
		{"cue schema violation", "cue", "server: port: 70000"},
		{"cue wrong level", "cue", `general: log_level: "loud"`},
		{"invalid values", "yaml", "output:\n  format: csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data), tt.format, "test."+tt.format)
			if err == nil {
				t.Fatal("Decode() expected error")
			}
		})
	}
}

func TestConfig_expandEnvVars(t *testing.T) {
	t.Setenv("OIL_TEST_HOST", "10.0.0.1")

	cfg, err := Decode([]byte("[server]\nhost = \"$OIL_TEST_HOST\""), "toml", "env.toml")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if cfg.Server.Host != "10.0.0.1" {
		t.Errorf("Server.Host = %v, want 10.0.0.1", cfg.Server.Host)
	}
}

func TestLoadFromEnv(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	originalWd, _ := os.Getwd()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(originalWd)

	t.Run("no config found", func(t *testing.T) {
		t.Setenv(EnvVar, "")
		cfg, err := LoadFromEnv()
		if err != nil {
			t.Fatalf("LoadFromEnv() error = %v", err)
		}
		if cfg.General.Name != "oil" {
			t.Errorf("General.Name = %v, want default", cfg.General.Name)
		}
	})

	t.Run("default path", func(t *testing.T) {
		t.Setenv(EnvVar, "")
		if err := os.WriteFile("oil.yaml", []byte("general:\n  name: from-cwd\n"), 0644); err != nil {
			t.Fatal(err)
		}
		defer os.Remove("oil.yaml")

		cfg, err := LoadFromEnv()
		if err != nil {
			t.Fatalf("LoadFromEnv() error = %v", err)
		}
		if cfg.General.Name != "from-cwd" {
			t.Errorf("General.Name = %v, want from-cwd", cfg.General.Name)
		}
	})

	t.Run("environment variable", func(t *testing.T) {
		path := filepath.Join(tmpDir, "custom.toml")
		if err := os.WriteFile(path, []byte("[general]\nname = \"from-env\"\n"), 0644); err != nil {
			t.Fatal(err)
		}
		t.Setenv(EnvVar, path)

		cfg, err := LoadFromEnv()
		if err != nil {
			t.Fatalf("LoadFromEnv() error = %v", err)
		}
		if cfg.General.Name != "from-env" {
			t.Errorf("General.Name = %v, want from-env", cfg.General.Name)
		}
	})

	t.Run("missing file from environment", func(t *testing.T) {
		t.Setenv(EnvVar, filepath.Join(tmpDir, "missing.toml"))
		_, err := LoadFromEnv()
		if err == nil || !strings.Contains(err.Error(), "not found") {
			t.Errorf("LoadFromEnv() error = %v, want not found", err)
		}
	})
}
