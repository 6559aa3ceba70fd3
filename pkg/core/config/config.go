package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/oil/foundation/core/error"
	mdwlog "github.com/msto63/oil/foundation/core/log"
	mdwparser "github.com/msto63/oil/foundation/oil/parser"
)

// EnvVar names the environment variable holding the config file path
const EnvVar = "OIL_CONFIG"

// Config holds the complete application configuration
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general" json:"general"`
	Parser  ParserConfig  `toml:"parser" yaml:"parser" json:"parser"`
	Output  OutputConfig  `toml:"output" yaml:"output" json:"output"`
	Server  ServerConfig  `toml:"server" yaml:"server" json:"server"`
	Cache   CacheConfig   `toml:"cache" yaml:"cache" json:"cache"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name      string `toml:"name" yaml:"name" json:"name"`
	LogLevel  string `toml:"log_level" yaml:"log_level" json:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format" json:"log_format"`
	Journal   bool   `toml:"journal" yaml:"journal" json:"journal"`
}

// ParserConfig holds parser limits and the default stop characters
type ParserConfig struct {
	MaxInputLength int    `toml:"max_input_length" yaml:"max_input_length" json:"max_input_length"`
	Stop           string `toml:"stop" yaml:"stop" json:"stop"`
}

// OutputConfig controls how parse results are rendered
type OutputConfig struct {
	Format string `toml:"format" yaml:"format" json:"format"`
	Indent int    `toml:"indent" yaml:"indent" json:"indent"`
}

// ServerConfig holds the parse service settings
type ServerConfig struct {
	Host              string   `toml:"host" yaml:"host" json:"host"`
	Port              int      `toml:"port" yaml:"port" json:"port"`
	LivePort          int      `toml:"live_port" yaml:"live_port" json:"live_port"` // -1 disables the live endpoint
	Reflection        bool     `toml:"reflection" yaml:"reflection" json:"reflection"`
	KeepaliveInterval Duration `toml:"keepalive_interval" yaml:"keepalive_interval" json:"keepalive_interval"`
	KeepaliveTimeout  Duration `toml:"keepalive_timeout" yaml:"keepalive_timeout" json:"keepalive_timeout"`
}

// CacheConfig holds parse result cache settings
type CacheConfig struct {
	MaxItems int      `toml:"max_items" yaml:"max_items" json:"max_items"`
	TTL      Duration `toml:"ttl" yaml:"ttl" json:"ttl"`
}

// Duration wraps time.Duration for TOML, YAML and CUE parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// schema constrains CUE configuration files
const schema = `
general?: {
	name?:       string
	log_level?:  "" | "trace" | "debug" | "info" | "warn" | "warning" | "error"
	log_format?: "" | "text" | "json"
	journal?:    bool
}
parser?: {
	max_input_length?: int & >=0
	stop?:             string
}
output?: {
	format?: "" | "json" | "yaml" | "oil"
	indent?: int & >=0 & <=8
}
server?: {
	host?:               string
	port?:               int & >=0 & <=65535
	live_port?:          int & >=-1 & <=65535
	reflection?:         bool
	keepalive_interval?: string
	keepalive_timeout?:  string
}
cache?: {
	max_items?: int & >=0
	ttl?:       string
}
`

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a file; the decoder is chosen by extension
func Load(path string) (*Config, error) {
	// Expand environment variables in path
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, mdwerror.Newf("config file not found: %s", path).
				WithCode(mdwerror.CodeConfigError).
				WithDetail("path", path)
		}
		return nil, mdwerror.Wrap(err, "failed to read config").
			WithCode(mdwerror.CodeConfigError).
			WithDetail("path", path)
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	cfg, err := Decode(data, format, path)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode parses configuration data in the given format (toml, yaml, yml or
// cue), applies defaults and validates the result. name is used in messages.
func Decode(data []byte, format, name string) (*Config, error) {
	var cfg Config
	var err error

	switch format {
	case "toml":
		_, err = toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg)
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &cfg)
	case "cue":
		err = decodeCUE(data, name, &cfg)
	default:
		return nil, mdwerror.Newf("unsupported config format %q", format).
			WithCode(mdwerror.CodeConfigError).
			WithDetail("path", name)
	}
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to parse config").
			WithCode(mdwerror.CodeConfigError).
			WithDetail("path", name)
	}

	// Apply defaults
	cfg.applyDefaults()

	// Expand environment variables in string fields
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decodeCUE(data []byte, name string, target *Config) error {
	ctx := cuecontext.New()

	value := ctx.CompileBytes(data, cue.Filename(name))
	if err := value.Err(); err != nil {
		return err
	}

	constraint := ctx.CompileString("close({" + schema + "})")
	if err := constraint.Err(); err != nil {
		return err
	}
	if err := constraint.Unify(value).Validate(); err != nil {
		return err
	}

	return value.Decode(target)
}

// LoadFromEnv loads configuration from the OIL_CONFIG environment variable or
// the first default location that exists. Without any file the defaults are
// returned.
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv(EnvVar); path != "" {
		return Load(path)
	}

	for _, p := range DefaultPaths() {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}
	return Default(), nil
}

// DefaultPaths lists the locations LoadFromEnv tries in order
func DefaultPaths() []string {
	paths := []string{
		"./oil.toml",
		"./oil.yaml",
		"./oil.cue",
		"./configs/oil.toml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "oil", "config.toml"))
	}
	return paths
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.Name == "" {
		c.General.Name = "oil"
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}

	// Parser
	if c.Parser.MaxInputLength == 0 {
		c.Parser.MaxInputLength = mdwparser.DefaultMaxInputLength
	}

	// Output
	if c.Output.Format == "" {
		c.Output.Format = "json"
	}
	if c.Output.Indent == 0 {
		c.Output.Indent = 2
	}

	// Server
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 9300
	}
	if c.Server.LivePort == 0 {
		c.Server.LivePort = 9301
	}
	if c.Server.KeepaliveInterval.Duration == 0 {
		c.Server.KeepaliveInterval.Duration = 30 * time.Second
	}
	if c.Server.KeepaliveTimeout.Duration == 0 {
		c.Server.KeepaliveTimeout.Duration = 10 * time.Second
	}

	// Cache
	if c.Cache.MaxItems == 0 {
		c.Cache.MaxItems = 256
	}
	if c.Cache.TTL.Duration == 0 {
		c.Cache.TTL.Duration = 10 * time.Minute
	}
}

// expandEnvVars expands environment variables in configuration values
func (c *Config) expandEnvVars() {
	c.General.Name = os.ExpandEnv(c.General.Name)
	c.Server.Host = os.ExpandEnv(c.Server.Host)
}

// Validate checks value ranges and enumerations
func (c *Config) Validate() error {
	var problems []string

	if _, err := mdwlog.ParseLevel(c.General.LogLevel); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := mdwlog.ParseFormat(c.General.LogFormat); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Parser.MaxInputLength < 0 {
		problems = append(problems, fmt.Sprintf("parser.max_input_length must not be negative: %d", c.Parser.MaxInputLength))
	}
	switch c.Output.Format {
	case "json", "yaml", "oil":
	default:
		problems = append(problems, fmt.Sprintf("output.format must be json, yaml or oil: %q", c.Output.Format))
	}
	if c.Output.Indent < 0 || c.Output.Indent > 8 {
		problems = append(problems, fmt.Sprintf("output.indent out of range: %d", c.Output.Indent))
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port out of range: %d", c.Server.Port))
	}
	if c.Server.LivePort < -1 || c.Server.LivePort > 65535 {
		problems = append(problems, fmt.Sprintf("server.live_port out of range: %d", c.Server.LivePort))
	}
	if c.Server.KeepaliveInterval.Duration < 0 || c.Server.KeepaliveTimeout.Duration < 0 {
		problems = append(problems, "server keepalive durations must not be negative")
	}
	if c.Cache.MaxItems < 0 || c.Cache.TTL.Duration < 0 {
		problems = append(problems, "cache limits must not be negative")
	}

	if len(problems) > 0 {
		return mdwerror.New("invalid configuration: "+strings.Join(problems, "; ")).
			WithCode(mdwerror.CodeInvalidConfig).
			WithDetail("problems", len(problems))
	}
	return nil
}

// ListenAddress returns the gRPC listen address
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// LiveAddress returns the WebSocket listen address, "" when disabled
func (c *Config) LiveAddress() string {
	if c.Server.LivePort <= 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.LivePort)
}

// LogConfig converts the general section into a logger configuration
func (c *Config) LogConfig() (mdwlog.Config, error) {
	level, err := mdwlog.ParseLevel(c.General.LogLevel)
	if err != nil {
		return mdwlog.Config{}, err
	}
	format, err := mdwlog.ParseFormat(c.General.LogFormat)
	if err != nil {
		return mdwlog.Config{}, err
	}
	return mdwlog.Config{
		Level:   level,
		Format:  format,
		Name:    c.General.Name,
		Journal: c.General.Journal,
	}, nil
}
