package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable, e.g. SAFETY_SOURCE_SHEET_NAME
const EnvPrefix = "SAFETY"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	WebSocket WebSocketConfig `yaml:"websocket" envconfig:"WEBSOCKET"`
	Source    SourceConfig    `yaml:"source" envconfig:"SOURCE"`
	Refresh   RefreshConfig   `yaml:"refresh" envconfig:"REFRESH"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"45s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"20"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"40"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	ExecutableDir string `yaml:"executable_dir" envconfig:"EXECUTABLE_DIR"`
	LogsDir       string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
	ExportsDir    string `yaml:"exports_dir" envconfig:"EXPORTS_DIR" default:"exports"`
}

// WebSocketConfig contains WebSocket configuration
type WebSocketConfig struct {
	ReadBufferSize  int           `yaml:"read_buffer_size" envconfig:"READ_BUFFER_SIZE" default:"1024"`
	WriteBufferSize int           `yaml:"write_buffer_size" envconfig:"WRITE_BUFFER_SIZE" default:"1024"`
	PingPeriod      time.Duration `yaml:"ping_period" envconfig:"PING_PERIOD" default:"30s"`
	PongWait        time.Duration `yaml:"pong_wait" envconfig:"PONG_WAIT" default:"60s"`
}

// SourceConfig describes where inspection rows are fetched from
type SourceConfig struct {
	// Kind is "gviz" for the public visualization endpoint or "sheets" for the Sheets API v4
	Kind           string        `yaml:"kind" envconfig:"KIND" default:"gviz"`
	SpreadsheetID  string        `yaml:"spreadsheet_id" envconfig:"SPREADSHEET_ID"`
	SheetName      string        `yaml:"sheet_name" envconfig:"SHEET_NAME" default:"Dados Tratados"`
	Range          string        `yaml:"range" envconfig:"RANGE" default:"I:T"`
	BaseURL        string        `yaml:"base_url" envconfig:"BASE_URL" default:"https://docs.google.com/spreadsheets/d"`
	APIKey         string        `yaml:"api_key" envconfig:"API_KEY"`
	SheetsEndpoint string        `yaml:"sheets_endpoint" envconfig:"SHEETS_ENDPOINT"`
	Timeout        time.Duration `yaml:"timeout" envconfig:"TIMEOUT" default:"10s"`
	// Columns binds source column positions (relative to Range) to row fields, as "index=field" pairs
	Columns []string `yaml:"columns" envconfig:"COLUMNS" default:"0=id,1=timestamp,2=sector,3=role,4=shift,5=phase,7=domain,8=item,9=response,11=weight"`
}

// RefreshConfig controls foreground retries and the background refresh cadence
type RefreshConfig struct {
	Interval          time.Duration `yaml:"interval" envconfig:"INTERVAL" default:"30s"`
	ForegroundRetries int           `yaml:"foreground_retries" envconfig:"FOREGROUND_RETRIES" default:"2"`
	RetryDelay        time.Duration `yaml:"retry_delay" envconfig:"RETRY_DELAY" default:"2s"`
	OnStartup         bool          `yaml:"on_startup" envconfig:"ON_STARTUP" default:"true"`
}

// TelemetryConfig contains OpenTelemetry configuration
type TelemetryConfig struct {
	Environment    string  `yaml:"environment" envconfig:"ENVIRONMENT" default:"development"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" default:"none"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" default:"prometheus"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" default:"1"`
}

// Load loads configuration from .env, environment variables and an optional config file.
// Precedence: overrides, then environment, then config file, then defaults.
// Overrides run before validation.
func Load(overrides ...func(*Config)) (*Config, error) {
	// A missing .env is the normal case outside development
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile := getConfigFilePath(); configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file %s: %w", configFile, err)
		}
		cfg = mergeConfigs(*fileConfig, cfg, *Default())
	}

	for _, override := range overrides {
		override(&cfg)
	}

	if err := cfg.resolvePaths(); err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs overlays file values onto env values. A field still holding its
// default was not set in the environment, so a non-zero file value replaces it.
func mergeConfigs(fileConfig, envConfig, defaults Config) Config {
	mergeStruct(reflect.ValueOf(&envConfig).Elem(), reflect.ValueOf(fileConfig), reflect.ValueOf(defaults))
	return envConfig
}

func mergeStruct(dst, file, def reflect.Value) {
	for i := 0; i < dst.NumField(); i++ {
		d, f, df := dst.Field(i), file.Field(i), def.Field(i)
		if d.Kind() == reflect.Struct && d.Type() != reflect.TypeOf(time.Duration(0)) {
			mergeStruct(d, f, df)
			continue
		}
		if f.IsZero() {
			continue
		}
		if reflect.DeepEqual(d.Interface(), df.Interface()) {
			d.Set(f)
		}
	}
}

// resolvePaths anchors relative directories at the executable directory
func (c *Config) resolvePaths() error {
	if c.Paths.ExecutableDir == "" {
		exeDir, err := executableDir()
		if err != nil {
			return err
		}
		c.Paths.ExecutableDir = exeDir
	}
	return nil
}

// Validate checks the configuration and normalizes a few values in place
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	c.Source.Kind = strings.ToLower(strings.TrimSpace(c.Source.Kind))
	switch c.Source.Kind {
	case "gviz":
	case "sheets":
		if c.Source.APIKey == "" {
			return fmt.Errorf("source api key is required for the sheets source")
		}
	default:
		return fmt.Errorf("unsupported source kind: %q", c.Source.Kind)
	}

	if strings.TrimSpace(c.Source.SpreadsheetID) == "" {
		return fmt.Errorf("source spreadsheet id is required")
	}

	if c.Source.SheetName == "" {
		return fmt.Errorf("source sheet name is required")
	}

	if c.Source.Timeout <= 0 {
		return fmt.Errorf("source timeout must be positive")
	}

	if len(c.Source.Columns) == 0 {
		return fmt.Errorf("at least one source column binding is required")
	}

	if c.Refresh.Interval < time.Second {
		return fmt.Errorf("refresh interval must be at least 1s, got %s", c.Refresh.Interval)
	}

	if c.Refresh.ForegroundRetries < 0 {
		return fmt.Errorf("foreground retries must not be negative")
	}

	if c.Refresh.RetryDelay < 0 {
		return fmt.Errorf("retry delay must not be negative")
	}

	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}

	switch c.Logging.Output {
	case "stdout", "console":
		c.Logging.Output = "stdout"
	case "file", "both":
	default:
		c.Logging.Output = "both"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}

	return nil
}

// getConfigFilePath returns the path to the config file, or "" when none exists
func getConfigFilePath() string {
	if explicit := os.Getenv(EnvPrefix + "_CONFIG_FILE"); explicit != "" {
		return explicit
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	if exeDir, err := executableDir(); err == nil {
		locations = append(locations, filepath.Join(exeDir, "config.yaml"))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  45 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     20,
				Burst:   40,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/app.log",
		},
		Paths: PathsConfig{
			LogsDir:    "logs",
			ExportsDir: "exports",
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			PingPeriod:      30 * time.Second,
			PongWait:        60 * time.Second,
		},
		Source: SourceConfig{
			Kind:      "gviz",
			SheetName: "Dados Tratados",
			Range:     "I:T",
			BaseURL:   "https://docs.google.com/spreadsheets/d",
			Timeout:   10 * time.Second,
			Columns:   DefaultColumns(),
		},
		Refresh: RefreshConfig{
			Interval:          30 * time.Second,
			ForegroundRetries: 2,
			RetryDelay:        2 * time.Second,
			OnStartup:         true,
		},
		Telemetry: TelemetryConfig{
			Environment:    "development",
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			SampleRatio:    1,
		},
	}
}

// DefaultColumns is the column layout of the inspection sheet, relative to range I:T
func DefaultColumns() []string {
	return []string{"0=id", "1=timestamp", "2=sector", "3=role", "4=shift", "5=phase", "7=domain", "8=item", "9=response", "11=weight"}
}
