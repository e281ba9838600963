package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the resumerank configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Resilience ResilienceConfig `yaml:"resilience"`
	Ranking    RankingConfig    `yaml:"ranking"`
	Export     ExportConfig     `yaml:"export"`
	Auth       AuthConfig       `yaml:"auth"`
	Storage    StorageConfig    `yaml:"storage"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int   `yaml:"port"`
	ReadTimeoutSec  int   `yaml:"read_timeout_sec"`
	WriteTimeoutSec int   `yaml:"write_timeout_sec"`
	ShutdownSec     int   `yaml:"shutdown_timeout_sec"`
	MaxUploadBytes  int64 `yaml:"max_upload_bytes"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // valkey, redis (default: valkey)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// StorageConfig holds key expiry settings. Keys are prefixed with domain.KeyPrefix.
type StorageConfig struct {
	EmbeddingCacheTTL int `yaml:"embedding_cache_ttl_hours"` // 0 = no expiry
	BudgetDailyTTL    int `yaml:"budget_daily_ttl_hours"`
	BudgetMonthlyTTL  int `yaml:"budget_monthly_ttl_hours"`
}

// EmbeddingConfig holds embedding settings. Vectorizer names the entry of
// Vectorizers the ranking engine uses.
type EmbeddingConfig struct {
	Vectorizer  string                      `yaml:"vectorizer"`
	Providers   map[string]ProviderConfig   `yaml:"providers"`
	Vectorizers map[string]VectorizerConfig `yaml:"vectorizers"`
}

// BudgetConfig holds token budget settings.
type BudgetConfig struct {
	DailyTokenLimit   int64  `yaml:"daily_token_limit"`   // 0 = unlimited
	MonthlyTokenLimit int64  `yaml:"monthly_token_limit"` // 0 = unlimited
	Action            string `yaml:"action"`              // "reject" | "warn" (default)
}

// ProviderConfig holds embedding provider settings.
type ProviderConfig struct {
	APIKey     string       `yaml:"api_key"`
	BaseURL    string       `yaml:"base_url"`
	TimeoutSec int          `yaml:"timeout_sec"`
	Budget     BudgetConfig `yaml:"budget"`
}

// VectorizerConfig holds vectorizer settings. Job descriptions are embedded
// with QueryInstruction, resumes with DocumentInstruction.
type VectorizerConfig struct {
	Provider            string `yaml:"provider"`
	Model               string `yaml:"model"`
	Dimensions          int    `yaml:"dimensions"`
	DocumentInstruction string `yaml:"document_instruction"`
	QueryInstruction    string `yaml:"query_instruction"`
}

// ResilienceConfig wraps embedding calls with retry, circuit breaker and rate limit.
type ResilienceConfig struct {
	MaxRetries        int     `yaml:"max_retries"`
	InitialBackoffMs  int     `yaml:"initial_backoff_ms"`
	MaxBackoffMs      int     `yaml:"max_backoff_ms"`
	BreakerEnabled    *bool   `yaml:"breaker_enabled"`
	BreakerThreshold  uint32  `yaml:"breaker_threshold"`
	BreakerTimeoutSec int     `yaml:"breaker_timeout_sec"`
	RateLimitPerSec   float64 `yaml:"rate_limit_per_sec"` // 0 = unlimited
	RateBurst         int     `yaml:"rate_burst"`
}

// RankingConfig holds ranking engine settings.
type RankingConfig struct {
	WeightSimilarity *float64 `yaml:"weight_similarity"`
	MaxKeywords      int      `yaml:"max_keywords"`
	Workers          int      `yaml:"workers"`
	PartialOnCancel  bool     `yaml:"partial_on_cancel"`
	RunTTLHours      int      `yaml:"run_ttl_hours"`
	MaxDocuments     int      `yaml:"max_documents"`
	FeedbackMaxItems int      `yaml:"feedback_max_items"`
}

// ExportConfig holds spreadsheet export settings.
type ExportConfig struct {
	XLSXSheet string       `yaml:"xlsx_sheet"`
	Sheets    SheetsConfig `yaml:"sheets"`
}

// SheetsConfig holds Google Sheets settings. Empty SpreadsheetID disables the sink.
type SheetsConfig struct {
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	Range           string `yaml:"range"`
	CredentialsFile string `yaml:"credentials_file"`
}

// ActiveVectorizer returns the vectorizer selected by embedding.vectorizer.
func (c *Config) ActiveVectorizer() (VectorizerConfig, ProviderConfig, error) {
	v, ok := c.Embedding.Vectorizers[c.Embedding.Vectorizer]
	if !ok {
		return VectorizerConfig{}, ProviderConfig{}, fmt.Errorf("vectorizer %q is not configured", c.Embedding.Vectorizer)
	}
	p, ok := c.Embedding.Providers[v.Provider]
	if !ok {
		return VectorizerConfig{}, ProviderConfig{}, fmt.Errorf("vectorizer %q references unknown provider %q",
			c.Embedding.Vectorizer, v.Provider)
	}
	return v, p, nil
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	return LoadFile(configPath)
}

// LoadFile reads configuration from an explicit path and validates the server settings.
func LoadFile(configPath string) (Config, error) {
	cfg, err := ReadFile(configPath)
	if err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// ReadFile parses a config file and applies defaults without validating it.
// Callers that need only part of the config validate that part themselves.
func ReadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()
	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 30
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.MaxUploadBytes <= 0 {
		c.HTTP.MaxUploadBytes = 32 << 20
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "valkey"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Storage.BudgetDailyTTL <= 0 {
		c.Storage.BudgetDailyTTL = 48
	}
	if c.Storage.BudgetMonthlyTTL <= 0 {
		c.Storage.BudgetMonthlyTTL = 62 * 24
	}
	if c.Embedding.Vectorizer == "" && len(c.Embedding.Vectorizers) == 1 {
		for name := range c.Embedding.Vectorizers {
			c.Embedding.Vectorizer = name
		}
	}
	if c.Resilience.MaxRetries <= 0 {
		c.Resilience.MaxRetries = 3
	}
	if c.Resilience.InitialBackoffMs <= 0 {
		c.Resilience.InitialBackoffMs = 200
	}
	if c.Resilience.MaxBackoffMs <= 0 {
		c.Resilience.MaxBackoffMs = 5000
	}
	if c.Resilience.BreakerEnabled == nil {
		enabled := true
		c.Resilience.BreakerEnabled = &enabled
	}
	if c.Resilience.BreakerThreshold == 0 {
		c.Resilience.BreakerThreshold = 5
	}
	if c.Resilience.BreakerTimeoutSec <= 0 {
		c.Resilience.BreakerTimeoutSec = 30
	}
	if c.Ranking.WeightSimilarity == nil {
		w := 0.5
		c.Ranking.WeightSimilarity = &w
	}
	if c.Ranking.MaxKeywords <= 0 {
		c.Ranking.MaxKeywords = 20
	}
	if c.Ranking.Workers <= 0 {
		c.Ranking.Workers = 4
	}
	if c.Ranking.RunTTLHours <= 0 {
		c.Ranking.RunTTLHours = 24
	}
	if c.Ranking.MaxDocuments <= 0 {
		c.Ranking.MaxDocuments = 200
	}
	if c.Ranking.FeedbackMaxItems <= 0 {
		c.Ranking.FeedbackMaxItems = 20
	}
	if c.Export.XLSXSheet == "" {
		c.Export.XLSXSheet = "Ranking"
	}
	if c.Export.Sheets.Range == "" {
		c.Export.Sheets.Range = "Sheet1!A1"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	switch c.Database.Driver {
	case "", "valkey", "redis":
	default:
		return fmt.Errorf("database.driver must be \"valkey\" or \"redis\", got %q", c.Database.Driver)
	}
	return c.ValidateEngine()
}

// ValidateEngine checks the sections the ranking engine needs. The CLI runs
// without HTTP and database, so it validates only these.
func (c *Config) ValidateEngine() error {
	for name, p := range c.Embedding.Providers {
		switch p.Budget.Action {
		case "", "warn", "reject":
			// ok
		default:
			return fmt.Errorf(
				"embedding.providers.%s.budget.action must be \"warn\" or \"reject\", got %q",
				name, p.Budget.Action,
			)
		}
	}
	if c.Embedding.Vectorizer != "" {
		if _, _, err := c.ActiveVectorizer(); err != nil {
			return fmt.Errorf("embedding.vectorizer: %w", err)
		}
	}
	if w := c.Ranking.WeightSimilarity; w != nil && (math.IsNaN(*w) || *w < 0 || *w > 1) {
		return fmt.Errorf("ranking.weight_similarity must be within [0, 1], got %v", *w)
	}
	if c.Resilience.RateLimitPerSec < 0 {
		return fmt.Errorf("resilience.rate_limit_per_sec must not be negative, got %v", c.Resilience.RateLimitPerSec)
	}
	if c.Export.Sheets.SpreadsheetID != "" && c.Export.Sheets.CredentialsFile == "" {
		return fmt.Errorf("export.sheets.credentials_file is required when spreadsheet_id is set")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
