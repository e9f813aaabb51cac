package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Logging     LoggingConfig     `yaml:"logging"`
	Storage     StorageConfig     `yaml:"storage"`
	Redis       RedisConfig       `yaml:"redis"`
	Hunter      HunterConfig      `yaml:"hunter"`
	NeverBounce NeverBounceConfig `yaml:"neverbounce"`
	SignalHire  SignalHireConfig  `yaml:"signalhire"`
	Bedrock     BedrockConfig     `yaml:"bedrock"`
	Enrich      EnrichConfig      `yaml:"enrich"`
}

// LoggingConfig holds structured logging settings
type LoggingConfig struct {
	Level string `yaml:"level"`
	// LogRawPII turns off address/name redaction for INFO+ entries.
	// Redaction is on unless a run explicitly opts out.
	LogRawPII bool `yaml:"log_raw_pii"`
}

// StorageConfig holds storage configuration
type StorageConfig struct {
	Type          string `yaml:"type"`
	LocalPath     string `yaml:"local_path"`
	S3Bucket      string `yaml:"s3_bucket"`
	DynamoDBTable string `yaml:"dynamodb_table"`
	AWSRegion     string `yaml:"aws_region"`
	AWSProfile    string `yaml:"aws_profile"` // Empty string uses default credential chain (IAM role on ECS)
	AWSAccessKey  string `yaml:"aws_access_key"`
	AWSSecretKey  string `yaml:"aws_secret_key"`
}

// GetAWSProfile returns the AWS profile, with environment variable override
func (c StorageConfig) GetAWSProfile() string {
	if envProfile := os.Getenv("AWS_PROFILE_OVERRIDE"); envProfile != "" {
		if envProfile == "none" || envProfile == "iam" {
			return "" // Use default credential chain (IAM role)
		}
		return envProfile
	}
	// On ECS/Lambda, don't use a profile - use IAM role
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "" // Running on ECS or Lambda, use IAM role
	}
	return c.AWSProfile
}

// RedisConfig holds optional Redis settings used for shared rate budgets,
// the cross-worker verification cache, and per-domain lookup locks.
type RedisConfig struct {
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
}

// HunterConfig holds Hunter.io domain-search API configuration
type HunterConfig struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Enabled        bool   `yaml:"enabled"`
	MinConfidence  int    `yaml:"min_confidence"`
	SearchLimit    int    `yaml:"search_limit"`
	RatePerMinute  int    `yaml:"rate_per_minute"`
}

// Timeout returns the configured timeout as a duration
func (c HunterConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// NeverBounceConfig holds NeverBounce verification API configuration
type NeverBounceConfig struct {
	APIKey            string `yaml:"api_key"`
	BaseURL           string `yaml:"base_url"`
	TimeoutSeconds    int    `yaml:"timeout_seconds"`
	Enabled           bool   `yaml:"enabled"`
	RatePerMinute     int    `yaml:"rate_per_minute"`
	BaseDelaySeconds  int    `yaml:"base_delay_seconds"`
	MaxBackoffSeconds int    `yaml:"max_backoff_seconds"`
	StrictValid       bool   `yaml:"strict_valid"` // treat only "valid" as deliverable, not "catchall"
}

// Timeout returns the configured timeout as a duration
func (c NeverBounceConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// BaseDelay returns the starting backoff delay as a duration
func (c NeverBounceConfig) BaseDelay() time.Duration {
	return time.Duration(c.BaseDelaySeconds) * time.Second
}

// MaxBackoff returns the backoff ceiling as a duration
func (c NeverBounceConfig) MaxBackoff() time.Duration {
	return time.Duration(c.MaxBackoffSeconds) * time.Second
}

// SignalHireConfig holds SignalHire email-finder API configuration
type SignalHireConfig struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Enabled        bool   `yaml:"enabled"`
}

// Timeout returns the configured timeout as a duration
func (c SignalHireConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// BedrockConfig holds AWS Bedrock settings for AI name repair
type BedrockConfig struct {
	Enabled   bool   `yaml:"enabled"`
	ModelID   string `yaml:"model_id"`
	Region    string `yaml:"region"`
	MaxTokens int    `yaml:"max_tokens"`
}

// EnrichConfig holds batch enrichment run settings
type EnrichConfig struct {
	PatternCachePath    string `yaml:"pattern_cache_path"`
	FlushEvery          int    `yaml:"flush_every"`
	PaceMillis          int    `yaml:"pace_millis"`
	VerifyExistingEmail bool   `yaml:"verify_existing_email"`
	MaxCandidates       int    `yaml:"max_candidates"`
	LockTTLSeconds      int    `yaml:"lock_ttl_seconds"`
}

// Pace returns the delay between contacts as a duration
func (c EnrichConfig) Pace() time.Duration {
	return time.Duration(c.PaceMillis) * time.Millisecond
}

// LockTTL returns the per-domain lookup lock TTL as a duration
func (c EnrichConfig) LockTTL() time.Duration {
	return time.Duration(c.LockTTLSeconds) * time.Second
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// applyDefaults fills in every unset field
func applyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "local"
	}
	if cfg.Storage.LocalPath == "" {
		cfg.Storage.LocalPath = "./data"
	}
	if cfg.Storage.AWSRegion == "" {
		cfg.Storage.AWSRegion = "us-east-1"
	}
	if cfg.Hunter.BaseURL == "" {
		cfg.Hunter.BaseURL = "https://api.hunter.io"
	}
	if cfg.Hunter.TimeoutSeconds == 0 {
		cfg.Hunter.TimeoutSeconds = 30
	}
	if cfg.Hunter.MinConfidence == 0 {
		cfg.Hunter.MinConfidence = 50
	}
	if cfg.Hunter.SearchLimit == 0 {
		cfg.Hunter.SearchLimit = 10
	}
	if cfg.Hunter.RatePerMinute == 0 {
		cfg.Hunter.RatePerMinute = 20
	}
	if cfg.NeverBounce.BaseURL == "" {
		cfg.NeverBounce.BaseURL = "https://api.neverbounce.com"
	}
	if cfg.NeverBounce.TimeoutSeconds == 0 {
		cfg.NeverBounce.TimeoutSeconds = 10
	}
	if cfg.NeverBounce.RatePerMinute == 0 {
		cfg.NeverBounce.RatePerMinute = 60
	}
	if cfg.NeverBounce.BaseDelaySeconds == 0 {
		cfg.NeverBounce.BaseDelaySeconds = 1
	}
	if cfg.NeverBounce.MaxBackoffSeconds == 0 {
		cfg.NeverBounce.MaxBackoffSeconds = 30
	}
	if cfg.SignalHire.BaseURL == "" {
		cfg.SignalHire.BaseURL = "https://www.signalhire.com/api"
	}
	if cfg.SignalHire.TimeoutSeconds == 0 {
		cfg.SignalHire.TimeoutSeconds = 30
	}
	if cfg.Bedrock.ModelID == "" {
		cfg.Bedrock.ModelID = "anthropic.claude-3-sonnet-20240229-v1:0"
	}
	if cfg.Bedrock.Region == "" {
		cfg.Bedrock.Region = "us-east-1"
	}
	if cfg.Bedrock.MaxTokens == 0 {
		cfg.Bedrock.MaxTokens = 500
	}
	if cfg.Enrich.PatternCachePath == "" {
		cfg.Enrich.PatternCachePath = "email_pattern_cache.json"
	}
	if cfg.Enrich.FlushEvery == 0 {
		cfg.Enrich.FlushEvery = 25
	}
	if cfg.Enrich.PaceMillis == 0 {
		cfg.Enrich.PaceMillis = 200
	}
	if cfg.Enrich.MaxCandidates == 0 {
		cfg.Enrich.MaxCandidates = 15
	}
	if cfg.Enrich.LockTTLSeconds == 0 {
		cfg.Enrich.LockTTLSeconds = 60
	}
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so secrets can live in .env locally and in real env vars on ECS.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if os.IsNotExist(err) {
		// No config file on disk, run on defaults plus env vars
		cfg = &Config{}
		applyDefaults(cfg)
	} else if err != nil {
		return nil, err
	}

	// Override with environment variables if present
	if apiKey := os.Getenv("HUNTER_API_KEY"); apiKey != "" {
		cfg.Hunter.APIKey = apiKey
		cfg.Hunter.Enabled = true
	}
	if baseURL := os.Getenv("HUNTER_BASE_URL"); baseURL != "" {
		cfg.Hunter.BaseURL = baseURL
	}
	if apiKey := os.Getenv("NEVERBOUNCE_API_KEY"); apiKey != "" {
		cfg.NeverBounce.APIKey = apiKey
		cfg.NeverBounce.Enabled = true
	}
	if baseURL := os.Getenv("NEVERBOUNCE_BASE_URL"); baseURL != "" {
		cfg.NeverBounce.BaseURL = baseURL
	}
	if apiKey := os.Getenv("SIGNALHIRE_API_KEY"); apiKey != "" {
		cfg.SignalHire.APIKey = apiKey
		cfg.SignalHire.Enabled = true
	}
	if baseURL := os.Getenv("SIGNALHIRE_BASE_URL"); baseURL != "" {
		cfg.SignalHire.BaseURL = baseURL
	}
	if url := os.Getenv("REDIS_URL"); url != "" {
		cfg.Redis.URL = url
		cfg.Redis.Enabled = true
	}
	if region := os.Getenv("BEDROCK_REGION"); region != "" {
		cfg.Bedrock.Region = region
	}
	if model := os.Getenv("BEDROCK_MODEL_ID"); model != "" {
		cfg.Bedrock.ModelID = model
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}

	return cfg, nil
}
