package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Outreach  OutreachConfig  `yaml:"outreach" mapstructure:"outreach"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Webmail   WebmailConfig   `yaml:"webmail" mapstructure:"webmail"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// OutreachConfig holds the pipeline request fields a config file may supply
// in place of CLI flags.
type OutreachConfig struct {
	Criteria      string   `yaml:"criteria" mapstructure:"criteria"`
	ListFile      string   `yaml:"list_file" mapstructure:"list_file"`
	Purpose       string   `yaml:"purpose" mapstructure:"purpose"`
	Subject       string   `yaml:"subject" mapstructure:"subject"`
	Tone          string   `yaml:"tone" mapstructure:"tone"`
	Notes         string   `yaml:"notes" mapstructure:"notes"`
	MaxCandidates int      `yaml:"max_candidates" mapstructure:"max_candidates"`
	NoConfirm     bool     `yaml:"no_confirm" mapstructure:"no_confirm"`
	Attach        []string `yaml:"attach" mapstructure:"attach"`
	ContactedPath string   `yaml:"contacted_path" mapstructure:"contacted_path"`
}

// AnthropicConfig holds model API settings for the intelligence provider.
type AnthropicConfig struct {
	Key            string `yaml:"key" mapstructure:"key"`
	DiscoveryModel string `yaml:"discovery_model" mapstructure:"discovery_model"`
	FinderModel    string `yaml:"finder_model" mapstructure:"finder_model"`
	WriterModel    string `yaml:"writer_model" mapstructure:"writer_model"`
	MaxTokens      int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	// RequestsPerMinute paces provider calls; the send session is the real
	// bottleneck so this mostly guards discovery bursts.
	RequestsPerMinute int `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
}

// WebmailConfig holds browser automation settings for the send layer.
type WebmailConfig struct {
	MailURL        string `yaml:"mail_url" mapstructure:"mail_url"`
	SessionPath    string `yaml:"session_path" mapstructure:"session_path"`
	Headless       bool   `yaml:"headless" mapstructure:"headless"`
	NavTimeoutSecs int    `yaml:"nav_timeout_secs" mapstructure:"nav_timeout_secs"`
	LoginWaitSecs  int    `yaml:"login_wait_secs" mapstructure:"login_wait_secs"`
}

// StoreConfig configures the run-history database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the webhook server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from .env, config file, and environment.
func Load() (*Config, error) {
	// Secrets live in .env during development; absence is fine.
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("OUTREACH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// A zero-value default registers the key so AutomaticEnv can fill it.
	v.SetDefault("anthropic.key", "")
	v.SetDefault("outreach.purpose", "outreach")
	v.SetDefault("outreach.tone", "professional")
	v.SetDefault("outreach.contacted_path", "emailed_companies.json")
	v.SetDefault("anthropic.discovery_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.finder_model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.writer_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 4096)
	v.SetDefault("anthropic.requests_per_minute", 20)
	v.SetDefault("webmail.mail_url", "https://outlook.office.com/mail/")
	v.SetDefault("webmail.session_path", "outlook_session.json")
	v.SetDefault("webmail.nav_timeout_secs", 60)
	v.SetDefault("webmail.login_wait_secs", 120)
	v.SetDefault("store.path", "outreach.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Example returns a configuration populated with defaults plus placeholder
// values, used by `outreach init` to write a starter config file.
func Example() *Config {
	return &Config{
		Outreach: OutreachConfig{
			Criteria:      "Seed-stage B2B SaaS in fintech",
			Purpose:       "partnership intro",
			Tone:          "professional",
			ContactedPath: "emailed_companies.json",
		},
		Anthropic: AnthropicConfig{
			DiscoveryModel:    "claude-sonnet-4-5-20250929",
			FinderModel:       "claude-haiku-4-5-20251001",
			WriterModel:       "claude-sonnet-4-5-20250929",
			MaxTokens:         4096,
			RequestsPerMinute: 20,
		},
		Webmail: WebmailConfig{
			MailURL:        "https://outlook.office.com/mail/",
			SessionPath:    "outlook_session.json",
			NavTimeoutSecs: 60,
			LoginWaitSecs:  120,
		},
		Store:  StoreConfig{Path: "outreach.db"},
		Server: ServerConfig{Port: 8080},
		Log:    LogConfig{Level: "info", Format: "json"},
	}
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
