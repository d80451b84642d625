package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Google GoogleConfig `yaml:"google" mapstructure:"google"`
	Sheets SheetsConfig `yaml:"sheets" mapstructure:"sheets"`
	EKAP   EKAPConfig   `yaml:"ekap" mapstructure:"ekap"`
	TED    TEDConfig    `yaml:"ted" mapstructure:"ted"`
	Export ExportConfig `yaml:"export" mapstructure:"export"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// GoogleConfig holds Google Maps web service credentials and tuning.
type GoogleConfig struct {
	APIKey         string  `yaml:"api_key" mapstructure:"api_key"`
	Language       string  `yaml:"language" mapstructure:"language"`
	Region         string  `yaml:"region" mapstructure:"region"`
	RequestsPerSec float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
}

// SheetsConfig holds Google Sheets export settings. The spreadsheet and its
// tab must already exist; the appender never creates them.
type SheetsConfig struct {
	CredentialsFile string `yaml:"credentials_file" mapstructure:"credentials_file"`
	SpreadsheetID   string `yaml:"spreadsheet_id" mapstructure:"spreadsheet_id"`
	SheetName       string `yaml:"sheet_name" mapstructure:"sheet_name"`
}

// EKAPConfig holds the public procurement platform endpoints.
type EKAPConfig struct {
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	LegacyURL string `yaml:"legacy_url" mapstructure:"legacy_url"`
	PageRow   int    `yaml:"page_row" mapstructure:"page_row"`
}

// TEDConfig holds the Tenders Electronic Daily search API settings.
type TEDConfig struct {
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
	PageSize int    `yaml:"page_size" mapstructure:"page_size"`
}

// ExportConfig configures file exports.
type ExportConfig struct {
	OutputDir    string `yaml:"output_dir" mapstructure:"output_dir"`
	CategoryFile string `yaml:"category_file" mapstructure:"category_file"`
}

// ServerConfig configures the HTTP tool server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Validate checks that the fields required by the given mode are set.
// Modes: "leads", "sheets", "serve", "tenders", "ted".
func (c *Config) Validate(mode string) error {
	var missing []string

	switch mode {
	case "leads":
		if c.Google.APIKey == "" {
			missing = append(missing, "google.api_key is required")
		}
	case "sheets":
		if c.Sheets.SpreadsheetID == "" {
			missing = append(missing, "sheets.spreadsheet_id is required")
		}
		if c.Sheets.SheetName == "" {
			missing = append(missing, "sheets.sheet_name is required")
		}
	case "serve":
		if c.Google.APIKey == "" {
			missing = append(missing, "google.api_key is required")
		}
		if c.Server.Port <= 0 {
			missing = append(missing, "server.port must be > 0")
		}
	case "tenders":
		if c.EKAP.BaseURL == "" {
			missing = append(missing, "ekap.base_url is required")
		}
	case "ted":
		if c.TED.BaseURL == "" {
			missing = append(missing, "ted.base_url is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Google.RequestsPerSec < 0 {
		missing = append(missing, "google.requests_per_sec must be >= 0")
	}

	if len(missing) > 0 {
		return eris.New("config: " + strings.Join(missing, "; "))
	}
	return nil
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Credential keys get empty defaults because AutomaticEnv
	// only surfaces keys viper already knows about during Unmarshal;
	// without these, LEADS_GOOGLE_API_KEY and friends never land.
	v.SetDefault("google.api_key", "")
	v.SetDefault("sheets.credentials_file", "")
	v.SetDefault("sheets.spreadsheet_id", "")
	v.SetDefault("export.category_file", "")
	v.SetDefault("google.language", "tr")
	v.SetDefault("google.region", "tr")
	v.SetDefault("google.requests_per_sec", 10.0)
	v.SetDefault("sheets.sheet_name", "Bayiler")
	v.SetDefault("ekap.base_url", "https://ekapv2.kik.gov.tr")
	v.SetDefault("ekap.legacy_url", "https://ekap.kik.gov.tr/EKAP/Ortak/YeniIhaleAramaData.ashx")
	v.SetDefault("ekap.page_row", 50)
	v.SetDefault("ted.base_url", "https://api.ted.europa.eu/v3/notices/search")
	v.SetDefault("ted.page_size", 50)
	v.SetDefault("export.output_dir", ".")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
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
