package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/acherm/PL-ultimate/internal/pipeline"
	"github.com/acherm/PL-ultimate/pkg/constants"
	"github.com/acherm/PL-ultimate/pkg/errors"
)

// EnvPrefix prefixes every environment variable read through viper, so
// DATA_DIR is read from PLULTIMATE_DATA_DIR.
const EnvPrefix = "PLULTIMATE"

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Data locations
	DataDir     string
	PLDBDir     string
	AliasesFile string

	// Source selection
	Offline          bool
	FetchOnly        bool
	IncludeLinguist  bool
	IncludeWikipedia bool
	IncludeEsolang   bool

	// Reconciliation
	FuzzyThreshold  float64
	FuzzyFixedPoint bool

	// HTTP
	HTTPTimeout time.Duration
	UserAgent   string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.plultimate.yaml or ./.plultimate.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults()

	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName(constants.DefaultConfigName)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("config", "cannot read config file", err)
		}
	}

	config := &Config{
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		NoColor: viper.GetBool("no-color"),
		Format:  viper.GetString("format"),

		ConfigFile: viper.ConfigFileUsed(),

		DataDir:     viper.GetString("data_dir"),
		PLDBDir:     viper.GetString("pldb_dir"),
		AliasesFile: viper.GetString("aliases_file"),

		Offline:          viper.GetBool("offline"),
		FetchOnly:        viper.GetBool("fetch_only"),
		IncludeLinguist:  viper.GetBool("include_linguist"),
		IncludeWikipedia: viper.GetBool("include_wikipedia"),
		IncludeEsolang:   viper.GetBool("include_esolang"),

		FuzzyThreshold:  viper.GetFloat64("fuzzy_threshold"),
		FuzzyFixedPoint: viper.GetBool("fuzzy_fixed_point"),

		HTTPTimeout: viper.GetDuration("http_timeout"),
		UserAgent:   viper.GetString("user_agent"),

		LogLevel:  firstNonEmpty(viper.GetString("log_level"), os.Getenv("LOG_LEVEL")),
		LogFormat: firstNonEmpty(viper.GetString("log_format"), os.Getenv("LOG_FORMAT"), "auto"),
		LogOutput: firstNonEmpty(viper.GetString("log_output"), os.Getenv("LOG_OUTPUT"), "stderr"),
	}

	if config.FuzzyThreshold <= 0 || config.FuzzyThreshold > 1 {
		return nil, errors.NewConfigError("config", "fuzzy_threshold must be within (0, 1]", nil)
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("data_dir", constants.DefaultDataDir)
	viper.SetDefault("include_linguist", true)
	viper.SetDefault("include_wikipedia", true)
	viper.SetDefault("include_esolang", false)
	viper.SetDefault("fuzzy_threshold", constants.FuzzyThreshold)
	viper.SetDefault("http_timeout", constants.DefaultHTTPTimeout)
	viper.SetDefault("user_agent", constants.UserAgent)
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// Pipeline returns the pipeline view of the configuration.
func (c *Config) Pipeline() pipeline.Config {
	return pipeline.Config{
		DataDir:          c.DataDir,
		PLDBDir:          c.PLDBDir,
		Offline:          c.Offline,
		FetchOnly:        c.FetchOnly,
		IncludeLinguist:  c.IncludeLinguist,
		IncludeWikipedia: c.IncludeWikipedia,
		IncludeEsolang:   c.IncludeEsolang,
		FuzzyThreshold:   c.FuzzyThreshold,
		FuzzyFixedPoint:  c.FuzzyFixedPoint,
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local is loaded after .env but never overrides variables that
// are already set.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
