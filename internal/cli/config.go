package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cybertec-postgresql/pgsplit/pkg/types"
	"github.com/spf13/viper"
)

// Config is an alias for the shared Config type
type Config = types.Config

// ConfigError is an alias for the shared ConfigError type
type ConfigError = types.ConfigError

// ConfigName is the base name of the optional configuration file
const ConfigName = ".pgsplit"

// DefaultConfig provides default configuration values
var DefaultConfig = Config{
	ConnectionString:          "",
	StandardConformingStrings: types.DialectAuto,
	Timeout:                   30 * time.Second,
	Parallelism:               1,
	Format:                    "text",
	Output:                    "-",
	Verbose:                   false,
}

// LoadConfig builds a Config from defaults, an optional YAML file and
// PGSPLIT_* environment variables. An empty path searches the working
// directory for .pgsplit.yaml; a missing file there is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PGSPLIT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("connection", DefaultConfig.ConnectionString)
	v.SetDefault("standard-conforming-strings", DefaultConfig.StandardConformingStrings)
	v.SetDefault("strip-comments", DefaultConfig.StripComments)
	v.SetDefault("keep-empty", DefaultConfig.KeepEmpty)
	v.SetDefault("timeout", DefaultConfig.Timeout)
	v.SetDefault("parallel", DefaultConfig.Parallelism)
	v.SetDefault("single-transaction", DefaultConfig.SingleTransaction)
	v.SetDefault("temp-db", DefaultConfig.TempDatabase)
	v.SetDefault("format", DefaultConfig.Format)
	v.SetDefault("output", DefaultConfig.Output)
	v.SetDefault("verbose", DefaultConfig.Verbose)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return &Config{
		ConnectionString:          v.GetString("connection"),
		StandardConformingStrings: strings.ToLower(v.GetString("standard-conforming-strings")),
		StripComments:             v.GetBool("strip-comments"),
		KeepEmpty:                 v.GetBool("keep-empty"),
		Timeout:                   v.GetDuration("timeout"),
		Parallelism:               v.GetInt("parallel"),
		SingleTransaction:         v.GetBool("single-transaction"),
		TempDatabase:              v.GetBool("temp-db"),
		Format:                    v.GetString("format"),
		Output:                    v.GetString("output"),
		Verbose:                   v.GetBool("verbose"),
	}, nil
}

// Flags carries command-line values; zero values leave the config untouched
type Flags struct {
	Connection                string
	StandardConformingStrings string
	Timeout                   time.Duration
	Parallel                  int
	Format                    string
	Output                    string
	StripComments             bool
	KeepEmpty                 bool
	SingleTransaction         bool
	TempDatabase              bool
	Verbose                   bool
}

// ApplyFlagsToConfig applies command-line flag values to configuration
func ApplyFlagsToConfig(c *Config, f Flags) {
	if f.Connection != "" {
		c.ConnectionString = f.Connection
	}
	if f.StandardConformingStrings != "" {
		c.StandardConformingStrings = strings.ToLower(f.StandardConformingStrings)
	}
	if f.Timeout != 0 {
		c.Timeout = f.Timeout
	}
	if f.Parallel != 0 {
		c.Parallelism = f.Parallel
	}
	if f.Format != "" {
		c.Format = f.Format
	}
	if f.Output != "" {
		c.Output = f.Output
	}
	if f.StripComments {
		c.StripComments = true
	}
	if f.KeepEmpty {
		c.KeepEmpty = true
	}
	if f.SingleTransaction {
		c.SingleTransaction = true
	}
	if f.TempDatabase {
		c.TempDatabase = true
	}
	if f.Verbose {
		c.Verbose = true
	}
}
