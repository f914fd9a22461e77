package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cybertec-postgresql/pgsplit/pkg/types"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	require.Equal(t, "", cfg.ConnectionString)
	require.Equal(t, types.DialectAuto, cfg.StandardConformingStrings)
	require.Equal(t, 30*time.Second, cfg.Timeout)
	require.Equal(t, 1, cfg.Parallelism)
	require.Equal(t, "text", cfg.Format)
	require.Equal(t, "-", cfg.Output)
	require.False(t, cfg.StripComments)
	require.False(t, cfg.KeepEmpty)
	require.False(t, cfg.SingleTransaction)
	require.False(t, cfg.TempDatabase)
	require.False(t, cfg.Verbose)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := `connection: postgres://localhost/app
standard-conforming-strings: "OFF"
timeout: 5s
parallel: 3
format: json
strip-comments: true
temp-db: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigName+".yaml"), []byte(yaml), 0644))

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, "postgres://localhost/app", cfg.ConnectionString)
	require.Equal(t, types.DialectOff, cfg.StandardConformingStrings)
	require.Equal(t, 5*time.Second, cfg.Timeout)
	require.Equal(t, 3, cfg.Parallelism)
	require.Equal(t, "json", cfg.Format)
	require.True(t, cfg.StripComments)
	require.True(t, cfg.TempDatabase)
	require.False(t, cfg.KeepEmpty)
}

func TestLoadConfig_ExplicitPath(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err, "an explicit config file must exist")

	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("keep-empty: true\n"), 0644))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.True(t, cfg.KeepEmpty)
}

func TestLoadConfig_EnvironmentVariables(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PGSPLIT_CONNECTION", "host=envhost")
	t.Setenv("PGSPLIT_STANDARD_CONFORMING_STRINGS", "on")
	t.Setenv("PGSPLIT_PARALLEL", "8")
	t.Setenv("PGSPLIT_SINGLE_TRANSACTION", "true")
	t.Setenv("PGSPLIT_TIMEOUT", "2m")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, "host=envhost", cfg.ConnectionString)
	require.Equal(t, types.DialectOn, cfg.StandardConformingStrings)
	require.Equal(t, 8, cfg.Parallelism)
	require.True(t, cfg.SingleTransaction)
	require.Equal(t, 2*time.Minute, cfg.Timeout)
}

func TestApplyFlagsToConfig(t *testing.T) {
	tests := []struct {
		name  string
		flags Flags
		check func(t *testing.T, cfg *Config)
	}{
		{
			name:  "zero flags keep values",
			flags: Flags{},
			check: func(t *testing.T, cfg *Config) {
				require.Equal(t, DefaultConfig, *cfg)
			},
		},
		{
			name: "overrides",
			flags: Flags{
				Connection:                "host=flaghost",
				StandardConformingStrings: "Off",
				Timeout:                   time.Second,
				Parallel:                  2,
				Format:                    "json",
				Output:                    "out.json",
				StripComments:             true,
				KeepEmpty:                 true,
				SingleTransaction:         true,
				TempDatabase:              true,
				Verbose:                   true,
			},
			check: func(t *testing.T, cfg *Config) {
				require.Equal(t, "host=flaghost", cfg.ConnectionString)
				require.Equal(t, types.DialectOff, cfg.StandardConformingStrings)
				require.Equal(t, time.Second, cfg.Timeout)
				require.Equal(t, 2, cfg.Parallelism)
				require.Equal(t, "json", cfg.Format)
				require.Equal(t, "out.json", cfg.Output)
				require.True(t, cfg.StripComments)
				require.True(t, cfg.KeepEmpty)
				require.True(t, cfg.SingleTransaction)
				require.True(t, cfg.TempDatabase)
				require.True(t, cfg.Verbose)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig
			ApplyFlagsToConfig(&cfg, tt.flags)
			tt.check(t, &cfg)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"dialect", func(c *Config) { c.StandardConformingStrings = "maybe" }, "standard-conforming-strings"},
		{"timeout", func(c *Config) { c.Timeout = -time.Second }, "timeout"},
		{"parallel", func(c *Config) { c.Parallelism = 0 }, "parallel"},
		{"format", func(c *Config) { c.Format = "lcov" }, "format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			require.Equal(t, tt.field, cfgErr.Field)
		})
	}
}
