package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	splintererrors "github.com/alexisbeaulieu97/splinter/pkg/errors"
)

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestParseConfig(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		file     string
		contents string
		assert   func(t *testing.T, cfg *Config, err error)
	}{
		{
			name: "yaml overrides defaults",
			file: "splinter.yaml",
			contents: `log:
  level: debug
split:
  max_attempts: 25
  seed: 42
stability:
  sodium: 3
mods:
  ignore: ["*-dev.jar"]
`,
			assert: func(t *testing.T, cfg *Config, err error) {
				require.NoError(t, err)
				require.Equal(t, "debug", cfg.Log.Level)
				require.Equal(t, 25, cfg.Split.MaxAttempts)
				require.NotNil(t, cfg.Split.Seed)
				require.Equal(t, uint64(42), *cfg.Split.Seed)
				require.Equal(t, 1000, cfg.History.Limit)
				require.Equal(t, 3, cfg.StabilityOf("sodium"))
				require.Equal(t, 10, cfg.StabilityOf("fabric-api"), "built-in ranks are kept")
				require.Equal(t, []string{"*-dev.jar"}, cfg.Mods.Ignore)
			},
		},
		{
			name: "toml is picked by extension",
			file: "splinter.toml",
			contents: `[split]
max_attempts = 7

[history]
limit = 50
`,
			assert: func(t *testing.T, cfg *Config, err error) {
				require.NoError(t, err)
				require.Equal(t, 7, cfg.Split.MaxAttempts)
				require.Equal(t, 50, cfg.History.Limit)
				require.Equal(t, "info", cfg.Log.Level)
			},
		},
		{
			name:     "empty yaml yields defaults",
			file:     "splinter.yaml",
			contents: "",
			assert: func(t *testing.T, cfg *Config, err error) {
				require.NoError(t, err)
				require.Equal(t, Default(), cfg)
			},
		},
		{
			name:     "unknown yaml keys are rejected",
			file:     "splinter.yaml",
			contents: "split:\n  max_attempts: 5\n  retries: 3\n",
			assert: func(t *testing.T, cfg *Config, err error) {
				require.Error(t, err)
				var parseErr *splintererrors.ParseError
				require.ErrorAs(t, err, &parseErr)
				require.Equal(t, 3, parseErr.Line)
			},
		},
		{
			name:     "unknown toml keys are rejected",
			file:     "splinter.toml",
			contents: "[split]\nretries = 3\n",
			assert: func(t *testing.T, cfg *Config, err error) {
				var parseErr *splintererrors.ParseError
				require.ErrorAs(t, err, &parseErr)
			},
		},
		{
			name:     "malformed toml reports its line",
			file:     "splinter.toml",
			contents: "[split]\nmax_attempts = = 3\n",
			assert: func(t *testing.T, cfg *Config, err error) {
				var parseErr *splintererrors.ParseError
				require.ErrorAs(t, err, &parseErr)
				require.Equal(t, 2, parseErr.Line)
			},
		},
		{
			name:     "out of range attempts fail validation",
			file:     "splinter.yaml",
			contents: "split:\n  max_attempts: 0\n",
			assert: func(t *testing.T, cfg *Config, err error) {
				var validationErr *splintererrors.ValidationError
				require.ErrorAs(t, err, &validationErr)
				require.Equal(t, "split.max_attempts", validationErr.Field)
			},
		},
		{
			name:     "unknown log level fails validation",
			file:     "splinter.yaml",
			contents: "log:\n  level: loud\n",
			assert: func(t *testing.T, cfg *Config, err error) {
				var validationErr *splintererrors.ValidationError
				require.ErrorAs(t, err, &validationErr)
				require.Equal(t, "log.level", validationErr.Field)
			},
		},
		{
			name:     "negative stability fails validation",
			file:     "splinter.yaml",
			contents: "stability:\n  sodium: -1\n",
			assert: func(t *testing.T, cfg *Config, err error) {
				var validationErr *splintererrors.ValidationError
				require.ErrorAs(t, err, &validationErr)
			},
		},
		{
			name:     "broken ignore pattern fails validation",
			file:     "splinter.yaml",
			contents: "mods:\n  ignore: [\"[\"]\n",
			assert: func(t *testing.T, cfg *Config, err error) {
				var validationErr *splintererrors.ValidationError
				require.ErrorAs(t, err, &validationErr)
				require.Equal(t, "mods.ignore", validationErr.Field)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			path := writeFile(t, tc.file, tc.contents)
			cfg, err := ParseConfig(path)
			tc.assert(t, cfg, err)
		})
	}
}

func TestParseConfigMissingFile(t *testing.T) {
	t.Parallel()

	_, err := ParseConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	var parseErr *splintererrors.ParseError
	require.ErrorAs(t, err, &parseErr)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadWithoutPathUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 100, cfg.Split.MaxAttempts)
	require.NoError(t, ValidateConfig(cfg))
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.Empty(t, Discover(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "splinter.toml"), nil, 0o644))
	require.Equal(t, filepath.Join(dir, "splinter.toml"), Discover(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "splinter.yaml"), nil, 0o644))
	require.Equal(t, filepath.Join(dir, "splinter.yaml"), Discover(dir))
}

func TestGenerateSchema(t *testing.T) {
	t.Parallel()

	data, err := GenerateSchema()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Equal(t, "Splinter Configuration", doc["title"])

	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	require.Contains(t, props, "split")
	require.Contains(t, props, "stability")
	require.Equal(t, false, doc["additionalProperties"])
}
