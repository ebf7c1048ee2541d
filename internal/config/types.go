package config

// Config is the splinter configuration document. Every section is optional;
// Default fills in whatever a file leaves out.
type Config struct {
	Log     LogConfig     `yaml:"log" toml:"log" jsonschema:"description=Logging output"`
	Split   SplitConfig   `yaml:"split" toml:"split" jsonschema:"description=Bisection tuning"`
	History HistoryConfig `yaml:"history" toml:"history" jsonschema:"description=Undo history"`
	Mods    ModsConfig    `yaml:"mods" toml:"mods" jsonschema:"description=Plugin discovery"`
	// Stability ranks well known libraries so bisection disables them last.
	Stability map[string]int `yaml:"stability,omitempty" toml:"stability,omitempty" validate:"dive,keys,required,endkeys,gte=0" jsonschema:"description=Plugin id to stability rank; higher is disabled later"`
}

// LogConfig controls the zerolog output.
type LogConfig struct {
	Level         string `yaml:"level" toml:"level" validate:"oneof=trace debug info warn error" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error,default=info"`
	File          string `yaml:"file,omitempty" toml:"file,omitempty" jsonschema:"description=Write logs to this file instead of stderr"`
	HumanReadable bool   `yaml:"human_readable,omitempty" toml:"human_readable,omitempty" jsonschema:"description=Console formatted logs"`
}

// SplitConfig tunes the split retry loop.
type SplitConfig struct {
	MaxAttempts int `yaml:"max_attempts" toml:"max_attempts" validate:"gte=1,lte=10000" jsonschema:"minimum=1,maximum=10000,default=100"`
	// Seed makes shuffling reproducible when set.
	Seed *uint64 `yaml:"seed,omitempty" toml:"seed,omitempty" jsonschema:"description=Fixed shuffle seed"`
}

// HistoryConfig bounds the undo history.
type HistoryConfig struct {
	Limit int `yaml:"limit" toml:"limit" validate:"gte=1" jsonschema:"minimum=1,default=1000"`
}

// ModsConfig describes where plugins live and which files to skip.
type ModsConfig struct {
	Dir    string   `yaml:"dir,omitempty" toml:"dir,omitempty" jsonschema:"description=Mods directory; defaults to the command argument"`
	Ignore []string `yaml:"ignore,omitempty" toml:"ignore,omitempty" validate:"dive,required" jsonschema:"description=Dockerignore style patterns of files to leave alone"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		Split: SplitConfig{
			MaxAttempts: 100,
		},
		History: HistoryConfig{
			Limit: 1000,
		},
		Stability: map[string]int{
			"fabric-api":             10,
			"fabric-language-kotlin": 10,
			"cloth-config":           5,
			"architectury":           5,
			"modmenu":                5,
		},
	}
}

// StabilityOf returns the configured rank for id, zero when unknown.
func (c *Config) StabilityOf(id string) int {
	if c == nil {
		return 0
	}
	return c.Stability[id]
}
