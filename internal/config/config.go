package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/benthaman/ksapply/internal/oracle"
	"github.com/benthaman/ksapply/internal/series"
)

// EnvPrefix prefixes the environment variables that override settings.
const EnvPrefix = "KSAPPLY"

// configName is the base name of the config file looked up in the search
// directories.
const configName = ".ksapply"

// Head is an upstream head indexed for sorting.
type Head struct {
	Name string `mapstructure:"name" yaml:"name"`
	Ref  string `mapstructure:"ref" yaml:"ref"`
}

// Log configures the debug log file.
type Log struct {
	File       string `mapstructure:"file" yaml:"file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
}

// Config holds the settings of a ksapply run.
type Config struct {
	// Repo is the upstream Linux repository.
	Repo string `mapstructure:"repo" yaml:"repo"`
	// Series is the series file.
	Series string `mapstructure:"series" yaml:"series"`
	// PatchesDir is the directory patch names are relative to.
	PatchesDir string `mapstructure:"patches_dir" yaml:"patches_dir"`
	// QuiltPatchesDir is the prefix quilt reports patch names with.
	QuiltPatchesDir string `mapstructure:"quilt_patches_dir" yaml:"quilt_patches_dir"`
	// Index is an optional YAML file listing upstream commits per head. When
	// set it replaces the repository as the source of upstream order.
	Index string `mapstructure:"index" yaml:"index,omitempty"`

	SortedMarkers   []string `mapstructure:"sorted_markers" yaml:"sorted_markers"`
	TrailingMarkers []string `mapstructure:"trailing_markers" yaml:"trailing_markers"`
	Heads           []Head   `mapstructure:"heads" yaml:"heads"`
	Log             Log      `mapstructure:"log" yaml:"log"`
}

// Options tells Load where to look for settings.
type Options struct {
	// File is an explicit config file. Files ending in .json or .jsonc may
	// contain comments.
	File string
	// Dirs are searched for .ksapply.yaml when File is empty.
	Dirs []string
	// Flags override every other source for the flags that are set.
	Flags *pflag.FlagSet
}

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"repo":        "repo",
	"series":      "series",
	"patches-dir": "patches_dir",
	"index":       "index",
}

// Default returns the built-in configuration.
func Default() *Config {
	m := series.DefaultMarkers()
	return &Config{
		Series:          "series.conf",
		PatchesDir:      ".",
		QuiltPatchesDir: "patches",
		SortedMarkers:   m.Sorted,
		TrailingMarkers: m.Trailing,
		Heads:           []Head{{Name: "torvalds/linux", Ref: "master"}},
		Log:             Log{MaxSize: 10, MaxBackups: 3, MaxAge: 28},
	}
}

// Load builds the configuration from defaults, the config file, KSAPPLY_*
// environment variables and flags, in increasing priority. GIT_DIR and
// LINUX_GIT name the repository when KSAPPLY_REPO does not.
func Load(opts Options) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("repo", EnvPrefix+"_REPO", "GIT_DIR", "LINUX_GIT"); err != nil {
		return nil, err
	}

	if err := readConfigFile(v, opts); err != nil {
		return nil, err
	}

	if opts.Flags != nil {
		for flag, key := range flagKeys {
			if f := opts.Flags.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	heads := make([]map[string]any, len(d.Heads))
	for i, h := range d.Heads {
		heads[i] = map[string]any{"name": h.Name, "ref": h.Ref}
	}

	v.SetDefault("repo", d.Repo)
	v.SetDefault("series", d.Series)
	v.SetDefault("patches_dir", d.PatchesDir)
	v.SetDefault("quilt_patches_dir", d.QuiltPatchesDir)
	v.SetDefault("index", d.Index)
	v.SetDefault("sorted_markers", d.SortedMarkers)
	v.SetDefault("trailing_markers", d.TrailingMarkers)
	v.SetDefault("heads", heads)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size", d.Log.MaxSize)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age", d.Log.MaxAge)
}

func readConfigFile(v *viper.Viper, opts Options) error {
	if opts.File == "" {
		if len(opts.Dirs) == 0 {
			return nil
		}
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		for _, dir := range opts.Dirs {
			v.AddConfigPath(dir)
		}
		err := v.ReadInConfig()
		var notFound viper.ConfigFileNotFoundError
		if err != nil && !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		return nil
	}

	switch filepath.Ext(opts.File) {
	case ".json", ".jsonc":
		data, err := os.ReadFile(opts.File)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
		v.SetConfigType("json")
		if err := v.ReadConfig(bytes.NewReader(jsonc.ToJSON(data))); err != nil {
			return fmt.Errorf("failed to parse config %s: %w", opts.File, err)
		}
	default:
		v.SetConfigFile(opts.File)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Series == "" {
		return fmt.Errorf("series must not be empty")
	}
	if len(c.SortedMarkers) == 0 {
		return fmt.Errorf("at least one sorted marker is required")
	}
	if len(c.TrailingMarkers) == 0 {
		return fmt.Errorf("at least one trailing marker is required")
	}
	if len(c.Heads) == 0 {
		return fmt.Errorf("at least one head is required")
	}
	seen := make(map[string]bool, len(c.Heads))
	for i, h := range c.Heads {
		if h.Name == "" || h.Ref == "" {
			return fmt.Errorf("head %d needs both a name and a ref", i+1)
		}
		if seen[h.Name] {
			return fmt.Errorf("head %q is listed twice", h.Name)
		}
		seen[h.Name] = true
	}
	return nil
}

// Markers returns the section markers.
func (c *Config) Markers() series.Markers {
	return series.Markers{Sorted: c.SortedMarkers, Trailing: c.TrailingMarkers}
}

// HeadRefs returns the heads in oracle form.
func (c *Config) HeadRefs() []oracle.HeadRef {
	refs := make([]oracle.HeadRef, len(c.Heads))
	for i, h := range c.Heads {
		refs[i] = oracle.HeadRef{Name: h.Name, Ref: h.Ref}
	}
	return refs
}

// DefaultHead returns the name of the head whose group is written without a
// label.
func (c *Config) DefaultHead() string {
	return c.Heads[0].Name
}

// SeriesPath returns the series file path. A relative Series is taken
// relative to PatchesDir.
func (c *Config) SeriesPath() string {
	if filepath.IsAbs(c.Series) {
		return c.Series
	}
	return filepath.Join(c.PatchesDir, c.Series)
}

// YAML renders the configuration.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
