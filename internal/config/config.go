// Package config holds the option bundle that controls docstring rewriting.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"pydoxy/internal/errors"
)

// Options represents the resolved pydoxy configuration for one run.
//
// A `.pydoxy/config.json` file next to the input (or in the working
// directory) may supply defaults; command-line flags override it.
type Options struct {
	// Autobrief enables semantic parsing of docstrings (@brief and friends)
	Autobrief bool `json:"autobrief" mapstructure:"autobrief"`
	// Autocode enables code/prose auto-detection inside docstrings
	Autocode bool `json:"autocode" mapstructure:"autocode"`
	// TopLevelNamespace is a root substring used to trim dotted namespace tags
	TopLevelNamespace string `json:"topLevelNamespace" mapstructure:"topLevelNamespace"`
	// TabLength is the tab-expansion width used for indentation comparisons
	TabLength int `json:"tablength" mapstructure:"tablength"`
	// Debug enables verbose tracing on stderr
	Debug bool `json:"debug" mapstructure:"debug"`
	// CacheDir, when non-empty, enables the filter result cache
	CacheDir string `json:"cacheDir" mapstructure:"cacheDir"`

	// FullPathNamespace is the dotted module location of the input file,
	// derived from the filename. Computed by ResolveNamespace, never read
	// from configuration.
	FullPathNamespace string `json:"-" mapstructure:"-"`
}

// Default returns the default options
func Default() *Options {
	return &Options{
		TabLength: 4,
	}
}

// Load reads options from .pydoxy/config.json under searchDir.
// A missing config file is not an error; defaults are returned.
func Load(searchDir string) (*Options, error) {
	v := viper.New()

	v.SetDefault("tablength", 4)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(searchDir, ".pydoxy"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return Default(), nil
		}
		return nil, errors.Wrap(errors.ConfigInvalid, "cannot read config file", err)
	}

	opts := Default()
	if err := v.Unmarshal(opts); err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid, "cannot decode config file", err)
	}
	if opts.TabLength <= 0 {
		opts.TabLength = 4
	}

	return opts, nil
}

// ResolveNamespace turns the input filename into a dotted module location
// and stores it in FullPathNamespace. When TopLevelNamespace is set and
// found within the dotted path, everything before it is trimmed away.
func (o *Options) ResolveNamespace(filename string) {
	full := strings.ReplaceAll(filename, string(os.PathSeparator), ".")
	full = strings.TrimSuffix(full, ".py")

	real := full
	if o.TopLevelNamespace != "" {
		if start := strings.Index(full, o.TopLevelNamespace); start >= 0 {
			real = full[start:]
		}
	}
	o.FullPathNamespace = real
}
