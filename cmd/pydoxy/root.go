package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"pydoxy/internal/cache"
	"pydoxy/internal/config"
	"pydoxy/internal/errors"
	"pydoxy/internal/logging"
	"pydoxy/internal/rewrite"
	"pydoxy/internal/version"
)

var (
	autobriefFlag bool
	autocodeFlag  bool
	namespaceFlag string
	tabLengthFlag int
	debugFlag     bool
	formatFlag    string
	cacheDirFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "pydoxy [flags] <filename>",
	Short: "Filter Python docstrings into Doxygen comment blocks",
	Long: `pydoxy is a Doxygen input filter for Python. It rewrites docstrings
into Doxygen comment blocks so Python code can be documented with the
same toolchain as C-family languages.

Feed it through Doxygen's FILTER_PATTERNS, or run it standalone:

  pydoxy -a -c sample.py
  pydoxy --ns mypackage --autobrief src/mypackage/mod.py`,
	Version: version.Version,
	Args:    cobra.ExactArgs(1),
	RunE:    runFilter,
}

func init() {
	rootCmd.SetVersionTemplate("pydoxy version {{.Version}}\n")
	rootCmd.Flags().BoolVarP(&autobriefFlag, "autobrief", "a", false,
		"parse docstrings for @brief descriptions and other Doxygen tags")
	rootCmd.Flags().BoolVarP(&autocodeFlag, "autocode", "c", false,
		"detect code fragments in docstrings and wrap them in @code blocks")
	rootCmd.Flags().StringVarP(&namespaceFlag, "ns", "n", "",
		"top-level namespace for @namespace tags")
	rootCmd.Flags().IntVarP(&tabLengthFlag, "tablength", "t", 4,
		"tab expansion width for indentation comparisons")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"enable debug tracing on stderr")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "human",
		"log format (human, json)")
	rootCmd.PersistentFlags().StringVar(&cacheDirFlag, "cache-dir", "",
		"directory for the result cache (empty disables caching)")
}

// newLogger builds the logger shared by all commands from the global
// flags.
func newLogger() *logging.Logger {
	level := logging.ErrorLevel
	if debugFlag {
		level = logging.DebugLevel
	}
	format := logging.HumanFormat
	if formatFlag == "json" {
		format = logging.JSONFormat
	}
	return logging.NewLogger(logging.Config{Format: format, Level: level})
}

// resolveOptions layers CLI flags over the config file. A flag the user
// set explicitly always wins.
func resolveOptions(cmd *cobra.Command, filename string) (*config.Options, error) {
	opts, err := config.Load(filepath.Dir(filename))
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("autobrief") {
		opts.Autobrief = autobriefFlag
	}
	if flags.Changed("autocode") {
		opts.Autocode = autocodeFlag
	}
	if flags.Changed("ns") {
		opts.TopLevelNamespace = namespaceFlag
	}
	if flags.Changed("tablength") {
		opts.TabLength = tabLengthFlag
	}
	if flags.Changed("debug") {
		opts.Debug = debugFlag
	}
	if flags.Changed("cache-dir") {
		opts.CacheDir = cacheDirFlag
	}
	opts.ResolveNamespace(filename)
	return opts, nil
}

func runFilter(cmd *cobra.Command, args []string) error {
	filename := args[0]
	logger := newLogger()

	opts, err := resolveOptions(cmd, filename)
	if err != nil {
		return err
	}
	if opts.Debug {
		debugFlag = true
		logger = newLogger()
	}

	source, err := os.ReadFile(filename)
	if err != nil {
		return errors.Wrap(errors.FileUnreadable, "cannot read input file", err)
	}

	runID := uuid.New().String()
	logger.Debug("filter run starting", map[string]interface{}{
		"run_id":    runID,
		"file":      filename,
		"namespace": opts.FullPathNamespace,
		"autobrief": opts.Autobrief,
		"autocode":  opts.Autocode,
	})

	var store *cache.Store
	var key string
	if opts.CacheDir != "" {
		store, err = cache.Open(opts.CacheDir, logger)
		if err != nil {
			// The cache is an accelerator; a broken one must not block
			// filtering.
			logger.Warn("cache unavailable", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer store.Close()
			key = cache.Key(source, opts)
			if out, ok, err := store.Get(key); err == nil && ok {
				logger.Debug("cache hit", map[string]interface{}{"run_id": runID})
				return writeOutput(cmd, out)
			}
		}
	}

	out, err := rewrite.Run(context.Background(), source, opts, logger)
	if err != nil {
		return err
	}

	if store != nil {
		if err := store.Put(key, filename, out); err != nil {
			logger.Warn("cache store failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return writeOutput(cmd, out)
}

func writeOutput(cmd *cobra.Command, out string) error {
	_, err := cmd.OutOrStdout().Write([]byte(out + "\n"))
	return err
}
