package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"eslink/internal/config"
)

var (
	cfgFile string
	verbose bool

	cliLog = log.NewWithOptions(os.Stderr, log.Options{Prefix: "eslink"})

	rootCmd = &cobra.Command{
		Use:   "eslink",
		Short: "Resolve and rewrite a static ES2015 module graph",
		Long: `eslink resolves import/export declarations across a set of source
files into a single global-name namespace, the same transform Closure
Compiler's ES6 module rewriter performs ahead of its own bundling pass.`,
	}
)

func init() {
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./eslink.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("allow-goog-require", false, "rewrite const x = goog.require('a.b.c') into a qualified-name reference")
	rootCmd.PersistentFlags().Bool("warnings-as-errors", false, "exit non-zero if any warning is produced")

	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(checkCmd)
}

func initLogging() {
	if verbose {
		cliLog.SetLevel(log.DebugLevel)
	}
}

// loadOptions layers the persistent flags over a viper instance seeded
// with config.NewViper()'s defaults/env bindings and an optional config
// file, then unmarshals into a config.LinkOptions -- the same
// flags-then-env-then-file-then-defaults precedence invowk's config
// loader uses.
func loadOptions(cmd *cobra.Command) (config.LinkOptions, error) {
	v := config.NewViper()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("eslink")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound && cfgFile != "" {
			return config.LinkOptions{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	if allow, err := cmd.Flags().GetBool("allow-goog-require"); err == nil && cmd.Flags().Changed("allow-goog-require") {
		v.Set("allow_goog_require", allow)
	}
	if warn, err := cmd.Flags().GetBool("warnings-as-errors"); err == nil && cmd.Flags().Changed("warnings-as-errors") {
		v.Set("warnings_as_errors", warn)
	}

	return config.Load(v)
}

// Execute runs the root command. Called by main.main().
func Execute() error {
	return rootCmd.Execute()
}
