// Package config holds constants shared across the core packages and
// the options a link session is configured with, loaded the way
// invowk's internal/config layers viper over defaults: flags override
// environment variables, which override a config file, which overrides
// built-in defaults.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// ModuleNamePrefix is the fixed prefix every canonical module name
// begins with (§4.1, §6). The rewriter recognizes a module-namespace
// identifier by this prefix alone, so it must never collide with a
// plausible user identifier -- esbuild's analogous convention is its
// `ast.Ref`-based renaming, which this spec trades for a textual
// prefix scheme instead.
const ModuleNamePrefix = "module$"

// DefaultExportLocalName is the synthesized local binding an anonymous
// `export default <expr>` is rewritten to (§4.2, §6).
const DefaultExportLocalName = "$jscompDefaultExport"

// GlobalNameSeparator joins a local name and its module's canonical
// name to produce the final global name (§6): `local + "$$" + canonicalName`.
const GlobalNameSeparator = "$$"

// LinkOptions configures one link session: which files to treat as
// entry points, whether to allow `goog.require`, and whether warnings
// are promoted to errors. `cmd/eslink`'s loadOptions populates it and
// copies AllowGoogRequire and WarningsAsErrors into the separate
// `pkg/api.Options` struct that `pkg/api.Link` takes.
type LinkOptions struct {
	// EntryPoints lists source files from configuration. The CLI
	// subcommands take their inputs from command-line arguments and do
	// not read this field.
	EntryPoints []string `mapstructure:"entry_points"`

	// WorkingDir defaults to "." and is not read by the link pipeline:
	// relative specifiers resolve against the referring module's own
	// directory.
	WorkingDir string `mapstructure:"working_dir"`

	// AllowGoogRequire enables the §4.6 goog.require local transform.
	// Disabled by default: most ES module code never uses it, and
	// running the transform unconditionally would make `const bar =
	// goog.require(...)` look like module linking's business when it's
	// really an adapter for a different, older module system.
	AllowGoogRequire bool `mapstructure:"allow_goog_require"`

	// WarningsAsErrors promotes every logger.Warning to a failure exit
	// code -- the same toggle esbuild's LogLevelOptions survives as
	// `--log-level=warning` composed with a fatal exit check, applied to
	// our much smaller diagnostic taxonomy instead.
	WarningsAsErrors bool `mapstructure:"warnings_as_errors"`

	// Color is a tri-state (nil/true/false) loaded from configuration,
	// shaped after esbuild's `--color` flag. Nothing in this repository
	// reads it: logger.PrintMessages takes its color choice as an
	// argument, and the CLI prints diagnostics through its own logger.
	Color *bool `mapstructure:"color"`
}

// Load builds a LinkOptions by layering a viper instance the caller
// has already populated from flags/env/config file. Call sites (the
// CLI's root command, or an API caller that wants the same layering)
// own the viper.Viper construction; this just does the
// Unmarshal-and-normalize step so both paths agree on field names.
func Load(v *viper.Viper) (LinkOptions, error) {
	var opts LinkOptions
	if err := v.Unmarshal(&opts); err != nil {
		return LinkOptions{}, err
	}
	if opts.WorkingDir == "" {
		opts.WorkingDir = "."
	}
	return opts, nil
}

// EnvPrefix is the environment-variable prefix viper binds against
// (ESLINK_ENTRY_POINTS, ESLINK_ALLOW_GOOG_REQUIRE, ...), mirroring
// invowk's AppName-derived env prefix convention.
const EnvPrefix = "ESLINK"

// NewViper constructs a viper.Viper preloaded with LinkOptions'
// defaults and env-var bindings, ready for a config file and flags to
// layer on top.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("working_dir", ".")
	v.SetDefault("allow_goog_require", false)
	v.SetDefault("warnings_as_errors", false)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}
