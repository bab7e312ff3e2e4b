// Package resolver implements the Specifier Loader external contract
// (§4.1): map a specifier string to an address, and an address to a
// stable `module$`-prefixed canonical name. It is a real, working
// implementation -- relative-path resolution against the filesystem
// plus extension probing -- trimmed from esbuild's internal/resolver:
// no package.json/node_modules package resolution, no symlink
// realpath-ing, no tsconfig paths.
package resolver

import (
	"strings"

	"eslink/internal/config"
	"eslink/internal/fs"
	"eslink/internal/logger"
)

// DefaultExtensions is probed, in order, against a specifier with no
// extension of its own -- mirrors esbuild's resolver.Options.ExtensionOrder
// default for JS-only resolution.
var DefaultExtensions = []string{".js", ".mjs"}

// Resolver is a trimmed version of esbuild's resolver.Resolver: it
// only performs the two operations the linker needs (locate, and
// canonicalize an already-located address), not the full bundler
// resolution algorithm (no main-fields, no browser-field remapping).
type Resolver struct {
	FS fs.FS

	// Aliases lets a bare specifier (one that isn't relative) resolve to
	// a fixed address, standing in for the package-resolution step
	// esbuild's resolver performs by walking node_modules. A module
	// linker has no npm registry to consult, so callers configure this
	// table directly (matching how invowk's config layer wires static
	// aliases via viper, not auto-discovery).
	Aliases map[string]string

	Extensions []string
}

func NewResolver(filesystem fs.FS) *Resolver {
	return &Resolver{FS: filesystem, Aliases: make(map[string]string), Extensions: DefaultExtensions}
}

// Locate implements the first half of §4.1: resolve specifier relative
// to referringSource (or through the alias table for bare specifiers)
// to a concrete, existing file address.
func (r *Resolver) Locate(specifier string, referringSource *logger.Source) (string, bool) {
	if isRelativeSpecifier(specifier) {
		if referringSource == nil {
			return "", false
		}
		dir := r.FS.Dir(referringSource.AbsPath)
		return r.probe(r.FS.Join(dir, specifier))
	}

	if address, ok := r.Aliases[specifier]; ok {
		return r.probe(address)
	}

	return "", false
}

// Canonicalize implements the second half of §4.1: derive a stable
// `module$`-prefixed name from an address. The leading slash and the
// file extension are dropped and the remaining path segments are
// joined with `$`, matching the `testcode.js -> module$testcode`
// example in §8.
func (r *Resolver) Canonicalize(address string) string {
	trimmed := strings.TrimPrefix(address, "/")
	if ext := r.FS.Ext(trimmed); ext != "" {
		trimmed = strings.TrimSuffix(trimmed, ext)
	}
	segments := strings.Split(trimmed, "/")
	return config.ModuleNamePrefix + strings.Join(segments, "$")
}

// probe tries candidate address exactly, then with each extension
// appended, then as a directory's index file -- the same fallthrough
// esbuild's loadAsFileOrDirectory uses, minus package.json "main"
// resolution.
func (r *Resolver) probe(base string) (string, bool) {
	if _, ok := r.FS.ReadFile(base); ok {
		return base, true
	}
	for _, ext := range r.Extensions {
		candidate := base + ext
		if _, ok := r.FS.ReadFile(candidate); ok {
			return candidate, true
		}
	}
	for _, ext := range r.Extensions {
		candidate := r.FS.Join(base, "index"+ext)
		if _, ok := r.FS.ReadFile(candidate); ok {
			return candidate, true
		}
	}
	return "", false
}

func isRelativeSpecifier(specifier string) bool {
	return strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../") || specifier == "." || specifier == ".."
}
