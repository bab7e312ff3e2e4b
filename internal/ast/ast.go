// Package ast holds the small value types shared between the parser
// pass and the module graph that don't belong to either one
// exclusively -- mirroring the split esbuild uses between its
// internal/ast and internal/js_ast packages.
package ast

import "eslink/internal/logger"

// Index32 is a 1-based index into a file list, with 0 reserved to mean
// "absent". Matches esbuild's ast.Index32 convention so a zero value
// doesn't need a separate "ok" bool.
type Index32 uint32

func MakeIndex32(i uint32) Index32 { return Index32(i + 1) }

func (i Index32) IsValid() bool    { return i != 0 }
func (i Index32) GetIndex() uint32 { return uint32(i) - 1 }

// ModuleRequestRecord is one specifier string referenced by an import
// or a from-export, in source order, plus the location it came from
// for diagnostics. This is the spec's "moduleRequest" (§3); the field
// name here follows esbuild's ImportRecord naming for the equivalent
// concept.
type ModuleRequestRecord struct {
	Specifier string
	Loc       logger.Loc

	// SourceIndex is only valid when Resolved is true. No pass in this
	// repository sets either field; specifier resolution goes through
	// the registry by specifier string instead.
	SourceIndex Index32
	Resolved    bool
}
