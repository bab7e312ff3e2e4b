// Package api is the embeddable Go entry point: one exported function,
// Link, that drives the whole pipeline (parse, register, instantiate,
// rewrite) from caller-supplied syntax trees and returns diagnostics
// plus the rewritten trees. Grounded on esbuild's pkg/api shape
// (Options/Result structs, a single Build/Transform verb per concern)
// but scoped to linking: this package never lexes source text itself,
// since the lexer/parser producing the syntax tree is an external
// collaborator (§1) -- callers hand in already-built js_ast.AST values,
// the way esbuild's own internal callers hand parsed ASTs to the
// linker after the scan phase.
package api

import (
	"github.com/google/uuid"

	"eslink/internal/fs"
	"eslink/internal/js_ast"
	"eslink/internal/linker"
	"eslink/internal/logger"
	"eslink/internal/parser"
	"eslink/internal/resolver"
)

// Module is one source file handed to Link: Address is the resolved
// filesystem path the resolver will canonicalize and match import
// specifiers against; AST is the already-parsed syntax tree (import
// declarations and export wrappers not yet stripped -- that's
// internal/parser's job, run by Link itself).
type Module struct {
	Address string
	AST     *js_ast.AST
}

// Options configures one Link invocation.
type Options struct {
	Modules []Module

	// FS resolves relative import specifiers against each module's
	// Address. Defaults to fs.RealFS() when nil.
	FS fs.FS

	// Aliases lets bare (non-relative) specifiers resolve to a fixed
	// address, the same table internal/resolver.Resolver.Aliases
	// documents.
	Aliases map[string]string

	AllowGoogRequire bool
	WarningsAsErrors bool
}

// Message is a diagnostic in the shape callers consume -- a flattened,
// dependency-free copy of logger.Msg, mirroring esbuild's api.Message.
type Message struct {
	ID       string
	Text     string
	File     string
	Line     int
	Column   int
	LineText string
}

// Result is everything one Link invocation produced.
type Result struct {
	// SessionID tags this invocation's diagnostics so a caller running
	// many concurrent Link calls (the CLI's --verbose logging, for
	// instance) can correlate a Message back to the run that produced
	// it.
	SessionID string

	Errors   []Message
	Warnings []Message

	// Rewritten holds each surviving module's rewritten tree, keyed by
	// canonical name. A module instantiateAll demoted to a plain script
	// (§4.4) is omitted.
	Rewritten map[string]*js_ast.AST

	// Provides is the registry's provide/require annotation (§6),
	// ready for an external topological sorter to consume.
	Provides map[string][]string
}

// Link implements the pipeline §2's data-flow diagram describes:
// Parser Pass -> Module Record -> Registry build -> instantiateAll ->
// Rewriter Pass, run across every supplied module.
func Link(options Options) Result {
	log := logger.NewLog()

	filesystem := options.FS
	if filesystem == nil {
		filesystem = fs.RealFS()
	}
	res := resolver.NewResolver(filesystem)
	for specifier, address := range options.Aliases {
		res.Aliases[specifier] = address
	}

	reg := linker.NewRegistry(log, res)

	byName := make(map[string]*js_ast.AST, len(options.Modules))
	for _, mod := range options.Modules {
		canonicalName := res.Canonicalize(mod.Address)
		mod.AST.Source.AbsPath = mod.Address
		if mod.AST.Source.PrettyPath == "" {
			mod.AST.Source.PrettyPath = mod.Address
		}

		parsed := parser.Parse(log, mod.AST)
		reg.AddModule(linker.ParsedModule{
			CanonicalName:    canonicalName,
			Source:           &mod.AST.Source,
			RequestedModules: parsed.ModuleRequests,
			Imports:          parsed.Imports,
			RawExports:       parsed.Exports,
		})
		byName[canonicalName] = mod.AST
	}

	reg.InstantiateAll()

	rw := linker.NewRewriter(reg, log)
	rewritten := make(map[string]*js_ast.AST, len(reg.Modules()))
	for _, m := range reg.Modules() {
		tree := byName[m.CanonicalName]
		rw.RewriteModule(tree, m.CanonicalName, options.AllowGoogRequire)
		rewritten[m.CanonicalName] = tree
	}

	errors := messagesOf(log, logger.Error)
	warnings := messagesOf(log, logger.Warning)
	if options.WarningsAsErrors {
		// Promote warnings into errors here, once, so every caller -- the
		// CLI's exit code, a library consumer's own success check -- sees
		// a single Errors list to act on instead of re-implementing this
		// toggle against Warnings itself.
		errors = append(errors, warnings...)
		warnings = nil
	}

	return Result{
		SessionID: uuid.NewString(),
		Errors:    errors,
		Warnings:  warnings,
		Rewritten: rewritten,
		Provides:  reg.Provides(),
	}
}

func messagesOf(log *logger.Log, kind logger.MsgKind) []Message {
	var out []Message
	for _, m := range log.SortedMsgs() {
		if m.Kind != kind {
			continue
		}
		msg := Message{ID: string(m.ID), Text: m.Text}
		if m.Location != nil {
			msg.File = m.Location.File
			msg.Line = m.Location.Line
			msg.Column = m.Location.Column
			msg.LineText = m.Location.LineText
		}
		out = append(out, msg)
	}
	return out
}

// GraphEdge is one canonicalName -> requiredName edge, the shape
// `eslink graph` serializes (§E).
type GraphEdge struct {
	From string
	To   string
}

// GraphEdges flattens Provides into a flat edge list for callers that
// want the dependency graph without the per-module grouping.
func GraphEdges(provides map[string][]string) []GraphEdge {
	var edges []GraphEdge
	for from, tos := range provides {
		for _, to := range tos {
			edges = append(edges, GraphEdge{From: from, To: to})
		}
	}
	return edges
}
