// Package parser implements the Parser Pass (§4.2): it walks a
// module's already-built js_ast.AST once, extracts import/export
// entries, and rewrites export declarations into plain declarations in
// place so the rest of the pipeline only ever sees ordinary
// var/function/class statements. Grounded literally on
// Es6ParseModule.java from the original, and structurally on esbuild's
// js_parser named-import/-export bookkeeping (a single forward walk of
// top-level statements accumulating records as it goes).
package parser

import (
	"fmt"

	"eslink/internal/ast"
	"eslink/internal/config"
	"eslink/internal/graph"
	"eslink/internal/js_ast"
	"eslink/internal/logger"
)

// Result is everything the Parser Pass produces for one file: the
// inputs needed to construct a graph.ModuleRecord via the registry,
// plus the mutated tree ready for the rewriter.
type Result struct {
	ModuleRequests []string
	Imports        []graph.ImportEntry
	Exports        []graph.ExportEntry

	// IsModule is false when the file was already under an older module
	// system, or contains no import/export declarations at all -- the
	// registry's instantiateAll handles the latter case (nonModules), but
	// the former is decided here, up front, per §4.2.
	IsModule bool
}

// Parse implements the Parser Pass. tree is mutated in place: import
// declarations are removed, export wrappers are stripped down to plain
// declarations, and `export {...}` clauses without `from` are removed
// entirely.
func Parse(log *logger.Log, tree *js_ast.AST) Result {
	if tree.IsLegacyModule {
		return Result{}
	}

	p := &parserState{log: log, tree: tree}
	p.run()

	return Result{
		ModuleRequests: p.moduleRequests,
		Imports:        p.imports,
		Exports:        p.exports,
		IsModule:       len(p.imports) > 0 || len(p.exports) > 0 || len(p.moduleRequests) > 0,
	}
}

type parserState struct {
	log  *logger.Log
	tree *js_ast.AST

	moduleRequests []string
	imports        []graph.ImportEntry
	exports        []graph.ExportEntry

	seenLocalImportNames map[string]struct{}
}

func (p *parserState) run() {
	p.seenLocalImportNames = make(map[string]struct{})

	out := make([]js_ast.Stmt, 0, len(p.tree.Stmts))
	for _, stmt := range p.tree.Stmts {
		if rewritten, keep := p.visitTopLevel(stmt); keep {
			out = append(out, rewritten)
		}
	}
	p.tree.Stmts = out
}

// specifierAt reads the specifier string for a module-request index
// already present on tree.ModuleRequests -- populated by the
// lexer/parser that built the tree, an external collaborator per §1,
// not by this pass.
func (p *parserState) specifierAt(idx ast.Index32) string {
	return p.tree.ModuleRequests[idx.GetIndex()].Specifier
}

// visitTopLevel handles one top-level statement, returning the
// (possibly rewritten) statement to keep and whether to keep it at all
// -- import declarations and bare `export {...}` clauses are dropped.
func (p *parserState) visitTopLevel(stmt js_ast.Stmt) (js_ast.Stmt, bool) {
	switch s := stmt.Data.(type) {
	case *js_ast.SImport:
		p.visitImport(stmt.Loc, s)
		return js_ast.Stmt{}, false

	case *js_ast.SExportDecl:
		p.visitExportDecl(s)
		return s.Decl, true

	case *js_ast.SExportDefault:
		return p.visitExportDefault(stmt.Loc, s)

	case *js_ast.SExportClause:
		p.visitExportClause(stmt.Loc, s)
		return js_ast.Stmt{}, false

	case *js_ast.SExportStar:
		specifier := p.specifierAt(s.ModuleRequestIndex)
		p.moduleRequests = append(p.moduleRequests, specifier)
		p.exports = append(p.exports, graph.ExportEntry{
			ModuleRequest:    specifier,
			HasModuleRequest: true,
		})
		return js_ast.Stmt{}, false

	default:
		return stmt, true
	}
}

// visitImport implements §3/§4.2's import side: one ImportEntry per
// introduced local name, cloned by text rather than kept as a tree
// pointer per §4.2 ("their localName nodes are cloned into the import
// entries so the rewriter can still resolve references by text without
// dangling tree pointers") -- our ImportEntry is already a plain-string
// value type, so that clone is simply a value copy.
func (p *parserState) visitImport(loc logger.Loc, s *js_ast.SImport) {
	specifier := p.specifierAt(s.ModuleRequestIndex)
	p.moduleRequests = append(p.moduleRequests, specifier)

	addLocal := func(localName string, localLoc logger.Loc) {
		if _, dup := p.seenLocalImportNames[localName]; dup {
			p.log.AddError(&p.tree.Source, localLoc, logger.MsgDuplicateImportedNames,
				fmt.Sprintf("Duplicate declaration: %s", localName))
			return
		}
		p.seenLocalImportNames[localName] = struct{}{}
	}

	if s.DefaultName != nil {
		addLocal(s.DefaultName.Name, s.DefaultName.Loc)
		p.imports = append(p.imports, graph.ImportEntry{
			ModuleRequest: specifier,
			ImportName:    "default",
			HasImportName: true,
			LocalName:     s.DefaultName.Name,
			HasLocalName:  true,
			Loc:           s.DefaultName.Loc,
		})
	}

	if s.StarName != nil {
		addLocal(s.StarName.Name, s.StarName.Loc)
		p.imports = append(p.imports, graph.ImportEntry{
			ModuleRequest: specifier,
			LocalName:     s.StarName.Name,
			HasLocalName:  true,
			Loc:           s.StarName.Loc,
		})
	}

	for _, item := range s.Items {
		addLocal(item.Name.Name, item.Name.Loc)
		p.imports = append(p.imports, graph.ImportEntry{
			ModuleRequest: specifier,
			ImportName:    item.Alias,
			HasImportName: true,
			LocalName:     item.Name.Name,
			HasLocalName:  true,
			Loc:           item.Name.Loc,
		})
	}

	if s.DefaultName == nil && s.StarName == nil && len(s.Items) == 0 {
		// side-effect-only import: `import "mod";` -- still a module
		// request, but introduces no binding.
	}

	_ = loc
}

// visitExportDecl implements §4.2's third bullet: `export function
// f…`, `export class C…`, `export var a, b, c` -- strip the wrapper
// (handled by the caller returning s.Decl), emit one local-export
// entry per declared name.
func (p *parserState) visitExportDecl(s *js_ast.SExportDecl) {
	for _, name := range declaredNames(s.Decl) {
		p.exports = append(p.exports, graph.ExportEntry{
			ExportName:    name.Name,
			HasExportName: true,
			OrigName:      name.Name,
			HasOrigName:   true,
			ExportNameLoc: name.Loc,
		})
	}
}

// visitExportDefault implements §4.2's first two bullets.
func (p *parserState) visitExportDefault(loc logger.Loc, s *js_ast.SExportDefault) (js_ast.Stmt, bool) {
	if s.Decl.Data != nil {
		var name *js_ast.NamedLoc
		switch d := s.Decl.Data.(type) {
		case *js_ast.SFunction:
			name = d.Name
		case *js_ast.SClass:
			name = d.Name
		}
		if name == nil {
			// Named-decl shape requires a name; a caller that hands us an
			// unnamed function/class here should have gone through the
			// Value branch instead. Treat defensively as an internal
			// invariant violation -- this is a parser-construction bug, not
			// a diagnosable user error.
			panic("parser: SExportDefault.Decl has no name")
		}
		p.exports = append(p.exports, graph.ExportEntry{
			ExportName:    "default",
			HasExportName: true,
			OrigName:      name.Name,
			HasOrigName:   true,
			ExportNameLoc: loc,
		})
		return s.Decl, true
	}

	// Anonymous default export: synthesize `var $jscompDefaultExport = X;`
	local := config.DefaultExportLocalName
	p.exports = append(p.exports, graph.ExportEntry{
		ExportName:    "default",
		HasExportName: true,
		OrigName:      local,
		HasOrigName:   true,
		ExportNameLoc: loc,
	})
	decl := js_ast.Stmt{
		Loc: loc,
		Data: &js_ast.SLocal{
			Kind: js_ast.LocalVar,
			Decls: []js_ast.Decl{{
				Binding: js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Name: local}},
				Value:   s.Value,
			}},
		},
	}
	return decl, true
}

// visitExportClause implements §4.2's fourth/fifth bullets: `export
// {x as y, z}` with or without `from`.
func (p *parserState) visitExportClause(loc logger.Loc, s *js_ast.SExportClause) {
	if !s.HasModuleRequest {
		for _, item := range s.Items {
			p.exports = append(p.exports, graph.ExportEntry{
				ExportName:    item.Alias,
				HasExportName: true,
				OrigName:      item.Name,
				HasOrigName:   true,
				ExportNameLoc: item.NameLoc,
			})
		}
		return
	}

	specifier := p.specifierAt(s.ModuleRequestIndex)
	p.moduleRequests = append(p.moduleRequests, specifier)
	for _, item := range s.Items {
		p.exports = append(p.exports, graph.ExportEntry{
			ExportName:       item.Alias,
			HasExportName:    true,
			ModuleRequest:    specifier,
			HasModuleRequest: true,
			OrigName:         item.Name,
			HasOrigName:      true,
			ExportNameLoc:    item.NameLoc,
		})
	}
}

// declaredNames returns every name a top-level var/let/const,
// function, or class declaration introduces, in source order.
func declaredNames(stmt js_ast.Stmt) []js_ast.NamedLoc {
	switch s := stmt.Data.(type) {
	case *js_ast.SFunction:
		if s.Name != nil {
			return []js_ast.NamedLoc{*s.Name}
		}
	case *js_ast.SClass:
		if s.Name != nil {
			return []js_ast.NamedLoc{*s.Name}
		}
	case *js_ast.SLocal:
		names := make([]js_ast.NamedLoc, 0, len(s.Decls))
		for _, d := range s.Decls {
			names = append(names, bindingNames(d.Binding)...)
		}
		return names
	}
	return nil
}

// bindingNames flattens a declarator's binding target. Plain
// identifiers are the overwhelmingly common case; object/array
// destructuring at module top level is rare enough in practice that
// this pass only needs to recognize the identifier leaves, which is
// all §3's "one local-export entry per declared name" requires.
func bindingNames(e js_ast.Expr) []js_ast.NamedLoc {
	switch d := e.Data.(type) {
	case *js_ast.EIdentifier:
		return []js_ast.NamedLoc{{Loc: e.Loc, Name: d.Name}}
	case *js_ast.EObject:
		var names []js_ast.NamedLoc
		for _, prop := range d.Properties {
			names = append(names, bindingNames(prop.Value)...)
		}
		return names
	case *js_ast.EArray:
		var names []js_ast.NamedLoc
		for _, item := range d.Items {
			names = append(names, bindingNames(item)...)
		}
		return names
	}
	return nil
}
