package linker

import (
	"fmt"
	"strings"

	"eslink/internal/config"
	"eslink/internal/graph"
	"eslink/internal/js_ast"
	"eslink/internal/logger"
)

// Rewriter runs the Rewriter Pass (§4.5) over one module at a time,
// consulting the Registry it's bound to for cross-module resolution.
// Grounded on esbuild's linker.linkerContext -- one long-lived object
// that walks each file's AST exactly once, substituting resolved
// references in place -- but scoped down to a single rewrite step with
// no chunking/splitting concerns.
type Rewriter struct {
	reg *Registry
	log *logger.Log
}

func NewRewriter(reg *Registry, log *logger.Log) *Rewriter {
	return &Rewriter{reg: reg, log: log}
}

// RewriteModule implements §4.5: establish module scope, run the
// goog.require transform (§4.6) if enabled, then a post-order
// traversal performing every rename/substitution, then the
// script-root normalization. If canonicalName isn't a module the
// registry still recognizes (demoted to a plain script by
// instantiateAll, or never registered), it returns immediately.
func (rw *Rewriter) RewriteModule(tree *js_ast.AST, canonicalName string, allowGoogRequire bool) {
	m := rw.reg.GetModule(canonicalName)
	if m == nil {
		return
	}

	if allowGoogRequire {
		applyGoogRequireTransform(rw.log, tree)
	}

	state := &rewriteState{
		reg:              rw.reg,
		log:              rw.log,
		module:           m,
		source:           &tree.Source,
		moduleLocalNames: collectModuleLocalNames(tree.Stmts),
	}

	state.validateLocalExports()

	for i := range tree.Stmts {
		state.visitStmt(&tree.Stmts[i])
	}

	state.rewriteComments(tree)
	normalizeScriptRoot(rw.log, tree)
}

// validateLocalExports implements §4.5's existence check for bare
// `export {a, b as c}` clauses (§4.2 bullet 4): every local export's
// origin name must be either a module-level declaration or an import,
// or it's a dangling reference to nothing. Ported from
// Es6RewriteModule.visitExport's EXPORTED_BINDING_NOT_DECLARED check.
func (rw *rewriteState) validateLocalExports() {
	for _, e := range rw.module.LocalExports {
		if _, ok := rw.moduleLocalNames[e.OrigName]; ok {
			continue
		}
		if _, ok := rw.module.ImportEntry(e.OrigName); ok {
			continue
		}
		rw.log.AddError(rw.source, e.ExportNameLoc, logger.MsgExportedBindingMissing,
			fmt.Sprintf("Exporting local name %q is not declared", e.OrigName))
	}
}

// rewriteState is the per-module working state of one RewriteModule
// call -- esbuild keeps the equivalent as fields threaded through a
// linkerContext method set; this is small enough to be its own value.
type rewriteState struct {
	reg    *Registry
	log    *logger.Log
	module *graph.ModuleRecord
	source *logger.Source

	// moduleLocalNames holds every name this module declares at its own
	// top level (var/let/const/function/class), i.e. every name
	// resolveModuleBinding treats as "module-local" rather than an
	// import or an unknown global.
	moduleLocalNames map[string]struct{}

	// scopes is a stack of the names bound by enclosing function scopes
	// (parameters plus var/let/const/function/class declared anywhere in
	// the function body, flattened -- a deliberate simplification of
	// real lexical block scoping, adequate because all this pass needs
	// is "does some inner scope shadow the module-level binding", not a
	// fully general scope chain; the real tree-traversal/scope framework
	// is an external collaborator per §1).
	scopes  []map[string]struct{}
	fnDepth int
}

func (rw *rewriteState) pushScope()          { rw.scopes = append(rw.scopes, map[string]struct{}{}) }
func (rw *rewriteState) popScope()           { rw.scopes = rw.scopes[:len(rw.scopes)-1] }
func (rw *rewriteState) declare(name string) { rw.scopes[len(rw.scopes)-1][name] = struct{}{} }

func (rw *rewriteState) isShadowed(name string) bool {
	for _, s := range rw.scopes {
		if _, ok := s[name]; ok {
			return true
		}
	}
	return false
}

// resolveModuleBinding implements §4.5's resolveModuleBinding(n):
// shadowed or otherwise-unknown names return (_, false); a module-local
// declaration resolves to itself; an import entry resolves through the
// target module, exactly as §4.5 steps 1-3 describe.
func (rw *rewriteState) resolveModuleBinding(name string) (graph.Binding, bool) {
	if rw.isShadowed(name) {
		return graph.Binding{}, false
	}

	if ie, ok := rw.module.ImportEntry(name); ok {
		target := rw.reg.ResolveImportedModule(rw.module, ie.ModuleRequest)
		if target == nil {
			return graph.Binding{}, false
		}
		if !ie.HasImportName {
			return graph.Binding{Module: target, IsNamespace: true}, true
		}
		return target.ResolveExport(ie.ImportName)
	}

	if _, ok := rw.moduleLocalNames[name]; ok {
		return graph.Binding{Module: rw.module, Name: name}, true
	}

	return graph.Binding{}, false
}

// substituteBinding implements the binding-substitution rule (§4.5):
// a named binding becomes its global name; a namespace binding becomes
// the bare canonical module name, which is itself a candidate for the
// property-access rule once its parent node is visited.
func (rw *rewriteState) substituteBinding(e *js_ast.Expr, binding graph.Binding, originalText string) {
	if binding.IsNamespace {
		e.Data = &js_ast.EIdentifier{Name: binding.Module.CanonicalName, OriginalName: originalText}
		return
	}
	global := binding.Name + config.GlobalNameSeparator + binding.Module.CanonicalName
	e.Data = &js_ast.EIdentifier{Name: global, OriginalName: originalText}
}

// --- statement traversal --------------------------------------------

func (rw *rewriteState) visitStmt(stmt *js_ast.Stmt) {
	switch s := stmt.Data.(type) {
	case *js_ast.SLocal:
		for i := range s.Decls {
			rw.visitExpr(&s.Decls[i].Binding)
			if s.Decls[i].Value != nil {
				rw.visitExpr(s.Decls[i].Value)
			}
		}
	case *js_ast.SFunction:
		rw.renameDeclName(s.Name)
		rw.visitFn(&s.Fn)
	case *js_ast.SClass:
		rw.renameDeclName(s.Name)
		if s.Extends != nil {
			rw.visitExpr(s.Extends)
		}
	case *js_ast.SExpr:
		rw.visitExpr(&s.Value)
	case *js_ast.SReturn:
		if s.Value != nil {
			rw.visitExpr(s.Value)
		}
	case *js_ast.SBlock:
		for i := range s.Stmts {
			rw.visitStmt(&s.Stmts[i])
		}
	}
}

// renameDeclName rewrites a function/class declaration's own binding
// name in place when it's a module-level declaration -- the
// counterpart to substituteBinding for the handful of node kinds that
// carry a name directly rather than through an EIdentifier.
func (rw *rewriteState) renameDeclName(nl *js_ast.NamedLoc) {
	if nl == nil || rw.isShadowed(nl.Name) {
		return
	}
	if _, ok := rw.moduleLocalNames[nl.Name]; !ok {
		return
	}
	nl.Name = nl.Name + config.GlobalNameSeparator + rw.module.CanonicalName
}

func (rw *rewriteState) visitFn(fn *js_ast.Fn) {
	rw.fnDepth++
	rw.pushScope()
	for _, arg := range fn.Args {
		if id, ok := arg.Data.(*js_ast.EIdentifier); ok {
			rw.declare(id.Name)
		}
	}
	for _, name := range declaredNamesIn(fn.Body) {
		rw.declare(name)
	}
	for i := range fn.Body {
		rw.visitStmt(&fn.Body[i])
	}
	rw.popScope()
	rw.fnDepth--
}

// --- expression traversal -------------------------------------------

type exprCtx uint8

const (
	ctxNormal exprCtx = iota
	ctxDotTarget
	ctxAssignTarget
)

func (rw *rewriteState) visitExpr(e *js_ast.Expr) { rw.visitExprCtx(e, ctxNormal) }

func (rw *rewriteState) visitExprCtx(e *js_ast.Expr, ctx exprCtx) {
	switch d := e.Data.(type) {
	case *js_ast.EIdentifier:
		rw.visitIdentifier(e, d, ctx)

	case *js_ast.EThis:
		if rw.fnDepth == 0 {
			e.Data = &js_ast.EUndefined{}
		}

	case *js_ast.EDot:
		rw.visitExprCtx(&d.Target, ctxDotTarget)
		rw.visitDot(e, d, ctx == ctxAssignTarget)

	case *js_ast.ECall:
		wasDot := isDotExpr(d.Target)
		rw.visitExpr(&d.Target)
		for i := range d.Args {
			rw.visitExpr(&d.Args[i])
		}
		if wasDot && !isDotExpr(d.Target) {
			d.IsFreeCall = true
		}

	case *js_ast.EBinary:
		if d.Op == js_ast.BinOpAssign {
			rw.visitExprCtx(&d.Left, ctxAssignTarget)
			rw.visitExpr(&d.Right)
		} else {
			rw.visitExpr(&d.Left)
			rw.visitExpr(&d.Right)
		}

	case *js_ast.EObject:
		for i := range d.Properties {
			rw.visitExpr(&d.Properties[i].Value)
		}

	case *js_ast.EArray:
		for i := range d.Items {
			rw.visitExpr(&d.Items[i])
		}

	case *js_ast.EFunction:
		rw.visitFn(&d.Fn)

	case *js_ast.EArrow:
		rw.visitFn(&d.Fn)
	}
}

func isDotExpr(e js_ast.Expr) bool {
	_, ok := e.Data.(*js_ast.EDot)
	return ok
}

// visitIdentifier implements §4.5's name-reference handling, including
// the ordering the prose specifies: an assignment to a non-local
// binding is diagnosed before the namespace-lone-use check, since it's
// a narrower and more specific complaint ("you wrote to an import")
// than the general "you used a namespace object directly" one.
func (rw *rewriteState) visitIdentifier(e *js_ast.Expr, ident *js_ast.EIdentifier, ctx exprCtx) {
	binding, ok := rw.resolveModuleBinding(ident.Name)
	if !ok {
		return
	}

	isLocal := !binding.IsNamespace && binding.Module == rw.module

	if ctx == ctxAssignTarget && !isLocal {
		rw.log.AddError(rw.source, e.Loc, logger.MsgImportedBindingAssign,
			fmt.Sprintf("Assignment to imported binding %q", ident.Name))
		return
	}

	if binding.IsNamespace && ctx != ctxDotTarget {
		rw.log.AddError(rw.source, e.Loc, logger.MsgNamespaceNonGetProp,
			fmt.Sprintf("Module namespace %q used outside of a property access", ident.Name))
		return
	}

	rw.substituteBinding(e, binding, ident.Name)
}

// visitDot implements §4.5's property-access rule. It runs after the
// target has already been visited (post-order), so a namespace chain
// collapses one level per pass and a full chain collapses across the
// successive visits a single post-order walk naturally produces.
func (rw *rewriteState) visitDot(e *js_ast.Expr, d *js_ast.EDot, isAssignTarget bool) {
	targetIdent, ok := d.Target.Data.(*js_ast.EIdentifier)
	if !ok || !strings.HasPrefix(targetIdent.Name, config.ModuleNamePrefix) {
		return
	}

	if isAssignTarget {
		rw.log.AddError(rw.source, e.Loc, logger.MsgNamespaceAssignment,
			fmt.Sprintf("Assignment to property %q of module namespace %q", d.Name, targetIdent.Name))
		return
	}

	target := rw.reg.GetModule(targetIdent.Name)
	if target == nil {
		panic("rewriter: module-namespace identifier " + targetIdent.Name + " has no registered module")
	}

	ns, ok := target.Namespace()
	if !ok {
		rw.log.AddError(rw.source, d.NameLoc, logger.MsgResolveExportFailure,
			fmt.Sprintf("Failed to resolve exported name %q in module %q", d.Name, targetIdent.Name))
		return
	}

	binding, ok := ns.Get(d.Name)
	if !ok {
		rw.log.AddError(rw.source, d.NameLoc, logger.MsgResolveExportFailure,
			fmt.Sprintf("Failed to resolve exported name %q in module %q", d.Name, targetIdent.Name))
		return
	}

	rw.substituteBinding(e, binding, d.Name)
}

// collectModuleLocalNames gathers every name the module declares at
// its own top level, after the parser pass has already stripped
// export wrappers down to plain declarations.
func collectModuleLocalNames(stmts []js_ast.Stmt) map[string]struct{} {
	names := make(map[string]struct{})
	for _, name := range declaredNamesIn(stmts) {
		names[name] = struct{}{}
	}
	return names
}

// declaredNamesIn flattens every var/let/const/function/class name
// declared directly in stmts, descending into nested blocks (but not
// into nested functions) since `var` is function-scoped and a block
// lexically nested in a function body still contributes to the same
// function-level shadow set this pass needs (§4.5's simplified scope
// model -- see rewriteState.scopes).
func declaredNamesIn(stmts []js_ast.Stmt) []string {
	var names []string
	for _, stmt := range stmts {
		switch s := stmt.Data.(type) {
		case *js_ast.SFunction:
			if s.Name != nil {
				names = append(names, s.Name.Name)
			}
		case *js_ast.SClass:
			if s.Name != nil {
				names = append(names, s.Name.Name)
			}
		case *js_ast.SLocal:
			for _, d := range s.Decls {
				names = append(names, bindingNamesIn(d.Binding)...)
			}
		case *js_ast.SBlock:
			names = append(names, declaredNamesIn(s.Stmts)...)
		}
	}
	return names
}

func bindingNamesIn(e js_ast.Expr) []string {
	switch d := e.Data.(type) {
	case *js_ast.EIdentifier:
		return []string{d.Name}
	case *js_ast.EObject:
		var names []string
		for _, prop := range d.Properties {
			names = append(names, bindingNamesIn(prop.Value)...)
		}
		return names
	case *js_ast.EArray:
		var names []string
		for _, item := range d.Items {
			names = append(names, bindingNamesIn(item)...)
		}
		return names
	}
	return nil
}

// normalizeScriptRoot implements §4.5's script-root handling: ensure a
// file-overview doc comment exists, and normalize the `use strict`
// directive (warn if already present, add it otherwise).
func normalizeScriptRoot(log *logger.Log, tree *js_ast.AST) {
	if tree.HasUseStrictDirective {
		log.AddWarning(&tree.Source, logger.Loc{Start: -1}, logger.MsgUselessUseStrict,
			"'use strict' is unnecessary: ES modules are always strict")
	} else {
		tree.Stmts = append([]js_ast.Stmt{{Data: &js_ast.SDirective{Value: "use strict"}}}, tree.Stmts...)
		tree.HasUseStrictDirective = true
	}

	if !tree.HasFileOverview {
		tree.Comments = append([]js_ast.Comment{{Text: "@fileoverview\n"}}, tree.Comments...)
		tree.HasFileOverview = true
	}
}
