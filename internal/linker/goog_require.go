package linker

import (
	"strings"

	"eslink/internal/js_ast"
	"eslink/internal/logger"
)

// applyGoogRequireTransform implements §4.6: a shallow (top-level only)
// pre-rename pass that hoists `goog.require(...)` calls out of their
// declaration and rewrites the declaration's initializer into a
// qualified-name reference, so the main rewriter never has to know
// `goog.require` existed. Grounded on the same localized-transform
// description the spec calls out as a small adjunct to the core
// algorithm, not part of it.
func applyGoogRequireTransform(log *logger.Log, tree *js_ast.AST) {
	out := make([]js_ast.Stmt, 0, len(tree.Stmts))

	for _, stmt := range tree.Stmts {
		local, ok := stmt.Data.(*js_ast.SLocal)
		if !ok || len(local.Decls) != 1 || local.Decls[0].Value == nil {
			out = append(out, stmt)
			continue
		}

		dotted, isRequire := googRequireNamespace(*local.Decls[0].Value)
		if !isRequire {
			out = append(out, stmt)
			continue
		}

		if local.Kind != js_ast.LocalConst {
			log.AddError(&tree.Source, stmt.Loc, logger.MsgRequireMustBeConst,
				"The left side of a goog.require() must use 'const'")
			out = append(out, stmt)
			continue
		}

		canonicalizeShorthandPattern(&local.Decls[0].Binding)

		hoisted := js_ast.Stmt{Loc: stmt.Loc, Data: &js_ast.SExpr{Value: *local.Decls[0].Value}}
		qualified := buildQualifiedName(stmt.Loc, dotted)
		local.Decls[0].Value = &qualified

		out = append(out, hoisted, stmt)
	}

	tree.Stmts = out
}

// googRequireNamespace recognizes `goog.require('a.b.c')` and returns
// the dotted namespace string.
func googRequireNamespace(e js_ast.Expr) (string, bool) {
	call, ok := e.Data.(*js_ast.ECall)
	if !ok || len(call.Args) != 1 {
		return "", false
	}
	dot, ok := call.Target.Data.(*js_ast.EDot)
	if !ok || dot.Name != "require" {
		return "", false
	}
	ident, ok := dot.Target.Data.(*js_ast.EIdentifier)
	if !ok || ident.Name != "goog" {
		return "", false
	}
	str, ok := call.Args[0].Data.(*js_ast.EString)
	if !ok {
		return "", false
	}
	return str.Value, true
}

// buildQualifiedName turns "foo.bar.baz" into the nested EDot chain
// `foo.bar.baz`, the tree shape the rewriter's normal identifier and
// property-access rules already know how to leave alone (none of
// these segments are module-local or imported names, so they pass
// through visitExpr unchanged).
func buildQualifiedName(loc logger.Loc, dotted string) js_ast.Expr {
	parts := strings.Split(dotted, ".")
	expr := js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Name: parts[0]}}
	for _, part := range parts[1:] {
		expr = js_ast.Expr{Loc: loc, Data: &js_ast.EDot{Target: expr, Name: part, NameLoc: loc}}
	}
	return expr
}

// canonicalizeShorthandPattern turns `{x}` into `{x: x}` per §4.6 --
// only the top-level keys of an object pattern are touched; nested
// patterns pass through unchanged (DESIGN NOTES open question (b)).
func canonicalizeShorthandPattern(e *js_ast.Expr) {
	obj, ok := e.Data.(*js_ast.EObject)
	if !ok {
		return
	}
	for i := range obj.Properties {
		obj.Properties[i].Shorthand = false
	}
}
