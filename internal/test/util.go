// Package test holds small helpers shared by every other package's
// tests: an assertion helper and fixture builders for constructing
// js_ast trees by hand, since this module has no real lexer/parser of
// its own to drive tests through. Grounded on esbuild's internal/test.
package test

import (
	"testing"

	"eslink/internal/ast"
	"eslink/internal/js_ast"
	"eslink/internal/logger"
)

func AssertEqual(t *testing.T, a interface{}, b interface{}) {
	if a != b {
		t.Fatalf("%v != %v", a, b)
	}
}

func SourceForTest(contents string) logger.Source {
	return logger.Source{
		Index:          0,
		AbsPath:        "<stdin>",
		PrettyPath:     "<stdin>",
		Contents:       contents,
		IdentifierName: "stdin",
	}
}

// Loc returns an arbitrary but stable Loc for fixtures that don't care
// about exact source positions.
func Loc() logger.Loc {
	return logger.Loc{Start: 0}
}

// Ident builds a bare identifier expression.
func Ident(name string) js_ast.Expr {
	return js_ast.Expr{Loc: Loc(), Data: &js_ast.EIdentifier{Name: name}}
}

// Named builds a NamedLoc for the common case where the exact location
// doesn't matter.
func Named(name string) *js_ast.NamedLoc {
	return &js_ast.NamedLoc{Loc: Loc(), Name: name}
}

// This builds a `this` expression.
func This() js_ast.Expr {
	return js_ast.Expr{Loc: Loc(), Data: &js_ast.EThis{}}
}

// Str builds a string-literal expression.
func Str(value string) js_ast.Expr {
	return js_ast.Expr{Loc: Loc(), Data: &js_ast.EString{Value: value}}
}

// Dot builds a static property access target.name.
func Dot(target js_ast.Expr, name string) js_ast.Expr {
	return js_ast.Expr{Loc: Loc(), Data: &js_ast.EDot{Target: target, Name: name, NameLoc: Loc()}}
}

// Call builds a call expression with plain positional arguments.
func Call(target js_ast.Expr, args ...js_ast.Expr) js_ast.Expr {
	return js_ast.Expr{Loc: Loc(), Data: &js_ast.ECall{Target: target, Args: args}}
}

// Assign builds target = value.
func Assign(target, value js_ast.Expr) js_ast.Expr {
	return js_ast.Expr{Loc: Loc(), Data: &js_ast.EBinary{Op: js_ast.BinOpAssign, Left: target, Right: value}}
}

// VarDecl builds `var name = value;` (or `var name;` if value is nil).
func VarDecl(kind js_ast.LocalKind, name string, value *js_ast.Expr) js_ast.Stmt {
	return js_ast.Stmt{Loc: Loc(), Data: &js_ast.SLocal{
		Kind:  kind,
		Decls: []js_ast.Decl{{Binding: Ident(name), Value: value}},
	}}
}

// ExprStmt wraps an expression as a statement.
func ExprStmt(e js_ast.Expr) js_ast.Stmt {
	return js_ast.Stmt{Loc: Loc(), Data: &js_ast.SExpr{Value: e}}
}

// FuncDecl builds `function name(args) { body }`.
func FuncDecl(name string, args []string, body []js_ast.Stmt) js_ast.Stmt {
	return js_ast.Stmt{Loc: Loc(), Data: &js_ast.SFunction{
		Name: Named(name),
		Fn:   Fn(args, body),
	}}
}

// Fn builds a Fn from plain argument names.
func Fn(args []string, body []js_ast.Stmt) js_ast.Fn {
	argExprs := make([]js_ast.Expr, len(args))
	for i, a := range args {
		argExprs[i] = Ident(a)
	}
	return js_ast.Fn{Args: argExprs, Body: body}
}

// ModuleRequests builds an AST.ModuleRequests slice from plain
// specifier strings, in order -- index i corresponds to
// ast.MakeIndex32(uint32(i)).
func ModuleRequests(specifiers ...string) []ast.ModuleRequestRecord {
	out := make([]ast.ModuleRequestRecord, len(specifiers))
	for i, s := range specifiers {
		out[i] = ast.ModuleRequestRecord{Specifier: s, Loc: Loc()}
	}
	return out
}

// RequestIndex returns the ast.Index32 for the i-th entry built by
// ModuleRequests.
func RequestIndex(i int) ast.Index32 {
	return ast.MakeIndex32(uint32(i))
}

// Import builds `import default, * as star, {items} from "specifier"`
// against a ModuleRequests slice built by this package -- pass nil for
// default/star when not present.
func Import(requestIndex ast.Index32, defaultName, starName *js_ast.NamedLoc, items ...js_ast.ImportItem) js_ast.Stmt {
	return js_ast.Stmt{Loc: Loc(), Data: &js_ast.SImport{
		ModuleRequestIndex: requestIndex,
		DefaultName:        defaultName,
		StarName:           starName,
		Items:               items,
	}}
}

// ImportItem builds one named import clause item.
func ImportItem(alias, localName string) js_ast.ImportItem {
	return js_ast.ImportItem{Alias: alias, AliasLoc: Loc(), Name: *Named(localName)}
}

// ExportDecl wraps a declaration statement in `export`.
func ExportDecl(decl js_ast.Stmt) js_ast.Stmt {
	return js_ast.Stmt{Loc: Loc(), Data: &js_ast.SExportDecl{Decl: decl}}
}

// ExportDefaultDecl builds `export default function/class ...`.
func ExportDefaultDecl(decl js_ast.Stmt) js_ast.Stmt {
	return js_ast.Stmt{Loc: Loc(), Data: &js_ast.SExportDefault{Decl: decl}}
}

// ExportDefaultValue builds `export default <expr>;`.
func ExportDefaultValue(value js_ast.Expr) js_ast.Stmt {
	return js_ast.Stmt{Loc: Loc(), Data: &js_ast.SExportDefault{Value: &value}}
}

// ExportClause builds a bare `export {items};`.
func ExportClause(items ...js_ast.ExportItem) js_ast.Stmt {
	return js_ast.Stmt{Loc: Loc(), Data: &js_ast.SExportClause{Items: items}}
}

// ExportClauseFrom builds `export {items} from "specifier";`.
func ExportClauseFrom(requestIndex ast.Index32, items ...js_ast.ExportItem) js_ast.Stmt {
	return js_ast.Stmt{Loc: Loc(), Data: &js_ast.SExportClause{
		Items:              items,
		HasModuleRequest:   true,
		ModuleRequestIndex: requestIndex,
	}}
}

// ExportItem builds one `name as alias` clause item (alias == name when
// there's no `as`).
func ExportItem(name, alias string) js_ast.ExportItem {
	return js_ast.ExportItem{Name: name, NameLoc: Loc(), Alias: alias}
}

// ExportStar builds `export * from "specifier";`.
func ExportStar(requestIndex ast.Index32) js_ast.Stmt {
	return js_ast.Stmt{Loc: Loc(), Data: &js_ast.SExportStar{ModuleRequestIndex: requestIndex}}
}
