// Package js_ast defines the syntax-tree node set the module graph
// resolver and rewriter operate on. It is deliberately not a general
// JavaScript AST: per the design's scope (§1), the lexer/parser that
// produces a full syntax tree is an external collaborator. This
// package only carries the node kinds that matter to module linking --
// import/export declarations, identifier and property-access
// references, `this`, calls, and the handful of declaration forms an
// `export` can wrap -- grounded on the shape of esbuild's
// internal/js_ast (Expr/Stmt as {Loc, Data} pairs, a Data marker
// interface per concrete node kind).
//
// Bindings are tracked by name rather than by a Ref/Symbol table:
// esbuild needs Refs because its renamer has to avoid collisions
// across an entire minified bundle, but this pass's renaming rule is a
// fixed, deterministic `local + "$$" + canonicalName` -- there's
// nothing a symbol table buys here that a scope-aware name lookup
// doesn't already give for free, and it mirrors how the Closure
// Compiler original (Es6ModuleRewrite.java) reasons about names too.
package js_ast

import (
	"eslink/internal/ast"
	"eslink/internal/logger"
)

// ExprData is the marker interface every concrete expression node
// implements, following esbuild's E-prefixed type convention.
type ExprData interface{ isExprData() }

type Expr struct {
	Loc  logger.Loc
	Data ExprData
}

type EIdentifier struct {
	Name string
	// OriginalName records pre-rewrite text once the rewriter
	// substitutes a global name, for source maps (§4.5).
	OriginalName string
}

type EThis struct{}

// EDot is a static property access: Target.Name (no computed index --
// the rewriter only ever needs to recognize and collapse
// `moduleNamespaceIdent.prop` chains, never `ns["prop"]`).
type EDot struct {
	Target  Expr
	Name    string
	NameLoc logger.Loc
}

type ECall struct {
	Target Expr
	Args   []Expr
	// IsFreeCall is set by the rewriter when Target was rewritten from a
	// property access into a bare global name, which removes the
	// implicit `this` receiver the call used to have (§4.5).
	IsFreeCall bool
}

type BinOp uint8

const (
	BinOpAssign BinOp = iota
	BinOpOther
)

// EBinary with Op == BinOpAssign models `target = value`; it's the
// only binary form the rewriter needs to recognize, to detect writes
// to an imported binding or a namespace property (§4.5).
type EBinary struct {
	Op    BinOp
	Left  Expr
	Right Expr
}

type ENumber struct{ Value float64 }
type EString struct{ Value string }
type EUndefined struct{}

// ObjectProperty models one entry of an object literal or destructuring
// pattern. Computed keys aren't supported: goog.require destructuring
// targets are always plain identifiers per §4.6.
type ObjectProperty struct {
	Key       string
	KeyLoc    logger.Loc
	Value     Expr // EIdentifier for a pattern; any Expr for a literal
	Shorthand bool
}

type EObject struct {
	Properties []ObjectProperty
}

type EArray struct {
	Items []Expr
}

type EFunction struct{ Fn Fn }
type EArrow struct{ Fn Fn }

func (*EIdentifier) isExprData() {}
func (*EThis) isExprData()       {}
func (*EDot) isExprData()        {}
func (*ECall) isExprData()       {}
func (*EBinary) isExprData()     {}
func (*ENumber) isExprData()     {}
func (*EString) isExprData()     {}
func (*EUndefined) isExprData()  {}
func (*EObject) isExprData()     {}
func (*EArray) isExprData()      {}
func (*EFunction) isExprData()   {}
func (*EArrow) isExprData()      {}

// StmtData is the marker interface every concrete statement node
// implements.
type StmtData interface{ isStmtData() }

type Stmt struct {
	Loc  logger.Loc
	Data StmtData
}

type LocalKind uint8

const (
	LocalVar LocalKind = iota
	LocalLet
	LocalConst
)

func (k LocalKind) String() string {
	switch k {
	case LocalLet:
		return "let"
	case LocalConst:
		return "const"
	default:
		return "var"
	}
}

// Decl is one declarator of a var/let/const statement. Binding is an
// EIdentifier for a plain declarator or an EObject pattern for
// destructuring (only goog.require destructuring needs this, §4.6).
type Decl struct {
	Binding Expr
	Value   *Expr
}

type SLocal struct {
	Kind  LocalKind
	Decls []Decl
}

// Fn is shared by function declarations/expressions and arrow
// functions. Args is restricted to plain identifiers: default values
// and rest/spread parameters don't interact with module linking.
type Fn struct {
	Args []Expr // EIdentifier
	Body []Stmt
}

// NamedLoc is a declared name together with the source location of its
// binding occurrence, used for SFunction/SClass names and import/export
// local bindings alike.
type NamedLoc struct {
	Loc  logger.Loc
	Name string
}

type SFunction struct {
	Name *NamedLoc
	Fn   Fn
}

// SClass carries only what the module-linking pass needs: the class's
// own top-level binding and its `extends` clause. There's no node type
// here for method bodies -- this AST only models the handful of
// top-level node kinds the linker touches (§1), and a class's methods
// never need their own rewrite rule beyond what visitFn already does
// for any other nested scope.
type SClass struct {
	Name    *NamedLoc
	Extends *Expr
}

type SExpr struct{ Value Expr }
type SReturn struct{ Value *Expr }
type SBlock struct{ Stmts []Stmt }
type SDirective struct{ Value string }

// --- module declarations, pre-rewrite shape -----------------------

// SImport is one `import` declaration (§3, §4.2). ModuleRequestIndex
// indexes AST.ModuleRequests.
type SImport struct {
	ModuleRequestIndex ast.Index32

	DefaultName *NamedLoc // import foo from "mod"
	StarName    *NamedLoc // import * as ns from "mod"
	Items       []ImportItem
}

type ImportItem struct {
	Alias    string // the name exported by the other module
	AliasLoc logger.Loc
	Name     NamedLoc // local binding introduced by this item
}

// SExportDecl wraps `export function f() {}` / `export class C {}` /
// `export var a, b, c;` (§4.2 case 3): the parser pass strips the
// wrapper, keeps Decl as an ordinary statement, and emits one
// local-export entry per declared name.
type SExportDecl struct {
	Decl Stmt // SFunction, SClass, or SLocal
}

// SExportDefault is `export default ...` in its pre-rewrite shape.
// Exactly one of Decl/Value is set: Decl for a named function/class
// default export, Value for everything else (including an anonymous
// function/class expression, which the parser pass lifts into a
// synthesized `var $jscompDefaultExport = ...;`).
type SExportDefault struct {
	Decl  Stmt // SFunction or SClass, with Name set
	Value *Expr
}

// SExportClause covers `export {x as y, z};` (no `from`) and, when
// HasModuleRequest is true, `export {x as y} from "mod";`.
type SExportClause struct {
	Items              []ExportItem
	HasModuleRequest   bool
	ModuleRequestIndex ast.Index32
}

type ExportItem struct {
	// Name is the local name for a plain `export {x}`, or the name
	// imported from the other module for `export {x} from "mod"`.
	Name    string
	NameLoc logger.Loc
	// Alias is the exported name (`y` in `export {x as y}`); equals Name
	// when there's no `as`.
	Alias string
}

type SExportStar struct {
	ModuleRequestIndex ast.Index32
}

func (*SLocal) isStmtData()         {}
func (*SFunction) isStmtData()      {}
func (*SClass) isStmtData()         {}
func (*SExpr) isStmtData()          {}
func (*SReturn) isStmtData()        {}
func (*SBlock) isStmtData()         {}
func (*SDirective) isStmtData()     {}
func (*SImport) isStmtData()        {}
func (*SExportDecl) isStmtData()    {}
func (*SExportClause) isStmtData()  {}
func (*SExportStar) isStmtData()    {}
func (*SExportDefault) isStmtData() {}

// Comment is a JSDoc-style comment attached to the statement that
// follows it in source order. Only the subset relevant to §4.5's type
// annotation rewriting is modeled: a flat list of type-name spans
// found inside the comment text.
type Comment struct {
	Loc   logger.Loc
	Text  string
	Types []TypeNameSpan
}

// TypeNameSpan is one `{TypeName}` reference found in a JSDoc comment,
// recorded as a byte range into Text so the rewriter can splice a
// replacement string in.
type TypeNameSpan struct {
	Start int
	End   int
	Name  string
}

// AST is the root the parser pass and rewriter both operate on: one
// per source file.
type AST struct {
	Source logger.Source

	Stmts    []Stmt
	Comments []Comment

	// HasUseStrictDirective records whether `"use strict";` already
	// appears as the first statement (§4.5, script root handling).
	HasUseStrictDirective bool

	// HasFileOverview records whether a file-level JSDoc @fileoverview
	// already exists, so the rewriter doesn't add a duplicate.
	HasFileOverview bool

	// IsLegacyModule marks a file already under an older module system
	// (goog.module, goog.provide); the parser pass returns empty output
	// for these and the rest of the pipeline leaves them untouched (§4.2).
	IsLegacyModule bool

	// ModuleRequests is every specifier string referenced by an import or
	// a from-export, in source order (§4.2). This is the spec's
	// "moduleRequest" concept, carried in esbuild's ast.ImportRecord
	// shape: a specifier plus resolution-state fields that no pass in
	// this repository fills in.
	ModuleRequests []ast.ModuleRequestRecord
}
