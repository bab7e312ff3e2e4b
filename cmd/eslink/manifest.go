package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"eslink/internal/ast"
	"eslink/internal/js_ast"
	"eslink/internal/logger"
)

// A manifest stands in for the external lexer/parser (§1): since that
// component is out of scope, eslink's CLI takes a small JSON
// description of each module's top-level statements instead of real
// source text, and builds a js_ast.AST tree from it directly. Grounded
// on internal/test's fixture builders -- this is the same tree shape,
// just decoded from JSON instead of constructed by Go call sites.
type fileManifest struct {
	Address         string       `json:"address"`
	ModuleRequests  []string     `json:"moduleRequests"`
	Statements      []stmtSpec   `json:"statements"`
}

type stmtSpec struct {
	Type string `json:"type"`

	// import
	RequestIndex int          `json:"requestIndex"`
	Default      string       `json:"default"`
	Star         string       `json:"star"`
	Items        []itemSpec   `json:"items"`

	// var (Kind, Name) / func (Name, Args)
	Kind string   `json:"kind"`
	Name string   `json:"name"`
	Args []string `json:"args"`

	// exportDecl / exportDefaultDecl wrap another statement
	Decl *stmtSpec `json:"decl"`

	// exportDefaultValue / var / exprStmt carry an expression
	Value *exprSpec `json:"value"`

	Body []stmtSpec `json:"body"`
}

type itemSpec struct {
	Name  string `json:"name"`
	Alias string `json:"alias"`
}

type exprSpec struct {
	Type string `json:"type"`

	Name string `json:"name"` // ident

	Target *exprSpec `json:"target"` // dot, call, assign
	Prop   string    `json:"prop"`   // dot

	Args []exprSpec `json:"args"` // call

	Right *exprSpec `json:"right"` // assign

	Value string `json:"value"` // string/number literal
}

func loadManifest(path string) (*fileManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	var m fileManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding manifest %s: %w", path, err)
	}
	return &m, nil
}

// buildAST turns a decoded manifest into a js_ast.AST, the same tree
// shape internal/test's builders produce by hand for package tests.
func buildAST(m *fileManifest) *js_ast.AST {
	requests := make([]ast.ModuleRequestRecord, len(m.ModuleRequests))
	for i, specifier := range m.ModuleRequests {
		requests[i] = ast.ModuleRequestRecord{Specifier: specifier, Loc: zeroLoc()}
	}

	stmts := make([]js_ast.Stmt, 0, len(m.Statements))
	for _, s := range m.Statements {
		stmts = append(stmts, buildStmt(s))
	}

	return &js_ast.AST{
		Source: logger.Source{
			AbsPath:        m.Address,
			PrettyPath:     m.Address,
			IdentifierName: m.Address,
		},
		Stmts:          stmts,
		ModuleRequests: requests,
	}
}

func zeroLoc() logger.Loc { return logger.Loc{Start: 0} }

func namedLoc(name string) *js_ast.NamedLoc {
	if name == "" {
		return nil
	}
	return &js_ast.NamedLoc{Loc: zeroLoc(), Name: name}
}

func buildStmt(s stmtSpec) js_ast.Stmt {
	loc := zeroLoc()
	switch s.Type {
	case "import":
		items := make([]js_ast.ImportItem, len(s.Items))
		for i, it := range s.Items {
			alias := it.Alias
			if alias == "" {
				alias = it.Name
			}
			items[i] = js_ast.ImportItem{Alias: alias, AliasLoc: loc, Name: *namedLoc(it.Name)}
		}
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SImport{
			ModuleRequestIndex: ast.MakeIndex32(uint32(s.RequestIndex)),
			DefaultName:        namedLoc(s.Default),
			StarName:           namedLoc(s.Star),
			Items:              items,
		}}

	case "exportDecl":
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportDecl{Decl: buildStmt(*s.Decl)}}

	case "exportDefaultDecl":
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportDefault{Decl: buildStmt(*s.Decl)}}

	case "exportDefaultValue":
		v := buildExpr(*s.Value)
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportDefault{Value: &v}}

	case "exportClause":
		items := make([]js_ast.ExportItem, len(s.Items))
		for i, it := range s.Items {
			alias := it.Alias
			if alias == "" {
				alias = it.Name
			}
			items[i] = js_ast.ExportItem{Name: it.Name, NameLoc: loc, Alias: alias}
		}
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportClause{Items: items}}

	case "exportClauseFrom":
		items := make([]js_ast.ExportItem, len(s.Items))
		for i, it := range s.Items {
			alias := it.Alias
			if alias == "" {
				alias = it.Name
			}
			items[i] = js_ast.ExportItem{Name: it.Name, NameLoc: loc, Alias: alias}
		}
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportClause{
			Items:              items,
			HasModuleRequest:   true,
			ModuleRequestIndex: ast.MakeIndex32(uint32(s.RequestIndex)),
		}}

	case "exportStar":
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportStar{
			ModuleRequestIndex: ast.MakeIndex32(uint32(s.RequestIndex)),
		}}

	case "var":
		var kind js_ast.LocalKind
		switch s.Kind {
		case "let":
			kind = js_ast.LocalLet
		case "const":
			kind = js_ast.LocalConst
		default:
			kind = js_ast.LocalVar
		}
		binding := js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Name: s.Name}}
		var value *js_ast.Expr
		if s.Value != nil {
			v := buildExpr(*s.Value)
			value = &v
		}
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{
			Kind:  kind,
			Decls: []js_ast.Decl{{Binding: binding, Value: value}},
		}}

	case "func":
		body := make([]js_ast.Stmt, len(s.Body))
		for i, b := range s.Body {
			body[i] = buildStmt(b)
		}
		args := make([]js_ast.Expr, len(s.Args))
		for i, a := range s.Args {
			args[i] = js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Name: a}}
		}
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SFunction{
			Name: namedLoc(s.Name),
			Fn:   js_ast.Fn{Args: args, Body: body},
		}}

	case "exprStmt":
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExpr{Value: buildExpr(*s.Value)}}

	default:
		panic(fmt.Sprintf("manifest: unknown statement type %q", s.Type))
	}
}

func buildExpr(e exprSpec) js_ast.Expr {
	loc := zeroLoc()
	switch e.Type {
	case "ident":
		return js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Name: e.Name}}
	case "string":
		return js_ast.Expr{Loc: loc, Data: &js_ast.EString{Value: e.Value}}
	case "number":
		n, err := strconv.ParseFloat(e.Value, 64)
		if err != nil {
			panic(fmt.Sprintf("manifest: invalid number literal %q", e.Value))
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENumber{Value: n}}
	case "dot":
		return js_ast.Expr{Loc: loc, Data: &js_ast.EDot{
			Target:  buildExpr(*e.Target),
			Name:    e.Prop,
			NameLoc: loc,
		}}
	case "call":
		args := make([]js_ast.Expr, len(e.Args))
		for i, a := range e.Args {
			args[i] = buildExpr(a)
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.ECall{Target: buildExpr(*e.Target), Args: args}}
	case "assign":
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{
			Op:    js_ast.BinOpAssign,
			Left:  buildExpr(*e.Target),
			Right: buildExpr(*e.Right),
		}}
	default:
		panic(fmt.Sprintf("manifest: unknown expression type %q", e.Type))
	}
}
