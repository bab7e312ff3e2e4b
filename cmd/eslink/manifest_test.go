package main

import (
	"testing"

	"eslink/internal/js_ast"
)

func TestBuildASTDecodesImportAndCall(t *testing.T) {
	m := &fileManifest{
		Address:        "/src/a.js",
		ModuleRequests: []string{"./b"},
		Statements: []stmtSpec{
			{
				Type:         "import",
				RequestIndex: 0,
				Items:        []itemSpec{{Name: "bar"}},
			},
			{
				Type: "exprStmt",
				Value: &exprSpec{
					Type:   "call",
					Target: &exprSpec{Type: "ident", Name: "bar"},
				},
			},
		},
	}

	tree := buildAST(m)

	if len(tree.ModuleRequests) != 1 || tree.ModuleRequests[0].Specifier != "./b" {
		t.Fatalf("unexpected module requests: %#v", tree.ModuleRequests)
	}
	if len(tree.Stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(tree.Stmts))
	}

	imp, ok := tree.Stmts[0].Data.(*js_ast.SImport)
	if !ok {
		t.Fatalf("expected SImport, got %T", tree.Stmts[0].Data)
	}
	if len(imp.Items) != 1 || imp.Items[0].Alias != "bar" || imp.Items[0].Name.Name != "bar" {
		t.Fatalf("unexpected import items: %#v", imp.Items)
	}

	exprStmt, ok := tree.Stmts[1].Data.(*js_ast.SExpr)
	if !ok {
		t.Fatalf("expected SExpr, got %T", tree.Stmts[1].Data)
	}
	call, ok := exprStmt.Value.Data.(*js_ast.ECall)
	if !ok {
		t.Fatalf("expected ECall, got %T", exprStmt.Value.Data)
	}
	ident, ok := call.Target.Data.(*js_ast.EIdentifier)
	if !ok || ident.Name != "bar" {
		t.Fatalf("unexpected call target: %#v", call.Target.Data)
	}
}

func TestBuildASTDecodesExportDeclAndFunc(t *testing.T) {
	m := &fileManifest{
		Address: "/src/b.js",
		Statements: []stmtSpec{
			{
				Type: "exportDecl",
				Decl: &stmtSpec{
					Type: "func",
					Name: "bar",
					Body: nil,
				},
			},
		},
	}

	tree := buildAST(m)

	exportDecl, ok := tree.Stmts[0].Data.(*js_ast.SExportDecl)
	if !ok {
		t.Fatalf("expected SExportDecl, got %T", tree.Stmts[0].Data)
	}
	fn, ok := exportDecl.Decl.Data.(*js_ast.SFunction)
	if !ok {
		t.Fatalf("expected SFunction, got %T", exportDecl.Decl.Data)
	}
	if fn.Name == nil || fn.Name.Name != "bar" {
		t.Fatalf("unexpected function name: %#v", fn.Name)
	}
}

func TestBuildASTDecodesDefaultExportValue(t *testing.T) {
	m := &fileManifest{
		Address: "/src/c.js",
		Statements: []stmtSpec{
			{
				Type:  "exportDefaultValue",
				Value: &exprSpec{Type: "number", Value: "42"},
			},
		},
	}

	tree := buildAST(m)

	exportDefault, ok := tree.Stmts[0].Data.(*js_ast.SExportDefault)
	if !ok {
		t.Fatalf("expected SExportDefault, got %T", tree.Stmts[0].Data)
	}
	if exportDefault.Value == nil {
		t.Fatalf("expected a default export value")
	}
	num, ok := exportDefault.Value.Data.(*js_ast.ENumber)
	if !ok || num.Value != 42 {
		t.Fatalf("unexpected default export value: %#v", exportDefault.Value.Data)
	}
}
