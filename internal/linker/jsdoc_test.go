package linker

import (
	"testing"

	"eslink/internal/js_ast"
	"eslink/internal/logger"
	"eslink/internal/test"
)

func setupTwoModuleRegistry(t *testing.T) (*Registry, *logger.Log) {
	t.Helper()
	log := logger.NewLog()
	reg := NewRegistry(log, &stubResolver{canonical: map[string]string{
		"./b": "module$b",
		"./c": "module$c",
	}})

	treeB := js_ast.AST{
		Source: test.SourceForTest("export function f() {}"),
		Stmts:  []js_ast.Stmt{test.ExportDecl(test.FuncDecl("f", nil, nil))},
	}
	registerFromSource(t, reg, "module$b", &treeB)

	treeC := js_ast.AST{
		Source: test.SourceForTest("export function Foo() {}"),
		Stmts:  []js_ast.Stmt{test.ExportDecl(test.FuncDecl("Foo", nil, nil))},
	}
	registerFromSource(t, reg, "module$c", &treeC)

	reg.InstantiateAll()
	return reg, log
}

func TestRewriteTypeNameDottedImportedNamespaceMember(t *testing.T) {
	reg, log := setupTwoModuleRegistry(t)

	treeA := js_ast.AST{
		Source: test.SourceForTest(`import * as nsB from "./b";`),
		Stmts:  []js_ast.Stmt{test.Import(test.RequestIndex(0), nil, test.Named("nsB"))},
	}
	treeA.ModuleRequests = test.ModuleRequests("./b")
	registerFromSource(t, reg, "module$a", &treeA)
	reg.InstantiateAll()

	m := reg.GetModule("module$a")
	state := &rewriteState{
		reg:              reg,
		log:              log,
		module:           m,
		source:           &treeA.Source,
		moduleLocalNames: collectModuleLocalNames(treeA.Stmts),
	}

	global, ok := state.rewriteTypeName("nsB.f")
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, global, "f$$module$b")
}

func TestRewriteTypeNameRelativeSpecifierSyntax(t *testing.T) {
	log := logger.NewLog()
	reg := NewRegistry(log, &stubResolver{canonical: map[string]string{
		"./a/b.c/qux": "module$qux",
	}})

	treeQux := js_ast.AST{
		Source: test.SourceForTest("export function quux() {}"),
		Stmts:  []js_ast.Stmt{test.ExportDecl(test.FuncDecl("quux", nil, nil))},
	}
	registerFromSource(t, reg, "module$qux", &treeQux)

	// module$a exports something so InstantiateAll keeps it registered
	// instead of demoting it to a plain script.
	treeA := js_ast.AST{
		Source: test.SourceForTest("export var x;"),
		Stmts:  []js_ast.Stmt{test.ExportDecl(test.VarDecl(js_ast.LocalVar, "x", nil))},
	}
	registerFromSource(t, reg, "module$a", &treeA)
	reg.InstantiateAll()

	m := reg.GetModule("module$a")
	state := &rewriteState{
		reg:              reg,
		log:              log,
		module:           m,
		source:           &treeA.Source,
		moduleLocalNames: collectModuleLocalNames(treeA.Stmts),
	}

	// The specifier runs up through "qux" -- the path segment right
	// after the last slash -- because the first period at or after
	// that slash falls between "qux" and "quux", not between "b" and
	// "c" earlier in the path.
	global, ok := state.rewriteTypeName("./a/b.c/qux.quux.Foo")
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, global, "quux$$module$qux.Foo")
}

func TestRewriteTypeNameLeavesBuiltinUntouched(t *testing.T) {
	reg, log := setupTwoModuleRegistry(t)

	// module$a exports something so InstantiateAll keeps it registered.
	treeA := js_ast.AST{
		Source: test.SourceForTest("export var x;"),
		Stmts:  []js_ast.Stmt{test.ExportDecl(test.VarDecl(js_ast.LocalVar, "x", nil))},
	}
	registerFromSource(t, reg, "module$a", &treeA)
	reg.InstantiateAll()

	m := reg.GetModule("module$a")
	state := &rewriteState{
		reg:              reg,
		log:              log,
		module:           m,
		source:           &treeA.Source,
		moduleLocalNames: collectModuleLocalNames(treeA.Stmts),
	}

	_, ok := state.rewriteTypeName("string")
	test.AssertEqual(t, ok, false)
}

func TestRewriteCommentsSplicesTypeNames(t *testing.T) {
	reg, log := setupTwoModuleRegistry(t)

	treeA := js_ast.AST{
		Source: test.SourceForTest(`import * as nsB from "./b";`),
		Stmts:  []js_ast.Stmt{test.Import(test.RequestIndex(0), nil, test.Named("nsB"))},
	}
	treeA.ModuleRequests = test.ModuleRequests("./b")
	registerFromSource(t, reg, "module$a", &treeA)
	reg.InstantiateAll()

	m := reg.GetModule("module$a")
	state := &rewriteState{
		reg:              reg,
		log:              log,
		module:           m,
		source:           &treeA.Source,
		moduleLocalNames: collectModuleLocalNames(treeA.Stmts),
	}

	text := "@param {nsB.f} x"
	treeA.Comments = []js_ast.Comment{{
		Text: text,
		Types: []js_ast.TypeNameSpan{
			{Start: 8, End: 13, Name: "nsB.f"},
		},
	}}

	state.rewriteComments(&treeA)
	test.AssertEqual(t, treeA.Comments[0].Text, "@param {f$$module$b} x")
}
