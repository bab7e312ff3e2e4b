package parser

import (
	"testing"

	"eslink/internal/graph"
	"eslink/internal/js_ast"
	"eslink/internal/logger"
	"eslink/internal/test"
)

func TestParseImportExtractsEntries(t *testing.T) {
	log := logger.NewLog()
	tree := js_ast.AST{
		Source: test.SourceForTest(`import def, * as ns, {a as aliasA, b} from "./mod";`),
		Stmts: []js_ast.Stmt{
			test.Import(test.RequestIndex(0), test.Named("def"), test.Named("ns"),
				test.ImportItem("a", "aliasA"), test.ImportItem("b", "b")),
		},
	}
	tree.ModuleRequests = test.ModuleRequests("./mod")

	result := Parse(log, &tree)

	test.AssertEqual(t, log.HasErrors(), false)
	test.AssertEqual(t, len(tree.Stmts), 0)
	test.AssertEqual(t, len(result.Imports), 4)
	test.AssertEqual(t, result.ModuleRequests[0], "./mod")

	byLocal := map[string]graph.ImportEntry{}
	for _, ie := range result.Imports {
		byLocal[ie.LocalName] = ie
	}
	test.AssertEqual(t, byLocal["def"].ImportName, "default")
	test.AssertEqual(t, byLocal["ns"].HasImportName, false)
	test.AssertEqual(t, byLocal["aliasA"].ImportName, "a")
	test.AssertEqual(t, byLocal["b"].ImportName, "b")
}

func TestParseImportDuplicateLocalNameIsError(t *testing.T) {
	log := logger.NewLog()
	tree := js_ast.AST{
		Source: test.SourceForTest(`import {a, a2 as a} from "./mod";`),
		Stmts: []js_ast.Stmt{
			test.Import(test.RequestIndex(0), nil, nil, test.ImportItem("a", "a"), test.ImportItem("a2", "a")),
		},
	}
	tree.ModuleRequests = test.ModuleRequests("./mod")

	Parse(log, &tree)
	test.AssertEqual(t, log.HasErrors(), true)
}

func TestParseExportDeclStripsWrapper(t *testing.T) {
	log := logger.NewLog()
	tree := js_ast.AST{
		Source: test.SourceForTest(`export function f() {}`),
		Stmts:  []js_ast.Stmt{test.ExportDecl(test.FuncDecl("f", nil, nil))},
	}

	result := Parse(log, &tree)

	test.AssertEqual(t, len(tree.Stmts), 1)
	if _, ok := tree.Stmts[0].Data.(*js_ast.SFunction); !ok {
		t.Fatalf("expected bare SFunction, got %#v", tree.Stmts[0].Data)
	}
	test.AssertEqual(t, len(result.Exports), 1)
	test.AssertEqual(t, result.Exports[0].ExportName, "f")
	test.AssertEqual(t, result.Exports[0].OrigName, "f")
}

func TestParseExportDefaultNamed(t *testing.T) {
	log := logger.NewLog()
	tree := js_ast.AST{
		Source: test.SourceForTest(`export default function foo() {}`),
		Stmts:  []js_ast.Stmt{test.ExportDefaultDecl(test.FuncDecl("foo", nil, nil))},
	}

	result := Parse(log, &tree)

	test.AssertEqual(t, len(tree.Stmts), 1)
	if _, ok := tree.Stmts[0].Data.(*js_ast.SFunction); !ok {
		t.Fatalf("expected bare SFunction, got %#v", tree.Stmts[0].Data)
	}
	test.AssertEqual(t, result.Exports[0].ExportName, "default")
	test.AssertEqual(t, result.Exports[0].OrigName, "foo")
}

func TestParseExportDefaultAnonymousSynthesizesLocal(t *testing.T) {
	log := logger.NewLog()
	tree := js_ast.AST{
		Source: test.SourceForTest(`export default 42;`),
		Stmts:  []js_ast.Stmt{test.ExportDefaultValue(js_ast.Expr{Data: &js_ast.ENumber{Value: 42}})},
	}

	result := Parse(log, &tree)

	local, ok := tree.Stmts[0].Data.(*js_ast.SLocal)
	if !ok {
		t.Fatalf("expected synthesized SLocal, got %#v", tree.Stmts[0].Data)
	}
	ident := local.Decls[0].Binding.Data.(*js_ast.EIdentifier)
	test.AssertEqual(t, ident.Name, "$jscompDefaultExport")
	test.AssertEqual(t, result.Exports[0].ExportName, "default")
	test.AssertEqual(t, result.Exports[0].OrigName, "$jscompDefaultExport")
}

func TestParseExportClauseNoFrom(t *testing.T) {
	log := logger.NewLog()
	tree := js_ast.AST{
		Source: test.SourceForTest(`export {x as y};`),
		Stmts:  []js_ast.Stmt{test.ExportClause(test.ExportItem("x", "y"))},
	}

	result := Parse(log, &tree)

	test.AssertEqual(t, len(tree.Stmts), 0)
	test.AssertEqual(t, result.Exports[0].ExportName, "y")
	test.AssertEqual(t, result.Exports[0].OrigName, "x")
	test.AssertEqual(t, result.Exports[0].HasModuleRequest, false)
}

func TestParseExportClauseFrom(t *testing.T) {
	log := logger.NewLog()
	tree := js_ast.AST{
		Source: test.SourceForTest(`export {x as y} from "./mod";`),
		Stmts:  []js_ast.Stmt{test.ExportClauseFrom(test.RequestIndex(0), test.ExportItem("x", "y"))},
	}
	tree.ModuleRequests = test.ModuleRequests("./mod")

	result := Parse(log, &tree)

	test.AssertEqual(t, len(tree.Stmts), 0)
	test.AssertEqual(t, result.Exports[0].ModuleRequest, "./mod")
	test.AssertEqual(t, result.ModuleRequests[0], "./mod")
}

func TestParseExportStar(t *testing.T) {
	log := logger.NewLog()
	tree := js_ast.AST{
		Source: test.SourceForTest(`export * from "./mod";`),
		Stmts:  []js_ast.Stmt{test.ExportStar(test.RequestIndex(0))},
	}
	tree.ModuleRequests = test.ModuleRequests("./mod")

	result := Parse(log, &tree)

	test.AssertEqual(t, len(tree.Stmts), 0)
	test.AssertEqual(t, result.Exports[0].Kind(), graph.ExportStar)
	test.AssertEqual(t, result.Exports[0].ModuleRequest, "./mod")
}

func TestParseLegacyModuleIsNoop(t *testing.T) {
	log := logger.NewLog()
	tree := js_ast.AST{
		Source:         test.SourceForTest(`goog.module('a.b.c');`),
		IsLegacyModule: true,
		Stmts:          []js_ast.Stmt{test.ExprStmt(test.Call(test.Dot(test.Ident("goog"), "module"), test.Str("a.b.c")))},
	}

	result := Parse(log, &tree)

	test.AssertEqual(t, result.IsModule, false)
	test.AssertEqual(t, len(result.Imports), 0)
	test.AssertEqual(t, len(result.Exports), 0)
	test.AssertEqual(t, len(tree.Stmts), 1)
}
