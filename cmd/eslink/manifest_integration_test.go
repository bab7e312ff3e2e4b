package main

import (
	"testing"

	"eslink/internal/fs"
	"eslink/internal/js_ast"
	"eslink/pkg/api"
)

// TestManifestDrivenLinkRewritesCrossModuleImport exercises the path a
// real `eslink link` invocation takes: two JSON manifests decoded into
// js_ast.AST trees, then handed to pkg/api.Link exactly as readModules
// assembles them for the link/graph/check subcommands.
func TestManifestDrivenLinkRewritesCrossModuleImport(t *testing.T) {
	manifestA := &fileManifest{
		Address:        "/src/a.js",
		ModuleRequests: []string{"./b"},
		Statements: []stmtSpec{
			{Type: "import", RequestIndex: 0, Items: []itemSpec{{Name: "bar"}}},
			{
				Type: "exprStmt",
				Value: &exprSpec{
					Type:   "call",
					Target: &exprSpec{Type: "ident", Name: "bar"},
				},
			},
		},
	}
	manifestB := &fileManifest{
		Address: "/src/b.js",
		Statements: []stmtSpec{
			{Type: "exportDecl", Decl: &stmtSpec{Type: "func", Name: "bar"}},
		},
	}

	mockFS := fs.MockFS(map[string]string{
		"/src/a.js": `import {bar} from "./b"; bar();`,
		"/src/b.js": `export function bar() {}`,
	})

	result := api.Link(api.Options{
		FS: mockFS,
		Modules: []api.Module{
			{Address: manifestA.Address, AST: buildAST(manifestA)},
			{Address: manifestB.Address, AST: buildAST(manifestB)},
		},
	})

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}

	rewrittenA, ok := result.Rewritten["module$src$a"]
	if !ok {
		t.Fatalf("expected module$src$a in %v", result.Rewritten)
	}

	var call *js_ast.ECall
	for _, s := range rewrittenA.Stmts {
		if e, ok := s.Data.(*js_ast.SExpr); ok {
			call = e.Value.Data.(*js_ast.ECall)
		}
	}
	if call == nil {
		t.Fatalf("expected a call statement in %#v", rewrittenA.Stmts)
	}
	ident, ok := call.Target.Data.(*js_ast.EIdentifier)
	if !ok || ident.Name != "bar$$module$src$b" {
		t.Fatalf("unexpected call target: %#v", call.Target.Data)
	}

	if fatal := (checkMsgIDs["LOAD_ERROR"]); !fatal {
		t.Fatalf("expected LOAD_ERROR to be a fatal check diagnostic")
	}
}
