package graph

import (
	"testing"

	"eslink/internal/logger"
	"eslink/internal/test"
)

// fakeResolver resolves specifiers by exact string match against a
// fixed set of records, mirroring what the registry would do without
// pulling in internal/linker (which itself depends on this package).
type fakeResolver struct {
	byRequest map[string]*ModuleRecord
}

func (r *fakeResolver) ResolveImportedModule(from *ModuleRecord, specifier string) *ModuleRecord {
	return r.byRequest[specifier]
}

func newRecord(name string, resolver *fakeResolver, requested []string, imports []ImportEntry, local, indirect, star []ExportEntry) *ModuleRecord {
	src := test.SourceForTest("")
	src.PrettyPath = name
	return NewModuleRecord(name, &src, resolver, requested, imports, local, indirect, star)
}

func TestResolveExportLocal(t *testing.T) {
	r := &fakeResolver{byRequest: map[string]*ModuleRecord{}}
	m := newRecord("a", r, nil, nil, []ExportEntry{
		{ExportName: "foo", HasExportName: true, OrigName: "foo", HasOrigName: true},
	}, nil, nil)

	b, ok := m.ResolveExport("foo")
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, b.Module, m)
	test.AssertEqual(t, b.Name, "foo")
}

func TestResolveExportIndirect(t *testing.T) {
	r := &fakeResolver{byRequest: map[string]*ModuleRecord{}}
	b1 := newRecord("b", r, nil, nil, []ExportEntry{
		{ExportName: "foo", HasExportName: true, OrigName: "foo", HasOrigName: true},
	}, nil, nil)
	r.byRequest["./b"] = b1

	a := newRecord("a", r, []string{"./b"}, nil, nil, []ExportEntry{
		{ExportName: "bar", HasExportName: true, ModuleRequest: "./b", HasModuleRequest: true, OrigName: "foo", HasOrigName: true},
	}, nil)

	binding, ok := a.ResolveExport("bar")
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, binding.Module, b1)
	test.AssertEqual(t, binding.Name, "foo")
}

func TestResolveExportStarExcludesDefault(t *testing.T) {
	r := &fakeResolver{byRequest: map[string]*ModuleRecord{}}
	b := newRecord("b", r, nil, nil, []ExportEntry{
		{ExportName: "default", HasExportName: true, OrigName: "default", HasOrigName: true},
		{ExportName: "named", HasExportName: true, OrigName: "named", HasOrigName: true},
	}, nil, nil)
	r.byRequest["./b"] = b

	a := newRecord("a", r, []string{"./b"}, nil, nil, nil, []ExportEntry{
		{ModuleRequest: "./b", HasModuleRequest: true},
	})

	_, ok := a.ResolveExport("default")
	test.AssertEqual(t, ok, false)

	binding, ok := a.ResolveExport("named")
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, binding.Module, b)

	names, ok := a.GetExportedNames()
	test.AssertEqual(t, ok, true)
	if _, has := names["default"]; has {
		t.Fatalf("star export leaked default into %v", names)
	}
	if _, has := names["named"]; !has {
		t.Fatalf("expected named in %v", names)
	}
}

func TestResolveExportAmbiguousStar(t *testing.T) {
	r := &fakeResolver{byRequest: map[string]*ModuleRecord{}}
	b1 := newRecord("b1", r, nil, nil, []ExportEntry{
		{ExportName: "x", HasExportName: true, OrigName: "x", HasOrigName: true},
	}, nil, nil)
	b2 := newRecord("b2", r, nil, nil, []ExportEntry{
		{ExportName: "x", HasExportName: true, OrigName: "x", HasOrigName: true},
	}, nil, nil)
	r.byRequest["./b1"] = b1
	r.byRequest["./b2"] = b2

	a := newRecord("a", r, []string{"./b1", "./b2"}, nil, nil, nil, []ExportEntry{
		{ModuleRequest: "./b1", HasModuleRequest: true},
		{ModuleRequest: "./b2", HasModuleRequest: true},
	})

	_, ok := a.ResolveExport("x")
	test.AssertEqual(t, ok, false)
}

func TestResolveExportCycleSafe(t *testing.T) {
	r := &fakeResolver{byRequest: map[string]*ModuleRecord{}}
	a := newRecord("a", r, []string{"./b"}, nil, nil, []ExportEntry{
		{ExportName: "x", HasExportName: true, ModuleRequest: "./b", HasModuleRequest: true, OrigName: "x", HasOrigName: true},
	}, nil)
	b := newRecord("b", r, []string{"./a"}, nil, nil, []ExportEntry{
		{ExportName: "x", HasExportName: true, ModuleRequest: "./a", HasModuleRequest: true, OrigName: "x", HasOrigName: true},
	}, nil)
	r.byRequest["./a"] = a
	r.byRequest["./b"] = b

	_, ok := a.ResolveExport("x")
	test.AssertEqual(t, ok, false)
}

func TestNamespaceGetRejectsNonExported(t *testing.T) {
	r := &fakeResolver{byRequest: map[string]*ModuleRecord{}}
	m := newRecord("a", r, nil, nil, []ExportEntry{
		{ExportName: "foo", HasExportName: true, OrigName: "foo", HasOrigName: true},
	}, nil, nil)

	ns, ok := m.Namespace()
	test.AssertEqual(t, ok, true)

	_, ok = ns.Get("bar")
	test.AssertEqual(t, ok, false)

	b, ok := ns.Get("foo")
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, b.Name, "foo")
}

func TestImportEntryLookup(t *testing.T) {
	r := &fakeResolver{byRequest: map[string]*ModuleRecord{}}
	m := newRecord("a", r, []string{"./b"}, []ImportEntry{
		{ModuleRequest: "./b", ImportName: "foo", HasImportName: true, LocalName: "foo", HasLocalName: true, Loc: logger.Loc{Start: 0}},
	}, nil, nil, nil)

	ie, ok := m.ImportEntry("foo")
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, ie.ImportName, "foo")

	_, ok = m.ImportEntry("missing")
	test.AssertEqual(t, ok, false)
}
