// Package graph holds the data model of the module graph: import and
// export entries, the module record built from them, and the
// ResolveExport/GetExportedNames algorithms that walk the graph.
// Grounded on esbuild's internal/graph (InputFile/JSRepr hold the
// per-file state the linker consults) and literally on
// Es6Module.java's ImportEntry/ExportEntry/ModuleNamePair records from
// the Closure Compiler original this spec distills.
package graph

import "eslink/internal/logger"

// ImportEntry is one introduced local name from an import declaration
// (§3). ImportName == "" with HasImportName == false means a star
// import: the whole namespace. LocalName == "" with HasLocalName ==
// false means a side-effect-only import that introduces no binding.
type ImportEntry struct {
	ModuleRequest string
	ImportName    string
	HasImportName bool
	LocalName     string
	HasLocalName  bool
	Loc           logger.Loc
}

// ExportEntryKind distinguishes the three disjoint shapes §3
// describes. It exists only for documentation/assertions -- the
// resolution algorithm below branches on the same fields a Java port
// would (ModuleRequest presence, OrigName presence).
type ExportEntryKind uint8

const (
	ExportLocal ExportEntryKind = iota
	ExportIndirectNamed
	ExportIndirectNamespace
	ExportStar
)

// ExportEntry is one exported name (§3). Local: ModuleRequest == "",
// OrigName is the name of the local declaration being exported (`x` in
// `export {x as y}`, which may differ from ExportName).
// Indirect named: ModuleRequest set, OrigName set (the name in the
// other module). Indirect namespace: ModuleRequest set, OrigName ==
// "" with HasOrigName == false, ExportName set. Star: ModuleRequest
// set, ExportName == "" with HasExportName == false.
type ExportEntry struct {
	ExportName    string
	HasExportName bool

	ModuleRequest    string
	HasModuleRequest bool

	OrigName    string
	HasOrigName bool

	ExportNameLoc logger.Loc
}

func (e ExportEntry) Kind() ExportEntryKind {
	if !e.HasModuleRequest {
		return ExportLocal
	}
	if !e.HasExportName {
		return ExportStar
	}
	if !e.HasOrigName {
		return ExportIndirectNamespace
	}
	return ExportIndirectNamed
}

// ModuleResolver is the seam between a module record and the registry
// that owns the whole graph, so ResolveExport/GetExportedNames can
// walk into other modules without this package depending on the
// registry's package (which in turn depends on this one).
type ModuleResolver interface {
	ResolveImportedModule(from *ModuleRecord, specifier string) *ModuleRecord
}

// ModuleRecord is one source file's module state (§3). It is built
// once by the parser pass's output and is immutable after
// construction except for the lazily-filled resolvedExportCache and
// namespace, matching the "frozen after construction, caches fill as
// the resolver runs" lifecycle from §3.
type ModuleRecord struct {
	CanonicalName string
	Source        *logger.Source

	RequestedModules []string

	importsByLocal map[string]ImportEntry

	LocalExports    []ExportEntry
	IndirectExports []ExportEntry
	StarExports     []ExportEntry

	Resolver ModuleResolver

	namespace            *Namespace
	resolvedExportCache  map[string]resolvedEntry
}

type resolvedEntry struct {
	binding Binding
	ok      bool // true when resolution found a binding; a cached entry with ok == false records a failed lookup
}

func NewModuleRecord(canonicalName string, source *logger.Source, resolver ModuleResolver,
	requestedModules []string, imports []ImportEntry,
	local, indirect, star []ExportEntry) *ModuleRecord {

	byLocal := make(map[string]ImportEntry, len(imports))
	for _, ie := range imports {
		if ie.HasLocalName {
			byLocal[ie.LocalName] = ie
		}
	}

	return &ModuleRecord{
		CanonicalName:       canonicalName,
		Source:              source,
		RequestedModules:    requestedModules,
		importsByLocal:      byLocal,
		LocalExports:        local,
		IndirectExports:     indirect,
		StarExports:         star,
		Resolver:            resolver,
		resolvedExportCache: make(map[string]resolvedEntry),
	}
}

func (m *ModuleRecord) HasExports() bool {
	return len(m.LocalExports) != 0 || len(m.IndirectExports) != 0 || len(m.StarExports) != 0
}

func (m *ModuleRecord) ImportEntry(localName string) (ImportEntry, bool) {
	ie, ok := m.importsByLocal[localName]
	return ie, ok
}

func (m *ModuleRecord) ImportEntries() map[string]ImportEntry {
	return m.importsByLocal
}

// Binding is a resolved reference (§3): (module, name). Name == "" with
// IsNamespace == true denotes the module's namespace itself rather
// than a single export.
type Binding struct {
	Module      *ModuleRecord
	Name        string
	IsNamespace bool
}

// ResolutionKind is the tagged variant DESIGN NOTES §9 recommends over
// a sentinel value: `Resolution{Found(Binding), None, Ambiguous}`.
type ResolutionKind uint8

const (
	ResolutionNone ResolutionKind = iota
	ResolutionFound
	ResolutionAmbiguous
)

type Resolution struct {
	Kind    ResolutionKind
	Binding Binding
}

func foundBinding(b Binding) Resolution { return Resolution{Kind: ResolutionFound, Binding: b} }

var noneResolution = Resolution{Kind: ResolutionNone}
var ambiguousResolution = Resolution{Kind: ResolutionAmbiguous}

// resolveSetKey identifies entries in resolveSet, one of the two
// visited-sets ResolveExport threads through recursive calls (§4.3.2
// steps 1-2 and 6-7): resolveSet tracks (module, exportName) pairs to
// break import cycles, while exportStarSet, keyed by *ModuleRecord
// directly, tracks modules already folded across for a single call so
// `export * from` cycles terminate too.
type resolveSetKey struct {
	module *ModuleRecord
	name   string
}

// GetExportedNames implements §4.3.1: the set of every name this
// module exports, excluding "default" contributions from `export *`.
// Returns (names, ok); ok is false if a star-exported module failed to
// resolve, signalling a load error up to the caller exactly as the
// Java original's null return does.
func (m *ModuleRecord) GetExportedNames() (map[string]struct{}, bool) {
	return m.getExportedNames(map[*ModuleRecord]struct{}{})
}

func (m *ModuleRecord) getExportedNames(visited map[*ModuleRecord]struct{}) (map[string]struct{}, bool) {
	if _, seen := visited[m]; seen {
		return map[string]struct{}{}, true
	}
	visited[m] = struct{}{}

	names := make(map[string]struct{})
	for _, e := range m.LocalExports {
		names[e.ExportName] = struct{}{}
	}
	for _, e := range m.IndirectExports {
		names[e.ExportName] = struct{}{}
	}
	for _, e := range m.StarExports {
		target := m.Resolver.ResolveImportedModule(m, e.ModuleRequest)
		if target == nil {
			return nil, false
		}
		starNames, ok := target.getExportedNames(visited)
		if !ok {
			return nil, false
		}
		for n := range starNames {
			if n != "default" {
				names[n] = struct{}{}
			}
		}
	}
	return names, true
}

// ResolveExport implements §4.3.2's public wrapper: resolve with fresh
// visited-sets, memoize, and downgrade AMBIGUOUS to "not resolvable"
// for external callers (§7: "Ambiguous resolution never surfaces
// directly").
func (m *ModuleRecord) ResolveExport(name string) (Binding, bool) {
	if cached, ok := m.resolvedExportCache[name]; ok {
		return cached.binding, cached.ok
	}

	res := m.resolveExport(name, map[resolveSetKey]struct{}{}, map[*ModuleRecord]struct{}{})

	var out resolvedEntry
	if res.Kind == ResolutionFound {
		out = resolvedEntry{binding: res.Binding, ok: true}
	} else {
		// ResolutionNone and ResolutionAmbiguous both present externally
		// as "no binding" -- the memo must still record that absence, or
		// repeated lookups would re-walk the whole graph (§3 invariant:
		// "memoizes resolution so repeated lookups ... are O(1)").
		out = resolvedEntry{ok: false}
	}
	m.resolvedExportCache[name] = out
	return out.binding, out.ok
}

// resolveExport implements §4.3.2's concrete algorithm, ported
// directly from Es6Module.resolveExport(String, Set, Set) in the
// original.
func (m *ModuleRecord) resolveExport(name string, resolveSet map[resolveSetKey]struct{}, exportStarSet map[*ModuleRecord]struct{}) Resolution {
	key := resolveSetKey{module: m, name: name}
	if _, circular := resolveSet[key]; circular {
		return noneResolution
	}
	resolveSet[key] = struct{}{}

	for _, e := range m.LocalExports {
		if e.ExportName == name {
			return foundBinding(Binding{Module: m, Name: e.OrigName})
		}
	}

	for _, e := range m.IndirectExports {
		if e.ExportName != name {
			continue
		}
		target := m.Resolver.ResolveImportedModule(m, e.ModuleRequest)
		if target == nil {
			return noneResolution
		}
		if !e.HasOrigName {
			// Re-exported namespace: `export * as ns from "mod"` or the
			// registry-normalized `import * as ns from "mod"; export {ns};`.
			return foundBinding(Binding{Module: target, IsNamespace: true})
		}
		if res := target.resolveExport(e.OrigName, resolveSet, exportStarSet); res.Kind != ResolutionNone {
			return res
		}
		// fall through: this indirect entry didn't pan out, but another
		// entry (or a star export) further down might still provide it.
	}

	if name == "default" {
		// A `default` export is never contributed by `export *` (§3).
		return noneResolution
	}

	if _, seen := exportStarSet[m]; seen {
		return noneResolution
	}
	exportStarSet[m] = struct{}{}

	var starResolution Resolution
	for _, e := range m.StarExports {
		target := m.Resolver.ResolveImportedModule(m, e.ModuleRequest)
		if target == nil {
			return noneResolution
		}
		res := target.resolveExport(name, resolveSet, exportStarSet)
		if res.Kind == ResolutionAmbiguous {
			return res
		}
		if res.Kind == ResolutionFound {
			if starResolution.Kind == ResolutionNone {
				starResolution = res
			} else if starResolution.Binding != res.Binding {
				return ambiguousResolution
			}
		}
	}
	return starResolution
}

// Namespace is the read-only object view of a module's exports (no
// `default`), lazily materialized per §4.3.3.
type Namespace struct {
	Module        *ModuleRecord
	ExportedNames map[string]struct{}
}

func (m *ModuleRecord) Namespace() (*Namespace, bool) {
	if m.namespace != nil {
		return m.namespace, true
	}
	names, ok := m.GetExportedNames()
	if !ok {
		return nil, false
	}
	m.namespace = &Namespace{Module: m, ExportedNames: names}
	return m.namespace, true
}

// Get implements §4.3.3: resolve name through the namespace, but only
// if it's actually in the exported-name set (a namespace object has no
// own properties beyond its exports).
func (ns *Namespace) Get(name string) (Binding, bool) {
	if _, ok := ns.ExportedNames[name]; !ok {
		return Binding{}, false
	}
	return ns.Module.ResolveExport(name)
}
