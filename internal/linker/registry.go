// Package linker holds the Module Registry (§4.4) and the Rewriter
// Pass (§4.5, §4.6) -- the two components that consult the whole
// module graph rather than a single file. Grounded on esbuild's
// internal/linker (matchImportsWithExportsForFile / advanceImportTracker
// are the same shape as ResolveExport, just spread across mutable
// tracker state instead of recursive calls) and literally on
// Es6ModuleRegistry.java / Es6ModuleRewrite.java from the original.
package linker

import (
	"fmt"

	"eslink/internal/graph"
	"eslink/internal/logger"
)

// ParsedModule is everything the parser pass (internal/parser) hands
// to the registry for one source file: the raw export entries exactly
// as extracted (before local/indirect/star bucketing), the import
// entries, and the requested-module specifier list in source order.
type ParsedModule struct {
	CanonicalName    string
	Source           *logger.Source
	RequestedModules []string
	Imports          []graph.ImportEntry
	RawExports       []graph.ExportEntry
	// AST carries the already-rewritten-in-place tree (export
	// declarations stripped to plain declarations, imports removed) for
	// the rewriter pass to consume afterward.
	AST interface{}
}

type registeredModule struct {
	record   *graph.ModuleRecord
	parsed   ParsedModule
	hasOwnEdges bool // has imports or exports of its own
}

// Registry maps canonical module name to ModuleRecord bidirectionally
// and owns cross-module resolution (§3, §4.4). A Resolver performs the
// specifier -> canonical-name half of resolution (§4.1's external
// contract); the registry layers the ES6-specific semantics on top.
type Registry struct {
	Log      *logger.Log
	Resolver SpecifierResolver

	byName   map[string]*registeredModule
	byRecord map[*graph.ModuleRecord]string
	// order preserves registration order for deterministic diagnostics
	// and for the final provides/requires annotation pass.
	order []string

	provides map[string][]string
}

// SpecifierResolver is the Specifier Loader external contract (§4.1):
// locate a specifier relative to a referring module and canonicalize
// the result to a stable `module$`-prefixed name.
type SpecifierResolver interface {
	Locate(specifier string, referringSource *logger.Source) (address string, ok bool)
	Canonicalize(address string) string
}

func NewRegistry(log *logger.Log, resolver SpecifierResolver) *Registry {
	return &Registry{
		Log:      log,
		Resolver: resolver,
		byName:   make(map[string]*registeredModule),
		byRecord: make(map[*graph.ModuleRecord]string),
	}
}

// AddModule implements §4.4's build phase: partition raw export
// entries into local/indirect/star buckets, normalizing re-exports of
// imported bindings into indirect entries along the way, and register
// the resulting ModuleRecord.
func (r *Registry) AddModule(p ParsedModule) *graph.ModuleRecord {
	if _, exists := r.byName[p.CanonicalName]; exists {
		panic(fmt.Sprintf("module %q registered twice", p.CanonicalName))
	}

	importsByLocal := make(map[string]graph.ImportEntry, len(p.Imports))
	for _, ie := range p.Imports {
		if ie.HasLocalName {
			importsByLocal[ie.LocalName] = ie
		}
	}

	seenExportNames := make(map[string]struct{})
	var local, indirect, star []graph.ExportEntry

	for _, e := range p.RawExports {
		if e.HasExportName {
			if _, dup := seenExportNames[e.ExportName]; dup {
				r.Log.AddError(p.Source, e.ExportNameLoc, logger.MsgDuplicateExportNames,
					fmt.Sprintf("Duplicated export name: %s", e.ExportName))
			}
			seenExportNames[e.ExportName] = struct{}{}
		}

		switch e.Kind() {
		case graph.ExportLocal:
			if ie, ok := importsByLocal[e.OrigName]; ok {
				// import x; export {x};  ->  indirect export of x's origin.
				// import * as ns; export {ns};  ->  indirect namespace export.
				indirect = append(indirect, graph.ExportEntry{
					ExportName:       e.ExportName,
					HasExportName:    true,
					ModuleRequest:    ie.ModuleRequest,
					HasModuleRequest: true,
					OrigName:         ie.ImportName,
					HasOrigName:      ie.HasImportName,
					ExportNameLoc:    e.ExportNameLoc,
				})
			} else {
				local = append(local, e)
			}
		case graph.ExportIndirectNamed, graph.ExportIndirectNamespace:
			indirect = append(indirect, e)
		case graph.ExportStar:
			star = append(star, e)
		}
	}

	record := graph.NewModuleRecord(p.CanonicalName, p.Source, r, p.RequestedModules, p.Imports, local, indirect, star)

	rm := &registeredModule{record: record, parsed: p}
	r.byName[p.CanonicalName] = rm
	r.byRecord[record] = p.CanonicalName
	r.order = append(r.order, p.CanonicalName)
	return record
}

// ResolveImportedModule implements graph.ModuleResolver -- the
// registry-side half of HostResolveImportedModule (§4.4 accessors).
func (r *Registry) ResolveImportedModule(from *graph.ModuleRecord, specifier string) *graph.ModuleRecord {
	address, ok := r.Resolver.Locate(specifier, from.Source)
	if !ok {
		return nil
	}
	name := r.Resolver.Canonicalize(address)
	rm, ok := r.byName[name]
	if !ok {
		return nil
	}
	return rm.record
}

func (r *Registry) GetModule(canonicalName string) *graph.ModuleRecord {
	if rm, ok := r.byName[canonicalName]; ok {
		return rm.record
	}
	return nil
}

func (r *Registry) GetModuleName(m *graph.ModuleRecord) (string, bool) {
	name, ok := r.byRecord[m]
	return name, ok
}

func (r *Registry) GetModuleNamespace(canonicalName string) (*graph.Namespace, bool) {
	m := r.GetModule(canonicalName)
	if m == nil {
		return nil, false
	}
	return m.Namespace()
}

// Modules returns every still-registered module in registration order
// (after InstantiateAll has pruned non-modules, this excludes them).
func (r *Registry) Modules() []*graph.ModuleRecord {
	out := make([]*graph.ModuleRecord, 0, len(r.order))
	for _, name := range r.order {
		if rm, ok := r.byName[name]; ok {
			out = append(out, rm.record)
		}
	}
	return out
}

// InstantiateAll implements §4.4's instantiateAll: validate every
// import and indirect export in the program, demote files with no
// module edges to plain scripts, and annotate provides/requires.
// Ported from Es6ModuleRegistry.instantiateAllModules.
func (r *Registry) InstantiateAll() {
	nonModules := make(map[string]struct{}, len(r.order))
	for _, name := range r.order {
		nonModules[name] = struct{}{}
	}

	provides := make(map[string][]string, len(r.order))

	for _, name := range r.order {
		rm := r.byName[name]
		module := rm.record

		if len(module.RequestedModules) > 0 || module.HasExports() {
			delete(nonModules, name)
		}

		failedSpecifiers := make(map[string]struct{})

		for _, specifier := range module.RequestedModules {
			required := r.ResolveImportedModule(module, specifier)
			if required == nil {
				r.Log.AddError(module.Source, logger.Loc{Start: -1}, logger.MsgLoadError,
					fmt.Sprintf("Could not load module %q", specifier))
				failedSpecifiers[specifier] = struct{}{}
				continue
			}
			requiredName, _ := r.GetModuleName(required)
			delete(nonModules, requiredName)
			provides[name] = append(provides[name], requiredName)
		}

		for _, e := range module.IndirectExports {
			if _, failed := failedSpecifiers[e.ModuleRequest]; failed {
				continue
			}
			if e.HasExportName {
				if _, ok := module.ResolveExport(e.ExportName); !ok {
					r.Log.AddError(module.Source, e.ExportNameLoc, logger.MsgResolveExportFailure,
						fmt.Sprintf("Failed to resolve exported name %q in module %q", e.ExportName, name))
				}
			}
		}

		for _, ie := range module.ImportEntries() {
			if _, failed := failedSpecifiers[ie.ModuleRequest]; failed {
				continue
			}
			if !ie.HasImportName {
				continue // namespace import: nothing to resolve by name
			}
			required := r.ResolveImportedModule(module, ie.ModuleRequest)
			if required == nil {
				continue
			}
			if _, ok := required.ResolveExport(ie.ImportName); !ok {
				requiredName, _ := r.GetModuleName(required)
				r.Log.AddError(module.Source, ie.Loc, logger.MsgResolveExportFailure,
					fmt.Sprintf("Failed to resolve exported name %q in module %q", ie.ImportName, requiredName))
			}
		}
	}

	for name := range nonModules {
		delete(r.byName, name)
		for rec, n := range r.byRecord {
			if n == name {
				delete(r.byRecord, rec)
			}
		}
	}
	filteredOrder := r.order[:0:0]
	for _, name := range r.order {
		if _, ok := r.byName[name]; ok {
			filteredOrder = append(filteredOrder, name)
		}
	}
	r.order = filteredOrder

	r.provides = provides
}

// Provides returns, for each surviving module, the canonical names it
// requires -- the provide/require annotations §6 says feed an external
// topological sorter. The registry performs no ordering of its own
// beyond producing this data (§5).
func (r *Registry) Provides() map[string][]string {
	return r.provides
}
