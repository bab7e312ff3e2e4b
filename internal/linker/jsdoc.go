package linker

import (
	"fmt"
	"strings"

	"eslink/internal/config"
	"eslink/internal/graph"
	"eslink/internal/js_ast"
	"eslink/internal/logger"
)

// rewriteComments implements §4.5's JSDoc type-annotation rewriting.
// It runs after the main traversal: type names are informational only
// (DESIGN NOTES: "does not add edges to the dependency graph"), so
// resolving them doesn't need to interleave with the substitution
// passes that do add edges.
func (rw *rewriteState) rewriteComments(tree *js_ast.AST) {
	for i := range tree.Comments {
		c := &tree.Comments[i]
		// Rewrite back-to-front so earlier byte offsets in the same
		// comment stay valid as later ones are spliced in.
		for j := len(c.Types) - 1; j >= 0; j-- {
			span := c.Types[j]
			newText, ok := rw.rewriteTypeName(span.Name)
			if !ok {
				continue
			}
			c.Text = c.Text[:span.Start] + newText + c.Text[span.End:]
		}
	}
}

// rewriteTypeName implements §4.5's type-name algorithm: split into a
// head and a dotted path (via ordinary resolveModuleBinding, or via
// the relative-specifier syntax), then walk the path through nested
// namespaces until a concrete binding or an error is reached.
func (rw *rewriteState) rewriteTypeName(name string) (string, bool) {
	var binding graph.Binding
	var path string

	if specifier, remainder, ok := splitRelativeSpecifier(name); ok {
		target := rw.reg.ResolveImportedModule(rw.module, specifier)
		if target == nil {
			rw.log.AddWarning(rw.source, logger.Loc{Start: -1}, logger.MsgResolveExportFailure,
				fmt.Sprintf("Could not resolve type reference specifier %q", specifier))
			return "", false
		}
		binding = graph.Binding{Module: target, IsNamespace: true}
		path = remainder
	} else {
		head, rest := splitHeadPath(name)
		b, ok := rw.resolveModuleBinding(head)
		if !ok {
			// Not an imported or module-local name -- likely a builtin
			// type (string, Array, etc.); leave the comment untouched.
			return "", false
		}
		binding = b
		path = rest
	}

	var segments []string
	if path != "" {
		segments = strings.Split(path, ".")
	}

	for len(segments) > 0 && binding.IsNamespace {
		member := segments[0]
		ns, ok := binding.Module.Namespace()
		if !ok {
			rw.log.AddWarning(rw.source, logger.Loc{Start: -1}, logger.MsgResolveExportFailure,
				fmt.Sprintf("Failed to resolve exported name %q", member))
			return "", false
		}
		next, ok := ns.Get(member)
		if !ok {
			rw.log.AddWarning(rw.source, logger.Loc{Start: -1}, logger.MsgResolveExportFailure,
				fmt.Sprintf("Failed to resolve exported name %q in module %q", member, binding.Module.CanonicalName))
			return "", false
		}
		binding = next
		segments = segments[1:]
	}

	if binding.IsNamespace {
		rw.log.AddWarning(rw.source, logger.Loc{Start: -1}, logger.MsgNamespaceNonGetProp,
			fmt.Sprintf("Type reference %q resolves to a module namespace, not a concrete export", name))
		return "", false
	}

	global := binding.Name + config.GlobalNameSeparator + binding.Module.CanonicalName
	if len(segments) > 0 {
		global += "." + strings.Join(segments, ".")
	}
	return global, true
}

func splitHeadPath(name string) (head, rest string) {
	if dot := strings.IndexByte(name, '.'); dot != -1 {
		return name[:dot], name[dot+1:]
	}
	return name, ""
}

// splitRelativeSpecifier recognizes the relative-path type syntax
// (§4.5): the specifier is everything up to the first period at or
// after the last slash, and the rest is the dotted path, e.g.
// "./foo/bar.baz/qux.quux.Foo" -> specifier "./foo/bar.baz/qux", path
// "quux.Foo". Ported from Es6RewriteModule.fixTypeNode's
// `endIndex = name.indexOf('.', lastSlash)` split, not from the first
// period in the trailing segment as a whole.
func splitRelativeSpecifier(name string) (specifier, path string, ok bool) {
	lastSlash := strings.LastIndexByte(name, '/')
	if lastSlash == -1 {
		return "", "", false
	}
	dot := strings.IndexByte(name[lastSlash:], '.')
	if dot == -1 {
		return "", "", false
	}
	endIndex := lastSlash + dot
	return name[:endIndex], name[endIndex+1:], true
}
