// Package imports extracts import statements from Python files and resolves
// them against the file registry.
//
// Resolution is deliberately best-effort: it matches by stem, folder.stem
// and full dotted path, first registry-order match wins, and anything that
// does not match a registered file is treated as an external import and
// silently omitted from the edge set. True Python module resolution would
// require the interpreter's import machinery and is out of scope.
package imports

import (
	"context"
	"fmt"
	"path"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/depmap/depmap/pkg/parser"
	"github.com/depmap/depmap/pkg/registry"
	"github.com/depmap/depmap/pkg/source"
)

// WarnFunc is called for per-file extraction failures. The file stays in
// the registry as an isolated node with empty import lists.
type WarnFunc func(path string, err error)

// Resolver populates the import fields of a completed registry snapshot.
type Resolver struct {
	parser *parser.Parser
	snap   *registry.Snapshot
	dotted map[string]string // record id -> dotted module path
}

// NewResolver creates a resolver over a completed snapshot. The snapshot
// must be fully built: resolution matches against every registered file.
func NewResolver(snap *registry.Snapshot) *Resolver {
	r := &Resolver{
		parser: parser.New(),
		snap:   snap,
		dotted: make(map[string]string, snap.Len()),
	}
	for _, rec := range snap.Records() {
		r.dotted[rec.ID] = moduleDottedPath(rec)
	}
	return r
}

// Close releases parser resources.
func (r *Resolver) Close() {
	r.parser.Close()
}

// ResolveAll runs the import extraction pass over every registered file.
// Per-file read and parse failures are warned about and leave that file's
// import lists empty; they never abort the pass.
func (r *Resolver) ResolveAll(ctx context.Context, src source.ContentSource, warn WarnFunc, onProgress func()) error {
	for _, rec := range r.snap.Records() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		content, err := src.Read(r.snap.AbsPath(rec))
		if err != nil {
			if warn != nil {
				warn(rec.Path, err)
			}
		} else if err := r.ResolveFile(rec, content); err != nil {
			if warn != nil {
				warn(rec.Path, err)
			}
		}

		if onProgress != nil {
			onProgress()
		}
	}
	return nil
}

// ResolveFile parses one file's content and fills in the record's import
// lists. A tree with syntax errors is reported as an error and leaves the
// record untouched.
func (r *Resolver) ResolveFile(rec *registry.FileRecord, content []byte) error {
	result, err := r.parser.Parse(content, rec.Path)
	if err != nil {
		return err
	}
	if result.HasSyntaxError() {
		return fmt.Errorf("syntax error in %s", rec.Path)
	}

	internal, all := r.extract(result, rec)
	rec.Imports = internal
	rec.AllImports = all
	return nil
}

// extract walks the syntax tree collecting raw import names and resolved
// internal target ids, in traversal order.
func (r *Resolver) extract(result *parser.ParseResult, rec *registry.FileRecord) (internal, all []string) {
	root := result.Tree.RootNode()

	parser.Walk(root, result.Source, func(node *sitter.Node, src []byte) bool {
		switch node.Type() {
		case "import_statement":
			for i := range int(node.NamedChildCount()) {
				child := node.NamedChild(i)
				name := importedName(child, src)
				if name == "" {
					continue
				}
				all = append(all, name)
				if id := r.resolveAbsolute(name); id != "" {
					internal = append(internal, id)
				}
			}
			return false

		case "import_from_statement":
			mod := node.ChildByFieldName("module_name")
			if mod == nil {
				return false
			}
			name := parser.GetNodeText(mod, src)
			if name == "" {
				return false
			}
			all = append(all, name)

			if strings.HasPrefix(name, ".") {
				if id := r.resolveRelative(name, rec); id != "" {
					internal = append(internal, id)
				}
			} else if id := r.resolveAbsolute(name); id != "" {
				internal = append(internal, id)
			}
			return false
		}
		return true
	})

	return internal, all
}

// importedName extracts the dotted module name from an import_statement
// child, unwrapping "x as y" aliases.
func importedName(node *sitter.Node, src []byte) string {
	switch node.Type() {
	case "dotted_name":
		return parser.GetNodeText(node, src)
	case "aliased_import":
		return parser.GetNodeText(node.ChildByFieldName("name"), src)
	}
	return ""
}

// resolveAbsolute maps a dotted import name to a registered file id.
// Matching order per record: bare stem, folder.stem, full dotted path.
// The first record that matches wins; ties between same-stem files in
// different folders fall to registration order on purpose.
func (r *Resolver) resolveAbsolute(name string) string {
	parts := strings.Split(name, ".")

	for _, rec := range r.snap.Records() {
		if rec.Stem == parts[0] {
			return rec.ID
		}
		if len(parts) > 1 && rec.Folder == parts[0] && rec.Stem == parts[1] {
			return rec.ID
		}
		if r.dotted[rec.ID] == name {
			return rec.ID
		}
	}

	return ""
}

// resolveRelative maps a relative import ("..sub.mod", ".") to a registered
// file id. Each leading dot beyond the first walks one directory up from
// the importing file; walking above the analysis root fails silently.
func (r *Resolver) resolveRelative(raw string, rec *registry.FileRecord) string {
	level := 0
	for level < len(raw) && raw[level] == '.' {
		level++
	}
	if level == 0 {
		return ""
	}
	moduleName := raw[level:]

	var parts []string
	if dir := path.Dir(rec.Path); dir != "." {
		parts = strings.Split(dir, "/")
	}
	for i := 0; i < level-1; i++ {
		if len(parts) == 0 {
			return ""
		}
		parts = parts[:len(parts)-1]
	}

	join := func(elem ...string) string {
		return path.Join(append(append([]string{}, parts...), elem...)...)
	}

	if moduleName == "" {
		return r.lookup(join("__init__.py"))
	}

	modulePath := strings.ReplaceAll(moduleName, ".", "/")
	if id := r.lookup(join(modulePath + ".py")); id != "" {
		return id
	}
	return r.lookup(join(modulePath, "__init__.py"))
}

// lookup returns id when it names a registered file, else "".
func (r *Resolver) lookup(id string) string {
	if r.snap.Lookup(id) != nil {
		return id
	}
	return ""
}

// moduleDottedPath converts a record's relative path to dotted module
// notation. A package initializer takes its parent directory's dotted path.
func moduleDottedPath(rec *registry.FileRecord) string {
	p := strings.TrimSuffix(rec.Path, path.Ext(rec.Path))
	if rec.Stem == "__init__" {
		dir := path.Dir(rec.Path)
		if dir == "." {
			return ""
		}
		return strings.ReplaceAll(dir, "/", ".")
	}
	return strings.ReplaceAll(p, "/", ".")
}
