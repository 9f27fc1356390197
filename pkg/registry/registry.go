// Package registry builds the per-run file registry: one FileRecord per
// discovered source file, keyed by its root-relative path.
package registry

import (
	"path/filepath"
	"strings"

	"github.com/depmap/depmap/pkg/source"
)

// RootFolder is the sentinel folder name for files directly under the
// analysis root.
const RootFolder = "root"

// FileRecord describes one discovered source file. Import fields are empty
// after Build and populated exactly once by the import resolution pass.
type FileRecord struct {
	ID          string
	Path        string // root-relative, forward slashes
	Folder      string
	Stem        string
	DisplayName string
	IsTest      bool
	IsInit      bool
	Size        int64

	// Imports holds resolved internal target ids, in syntax-tree order,
	// duplicates preserved. AllImports holds every raw import module name,
	// internal and external alike.
	Imports    []string
	AllImports []string
}

// InternalImportsCount returns the number of resolved internal imports.
func (r *FileRecord) InternalImportsCount() int {
	return len(r.Imports)
}

// AllImportsCount returns the number of raw import statements seen.
func (r *FileRecord) AllImportsCount() int {
	return len(r.AllImports)
}

// Snapshot is the complete registry for one analysis run. Resolution and
// scoring passes accept a Snapshot rather than a live builder, so they
// cannot start before registration is finished.
type Snapshot struct {
	root    string
	records []*FileRecord
	byID    map[string]*FileRecord
}

// WarnFunc is called when an individual file cannot be registered.
type WarnFunc func(path string, err error)

// Build registers every file relative to root and returns the completed
// Snapshot. Each file's content is read through src to prove it is
// readable; files that cannot be read are warned about and skipped, so
// the registry holds exactly the files later passes can see. Record order
// follows the input file order.
func Build(root string, files []string, src source.ContentSource, warn WarnFunc) *Snapshot {
	snap := &Snapshot{
		root:    root,
		records: make([]*FileRecord, 0, len(files)),
		byID:    make(map[string]*FileRecord, len(files)),
	}

	for _, path := range files {
		content, err := src.Read(path)
		if err != nil {
			if warn != nil {
				warn(path, err)
			}
			continue
		}

		id := relativeID(root, path)
		if _, dup := snap.byID[id]; dup {
			continue
		}

		base := filepath.Base(path)
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		folder := folderOf(id)

		rec := &FileRecord{
			ID:          id,
			Path:        id,
			Folder:      folder,
			Stem:        stem,
			DisplayName: displayName(folder, stem),
			IsTest:      isTestFile(stem, folder),
			IsInit:      base == "__init__.py",
			Size:        int64(len(content)),
		}

		snap.records = append(snap.records, rec)
		snap.byID[id] = rec
	}

	return snap
}

// Root returns the analysis root the snapshot was built against.
func (s *Snapshot) Root() string {
	return s.root
}

// Records returns all records in registration order.
func (s *Snapshot) Records() []*FileRecord {
	return s.records
}

// Lookup returns the record with the given id, or nil.
func (s *Snapshot) Lookup(id string) *FileRecord {
	return s.byID[id]
}

// Len returns the number of registered files.
func (s *Snapshot) Len() int {
	return len(s.records)
}

// AbsPath returns the absolute filesystem path for a record.
func (s *Snapshot) AbsPath(rec *FileRecord) string {
	return filepath.Join(s.root, filepath.FromSlash(rec.Path))
}

// relativeID computes the root-relative forward-slash id for a file. The id
// derives strictly from the root supplied to this run; a file outside the
// root keeps its own path rather than falling back to another base.
func relativeID(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// folderOf returns the first path component of a relative id, or the root
// sentinel for top-level files.
func folderOf(id string) string {
	if i := strings.IndexByte(id, '/'); i >= 0 {
		return id[:i]
	}
	return RootFolder
}

func displayName(folder, stem string) string {
	if folder == RootFolder {
		return stem
	}
	return folder + "/" + stem
}

// isTestFile applies the filename and folder heuristics for marking test
// modules. Any single match is sufficient.
func isTestFile(stem, folder string) bool {
	s := strings.ToLower(stem)
	f := strings.ToLower(folder)

	return strings.HasPrefix(s, "test_") ||
		strings.HasSuffix(s, "_test") ||
		s == "test" ||
		strings.Contains(f, "test") ||
		strings.HasPrefix(f, "test")
}
