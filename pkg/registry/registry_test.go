package registry

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depmap/depmap/pkg/source"
)

func writeFiles(t *testing.T, root string, names ...string) []string {
	t.Helper()

	paths := make([]string, 0, len(names))
	for _, name := range names {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x = 1\n"), 0o644))
		paths = append(paths, p)
	}
	return paths
}

func TestBuildRecordFields(t *testing.T) {
	root := t.TempDir()
	files := writeFiles(t, root, "main.py", "utils/helpers.py", "pkg/__init__.py")

	snap := Build(root, files, source.NewFilesystem(), nil)
	require.Equal(t, 3, snap.Len())

	main := snap.Lookup("main.py")
	require.NotNil(t, main)
	assert.Equal(t, "main", main.Stem)
	assert.Equal(t, RootFolder, main.Folder)
	assert.Equal(t, "main", main.DisplayName)
	assert.False(t, main.IsInit)
	assert.Equal(t, int64(6), main.Size)

	helpers := snap.Lookup("utils/helpers.py")
	require.NotNil(t, helpers)
	assert.Equal(t, "helpers", helpers.Stem)
	assert.Equal(t, "utils", helpers.Folder)
	assert.Equal(t, "utils/helpers", helpers.DisplayName)

	init := snap.Lookup("pkg/__init__.py")
	require.NotNil(t, init)
	assert.True(t, init.IsInit)
	assert.Equal(t, "__init__", init.Stem)
}

func TestBuildOrderFollowsInput(t *testing.T) {
	root := t.TempDir()
	files := writeFiles(t, root, "b.py", "a.py", "c.py")

	snap := Build(root, files, source.NewFilesystem(), nil)

	ids := make([]string, 0, snap.Len())
	for _, rec := range snap.Records() {
		ids = append(ids, rec.ID)
	}
	assert.Equal(t, []string{"b.py", "a.py", "c.py"}, ids)
}

func TestBuildSkipsUnreadableFiles(t *testing.T) {
	root := t.TempDir()
	files := writeFiles(t, root, "ok.py")
	files = append(files, filepath.Join(root, "missing.py"))

	var warned []string
	snap := Build(root, files, source.NewFilesystem(), func(path string, err error) {
		warned = append(warned, path)
	})

	assert.Equal(t, 1, snap.Len())
	require.Len(t, warned, 1)
	assert.Contains(t, warned[0], "missing.py")
}

type deniedSource struct {
	fail string
}

func (d *deniedSource) Read(path string) ([]byte, error) {
	if strings.HasSuffix(filepath.ToSlash(path), d.fail) {
		return nil, errors.New("read denied")
	}
	return os.ReadFile(path)
}

// A file the content source cannot read never becomes a record, even when
// it exists on disk.
func TestBuildSkipsReadFailures(t *testing.T) {
	root := t.TempDir()
	files := writeFiles(t, root, "ok.py", "bad.py")

	var warned []string
	snap := Build(root, files, &deniedSource{fail: "bad.py"}, func(path string, err error) {
		warned = append(warned, path)
	})

	assert.Equal(t, 1, snap.Len())
	assert.Nil(t, snap.Lookup("bad.py"))
	require.Len(t, warned, 1)
	assert.Contains(t, warned[0], "bad.py")
}

func TestBuildImportsStartEmpty(t *testing.T) {
	root := t.TempDir()
	files := writeFiles(t, root, "a.py")

	snap := Build(root, files, source.NewFilesystem(), nil)
	rec := snap.Lookup("a.py")
	require.NotNil(t, rec)

	assert.Empty(t, rec.Imports)
	assert.Empty(t, rec.AllImports)
	assert.Zero(t, rec.InternalImportsCount())
	assert.Zero(t, rec.AllImportsCount())
}

func TestAbsPath(t *testing.T) {
	root := t.TempDir()
	files := writeFiles(t, root, "sub/mod.py")

	snap := Build(root, files, source.NewFilesystem(), nil)
	rec := snap.Lookup("sub/mod.py")
	require.NotNil(t, rec)

	assert.Equal(t, files[0], snap.AbsPath(rec))
}

func TestIsTestFile(t *testing.T) {
	tests := []struct {
		name   string
		stem   string
		folder string
		want   bool
	}{
		{"test prefix", "test_utils", RootFolder, true},
		{"test suffix", "utils_test", RootFolder, true},
		{"exactly test", "test", RootFolder, true},
		{"tests folder", "helpers", "tests", true},
		{"folder containing test", "mod", "integration_tests", true},
		{"plain module", "helpers", "utils", false},
		{"protest is not a test word boundary", "contest", RootFolder, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isTestFile(tt.stem, tt.folder))
		})
	}
}

func TestFolderOf(t *testing.T) {
	assert.Equal(t, RootFolder, folderOf("main.py"))
	assert.Equal(t, "utils", folderOf("utils/helpers.py"))
	assert.Equal(t, "a", folderOf("a/b/c.py"))
}
