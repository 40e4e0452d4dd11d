package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Digital-Shane/scenename/internal/log"
	"github.com/Digital-Shane/treeview"
	"github.com/spf13/afero"
)

type mockFileInfo struct {
	name  string
	isDir bool
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return 0 }
func (m *mockFileInfo) Mode() os.FileMode  { return 0 }
func (m *mockFileInfo) ModTime() time.Time { return time.Time{} }
func (m *mockFileInfo) IsDir() bool        { return m.isDir }
func (m *mockFileInfo) Sys() interface{}   { return nil }

func newFileInfo(name string, isDir bool) treeview.FileInfo {
	return treeview.FileInfo{FileInfo: &mockFileInfo{name: name, isDir: isDir}}
}

func newNode(dir, name string, isDir bool) *treeview.Node[treeview.FileInfo] {
	return treeview.NewNodeSimple(name, treeview.FileInfo{
		FileInfo: &mockFileInfo{name: name, isDir: isDir},
		Path:     filepath.Join(dir, name),
	})
}

// execute runs the root command with args and returns stdout and stderr.
// Flag values are reset first since cobra keeps them between runs.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	configPath, verbose = "", false
	instant, jsonOutput, probe, workers, maxDepth = false, false, false, 0, 0
	forceInit, logLimit = false, 10

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// withTree replaces the file system scan with a fixed tree.
func withTree(t *testing.T, nodes ...*treeview.Node[treeview.FileInfo]) {
	t.Helper()
	orig := scanTree
	scanTree = func(context.Context, string, bool, ...treeview.Option[treeview.FileInfo]) (*treeview.Tree[treeview.FileInfo], error) {
		return treeview.NewTree(nodes), nil
	}
	t.Cleanup(func() { scanTree = orig })
}

// withSessionStore keeps session logs in memory.
func withSessionStore(t *testing.T) *log.Store {
	t.Helper()
	store := log.NewStore(afero.NewMemMapFs(), "/logs")
	orig := newSessionStore
	newSessionStore = func() (*log.Store, error) { return store, nil }
	t.Cleanup(func() { newSessionStore = orig })
	return store
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}
