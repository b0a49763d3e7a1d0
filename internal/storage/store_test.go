package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pixil98/go-testutil"
)

// mockStoreSpec implements ValidatingSpec for testing FileStore
type mockStoreSpec struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func (s *mockStoreSpec) Validate() error {
	return nil
}

func writeAsset(t *testing.T, path string, asset Asset[*mockStoreSpec]) {
	t.Helper()
	data, err := json.Marshal(asset)
	if err != nil {
		t.Fatalf("failed to marshal test asset: %v", err)
	}
	err = os.WriteFile(path, data, 0644)
	if err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
}

func TestNewFileStore(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewFileStore[*mockStoreSpec](tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "path", store.path, tmpDir)
	testutil.AssertEqual(t, "records length", len(store.records), 0)
}

func TestNewFileStore_NonExistentDirectory(t *testing.T) {
	_, err := NewFileStore[*mockStoreSpec]("/nonexistent/path/that/does/not/exist")
	if err == nil {
		t.Error("expected error for non-existent directory")
	}
}

func TestNewFileStore_Errors(t *testing.T) {
	tests := map[string]struct {
		files  map[string]string
		expErr string
	}{
		"invalid json": {
			files:  map[string]string{"bad.json": `{invalid json`},
			expErr: "unmarshalling asset",
		},
		"missing version": {
			files:  map[string]string{"a.json": `{"id":"a","spec":{"name":"A"}}`},
			expErr: "version must be set",
		},
		"missing spec": {
			files:  map[string]string{"a.json": `{"version":1,"id":"a"}`},
			expErr: "spec must be set",
		},
		"duplicate key": {
			files: map[string]string{
				"one.json":     `{"version":1,"id":"dup","spec":{}}`,
				"sub/two.json": `{"version":1,"id":"dup","spec":{}}`,
			},
			expErr: "duplicate key detected: dup",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tmpDir := t.TempDir()
			for file, content := range tt.files {
				path := filepath.Join(tmpDir, file)
				if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
					t.Fatalf("failed to create dir: %v", err)
				}
				if err := os.WriteFile(path, []byte(content), 0644); err != nil {
					t.Fatalf("failed to write test file: %v", err)
				}
			}

			_, err := NewFileStore[*mockStoreSpec](tmpDir)
			testutil.AssertErrorContains(t, err, tt.expErr)
		})
	}
}

func TestNewFileStore_WithExistingAssets(t *testing.T) {
	tmpDir := t.TempDir()

	writeAsset(t, filepath.Join(tmpDir, "item-1.json"), Asset[*mockStoreSpec]{
		Version: 1, Identifier: "item-1", Spec: &mockStoreSpec{Name: "First", Value: 1},
	})
	writeAsset(t, filepath.Join(tmpDir, "item-2.json"), Asset[*mockStoreSpec]{
		Version: 1, Identifier: "item-2", Spec: &mockStoreSpec{Name: "Second", Value: 2},
	})
	err := os.WriteFile(filepath.Join(tmpDir, "readme.txt"), []byte("ignore me"), 0644)
	if err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	store, err := NewFileStore[*mockStoreSpec](tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "record count", len(store.records), 2)

	item1 := store.Get("item-1")
	if item1 == nil {
		t.Fatal("expected item-1 to be loaded")
	}
	testutil.AssertEqual(t, "item-1 name", item1.Name, "First")
	testutil.AssertEqual(t, "item-1 value", item1.Value, 1)

	if store.Get("missing") != nil {
		t.Error("expected nil for missing id")
	}
}

func TestFileStore_Reload(t *testing.T) {
	tmpDir := t.TempDir()

	writeAsset(t, filepath.Join(tmpDir, "a.json"), Asset[*mockStoreSpec]{
		Version: 1, Identifier: "a", Spec: &mockStoreSpec{Name: "A"},
	})

	store, err := NewFileStore[*mockStoreSpec](tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	writeAsset(t, filepath.Join(tmpDir, "b.json"), Asset[*mockStoreSpec]{
		Version: 1, Identifier: "b", Spec: &mockStoreSpec{Name: "B"},
	})
	if err := store.Reload(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "after reload", len(store.GetAll()), 2)

	// A broken file leaves the previous records in place.
	if err := os.WriteFile(filepath.Join(tmpDir, "c.json"), []byte("{"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	if err := store.Reload(); err == nil {
		t.Fatal("expected reload error")
	}
	testutil.AssertEqual(t, "after failed reload", len(store.GetAll()), 2)
}

func TestFileStore_GetAllReturnsCopy(t *testing.T) {
	store, err := NewFileStore[*mockStoreSpec](t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}
	store.records = map[string]*mockStoreSpec{
		"one": {Name: "One", Value: 1},
		"two": {Name: "Two", Value: 2},
	}

	result := store.GetAll()
	delete(result, "one")

	testutil.AssertEqual(t, "store count", len(store.records), 2)
}
