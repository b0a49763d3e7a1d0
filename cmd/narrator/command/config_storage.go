package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-narrator/internal/scene"
	"github.com/pixil98/go-narrator/internal/storage"
)

type StorageConfig struct {
	Lines  AssetConfig[*scene.Line]  `json:"lines"`
	Scenes AssetConfig[*scene.Scene] `json:"scenes"`
}

// BuildLibrary loads every line and scene and resolves the references
// between them.
func (c *StorageConfig) BuildLibrary() (*scene.Library, error) {
	lines, err := c.Lines.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating line store: %w", err)
	}
	scenes, err := c.Scenes.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating scene store: %w", err)
	}

	lib := &scene.Library{
		Lines:  lines,
		Scenes: scenes,
	}

	if err := lib.Resolve(); err != nil {
		return nil, fmt.Errorf("resolving references: %w", err)
	}

	return lib, nil
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()
	el.Add(c.Lines.Validate("lines"))
	el.Add(c.Scenes.Validate("scenes"))
	return el.Err()
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}
