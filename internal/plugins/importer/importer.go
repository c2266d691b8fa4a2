// Package importer provides the scene importers: RSM models, GND terrain,
// GAT altitude tables and an extension-dispatching proxy in front of them.
package importer

import (
	"errors"
	"fmt"
	"os"
)

// Importer errors.
var (
	ErrNotOpened     = errors.New("no file opened")
	ErrUnknownFormat = errors.New("cannot determine the format of")
	ErrOutOfRange    = errors.New("out of range")
	ErrNoScene       = errors.New("file has no scenes")
)

// Plugin names.
const (
	AnyName = "AnySceneImporter"
	RsmName = "RsmImporter"
	GndName = "GndImporter"
	GatName = "GatImporter"
)

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func checkLevel(id, count, level int) error {
	if id < 0 || id >= count {
		return fmt.Errorf("mesh %d %w, file has %d meshes", id, ErrOutOfRange, count)
	}
	if level != 0 {
		return fmt.Errorf("level %d of mesh %d %w, mesh has 1 level", level, id, ErrOutOfRange)
	}
	return nil
}
