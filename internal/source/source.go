// Package source resolves input paths: files on disk first, then the GRF
// archives configured under data.grf_paths.
package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/meshconv/pkg/grf"
)

// ErrNotFound is returned when a path is neither on disk nor in an archive.
var ErrNotFound = errors.New("file not found on disk or in any archive")

// Resolver reads input files. Archives are searched in reverse order, so
// the last one added has the highest priority.
type Resolver struct {
	mu       sync.RWMutex
	archives []*grf.Archive
	paths    []string
	log      *zap.Logger
}

// New creates a resolver with no archives.
func New(log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{log: log}
}

// Open creates a resolver over the given archives. On error, archives
// opened so far are closed.
func Open(archives []string, log *zap.Logger) (*Resolver, error) {
	r := New(log)
	for _, path := range archives {
		if err := r.AddArchive(path); err != nil {
			r.Close()
			return nil, err
		}
	}
	return r, nil
}

// AddArchive opens a GRF archive and puts it on top of the search order.
func (r *Resolver) AddArchive(path string) error {
	archive, err := grf.Open(path)
	if err != nil {
		return fmt.Errorf("opening archive %s: %w", path, err)
	}

	r.mu.Lock()
	r.archives = append(r.archives, archive)
	r.paths = append(r.paths, path)
	r.mu.Unlock()

	r.log.Debug("Added archive", zap.String("path", path), zap.Int("files", len(archive.List())))
	return nil
}

// ReadFile returns the content of path from disk or, when it does not
// exist there, from the first archive that contains it.
func (r *Resolver) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil || !errors.Is(err, fs.ErrNotExist) {
		return data, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := len(r.archives) - 1; i >= 0; i-- {
		if !r.archives[i].Contains(path) {
			continue
		}
		r.log.Debug("Reading from archive", zap.String("file", path), zap.String("archive", r.paths[i]))
		return r.archives[i].Read(path)
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
}

// Close closes all archives.
func (r *Resolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for _, archive := range r.archives {
		errs = append(errs, archive.Close())
	}
	r.archives, r.paths = nil, nil
	return errors.Join(errs...)
}
