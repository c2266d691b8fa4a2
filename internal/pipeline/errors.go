package pipeline

import "errors"

// Pipeline errors. Callers match them with errors.Is; cmd/meshconv maps
// them to exit codes.
var (
	ErrSourceUnavailable      = errors.New("cannot open source")
	ErrNoMeshes               = errors.New("no meshes found")
	ErrMeshImport             = errors.New("cannot import mesh")
	ErrBackendUnavailable     = errors.New("converter backend unavailable")
	ErrCapabilityMismatch     = errors.New("converter capability mismatch")
	ErrConversionFailed       = errors.New("mesh conversion failed")
	ErrConversionToFileFailed = errors.New("cannot save file")
)
