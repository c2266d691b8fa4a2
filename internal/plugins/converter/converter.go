// Package converter provides the scene converters: file writers for PLY,
// OBJ, STL and YAML, in-memory mesh processors, and an extension-dispatching
// proxy that picks a writer for the output file.
package converter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/meshconv/pkg/mesh"
	"github.com/Faultbox/meshconv/pkg/trade"
)

// Converter errors.
var (
	ErrUnknownFormat    = errors.New("cannot determine the format of")
	ErrUnsupported      = errors.New("operation not supported")
	ErrExpectedTriangle = errors.New("expected a triangle mesh")
	ErrMissingAttribute = errors.New("mesh has no required attribute")
)

// Plugin names.
const (
	AnyName        = "AnySceneConverter"
	StanfordName   = "StanfordSceneConverter"
	ObjName        = "ObjSceneConverter"
	StlName        = "StlSceneConverter"
	YamlName       = "YamlSceneConverter"
	SmoothName     = "SmoothNormalsSceneConverter"
	CenterName     = "CenterSceneConverter"
	DegenerateName = "DegenerateCleanupSceneConverter"
)

// fileOnly is embedded by writers that cannot convert in memory.
type fileOnly struct{}

func (fileOnly) Features() trade.Feature { return trade.ConvertMeshToFile }

func (fileOnly) Convert(*mesh.Mesh) (*mesh.Mesh, error) {
	return nil, fmt.Errorf("%w: mesh conversion", ErrUnsupported)
}

// memoryOnly is embedded by processors that cannot write files.
type memoryOnly struct{}

func (memoryOnly) Features() trade.Feature { return trade.ConvertMesh }

func (memoryOnly) ConvertToFile(*mesh.Mesh, string) error {
	return fmt.Errorf("%w: conversion to a file", ErrUnsupported)
}

// writeFile creates filename and streams the output of write into it.
func writeFile(filename string, write func(w io.Writer) error) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		return err
	}
	return bw.Flush()
}

// requireTriangles rejects anything but a triangle list.
func requireTriangles(m *mesh.Mesh) error {
	if m.Primitive() != mesh.PrimitiveTriangles {
		return fmt.Errorf("%w, got %s", ErrExpectedTriangle, m.Primitive())
	}
	return nil
}

// attribute looks up the first attribute called name and checks it has at
// least components float components.
func attribute(m *mesh.Mesh, name mesh.AttributeName, components int) (int, error) {
	id, ok := m.FindAttribute(name, 0)
	if !ok {
		return -1, fmt.Errorf("%w: %s", ErrMissingAttribute, name)
	}
	f := m.Attribute(id).Format
	if !f.IsFloat() || f.ComponentCount() < components {
		return -1, fmt.Errorf("%w: %s needs %d float components, got %s",
			ErrMissingAttribute, name, components, f)
	}
	return id, nil
}

func nopIfNil(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
