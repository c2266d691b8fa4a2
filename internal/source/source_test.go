package source

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshconv/pkg/grf"
)

func writeArchive(t *testing.T, dir, name string, files ...grf.File) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, grf.Write(&buf, files))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestResolver_ReadFile(t *testing.T) {
	dir := t.TempDir()
	base := writeArchive(t, dir, "data.grf",
		grf.File{Name: "data/model/tree.rsm", Data: []byte("base tree")},
		grf.File{Name: "data/model/rock.rsm", Data: []byte("base rock")},
	)
	patch := writeArchive(t, dir, "patch.grf",
		grf.File{Name: "data/model/tree.rsm", Data: []byte("patched tree")},
	)
	onDisk := filepath.Join(dir, "local.rsm")
	require.NoError(t, os.WriteFile(onDisk, []byte("local"), 0o644))

	r, err := Open([]string{base, patch}, nil)
	require.NoError(t, err)
	defer r.Close()

	tests := []struct {
		path string
		want string
	}{
		{onDisk, "local"},
		{"data/model/tree.rsm", "patched tree"},
		{`DATA\MODEL\ROCK.RSM`, "base rock"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := r.ReadFile(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}

	_, err = r.ReadFile("data/model/missing.rsm")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolver_DiskErrorsAreNotMasked(t *testing.T) {
	r := New(nil)
	// Reading a directory fails with something other than "not exist".
	_, err := r.ReadFile(t.TempDir())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestOpen_BadArchive(t *testing.T) {
	dir := t.TempDir()
	good := writeArchive(t, dir, "good.grf", grf.File{Name: "a.txt", Data: []byte("a")})
	bad := filepath.Join(dir, "bad.grf")
	require.NoError(t, os.WriteFile(bad, []byte("not an archive"), 0o644))

	_, err := Open([]string{good, bad}, nil)
	assert.ErrorContains(t, err, "bad.grf")

	_, err = Open([]string{filepath.Join(dir, "missing.grf")}, nil)
	assert.Error(t, err)
}
