package meshtools

import (
	"fmt"

	"github.com/Faultbox/meshconv/pkg/mesh"
)

// FilterAttributes keeps only the attributes with the given IDs, in the
// given order. IDs may repeat. The vertex buffer, indices and vertex count
// are carried over unchanged.
func FilterAttributes(m *mesh.Mesh, ids []int) (*mesh.Mesh, error) {
	all := m.Attributes()
	kept := make([]mesh.Attribute, 0, len(ids))
	for _, id := range ids {
		if id < 0 || id >= len(all) {
			return nil, fmt.Errorf("%w: %d, mesh has %d attributes",
				ErrAttributeIndexOutOfRange, id, len(all))
		}
		kept = append(kept, all[id])
	}

	s := take(m)
	s.attributes = kept
	return s.build(), nil
}
