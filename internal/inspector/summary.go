package inspector

import (
	"fmt"
	"io"
	"strings"

	"github.com/Faultbox/meshinfo/pkg/mesh"
)

// WriteSummary prints the vertex count, attribute layout, submeshes and
// bounds of src.
func WriteSummary(w io.Writer, src mesh.Source) error {
	b := src.Bounds()
	lo, hi := b.Min(), b.Max()

	var sb strings.Builder
	fmt.Fprintf(&sb, "Mesh:      %s\n", src.Name())
	fmt.Fprintf(&sb, "Vertices:  %d\n", src.VertexCount())
	fmt.Fprintf(&sb, "Bounds:    (%g, %g, %g) - (%g, %g, %g)\n", lo[0], lo[1], lo[2], hi[0], hi[1], hi[2])
	sb.WriteString("Attributes:\n")
	for _, a := range src.Attributes() {
		fmt.Fprintf(&sb, "  %-13s x%d\n", a.Attribute, a.Dimension)
	}
	fmt.Fprintf(&sb, "Submeshes: %d\n", src.SubMeshCount())
	for i := 0; i < src.SubMeshCount(); i++ {
		fmt.Fprintf(&sb, "  %d: %-9s %d indices\n", i, src.Topology(i), len(src.Indices(i)))
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
