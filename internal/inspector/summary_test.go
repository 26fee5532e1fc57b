package inspector

import (
	"strings"
	"testing"

	"github.com/Faultbox/meshinfo/pkg/mesh"
)

func TestWriteSummary(t *testing.T) {
	var b strings.Builder
	if err := WriteSummary(&b, mesh.Cube(2)); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	for _, want := range []string{
		"Mesh:      Cube\n",
		"Vertices:  24\n",
		"Bounds:    (-0.5, -0.5, -0.5) - (0.5, 0.5, 0.5)\n",
		"  Tangent       x4\n",
		"Submeshes: 2\n",
		"  1: Triangles 18 indices\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
