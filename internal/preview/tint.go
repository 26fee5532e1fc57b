package preview

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

const goldenRatioConjugate = 0.618

// SubMeshTint returns the tint of submesh i. Hues step by the golden ratio
// so neighbouring submeshes stay apart; submesh 0 is untinted white.
func SubMeshTint(i int) mgl32.Vec4 {
	h, s := subMeshHSV(i)
	c := colorful.Hsv(h*360, s, 1)
	return mgl32.Vec4{float32(c.R), float32(c.G), float32(c.B), 1}
}

func subMeshHSV(i int) (hue, sat float64) {
	hue = math.Mod(float64(i)*goldenRatioConjugate, 1)
	if hue < 0 {
		hue++
	}
	if i != 0 {
		sat = 0.3
	}
	return hue, sat
}
