package md3

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// normalTable maps an encoded (latitude, longitude) byte pair to a unit vector.
// Built on first use, read-only afterwards.
var normalTable = sync.OnceValue(buildNormalTable)

func buildNormalTable() *[256][256]mgl32.Vec3 {
	var t [256][256]mgl32.Vec3
	for i := 0; i < 256; i++ {
		for j := 0; j < 256; j++ {
			t[i][j] = sphericalNormal(i, j)
		}
	}
	return &t
}

// sphericalNormal evaluates the lattice formula in double precision and
// rounds once to float32.
func sphericalNormal(i, j int) mgl32.Vec3 {
	lat := float32(2 * float64(i) * math.Pi / 255)
	lng := float32(2 * float64(j) * math.Pi / 255)
	return mgl32.Vec3{
		float32(math.Cos(float64(lng)) * math.Sin(float64(lat))),
		float32(math.Sin(float64(lng)) * math.Sin(float64(lat))),
		float32(math.Cos(float64(lat))),
	}
}

// DecodeNormal returns the unit normal for a stored (latitude, longitude) pair.
func DecodeNormal(lat, lng byte) mgl32.Vec3 {
	return normalTable()[lat][lng]
}

// DecodePosition converts a raw int16 triple to model units.
func DecodePosition(raw [3]int16) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(raw[0]) * PositionScale,
		float32(raw[1]) * PositionScale,
		float32(raw[2]) * PositionScale,
	}
}
