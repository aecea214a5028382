package raster

import (
	"image/color"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// Light is a directional light in view space.
type Light struct {
	Dir       mgl64.Vec3
	Intensity float64
}

// Lighting is the studio rig every frame is lit with: a key light, a rim
// light from behind, a hemisphere fill and a Blinn-Phong highlight, followed
// by ACES tone mapping in linear space.
type Lighting struct {
	Key       Light
	Rim       Light
	Ambient   float64
	Hemi      float64
	Specular  float64
	Shininess float64
	Exposure  float64

	half     mgl64.Vec3 // Blinn-Phong half vector of the key light
	invGamma float64
}

// StudioLighting returns the rig used for every render.
func StudioLighting() *Lighting {
	key := Light{Dir: mgl64.Vec3{180, 260, 140}.Normalize(), Intensity: 1.5}
	rim := Light{Dir: mgl64.Vec3{-160, 130, -210}.Normalize(), Intensity: 0.6}
	view := mgl64.Vec3{0, -110, -400}.Normalize()
	return &Lighting{
		Key:       key,
		Rim:       rim,
		Ambient:   0.55,
		Hemi:      0.50,
		Specular:  0.45,
		Shininess: 12,
		Exposure:  1.05,
		half:      key.Dir.Sub(view).Normalize(),
		invGamma:  1 / 2.2,
	}
}

// Shade returns the light reaching a surface with unit view-space normal n.
// Diffuse terms use |n·l| so back faces of thin geometry are lit too.
func (l *Lighting) Shade(n mgl64.Vec3) float64 {
	hemi := ((1-math.Abs(n[1]))*0.5 + 0.5) * l.Hemi
	highlight := math.Max(n.Dot(l.half), 0)
	return l.Ambient + hemi +
		math.Abs(n.Dot(l.Key.Dir))*l.Key.Intensity +
		math.Abs(n.Dot(l.Rim.Dir))*l.Rim.Intensity +
		math.Pow(highlight, l.Shininess)*l.Specular
}

// Apply lights an sRGB texel with the given shade. Alpha passes through.
func (l *Lighting) Apply(c color.NRGBA, shade float64) color.NRGBA {
	k := shade * l.Exposure
	lin := srgbToLinear()
	return color.NRGBA{
		R: l.encode(lin[c.R] * k),
		G: l.encode(lin[c.G] * k),
		B: l.encode(lin[c.B] * k),
		A: c.A,
	}
}

func (l *Lighting) encode(linear float64) uint8 {
	return clamp255(math.Pow(acesFilm(linear), l.invGamma) * 255)
}

var srgbToLinear = sync.OnceValue(func() *[256]float64 {
	var t [256]float64
	for i := range t {
		t[i] = math.Pow(float64(i)/255, 2.2)
	}
	return &t
})

// acesFilm is the Narkowicz fit of the ACES filmic curve.
func acesFilm(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
