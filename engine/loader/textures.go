package loader

import (
	"math/rand"

	"github.com/Carmen-Shannon/umbra-go/common"

	"github.com/aquilax/go-perlin"
)

// SolidColorTexture builds a 1x1 texture of the given RGBA color. Materials
// without a diffuse map bind one of these so every material shares the same
// texture-and-sampler group shape.
//
// Parameters:
//   - color: the RGBA color, components in [0, 1]
//
// Returns:
//   - common.TextureStagingData: the staged 1x1 texture
func SolidColorTexture(color [4]float32) common.TextureStagingData {
	pixel := make([]byte, 4)
	for i, c := range color {
		pixel[i] = floatToByte(c)
	}
	return common.TextureStagingData{
		Pixels: pixel,
		Width:  1,
		Height: 1,
	}
}

// NoiseTexture builds a size x size texture of Perlin noise tinted with a
// seed-derived base color. Models imported without any material library get
// one of these so untextured geometry still reads as a surface instead of a
// flat fill. The same seed always produces the same texture.
//
// Parameters:
//   - size: the texture edge length in pixels
//   - seed: the noise and tint seed
//
// Returns:
//   - common.TextureStagingData: the staged noise texture
func NoiseTexture(size int, seed int64) common.TextureStagingData {
	rng := rand.New(rand.NewSource(seed))
	tint := [3]float32{
		0.5 + rng.Float32()*0.5,
		0.5 + rng.Float32()*0.5,
		0.5 + rng.Float32()*0.5,
	}

	noise := perlin.NewPerlin(2, 2, 3, seed)
	scale := 8.0 / float64(size)

	pixels := make([]byte, size*size*4)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			// Noise2D returns roughly [-0.7, 0.7]; remap into [0, 1].
			v := float32(noise.Noise2D(float64(x)*scale, float64(y)*scale))
			v = v*0.7 + 0.5

			i := (y*size + x) * 4
			pixels[i] = floatToByte(v * tint[0])
			pixels[i+1] = floatToByte(v * tint[1])
			pixels[i+2] = floatToByte(v * tint[2])
			pixels[i+3] = 255
		}
	}
	return common.TextureStagingData{
		Pixels: pixels,
		Width:  uint32(size),
		Height: uint32(size),
	}
}

func floatToByte(v float32) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(v*255 + 0.5)
}
