package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quadOBJ = `
# a single quad with full v/vt/vn triplets
v -1 0 -1
v 1 0 -1
v 1 0 1
v -1 0 1
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 1 0
f 1/1/1 2/2/1 3/3/1 4/4/1
`

func TestLoadReaderTriangulatesQuads(t *testing.T) {
	backend := newOBJLoaderBackend()

	imported, err := backend.LoadReader("quad", strings.NewReader(quadOBJ))
	require.NoError(t, err)
	require.Len(t, imported.Meshes, 1)

	mesh := imported.Meshes[0]
	assert.Len(t, mesh.Vertices, 4)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, mesh.Indices)
	assert.Empty(t, imported.Materials)
}

func TestLoadReaderUnifiesVertices(t *testing.T) {
	// Two triangles sharing an edge: corners with identical v/vt/vn triplets
	// must collapse into one unified vertex.
	obj := `
v 0 0 0
v 1 0 0
v 0 1 0
v 1 1 0
vn 0 0 1
f 1//1 2//1 3//1
f 2//1 4//1 3//1
`
	backend := newOBJLoaderBackend()

	imported, err := backend.LoadReader("shared", strings.NewReader(obj))
	require.NoError(t, err)
	require.Len(t, imported.Meshes, 1)

	mesh := imported.Meshes[0]
	assert.Len(t, mesh.Vertices, 4)
	assert.Len(t, mesh.Indices, 6)
	for _, v := range mesh.Vertices {
		assert.Equal(t, [3]float32{0, 0, 1}, v.Normal)
	}
}

func TestLoadReaderFlipsTextureV(t *testing.T) {
	obj := `
v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0.25
vt 1 0.25
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1
`
	backend := newOBJLoaderBackend()

	imported, err := backend.LoadReader("uv", strings.NewReader(obj))
	require.NoError(t, err)

	mesh := imported.Meshes[0]
	require.Len(t, mesh.Vertices, 3)
	assert.InDelta(t, 0.75, mesh.Vertices[0].TexCoord[1], 1e-6)
	assert.InDelta(t, 0.0, mesh.Vertices[2].TexCoord[1], 1e-6)
}

func TestLoadReaderRecalculatesMissingNormals(t *testing.T) {
	// Counter-clockwise triangle in the XY plane should get a +Z normal.
	obj := `
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`
	backend := newOBJLoaderBackend()

	imported, err := backend.LoadReader("flat", strings.NewReader(obj))
	require.NoError(t, err)

	mesh := imported.Meshes[0]
	require.Len(t, mesh.Vertices, 3)
	for _, v := range mesh.Vertices {
		assert.InDelta(t, 0, v.Normal[0], 1e-6)
		assert.InDelta(t, 0, v.Normal[1], 1e-6)
		assert.InDelta(t, 1, v.Normal[2], 1e-6)
	}
}

func TestLoadReaderNegativeIndices(t *testing.T) {
	obj := `
v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
f -3//-1 -2//-1 -1//-1
`
	backend := newOBJLoaderBackend()

	imported, err := backend.LoadReader("relative", strings.NewReader(obj))
	require.NoError(t, err)

	mesh := imported.Meshes[0]
	require.Len(t, mesh.Vertices, 3)
	assert.Equal(t, [3]float32{1, 0, 0}, mesh.Vertices[1].Position)
}

func TestLoadReaderRejectsOutOfRangeIndex(t *testing.T) {
	obj := `
v 0 0 0
v 1 0 0
f 1 2 3
`
	backend := newOBJLoaderBackend()

	_, err := backend.LoadReader("broken", strings.NewReader(obj))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestLoadReaderRejectsEmptyModel(t *testing.T) {
	backend := newOBJLoaderBackend()

	_, err := backend.LoadReader("empty", strings.NewReader("v 0 0 0\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no faces")
}

func TestLoadSplitsMeshesByMaterial(t *testing.T) {
	dir := t.TempDir()

	mtl := `
newmtl red
Kd 1 0 0
Ka 0.1 0 0
Ks 0.5 0.5 0.5
Ns 32
d 0.75

newmtl blue
Kd 0 0 1
map_Kd textures/blue.png
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "box.mtl"), []byte(mtl), 0o644))

	obj := `
mtllib box.mtl
v 0 0 0
v 1 0 0
v 0 1 0
v 1 1 0
vn 0 0 1
usemtl red
f 1//1 2//1 3//1
usemtl blue
f 2//1 4//1 3//1
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "box.obj"), []byte(obj), 0o644))

	l := NewLoader(BackendTypeOBJ)
	m, err := l.Load(filepath.Join(dir, "box.obj"))
	require.NoError(t, err)

	assert.Equal(t, "box", m.Name())
	require.Len(t, m.Meshes(), 2)
	require.Len(t, m.ImportedMaterials(), 2)

	red := m.ImportedMaterials()[0]
	assert.Equal(t, "red", red.Name)
	assert.Equal(t, [4]float32{1, 0, 0, 0.75}, red.DiffuseColor)
	assert.Equal(t, [3]float32{0.1, 0, 0}, red.AmbientColor)
	assert.Equal(t, [3]float32{0.5, 0.5, 0.5}, red.SpecularColor)
	assert.Equal(t, float32(32), red.SpecularExponent)
	assert.Nil(t, red.DiffuseTexture)

	blue := m.ImportedMaterials()[1]
	assert.Equal(t, "blue", blue.Name)
	assert.Equal(t, filepath.Join(dir, "textures", "blue.png"), blue.DiffuseTexturePath)
	require.NotNil(t, blue.DiffuseTexture)

	assert.Equal(t, 0, m.Meshes()[0].MaterialIndex)
	assert.Equal(t, 1, m.Meshes()[1].MaterialIndex)

	// One triangle per material range: 3 indices, 12 bytes.
	for _, mesh := range m.Meshes() {
		assert.Equal(t, 3, mesh.IndexCount)
		assert.Len(t, mesh.IndexData, 12)
		assert.NotNil(t, mesh.Provider)
	}

	require.Len(t, m.RenderMaterials(), 2)
	assert.Equal(t, "mesh", m.RenderMaterials()[0].PipelineKey())
}

func TestLoadCachesByPath(t *testing.T) {
	dir := t.TempDir()
	obj := `
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`
	path := filepath.Join(dir, "tri.obj")
	require.NoError(t, os.WriteFile(path, []byte(obj), 0o644))

	l := NewLoader(BackendTypeOBJ)
	first, err := l.Load(path)
	require.NoError(t, err)
	second, err := l.Load(path)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Same(t, first, l.Get(path))
	assert.Len(t, l.Models(), 1)
}

func TestLoadRejectsUnsupportedFormat(t *testing.T) {
	l := NewLoader(BackendTypeOBJ)

	_, err := l.Load("model.fbx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported model format")
}

func TestLoadGeneratesFallbackMaterial(t *testing.T) {
	l := NewLoader(BackendTypeOBJ)

	m, err := l.LoadReader("bare", strings.NewReader(quadOBJ))
	require.NoError(t, err)

	require.Len(t, m.ImportedMaterials(), 1)
	fallback := m.ImportedMaterials()[0]
	assert.Equal(t, "bare_fallback", fallback.Name)
	require.NotNil(t, fallback.DiffuseTexture)
	assert.NotEmpty(t, fallback.DiffuseTexture.Pixels)
	assert.Equal(t, fallbackTextureSize, fallback.DiffuseTexture.Width)
}

func TestSolidColorTexture(t *testing.T) {
	staging := SolidColorTexture([4]float32{1, 0.5, 0, 1})

	assert.Equal(t, uint32(1), staging.Width)
	assert.Equal(t, uint32(1), staging.Height)
	require.Len(t, staging.Pixels, 4)
	assert.Equal(t, byte(255), staging.Pixels[0])
	assert.Equal(t, byte(128), staging.Pixels[1])
	assert.Equal(t, byte(0), staging.Pixels[2])
	assert.Equal(t, byte(255), staging.Pixels[3])
}

func TestNoiseTextureDeterministic(t *testing.T) {
	a := NoiseTexture(32, 7)
	b := NoiseTexture(32, 7)
	c := NoiseTexture(32, 8)

	assert.Equal(t, uint32(32), a.Width)
	require.Len(t, a.Pixels, 32*32*4)
	assert.Equal(t, a.Pixels, b.Pixels)
	assert.NotEqual(t, a.Pixels, c.Pixels)

	for i := 3; i < len(a.Pixels); i += 4 {
		require.Equal(t, byte(255), a.Pixels[i])
	}
}
