package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/umbra-go/common"
	"github.com/Carmen-Shannon/umbra-go/common/logger"
	"github.com/Carmen-Shannon/umbra-go/engine/model"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// objLoaderBackend implements loaderBackend for Wavefront OBJ files and their
// companion MTL material libraries.
type objLoaderBackend struct{}

var _ loaderBackend = &objLoaderBackend{}

// newOBJLoaderBackend creates a new OBJ loader backend.
//
// Returns:
//   - loaderBackend: the OBJ backend
func newOBJLoaderBackend() loaderBackend {
	return &objLoaderBackend{}
}

func (b *objLoaderBackend) Load(path string) (*ImportedModel, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	imported, err := b.parse(name, file, filepath.Dir(path))
	if err != nil {
		return nil, err
	}

	logger.Log.Debug("loaded obj model",
		zap.String("path", path),
		zap.Int("meshes", len(imported.Meshes)),
		zap.Int("materials", len(imported.Materials)))
	return imported, nil
}

func (b *objLoaderBackend) LoadReader(name string, r io.Reader) (*ImportedModel, error) {
	return b.parse(name, r, "")
}

// faceVertex is one corner of a face: indices into the independent position,
// texture coordinate, and normal streams. Absent components are -1.
type faceVertex struct {
	position int
	texCoord int
	normal   int
}

// objMesh accumulates the unified vertex stream for one material range.
// OBJ indexes positions, texture coordinates, and normals independently per
// face corner; the GPU indexes a single vertex buffer, so each distinct
// (position, texCoord, normal) triplet becomes one unified vertex.
type objMesh struct {
	name         string
	materialName string
	vertices     []model.GPUVertex
	indices      []uint32
	unified      map[faceVertex]uint32
	needsNormals bool
}

// parse reads an OBJ stream into per-material meshes. Faces are grouped by
// the active usemtl material; files without usemtl produce a single mesh.
// Material libraries (mtllib) are resolved relative to baseDir and skipped
// when baseDir is empty.
func (b *objLoaderBackend) parse(name string, r io.Reader, baseDir string) (*ImportedModel, error) {
	var positions [][3]float32
	var texCoords [][2]float32
	var normals [][3]float32
	var materials []common.ImportedMaterial

	meshes := []*objMesh{}
	meshByMaterial := map[string]*objMesh{}
	var active *objMesh
	objectName := name

	// meshFor returns the accumulating mesh for a material name, creating it
	// on first use. Faces for the same material are merged even when usemtl
	// statements are interleaved.
	meshFor := func(materialName string) *objMesh {
		if m, ok := meshByMaterial[materialName]; ok {
			return m
		}
		meshName := objectName
		if materialName != "" {
			meshName = objectName + "_" + materialName
		}
		m := &objMesh{
			name:         meshName,
			materialName: materialName,
			unified:      make(map[faceVertex]uint32),
		}
		meshByMaterial[materialName] = m
		meshes = append(meshes, m)
		return m
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		keyword, args := fields[0], fields[1:]

		switch keyword {
		case "v":
			p, err := parseFloats3(args)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid vertex position: %w", lineNum, err)
			}
			positions = append(positions, p)
		case "vt":
			if len(args) < 2 {
				return nil, fmt.Errorf("line %d: texture coordinate needs 2 components", lineNum)
			}
			u, err1 := parseFloat(args[0])
			v, err2 := parseFloat(args[1])
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("line %d: invalid texture coordinate", lineNum)
			}
			// OBJ texture coordinates are bottom-left origin; the GPU samples
			// top-left, so flip V at import.
			texCoords = append(texCoords, [2]float32{u, 1 - v})
		case "vn":
			n, err := parseFloats3(args)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid vertex normal: %w", lineNum, err)
			}
			normals = append(normals, n)
		case "f":
			if len(args) < 3 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNum)
			}
			if active == nil {
				active = meshFor("")
			}
			corners := make([]faceVertex, len(args))
			for i, arg := range args {
				fv, err := parseFaceVertex(arg, len(positions), len(texCoords), len(normals))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNum, err)
				}
				corners[i] = fv
			}
			if err := active.addFace(corners, positions, texCoords, normals); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
		case "o", "g":
			if len(args) > 0 {
				objectName = args[0]
			}
		case "usemtl":
			if len(args) < 1 {
				return nil, fmt.Errorf("line %d: usemtl needs a material name", lineNum)
			}
			active = meshFor(args[0])
		case "mtllib":
			if baseDir == "" {
				logger.Log.Warn("skipping material library for stream import", zap.String("mtllib", strings.Join(args, " ")))
				continue
			}
			for _, lib := range args {
				mats, err := parseMTL(filepath.Join(baseDir, lib))
				if err != nil {
					return nil, err
				}
				materials = append(materials, mats...)
			}
		case "s":
			// Smoothing groups don't affect the unified vertex stream.
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read obj data: %w", err)
	}

	imported := &ImportedModel{Name: name, Materials: materials}
	for _, m := range meshes {
		if len(m.indices) == 0 {
			continue
		}
		if m.needsNormals {
			recalculateNormals(m.vertices, m.indices)
		}
		imported.Meshes = append(imported.Meshes, ImportedMesh{
			Name:         m.name,
			MaterialName: m.materialName,
			Vertices:     m.vertices,
			Indices:      m.indices,
		})
	}
	if len(imported.Meshes) == 0 {
		return nil, fmt.Errorf("model %q contains no faces", name)
	}
	return imported, nil
}

// addFace triangulates a face and appends the resulting triangles, unifying
// each distinct index triplet into a single vertex. Faces with more than three
// corners are fan-triangulated from the first corner.
func (m *objMesh) addFace(corners []faceVertex, positions [][3]float32, texCoords [][2]float32, normals [][3]float32) error {
	unified := make([]uint32, len(corners))
	for i, fv := range corners {
		idx, ok := m.unified[fv]
		if !ok {
			vertex := model.GPUVertex{Position: positions[fv.position]}
			if fv.texCoord >= 0 {
				vertex.TexCoord = texCoords[fv.texCoord]
			}
			if fv.normal >= 0 {
				vertex.Normal = normals[fv.normal]
			} else {
				m.needsNormals = true
			}
			idx = uint32(len(m.vertices))
			m.vertices = append(m.vertices, vertex)
			m.unified[fv] = idx
		}
		unified[i] = idx
	}

	for i := 2; i < len(unified); i++ {
		m.indices = append(m.indices, unified[0], unified[i-1], unified[i])
	}
	return nil
}

// parseFaceVertex parses one face corner in v, v/vt, v//vn, or v/vt/vn form.
// Indices are 1-based; negative indices count back from the end of the
// respective stream.
func parseFaceVertex(arg string, positionCount, texCoordCount, normalCount int) (faceVertex, error) {
	parts := strings.Split(arg, "/")
	fv := faceVertex{position: -1, texCoord: -1, normal: -1}

	resolve := func(raw string, count int, kind string) (int, error) {
		idx, err := strconv.Atoi(raw)
		if err != nil {
			return -1, fmt.Errorf("invalid %s index %q", kind, raw)
		}
		if idx < 0 {
			idx = count + idx
		} else {
			idx--
		}
		if idx < 0 || idx >= count {
			return -1, fmt.Errorf("%s index %q out of range (have %d)", kind, raw, count)
		}
		return idx, nil
	}

	var err error
	if fv.position, err = resolve(parts[0], positionCount, "position"); err != nil {
		return fv, err
	}
	if len(parts) > 1 && parts[1] != "" {
		if fv.texCoord, err = resolve(parts[1], texCoordCount, "texture coordinate"); err != nil {
			return fv, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if fv.normal, err = resolve(parts[2], normalCount, "normal"); err != nil {
			return fv, err
		}
	}
	return fv, nil
}

// recalculateNormals rebuilds vertex normals from face geometry for meshes
// whose source file omitted vn statements. Each face normal is accumulated
// onto its three vertices and the sums are normalized, giving area-weighted
// smooth shading.
func recalculateNormals(vertices []model.GPUVertex, indices []uint32) {
	for i := range vertices {
		vertices[i].Normal = [3]float32{}
	}

	for i := 0; i+2 < len(indices); i += 3 {
		a := mgl32.Vec3(vertices[indices[i]].Position)
		b := mgl32.Vec3(vertices[indices[i+1]].Position)
		c := mgl32.Vec3(vertices[indices[i+2]].Position)
		faceNormal := b.Sub(a).Cross(c.Sub(a))

		for _, idx := range indices[i : i+3] {
			n := mgl32.Vec3(vertices[idx].Normal).Add(faceNormal)
			vertices[idx].Normal = [3]float32(n)
		}
	}

	for i := range vertices {
		n := mgl32.Vec3(vertices[i].Normal)
		if n.Len() > 0 {
			vertices[i].Normal = [3]float32(n.Normalize())
		}
	}
}

// parseMTL reads a Wavefront material library. Texture paths are resolved
// relative to the library file's directory.
func parseMTL(path string) ([]common.ImportedMaterial, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open material library %s: %w", path, err)
	}
	defer file.Close()

	baseDir := filepath.Dir(path)
	var materials []common.ImportedMaterial
	var current *common.ImportedMaterial

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		keyword, args := fields[0], fields[1:]

		if keyword == "newmtl" {
			if len(args) < 1 {
				return nil, fmt.Errorf("%s line %d: newmtl needs a name", path, lineNum)
			}
			materials = append(materials, common.ImportedMaterial{
				Name:         args[0],
				DiffuseColor: [4]float32{1, 1, 1, 1},
			})
			current = &materials[len(materials)-1]
			continue
		}
		if current == nil {
			continue
		}

		switch keyword {
		case "Kd":
			c, err := parseFloats3(args)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: invalid Kd: %w", path, lineNum, err)
			}
			current.DiffuseColor[0], current.DiffuseColor[1], current.DiffuseColor[2] = c[0], c[1], c[2]
		case "Ka":
			c, err := parseFloats3(args)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: invalid Ka: %w", path, lineNum, err)
			}
			current.AmbientColor = c
		case "Ks":
			c, err := parseFloats3(args)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: invalid Ks: %w", path, lineNum, err)
			}
			current.SpecularColor = c
		case "Ns":
			if len(args) < 1 {
				continue
			}
			v, err := parseFloat(args[0])
			if err != nil {
				return nil, fmt.Errorf("%s line %d: invalid Ns: %w", path, lineNum, err)
			}
			current.SpecularExponent = v
		case "d":
			if len(args) < 1 {
				continue
			}
			v, err := parseFloat(args[0])
			if err != nil {
				return nil, fmt.Errorf("%s line %d: invalid d: %w", path, lineNum, err)
			}
			current.DiffuseColor[3] = v
		case "map_Kd":
			if len(args) < 1 {
				continue
			}
			// Texture options aren't supported; the path is the last argument.
			texPath := filepath.Join(baseDir, args[len(args)-1])
			current.DiffuseTexturePath = texPath
			current.DiffuseTexture = &common.ImportedTexture{
				Name: current.Name + "_diffuse",
				Path: texPath,
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read material library %s: %w", path, err)
	}
	return materials, nil
}

func parseFloat(s string) (float32, error) {
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, err
	}
	return float32(v), nil
}

func parseFloats3(args []string) ([3]float32, error) {
	var out [3]float32
	if len(args) < 3 {
		return out, fmt.Errorf("need 3 components, have %d", len(args))
	}
	for i := 0; i < 3; i++ {
		v, err := parseFloat(args[i])
		if err != nil {
			return out, err
		}
		out[i] = v
	}
	return out, nil
}
