package loader

import (
	"io"

	"github.com/Carmen-Shannon/umbra-go/common"
	"github.com/Carmen-Shannon/umbra-go/engine/model"
)

// ImportedMesh is the CPU-side result of importing one drawable chunk of a
// model file: a unified vertex stream, its triangle indices, and the name of
// the material the source file assigned to it.
type ImportedMesh struct {
	// Name is the mesh identifier from the source file (object/group name,
	// or the material name for material-split meshes).
	Name string

	// MaterialName is the material assigned to this mesh in the source file.
	// Empty when the file declared no material for these faces.
	MaterialName string

	// Vertices is the unified vertex stream. Source files index positions,
	// texture coordinates, and normals independently; the backend unifies
	// them into one stream so the GPU can index a single buffer.
	Vertices []model.GPUVertex

	// Indices is the triangulated index stream into Vertices.
	Indices []uint32
}

// ImportedModel is the CPU-side result of a full model import: one mesh per
// material range plus the materials parsed from the companion library file.
type ImportedModel struct {
	// Name is the model identifier (file name without extension, or the
	// caller-provided name for stream imports).
	Name string

	// Meshes holds the imported meshes in source file order.
	Meshes []ImportedMesh

	// Materials holds the imported materials in library file order.
	Materials []common.ImportedMaterial
}

// loaderBackend defines the generic interface for loading models from files or
// streams. Concrete implementations (e.g., objLoaderBackend) handle
// format-specific details.
type loaderBackend interface {
	// Load performs a full model import from the given file path, including
	// any companion material library files referenced by the model file.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *ImportedModel: the imported model data
	//   - error: error if loading fails
	Load(path string) (*ImportedModel, error)

	// LoadReader imports a model from a reader stream. Material library
	// references cannot be resolved without a base directory, so stream
	// imports produce meshes only.
	//
	// Parameters:
	//   - name: the model name to assign to the import
	//   - r: the reader providing model data
	//
	// Returns:
	//   - *ImportedModel: the imported model data
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader) (*ImportedModel, error)
}
