package light

// RegistryOption is a functional option for configuring a Registry during construction.
type RegistryOption func(*registryImpl)

// WithVisibleMarkers sets the initial state of the registry-level marker
// toggle.
//
// Parameters:
//   - visible: true to draw light markers until toggled off
//
// Returns:
//   - RegistryOption: functional option to set the marker toggle
func WithVisibleMarkers(visible bool) RegistryOption {
	return func(r *registryImpl) {
		r.visible = visible
	}
}

// WithWriter attaches the GPU write path at construction time, so the writes
// staged by the very first AddLight reach the queue immediately.
//
// Parameters:
//   - w: the buffer writer (typically the renderer)
//
// Returns:
//   - RegistryOption: functional option to set the writer
func WithWriter(w BufferWriter) RegistryOption {
	return func(r *registryImpl) {
		r.writer = w
	}
}
