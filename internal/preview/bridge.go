package preview

// SelectionBridge carries the table selection to the renderer. The table
// side publishes, the renderer reads; nothing flows back.
type SelectionBridge struct {
	indices []int
}

// NewSelectionBridge creates an empty bridge.
func NewSelectionBridge() *SelectionBridge {
	return &SelectionBridge{}
}

// Publish replaces the highlighted vertex indices. The slice is copied and
// not filtered; the renderer bounds-checks against its mesh.
func (b *SelectionBridge) Publish(indices []int) {
	b.indices = append(b.indices[:0], indices...)
}

// Clear empties the bridge.
func (b *SelectionBridge) Clear() { b.indices = b.indices[:0] }

// Highlighted returns the published indices. Callers must not modify it.
func (b *SelectionBridge) Highlighted() []int {
	if b == nil {
		return nil
	}
	return b.indices
}
