package wasm

import (
	"io"
	"sort"

	wasmresource "github.com/wippyai/wasm-resource"
)

// Module is a section-level view of a WebAssembly core module or component.
// Only custom sections are decoded; every other section is kept as an
// opaque payload.
type Module struct {
	// Version is the raw version field of the binary header.
	Version uint32

	// Sections holds non-custom sections in binary order.
	Sections []Section

	// CustomSections holds custom sections in binary order, including
	// the name sections.
	CustomSections []CustomSection

	name string
}

// Section is a non-custom section with its undecoded payload.
type Section struct {
	Data []byte
	ID   byte
}

// CustomSection holds a named custom section's data.
type CustomSection struct {
	Name string
	Data []byte
}

var (
	_ wasmresource.Module         = (*Module)(nil)
	_ wasmresource.ResourceLister = (*Module)(nil)
)

// IsComponent reports whether the binary is a component rather than a core module.
func (m *Module) IsComponent() bool {
	return m.Version>>16 == componentLayer
}

// Name returns the module name from the name section (core modules) or the
// component-name section (components), or "" when absent.
func (m *Module) Name() string {
	return m.name
}

// CustomSection returns the first custom section with the given name.
func (m *Module) CustomSection(name string) (CustomSection, bool) {
	for _, cs := range m.CustomSections {
		if cs.Name == name {
			return cs, true
		}
	}
	return CustomSection{}, false
}

// CustomSectionNames returns the distinct custom section names in first-seen order.
func (m *Module) CustomSectionNames() []string {
	seen := make(map[string]struct{}, len(m.CustomSections))
	names := make([]string, 0, len(m.CustomSections))
	for _, cs := range m.CustomSections {
		if _, dup := seen[cs.Name]; dup {
			continue
		}
		seen[cs.Name] = struct{}{}
		names = append(names, cs.Name)
	}
	return names
}

// ResourceNames returns the sorted custom section names.
func (m *Module) ResourceNames() []string {
	names := m.CustomSectionNames()
	sort.Strings(names)
	return names
}

// OpenResource returns a stream over the first custom section named name.
func (m *Module) OpenResource(name string) (io.ReadCloser, error) {
	cs, ok := m.CustomSection(name)
	if !ok {
		return nil, wasmresource.ErrResourceNotExist
	}
	return wasmresource.NewStream(cs.Data), nil
}
