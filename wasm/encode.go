package wasm

import (
	"github.com/wippyai/wasm-resource/wasm/internal/binary"
)

// Encode serializes the module. Non-custom sections are written in their
// stored order; custom sections follow at the end.
func (m *Module) Encode() []byte {
	w := binary.NewWriter()

	version := m.Version
	if version == 0 {
		version = Version
	}
	w.WriteU32LE(Magic)
	w.WriteU32LE(version)

	for _, s := range m.Sections {
		w.Section(s.ID, s.Data)
	}

	for _, cs := range m.CustomSections {
		sec := binary.NewWriter()
		sec.WriteName(cs.Name)
		sec.WriteBytes(cs.Data)
		w.Section(SectionCustom, sec.Bytes())
	}

	return w.Bytes()
}

// NameSectionData encodes a name section payload holding only the module
// name subsection. The same layout serves the component-name section.
func NameSectionData(name string) []byte {
	sub := binary.NewWriter()
	sub.WriteName(name)

	w := binary.NewWriter()
	w.Byte(nameSubsectionModule)
	w.WriteU32(uint32(sub.Len()))
	w.WriteBytes(sub.Bytes())
	return w.Bytes()
}
