package wasm

import (
	"errors"
	"fmt"

	"github.com/wippyai/wasm-resource/wasm/internal/binary"
)

// Parsing errors returned by ParseModule.
var (
	ErrInvalidMagic   = errors.New("invalid wasm magic number")
	ErrInvalidVersion = errors.New("invalid wasm version")
)

// ParseModule scans a WebAssembly core module or component binary.
// Section framing and custom sections are decoded; the contents of other
// sections are not validated.
func ParseModule(data []byte) (*Module, error) {
	r := binary.NewReader(data, 0)

	magic, err := r.ReadU32LE()
	if err != nil {
		return nil, r.WrapError("header", err)
	}
	if magic != Magic {
		return nil, ErrInvalidMagic
	}

	version, err := r.ReadU32LE()
	if err != nil {
		return nil, r.WrapError("header", err)
	}
	if version != Version && version>>16 != componentLayer {
		return nil, fmt.Errorf("%w: 0x%08x", ErrInvalidVersion, version)
	}

	m := &Module{Version: version}
	component := m.IsComponent()

	var lastSectionOrder int

	for r.Len() > 0 {
		sectionStart := r.Position()
		sectionID, err := r.ReadByte()
		if err != nil {
			return nil, r.WrapError("section header", err)
		}

		if component {
			if sectionID > maxComponentSectionID {
				return nil, r.WrapError("section header", fmt.Errorf("unknown component section ID: 0x%02x", sectionID))
			}
		} else if sectionID != SectionCustom {
			order := sectionOrder(sectionID)
			if order == 0 {
				return nil, r.WrapError("section header", fmt.Errorf("unknown section ID: 0x%02x", sectionID))
			}
			if order <= lastSectionOrder {
				return nil, r.WrapError("section header", fmt.Errorf("section %d appears out of order", sectionID))
			}
			lastSectionOrder = order
		}

		sectionSize, err := r.ReadU32()
		if err != nil {
			return nil, r.WrapError("section size", err)
		}

		payloadStart := r.Position()
		payload, err := r.ReadBytes(int(sectionSize))
		if err != nil {
			return nil, r.WrapError("section data", err)
		}

		if sectionID != SectionCustom {
			m.Sections = append(m.Sections, Section{ID: sectionID, Data: payload})
			continue
		}

		cs, err := parseCustomSection(binary.NewReader(payload, payloadStart))
		if err != nil {
			return nil, fmt.Errorf("custom section at %d: %w", sectionStart, err)
		}
		m.CustomSections = append(m.CustomSections, cs)
	}

	m.name = moduleName(m)
	return m, nil
}

// sectionOrder returns the canonical ordering for a core section ID, or 0
// for unknown IDs. The order differs from the numeric IDs.
func sectionOrder(id byte) int {
	switch id {
	case SectionType:
		return 1
	case SectionImport:
		return 2
	case SectionFunction:
		return 3
	case SectionTable:
		return 4
	case SectionMemory:
		return 5
	case SectionTag:
		return 6
	case SectionGlobal:
		return 7
	case SectionExport:
		return 8
	case SectionStart:
		return 9
	case SectionElement:
		return 10
	case SectionDataCount:
		return 11
	case SectionCode:
		return 12
	case SectionData:
		return 13
	default:
		return 0
	}
}

func parseCustomSection(r *binary.Reader) (CustomSection, error) {
	name, err := r.ReadName()
	if err != nil {
		return CustomSection{}, r.WrapError("custom section name", err)
	}
	rest, err := r.ReadRemaining()
	if err != nil {
		return CustomSection{}, r.WrapError("custom section data", err)
	}
	return CustomSection{Name: name, Data: rest}, nil
}

// moduleName extracts the module name subsection. Malformed name sections
// are ignored, as they are by validating engines.
func moduleName(m *Module) string {
	section := NameSection
	if m.IsComponent() {
		section = ComponentNameSection
	}
	cs, ok := m.CustomSection(section)
	if !ok {
		return ""
	}

	r := binary.NewReader(cs.Data, 0)
	for r.Len() > 0 {
		id, err := r.ReadByte()
		if err != nil {
			return ""
		}
		size, err := r.ReadU32()
		if err != nil {
			return ""
		}
		sub, err := r.ReadBytes(int(size))
		if err != nil {
			return ""
		}
		if id != nameSubsectionModule {
			continue
		}
		name, err := binary.NewReader(sub, 0).ReadName()
		if err != nil {
			return ""
		}
		return name
	}
	return ""
}
