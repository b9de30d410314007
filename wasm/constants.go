package wasm

// WebAssembly binary format magic number and versions.
const (
	// Magic is the WebAssembly binary magic number ("\0asm" in little-endian).
	Magic uint32 = 0x6D736100

	// Version is the core module binary format version.
	Version uint32 = 0x01

	// ComponentVersion is the version field of a component binary:
	// version 0x0d in the low half, layer 1 in the high half.
	ComponentVersion uint32 = 0x0001000d

	componentLayer uint32 = 0x01
)

// Core module section IDs. Sections must appear in canonical order,
// except custom sections which can appear anywhere.
const (
	SectionCustom    byte = 0  // Custom section (named resource)
	SectionType      byte = 1  // Type section
	SectionImport    byte = 2  // Import section
	SectionFunction  byte = 3  // Function section
	SectionTable     byte = 4  // Table section
	SectionMemory    byte = 5  // Memory section
	SectionGlobal    byte = 6  // Global section
	SectionExport    byte = 7  // Export section
	SectionStart     byte = 8  // Start section
	SectionElement   byte = 9  // Element section
	SectionCode      byte = 10 // Code section
	SectionData      byte = 11 // Data section
	SectionDataCount byte = 12 // Data count section
	SectionTag       byte = 13 // Tag section
)

// Well-known custom section names that carry debug names rather than resources.
const (
	NameSection          = "name"
	ComponentNameSection = "component-name"

	// nameSubsectionModule is the subsection ID holding the module (or
	// component) name in both name sections.
	nameSubsectionModule byte = 0
)

// maxComponentSectionID is the highest section ID defined for components.
const maxComponentSectionID byte = 11
