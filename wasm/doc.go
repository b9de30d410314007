// Package wasm provides section-level scanning of WebAssembly binaries.
//
// The scanner validates the header, walks the section framing and decodes
// custom sections, the named blobs a compiled module carries alongside its
// code. Other sections are kept as opaque payloads. Both core modules
// (version 1) and component binaries (layer 1) are accepted.
//
// # Parsing
//
//	data, _ := os.ReadFile("plugin.wasm")
//	module, err := wasm.ParseModule(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, name := range module.ResourceNames() {
//	    fmt.Println(name)
//	}
//
// A parsed Module satisfies wasmresource.Module, so it can be handed
// directly to the resource accessor without going through wazero.
//
// # Names
//
// Name returns the module name recorded in the "name" custom section, or the
// component name recorded in "component-name" for components. Malformed name
// sections are ignored.
//
// # Encoding
//
// Encode writes the module back to binary. Custom sections are written after
// all other sections, so round-tripping preserves content but not the
// original interleaving of custom sections.
package wasm
