// Package wasmresource reads named resources embedded in compiled WebAssembly
// modules and components, and optionally maps XML resources onto Go types.
//
// A WebAssembly binary carries arbitrary named blobs in custom sections.
// This module treats those sections as a resource table: a resource is
// looked up by exact, case-sensitive name and read as a stream, as text,
// as an XML tree, or as a typed Go value.
//
// # Architecture Overview
//
//	wasmresource/        Root package with the Module interface and Stream
//	├── engine/          wazero integration: compile modules, expose custom sections
//	├── wasm/            Section-level scanner for core modules and components
//	├── resource/        Accessor: open, read as text, XML tree or typed value
//	├── xmlcodec/        XML to Go mapping with cached, override-aware plans
//	├── xmltree/         Immutable XML element tree
//	├── errors/          Structured error types
//	└── cmd/wasmres/     Command line and interactive resource browser
//
// # Quick Start
//
//	eng, err := engine.NewWazeroEngine(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close(ctx)
//
//	mod, err := eng.LoadModule(ctx, wasmBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	text, err := resource.Default().ReadText(mod, "config.xml")
//
//	type Person struct {
//	    Name string
//	}
//	p, err := resource.ReadTyped[Person](nil, mod, "person.xml")
//
// # Resource Ownership
//
// OpenStream hands the stream to the caller, who must close it. Every other
// read operation closes the stream it opened before returning, on success
// and on failure.
//
// # Thread Safety
//
// The accessor holds no state between calls and may be used from any number
// of goroutines. The xmlcodec Serializer cache is safe for concurrent use.
package wasmresource
