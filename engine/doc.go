// Package engine loads WebAssembly binaries and serves their custom sections
// as named resources.
//
// Core modules are compiled by wazero with custom section retention enabled,
// so loading also validates the code. Components cannot be compiled by
// wazero and are scanned at the section level by the wasm package instead.
//
//	eng, err := engine.NewWazeroEngineWithConfig(ctx, &engine.Config{
//	    CacheDir: "/var/cache/wasmres",
//	})
//	defer eng.Close(ctx)
//
//	mod, err := eng.LoadFile(ctx, "app.wasm")
//	defer mod.Close(ctx)
//
//	text, err := resource.Default().ReadText(mod, "config.xml")
//
// # Configuration
//
//	CacheDir          - wazero compilation cache directory
//	MemoryLimitPages  - memory cap applied by the runtime
//	Interpreter       - use the interpreter instead of the compiler
//	ScanOnly          - never compile, only scan sections
//
// # Resources
//
// Each custom section is one resource. When several sections share a name
// the first one is served. The "name" and "component-name" sections supply
// Name() and are not resources.
//
// # Thread Safety
//
// WazeroEngine and WazeroModule are safe for concurrent use. Streams
// returned by OpenResource are not.
package engine
