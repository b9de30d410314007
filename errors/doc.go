// Package errors provides structured error types for the wasm-resource module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the module identity, resource name, Go type, XML element
// path and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseOpen, errors.KindNotFound).
//		Resource("config.xml").
//		Module("plugin").
//		Detail("no such resource").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.ResourceNotFound("config.xml", "plugin", nil)
//	err := errors.MalformedXML("config.xml", cause)
//
// All errors implement the standard error interface and support errors.Is/As.
// IsKind matches on Kind alone, regardless of phase.
package errors
