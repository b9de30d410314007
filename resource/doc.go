// Package resource reads embedded resources out of modules.
//
// A resource is addressed by a module and a name. The module is anything
// implementing wasmresource.Module: a module loaded by the engine package, a
// binary scanned by the wasm package, or an fs.FS wrapped with NewFSModule.
//
//	acc := resource.Default()
//
//	text, err := acc.ReadText(mod, "config.xml")
//	doc, err := acc.ReadXMLTree(mod, "config.xml")
//	cfg, err := resource.ReadTyped[Config](acc, mod, "config.xml")
//
// # Stream Ownership
//
// OpenStream hands the stream to the caller, who must close it. Every other
// operation opens, consumes and releases its stream before returning,
// whether it succeeds or fails. Closing a stream more than once releases
// the underlying provider stream only the first time.
//
// # Typed Reads
//
// ReadTyped, ReadTypedRoot and ReadTypedCached pass the raw stream to the
// accessor's XMLDecoder (xmlcodec.Default() unless WithDecoder is given).
// The decoder's errors are returned as is. ReadTypedCached forwards the
// caller's cache key, so a caller that rebuilds its override set per call
// still reuses one deserialisation plan.
//
// # Observers
//
// WithObserver registers an Observer that sees EventOpened and
// EventReleased for every stream the Accessor opens:
//
//	acc := resource.NewAccessor(resource.WithObserver(resource.ObserverFunc(func(e resource.Event) {
//	    log.Printf("%s %s/%s", e.Type, e.Module, e.Resource)
//	})))
//
// # Errors
//
// Failures are *errors.Error values: KindInvalidArgument for a nil module,
// KindNotFound for an absent name, KindIO for read failures and
// KindMalformedXML when ReadXMLTree is given text that is not well-formed.
package resource
