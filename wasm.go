package wasmresource

import (
	"fmt"
	"io"
	"io/fs"
)

// ErrResourceNotExist is returned by Module implementations when a resource
// name is absent from the module's resource table. It matches fs.ErrNotExist.
var ErrResourceNotExist = fmt.Errorf("resource does not exist: %w", fs.ErrNotExist)

// Module is a loaded unit of code with a table of named embedded resources.
//
// Resource names are matched exactly and are case-sensitive. A successful
// OpenResource returns a stream positioned at offset zero; the caller owns
// it and must close it.
type Module interface {
	// Name identifies the module in error messages. It may be empty.
	Name() string

	// OpenResource opens the named resource. Absent names fail with an
	// error matching ErrResourceNotExist.
	OpenResource(name string) (io.ReadCloser, error)
}

// ResourceLister is implemented by modules that can enumerate their resources.
type ResourceLister interface {
	ResourceNames() []string
}
