package resource

import (
	"io"
	"io/fs"

	wasmresource "github.com/wippyai/wasm-resource"
)

// FSModule exposes the regular files of an fs.FS, such as an embed.FS, as
// module resources. Resource names are slash-separated paths.
type FSModule struct {
	fsys fs.FS
	name string
}

var (
	_ wasmresource.Module         = (*FSModule)(nil)
	_ wasmresource.ResourceLister = (*FSModule)(nil)
)

// NewFSModule returns a module named name backed by fsys.
func NewFSModule(name string, fsys fs.FS) *FSModule {
	return &FSModule{fsys: fsys, name: name}
}

// Name returns the module name.
func (m *FSModule) Name() string {
	return m.name
}

// OpenResource opens the file at path name. Directories and invalid
// paths are reported as absent.
func (m *FSModule) OpenResource(name string) (io.ReadCloser, error) {
	if !fs.ValidPath(name) || name == "." {
		return nil, &fs.PathError{Op: "open", Path: name, Err: wasmresource.ErrResourceNotExist}
	}

	f, err := m.fsys.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, &fs.PathError{Op: "open", Path: name, Err: wasmresource.ErrResourceNotExist}
	}
	return f, nil
}

// ResourceNames returns the paths of all regular files in lexical order.
func (m *FSModule) ResourceNames() []string {
	var names []string
	_ = fs.WalkDir(m.fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type().IsRegular() {
			names = append(names, path)
		}
		return nil
	})
	return names
}
