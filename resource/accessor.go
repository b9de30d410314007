package resource

import (
	"encoding/xml"
	"io"
	"io/fs"
	"reflect"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	wasmresource "github.com/wippyai/wasm-resource"
	"github.com/wippyai/wasm-resource/errors"
	"github.com/wippyai/wasm-resource/xmlcodec"
	"github.com/wippyai/wasm-resource/xmltree"
)

// XMLDecoder maps an XML stream onto a Go value. *xmlcodec.Serializer
// implements it.
//
// Implementations must set v to its zero value when the content holds no
// value (no root element, or a root marked xsi:nil).
type XMLDecoder interface {
	Decode(r io.Reader, v any) error
	DecodeRoot(r io.Reader, v any, root xml.Name) error
	DecodeCached(r io.Reader, v any, key any, ov *xmlcodec.Overrides) error
}

var _ XMLDecoder = (*xmlcodec.Serializer)(nil)

// Accessor reads embedded resources out of modules. It keeps no state
// between calls; every stream it opens is released before the call returns,
// except the one handed out by OpenStream.
type Accessor struct {
	decoder   XMLDecoder
	log       *zap.Logger
	observers []Observer
}

// Option configures an Accessor.
type Option func(*Accessor)

// WithDecoder sets the XML collaborator. Defaults to xmlcodec.Default().
func WithDecoder(d XMLDecoder) Option {
	return func(a *Accessor) {
		a.decoder = d
	}
}

// WithObserver adds an observer for stream lifecycle events.
func WithObserver(o Observer) Option {
	return func(a *Accessor) {
		if o != nil {
			a.observers = append(a.observers, o)
		}
	}
}

// WithLogger sets the logger. Defaults to the package Logger().
func WithLogger(l *zap.Logger) Option {
	return func(a *Accessor) {
		a.log = l
	}
}

// NewAccessor creates an Accessor.
func NewAccessor(opts ...Option) *Accessor {
	a := &Accessor{}
	for _, opt := range opts {
		opt(a)
	}
	if a.decoder == nil {
		a.decoder = xmlcodec.Default()
	}
	if a.log == nil {
		a.log = Logger()
	}
	return a
}

var (
	defaultAccessor *Accessor
	defaultOnce     sync.Once
)

// Default returns the process-wide Accessor backed by xmlcodec.Default().
func Default() *Accessor {
	defaultOnce.Do(func() {
		defaultAccessor = NewAccessor()
	})
	return defaultAccessor
}

// OpenStream opens the named resource of m. The caller owns the returned
// stream and must close it.
func (a *Accessor) OpenStream(m wasmresource.Module, name string) (io.ReadCloser, error) {
	if isNilModule(m) {
		return nil, errors.InvalidArgument(errors.PhaseOpen, "module is nil")
	}

	rc, err := m.OpenResource(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.ResourceNotFound(name, m.Name(), err)
		}
		openErr := errors.Wrap(errors.PhaseOpen, errors.KindIO, err, "open failed")
		openErr.Resource = name
		openErr.Module = m.Name()
		return nil, openErr
	}
	if rc == nil {
		openErr := errors.InvalidData(errors.PhaseOpen, "module returned no stream")
		openErr.Resource = name
		openErr.Module = m.Name()
		return nil, openErr
	}

	s := &stream{ReadCloser: rc, owner: a, module: m.Name(), name: name}
	a.emit(s, EventOpened)
	return s, nil
}

// ReadText reads the whole resource as text. A UTF-8, UTF-16LE or UTF-16BE
// byte order mark selects the encoding; without one the content is UTF-8.
// Invalid sequences decode to U+FFFD.
func (a *Accessor) ReadText(m wasmresource.Module, name string) (string, error) {
	rc, err := a.OpenStream(m, name)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	text, err := io.ReadAll(transform.NewReader(rc, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	if err != nil {
		return "", errors.ReadFailed(name, m.Name(), err)
	}
	return string(text), nil
}

// ReadBytes reads the raw resource content.
func (a *Accessor) ReadBytes(m wasmresource.Module, name string) ([]byte, error) {
	rc, err := a.OpenStream(m, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.ReadFailed(name, m.Name(), err)
	}
	return data, nil
}

// Exists reports whether m has a resource called name.
func (a *Accessor) Exists(m wasmresource.Module, name string) (bool, error) {
	rc, err := a.OpenStream(m, name)
	if errors.IsKind(err, errors.KindNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, rc.Close()
}

// ReadXMLTree reads the resource as text and parses it into a tree. The
// encoding named by the XML declaration is ignored.
func (a *Accessor) ReadXMLTree(m wasmresource.Module, name string) (*xmltree.Document, error) {
	text, err := a.ReadText(m, name)
	if err != nil {
		return nil, err
	}

	doc, err := xmltree.ParseString(text)
	if err != nil {
		e := errors.MalformedXML(name, err)
		e.Module = m.Name()
		return nil, e
	}
	return doc, nil
}

// ReadTyped deserialises the resource into a T. A nil a means Default().
// Content that holds no value yields the zero T. Errors from the XML
// collaborator are returned unchanged.
func ReadTyped[T any](a *Accessor, m wasmresource.Module, name string) (T, error) {
	return readTyped[T](a, m, name, func(d XMLDecoder, r io.Reader, v any) error {
		return d.Decode(r, v)
	})
}

// ReadTypedRoot is ReadTyped with the document root required to be root.
func ReadTypedRoot[T any](a *Accessor, m wasmresource.Module, name string, root xml.Name) (T, error) {
	return readTyped[T](a, m, name, func(d XMLDecoder, r io.Reader, v any) error {
		return d.DecodeRoot(r, v, root)
	})
}

// ReadTypedCached is ReadTyped with field overrides. The collaborator's plan
// is cached under key, so callers may pass a freshly built override set on
// every call.
func ReadTypedCached[T any](a *Accessor, m wasmresource.Module, name string, key any, ov *xmlcodec.Overrides) (T, error) {
	return readTyped[T](a, m, name, func(d XMLDecoder, r io.Reader, v any) error {
		return d.DecodeCached(r, v, key, ov)
	})
}

func readTyped[T any](a *Accessor, m wasmresource.Module, name string, decode func(XMLDecoder, io.Reader, any) error) (T, error) {
	var zero T
	if a == nil {
		a = Default()
	}

	rc, err := a.OpenStream(m, name)
	if err != nil {
		return zero, err
	}
	defer rc.Close()

	var v T
	if err := decode(a.decoder, rc, &v); err != nil {
		return zero, err
	}
	return v, nil
}

func (a *Accessor) emit(s *stream, t EventType) {
	if ce := a.log.Check(zap.DebugLevel, "resource stream "+t.String()); ce != nil {
		ce.Write(zap.String("module", s.module), zap.String("resource", s.name))
	}
	if len(a.observers) == 0 {
		return
	}
	e := Event{Module: s.module, Resource: s.name, Type: t}
	for _, o := range a.observers {
		o.OnResourceEvent(e)
	}
}

// stream releases the provider's stream once, however often Close is called.
type stream struct {
	io.ReadCloser
	owner    *Accessor
	module   string
	name     string
	released atomic.Bool
}

func (s *stream) Close() error {
	if !s.released.CompareAndSwap(false, true) {
		return nil
	}
	err := s.ReadCloser.Close()
	s.owner.emit(s, EventReleased)
	return err
}

func isNilModule(m wasmresource.Module) bool {
	if m == nil {
		return true
	}
	v := reflect.ValueOf(m)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
