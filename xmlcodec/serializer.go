package xmlcodec

import (
	"encoding/xml"
	"fmt"
	"io"
	"reflect"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-resource/errors"
)

const xsiNamespace = "http://www.w3.org/2001/XMLSchema-instance"

type keyKind uint8

const (
	keyPlain keyKind = iota
	keyRoot
	keyCaller
)

type planKey struct {
	typ  reflect.Type
	key  any
	kind keyKind
}

// Serializer maps XML documents onto Go values using encoding/xml. Plans
// derived from a type and its root override or override set are cached.
// A Serializer is safe for concurrent use.
type Serializer struct {
	charset func(label string, input io.Reader) (io.Reader, error)
	log     *zap.Logger
	cache   sync.Map // planKey -> *plan
	hits    atomic.Uint64
	misses  atomic.Uint64
	plans   atomic.Int64
	strict  bool
}

// Stats reports plan cache activity.
type Stats struct {
	Hits   uint64
	Misses uint64
	Plans  int64
}

// Option configures a Serializer.
type Option func(*Serializer)

// WithStrict sets xml.Decoder.Strict. Serializers are strict by default.
func WithStrict(strict bool) Option {
	return func(s *Serializer) {
		s.strict = strict
	}
}

// WithCharsetReader replaces the reader used for non-UTF-8 declared encodings.
func WithCharsetReader(fn func(label string, input io.Reader) (io.Reader, error)) Option {
	return func(s *Serializer) {
		s.charset = fn
	}
}

// WithLogger sets the logger. Defaults to the package Logger().
func WithLogger(l *zap.Logger) Option {
	return func(s *Serializer) {
		s.log = l
	}
}

// New creates a Serializer.
func New(opts ...Option) *Serializer {
	s := &Serializer{
		charset: CharsetReader,
		strict:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = Logger()
	}
	return s
}

var (
	defaultSerializer *Serializer
	defaultOnce       sync.Once
)

// Default returns the process-wide Serializer.
func Default() *Serializer {
	defaultOnce.Do(func() {
		defaultSerializer = New()
	})
	return defaultSerializer
}

// Stats returns a snapshot of the plan cache counters.
func (s *Serializer) Stats() Stats {
	return Stats{
		Hits:   s.hits.Load(),
		Misses: s.misses.Load(),
		Plans:  s.plans.Load(),
	}
}

// Decode reads one XML document from r into v, which must be a non-nil pointer.
// Content with no root element, or a root marked xsi:nil, sets v to its zero value.
func (s *Serializer) Decode(r io.Reader, v any) error {
	typ, err := target(v)
	if err != nil {
		return err
	}
	p, err := s.plan(planKey{typ: typ, kind: keyPlain}, func() (*plan, error) {
		return compilePlan(typ, nil, nil)
	})
	if err != nil {
		return err
	}
	return s.decode(p, r, v)
}

// DecodeRoot is Decode with the document root required to be root. The
// namespace is compared only when root.Space is set.
func (s *Serializer) DecodeRoot(r io.Reader, v any, root xml.Name) error {
	typ, err := target(v)
	if err != nil {
		return err
	}
	if root.Local == "" {
		return errors.InvalidArgument(errors.PhasePlan, "root override has no local name")
	}
	p, err := s.plan(planKey{typ: typ, kind: keyRoot, key: root}, func() (*plan, error) {
		return compilePlan(typ, &root, nil)
	})
	if err != nil {
		return err
	}
	return s.decode(p, r, v)
}

// DecodeCached is Decode with field overrides. The plan is cached under key,
// which must be comparable; ov is only read when no plan exists for key.
// A nil key disables caching.
func (s *Serializer) DecodeCached(r io.Reader, v any, key any, ov *Overrides) error {
	typ, err := target(v)
	if err != nil {
		return err
	}

	build := func() (*plan, error) {
		return compilePlan(typ, nil, ov)
	}

	var p *plan
	if key == nil {
		s.misses.Add(1)
		p, err = build()
	} else {
		if !hashable(key) {
			return errors.New(errors.PhasePlan, errors.KindInvalidArgument).
				GoType(reflect.TypeOf(key).String()).
				Value(key).
				Detail("cache key is not comparable").
				Build()
		}
		p, err = s.plan(planKey{typ: typ, kind: keyCaller, key: key}, build)
	}
	if err != nil {
		return err
	}
	return s.decode(p, r, v)
}

// hashable reports whether key can be used as a map key. A comparable type
// is not enough: interface fields may hold slices, maps or funcs at run time.
func hashable(key any) (ok bool) {
	if !reflect.TypeOf(key).Comparable() {
		return false
	}
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	_ = map[any]struct{}{key: {}}
	return true
}

func (s *Serializer) plan(k planKey, build func() (*plan, error)) (*plan, error) {
	if cached, ok := s.cache.Load(k); ok {
		s.hits.Add(1)
		if ce := s.log.Check(zap.DebugLevel, "xml plan cache hit"); ce != nil {
			ce.Write(zap.Stringer("type", k.typ), zap.String("key", fmt.Sprint(k.key)))
		}
		return cached.(*plan), nil
	}

	s.misses.Add(1)
	p, err := build()
	if err != nil {
		return nil, err
	}

	actual, loaded := s.cache.LoadOrStore(k, p)
	if !loaded {
		s.plans.Add(1)
		if ce := s.log.Check(zap.DebugLevel, "xml plan built"); ce != nil {
			ce.Write(zap.Stringer("type", k.typ), zap.String("key", fmt.Sprint(k.key)))
		}
	}
	return actual.(*plan), nil
}

func (s *Serializer) decode(p *plan, r io.Reader, v any) error {
	in, charset := sniff(r, s.charset)

	inner := xml.NewDecoder(in)
	inner.Strict = s.strict
	inner.CharsetReader = charset

	rw := &rewriter{dec: inner, plan: p}
	outer := xml.NewTokenDecoder(rw)
	outer.Strict = s.strict

	for {
		tok, err := outer.Token()
		if errors.Is(err, io.EOF) {
			setZero(v)
			return nil
		}
		if err != nil {
			return errors.Deserialization(p.goType.String(), rw.path(), err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if isNil(start) {
			setZero(v)
			return nil
		}
		if err := outer.DecodeElement(v, &start); err != nil {
			return errors.Deserialization(p.goType.String(), rw.path(), err)
		}
		return nil
	}
}

func target(v any) (reflect.Type, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidArgument).
			GoType(fmt.Sprintf("%T", v)).
			Detail("decode target must be a non-nil pointer").
			Build()
	}
	return rv.Type().Elem(), nil
}

func setZero(v any) {
	reflect.ValueOf(v).Elem().SetZero()
}

func isNil(start xml.StartElement) bool {
	for _, a := range start.Attr {
		if a.Name.Space == xsiNamespace && a.Name.Local == "nil" {
			return a.Value == "true" || a.Value == "1"
		}
	}
	return false
}

// Deserialize decodes r into a new T.
func Deserialize[T any](s *Serializer, r io.Reader) (T, error) {
	var v T
	if err := s.Decode(r, &v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// DeserializeRoot decodes r into a new T with a root override.
func DeserializeRoot[T any](s *Serializer, r io.Reader, root xml.Name) (T, error) {
	var v T
	if err := s.DecodeRoot(r, &v, root); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// DeserializeCached decodes r into a new T with cached field overrides.
func DeserializeCached[T any](s *Serializer, r io.Reader, key any, ov *Overrides) (T, error) {
	var v T
	if err := s.DecodeCached(r, &v, key, ov); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}
