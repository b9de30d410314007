package xmlcodec

import (
	"fmt"
	"reflect"

	"github.com/wippyai/wasm-resource/errors"
)

// FieldOverride changes where a struct field is read from in the document.
// At most one of Element and Attr may be set.
type FieldOverride struct {
	// Element reads the field from a child element with this local name.
	// Only valid for element fields.
	Element string

	// Attr reads the field from an attribute with this local name. For an
	// attribute field the attribute is renamed; for an element field the
	// attribute value is decoded as if it were the field's element.
	Attr string

	// Ignore skips the field's element or attribute entirely.
	Ignore bool
}

type overrideKey struct {
	typ   reflect.Type
	field string
}

// Overrides is a set of per-field mapping changes applied on top of the
// `xml` struct tags of the target type.
//
// Overrides carry no identity of their own: the Serializer caches plans by
// the key passed to DecodeCached, so two structurally equal Overrides used
// with the same key share one plan, and the second one is never read.
type Overrides struct {
	fields map[overrideKey]FieldOverride
	err    error
}

// NewOverrides returns an empty override set.
func NewOverrides() *Overrides {
	return &Overrides{fields: make(map[overrideKey]FieldOverride)}
}

// Add registers an override for field of struct type t (or pointer to
// struct). Invalid entries are reported when a plan is built from the set.
func (o *Overrides) Add(t reflect.Type, field string, fo FieldOverride) *Overrides {
	if o.err != nil {
		return o
	}
	if o.fields == nil {
		o.fields = make(map[overrideKey]FieldOverride)
	}

	t = indirect(t)
	if t == nil || t.Kind() != reflect.Struct {
		o.err = errors.InvalidArgument(errors.PhasePlan, fmt.Sprintf("override target %v is not a struct", t))
		return o
	}
	if _, ok := t.FieldByName(field); !ok {
		o.err = errors.New(errors.PhasePlan, errors.KindInvalidArgument).
			GoType(t.String()).
			Detail("override for unknown field %q", field).
			Build()
		return o
	}
	if fo.Element != "" && fo.Attr != "" {
		o.err = errors.New(errors.PhasePlan, errors.KindInvalidArgument).
			GoType(t.String()).
			Detail("override for field %q sets both Element and Attr", field).
			Build()
		return o
	}

	o.fields[overrideKey{typ: t, field: field}] = fo
	return o
}

// Len returns the number of registered overrides.
func (o *Overrides) Len() int {
	if o == nil {
		return 0
	}
	return len(o.fields)
}

func (o *Overrides) lookup(t reflect.Type, field string) (FieldOverride, bool) {
	if o == nil {
		return FieldOverride{}, false
	}
	fo, ok := o.fields[overrideKey{typ: t, field: field}]
	return fo, ok
}

func (o *Overrides) validate() error {
	if o == nil {
		return nil
	}
	return o.err
}

func indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
