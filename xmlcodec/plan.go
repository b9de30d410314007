package xmlcodec

import (
	"encoding"
	"encoding/xml"
	"fmt"
	"reflect"
	"strings"

	"github.com/wippyai/wasm-resource/errors"
)

// plan is the cached deserialisation machinery for one Go type under one
// root override or override set.
type plan struct {
	goType reflect.Type
	top    *typePlan

	// expect is the required document root, nil when any root is accepted.
	expect *xml.Name

	// rootRename, when set, replaces the document root name so that the
	// type's own XMLName constraint is satisfied.
	rootRename *xml.Name
}

// typePlan holds the token rewrites for elements decoded into one struct type.
// Maps are keyed by local names as they appear in the document.
type typePlan struct {
	elems     map[string]*fieldPlan
	attrs     map[string]string
	promote   map[string]string
	dropElems map[string]bool
	dropAttrs map[string]bool
}

type fieldPlan struct {
	rename string
	child  *typePlan
}

func newTypePlan() *typePlan {
	return &typePlan{
		elems:     make(map[string]*fieldPlan),
		attrs:     make(map[string]string),
		promote:   make(map[string]string),
		dropElems: make(map[string]bool),
		dropAttrs: make(map[string]bool),
	}
}

type compiler struct {
	ov   *Overrides
	memo map[reflect.Type]*typePlan
}

// compilePlan builds the plan for goType. root may be nil.
func compilePlan(goType reflect.Type, root *xml.Name, ov *Overrides) (*plan, error) {
	if err := ov.validate(); err != nil {
		return nil, err
	}

	c := &compiler{ov: ov, memo: make(map[reflect.Type]*typePlan)}
	p := &plan{goType: goType}

	top, err := c.typePlan(goType)
	if err != nil {
		return nil, err
	}
	p.top = top

	if root != nil {
		expect := *root
		p.expect = &expect
		if declared, ok := declaredRoot(goType); ok && declared.Local != root.Local {
			p.rootRename = &declared
		}
	}

	return p, nil
}

// typePlan returns the plan for the struct reachable from t, or nil when t
// does not decode through struct fields.
func (c *compiler) typePlan(t reflect.Type) (*typePlan, error) {
	t = elemType(t)
	if t.Kind() != reflect.Struct || customDecoder(t) {
		return nil, nil
	}
	if tp, ok := c.memo[t]; ok {
		return tp, nil
	}

	tp := newTypePlan()
	c.memo[t] = tp
	if err := c.fields(t, t, tp); err != nil {
		return nil, err
	}
	return tp, nil
}

func (c *compiler) fields(owner, t reflect.Type, tp *typePlan) error {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("xml")

		if f.Anonymous && tag == "" {
			if ft := indirect(f.Type); ft.Kind() == reflect.Struct {
				if err := c.fields(owner, ft, tp); err != nil {
					return err
				}
				continue
			}
		}
		if !f.IsExported() || tag == "-" || f.Name == "XMLName" {
			continue
		}

		name, opts := parseTag(tag)
		if opts.has("chardata") || opts.has("innerxml") || opts.has("comment") || opts.has("any") {
			continue
		}
		if name == "" {
			name = f.Name
		}

		fo, overridden := c.ov.lookup(owner, f.Name)

		if opts.has("attr") {
			if err := c.attrField(owner, f, name, fo, overridden, tp); err != nil {
				return err
			}
			continue
		}

		// a>b paths address nested elements; only the first step is mapped.
		var child *typePlan
		if head, _, isPath := strings.Cut(name, ">"); isPath {
			name = head
		} else {
			var err error
			child, err = c.typePlan(f.Type)
			if err != nil {
				return err
			}
		}

		switch {
		case overridden && fo.Ignore:
			tp.dropElems[name] = true
		case overridden && fo.Element != "":
			// Override entries always carry a rename; natural ones never do.
			if prev, ok := tp.elems[fo.Element]; ok && prev.rename != "" {
				return errors.New(errors.PhasePlan, errors.KindInvalidArgument).
					GoType(owner.String()).
					Detail("fields %q and %q both read element %q", prev.rename, name, fo.Element).
					Build()
			}
			tp.elems[fo.Element] = &fieldPlan{rename: name, child: child}
			if fo.Element != name {
				tp.dropElems[name] = true
			}
		case overridden && fo.Attr != "":
			tp.promote[fo.Attr] = name
			tp.dropElems[name] = true
		case child != nil:
			// An element claimed by an override keeps its override mapping.
			if _, claimed := tp.elems[name]; !claimed {
				tp.elems[name] = &fieldPlan{child: child}
			}
		}
	}
	return nil
}

func (c *compiler) attrField(owner reflect.Type, f reflect.StructField, name string, fo FieldOverride, overridden bool, tp *typePlan) error {
	if !overridden {
		return nil
	}
	switch {
	case fo.Ignore:
		tp.dropAttrs[name] = true
	case fo.Element != "":
		err := errors.Unsupported(errors.PhasePlan,
			fmt.Sprintf("attribute field %q cannot be read from element %q", f.Name, fo.Element))
		err.GoType = owner.String()
		return err
	case fo.Attr != "":
		tp.attrs[fo.Attr] = name
		if fo.Attr != name {
			tp.dropAttrs[name] = true
		}
	}
	return nil
}

var (
	xmlUnmarshalerType  = reflect.TypeOf((*xml.Unmarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

func customDecoder(t reflect.Type) bool {
	pt := reflect.PointerTo(t)
	return t.Implements(xmlUnmarshalerType) || pt.Implements(xmlUnmarshalerType) ||
		t.Implements(textUnmarshalerType) || pt.Implements(textUnmarshalerType)
}

// elemType strips pointers and repeated-element containers.
func elemType(t reflect.Type) reflect.Type {
	for {
		switch t.Kind() {
		case reflect.Pointer:
			t = t.Elem()
		case reflect.Slice, reflect.Array:
			if t.Elem().Kind() == reflect.Uint8 {
				return t
			}
			t = t.Elem()
		default:
			return t
		}
	}
}

// declaredRoot returns the root name fixed by the type's XMLName tag.
func declaredRoot(t reflect.Type) (xml.Name, bool) {
	t = indirect(t)
	if t.Kind() != reflect.Struct {
		return xml.Name{}, false
	}
	f, ok := t.FieldByName("XMLName")
	if !ok {
		return xml.Name{}, false
	}
	name, _, _ := strings.Cut(f.Tag.Get("xml"), ",")
	if name == "" {
		return xml.Name{}, false
	}
	space, local, found := strings.Cut(name, " ")
	if !found {
		return xml.Name{Local: name}, true
	}
	return xml.Name{Space: space, Local: local}, true
}

type tagOptions string

func (o tagOptions) has(opt string) bool {
	for _, s := range strings.Split(string(o), ",") {
		if s == opt {
			return true
		}
	}
	return false
}

// parseTag splits an xml struct tag into its local name and options. A
// namespace prefix ("urn:x name") is dropped from the name.
func parseTag(tag string) (string, tagOptions) {
	name, opts, _ := strings.Cut(tag, ",")
	if i := strings.LastIndex(name, " "); i >= 0 {
		name = name[i+1:]
	}
	return name, tagOptions(opts)
}
