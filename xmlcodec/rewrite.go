package xmlcodec

import (
	"encoding/xml"
	"fmt"
)

// RootMismatchError is returned when the document root does not match the
// root override passed to DecodeRoot.
type RootMismatchError struct {
	Want xml.Name
	Got  xml.Name
}

func (e *RootMismatchError) Error() string {
	return fmt.Sprintf("expected root element %s, got %s", formatName(e.Want), formatName(e.Got))
}

func formatName(n xml.Name) string {
	if n.Space == "" {
		return "<" + n.Local + ">"
	}
	return "<" + n.Local + " xmlns=\"" + n.Space + "\">"
}

type frame struct {
	tp   *typePlan
	name xml.Name
}

// rewriter applies a plan to the token stream of an inner decoder so that
// encoding/xml sees the names the Go type's struct tags expect.
type rewriter struct {
	dec     *xml.Decoder
	plan    *plan
	stack   []frame
	pending []xml.Token
	skip    int
}

var _ xml.TokenReader = (*rewriter)(nil)

func (rw *rewriter) Token() (xml.Token, error) {
	if len(rw.pending) > 0 {
		tok := rw.pending[0]
		rw.pending = rw.pending[1:]
		return tok, nil
	}

	for {
		tok, err := rw.dec.Token()
		if err != nil {
			return nil, err
		}

		if rw.skip > 0 {
			switch tok.(type) {
			case xml.StartElement:
				rw.skip++
			case xml.EndElement:
				rw.skip--
			}
			continue
		}

		switch t := tok.(type) {
		case xml.StartElement:
			start, keep, err := rw.start(t)
			if err != nil {
				return nil, err
			}
			if !keep {
				rw.skip = 1
				continue
			}
			return start, nil
		case xml.EndElement:
			top := rw.stack[len(rw.stack)-1]
			rw.stack = rw.stack[:len(rw.stack)-1]
			t.Name = top.name
			return t, nil
		default:
			return tok, nil
		}
	}
}

func (rw *rewriter) start(t xml.StartElement) (xml.StartElement, bool, error) {
	var tp *typePlan

	if len(rw.stack) == 0 {
		if want := rw.plan.expect; want != nil {
			if t.Name.Local != want.Local || (want.Space != "" && t.Name.Space != want.Space) {
				return t, false, &RootMismatchError{Want: *want, Got: t.Name}
			}
		}
		if rn := rw.plan.rootRename; rn != nil {
			t.Name.Local = rn.Local
			if rn.Space != "" {
				t.Name.Space = rn.Space
			}
		}
		tp = rw.plan.top
	} else if parent := rw.stack[len(rw.stack)-1].tp; parent != nil {
		if fp, ok := parent.elems[t.Name.Local]; ok {
			if fp.rename != "" {
				t.Name.Local = fp.rename
			}
			tp = fp.child
		} else if parent.dropElems[t.Name.Local] {
			return t, false, nil
		}
	}

	if tp != nil && len(t.Attr) > 0 {
		t.Attr = rw.attrs(tp, t.Attr)
	}

	rw.stack = append(rw.stack, frame{tp: tp, name: t.Name})
	return t, true, nil
}

// attrs renames, drops and promotes attributes. Promoted attributes are
// queued as synthetic child elements that follow the start element.
func (rw *rewriter) attrs(tp *typePlan, in []xml.Attr) []xml.Attr {
	out := make([]xml.Attr, 0, len(in))
	for _, a := range in {
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
			out = append(out, a)
			continue
		}
		if elem, ok := tp.promote[a.Name.Local]; ok {
			name := xml.Name{Local: elem}
			rw.pending = append(rw.pending,
				xml.StartElement{Name: name},
				xml.CharData(a.Value),
				xml.EndElement{Name: name},
			)
			continue
		}
		if renamed, ok := tp.attrs[a.Name.Local]; ok {
			a.Name.Local = renamed
			out = append(out, a)
			continue
		}
		if tp.dropAttrs[a.Name.Local] {
			continue
		}
		out = append(out, a)
	}
	return out
}

// path returns the local names of the open elements.
func (rw *rewriter) path() []string {
	if len(rw.stack) == 0 {
		return nil
	}
	out := make([]string, len(rw.stack))
	for i, f := range rw.stack {
		out[i] = f.name.Local
	}
	return out
}
