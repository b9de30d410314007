package xmltree

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrNoRoot is returned when the input holds no root element.
	ErrNoRoot = errors.New("root element is missing")

	// ErrTrailingContent is returned when an element follows the root.
	ErrTrailingContent = errors.New("content after root element")
)

// ParseString parses s as an XML document. The encoding named in the XML
// declaration is ignored: s is already decoded text.
func ParseString(s string) (*Document, error) {
	return parse(strings.NewReader(s), identityCharset)
}

// Parse parses r as a UTF-8 XML document.
func Parse(r io.Reader) (*Document, error) {
	return parse(r, identityCharset)
}

func identityCharset(_ string, input io.Reader) (io.Reader, error) {
	return input, nil
}

func parse(r io.Reader, charset func(string, io.Reader) (io.Reader, error)) (*Document, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset

	doc := &Document{}
	var stack []*Element

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 && doc.root != nil {
				line, _ := dec.InputPos()
				return nil, fmt.Errorf("line %d: %w", line, ErrTrailingContent)
			}
			el := &Element{name: t.Name, attrs: t.Copy().Attr}
			if len(stack) == 0 {
				doc.root = el
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			}
			stack = append(stack, el)

		case xml.EndElement:
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 {
				if len(strings.TrimSpace(string(t))) > 0 {
					line, _ := dec.InputPos()
					return nil, &xml.SyntaxError{Msg: "character data outside root element", Line: line}
				}
				continue
			}
			stack[len(stack)-1].text.Write(t)

		case xml.ProcInst:
			if doc.root == nil {
				doc.procInsts = append(doc.procInsts, t.Copy())
			}
		}
	}

	if doc.root == nil {
		return nil, ErrNoRoot
	}
	return doc, nil
}
