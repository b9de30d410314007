// Package xmltree parses XML text into an immutable element tree.
//
// Only elements, attributes, character data and leading processing
// instructions are kept. Comments and directives are dropped. Namespace
// prefixes are resolved to URIs by encoding/xml.
//
//	doc, err := xmltree.ParseString("<a><b>1</b></a>")
//	if err != nil {
//	    return err
//	}
//	doc.Root().Name().Local      // "a"
//	doc.Root().Find("b").Text()  // "1"
//
// A document must contain exactly one root element. Empty input,
// unbalanced tags, and elements or text after the root are errors.
package xmltree
