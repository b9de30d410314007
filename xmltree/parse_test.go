package xmltree_test

import (
	"encoding/xml"
	"errors"
	"strings"
	"testing"

	"github.com/wippyai/wasm-resource/xmltree"
)

func TestParseString_Nested(t *testing.T) {
	doc, err := xmltree.ParseString("<a><b>1</b></a>")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}

	root := doc.Root()
	if root.Name().Local != "a" {
		t.Errorf("root: got %q, want a", root.Name().Local)
	}
	children := root.Children()
	if len(children) != 1 {
		t.Fatalf("children: got %d, want 1", len(children))
	}
	if children[0].Name().Local != "b" {
		t.Errorf("child: got %q, want b", children[0].Name().Local)
	}
	if children[0].Text() != "1" {
		t.Errorf("child text: got %q, want 1", children[0].Text())
	}
}

func TestParseString_AttributesAndNamespaces(t *testing.T) {
	src := `<?xml version="1.0" encoding="utf-16"?>
<cfg xmlns="urn:cfg" xmlns:x="urn:x" version="2">
  <item x:id="7">first</item>
  <item>second</item>
</cfg>`

	doc, err := xmltree.ParseString(src)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}

	root := doc.Root()
	if root.Name() != (xml.Name{Space: "urn:cfg", Local: "cfg"}) {
		t.Errorf("root name: %+v", root.Name())
	}
	if v, ok := root.Attr("version"); !ok || v != "2" {
		t.Errorf("version attr: %q %v", v, ok)
	}
	if _, ok := root.Attr("missing"); ok {
		t.Error("unexpected attribute")
	}

	items := root.Children()
	if len(items) != 2 {
		t.Fatalf("items: got %d", len(items))
	}
	id, ok := items[0].Attr("id")
	if !ok || id != "7" {
		t.Errorf("namespaced attr: %q %v", id, ok)
	}
	if items[1].Text() != "second" {
		t.Errorf("second item text: %q", items[1].Text())
	}

	pis := doc.ProcInsts()
	if len(pis) != 1 || pis[0].Target != "xml" {
		t.Errorf("proc insts: %+v", pis)
	}
}

func TestParse_Reader(t *testing.T) {
	doc, err := xmltree.Parse(strings.NewReader("<r/>"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Root().Name().Local != "r" {
		t.Errorf("root: %q", doc.Root().Name().Local)
	}
	if len(doc.Root().Children()) != 0 {
		t.Error("expected no children")
	}
}

func TestElement_Find(t *testing.T) {
	doc, err := xmltree.ParseString("<a><b><c>deep</c></b><d/></a>")
	if err != nil {
		t.Fatal(err)
	}
	root := doc.Root()

	if got := root.Find("b/c"); got == nil || got.Text() != "deep" {
		t.Errorf("Find b/c: %v", got)
	}
	if got := root.Find(""); got != root {
		t.Error("empty path should return receiver")
	}
	if got := root.Find("b/x"); got != nil {
		t.Errorf("expected nil for missing step, got %v", got.Name())
	}
	if root.Child("d") == nil {
		t.Error("Child d not found")
	}
}

func TestElement_Immutable(t *testing.T) {
	doc, err := xmltree.ParseString(`<a k="v"><b/></a>`)
	if err != nil {
		t.Fatal(err)
	}
	root := doc.Root()

	attrs := root.Attrs()
	attrs[0].Value = "changed"
	if v, _ := root.Attr("k"); v != "v" {
		t.Error("mutating Attrs result changed the tree")
	}

	children := root.Children()
	children[0] = nil
	if root.Children()[0] == nil {
		t.Error("mutating Children result changed the tree")
	}
}

func TestParse_Text(t *testing.T) {
	doc, err := xmltree.ParseString("<p>one<br/>two</p>")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Root().Text() != "onetwo" {
		t.Errorf("text: got %q", doc.Root().Text())
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"empty", "", xmltree.ErrNoRoot},
		{"whitespace only", "  \n ", xmltree.ErrNoRoot},
		{"comment only", "<!-- nothing -->", xmltree.ErrNoRoot},
		{"two roots", "<a/><b/>", xmltree.ErrTrailingContent},
		{"unclosed", "<a><b></a>", nil},
		{"truncated", "<a><b>", nil},
		{"text outside root", "<a/>junk", nil},
		{"bad syntax", "<a <b>", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := xmltree.ParseString(tt.src)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}
