package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	werrors "github.com/wippyai/wasm-resource/errors"
	"github.com/wippyai/wasm-resource/wasm"
	"github.com/wippyai/wasm-resource/xmltree"
)

func writeModule(t *testing.T) string {
	t.Helper()
	bin := (&wasm.Module{
		CustomSections: []wasm.CustomSection{
			{Name: wasm.NameSection, Data: wasm.NameSectionData("demo")},
			{Name: "readme.txt", Data: []byte("hello\n")},
			{Name: "people.xml", Data: []byte(`<people><person id="1"><name>Alice</name></person></people>`)},
		},
	}).Encode()

	path := filepath.Join(t.TempDir(), "demo.wasm")
	if err := os.WriteFile(path, bin, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_List(t *testing.T) {
	path := writeModule(t)

	for _, scan := range []bool{false, true} {
		var out bytes.Buffer
		if err := run(&out, options{wasmFile: path, list: true, scanOnly: scan}); err != nil {
			t.Fatalf("scan=%v: %v", scan, err)
		}
		got := out.String()
		for _, want := range []string{"module: demo", "Resources: 2", "people.xml", "readme.txt", "6 bytes"} {
			if !strings.Contains(got, want) {
				t.Errorf("scan=%v: output missing %q:\n%s", scan, want, got)
			}
		}
	}
}

func TestRun_Cat(t *testing.T) {
	var out bytes.Buffer
	if err := run(&out, options{wasmFile: writeModule(t), cat: "readme.txt"}); err != nil {
		t.Fatal(err)
	}
	if out.String() != "hello\n" {
		t.Errorf("got %q", out.String())
	}
}

func TestRun_XML(t *testing.T) {
	var out bytes.Buffer
	if err := run(&out, options{wasmFile: writeModule(t), xml: "people.xml"}); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	for _, want := range []string{"people", `  person id="1"`, `    name "Alice"`} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRun_Errors(t *testing.T) {
	path := writeModule(t)

	err := run(&bytes.Buffer{}, options{wasmFile: path, cat: "missing"})
	if !werrors.IsKind(err, werrors.KindNotFound) {
		t.Errorf("missing resource: %v", err)
	}

	err = run(&bytes.Buffer{}, options{wasmFile: path, xml: "readme.txt"})
	if !werrors.IsKind(err, werrors.KindMalformedXML) {
		t.Errorf("not xml: %v", err)
	}

	err = run(&bytes.Buffer{}, options{wasmFile: filepath.Join(t.TempDir(), "absent.wasm")})
	if err == nil {
		t.Error("expected error for absent file")
	}
}

func TestOutline(t *testing.T) {
	doc, err := xmltree.ParseString(`<a x="1"> top <b>inner</b><c/></a>`)
	if err != nil {
		t.Fatal(err)
	}
	want := "a x=\"1\" \"top\"\n  b \"inner\"\n  c\n"
	if got := outline(doc.Root(), plainStyles); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestInteractiveModel_Size(t *testing.T) {
	m := newInteractiveModel(options{}, 120, 40)
	if m.view.Width != 120 || m.view.Height != 40-headerHeight-2 {
		t.Errorf("initial size = %dx%d", m.view.Width, m.view.Height)
	}

	unknown := newInteractiveModel(options{}, 0, 0)
	if unknown.view.Width != 80 || unknown.view.Height != 20 {
		t.Errorf("fallback size = %dx%d", unknown.view.Width, unknown.view.Height)
	}

	m.Update(tea.WindowSizeMsg{Width: 60, Height: 3})
	if m.view.Width != 60 || m.view.Height != 1 {
		t.Errorf("resized = %dx%d", m.view.Width, m.view.Height)
	}
}
