package main

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/wasm-resource/xmltree"
)

type outlineStyles struct {
	tag  lipgloss.Style
	attr lipgloss.Style
	text lipgloss.Style
}

var plainStyles = outlineStyles{
	tag:  lipgloss.NewStyle(),
	attr: lipgloss.NewStyle(),
	text: lipgloss.NewStyle(),
}

// outline renders el and its descendants one element per line, indented
// by depth, with attributes and trimmed character data.
func outline(el *xmltree.Element, s outlineStyles) string {
	var b strings.Builder
	writeOutline(&b, el, 0, s)
	return b.String()
}

func writeOutline(b *strings.Builder, el *xmltree.Element, depth int, s outlineStyles) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(s.tag.Render(el.Name().Local))
	for _, a := range el.Attrs() {
		b.WriteString(" ")
		b.WriteString(s.attr.Render(a.Name.Local + "=" + strconv.Quote(a.Value)))
	}
	if text := strings.TrimSpace(el.Text()); text != "" {
		b.WriteString(" ")
		b.WriteString(s.text.Render(strconv.Quote(text)))
	}
	b.WriteString("\n")
	for _, c := range el.Children() {
		writeOutline(b, c, depth+1, s)
	}
}
