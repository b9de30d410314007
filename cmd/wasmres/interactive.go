package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/wippyai/wasm-resource/engine"
	"github.com/wippyai/wasm-resource/resource"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	sizeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	treeStyles = outlineStyles{
		tag:  lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98")),
		attr: lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		text: lipgloss.NewStyle().Foreground(lipgloss.Color("#90EE90")),
	}
)

// header lines above the viewport: title, blank, resource line, blank
const headerHeight = 4

type modelState int

const (
	stateList modelState = iota
	stateContent
)

type interactiveModel struct {
	err      error
	eng      *engine.WazeroEngine
	module   *engine.WazeroModule
	acc      *resource.Accessor
	opts     options
	current  string
	names    []string
	visible  []string
	filter   textinput.Model
	view     viewport.Model
	selected int
	state    modelState
	asXML    bool
	ready    bool
}

// newInteractiveModel sizes the viewport from the terminal dimensions, which
// may be zero when unknown. Later WindowSizeMsg values replace them.
func newInteractiveModel(opts options, width, height int) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "filter"
	ti.Prompt = "/ "
	ti.Width = 40
	ti.Focus()

	m := &interactiveModel{
		opts:   opts,
		acc:    resource.Default(),
		filter: ti,
		view:   viewport.New(80, 20),
		state:  stateList,
	}
	if width > 0 && height > 0 {
		m.resize(width, height)
	}
	return m
}

func (m *interactiveModel) resize(width, height int) {
	m.view.Width = width
	m.view.Height = max(height-headerHeight-2, 1)
}

type loadedMsg struct {
	err error
	eng *engine.WazeroEngine
	mod *engine.WazeroModule
}

type contentMsg struct {
	err   error
	name  string
	body  string
	asXML bool
}

func (m *interactiveModel) Init() tea.Cmd {
	return tea.Batch(m.loadModule, textinput.Blink)
}

func (m *interactiveModel) loadModule() tea.Msg {
	eng, mod, err := load(context.Background(), m.opts)
	return loadedMsg{err: err, eng: eng, mod: mod}
}

func (m *interactiveModel) loadContent(name string, asXML bool) tea.Cmd {
	return func() tea.Msg {
		if asXML {
			doc, err := m.acc.ReadXMLTree(m.module, name)
			if err != nil {
				return contentMsg{name: name, err: err, asXML: true}
			}
			return contentMsg{name: name, body: outline(doc.Root(), treeStyles), asXML: true}
		}
		text, err := m.acc.ReadText(m.module, name)
		return contentMsg{name: name, body: text, err: err}
	}
}

func (m *interactiveModel) close() {
	ctx := context.Background()
	if m.module != nil {
		m.module.Close(ctx)
	}
	if m.eng != nil {
		m.eng.Close(ctx)
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.eng = msg.eng
		m.module = msg.mod
		m.names = msg.mod.ResourceNames()
		m.applyFilter()
		m.ready = true
		return m, nil

	case contentMsg:
		m.current = msg.name
		m.asXML = msg.asXML
		m.err = msg.err
		m.view.SetContent(msg.body)
		m.view.GotoTop()
		m.state = stateContent
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.close()
			return m, tea.Quit
		}
		if m.state == stateContent {
			return m.updateContent(msg)
		}
		return m.updateList(msg)
	}

	return m, nil
}

func (m *interactiveModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.applyFilter()
			return m, nil
		}
		m.close()
		return m, tea.Quit

	case "up":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case "down":
		if m.selected < len(m.visible)-1 {
			m.selected++
		}
		return m, nil

	case "enter", "ctrl+x":
		if !m.ready || len(m.visible) == 0 {
			return m, nil
		}
		return m, m.loadContent(m.visible[m.selected], msg.String() == "ctrl+x")
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *interactiveModel) updateContent(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.state = stateList
		m.err = nil
		return m, nil
	case "x":
		return m, m.loadContent(m.current, !m.asXML)
	}

	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

func (m *interactiveModel) applyFilter() {
	query := strings.ToLower(m.filter.Value())
	m.visible = m.visible[:0]
	for _, n := range m.names {
		if query == "" || strings.Contains(strings.ToLower(n), query) {
			m.visible = append(m.visible, n)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = max(len(m.visible)-1, 0)
	}
}

func (m *interactiveModel) View() string {
	if m.err != nil && m.state == stateList {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress ctrl+c to quit.", m.err))
	}
	if !m.ready {
		return "Loading module..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("WASM Resources"))
	b.WriteString(" ")
	b.WriteString(m.opts.wasmFile)
	if name := m.module.Name(); name != "" {
		b.WriteString(" (" + name + ")")
	}
	b.WriteString("\n\n")

	switch m.state {
	case stateList:
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
		if len(m.visible) == 0 {
			b.WriteString(helpStyle.Render("no resources"))
			b.WriteString("\n")
		}
		for i, n := range m.visible {
			size, _ := m.module.Size(n)
			line := fmt.Sprintf("%-40s %s", nameStyle.Render(n), sizeStyle.Render(fmt.Sprintf("%d bytes", size)))
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + n))
				b.WriteString(" ")
				b.WriteString(sizeStyle.Render(fmt.Sprintf("%d bytes", size)))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("type to filter • ↑/↓ select • enter text • ctrl+x xml • esc quit"))

	case stateContent:
		mode := "text"
		if m.asXML {
			mode = "xml"
		}
		b.WriteString(nameStyle.Render(m.current) + " " + helpStyle.Render("["+mode+"]"))
		b.WriteString("\n\n")
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(m.view.View())
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("↑/↓ scroll • x toggle xml • esc back"))
	}

	return b.String()
}

func runInteractive(opts options) error {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		width, height = 0, 0
	}
	p := tea.NewProgram(newInteractiveModel(opts, width, height), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
