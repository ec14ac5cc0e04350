package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chainmeta/metacheck/metadata"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	moduleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFD787"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type browserState int

const (
	stateModuleList browserState = iota
	stateModuleDetail
)

type browserModel struct {
	doc      *metadata.Document
	source   string
	filter   textinput.Model
	visible  []int // indices into doc.Modules matching the filter
	selected int
	state    browserState
}

func newBrowserModel(doc *metadata.Document, source string) *browserModel {
	filter := textinput.New()
	filter.Placeholder = "filter modules"
	filter.Prompt = "/ "
	filter.Width = 40

	m := &browserModel{
		doc:    doc,
		source: source,
		filter: filter,
		state:  stateModuleList,
	}
	m.applyFilter()
	return m
}

func (m *browserModel) Init() tea.Cmd {
	return nil
}

func (m *browserModel) applyFilter() {
	needle := strings.ToLower(m.filter.Value())
	m.visible = m.visible[:0]
	for i, mod := range m.doc.Modules {
		if needle == "" || strings.Contains(strings.ToLower(mod.Name), needle) {
			m.visible = append(m.visible, i)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = 0
	}
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state == stateModuleList && !m.filter.Focused() {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateModuleList && !m.filter.Focused() && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateModuleList && !m.filter.Focused() && m.selected < len(m.visible)-1 {
				m.selected++
			}

		case "/":
			if m.state == stateModuleList && !m.filter.Focused() {
				m.filter.Focus()
				return m, textinput.Blink
			}

		case "enter":
			switch m.state {
			case stateModuleList:
				if m.filter.Focused() {
					m.filter.Blur()
				} else if len(m.visible) > 0 {
					m.state = stateModuleDetail
				}
			}

		case "esc":
			switch m.state {
			case stateModuleDetail:
				m.state = stateModuleList
			case stateModuleList:
				if m.filter.Focused() {
					m.filter.Blur()
				} else if m.filter.Value() != "" {
					m.filter.SetValue("")
					m.applyFilter()
				}
			}
		}
	}

	if m.state == stateModuleList && m.filter.Focused() {
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.applyFilter()
		return m, cmd
	}

	return m, nil
}

func (m *browserModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Metadata Browser"))
	b.WriteString(" ")
	b.WriteString(m.source)
	b.WriteString("  ")
	b.WriteString(typeStyle.Render(m.doc.Version.String()))
	b.WriteString("\n\n")

	switch m.state {
	case stateModuleList:
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
		for i, idx := range m.visible {
			mod := m.doc.Modules[idx]
			line := fmt.Sprintf("%s  (%d calls, %d events, %d errors, %d storage)",
				mod.Name, len(mod.Calls), len(mod.Events), len(mod.Errors), len(mod.Storage))
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + moduleStyle.Render(mod.Name) + line[len(mod.Name):])
			}
			b.WriteString("\n")
		}
		if len(m.visible) == 0 {
			b.WriteString(helpStyle.Render("no modules match"))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter open • / filter • q quit"))

	case stateModuleDetail:
		mod := m.doc.Modules[m.visible[m.selected]]
		b.WriteString(moduleStyle.Render(mod.Name))
		b.WriteString("\n")
		for _, d := range mod.Docs {
			b.WriteString(helpStyle.Render(d))
			b.WriteString("\n")
		}
		b.WriteString("\n")

		if len(mod.Calls) > 0 {
			b.WriteString(sectionStyle.Render("Calls"))
			b.WriteString("\n")
			for _, c := range mod.Calls {
				b.WriteString(fmt.Sprintf("  %2d  %s(%s)\n", c.Index, c.Name, m.formatArgs(c.Args)))
			}
			b.WriteString("\n")
		}
		if len(mod.Events) > 0 {
			b.WriteString(sectionStyle.Render("Events"))
			b.WriteString("\n")
			for _, e := range mod.Events {
				b.WriteString(fmt.Sprintf("  %2d  %s(%s)\n", e.Index, e.Name, m.formatArgs(e.Args)))
			}
			b.WriteString("\n")
		}
		if len(mod.Errors) > 0 {
			b.WriteString(sectionStyle.Render("Errors"))
			b.WriteString("\n")
			for _, e := range mod.Errors {
				b.WriteString(fmt.Sprintf("  %2d  %s\n", e.Index, e.Name))
			}
			b.WriteString("\n")
		}
		if len(mod.Storage) > 0 {
			b.WriteString(sectionStyle.Render("Storage"))
			b.WriteString("\n")
			for _, s := range mod.Storage {
				b.WriteString("  " + s.Name + ": " + typeStyle.Render(m.formatStorage(s)) + "\n")
			}
			b.WriteString("\n")
		}

		b.WriteString(helpStyle.Render("esc back • q quit"))
	}

	return b.String()
}

func (m *browserModel) formatArgs(args []metadata.Arg) string {
	parts := make([]string, len(args))
	for i, a := range args {
		t := typeStyle.Render(typeName(m.doc, a.Type))
		if a.Name != "" {
			parts[i] = a.Name + ": " + t
		} else {
			parts[i] = t
		}
	}
	return strings.Join(parts, ", ")
}

func (m *browserModel) formatStorage(s metadata.StorageItem) string {
	if s.Kind == metadata.StorageMap {
		return fmt.Sprintf("map %s -> %s", typeName(m.doc, s.Key), typeName(m.doc, s.Value))
	}
	return typeName(m.doc, s.Value)
}

// typeName renders a type reference compactly for display.
func typeName(doc *metadata.Document, id uint32) string {
	return typeNameDepth(doc, id, 0)
}

// typeNameDepth bounds recursion so self-referential registries render
// as an opaque reference instead of looping.
func typeNameDepth(doc *metadata.Document, id uint32, depth int) string {
	if depth > 8 {
		return fmt.Sprintf("#%d", id)
	}
	t, ok := doc.Type(id)
	if !ok {
		return fmt.Sprintf("?%d", id)
	}
	switch t := t.(type) {
	case metadata.Primitive:
		return t.String()
	case metadata.Composite:
		return fmt.Sprintf("struct#%d", id)
	case metadata.Variant:
		return fmt.Sprintf("enum#%d", id)
	case metadata.Sequence:
		return "vec<" + typeNameDepth(doc, t.Elem, depth+1) + ">"
	case metadata.Tuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = typeNameDepth(doc, e, depth+1)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case metadata.Compact:
		return "compact<" + typeNameDepth(doc, t.Elem, depth+1) + ">"
	default:
		return fmt.Sprintf("?%d", id)
	}
}

func runInteractive(doc *metadata.Document, source string) error {
	p := tea.NewProgram(newBrowserModel(doc, source), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
