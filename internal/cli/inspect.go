package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/protouml/protouml/pkg/schema"
)

// List styles
var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// inspectCommand creates the inspect command, an interactive browser over
// the entities of a parsed schema.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.proto>",
		Short: "Browse the entities of a protobuf schema interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := schema.Load(args[0])
			if err != nil {
				return err
			}

			entities := collectEntities(file)
			if len(entities) == 0 {
				printInfo("No entities found in %s", args[0])
				return nil
			}

			model := NewEntityListModel(file.Name, entities)
			_, err = tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}

// =============================================================================
// Entity Collection
// =============================================================================

// entitySummary is one row in the inspect browser.
type entitySummary struct {
	Name    string
	Kind    string // message, enum, service
	Package string
	Members []string // rendered field, value, or rpc lines
}

// collectEntities flattens the schema into a list of browsable entities,
// walking nested messages and enums depth-first.
func collectEntities(file *schema.File) []entitySummary {
	var out []entitySummary
	collectNamespace(file.Root, file.Package, &out)
	return out
}

func collectNamespace(ns *schema.Namespace, pkg string, out *[]entitySummary) {
	if ns == nil {
		return
	}
	for _, child := range ns.Children {
		switch n := child.(type) {
		case *schema.Namespace:
			collectNamespace(n, pkg, out)
		case *schema.Message:
			collectMessage(n, pkg, out)
		case *schema.Enum:
			*out = append(*out, enumSummary(n, pkg))
		case *schema.Service:
			*out = append(*out, serviceSummary(n, pkg))
		}
	}
}

func collectMessage(m *schema.Message, pkg string, out *[]entitySummary) {
	members := make([]string, 0, len(m.Fields))
	for _, f := range m.Fields {
		if f.Reserved {
			continue
		}
		members = append(members, fieldLine(f))
	}
	*out = append(*out, entitySummary{Name: m.Name, Kind: "message", Package: pkg, Members: members})

	for _, nested := range m.Nested {
		switch n := nested.(type) {
		case *schema.Message:
			collectMessage(n, pkg, out)
		case *schema.Enum:
			*out = append(*out, enumSummary(n, pkg))
		}
	}
}

func enumSummary(e *schema.Enum, pkg string) entitySummary {
	members := make([]string, len(e.Values))
	for i, v := range e.Values {
		members[i] = fmt.Sprintf("%s = %d", v.Name, v.Number)
	}
	return entitySummary{Name: e.Name, Kind: "enum", Package: pkg, Members: members}
}

func serviceSummary(s *schema.Service, pkg string) entitySummary {
	members := make([]string, len(s.RPCs))
	for i, r := range s.RPCs {
		members[i] = fmt.Sprintf("%s(%s) : %s", r.Name, r.Request, r.Response)
	}
	return entitySummary{Name: s.Name, Kind: "service", Package: pkg, Members: members}
}

// fieldLine renders one field the way it appears in the diagram.
func fieldLine(f schema.Field) string {
	t := f.Type
	switch {
	case f.Map:
		t = fmt.Sprintf("map<%s, %s>", f.MapKey, f.MapValue)
	case f.Repeated:
		t += "[]"
	case f.Optional:
		t += "?"
	}
	return fmt.Sprintf("%s : %s", f.Name, t)
}

// =============================================================================
// EntityListModel - Interactive entity browser
// =============================================================================

// EntityListModel is the bubbletea model for browsing schema entities.
// The left pane lists entities; enter toggles a member detail view.
type EntityListModel struct {
	File     string
	Entities []entitySummary
	Cursor   int
	Height   int
	Offset   int
	Detail   bool
}

// NewEntityListModel creates a new entity browser model.
func NewEntityListModel(file string, entities []entitySummary) EntityListModel {
	return EntityListModel{
		File:     file,
		Entities: entities,
		Height:   15,
	}
}

func (m EntityListModel) Init() tea.Cmd {
	return nil
}

func (m EntityListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.Detail {
				m.Detail = false
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if !m.Detail && m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if !m.Detail && m.Cursor < len(m.Entities)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Detail = !m.Detail
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m EntityListModel) View() string {
	if m.Detail {
		return m.detailView()
	}
	return m.listView()
}

func (m EntityListModel) listView() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Schema Entities — " + m.File))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Entities) {
		end = len(m.Entities)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		e := m.Entities[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		pkg := e.Package
		if pkg == "" {
			pkg = "—"
		}

		rows = append(rows, []string{cursor, e.Name, e.Kind, pkg, fmt.Sprintf("%d", len(e.Members))})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Entity", "Kind", "Package", "Members").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Entities))))

	return b.String()
}

func (m EntityListModel) detailView() string {
	e := m.Entities[m.Cursor]

	var b strings.Builder
	b.WriteString(StyleTitle.Render(e.Name))
	b.WriteString(listDimStyle.Render("  (" + e.Kind + ")"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("esc back  q quit"))
	b.WriteString("\n\n")

	if len(e.Members) == 0 {
		b.WriteString(listDimStyle.Render("  no members"))
		b.WriteString("\n")
		return b.String()
	}

	for _, member := range e.Members {
		b.WriteString("  " + StyleValue.Render(member) + "\n")
	}
	return b.String()
}

var _ tea.Model = EntityListModel{}
