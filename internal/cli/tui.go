package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/opmtools/opdflow/pkg/diagram"
	"github.com/opmtools/opdflow/pkg/flow"
)

var (
	listDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	listTrailStyle = lipgloss.NewStyle().Foreground(colorGray)
	listFinalStyle = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// ExploreModel - Interactive flow browser
// =============================================================================

// ExploreModel is the bubbletea model behind the explore command. It shows
// one set of processes at a time: the initial processes, or the successors
// of the last process the user stepped into.
type ExploreModel struct {
	Graph  *flow.Graph
	Title  string
	Items  []diagram.Process
	Cursor int
	// Trail lists the processes stepped into, oldest first.
	Trail  []string
	Status string
	Height int
	Offset int
}

// NewExploreModel starts at the initial processes of g.
func NewExploreModel(g *flow.Graph, title string) (ExploreModel, error) {
	initial, err := flow.InitialProcesses(g)
	if err != nil {
		return ExploreModel{}, err
	}
	return ExploreModel{Graph: g, Title: title, Items: initial, Height: 15}, nil
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Items)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", "right", "l":
			m = m.stepInto()
		case "backspace", "left", "h":
			m = m.stepBack()
		case "i":
			m = m.reset()
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

// stepInto shows the successors of the selected process. A final process
// stays selected and only sets the status line.
func (m ExploreModel) stepInto() ExploreModel {
	if len(m.Items) == 0 {
		return m
	}
	current := m.Items[m.Cursor]
	next, err := flow.NextProcessesByID(m.Graph, current.ID)
	if err != nil {
		m.Status = err.Error()
		return m
	}
	if len(next) == 0 {
		m.Status = current.Label() + " is a final process"
		return m
	}
	m.Trail = append(append([]string(nil), m.Trail...), current.ID)
	return m.show(next)
}

// stepBack returns to the set the last trail entry was chosen from.
func (m ExploreModel) stepBack() ExploreModel {
	if len(m.Trail) == 0 {
		return m
	}
	last := m.Trail[len(m.Trail)-1]
	m.Trail = m.Trail[:len(m.Trail)-1]

	var (
		items []diagram.Process
		err   error
	)
	if len(m.Trail) == 0 {
		items, err = flow.InitialProcesses(m.Graph)
	} else {
		items, err = flow.NextProcessesByID(m.Graph, m.Trail[len(m.Trail)-1])
	}
	if err != nil {
		m.Status = err.Error()
		return m
	}
	m = m.show(items)
	for i, p := range items {
		if p.ID == last {
			m.Cursor = i
		}
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m
}

func (m ExploreModel) reset() ExploreModel {
	initial, err := flow.InitialProcesses(m.Graph)
	if err != nil {
		m.Status = err.Error()
		return m
	}
	m.Trail = nil
	return m.show(initial)
}

func (m ExploreModel) show(items []diagram.Process) ExploreModel {
	m.Items = items
	m.Cursor = 0
	m.Offset = 0
	m.Status = ""
	return m
}

// Selected returns the process under the cursor.
func (m ExploreModel) Selected() (diagram.Process, bool) {
	if len(m.Items) == 0 {
		return diagram.Process{}, false
	}
	return m.Items[m.Cursor], true
}

func (m ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ next  ⌫ back  i initial  q quit"))
	b.WriteString("\n\n")

	heading := "Initial processes"
	if n := len(m.Trail); n > 0 {
		heading = "After " + m.label(m.Trail[n-1])
	}
	b.WriteString(listTrailStyle.Render(m.trail() + heading))
	b.WriteString("\n")

	end := min(m.Offset+m.Height, len(m.Items))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		p := m.Items[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		band, _ := flow.LevelOfID(m.Graph, p.ID)
		next, _ := flow.NextProcessesByID(m.Graph, p.ID)
		successors := strconv.Itoa(len(next))
		if len(next) == 0 {
			successors = "final"
		}
		rows = append(rows, []string{cursor, p.ID, p.Name, strconv.Itoa(band), successors})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers("", "ID", "Name", "Band", "Next").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			base := lipgloss.NewStyle()
			if col == 4 && row < len(rows) && rows[row][4] == "final" {
				base = listFinalStyle
			}
			if m.Offset+row == m.Cursor {
				return base.Foreground(colorGreen).Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Items))))
	if m.Status != "" {
		b.WriteString("  ")
		b.WriteString(StyleWarning.Render(m.Status))
	}
	return b.String()
}

// trail renders the visited processes as "a → b → ".
func (m ExploreModel) trail() string {
	var b strings.Builder
	for _, id := range m.Trail {
		b.WriteString(m.label(id))
		b.WriteString(" " + iconArrow + " ")
	}
	return b.String()
}

func (m ExploreModel) label(id string) string {
	if p, ok := m.Graph.Process(id); ok {
		return p.Label()
	}
	return id
}
