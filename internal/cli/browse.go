package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/ocasazza/graphlayouts/pkg/graph"
	"github.com/ocasazza/graphlayouts/pkg/graphio"
	"github.com/ocasazza/graphlayouts/pkg/store"
)

// browseCommand creates the browse command for inspecting stored graphs.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		storeDir  string
		exportDir string
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse graphs in a file store",
		Long: `Browse graphs in a file store.

Opens an interactive list of the graphs stored under --store-dir (the
directory a file-backed serve writes to; defaults to the config
directory). Selecting a graph prints its details; with -o the selection
is also exported as a json file ready for the layout command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), storeDir, exportDir)
		},
	}

	cmd.Flags().StringVar(&storeDir, "store-dir", "", "file store directory (default: ~/.config/graphlayouts/graphs)")
	cmd.Flags().StringVarP(&exportDir, "output", "o", "", "export the selected graph to this directory")

	return cmd
}

// runBrowse lists the stored graphs, runs the interactive picker, and
// reports on the selection.
func (c *CLI) runBrowse(ctx context.Context, storeDir, exportDir string) error {
	st, err := store.NewFileStore(storeDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	ids, err := st.List(ctx)
	if err != nil {
		return fmt.Errorf("list graphs: %w", err)
	}
	if len(ids) == 0 {
		printInfo("No graphs stored under %s", st.Path())
		printNextStep("Store one", fmt.Sprintf("%s serve --store-dir %s", appName, st.Path()))
		return nil
	}

	spinner := newSpinner("Reading stored graphs...")
	spinner.Start()
	entries := make([]graphEntry, 0, len(ids))
	graphs := make(map[string]*graph.Graph, len(ids))
	for _, id := range ids {
		g, err := st.Get(ctx, id)
		if err != nil {
			c.Logger.Warn("skipping unreadable graph", "id", id, "error", err)
			continue
		}
		graphs[id] = g
		entries = append(entries, graphEntry{
			id:         id,
			nodes:      len(g.Nodes),
			edges:      len(g.Edges),
			positioned: positionedCount(g),
		})
	}
	spinner.Stop()

	p := tea.NewProgram(newGraphListModel(entries))
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	fm, ok := finalModel.(graphListModel)
	if !ok || fm.selected == nil {
		printDetail("No selection made")
		return nil
	}

	sel := fm.selected
	g := graphs[sel.id]

	printNewline()
	printKeyValue("Graph", sel.id)
	printKeyValue("Nodes", fmt.Sprintf("%d", sel.nodes))
	printKeyValue("Edges", fmt.Sprintf("%d", sel.edges))
	printKeyValue("Positioned", fmt.Sprintf("%d of %d", sel.positioned, sel.nodes))

	if exportDir == "" {
		printNewline()
		printNextStep("Export it", fmt.Sprintf("%s browse -o .", appName))
		return nil
	}

	path := filepath.Join(exportDir, sel.id+".json")
	if err := graphio.ExportFile(g, path); err != nil {
		return fmt.Errorf("export %s: %w", sel.id, err)
	}
	printNewline()
	printFile(path)
	printNextStep("Lay it out", fmt.Sprintf("%s layout %s", appName, path))

	return nil
}

// positionedCount reports how many nodes carry a position.
func positionedCount(g *graph.Graph) int {
	n := 0
	for _, node := range g.Nodes {
		if node.Position != nil {
			n++
		}
	}
	return n
}

// =============================================================================
// graphListModel - Interactive graph selection
// =============================================================================

// graphEntry is one row in the browse list.
type graphEntry struct {
	id         string
	nodes      int
	edges      int
	positioned int
}

// graphListModel is the bubbletea model for interactive graph selection.
type graphListModel struct {
	entries  []graphEntry
	cursor   int
	selected *graphEntry
	height   int
	offset   int
}

// newGraphListModel creates a new graph list model.
func newGraphListModel(entries []graphEntry) graphListModel {
	return graphListModel{
		entries: entries,
		height:  15,
	}
}

func (m graphListModel) Init() tea.Cmd {
	return nil
}

func (m graphListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			m.selected = &m.entries[m.cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m graphListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Stored Graphs"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.entries) {
		end = len(m.entries)
	}

	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		e := m.entries[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		positioned := "—"
		if e.nodes > 0 && e.positioned == e.nodes {
			positioned = "✓"
		} else if e.positioned > 0 {
			positioned = fmt.Sprintf("%d/%d", e.positioned, e.nodes)
		}

		rows = append(rows, []string{
			cursor,
			e.id,
			fmt.Sprintf("%d", e.nodes),
			fmt.Sprintf("%d", e.edges),
			positioned,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Graph", "Nodes", "Edges", "Positioned").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.offset+row == m.cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			if col >= 2 {
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.entries))))

	return b.String()
}
