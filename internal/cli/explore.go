package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// exploreCommand opens the interactive flow browser.
func (c *CLI) exploreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "explore <diagram>",
		Short: "Browse the flow of a diagram interactively",
		Long: `Browse the flow of a diagram in the terminal. The browser starts at the
initial processes; enter steps into the processes that follow the selected
one, backspace steps back and i returns to the start.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.analyze(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			m, err := NewExploreModel(res.Graph, res.Diagram.Name)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context()), tea.WithAltScreen()).Run()
			return err
		},
	}
}
