package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit FLOW_ID",
		Short: "Open the interactive flow editor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && !app.IsInteractive() {
				return fmt.Errorf("the flow editor needs an interactive terminal")
			}
			id, err := parseFlowID(args[0])
			if err != nil {
				return err
			}
			flow, graph, err := app.Flows.Load(context.Background(), id)
			if err != nil {
				return err
			}

			m := newEditorModel(app, flow, graph)
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
			final, err := p.Run()
			if err != nil {
				return fmt.Errorf("running editor: %w", err)
			}
			if em, ok := final.(editorModel); ok && em.dirty {
				fmt.Println("Closed with unsaved changes.")
			}
			return nil
		},
	}
}
