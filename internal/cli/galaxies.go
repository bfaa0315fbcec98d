package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	galaxyio "github.com/matzehuels/stargen/pkg/io"
	"github.com/matzehuels/stargen/pkg/store"
)

// galaxiesCommand creates the stored-galaxy management command.
func (c *CLI) galaxiesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "galaxies",
		Short: "Manage saved galaxies",
	}

	cmd.AddCommand(c.galaxiesListCommand())
	cmd.AddCommand(c.galaxiesExportCommand())
	cmd.AddCommand(c.galaxiesRemoveCommand())

	return cmd
}

func (c *CLI) galaxiesListCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved galaxies, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			recs, err := st.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				c.note("No saved galaxies")
				return nil
			}
			fmt.Fprintln(c.out, recordTable(recs))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", store.DefaultListLimit, "maximum number of galaxies")
	return cmd
}

func (c *CLI) galaxiesExportCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export [id]",
		Short: "Write a saved galaxy as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			g, rec, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = fmt.Sprintf("galaxy-%d.json", rec.Seed)
			}
			if output == "-" {
				return galaxyio.WriteJSON(g, c.out)
			}
			if err := galaxyio.ExportJSON(g, output); err != nil {
				return err
			}
			c.ok("Exported %s", rec.ID)
			c.file(output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default galaxy-<seed>.json, - for stdout)")
	return cmd
}

func (c *CLI) galaxiesRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [id...]",
		Short: "Remove saved galaxies",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			for _, id := range args {
				if err := st.Delete(cmd.Context(), id); err != nil {
					return err
				}
				c.ok("Removed %s", id)
			}
			return nil
		},
	}
}

func recordTable(recs []store.Record) string {
	rows := make([][]string, len(recs))
	for i, r := range recs {
		rows[i] = []string{
			r.ID,
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%dx%d", r.Width, r.Height),
			r.Shape,
			fmt.Sprint(r.Systems),
			fmt.Sprint(r.Seed),
		}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Created", "Size", "Shape", "Systems", "Seed").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return StyleHighlight
			default:
				return StyleValue
			}
		}).
		Render()
}
