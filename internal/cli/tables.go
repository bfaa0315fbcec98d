package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stargen/pkg/core/tables"
)

// tablesCommand creates the distribution table command.
func (c *CLI) tablesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Inspect the distribution tables",
		Long: `Inspect the distribution tables that drive star, planet, and moon rolls.

Dump the embedded set to a directory, edit it, and point data.tables_dir in
the config file at it to generate with custom weights.`,
	}

	cmd.AddCommand(c.tablesListCommand())
	cmd.AddCommand(c.tablesDumpCommand())

	return cmd
}

func (c *CLI) tablesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the table files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range tables.Files {
				fmt.Fprintln(c.out, name)
			}
			return nil
		},
	}
}

func (c *CLI) tablesDumpCommand() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "dump [file]",
		Short: "Print an embedded table, or write all of them with --dir",
		Args:  cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return tables.Files, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir != "" {
				return c.dumpTables(dir)
			}
			if len(args) == 0 {
				return fmt.Errorf("name a table file or pass --dir (see 'stargen tables list')")
			}
			if !slices.Contains(tables.Files, args[0]) {
				return fmt.Errorf("unknown table %q (see 'stargen tables list')", args[0])
			}
			data, err := tables.Raw(args[0])
			if err != nil {
				return err
			}
			_, err = c.out.Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "write every table file into this directory")
	return cmd
}

func (c *CLI) dumpTables(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, name := range tables.Files {
		data, err := tables.Raw(name)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		c.file(path)
	}
	c.ok("Wrote %d tables", len(tables.Files))
	return nil
}
