package cmd

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"mdm-scriptgen/internal/scriptdef"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newCatalogCmd() *cobra.Command {
	var expressions bool

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the standard variables a generated script can derive at runtime",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), catalogTable(scriptdef.StandardVariableCatalog(), expressions))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&expressions, "expressions", "e", false, "Show the shell expression of each variable")
	return cmd
}

func catalogTable(entries []scriptdef.CatalogEntry, expressions bool) string {
	headers := []string{"#", "NAME", "DESCRIPTION"}
	if expressions {
		headers = append(headers, "EXPRESSION")
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		row := []string{strconv.Itoa(e.Key), e.Name, e.Description}
		if expressions {
			row = append(row, e.Expression)
		}
		rows = append(rows, row)
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}
