package printer

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/harness/nexus-migrate/internal/style"
	"github.com/pterm/pterm"
)

// Table is a header row plus data rows. Footer, when set, is printed
// below the table.
type Table struct {
	Headers []string
	Rows    [][]string
	Footer  string
}

// AddRow appends a row, padding or cutting it to the header width.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.Headers))
	for i := range row {
		if i < len(cells) && cells[i] != "" {
			row[i] = cells[i]
			continue
		}
		row[i] = "-"
	}
	t.Rows = append(t.Rows, row)
}

// renderStyledTable renders a table using lipgloss/table with the project's colour theme.
func renderStyledTable(headers []string, rows [][]string) string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(style.Cyan).
		Padding(0, 1)

	cellStyle := lipgloss.NewStyle().
		Foreground(style.White).
		Padding(0, 1)

	dimCellStyle := lipgloss.NewStyle().
		Foreground(style.Dim).
		Padding(0, 1)

	t := lgtable.New().
		Headers(headers...).
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(style.Subtle)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == lgtable.HeaderRow {
				return headerStyle
			}
			if row%2 == 0 {
				return cellStyle
			}
			return dimCellStyle
		})

	for _, r := range rows {
		t = t.Row(r...)
	}

	return t.Render()
}

// renderPtermTable renders a table using the pterm renderer (for non-TTY / no-color).
func renderPtermTable(headers []string, rows [][]string) (string, error) {
	data := pterm.TableData{headers}
	for _, r := range rows {
		data = append(data, r)
	}
	return pterm.DefaultTable.
		WithHasHeader().
		WithBoxed(true).
		WithData(data).
		Srender()
}

// Print writes the table to w. When colour is enabled it renders using
// lipgloss/table with the project theme, otherwise it falls back to the
// pterm boxed table for plain-text environments. Empty tables print nothing
// but the footer.
func Print(w io.Writer, t Table) error {
	if len(t.Rows) > 0 {
		if style.Enabled {
			if _, err := fmt.Fprintln(w, renderStyledTable(t.Headers, t.Rows)); err != nil {
				return err
			}
		} else {
			out, err := renderPtermTable(t.Headers, t.Rows)
			if err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}
			if _, err := fmt.Fprintln(w, out); err != nil {
				return err
			}
		}
	}

	if t.Footer == "" {
		return nil
	}
	footer := t.Footer
	if style.Enabled {
		footer = style.DimText.Render(footer)
	}
	_, err := fmt.Fprintln(w, footer)
	return err
}
