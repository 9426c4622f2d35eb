package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/leengari/table-algebra/internal/domain/data"
	"github.com/leengari/table-algebra/internal/table"
)

var (
	primaryColor = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7C79FF"}
	mutedColor   = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}

	titleStyle  = lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	borderStyle = lipgloss.NewStyle().Foreground(mutedColor)
	footerStyle = lipgloss.NewStyle().Foreground(mutedColor).Italic(true)
)

// renderRecords prints materialized rows under t's qualified column names.
func renderRecords(t table.Table, records []data.Record) string {
	info := t.TableInfo()
	headers := make([]string, info.ColumnCount())
	for c := range headers {
		name, err := info.ColumnName(c)
		if err != nil {
			headers[c] = fmt.Sprintf("#%d", c)
			continue
		}
		headers[c] = name.FullName()
	}

	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = rec.Strings()
	}
	return renderGrid(info.Name.FullName(), headers, rows)
}

func renderGrid(title string, headers []string, rows [][]string) string {
	grid := ltable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...)

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(title),
		grid.Render(),
		footerStyle.Render(fmt.Sprintf("%d row(s)", len(rows))),
	)
}
