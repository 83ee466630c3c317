// Package render encodes result rows for the supported output formats.
package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ohler55/ojg/oj"

	"github.com/expocli/expocli/api"
)

// Format selects an output encoding.
type Format string

const (
	FormatTable  Format = "table"
	FormatCSV    Format = "csv"
	FormatJSON   Format = "json"
	FormatSQLite Format = "sqlite"
)

// ParseFormat normalizes a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTable, FormatCSV, FormatJSON, FormatSQLite:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want table, csv, json, or sqlite)", s)
	}
}

// Write renders rows to w. FormatSQLite is file-backed; use SQLite for it.
func Write(w io.Writer, format Format, columns []string, rows []api.ResultRow) error {
	switch format {
	case FormatTable:
		return Table(w, columns, rows)
	case FormatCSV:
		return CSV(w, columns, rows)
	case FormatJSON:
		return JSON(w, rows)
	case FormatSQLite:
		return fmt.Errorf("sqlite output requires a file path")
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// Table writes an aligned column view with a row-count footer.
func Table(w io.Writer, columns []string, rows []api.ResultRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(columns, "\t"))
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, f := range row {
			cells[i] = f.Value
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	_, err := fmt.Fprintf(w, "(%s %s)\n", humanize.Comma(int64(len(rows))), plural(len(rows), "row"))
	return err
}

// CSV writes a header record followed by one record per row.
func CSV(w io.Writer, columns []string, rows []api.ResultRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("render csv: %w", err)
	}
	cells := make([]string, 0, len(columns))
	for _, row := range rows {
		cells = cells[:0]
		for _, f := range row {
			cells = append(cells, f.Value)
		}
		if err := cw.Write(cells); err != nil {
			return fmt.Errorf("render csv: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// JSON writes rows as an array of objects; key order follows the projection.
func JSON(w io.Writer, rows []api.ResultRow) error {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, row := range rows {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('{')
		for j, f := range row {
			if j > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(oj.JSON(f.Column))
			sb.WriteByte(':')
			sb.WriteString(oj.JSON(f.Value))
		}
		sb.WriteByte('}')
	}
	sb.WriteString("]\n")
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("render json: %w", err)
	}
	return nil
}

// Stats writes the one-line execution summary.
func Stats(w io.Writer, s *api.ExecutionStats) error {
	mode := "sequential"
	if s.Threaded {
		mode = fmt.Sprintf("%d workers", s.Workers)
	}
	_, err := fmt.Fprintf(w, "%s %s scanned in %s (%s)\n",
		humanize.Comma(int64(s.TotalFiles)), plural(s.TotalFiles, "file"),
		s.Elapsed.Round(time.Millisecond), mode)
	return err
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
