// Package export writes catalog metadata as JSON, YAML or CSV.
// Image payloads are never exported; each row carries whether the note has
// an embedded image and the name it would be downloaded as.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/studyshare/pkg/core"
)

// Format selects the output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatCSV}
}

// ParseFormat maps a name ("json", "yaml"/"yml", "csv") to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", "":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("export: unknown format %q", s)
	}
}

// Row is the exported view of a note.
type Row struct {
	ID           string   `json:"id" yaml:"id"`
	Title        string   `json:"title" yaml:"title"`
	Class        string   `json:"class" yaml:"class"`
	ClassName    string   `json:"class_name" yaml:"class_name"`
	Tags         []string `json:"tags" yaml:"tags"`
	Date         string   `json:"date" yaml:"date"`
	FileName     string   `json:"file_name,omitempty" yaml:"file_name,omitempty"`
	DownloadName string   `json:"download_name" yaml:"download_name"`
	Embedded     bool     `json:"embedded" yaml:"embedded"`
}

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"id", "title", "class", "class_name", "tags", "date",
	"file_name", "download_name", "embedded",
}

// Rows maps notes to export rows, preserving order.
func Rows(notes []core.Note) []Row {
	rows := make([]Row, 0, len(notes))
	for _, n := range notes {
		tags := n.Tags
		if tags == nil {
			tags = []string{}
		}
		rows = append(rows, Row{
			ID:           n.ID,
			Title:        n.Title,
			Class:        n.Class,
			ClassName:    core.ClassDisplayName(n.Class),
			Tags:         tags,
			Date:         n.CreatedAt.UTC().Format(core.DateLayout),
			FileName:     n.FileName,
			DownloadName: core.DownloadName(n),
			Embedded:     strings.HasPrefix(n.FullImage, "data:"),
		})
	}
	return rows
}

// Write encodes notes to w in the given format.
func Write(w io.Writer, format Format, notes []core.Note) error {
	rows := Rows(notes)
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("export: json: %w", err)
		}
		return nil

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("export: yaml: %w", err)
		}
		return enc.Close()

	case FormatCSV:
		return writeCSV(w, rows)

	default:
		return fmt.Errorf("export: unknown format %q", format)
	}
}

// writeCSV writes one line per note. Tags within a row are pipe-separated
// ("|") to keep each note on a single CSV line.
func writeCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeaders); err != nil {
		return fmt.Errorf("export: csv: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.ID,
			r.Title,
			r.Class,
			r.ClassName,
			strings.Join(r.Tags, "|"),
			r.Date,
			r.FileName,
			r.DownloadName,
			fmt.Sprint(r.Embedded),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("export: csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: csv: %w", err)
	}
	return nil
}
