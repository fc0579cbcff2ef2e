// Package export writes history entries to a file in one of the supported
// formats. Only the primary text representation of each entry is exported;
// binary image payloads never leave the store through this path.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattjh/maccy-mcp/pkg/history"
	"github.com/mattjh/maccy-mcp/pkg/normalize"
)

// Format names an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatText Format = "txt"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatText:
		return FormatText, nil
	}
	return "", fmt.Errorf("unsupported export format %q (want json, csv or txt)", s)
}

// Record is one exported history entry.
type Record struct {
	ID          int64  `json:"id"`
	Title       string `json:"title,omitempty"`
	Application string `json:"application,omitempty"`
	LastCopied  string `json:"last_copied"`
	CopyCount   int64  `json:"copy_count"`
	Pinned      bool   `json:"pinned"`
	Text        string `json:"text,omitempty"`
}

// BuildRecords normalizes entries into export records. Per-entry sanitation
// follows the same pipeline as the tool responses.
func BuildRecords(entries []history.Entry, level normalize.Strictness) []Record {
	records := make([]Record, 0, len(entries))
	for _, e := range entries {
		content := normalize.Normalize(e.Fragments, level)
		records = append(records, Record{
			ID:          e.ID,
			Title:       e.Title,
			Application: e.Application,
			LastCopied:  e.LastCopiedAt.Format(time.RFC3339),
			CopyCount:   e.CopyCount,
			Pinned:      e.Pinned,
			Text:        normalize.PrimaryText(content, e.Title),
		})
	}
	return records
}

// Write encodes records to w in the given format.
func Write(w io.Writer, format Format, records []Record) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("encoding JSON export: %w", err)
		}
		return nil

	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"id", "title", "application", "last_copied", "copy_count", "pinned", "text"}); err != nil {
			return fmt.Errorf("writing CSV header: %w", err)
		}
		for _, r := range records {
			row := []string{
				strconv.FormatInt(r.ID, 10),
				r.Title,
				r.Application,
				r.LastCopied,
				strconv.FormatInt(r.CopyCount, 10),
				strconv.FormatBool(r.Pinned),
				r.Text,
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("writing CSV row: %w", err)
			}
		}
		cw.Flush()
		return cw.Error()

	case FormatText:
		for _, r := range records {
			header := fmt.Sprintf("#%d", r.ID)
			if r.Application != "" {
				header += " " + r.Application
			}
			header += " " + r.LastCopied
			if r.Pinned {
				header += " [pinned]"
			}
			if _, err := fmt.Fprintf(w, "%s\n%s\n\n", header, r.Text); err != nil {
				return fmt.Errorf("writing text export: %w", err)
			}
		}
		return nil
	}
	return fmt.Errorf("unsupported export format %q", format)
}

// WriteFile writes records to path, creating the file. The parent directory
// must exist; a missing directory surfaces as the underlying I/O error.
func WriteFile(path string, format Format, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := Write(f, format, records); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}
	return nil
}
