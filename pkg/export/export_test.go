package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjh/maccy-mcp/pkg/history"
	"github.com/mattjh/maccy-mcp/pkg/normalize"
)

func sampleEntries() []history.Entry {
	return []history.Entry{
		{
			ID:           1,
			Title:        "greeting",
			Application:  "com.apple.Safari",
			LastCopiedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
			CopyCount:    2,
			Pinned:       true,
			Fragments: []history.Fragment{
				{Type: "public.utf8-plain-text", Kind: history.KindText, Value: "hello\x00 world"},
			},
		},
		{
			ID:           2,
			LastCopiedAt: time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC),
			CopyCount:    1,
			Fragments: []history.Fragment{
				{Type: "public.png", Kind: history.KindImage, Value: []byte{1, 2, 3}},
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"json", "CSV", " txt "} {
		_, err := ParseFormat(in)
		assert.NoError(t, err, "input %q", in)
	}

	_, err := ParseFormat("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported export format")
}

func TestBuildRecords(t *testing.T) {
	records := BuildRecords(sampleEntries(), normalize.StrictnessMinimal)
	require.Len(t, records, 2)

	assert.Equal(t, int64(1), records[0].ID)
	assert.Equal(t, "hello world", records[0].Text, "text is sanitized on the way out")
	assert.True(t, records[0].Pinned)
	assert.Equal(t, "2024-05-01T12:00:00Z", records[0].LastCopied)

	// image-only entry exports metadata but never bytes
	assert.Empty(t, records[1].Text)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	records := BuildRecords(sampleEntries(), normalize.StrictnessMinimal)
	require.NoError(t, Write(&buf, FormatJSON, records))

	var decoded []Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, records, decoded)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	records := BuildRecords(sampleEntries(), normalize.StrictnessMinimal)
	require.NoError(t, Write(&buf, FormatCSV, records))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus two rows")
	assert.Equal(t, []string{"id", "title", "application", "last_copied", "copy_count", "pinned", "text"}, rows[0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "hello world", rows[1][6])
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	records := BuildRecords(sampleEntries(), normalize.StrictnessMinimal)
	require.NoError(t, Write(&buf, FormatText, records))

	out := buf.String()
	assert.Contains(t, out, "#1 com.apple.Safari")
	assert.Contains(t, out, "[pinned]")
	assert.Contains(t, out, "hello world")
}

func TestWriteFile(t *testing.T) {
	records := BuildRecords(sampleEntries(), normalize.StrictnessMinimal)

	t.Run("writes to existing directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.json")
		require.NoError(t, WriteFile(path, FormatJSON, records))
	})

	t.Run("missing directory fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "out.json")
		assert.Error(t, WriteFile(path, FormatJSON, records))
	})
}
