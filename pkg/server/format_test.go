package server

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjh/maccy-mcp/pkg/history"
	"github.com/mattjh/maccy-mcp/pkg/normalize"
)

func testFormatOptions() formatOptions {
	return formatOptions{displayWidth: 400, strictness: normalize.StrictnessMinimal}
}

func textFragment(text string) history.Fragment {
	return history.Fragment{Type: "public.utf8-plain-text", Kind: history.KindText, Value: text}
}

func pngFragment(data []byte) history.Fragment {
	return history.Fragment{Type: "public.png", Kind: history.KindImage, Value: data}
}

func textOf(t *testing.T, c mcp.Content) string {
	t.Helper()
	tc, ok := c.(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", c)
	return tc.Text
}

func TestFormatEntriesBasic(t *testing.T) {
	entries := []history.Entry{
		{
			ID:           1,
			Application:  "com.apple.Safari",
			LastCopiedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
			CopyCount:    3,
			Pinned:       true,
			Fragments:    []history.Fragment{textFragment("hello world")},
		},
	}

	blocks := formatEntries(entries, testFormatOptions())
	require.Len(t, blocks, 1)
	text := textOf(t, blocks[0])
	assert.Contains(t, text, "#1")
	assert.Contains(t, text, "[pinned]")
	assert.Contains(t, text, "com.apple.Safari")
	assert.Contains(t, text, "copied 3 times")
	assert.Contains(t, text, "hello world")
}

func TestFormatEntriesIsolation(t *testing.T) {
	// Item 2's rendering panics; items 1 and 3 must still come through and
	// item 2 degrades to a single placeholder carrying its id.
	orig := renderEntry
	renderEntry = func(e history.Entry, opts formatOptions) []mcp.Content {
		if e.ID == 2 {
			panic("boom")
		}
		return orig(e, opts)
	}
	defer func() { renderEntry = orig }()

	entries := []history.Entry{
		{ID: 1, Fragments: []history.Fragment{textFragment("one")}},
		{ID: 2, Fragments: []history.Fragment{textFragment("two")}},
		{ID: 3, Fragments: []history.Fragment{textFragment("three")}},
	}

	blocks := formatEntries(entries, testFormatOptions())
	require.Len(t, blocks, 3)
	assert.Contains(t, textOf(t, blocks[0]), "one")
	placeholder := textOf(t, blocks[1])
	assert.Contains(t, placeholder, "item 2")
	assert.Contains(t, placeholder, "boom")
	assert.Contains(t, textOf(t, blocks[2]), "three")
}

func TestFormatEntriesImageHandling(t *testing.T) {
	raw := []byte{0x89, 0x50, 0x4E, 0x47}
	entries := []history.Entry{
		{ID: 7, Fragments: []history.Fragment{pngFragment(raw)}},
	}

	t.Run("images withheld by default", func(t *testing.T) {
		blocks := formatEntries(entries, testFormatOptions())
		require.Len(t, blocks, 1)
		assert.Contains(t, textOf(t, blocks[0]), "1 image attachment")
	})

	t.Run("images attached on request with display hint", func(t *testing.T) {
		opts := testFormatOptions()
		opts.includeImages = true
		blocks := formatEntries(entries, opts)
		require.Len(t, blocks, 3)

		hint := textOf(t, blocks[1])
		assert.Contains(t, hint, "public.png")
		assert.Contains(t, hint, "display width 400px")

		img, ok := blocks[2].(mcp.ImageContent)
		require.True(t, ok, "expected image content, got %T", blocks[2])
		assert.Equal(t, "image/png", img.MIMEType)
		decoded, err := base64.StdEncoding.DecodeString(img.Data)
		require.NoError(t, err)
		assert.Equal(t, raw, decoded, "payload must round-trip byte-identical")
	})
}

func TestFormatItemDetail(t *testing.T) {
	e := history.Entry{
		ID:           9,
		Title:        "snippet",
		Application:  "com.apple.Terminal",
		LastCopiedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		CopyCount:    1,
		Fragments: []history.Fragment{
			textFragment("ls -la"),
			pngFragment([]byte{1, 2}),
		},
	}

	blocks := formatItemDetail(e, testFormatOptions())
	require.Len(t, blocks, 1)
	text := textOf(t, blocks[0])
	assert.Contains(t, text, "Item #9")
	assert.Contains(t, text, "Title: snippet")
	assert.Contains(t, text, "[public.utf8-plain-text]")
	assert.Contains(t, text, "ls -la")
	assert.Contains(t, text, "[public.png] 2 bytes of image data")
}

func TestParseDateBound(t *testing.T) {
	t.Run("rfc3339", func(t *testing.T) {
		got, err := parseDateBound("2024-05-01T10:30:00Z", false)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC), got)
	})

	t.Run("bare date lower bound", func(t *testing.T) {
		got, err := parseDateBound("2024-05-01", false)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("bare date upper bound is end of day", func(t *testing.T) {
		got, err := parseDateBound("2024-05-01", true)
		require.NoError(t, err)
		assert.True(t, got.After(time.Date(2024, 5, 1, 23, 59, 59, 0, time.UTC)))
		assert.True(t, got.Before(time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := parseDateBound("yesterday", false)
		assert.Error(t, err)
	})
}
