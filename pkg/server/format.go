package server

import (
	"encoding/base64"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mattjh/maccy-mcp/pkg/history"
	"github.com/mattjh/maccy-mcp/pkg/normalize"
)

const timestampLayout = "2006-01-02 15:04:05 MST"

// formatOptions controls how entries are rendered into content blocks.
type formatOptions struct {
	includeImages bool
	displayWidth  int
	strictness    normalize.Strictness
}

// formatEntries renders a batch of entries into ordered content blocks. Each
// entry is formatted in isolation: a failure inside one entry degrades to a
// single placeholder diagnostic block carrying the entry's id, and the rest
// of the batch is unaffected.
func formatEntries(entries []history.Entry, opts formatOptions) []mcp.Content {
	blocks := make([]mcp.Content, 0, len(entries))
	for _, e := range entries {
		blocks = append(blocks, formatEntry(e, opts)...)
	}
	return blocks
}

func formatEntry(e history.Entry, opts formatOptions) (blocks []mcp.Content) {
	defer func() {
		if r := recover(); r != nil {
			blocks = []mcp.Content{mcp.NewTextContent(
				fmt.Sprintf("[Error formatting item %d: %v]", e.ID, r))}
		}
	}()
	return renderEntry(e, opts)
}

// renderEntry is the unguarded single-entry renderer. It is a variable so
// tests can substitute a failing renderer and exercise the isolation
// barrier in formatEntry.
var renderEntry = func(e history.Entry, opts formatOptions) []mcp.Content {
	var blocks []mcp.Content
	content := normalize.Normalize(e.Fragments, opts.strictness)

	var b strings.Builder
	fmt.Fprintf(&b, "#%d", e.ID)
	if e.Pinned {
		b.WriteString(" [pinned]")
	}
	if e.Application != "" {
		fmt.Fprintf(&b, " %s", e.Application)
	}
	if !e.LastCopiedAt.IsZero() {
		fmt.Fprintf(&b, " at %s", e.LastCopiedAt.Format(timestampLayout))
	}
	if e.CopyCount > 1 {
		fmt.Fprintf(&b, " (copied %d times)", e.CopyCount)
	}

	if text := normalize.PrimaryText(content, e.Title); text != "" {
		b.WriteString("\n")
		b.WriteString(text)
	}
	if n := countImages(content); n > 0 && !opts.includeImages {
		fmt.Fprintf(&b, "\n[%d image attachment(s); request image inclusion to receive them]", n)
	}
	blocks = append(blocks, mcp.NewTextContent(b.String()))

	if opts.includeImages {
		blocks = append(blocks, imageBlocks(e.ID, content, opts.displayWidth)...)
	}
	return blocks
}

// imageBlocks renders every image-classified fragment as an image content
// block, preceded by a display hint for the consumer. The hint is metadata
// only; the payload bytes are encoded exactly as stored.
func imageBlocks(id int64, content map[string]normalize.Value, displayWidth int) []mcp.Content {
	types := make([]string, 0, len(content))
	for t, v := range content {
		if v.Kind == history.KindImage && len(v.Bytes) > 0 {
			types = append(types, t)
		}
	}
	sort.Strings(types)

	blocks := make([]mcp.Content, 0, 2*len(types))
	for _, t := range types {
		v := content[t]
		blocks = append(blocks,
			mcp.NewTextContent(fmt.Sprintf("[item %d image %s, %d bytes, display width %dpx]",
				id, t, len(v.Bytes), displayWidth)),
			mcp.ImageContent{
				Type:     "image",
				Data:     base64.StdEncoding.EncodeToString(v.Bytes),
				MIMEType: history.MIMEType(t),
			},
		)
	}
	return blocks
}

func countImages(content map[string]normalize.Value) int {
	n := 0
	for _, v := range content {
		if v.Kind == history.KindImage && len(v.Bytes) > 0 {
			n++
		}
	}
	return n
}

// formatItemDetail renders the full view of a single entry for the item
// lookup tool, listing every content representation by type.
func formatItemDetail(e history.Entry, opts formatOptions) []mcp.Content {
	content := normalize.Normalize(e.Fragments, opts.strictness)

	var b strings.Builder
	fmt.Fprintf(&b, "Item #%d\n", e.ID)
	if e.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", e.Title)
	}
	if e.Application != "" {
		fmt.Fprintf(&b, "Application: %s\n", e.Application)
	}
	if !e.LastCopiedAt.IsZero() {
		fmt.Fprintf(&b, "Last copied: %s\n", e.LastCopiedAt.Format(timestampLayout))
	}
	fmt.Fprintf(&b, "Copy count: %d\n", e.CopyCount)
	fmt.Fprintf(&b, "Pinned: %t\n", e.Pinned)

	types := make([]string, 0, len(content))
	for t := range content {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		v := content[t]
		if v.Kind == history.KindImage {
			fmt.Fprintf(&b, "\n[%s] %d bytes of image data\n", t, len(v.Bytes))
			continue
		}
		fmt.Fprintf(&b, "\n[%s]\n%s\n", t, v.Text)
	}

	blocks := []mcp.Content{mcp.NewTextContent(strings.TrimRight(b.String(), "\n"))}
	if opts.includeImages {
		blocks = append(blocks, imageBlocks(e.ID, content, opts.displayWidth)...)
	}
	return blocks
}

// parseDateBound parses a user-supplied date argument. Full timestamps are
// accepted as RFC 3339; bare dates snap to the start of the day, or to the
// end of the day for the upper bound so both bounds stay inclusive.
func parseDateBound(s string, upper bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD or RFC 3339)", s)
	}
	if upper {
		return t.Add(24*time.Hour - time.Nanosecond), nil
	}
	return t, nil
}
