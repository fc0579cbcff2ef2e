// Package history reads and mutates the Maccy clipboard history database.
// It owns the query lifecycle: callers open a Store per request, run their
// reads or single-statement mutations, and close it. All transformation of
// content beyond classification happens in pkg/normalize.
package history

import (
	"time"
)

// Entry is one clipboard event from the history store, joined with its
// content fragments.
type Entry struct {
	ID           int64
	Title        string
	Application  string
	LastCopiedAt time.Time
	CopyCount    int64
	Pinned       bool
	Fragments    []Fragment
}

// Fragment is one typed representation of a clipboard event. An event may
// carry several (e.g. plain text plus a PNG). Value holds []byte when the
// store returned a blob and string when it returned text; binary detection
// goes by the column's native representation, not the content type.
type Fragment struct {
	Type  string
	Kind  Kind
	Value any
}

// IsBinary reports whether the fragment's value came back from the store as
// a raw blob.
func (f Fragment) IsBinary() bool {
	_, ok := f.Value.([]byte)
	return ok
}

// Stats summarizes the history store for the stats tool.
type Stats struct {
	TotalEntries    int64
	PinnedEntries   int64
	Applications    int64
	TopApplications []AppCount
	OldestCopiedAt  time.Time
	NewestCopiedAt  time.Time
}

// AppCount is a per-application usage tally.
type AppCount struct {
	Application string
	Copies      int64
}
