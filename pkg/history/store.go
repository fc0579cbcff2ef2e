package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gobwas/glob"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by single-item lookups and mutations when no row
// matches the requested id. Callers treat it as "nothing to operate on",
// not as a store fault.
var ErrNotFound = errors.New("history item not found")

// overFetchFactor is how many raw entries the reader pulls per qualifying
// entry when a post-query Transform is in play. Content-based filtering can
// only happen after the join, so the reader over-fetches and stops as soon
// as the limit is met. Sparse matches beyond this bound return fewer items;
// that is a documented limitation, not an error.
const overFetchFactor = 3

const defaultListLimit = 50

// Store is a handle on the Maccy history database. Each tool invocation
// opens its own Store and closes it when done; the database's busy timeout
// is the only concurrency guard.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the location of Maccy's Core Data store inside its
// sandbox container.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home,
		"Library", "Containers", "org.p0deje.Maccy",
		"Data", "Library", "Application Support", "Maccy",
		"Storage.sqlite"), nil
}

// Open opens the history database at path. The file must already exist;
// this package never creates or migrates the store, it belongs to Maccy.
// busyTimeout guards against Maccy holding a write lock mid-copy.
func Open(path string, busyTimeout time.Duration) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("history database not found at %s: %w", path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeout.Milliseconds())); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying connection. Safe to defer on every path.
func (s *Store) Close() error { return s.db.Close() }

// ListOptions filters and bounds a List call.
type ListOptions struct {
	// Query matches as a case-sensitive substring against the entry title
	// or any text-classified fragment. Pattern syntax is accepted but not
	// interpreted; see the search tool description.
	Query string

	// Application is an exact bundle identifier, or a glob pattern when it
	// contains glob metacharacters (e.g. "com.apple.*").
	Application string

	// From/To bound LastCopiedAt inclusively on both ends.
	From *time.Time
	To   *time.Time

	// Limit caps the number of qualifying entries returned, after any
	// Transform has been applied. Defaults to 50.
	Limit int

	// Transform, when set, is applied to each joined entry. It may rewrite
	// the entry (e.g. drop image fragments) and decide whether the entry
	// qualifies. Setting it switches the reader into over-fetch mode.
	Transform func(Entry) (Entry, bool)
}

// List returns qualifying entries newest-first, each joined with its content
// fragments. It never mutates the store.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]Entry, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	var appGlob glob.Glob
	if isGlobPattern(opts.Application) {
		g, err := glob.Compile(opts.Application)
		if err != nil {
			return nil, fmt.Errorf("invalid application pattern %q: %w", opts.Application, err)
		}
		appGlob = g
	}

	fetchLimit := limit
	if opts.Transform != nil || appGlob != nil {
		fetchLimit = limit * overFetchFactor
	}

	where, args := buildEntryFilters(opts, appGlob != nil)
	query := `
SELECT h.Z_PK, h.ZTITLE, h.ZAPPLICATION, h.ZLASTCOPIEDAT, h.ZNUMBEROFCOPIES, h.ZPIN
FROM ZHISTORYITEM h`
	if len(where) > 0 {
		query += "\nWHERE " + strings.Join(where, " AND ")
	}
	query += "\nORDER BY h.ZLASTCOPIEDAT DESC\nLIMIT ?"
	args = append(args, fetchLimit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history entries: %w", err)
	}
	defer rows.Close()

	candidates := make([]Entry, 0, fetchLimit)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history entries: %w", err)
	}

	if err := s.attachFragments(ctx, candidates); err != nil {
		return nil, err
	}

	out := make([]Entry, 0, limit)
	for _, e := range candidates {
		if appGlob != nil && !appGlob.Match(e.Application) {
			continue
		}
		if opts.Transform != nil {
			kept, ok := opts.Transform(e)
			if !ok {
				continue
			}
			e = kept
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// Get returns the single entry with the given id, joined with its fragments.
// Returns ErrNotFound when the id matches no row.
func (s *Store) Get(ctx context.Context, id int64) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT h.Z_PK, h.ZTITLE, h.ZAPPLICATION, h.ZLASTCOPIEDAT, h.ZNUMBEROFCOPIES, h.ZPIN
FROM ZHISTORYITEM h
WHERE h.Z_PK = ?`, id)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	entries := []Entry{e}
	if err := s.attachFragments(ctx, entries); err != nil {
		return nil, err
	}
	return &entries[0], nil
}

// SetPinned toggles the pin marker on an entry. The marker column holds the
// pin timestamp; its mere presence encodes "pinned". A single statement, no
// transaction needed.
func (s *Store) SetPinned(ctx context.Context, id int64, pinned bool) error {
	var marker any
	if pinned {
		marker = ToAppleTime(time.Now())
	}
	res, err := s.db.ExecContext(ctx, `UPDATE ZHISTORYITEM SET ZPIN = ? WHERE Z_PK = ?`, marker, id)
	if err != nil {
		return fmt.Errorf("update pin marker: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an entry and its content fragments.
func (s *Store) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM ZHISTORYITEMCONTENT WHERE ZITEM = ?`, id); err != nil {
		return fmt.Errorf("delete content fragments: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM ZHISTORYITEM WHERE Z_PK = ?`, id)
	if err != nil {
		return fmt.Errorf("delete history entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// Stats aggregates read-only usage counters across the whole store.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{}

	row := s.db.QueryRowContext(ctx, `
SELECT COUNT(*),
       COUNT(ZPIN),
       COUNT(DISTINCT ZAPPLICATION),
       IFNULL(MIN(ZLASTCOPIEDAT), 0),
       IFNULL(MAX(ZLASTCOPIEDAT), 0)
FROM ZHISTORYITEM`)
	var oldest, newest float64
	if err := row.Scan(&st.TotalEntries, &st.PinnedEntries, &st.Applications, &oldest, &newest); err != nil {
		return nil, fmt.Errorf("query history stats: %w", err)
	}
	if st.TotalEntries > 0 {
		st.OldestCopiedAt = FromAppleTime(oldest)
		st.NewestCopiedAt = FromAppleTime(newest)
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT ZAPPLICATION, SUM(ZNUMBEROFCOPIES) AS copies
FROM ZHISTORYITEM
WHERE ZAPPLICATION IS NOT NULL
GROUP BY ZAPPLICATION
ORDER BY copies DESC
LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("query application tallies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ac AppCount
		if err := rows.Scan(&ac.Application, &ac.Copies); err != nil {
			return nil, err
		}
		st.TopApplications = append(st.TopApplications, ac)
	}
	return st, rows.Err()
}

// buildEntryFilters translates ListOptions into SQL predicates. All user
// input flows through placeholders; nothing is concatenated into the query.
func buildEntryFilters(opts ListOptions, appIsGlob bool) ([]string, []any) {
	var where []string
	var args []any

	if opts.Query != "" {
		// Substring match on the title or any text-classified fragment.
		// The image exclusion mirrors Classify: the exact image UTIs plus
		// the image/* prefix.
		placeholders := strings.Repeat("?,", len(exactImageTypes))
		placeholders = placeholders[:len(placeholders)-1]
		where = append(where, fmt.Sprintf(`(instr(IFNULL(h.ZTITLE, ''), ?) > 0 OR EXISTS (
  SELECT 1 FROM ZHISTORYITEMCONTENT c
  WHERE c.ZITEM = h.Z_PK
    AND c.ZTYPE NOT IN (%s)
    AND c.ZTYPE NOT LIKE 'image/%%'
    AND instr(CAST(c.ZVALUE AS TEXT), ?) > 0
))`, placeholders))
		args = append(args, opts.Query)
		for _, t := range exactImageTypes {
			args = append(args, t)
		}
		args = append(args, opts.Query)
	}
	if opts.Application != "" && !appIsGlob {
		where = append(where, "h.ZAPPLICATION = ?")
		args = append(args, opts.Application)
	}
	if opts.From != nil {
		where = append(where, "h.ZLASTCOPIEDAT >= ?")
		args = append(args, ToAppleTime(*opts.From))
	}
	if opts.To != nil {
		where = append(where, "h.ZLASTCOPIEDAT <= ?")
		args = append(args, ToAppleTime(*opts.To))
	}
	return where, args
}

// attachFragments loads the content fragments for every entry in one query
// and groups them under their parent. Duplicate types per entry are allowed;
// downstream last-write-wins handling lives in the normalizer.
func (s *Store) attachFragments(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	index := make(map[int64]*Entry, len(entries))
	placeholders := make([]string, 0, len(entries))
	args := make([]any, 0, len(entries))
	for i := range entries {
		index[entries[i].ID] = &entries[i]
		placeholders = append(placeholders, "?")
		args = append(args, entries[i].ID)
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
SELECT c.ZITEM, c.ZTYPE, c.ZVALUE
FROM ZHISTORYITEMCONTENT c
WHERE c.ZITEM IN (%s)
ORDER BY c.Z_PK`, strings.Join(placeholders, ",")), args...)
	if err != nil {
		return fmt.Errorf("query content fragments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var itemID int64
		var contentType sql.NullString
		var value any
		if err := rows.Scan(&itemID, &contentType, &value); err != nil {
			return fmt.Errorf("scan content fragment: %w", err)
		}
		e, ok := index[itemID]
		if !ok {
			continue
		}
		e.Fragments = append(e.Fragments, Fragment{
			Type:  contentType.String,
			Kind:  Classify(contentType.String),
			Value: value,
		})
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var (
		e        Entry
		title    sql.NullString
		app      sql.NullString
		copiedAt sql.NullFloat64
		copies   sql.NullInt64
		pin      any
	)
	if err := row.Scan(&e.ID, &title, &app, &copiedAt, &copies, &pin); err != nil {
		return Entry{}, err
	}
	e.Title = title.String
	e.Application = app.String
	if copiedAt.Valid {
		e.LastCopiedAt = FromAppleTime(copiedAt.Float64)
	}
	e.CopyCount = copies.Int64
	e.Pinned = pin != nil
	return e, nil
}

func isGlobPattern(s string) bool {
	return strings.ContainsAny(s, `*?[{\`)
}
