// Package buildcache persists the async-propagation analyser's final
// per-descriptor outcome across runs, keyed by a compilation unit's UUID
// and a hash of its source text. A cache hit lets the CLI skip re-running
// the two-pass walk entirely for an unchanged unit — the same role
// go build's object cache plays around a stateless compiler. The analyser
// itself holds no persisted state; this cache lives one layer up, wrapping
// it rather than living inside it.
package buildcache

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/asyncscript/asyncscript/internal/descriptors"
)

// Cache wraps a sqlite-backed table of cached analysis outcomes.
type Cache struct {
	db *sql.DB
}

// Open creates (or reuses) the sqlite database at path and ensures its
// schema exists.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("buildcache: opening %s: %w", path, err)
	}
	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("buildcache: creating schema: %w", err)
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error { return c.db.Close() }

const schemaDDL = `
CREATE TABLE IF NOT EXISTS analysis_cache (
	unit_id      TEXT NOT NULL,
	content_hash TEXT NOT NULL,
	results      TEXT NOT NULL,
	PRIMARY KEY (unit_id, content_hash)
);
`

// outcomeRow is the JSON shape stored in the results column: one entry per
// descriptor resolved by the fixed-point resolver, keyed by
// descriptors.QualifiedName.
type outcomeRow struct {
	Async bool `json:"async"`
}

// Lookup returns the cached outcome for (unit, contentHash), or ok=false
// on a cache miss (including: never analysed, or analysed under a
// different content hash because the source changed).
func (c *Cache) Lookup(unit uuid.UUID, contentHash string) (map[string]descriptors.AsyncState, bool, error) {
	var raw string
	err := c.db.QueryRow(
		`SELECT results FROM analysis_cache WHERE unit_id = ? AND content_hash = ?`,
		unit.String(), contentHash,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("buildcache: looking up %s: %w", unit, err)
	}

	var rows map[string]outcomeRow
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return nil, false, fmt.Errorf("buildcache: decoding cached results for %s: %w", unit, err)
	}
	out := make(map[string]descriptors.AsyncState, len(rows))
	for name, row := range rows {
		if row.Async {
			out[name] = descriptors.Async
		} else {
			out[name] = descriptors.Sync
		}
	}
	return out, true, nil
}

// Store persists the final asyncness of every descriptor in registry
// against (unit, contentHash), overwriting any previous entry for the
// same key. A descriptor still Unknown is not stored — the fixed-point
// resolver's closing pass guarantees nothing reaches Store in that state,
// and caching an Unknown would make a later Lookup indistinguishable from
// a genuine cache miss.
func (c *Cache) Store(unit uuid.UUID, contentHash string, registry *descriptors.Registry) error {
	rows := make(map[string]outcomeRow)
	for _, d := range registry.All() {
		switch d.IsAsync() {
		case descriptors.Async:
			rows[descriptors.QualifiedName(d.OwningClassName, d.Name)] = outcomeRow{Async: true}
		case descriptors.Sync:
			rows[descriptors.QualifiedName(d.OwningClassName, d.Name)] = outcomeRow{Async: false}
		}
	}
	encoded, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("buildcache: encoding results for %s: %w", unit, err)
	}

	_, err = c.db.Exec(
		`INSERT INTO analysis_cache (unit_id, content_hash, results) VALUES (?, ?, ?)
		 ON CONFLICT(unit_id, content_hash) DO UPDATE SET results = excluded.results`,
		unit.String(), contentHash, string(encoded),
	)
	if err != nil {
		return fmt.Errorf("buildcache: storing results for %s: %w", unit, err)
	}
	return nil
}
