// Package report persists a per-compile splitting report: which fragment
// each statement landed in and what was dropped, queryable after the fact.
// The store is a plain SQLite database so the report can be inspected with
// any off-the-shelf tooling.
package report

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/akoita/jsplit/pkg/fragment"
	"github.com/akoita/jsplit/pkg/jsast"
)

const schema = `
CREATE TABLE IF NOT EXISTS fragments (
	split_point INTEGER PRIMARY KEY,
	name        TEXT NOT NULL,
	statements  INTEGER NOT NULL,
	bytes       INTEGER NOT NULL,
	hash        BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS decisions (
	split_point INTEGER NOT NULL,
	seq         INTEGER NOT NULL,
	kept        INTEGER NOT NULL,
	js          TEXT NOT NULL,
	PRIMARY KEY (split_point, seq),
	FOREIGN KEY (split_point) REFERENCES fragments(split_point)
);
`

// Store is an open report database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) a report database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("report: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("report: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Recorder buffers keep/drop decisions during one extraction call. It
// satisfies the splitter's StatementLogger interface and never fails while
// recording; errors surface when the buffered rows are written.
type Recorder struct {
	decisions []decision
}

type decision struct {
	js   string
	kept bool
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// LogStatement records one decision.
func (r *Recorder) LogStatement(stat jsast.Statement, kept bool) {
	r.decisions = append(r.decisions, decision{js: jsast.WriteStatement(stat), kept: kept})
}

// WriteFragment stores a fragment row and the decisions recorded while it
// was extracted, atomically.
func (s *Store) WriteFragment(frag *fragment.Fragment, rec *Recorder) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("report: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT OR REPLACE INTO fragments (split_point, name, statements, bytes, hash) VALUES (?, ?, ?, ?, ?)`,
		frag.SplitPoint, frag.Name, frag.Statements, len(frag.JS), frag.Hash[:],
	)
	if err != nil {
		return fmt.Errorf("report: insert fragment %d: %w", frag.SplitPoint, err)
	}

	if _, err := tx.Exec(`DELETE FROM decisions WHERE split_point = ?`, frag.SplitPoint); err != nil {
		return fmt.Errorf("report: clear decisions for %d: %w", frag.SplitPoint, err)
	}
	for seq, d := range rec.decisions {
		kept := 0
		if d.kept {
			kept = 1
		}
		_, err := tx.Exec(
			`INSERT INTO decisions (split_point, seq, kept, js) VALUES (?, ?, ?, ?)`,
			frag.SplitPoint, seq, kept, d.js,
		)
		if err != nil {
			return fmt.Errorf("report: insert decision %d/%d: %w", frag.SplitPoint, seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("report: commit fragment %d: %w", frag.SplitPoint, err)
	}
	return nil
}

// FragmentSummary is one row of the per-fragment overview.
type FragmentSummary struct {
	SplitPoint int
	Name       string
	Statements int
	Bytes      int
	Kept       int
	Dropped    int
}

// Summaries returns one summary per stored fragment, ordered by split
// point.
func (s *Store) Summaries() ([]FragmentSummary, error) {
	rows, err := s.db.Query(`
		SELECT f.split_point, f.name, f.statements, f.bytes,
		       COALESCE(SUM(d.kept), 0),
		       COALESCE(SUM(1 - d.kept), 0)
		FROM fragments f
		LEFT JOIN decisions d ON d.split_point = f.split_point
		GROUP BY f.split_point
		ORDER BY f.split_point`)
	if err != nil {
		return nil, fmt.Errorf("report: query summaries: %w", err)
	}
	defer rows.Close()

	var out []FragmentSummary
	for rows.Next() {
		var fs FragmentSummary
		if err := rows.Scan(&fs.SplitPoint, &fs.Name, &fs.Statements, &fs.Bytes, &fs.Kept, &fs.Dropped); err != nil {
			return nil, fmt.Errorf("report: scan summary: %w", err)
		}
		out = append(out, fs)
	}
	return out, rows.Err()
}

// Decision is one recorded keep/drop decision.
type Decision struct {
	Seq  int
	Kept bool
	JS   string
}

// Decisions returns the decisions recorded for a split point, in stream
// order.
func (s *Store) Decisions(splitPoint int) ([]Decision, error) {
	rows, err := s.db.Query(
		`SELECT seq, kept, js FROM decisions WHERE split_point = ? ORDER BY seq`, splitPoint)
	if err != nil {
		return nil, fmt.Errorf("report: query decisions: %w", err)
	}
	defer rows.Close()

	var out []Decision
	for rows.Next() {
		var d Decision
		var kept int
		if err := rows.Scan(&d.Seq, &kept, &d.JS); err != nil {
			return nil, fmt.Errorf("report: scan decision: %w", err)
		}
		d.Kept = kept != 0
		out = append(out, d)
	}
	return out, rows.Err()
}
