package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"aefidash/internal"
	"aefidash/internal/vaccine"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  sourceFile TEXT NOT NULL,
  timingsJson TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) InsertRun(traceID, sourceFile string, timings map[string]float64, counts map[string]int) error {
	timingsJSON, _ := json.Marshal(timings)
	countsJSON, _ := json.Marshal(counts)
	_, err := d.conn.Exec(`INSERT INTO runs (traceId, sourceFile, timingsJson, countsJson) VALUES (?, ?, ?, ?)`,
		traceID, sourceFile, string(timingsJSON), string(countsJSON))
	return err
}

func (d *DB) ListRuns(limit int) ([]internal.RunRecord, error) {
	rows, err := d.conn.Query(`
SELECT id, traceId, sourceFile, createdAt FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.RunRecord
	for rows.Next() {
		var r internal.RunRecord
		if err := rows.Scan(&r.ID, &r.TraceID, &r.SourceFile, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// DictionaryStore exposes the metadata table as the vaccine dictionary's
// persistence backend.
func (d *DB) DictionaryStore() *DictionaryStore {
	return &DictionaryStore{db: d}
}

type DictionaryStore struct {
	db *DB
}

func (s *DictionaryStore) Load() (vaccine.Dictionary, error) {
	stored, err := s.db.GetMetadata(vaccine.DictionaryKey)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return vaccine.Bootstrap(), nil
	}
	var terms []string
	if err := json.Unmarshal([]byte(*stored), &terms); err != nil {
		return nil, err
	}
	return vaccine.NewDictionary(terms...), nil
}

func (s *DictionaryStore) Save(dict vaccine.Dictionary) error {
	encoded, err := json.Marshal(dict.Terms())
	if err != nil {
		return err
	}
	if err := s.db.SetMetadata(vaccine.DictionaryKey, string(encoded)); err != nil {
		return err
	}
	return s.db.SetMetadata(vaccine.DictionaryKey+".trained_at", time.Now().UTC().Format(time.RFC3339))
}
