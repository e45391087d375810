package storage

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"equipment-catalog/internal"
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
CREATE TABLE IF NOT EXISTS equipment (
  id TEXT PRIMARY KEY,
  name_en TEXT NOT NULL,
  name_fr TEXT NOT NULL,
  type TEXT NOT NULL,
  weight_g INTEGER NOT NULL,
  cost INTEGER NOT NULL,
  lastSeenAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_equipment_type ON equipment(type);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  source TEXT NOT NULL,
  entryCount INTEGER NOT NULL,
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

func (d *DB) UpsertEntries(entries []internal.Entry) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
INSERT INTO equipment (id, name_en, name_fr, type, weight_g, cost, lastSeenAt)
VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(id) DO UPDATE SET
  name_en=excluded.name_en,
  name_fr=excluded.name_fr,
  type=excluded.type,
  weight_g=excluded.weight_g,
  cost=excluded.cost,
  lastSeenAt=CURRENT_TIMESTAMP
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(e.ID, e.Name.En, e.Name.Fr, e.Type, e.WeightG, e.Cost); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) ListEntries() ([]internal.Entry, error) {
	rows, err := d.conn.Query(`
SELECT id, name_en, name_fr, type, weight_g, cost
FROM equipment
ORDER BY lower(name_en), id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.Entry
	for rows.Next() {
		var e internal.Entry
		if err := rows.Scan(&e.ID, &e.Name.En, &e.Name.Fr, &e.Type, &e.WeightG, &e.Cost); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (d *DB) RecordRun(traceID, source string, entryCount int) error {
	_, err := d.conn.Exec(`INSERT INTO runs (traceId, source, entryCount) VALUES (?, ?, ?)`, traceID, source, entryCount)
	return err
}

func (d *DB) LastRun() (*internal.RunRow, error) {
	var r internal.RunRow
	err := d.conn.QueryRow(`
SELECT id, traceId, source, entryCount, createdAt
FROM runs ORDER BY id DESC LIMIT 1`).Scan(&r.ID, &r.TraceID, &r.Source, &r.EntryCount, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
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
