package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"cargue/internal"
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
CREATE TABLE IF NOT EXISTS batches (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  sourceFile TEXT NOT NULL,
  sheet TEXT NOT NULL,
  headerRow INTEGER NOT NULL,
  circuito TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  message TEXT,
  countsJson TEXT,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_batches_status ON batches(status);

CREATE TABLE IF NOT EXISTS generated_files (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  batchId INTEGER NOT NULL,
  kind TEXT NOT NULL,
  path TEXT NOT NULL,
  warningsJson TEXT,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(batchId) REFERENCES batches(id)
);

CREATE TABLE IF NOT EXISTS validation_errors (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  batchId INTEGER NOT NULL,
  archivo TEXT NOT NULL,
  hoja TEXT NOT NULL,
  fila INTEGER NOT NULL,
  descripcion TEXT NOT NULL,
  FOREIGN KEY(batchId) REFERENCES batches(id)
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

func (d *DB) InsertBatch(sourceFile, sheet string, headerRow int, circuito string) (int64, error) {
	result, err := d.conn.Exec(`
INSERT INTO batches (sourceFile, sheet, headerRow, circuito, status)
VALUES (?, ?, ?, ?, 'pending')
`, sourceFile, sheet, headerRow, circuito)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (d *DB) UpdateBatchStatus(batchID int64, status internal.BatchStatus, message string) error {
	_, err := d.conn.Exec(`
UPDATE batches SET status = ?, message = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?
`, string(status), message, batchID)
	return err
}

func (d *DB) SetBatchCounts(batchID int64, counts internal.BatchCounts) error {
	countsJSON, _ := json.Marshal(counts)
	_, err := d.conn.Exec(`
UPDATE batches SET countsJson = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?
`, string(countsJSON), batchID)
	return err
}

func (d *DB) InsertGeneratedFile(batchID int64, kind, path string, warnings []string) error {
	warningsJSON, _ := json.Marshal(warnings)
	_, err := d.conn.Exec(`
INSERT INTO generated_files (batchId, kind, path, warningsJson) VALUES (?, ?, ?, ?)
`, batchID, kind, path, string(warningsJSON))
	return err
}

func (d *DB) InsertValidationErrors(batchID int64, errs []internal.ValidationError) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
INSERT INTO validation_errors (batchId, archivo, hoja, fila, descripcion) VALUES (?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range errs {
		if _, err := stmt.Exec(batchID, e.File, e.Sheet, e.Row, e.Description); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) GetBatch(id int64) (*internal.BatchRow, error) {
	var row internal.BatchRow
	var circuito, message sql.NullString
	err := d.conn.QueryRow(`
SELECT id, sourceFile, sheet, headerRow, circuito, status, message
FROM batches WHERE id = ?
`, id).Scan(&row.ID, &row.SourceFile, &row.Sheet, &row.HeaderRow, &circuito, &row.Status, &message)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	row.Circuito = circuito.String
	row.Message = message.String
	return &row, nil
}

func (d *DB) ListBatches(limit int) ([]internal.BatchRow, error) {
	rows, err := d.conn.Query(`
SELECT id, sourceFile, sheet, headerRow, circuito, status, message
FROM batches ORDER BY id DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.BatchRow
	for rows.Next() {
		var row internal.BatchRow
		var circuito, message sql.NullString
		if err := rows.Scan(&row.ID, &row.SourceFile, &row.Sheet, &row.HeaderRow, &circuito, &row.Status, &message); err != nil {
			return nil, err
		}
		row.Circuito = circuito.String
		row.Message = message.String
		out = append(out, row)
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
