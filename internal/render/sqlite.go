package render

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/expocli/expocli/api"
)

const insertBatchSize = 500

// SQLiteWriter streams result rows into a single results table.
type SQLiteWriter struct {
	db        *sql.DB
	tx        *sql.Tx
	stmt      *sql.Stmt
	insert    string
	batchSize int
	count     int
	width     int
}

// NewSQLiteWriter creates the output database and its results table. An
// existing results table is replaced so repeated exports stay deterministic.
func NewSQLiteWriter(dbPath string, columns []string) (*SQLiteWriter, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("sqlite export needs at least one column")
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	// Performance tuning for bulk insert
	if _, err := db.Exec("PRAGMA synchronous = OFF"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode = MEMORY"); err != nil {
		_ = db.Close()
		return nil, err
	}

	quoted := make([]string, len(columns))
	defs := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(c)
		defs[i] = quoted[i] + " TEXT"
		marks[i] = "?"
	}
	schema := fmt.Sprintf("DROP TABLE IF EXISTS results; CREATE TABLE results (%s);", strings.Join(defs, ", "))
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	w := &SQLiteWriter{
		db: db,
		insert: fmt.Sprintf("INSERT INTO results (%s) VALUES (%s)",
			strings.Join(quoted, ", "), strings.Join(marks, ", ")),
		batchSize: insertBatchSize,
		width:     len(columns),
	}
	if err := w.beginTx(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return w, nil
}

func (w *SQLiteWriter) beginTx() error {
	var err error
	w.tx, err = w.db.Begin()
	if err != nil {
		return err
	}
	w.stmt, err = w.tx.Prepare(w.insert)
	return err
}

func (w *SQLiteWriter) commitTx() error {
	if w.stmt != nil {
		_ = w.stmt.Close()
	}
	return w.tx.Commit()
}

// WriteRow appends one row. Batches are committed every batchSize rows.
func (w *SQLiteWriter) WriteRow(row api.ResultRow) error {
	if len(row) != w.width {
		return fmt.Errorf("row has %d cells, table has %d columns", len(row), w.width)
	}
	args := make([]any, len(row))
	for i, f := range row {
		args[i] = f.Value
	}
	if _, err := w.stmt.Exec(args...); err != nil {
		return fmt.Errorf("insert row: %w", err)
	}
	w.count++
	if w.count >= w.batchSize {
		if err := w.commitTx(); err != nil {
			return fmt.Errorf("commit batch: %w", err)
		}
		if err := w.beginTx(); err != nil {
			return err
		}
		w.count = 0
	}
	return nil
}

// Close commits the trailing batch and releases the database handle.
func (w *SQLiteWriter) Close() error {
	if err := w.commitTx(); err != nil {
		_ = w.db.Close()
		return err
	}
	return w.db.Close()
}

// SQLite writes all rows to a database file at path.
func SQLite(path string, columns []string, rows []api.ResultRow) error {
	w, err := NewSQLiteWriter(path, columns)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.WriteRow(row); err != nil {
			_ = w.Close()
			return err
		}
	}
	return w.Close()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
