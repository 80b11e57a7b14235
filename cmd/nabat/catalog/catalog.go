// Package catalog stores bulk upload records in SQLite for ad hoc queries
// across survey seasons and sites.
package catalog

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/NABat/tools/cmd/nabat/bulkupload"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/olekukonko/tablewriter"
	perrors "github.com/pkg/errors"
)

// Table holding the records.
const Table = "recordings"

// Catalog is a SQLite database of recordings.
type Catalog struct {
	db *sql.DB
}

// Open opens or creates a catalog. Use ":memory:" for a transient catalog.
func Open(dsn string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, perrors.Wrap(err, "failed to open catalog")
	}

	// A single connection keeps in-memory databases shared.
	db.SetMaxOpenConns(1)

	c := &Catalog{db: db}

	if err := c.init(); err != nil {
		db.Close()
		return nil, err
	}

	return c, nil
}

// OpenReadOnly opens an existing catalog for queries. A missing file is an
// error rather than a new catalog.
func OpenReadOnly(path string) (*Catalog, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, perrors.Wrap(err, "failed to open catalog")
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return nil, perrors.Wrap(err, "failed to open catalog")
	}

	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, perrors.Wrap(err, "failed to open catalog")
	}

	return &Catalog{db: db}, nil
}

// Close closes the database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// DB returns the underlying database.
func (c *Catalog) DB() *sql.DB {
	return c.db
}

func columns() []string {
	cols := []string{"load_id", "source"}
	return append(cols, bulkupload.Fields(bulkupload.Latest)...)
}

func (c *Catalog) init() error {
	cols := columns()
	defs := make([]string, len(cols))

	for i, f := range cols {
		defs[i] = fmt.Sprintf("\"%s\" TEXT", f)
	}

	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", Table, strings.Join(defs, ",\n"))

	if _, err := c.db.Exec(stmt); err != nil {
		return perrors.Wrap(err, "failed to create table")
	}

	idx := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s_grts ON %s (grts_cell_id)", Table, Table)

	if _, err := c.db.Exec(idx); err != nil {
		return perrors.Wrap(err, "failed to create index")
	}

	return nil
}

// Load inserts records in a single transaction and returns the load id
// assigned to them. Empty values are stored as NULL.
func (c *Catalog) Load(source string, records bulkupload.Records) (string, error) {
	id := uuid.New().String()
	cols := columns()

	params := make([]string, len(cols))
	for i := range params {
		params[i] = "?"
	}

	stmt := fmt.Sprintf("INSERT INTO %s VALUES (%s)", Table, strings.Join(params, ","))

	tx, err := c.db.Begin()
	if err != nil {
		return "", err
	}

	ins, err := tx.Prepare(stmt)
	if err != nil {
		tx.Rollback()
		return "", perrors.Wrap(err, "failed to prepare insert")
	}

	defer ins.Close()

	for _, r := range records {
		row := make([]interface{}, 0, len(cols))
		row = append(row, id, source)

		for _, v := range r.Row(bulkupload.Latest) {
			if v == "" {
				row = append(row, nil)
			} else {
				row = append(row, v)
			}
		}

		if _, err := ins.Exec(row...); err != nil {
			tx.Rollback()
			return "", perrors.Wrapf(err, "failed to insert %s", r.AudioRecordingName)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}

	return id, nil
}

// Records returns the records of a GRTS cell ordered by recording name.
func (c *Catalog) Records(grtsID string) (bulkupload.Records, error) {
	fields := bulkupload.Fields(bulkupload.Latest)

	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = fmt.Sprintf("\"%s\"", f)
	}

	stmt := fmt.Sprintf("SELECT %s FROM %s WHERE grts_cell_id = ? ORDER BY audio_recording_name", strings.Join(quoted, ","), Table)

	rows, err := c.db.Query(stmt, grtsID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var records bulkupload.Records

	vals := make([]sql.NullString, len(fields))
	dest := make([]interface{}, len(fields))

	for i := range vals {
		dest[i] = &vals[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		rec := &bulkupload.Record{}

		for i, f := range fields {
			rec.Set(f, vals[i].String)
		}

		records = append(records, rec)
	}

	return records, rows.Err()
}

// Query executes a statement and renders the result as a table.
func (c *Catalog) Query(stmt string, w io.Writer) error {
	rows, err := c.db.Query(stmt)
	if err != nil {
		return err
	}

	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return err
	}

	tw := tablewriter.NewWriter(w)
	tw.SetHeader(cols)
	tw.SetAutoFormatHeaders(false)

	row := make([]interface{}, len(cols))
	out := make([]string, len(row))

	for i := range row {
		row[i] = new(sql.NullString)
	}

	for rows.Next() {
		if err = rows.Scan(row...); err != nil {
			return err
		}

		for i, v := range row {
			x := v.(*sql.NullString)

			if x.Valid {
				out[i] = x.String
			} else {
				out[i] = ""
			}
		}

		tw.Append(out)
	}

	if err := rows.Err(); err != nil {
		return err
	}

	tw.Render()

	return nil
}
