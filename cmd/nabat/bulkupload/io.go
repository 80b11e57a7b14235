package bulkupload

import (
	"encoding/csv"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/NABat/tools/cmd/nabat/uni"
	perrors "github.com/pkg/errors"
)

// FileHeader stores the column of each record field in a file.
type FileHeader struct {
	Columns []*Column
}

// ParseFileHeader parses a header row. The first cell of a template header
// is prefixed with a pipe, which marks the row as a comment for the upload
// service.
func ParseFileHeader(row []string) (*FileHeader, error) {
	h := FileHeader{
		Columns: make([]*Column, len(row)),
	}

	seen := make(map[string]bool)

	for i, name := range row {
		c, ok := columnByName(name)
		if !ok {
			return nil, fmt.Errorf("invalid column: %s", name)
		}

		if seen[c.Field] {
			return nil, fmt.Errorf("duplicate column: %s", name)
		}

		seen[c.Field] = true
		h.Columns[i] = c
	}

	return &h, nil
}

// positionalHeader is used for files without a header row. The template
// version is inferred from the number of columns.
func positionalHeader(n int) (*FileHeader, error) {
	for _, v := range []Version{V2, V1} {
		if cols := ColumnsFor(v); len(cols) == n {
			return &FileHeader{Columns: cols}, nil
		}
	}

	return nil, fmt.Errorf("headerless file has %d columns, expected %d (v2) or %d (v1)", n, len(ColumnsFor(V2)), len(ColumnsFor(V1)))
}

func isHeader(row []string) bool {
	return len(row) > 0 && strings.HasPrefix(strings.TrimSpace(row[0]), "|")
}

// Reader reads records from a bulk upload file.
type Reader struct {
	head    *FileHeader
	csv     *csv.Reader
	pending []string
	line    int
}

// Header returns the parsed header of the file.
func (r *Reader) Header() *FileHeader {
	return r.head
}

// Read reads and parses a record from the underlying reader.
func (r *Reader) Read() (*Record, error) {
	var (
		row []string
		err error
	)

	if r.pending != nil {
		row, r.pending = r.pending, nil
		r.line = 1
	} else {
		row, err = r.csv.Read()
		if err != nil {
			return nil, err
		}

		r.line, _ = r.csv.FieldPos(0)
	}

	// Repeated header rows from concatenated files.
	if isHeader(row) {
		return r.Read()
	}

	if len(row) != len(r.head.Columns) {
		return nil, fmt.Errorf("line %d: expected %d values, got %d", r.line, len(r.head.Columns), len(row))
	}

	rec := &Record{}

	for i, c := range r.head.Columns {
		*c.value(rec) = strings.TrimSpace(row[i])
	}

	return rec, nil
}

// Line returns the line number in the file of the last record read.
func (r *Reader) Line() int {
	return r.line
}

// ReadAll reads all records from the reader.
func (r *Reader) ReadAll() (Records, error) {
	var records Records

	for {
		rec, err := r.Read()

		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, err
		}

		records = append(records, rec)
	}

	return records, nil
}

// NewReader initializes a new bulk upload reader. Files without a header
// row are read positionally.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(uni.New(r))

	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	row, err := cr.Read()
	if err != nil {
		return nil, err
	}

	var (
		head    *FileHeader
		pending []string
	)

	if isHeader(row) {
		head, err = ParseFileHeader(row)
	} else {
		head, err = positionalHeader(len(row))
		pending = row
	}

	if err != nil {
		return nil, err
	}

	return &Reader{
		head:    head,
		csv:     cr,
		pending: pending,
	}, nil
}

// Writer writes records to a bulk upload file.
type Writer struct {
	Version Version

	csv  *csv.Writer
	head bool
}

// Write writes a record to the underlying writer.
func (w *Writer) Write(r *Record) error {
	if err := w.writeHeader(); err != nil {
		return err
	}

	return w.csv.Write(r.Row(w.Version))
}

func (w *Writer) writeHeader() error {
	if w.head {
		return nil
	}

	w.head = true

	return w.csv.Write(Header(w.Version))
}

// WriteAll writes all records in a slice.
func (w *Writer) WriteAll(records Records) error {
	for _, r := range records {
		if err := w.Write(r); err != nil {
			return err
		}
	}

	return nil
}

// Flush flushes the written records to the underlying writer. A header is
// written even when no records were.
func (w *Writer) Flush() error {
	if err := w.writeHeader(); err != nil {
		return err
	}

	w.csv.Flush()

	return w.csv.Error()
}

// NewWriter initializes a new writer for records.
func NewWriter(w io.Writer, v Version) *Writer {
	return &Writer{
		Version: v,
		csv:     csv.NewWriter(w),
	}
}

// ReadFile reads all records of a bulk upload file.
func ReadFile(path string) (Records, error) {
	records, _, err := ReadFileLines(path)
	return records, err
}

// ReadFileLines reads all records of a bulk upload file along with the line
// each record was read from.
func ReadFileLines(path string) (Records, []int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r, err := NewReader(f)
	if err == io.EOF {
		return nil, nil, nil
	}

	if err != nil {
		return nil, nil, perrors.Wrapf(err, "failed to read %s", path)
	}

	var (
		records Records
		lines   []int
	)

	for {
		rec, err := r.Read()

		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, nil, perrors.Wrapf(err, "failed to read %s", path)
		}

		records = append(records, rec)
		lines = append(lines, r.Line())
	}

	return records, lines, nil
}

// WriteFile writes records sorted by recording name to a bulk upload file.
func WriteFile(path string, v Version, records Records) error {
	sorted := append(Records(nil), records...)
	sort.Stable(sorted)

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := NewWriter(f, v)

	if err := w.WriteAll(sorted); err != nil {
		f.Close()
		return perrors.Wrapf(err, "failed to write %s", path)
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return perrors.Wrapf(err, "failed to write %s", path)
	}

	return f.Close()
}

// Find returns path when it is a file, otherwise the top-most batch files
// in the directory tree below it. A batch file covers the recordings of its
// whole subtree, so directories below one are not searched.
func Find(path string) ([]string, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !stat.IsDir() {
		return []string{path}, nil
	}

	var files []string

	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		batch := filepath.Join(p, BatchFile)

		if _, err := os.Stat(batch); err == nil {
			files = append(files, batch)
			return filepath.SkipDir
		}

		return nil
	})

	return files, err
}
