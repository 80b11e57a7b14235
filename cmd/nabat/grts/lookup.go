// Package grts maps between geographic coordinates and the GRTS ids of
// NABat sampling frame cells.
package grts

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/NABat/tools/cmd/nabat/frames"
	"github.com/NABat/tools/cmd/nabat/uni"
	perrors "github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	ErrNoMatch     = errors.New("no matching cell")
	ErrOutOfBounds = errors.New("coordinate outside of frame")
)

// Table is the bidirectional mapping between a frame's cell numbers and
// GRTS ids.
type Table struct {
	Frame string

	toGRTS  map[int]int
	toFrame map[int]int
}

// Len returns the number of cells in the table.
func (t *Table) Len() int {
	return len(t.toGRTS)
}

// GRTS returns the GRTS id of a frame cell.
func (t *Table) GRTS(frameID int) (int, bool) {
	id, ok := t.toGRTS[frameID]
	return id, ok
}

// FrameID returns the frame cell number of a GRTS id.
func (t *Table) FrameID(grtsID int) (int, bool) {
	id, ok := t.toFrame[grtsID]
	return id, ok
}

// ReadTable reads a lookup table. The CSV requires a header with the
// columns frame_id and GRTS_ID in any position. Other columns are ignored.
func ReadTable(frame string, r io.Reader) (*Table, error) {
	cr := csv.NewReader(uni.New(r))

	cr.Comment = '#'
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	head, err := cr.Read()
	if err != nil {
		return nil, perrors.Wrap(err, "failed to read lookup header")
	}

	fcol, gcol := -1, -1

	for i, col := range head {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "frame_id":
			fcol = i
		case "grts_id":
			gcol = i
		}
	}

	if fcol < 0 || gcol < 0 {
		return nil, fmt.Errorf("lookup header requires frame_id and GRTS_ID columns, got %v", head)
	}

	t := &Table{
		Frame:   frame,
		toGRTS:  make(map[int]int),
		toFrame: make(map[int]int),
	}

	line := 1

	for {
		row, err := cr.Read()

		if err == io.EOF {
			break
		}

		line++

		if err != nil {
			return nil, perrors.Wrapf(err, "line %d", line)
		}

		if len(row) <= fcol || len(row) <= gcol {
			return nil, fmt.Errorf("line %d: expected at least %d columns", line, max(fcol, gcol)+1)
		}

		fid, err := parseInt(row[fcol])
		if err != nil {
			return nil, perrors.Wrapf(err, "line %d: frame_id", line)
		}

		gid, err := parseInt(row[gcol])
		if err != nil {
			return nil, perrors.Wrapf(err, "line %d: GRTS_ID", line)
		}

		t.toGRTS[fid] = gid
		t.toFrame[gid] = fid
	}

	return t, nil
}

// Lookup CSVs sometimes carry ids as floats (e.g. "1005.0").
func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)

	if i, err := strconv.Atoi(s); err == nil {
		return i, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}

	if f != float64(int(f)) {
		return 0, fmt.Errorf("%q is not an integer", s)
	}

	return int(f), nil
}

// Index lazily loads lookup tables for each frame from a directory
// containing <Frame>.csv files. It is safe for concurrent use.
type Index struct {
	Dir    string
	Logger *zap.SugaredLogger

	mu     sync.Mutex
	tables map[string]*Table
}

// NewIndex initializes an index over the lookup files in dir.
func NewIndex(dir string, logger *zap.SugaredLogger) *Index {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &Index{
		Dir:    dir,
		Logger: logger,
		tables: make(map[string]*Table),
	}
}

// Add registers a table directly, bypassing the directory.
func (x *Index) Add(t *Table) {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.tables[t.Frame] = t
}

// Table returns the lookup table for a frame, loading it on first use.
func (x *Index) Table(frame string) (*Table, error) {
	name, err := frames.Normalize(frame)
	if err != nil {
		return nil, err
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if t, ok := x.tables[name]; ok {
		return t, nil
	}

	path := filepath.Join(x.Dir, fmt.Sprintf("%s.csv", name))

	f, err := os.Open(path)
	if err != nil {
		return nil, perrors.Wrapf(err, "failed to open %s lookup", name)
	}
	defer f.Close()

	t, err := ReadTable(name, f)
	if err != nil {
		return nil, perrors.Wrapf(err, "failed to read %s", path)
	}

	x.Logger.Debugw("loaded grts lookup", "frame", name, "path", path, "cells", t.Len())
	x.tables[name] = t

	return t, nil
}

// FrameCell returns the frame cell number containing a coordinate. Cells are
// numbered from 1, row by row, starting at the minimum corner of the grid.
func FrameCell(s *frames.Spec, lon, lat float64) (int, error) {
	x, y := s.Projection.Forward(lon, lat)

	if !s.Contains(x, y) {
		return 0, fmt.Errorf("%w: (%f, %f) is not within the %s frame", ErrOutOfBounds, lat, lon, s.Name)
	}

	col := int((x - s.Bounds[0]) / s.Meters)
	row := int((y - s.Bounds[1]) / s.Meters)

	return row*s.Cols() + col + 1, nil
}

// GRTS returns the GRTS id of the cell the coordinate falls in.
func (x *Index) GRTS(lat, lon float64, frame string) (int, error) {
	s, err := frames.Lookup(frame)
	if err != nil {
		return 0, err
	}

	fid, err := FrameCell(s, lon, lat)
	if err != nil {
		return 0, err
	}

	t, err := x.Table(s.Name)
	if err != nil {
		return 0, err
	}

	id, ok := t.GRTS(fid)
	if !ok {
		return 0, fmt.Errorf("%w: the coordinates (%f, %f) do not have a match in the %s frame", ErrNoMatch, lat, lon, s.Name)
	}

	return id, nil
}
