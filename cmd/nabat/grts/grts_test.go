package grts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/NABat/tools/cmd/nabat/frames"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testLat = 40.75384858
	testLon = -113.8450646
)

func conusCell(t *testing.T) int {
	s, err := frames.Lookup("conus")
	require.NoError(t, err)

	fid, err := FrameCell(s, testLon, testLat)
	require.NoError(t, err)

	return fid
}

func writeLookup(t *testing.T, dir, frame string, rows map[int]int) {
	var b strings.Builder

	b.WriteString("OBJECTID,frame_id,GRTS_ID\n")

	i := 1
	for fid, gid := range rows {
		fmt.Fprintf(&b, "%d,%d,%d.0\n", i, fid, gid)
		i++
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, frame+".csv"), []byte(b.String()), 0644))
}

func TestFrameCellWithinBounds(t *testing.T) {
	s, _ := frames.Lookup(frames.Conus)
	fid := conusCell(t)

	x, y := s.Projection.Forward(testLon, testLat)
	b := CellBounds(s, fid)

	assert.True(t, b.Min[0] <= x && x < b.Max[0], "x %f not in %v", x, b)
	assert.True(t, b.Min[1] <= y && y < b.Max[1], "y %f not in %v", y, b)
}

func TestFrameCellOutOfBounds(t *testing.T) {
	s, _ := frames.Lookup(frames.PuertoRico)

	_, err := FrameCell(s, testLon, testLat)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestCellBoundsLastColumn(t *testing.T) {
	s, _ := frames.Lookup(frames.Hawaii)

	// Last cell of the first row.
	b := CellBounds(s, s.Cols())

	assert.Equal(t, s.Bounds[2]-s.Meters, b.Min[0])
	assert.Equal(t, s.Bounds[1], b.Min[1])

	// First cell of the second row.
	b = CellBounds(s, s.Cols()+1)

	assert.Equal(t, s.Bounds[0], b.Min[0])
	assert.Equal(t, s.Bounds[1]+s.Meters, b.Min[1])
}

func TestIndexGRTS(t *testing.T) {
	dir := t.TempDir()
	fid := conusCell(t)

	writeLookup(t, dir, frames.Conus, map[int]int{fid: 1005, fid + 1: 77})

	x := NewIndex(dir, nil)

	id, err := x.GRTS(testLat, testLon, "conus")
	require.NoError(t, err)
	assert.Equal(t, 1005, id)

	// Cached after the first read.
	require.NoError(t, os.Remove(filepath.Join(dir, "Conus.csv")))

	id, err = x.GRTS(testLat, testLon, "USA")
	require.NoError(t, err)
	assert.Equal(t, 1005, id)
}

func TestIndexNoMatch(t *testing.T) {
	dir := t.TempDir()
	writeLookup(t, dir, frames.Conus, map[int]int{1: 1})

	_, err := NewIndex(dir, nil).GRTS(testLat, testLon, "conus")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestIndexMissingTable(t *testing.T) {
	_, err := NewIndex(t.TempDir(), nil).GRTS(testLat, testLon, "conus")
	assert.Error(t, err)
}

func TestGeometryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	fid := conusCell(t)

	writeLookup(t, dir, frames.Conus, map[int]int{fid: 1005})

	s, _ := frames.Lookup(frames.Conus)
	x := NewIndex(dir, nil)

	native, err := x.Bounds(1005, "conus", Native)
	require.NoError(t, err)
	assert.InDelta(t, 10000, native.Max[0]-native.Min[0], 1e-6)
	assert.Equal(t, CellBounds(s, fid), native)

	b, err := x.Bounds(1005, "conus", WGS84)
	require.NoError(t, err)

	lon, lat := s.Projection.Inverse(native.Min[0], native.Min[1])
	assert.InDelta(t, lon, b.Min[0], 1e-12)
	assert.InDelta(t, lat, b.Min[1], 1e-12)

	// A 10km cell spans roughly a tenth of a degree.
	assert.InDelta(t, testLon, b.Min[0], 0.3)
	assert.InDelta(t, testLat, b.Min[1], 0.3)

	poly, err := x.Polygon(1005, "conus", WGS84)
	require.NoError(t, err)
	require.Len(t, poly, 1)
	assert.Len(t, poly[0], 5)
	assert.True(t, poly[0].Closed())

	_, err = x.Bounds(42, "conus", WGS84)
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestReadTableBadHeader(t *testing.T) {
	_, err := ReadTable(frames.Conus, strings.NewReader("a,b\n1,2\n"))
	assert.Error(t, err)
}

func TestReadTableFractional(t *testing.T) {
	_, err := ReadTable(frames.Conus, strings.NewReader("frame_id,GRTS_ID\n1,2.5\n"))
	assert.Error(t, err)
}

func TestParseProjection(t *testing.T) {
	p, err := ParseProjection("native")
	require.NoError(t, err)
	assert.Equal(t, Native, p)

	_, err = ParseProjection("epsg:3857")
	assert.Error(t, err)
}
