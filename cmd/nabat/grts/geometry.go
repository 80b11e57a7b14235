package grts

import (
	"fmt"

	"github.com/NABat/tools/cmd/nabat/frames"
	"github.com/paulmach/orb"
)

// Projection selects the coordinate system of returned geometries.
type Projection int

const (
	// WGS84 longitude/latitude.
	WGS84 Projection = iota
	// Native frame projection in meters.
	Native
)

// ParseProjection parses "wgs84" or "native".
func ParseProjection(s string) (Projection, error) {
	switch s {
	case "wgs84", "":
		return WGS84, nil
	case "native":
		return Native, nil
	}

	return 0, fmt.Errorf("projection %q must be one of wgs84 or native", s)
}

// CellBounds returns the native bounds of a frame cell.
func CellBounds(s *frames.Spec, frameID int) orb.Bound {
	i := frameID - 1
	row := i / s.Cols()
	col := i % s.Cols()

	minX := s.Bounds[0] + float64(col)*s.Meters
	minY := s.Bounds[1] + float64(row)*s.Meters

	return orb.Bound{
		Min: orb.Point{minX, minY},
		Max: orb.Point{minX + s.Meters, minY + s.Meters},
	}
}

// Bounds returns the bounds of the cell with the given GRTS id. For WGS84 the
// two corners are transformed, which yields the envelope of the corners
// rather than of the curved cell outline.
func (x *Index) Bounds(grtsID int, frame string, p Projection) (orb.Bound, error) {
	s, err := frames.Lookup(frame)
	if err != nil {
		return orb.Bound{}, err
	}

	t, err := x.Table(s.Name)
	if err != nil {
		return orb.Bound{}, err
	}

	fid, ok := t.FrameID(grtsID)
	if !ok {
		return orb.Bound{}, fmt.Errorf("%w: GRTS id %d is not in the %s frame", ErrNoMatch, grtsID, s.Name)
	}

	b := CellBounds(s, fid)

	if p == WGS84 {
		b.Min = project(s, b.Min)
		b.Max = project(s, b.Max)
	}

	return b, nil
}

// Polygon returns the outline of the cell with the given GRTS id. For WGS84
// each of the four corners is transformed.
func (x *Index) Polygon(grtsID int, frame string, p Projection) (orb.Polygon, error) {
	b, err := x.Bounds(grtsID, frame, Native)
	if err != nil {
		return nil, err
	}

	ring := orb.Ring{
		{b.Min[0], b.Min[1]},
		{b.Min[0], b.Max[1]},
		{b.Max[0], b.Max[1]},
		{b.Max[0], b.Min[1]},
		{b.Min[0], b.Min[1]},
	}

	if p == WGS84 {
		s, _ := frames.Lookup(frame)

		for i, pt := range ring {
			ring[i] = project(s, pt)
		}
	}

	return orb.Polygon{ring}, nil
}

func project(s *frames.Spec, pt orb.Point) orb.Point {
	lon, lat := s.Projection.Inverse(pt[0], pt[1])
	return orb.Point{lon, lat}
}
