// Package frames defines the NABat sampling frames. Each frame is a regular
// grid of square cells laid over an Albers equal-area projection, and every
// cell carries a GRTS (generalized random tessellation stratified) ordering
// number used to prioritize survey effort.
package frames

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/NABat/tools/cmd/nabat/proj"
)

var ErrUnknownFrame = errors.New("unknown sampling frame")

// Frame names.
const (
	Alaska     = "Alaska"
	Canada     = "Canada"
	Conus      = "Conus"
	Hawaii     = "Hawaii"
	Mexico     = "Mexico"
	PuertoRico = "PuertoRico"
)

// Spec holds the static parameters of a sampling frame.
type Spec struct {
	Name string

	// Bounds of the grid in the native projection: minx, miny, maxx, maxy.
	Bounds [4]float64

	// Size of a cell edge in meters.
	Meters float64

	Projection *proj.Albers

	// GRTS ids less than or equal to the cutoff are the high priority cells
	// (top 5%) of the frame.
	PriorityCutoff int

	// Item id of the frame's mapping service on ScienceBase.
	ScienceBaseID string
}

// Cols returns the number of cell columns in the grid.
func (s *Spec) Cols() int {
	return int((s.Bounds[2] - s.Bounds[0]) / s.Meters)
}

// Rows returns the number of cell rows in the grid.
func (s *Spec) Rows() int {
	return int((s.Bounds[3] - s.Bounds[1]) / s.Meters)
}

// Contains returns true if the native coordinate falls within the grid.
func (s *Spec) Contains(x, y float64) bool {
	return x >= s.Bounds[0] && x < s.Bounds[2] && y >= s.Bounds[1] && y < s.Bounds[3]
}

func (s *Spec) String() string {
	return s.Name
}

func albers(lat1, lat2, lat0, lon0 float64) *proj.Albers {
	return proj.NewAlbers(lat1, lat2, lat0, lon0, 0, 0)
}

var specs = map[string]*Spec{
	Conus: {
		Name:           Conus,
		Bounds:         [4]float64{-2363000, 276000, 2267000, 3166000},
		Meters:         10000,
		Projection:     albers(29.5, 45.5, 23, -96),
		PriorityCutoff: 6714,
		ScienceBaseID:  "5b7b563ae4b0f5d57884615b",
	},
	Canada: {
		Name:           Canada,
		Bounds:         [4]float64{-4280000, -730000, 3370000, 3720000},
		Meters:         10000,
		Projection:     albers(55, 65, 50, -100),
		PriorityCutoff: 16964,
		ScienceBaseID:  "5b7b559de4b0f5d57884614d",
	},
	Alaska: {
		Name:           Alaska,
		Bounds:         [4]float64{-4280000, -730000, 3370000, 3720000},
		Meters:         10000,
		Projection:     albers(55, 65, 50, -100),
		PriorityCutoff: 17142,
		ScienceBaseID:  "5b7b54efe4b0f5d578846149",
	},
	Hawaii: {
		Name:           Hawaii,
		Bounds:         [4]float64{-370000, 630000, 280000, 1080000},
		Meters:         5000,
		Projection:     albers(8, 18, 13, -157),
		PriorityCutoff: 605,
		ScienceBaseID:  "5b7b5641e4b0f5d57884615d",
	},
	Mexico: {
		Name:           Mexico,
		Bounds:         [4]float64{-1650000, 300000, 1400000, 2400000},
		Meters:         10000,
		Projection:     albers(17, 30, 12, -100),
		PriorityCutoff: 3240,
		ScienceBaseID:  "5b7b5658e4b0f5d57884615f",
	},
	PuertoRico: {
		Name:           PuertoRico,
		Bounds:         [4]float64{-170000, -50000, 230000, 100000},
		Meters:         5000,
		Projection:     albers(17, 19, 18, -66.5),
		PriorityCutoff: 123,
		ScienceBaseID:  "5b7b5660e4b0f5d578846161",
	},
}

// Accepted spellings and abbreviations for each frame.
var aliases = map[string]string{
	"ak":            Alaska,
	"alaska":        Alaska,
	"ca":            Canada,
	"can":           Canada,
	"canada":        Canada,
	"conus":         Conus,
	"us":            Conus,
	"usa":           Conus,
	"united states": Conus,
	"hi":            Hawaii,
	"hawaii":        Hawaii,
	"mex":           Mexico,
	"mx":            Mexico,
	"mexico":        Mexico,
	"pr":            PuertoRico,
	"puerto rico":   PuertoRico,
	"puertorico":    PuertoRico,
}

// Normalize maps an abbreviation or alternate spelling of a frame name
// to the canonical name.
func Normalize(name string) (string, error) {
	if n, ok := aliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return n, nil
	}

	return "", fmt.Errorf("%w: %q is not one of %s", ErrUnknownFrame, name, strings.Join(Names(), ", "))
}

// Lookup returns the spec for a frame name in any accepted spelling.
func Lookup(name string) (*Spec, error) {
	n, err := Normalize(name)
	if err != nil {
		return nil, err
	}

	return specs[n], nil
}

// Names returns the canonical frame names in sorted order.
func Names() []string {
	names := make([]string, 0, len(specs))

	for n := range specs {
		names = append(names, n)
	}

	sort.Strings(names)

	return names
}
