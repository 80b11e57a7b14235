// Package proj wraps the Albers equal-area conic projection used by the
// NABat sampling frames.
package proj

import "github.com/wroge/wgs84"

// Albers is an Albers equal-area conic projection on NAD83. Geographic
// coordinates are in degrees and projected coordinates are in meters.
//
// Transforms stay within the NAD83 datum, so WGS84 input is used as is. This
// matches a null datum shift between the two.
type Albers struct {
	Lat1, Lat2 float64
	Lat0, Lon0 float64
	X0, Y0     float64

	forward wgs84.Func
	inverse wgs84.Func
}

// NewAlbers initializes a projection with standard parallels lat1 and lat2,
// origin (lat0, lon0) and false easting/northing.
func NewAlbers(lat1, lat2, lat0, lon0, x0, y0 float64) *Albers {
	datum := wgs84.NAD83()

	geo := datum.LonLat()
	crs := datum.AlbersEqualAreaConic(lon0, lat0, lat1, lat2, x0, y0)

	return &Albers{
		Lat1:    lat1,
		Lat2:    lat2,
		Lat0:    lat0,
		Lon0:    lon0,
		X0:      x0,
		Y0:      y0,
		forward: geo.To(crs),
		inverse: crs.To(geo),
	}
}

// Forward projects a geographic coordinate to the plane.
func (p *Albers) Forward(lon, lat float64) (x, y float64) {
	x, y, _ = p.forward(lon, lat, 0)
	return x, y
}

// Inverse converts a projected coordinate back to longitude and latitude.
func (p *Albers) Inverse(x, y float64) (lon, lat float64) {
	lon, lat, _ = p.inverse(x, y, 0)
	return lon, lat
}
