// Package night computes the monitoring night of a recording and the
// automatic survey window around it.
package night

import (
	"fmt"
	"time"

	"github.com/nathan-osman/go-sunrise"
)

// Offset applied inside of sunset and sunrise for automatic survey times.
const Offset = 15 * time.Minute

// MonitoringNight returns the date of the survey night a time belongs to.
// Times before noon belong to the previous night.
func MonitoringNight(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())

	if t.Hour() < 12 {
		d = d.AddDate(0, 0, -1)
	}

	return d
}

// Site is the location used for sun times.
type Site struct {
	Name      string
	Latitude  float64
	Longitude float64
	Location  *time.Location
}

// Denver is the default site.
var Denver = Site{
	Name:      "Denver",
	Latitude:  39.7392,
	Longitude: -104.9903,
}

// NewSite initializes a site with the IANA time zone name tz.
func NewSite(name string, lat, lon float64, tz string) (*Site, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %s", tz, err)
	}

	return &Site{
		Name:      name,
		Latitude:  lat,
		Longitude: lon,
		Location:  loc,
	}, nil
}

func (s *Site) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}

	return s.Location
}

// SunTimes returns sunset on the evening of the date and sunrise the
// following morning, both in the site's time zone. The result is zero for
// polar day or night.
func (s *Site) SunTimes(date time.Time) (sunset, sunrise time.Time) {
	_, sunset = sunriseSunset(s, date)
	sunrise, _ = sunriseSunset(s, date.AddDate(0, 0, 1))

	return sunset.In(s.location()), sunrise.In(s.location())
}

func sunriseSunset(s *Site, d time.Time) (time.Time, time.Time) {
	return sunrise.SunriseSunset(s.Latitude, s.Longitude, d.Year(), d.Month(), d.Day())
}

// AutoTimes returns the automatic survey start and end for the monitoring
// night of a recording: fifteen minutes after sunset and fifteen minutes
// before the next sunrise.
func (s *Site) AutoTimes(t time.Time) (start, end time.Time, err error) {
	sunset, rise := s.SunTimes(MonitoringNight(t))

	if sunset.IsZero() || rise.IsZero() {
		return start, end, fmt.Errorf("no sunset or sunrise at (%f, %f) for %s", s.Latitude, s.Longitude, t.Format("2006-01-02"))
	}

	return sunset.Add(Offset), rise.Add(-Offset), nil
}
