package night

import (
	"testing"
	"time"
	_ "time/tzdata"
)

func TestMonitoringNight(t *testing.T) {
	tests := []struct {
		Time  time.Time
		Night time.Time
	}{
		{time.Date(2019, 7, 4, 23, 15, 0, 0, time.UTC), time.Date(2019, 7, 4, 0, 0, 0, 0, time.UTC)},
		{time.Date(2019, 7, 5, 3, 0, 0, 0, time.UTC), time.Date(2019, 7, 4, 0, 0, 0, 0, time.UTC)},
		{time.Date(2019, 7, 5, 11, 59, 59, 0, time.UTC), time.Date(2019, 7, 4, 0, 0, 0, 0, time.UTC)},
		{time.Date(2019, 7, 5, 12, 0, 0, 0, time.UTC), time.Date(2019, 7, 5, 0, 0, 0, 0, time.UTC)},
		{time.Date(2020, 3, 1, 1, 0, 0, 0, time.UTC), time.Date(2020, 2, 29, 0, 0, 0, 0, time.UTC)},
	}

	for _, test := range tests {
		if got := MonitoringNight(test.Time); !got.Equal(test.Night) {
			t.Errorf("%s: expected %s, got %s", test.Time, test.Night, got)
		}
	}
}

func between(t time.Time, h1, m1, h2, m2 int) bool {
	m := t.Hour()*60 + t.Minute()
	return m >= h1*60+m1 && m <= h2*60+m2
}

func TestAutoTimes(t *testing.T) {
	site, err := NewSite("Denver", Denver.Latitude, Denver.Longitude, "America/Denver")
	if err != nil {
		t.Fatal(err)
	}

	rec := time.Date(2019, 7, 5, 2, 30, 0, 0, time.UTC)

	start, end, err := site.AutoTimes(rec)
	if err != nil {
		t.Fatal(err)
	}

	// Sunset in Denver on July 4th is about 20:31 MDT and sunrise on the 5th
	// is about 05:36 MDT.
	if !between(start, 20, 30, 21, 5) {
		t.Errorf("unexpected start %s", start)
	}

	if !between(end, 5, 5, 5, 40) {
		t.Errorf("unexpected end %s", end)
	}

	if start.Day() != 4 || end.Day() != 5 {
		t.Errorf("expected start on the 4th and end on the 5th, got %s and %s", start, end)
	}

	sunset, sunrise := site.SunTimes(MonitoringNight(rec))

	if start.Sub(sunset) != Offset || sunrise.Sub(end) != Offset {
		t.Errorf("offsets not applied: %s %s %s %s", sunset, start, end, sunrise)
	}
}

func TestAutoTimesPolarDay(t *testing.T) {
	site, err := NewSite("Utqiagvik", 71.29, -156.79, "America/Anchorage")
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := site.AutoTimes(time.Date(2019, 6, 21, 23, 0, 0, 0, time.UTC)); err == nil {
		t.Error("expected an error during polar day")
	}
}

func TestNewSiteBadZone(t *testing.T) {
	if _, err := NewSite("x", 0, 0, "Mars/Olympus_Mons"); err == nil {
		t.Error("expected an error")
	}
}
