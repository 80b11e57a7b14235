package fname

import (
	"errors"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		Path     string
		GrtsID   string
		Site     string
		Time     time.Time
		Filename string
	}{
		{
			"NABat_1005_Site1_20180601_221530.wav",
			"1005", "Site1",
			time.Date(2018, 6, 1, 22, 15, 30, 0, time.UTC),
			"1005_Site1_20180601_221530.wav",
		},
		{
			"/data/001005 NE/20190704 231500.wav",
			"1005", "NE",
			time.Date(2019, 7, 4, 23, 15, 0, 0, time.UTC),
			"1005_NE_20190704_231500.wav",
		},
		{
			"Q1005-NE-20190704-23150012.wav",
			"1005", "NE",
			time.Date(2019, 7, 4, 23, 15, 0, 0, time.UTC),
			"1005_NE_20190704_231500.wav",
		},
		{
			"1005_NE_0+1_20190704_231500_000.wav",
			"1005", "NE",
			time.Date(2019, 7, 4, 23, 15, 0, 0, time.UTC),
			"1005_NE_20190704_231500.wav",
		},
		{
			"1005_NE_20190704_0231.wav",
			"1005", "NE",
			time.Date(2019, 7, 4, 0, 0, 0, 0, time.UTC),
			"1005_NE_20190704_000000.wav",
		},
		{
			"naba_77_NW_20200815_030102_x.wav",
			"77", "NW",
			time.Date(2020, 8, 15, 3, 1, 2, 0, time.UTC),
			"77_NW_20200815_030102.wav",
		},
	}

	for _, test := range tests {
		p, err := Parse(test.Path)
		if err != nil {
			t.Errorf("%s: %s", test.Path, err)
			continue
		}

		if p.GrtsID != test.GrtsID {
			t.Errorf("%s: expected grts id %s, got %s", test.Path, test.GrtsID, p.GrtsID)
		}

		if p.SiteName != test.Site {
			t.Errorf("%s: expected site %s, got %s", test.Path, test.Site, p.SiteName)
		}

		if !p.Time.Equal(test.Time) {
			t.Errorf("%s: expected time %s, got %s", test.Path, test.Time, p.Time)
		}

		if p.Filename() != test.Filename {
			t.Errorf("%s: expected filename %s, got %s", test.Path, test.Filename, p.Filename())
		}
	}
}

func TestParseErrors(t *testing.T) {
	paths := []string{
		"12345.wav",
		"1005_NE.wav",
		"1005_North_East_20190704_231500.wav",
		"1005_NE_20191304_231500.wav",
		"1005_NE_abc_.wav",
	}

	for _, path := range paths {
		if _, err := Parse(path); !errors.Is(err, ErrUnparsable) {
			t.Errorf("%s: expected ErrUnparsable, got %v", path, err)
		}
	}
}
