package bulkupload

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Time layouts accepted in bulk upload files.
var timeLayouts = []string{
	TimeLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
}

// ParseTime parses a time in any of the accepted layouts.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	for _, l := range timeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

func checkFloat(s string, min, max float64) bool {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil && f >= min && f <= max
}

// Validate checks records and returns a map of the record index to all
// errors for the record.
func Validate(records Records) map[int][]string {
	errs := make(map[int][]string)

	for i, r := range records {
		if id, err := strconv.Atoi(r.GrtsCellID); err != nil || id <= 0 {
			errs[i] = append(errs[i], fmt.Sprintf("grts cell id = '%s'", r.GrtsCellID))
		}

		if r.LocationName == "" {
			errs[i] = append(errs[i], "location name is empty")
		}

		if r.Latitude != "" && !checkFloat(r.Latitude, -90, 90) {
			errs[i] = append(errs[i], fmt.Sprintf("latitude = '%s'", r.Latitude))
		}

		if r.Longitude != "" && !checkFloat(r.Longitude, -180, 180) {
			errs[i] = append(errs[i], fmt.Sprintf("longitude = '%s'", r.Longitude))
		}

		var start, end time.Time
		var err error

		if r.StartTime != "" {
			if start, err = ParseTime(r.StartTime); err != nil {
				errs[i] = append(errs[i], fmt.Sprintf("survey start time = '%s'", r.StartTime))
			}
		}

		if r.EndTime != "" {
			if end, err = ParseTime(r.EndTime); err != nil {
				errs[i] = append(errs[i], fmt.Sprintf("survey end time = '%s'", r.EndTime))
			}
		}

		if !start.IsZero() && !end.IsZero() && !start.Before(end) {
			errs[i] = append(errs[i], "survey start time is not before end time")
		}

		if r.AudioRecordingTime != "" {
			if _, err := ParseTime(r.AudioRecordingTime); err != nil {
				errs[i] = append(errs[i], fmt.Sprintf("audio recording time = '%s'", r.AudioRecordingTime))
			}
		}

		if !strings.HasSuffix(strings.ToLower(r.AudioRecordingName), ".wav") {
			errs[i] = append(errs[i], fmt.Sprintf("audio recording name = '%s'", r.AudioRecordingName))
		}

		if r.IsProblem() {
			errs[i] = append(errs[i], "metadata could not be extracted")
		}
	}

	return errs
}
