package bulkupload

import (
	"fmt"
	"strings"
)

// Version of the NABat bulk upload template.
type Version int

const (
	_ Version = iota
	V1
	V2
)

// Latest is the template version written by default.
const Latest = V2

// ParseVersion parses "1" or "2".
func ParseVersion(s string) (Version, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "v") {
	case "1":
		return V1, nil
	case "2", "":
		return V2, nil
	}

	return 0, fmt.Errorf("unknown bulk upload version %q", s)
}

func (v Version) String() string {
	return fmt.Sprintf("v%d", int(v))
}

// Column relates a record field to its name in each template version and to
// the GUANO tag it is filled from.
type Column struct {
	// Field is the snake case record field name, also used as the SQL column.
	Field string

	// Template column names. An empty name means the column is absent from
	// that version.
	V1 string
	V2 string

	// Tag is the GUANO field the value is read from. NABat tags supersede
	// generic GUANO tags when the namespace is present. V1Tag overrides Tag
	// for version 1 templates.
	Tag   string
	V1Tag string

	value func(r *Record) *string
}

// Name returns the template column name for the version.
func (c *Column) Name(v Version) string {
	if v == V1 {
		return c.V1
	}

	return c.V2
}

// TagFor returns the GUANO tag for the version.
func (c *Column) TagFor(v Version) string {
	if v == V1 && c.V1Tag != "" {
		return c.V1Tag
	}

	return c.Tag
}

// Columns is the column rosetta of the bulk upload templates in template order.
var Columns = []*Column{
	{"grts_cell_id", "| GRTS Cell Id", "| GRTS Cell Id", "NABat|Grid Cell GRTS ID", "", func(r *Record) *string { return &r.GrtsCellID }},
	{"location_name", "Site Name", "Location Name", "NABat|Site Name", "", func(r *Record) *string { return &r.LocationName }},
	{"latitude", "Latitude", "Latitude", "NABat|Latitude", "", func(r *Record) *string { return &r.Latitude }},
	{"longitude", "Longitude", "Longitude", "NABat|Longitude", "", func(r *Record) *string { return &r.Longitude }},
	{"start_time", "Survey Start Time", "Survey Start Time", "NABat|Survey Start Time", "", func(r *Record) *string { return &r.StartTime }},
	{"end_time", "Survey End Time", "Survey End Time", "NABat|Survey End Time", "", func(r *Record) *string { return &r.EndTime }},
	{"detector", "Detector", "Detector", "Model", "", func(r *Record) *string { return &r.Detector }},
	{"detector_serial", "", "Detector Serial Number", "Serial", "", func(r *Record) *string { return &r.DetectorSerial }},
	{"microphone", "Microphone", "Microphone", "NABat|Microphone type", "Microphone", func(r *Record) *string { return &r.Microphone }},
	{"microphone_orientation", "Microphone Orientation", "Microphone Orientation", "NABat|Microphone orientation", "", func(r *Record) *string { return &r.MicrophoneOrientation }},
	{"microphone_height", "Microphone Height (meters)", "Microphone Height (meters)", "NABat|Microphone height", "", func(r *Record) *string { return &r.MicrophoneHeight }},
	{"distance_to_clutter", "Distance to Nearest Clutter (meters)", "Distance to Nearest Clutter (meters)", "NABat|Distance to nearest clutter", "", func(r *Record) *string { return &r.DistanceToClutter }},
	{"clutter_type", "Clutter Type", "Clutter Type", "NABat|Clutter type", "", func(r *Record) *string { return &r.ClutterType }},
	{"distance_to_water", "Distance to Nearest Water (meters)", "Distance to Nearest Water (meters)", "NABat|Distance to nearest water", "", func(r *Record) *string { return &r.DistanceToWater }},
	{"water_type", "Water Type", "Water Type", "NABat|Water type", "", func(r *Record) *string { return &r.WaterType }},
	{"percent_clutter", "Percent Clutter", "Percent Clutter", "NABat|Percent clutter", "", func(r *Record) *string { return &r.PercentClutter }},
	{"broad_habitat_type", "Broad Habitat Type", "Broad Habitat Type", "NABat|Broad habitat type", "", func(r *Record) *string { return &r.BroadHabitatType }},
	{"unusual_occurrences", "", "Unusual Occurrences", "NABat|Unusual occurrences", "", func(r *Record) *string { return &r.UnusualOccurrences }},
	{"audio_recording_name", "Audio Recording Name", "Audio Recording Name", "", "", func(r *Record) *string { return &r.AudioRecordingName }},
	{"audio_recording_time", "Audio Recording Time", "Audio Recording Time", "Timestamp", "", func(r *Record) *string { return &r.AudioRecordingTime }},
	{"software_type", "Software Type", "Software Type", "NABat|Software type", "", func(r *Record) *string { return &r.SoftwareType }},
	{"auto_id", "Auto Id", "Auto Id", "NABat|Auto ID", "", func(r *Record) *string { return &r.AutoID }},
	{"manual_id", "Manual Id", "Manual Id", "NABat|Manual ID", "", func(r *Record) *string { return &r.ManualID }},
	{"species_list", "", "Species List", "NABat|Species list", "", func(r *Record) *string { return &r.SpeciesList }},
}

var byField = make(map[string]*Column)

func init() {
	for _, c := range Columns {
		byField[c.Field] = c
	}
}

// ColumnsFor returns the columns present in a template version.
func ColumnsFor(v Version) []*Column {
	var l []*Column

	for _, c := range Columns {
		if c.Name(v) != "" {
			l = append(l, c)
		}
	}

	return l
}

// Fields returns the record field names of a template version in order.
func Fields(v Version) []string {
	cols := ColumnsFor(v)
	l := make([]string, len(cols))

	for i, c := range cols {
		l[i] = c.Field
	}

	return l
}

// Header returns the template header of a version.
func Header(v Version) []string {
	cols := ColumnsFor(v)
	l := make([]string, len(cols))

	for i, c := range cols {
		l[i] = c.Name(v)
	}

	return l
}

// normalizeName normalizes a header cell for comparison.
func normalizeName(s string) string {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "|"))
	return strings.ToLower(s)
}

// columnByName finds a column by its template name in any version or its
// field name.
func columnByName(name string) (*Column, bool) {
	n := normalizeName(name)

	for _, c := range Columns {
		if n == c.Field || (c.V1 != "" && n == normalizeName(c.V1)) || (c.V2 != "" && n == normalizeName(c.V2)) {
			return c, true
		}
	}

	return nil, false
}
