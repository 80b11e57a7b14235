// Package bulkupload reads, writes, validates and generates NABat acoustic
// bulk upload files, the CSV templates used to submit stationary acoustic
// survey results to the NABat database.
package bulkupload

import "fmt"

// Detector value marking a recording whose metadata could not be extracted.
const ProblemDetector = "Problem extracting row from Guano"

// Record is a single recording row of a bulk upload file.
type Record struct {
	GrtsCellID            string
	LocationName          string
	Latitude              string
	Longitude             string
	StartTime             string
	EndTime               string
	Detector              string
	DetectorSerial        string
	Microphone            string
	MicrophoneOrientation string
	MicrophoneHeight      string
	DistanceToClutter     string
	ClutterType           string
	DistanceToWater       string
	WaterType             string
	PercentClutter        string
	BroadHabitatType      string
	UnusualOccurrences    string
	AudioRecordingName    string
	AudioRecordingTime    string
	SoftwareType          string
	AutoID                string
	ManualID              string
	SpeciesList           string
}

// Get returns the value of a field by its snake case name.
func (r *Record) Get(field string) (string, error) {
	c, ok := byField[field]
	if !ok {
		return "", fmt.Errorf("unknown field %q", field)
	}

	return *c.value(r), nil
}

// Set sets the value of a field by its snake case name.
func (r *Record) Set(field, value string) error {
	c, ok := byField[field]
	if !ok {
		return fmt.Errorf("unknown field %q", field)
	}

	*c.value(r) = value

	return nil
}

// Row returns the values of the record in the column order of a version.
func (r *Record) Row(v Version) []string {
	cols := ColumnsFor(v)
	row := make([]string, len(cols))

	for i, c := range cols {
		row[i] = *c.value(r)
	}

	return row
}

// IsProblem returns true if the metadata of the recording could not be read.
func (r *Record) IsProblem() bool {
	return r.Detector == ProblemDetector
}

// Records is a set of records sortable by recording name.
type Records []*Record

func (r Records) Less(i, j int) bool {
	return r[i].AudioRecordingName < r[j].AudioRecordingName
}

func (r Records) Swap(i, j int) {
	r[i], r[j] = r[j], r[i]
}

func (r Records) Len() int {
	return len(r)
}

// Split separates problem records from the rest.
func (r Records) Split() (ok, problems Records) {
	for _, rec := range r {
		if rec.IsProblem() {
			problems = append(problems, rec)
		} else {
			ok = append(ok, rec)
		}
	}

	return ok, problems
}
