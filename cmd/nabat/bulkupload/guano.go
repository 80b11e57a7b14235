package bulkupload

import (
	"path/filepath"
	"strings"

	"github.com/NABat/tools/cmd/nabat/fname"
	"github.com/NABat/tools/cmd/nabat/guano"
)

// Layout of times written to bulk upload files.
const TimeLayout = "2006-01-02T15:04:05"

func clean(v string) string {
	v = strings.TrimSpace(v)

	if strings.ToLower(v) == "nan" {
		return ""
	}

	return v
}

// SoftwareType derives the analysis software from vendor namespaces.
func SoftwareType(m *guano.Metadata) string {
	if m.HasNamespace("SB") {
		v := m.Value("SB|Version")

		switch {
		case strings.HasPrefix(v, "4.2"):
			return "Sonobat 4.2"
		case strings.HasPrefix(v, "4."):
			return "Sonobat 4.x"
		case strings.HasPrefix(v, "3."):
			return "Sonobat 3.x"
		}

		return "Sonobat"
	}

	// Kaleidoscope writes WA|Kaleidoscope|<Key>, i.e. namespace WA with
	// Kaleidoscope| prefixed keys. WA alone is also used by Song Meters.
	if m.HasNamespace("Kaleidoscope") || hasKeyPrefix(m, "WA", "Kaleidoscope|") {
		v := m.Value("WA|Kaleidoscope|Version")
		if v == "" {
			v = m.Value("Kaleidoscope|Version")
		}

		if v != "" {
			return "Kaleidoscope " + v
		}

		return "Kaleidoscope"
	}

	return ""
}

func hasKeyPrefix(m *guano.Metadata, ns, prefix string) bool {
	for _, f := range m.Fields() {
		if f.Namespace == ns && strings.HasPrefix(f.Key, prefix) {
			return true
		}
	}

	return false
}

// FromMetadata fills a record from the name of a recording and its GUANO
// metadata. Values parsed from the file name are kept when the metadata
// lacks the corresponding field.
func FromMetadata(path string, m *guano.Metadata, v Version) *Record {
	rec := &Record{
		AudioRecordingName: filepath.Base(path),
	}

	if p, err := fname.Parse(path); err == nil {
		rec.GrtsCellID = p.GrtsID
		rec.LocationName = p.SiteName
		rec.AudioRecordingTime = p.Time.Format(TimeLayout)
	}

	for _, c := range ColumnsFor(v) {
		tag := c.TagFor(v)
		if tag == "" {
			continue
		}

		if val := clean(m.Value(tag)); val != "" {
			*c.value(rec) = val
		}
	}

	if coords := strings.Fields(m.Value("NABat|Site coordinates")); len(coords) == 2 {
		rec.Latitude = coords[0]
		rec.Longitude = coords[1]
	} else if coords := strings.Fields(m.Value("Loc Position")); len(coords) == 2 && rec.Latitude == "" {
		rec.Latitude = coords[0]
		rec.Longitude = coords[1]
	}

	if s := SoftwareType(m); s != "" {
		rec.SoftwareType = s
	}

	if rec.AutoID == "" {
		rec.AutoID = clean(m.Value("Species Auto ID"))
	}

	if rec.ManualID == "" {
		rec.ManualID = clean(m.Value("Species Manual ID"))
	}

	return rec
}

// FromGUANO reads a recording's metadata into a record. When the file cannot
// be read the record holds what the file name provides, is marked as a
// problem, and the error is returned alongside it.
func FromGUANO(path string, v Version) (*Record, error) {
	m, err := guano.ReadFile(path)

	if err != nil {
		rec := FromMetadata(path, &guano.Metadata{}, v)
		rec.Detector = ProblemDetector
		return rec, err
	}

	return FromMetadata(path, m, v), nil
}

// ToMetadata copies the record's values into the NABat namespace of the
// metadata. Empty values leave existing tags untouched.
func ToMetadata(rec *Record, m *guano.Metadata) {
	for _, c := range Columns {
		if !strings.HasPrefix(c.Tag, "NABat|") {
			continue
		}

		if val := clean(*c.value(rec)); val != "" {
			m.Set(c.Tag, val)
		}
	}
}

// UpdateMetadata rewrites the GUANO metadata of a recording with the GRTS id
// and site name encoded in its file name, then with the values of rec when
// it is not nil. The updated metadata is returned.
func UpdateMetadata(path string, rec *Record) (*guano.Metadata, error) {
	p, err := fname.Parse(path)
	if err != nil {
		return nil, err
	}

	m, err := guano.ReadFile(path)
	if err != nil {
		return nil, err
	}

	m.Set("NABat|Grid Cell GRTS ID", p.GrtsID)
	m.Set("NABat|Site Name", p.SiteName)

	if rec != nil {
		ToMetadata(rec, m)
	}

	if err := guano.WriteFile(path, m); err != nil {
		return nil, err
	}

	return m, nil
}
