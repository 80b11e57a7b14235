// Package fname parses the names of NABat acoustic recordings.
//
// The canonical form is <GRTS id>_<site name>_<YYYYMMDD>_<HHMMSS>.wav, but
// recorders and field crews produce many variants: vendor prefixes, dashes
// and spaces instead of underscores, channel tokens, millisecond suffixes, and
// site folders holding the GRTS id. Parse normalizes these before splitting.
package fname

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

var ErrUnparsable = errors.New("unable to parse filename")

// Layout of the date and time tokens.
const layout = "20060102T150405"

// Parts are the components encoded in a recording name.
type Parts struct {
	GrtsID   string
	SiteName string

	// Wall clock time of the recording as written by the recorder. The
	// location is always UTC since names carry no zone.
	Time time.Time
}

// Filename returns the canonical recording name for the parts.
func (p *Parts) Filename() string {
	return fmt.Sprintf("%s_%s_%s.wav", p.GrtsID, p.SiteName, p.Time.Format("20060102_150405"))
}

// Ordered replacements applied to the full path.
var replacer = []struct {
	old string
	new string
}{
	{" ", "_"},
	{"-", "_"},
	{"___", "_"},
	{"__", "_"},
	{"_0_", "_"},
	{"_1_", "_"},
	{"_0+1_", "_"},
}

func normalize(path string) string {
	for _, r := range replacer {
		path = strings.Replace(path, r.old, r.new, -1)
	}

	return path
}

func isDigit(b byte) bool {
	return unicode.IsDigit(rune(b))
}

// Parse extracts the GRTS id, site name and recording time from the name of
// a recording. The parent directory is consulted when the name itself
// only holds the date and time.
func Parse(path string) (*Parts, error) {
	orig := path
	path = normalize(filepath.ToSlash(path))

	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	if strings.HasPrefix(strings.ToLower(name), "nabat") {
		name = name[5:]
	}
	if strings.HasPrefix(strings.ToLower(name), "naba") {
		name = name[4:]
	}
	name = strings.TrimPrefix(name, "Q")
	name = strings.TrimPrefix(name, "_")

	if len(strings.Split(name, "_")) == 2 {
		parent := filepath.Base(filepath.Dir(path))
		name = parent + "_" + name
	}

	// Leading digits are the GRTS id.
	i := 0
	for i < len(name) && isDigit(name[i]) {
		i++
	}

	if i == len(name) {
		return nil, fmt.Errorf("%w: %s: no site name", ErrUnparsable, orig)
	}

	grtsID := strings.TrimLeft(name[:i], "0")
	name = name[i:]

	// Drop trailing non-digits such as a leftover suffix.
	j := len(name)
	for j > 0 && !isDigit(name[j-1]) {
		j--
	}

	if j == 0 {
		return nil, fmt.Errorf("%w: %s: no recording time", ErrUnparsable, orig)
	}

	name = name[:j]
	name = strings.TrimPrefix(name, "_")

	if strings.HasSuffix(name, "_000") {
		name = name[:len(name)-4]
	}
	if strings.HasSuffix(name, "_0000") {
		name = name[:len(name)-5]
	}

	toks := strings.Split(name, "_")
	if len(toks) != 3 {
		return nil, fmt.Errorf("%w: %s: expected site, date and time, got %q", ErrUnparsable, orig, name)
	}

	site, date, clock := toks[0], toks[1], toks[2]

	switch len(clock) {
	case 6:
	case 8:
		// Hundredths of a second.
		clock = clock[:6]
	default:
		clock = "000000"
	}

	t, err := time.Parse(layout, date+"T"+clock)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrUnparsable, orig, err)
	}

	return &Parts{
		GrtsID:   grtsID,
		SiteName: site,
		Time:     t,
	}, nil
}
