// Package guano reads and writes GUANO metadata, the "Grand Unified Acoustic
// Notation Ontology" stored in a guan chunk of bat call WAV recordings.
// See https://guano-md.org for the format.
package guano

import (
	"bytes"
	"fmt"
	"strings"
)

const (
	// Namespace of the well-known fields. Keys without a namespace belong to it.
	Namespace = "GUANO"

	// Version written to new metadata.
	Version = "1.0"
)

// Field is a single metadata entry.
type Field struct {
	Namespace string
	Key       string
	Value     string
}

// Name returns the qualified name of the field, omitting the namespace of
// well-known fields.
func (f Field) Name() string {
	if f.Namespace == Namespace {
		return f.Key
	}

	return f.Namespace + "|" + f.Key
}

// Metadata is an ordered set of GUANO fields.
type Metadata struct {
	fields []Field
}

// splitKey splits "NS|Key" into its namespace and key.
func splitKey(name string) (string, string) {
	if i := strings.Index(name, "|"); i >= 0 {
		ns := strings.TrimSpace(name[:i])
		if ns == "" {
			ns = Namespace
		}
		return ns, strings.TrimSpace(name[i+1:])
	}

	return Namespace, strings.TrimSpace(name)
}

func (m *Metadata) index(name string) int {
	ns, key := splitKey(name)

	for i, f := range m.fields {
		if f.Namespace == ns && f.Key == key {
			return i
		}
	}

	return -1
}

// Get returns the value of a field given as "NS|Key" or a bare well-known key.
func (m *Metadata) Get(name string) (string, bool) {
	if i := m.index(name); i >= 0 {
		return m.fields[i].Value, true
	}

	return "", false
}

// Value returns the value of a field or an empty string.
func (m *Metadata) Value(name string) string {
	v, _ := m.Get(name)
	return v
}

// Set adds or replaces a field.
func (m *Metadata) Set(name, value string) {
	if i := m.index(name); i >= 0 {
		m.fields[i].Value = value
		return
	}

	ns, key := splitKey(name)
	m.fields = append(m.fields, Field{ns, key, value})
}

// Delete removes a field if present.
func (m *Metadata) Delete(name string) {
	if i := m.index(name); i >= 0 {
		m.fields = append(m.fields[:i], m.fields[i+1:]...)
	}
}

// Fields returns a copy of the fields in order.
func (m *Metadata) Fields() []Field {
	return append([]Field(nil), m.fields...)
}

// Len returns the number of fields.
func (m *Metadata) Len() int {
	return len(m.fields)
}

// Namespaces returns the distinct namespaces in order of appearance.
func (m *Metadata) Namespaces() []string {
	var l []string
	seen := make(map[string]struct{})

	for _, f := range m.fields {
		if _, ok := seen[f.Namespace]; ok {
			continue
		}

		seen[f.Namespace] = struct{}{}
		l = append(l, f.Namespace)
	}

	return l
}

// HasNamespace returns true if any field belongs to the namespace.
func (m *Metadata) HasNamespace(ns string) bool {
	for _, f := range m.fields {
		if f.Namespace == ns {
			return true
		}
	}

	return false
}

var (
	escaper   = strings.NewReplacer("\\", "\\\\", "\n", "\\n")
	unescaper = strings.NewReplacer("\\\\", "\\", "\\n", "\n")
)

// Parse parses the text of a guan chunk. Lines without a ": " separator are
// ignored as GUANO readers are required to be lenient.
func Parse(b []byte) *Metadata {
	m := &Metadata{}

	// Chunks are padded with NULs and sometimes spaces.
	b = bytes.TrimRight(b, "\x00 ")
	text := strings.Replace(string(b), "\r\n", "\n", -1)

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		i := strings.Index(line, ":")
		if i < 0 {
			continue
		}

		ns, key := splitKey(line[:i])
		if key == "" {
			continue
		}

		value := unescaper.Replace(strings.TrimSpace(line[i+1:]))

		m.fields = append(m.fields, Field{ns, key, value})
	}

	return m
}

// Encode serializes the metadata. The version line is always written first.
func (m *Metadata) Encode() []byte {
	var buf bytes.Buffer

	version, ok := m.Get("GUANO|Version")
	if !ok {
		version = Version
	}

	fmt.Fprintf(&buf, "GUANO|Version: %s\n", version)

	for _, f := range m.fields {
		if f.Namespace == Namespace && f.Key == "Version" {
			continue
		}

		fmt.Fprintf(&buf, "%s: %s\n", f.Name(), escaper.Replace(f.Value))
	}

	return buf.Bytes()
}
