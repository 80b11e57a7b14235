package guano

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testChunk = `GUANO|Version: 1.0
Make: Wildlife Acoustics
Model: SM4BAT-FS
Timestamp: 2019-07-04T23:15:00-06:00
Species Auto ID: EPTFUS
Note: first line\nsecond line
NABat|Site coordinates: 40.75384858 -113.8450646
NABat|Grid Cell GRTS ID: 1005
SB|Version: 4.2.1
malformed line
`

func TestParse(t *testing.T) {
	m := Parse([]byte(testChunk + "\x00"))

	assert.Equal(t, 9, m.Len())
	assert.Equal(t, "Wildlife Acoustics", m.Value("Make"))
	assert.Equal(t, "Wildlife Acoustics", m.Value("GUANO|Make"))
	assert.Equal(t, "2019-07-04T23:15:00-06:00", m.Value("Timestamp"))
	assert.Equal(t, "first line\nsecond line", m.Value("Note"))
	assert.Equal(t, "1005", m.Value("NABat|Grid Cell GRTS ID"))
	assert.Equal(t, "1.0", m.Value("GUANO|Version"))

	_, ok := m.Get("NABat|Site Name")
	assert.False(t, ok)

	assert.Equal(t, []string{"GUANO", "NABat", "SB"}, m.Namespaces())
	assert.True(t, m.HasNamespace("SB"))
	assert.False(t, m.HasNamespace("Kaleidoscope"))
}

func TestSetDelete(t *testing.T) {
	m := Parse([]byte(testChunk))

	m.Set("NABat|Site Name", "NE")
	m.Set("Make", "Titley")
	m.Delete("SB|Version")

	assert.Equal(t, "NE", m.Value("NABat|Site Name"))
	assert.Equal(t, "Titley", m.Value("Make"))
	assert.False(t, m.HasNamespace("SB"))
}

func TestEncodeRoundTrip(t *testing.T) {
	m := &Metadata{}
	m.Set("NABat|Site Name", "NE")
	m.Set("Note", "a\nb")
	m.Set("Species Manual ID", "MYOLUC")

	b := m.Encode()

	assert.True(t, bytes.HasPrefix(b, []byte("GUANO|Version: 1.0\n")))

	p := Parse(b)
	assert.Equal(t, "NE", p.Value("NABat|Site Name"))
	assert.Equal(t, "a\nb", p.Value("Note"))
	assert.Equal(t, "MYOLUC", p.Value("Species Manual ID"))
	assert.Equal(t, 4, p.Len())
}

func TestReadWave(t *testing.T) {
	m := Parse([]byte(testChunk))
	b := NewWave(384000, []int16{0, 100, -100, 0, 1}, m)

	got, err := Read(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, "4.2.1", got.Value("SB|Version"))

	// No metadata.
	got, err = Read(bytes.NewReader(NewWave(384000, []int16{1, 2, 3}, nil)))
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
}

func TestReadNotWave(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("ID3 this is an mp3")))
	assert.ErrorIs(t, err, ErrNotWave)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "1005_NE_20190704_231500.wav")
	samples := []int16{0, 10, 20, 30, 40, 50, 60}

	m := Parse([]byte(testChunk))
	require.NoError(t, os.WriteFile(path, NewWave(256000, samples, m), 0644))

	m.Set("NABat|Site Name", "NE")
	require.NoError(t, WriteFile(path, m))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "NE", got.Value("NABat|Site Name"))
	assert.Equal(t, "EPTFUS", got.Value("Species Auto ID"))

	// The audio is preserved and only a single guan chunk remains.
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	chunks, err := scan(f)
	require.NoError(t, err)

	var ids []string
	for _, c := range chunks {
		ids = append(ids, c.ID)
	}

	assert.Equal(t, []string{"fmt ", "data", "guan"}, ids)
	assert.Equal(t, uint32(2*len(samples)), chunks[1].Size)

	stat, err := f.Stat()
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(b[:4]))
	assert.Equal(t, int(stat.Size())-8, int(uint32(b[4])|uint32(b[5])<<8|uint32(b[6])<<16|uint32(b[7])<<24))
}

func TestReadCorruptChunkSize(t *testing.T) {
	b := NewWave(8000, []int16{1, 2}, Parse([]byte(testChunk)))

	// Size field of the trailing guan chunk.
	i := bytes.Index(b, []byte(chunkID))
	require.True(t, i > 0)
	binary.LittleEndian.PutUint32(b[i+4:i+8], 0xfffffff0)

	_, err := Read(bytes.NewReader(b))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "truncated")
}
