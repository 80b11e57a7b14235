package bulkupload

import (
	"path/filepath"
	"testing"

	"github.com/NABat/tools/cmd/nabat/guano"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMetadata(t *testing.T) {
	m := guano.Parse([]byte("NABat|Clutter type: Rock\nModel: SM4BAT-FS\n"))

	ToMetadata(&Record{
		GrtsCellID:  "1005",
		Latitude:    "40.75",
		Detector:    "SM3BAT",
		ClutterType: "",
		ManualID:    "nan",
	}, m)

	assert.Equal(t, "1005", m.Value("NABat|Grid Cell GRTS ID"))
	assert.Equal(t, "40.75", m.Value("NABat|Latitude"))
	assert.Equal(t, "Rock", m.Value("NABat|Clutter type"))

	// Only the NABat namespace is written.
	assert.Equal(t, "SM4BAT-FS", m.Value("Model"))

	_, ok := m.Get("NABat|Manual ID")
	assert.False(t, ok)
}

func TestUpdateMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "NABat_0001005-NE_20190704_231500_000.wav")
	writeWave(t, path, "Species Auto ID: EPTFUS\nNABat|Site Name: old\n")

	m, err := UpdateMetadata(path, &Record{MicrophoneHeight: "3"})
	require.NoError(t, err)
	assert.Equal(t, "NE", m.Value("NABat|Site Name"))

	m, err = guano.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "1005", m.Value("NABat|Grid Cell GRTS ID"))
	assert.Equal(t, "NE", m.Value("NABat|Site Name"))
	assert.Equal(t, "3", m.Value("NABat|Microphone height"))
	assert.Equal(t, "EPTFUS", m.Value("Species Auto ID"))
}

func TestUpdateMetadataUnparsableName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recording.wav")
	writeWave(t, path, "")

	_, err := UpdateMetadata(path, nil)
	assert.Error(t, err)
}
