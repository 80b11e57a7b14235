package bulkupload

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	_ "time/tzdata"

	"github.com/NABat/tools/cmd/nabat/guano"
	"github.com/NABat/tools/cmd/nabat/night"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func writeWave(t *testing.T, path string, md string) {
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))

	var m *guano.Metadata
	if md != "" {
		m = guano.Parse([]byte(md))
	}

	require.NoError(t, os.WriteFile(path, guano.NewWave(256000, []int16{1, 2, 3, 4}, m), 0644))
}

func testTree(t *testing.T) string {
	root := t.TempDir()

	writeWave(t, filepath.Join(root, "siteA", "1005_NE_20190704_231500.wav"), "Species Auto ID: EPTFUS\nSB|Version: 4.2.1\n")
	writeWave(t, filepath.Join(root, "siteA", "1005_NE_20190705_013000.wav"), "Species Auto ID: MYOLUC\n")
	writeWave(t, filepath.Join(root, "siteA", "siteB", "1005_SW_20190704_221500.wav"), "")

	// Not a RIFF file.
	require.NoError(t, os.WriteFile(filepath.Join(root, "siteA", "1005_NE_20190704_235900.wav"), []byte("garbage"), 0644))

	// Ignored.
	require.NoError(t, os.WriteFile(filepath.Join(root, "siteA", "notes.txt"), []byte("notes"), 0644))

	return root
}

func TestGenerate(t *testing.T) {
	root := testTree(t)

	g := NewGenerator(zaptest.NewLogger(t).Sugar())
	g.Workers = 2

	res, err := g.Run(context.Background(), root)
	require.NoError(t, err)

	assert.Len(t, res.Records, 3)
	assert.Len(t, res.Problems, 1)
	assert.Equal(t, "1005_NE_20190704_235900.wav", res.Problems[0].AudioRecordingName)
	assert.Equal(t, "NE", res.Problems[0].LocationName)

	records, err := ReadFile(filepath.Join(root, BatchFile))
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Sorted by recording name.
	assert.Equal(t, "1005_NE_20190704_231500.wav", records[0].AudioRecordingName)
	assert.Equal(t, "Sonobat 4.2", records[0].SoftwareType)
	assert.Equal(t, "EPTFUS", records[0].AutoID)
	assert.Equal(t, "MYOLUC", records[1].AutoID)
	assert.Equal(t, "SW", records[2].LocationName)

	problems, err := ReadFile(filepath.Join(root, ProblemsFile))
	require.NoError(t, err)
	assert.Len(t, problems, 1)

	sub, err := ReadFile(filepath.Join(root, "siteA", "siteB", BatchFile))
	require.NoError(t, err)
	assert.Len(t, sub, 1)

	assert.NoFileExists(t, filepath.Join(root, "siteA", "siteB", ProblemsFile))
}

func TestGenerateUsePrevious(t *testing.T) {
	root := testTree(t)
	siteB := filepath.Join(root, "siteA", "siteB")

	g := NewGenerator(nil)

	_, err := g.Run(context.Background(), root)
	require.NoError(t, err)

	// A later run reuses the earlier output of siteB instead of reading recordings.
	require.NoError(t, os.Remove(filepath.Join(siteB, "1005_SW_20190704_221500.wav")))

	g.UsePrevious = true

	res, err := g.Run(context.Background(), root)
	require.NoError(t, err)
	assert.Len(t, res.Records, 3)

	g.UsePrevious = false

	res, err = g.Run(context.Background(), root)
	require.NoError(t, err)
	assert.Len(t, res.Records, 2)
	assert.NoFileExists(t, filepath.Join(siteB, BatchFile))
}

func TestGenerateNotRecursive(t *testing.T) {
	root := testTree(t)

	g := NewGenerator(nil)
	g.Recursive = false

	res, err := g.Run(context.Background(), filepath.Join(root, "siteA"))
	require.NoError(t, err)
	assert.Len(t, res.Records, 2)
}

func TestGenerateAutoTimes(t *testing.T) {
	root := testTree(t)

	site, err := night.NewSite("Denver", night.Denver.Latitude, night.Denver.Longitude, "America/Denver")
	require.NoError(t, err)

	g := NewGenerator(nil)
	g.Site = site

	res, err := g.Run(context.Background(), root)
	require.NoError(t, err)

	for _, rec := range res.Records {
		start, err := ParseTime(rec.StartTime)
		require.NoError(t, err)

		end, err := ParseTime(rec.EndTime)
		require.NoError(t, err)

		assert.True(t, start.Before(end))
		assert.Equal(t, 4, start.Day(), rec.AudioRecordingName)
	}
}

func TestGenerateCanceled(t *testing.T) {
	root := testTree(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGenerator(nil).Run(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateNotDirectory(t *testing.T) {
	root := testTree(t)

	_, err := NewGenerator(nil).Run(context.Background(), filepath.Join(root, "siteA", "notes.txt"))
	assert.Error(t, err)
}

func TestFind(t *testing.T) {
	root := testTree(t)

	res, err := NewGenerator(nil).Run(context.Background(), root)
	require.NoError(t, err)

	files, err := Find(root)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, BatchFile)}, files)

	var loaded int

	for _, f := range files {
		records, err := ReadFile(f)
		require.NoError(t, err)
		loaded += len(records)
	}

	assert.Equal(t, len(res.Records), loaded)

	// Sibling subtrees without a common batch file.
	require.NoError(t, os.Remove(filepath.Join(root, BatchFile)))
	writeWave(t, filepath.Join(root, "siteC", "77_N_20190704_221500.wav"), "")

	_, err = NewGenerator(nil).Run(context.Background(), filepath.Join(root, "siteC"))
	require.NoError(t, err)

	files, err = Find(root)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "siteA", BatchFile),
		filepath.Join(root, "siteC", BatchFile),
	}, files)

	files, err = Find(filepath.Join(root, "siteA", "notes.txt"))
	require.NoError(t, err)
	assert.Len(t, files, 1)

	_, err = Find(filepath.Join(root, "missing"))
	assert.Error(t, err)
}
