package guano

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	perrors "github.com/pkg/errors"
)

var ErrNotWave = errors.New("not a RIFF/WAVE file")

const chunkID = "guan"

// chunk is the location of a RIFF subchunk within a file.
type chunk struct {
	ID     string
	Offset int64 // Start of the chunk data.
	Size   uint32
}

// padded returns the size of the chunk data including the pad byte.
func (c chunk) padded() int64 {
	return int64(c.Size) + int64(c.Size&1)
}

// scan walks the subchunks of a RIFF/WAVE stream.
func scan(r io.ReadSeeker) ([]chunk, error) {
	var head [12]byte

	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, ErrNotWave
	}

	if string(head[0:4]) != "RIFF" || string(head[8:12]) != "WAVE" {
		return nil, ErrNotWave
	}

	var (
		chunks []chunk
		hdr    [8]byte
		offset int64 = 12
	)

	for {
		_, err := io.ReadFull(r, hdr[:])

		if err == io.EOF {
			break
		}

		// Trailing garbage shorter than a chunk header is tolerated.
		if err == io.ErrUnexpectedEOF {
			break
		}

		if err != nil {
			return nil, err
		}

		c := chunk{
			ID:     string(hdr[0:4]),
			Offset: offset + 8,
			Size:   binary.LittleEndian.Uint32(hdr[4:8]),
		}

		chunks = append(chunks, c)

		offset = c.Offset + c.padded()

		if _, err := r.Seek(offset, io.SeekStart); err != nil {
			return nil, err
		}
	}

	return chunks, nil
}

// Read reads GUANO metadata from a WAV stream. A file without a guan chunk
// yields empty metadata.
func Read(r io.ReadSeeker) (*Metadata, error) {
	chunks, err := scan(r)
	if err != nil {
		return nil, err
	}

	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}

	for _, c := range chunks {
		if c.ID != chunkID {
			continue
		}

		if c.Offset+int64(c.Size) > end {
			return nil, fmt.Errorf("truncated guan chunk: %d bytes declared, %d available", c.Size, end-c.Offset)
		}

		if _, err := r.Seek(c.Offset, io.SeekStart); err != nil {
			return nil, err
		}

		b := make([]byte, c.Size)

		if _, err := io.ReadFull(r, b); err != nil {
			return nil, perrors.Wrap(err, "truncated guan chunk")
		}

		return Parse(b), nil
	}

	return &Metadata{}, nil
}

// ReadFile reads GUANO metadata from a WAV file.
func ReadFile(path string) (*Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := Read(f)
	if err != nil {
		return nil, perrors.Wrapf(err, "failed to read metadata from %s", path)
	}

	return m, nil
}

// Write copies the WAV stream r to w, replacing any guan chunks with a single
// chunk holding m at the end of the file.
func Write(w io.Writer, r io.ReadSeeker, m *Metadata) error {
	chunks, err := scan(r)
	if err != nil {
		return err
	}

	md := m.Encode()
	if len(md)%2 == 1 {
		md = append(md, 0)
	}

	size := int64(4 + 8 + len(md))

	for _, c := range chunks {
		if c.ID != chunkID {
			size += 8 + c.padded()
		}
	}

	if size > 0xffffffff {
		return fmt.Errorf("file exceeds the RIFF size limit")
	}

	var hdr [8]byte

	copy(hdr[0:4], "RIFF")
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(size))

	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}

	if _, err := io.WriteString(w, "WAVE"); err != nil {
		return err
	}

	for _, c := range chunks {
		if c.ID == chunkID {
			continue
		}

		if _, err := r.Seek(c.Offset-8, io.SeekStart); err != nil {
			return err
		}

		n, err := io.CopyN(w, r, 8+c.padded())

		// The final pad byte may be missing in files from some recorders.
		if err == io.EOF && n == 8+int64(c.Size) {
			_, err = w.Write([]byte{0})
		}

		if err != nil {
			return perrors.Wrapf(err, "failed to copy %q chunk", c.ID)
		}
	}

	copy(hdr[0:4], chunkID)
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(len(md)))

	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}

	_, err = w.Write(md)

	return err
}

// WriteFile rewrites the metadata of a WAV file in place. The new file is
// written next to the original and renamed over it.
func WriteFile(path string, m *Metadata) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	tmp, err := ioutil.TempFile(filepath.Dir(path), ".guano-*.wav")
	if err != nil {
		return err
	}

	defer os.Remove(tmp.Name())

	if stat, err := f.Stat(); err == nil {
		tmp.Chmod(stat.Mode().Perm())
	}

	if err := Write(tmp, f, m); err != nil {
		tmp.Close()
		return perrors.Wrapf(err, "failed to write metadata to %s", path)
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	f.Close()

	return os.Rename(tmp.Name(), path)
}

// NewWave returns the bytes of a minimal PCM WAV file with the given samples
// and metadata. It is used for fixtures and tests.
func NewWave(rate uint32, samples []int16, m *Metadata) []byte {
	var buf bytes.Buffer

	fmtChunk := make([]byte, 16)
	binary.LittleEndian.PutUint16(fmtChunk[0:2], 1) // PCM
	binary.LittleEndian.PutUint16(fmtChunk[2:4], 1) // Mono
	binary.LittleEndian.PutUint32(fmtChunk[4:8], rate)
	binary.LittleEndian.PutUint32(fmtChunk[8:12], rate*2)
	binary.LittleEndian.PutUint16(fmtChunk[12:14], 2)
	binary.LittleEndian.PutUint16(fmtChunk[14:16], 16)

	data := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[2*i:], uint16(s))
	}

	writeChunk := func(id string, b []byte) {
		var hdr [8]byte
		copy(hdr[0:4], id)
		binary.LittleEndian.PutUint32(hdr[4:8], uint32(len(b)))
		buf.Write(hdr[:])
		buf.Write(b)
		if len(b)%2 == 1 {
			buf.WriteByte(0)
		}
	}

	buf.WriteString("RIFF")
	buf.Write([]byte{0, 0, 0, 0})
	buf.WriteString("WAVE")

	writeChunk("fmt ", fmtChunk)
	writeChunk("data", data)

	if m != nil {
		writeChunk(chunkID, m.Encode())
	}

	b := buf.Bytes()
	binary.LittleEndian.PutUint32(b[4:8], uint32(len(b)-8))

	return b
}
