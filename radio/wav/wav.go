// Package wav reads and writes PCM WAV containers holding u8 I/Q samples.
package wav

import (
	"encoding/binary"
	"errors"
	"io"
)

var (
	ErrBadFormat = errors.New("bad format")
)

type riffHeader struct {
	ChunkId   [4]byte
	ChunkSize uint32
	Format    [4]byte
}

type fmtHeader struct {
	ChunkId       [4]byte /* "fmt " */
	ChunkSize     uint32
	AudioFormat   uint16 /* 1 */
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

type dataHeader struct {
	ChunkId   [4]byte /* "data" */
	ChunkSize uint32
}

// headerLen is the size of all three headers on disk.
const headerLen = 12 + 24 + 8

type Reader struct {
	io.Reader
	rh riffHeader
	fh fmtHeader
	dh dataHeader
}

func NewReader(r io.Reader) (*Reader, error) {
	rr := &Reader{Reader: r}
	if err := binary.Read(r, binary.LittleEndian, &rr.rh); err != nil {
		return nil, err
	}
	if string(rr.rh.ChunkId[:]) != "RIFF" || string(rr.rh.Format[:]) != "WAVE" {
		return nil, ErrBadFormat
	}
	if err := binary.Read(r, binary.LittleEndian, &rr.fh); err != nil {
		return nil, err
	}
	if string(rr.fh.ChunkId[:]) != "fmt " || rr.fh.AudioFormat != 1 {
		return nil, ErrBadFormat
	}
	if err := binary.Read(r, binary.LittleEndian, &rr.dh); err != nil {
		return nil, err
	}
	if string(rr.dh.ChunkId[:]) != "data" {
		return nil, ErrBadFormat
	}
	return rr, nil
}

func (r *Reader) Channels() int   { return int(r.fh.NumChannels) }
func (r *Reader) SampleRate() int { return int(r.fh.SampleRate) }

// BitDepth is the width of one channel's sample.
func (r *Reader) BitDepth() int { return int(r.fh.BitsPerSample) }

type Writer struct {
	w io.Writer

	SampleRate    uint32
	BitsPerSample uint16
	NumChannels   uint16

	dataLen uint32
}

// NewIQWriter writes interleaved u8 I/Q as a two channel, 8-bit WAV.
func NewIQWriter(w io.Writer, rate int) (*Writer, error) { return NewWriter(w, rate, 8, 2) }

func NewWriter(w io.Writer, rate, depth, channels int) (*Writer, error) {
	if rate == 0 || depth == 0 || channels == 0 {
		return nil, ErrBadFormat
	}
	ww := &Writer{
		w:             w,
		SampleRate:    uint32(rate),
		BitsPerSample: uint16(depth),
		NumChannels:   uint16(channels),
	}
	if err := ww.writeHeader(0); err != nil {
		return nil, err
	}
	return ww, nil
}

func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	w.dataLen += uint32(n)
	return n, err
}

// Close patches the real data length into the header when the output can seek.
func (w *Writer) Close() error {
	ws, ok := w.w.(io.WriteSeeker)
	if !ok {
		return nil
	}
	if _, err := ws.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if err := w.writeHeader(w.dataLen); err != nil {
		return err
	}
	_, err := ws.Seek(0, io.SeekEnd)
	return err
}

func (w *Writer) writeHeader(dataLen uint32) error {
	if dataLen == 0 {
		// Unknown length while streaming.
		dataLen = 1 << 31
	}
	rh := &riffHeader{
		ChunkId:   [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize: dataLen + headerLen - 8,
		Format:    [4]byte{'W', 'A', 'V', 'E'},
	}
	if err := binary.Write(w.w, binary.LittleEndian, rh); err != nil {
		return err
	}

	fh := &fmtHeader{
		ChunkId:       [4]byte{'f', 'm', 't', ' '},
		ChunkSize:     16,
		AudioFormat:   1,
		NumChannels:   w.NumChannels,
		SampleRate:    w.SampleRate,
		ByteRate:      w.SampleRate * uint32(w.NumChannels) * uint32(w.BitsPerSample) / 8,
		BlockAlign:    uint16((uint32(w.NumChannels) * uint32(w.BitsPerSample)) / 8),
		BitsPerSample: w.BitsPerSample,
	}
	if err := binary.Write(w.w, binary.LittleEndian, fh); err != nil {
		return err
	}

	dh := &dataHeader{
		ChunkId:   [4]byte{'d', 'a', 't', 'a'},
		ChunkSize: dataLen,
	}
	return binary.Write(w.w, binary.LittleEndian, dh)
}
