package wav

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "iq.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w, err := NewIQWriter(f, 2048000)
	if err != nil {
		t.Fatal(err)
	}
	data := []byte{1, 2, 3, 4, 5, 6}
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	f, err = os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	r, err := NewReader(f)
	if err != nil {
		t.Fatal(err)
	}
	if r.Channels() != 2 || r.BitDepth() != 8 || r.SampleRate() != 2048000 {
		t.Fatalf("got channels=%d depth=%d rate=%d", r.Channels(), r.BitDepth(), r.SampleRate())
	}
	if r.dh.ChunkSize != uint32(len(data)) {
		t.Fatalf("data chunk size %d, want %d", r.dh.ChunkSize, len(data))
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("got %v, want %v", got, data)
	}
}

func TestBadHeader(t *testing.T) {
	if _, err := NewReader(bytes.NewReader(make([]byte, headerLen))); err != ErrBadFormat {
		t.Fatalf("expected ErrBadFormat, got %v", err)
	}
}
