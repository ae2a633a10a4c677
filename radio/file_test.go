package radio

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/chzchzchz/rtludp/radio/wav"
)

func TestFileReplayLoops(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.iq8")
	data := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	d, err := Open(context.TODO(), "file", Params{Source: path})
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()
	if err := d.SetSampleRate(3200000); err != nil {
		t.Fatal(err)
	}

	buf := make([]byte, 4)
	want := [][]byte{{0, 1, 2, 3}, {4, 5, 6, 7}, {8, 9}, {0, 1, 2, 3}}
	for i, w := range want {
		n, err := d.ReadBlock(buf)
		if err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if !bytes.Equal(buf[:n], w) {
			t.Fatalf("read %d: got %v, want %v", i, buf[:n], w)
		}
	}
}

func TestFileReplayWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w, err := wav.NewIQWriter(f, 2400000)
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]byte{9, 8, 7, 6})
	w.Close()
	f.Close()

	d, err := Open(context.TODO(), "file", Params{Source: path})
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()
	if rate := d.(*fileDevice).rate; rate != 2400000 {
		t.Fatalf("rate from header = %d", rate)
	}
	buf := make([]byte, 4)
	if n, err := d.ReadBlock(buf); err != nil || !bytes.Equal(buf[:n], []byte{9, 8, 7, 6}) {
		t.Fatalf("read %v, %v", buf[:n], err)
	}
}

func TestFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.iq8")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	d, err := Open(context.TODO(), "file", Params{Source: path})
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()
	if n, err := d.ReadBlock(make([]byte, 4)); err == nil || n != 0 {
		t.Fatalf("expected error on empty file, got n=%d err=%v", n, err)
	}
}
