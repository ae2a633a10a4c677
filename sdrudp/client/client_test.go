package client

import (
	"bytes"
	"context"
	"net"
	"sync"
	"testing"
	"time"
)

func TestSetters(t *testing.T) {
	srv, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatal(err)
	}
	defer srv.Close()

	c, err := Dial(srv.LocalAddr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err := c.SetFrequency(915000000); err != nil {
		t.Fatal(err)
	}
	if err := c.SetSampleRate(2000000); err != nil {
		t.Fatal(err)
	}
	if err := c.SetGain(-100); err != nil {
		t.Fatal(err)
	}

	want := [][]byte{
		{0x01, 0x36, 0x89, 0xCA, 0xC0},
		{0x02, 0x00, 0x1E, 0x84, 0x80},
		{0x03, 0xff, 0xff, 0xff, 0x9c},
	}
	buf := make([]byte, 64)
	srv.SetReadDeadline(time.Now().Add(2 * time.Second))
	for i, w := range want {
		n, err := srv.Read(buf)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(buf[:n], w) {
			t.Errorf("datagram %d = % x, want % x", i, buf[:n], w)
		}
	}
}

type lockedBuffer struct {
	mu sync.Mutex
	bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Buffer.Write(p)
}

func (b *lockedBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Buffer.Len()
}

func TestCapture(t *testing.T) {
	// Reserve a port, then hand it to Capture.
	probe, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatal(err)
	}
	addr := probe.LocalAddr().String()
	probe.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var out lockedBuffer
	type result struct {
		n   int64
		err error
	}
	resc := make(chan result, 1)
	go func() {
		n, err := Capture(ctx, addr, &out)
		resc <- result{n, err}
	}()

	tx, err := net.Dial("udp4", addr)
	if err != nil {
		t.Fatal(err)
	}
	defer tx.Close()
	payload := bytes.Repeat([]byte{0x7f, 0x80}, 100)
	deadline := time.Now().Add(3 * time.Second)
	for out.Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("no data captured")
		}
		tx.Write(payload)
		time.Sleep(20 * time.Millisecond)
	}
	cancel()

	select {
	case r := <-resc:
		if r.err != nil {
			t.Fatal(r.err)
		}
		if r.n == 0 || r.n%int64(len(payload)) != 0 || r.n != int64(out.Len()) {
			t.Fatalf("captured %d bytes, buffer holds %d", r.n, out.Len())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Capture did not stop")
	}
}
