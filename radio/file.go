package radio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/chzchzchz/rtludp/radio/wav"
)

// fileDevice replays an .iq8 or .wav capture in a loop, paced to the sample rate.
type fileDevice struct {
	f         *os.File
	dataStart int64

	rate uint32
	next time.Time
}

func init() {
	Register("file", Driver{Open: openFile})
}

func openFile(_ context.Context, p Params) (Device, error) {
	if p.Source == "" {
		return nil, errors.New("file driver needs a source path")
	}
	f, err := os.Open(p.Source)
	if err != nil {
		return nil, err
	}
	fd := &fileDevice{f: f}
	if strings.HasSuffix(p.Source, ".wav") {
		r, err := wav.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%s: %w", p.Source, err)
		}
		if r.Channels() != 2 || r.BitDepth() != 8 {
			f.Close()
			return nil, fmt.Errorf("%s: want 8-bit I/Q, got %d channels: %w", p.Source, r.Channels(), wav.ErrBadFormat)
		}
		fd.rate = uint32(r.SampleRate())
	}
	if fd.dataStart, err = f.Seek(0, io.SeekCurrent); err != nil {
		f.Close()
		return nil, err
	}
	return fd, nil
}

func (fd *fileDevice) ReadBlock(p []byte) (int, error) {
	n, err := io.ReadFull(fd.f, p)
	if err == io.EOF {
		if _, err = fd.f.Seek(fd.dataStart, io.SeekStart); err != nil {
			return 0, err
		}
		n, err = io.ReadFull(fd.f, p)
	}
	if err == io.ErrUnexpectedEOF {
		err = nil
	}
	if err != nil {
		return n, err
	}
	fd.pace(n)
	return n, nil
}

// pace sleeps so n bytes (n/2 samples) take as long as they would on air.
func (fd *fileDevice) pace(n int) {
	if fd.rate == 0 {
		return
	}
	now := time.Now()
	if fd.next.Before(now.Add(-time.Second)) {
		fd.next = now
	}
	fd.next = fd.next.Add(time.Duration(n/2) * time.Second / time.Duration(fd.rate))
	time.Sleep(time.Until(fd.next))
}

func (fd *fileDevice) SetCenterFreq(uint32) error { return nil }

func (fd *fileDevice) SetSampleRate(rate uint32) error {
	if rate == 0 {
		return ErrRateOutOfRange
	}
	fd.rate = rate
	return nil
}

func (fd *fileDevice) SetGain(int32) error { return nil }

func (fd *fileDevice) Close() error { return fd.f.Close() }
