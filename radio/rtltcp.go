package radio

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/golang/glog"
)

var dongleMagic = [...]byte{'R', 'T', 'L', '0'}

// DongleInfo is the header an rtl_tcp server sends on connect.
type DongleInfo struct {
	Magic     [4]byte
	Tuner     uint32
	GainCount uint32
}

// Valid checks the received magic number matches 'RTL0'.
func (d DongleInfo) Valid() bool { return d.Magic == dongleMagic }

// Command codes defined in rtl_tcp.c
const (
	tcpCenterFreq = iota + 1
	tcpSampleRate
	tcpTunerGainMode
	tcpTunerGain
	tcpFreqCorrection
)

type tcpCommand struct {
	Op    uint8
	Param uint32
}

// rtlTCP is a Device backed by an rtl_tcp server.
type rtlTCP struct {
	conn net.Conn
	Info DongleInfo
	// proc is the locally spawned rtl_tcp, if any.
	proc *rtlTCPProc
}

func init() {
	Register("rtltcp", Driver{Open: openRTLTCP})
}

func openRTLTCP(ctx context.Context, p Params) (Device, error) {
	if p.Source != "" {
		return dialRTLTCP(ctx, p.Source)
	}
	proc, err := startRTLTCP(ctx, p.Index, localRTLTCPPort)
	if err != nil {
		return nil, err
	}
	t, err := connectRTLTCP(ctx, net.JoinHostPort("127.0.0.1", localRTLTCPPort))
	if err != nil {
		proc.Close()
		return nil, err
	}
	t.proc = proc
	return t, nil
}

func dialRTLTCP(ctx context.Context, addr string) (t *rtlTCP, err error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("error connecting to rtl_tcp: %w", err)
	}
	defer func() {
		if err != nil {
			conn.Close()
		}
	}()
	t = &rtlTCP{conn: conn}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err = binary.Read(conn, binary.BigEndian, &t.Info); err != nil {
		return nil, fmt.Errorf("error getting dongle information: %w", err)
	}
	conn.SetReadDeadline(time.Time{})
	if !t.Info.Valid() {
		return nil, fmt.Errorf("bad magic number: %q", t.Info.Magic)
	}
	return t, nil
}

// connectRTLTCP retries while a freshly spawned rtl_tcp starts listening.
func connectRTLTCP(ctx context.Context, addr string) (t *rtlTCP, err error) {
	for i := 0; i < 10; i++ {
		if t, err = dialRTLTCP(ctx, addr); err == nil {
			return t, nil
		}
		glog.V(1).Infof("rtl_tcp connect attempt %d: %v", i+1, err)
		select {
		case <-time.After(100 * time.Millisecond):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, err
}

func (t *rtlTCP) do(op uint8, v uint32) error {
	return binary.Write(t.conn, binary.BigEndian, tcpCommand{op, v})
}

func (t *rtlTCP) ReadBlock(p []byte) (int, error) { return io.ReadFull(t.conn, p) }

func (t *rtlTCP) SetCenterFreq(hz uint32) error {
	if !isValidFreq(hz) {
		return ErrFrequencyOutOfRange
	}
	return t.do(tcpCenterFreq, hz)
}

func (t *rtlTCP) SetSampleRate(rate uint32) error {
	if !isValidRate(rate) {
		return ErrRateOutOfRange
	}
	return t.do(tcpSampleRate, rate)
}

func (t *rtlTCP) SetGain(tenthsDB int32) error {
	if tenthsDB == 0 {
		// Mode 0 is automatic gain.
		return t.do(tcpTunerGainMode, 0)
	}
	if err := t.do(tcpTunerGainMode, 1); err != nil {
		return err
	}
	return t.do(tcpTunerGain, uint32(tenthsDB))
}

// SetFreqCorrection sets the frequency correction in ppm.
func (t *rtlTCP) SetFreqCorrection(ppm int32) error {
	return t.do(tcpFreqCorrection, uint32(ppm))
}

func (t *rtlTCP) Close() error {
	err := t.conn.Close()
	if t.proc != nil {
		if perr := t.proc.Close(); err == nil {
			err = perr
		}
	}
	return err
}
