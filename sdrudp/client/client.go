// Package client sends control datagrams to a running streamer and records
// its sample stream.
package client

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/golang/glog"

	"github.com/chzchzchz/rtludp/sdrudp"
)

// Client sends commands to one control socket. No reply is ever expected.
type Client struct {
	conn *net.UDPConn
}

func Dial(addr string) (*Client, error) {
	raddr, err := net.ResolveUDPAddr("udp4", addr)
	if err != nil {
		return nil, err
	}
	conn, err := net.DialUDP("udp4", nil, raddr)
	if err != nil {
		return nil, err
	}
	return &Client{conn}, nil
}

func (c *Client) Send(cmd sdrudp.Command) error {
	b, err := cmd.MarshalBinary()
	if err != nil {
		return err
	}
	_, err = c.conn.Write(b)
	return err
}

func (c *Client) SetFrequency(hz uint32) error  { return c.Send(sdrudp.NewFrequencyCommand(hz)) }
func (c *Client) SetSampleRate(hz uint32) error { return c.Send(sdrudp.NewSampleRateCommand(hz)) }

// SetGain takes tenths of dB; 0 selects automatic gain.
func (c *Client) SetGain(tenthsDB int32) error { return c.Send(sdrudp.NewGainCommand(tenthsDB)) }

func (c *Client) Close() error { return c.conn.Close() }

const captureBufSize = sdrudp.MaxBlockSize

var capturePoll = 250 * time.Millisecond

// Capture listens on listenAddr and copies each datagram payload to w until
// ctx is cancelled or a write fails. It returns the number of bytes written.
func Capture(ctx context.Context, listenAddr string, w io.Writer) (int64, error) {
	laddr, err := net.ResolveUDPAddr("udp4", listenAddr)
	if err != nil {
		return 0, err
	}
	conn, err := net.ListenUDP("udp4", laddr)
	if err != nil {
		return 0, err
	}
	defer conn.Close()
	glog.V(1).Infof("capturing on %v", conn.LocalAddr())

	var total int64
	buf := make([]byte, captureBufSize)
	for ctx.Err() == nil {
		conn.SetReadDeadline(time.Now().Add(capturePoll))
		n, err := conn.Read(buf)
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			return total, err
		}
		wn, err := w.Write(buf[:n])
		total += int64(wn)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
