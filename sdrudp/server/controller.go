package server

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/golang/glog"

	"github.com/chzchzchz/rtludp/sdrudp"
)

// maxCommandSize bounds a control datagram; anything longer is truncated.
const maxCommandSize = 1024

// control applies command datagrams until ctx is cancelled. Each receive is
// bounded by PollInterval so cancellation is seen without inbound traffic.
func (s *Server) control(ctx context.Context) {
	defer s.ctrlConn.Close()
	buf := make([]byte, maxCommandSize)
	for ctx.Err() == nil {
		s.ctrlConn.SetReadDeadline(time.Now().Add(s.cfg.PollInterval))
		n, from, err := s.ctrlConn.ReadFromUDP(buf)
		if ctx.Err() != nil {
			break
		}
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			if errors.Is(err, net.ErrClosed) {
				break
			}
			s.stats.receiveErrors.Add(1)
			glog.Warningf("control receive: %v", err)
			continue
		}
		s.handleCommand(buf[:n], from)
	}
	glog.V(1).Infof("controller exiting")
}

// handleCommand decodes and applies one datagram. Nothing is ever sent back.
func (s *Server) handleCommand(b []byte, from *net.UDPAddr) {
	if len(b) == 0 {
		return
	}
	cmd, err := sdrudp.ParseCommand(b)
	switch {
	case errors.Is(err, sdrudp.ErrUnknownOpcode):
		s.stats.unknownCommands.Add(1)
		glog.Warningf("unknown command: %d from %v", uint8(cmd.Op), from)
		return
	case err != nil:
		s.stats.droppedCommands.Add(1)
		glog.V(1).Infof("dropped datagram from %v: %v", from, err)
		return
	}

	s.stats.commands.Add(1)
	if err := s.apply(cmd); err != nil {
		s.stats.setErrors.Add(1)
		glog.Warningf("%v from %v failed: %v", cmd, from, err)
		return
	}
	glog.Infof("%v from %v", cmd, from)
}

func (s *Server) apply(cmd sdrudp.Command) error {
	switch cmd.Op {
	case sdrudp.OpSetFrequency:
		return s.dev.SetCenterFreq(cmd.Param)
	case sdrudp.OpSetSampleRate:
		return s.dev.SetSampleRate(cmd.Param)
	case sdrudp.OpSetGain:
		return s.dev.SetGain(cmd.Gain())
	}
	return sdrudp.ErrUnknownOpcode
}
