package server

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/chzchzchz/rtludp/radio"
	"github.com/chzchzchz/rtludp/sdrudp"
)

// Server streams device blocks to a fixed destination and applies control
// datagrams to the same device.
type Server struct {
	cfg  sdrudp.Config
	dev  *radio.LockedDevice
	dest *net.UDPAddr

	// dataConn is owned by the streamer, ctrlConn by the controller.
	dataConn *net.UDPConn
	ctrlConn *net.UDPConn

	stats   counters
	started time.Time
}

// New binds the data socket to cfg.Port and the control socket to cfg.Port+1.
// The device is shared by both loops but closing it stays with the caller.
func New(dev radio.Device, cfg sdrudp.Config) (s *Server, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.WithID()
	s = &Server{cfg: cfg, started: time.Now()}
	if ld, ok := dev.(*radio.LockedDevice); ok {
		s.dev = ld
	} else {
		s.dev = radio.NewLockedDevice(dev)
	}
	if s.dest, err = cfg.DestinationAddr(); err != nil {
		return nil, err
	}
	if s.dataConn, err = net.ListenUDP("udp4", &net.UDPAddr{Port: cfg.Port}); err != nil {
		return nil, fmt.Errorf("bind data port %d: %w", cfg.Port, err)
	}
	if s.ctrlConn, err = net.ListenUDP("udp4", &net.UDPAddr{Port: cfg.ControlPort()}); err != nil {
		s.dataConn.Close()
		return nil, fmt.Errorf("bind control port %d: %w", cfg.ControlPort(), err)
	}
	return s, nil
}

// Run starts the streamer and controller and returns once both have exited.
// Cancelling ctx is the shutdown signal; each loop closes its own socket.
func (s *Server) Run(ctx context.Context) error {
	glog.Infof("[%s] streaming to %v, control on port %d", s.cfg.ID, s.dest, s.cfg.ControlPort())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.stream(ctx)
	}()
	go func() {
		defer wg.Done()
		s.control(ctx)
	}()
	wg.Wait()

	glog.Infof("[%s] stopped: %+v", s.cfg.ID, s.stats.snapshot())
	return nil
}

func (s *Server) Addr() *net.UDPAddr        { return s.dataConn.LocalAddr().(*net.UDPAddr) }
func (s *Server) ControlAddr() *net.UDPAddr { return s.ctrlConn.LocalAddr().(*net.UDPAddr) }
func (s *Server) Stats() sdrudp.Stats       { return s.stats.snapshot() }

func (s *Server) Status() sdrudp.Status {
	return sdrudp.Status{
		ID:          s.cfg.ID,
		Driver:      s.cfg.Driver,
		Destination: s.dest.String(),
		DataPort:    s.cfg.Port,
		ControlPort: s.cfg.ControlPort(),
		Settings:    s.dev.Settings(),
		Stats:       s.stats.snapshot(),
		Started:     s.started,
	}
}
