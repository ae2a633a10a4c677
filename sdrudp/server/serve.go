package server

import (
	"context"
	"fmt"

	"github.com/golang/glog"

	"github.com/chzchzchz/rtludp/radio"
	"github.com/chzchzchz/rtludp/sdrudp"
	"github.com/chzchzchz/rtludp/sdrudp/http"
)

// Serve runs the whole lifecycle: trap shutdown signals, open and tune the
// device, bind both sockets, stream until shutdown, then close the device once
// both loops have returned. Only setup failures are returned.
func Serve(ctx context.Context, cfg sdrudp.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg = cfg.WithID()

	ctx, stop := NotifyShutdown(ctx)
	defer stop()

	params := radio.Params{Index: cfg.DeviceIndex, Source: cfg.Source}
	dev, err := radio.Open(ctx, cfg.Driver, params)
	if err != nil {
		return fmt.Errorf("open %s device #%d: %w", cfg.Driver, cfg.DeviceIndex, err)
	}
	ld := radio.NewLockedDevice(dev)
	defer func() {
		if err := ld.Close(); err != nil {
			glog.Warningf("close device: %v", err)
		}
	}()

	// Initial tuning failures are reported but the stream still starts.
	if err := radio.Apply(ld, cfg.Settings()); err != nil {
		glog.Warningf("initial tuning: %v", err)
	}
	glog.Infof("[%s] tuned %v", cfg.ID, ld.Settings())

	s, err := New(ld, cfg)
	if err != nil {
		return err
	}

	if cfg.HTTPAddr != "" {
		go func() {
			glog.Infof("[%s] status on http://%s/api/status", cfg.ID, cfg.HTTPAddr)
			if err := http.ServeHttp(ctx, s, cfg.HTTPAddr); err != nil {
				glog.Warningf("status server: %v", err)
			}
		}()
	}

	return s.Run(ctx)
}
