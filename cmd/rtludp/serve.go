package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/chzchzchz/rtludp/sdrudp"
	"github.com/chzchzchz/rtludp/sdrudp/server"
)

var serveFlags struct {
	config     string
	id         string
	driver     string
	source     string
	device     int
	frequency  float64
	sampleRate float64
	gainDB     float64
	port       int
	dest       string
	blockSize  int
	poll       time.Duration
	http       string
}

func init() {
	serveCmd := &cobra.Command{
		Use:   "serve [flags]",
		Short: "Stream samples to --dest and accept commands on port+1",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return serve(cmd) },
	}
	f := serveCmd.Flags()
	f.StringVar(&serveFlags.config, "config", "", "INI file with defaults; flags override it")
	f.StringVar(&serveFlags.id, "id", "", "Instance name for logs and status (random if empty)")
	f.StringVar(&serveFlags.driver, "driver", sdrudp.DefaultDriver, "Device driver (rtlsdr, rtltcp, file)")
	f.StringVar(&serveFlags.source, "source", "", "Driver source: rtl_tcp host:port or capture file")
	f.IntVarP(&serveFlags.device, "device", "d", 0, "Device index")
	f.Float64VarP(&serveFlags.frequency, "frequency", "f", sdrudp.DefaultFrequency, "Center frequency in Hz")
	f.Float64VarP(&serveFlags.sampleRate, "sample-rate", "s", sdrudp.DefaultSampleRate, "Sample rate in Hz")
	f.Float64VarP(&serveFlags.gainDB, "gain", "g", 0, "Tuner gain in dB, 0 for auto")
	f.IntVarP(&serveFlags.port, "port", "p", sdrudp.DefaultPort, "Data port; control listens on port+1")
	f.StringVarP(&serveFlags.dest, "dest", "u", sdrudp.DefaultDestIP, "Destination ip[:port]")
	f.IntVar(&serveFlags.blockSize, "block-size", sdrudp.DefaultBlockSize, "Bytes per datagram")
	f.DurationVar(&serveFlags.poll, "poll", sdrudp.DefaultPollInterval, "Control receive timeout")
	f.StringVar(&serveFlags.http, "http", "", "Serve read-only status on this address")
	rootCmd.AddCommand(serveCmd)
}

// serveConfig layers explicitly set flags over the config file over defaults.
func serveConfig(cmd *cobra.Command) (sdrudp.Config, error) {
	cfg := sdrudp.DefaultConfig()
	cfg.Destination = serveFlags.dest
	if serveFlags.config != "" {
		if err := sdrudp.LoadConfigFile(serveFlags.config, &cfg); err != nil {
			return cfg, err
		}
	}
	set := cmd.Flags().Changed
	if set("id") {
		cfg.ID = serveFlags.id
	}
	if set("driver") {
		cfg.Driver = serveFlags.driver
	}
	if set("source") {
		cfg.Source = serveFlags.source
	}
	if set("device") {
		cfg.DeviceIndex = serveFlags.device
	}
	if set("frequency") {
		hz, err := sdrudp.ParseHz(serveFlags.frequency)
		if err != nil {
			return cfg, err
		}
		cfg.Frequency = hz
	}
	if set("sample-rate") {
		hz, err := sdrudp.ParseHz(serveFlags.sampleRate)
		if err != nil {
			return cfg, err
		}
		cfg.SampleRate = hz
	}
	if set("gain") {
		cfg.Gain = sdrudp.ParseGainDB(serveFlags.gainDB)
	}
	if set("port") {
		cfg.Port = serveFlags.port
	}
	if set("dest") {
		cfg.Destination = serveFlags.dest
	}
	if set("block-size") {
		cfg.BlockSize = serveFlags.blockSize
	}
	if set("poll") {
		cfg.PollInterval = serveFlags.poll
	}
	if set("http") {
		cfg.HTTPAddr = serveFlags.http
	}
	return cfg, cfg.Validate()
}

func serve(cmd *cobra.Command) error {
	cfg, err := serveConfig(cmd)
	if err != nil {
		return err
	}
	return server.Serve(context.Background(), cfg)
}
