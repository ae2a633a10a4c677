package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/chzchzchz/rtludp/radio/wav"
	"github.com/chzchzchz/rtludp/sdrudp"
	"github.com/chzchzchz/rtludp/sdrudp/client"
	"github.com/chzchzchz/rtludp/sdrudp/server"
)

var captureFlags struct {
	out        string
	listen     string
	sampleRate uint32
}

func init() {
	captureCmd := &cobra.Command{
		Use:   "capture [flags]",
		Short: "Record a sample stream to a .iq8 or .wav file",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return capture() },
	}
	f := captureCmd.Flags()
	f.StringVarP(&captureFlags.out, "output", "o", "-", "Output file; .wav adds a header, - is stdout")
	f.StringVar(&captureFlags.listen, "listen", ":1234", "UDP address to receive on")
	f.Uint32VarP(&captureFlags.sampleRate, "sample-rate", "s", sdrudp.DefaultSampleRate, "Sample rate written to the WAV header")
	rootCmd.AddCommand(captureCmd)
}

func capture() (err error) {
	var out io.WriteCloser = os.Stdout
	if captureFlags.out != "-" {
		f, err := os.Create(captureFlags.out)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	if filepath.Ext(captureFlags.out) == ".wav" {
		ww, err := wav.NewIQWriter(out, int(captureFlags.sampleRate))
		if err != nil {
			return err
		}
		defer func() {
			if cerr := ww.Close(); err == nil {
				err = cerr
			}
		}()
		out = ww
	}

	ctx, stop := server.NotifyShutdown(context.Background())
	defer stop()
	n, err := client.Capture(ctx, captureFlags.listen, out)
	glog.Infof("captured %d bytes (%d samples)", n, n/2)
	return err
}
