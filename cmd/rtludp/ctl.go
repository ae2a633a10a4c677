package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/chzchzchz/rtludp/sdrudp"
	"github.com/chzchzchz/rtludp/sdrudp/client"
)

var ctlAddr string

func init() {
	ctlCmd := &cobra.Command{
		Use:   "ctl {freq|rate|gain} VALUE",
		Short: "Send one control command (Hz for freq and rate, dB for gain)",
		Args:  cobra.ExactArgs(2),
		RunE:  func(cmd *cobra.Command, args []string) error { return ctl(args[0], args[1]) },
	}
	ctlCmd.Flags().StringVar(&ctlAddr, "addr", fmt.Sprintf("127.0.0.1:%d", sdrudp.DefaultPort+1), "Control address")
	rootCmd.AddCommand(ctlCmd)
}

func parseCommand(kind, value string) (sdrudp.Command, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return sdrudp.Command{}, err
	}
	switch kind {
	case "freq", "frequency":
		hz, err := sdrudp.ParseHz(v)
		return sdrudp.NewFrequencyCommand(hz), err
	case "rate", "sample-rate":
		hz, err := sdrudp.ParseHz(v)
		return sdrudp.NewSampleRateCommand(hz), err
	case "gain":
		return sdrudp.NewGainCommand(sdrudp.ParseGainDB(v)), nil
	}
	return sdrudp.Command{}, fmt.Errorf("unknown command %q, want freq, rate or gain", kind)
}

func ctl(kind, value string) error {
	c, err := parseCommand(kind, value)
	if err != nil {
		return err
	}
	cl, err := client.Dial(ctlAddr)
	if err != nil {
		return err
	}
	defer cl.Close()
	return cl.Send(c)
}
