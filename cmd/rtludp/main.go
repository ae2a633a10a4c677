package main

import (
	"flag"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	_ "github.com/chzchzchz/rtludp/radio/rtlsdr"
)

var rootCmd = &cobra.Command{
	Use:           "rtludp",
	Short:         "Stream RTL-SDR samples over UDP with a UDP control channel.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
}

func main() {
	flag.Set("logtostderr", "true")
	// glog reads its flags only once parsed; cobra sets them afterwards.
	flag.CommandLine.Parse(nil)

	err := rootCmd.Execute()
	if err != nil {
		glog.Errorf("%v", err)
	}
	glog.Flush()
	if err != nil {
		os.Exit(1)
	}
}
