package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chzchzchz/rtludp/radio"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List devices of all registered drivers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := radio.List(context.Background())
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				fmt.Println("no devices found")
			}
			for _, info := range infos {
				fmt.Printf("%s #%d: %s %s\n", info.Driver, info.Index, info.Name, info.Serial)
			}
			return nil
		},
	})
}
