package main

import (
	"github.com/go-i2p/cipherlab/lib/config"
	"github.com/go-i2p/cipherlab/lib/tui"
	"github.com/spf13/cobra"
)

func newTUICmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive cipher form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(*cfg)
		},
	}
}
