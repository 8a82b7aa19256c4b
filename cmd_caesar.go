package main

import (
	"fmt"

	"github.com/go-i2p/cipherlab/lib/config"
	"github.com/go-i2p/cipherlab/lib/crypto/caesar"
	"github.com/go-i2p/cipherlab/lib/session"
	"github.com/spf13/cobra"
)

func newCaesarCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "caesar",
		Short: "Shift ASCII letters through the alphabet",
	}
	cmd.AddCommand(
		newCaesarModeCmd(cfg, session.Encrypt),
		newCaesarModeCmd(cfg, session.Decrypt),
	)
	return cmd
}

func newCaesarModeCmd(cfg *config.Config, mode session.Mode) *cobra.Command {
	var shift int

	cmd := &cobra.Command{
		Use:   string(mode) + " [text]",
		Short: "Caesar " + string(mode) + " text, read from stdin when no argument is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd, args)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("shift") {
				shift = cfg.Caesar.Shift
			}

			out := caesar.Encrypt(text, shift)
			if mode == session.Decrypt {
				out = caesar.Decrypt(text, shift)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().IntVarP(&shift, "shift", "s", config.Defaults().Caesar.Shift, "shift amount; caesar.shift when unset")
	return cmd
}
