package main

import (
	"fmt"
	"sync"

	"github.com/go-i2p/cipherlab/lib/config"
	"github.com/go-i2p/cipherlab/lib/i18n"
	"github.com/go-i2p/cipherlab/lib/rpc"
	"github.com/go-i2p/cipherlab/lib/util"
	"github.com/go-i2p/cipherlab/lib/util/signals"
	"github.com/go-i2p/logger"
	"github.com/spf13/cobra"
)

func newServeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the cipher operations over JSON-RPC 2.0",
		Long: `Serve the cipher operations over JSON-RPC 2.0 on rpc.address.
SIGHUP reloads credentials, token expiry and rate limits from the config
file; SIGINT or SIGTERM shuts the server down.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cfg.RPC.Enabled {
				fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.serve_disabled"))
				return nil
			}

			srv, err := rpc.NewServer(*cfg, nil)
			if err != nil {
				return err
			}
			if err := srv.Start(); err != nil {
				return err
			}
			util.RegisterCloser(srv)
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.serve_started", srv.Addr().String()))

			done := make(chan struct{})
			var once sync.Once
			stop := func() { once.Do(func() { close(done) }) }

			interruptID := signals.RegisterInterruptHandler(stop)
			reloadID := signals.RegisterReloadHandler(func() { reloadServer(srv) })
			defer signals.DeregisterInterruptHandler(interruptID)
			defer signals.DeregisterReloadHandler(reloadID)
			go signals.Handle()

			select {
			case <-done:
			case <-cmd.Context().Done():
			}

			if failed := util.CloseAll(); failed > 0 {
				log.WithField("failed", failed).Warn("some resources did not close cleanly")
			}
			signals.StopHandle()
			return nil
		},
	}
}

// reloadServer re-reads the config file and applies what can change
// without rebinding the listener.
func reloadServer(srv *rpc.Server) {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Warn("reload: failed to read configuration")
		return
	}
	next := config.CurrentConfig()
	if err := config.Validate(next); err != nil {
		log.WithError(err).Warn("reload: configuration rejected")
		return
	}
	srv.Reload(next.RPC)
	log.WithFields(logger.Fields{
		"at":      "reloadServer",
		"address": next.RPC.Address,
	}).Info("configuration reloaded")
}
