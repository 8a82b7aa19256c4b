package main

import (
	"fmt"
	"os"

	"github.com/go-i2p/cipherlab/lib/i18n"
	"github.com/go-i2p/logger"
)

var log = logger.GetGoI2PLogger()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.WithError(err).Debug("command failed")
		fmt.Fprintln(os.Stderr, i18n.T("error.generic", err.Error()))
		os.Exit(1)
	}
}
