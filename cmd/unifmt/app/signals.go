// Signal handling for the unifmt application. The first SIGINT or SIGTERM
// cancels the run cooperatively: in-flight tasks drain and partial progress
// persists. A second signal forces immediate exit.
package app

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/unifmt/unifmt/pkg/logger"
)

// setupSignalHandling initializes signal handling for graceful shutdown
func (a *App) setupSignalHandling() {
	var shutdownInitiated atomic.Bool

	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		for sig := range sigChan {
			a.log.WithFields(logger.Fields{
				"signal": sig.String(),
			}).Debug("Received system signal")

			if shutdownInitiated.CompareAndSwap(false, true) {
				a.log.Warn("Interrupt received, finishing in-flight files (interrupt again to force quit)")
				a.cancel()
				continue
			}

			a.log.Warn("Second interrupt, forcing exit")
			if a.progress != nil {
				a.progress.Stop()
			}
			os.Exit(130)
		}
	}()
}
