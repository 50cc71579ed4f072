package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// signalContext returns a context that is cancelled on the first SIGINT or
// SIGTERM. Signal handling is then reset, so a second signal terminates the
// process.
func signalContext(ctx context.Context) context.Context {
	ctx, cancel := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case s := <-sig:
			fmt.Fprintf(os.Stderr, "\nReceived %s, stopping. Interrupt again to exit immediately\n", s)
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sig)
	}()

	return ctx
}
