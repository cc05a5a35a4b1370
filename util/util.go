package util

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	logging "github.com/ipfs/go-log/v2"
	"github.com/urfave/cli/v2"
)

var log = logging.Logger("util")

// ReqContext returns a context cancelled on SIGINT/SIGTERM, for commands
// that run until interrupted.
func ReqContext(cctx *cli.Context) context.Context {
	tCtx := context.Background()
	if cctx != nil && cctx.Context != nil {
		tCtx = cctx.Context
	}

	ctx, done := context.WithCancel(tCtx)
	sigChan := make(chan os.Signal, 2)
	go func() {
		sig := <-sigChan
		log.Infof("received %v, shutting down", sig)
		done()
	}()
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	return ctx
}
