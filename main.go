package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"fjacquet/betterment-ynab/cmd/convert"
	"fjacquet/betterment-ynab/cmd/download"
	"fjacquet/betterment-ynab/cmd/root"
	synccmd "fjacquet/betterment-ynab/cmd/sync"
	"fjacquet/betterment-ynab/internal/logging"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(convert.Cmd)
	root.Cmd.AddCommand(download.Cmd)
	root.Cmd.AddCommand(synccmd.Cmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root.Cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fail(root.GetLogger(), err)
	}
}

// fail logs err at fatal level, which exits with status 1.
func fail(logger logging.Logger, err error) {
	logger.WithError(err).Fatal("Command failed")
}
