package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/netcartographer/cartographer/internal/runner"
	"github.com/projectdiscovery/gologger"
)

func main() {
	options := runner.ParseOptions()
	cartographer, err := runner.NewRunner(options)
	if err != nil {
		gologger.Fatal().Msgf("Could not create runner: %s\n", err)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup close handler
	go watchInterrupt(c, cancel, os.Stdout)

	err = cartographer.Run(ctx)
	cartographer.Close()
	if err != nil {
		gologger.Fatal().Msgf("Could not run cartographer: %s\n", err)
	}
}
