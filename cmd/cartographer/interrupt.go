package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
)

// watchInterrupt cancels the run on the first signal delivered to c. The
// channel is unregistered before cancelling, so a second Ctrl+C gets the
// default action and kills a run that is stuck.
func watchInterrupt(c chan os.Signal, cancel context.CancelFunc, out io.Writer) {
	<-c
	signal.Stop(c)
	fmt.Fprintln(out, "\r- Ctrl+C pressed in Terminal, Exiting...")
	cancel()
}
