package console

import (
	"bufio"
	"context"
	"io"
	"strings"
)

// Lines reads r line by line on a background goroutine and delivers each
// trimmed line on the returned channel. The channel is closed when r ends or
// ctx is cancelled.
func Lines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimRight(scanner.Text(), "\r"):
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}
