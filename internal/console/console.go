// Package console is the operator-facing output sink and line input of the
// interactive shell.
//
// Everything a command prints goes through a Console. While a command runs,
// the runner can tee that output into a per-command log file under
//
//	<dir>/YYYYMMDD/<command>_HHMMSS.txt
//
// by bracketing the handler with StartLog and StopLog.
package console

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	fileutil "github.com/projectdiscovery/utils/file"
)

// Console writes to an underlying writer and, while a log is active, to a log
// file as well. It is safe for concurrent use.
type Console struct {
	mu   sync.Mutex
	out  io.Writer
	dir  string
	file *os.File
	now  func() time.Time
}

// New returns a console writing to out. An empty dir disables log files.
func New(out io.Writer, dir string) *Console {
	return &Console{out: out, dir: dir, now: time.Now}
}

// Write implements io.Writer.
func (c *Console) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, err := c.out.Write(p)
	if c.file != nil {
		_, _ = c.file.Write(p)
	}
	return n, err
}

// StartLog begins teeing output into a new log file for command and returns
// its path. Any log already open is closed first. The invocation id is
// written as the first line of the file only.
func (c *Console) StartLog(command, id string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closeLocked()
	if c.dir == "" {
		return "", nil
	}

	now := c.now()
	folder := filepath.Join(c.dir, now.Format("20060102"))
	if err := fileutil.CreateFolder(folder); err != nil {
		return "", err
	}
	path := filepath.Join(folder, fmt.Sprintf("%s_%s.txt", command, now.Format("150405")))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return "", err
	}
	if id != "" {
		_, _ = fmt.Fprintf(f, "# %s %s %s\n", command, id, now.Format(time.RFC3339))
	}
	c.file = f
	return path, nil
}

// StopLog closes the active log file, if any.
func (c *Console) StopLog() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *Console) closeLocked() error {
	if c.file == nil {
		return nil
	}
	err := c.file.Close()
	c.file = nil
	return err
}
