package remote

import (
	"strings"
	"time"
)

const (
	// PromptTerminators are the characters that end a device prompt.
	PromptTerminators = ">#$%"

	DefaultMaxEmptyReads = 25
	DefaultPollInterval  = 50 * time.Millisecond
)

// AwaitPrompt reads from src until the output looks like it ends in a prompt,
// the source ends, or maxEmptyReads consecutive polls return nothing. It
// returns everything read.
func AwaitPrompt(src ChunkSource, maxEmptyReads int, pollInterval time.Duration) string {
	var out strings.Builder
	empty := 0
	for empty < maxEmptyReads {
		chunk, err := src.TryRead()
		if err != nil {
			break
		}
		if len(chunk) == 0 {
			empty++
			time.Sleep(pollInterval)
			continue
		}
		empty = 0
		out.Write(chunk)
		if EndsWithPrompt(out.String()) {
			break
		}
	}
	return out.String()
}

// EndsWithPrompt reports whether the text after the final newline is
// non-empty and ends in a prompt terminator. Output with no newline at all is
// never treated as a prompt.
func EndsWithPrompt(output string) bool {
	idx := strings.LastIndexByte(output, '\n')
	if idx < 0 {
		return false
	}
	last := output[idx+1:]
	if last == "" {
		return false
	}
	return strings.IndexByte(PromptTerminators, last[len(last)-1]) >= 0
}
