// Package logutil provides a shared destination for the loggers used across
// the codebase. Logging is off by default; a program that wants the logs
// calls SetOutput.
package logutil

import (
	"io"
	"log"
	"sync"
)

var (
	mu  sync.Mutex
	out io.Writer = io.Discard

	loggers []*log.Logger
)

// GetLogger returns a logger with the given prefix, writing to the shared
// destination. Packages typically keep one in a package-level variable:
//
//	var logger = logutil.GetLogger("[twig] ")
func GetLogger(prefix string) *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	lg := log.New(out, prefix, log.LstdFlags)
	loggers = append(loggers, lg)
	return lg
}

// SetOutput redirects all loggers, current and future, to w. A nil w turns
// logging off again.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = io.Discard
	}
	out = w
	for _, lg := range loggers {
		lg.SetOutput(w)
	}
}
