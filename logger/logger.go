package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/exp/slog"
)

// TimeFormat - total time format
const TimeFormat = "2006-01-02 15:04:05"

// == fields ==
var mu sync.Mutex
var program string
var verbose atomic.Int32
var base *slog.Logger

func init() {
	fullpath, err := os.Executable()
	if err != nil {
		fullpath = ""
	}
	program = filepath.Base(fullpath)
	verbose.Store(-1)
	setOutput(os.Stdout)
}

// SetVerbosity - sets the level used by Log, overriding the VERBOSITY env var
func SetVerbosity(level int32) {
	if level < 0 {
		level = 0
	}
	if level > 4 {
		level = 4
	}
	verbose.Store(level)
	setOutput(os.Stdout)
}

// SetOutput - redirects log output, mainly for tests
func SetOutput(w io.Writer) {
	setOutput(w)
}

func setOutput(w io.Writer) {
	level := slog.LevelInfo
	if getVerbose() >= 3 {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	mu.Lock()
	base = slog.New(handler).With("program", program)
	mu.Unlock()
	slog.SetDefault(base)
}

// Log - handles adding logs
func Log(verbosity int, message ...string) {
	if int32(verbosity) > getVerbose() {
		return
	}
	var currentMessage = MakeString(" ", message...)
	if getVerbose() >= 4 {
		pc, file, line, ok := runtime.Caller(1)
		if !ok {
			file = "?"
			line = 0
		}
		fn := runtime.FuncForPC(pc)
		var fnName string
		if fn == nil {
			fnName = "?()"
		} else {
			fnName = strings.TrimLeft(filepath.Ext(fn.Name()), ".") + "()"
		}
		currentMessage = fmt.Sprintf("[%s-%d] %s: %s", filepath.Base(file), line, fnName, currentMessage)
	}
	mu.Lock()
	l := base
	mu.Unlock()
	l.Info(currentMessage, "verbosity", verbosity)
}

// FatalLog - exits os after logging
func FatalLog(message ...string) {
	mu.Lock()
	l := base
	mu.Unlock()
	l.Error("fatal: " + MakeString(" ", message...))
	os.Exit(2)
}
