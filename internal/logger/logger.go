package logger

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync/atomic"
)

// Level is the minimum severity that gets written
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var level atomic.Int32

func init() {
	level.Store(int32(LevelInfo))
}

// SetLevel changes the minimum level for all subsequent log calls
func SetLevel(l Level) {
	level.Store(int32(l))
}

// SetOutput redirects log output (the TUI points this at a file)
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

func enabled(l Level) bool {
	return Level(level.Load()) <= l
}

// Debug logs at debug level
func Debug(ctx context.Context, msg string, kv ...any) {
	if enabled(LevelDebug) {
		write("DEBUG", msg, kv)
	}
}

// Info logs at info level
func Info(ctx context.Context, msg string, kv ...any) {
	if enabled(LevelInfo) {
		write("INFO", msg, kv)
	}
}

// Warn logs at warn level
func Warn(ctx context.Context, msg string, kv ...any) {
	if enabled(LevelWarn) {
		write("WARN", msg, kv)
	}
}

// Error logs msg and err at error level. A nil err logs only msg.
func Error(ctx context.Context, err error, msg string, kv ...any) {
	if !enabled(LevelError) {
		return
	}
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	write("ERROR", msg, kv)
}

func write(prefix, msg string, kv []any) {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(prefix)
	b.WriteString("] ")
	b.WriteString(msg)
	for i := 0; i < len(kv); i += 2 {
		b.WriteString(" ")
		if i+1 < len(kv) {
			fmt.Fprintf(&b, "%v=%v", kv[i], kv[i+1])
		} else {
			fmt.Fprintf(&b, "%v=?", kv[i])
		}
	}
	log.Print(b.String())
}
