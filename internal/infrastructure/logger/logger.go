package logger

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/rollbar/rollbar-go"
	rollbarerrors "github.com/rollbar/rollbar-go/errors"
)

type Options struct {
	RollbarToken string
	Env          string
	Host         string
	Version      string
}

// Logger writes leveled lines to a std logger. Warnings and errors are also
// sent to Rollbar when a token is configured.
type Logger struct {
	std       *log.Logger
	reporting bool
}

func New(std *log.Logger, opts Options) *Logger {
	l := &Logger{std: std, reporting: opts.RollbarToken != ""}
	if l.reporting {
		rollbar.SetToken(opts.RollbarToken)
		rollbar.SetEnvironment(opts.Env)
		rollbar.SetServerHost(opts.Host)
		rollbar.SetCodeVersion(opts.Version)
		rollbar.SetStackTracer(rollbarerrors.StackTracer)
	}
	return l
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(log.New(io.Discard, "", 0), Options{})
}

// fields turns key/value pairs into a map, skipping a trailing odd key.
func fields(kv []interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return m
}

func (l *Logger) print(level, msg string, kv []interface{}) {
	var b strings.Builder
	b.WriteString(level)
	b.WriteByte(' ')
	b.WriteString(msg)
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(&b, " %v=%v", kv[i], kv[i+1])
	}
	l.std.Println(b.String())
}

func (l *Logger) Debug(msg string, kv ...interface{}) {
	l.print("DEBUG", msg, kv)
}

func (l *Logger) Info(msg string, kv ...interface{}) {
	l.print("INFO", msg, kv)
}

func (l *Logger) Warn(msg string, kv ...interface{}) {
	l.print("WARN", msg, kv)
	if l.reporting {
		rollbar.Warning(msg, fields(kv))
	}
}

// Error logs err with msg. Rollbar gets the error itself so its stack is kept.
func (l *Logger) Error(msg string, err error, kv ...interface{}) {
	l.print("ERROR", msg, append(kv, "err", err))
	if l.reporting {
		extras := fields(kv)
		extras["message"] = msg
		rollbar.Error(err, extras)
	}
}

// Close flushes pending reports.
func (l *Logger) Close() {
	if l.reporting {
		rollbar.Close()
	}
}
