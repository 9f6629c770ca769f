// Package output handles what ksapply prints and logs.
package output

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFile configures the rotated debug log.
type LogFile struct {
	Path       string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
}

// consoleHandler writes bare messages, without timestamps or levels.
// Warnings and errors go to errOut.
type consoleHandler struct {
	out    io.Writer
	errOut io.Writer
	debug  bool
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	if level == slog.LevelDebug {
		return h.debug
	}
	return true
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	w := h.out
	if record.Level >= slog.LevelWarn {
		w = h.errOut
	}
	_, err := fmt.Fprintln(w, record.Message)
	return err
}

func (h *consoleHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

func (h *consoleHandler) WithGroup(_ string) slog.Handler {
	return h
}

// multiHandler fans out log records to multiple handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, record.Level) {
			if err := handler.Handle(ctx, record); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}

// Splog prints results to out, diagnostics to errOut, and copies everything
// to an optional log file.
type Splog struct {
	logger    *slog.Logger
	out       io.Writer
	logWriter io.WriteCloser
}

// NewSplog creates a console-only Splog on stdout and stderr.
func NewSplog() *Splog {
	s, _ := NewSplogWithConfig(os.Stdout, os.Stderr, false, LogFile{})
	return s
}

// NewSplogWithConfig creates a Splog. Debug messages reach the console only
// when debug is set; the log file always gets them.
func NewSplogWithConfig(out, errOut io.Writer, debug bool, file LogFile) (*Splog, error) {
	s := &Splog{out: out}
	handlers := []slog.Handler{&consoleHandler{out: out, errOut: errOut, debug: debug}}

	if file.Path != "" {
		if err := os.MkdirAll(filepath.Dir(file.Path), 0750); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		lj := &lumberjack.Logger{
			Filename:   file.Path,
			MaxSize:    file.MaxSize,
			MaxBackups: file.MaxBackups,
			MaxAge:     file.MaxAge,
		}
		s.logWriter = lj
		handlers = append(handlers, slog.NewTextHandler(lj, &slog.HandlerOptions{
			Level: slog.LevelDebug,
			ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey {
					return slog.Attr{Key: a.Key, Value: slog.StringValue(a.Value.Time().Format("2006-01-02 15:04:05.000"))}
				}
				return a
			},
		}))
	}

	s.logger = slog.New(&multiHandler{handlers: handlers})
	return s, nil
}

func (s *Splog) log(level slog.Level, format string, args []interface{}) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	s.logger.Log(context.Background(), level, msg)
}

// Info writes a result line.
// nolint // format string validation is handled internally via fmt.Sprintf
func (s *Splog) Info(format string, args ...interface{}) {
	s.log(slog.LevelInfo, format, args)
}

// Warn writes a warning.
// nolint // format string validation is handled internally via fmt.Sprintf
func (s *Splog) Warn(format string, args ...interface{}) {
	s.log(slog.LevelWarn, WarningPrefix()+format, args)
}

// Error writes an error.
// nolint // format string validation is handled internally via fmt.Sprintf
func (s *Splog) Error(format string, args ...interface{}) {
	s.log(slog.LevelError, ErrorPrefix()+format, args)
}

// Debug writes a debug message.
// nolint // format string validation is handled internally via fmt.Sprintf
func (s *Splog) Debug(format string, args ...interface{}) {
	s.log(slog.LevelDebug, format, args)
}

// Page writes raw text to the result stream, untouched and unlogged.
func (s *Splog) Page(content string) {
	_, _ = fmt.Fprint(s.out, content)
}

// Close closes the log file if one was opened
func (s *Splog) Close() error {
	if s.logWriter != nil {
		return s.logWriter.Close()
	}
	return nil
}
