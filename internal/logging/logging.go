// SPDX-License-Identifier: MPL-2.0

// Package logging builds the process logger and carries it through contexts.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/log"
)

const (
	// FormatText is the human-readable, colored format.
	FormatText Format = "text"
	// FormatJSON emits one JSON object per line.
	FormatJSON Format = "json"
	// FormatLogfmt emits key=value lines.
	FormatLogfmt Format = "logfmt"

	prefix = "winpkg"
)

// ErrInvalidFormat is returned when a Format value is not recognized.
var ErrInvalidFormat = errors.New("invalid log format")

type (
	// Format selects the log line encoding.
	Format string

	// Options configures New.
	Options struct {
		// Level is one of debug, info, warn, error. Empty means warn.
		Level string
		// Format defaults to FormatText.
		Format Format
		// Verbose lowers the level to debug regardless of Level.
		Verbose bool
	}
)

// IsValid returns whether the Format is one of the defined formats.
func (f Format) IsValid() (bool, []error) {
	switch f {
	case FormatText, FormatJSON, FormatLogfmt, "":
		return true, nil
	default:
		return false, []error{fmt.Errorf("%w %q (valid: text, json, logfmt)", ErrInvalidFormat, string(f))}
	}
}

// New returns a logger writing to w.
func New(w io.Writer, opts Options) (*log.Logger, error) {
	level := log.WarnLevel
	if opts.Level != "" {
		parsed, err := log.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		level = parsed
	}
	if opts.Verbose {
		level = log.DebugLevel
	}

	if ok, errs := opts.Format.IsValid(); !ok {
		return nil, errs[0]
	}
	formatter := log.TextFormatter
	switch opts.Format {
	case FormatJSON:
		formatter = log.JSONFormatter
	case FormatLogfmt:
		formatter = log.LogfmtFormatter
	}

	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		Formatter:       formatter,
		ReportTimestamp: opts.Format != "" && opts.Format != FormatText,
	}), nil
}

// Install makes logger the default for both charmbracelet/log and log/slog.
func Install(logger *log.Logger) {
	log.SetDefault(logger)
	slog.SetDefault(slog.New(logger))
}

// WithContext returns a copy of ctx carrying logger.
func WithContext(ctx context.Context, logger *log.Logger) context.Context {
	return log.WithContext(ctx, logger)
}

// FromContext returns the logger in ctx, or the default logger.
func FromContext(ctx context.Context) *log.Logger {
	return log.FromContext(ctx)
}

// Discard returns a logger that drops everything, for tests.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
