/*
Copyright 2011-2025 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package logging builds the module's single leveled logger: a thin,
// package-level wrapper in the same spirit as kanzi-go's app.Printer,
// backed by log/slog instead of a bare io.Writer, with color and
// optional file rotation layered on top.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures New.
type Options struct {
	// Quiet raises the minimum level to error, matching the CLI's
	// -quiet flag. It never touches progress.Listener notifications,
	// which are a separate reporting path.
	Quiet bool
	// LogFile, if set, mirrors output to a rotated file via lumberjack
	// in addition to the terminal; terminal output is not turned off.
	LogFile string
}

// New builds a *slog.Logger writing to stdout, colorized only when
// stdout is a real terminal (checked with go-isatty before wrapping it
// with go-colorable), and additionally to a rotating file when
// opts.LogFile is set.
func New(opts Options) *slog.Logger {
	level := slog.LevelInfo
	if opts.Quiet {
		level = slog.LevelError
	}

	var out io.Writer
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		out = colorable.NewColorableStdout()
	} else {
		out = os.Stdout
	}

	if opts.LogFile != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.LogFile,
			MaxSize:    100, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		out = io.MultiWriter(out, rotator)
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
