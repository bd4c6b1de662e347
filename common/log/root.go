// Copyright 2018 The vapash Authors
// This file is part of the vapash library.
//
// The vapash library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The vapash library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the vapash library. If not, see <http://www.gnu.org/licenses/>.

package log

import (
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"gitlab.com/vapory/vapash/common/sense"
)

var (
	// StderrHandler is the default destination: terminal format with color
	// when stderr is a tty, logfmt otherwise, filtered by LOGLEVEL.
	StderrHandler = newRootHandler()

	root = newRoot(StderrHandler)
)

func newRootHandler() Handler {
	usecolor := isatty.IsTerminal(os.Stderr.Fd()) && sense.EnvOr("TERM", "") != "dumb"

	var output io.Writer = os.Stderr
	fmtr := LogfmtFormat()
	if usecolor {
		output = colorable.NewColorableStderr()
		fmtr = TerminalFormat(true)
	}
	return LvlFilterHandler(LevelFromEnv(), StreamHandler(output, fmtr))
}

// LevelFromEnv reads the root verbosity from LOGLEVEL (or LOGLVL), falling
// back to info.
func LevelFromEnv() Lvl {
	s := sense.Getenv("LOGLEVEL")
	if s == "" {
		s = sense.Getenv("LOGLVL")
	}
	lvl, err := ParseLevel(s)
	if err != nil {
		return LvlInfo
	}
	return lvl
}

func newRoot(h Handler) *logger {
	l := &logger{ctx: []interface{}{}, h: new(swapHandler)}
	l.SetHandler(h)
	return l
}

// Root returns the root logger.
func Root() Logger {
	return root
}

// SetRootHandler replaces the handler of the root logger and of every logger
// derived from it.
func SetRootHandler(h Handler) {
	root.SetHandler(h)
}

// New returns a new logger with the given context, a convenient alias for
// Root().New.
func New(ctx ...interface{}) Logger {
	return root.New(ctx...)
}

// The following functions bypass the exported logger methods to keep the
// call depth the same for all paths to logger.write, so the caller
// annotation always refers to the call site in client code.

// Trace is a convenient alias for Root().Trace
func Trace(msg string, ctx ...interface{}) {
	root.write(msg, LvlTrace, ctx)
}

// Debug is a convenient alias for Root().Debug
func Debug(msg string, ctx ...interface{}) {
	root.write(msg, LvlDebug, ctx)
}

// Info is a convenient alias for Root().Info
func Info(msg string, ctx ...interface{}) {
	root.write(msg, LvlInfo, ctx)
}

// Warn is a convenient alias for Root().Warn
func Warn(msg string, ctx ...interface{}) {
	root.write(msg, LvlWarn, ctx)
}

// Error is a convenient alias for Root().Error
func Error(msg string, ctx ...interface{}) {
	root.write(msg, LvlError, ctx)
}

// Crit logs and then terminates the process.
func Crit(msg string, ctx ...interface{}) {
	root.write(msg, LvlCrit, ctx)
	os.Exit(1)
}
