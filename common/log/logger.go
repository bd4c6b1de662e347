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

// Package log provides the leveled key/value logger used across the vapash
// library, in the log15 tradition.
package log

import (
	"fmt"
	"time"

	"github.com/go-stack/stack"
)

// Lvl is a log severity level. Lower is more severe.
type Lvl int

const (
	LvlCrit Lvl = iota
	LvlError
	LvlWarn
	LvlInfo
	LvlDebug
	LvlTrace
)

// AlignedString returns a 5-character aligned representation of the level.
func (l Lvl) AlignedString() string {
	switch l {
	case LvlTrace:
		return "TRACE"
	case LvlDebug:
		return "DEBUG"
	case LvlInfo:
		return "INFO "
	case LvlWarn:
		return "WARN "
	case LvlError:
		return "ERROR"
	case LvlCrit:
		return "CRIT "
	default:
		panic("bad level")
	}
}

// ParseLevel turns a level name or digit into a Lvl.
func ParseLevel(s string) (Lvl, error) {
	switch s {
	case "trace", "5":
		return LvlTrace, nil
	case "debug", "4":
		return LvlDebug, nil
	case "info", "3", "":
		return LvlInfo, nil
	case "warn", "2":
		return LvlWarn, nil
	case "error", "1":
		return LvlError, nil
	case "crit", "critical", "0":
		return LvlCrit, nil
	}
	return LvlInfo, fmt.Errorf("unknown log level %q", s)
}

// A Record is one log event as handed to handlers.
type Record struct {
	Time time.Time
	Lvl  Lvl
	Msg  string
	Ctx  []interface{}
	Call stack.Call
}

// Logger writes leveled key/value records.
type Logger interface {
	// New returns a child logger with ctx prepended to every record.
	New(ctx ...interface{}) Logger

	SetHandler(h Handler)

	Trace(msg string, ctx ...interface{})
	Debug(msg string, ctx ...interface{})
	Info(msg string, ctx ...interface{})
	Warn(msg string, ctx ...interface{})
	Error(msg string, ctx ...interface{})
	Crit(msg string, ctx ...interface{})
}

type logger struct {
	ctx []interface{}
	h   *swapHandler
}

func (l *logger) New(ctx ...interface{}) Logger {
	child := &logger{ctx: append(append([]interface{}{}, l.ctx...), normalize(ctx)...), h: new(swapHandler)}
	child.SetHandler(l.h)
	return child
}

func (l *logger) SetHandler(h Handler) {
	l.h.Swap(h)
}

func (l *logger) write(msg string, lvl Lvl, ctx []interface{}) {
	l.h.Log(&Record{
		Time: time.Now(),
		Lvl:  lvl,
		Msg:  msg,
		Ctx:  append(append([]interface{}{}, l.ctx...), normalize(ctx)...),
		Call: stack.Caller(2),
	})
}

func (l *logger) Trace(msg string, ctx ...interface{}) { l.write(msg, LvlTrace, ctx) }
func (l *logger) Debug(msg string, ctx ...interface{}) { l.write(msg, LvlDebug, ctx) }
func (l *logger) Info(msg string, ctx ...interface{})  { l.write(msg, LvlInfo, ctx) }
func (l *logger) Warn(msg string, ctx ...interface{})  { l.write(msg, LvlWarn, ctx) }
func (l *logger) Error(msg string, ctx ...interface{}) { l.write(msg, LvlError, ctx) }
func (l *logger) Crit(msg string, ctx ...interface{})  { l.write(msg, LvlCrit, ctx) }

// normalize pads odd-length contexts so formatters always see pairs.
func normalize(ctx []interface{}) []interface{} {
	if len(ctx)%2 != 0 {
		ctx = append(ctx, "LOG_VALUE_MISSING")
	}
	return ctx
}
