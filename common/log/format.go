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
	"bytes"
	"fmt"
	"strings"

	"github.com/fatih/color"
)

const (
	timeFormat     = "01-02|15:04:05.000"
	termMsgJust    = 40
	errorKey       = "LOG_ERROR"
	maxValueLength = 256
)

// Format turns records into bytes for a stream handler.
type Format interface {
	Format(r *Record) []byte
}

// FormatFunc adapts a function to the Format interface.
func FormatFunc(f func(*Record) []byte) Format {
	return formatFunc(f)
}

type formatFunc func(*Record) []byte

func (f formatFunc) Format(r *Record) []byte { return f(r) }

var lvlColors = map[Lvl]*color.Color{
	LvlCrit:  color.New(color.FgMagenta, color.Bold),
	LvlError: color.New(color.FgRed),
	LvlWarn:  color.New(color.FgYellow),
	LvlInfo:  color.New(color.FgGreen),
	LvlDebug: color.New(color.FgCyan),
	LvlTrace: color.New(color.FgWhite, color.Faint),
}

// TerminalFormat renders records for humans:
//
//	INFO [05-04|12:10:42.581] Built light cache                        epoch=0 elapsed=1.241s
//
// with the level tinted when usecolor is set.
func TerminalFormat(usecolor bool) Format {
	return FormatFunc(func(r *Record) []byte {
		b := &bytes.Buffer{}
		lvl := r.Lvl.AlignedString()
		if usecolor {
			lvl = lvlColors[r.Lvl].Sprint(lvl)
		}
		fmt.Fprintf(b, "%s[%s] %s ", lvl, r.Time.Format(timeFormat), r.Msg)

		// Justify short messages so the context columns line up.
		if len(r.Msg) < termMsgJust {
			b.Write(bytes.Repeat([]byte{' '}, termMsgJust-len(r.Msg)))
		}
		logfmt(b, r.Ctx, usecolor, r.Lvl)
		return b.Bytes()
	})
}

// LogfmtFormat prints records in logfmt key=value form, one per line.
func LogfmtFormat() Format {
	return FormatFunc(func(r *Record) []byte {
		b := &bytes.Buffer{}
		ctx := append([]interface{}{"t", r.Time.Format(timeFormat), "lvl", strings.TrimSpace(r.Lvl.AlignedString()), "msg", r.Msg}, r.Ctx...)
		logfmt(b, ctx, false, r.Lvl)
		return b.Bytes()
	})
}

func logfmt(buf *bytes.Buffer, ctx []interface{}, usecolor bool, lvl Lvl) {
	for i := 0; i < len(ctx); i += 2 {
		if i != 0 {
			buf.WriteByte(' ')
		}
		k, ok := ctx[i].(string)
		v := formatLogfmtValue(ctx[i+1])
		if !ok {
			k, v = errorKey, formatLogfmtValue(ctx[i])
		}
		if usecolor {
			fmt.Fprintf(buf, "%s=%s", lvlColors[lvl].Sprint(k), v)
		} else {
			fmt.Fprintf(buf, "%s=%s", k, v)
		}
	}
	buf.WriteByte('\n')
}

func formatLogfmtValue(value interface{}) string {
	if value == nil {
		return "nil"
	}
	var s string
	switch v := value.(type) {
	case error:
		s = v.Error()
	case fmt.Stringer:
		s = v.String()
	case float32, float64:
		s = fmt.Sprintf("%.3f", v)
	default:
		s = fmt.Sprintf("%+v", value)
	}
	if len(s) > maxValueLength {
		s = s[:maxValueLength] + "..."
	}
	return escapeString(s)
}

func escapeString(s string) string {
	if !strings.ContainsAny(s, "\\\"\n\r\t= ") {
		return s
	}
	return fmt.Sprintf("%q", s)
}
