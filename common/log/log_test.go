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
	"strings"
	"testing"
)

func collect(records *[]*Record) Handler {
	return FuncHandler(func(r *Record) error {
		*records = append(*records, r)
		return nil
	})
}

func TestLvlFilter(t *testing.T) {
	var records []*Record
	l := New()
	l.SetHandler(LvlFilterHandler(LvlWarn, collect(&records)))

	l.Info("dropped")
	l.Warn("kept", "k", 1)
	l.Error("kept too")

	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Msg != "kept" || records[1].Msg != "kept too" {
		t.Fatalf("wrong records captured: %v", records)
	}
}

func TestChildContext(t *testing.T) {
	var records []*Record
	l := New("epoch", 7)
	l.SetHandler(collect(&records))

	l.Info("hello", "items", 262139)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	ctx := records[0].Ctx
	if len(ctx) != 4 || ctx[0] != "epoch" || ctx[2] != "items" {
		t.Fatalf("unexpected context: %v", ctx)
	}
}

func TestLogfmtOutput(t *testing.T) {
	r := &Record{Lvl: LvlInfo, Msg: "building", Ctx: []interface{}{"epoch", 0, "path", "with space"}}
	line := string(LogfmtFormat().Format(r))
	if !strings.Contains(line, "epoch=0") {
		t.Fatalf("missing pair in %q", line)
	}
	if !strings.Contains(line, `path="with space"`) {
		t.Fatalf("value not escaped in %q", line)
	}
	if !strings.HasSuffix(line, "\n") {
		t.Fatalf("line not terminated: %q", line)
	}
}

func TestNormalizeOddContext(t *testing.T) {
	var records []*Record
	l := New()
	l.SetHandler(collect(&records))
	l.Info("odd", "dangling")
	if len(records[0].Ctx)%2 != 0 {
		t.Fatalf("context not normalized: %v", records[0].Ctx)
	}
}
