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
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

// Handler consumes log records. Handlers compose: filters wrap sinks.
type Handler interface {
	Log(r *Record) error
}

// FuncHandler adapts a plain function to the Handler interface.
func FuncHandler(fn func(r *Record) error) Handler {
	return funcHandler(fn)
}

type funcHandler func(r *Record) error

func (h funcHandler) Log(r *Record) error { return h(r) }

// StreamHandler writes formatted records to w, serializing writes so
// concurrent loggers do not interleave.
func StreamHandler(w io.Writer, fmtr Format) Handler {
	var mu sync.Mutex
	return FuncHandler(func(r *Record) error {
		mu.Lock()
		defer mu.Unlock()
		_, err := w.Write(fmtr.Format(r))
		return err
	})
}

// LvlFilterHandler drops records less severe than maxLvl before passing the
// rest to h.
func LvlFilterHandler(maxLvl Lvl, h Handler) Handler {
	return FuncHandler(func(r *Record) error {
		if r.Lvl > maxLvl {
			return nil
		}
		return h.Log(r)
	})
}

// CallerFileHandler appends the file:line of the call site to the record
// context before passing it on.
func CallerFileHandler(h Handler) Handler {
	return FuncHandler(func(r *Record) error {
		r.Ctx = append(r.Ctx, "caller", fmt.Sprint(r.Call))
		return h.Log(r)
	})
}

// DiscardHandler drops everything. Useful for silencing tests.
func DiscardHandler() Handler {
	return FuncHandler(func(r *Record) error { return nil })
}

// swapHandler lets a logger's handler be replaced while other goroutines
// are logging through it.
type swapHandler struct {
	handler atomic.Value
}

func (h *swapHandler) Log(r *Record) error {
	if v := h.handler.Load(); v != nil {
		return (*v.(*Handler)).Log(r)
	}
	return nil
}

func (h *swapHandler) Swap(newHandler Handler) {
	h.handler.Store(&newHandler)
}
