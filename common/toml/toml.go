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

// Package toml pins the TOML codec behind one import site.
package toml

import (
	"io"

	"github.com/BurntSushi/toml"
)

func Marshal(v any) ([]byte, error) {
	return toml.Marshal(v)
}

func Unmarshal(data []byte, ptr any) error {
	return toml.Unmarshal(data, ptr)
}

func DecodeFile(path string, ptr any) error {
	_, err := toml.DecodeFile(path, ptr)
	return err
}

func NewDecoder(r io.Reader) *toml.Decoder {
	return toml.NewDecoder(r)
}

func NewEncoder(w io.Writer) *toml.Encoder {
	return toml.NewEncoder(w)
}
