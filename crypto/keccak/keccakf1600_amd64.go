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

//go:build amd64

package keccak

import "golang.org/x/sys/cpu"

// On cores with BMI2 the compiler turns the unrolled permutation's rotates
// into RORX and keeps the whole state in registers, so prefer it there.
func init() {
	if cpu.X86.HasBMI2 {
		keccakF1600 = keccakF1600Unrolled
	}
}
