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

package keccak

import "math/bits"

// keccakF1600Unrolled processes two rounds per loop iteration with every
// lane held in a local, following the "simple" implementation by Ronny Van
// Keer from the Keccak team's reference code. Bit identical to the generic
// variant; preferred on cores where the extra register pressure pays off.
func keccakF1600Unrolled(a *[25]uint64) {
	var (
		eba, ebe, ebi, ebo, ebu uint64
		ega, ege, egi, ego, egu uint64
		eka, eke, eki, eko, eku uint64
		ema, eme, emi, emo, emu uint64
		esa, ese, esi, eso, esu uint64

		ba, be, bi, bo, bu uint64
		da, de, di, do, du uint64
	)

	for n := 0; n < 24; n += 2 {
		// Round n: a -> e

		ba = a[0] ^ a[5] ^ a[10] ^ a[15] ^ a[20]
		be = a[1] ^ a[6] ^ a[11] ^ a[16] ^ a[21]
		bi = a[2] ^ a[7] ^ a[12] ^ a[17] ^ a[22]
		bo = a[3] ^ a[8] ^ a[13] ^ a[18] ^ a[23]
		bu = a[4] ^ a[9] ^ a[14] ^ a[19] ^ a[24]

		da = bu ^ bits.RotateLeft64(be, 1)
		de = ba ^ bits.RotateLeft64(bi, 1)
		di = be ^ bits.RotateLeft64(bo, 1)
		do = bi ^ bits.RotateLeft64(bu, 1)
		du = bo ^ bits.RotateLeft64(ba, 1)

		ba = a[0] ^ da
		be = bits.RotateLeft64(a[6]^de, 44)
		bi = bits.RotateLeft64(a[12]^di, 43)
		bo = bits.RotateLeft64(a[18]^do, 21)
		bu = bits.RotateLeft64(a[24]^du, 14)
		eba = ba ^ (^be & bi) ^ roundConstants[n]
		ebe = be ^ (^bi & bo)
		ebi = bi ^ (^bo & bu)
		ebo = bo ^ (^bu & ba)
		ebu = bu ^ (^ba & be)

		ba = bits.RotateLeft64(a[3]^do, 28)
		be = bits.RotateLeft64(a[9]^du, 20)
		bi = bits.RotateLeft64(a[10]^da, 3)
		bo = bits.RotateLeft64(a[16]^de, 45)
		bu = bits.RotateLeft64(a[22]^di, 61)
		ega = ba ^ (^be & bi)
		ege = be ^ (^bi & bo)
		egi = bi ^ (^bo & bu)
		ego = bo ^ (^bu & ba)
		egu = bu ^ (^ba & be)

		ba = bits.RotateLeft64(a[1]^de, 1)
		be = bits.RotateLeft64(a[7]^di, 6)
		bi = bits.RotateLeft64(a[13]^do, 25)
		bo = bits.RotateLeft64(a[19]^du, 8)
		bu = bits.RotateLeft64(a[20]^da, 18)
		eka = ba ^ (^be & bi)
		eke = be ^ (^bi & bo)
		eki = bi ^ (^bo & bu)
		eko = bo ^ (^bu & ba)
		eku = bu ^ (^ba & be)

		ba = bits.RotateLeft64(a[4]^du, 27)
		be = bits.RotateLeft64(a[5]^da, 36)
		bi = bits.RotateLeft64(a[11]^de, 10)
		bo = bits.RotateLeft64(a[17]^di, 15)
		bu = bits.RotateLeft64(a[23]^do, 56)
		ema = ba ^ (^be & bi)
		eme = be ^ (^bi & bo)
		emi = bi ^ (^bo & bu)
		emo = bo ^ (^bu & ba)
		emu = bu ^ (^ba & be)

		ba = bits.RotateLeft64(a[2]^di, 62)
		be = bits.RotateLeft64(a[8]^do, 55)
		bi = bits.RotateLeft64(a[14]^du, 39)
		bo = bits.RotateLeft64(a[15]^da, 41)
		bu = bits.RotateLeft64(a[21]^de, 2)
		esa = ba ^ (^be & bi)
		ese = be ^ (^bi & bo)
		esi = bi ^ (^bo & bu)
		eso = bo ^ (^bu & ba)
		esu = bu ^ (^ba & be)

		// Round n+1: e -> a

		ba = eba ^ ega ^ eka ^ ema ^ esa
		be = ebe ^ ege ^ eke ^ eme ^ ese
		bi = ebi ^ egi ^ eki ^ emi ^ esi
		bo = ebo ^ ego ^ eko ^ emo ^ eso
		bu = ebu ^ egu ^ eku ^ emu ^ esu

		da = bu ^ bits.RotateLeft64(be, 1)
		de = ba ^ bits.RotateLeft64(bi, 1)
		di = be ^ bits.RotateLeft64(bo, 1)
		do = bi ^ bits.RotateLeft64(bu, 1)
		du = bo ^ bits.RotateLeft64(ba, 1)

		ba = eba ^ da
		be = bits.RotateLeft64(ege^de, 44)
		bi = bits.RotateLeft64(eki^di, 43)
		bo = bits.RotateLeft64(emo^do, 21)
		bu = bits.RotateLeft64(esu^du, 14)
		a[0] = ba ^ (^be & bi) ^ roundConstants[n+1]
		a[1] = be ^ (^bi & bo)
		a[2] = bi ^ (^bo & bu)
		a[3] = bo ^ (^bu & ba)
		a[4] = bu ^ (^ba & be)

		ba = bits.RotateLeft64(ebo^do, 28)
		be = bits.RotateLeft64(egu^du, 20)
		bi = bits.RotateLeft64(eka^da, 3)
		bo = bits.RotateLeft64(eme^de, 45)
		bu = bits.RotateLeft64(esi^di, 61)
		a[5] = ba ^ (^be & bi)
		a[6] = be ^ (^bi & bo)
		a[7] = bi ^ (^bo & bu)
		a[8] = bo ^ (^bu & ba)
		a[9] = bu ^ (^ba & be)

		ba = bits.RotateLeft64(ebe^de, 1)
		be = bits.RotateLeft64(egi^di, 6)
		bi = bits.RotateLeft64(eko^do, 25)
		bo = bits.RotateLeft64(emu^du, 8)
		bu = bits.RotateLeft64(esa^da, 18)
		a[10] = ba ^ (^be & bi)
		a[11] = be ^ (^bi & bo)
		a[12] = bi ^ (^bo & bu)
		a[13] = bo ^ (^bu & ba)
		a[14] = bu ^ (^ba & be)

		ba = bits.RotateLeft64(ebu^du, 27)
		be = bits.RotateLeft64(ega^da, 36)
		bi = bits.RotateLeft64(eke^de, 10)
		bo = bits.RotateLeft64(emi^di, 15)
		bu = bits.RotateLeft64(eso^do, 56)
		a[15] = ba ^ (^be & bi)
		a[16] = be ^ (^bi & bo)
		a[17] = bi ^ (^bo & bu)
		a[18] = bo ^ (^bu & ba)
		a[19] = bu ^ (^ba & be)

		ba = bits.RotateLeft64(ebi^di, 62)
		be = bits.RotateLeft64(ego^do, 55)
		bi = bits.RotateLeft64(eku^du, 39)
		bo = bits.RotateLeft64(ema^da, 41)
		bu = bits.RotateLeft64(ese^de, 2)
		a[20] = ba ^ (^be & bi)
		a[21] = be ^ (^bi & bo)
		a[22] = bi ^ (^bo & bu)
		a[23] = bo ^ (^bu & ba)
		a[24] = bu ^ (^ba & be)
	}
}
