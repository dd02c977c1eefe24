// go-sensorlink
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-sensorlink.
//
// go-sensorlink is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-sensorlink is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-sensorlink; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package sensorlink

// Seed is the 3-byte scrambler seed carried in clear in every frame header.
// Seed[0] holds the low bits of the shift register and Seed[2] the high bits.
type Seed [3]byte

// DefaultSeed is the seed both roles stamp on outgoing frames.
var DefaultSeed = Seed{0x01, 0x23, 0x45}

const (
	lfsrMask = 0xFFFFFF
	tapLow   = 18
	tapHigh  = 23
)

func (s Seed) register() uint32 {
	return uint32(s[0]) | uint32(s[1])<<8 | uint32(s[2])<<16
}

// Scramble whitens src with a 24-bit self-synchronizing LFSR seeded from seed.
// Bits are processed most significant first and the scrambled bit is fed back
// into the register. The result has the same length as src.
func Scramble(src []byte, seed Seed) []byte {
	return transform(src, seed, true)
}

// Descramble reverses Scramble. The received bit is fed back into the
// register, which keeps the pair in step for any seed.
func Descramble(src []byte, seed Seed) []byte {
	return transform(src, seed, false)
}

func transform(src []byte, seed Seed, scrambling bool) []byte {
	reg := seed.register()
	out := make([]byte, len(src))
	for i, in := range src {
		var acc byte
		for bit := 7; bit >= 0; bit-- {
			inBit := uint32(in>>uint(bit)) & 1
			feedback := (reg>>tapLow ^ reg>>tapHigh) & 1
			outBit := inBit ^ feedback

			shifted := outBit
			if !scrambling {
				shifted = inBit
			}
			reg = (reg<<1 | shifted) & lfsrMask

			acc = acc<<1 | byte(outBit)
		}
		out[i] = acc
	}
	return out
}
