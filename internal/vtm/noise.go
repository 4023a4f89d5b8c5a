// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/***************************************************************************
 *  Copyright 1991, 1992, 1993, 1994, 1995, 1996, 2001, 2002               *
 *    David R. Hill, Leonard Manzara, Craig Schock                         *
 *                                                                         *
 *  This program is free software: you can redistribute it and/or modify   *
 *  it under the terms of the GNU General Public License as published by   *
 *  the Free Software Foundation, either version 3 of the License, or      *
 *  (at your option) any later version.                                    *
 *                                                                         *
 *  This program is distributed in the hope that it will be useful,        *
 *  but WITHOUT ANY WARRANTY; without even the implied warranty of         *
 *  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the          *
 *  GNU General Public License for more details.                           *
 *                                                                         *
 *  You should have received a copy of the GNU General Public License      *
 *  along with this program.  If not, see <http://www.gnu.org/licenses/>.  *
 ***************************************************************************/

package vtm

import "math"

const (
	noiseFactor      = 377.0
	noiseInitialSeed = 0.7892347
)

// NoiseSource is a multiplicative-congruential pseudo-random generator,
// used both as the raw frication excitation and as the seed for the
// noise-shaping filter ahead of it.
type NoiseSource struct {
	seed float32
}

// Reset restores the initial seed.
func (ns *NoiseSource) Reset() {
	ns.seed = noiseInitialSeed
}

// Sample returns the next value in (-0.5, 0.5).
func (ns *NoiseSource) Sample() float32 {
	product := float64(ns.seed) * noiseFactor
	ns.seed = float32(product - math.Trunc(product))
	return ns.seed - 0.5
}
