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

import "github.com/chewxy/math32"

// ParamIndex names the 16 slots of a control frame.
type ParamIndex int

const (
	ParamGlotPitch ParamIndex = iota
	ParamGlotVol
	ParamAspVol
	ParamFricVol
	ParamFricPos
	ParamFricCf
	ParamFricBw
	ParamRadius1
	ParamRadius2
	ParamRadius3
	ParamRadius4
	ParamRadius5
	ParamRadius6
	ParamRadius7
	ParamRadius8
	ParamVelum
	NumParams
)

// Frame is one 16-float control vector, sampled at the model's control rate.
type Frame [NumParams]float32

// Radius returns radii 1-8 (1-based, matching the tube-region indexing used
// by the scattering junction coefficients); index 0 is a fixed boundary
// value, mirroring the historical (&radius_2)[idx-1] C++ aliasing trick.
func (f *Frame) Radius(region int) float32 {
	if region <= 0 {
		return 0.8
	}
	return f[ParamRadius1+ParamIndex(region-1)]
}

// VolMax is the dB range over which Amplitude60dB saturates to [0,1].
const VolMax = 60.0

// Amplitude60dB converts a dB level to a linear amplitude in [0,1],
// saturating outside a 60dB window below full scale.
func Amplitude60dB(decibelLevel float32) float32 {
	decibelLevel -= VolMax
	if decibelLevel <= -VolMax {
		return 0
	}
	if decibelLevel >= 0.0 {
		return 1.0
	}
	return math32.Pow(10.0, decibelLevel/20.0)
}

const (
	pitchBase   = 220.0
	pitchOffset = 3.0
)

// Frequency converts a pitch value (0 = middle C) to Hz.
func Frequency(pitch float32) float32 {
	return pitchBase * math32.Pow(2.0, (pitch+pitchOffset)/12.0)
}

// SpeedOfSound returns the speed of sound in m/s for a given Celsius
// temperature.
func SpeedOfSound(tempCelsius float32) float32 {
	return 331.4 + 0.6*tempCelsius
}
