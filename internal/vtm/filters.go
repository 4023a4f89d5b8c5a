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

// RadiationFilter is a variable one-zero, one-pole highpass filter whose
// cutoff is set by an aperture coefficient. Used at the mouth and nose
// boundaries of the pressure-formulation waveguide variants.
type RadiationFilter struct {
	a2, b2 float32
	x1, y1 float32
}

func (f *RadiationFilter) Init(apertureCoef float32) {
	f.a2 = apertureCoef
	f.b2 = -apertureCoef
	f.x1, f.y1 = 0, 0
}

func (f *RadiationFilter) Reset() {
	f.x1, f.y1 = 0, 0
}

func (f *RadiationFilter) Filter(input float32) float32 {
	output := f.a2*input - f.a2*f.x1 - f.b2*f.y1
	f.x1 = input
	f.y1 = output
	return output
}

// ReflectionFilter is a one-pole lowpass filter complementing
// RadiationFilter at the same boundary.
type ReflectionFilter struct {
	a0, b1 float32
	y1     float32
}

func (f *ReflectionFilter) Init(apertureCoef float32) {
	f.b1 = -apertureCoef
	f.a0 = 1.0 - math32.Abs(f.b1)
	f.y1 = 0
}

func (f *ReflectionFilter) Reset() {
	f.y1 = 0
}

func (f *ReflectionFilter) Filter(input float32) float32 {
	output := f.a0*input - f.b1*f.y1
	f.y1 = output
	return output
}

// Throat models sound radiating directly through the throat walls: a
// one-pole lowpass followed by a fixed gain.
type Throat struct {
	gain   float32
	a0, b1 float32
	y1     float32
}

func (t *Throat) Init(sampleRate, cutoff, gain float32) {
	t.gain = gain
	t.a0 = (cutoff * 2.0) / sampleRate
	t.b1 = 1.0 - t.a0
}

func (t *Throat) Reset() {
	t.y1 = 0
}

func (t *Throat) Process(input float32) float32 {
	output := t.a0*input + t.b1*t.y1
	t.y1 = output
	return output * t.gain
}

// NoiseFilter is a one-zero lowpass used to shape raw frication noise
// before it's split across the injection taps.
type NoiseFilter struct {
	x1 float32
}

func (f *NoiseFilter) Reset() {
	f.x1 = 0
}

func (f *NoiseFilter) Filter(input float32) float32 {
	output := input + f.x1
	f.x1 = input
	return output
}

// BandpassFilter is the frication bandpass, with center frequency and
// bandwidth recomputed whenever the control frame changes.
type BandpassFilter struct {
	alpha, beta, gamma float32
	x1, x2             float32
	y1, y2             float32
}

func (f *BandpassFilter) Reset() {
	f.x1, f.x2, f.y1, f.y2 = 0, 0, 0, 0
}

func (f *BandpassFilter) Update(sampleRate, bandwidth, centerFreq float32) {
	tanValue := math32.Tan((math32.Pi * bandwidth) / sampleRate)
	cosValue := math32.Cos((2.0 * math32.Pi * centerFreq) / sampleRate)
	f.beta = (1.0 - tanValue) / (2.0 * (1.0 + tanValue))
	f.gamma = (0.5 + f.beta) * cosValue
	f.alpha = (0.5 - f.beta) / 2.0
}

func (f *BandpassFilter) Filter(input float32) float32 {
	output := 2.0 * (f.alpha*(input-f.x2) + f.gamma*f.y1 - f.beta*f.y2)
	f.x2 = f.x1
	f.x1 = input
	f.y2 = f.y1
	f.y1 = output
	return output
}

// DifferenceFilter is a central-difference filter: y[n] = x[n] - x[n-2].
// Used as the variant-5 output differentiator (flow -> pressure-like
// signal for the final mix).
type DifferenceFilter struct {
	x1, x2 float32
}

func (f *DifferenceFilter) Reset() {
	f.x1, f.x2 = 0, 0
}

func (f *DifferenceFilter) Filter(input float32) float32 {
	output := input - f.x2
	f.x2 = f.x1
	f.x1 = input
	return output
}

const (
	butterworthMinFreq     = 1.0
	butterworthMaxFreqCoef = 0.48
)

// Butterworth1LowpassFilter is a 1st-order bilinear-transform Butterworth
// lowpass, used in variant 5's noise shaping path.
type Butterworth1LowpassFilter struct {
	b0, a1 float32
	x1, y1 float32
}

func (f *Butterworth1LowpassFilter) Reset() {
	f.x1, f.y1 = 0, 0
}

func (f *Butterworth1LowpassFilter) Update(sampleRate, cutoffFreq float32) error {
	if cutoffFreq < butterworthMinFreq || cutoffFreq > sampleRate*butterworthMaxFreqCoef {
		return &FilterError{Kind: CutoffOutOfRange, SampleRate: sampleRate, Cutoff: cutoffFreq}
	}
	wcT := 2.0 * math32.Tan(math32.Pi*cutoffFreq/sampleRate)
	c1 := 1.0 / (wcT + 2.0)
	f.b0 = c1 * wcT
	f.a1 = c1 * (wcT - 2.0)
	return nil
}

func (f *Butterworth1LowpassFilter) Filter(input float32) float32 {
	output := f.b0*(input+f.x1) - f.a1*f.y1
	f.x1 = input
	f.y1 = output
	return output
}

// Butterworth2LowpassFilter is a 2nd-order bilinear-transform Butterworth
// lowpass, used in variant 5's noise shaping path.
type Butterworth2LowpassFilter struct {
	b0, b1, a1, a2 float32
	x1, x2         float32
	y1, y2         float32
}

func (f *Butterworth2LowpassFilter) Reset() {
	f.x1, f.x2, f.y1, f.y2 = 0, 0, 0, 0
}

func (f *Butterworth2LowpassFilter) Update(sampleRate, cutoffFreq float32) error {
	if cutoffFreq < butterworthMinFreq || cutoffFreq > sampleRate*butterworthMaxFreqCoef {
		return &FilterError{Kind: CutoffOutOfRange, SampleRate: sampleRate, Cutoff: cutoffFreq}
	}
	wcT := 2.0 * math32.Tan(math32.Pi*cutoffFreq/sampleRate)
	wc2T2 := wcT * wcT
	c1 := 2.0 * math32.Sqrt(2.0) * wcT
	c2 := 1.0 / (wc2T2 + c1 + 4.0)
	f.b0 = c2 * wc2T2
	f.b1 = 2.0 * f.b0
	f.a1 = c2 * (2.0*wc2T2 - 8.0)
	f.a2 = c2 * (wc2T2 - c1 + 4.0)
	return nil
}

func (f *Butterworth2LowpassFilter) Filter(input float32) float32 {
	output := f.b0*(input+f.x2) + f.b1*f.x1 - f.a1*f.y1 - f.a2*f.y2
	f.x2 = f.x1
	f.x1 = input
	f.y2 = f.y1
	f.y1 = output
	return output
}
