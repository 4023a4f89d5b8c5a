// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/***************************************************************************
 *  Copyright 2017 Marcelo Y. Matuda                                       *
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

const (
	impedanceTransitionRadius = 0.5e-2
	// MinImpedanceSampleRate is the lowest sample rate at which the
	// pole-zero radiation impedance (variant 5's flow-formulation
	// boundary) stays numerically well behaved.
	MinImpedanceSampleRate = 50000.0
)

// PoleZeroRadiationImpedance models the radiation impedance at a circular
// aperture (mouth or nose) in the flow-formulation (variant 5) waveguide,
// as a one-pole-one-zero transmission/reflection pair:
//
//	Zr = (d*c/A) * a * (1-z^-1) / (1-b*z^-1)
//
// a and b are solved per aperture radius from a reference circular-piston
// impedance; coefficients are fixed between Update calls that repeat the
// same radius.
type PoleZeroRadiationImpedance struct {
	samplePeriod      float32
	in1, outT1, outR1 float32
	cT1, cT2, cT3     float32
	cR1, cR2, cR3     float32
	prevRadius        float32
}

// NewPoleZeroRadiationImpedance constructs the impedance model for the
// given sample rate, which must be at least MinImpedanceSampleRate.
func NewPoleZeroRadiationImpedance(sampleRate float32) (*PoleZeroRadiationImpedance, error) {
	if sampleRate < MinImpedanceSampleRate {
		return nil, &ImpedanceError{Kind: SampleRateTooLow, SampleRate: sampleRate}
	}
	p := &PoleZeroRadiationImpedance{samplePeriod: 1.0 / sampleRate}
	p.Reset()
	return p, nil
}

func (p *PoleZeroRadiationImpedance) Reset() {
	p.in1, p.outT1, p.outR1 = 0, 0, 0
	p.prevRadius = -1.0
}

func transitionFrequency(radius float32) float32 {
	if radius < impedanceTransitionRadius {
		radius = impedanceTransitionRadius
	}
	return 62.3371/radius + 320.204
}

// Update recomputes the filter coefficients for a new aperture radius (in
// meters); it's a no-op when the radius hasn't changed since the last call.
func (p *PoleZeroRadiationImpedance) Update(radius float32) {
	if radius == p.prevRadius {
		return
	}
	p.prevRadius = radius

	transFreq := transitionFrequency(radius)
	cosWT := math32.Cos(2.0 * math32.Pi * transFreq * p.samplePeriod)

	qa := 2.0 * cosWT
	qb := -2.0 * (cosWT + 1.0)
	qc := cosWT + 1.0
	delta := qb*qb - 4.0*qa*qc
	a := (-qb - math32.Sqrt(delta)) / (2.0 * qa)
	b := 2.0*a - 1.0

	if radius < impedanceTransitionRadius {
		a *= 40391.2 * (radius * radius)
	}

	coef := 1.0 / (a + 1.0)
	aPlusB := a + b

	p.cT1 = aPlusB * coef
	p.cT2 = 2.0 * coef
	p.cT3 = -2.0 * b * coef

	p.cR1 = aPlusB * coef
	p.cR2 = (a - 1.0) * coef
	p.cR3 = (b - a) * coef
}

// Process splits an incoming flow sample into transmitted and reflected
// flow components.
func (p *PoleZeroRadiationImpedance) Process(in float32) (outT, outR float32) {
	outT = p.cT1*p.outT1 + p.cT2*in + p.cT3*p.in1
	outR = p.cR1*p.outR1 + p.cR2*in + p.cR3*p.in1

	p.in1 = in
	p.outT1 = outT
	p.outR1 = outR
	return outT, outR
}
