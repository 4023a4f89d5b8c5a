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

const firLimit = 200

// FirFilter is a Herrmann maximally-flat linear-phase lowpass FIR, used to
// band-limit the 2x-oversampled glottal oscillator before decimation.
type FirFilter struct {
	ptr   int
	nTaps int
	data  []float32
	coef  []float32
}

// Init designs the filter: beta is the transition-band center (as a
// fraction of the sample rate), gamma the transition-band width, and
// cutoff the coefficient-trimming threshold.
func (ff *FirFilter) Init(beta, gamma, cutoff float32) {
	coefficients := make([]float32, firLimit+1)
	nCoefficients := len(coefficients)

	maximallyFlat(beta, gamma, &nCoefficients, coefficients)
	trimCoefficients(cutoff, &nCoefficients, coefficients)

	ff.nTaps = (nCoefficients * 2) - 1
	ff.data = make([]float32, ff.nTaps)
	ff.coef = make([]float32, ff.nTaps)

	increment := -1
	p := nCoefficients
	for i := 0; i < ff.nTaps; i++ {
		ff.coef[i] = coefficients[p]
		p += increment
		if p <= 0 {
			p = 2
			increment = 1
		}
	}
	ff.ptr = 0
}

func (ff *FirFilter) Reset() {
	for i := range ff.data {
		ff.data[i] = 0.0
	}
	ff.ptr = 0
}

// Filter convolves one more input sample into the circular tap buffer.
// needOutput is false on the interpolated (discarded) half of a 2x
// oversampling pair; the tap buffer still advances either way.
func (ff *FirFilter) Filter(input float32, needOutput bool) float32 {
	if !needOutput {
		ff.data[ff.ptr] = input
		ff.ptr = firDecrement(ff.ptr, ff.nTaps)
		return 0.0
	}

	var output float32
	ff.data[ff.ptr] = input
	for i := 0; i < ff.nTaps; i++ {
		output += ff.data[ff.ptr] * ff.coef[i]
		ff.ptr = firIncrement(ff.ptr, ff.nTaps)
	}
	ff.ptr = firDecrement(ff.ptr, ff.nTaps)
	return output
}

func firIncrement(ptr, modulus int) int {
	ptr++
	if ptr >= modulus {
		return 0
	}
	return ptr
}

func firDecrement(ptr, modulus int) int {
	ptr--
	if ptr < 0 {
		return modulus - 1
	}
	return ptr
}

// maximallyFlat computes the ideal lowpass coefficients via the Herrmann
// rational-approximation design procedure.
func maximallyFlat(beta, gamma float32, np *int, coefficients []float32) {
	a := make([]float32, firLimit+1)
	c := make([]float32, firLimit+1)

	*np = 0

	if beta <= 0.0 || beta >= 0.5 {
		return
	}

	betaMin := 2.0 * beta
	if alt := 1.0 - 2.0*beta; alt < betaMin {
		betaMin = alt
	}
	if gamma <= 0.0 || gamma >= betaMin {
		return
	}

	nt := int(1.0 / (4.0 * gamma * gamma))
	if nt > 160 {
		return
	}

	ac := (1.0 + math32.Cos((2.0*math32.Pi)*beta)) / 2.0
	var numerator int
	approximate(ac, &nt, &numerator, np)

	n := (2 * (*np)) - 1
	if numerator == 0 {
		numerator = 1
	}

	a[1] = 1.0
	c[1] = 1.0
	ll := nt - numerator

	for i := 2; i <= *np; i++ {
		var sum float32 = 1.0
		c[i] = math32.Cos((2.0 * math32.Pi) * (float32(i-1) / float32(n)))
		x := (1.0 - c[i]) / 2.0
		y := x

		if numerator == nt {
			continue
		}

		for j := 1; j <= ll; j++ {
			z := y
			if numerator != 1 {
				for jj := 1; jj <= numerator-1; jj++ {
					z *= 1.0 + float32(j)/float32(jj)
				}
			}
			y *= x
			sum += z
		}
		a[i] = sum * math32.Pow(1.0-x, float32(numerator))
	}

	for i := 1; i <= *np; i++ {
		coefficients[i] = a[1] / 2.0
		for j := 2; j <= *np; j++ {
			m := ((i - 1) * (j - 1)) % n
			if m > nt {
				m = n - m
			}
			coefficients[i] += c[m+1] * a[j]
		}
		coefficients[i] *= 2.0 / float32(n)
	}
}

// trimCoefficients drops the high-order coefficients that fall below cutoff.
func trimCoefficients(cutoff float32, nCoefficients *int, coefficients []float32) {
	for i := *nCoefficients; i > 0; i-- {
		if math32.Abs(coefficients[i]) >= math32.Abs(cutoff) {
			*nCoefficients = i
			return
		}
	}
}

// approximate finds the best rational approximation number ~= numerator/denominator
// with denominator bounded by 2*order (clamped to firLimit).
func approximate(number float32, order, numerator, denominator *int) {
	minimumError := float32(1.0)
	modulus := 0

	if *order <= 0 {
		*numerator = 0
		*denominator = 0
		*order = -1
		return
	}

	fractionalPart := math32.Abs(number - float32(int(number)))

	orderMaximum := 2 * (*order)
	if orderMaximum > firLimit {
		orderMaximum = firLimit
	}

	for i := *order; i <= orderMaximum; i++ {
		ps := float32(i) * fractionalPart
		ip := int(ps + 0.5)
		errv := math32.Abs((ps - float32(ip)) / float32(i))
		if errv < minimumError {
			minimumError = errv
			modulus = ip
			*denominator = i
		}
	}

	*numerator = int(math32.Abs(number))*(*denominator) + modulus
	if number < 0 {
		*numerator *= -1
	}

	*order = *denominator - 1

	if *numerator == *denominator {
		*denominator = orderMaximum
		*numerator = *denominator - 1
		*order = *numerator
	}
}
