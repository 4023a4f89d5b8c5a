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

// Waveform selects the glottal source's wavetable shape.
type Waveform int

const (
	WaveformPulse Waveform = iota
	WaveformSine
)

const (
	glottalTableLength  = 512
	glottalTableModulus = glottalTableLength - 1

	glottalFirBeta   = 0.2
	glottalFirGamma  = 0.1
	glottalFirCutoff = 1e-8

	// glottalShapeEpsilon is the smallest tp/tn_min percentage accepted;
	// at or below it the rise/fall segments degenerate to zero length.
	glottalShapeEpsilon = 1e-6
)

// WavetableGlottalSource is a 2x-oversampling interpolating wavetable
// oscillator producing the glottal excitation pulse (or a plain sine
// tone). Oversampling plus the maximally-flat FIR decimator keeps
// aliasing from the table's sharp pulse edges out of the audio band.
type WavetableGlottalSource struct {
	tableDiv1       int
	tableDiv2       int
	tnLength        float32
	tnDelta         float32
	basicIncrement  float32
	currentPosition float32
	wavetable       [glottalTableLength]float32
	fir             FirFilter
}

// Init builds the wavetable for the given shape; tp, tnMin, tnMax are
// percentages of the period (rise time, minimum/maximum fall time).
func (g *WavetableGlottalSource) Init(shape Waveform, sampleRate, tp, tnMin, tnMax float32) error {
	if tnMin > tnMax {
		return &SourceError{Kind: InvalidShape, Reason: "glottal_pulse_tn_min exceeds glottal_pulse_tn_max"}
	}
	if tp <= glottalShapeEpsilon || tp >= 100 || tnMin <= glottalShapeEpsilon || tnMax <= 0 || tp+tnMax > 100 {
		return &SourceError{Kind: InvalidShape, Reason: "glottal pulse rise/fall percentages out of range"}
	}

	g.tableDiv1 = int(math32.Round(glottalTableLength * (tp / 100.0)))
	g.tableDiv2 = int(math32.Round(glottalTableLength * ((tp + tnMax) / 100.0)))
	g.tnLength = float32(g.tableDiv2 - g.tableDiv1)
	g.tnDelta = math32.Round(glottalTableLength * (tnMax - tnMin) / 100.0)
	g.basicIncrement = glottalTableLength / sampleRate
	g.currentPosition = 0

	g.fir.Init(glottalFirBeta, glottalFirGamma, glottalFirCutoff)

	switch shape {
	case WaveformPulse:
		for i := 0; i < g.tableDiv1; i++ {
			x := float32(i) / float32(g.tableDiv1)
			x2 := x * x
			x3 := x2 * x
			g.wavetable[i] = (3.0 * x2) - (2.0 * x3)
		}
		j := 0
		for i := g.tableDiv1; i < g.tableDiv2; i++ {
			x := float32(j) / g.tnLength
			g.wavetable[i] = 1.0 - x*x
			j++
		}
		for i := g.tableDiv2; i < glottalTableLength; i++ {
			g.wavetable[i] = 0.0
		}
	case WaveformSine:
		for i := 0; i < glottalTableLength; i++ {
			g.wavetable[i] = math32.Sin(float32(i) / glottalTableLength * 2.0 * math32.Pi)
		}
	default:
		return &SourceError{Kind: InvalidShape, Reason: "unknown waveform"}
	}
	return nil
}

func (g *WavetableGlottalSource) Reset() {
	g.currentPosition = 0
	g.fir.Reset()
}

// Update rewrites the falling portion of the pulse according to the
// current glottal amplitude, narrowing the closure as amplitude rises.
func (g *WavetableGlottalSource) Update(amplitude float32) {
	newDiv2 := float32(g.tableDiv2) - math32.Round(amplitude*g.tnDelta)
	invNewTnLength := 1.0 / (newDiv2 - float32(g.tableDiv1))

	x := float32(0.0)
	end := int(newDiv2)
	for i := g.tableDiv1; i < end; i++ {
		g.wavetable[i] = 1.0 - x*x
		x += invNewTnLength
	}
	for i := int(newDiv2); i < g.tableDiv2; i++ {
		g.wavetable[i] = 0.0
	}
}

func (g *WavetableGlottalSource) incrementPosition(frequency float32) {
	g.currentPosition = glottalMod0(g.currentPosition + frequency*g.basicIncrement)
}

// Sample returns one 2x-oversampled, decimated output sample for the
// given fundamental frequency.
func (g *WavetableGlottalSource) Sample(frequency float32) float32 {
	var output float32
	for i := 0; i < 2; i++ {
		g.incrementPosition(frequency / 2.0)

		lowerPosition := int(g.currentPosition)
		upperPosition := int(glottalMod0(float32(lowerPosition + 1)))

		iv := g.wavetable[lowerPosition] +
			(g.currentPosition-float32(lowerPosition))*(g.wavetable[upperPosition]-g.wavetable[lowerPosition])

		output = g.fir.Filter(iv, i == 1)
	}
	return output
}

func glottalMod0(value float32) float32 {
	if value > glottalTableModulus {
		value -= glottalTableLength
	}
	return value
}
