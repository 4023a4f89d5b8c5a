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

import (
	"math"

	"github.com/chewxy/math32"
)

const (
	rcBeta         = float32(5.658)
	rcIZeroEpsilon = 1e-21

	rcZeroCrossings = 13 // sinc zero crossings on each side of the center tap
	rcLpCutoff      = float32(11.0 / 13.0)
	rcLBits         = 8
	rcLRange        = 256
	rcMBits         = 8
	rcMRange        = 256
	rcFractionBits  = rcLBits + rcMBits
	rcFractionRange = 65536
	rcFilterLength  = rcZeroCrossings * rcLRange
	rcFilterLimit   = rcFilterLength - 1

	rcNMask        uint32 = 0xFFFF0000
	rcLMask        uint32 = 0x0000FF00
	rcMMask        uint32 = 0x000000FF
	rcFractionMask uint32 = 0x0000FFFF
	rcBufferSize          = 1024
)

func rcNValue(x uint32) uint32        { return (x & rcNMask) >> rcFractionBits }
func rcLValue(x uint32) uint32        { return (x & rcLMask) >> rcMBits }
func rcMValue(x uint32) uint32        { return x & rcMMask }
func rcFractionValue(x uint32) uint32 { return x & rcFractionMask }

// SampleRateConverter is a Kaiser-windowed polyphase sinc resampler,
// converting the model's internal (tube-length-derived) sample rate to a
// fixed output sample rate. It supports both upsampling and downsampling
// ratios.
type SampleRateConverter struct {
	sampleRateRatio  float32
	fillPtr          int32
	emptyPtr         int32
	padSize          int32
	fillSize         int32
	fillCounter      int32
	filterIncrement  uint32
	phaseIncrement   uint32
	timeRegIncrement uint32
	timeReg          uint32
	maxSampleValue   float32
	nSamples         int64

	h      [rcFilterLength]float32
	deltaH [rcFilterLength]float32
	buffer [rcBufferSize]float32

	output *[]float32
}

// Init configures the converter for sampleRate -> outputRate conversion,
// appending decimated/interpolated samples to output as they become
// available.
func (src *SampleRateConverter) Init(sampleRate int, outputRate int, output *[]float32) {
	src.output = output
	src.initConversion(sampleRate, float32(outputRate))
}

func (src *SampleRateConverter) Reset() {
	src.emptyPtr = 0
	src.timeReg = 0
	src.fillCounter = 0
	src.maxSampleValue = 0.0
	src.nSamples = 0
	src.initBuffer()
}

func (src *SampleRateConverter) initConversion(sampleRate int, outputRate float32) {
	src.initFilter()

	src.sampleRateRatio = outputRate / float32(sampleRate)

	src.timeRegIncrement = uint32(math.Round(math.Pow(2.0, float64(rcFractionBits)) / float64(src.sampleRateRatio)))
	roundedSampleRateRatio := math32.Pow(2.0, rcFractionBits) / float32(src.timeRegIncrement)

	if src.sampleRateRatio >= 1.0 {
		src.filterIncrement = rcLRange
	} else {
		src.phaseIncrement = uint32(math.Round(float64(src.sampleRateRatio) * rcFractionRange))
	}

	if src.sampleRateRatio >= 1.0 {
		src.padSize = rcZeroCrossings
	} else {
		src.padSize = int32(float32(rcZeroCrossings)/roundedSampleRateRatio) + 1
	}
	src.initBuffer()
}

func (src *SampleRateConverter) izero(x float32) float32 {
	sum := float32(1.0)
	u := float32(1.0)
	halfx := x / 2.0
	n := 1
	for {
		temp := halfx / float32(n)
		n++
		temp *= temp
		u *= temp
		sum += u
		if u < rcIZeroEpsilon*sum {
			break
		}
	}
	return sum
}

func (src *SampleRateConverter) initBuffer() {
	for i := range src.buffer {
		src.buffer[i] = 0.0
	}
	src.fillPtr = src.padSize
	src.fillSize = rcBufferSize - (2 * src.padSize)
}

func (src *SampleRateConverter) initFilter() {
	src.h[0] = rcLpCutoff
	x := math32.Pi / float32(rcLRange)

	for i := 1; i < rcFilterLength; i++ {
		y := float32(i) * x
		src.h[i] = math32.Sin(y*rcLpCutoff) / y
	}

	iBeta := 1.0 / src.izero(rcBeta)
	for i := 0; i < rcFilterLength; i++ {
		temp := float32(i) / float32(rcFilterLength)
		src.h[i] *= src.izero(rcBeta*math32.Sqrt(1.0-temp*temp)) * iBeta
	}

	for i := 0; i < rcFilterLimit; i++ {
		src.deltaH[i] = src.h[i+1] - src.h[i]
	}
	src.deltaH[rcFilterLimit] = 0.0 - src.h[rcFilterLimit]
}

// DataFill pushes one input-rate sample into the ring buffer, converting
// and emitting output-rate samples whenever the buffer fills.
func (src *SampleRateConverter) DataFill(data float32) {
	src.buffer[src.fillPtr] = data
	rcIncrement(&src.fillPtr, rcBufferSize)
	src.fillCounter++
	if src.fillCounter >= src.fillSize {
		src.dataEmpty()
		src.fillCounter = 0
	}
}

func (src *SampleRateConverter) dataEmpty() {
	endPtr := src.fillPtr - src.padSize
	if endPtr < 0 {
		endPtr += rcBufferSize
	}
	if endPtr < src.emptyPtr {
		endPtr += rcBufferSize
	}

	if src.sampleRateRatio >= 1.0 {
		src.upsample(endPtr)
	} else {
		src.downsample(endPtr)
	}
}

func (src *SampleRateConverter) upsample(endPtr int32) {
	for src.emptyPtr < endPtr {
		var output float32
		interpolation := float32(rcMValue(src.timeReg)) / float32(rcMRange)

		index := src.emptyPtr
		for fidx := rcLValue(src.timeReg); fidx < rcFilterLength; fidx += src.filterIncrement {
			rcDecrement(&index, rcBufferSize)
			output += src.buffer[index] * (src.h[fidx] + src.deltaH[fidx]*interpolation)
		}

		src.timeReg = ^src.timeReg
		interpolation = float32(rcMValue(src.timeReg)) / float32(rcMRange)

		index = src.emptyPtr
		rcIncrement(&index, rcBufferSize)
		for fidx := rcLValue(src.timeReg); fidx < rcFilterLength; fidx += src.filterIncrement {
			rcDecrement(&index, rcBufferSize)
			output += src.buffer[index] * (src.h[fidx] + src.deltaH[fidx]*interpolation)
		}

		src.recordSample(output)

		src.timeReg = ^src.timeReg
		src.timeReg += src.timeRegIncrement

		src.emptyPtr += int32(rcNValue(src.timeReg))
		if src.emptyPtr >= rcBufferSize {
			src.emptyPtr -= rcBufferSize
			endPtr -= rcBufferSize
		}
		src.timeReg &= ^rcNMask
	}
}

func (src *SampleRateConverter) downsample(endPtr int32) {
	for src.emptyPtr < endPtr {
		var output float32

		phaseIndex := uint32(math.Round(float64(rcFractionValue(src.timeReg)) * float64(src.sampleRateRatio)))

		index := src.emptyPtr
		for {
			impulseIndex := phaseIndex >> rcMBits
			if impulseIndex >= rcFilterLength {
				break
			}
			impulse := src.h[impulseIndex] + src.deltaH[impulseIndex]*(float32(rcMValue(phaseIndex))/float32(rcMRange))
			output += src.buffer[index] * impulse
			rcDecrement(&index, rcBufferSize)
			phaseIndex += src.phaseIncrement
		}

		phaseIndex = uint32(math.Round(float64(rcFractionValue(^src.timeReg)) * float64(src.sampleRateRatio)))

		index = src.emptyPtr
		rcIncrement(&index, rcBufferSize)
		for {
			impulseIndex := phaseIndex >> rcMBits
			if impulseIndex >= rcFilterLength {
				break
			}
			impulse := src.h[impulseIndex] + src.deltaH[impulseIndex]*(float32(rcMValue(phaseIndex))/float32(rcMRange))
			output += src.buffer[index] * impulse
			rcIncrement(&index, rcBufferSize)
			phaseIndex += src.phaseIncrement
		}

		// the stretched filter spans 1/ratio more input samples per zero
		// crossing; scale back to unity passband gain
		output *= src.sampleRateRatio

		src.recordSample(output)

		src.timeReg += src.timeRegIncrement

		src.emptyPtr += int32(rcNValue(src.timeReg))
		if src.emptyPtr >= rcBufferSize {
			src.emptyPtr -= rcBufferSize
			endPtr -= rcBufferSize
		}
		src.timeReg &= ^rcNMask
	}
}

func (src *SampleRateConverter) recordSample(output float32) {
	absoluteSampleValue := math32.Abs(output)
	if absoluteSampleValue > src.maxSampleValue {
		src.maxSampleValue = absoluteSampleValue
	}
	src.nSamples++
	*src.output = append(*src.output, output)
}

// MaxSampleValue returns the largest-magnitude sample produced so far,
// used to normalize the final output amplitude.
func (src *SampleRateConverter) MaxSampleValue() float32 {
	return src.maxSampleValue
}

// Flush pads the buffer with enough trailing silence to drain every
// sample still in flight, and converts what remains.
func (src *SampleRateConverter) Flush() {
	for i := 0; i < int(src.padSize*2); i++ {
		src.DataFill(0.0)
	}
	src.dataEmpty()
}

func rcIncrement(pos *int32, modulus int32) {
	*pos++
	if *pos >= modulus {
		*pos -= modulus
	}
}

func rcDecrement(pos *int32, modulus int32) {
	*pos--
	if *pos < 0 {
		*pos += modulus
	}
}
