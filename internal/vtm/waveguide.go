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

// Variant selects one of the four waveguide formulations named in the
// original Tube Resonance Model sources. Variants 0 and 2 share the
// 10-oropharynx/6-nasal-section topology and pressure (alpha-weight)
// scattering; variant 0 additionally fixes its per-section delay at
// exactly 1 sample, while variant 2 allows a configurable section delay.
// Variant 4 widens the tube to 30 oropharynx / 18 nasal sections, still
// pressure-formulation. Variant 5 shares variant 4's 30-section
// oropharynx but widens the nasal tract further to 21 sections, and
// replaces pressure scattering with a flow (c-weight) formulation and a
// pole-zero radiation boundary in place of the reflection/radiation
// filter pair.
type Variant int

const (
	Variant0 Variant = iota
	Variant2
	Variant4
	Variant5
)

const (
	portTop = iota
	portBottom
)

const (
	junctionLeft = iota
	junctionRight
	junctionUpper
	junctionCount
)

const oroCoefCount = 8   // C1..C8: the eight R1..R8/aperture region boundaries
const nasalCoefCount = 6 // C1..C6: five inter-region boundaries plus the aperture

// pairKind values of 0 and above index oroCoefs/nasCoefs directly
// (0..oroCoefCount-2 for the oropharynx, 0..nasalCoefCount-2 for the
// nasal tract); pairPureDelay and pairVelumJunction are sentinels.
const (
	pairPureDelay     = -1
	pairVelumJunction = -2
)

// topology describes the section layout a Variant implies: how many
// physical delay-line sections each of the 8 oropharynx regions (and 6
// nasal regions) spans, the per-section delay-line length, whether
// scattering uses the pressure or flow formulation, and where frication
// is injected. Region boundaries carry the user-settable radius
// coefficients (always 8 oropharynx, always 6 nasal); a region spanning
// more than one section is internally just a chain of plain delays
// between its boundary junctions.
type topology struct {
	oroRegionSections   [8]int
	nasalRegionSections [6]int
	oroSectionCount     int
	nasalSectionCount   int
	sectionDelay        int
	flowJunction        bool
	fricationBase       int
	fricationCount      int
}

// newTopology builds the section layout for variant, with sectionDelay
// internal delay-line slots per physical section (clamped to at least 1;
// variant 0's original topology is always exactly 1 regardless of the
// requested delay, matching its fixed historical per-section length).
func newTopology(variant Variant, sectionDelay int) topology {
	if sectionDelay < 1 {
		sectionDelay = 1
	}
	t := topology{sectionDelay: sectionDelay}
	switch variant {
	case Variant0:
		t.sectionDelay = 1
		t.oroRegionSections = [8]int{1, 1, 1, 2, 2, 1, 1, 1}
		t.nasalRegionSections = [6]int{1, 1, 1, 1, 1, 1}
		t.fricationBase, t.fricationCount = 2, 8
	case Variant2:
		t.oroRegionSections = [8]int{1, 1, 1, 2, 2, 1, 1, 1}
		t.nasalRegionSections = [6]int{1, 1, 1, 1, 1, 1}
		t.fricationBase, t.fricationCount = 2, 8
	case Variant4:
		t.oroRegionSections = [8]int{3, 2, 4, 6, 6, 4, 2, 3}
		t.nasalRegionSections = splitNasalRegions(18)
		t.fricationBase, t.fricationCount = 5, 23
	default: // Variant5
		t.flowJunction = true
		t.oroRegionSections = [8]int{3, 2, 4, 6, 6, 4, 2, 3}
		t.nasalRegionSections = splitNasalRegions(21)
		t.fricationBase, t.fricationCount = 5, 23
	}
	for _, n := range t.oroRegionSections {
		t.oroSectionCount += n
	}
	for _, n := range t.nasalRegionSections {
		t.nasalSectionCount += n
	}
	return t
}

// splitNasalRegions divides total physical nasal sections across the 6
// nasal regions. Region 0 (the velum tap feeding the 3-way junction) is
// always exactly one section; the rest is spread as evenly as possible
// across regions 1-5.
func splitNasalRegions(total int) [6]int {
	var out [6]int
	out[0] = 1
	rest := total - 1
	base, rem := rest/5, rest%5
	for i := 1; i < 6; i++ {
		out[i] = base
		if i-1 < rem {
			out[i]++
		}
	}
	return out
}

// regionBounds returns, for a list of per-region section counts, the
// [start, end) section-index range each region occupies.
func regionBounds(sections []int) (starts, ends []int) {
	starts = make([]int, len(sections))
	ends = make([]int, len(sections))
	pos := 0
	for i, n := range sections {
		starts[i] = pos
		pos += n
		ends[i] = pos
	}
	return
}

// oroSectionCountFor is a cheap query into the topology a (variant,
// sectionDelay) pair implies, used by model.go and config.go to derive
// the internal sample rate without constructing a full Waveguide.
func oroSectionCountFor(variant Variant, sectionDelay int) int {
	return newTopology(variant, sectionDelay).oroSectionCount
}

// Waveguide is the scattering-junction transmission-line network: a
// chain of bidirectional delay lines representing the oropharynx, a
// 3-way junction splitting off a nasal side-branch at the velum, and
// radiation/reflection boundaries at the mouth and nose apertures. Its
// section count, per-section delay, and junction formula are all driven
// by the topology a Variant selects, rather than hard-coded.
type Waveguide struct {
	topo topology

	oro          [][2][]float32 // [section][port][ring slot]
	oroCoefs     [oroCoefCount]float32
	oroRegionEnd []int
	oroPairKind  []int
	velumPair    int

	nasal         [][2][]float32
	nasCoefs      [nasalCoefCount]float32
	nasalPairKind []int

	alpha   [junctionCount]float32 // pressure-formulation junction weights
	cWeight [junctionCount]float32 // flow-formulation junction weights (variant 5)

	ringLen       int
	inPtr, outPtr int

	dampingFactor float32

	fricationTap []float32

	nasalS2Radius float32 // fixed voice radius of nasal region 1, paired against the per-frame velum radius for the velum junction

	mouthRadiation  RadiationFilter
	mouthReflection ReflectionFilter
	nasalRadiation  RadiationFilter
	nasalReflection ReflectionFilter

	// variant 5 only
	mouthImpedance *PoleZeroRadiationImpedance
	nasalImpedance *PoleZeroRadiationImpedance
	outputDiff     DifferenceFilter
}

// NewWaveguide constructs a waveguide for the given variant and
// per-section delay-line length. sampleRate is required (and validated)
// only for variant 5, whose pole-zero radiation impedance needs a
// minimum sample rate.
func NewWaveguide(variant Variant, sectionDelay int, sampleRate float32) (*Waveguide, error) {
	topo := newTopology(variant, sectionDelay)
	w := &Waveguide{topo: topo}
	w.ringLen = topo.sectionDelay + 1
	w.inPtr, w.outPtr = 0, 1

	w.oro = make([][2][]float32, topo.oroSectionCount)
	for i := range w.oro {
		w.oro[i][portTop] = make([]float32, w.ringLen)
		w.oro[i][portBottom] = make([]float32, w.ringLen)
	}
	_, oroRegionEnd := regionBounds(topo.oroRegionSections[:])
	w.oroRegionEnd = oroRegionEnd
	w.oroPairKind = make([]int, topo.oroSectionCount-1)
	for i := range w.oroPairKind {
		w.oroPairKind[i] = pairPureDelay
	}
	for idx := 0; idx < 7; idx++ {
		w.oroPairKind[oroRegionEnd[idx]-1] = idx
	}
	oroRegionStart, _ := regionBounds(topo.oroRegionSections[:])
	w.velumPair = oroRegionStart[3] + topo.oroRegionSections[3]/2 - 1
	w.oroPairKind[w.velumPair] = pairVelumJunction

	w.nasal = make([][2][]float32, topo.nasalSectionCount)
	for i := range w.nasal {
		w.nasal[i][portTop] = make([]float32, w.ringLen)
		w.nasal[i][portBottom] = make([]float32, w.ringLen)
	}
	_, nasalRegionEnd := regionBounds(topo.nasalRegionSections[:])
	w.nasalPairKind = make([]int, topo.nasalSectionCount-1)
	for i := range w.nasalPairKind {
		w.nasalPairKind[i] = pairPureDelay
	}
	for idx := 0; idx < 5; idx++ {
		w.nasalPairKind[nasalRegionEnd[idx]-1] = idx
	}

	w.fricationTap = make([]float32, topo.fricationCount)

	if variant == Variant5 {
		mi, err := NewPoleZeroRadiationImpedance(sampleRate)
		if err != nil {
			return nil, err
		}
		ni, err := NewPoleZeroRadiationImpedance(sampleRate)
		if err != nil {
			return nil, err
		}
		w.mouthImpedance = mi
		w.nasalImpedance = ni
	}
	return w, nil
}

// InitBoundaries sets up the mouth/nose radiation and reflection filters
// (pressure-formulation variants) from aperture coefficients derived as
// (nyquist-cutoffHz)/nyquist.
func (w *Waveguide) InitBoundaries(mouthApertureCoef, nasalApertureCoef float32) {
	w.mouthRadiation.Init(mouthApertureCoef)
	w.mouthReflection.Init(mouthApertureCoef)
	w.nasalRadiation.Init(nasalApertureCoef)
	w.nasalReflection.Init(nasalApertureCoef)
}

// Reset clears all delay-line state and filter memory, without
// discarding the topology the waveguide was constructed with. It also
// zeroes the scattering coefficients, frication taps and damping factor;
// InitNasalFixedCoefs, UpdateCoefficients and SetDampingFactor set them
// again.
func (w *Waveguide) Reset() {
	for _, sec := range w.oro {
		for p := 0; p < 2; p++ {
			for i := range sec[p] {
				sec[p][i] = 0
			}
		}
	}
	for _, sec := range w.nasal {
		for p := 0; p < 2; p++ {
			for i := range sec[p] {
				sec[p][i] = 0
			}
		}
	}
	w.oroCoefs = [oroCoefCount]float32{}
	w.nasCoefs = [nasalCoefCount]float32{}
	w.alpha = [junctionCount]float32{}
	w.cWeight = [junctionCount]float32{}
	for i := range w.fricationTap {
		w.fricationTap[i] = 0
	}
	w.inPtr, w.outPtr = 0, 1
	w.dampingFactor = 0
	w.mouthRadiation.Reset()
	w.mouthReflection.Reset()
	w.nasalRadiation.Reset()
	w.nasalReflection.Reset()
	w.outputDiff.Reset()
	if w.mouthImpedance != nil {
		w.mouthImpedance.Reset()
	}
	if w.nasalImpedance != nil {
		w.nasalImpedance.Reset()
	}
}

// SetDampingFactor sets the per-section loss factor (1 - loss/100).
func (w *Waveguide) SetDampingFactor(d float32) {
	w.dampingFactor = d
}

// InitNasalFixedCoefs computes the nasal tract's internal scattering
// coefficients that stay fixed per voice (everything except the velum
// junction, which depends on the per-frame velum radius): the region1-2,
// 2-3, 3-4 and 4-5 boundaries, plus the nose aperture (radiation)
// coefficient. noseRadii is indexed 1..5 over nasal regions (0 unused;
// the velum opening is a per-frame value, not fixed).
func (w *Waveguide) InitNasalFixedCoefs(noseRadii [6]float32, apertureRadius float32) {
	w.nasalS2Radius = noseRadii[1]
	for i := 1; i < 4; i++ {
		a2 := noseRadii[i] * noseRadii[i]
		b2 := noseRadii[i+1] * noseRadii[i+1]
		w.nasCoefs[i] = (a2 - b2) / (a2 + b2)
	}
	a2 := noseRadii[4] * noseRadii[4]
	b2 := noseRadii[5] * noseRadii[5]
	w.nasCoefs[4] = (a2 - b2) / (a2 + b2)

	a2 = noseRadii[5] * noseRadii[5]
	b2 = apertureRadius * apertureRadius
	w.nasCoefs[5] = (a2 - b2) / (a2 + b2)
}

// UpdateCoefficients recomputes the per-control-frame scattering
// coefficients: the 8 oropharynx region boundaries, the 3-way velum
// junction weights (pressure alphas or, for variant 5, flow c-weights),
// and the velum-to-nasal coefficient.
func (w *Waveguide) UpdateCoefficients(frame *Frame, apertureRadius float32) {
	for i := 0; i < 7; i++ {
		a2 := frame.Radius(i + 1)
		a2 *= a2
		b2 := frame.Radius(i + 2)
		b2 *= b2
		w.oroCoefs[i] = (a2 - b2) / (a2 + b2)
	}

	a2 := frame.Radius(8)
	a2 *= a2
	b2 := apertureRadius * apertureRadius
	w.oroCoefs[7] = (a2 - b2) / (a2 + b2)

	r0r1 := frame.Radius(4)
	r0r1 *= r0r1
	r2 := frame[ParamVelum] * frame[ParamVelum]
	if w.topo.flowJunction {
		c := 1.0 / (r0r1 + r0r1 + r2)
		w.cWeight[junctionLeft] = c * -r2
		w.cWeight[junctionRight] = c * -r2
		w.cWeight[junctionUpper] = c * (r2 - r0r1 - r0r1)
	} else {
		sum := 2.0 / (r0r1 + r0r1 + r2)
		w.alpha[junctionLeft] = sum * r0r1
		w.alpha[junctionRight] = sum * r0r1
		w.alpha[junctionUpper] = sum * r2
	}

	velum2 := frame[ParamVelum] * frame[ParamVelum]
	n2 := w.nasalS2Radius * w.nasalS2Radius
	w.nasCoefs[0] = (velum2 - n2) / (velum2 + n2)
}

// SetFricationTaps splits the fricative amplitude across the two nearest
// of the variant's designated injection points, by fractional position.
func (w *Waveguide) SetFricationTaps(position, amplitude float32) {
	n := len(w.fricationTap)
	integerPart := int(position)
	complement := position - float32(integerPart)
	remainder := 1.0 - complement

	for i := range w.fricationTap {
		w.fricationTap[i] = 0.0
	}
	if integerPart >= 0 && integerPart < n {
		w.fricationTap[integerPart] = remainder * amplitude
		if integerPart+1 < n {
			w.fricationTap[integerPart+1] = complement * amplitude
		}
	}
}

// stepVelumJunction applies the 3-way scattering junction between the
// oropharynx sections straddling the velum and the nasal tract's first
// (velum) section, in either pressure or flow formulation.
func (w *Waveguide) stepVelumJunction(left, right int, tap, d float32, in, out int) {
	if w.topo.flowJunction {
		sum := w.oro[left][portTop][out] + w.oro[right][portBottom][out] + w.nasal[0][portBottom][out]
		w.oro[left][portBottom][in] = (w.oro[right][portBottom][out] + w.nasal[0][portBottom][out] + w.cWeight[junctionLeft]*sum) * d
		w.oro[right][portTop][in] = (w.oro[left][portTop][out]+w.nasal[0][portBottom][out]+w.cWeight[junctionRight]*sum)*d + tap
		w.nasal[0][portTop][in] = (w.oro[left][portTop][out] + w.oro[right][portBottom][out] + w.cWeight[junctionUpper]*sum) * d
		return
	}
	jp := w.alpha[junctionLeft]*w.oro[left][portTop][out] +
		w.alpha[junctionRight]*w.oro[right][portBottom][out] +
		w.alpha[junctionUpper]*w.nasal[0][portBottom][out]
	w.oro[left][portBottom][in] = (jp - w.oro[left][portTop][out]) * d
	w.oro[right][portTop][in] = (jp-w.oro[right][portBottom][out])*d + tap
	w.nasal[0][portTop][in] = (jp - w.nasal[0][portBottom][out]) * d
}

// Step advances the waveguide by one internal sample, injecting input at
// the glottal end and frication at the designated taps, and returns the
// summed mouth+nose output.
func (w *Waveguide) Step(input, frication float32) float32 {
	w.inPtr, w.outPtr = w.outPtr, w.outPtr+1
	if w.outPtr == w.ringLen {
		w.outPtr = 0
	}
	in, out := w.inPtr, w.outPtr
	d := w.dampingFactor

	w.oro[0][portTop][in] = w.oro[0][portBottom][out]*d + input

	for i := 0; i < len(w.oroPairKind); i++ {
		left, right := i, i+1
		tapIdx := right - w.topo.fricationBase
		var tap float32
		if tapIdx >= 0 && tapIdx < len(w.fricationTap) {
			tap = w.fricationTap[tapIdx] * frication
		}

		switch kind := w.oroPairKind[i]; kind {
		case pairPureDelay:
			w.oro[right][portTop][in] = w.oro[left][portTop][out]*d + tap
			w.oro[left][portBottom][in] = w.oro[right][portBottom][out] * d
		case pairVelumJunction:
			w.stepVelumJunction(left, right, tap, d, in, out)
		default:
			coef := w.oroCoefs[kind]
			if w.topo.flowJunction {
				delta := coef * (w.oro[left][portTop][out] + w.oro[right][portBottom][out])
				w.oro[right][portTop][in] = (w.oro[left][portTop][out]-delta)*d + tap
				w.oro[left][portBottom][in] = (w.oro[right][portBottom][out] + delta) * d
			} else {
				delta := coef * (w.oro[left][portTop][out] - w.oro[right][portBottom][out])
				w.oro[right][portTop][in] = (w.oro[left][portTop][out]+delta)*d + tap
				w.oro[left][portBottom][in] = (w.oro[right][portBottom][out] + delta) * d
			}
		}
	}

	lastOro := w.topo.oroSectionCount - 1
	var output float32
	if w.topo.flowJunction {
		outT, outR := w.mouthImpedance.Process(w.oro[lastOro][portTop][out])
		w.oro[lastOro][portBottom][in] = outR * d
		output = w.outputDiff.Filter(outT)
	} else {
		w.oro[lastOro][portBottom][in] = d * w.mouthReflection.Filter(w.oroCoefs[7]*w.oro[lastOro][portTop][out])
		output = w.mouthRadiation.Filter((1.0 + w.oroCoefs[7]) * w.oro[lastOro][portTop][out])
	}

	for i := 0; i < len(w.nasalPairKind); i++ {
		left, right := i, i+1
		switch kind := w.nasalPairKind[i]; kind {
		case pairPureDelay:
			w.nasal[right][portTop][in] = w.nasal[left][portTop][out] * d
			w.nasal[left][portBottom][in] = w.nasal[right][portBottom][out] * d
		default:
			coef := w.nasCoefs[kind]
			if w.topo.flowJunction {
				delta := coef * (w.nasal[left][portTop][out] + w.nasal[right][portBottom][out])
				w.nasal[right][portTop][in] = (w.nasal[left][portTop][out] - delta) * d
				w.nasal[left][portBottom][in] = (w.nasal[right][portBottom][out] + delta) * d
			} else {
				delta := coef * (w.nasal[left][portTop][out] - w.nasal[right][portBottom][out])
				w.nasal[right][portTop][in] = (w.nasal[left][portTop][out] + delta) * d
				w.nasal[left][portBottom][in] = (w.nasal[right][portBottom][out] + delta) * d
			}
		}
	}

	lastNasal := w.topo.nasalSectionCount - 1
	if w.topo.flowJunction {
		outT, outR := w.nasalImpedance.Process(w.nasal[lastNasal][portTop][out])
		w.nasal[lastNasal][portBottom][in] = outR * d
		output += outT
	} else {
		w.nasal[lastNasal][portBottom][in] = d * w.nasalReflection.Filter(w.nasCoefs[5]*w.nasal[lastNasal][portTop][out])
		output += w.nasalRadiation.Filter((1.0 + w.nasCoefs[5]) * w.nasal[lastNasal][portTop][out])
	}

	return output
}
