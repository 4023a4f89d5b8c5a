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

// Package vtm implements an articulatory vocal tract model: a digital
// waveguide synthesizer driven by a 16-parameter control frame, producing
// band-limited audio at a fixed output sample rate regardless of the
// model's internal (tube-length-derived) sample rate.
package vtm

import (
	"math"

	"github.com/go-audio/audio"
)

// MinRadius is the floor applied to every scaled region radius (param
// indices 7-14) before it reaches the waveguide: a region radius of zero
// or less is not just physically meaningless, it drives the scattering
// coefficient's (a2-b2)/(a2+b2) division in UpdateCoefficients straight
// to a division by zero.
const MinRadius = 0.01

// VtScale is the fixed scale applied to excitation signals before they
// enter the waveguide. Preserved bug-compatibly at its historical value:
// the original derivation implies 0.03125, but every shipped voice and
// control script was authored and tuned against 0.125, so correcting it
// would silently change the loudness and a good deal of the frication
// balance of every existing control track.
const VtScale = 0.125

// Model is the synthesizer façade: constructed from a Config and an
// interactive/batch mode flag, driven one control frame at a time via
// SetParameter/SetAllParameters and Step.
type Model struct {
	cfg         *Config
	interactive bool

	internalSampleRate float32
	controlPeriod      int

	frame      Frame
	deltaFrame Frame // interactive mode: per-internal-sample increment toward frame

	breathinessFactor float32
	crossmixFactor    float32

	prevGlotAmplitude float32

	glottalSource WavetableGlottalSource
	noiseSource   NoiseSource
	noiseFilter   NoiseFilter
	bandpass      BandpassFilter
	throat        Throat
	waveguide     *Waveguide
	resampler     SampleRateConverter

	// variant 5 only
	butter1 Butterworth1LowpassFilter
	butter2 Butterworth2LowpassFilter

	output []float32
}

// deriveInternalSampleRate computes the waveguide's native update rate
// from the vocal tract length, temperature-dependent speed of sound, and
// the oropharynx section count the variant/section-delay pair implies.
// Shared by New (to actually build the waveguide at this rate) and
// NewConfig (to gate variant 5's minimum-sample-rate requirement on the
// rate the model will actually run at, not the output rate).
func deriveInternalSampleRate(temperature, length, controlRate float32, oroSections int) (rate float32, period int) {
	c := SpeedOfSound(temperature)
	period = int(math.Round(float64(c*float32(oroSections)*100.0) / float64(length*controlRate)))
	if period < 1 {
		period = 1
	}
	return controlRate * float32(period), period
}

// New constructs a Model for the given configuration. interactive is
// stored on the Model, but Step holds each frame constant for the whole
// control period in either mode (see Step), so the same control track
// produces the same output in both modes.
func New(cfg *Config, interactive bool) (*Model, error) {
	m := &Model{cfg: cfg, interactive: interactive}

	oroSections := oroSectionCountFor(cfg.Variant, cfg.SectionDelay)
	m.internalSampleRate, m.controlPeriod = deriveInternalSampleRate(cfg.Temperature, cfg.VocalTractLength, cfg.ControlRate, oroSections)
	nyquist := m.internalSampleRate / 2.0

	wg, err := NewWaveguide(cfg.Variant, cfg.SectionDelay, m.internalSampleRate)
	if err != nil {
		return nil, err
	}
	m.waveguide = wg

	if cfg.Variant != Variant5 {
		mouthApertureCoef := (nyquist - cfg.MouthCoef) / nyquist
		nasalApertureCoef := (nyquist - cfg.NoseCoef) / nyquist
		wg.InitBoundaries(mouthApertureCoef, nasalApertureCoef)
	} else {
		if err := m.butter1.Update(m.internalSampleRate, cfg.ThroatCutoff); err != nil {
			return nil, err
		}
		if err := m.butter2.Update(m.internalSampleRate, cfg.ThroatCutoff); err != nil {
			return nil, err
		}
	}

	wg.InitNasalFixedCoefs(cfg.NasalRadius, cfg.ApertureRadius)
	wg.SetDampingFactor(1.0 - cfg.LossFactor/100.0)

	if err := m.glottalSource.Init(cfg.Waveform, m.internalSampleRate, cfg.Tp, cfg.TnMin, cfg.TnMax); err != nil {
		return nil, err
	}

	m.throat.Init(m.internalSampleRate, cfg.ThroatCutoff, Amplitude60dB(cfg.ThroatVol))

	m.resampler.Init(int(m.internalSampleRate), int(cfg.SampleRate), &m.output)

	m.breathinessFactor = cfg.Breathiness / 100.0
	m.crossmixFactor = 1.0 / Amplitude60dB(cfg.MixOffset)
	m.prevGlotAmplitude = -1.0

	m.Reset()
	return m, nil
}

// InternalSampleRate returns the waveguide's native update rate in Hz,
// derived from the vocal tract length and control rate.
func (m *Model) InternalSampleRate() float32 { return m.internalSampleRate }

// OutputSampleRate returns the fixed, post-resample output rate in Hz.
func (m *Model) OutputSampleRate() float32 { return m.cfg.SampleRate }

// Format describes the model's output as mono 32-bit-float PCM at the
// output sample rate.
func (m *Model) Format() *audio.Format {
	return &audio.Format{NumChannels: 1, SampleRate: int(m.cfg.SampleRate)}
}

// Reset clears all synthesizer state (delay lines, filters, the
// resampler's buffer) back to silence, without discarding the
// configuration. The model produces the same output from a fresh Step
// sequence after Reset as it did from the first Step sequence after New.
func (m *Model) Reset() {
	m.frame = Frame{}
	m.deltaFrame = Frame{}
	m.prevGlotAmplitude = -1.0

	m.glottalSource.Reset()
	m.noiseSource.Reset()
	m.noiseFilter.Reset()
	m.bandpass.Reset()
	m.throat.Reset()
	m.waveguide.Reset()
	m.resampler.Reset()
	m.butter1.Reset()
	m.butter2.Reset()

	nyquist := m.internalSampleRate / 2.0
	if m.cfg.Variant != Variant5 {
		mouthApertureCoef := (nyquist - m.cfg.MouthCoef) / nyquist
		nasalApertureCoef := (nyquist - m.cfg.NoseCoef) / nyquist
		m.waveguide.InitBoundaries(mouthApertureCoef, nasalApertureCoef)
	}
	m.waveguide.InitNasalFixedCoefs(m.cfg.NasalRadius, m.cfg.ApertureRadius)
	m.waveguide.SetDampingFactor(1.0 - m.cfg.LossFactor/100.0)

	m.output = m.output[:0]
}

// SetParameter sets one control-frame slot by index. Indices outside
// [0, NumParams) are silently ignored (a synthesizer driven by a
// streaming control source should not panic or error on a malformed
// frame, just drop it).
func (m *Model) SetParameter(idx ParamIndex, value float32) {
	if idx < 0 || idx >= NumParams {
		return
	}
	if idx >= ParamRadius1 && idx <= ParamRadius8 {
		value *= m.cfg.RadiusCoef[idx-ParamRadius1]
		if value < MinRadius {
			value = MinRadius
		}
	}
	m.frame[idx] = value
}

// SetAllParameters replaces the whole control frame at once. A values
// slice of any length other than NumParams is silently ignored, leaving
// the current frame untouched; this is equivalent to calling
// SetParameter NumParams times with a correctly-sized slice.
func (m *Model) SetAllParameters(values []float32) {
	if len(values) != int(NumParams) {
		return
	}
	for i, v := range values {
		m.SetParameter(ParamIndex(i), v)
	}
}

// Step synthesizes one control period's worth of internal samples from
// the current control frame, appending any output-rate samples the
// resampler produces as a result to the model's output buffer. The frame
// is held constant for the whole period in both modes: the interactive
// per-sample increment is taken from the current frame to itself, so it
// is zero, and Step does not interpolate between successive frames.
func (m *Model) Step() {
	period := m.controlPeriod
	cur := m.frame

	if m.interactive {
		controlFreq := 1.0 / float32(period)
		for i := range m.deltaFrame {
			m.deltaFrame[i] = (m.frame[i] - cur[i]) * controlFreq
		}
	}

	running := cur
	for i := 0; i < period; i++ {
		m.synthSignal(&running)
		if m.interactive {
			for j := range running {
				running[j] += m.deltaFrame[j]
			}
		}
	}
}

func (m *Model) synthSignal(frame *Frame) {
	f0 := Frequency(frame[ParamGlotPitch])
	ax := Amplitude60dB(frame[ParamGlotVol])
	ah1 := Amplitude60dB(frame[ParamAspVol])

	m.waveguide.UpdateCoefficients(frame, m.cfg.ApertureRadius)
	m.waveguide.SetFricationTaps(frame[ParamFricPos], Amplitude60dB(frame[ParamFricVol]))
	m.bandpass.Update(m.internalSampleRate, frame[ParamFricBw], frame[ParamFricCf])

	lpNoise := m.noiseFilter.Filter(m.noiseSource.Sample())

	if m.cfg.Waveform == WaveformPulse && ax != m.prevGlotAmplitude {
		m.glottalSource.Update(ax)
	}

	pulse := m.glottalSource.Sample(f0)
	pulsedNoise := lpNoise * pulse

	pulse = ax * (pulse*(1.0-m.breathinessFactor) + pulsedNoise*m.breathinessFactor)

	var signal float32
	if m.cfg.NoiseModulation {
		crossmix := ax * m.crossmixFactor
		if crossmix >= 1.0 {
			crossmix = 1.0
		}
		signal = pulsedNoise*crossmix + lpNoise*(1.0-crossmix)
	} else {
		signal = lpNoise
	}

	fricationSignal := m.bandpass.Filter(signal)
	if m.cfg.Variant == Variant5 {
		fricationSignal = m.butter1.Filter(m.butter2.Filter(fricationSignal))
	}

	out := m.waveguide.Step((pulse+ah1*signal)*VtScale, fricationSignal)
	out += m.throat.Process(pulse * VtScale)

	m.resampler.DataFill(out)
	m.prevGlotAmplitude = ax
}

// Finish flushes the resampler so that samples still in flight at the end
// of a synthesis run are emitted, and normalizes the accumulated output
// buffer to its peak absolute value.
func (m *Model) Finish() {
	m.resampler.Flush()
	peak := m.resampler.MaxSampleValue()
	if peak <= 0 {
		return
	}
	scale := 1.0 / peak
	for i, v := range m.output {
		m.output[i] = v * scale
	}
}

// OutputBuffer returns the samples synthesized so far, at OutputSampleRate.
func (m *Model) OutputBuffer() []float32 { return m.output }
