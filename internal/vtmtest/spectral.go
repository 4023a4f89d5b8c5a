// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vtmtest provides spectral-analysis helpers for exercising the
// vocal tract model's end-to-end synthesis scenarios: finding dominant
// frequency peaks and computing the spectral centroid of a signal, using
// gonum's FFT implementation.
package vtmtest

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// magnitudeSpectrum returns the magnitude of each FFT bin (0 through
// Nyquist, n/2+1 bins) of a Hann-windowed copy of samples.
func magnitudeSpectrum(samples []float32, sampleRate float64) []float64 {
	n := len(samples)
	windowed := make([]float64, n)
	for i, s := range samples {
		w := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
		windowed[i] = float64(s) * w
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, windowed)

	mags := make([]float64, len(coeffs))
	for i, c := range coeffs {
		mags[i] = math.Hypot(real(c), imag(c))
	}
	return mags
}

// binFrequency converts an FFT bin index to Hz.
func binFrequency(bin, n int, sampleRate float64) float64 {
	return float64(bin) * sampleRate / float64(n)
}

// DominantPeaks returns up to count frequencies (Hz), sorted descending by
// magnitude, found among the local maxima of samples' magnitude spectrum
// below the Nyquist frequency.
func DominantPeaks(samples []float32, sampleRate float64, count int) []float64 {
	mags := magnitudeSpectrum(samples, sampleRate)
	n := len(samples)
	half := len(mags)

	type peak struct {
		freq float64
		mag  float64
	}
	var peaks []peak
	for i := 1; i < half-1; i++ {
		if mags[i] > mags[i-1] && mags[i] >= mags[i+1] {
			peaks = append(peaks, peak{binFrequency(i, n, sampleRate), mags[i]})
		}
	}

	// simple selection of the `count` largest peaks
	var result []float64
	for len(result) < count && len(peaks) > 0 {
		best := 0
		for i, p := range peaks {
			if p.mag > peaks[best].mag {
				best = i
			}
		}
		result = append(result, peaks[best].freq)
		peaks = append(peaks[:best], peaks[best+1:]...)
	}
	return result
}

// SpectralCentroid returns the magnitude-weighted mean frequency (Hz) of
// samples.
func SpectralCentroid(samples []float32, sampleRate float64) float64 {
	mags := magnitudeSpectrum(samples, sampleRate)
	n := len(samples)
	half := len(mags)

	var num, den float64
	for i := 0; i < half; i++ {
		f := binFrequency(i, n, sampleRate)
		num += f * mags[i]
		den += mags[i]
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// ClosestPeak returns the element of peaks nearest to target (Hz).
func ClosestPeak(peaks []float64, target float64) float64 {
	if len(peaks) == 0 {
		return 0
	}
	best := peaks[0]
	bestDist := math.Abs(best - target)
	for _, p := range peaks[1:] {
		if d := math.Abs(p - target); d < bestDist {
			best, bestDist = p, d
		}
	}
	return best
}
