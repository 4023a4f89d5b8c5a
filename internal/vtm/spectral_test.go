package vtm

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/gotrm/vtm/internal/vtmtest"
)

// settle runs frames control periods then returns the model's output so
// far, trimmed to drop the onset transient before spectral analysis.
func settle(t *testing.T, m *Model, frame []float32, periods int) []float32 {
	t.Helper()
	runFrames(m, frame, periods)
	m.Finish()
	out := m.OutputBuffer()
	if len(out) < 2048 {
		t.Fatalf("too few samples for spectral analysis: %d", len(out))
	}
	return out[len(out)-2048:]
}

// TestVoicedVowelFormants is scenario E2: a steady, wide-open vocal tract
// excited by voicing only should show energy concentrated in the low
// formant region characteristic of an open vowel, well below the
// fricative-noise band exercised by E3.
func TestVoicedVowelFormants(t *testing.T) {
	m := newTestModel(t, false)
	out := settle(t, m, e2Frame(), 400)

	centroid := vtmtest.SpectralCentroid(out, float64(m.OutputSampleRate()))
	if centroid <= 0 || centroid > 3000 {
		t.Errorf("voiced vowel spectral centroid = %.1f Hz, want in (0,3000]", centroid)
	}

	peaks := vtmtest.DominantPeaks(out, float64(m.OutputSampleRate()), 5)
	if len(peaks) == 0 {
		t.Fatal("no spectral peaks found")
	}
	f0 := Frequency(e2Frame()[ParamGlotPitch])
	closest := vtmtest.ClosestPeak(peaks, float64(f0))
	if math32.Abs(float32(closest)-f0) > f0 {
		t.Errorf("no peak near fundamental %v Hz among %v", f0, peaks)
	}
}

// TestFricativeSpectralCentroid is scenario E3: a high-frication, narrow
// constriction should push spectral energy well above the voiced-vowel
// range, consistent with a sibilant-like source.
func TestFricativeSpectralCentroid(t *testing.T) {
	m := newTestModel(t, false)
	out := settle(t, m, e3Frame(), 400)

	centroid := vtmtest.SpectralCentroid(out, float64(m.OutputSampleRate()))
	if centroid < 1500 {
		t.Errorf("fricative spectral centroid = %.1f Hz, want a high-frequency-weighted spectrum", centroid)
	}
}

// TestNasalLowFormant is scenario E4: an open velum with a mouth
// constriction should concentrate energy in a low formant band
// characteristic of nasal coupling, distinct from the fricative spectrum.
func TestNasalLowFormant(t *testing.T) {
	m := newTestModel(t, false)
	out := settle(t, m, e4Frame(), 400)

	peaks := vtmtest.DominantPeaks(out, float64(m.OutputSampleRate()), 3)
	if len(peaks) == 0 {
		t.Fatal("no spectral peaks found")
	}
	closest := vtmtest.ClosestPeak(peaks, 250)
	if closest > 600 {
		t.Errorf("nasal low formant peak = %.1f Hz, want near 250Hz band, got peaks %v", closest, peaks)
	}
}
