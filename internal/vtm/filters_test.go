package vtm

import (
	"math"
	"testing"

	"github.com/chewxy/math32"
)

func TestRadiationReflectionFilterDC(t *testing.T) {
	var rad RadiationFilter
	var refl ReflectionFilter
	rad.Init(0.9)
	refl.Init(0.9)
	var lastR, lastF float32
	for i := 0; i < 200; i++ {
		lastR = rad.Filter(1.0)
		lastF = refl.Filter(1.0)
	}
	if math32.Abs(lastR) > 1.0 {
		t.Errorf("radiation filter DC response diverged: %v", lastR)
	}
	if lastF <= 0 || lastF > 1.0 {
		t.Errorf("reflection filter DC gain out of expected range: %v", lastF)
	}
}

func TestButterworthCutoffValidation(t *testing.T) {
	var f Butterworth1LowpassFilter
	if err := f.Update(44100, 0.5); err == nil {
		t.Error("expected error for cutoff below 1Hz")
	}
	if err := f.Update(44100, 44100*0.5); err == nil {
		t.Error("expected error for cutoff above 0.48*Fs")
	}
	if err := f.Update(44100, 1000); err != nil {
		t.Errorf("unexpected error for valid cutoff: %v", err)
	}
}

func TestButterworth2CutoffValidation(t *testing.T) {
	var f Butterworth2LowpassFilter
	if err := f.Update(44100, 0); err == nil {
		t.Error("expected error for zero cutoff")
	}
	if err := f.Update(44100, 1000); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestButterworth1DCGainUnity(t *testing.T) {
	var f Butterworth1LowpassFilter
	if err := f.Update(44100, 200); err != nil {
		t.Fatalf("Update: %v", err)
	}
	var out float32
	for i := 0; i < 5000; i++ {
		out = f.Filter(1.0)
	}
	if math32.Abs(out-1.0) > 1e-3 {
		t.Errorf("DC gain = %v, want ~1.0", out)
	}
}

func TestBandpassFilterPassesCenterFrequency(t *testing.T) {
	var bp BandpassFilter
	sampleRate := float32(44100)
	centerFreq := float32(2500)
	bp.Update(sampleRate, 500, centerFreq)

	n := 2000
	var sumSq float32
	for i := 0; i < n; i++ {
		x := float32(math.Sin(2 * math.Pi * float64(centerFreq) * float64(i) / float64(sampleRate)))
		y := bp.Filter(x)
		if i > n/2 {
			sumSq += y * y
		}
	}
	if sumSq <= 0 {
		t.Error("bandpass filter produced zero energy at its own center frequency")
	}
}

func TestDifferenceFilter(t *testing.T) {
	var d DifferenceFilter
	d.Filter(1.0)
	d.Filter(1.0)
	out := d.Filter(1.0)
	if out != 0.0 {
		t.Errorf("difference filter on constant input = %v, want 0", out)
	}
}
