package vtm

import "testing"

func TestWavetableGlottalSourceRejectsBadShape(t *testing.T) {
	var g WavetableGlottalSource
	if err := g.Init(WaveformPulse, 44100, 40, 50, 10); err == nil {
		t.Fatal("expected error when tn_min exceeds tn_max")
	}
	if err := g.Init(WaveformPulse, 44100, 0, 16, 32); err == nil {
		t.Fatal("expected error for non-positive rise time")
	}
}

func TestWavetableGlottalSourcePeriodic(t *testing.T) {
	var g WavetableGlottalSource
	if err := g.Init(WaveformPulse, 44100, 40, 16, 32); err != nil {
		t.Fatalf("Init: %v", err)
	}
	g.Update(0.8)

	f0 := float32(100.0)
	period := int(44100.0 / f0)

	// discard startup transient
	for i := 0; i < period*3; i++ {
		g.Sample(f0)
	}

	a := make([]float32, period)
	for i := range a {
		a[i] = g.Sample(f0)
	}
	b := make([]float32, period)
	for i := range b {
		b[i] = g.Sample(f0)
	}

	var maxDiff float32
	for i := range a {
		d := a[i] - b[i]
		if d < 0 {
			d = -d
		}
		if d > maxDiff {
			maxDiff = d
		}
	}
	if maxDiff > 0.05 {
		t.Errorf("consecutive periods differ by up to %v, want near-periodic", maxDiff)
	}
}

func TestWavetableGlottalSourceFinite(t *testing.T) {
	var g WavetableGlottalSource
	if err := g.Init(WaveformSine, 44100, 40, 16, 32); err != nil {
		t.Fatalf("Init: %v", err)
	}
	for i := 0; i < 10000; i++ {
		v := g.Sample(150)
		if isNaNOrInf(v) {
			t.Fatalf("sample %d non-finite: %v", i, v)
		}
	}
}
