package vtm

import (
	"testing"

	"github.com/chewxy/math32"
)

// TestThreeWayJunctionPressureFormula checks the three-way junction's
// scattering formula directly: each port's outgoing wave is the shared
// junction pressure (an admittance-weighted average of the three
// incoming waves) minus that port's own incoming wave.
func TestThreeWayJunctionPressureFormula(t *testing.T) {
	w, err := NewWaveguide(Variant0, 1, 44100)
	if err != nil {
		t.Fatalf("NewWaveguide: %v", err)
	}
	w.Reset()
	w.SetDampingFactor(1.0)

	var frame Frame
	frame[ParamRadius1] = 0.8
	frame[ParamRadius2] = 0.8
	frame[ParamRadius3] = 0.8
	frame[ParamRadius4] = 1.0
	frame[ParamRadius5] = 1.2
	frame[ParamRadius6] = 1.2
	frame[ParamRadius7] = 1.0
	frame[ParamRadius8] = 0.9
	frame[ParamVelum] = 0.3
	w.InitNasalFixedCoefs([6]float32{0, 1.35, 1.96, 1.91, 1.3, 0.73}, 1.0)
	w.UpdateCoefficients(&frame, 1.0)

	// variant 0's velum junction sits between sections 3 and 4 (0-based),
	// straddling the middle of region R4 (S4-S5, 1-based).
	left, right := w.velumPair, w.velumPair+1

	// seed the three ports feeding the junction with arbitrary incoming
	// waves, in the slot the next Step reads (Step rotates its pointers
	// before reading)
	out := (w.outPtr + 1) % w.ringLen
	w.oro[left][portTop][out] = 0.3
	w.oro[right][portBottom][out] = -0.15
	w.nasal[0][portBottom][out] = 0.05

	incoming := w.oro[left][portTop][out] + w.oro[right][portBottom][out] + w.nasal[0][portBottom][out]

	w.Step(0, 0)

	in := w.inPtr
	outgoing := w.oro[left][portBottom][in] + w.oro[right][portTop][in] + w.nasal[0][portTop][in]

	// the junction injects the top-of-tube input and frication taps
	// elsewhere in Step; isolate just the junction contribution by
	// comparing against the algebraic junction pressure directly.
	junctionPressure := w.alpha[junctionLeft]*w.oro[left][portTop][out] +
		w.alpha[junctionRight]*w.oro[right][portBottom][out] +
		w.alpha[junctionUpper]*w.nasal[0][portBottom][out]
	wantOutgoing := 3*junctionPressure - incoming

	if math32.Abs(outgoing-wantOutgoing) > 1e-4 {
		t.Errorf("outgoing sum = %v, want %v (incoming sum %v)", outgoing, wantOutgoing, incoming)
	}
}

func TestWaveguideResetClearsState(t *testing.T) {
	w, err := NewWaveguide(Variant0, 1, 44100)
	if err != nil {
		t.Fatalf("NewWaveguide: %v", err)
	}
	w.SetDampingFactor(1.0)
	w.InitBoundaries(0.9, 0.9)
	w.InitNasalFixedCoefs([6]float32{0, 1.35, 1.96, 1.91, 1.3, 0.73}, 1.0)

	for i := 0; i < 100; i++ {
		w.Step(0.5, 0.1)
	}
	w.Reset()
	out := w.Step(0, 0)
	if out != 0 {
		t.Errorf("first sample after reset = %v, want 0", out)
	}
}

func TestVariant5WaveguideFinite(t *testing.T) {
	w, err := NewWaveguide(Variant5, 1, 50000)
	if err != nil {
		t.Fatalf("NewWaveguide: %v", err)
	}
	w.SetDampingFactor(0.99)
	w.InitNasalFixedCoefs([6]float32{0, 1.35, 1.96, 1.91, 1.3, 0.73}, 1.0)

	var frame Frame
	for i := 1; i <= 8; i++ {
		frame[ParamRadius1+ParamIndex(i-1)] = 1.0
	}
	frame[ParamVelum] = 0.2
	w.UpdateCoefficients(&frame, 1.0)

	for i := 0; i < 2000; i++ {
		out := w.Step(0.01, 0.0)
		if isNaNOrInf(out) {
			t.Fatalf("sample %d non-finite: %v", i, out)
		}
	}
}

// TestVariant4TopologyMatchesSpecTable checks that variant 4 really builds
// the wider 30-oropharynx/18-nasal-section topology the table calls for,
// rather than silently reusing variant 0's 10/6-section layout.
func TestVariant4TopologyMatchesSpecTable(t *testing.T) {
	w, err := NewWaveguide(Variant4, 1, 44100)
	if err != nil {
		t.Fatalf("NewWaveguide: %v", err)
	}
	if got := len(w.oro); got != 30 {
		t.Errorf("variant 4 oropharynx section count = %d, want 30", got)
	}
	if got := len(w.nasal); got != 18 {
		t.Errorf("variant 4 nasal section count = %d, want 18", got)
	}
}

// TestVariant5TopologyMatchesSpecTable checks variant 5's 30/21 layout and
// that it runs flow-formulation junctions.
func TestVariant5TopologyMatchesSpecTable(t *testing.T) {
	w, err := NewWaveguide(Variant5, 1, 50000)
	if err != nil {
		t.Fatalf("NewWaveguide: %v", err)
	}
	if got := len(w.oro); got != 30 {
		t.Errorf("variant 5 oropharynx section count = %d, want 30", got)
	}
	if got := len(w.nasal); got != 21 {
		t.Errorf("variant 5 nasal section count = %d, want 21", got)
	}
	if !w.topo.flowJunction {
		t.Error("variant 5 should use the flow-formulation junction, not pressure alphas")
	}
}

// TestSectionDelayExpandsRingBuffer checks that a configurable per-section
// delay (variants 2/4/5) actually lengthens each section's delay line,
// rather than the waveguide always behaving as a fixed 1-sample topology.
func TestSectionDelayExpandsRingBuffer(t *testing.T) {
	w, err := NewWaveguide(Variant2, 3, 44100)
	if err != nil {
		t.Fatalf("NewWaveguide: %v", err)
	}
	if got := len(w.oro[0][portTop]); got != 4 {
		t.Errorf("ring length for section delay 3 = %d, want 4", got)
	}
}
