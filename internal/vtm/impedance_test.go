package vtm

import "testing"

func TestNewPoleZeroRadiationImpedanceRejectsLowRate(t *testing.T) {
	_, err := NewPoleZeroRadiationImpedance(44100)
	if err == nil {
		t.Fatal("expected error for sample rate below minimum")
	}
	ie, ok := err.(*ImpedanceError)
	if !ok {
		t.Fatalf("got %T, want *ImpedanceError", err)
	}
	if ie.Kind != SampleRateTooLow {
		t.Errorf("got kind %v", ie.Kind)
	}
}

func TestPoleZeroRadiationImpedanceStable(t *testing.T) {
	p, err := NewPoleZeroRadiationImpedance(50000)
	if err != nil {
		t.Fatalf("NewPoleZeroRadiationImpedance: %v", err)
	}
	p.Update(0.8)
	for i := 0; i < 2000; i++ {
		outT, outR := p.Process(1.0)
		if isNaNOrInf(outT) || isNaNOrInf(outR) {
			t.Fatalf("sample %d non-finite: outT=%v outR=%v", i, outT, outR)
		}
	}
}

func TestPoleZeroRadiationImpedanceUpdateNoOpSameRadius(t *testing.T) {
	p, err := NewPoleZeroRadiationImpedance(50000)
	if err != nil {
		t.Fatalf("NewPoleZeroRadiationImpedance: %v", err)
	}
	p.Update(1.2)
	cT1 := p.cT1
	p.Update(1.2)
	if p.cT1 != cT1 {
		t.Errorf("Update recomputed coefficients for an unchanged radius")
	}
}

func isNaNOrInf(v float32) bool {
	return v != v || v > 1e30 || v < -1e30
}
