package vtm

import "testing"

func TestNewConfigValid(t *testing.T) {
	c, err := NewConfig(Variant0, baseConfig())
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if c.VocalTractLength != 17 {
		t.Errorf("VocalTractLength = %v, want 17", c.VocalTractLength)
	}
	if c.SampleRate != 44100 {
		t.Errorf("SampleRate = %v, want 44100", c.SampleRate)
	}
	if !c.NoiseModulation {
		t.Errorf("NoiseModulation = false, want true")
	}
}

func TestNewConfigMissingKey(t *testing.T) {
	m := baseConfig()
	delete(m, "throat_cutoff")
	_, err := NewConfig(Variant0, m)
	if err == nil {
		t.Fatal("expected error for missing key")
	}
	ce, ok := err.(*ConfigError)
	if !ok {
		t.Fatalf("got %T, want *ConfigError", err)
	}
	if ce.Kind != ConfigMissing || ce.Key != "throat_cutoff" {
		t.Errorf("got %+v", ce)
	}
}

func TestNewConfigBadWaveform(t *testing.T) {
	m := baseConfig()
	m["waveform"] = 7
	_, err := NewConfig(Variant0, m)
	if err == nil {
		t.Fatal("expected error for out-of-range waveform")
	}
}

func TestNewConfigWrongType(t *testing.T) {
	m := baseConfig()
	m["throat_cutoff"] = "not a number"
	_, err := NewConfig(Variant0, m)
	if err == nil {
		t.Fatal("expected error for non-numeric value")
	}
	ce, ok := err.(*ConfigError)
	if !ok || ce.Kind != ConfigParse {
		t.Fatalf("got %#v", err)
	}
}

// TestNewConfigVariant5RequiresSampleRate checks that variant 5's minimum
// sample-rate requirement is gated on the derived internal rate, not the
// output rate: a low output_rate alone (a normal downsampling use case)
// must not be rejected, but a control/tract-length combination that
// drives the internal rate below the minimum must be.
func TestNewConfigVariant5RequiresSampleRate(t *testing.T) {
	m := baseConfig()
	m["output_rate"] = float32(22050)
	if _, err := NewConfig(Variant5, m); err != nil {
		t.Fatalf("low output_rate alone should not be rejected: %v", err)
	}

	m = baseConfig()
	m["vocal_tract_length"] = float32(30)
	m["vocal_tract_length_offset"] = float32(0)
	_, err := NewConfig(Variant5, m)
	if err == nil {
		t.Fatal("expected error when the derived internal sample rate falls below variant 5's minimum")
	}
	ce, ok := err.(*ConfigError)
	if !ok || ce.Kind != ConfigRange {
		t.Fatalf("got %#v, want ConfigError{Kind: ConfigRange}", err)
	}
}

func TestNewConfigTnRange(t *testing.T) {
	m := baseConfig()
	m["glottal_pulse_tn_min"] = float32(50)
	m["glottal_pulse_tn_max"] = float32(10)
	_, err := NewConfig(Variant0, m)
	if err == nil {
		t.Fatal("expected error for tn_min > tn_max")
	}
}
