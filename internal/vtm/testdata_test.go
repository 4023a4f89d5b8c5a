package vtm

// baseConfig returns the seed configuration shared by the E1-E6 scenarios
// in the vocal tract model's test suite: variant 0, temperature 32C,
// length 17cm, output rate 44100Hz.
func baseConfig() map[string]any {
	return map[string]any{
		"waveform":                  0,
		"glottal_pulse_tp":          float32(40),
		"glottal_pulse_tn_min":      float32(16),
		"glottal_pulse_tn_max":      float32(32),
		"breathiness":               float32(0.5),
		"vocal_tract_length":        float32(17),
		"vocal_tract_length_offset": float32(0),
		"temperature":               float32(32),
		"mouth_coefficient":         float32(5000),
		"nose_coefficient":          float32(5000),
		"throat_cutoff":             float32(1500),
		"throat_volume":             float32(6),
		"noise_modulation":          1,
		"mix_offset":                float32(48),
		"global_radius_coef":        float32(1.0),
		"global_nasal_radius_coef":  float32(1.0),
		"aperture_radius":           float32(3.05),
		"nasal_radius_1":            float32(1.35),
		"nasal_radius_2":            float32(1.96),
		"nasal_radius_3":            float32(1.91),
		"nasal_radius_4":            float32(1.3),
		"nasal_radius_5":            float32(0.73),
		"radius_1_coef":             float32(1.0),
		"radius_2_coef":             float32(1.0),
		"radius_3_coef":             float32(1.0),
		"radius_4_coef":             float32(1.0),
		"radius_5_coef":             float32(1.0),
		"radius_6_coef":             float32(1.0),
		"radius_7_coef":             float32(1.0),
		"radius_8_coef":             float32(1.0),
		"output_rate":               float32(44100),
		"control_rate":              float32(250),
		"loss_factor":               float32(0.8),
	}
}

func e1Frame() []float32 {
	return []float32{0, 0, 0, 0, 0, 0, 0, 0.8, 0.8, 0.8, 0.8, 0.8, 0.8, 0.8, 0.8, 0.1}
}

func e2Frame() []float32 {
	return []float32{-12, 60, 0, 0, 5.5, 2500, 500, 0.8, 1.1, 1.1, 1.2, 1.5, 2.0, 1.5, 1.0, 0.1}
}

func e3Frame() []float32 {
	return []float32{0, 0, 0, 50, 6.7, 5500, 1000, 0.8, 1.1, 1.1, 1.2, 1.5, 2.0, 0.1, 1.0, 0.1}
}

func e4Frame() []float32 {
	return []float32{-12, 60, 0, 0, 5.5, 2500, 500, 0.8, 1.1, 1.1, 1.2, 1.5, 2.0, 1.5, 0.1, 1.5}
}
