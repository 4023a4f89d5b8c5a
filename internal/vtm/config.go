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
 ***************************************************************************/

package vtm

import "fmt"

// Config holds the voice/synthesizer-construction parameters: everything
// that's fixed for the lifetime of a Model, as opposed to the per-frame
// Frame values that drive Step. Field names mirror the original control
// parameter database keys (see NewConfig).
type Config struct {
	Variant Variant

	Waveform  Waveform
	Tp        float32
	TnMin     float32
	TnMax     float32
	Breathiness float32

	VocalTractLength float32 // cm, already includes any offset
	Temperature      float32 // degrees Celsius

	MouthCoef    float32
	NoseCoef     float32
	ThroatCutoff float32
	ThroatVol    float32

	NoiseModulation bool
	MixOffset       float32

	ApertureRadius float32
	NasalRadius    [6]float32 // index 1..5 used; 0 unused
	RadiusCoef     [8]float32

	SampleRate   float32 // output (post-resample) rate in Hz
	ControlRate  float32 // control-frame update rate in Hz
	LossFactor   float32 // percent, per-section wall-loss damping
	SectionDelay int     // internal delay-line slots per waveguide section (variants 2/4/5 only; variant 0 is always 1)
}

var requiredKeys = []string{
	"waveform", "glottal_pulse_tp", "glottal_pulse_tn_min", "glottal_pulse_tn_max",
	"breathiness", "vocal_tract_length", "vocal_tract_length_offset", "temperature",
	"mouth_coefficient", "nose_coefficient", "throat_cutoff", "throat_volume",
	"noise_modulation", "mix_offset", "global_radius_coef", "global_nasal_radius_coef",
	"aperture_radius",
	"nasal_radius_1", "nasal_radius_2", "nasal_radius_3", "nasal_radius_4", "nasal_radius_5",
	"radius_1_coef", "radius_2_coef", "radius_3_coef", "radius_4_coef",
	"radius_5_coef", "radius_6_coef", "radius_7_coef", "radius_8_coef",
	"output_rate", "control_rate", "loss_factor",
}

// NewConfig builds a Config from a pre-parsed key/value map (the model
// never parses configuration text itself; callers own that format). Every
// key in requiredKeys must be present with the expected type, or NewConfig
// returns a *ConfigError.
func NewConfig(variant Variant, m map[string]any) (*Config, error) {
	for _, k := range requiredKeys {
		if _, ok := m[k]; !ok {
			return nil, &ConfigError{Kind: ConfigMissing, Key: k}
		}
	}

	f := func(key string) (float32, error) {
		v, ok := m[key]
		if !ok {
			return 0, &ConfigError{Kind: ConfigMissing, Key: key}
		}
		switch t := v.(type) {
		case float32:
			return t, nil
		case float64:
			return float32(t), nil
		case int:
			return float32(t), nil
		default:
			return 0, &ConfigError{Kind: ConfigParse, Key: key, Reason: fmt.Sprintf("want numeric, got %T", v)}
		}
	}

	c := &Config{Variant: variant}

	waveform, err := f("waveform")
	if err != nil {
		return nil, err
	}
	switch int(waveform) {
	case 0:
		c.Waveform = WaveformPulse
	case 1:
		c.Waveform = WaveformSine
	default:
		return nil, &ConfigError{Kind: ConfigRange, Key: "waveform", Reason: "must be 0 (pulse) or 1 (sine)"}
	}

	var fields = []struct {
		key string
		dst *float32
	}{
		{"glottal_pulse_tp", &c.Tp},
		{"glottal_pulse_tn_min", &c.TnMin},
		{"glottal_pulse_tn_max", &c.TnMax},
		{"breathiness", &c.Breathiness},
		{"temperature", &c.Temperature},
		{"mouth_coefficient", &c.MouthCoef},
		{"nose_coefficient", &c.NoseCoef},
		{"throat_cutoff", &c.ThroatCutoff},
		{"throat_volume", &c.ThroatVol},
		{"mix_offset", &c.MixOffset},
		{"output_rate", &c.SampleRate},
		{"control_rate", &c.ControlRate},
		{"loss_factor", &c.LossFactor},
	}
	for _, fl := range fields {
		v, err := f(fl.key)
		if err != nil {
			return nil, err
		}
		*fl.dst = v
	}

	length, err := f("vocal_tract_length")
	if err != nil {
		return nil, err
	}
	lengthOffset, err := f("vocal_tract_length_offset")
	if err != nil {
		return nil, err
	}
	c.VocalTractLength = length + lengthOffset
	if c.VocalTractLength < 3 {
		c.VocalTractLength = 3
	} else if c.VocalTractLength > 30 {
		c.VocalTractLength = 30
	}

	c.SectionDelay = 1
	if v, ok := m["section_delay"]; ok {
		switch t := v.(type) {
		case float32:
			c.SectionDelay = int(t)
		case float64:
			c.SectionDelay = int(t)
		case int:
			c.SectionDelay = t
		default:
			return nil, &ConfigError{Kind: ConfigParse, Key: "section_delay", Reason: fmt.Sprintf("want numeric, got %T", v)}
		}
	}
	if c.SectionDelay < 1 {
		return nil, &ConfigError{Kind: ConfigRange, Key: "section_delay", Reason: "must be >= 1"}
	}

	modRaw, ok := m["noise_modulation"]
	if !ok {
		return nil, &ConfigError{Kind: ConfigMissing, Key: "noise_modulation"}
	}
	switch t := modRaw.(type) {
	case bool:
		c.NoiseModulation = t
	case int:
		c.NoiseModulation = t != 0
	case float32:
		c.NoiseModulation = t != 0
	case float64:
		c.NoiseModulation = t != 0
	default:
		return nil, &ConfigError{Kind: ConfigParse, Key: "noise_modulation", Reason: fmt.Sprintf("want bool/numeric, got %T", t)}
	}

	globalRadiusCoef, err := f("global_radius_coef")
	if err != nil {
		return nil, err
	}
	globalNasalRadiusCoef, err := f("global_nasal_radius_coef")
	if err != nil {
		return nil, err
	}

	apertureRadius, err := f("aperture_radius")
	if err != nil {
		return nil, err
	}
	c.ApertureRadius = apertureRadius * globalRadiusCoef
	if c.ApertureRadius <= 0 {
		return nil, &ConfigError{Kind: ConfigRange, Key: "aperture_radius", Reason: "must be positive"}
	}

	for i := 1; i <= 5; i++ {
		key := fmt.Sprintf("nasal_radius_%d", i)
		v, err := f(key)
		if err != nil {
			return nil, err
		}
		c.NasalRadius[i] = v * globalNasalRadiusCoef
		if c.NasalRadius[i] <= 0 {
			return nil, &ConfigError{Kind: ConfigRange, Key: key, Reason: "must be positive"}
		}
	}

	for i := 0; i < 8; i++ {
		key := fmt.Sprintf("radius_%d_coef", i+1)
		v, err := f(key)
		if err != nil {
			return nil, err
		}
		c.RadiusCoef[i] = v * globalRadiusCoef
	}

	if c.SampleRate <= 0 {
		return nil, &ConfigError{Kind: ConfigRange, Key: "output_rate", Reason: "must be positive"}
	}
	if c.ControlRate <= 0 {
		return nil, &ConfigError{Kind: ConfigRange, Key: "control_rate", Reason: "must be positive"}
	}

	for _, rc := range []struct {
		key        string
		val, lo, hi float32
	}{
		{"temperature", c.Temperature, 25, 40},
		{"loss_factor", c.LossFactor, 0, 5},
		{"mix_offset", c.MixOffset, 30, 60},
		{"throat_volume", c.ThroatVol, 0, 48},
	} {
		if rc.val < rc.lo || rc.val > rc.hi {
			return nil, &ConfigError{Kind: ConfigRange, Key: rc.key, Reason: fmt.Sprintf("must be in [%g, %g]", rc.lo, rc.hi)}
		}
	}

	if c.Variant == Variant5 {
		oroSections := oroSectionCountFor(c.Variant, c.SectionDelay)
		internalRate, _ := deriveInternalSampleRate(c.Temperature, c.VocalTractLength, c.ControlRate, oroSections)
		if internalRate < MinImpedanceSampleRate {
			return nil, &ConfigError{Kind: ConfigRange, Key: "control_rate", Reason: "derived internal sample rate is below the 50kHz minimum required by variant 5"}
		}
	}
	if c.TnMin > c.TnMax {
		return nil, &ConfigError{Kind: ConfigRange, Key: "glottal_pulse_tn_min", Reason: "exceeds glottal_pulse_tn_max"}
	}

	return c, nil
}
