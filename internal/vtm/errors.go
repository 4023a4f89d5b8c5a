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

package vtm

import "fmt"

// ConfigErrorKind classifies why a configuration value was rejected.
type ConfigErrorKind int

const (
	ConfigMissing ConfigErrorKind = iota
	ConfigParse
	ConfigRange
)

// ConfigError reports a problem with a single configuration key.
type ConfigError struct {
	Kind   ConfigErrorKind
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	switch e.Kind {
	case ConfigMissing:
		return fmt.Sprintf("vtm: config: missing key %q", e.Key)
	case ConfigRange:
		return fmt.Sprintf("vtm: config: key %q out of range: %s", e.Key, e.Reason)
	default:
		return fmt.Sprintf("vtm: config: key %q: %s", e.Key, e.Reason)
	}
}

// FilterErrorKind classifies filter construction failures.
type FilterErrorKind int

const (
	CutoffOutOfRange FilterErrorKind = iota
)

// FilterError reports a bad filter design parameter.
type FilterError struct {
	Kind       FilterErrorKind
	SampleRate float32
	Cutoff     float32
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("vtm: filter: cutoff %g out of range for sample rate %g", e.Cutoff, e.SampleRate)
}

// SourceErrorKind classifies glottal-source construction failures.
type SourceErrorKind int

const (
	InvalidShape SourceErrorKind = iota
)

// SourceError reports a bad glottal source configuration.
type SourceError struct {
	Kind   SourceErrorKind
	Reason string
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("vtm: glottal source: %s", e.Reason)
}

// ImpedanceErrorKind classifies radiation-impedance construction failures.
type ImpedanceErrorKind int

const (
	SampleRateTooLow ImpedanceErrorKind = iota
)

// ImpedanceError reports a bad pole-zero radiation impedance configuration.
type ImpedanceError struct {
	Kind       ImpedanceErrorKind
	SampleRate float32
}

func (e *ImpedanceError) Error() string {
	return fmt.Sprintf("vtm: radiation impedance: sample rate %g below minimum %g", e.SampleRate, MinImpedanceSampleRate)
}
