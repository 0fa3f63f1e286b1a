// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package unitrun

import (
	"errors"
	"fmt"
)

// ErrConfig is wrapped by every configuration error, i.e.
//
//	errors.Is(err, unitrun.ErrConfig)
//
// reports if a run was refused before any test executed.
var ErrConfig = errors.New("unitrun: configuration")

// ConfigKind classifies a configuration error.
type ConfigKind uint8

const (
	// DuplicateTest is reported if a (suite, test) identity is
	// registered twice.
	DuplicateTest ConfigKind = iota + 1

	// FixtureConflict is reported if a suite is bound to a fixture by
	// one registration and to no or an other fixture by an other one.
	FixtureConflict

	// LateRegistration is reported if a test is registered after its
	// registry's run has started.
	LateRegistration

	// EntryPointConflict is reported by the second claim of the
	// process-wide entry point.
	EntryPointConflict

	// InvalidTest is reported for a registration without test body.
	InvalidTest
)

func (k ConfigKind) String() string {
	switch k {
	case DuplicateTest:
		return "duplicate test"
	case FixtureConflict:
		return "fixture conflict"
	case LateRegistration:
		return "late registration"
	case EntryPointConflict:
		return "conflicting entry point"
	case InvalidTest:
		return "invalid test"
	}
	return "unknown"
}

// ConfigError is a configuration error detected before any test runs.
// Location is the source location of the offending registration
// respectively entry-point claim.
type ConfigError struct {
	Kind     ConfigKind
	Suite    string
	Test     string
	Location string
	Detail   string
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("%s: %s", ErrConfig, e.Kind)
	if e.Suite != "" || e.Test != "" {
		msg += fmt.Sprintf(" %s.%s", e.Suite, e.Test)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Location != "" {
		msg += " (" + e.Location + ")"
	}
	return msg
}

// Unwrap makes a ConfigError match ErrConfig.
func (e *ConfigError) Unwrap() error { return ErrConfig }
