// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fx

import "github.com/slukits/unitrun"

// ReflectedTrace is the trace of the Reflected suite.  A suite's
// fixture is the suite itself which is zero for each test, hence its
// hooks and tests can reach a trace only through package state.
var ReflectedTrace = &Trace{}

// Reflected is a suite whose tests are declared deliberately not in
// alphabetical order, i.e. they are run in order of declaration:
// Zeta_first, Alpha_second, Mid_third.
type Reflected struct {
	unitrun.Suite
	steps []string
}

func (s *Reflected) SetUp(t *unitrun.T) {
	if s.steps != nil {
		ReflectedTrace.Addf("%s:%s", t.Name(), EvtNotZero)
	}
	s.steps = append(s.steps, EvtSetUp)
}

func (s *Reflected) TearDown(t *unitrun.T) {
	s.steps = append(s.steps, EvtTearDown)
	ReflectedTrace.Addf("%s:%v", t.Name(), s.steps)
}

func (s *Reflected) Zeta_first(t *unitrun.T) {
	s.steps = append(s.steps, EvtBody)
}

func (s *Reflected) Alpha_second(t *unitrun.T) {
	s.steps = append(s.steps, EvtBody)
	t.Require.True(false)
	s.steps = append(s.steps, EvtBodyAfter)
}

// helper is not a test since it is not exported.
func (s *Reflected) helper(t *unitrun.T) { t.Error("helper run") }

// Has_wrong_signature is not a test since it doesn't take a *T.
func (s *Reflected) Has_wrong_signature(n int) { s.steps = nil }

func (s *Reflected) Mid_third(t *unitrun.T) {
	s.steps = append(s.steps, EvtBody)
}

// ReflectedSuite resets ReflectedTrace and returns a registry with the
// Reflected suite.
func ReflectedSuite() *unitrun.Registry {
	ReflectedTrace = &Trace{}
	reg := unitrun.NewRegistry()
	_ = reg.Suite(&Reflected{})
	return reg
}
