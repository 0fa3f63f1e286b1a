// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package unitrun

import (
	"fmt"
	"time"

	"github.com/slukits/ints"
)

// FailureRecord is the evidence of a failed assertion of the test
// Suite.Test at File:Line.  Expected and Actual are the stringified
// operands of a failed comparison and may be empty.  Fatal is set iff
// the failure aborted its set-up, test or tear-down.
type FailureRecord struct {
	Suite    string
	Test     string
	File     string
	Line     int
	Message  string
	Expected string
	Actual   string
	Fatal    bool

	// Stack is the stack from the panicking frame up to the test of a
	// failure recorded for a panic; it is empty otherwise.
	Stack string
}

// Location returns "file:line" of the failure.
func (f FailureRecord) Location() string {
	return fmt.Sprintf("%s:%d", f.File, f.Line)
}

// Outcome is the result of running a single test.
type Outcome struct {
	Descriptor *Descriptor

	// Phase is Done for a test whose set-up succeeded and SetupFailed
	// otherwise.
	Phase Phase

	Failures []FailureRecord

	// Assertions is the number of passed assertions.
	Assertions int

	Logs    []string
	Elapsed time.Duration
}

// Passed is true iff no failure was recorded for the test.
func (o *Outcome) Passed() bool { return len(o.Failures) == 0 }

// RunSummary aggregates the outcomes of a run.  Failures are ordered
// by the run order of their tests.
type RunSummary struct {
	Suites       int
	FailedSuites int
	Tests        int
	Passed       int
	Failed       int

	// Filtered counts the registered tests which were not run.
	Filtered int

	// Assertions counts passed assertions.
	Assertions int

	Failures []FailureRecord
	Elapsed  time.Duration
}

// OK is true iff the run recorded no failure.
func (s *RunSummary) OK() bool { return len(s.Failures) == 0 }

// ExitCode maps the summary to a process exit status: 0 iff OK, 1
// otherwise.
func (s *RunSummary) ExitCode() int {
	if s.OK() {
		return 0
	}
	return 1
}

// Aggregator folds test outcomes into a RunSummary.  An Aggregator is
// not safe for concurrent use; the runner serializes its calls.
type Aggregator struct {
	summary      RunSummary
	suites       ints.Set
	failedSuites ints.Set
}

// Record folds given outcome into the aggregated summary.
func (a *Aggregator) Record(o *Outcome) {
	idx := o.Descriptor.SuiteIndex()
	if !a.suites.Has(idx) {
		a.suites.Add(idx)
		a.summary.Suites++
	}
	a.summary.Tests++
	a.summary.Assertions += o.Assertions
	if o.Passed() {
		a.summary.Passed++
		return
	}
	a.summary.Failed++
	if !a.failedSuites.Has(idx) {
		a.failedSuites.Add(idx)
		a.summary.FailedSuites++
	}
	a.summary.Failures = append(a.summary.Failures, o.Failures...)
}

// Filtered counts a registered test which wasn't run.
func (a *Aggregator) Filtered() { a.summary.Filtered++ }

// Summary returns the aggregated summary.
func (a *Aggregator) Summary() *RunSummary {
	s := a.summary
	s.Failures = append([]FailureRecord(nil), a.summary.Failures...)
	return &s
}
