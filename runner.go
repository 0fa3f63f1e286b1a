// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package unitrun

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Listener is informed about each run test.  Implementations render
// progress, e.g. pkg/console.  A Listener's methods are never called
// concurrently.
type Listener interface {
	TestStarted(*Descriptor)
	TestFinished(*Outcome)
}

// Runner runs the tests of a registry.  The zero value runs the
// Default registry sequentially.
type Runner struct {
	// Registry whose tests are run; defaults to Default.
	Registry *Registry

	// Filter selects the tests to run; all tests are run if nil.
	Filter func(*Descriptor) bool

	// Listener is optional.
	Listener Listener

	// Logger defaults to logrus' standard logger.
	Logger log.FieldLogger

	// Workers greater one runs suites in parallel, each suite's tests
	// sequentially in registration order.
	Workers int
}

func (r *Runner) registry() *Registry {
	if r.Registry == nil {
		return Default
	}
	return r.Registry
}

func (r *Runner) logger() log.FieldLogger {
	if r.Logger == nil {
		return log.StandardLogger()
	}
	return r.Logger
}

// Run runs the selected tests of r's registry and returns the summary
// of the run.  Run fails without running any test if the registry
// reports configuration errors.  Registrations during or after Run are
// configuration errors.
func (r *Runner) Run() (*RunSummary, error) {
	reg, logger := r.registry(), r.logger()
	if err := reg.seal(); err != nil {
		logger.WithError(err).Error("Refusing to run tests")
		return nil, err
	}

	start := time.Now()
	agg := &Aggregator{}
	run := []*Descriptor{}
	for _, d := range reg.All() {
		if r.Filter != nil && !r.Filter(d) {
			agg.Filtered()
			continue
		}
		run = append(run, d)
	}
	logger.WithField("tests", len(run)).Debug("Starting run")

	var outcomes []*Outcome
	if r.Workers > 1 {
		outcomes = r.parallel(run)
	} else {
		outcomes = make([]*Outcome, len(run))
		for i, d := range run {
			outcomes[i] = r.runTest(d, nil)
		}
	}
	for _, o := range outcomes {
		agg.Record(o)
	}

	summary := agg.Summary()
	summary.Elapsed = time.Since(start)
	logger.WithFields(log.Fields{
		"tests":  summary.Tests,
		"passed": summary.Passed,
		"failed": summary.Failed,
	}).Debug("Finished run")
	return summary, nil
}

// parallel runs each suite in its own go routine, at most r.Workers at
// the same time.  The returned outcomes have the order of given
// descriptors.
func (r *Runner) parallel(dd []*Descriptor) []*Outcome {
	outcomes := make([]*Outcome, len(dd))
	bySuite := map[int][]int{}
	order := []int{}
	for i, d := range dd {
		if _, ok := bySuite[d.SuiteIndex()]; !ok {
			order = append(order, d.SuiteIndex())
		}
		bySuite[d.SuiteIndex()] = append(bySuite[d.SuiteIndex()], i)
	}

	mutex := &sync.Mutex{}
	g := &errgroup.Group{}
	g.SetLimit(r.Workers)
	for _, s := range order {
		idx := bySuite[s]
		g.Go(func() error {
			for _, i := range idx {
				outcomes[i] = r.runTest(dd[i], mutex)
			}
			return nil
		})
	}
	_ = g.Wait() // suites report failures through their outcomes
	return outcomes
}

// runTest runs given test through its fixture life cycle and informs
// the listener.  A not nil mutex serializes listener calls.
func (r *Runner) runTest(d *Descriptor, mutex *sync.Mutex) *Outcome {
	logger := r.logger().WithFields(log.Fields{
		"suite": d.Suite,
		"test":  d.Name,
	})
	r.notify(mutex, func(l Listener) { l.TestStarted(d) })

	t := newT(d)
	t.logger = func(args ...interface{}) { logger.Debug(args...) }
	start := time.Now()
	phase := (&controller{d: d, t: t}).run()
	o := &Outcome{
		Descriptor: d,
		Phase:      phase,
		Failures:   t.failures,
		Assertions: t.passed,
		Logs:       t.logs,
		Elapsed:    time.Since(start),
	}

	logger.WithFields(log.Fields{
		"phase":    phase,
		"failures": len(o.Failures),
	}).Debug("Test finished")
	r.notify(mutex, func(l Listener) { l.TestFinished(o) })
	return o
}

func (r *Runner) notify(mutex *sync.Mutex, f func(Listener)) {
	if r.Listener == nil {
		return
	}
	if mutex != nil {
		mutex.Lock()
		defer mutex.Unlock()
	}
	f(r.Listener)
}
