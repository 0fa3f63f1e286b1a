// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package unitrun_test

import (
	"io"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/slukits/unitrun"
)

// recorder is a unitrun.Listener remembering the started tests and
// the outcomes of the finished tests.
type recorder struct {
	started  []string
	finished []*unitrun.Outcome
}

func (r *recorder) TestStarted(d *unitrun.Descriptor) {
	r.started = append(r.started, d.ID())
}

func (r *recorder) TestFinished(o *unitrun.Outcome) {
	r.finished = append(r.finished, o)
}

func (r *recorder) outcome(id string) *unitrun.Outcome {
	for _, o := range r.finished {
		if o.Descriptor.ID() == id {
			return o
		}
	}
	return nil
}

func quietLogger() log.FieldLogger {
	l := log.New()
	l.Out = io.Discard
	return l
}

// run runs given registry sequentially and fails the test if the run
// is refused.
func run(t *testing.T, reg *unitrun.Registry) (
	*unitrun.RunSummary, *recorder,
) {
	t.Helper()
	rec := &recorder{}
	summary, err := (&unitrun.Runner{
		Registry: reg, Listener: rec, Logger: quietLogger(),
	}).Run()
	require.NoError(t, err)
	return summary, rec
}

// single runs given body as the only test of a fresh registry and
// returns its outcome.
func single(t *testing.T, body func(*unitrun.T)) *unitrun.Outcome {
	t.Helper()
	reg := unitrun.NewRegistry()
	require.NotNil(t, reg.Test("single", t.Name(), body))
	_, rec := run(t, reg)
	require.Len(t, rec.finished, 1)
	return rec.finished[0]
}
