// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"strings"

	"github.com/slukits/unitrun"
)

type buffer struct{ sb strings.Builder }

var buffers = unitrun.FixtureSuite("buffers",
	func(t *unitrun.T, fx *buffer) { fx.sb.WriteString("set up") },
	func(t *unitrun.T, fx *buffer) { t.Logf("torn down: %q", fx.sb.String()) },
)

var _ = buffers.Test("starts_with_set_up", func(t *unitrun.T, fx *buffer) {
	t.Check.SubStrEq("set up", fx.sb.String())
})

var _ = buffers.Test("is_fresh_per_test", func(t *unitrun.T, fx *buffer) {
	fx.sb.WriteString(", written")
	t.Check.StrEq("set up, written", fx.sb.String())
})

var _ = buffers.Test("knows_its_suite", func(t *unitrun.T, fx *buffer) {
	t.Check.StrEq(buffers.Suite(), t.SuiteName())
})

// Files is a suite whose tests share their set-up's in-memory file
// system.
type Files struct{ unitrun.Suite }

func (s *Files) SetUp(t *unitrun.T) {
	t.Require.NoErr(t.FS().MkdirAll("/data", 0o755))
}

func (s *Files) Has_data_dir(t *unitrun.T) {
	fi, err := t.FS().Stat("/data")
	t.Require.NoErr(err)
	t.Check.True(fi.IsDir())
}

func (s *Files) Compares_ordered_values(t *unitrun.T) {
	unitrun.Compare(t.Check, 1.5, unitrun.LT, 2.5)
	t.Check.Eq([]string{"a", "b"}, []string{"a", "b"})
}

var _ = unitrun.Register(&Files{})
