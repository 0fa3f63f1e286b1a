// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package unitrun_test

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slukits/unitrun"
)

func Test_passing_assertions_are_counted_not_recorded(t *testing.T) {
	o := single(t, func(t *unitrun.T) {
		t.Check.True(true)
		t.Check.False(false)
		t.Check.Eq([]int{1, 2}, []int{1, 2})
		t.Check.Ne(1, 2)
		t.Check.Nil(nil)
		t.Check.Nil((*int)(nil))
		t.Check.NotNil(t)
		t.Check.Contains("foobar", "oba")
		t.Check.Matched("foo42", `^foo\d+$`)
		t.Check.NoErr(nil)
		t.Check.ErrIs(fmt.Errorf("wrapped: %w", errSentinel), errSentinel)
		t.Check.Panics(func() { panic("expected") })
	})
	assert.True(t, o.Passed(), o.Failures)
	assert.Equal(t, 12, o.Assertions)
}

var errSentinel = errors.New("sentinel")

func Test_failing_assertion_records_call_site(t *testing.T) {
	var line int
	o := single(t, func(t *unitrun.T) {
		_, _, line, _ = runtime.Caller(0)
		t.Check.True(false)
	})
	require.Len(t, o.Failures, 1)
	f := o.Failures[0]
	assert.True(t, strings.HasSuffix(f.File, "assert_test.go"), f.File)
	assert.Equal(t, line+1, f.Line)
	assert.Equal(t, unitrun.TrueErr, f.Message)
	assert.False(t, f.Fatal)
	assert.Equal(t, "single", f.Suite)
	assert.Equal(t, t.Name(), f.Test)
	assert.Equal(t, fmt.Sprintf("%s:%d", f.File, f.Line), f.Location())
}

func Test_given_message_replaces_default(t *testing.T) {
	o := single(t, func(t *unitrun.T) {
		t.Check.False(true)
		t.Check.False(true, "plain")
		t.Check.False(true, "formatted %d", 42)
	})
	require.Len(t, o.Failures, 3)
	assert.Equal(t, unitrun.FalseErr, o.Failures[0].Message)
	assert.Equal(t, "plain", o.Failures[1].Message)
	assert.Equal(t, "formatted 42", o.Failures[2].Message)
}

func Test_non_fatal_failures_accumulate(t *testing.T) {
	steps := 0
	o := single(t, func(t *unitrun.T) {
		t.Check.EQ(1, 2)
		steps++
		t.Check.StrEq("a", "b")
		steps++
		t.Check.GT(1, 2)
		steps++
	})
	assert.Equal(t, 3, steps)
	assert.Len(t, o.Failures, 3)
	assert.False(t, o.Passed())
}

func Test_fatal_failure_aborts_the_test(t *testing.T) {
	after := 0
	o := single(t, func(t *unitrun.T) {
		t.Require.True(true)
		t.Require.EQ(1, 2)
		after++
	})
	assert.Equal(t, 0, after)
	require.Len(t, o.Failures, 1)
	assert.True(t, o.Failures[0].Fatal)
	assert.Equal(t, 1, o.Assertions)
}

func Test_t_failing_methods(t *testing.T) {
	after := 0
	o := single(t, func(t *unitrun.T) {
		t.Error("error ", 1)
		t.Errorf("errorf %d", 2)
		t.Check.True(t.Failed())
		t.Fatalf("fatalf %d", 3)
		after++
	})
	assert.Equal(t, 0, after)
	require.Len(t, o.Failures, 3)
	assert.Equal(t, "error 1", o.Failures[0].Message)
	assert.Equal(t, "errorf 2", o.Failures[1].Message)
	assert.Equal(t, "fatalf 3", o.Failures[2].Message)
	assert.True(t, o.Failures[2].Fatal)

	for _, abort := range []func(*unitrun.T){
		func(t *unitrun.T) { t.FailNow() },
		func(t *unitrun.T) { t.Fatal("fatal") },
		func(t *unitrun.T) { t.FatalOn(errSentinel) },
		func(t *unitrun.T) { t.FatalIfNot(false) },
	} {
		after = 0
		o := single(t, func(t *unitrun.T) { abort(t); after++ })
		assert.Equal(t, 0, after)
		require.Len(t, o.Failures, 1)
		assert.True(t, o.Failures[0].Fatal)
	}
}

func Test_fatal_on_and_fatal_if_not_pass_through(t *testing.T) {
	after := 0
	o := single(t, func(t *unitrun.T) {
		t.FatalOn(nil)
		t.FatalIfNot(true)
		after++
		t.FatalOn(errSentinel)
	})
	assert.Equal(t, 1, after)
	require.Len(t, o.Failures, 1)
	assert.Equal(t, "sentinel", o.Failures[0].Message)
}

func Test_comparisons_use_natural_ordering(t *testing.T) {
	o := single(t, func(t *unitrun.T) {
		t.Check.GE(42, 13)
		t.Check.LE(13, 42)
		t.Check.LT(-1, 0)
		t.Check.GT(uint8(200), uint8(100))
		t.Check.EQ(1.5, 1.5)
		t.Check.NE(int64(1), int64(2))
		t.Check.LT("abc", "abd")
		t.Check.Cmp("b", unitrun.GT, "a")
		unitrun.Compare(t.Check, 2.5, unitrun.LT, 3.0)
		unitrun.Compare(t.Check, "foo", unitrun.NE, "bar")
		unitrun.Compare(t.Check, math.NaN(), unitrun.NE, math.NaN())
	})
	assert.True(t, o.Passed(), o.Failures)
	assert.Equal(t, 11, o.Assertions)
}

func Test_failed_comparison_reports_operands(t *testing.T) {
	o := single(t, func(t *unitrun.T) {
		t.Check.LE(13, 8)
		unitrun.Compare(t.Check, 1, unitrun.GT, 2)
		unitrun.Compare(t.Check, math.NaN(), unitrun.GE, 0)
	})
	require.Len(t, o.Failures, 3)
	f := o.Failures[0]
	assert.Equal(t, "expected 13 <= 8", f.Message)
	assert.Equal(t, "<= 8", f.Expected)
	assert.Equal(t, "13", f.Actual)
	assert.Equal(t, "> 2", o.Failures[1].Expected)
	assert.Equal(t, "1", o.Failures[1].Actual)
}

func Test_incomparable_operands_fail(t *testing.T) {
	o := single(t, func(t *unitrun.T) {
		t.Check.LT("1", 2)
		t.Check.EQ([]int{}, []int{})
		t.Check.GE(nil, 1)
	})
	require.Len(t, o.Failures, 3)
	for _, f := range o.Failures {
		assert.Contains(t, f.Message, "incomparable")
	}
}

func Test_numbers_of_different_types_compare_by_value(t *testing.T) {
	var small uint8 = 3
	var big uint64 = math.MaxUint64
	o := single(t, func(t *unitrun.T) {
		t.Check.EQ(small, 3)
		t.Check.GE(small, int64(-1))
		t.Check.LT(-1, small)
		t.Check.GT(big, math.MaxInt64)
		t.Check.EQ(int32(2), 2.0)
		t.Check.LT(2, 2.5)
		t.Check.GT(float32(0.5), uint16(0))
		t.Check.NE(1, math.NaN())
		t.Check.LT(int64(math.MaxInt64), math.Inf(1))
	})
	assert.True(t, o.Passed(), o.Failures)
	assert.Equal(t, 9, o.Assertions)

	o = single(t, func(t *unitrun.T) {
		t.Check.EQ(small, 4)
		t.Check.GE(-1, uint(0))
		t.Check.EQ(1, math.NaN())
	})
	require.Len(t, o.Failures, 3)
	assert.Equal(t, "expected 3 == 4", o.Failures[0].Message)
	assert.Equal(t, "expected -1 >= 0", o.Failures[1].Message)
	for _, f := range o.Failures {
		assert.NotContains(t, f.Message, "incomparable")
	}
}

func Test_string_equality_is_byte_wise(t *testing.T) {
	o := single(t, func(t *unitrun.T) {
		t.Check.StrEq("foo", "foo")
		t.Check.StrNe("foo", "Foo")
		t.Check.StrEq("straße", "STRASSE")
		t.Check.StrNe("x", "x")
	})
	require.Len(t, o.Failures, 2)
	assert.Equal(t, `"straße"`, o.Failures[0].Expected)
	assert.Equal(t, `"STRASSE"`, o.Failures[0].Actual)
	assert.Equal(t, 2, o.Assertions)
}

func Test_sub_string_comparison_is_bound_by_first_argument(t *testing.T) {
	o := single(t, func(t *unitrun.T) {
		t.Check.SubStrEq("foo", "foobar")
		t.Check.SubStrEq("", "anything")
		t.Check.SubStrNe("bar", "foobar")
		t.Check.SubStrEq("foobar", "foo")
		t.Check.SubStrNe("foo", "foobar")
	})
	require.Len(t, o.Failures, 2)
	assert.Equal(t, 3, o.Assertions)
	assert.Contains(t, o.Failures[0].Message, `"foobar"`)
	assert.Equal(t, `"foobar"...`, o.Failures[0].Expected)
}

func Test_eq_failure_contains_diff(t *testing.T) {
	o := single(t, func(t *unitrun.T) {
		t.Check.Eq("first line\nsecond", "first line\nsecond!")
		t.Check.Eq(1, int64(1))
		t.Check.Ne("same", "same")
	})
	require.Len(t, o.Failures, 3)
	assert.Contains(t, o.Failures[0].Message, "-expected +actual")
	assert.Contains(t, o.Failures[0].Message, "second")
	assert.Contains(t, o.Failures[1].Message, "types mismatch int != int64")
	assert.Equal(t, "same", o.Failures[2].Actual)
}

func Test_failing_value_assertions(t *testing.T) {
	o := single(t, func(t *unitrun.T) {
		t.Check.Nil(1)
		t.Check.NotNil(nil)
		t.Check.Contains(42, "3")
		t.Check.Matched("foo", `^bar`)
		t.Check.Matched("foo", `(`)
		t.Check.NoErr(errSentinel)
		t.Check.ErrIs(errors.New("other"), errSentinel)
		t.Check.Panics(func() {})
	})
	require.Len(t, o.Failures, 8)
	assert.Contains(t, o.Failures[4].Message, "invalid regexp")
	assert.Equal(t, "sentinel", o.Failures[5].Actual)
	assert.Equal(t, 0, o.Assertions)
}

const paragraph = `<p>
   some text
</p>`

func Test_pattern_and_error_assertions(t *testing.T) {
	o := single(t, func(t *unitrun.T) {
		t.Check.SpaceMatched(paragraph, "<p>", "some text", "</p>")
		t.Check.StarMatched(paragraph, "p", "me", "x", "/p")
		t.Check.Err(errSentinel)
		t.Check.ErrMatched(fmt.Errorf("open %s: no such file", "a.txt"),
			"open %s: no such file")
	})
	assert.True(t, o.Passed(), o.Failures)
	assert.Equal(t, 4, o.Assertions)

	o = single(t, func(t *unitrun.T) {
		t.Check.SpaceMatched(paragraph, "<p>", "other text", "</p>")
		t.Check.StarMatched(paragraph, "/p", "p")
		t.Check.Err(42)
		t.Check.ErrMatched("no error", "no")
		t.Check.ErrMatched(errSentinel, "other %s")
		t.Check.ErrMatched(errSentinel, "(")
	})
	require.Len(t, o.Failures, 6)
	assert.Equal(t, `<p>\s*other text\s*</p>`, o.Failures[0].Expected)
	assert.Equal(t, "int", o.Failures[2].Actual)
	assert.Equal(t, "string", o.Failures[3].Actual)
	assert.Equal(t, "other .*?", o.Failures[4].Expected)
	assert.Contains(t, o.Failures[5].Message, "invalid regexp")
	assert.Equal(t, 0, o.Assertions)
}

func Test_negated_pattern_assertions(t *testing.T) {
	o := single(t, func(t *unitrun.T) {
		t.Check.Not.Contains("foobar", "baz")
		t.Check.Not.Matched("foo", `\d`)
		t.Check.Not.SpaceMatched("a b", "a", "c")
		t.Check.Not.StarMatched("abc", "c", "a")
	})
	assert.True(t, o.Passed(), o.Failures)
	assert.Equal(t, 4, o.Assertions)

	o = single(t, func(t *unitrun.T) {
		t.Check.Not.Contains("foobar", "oba")
		t.Check.Not.Matched("foo42", `\d`)
		t.Check.Not.Matched("foo", `(`)
		t.Check.Not.SpaceMatched("a  b", "a", "b")
		t.Check.Not.StarMatched("abc", "a", "c")
	})
	require.Len(t, o.Failures, 5)
	assert.Equal(t, `"foobar" does contain "oba"`, o.Failures[0].Message)
	assert.Equal(t, `regexp "\\d" matches "foo42"`, o.Failures[1].Message)
	assert.Contains(t, o.Failures[2].Message, "invalid regexp")
	for _, f := range o.Failures {
		assert.False(t, f.Fatal)
	}
}

func Test_negated_require_aborts_the_test(t *testing.T) {
	after := 0
	o := single(t, func(t *unitrun.T) {
		t.Require.Not.Contains("foo", "o")
		after++
	})
	assert.Equal(t, 0, after)
	require.Len(t, o.Failures, 1)
	assert.True(t, o.Failures[0].Fatal)
	assert.True(t, strings.HasSuffix(o.Failures[0].File, "assert_test.go"))
}

func Test_fatal_assertion_inside_panics_aborts_test(t *testing.T) {
	after := 0
	o := single(t, func(t *unitrun.T) {
		t.Check.Panics(func() { t.Require.True(false) })
		after++
	})
	assert.Equal(t, 0, after)
	require.Len(t, o.Failures, 1)
	assert.True(t, o.Failures[0].Fatal)
}

func Test_assertion_reports_if_it_is_fatal(t *testing.T) {
	single(t, func(tt *unitrun.T) {
		assert.False(t, tt.Check.Fatal())
		assert.True(t, tt.Require.Fatal())
	})
}

func Test_op_string(t *testing.T) {
	assert.Equal(t, ">=", unitrun.GE.String())
	assert.Equal(t, "!=", unitrun.NE.String())
	assert.Equal(t, "op(9)", unitrun.Op(9).String())
}
