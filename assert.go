// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package unitrun

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// Assert provides a test's assertions.  A T instance has two of them:
// T.Check whose failing assertions are recorded while the test
// continues and T.Require whose failing assertions are recorded and
// abort the test.  Each assertion returns true iff it passed and
// accepts optional trailing message arguments replacing its default
// failure message; a string first argument followed by further
// arguments is used as format string.
type Assert struct {
	t     *T
	fatal bool

	// Not provides the negations of the pattern assertions.
	Not Not
}

func newAssert(t *T, fatal bool) Assert {
	return Assert{t: t, fatal: fatal, Not: Not{t: t, fatal: fatal}}
}

// Fatal reports if a's failing assertions abort the test.
func (a Assert) Fatal() bool { return a.fatal }

func message(def string, msg []interface{}) string {
	if len(msg) == 0 {
		return def
	}
	if format, ok := msg[0].(string); ok && len(msg) > 1 {
		return fmt.Sprintf(format, msg[1:]...)
	}
	return fmt.Sprint(msg...)
}

func (a Assert) failed(
	def string, msg []interface{}, expected, actual string,
) {
	a.t.fail(a.fatal, message(def, msg), expected, actual)
}

func (a Assert) passed() bool {
	a.t.pass()
	return true
}

// trueErr default message for a failed True-assertion.
const trueErr = "expected given value to be true"

// True fails iff given value is false.
func (a Assert) True(value bool, msg ...interface{}) bool {
	if value {
		return a.passed()
	}
	a.failed(trueErr, msg, "true", "false")
	return false
}

// falseErr default message for a failed False-assertion.
const falseErr = "expected given value to be false"

// False fails iff given value is true.
func (a Assert) False(value bool, msg ...interface{}) bool {
	if !value {
		return a.passed()
	}
	a.failed(falseErr, msg, "false", "true")
	return false
}

// StringRepresentation documents what a string representation of any
// type is:
//   - the string if it is of type string,
//   - the return value of String if the Stringer interface is
//     implemented,
//   - fmt.Sprintf("%v", value) in all other cases.
type StringRepresentation interface{}

func toString(value interface{}) string {
	switch value := value.(type) {
	case string:
		return value
	case fmt.Stringer:
		return value.String()
	default:
		return fmt.Sprintf("%v", value)
	}
}

// Eq fails iff given values are not deeply equal.  The failure message
// contains a diff of the values' string representations.
func (a Assert) Eq(expected, actual interface{}, msg ...interface{}) bool {
	if reflect.DeepEqual(expected, actual) {
		return a.passed()
	}
	exp, act := toString(expected), toString(actual)
	def := "expected values to be equal"
	switch {
	case fmt.Sprintf("%T", expected) != fmt.Sprintf("%T", actual):
		def = fmt.Sprintf("types mismatch %T != %T", expected, actual)
	case exp != act:
		def = fmt.Sprintf("%s: (-expected +actual)\n%s",
			def, cmp.Diff(exp, act))
	}
	a.failed(def, msg, exp, act)
	return false
}

// Ne fails iff given values are deeply equal.
func (a Assert) Ne(unexpected, actual interface{}, msg ...interface{}) bool {
	if !reflect.DeepEqual(unexpected, actual) {
		return a.passed()
	}
	a.failed("expected values to differ", msg,
		"!= "+toString(unexpected), toString(actual))
	return false
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan,
		reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return v.IsNil()
	}
	return false
}

// Nil fails iff given value is neither nil nor a nil pointer, map,
// slice, channel, function or interface.
func (a Assert) Nil(value interface{}, msg ...interface{}) bool {
	if isNil(value) {
		return a.passed()
	}
	a.failed("expected nil", msg, "nil", toString(value))
	return false
}

// NotNil fails iff Nil would pass for given value.
func (a Assert) NotNil(value interface{}, msg ...interface{}) bool {
	if !isNil(value) {
		return a.passed()
	}
	a.failed("expected non-nil value", msg, "not nil", "nil")
	return false
}

// Cmp asserts "lhs op rhs" by the natural ordering of the operands.
// Integer and float operands of any type are compared by their values,
// e.g. a uint8 variable with an untyped constant; strings compare with
// strings.  Any other operand fails the assertion as incomparable.  Use
// [Compare] to have operand types checked at compile time.
func (a Assert) Cmp(
	lhs interface{}, op Op, rhs interface{}, msg ...interface{},
) bool {
	c, err := compareValues(lhs, rhs)
	if err != nil {
		a.failed(err.Error(), msg,
			fmt.Sprintf("%s %v", op, rhs), fmt.Sprintf("%v", lhs))
		return false
	}
	if op.holds(c) {
		return a.passed()
	}
	a.relFailed(lhs, op, rhs, msg)
	return false
}

func (a Assert) relFailed(
	lhs interface{}, op Op, rhs interface{}, msg []interface{},
) {
	a.failed(fmt.Sprintf("expected %v %s %v", lhs, op, rhs), msg,
		fmt.Sprintf("%s %v", op, rhs), fmt.Sprintf("%v", lhs))
}

// EQ asserts lhs == rhs (see Cmp).
func (a Assert) EQ(lhs, rhs interface{}, msg ...interface{}) bool {
	return a.Cmp(lhs, EQ, rhs, msg...)
}

// NE asserts lhs != rhs (see Cmp).
func (a Assert) NE(lhs, rhs interface{}, msg ...interface{}) bool {
	return a.Cmp(lhs, NE, rhs, msg...)
}

// LT asserts lhs < rhs (see Cmp).
func (a Assert) LT(lhs, rhs interface{}, msg ...interface{}) bool {
	return a.Cmp(lhs, LT, rhs, msg...)
}

// LE asserts lhs <= rhs (see Cmp).
func (a Assert) LE(lhs, rhs interface{}, msg ...interface{}) bool {
	return a.Cmp(lhs, LE, rhs, msg...)
}

// GT asserts lhs > rhs (see Cmp).
func (a Assert) GT(lhs, rhs interface{}, msg ...interface{}) bool {
	return a.Cmp(lhs, GT, rhs, msg...)
}

// GE asserts lhs >= rhs (see Cmp).
func (a Assert) GE(lhs, rhs interface{}, msg ...interface{}) bool {
	return a.Cmp(lhs, GE, rhs, msg...)
}

// StrEq fails iff given strings differ byte-wise.
func (a Assert) StrEq(expected, actual string, msg ...interface{}) bool {
	if expected == actual {
		return a.passed()
	}
	a.failed(fmt.Sprintf("expected %q, got %q", expected, actual), msg,
		strconv.Quote(expected), strconv.Quote(actual))
	return false
}

// StrNe fails iff given strings are byte-wise equal.
func (a Assert) StrNe(unexpected, actual string, msg ...interface{}) bool {
	if unexpected != actual {
		return a.passed()
	}
	a.failed(fmt.Sprintf("expected strings to differ, both %q", actual),
		msg, "!= "+strconv.Quote(unexpected), strconv.Quote(actual))
	return false
}

// SubStrEq compares actual bounded by the length of expected with
// expected, i.e. it passes iff expected is a prefix of actual:
//
//	t.Check.SubStrEq("foo", "foobar") // passes
//	t.Check.SubStrEq("foobar", "foo") // fails
func (a Assert) SubStrEq(expected, actual string, msg ...interface{}) bool {
	if strings.HasPrefix(actual, expected) {
		return a.passed()
	}
	a.failed(fmt.Sprintf("expected %q to start with %q", actual, expected),
		msg, strconv.Quote(expected)+"...", strconv.Quote(actual))
	return false
}

// SubStrNe negates SubStrEq: it fails iff unexpected is a prefix of
// actual.
func (a Assert) SubStrNe(unexpected, actual string, msg ...interface{}) bool {
	if !strings.HasPrefix(actual, unexpected) {
		return a.passed()
	}
	a.failed(fmt.Sprintf("expected %q not to start with %q",
		actual, unexpected), msg,
		"!= "+strconv.Quote(unexpected)+"...", strconv.Quote(actual))
	return false
}

// containsErr default message for failed 'Contains'-assertion.
const containsErr = "%q doesn't contain %q"

// Contains fails iff given value's string representation doesn't
// contain given sub-string.
func (a Assert) Contains(
	value StringRepresentation, sub string, msg ...interface{},
) bool {
	str := toString(value)
	if strings.Contains(str, sub) {
		return a.passed()
	}
	a.failed(fmt.Sprintf(containsErr, str, sub), msg,
		"contains "+strconv.Quote(sub), strconv.Quote(str))
	return false
}

// matchedErr default message for failed 'Matched'-assertion.
const matchedErr = "regexp %q doesn't match %q"

// Matched fails iff given regex doesn't compile or doesn't match given
// value's string representation.
func (a Assert) Matched(
	value StringRepresentation, regex string, msg ...interface{},
) bool {
	str := toString(value)
	re, err := regexp.Compile(regex)
	if err != nil {
		a.failed(fmt.Sprintf("invalid regexp: %v", err), msg,
			regex, str)
		return false
	}
	return a.matched(re, str, msg)
}

func (a Assert) matched(
	re *regexp.Regexp, str string, msg []interface{},
) bool {
	if re.MatchString(str) {
		return a.passed()
	}
	a.failed(fmt.Sprintf(matchedErr, re.String(), str), msg,
		re.String(), str)
	return false
}

// SpaceMatched escapes given variadic strings before it joins them with
// the `\s*`-separator and matches the result against given value's
// string representation, e.g.:
//
//	<p>
//	   some text
//	</p>
//
// would be matched by
//
//	t.Check.SpaceMatched(value, "<p>", "some text", "</p>").
//
// SpaceMatched fails iff the matching fails.  It uses its default
// failure message.
func (a Assert) SpaceMatched(
	value StringRepresentation, ss ...string,
) bool {
	return a.matched(reGen(`\s*`, "", ss...), toString(value), nil)
}

// StarMatched escapes given variadic strings before it joins them with
// the `.*?`-separator and matches the result against given value's
// string representation, e.g.:
//
//	<p>
//	   some text
//	</p>
//
// would be matched by
//
//	t.Check.StarMatched(value, "p", "me", "x", "/p").
//
// StarMatched fails iff the matching fails.  It uses its default
// failure message.
func (a Assert) StarMatched(
	value StringRepresentation, ss ...string,
) bool {
	return a.matched(reGen(`.*?`, `(?s)`, ss...), toString(value), nil)
}

// reGen quotes given strings, each line of a multi-line string trimmed,
// and joins them by given separator to a regexp with given flags.
func reGen(sep string, flags string, ss ...string) *regexp.Regexp {
	quoted := []string{}
	for _, s := range ss {
		if strings.Contains(s, "\n") {
			for _, line := range strings.Split(s, "\n") {
				quoted = append(
					quoted, regexp.QuoteMeta(strings.TrimSpace(line)))
			}
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(s))
	}
	return regexp.MustCompile(flags + strings.Join(quoted, sep))
}

// NoErr fails iff given error is not nil.
func (a Assert) NoErr(err error, msg ...interface{}) bool {
	if err == nil {
		return a.passed()
	}
	a.failed(fmt.Sprintf("unexpected error: %v", err), msg,
		"<nil>", err.Error())
	return false
}

// errErr default message for failed "Err"-assertion
const errErr = "given value doesn't implement 'error'"

// Err fails iff given value doesn't implement the error-interface.
func (a Assert) Err(err interface{}, msg ...interface{}) bool {
	if _, ok := err.(error); ok {
		return a.passed()
	}
	a.failed(errErr, msg, "error", fmt.Sprintf("%T", err))
	return false
}

// errMatchedErr default message for failed "ErrMatched"-assertion
const errMatchedErr = "given regexp %q doesn't match %q"

// ErrMatched fails iff given value doesn't implement the
// error-interface or its message isn't matched by given regex.  Each
// "%s" of the regex matches any text, i.e. a format string of the
// expected error matches its messages:
//
//	t.Check.ErrMatched(err, "open %s: no such file")
func (a Assert) ErrMatched(
	err interface{}, regex string, msg ...interface{},
) bool {
	e, ok := err.(error)
	if !ok {
		a.failed(errErr, msg, "error", fmt.Sprintf("%T", err))
		return false
	}
	regex = strings.ReplaceAll(regex, "%s", ".*?")
	re, rErr := regexp.Compile(regex)
	if rErr != nil {
		a.failed(fmt.Sprintf("invalid regexp: %v", rErr), msg,
			regex, e.Error())
		return false
	}
	if re.MatchString(e.Error()) {
		return a.passed()
	}
	a.failed(fmt.Sprintf(errMatchedErr, regex, e.Error()), msg,
		regex, e.Error())
	return false
}

// ErrIs fails iff given error doesn't wrap given target.
func (a Assert) ErrIs(err, target error, msg ...interface{}) bool {
	if errors.Is(err, target) {
		return a.passed()
	}
	a.failed(fmt.Sprintf("given error doesn't wrap target: %v",
		target), msg, fmt.Sprintf("%v", target), fmt.Sprintf("%v", err))
	return false
}

// Panics fails iff given function doesn't panic.  An abort of a fatal
// assertion inside given function is not considered a panic and aborts
// the calling test as usual.
func (a Assert) Panics(f func(), msg ...interface{}) (panicked bool) {
	defer func() {
		r := recover()
		if _, ok := r.(abort); ok {
			panic(r)
		}
		if r != nil {
			panicked = a.passed()
			return
		}
		a.failed("given function doesn't panic", msg,
			"panic", "no panic")
	}()
	f()
	return false
}

// Not provides the negated pattern assertions of an Assert instance;
// they are recorded respectively abort like their Assert's:
//
//	t.Check.Not.Contains("foobar", "baz") // passes
//	t.Require.Not.Matched("foo42", `\d`) // fails and aborts
//
// The other assertions have their negation in Assert, e.g. Ne or
// False.
type Not struct {
	t     *T
	fatal bool
}

func (n Not) assert() Assert { return Assert{t: n.t, fatal: n.fatal} }

// notContainsErr default message for failed Not.Contains-assertion.
const notContainsErr = "%q does contain %q"

// Contains negation fails iff given value's string representation
// contains given sub-string.
func (n Not) Contains(
	value StringRepresentation, sub string, msg ...interface{},
) bool {
	str := toString(value)
	if !strings.Contains(str, sub) {
		return n.assert().passed()
	}
	n.assert().failed(fmt.Sprintf(notContainsErr, str, sub), msg,
		"not contains "+strconv.Quote(sub), strconv.Quote(str))
	return false
}

// notMatchedErr default message for failed Not.*Matched-assertions.
const notMatchedErr = "regexp %q matches %q"

// Matched negation fails iff given regex doesn't compile or matches
// given value's string representation.
func (n Not) Matched(
	value StringRepresentation, regex string, msg ...interface{},
) bool {
	str := toString(value)
	re, err := regexp.Compile(regex)
	if err != nil {
		n.assert().failed(fmt.Sprintf("invalid regexp: %v", err), msg,
			regex, str)
		return false
	}
	return n.notMatched(re, str, msg)
}

// SpaceMatched negation fails iff Assert.SpaceMatched would pass for
// given arguments.
func (n Not) SpaceMatched(value StringRepresentation, ss ...string) bool {
	return n.notMatched(reGen(`\s*`, "", ss...), toString(value), nil)
}

// StarMatched negation fails iff Assert.StarMatched would pass for
// given arguments.
func (n Not) StarMatched(value StringRepresentation, ss ...string) bool {
	return n.notMatched(reGen(`.*?`, `(?s)`, ss...), toString(value), nil)
}

func (n Not) notMatched(
	re *regexp.Regexp, str string, msg []interface{},
) bool {
	if !re.MatchString(str) {
		return n.assert().passed()
	}
	n.assert().failed(fmt.Sprintf(notMatchedErr, re.String(), str), msg,
		"not "+re.String(), str)
	return false
}
