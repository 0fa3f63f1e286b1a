// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package unitrun

import (
	"fmt"
	"math"
	"math/big"
	"reflect"

	"golang.org/x/exp/constraints"
)

// Op is a relational operator of a comparison assertion.
type Op uint8

const (
	EQ Op = iota
	NE
	LT
	LE
	GT
	GE
)

func (o Op) String() string {
	switch o {
	case EQ:
		return "=="
	case NE:
		return "!="
	case LT:
		return "<"
	case LE:
		return "<="
	case GT:
		return ">"
	case GE:
		return ">="
	}
	return fmt.Sprintf("op(%d)", o)
}

// holds reports if o holds for a three-way comparison result c.
func (o Op) holds(c int) bool {
	switch o {
	case EQ:
		return c == 0
	case NE:
		return c != 0
	case LT:
		return c < 0
	case LE:
		return c <= 0
	case GT:
		return c == 1
	case GE:
		return c == 0 || c == 1
	}
	return false
}

// unordered is the three-way comparison result if an operand is NaN;
// only NE holds for it.
const unordered = 2

func ordered[V constraints.Ordered](a, b V) int {
	switch {
	case a != a || b != b:
		return unordered
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Compare asserts "lhs op rhs" using the natural ordering of V, e.g.
//
//	unitrun.Compare(t.Check, 42, unitrun.GE, 13)
//
// A failure is recorded (and aborts if a is fatal) iff the relation
// doesn't hold.  Compare returns true iff the relation holds.
func Compare[V constraints.Ordered](
	a Assert, lhs V, op Op, rhs V, msg ...interface{},
) bool {
	if op.holds(ordered(lhs, rhs)) {
		a.t.pass()
		return true
	}
	a.relFailed(lhs, op, rhs, msg)
	return false
}

// errIncomparable is returned by compareValues for operands without
// common natural ordering.
type errIncomparable struct{ a, b reflect.Type }

func (e errIncomparable) Error() string {
	return fmt.Sprintf("incomparable types %v and %v", e.a, e.b)
}

// numeric classes of compareValues' operands
const (
	noClass = iota
	intClass
	uintClass
	floatClass
	stringClass
)

func classOf(v reflect.Value) int {
	if !v.IsValid() {
		return noClass
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32,
		reflect.Int64:
		return intClass
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return uintClass
	case reflect.Float32, reflect.Float64:
		return floatClass
	case reflect.String:
		return stringClass
	}
	return noClass
}

// compareValues compares two operands by their natural ordering.  Any
// two integers or floats are compared by value regardless of their
// types, e.g. uint8(3) == 3; strings are compared with strings.  All
// other operands are incomparable.
func compareValues(a, b interface{}) (int, error) {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	ca, cb := classOf(va), classOf(vb)
	if ca == noClass || cb == noClass ||
		(ca == stringClass) != (cb == stringClass) {
		return 0, errIncomparable{typeOf(va), typeOf(vb)}
	}
	switch {
	case ca == stringClass:
		return ordered(va.String(), vb.String()), nil
	case ca == intClass && cb == intClass:
		return ordered(va.Int(), vb.Int()), nil
	case ca == uintClass && cb == uintClass:
		return ordered(va.Uint(), vb.Uint()), nil
	case ca == intClass && cb == uintClass:
		if va.Int() < 0 {
			return -1, nil
		}
		return ordered(uint64(va.Int()), vb.Uint()), nil
	case ca == uintClass && cb == intClass:
		if vb.Int() < 0 {
			return 1, nil
		}
		return ordered(va.Uint(), uint64(vb.Int())), nil
	}
	return compareFloats(va, ca, vb, cb), nil
}

// compareFloats compares two numbers of which at least one is a float
// exactly, i.e. without rounding a large integer to a float64.
func compareFloats(
	va reflect.Value, ca int, vb reflect.Value, cb int,
) int {
	fa, nanA := bigFloat(va, ca)
	fb, nanB := bigFloat(vb, cb)
	if nanA || nanB {
		return unordered
	}
	return fa.Cmp(fb)
}

func bigFloat(v reflect.Value, class int) (_ *big.Float, nan bool) {
	switch class {
	case intClass:
		return new(big.Float).SetInt64(v.Int()), false
	case uintClass:
		return new(big.Float).SetUint64(v.Uint()), false
	}
	f := v.Float()
	if math.IsNaN(f) {
		return nil, true
	}
	return big.NewFloat(f), false
}

func typeOf(v reflect.Value) reflect.Type {
	if !v.IsValid() {
		return nil
	}
	return v.Type()
}
