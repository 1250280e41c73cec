// Package indicator computes technical indicators over a daily price series.
//
// Every series function returns one Value per input bar, aligned by index.
// Dates inside an indicator's warm-up window carry an undefined Value rather
// than a NaN, so callers must check before using the number.
package indicator

import "fmt"

// Value is a per-date indicator result: either a defined number or undefined
// (insufficient history).
type Value struct {
	num     float64
	defined bool
}

func Defined(v float64) Value { return Value{num: v, defined: true} }

func Undefined() Value { return Value{} }

func (v Value) Defined() bool { return v.defined }

// Float returns the numeric value; ok is false for undefined values.
func (v Value) Float() (float64, bool) { return v.num, v.defined }

// Must returns the numeric value and panics on undefined. Test helper.
func (v Value) Must() float64 {
	if !v.defined {
		panic("indicator: undefined value")
	}
	return v.num
}

func (v Value) String() string {
	if !v.defined {
		return "-"
	}
	return fmt.Sprintf("%.4f", v.num)
}

func undefinedSeries(n int) []Value { return make([]Value, n) }
