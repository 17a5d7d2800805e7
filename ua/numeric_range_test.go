// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua_test

import (
	"testing"

	"github.com/awcullen/uatypes/ua"
	"gotest.tools/assert"
)

func TestParseNumericRange(t *testing.T) {
	cases := []struct {
		in   string
		want ua.NumericRange
	}{
		{"5", ua.NumericRange{{Min: 5, Max: 5}}},
		{"1:2", ua.NumericRange{{Min: 1, Max: 2}}},
		{"1:2,0:3,5", ua.NumericRange{{Min: 1, Max: 2}, {Min: 0, Max: 3}, {Min: 5, Max: 5}}},
		{"0:4294967295", ua.NumericRange{{Min: 0, Max: 4294967295}}},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			r, err := ua.ParseNumericRange(c.in)
			assert.NilError(t, err)
			assert.DeepEqual(t, r, c.want)
			assert.Equal(t, r.String(), c.in)
		})
	}
}

func TestParseNumericRangeErrors(t *testing.T) {
	for _, in := range []string{"", "2:1", "a", "1:", ":1", "-1", "1,,2", "1:2:3", "4294967296"} {
		t.Run(in, func(t *testing.T) {
			_, err := ua.ParseNumericRange(in)
			assert.Equal(t, err, ua.BadIndexRangeInvalid)
		})
	}
}

func mustRange(s string) ua.NumericRange {
	r, err := ua.ParseNumericRange(s)
	if err != nil {
		panic(err)
	}
	return r
}

func TestVariantCopyRange(t *testing.T) {
	var matrix ua.Variant
	matrix.SetArray([]int32{1, 2, 3, 4, 5, 6}, ua.TypeInt32)
	assert.NilError(t, matrix.SetArrayDimensions([]uint32{2, 3}))

	cases := []struct {
		name     string
		in       ua.Variant
		r        string
		want     any
		wantDims []uint32
	}{
		{"slice", mustVariant([]int32{0, 1, 2, 3, 4, 5}), "1:3", []int32{1, 2, 3}, nil},
		{"single index", mustVariant([]int32{0, 1, 2}), "2", []int32{2}, nil},
		{"clamped", mustVariant([]int32{0, 1, 2, 3, 4, 5}), "4:10", []int32{4, 5}, nil},
		{"matrix column", matrix, "0:1,1", []int32{2, 5}, []uint32{2, 1}},
		{"matrix block", matrix, "1,1:2", []int32{5, 6}, []uint32{1, 2}},
		{"substrings", mustVariant([]string{"abc", "defg"}), "0:1,1:2", []string{"bc", "ef"}, nil},
		{"substring beyond end", mustVariant([]string{"abc", "d"}), "0:1,1:5", []string{"bc", ""}, nil},
		{"scalar substring", mustVariant("hello"), "1:3", "ell", nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var out ua.Variant
			assert.NilError(t, c.in.CopyRange(&out, mustRange(c.r)))
			assert.DeepEqual(t, out.Value(), c.want)
			assert.DeepEqual(t, out.ArrayDimensions(), c.wantDims)
		})
	}
}

func TestVariantCopyRangeErrors(t *testing.T) {
	cases := []struct {
		name string
		in   ua.Variant
		r    string
	}{
		{"beyond end", mustVariant([]int32{0, 1, 2}), "3"},
		{"too many dimensions", mustVariant([]int32{0, 1, 2}), "0,0"},
		{"scalar number", mustVariant(int32(1)), "0"},
		{"scalar substring beyond end", mustVariant("abc"), "5"},
		{"empty", ua.Variant{}, "0"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var out ua.Variant
			assert.Equal(t, c.in.CopyRange(&out, mustRange(c.r)), ua.BadIndexRangeInvalid)
			assert.Assert(t, out.IsEmpty())
		})
	}
}

func TestVariantSetRange(t *testing.T) {
	v := mustVariant([]int32{0, 0, 0, 0})
	assert.NilError(t, v.SetRange([]int32{7, 8}, mustRange("1:2")))
	assert.DeepEqual(t, v.Value(), []int32{0, 7, 8, 0})

	assert.Equal(t, v.SetRange([]int32{1}, mustRange("1:2")), ua.BadIndexRangeInvalid)
	assert.Equal(t, v.SetRange([]string{"a", "b"}, mustRange("1:2")), ua.BadTypeMismatch)

	s := mustVariant([]string{"a", "b", "c"})
	src := []string{"x"}
	assert.NilError(t, s.SetRangeCopy(src, mustRange("2")))
	assert.DeepEqual(t, s.Value(), []string{"a", "b", "x"})

	scalar := mustVariant(int32(1))
	assert.Equal(t, scalar.SetRange([]int32{1}, mustRange("0")), ua.BadIndexRangeInvalid)
}

func TestDataValueCopyRange(t *testing.T) {
	dv := ua.DataValue{Value: mustVariant([]float64{1, 2, 3}), HasValue: true, Status: ua.Uncertain, HasStatus: true}
	var out ua.DataValue
	assert.NilError(t, dv.CopyRange(&out, mustRange("1:2")))
	assert.DeepEqual(t, out.Value.Value(), []float64{2, 3})
	assert.Equal(t, out.StatusCode(), ua.Uncertain)
}
