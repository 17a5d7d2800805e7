// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

import (
	"strconv"
	"strings"
)

// NumericRangeDimension selects the indices Min to Max of one dimension.
type NumericRangeDimension struct {
	Min uint32
	Max uint32
}

// NumericRange selects a sub-array, one dimension after the other.
type NumericRange []NumericRangeDimension

// ParseNumericRange parses the text form, e.g. "1:2,0:3,5". A single index
// is shorthand for a range of length one.
func ParseNumericRange(s string) (NumericRange, error) {
	if s == "" {
		return nil, BadIndexRangeInvalid
	}
	parts := strings.Split(s, ",")
	r := make(NumericRange, 0, len(parts))
	for _, part := range parts {
		lo, hi, found := strings.Cut(part, ":")
		min, err := parseRangeIndex(lo)
		if err != nil {
			return nil, err
		}
		max := min
		if found {
			if max, err = parseRangeIndex(hi); err != nil {
				return nil, err
			}
			if max < min {
				return nil, BadIndexRangeInvalid
			}
		}
		r = append(r, NumericRangeDimension{min, max})
	}
	return r, nil
}

func parseRangeIndex(s string) (uint32, error) {
	v, err := parseUint(s, 32)
	if err != nil {
		return 0, BadIndexRangeInvalid
	}
	return uint32(v), nil
}

// String returns the text form.
func (r NumericRange) String() string {
	b := new(strings.Builder)
	for i, d := range r {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(uint64(d.Min), 10))
		if d.Max != d.Min {
			b.WriteByte(':')
			b.WriteString(strconv.FormatUint(uint64(d.Max), 10))
		}
	}
	return b.String()
}

// rangeIndices returns the flat indices selected by the range in row-major
// order and the dimensions of the selection. A maximum beyond the end of a
// dimension is clamped, a minimum beyond the end is invalid.
func rangeIndices(dims []uint32, r NumericRange) ([]int, []uint32, error) {
	if len(r) != len(dims) || len(dims) == 0 {
		return nil, nil, BadIndexRangeInvalid
	}
	n := len(dims)
	mins := make([]int, n)
	counts := make([]int, n)
	strides := make([]int, n)
	total := 1
	for i, d := range r {
		if d.Min > d.Max || d.Min >= dims[i] {
			return nil, nil, BadIndexRangeInvalid
		}
		max := d.Max
		if max >= dims[i] {
			max = dims[i] - 1
		}
		mins[i] = int(d.Min)
		counts[i] = int(max-d.Min) + 1
		total *= counts[i]
	}
	strides[n-1] = 1
	for i := n - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * int(dims[i+1])
	}
	idx := make([]int, 0, total)
	counter := make([]int, n)
	for k := 0; k < total; k++ {
		off := 0
		for i := range counter {
			off += (mins[i] + counter[i]) * strides[i]
		}
		idx = append(idx, off)
		for i := n - 1; i >= 0; i-- {
			counter[i]++
			if counter[i] < counts[i] {
				break
			}
			counter[i] = 0
		}
	}
	resultDims := make([]uint32, n)
	for i, c := range counts {
		resultDims[i] = uint32(c)
	}
	return idx, resultDims, nil
}

// substring returns a copy of the bytes selected by the dimension. If strict
// is not set, a selection beyond the end results in an empty string.
func substring(s string, d NumericRangeDimension, strict bool) (string, error) {
	if d.Min > d.Max || int(d.Min) >= len(s) {
		if strict {
			return "", BadIndexRangeInvalid
		}
		return "", nil
	}
	max := int(d.Max)
	if max >= len(s) {
		max = len(s) - 1
	}
	return strings.Clone(s[d.Min : max+1]), nil
}
