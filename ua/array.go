// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

import (
	"fmt"
	"reflect"
)

// NewArray returns a slice of n zero values of the type. For n == 0 the
// slice is empty, not nil.
func NewArray(n int, typ *DataType) any {
	return reflect.MakeSlice(reflect.SliceOf(typ.goType), n, n).Interface()
}

// CopyArray returns a deep copy of the slice. A nil slice is copied as nil.
func CopyArray(slice any, typ *DataType) (any, error) {
	src, ok := sliceOf(slice, typ)
	if !ok {
		return nil, BadTypeMismatch
	}
	dst := reflect.New(src.Type()).Elem()
	if err := copyArray(dst, src, typ, HeapAllocator); err != nil {
		clearArray(dst, typ, HeapAllocator)
		return nil, err
	}
	return dst.Interface(), nil
}

func slicePtrOf(p any, typ *DataType) (reflect.Value, bool) {
	rv := reflect.ValueOf(p)
	if typ == nil || rv.Kind() != reflect.Pointer || rv.IsNil() ||
		rv.Type().Elem().Kind() != reflect.Slice || rv.Type().Elem().Elem() != typ.goType {
		return reflect.Value{}, false
	}
	return rv.Elem(), true
}

// ResizeArray changes the length of the slice pointed to by p. Removed
// elements are cleared, added elements are zero.
func ResizeArray(p any, n int, typ *DataType) error {
	s, ok := slicePtrOf(p, typ)
	if !ok || n < 0 {
		return BadInvalidArgument
	}
	l := s.Len()
	switch {
	case n < l:
		for i := n; i < l; i++ {
			clearValue(s.Index(i), typ, HeapAllocator)
		}
		s.Set(s.Slice(0, n))
	case n > l:
		grown := reflect.MakeSlice(s.Type(), n, n)
		reflect.Copy(grown, s)
		s.Set(grown)
	default:
		if s.IsNil() {
			s.Set(reflect.MakeSlice(s.Type(), 0, 0))
		}
	}
	return nil
}

// AppendArray moves the value pointed to by elem to the end of the slice
// pointed to by p. The value at elem is reset to its zero value.
func AppendArray(p any, elem any, typ *DataType) error {
	s, ok := slicePtrOf(p, typ)
	if !ok {
		return BadInvalidArgument
	}
	e, ok := valueOf(elem, typ)
	if !ok {
		return BadTypeMismatch
	}
	s.Set(reflect.Append(s, e))
	e.SetZero()
	return nil
}

// AppendArrayCopy appends a deep copy of the value pointed to by elem.
func AppendArrayCopy(p any, elem any, typ *DataType) error {
	s, ok := slicePtrOf(p, typ)
	if !ok {
		return BadInvalidArgument
	}
	e, ok := valueOf(elem, typ)
	if !ok {
		return BadTypeMismatch
	}
	c := reflect.New(typ.goType).Elem()
	if err := copyValue(c, e, typ, HeapAllocator); err != nil {
		clearValue(c, typ, HeapAllocator)
		return err
	}
	s.Set(reflect.Append(s, c))
	return nil
}

// ClearArray clears every element of the slice pointed to by p and sets the
// slice to nil.
func ClearArray(p any, typ *DataType) {
	s, ok := slicePtrOf(p, typ)
	if !ok {
		panic(fmt.Sprintf("ua: ClearArray of %T with data type %s", p, typ))
	}
	clearArray(s, typ, HeapAllocator)
}
