// Copyright 2020 Converter Systems LLC. All rights reserved.

package ua

import (
	"fmt"
	"reflect"
)

// StorageType tells if a container releases its payload when it is cleared.
type StorageType uint8

// StorageTypes
const (
	// StorageOwned payloads are released by Clear.
	StorageOwned StorageType = iota
	// StorageBorrowed payloads belong to someone else, who must keep them
	// alive for as long as the container refers to them.
	StorageBorrowed
)

func (s StorageType) String() string {
	if s == StorageBorrowed {
		return "Borrowed"
	}
	return "Owned"
}

// Variant wraps a scalar or an array of any type.
//
// A Variant is empty if it has no type. A scalar holds a pointer to the value,
// an array holds a slice. A nil slice is an undefined array, a non-nil slice of
// length zero an empty array.
type Variant struct {
	typ             *DataType
	storage         StorageType
	array           bool
	data            any
	arrayDimensions []uint32
}

// NilVariant is the empty Variant.
var NilVariant = Variant{}

// NewVariant returns a Variant holding a value of a Go type found in the
// static type table, e.g. int32, []string or Range. A nil value results in
// an empty Variant.
func NewVariant(value any) (Variant, error) {
	if value == nil {
		return NilVariant, nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice && rv.Type() != bytesType {
		typ, ok := FindDataTypeForGoType(rv.Type().Elem(), nil)
		if !ok {
			return NilVariant, BadTypeMismatch
		}
		return Variant{typ: typ, array: true, data: value}, nil
	}
	typ, ok := FindDataTypeForGoType(rv.Type(), nil)
	if !ok {
		return NilVariant, BadTypeMismatch
	}
	p := reflect.New(rv.Type())
	p.Elem().Set(rv)
	return Variant{typ: typ, data: p.Interface()}, nil
}

// Type returns the DataType of the value, or nil if the Variant is empty.
func (v *Variant) Type() *DataType {
	return v.typ
}

// Storage returns the storage type of the payload.
func (v *Variant) Storage() StorageType {
	return v.storage
}

// Data returns the pointer to a scalar or the slice of an array.
func (v *Variant) Data() any {
	return v.data
}

// Value returns the scalar value or the slice of an array.
func (v *Variant) Value() any {
	if v.typ == nil {
		return nil
	}
	if v.array {
		return v.data
	}
	return reflect.ValueOf(v.data).Elem().Interface()
}

// IsEmpty returns true if the Variant holds no value.
func (v *Variant) IsEmpty() bool {
	return v.typ == nil
}

// IsScalar returns true if the Variant holds a scalar.
func (v *Variant) IsScalar() bool {
	return v.typ != nil && !v.array
}

// IsArray returns true if the Variant holds an array, even an undefined one.
func (v *Variant) IsArray() bool {
	return v.typ != nil && v.array
}

// IsUndefinedArray returns true if the Variant holds an array without length.
func (v *Variant) IsUndefinedArray() bool {
	return v.IsArray() && reflect.ValueOf(v.data).IsNil()
}

// HasScalarType returns true if the Variant holds a scalar of the type.
func (v *Variant) HasScalarType(typ *DataType) bool {
	return v.IsScalar() && v.typ == typ
}

// HasArrayType returns true if the Variant holds an array of the type.
func (v *Variant) HasArrayType(typ *DataType) bool {
	return v.IsArray() && v.typ == typ
}

// ArrayLength returns the number of elements of an array.
func (v *Variant) ArrayLength() int {
	if !v.IsArray() {
		return 0
	}
	return reflect.ValueOf(v.data).Len()
}

// ArrayDimensions returns the length of each dimension of a multi-dimensional array.
func (v *Variant) ArrayDimensions() []uint32 {
	return v.arrayDimensions
}

// SetArrayDimensions sets the dimensions of an array. The product of the
// dimensions must equal the array length.
func (v *Variant) SetArrayDimensions(dims []uint32) error {
	if !v.IsArray() {
		return BadInvalidArgument
	}
	if dims != nil && dimsProduct(dims) != v.ArrayLength() {
		return BadInvalidArgument
	}
	v.arrayDimensions = dims
	return nil
}

func dimsProduct(dims []uint32) int {
	n := 1
	for _, d := range dims {
		n *= int(d)
	}
	return n
}

// SetScalar sets the Variant to the value pointed to by p. The Variant takes
// ownership of the value.
func (v *Variant) SetScalar(p any, typ *DataType) {
	mustValueOf(p, typ, "SetScalar")
	*v = Variant{typ: typ, data: p}
}

// SetScalarNoDelete sets the Variant to the value pointed to by p without
// taking ownership.
func (v *Variant) SetScalarNoDelete(p any, typ *DataType) {
	v.SetScalar(p, typ)
	v.storage = StorageBorrowed
}

// SetScalarCopy sets the Variant to a deep copy of the value pointed to by p.
func (v *Variant) SetScalarCopy(p any, typ *DataType) error {
	src, ok := valueOf(p, typ)
	if !ok {
		return BadTypeMismatch
	}
	tmp := Variant{typ: typ, data: src.Addr().Interface()}
	var dst Variant
	if err := tmp.copyTo(&dst, HeapAllocator); err != nil {
		dst.clearWith(HeapAllocator)
		return err
	}
	*v = dst
	return nil
}

// SetArray sets the Variant to the slice. The Variant takes ownership of the
// elements.
func (v *Variant) SetArray(slice any, typ *DataType) {
	mustSliceOf(slice, typ, "SetArray")
	*v = Variant{typ: typ, array: true, data: slice}
}

// SetArrayNoDelete sets the Variant to the slice without taking ownership.
func (v *Variant) SetArrayNoDelete(slice any, typ *DataType) {
	v.SetArray(slice, typ)
	v.storage = StorageBorrowed
}

// SetArrayCopy sets the Variant to a deep copy of the slice.
func (v *Variant) SetArrayCopy(slice any, typ *DataType) error {
	if _, ok := sliceOf(slice, typ); !ok {
		return BadTypeMismatch
	}
	tmp := Variant{typ: typ, array: true, data: slice}
	var dst Variant
	if err := tmp.copyTo(&dst, HeapAllocator); err != nil {
		dst.clearWith(HeapAllocator)
		return err
	}
	*v = dst
	return nil
}

func sliceOf(slice any, typ *DataType) (reflect.Value, bool) {
	rv := reflect.ValueOf(slice)
	if typ == nil || rv.Kind() != reflect.Slice || rv.Type().Elem() != typ.goType {
		return reflect.Value{}, false
	}
	return rv, true
}

func mustSliceOf(slice any, typ *DataType, op string) reflect.Value {
	rv, ok := sliceOf(slice, typ)
	if !ok {
		panic(fmt.Sprintf("ua: %s of %T with data type %s", op, slice, typ))
	}
	return rv
}

// copyTo deep copies into dst. Every allocation is stored in dst as soon as
// it is made, so clearing dst after a failure releases all of them.
func (v *Variant) copyTo(dst *Variant, a Allocator) error {
	*dst = Variant{typ: v.typ, array: v.array}
	if v.typ == nil {
		return nil
	}
	rv := reflect.ValueOf(v.data)
	if !v.array {
		p, err := allocNew(a, v.typ.goType)
		if err != nil {
			dst.typ = nil
			return err
		}
		dst.data = p.Interface()
		return copyValue(p.Elem(), rv.Elem(), v.typ, a)
	}
	if rv.IsNil() {
		dst.data = v.data
		return nil
	}
	s, err := allocSlice(a, rv.Type(), rv.Len())
	if err != nil {
		dst.data = reflect.Zero(rv.Type()).Interface()
		return err
	}
	dst.data = s.Interface()
	if v.typ.pointerFree {
		reflect.Copy(s, rv)
	} else {
		for i := 0; i < rv.Len(); i++ {
			if err := copyValue(s.Index(i), rv.Index(i), v.typ, a); err != nil {
				return err
			}
		}
	}
	if v.arrayDimensions != nil {
		dims, err := allocSlice(a, uint32sType, len(v.arrayDimensions))
		if err != nil {
			return err
		}
		dst.arrayDimensions = dims.Interface().([]uint32)
		copy(dst.arrayDimensions, v.arrayDimensions)
	}
	return nil
}

var uint32sType = reflect.TypeOf([]uint32(nil))

// clearWith releases an owned payload and empties the Variant.
func (v *Variant) clearWith(a Allocator) {
	if v.storage == StorageOwned && v.typ != nil && v.data != nil {
		rv := reflect.ValueOf(v.data)
		if v.array {
			if !rv.IsNil() {
				if !v.typ.pointerFree {
					for i := 0; i < rv.Len(); i++ {
						clearValue(rv.Index(i), v.typ, a)
					}
				}
				freeSlice(a, rv)
			}
		} else if !rv.IsNil() {
			clearValue(rv.Elem(), v.typ, a)
			a.Free(rv)
		}
		if v.arrayDimensions != nil {
			freeSlice(a, reflect.ValueOf(v.arrayDimensions))
		}
	}
	*v = Variant{}
}

// Order orders empty before scalar before array, Variants of different types
// by their type, and arrays shortlex.
func (v *Variant) Order(other *Variant) Order {
	switch {
	case v.typ == nil && other.typ == nil:
		return OrderEq
	case v.typ == nil:
		return OrderLess
	case other.typ == nil:
		return OrderMore
	}
	if o := orderDataType(v.typ, other.typ); o != OrderEq {
		return o
	}
	if v.array != other.array {
		return orderBool(v.array, other.array)
	}
	x, y := reflect.ValueOf(v.data), reflect.ValueOf(other.data)
	if !v.array {
		return orderValue(x.Elem(), y.Elem(), v.typ)
	}
	if o := orderArray(x, y, v.typ); o != OrderEq {
		return o
	}
	return orderArray(reflect.ValueOf(v.arrayDimensions), reflect.ValueOf(other.arrayDimensions), TypeUInt32)
}

// CopyRange copies the elements selected by the range into dst. An
// additional last dimension selects a substring of each element of a
// String, ByteString or XmlElement array; a one-dimensional range selects a
// substring of such a scalar.
func (v *Variant) CopyRange(dst *Variant, r NumericRange) error {
	if v.typ == nil || len(r) == 0 {
		return BadIndexRangeInvalid
	}
	stringKind := v.typ.Kind == KindString || v.typ.Kind == KindByteString || v.typ.Kind == KindXMLElement
	if !v.array {
		if !stringKind || len(r) != 1 {
			return BadIndexRangeInvalid
		}
		s, err := substring(reflect.ValueOf(v.data).Elem().String(), r[0], true)
		if err != nil {
			return err
		}
		p := reflect.New(v.typ.goType)
		p.Elem().SetString(s)
		*dst = Variant{typ: v.typ, data: p.Interface()}
		return nil
	}
	rv := reflect.ValueOf(v.data)
	dims := v.arrayDimensions
	if dims == nil {
		dims = []uint32{uint32(rv.Len())}
	} else if dimsProduct(dims) != rv.Len() {
		return BadIndexRangeInvalid
	}
	var inner *NumericRangeDimension
	if len(r) == len(dims)+1 && stringKind {
		inner = &r[len(r)-1]
		r = r[:len(r)-1]
	}
	idx, resultDims, err := rangeIndices(dims, r)
	if err != nil {
		return err
	}
	s := reflect.MakeSlice(rv.Type(), len(idx), len(idx))
	out := Variant{typ: v.typ, array: true, data: s.Interface()}
	if len(dims) > 1 {
		out.arrayDimensions = resultDims
	}
	for i, k := range idx {
		if inner != nil {
			sub, _ := substring(rv.Index(k).String(), *inner, false)
			s.Index(i).SetString(sub)
			continue
		}
		if err := copyValue(s.Index(i), rv.Index(k), v.typ, HeapAllocator); err != nil {
			out.clearWith(HeapAllocator)
			return err
		}
	}
	*dst = out
	return nil
}

// SetRange moves the elements of the slice into the range of the array. The
// elements replaced are cleared unless the array is borrowed.
func (v *Variant) SetRange(slice any, r NumericRange) error {
	return v.setRange(slice, r, false)
}

// SetRangeCopy copies the elements of the slice into the range of the array.
func (v *Variant) SetRangeCopy(slice any, r NumericRange) error {
	return v.setRange(slice, r, true)
}

func (v *Variant) setRange(slice any, r NumericRange, deep bool) error {
	if !v.IsArray() {
		return BadIndexRangeInvalid
	}
	src, ok := sliceOf(slice, v.typ)
	if !ok {
		return BadTypeMismatch
	}
	rv := reflect.ValueOf(v.data)
	dims := v.arrayDimensions
	if dims == nil {
		dims = []uint32{uint32(rv.Len())}
	} else if dimsProduct(dims) != rv.Len() {
		return BadIndexRangeInvalid
	}
	idx, _, err := rangeIndices(dims, r)
	if err != nil {
		return err
	}
	if len(idx) != src.Len() {
		return BadIndexRangeInvalid
	}
	if deep {
		tmp := reflect.MakeSlice(src.Type(), src.Len(), src.Len())
		for i := 0; i < src.Len(); i++ {
			if err := copyValue(tmp.Index(i), src.Index(i), v.typ, HeapAllocator); err != nil {
				return err
			}
		}
		src = tmp
	}
	for i, k := range idx {
		if v.storage == StorageOwned {
			clearValue(rv.Index(k), v.typ, HeapAllocator)
		}
		rv.Index(k).Set(src.Index(i))
	}
	return nil
}

// unwrapExtensionObjects replaces an array of ExtensionObjects that all hold
// decoded values of one type with an array of that type.
func (v *Variant) unwrapExtensionObjects(a Allocator) error {
	eos, ok := v.data.([]ExtensionObject)
	if !ok || len(eos) == 0 {
		return nil
	}
	typ := eos[0].typ
	for i := range eos {
		if eos[i].encoding != ExtensionObjectEncodingDecoded || eos[i].typ != typ {
			return nil
		}
	}
	s, err := allocSlice(a, reflect.SliceOf(typ.goType), len(eos))
	if err != nil {
		return err
	}
	for i := range eos {
		p := reflect.ValueOf(eos[i].data)
		s.Index(i).Set(p.Elem())
		a.Free(p)
		eos[i] = ExtensionObject{}
	}
	freeSlice(a, reflect.ValueOf(eos))
	v.typ = typ
	v.data = s.Interface()
	return nil
}
