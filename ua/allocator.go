// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

import (
	"reflect"
	"unsafe"
)

// Allocator provides the storage for the variable-length parts of a value:
// strings, arrays, optional members and the payloads of Variant and
// ExtensionObject. Copy, Clear and the decoders obtain all such storage
// through an Allocator, so a caller may bound or arena-scope the memory of a
// single call.
type Allocator interface {
	// New returns a pointer to a new zero value of typ.
	New(typ reflect.Type) (reflect.Value, error)
	// MakeSlice returns a new zeroed slice of sliceType with length and capacity n.
	MakeSlice(sliceType reflect.Type, n int) (reflect.Value, error)
	// Free releases storage returned by New or MakeSlice. Values that were
	// not obtained from this Allocator are ignored.
	Free(v reflect.Value)
}

// HeapAllocator allocates on the garbage collected heap. Free is a no-op.
var HeapAllocator Allocator = heapAllocator{}

type heapAllocator struct{}

func (heapAllocator) New(typ reflect.Type) (reflect.Value, error) {
	return reflect.New(typ), nil
}

func (heapAllocator) MakeSlice(sliceType reflect.Type, n int) (reflect.Value, error) {
	return reflect.MakeSlice(sliceType, n, n), nil
}

func (heapAllocator) Free(reflect.Value) {}

// LimitedAllocator fails with BadOutOfMemory once the number of bytes in use
// would exceed Limit. Only storage it handed out is counted, and freeing any
// other value leaves InUse unchanged. It is not safe for concurrent use.
type LimitedAllocator struct {
	Limit  int64
	InUse  int64
	parent Allocator
	live   map[uintptr]int64
}

// NewLimitedAllocator returns an Allocator that draws from parent (the heap
// if nil) until limit bytes are in use.
func NewLimitedAllocator(limit int64, parent Allocator) *LimitedAllocator {
	if parent == nil {
		parent = HeapAllocator
	}
	return &LimitedAllocator{Limit: limit, parent: parent}
}

// New implements Allocator.
func (a *LimitedAllocator) New(typ reflect.Type) (reflect.Value, error) {
	size := int64(typ.Size())
	if a.InUse+size > a.Limit {
		return reflect.Value{}, BadOutOfMemory
	}
	v, err := a.parent.New(typ)
	if err != nil {
		return v, err
	}
	a.track(v.Pointer(), size)
	return v, nil
}

// MakeSlice implements Allocator.
func (a *LimitedAllocator) MakeSlice(sliceType reflect.Type, n int) (reflect.Value, error) {
	size := int64(n) * int64(sliceType.Elem().Size())
	if a.InUse+size > a.Limit {
		return reflect.Value{}, BadOutOfMemory
	}
	v, err := a.parent.MakeSlice(sliceType, n)
	if err != nil {
		return v, err
	}
	a.track(v.Pointer(), size)
	return v, nil
}

// track counts size bytes at p. Zero-sized storage may share an address and
// is not tracked.
func (a *LimitedAllocator) track(p uintptr, size int64) {
	if size == 0 {
		return
	}
	if a.live == nil {
		a.live = make(map[uintptr]int64)
	}
	a.live[p] = size
	a.InUse += size
}

// Free implements Allocator.
func (a *LimitedAllocator) Free(v reflect.Value) {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return
		}
	case reflect.Slice:
		if v.Cap() == 0 {
			return
		}
	default:
		return
	}
	size, ok := a.live[v.Pointer()]
	if !ok {
		return
	}
	delete(a.live, v.Pointer())
	a.InUse -= size
	a.parent.Free(v)
}

func allocatorOrHeap(a Allocator) Allocator {
	if a == nil {
		return HeapAllocator
	}
	return a
}

var bytesType = reflect.TypeOf([]byte(nil))

// allocString copies s into storage obtained from the allocator.
func allocString(a Allocator, s string) (string, error) {
	if len(s) == 0 {
		return "", nil
	}
	b, err := allocBytes(a, len(s))
	if err != nil {
		return "", err
	}
	copy(b, s)
	return unsafe.String(&b[0], len(b)), nil
}

func allocBytes(a Allocator, n int) ([]byte, error) {
	v, err := a.MakeSlice(bytesType, n)
	if err != nil {
		return nil, BadOutOfMemory
	}
	return v.Bytes(), nil
}

// freeString returns the storage of a string created by allocString.
func freeString(a Allocator, s string) {
	if len(s) == 0 {
		return
	}
	a.Free(reflect.ValueOf(unsafe.Slice(unsafe.StringData(s), len(s))))
}

// allocSlice returns a slice of n zero elements. An empty slice is non-nil
// and takes no storage from the allocator.
func allocSlice(a Allocator, sliceType reflect.Type, n int) (reflect.Value, error) {
	if n == 0 {
		return reflect.MakeSlice(sliceType, 0, 0), nil
	}
	v, err := a.MakeSlice(sliceType, n)
	if err != nil {
		return reflect.Value{}, BadOutOfMemory
	}
	return v, nil
}

func freeSlice(a Allocator, v reflect.Value) {
	if v.Cap() == 0 {
		return
	}
	a.Free(v)
}

func allocNew(a Allocator, typ reflect.Type) (reflect.Value, error) {
	v, err := a.New(typ)
	if err != nil {
		return reflect.Value{}, BadOutOfMemory
	}
	return v, nil
}
