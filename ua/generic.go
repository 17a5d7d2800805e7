// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

import (
	"fmt"
	"reflect"
)

// The generic operations take a pointer to a value of typ.GoType(). They walk
// the members of typ and never need code generated for a specific type.

// New returns a pointer to a new zero value of the type.
func New(typ *DataType) any {
	return reflect.New(typ.goType).Interface()
}

// Init sets the value to its zero value. It does not release storage.
func Init(p any, typ *DataType) {
	mustValueOf(p, typ, "Init").SetZero()
}

// Copy sets dst to a deep copy of src. On failure dst is left cleared.
func Copy(dst, src any, typ *DataType) error {
	return CopyWithAllocator(dst, src, typ, nil)
}

// CopyWithAllocator sets dst to a deep copy of src with all storage obtained
// from the allocator. On failure all storage taken so far is returned to
// the allocator and dst is left cleared.
func CopyWithAllocator(dst, src any, typ *DataType, a Allocator) error {
	d, ok := valueOf(dst, typ)
	if !ok {
		return BadTypeMismatch
	}
	s, ok := valueOf(src, typ)
	if !ok {
		return BadTypeMismatch
	}
	a = allocatorOrHeap(a)
	d.SetZero()
	if err := copyValue(d, s, typ, a); err != nil {
		clearValue(d, typ, a)
		return err
	}
	return nil
}

// Clear releases the storage owned by the value and sets it to its zero
// value. Clearing a cleared value is a no-op.
func Clear(p any, typ *DataType) {
	ClearWithAllocator(p, typ, nil)
}

// ClearWithAllocator releases the storage owned by the value to the allocator.
func ClearWithAllocator(p any, typ *DataType, a Allocator) {
	clearValue(mustValueOf(p, typ, "Clear"), typ, allocatorOrHeap(a))
}

// Delete clears the value. The pointer must not be used afterwards.
func Delete(p any, typ *DataType) {
	Clear(p, typ)
}

func valueOf(p any, typ *DataType) (reflect.Value, bool) {
	v := reflect.ValueOf(p)
	if typ == nil || v.Kind() != reflect.Pointer || v.IsNil() || v.Type().Elem() != typ.goType {
		return reflect.Value{}, false
	}
	return v.Elem(), true
}

func mustValueOf(p any, typ *DataType, op string) reflect.Value {
	v, ok := valueOf(p, typ)
	if !ok {
		panic(fmt.Sprintf("ua: %s of %T with data type %s", op, p, typ))
	}
	return v
}

func copyValue(dst, src reflect.Value, typ *DataType, a Allocator) error {
	if typ.pointerFree {
		dst.Set(src)
		return nil
	}
	switch typ.Kind {
	case KindString, KindByteString, KindXMLElement:
		s, err := allocString(a, src.String())
		if err != nil {
			return err
		}
		dst.SetString(s)
	case KindNodeID:
		id, err := ptrTo[NodeID](src).copyWith(a)
		if err != nil {
			return err
		}
		*ptrTo[NodeID](dst) = id
	case KindExpandedNodeID:
		id, err := ptrTo[ExpandedNodeID](src).copyWith(a)
		if err != nil {
			return err
		}
		*ptrTo[ExpandedNodeID](dst) = id
	case KindQualifiedName:
		qn, err := ptrTo[QualifiedName](src).copyWith(a)
		if err != nil {
			return err
		}
		*ptrTo[QualifiedName](dst) = qn
	case KindLocalizedText:
		lt, err := ptrTo[LocalizedText](src).copyWith(a)
		if err != nil {
			return err
		}
		*ptrTo[LocalizedText](dst) = lt
	case KindExtensionObject:
		return ptrTo[ExtensionObject](src).copyTo(ptrTo[ExtensionObject](dst), a)
	case KindDataValue:
		return ptrTo[DataValue](src).copyTo(ptrTo[DataValue](dst), a)
	case KindVariant:
		return ptrTo[Variant](src).copyTo(ptrTo[Variant](dst), a)
	case KindDiagnosticInfo:
		return ptrTo[DiagnosticInfo](src).copyTo(ptrTo[DiagnosticInfo](dst), a)
	case KindDecimal:
		s, d := ptrTo[Decimal](src), ptrTo[Decimal](dst)
		d.Scale = s.Scale
		v, err := allocString(a, string(s.Value))
		if err != nil {
			return err
		}
		d.Value = ByteString(v)
	case KindStructure, KindOptStruct:
		for i := range typ.Members {
			m := &typ.Members[i]
			if err := copyMember(dst.Field(m.field), src.Field(m.field), m, a); err != nil {
				return err
			}
		}
	case KindUnion:
		sw := src.Field(0).Uint()
		dst.Field(0).SetUint(sw)
		if sw == 0 || sw > uint64(len(typ.Members)) {
			return nil
		}
		m := &typ.Members[sw-1]
		return copyMember(dst.Field(m.field), src.Field(m.field), m, a)
	default:
		dst.Set(src)
	}
	return nil
}

func copyMember(dst, src reflect.Value, m *DataTypeMember, a Allocator) error {
	switch {
	case m.IsArray:
		return copyArray(dst, src, m.Type, a)
	case m.IsOptional:
		if src.IsNil() {
			return nil
		}
		p, err := allocNew(a, m.Type.goType)
		if err != nil {
			return err
		}
		dst.Set(p)
		return copyValue(p.Elem(), src.Elem(), m.Type, a)
	default:
		return copyValue(dst, src, m.Type, a)
	}
}

// copyArray copies a slice. The new slice is stored in dst before the
// elements are copied, so a failure leaves every allocation reachable.
func copyArray(dst, src reflect.Value, typ *DataType, a Allocator) error {
	if src.IsNil() {
		dst.SetZero()
		return nil
	}
	s, err := allocSlice(a, dst.Type(), src.Len())
	if err != nil {
		return err
	}
	dst.Set(s)
	if typ.pointerFree {
		reflect.Copy(s, src)
		return nil
	}
	for i := 0; i < src.Len(); i++ {
		if err := copyValue(s.Index(i), src.Index(i), typ, a); err != nil {
			return err
		}
	}
	return nil
}

func clearValue(v reflect.Value, typ *DataType, a Allocator) {
	if typ.pointerFree {
		v.SetZero()
		return
	}
	switch typ.Kind {
	case KindString, KindByteString, KindXMLElement:
		freeString(a, v.String())
		v.SetString("")
	case KindNodeID:
		p := ptrTo[NodeID](v)
		p.clearWith(a)
		*p = NilNodeID
	case KindExpandedNodeID:
		p := ptrTo[ExpandedNodeID](v)
		p.clearWith(a)
		*p = NilExpandedNodeID
	case KindQualifiedName:
		p := ptrTo[QualifiedName](v)
		p.clearWith(a)
		*p = NilQualifiedName
	case KindLocalizedText:
		p := ptrTo[LocalizedText](v)
		p.clearWith(a)
		*p = LocalizedText{}
	case KindExtensionObject:
		ptrTo[ExtensionObject](v).clearWith(a)
	case KindDataValue:
		ptrTo[DataValue](v).clearWith(a)
	case KindVariant:
		ptrTo[Variant](v).clearWith(a)
	case KindDiagnosticInfo:
		ptrTo[DiagnosticInfo](v).clearWith(a)
	case KindDecimal:
		p := ptrTo[Decimal](v)
		freeString(a, string(p.Value))
		*p = Decimal{}
	case KindStructure, KindOptStruct:
		for i := range typ.Members {
			m := &typ.Members[i]
			clearMember(v.Field(m.field), m, a)
		}
		v.SetZero()
	case KindUnion:
		sw := v.Field(0).Uint()
		if sw > 0 && sw <= uint64(len(typ.Members)) {
			m := &typ.Members[sw-1]
			clearMember(v.Field(m.field), m, a)
		}
		v.SetZero()
	default:
		v.SetZero()
	}
}

func clearMember(v reflect.Value, m *DataTypeMember, a Allocator) {
	switch {
	case m.IsArray:
		clearArray(v, m.Type, a)
	case m.IsOptional:
		if v.IsNil() {
			return
		}
		clearValue(v.Elem(), m.Type, a)
		a.Free(v)
		v.SetZero()
	default:
		clearValue(v, m.Type, a)
	}
}

func clearArray(v reflect.Value, typ *DataType, a Allocator) {
	if v.IsNil() {
		return
	}
	if !typ.pointerFree {
		for i := 0; i < v.Len(); i++ {
			clearValue(v.Index(i), typ, a)
		}
	}
	freeSlice(a, v)
	v.SetZero()
}
