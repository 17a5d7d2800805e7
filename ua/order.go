// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

import (
	"bytes"
	"reflect"
	"strings"
	"time"
	"unsafe"

	"github.com/google/uuid"
)

// Compare returns the order of the values pointed to by a and b. The order
// is total: NaN is smaller than every other number and equal to every NaN,
// strings and arrays are ordered shortlex, containers holding values of
// different types are ordered by their types first.
func Compare(a, b any, typ *DataType) Order {
	x := mustValueOf(a, typ, "Compare")
	y := mustValueOf(b, typ, "Compare")
	return orderValue(x, y, typ)
}

// Equal returns true if both values are equal. Overlayable types without
// floating point members are compared byte by byte.
func Equal(a, b any, typ *DataType) bool {
	x := mustValueOf(a, typ, "Equal")
	y := mustValueOf(b, typ, "Equal")
	if typ.overlayable && !typ.hasFloat {
		return bytes.Equal(rawBytes(x), rawBytes(y))
	}
	return orderValue(x, y, typ) == OrderEq
}

// rawBytes returns the memory of an addressable value.
func rawBytes(v reflect.Value) []byte {
	size := v.Type().Size()
	if size == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(v.Addr().UnsafePointer()), size)
}

// ptrTo returns a typed pointer to an addressable value.
func ptrTo[T any](v reflect.Value) *T {
	return (*T)(v.Addr().UnsafePointer())
}

func orderValue(x, y reflect.Value, typ *DataType) Order {
	switch typ.Kind {
	case KindBoolean:
		return orderBool(x.Bool(), y.Bool())
	case KindSByte, KindInt16, KindInt32, KindInt64, KindEnum:
		return orderInt(x.Int(), y.Int())
	case KindByte, KindUInt16, KindUInt32, KindUInt64, KindStatusCode:
		return orderUint(x.Uint(), y.Uint())
	case KindFloat, KindDouble:
		return orderFloat(x.Float(), y.Float())
	case KindString, KindByteString, KindXMLElement:
		return orderShortlex(x.String(), y.String())
	case KindDateTime:
		return Order(ptrTo[time.Time](x).Compare(*ptrTo[time.Time](y)))
	case KindGUID:
		return orderGUID(*ptrTo[uuid.UUID](x), *ptrTo[uuid.UUID](y))
	case KindNodeID:
		return ptrTo[NodeID](x).Order(*ptrTo[NodeID](y))
	case KindExpandedNodeID:
		return ptrTo[ExpandedNodeID](x).Order(*ptrTo[ExpandedNodeID](y))
	case KindQualifiedName:
		return ptrTo[QualifiedName](x).Order(*ptrTo[QualifiedName](y))
	case KindLocalizedText:
		return ptrTo[LocalizedText](x).Order(*ptrTo[LocalizedText](y))
	case KindExtensionObject:
		return ptrTo[ExtensionObject](x).Order(ptrTo[ExtensionObject](y))
	case KindDataValue:
		return ptrTo[DataValue](x).Order(ptrTo[DataValue](y))
	case KindVariant:
		return ptrTo[Variant](x).Order(ptrTo[Variant](y))
	case KindDiagnosticInfo:
		return ptrTo[DiagnosticInfo](x).Order(ptrTo[DiagnosticInfo](y))
	case KindDecimal:
		a, b := ptrTo[Decimal](x), ptrTo[Decimal](y)
		if a.Scale != b.Scale {
			return orderInt(int64(a.Scale), int64(b.Scale))
		}
		return orderShortlex(string(a.Value), string(b.Value))
	case KindStructure, KindOptStruct, KindBitfieldCluster:
		for i := range typ.Members {
			m := &typ.Members[i]
			if o := orderMember(x.Field(m.field), y.Field(m.field), m); o != OrderEq {
				return o
			}
		}
		return OrderEq
	case KindUnion:
		sx, sy := x.Field(0).Uint(), y.Field(0).Uint()
		if sx != sy {
			return orderUint(sx, sy)
		}
		if sx == 0 || sx > uint64(len(typ.Members)) {
			return OrderEq
		}
		m := &typ.Members[sx-1]
		return orderMember(x.Field(m.field), y.Field(m.field), m)
	}
	return OrderEq
}

func orderMember(x, y reflect.Value, m *DataTypeMember) Order {
	switch {
	case m.IsArray:
		return orderArray(x, y, m.Type)
	case m.IsOptional:
		switch {
		case x.IsNil() && y.IsNil():
			return OrderEq
		case x.IsNil():
			return OrderLess
		case y.IsNil():
			return OrderMore
		}
		return orderValue(x.Elem(), y.Elem(), m.Type)
	default:
		return orderValue(x, y, m.Type)
	}
}

// orderArray orders slices shortlex. An undefined array is smaller than an
// empty one.
func orderArray(x, y reflect.Value, typ *DataType) Order {
	switch {
	case x.IsNil() && y.IsNil():
		return OrderEq
	case x.IsNil():
		return OrderLess
	case y.IsNil():
		return OrderMore
	}
	if x.Len() != y.Len() {
		return orderInt(int64(x.Len()), int64(y.Len()))
	}
	for i := 0; i < x.Len(); i++ {
		if o := orderValue(x.Index(i), y.Index(i), typ); o != OrderEq {
			return o
		}
	}
	return OrderEq
}

// orderDataType orders types by type id. Distinct types with the same id are
// ordered by their address.
func orderDataType(a, b *DataType) Order {
	switch {
	case a == b:
		return OrderEq
	case a == nil:
		return OrderLess
	case b == nil:
		return OrderMore
	}
	if o := a.TypeID.Order(b.TypeID); o != OrderEq {
		return o
	}
	return orderUint(uint64(uintptr(unsafe.Pointer(a))), uint64(uintptr(unsafe.Pointer(b))))
}

func orderBool(a, b bool) Order {
	switch {
	case a == b:
		return OrderEq
	case !a:
		return OrderLess
	default:
		return OrderMore
	}
}

func orderInt(a, b int64) Order {
	switch {
	case a < b:
		return OrderLess
	case a > b:
		return OrderMore
	default:
		return OrderEq
	}
}

func orderUint(a, b uint64) Order {
	switch {
	case a < b:
		return OrderLess
	case a > b:
		return OrderMore
	default:
		return OrderEq
	}
}

func orderFloat(a, b float64) Order {
	an, bn := a != a, b != b
	switch {
	case an && bn:
		return OrderEq
	case an:
		return OrderLess
	case bn:
		return OrderMore
	case a < b:
		return OrderLess
	case a > b:
		return OrderMore
	default:
		return OrderEq
	}
}

// orderShortlex orders by length first, then by the first differing byte.
func orderShortlex(a, b string) Order {
	if len(a) != len(b) {
		return orderInt(int64(len(a)), int64(len(b)))
	}
	return Order(strings.Compare(a, b))
}

func orderGUID(a, b uuid.UUID) Order {
	return Order(bytes.Compare(a[:], b[:]))
}
