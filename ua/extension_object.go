// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

import (
	"reflect"
)

// ExtensionObjectEncoding tells which form an ExtensionObject holds.
type ExtensionObjectEncoding uint8

// ExtensionObjectEncodings
const (
	ExtensionObjectEncodingNone ExtensionObjectEncoding = iota
	ExtensionObjectEncodingByteString
	ExtensionObjectEncodingXMLElement
	ExtensionObjectEncodingDecoded
	ExtensionObjectEncodingDecodedNoDelete
)

// ExtensionObject stores a structure. A structure of a known type is held
// decoded; the body of an unknown type is kept as it was encoded.
type ExtensionObject struct {
	encoding ExtensionObjectEncoding
	typeID   NodeID
	body     string
	typ      *DataType
	data     any
}

// NilExtensionObject is the ExtensionObject without a body.
var NilExtensionObject = ExtensionObject{}

// NewExtensionObjectEncoded returns an ExtensionObject holding a binary body
// of the type with the encoding id.
func NewExtensionObjectEncoded(typeID NodeID, body ByteString) ExtensionObject {
	return ExtensionObject{encoding: ExtensionObjectEncodingByteString, typeID: typeID, body: string(body)}
}

// NewExtensionObjectXML returns an ExtensionObject holding an xml body of the
// type with the encoding id.
func NewExtensionObjectXML(typeID NodeID, body XMLElement) ExtensionObject {
	return ExtensionObject{encoding: ExtensionObjectEncodingXMLElement, typeID: typeID, body: string(body)}
}

// Encoding returns the form of the ExtensionObject.
func (e *ExtensionObject) Encoding() ExtensionObjectEncoding {
	return e.encoding
}

// IsDecoded returns true if the ExtensionObject holds a decoded value.
func (e *ExtensionObject) IsDecoded() bool {
	return e.encoding >= ExtensionObjectEncodingDecoded
}

// TypeID returns the encoding id of an encoded body, or the binary encoding
// id of the type of a decoded value.
func (e *ExtensionObject) TypeID() NodeID {
	if e.IsDecoded() {
		return e.typ.BinaryEncodingID
	}
	return e.typeID
}

// Body returns the encoded body.
func (e *ExtensionObject) Body() ByteString {
	return ByteString(e.body)
}

// Type returns the DataType of a decoded value.
func (e *ExtensionObject) Type() *DataType {
	return e.typ
}

// Data returns the pointer to a decoded value.
func (e *ExtensionObject) Data() any {
	return e.data
}

// HasDecodedType returns true if the ExtensionObject holds a decoded value of the type.
func (e *ExtensionObject) HasDecodedType(typ *DataType) bool {
	return e.IsDecoded() && e.typ == typ
}

// SetValue sets the ExtensionObject to the value pointed to by p and takes
// ownership of it.
func (e *ExtensionObject) SetValue(p any, typ *DataType) {
	mustValueOf(p, typ, "SetValue")
	*e = ExtensionObject{encoding: ExtensionObjectEncodingDecoded, typ: typ, data: p}
}

// SetValueNoDelete sets the ExtensionObject to the value pointed to by p
// without taking ownership.
func (e *ExtensionObject) SetValueNoDelete(p any, typ *DataType) {
	e.SetValue(p, typ)
	e.encoding = ExtensionObjectEncodingDecodedNoDelete
}

// SetValueCopy sets the ExtensionObject to a deep copy of the value pointed to by p.
func (e *ExtensionObject) SetValueCopy(p any, typ *DataType) error {
	src, ok := valueOf(p, typ)
	if !ok {
		return BadTypeMismatch
	}
	tmp := ExtensionObject{encoding: ExtensionObjectEncodingDecodedNoDelete, typ: typ, data: src.Addr().Interface()}
	var dst ExtensionObject
	if err := tmp.copyTo(&dst, HeapAllocator); err != nil {
		dst.clearWith(HeapAllocator)
		return err
	}
	*e = dst
	return nil
}

// copyTo deep copies into dst. A borrowed value is copied into an owned one.
func (e *ExtensionObject) copyTo(dst *ExtensionObject, a Allocator) error {
	*dst = ExtensionObject{encoding: e.encoding}
	switch e.encoding {
	case ExtensionObjectEncodingNone:
		id, err := e.typeID.copyWith(a)
		if err != nil {
			return err
		}
		dst.typeID = id
	case ExtensionObjectEncodingByteString, ExtensionObjectEncodingXMLElement:
		id, err := e.typeID.copyWith(a)
		if err != nil {
			dst.encoding = ExtensionObjectEncodingNone
			return err
		}
		dst.typeID = id
		body, err := allocString(a, e.body)
		if err != nil {
			return err
		}
		dst.body = body
	case ExtensionObjectEncodingDecoded, ExtensionObjectEncodingDecodedNoDelete:
		dst.encoding = ExtensionObjectEncodingNone
		p, err := allocNew(a, e.typ.goType)
		if err != nil {
			return err
		}
		dst.encoding = ExtensionObjectEncodingDecoded
		dst.typ = e.typ
		dst.data = p.Interface()
		return copyValue(p.Elem(), reflect.ValueOf(e.data).Elem(), e.typ, a)
	}
	return nil
}

func (e *ExtensionObject) clearWith(a Allocator) {
	switch e.encoding {
	case ExtensionObjectEncodingNone:
		e.typeID.clearWith(a)
	case ExtensionObjectEncodingByteString, ExtensionObjectEncodingXMLElement:
		e.typeID.clearWith(a)
		freeString(a, e.body)
	case ExtensionObjectEncodingDecoded:
		if e.data != nil {
			rv := reflect.ValueOf(e.data)
			clearValue(rv.Elem(), e.typ, a)
			a.Free(rv)
		}
	}
	*e = ExtensionObject{}
}

func (e *ExtensionObject) orderClass() int {
	if e.encoding == ExtensionObjectEncodingDecodedNoDelete {
		return int(ExtensionObjectEncodingDecoded)
	}
	return int(e.encoding)
}

// Order orders by form, then by the type and the body or the decoded value.
// Owned and borrowed values are not distinguished.
func (e *ExtensionObject) Order(other *ExtensionObject) Order {
	if c1, c2 := e.orderClass(), other.orderClass(); c1 != c2 {
		return orderInt(int64(c1), int64(c2))
	}
	switch e.encoding {
	case ExtensionObjectEncodingNone:
		return e.typeID.Order(other.typeID)
	case ExtensionObjectEncodingByteString, ExtensionObjectEncodingXMLElement:
		if o := e.typeID.Order(other.typeID); o != OrderEq {
			return o
		}
		return orderShortlex(e.body, other.body)
	case ExtensionObjectEncodingDecoded, ExtensionObjectEncodingDecodedNoDelete:
		if o := orderDataType(e.typ, other.typ); o != OrderEq {
			return o
		}
		return orderValue(reflect.ValueOf(e.data).Elem(), reflect.ValueOf(other.data).Elem(), e.typ)
	}
	return OrderEq
}
