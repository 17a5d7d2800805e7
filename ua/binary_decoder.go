// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"reflect"
	"time"
	"unsafe"

	"github.com/google/uuid"
)

// DecodeBinaryOptions configure the binary decoder.
type DecodeBinaryOptions struct {
	// CustomTypes are searched for the encoding ids of ExtensionObjects after
	// the builtin and well-known types.
	CustomTypes *DataTypeArray
	// NamespaceMapping translates the namespace indices of the remote end to
	// local indices.
	NamespaceMapping *NamespaceMapping
	// Allocator provides the storage of the decoded value. Defaults to the heap.
	Allocator Allocator
}

// BinaryDecoder decodes the UA binary protocol.
type BinaryDecoder struct {
	r      io.Reader
	nm     *NamespaceMapping
	custom *DataTypeArray
	a      Allocator
	bs     [8]byte
	depth  int
}

// NewBinaryDecoder returns a new decoder that reads from an io.Reader.
func NewBinaryDecoder(r io.Reader, opts *DecodeBinaryOptions) *BinaryDecoder {
	dec := &BinaryDecoder{r: r, a: HeapAllocator}
	if opts != nil {
		dec.nm = opts.NamespaceMapping
		dec.custom = opts.CustomTypes
		dec.a = allocatorOrHeap(opts.Allocator)
	}
	return dec
}

// DecodeBinary decodes the bytes into the value pointed to by p. Bytes after
// the end of the value are ignored. On failure the value is left cleared.
func DecodeBinary(in []byte, p any, typ *DataType, opts *DecodeBinaryOptions) error {
	return NewBinaryDecoder(bytes.NewReader(in), opts).Decode(p, typ)
}

// Decode decodes a value of the type into the value pointed to by p. The
// previous content of the value is overwritten, not released. On failure
// all storage taken so far is returned to the allocator and the value is
// left cleared.
func (dec *BinaryDecoder) Decode(p any, typ *DataType) error {
	v, ok := valueOf(p, typ)
	if !ok {
		return BadTypeMismatch
	}
	v.SetZero()
	if err := dec.decodeValue(v, typ); err != nil {
		clearValue(v, typ, dec.a)
		return err
	}
	return nil
}

func (dec *BinaryDecoder) read(b []byte) error {
	if _, err := io.ReadFull(dec.r, b); err != nil {
		return BadDecodingError
	}
	return nil
}

// remaining returns the number of unread bytes, or -1 if the reader cannot
// tell.
func (dec *BinaryDecoder) remaining() int {
	if l, ok := dec.r.(interface{ Len() int }); ok {
		return l.Len()
	}
	return -1
}

func (dec *BinaryDecoder) enter() error {
	dec.depth++
	if dec.depth > maxNestingDepth {
		dec.depth--
		return BadDecodingError
	}
	return nil
}

func (dec *BinaryDecoder) leave() {
	dec.depth--
}

func (dec *BinaryDecoder) remoteToLocal(ns uint16) uint16 {
	if dec.nm == nil {
		return ns
	}
	return dec.nm.Remote2Local(ns)
}

// decodeValue decodes into the addressable zero value v of the type. Every
// allocation is stored in v as soon as it is made.
func (dec *BinaryDecoder) decodeValue(v reflect.Value, typ *DataType) error {
	switch typ.Kind {
	case KindBoolean:
		return dec.ReadBoolean(ptrTo[bool](v))
	case KindSByte:
		return dec.ReadSByte(ptrTo[int8](v))
	case KindByte:
		return dec.ReadByte(ptrTo[byte](v))
	case KindInt16:
		return dec.ReadInt16(ptrTo[int16](v))
	case KindUInt16:
		return dec.ReadUInt16(ptrTo[uint16](v))
	case KindInt32:
		return dec.ReadInt32(ptrTo[int32](v))
	case KindEnum:
		var i int32
		if err := dec.ReadInt32(&i); err != nil {
			return err
		}
		v.SetInt(int64(i))
		return nil
	case KindUInt32:
		return dec.ReadUInt32(ptrTo[uint32](v))
	case KindInt64:
		return dec.ReadInt64(ptrTo[int64](v))
	case KindUInt64:
		return dec.ReadUInt64(ptrTo[uint64](v))
	case KindFloat:
		return dec.ReadFloat(ptrTo[float32](v))
	case KindDouble:
		return dec.ReadDouble(ptrTo[float64](v))
	case KindString:
		return dec.ReadString(ptrTo[string](v))
	case KindDateTime:
		return dec.ReadDateTime(ptrTo[time.Time](v))
	case KindGUID:
		return dec.ReadGUID(ptrTo[uuid.UUID](v))
	case KindByteString:
		return dec.ReadByteString(ptrTo[ByteString](v))
	case KindXMLElement:
		return dec.ReadXMLElement(ptrTo[XMLElement](v))
	case KindNodeID:
		return dec.ReadNodeID(ptrTo[NodeID](v))
	case KindExpandedNodeID:
		return dec.ReadExpandedNodeID(ptrTo[ExpandedNodeID](v))
	case KindStatusCode:
		return dec.ReadStatusCode(ptrTo[StatusCode](v))
	case KindQualifiedName:
		return dec.ReadQualifiedName(ptrTo[QualifiedName](v))
	case KindLocalizedText:
		return dec.ReadLocalizedText(ptrTo[LocalizedText](v))
	case KindExtensionObject:
		return dec.ReadExtensionObject(ptrTo[ExtensionObject](v))
	case KindDataValue:
		return dec.ReadDataValue(ptrTo[DataValue](v))
	case KindVariant:
		return dec.ReadVariant(ptrTo[Variant](v))
	case KindDiagnosticInfo:
		return dec.ReadDiagnosticInfo(ptrTo[DiagnosticInfo](v))
	case KindDecimal:
		return dec.ReadDecimal(ptrTo[Decimal](v))
	case KindStructure, KindOptStruct, KindUnion, KindBitfieldCluster:
		if err := dec.enter(); err != nil {
			return err
		}
		defer dec.leave()
		return dec.decodeStructure(v, typ)
	}
	return BadDataTypeIDUnknown
}

func (dec *BinaryDecoder) decodeStructure(v reflect.Value, typ *DataType) error {
	switch typ.Kind {
	case KindStructure:
		if typ.overlayable {
			return dec.read(rawBytes(v))
		}
		for i := range typ.Members {
			m := &typ.Members[i]
			if err := dec.decodeMember(v.Field(m.field), m); err != nil {
				return err
			}
		}
	case KindOptStruct:
		var mask uint32
		if err := dec.ReadUInt32(&mask); err != nil {
			return err
		}
		bit := uint32(1)
		for i := range typ.Members {
			m := &typ.Members[i]
			if m.IsOptional {
				present := mask&bit != 0
				bit <<= 1
				if !present {
					continue
				}
			}
			if err := dec.decodeMember(v.Field(m.field), m); err != nil {
				return err
			}
		}
	case KindUnion:
		var sw uint32
		if err := dec.ReadUInt32(&sw); err != nil {
			return err
		}
		if sw > uint32(len(typ.Members)) {
			return BadDecodingError
		}
		v.Field(0).SetUint(uint64(sw))
		if sw == 0 {
			return nil
		}
		m := &typ.Members[sw-1]
		return dec.decodeMember(v.Field(m.field), m)
	case KindBitfieldCluster:
		n := (len(typ.Members) + 7) / 8
		for i := 0; i < n; i++ {
			var b byte
			if err := dec.ReadByte(&b); err != nil {
				return err
			}
			for j := 0; j < 8 && i*8+j < len(typ.Members); j++ {
				v.Field(typ.Members[i*8+j].field).SetBool(b&(1<<j) != 0)
			}
		}
	}
	return nil
}

func (dec *BinaryDecoder) decodeMember(f reflect.Value, m *DataTypeMember) error {
	switch {
	case m.IsArray:
		return dec.decodeArray(f, m.Type)
	case m.IsOptional:
		p, err := allocNew(dec.a, m.Type.goType)
		if err != nil {
			return err
		}
		f.Set(p)
		return dec.decodeValue(p.Elem(), m.Type)
	default:
		return dec.decodeValue(f, m.Type)
	}
}

// emptyEncoding returns true if values of the type take no bytes.
func emptyEncoding(typ *DataType) bool {
	return (typ.Kind == KindStructure || typ.Kind == KindBitfieldCluster) && len(typ.Members) == 0
}

// decodeArray decodes into the addressable slice s. A length of -1 results
// in a nil slice. A length that cannot fit in the remaining input is
// rejected before any storage is taken.
func (dec *BinaryDecoder) decodeArray(s reflect.Value, typ *DataType) error {
	var n int32
	if err := dec.ReadInt32(&n); err != nil {
		return err
	}
	if n < 0 {
		s.SetZero()
		return nil
	}
	if r := dec.remaining(); r >= 0 && !emptyEncoding(typ) {
		if int(n) > r || (typ.overlayable && int64(n)*int64(typ.goType.Size()) > int64(r)) {
			return BadDecodingError
		}
	}
	sl, err := allocSlice(dec.a, s.Type(), int(n))
	if err != nil {
		return err
	}
	s.Set(sl)
	if n == 0 {
		return nil
	}
	if typ.overlayable {
		return dec.read(unsafe.Slice((*byte)(sl.UnsafePointer()), int(n)*int(typ.goType.Size())))
	}
	for i := 0; i < int(n); i++ {
		if err := dec.decodeValue(sl.Index(i), typ); err != nil {
			return err
		}
	}
	return nil
}

// ReadBoolean reads a bool.
func (dec *BinaryDecoder) ReadBoolean(value *bool) error {
	if err := dec.read(dec.bs[:1]); err != nil {
		return err
	}
	*value = dec.bs[0] != 0
	return nil
}

// ReadSByte reads a int8.
func (dec *BinaryDecoder) ReadSByte(value *int8) error {
	if err := dec.read(dec.bs[:1]); err != nil {
		return err
	}
	*value = int8(dec.bs[0])
	return nil
}

// ReadByte reads a byte.
func (dec *BinaryDecoder) ReadByte(value *byte) error {
	if err := dec.read(dec.bs[:1]); err != nil {
		return err
	}
	*value = dec.bs[0]
	return nil
}

// ReadInt16 reads a int16.
func (dec *BinaryDecoder) ReadInt16(value *int16) error {
	if err := dec.read(dec.bs[:2]); err != nil {
		return err
	}
	*value = int16(binary.LittleEndian.Uint16(dec.bs[:2]))
	return nil
}

// ReadUInt16 reads a uint16.
func (dec *BinaryDecoder) ReadUInt16(value *uint16) error {
	if err := dec.read(dec.bs[:2]); err != nil {
		return err
	}
	*value = binary.LittleEndian.Uint16(dec.bs[:2])
	return nil
}

// ReadInt32 reads a int32.
func (dec *BinaryDecoder) ReadInt32(value *int32) error {
	if err := dec.read(dec.bs[:4]); err != nil {
		return err
	}
	*value = int32(binary.LittleEndian.Uint32(dec.bs[:4]))
	return nil
}

// ReadUInt32 reads a uint32.
func (dec *BinaryDecoder) ReadUInt32(value *uint32) error {
	if err := dec.read(dec.bs[:4]); err != nil {
		return err
	}
	*value = binary.LittleEndian.Uint32(dec.bs[:4])
	return nil
}

// ReadInt64 reads a int64.
func (dec *BinaryDecoder) ReadInt64(value *int64) error {
	if err := dec.read(dec.bs[:8]); err != nil {
		return err
	}
	*value = int64(binary.LittleEndian.Uint64(dec.bs[:8]))
	return nil
}

// ReadUInt64 reads a uint64.
func (dec *BinaryDecoder) ReadUInt64(value *uint64) error {
	if err := dec.read(dec.bs[:8]); err != nil {
		return err
	}
	*value = binary.LittleEndian.Uint64(dec.bs[:8])
	return nil
}

// ReadFloat reads a float32.
func (dec *BinaryDecoder) ReadFloat(value *float32) error {
	if err := dec.read(dec.bs[:4]); err != nil {
		return err
	}
	*value = math.Float32frombits(binary.LittleEndian.Uint32(dec.bs[:4]))
	return nil
}

// ReadDouble reads a float64.
func (dec *BinaryDecoder) ReadDouble(value *float64) error {
	if err := dec.read(dec.bs[:8]); err != nil {
		return err
	}
	*value = math.Float64frombits(binary.LittleEndian.Uint64(dec.bs[:8]))
	return nil
}

// ReadString reads a string. A null string is read as the empty string.
func (dec *BinaryDecoder) ReadString(value *string) error {
	var n int32
	if err := dec.ReadInt32(&n); err != nil {
		return err
	}
	s, err := dec.readBytes(n)
	if err != nil {
		return err
	}
	*value = s
	return nil
}

// readBytes reads n bytes into storage of the allocator.
func (dec *BinaryDecoder) readBytes(n int32) (string, error) {
	if n <= 0 {
		return "", nil
	}
	if r := dec.remaining(); r >= 0 && int(n) > r {
		return "", BadDecodingError
	}
	bs, err := allocBytes(dec.a, int(n))
	if err != nil {
		return "", err
	}
	if err := dec.read(bs); err != nil {
		dec.a.Free(reflect.ValueOf(bs))
		return "", err
	}
	return unsafe.String(&bs[0], len(bs)), nil
}

// ReadDateTime reads a time.Time.
func (dec *BinaryDecoder) ReadDateTime(value *time.Time) error {
	// ticks are 100 nanosecond intervals since January 1, 1601
	var ticks int64
	if err := dec.ReadInt64(&ticks); err != nil {
		return err
	}
	*value = TicksToDateTime(ticks)
	return nil
}

// ReadGUID reads a uuid.UUID.
func (dec *BinaryDecoder) ReadGUID(value *uuid.UUID) error {
	if err := dec.read(dec.bs[:8]); err != nil {
		return err
	}
	v := uuid.UUID{}
	v[0] = dec.bs[3]
	v[1] = dec.bs[2]
	v[2] = dec.bs[1]
	v[3] = dec.bs[0]
	v[4] = dec.bs[5]
	v[5] = dec.bs[4]
	v[6] = dec.bs[7]
	v[7] = dec.bs[6]
	if err := dec.read(v[8:]); err != nil {
		return err
	}
	*value = v
	return nil
}

// ReadByteString reads a ByteString.
func (dec *BinaryDecoder) ReadByteString(value *ByteString) error {
	var s string
	if err := dec.ReadString(&s); err != nil {
		return err
	}
	*value = ByteString(s)
	return nil
}

// ReadXMLElement reads a XMLElement.
func (dec *BinaryDecoder) ReadXMLElement(value *XMLElement) error {
	var s string
	if err := dec.ReadString(&s); err != nil {
		return err
	}
	*value = XMLElement(s)
	return nil
}

// ReadNodeID reads a NodeID.
func (dec *BinaryDecoder) ReadNodeID(value *NodeID) error {
	var b byte
	if err := dec.ReadByte(&b); err != nil {
		return err
	}
	return dec.readNodeID(value, b)
}

// readNodeID reads the NodeID of the encoding form b.
func (dec *BinaryDecoder) readNodeID(value *NodeID, b byte) error {
	switch b {
	case 0x00:
		var id byte
		if err := dec.ReadByte(&id); err != nil {
			return err
		}
		*value = NewNodeIDNumeric(0, uint32(id))
	case 0x01:
		var ns byte
		if err := dec.ReadByte(&ns); err != nil {
			return err
		}
		var id uint16
		if err := dec.ReadUInt16(&id); err != nil {
			return err
		}
		*value = NewNodeIDNumeric(dec.remoteToLocal(uint16(ns)), uint32(id))
	case 0x02:
		var ns uint16
		if err := dec.ReadUInt16(&ns); err != nil {
			return err
		}
		var id uint32
		if err := dec.ReadUInt32(&id); err != nil {
			return err
		}
		*value = NewNodeIDNumeric(dec.remoteToLocal(ns), id)
	case 0x03:
		var ns uint16
		if err := dec.ReadUInt16(&ns); err != nil {
			return err
		}
		var id string
		if err := dec.ReadString(&id); err != nil {
			return err
		}
		*value = NewNodeIDString(dec.remoteToLocal(ns), id)
	case 0x04:
		var ns uint16
		if err := dec.ReadUInt16(&ns); err != nil {
			return err
		}
		var id uuid.UUID
		if err := dec.ReadGUID(&id); err != nil {
			return err
		}
		*value = NewNodeIDGUID(dec.remoteToLocal(ns), id)
	case 0x05:
		var ns uint16
		if err := dec.ReadUInt16(&ns); err != nil {
			return err
		}
		var id ByteString
		if err := dec.ReadByteString(&id); err != nil {
			return err
		}
		*value = NewNodeIDOpaque(dec.remoteToLocal(ns), id)
	default:
		return BadDecodingError
	}
	return nil
}

// ReadExpandedNodeID reads an ExpandedNodeID.
func (dec *BinaryDecoder) ReadExpandedNodeID(value *ExpandedNodeID) error {
	var b byte
	if err := dec.ReadByte(&b); err != nil {
		return err
	}
	var n ExpandedNodeID
	if err := dec.readNodeID(&n.nodeID, b&0x3F); err != nil {
		return err
	}
	if b&0x80 != 0 {
		if err := dec.ReadString(&n.namespaceURI); err != nil {
			n.clearWith(dec.a)
			return err
		}
	}
	if b&0x40 != 0 {
		if err := dec.ReadUInt32(&n.serverIndex); err != nil {
			n.clearWith(dec.a)
			return err
		}
	}
	*value = n
	return nil
}

// ReadStatusCode reads a StatusCode.
func (dec *BinaryDecoder) ReadStatusCode(value *StatusCode) error {
	var u uint32
	if err := dec.ReadUInt32(&u); err != nil {
		return err
	}
	*value = StatusCode(u)
	return nil
}

// ReadQualifiedName reads a QualifiedName.
func (dec *BinaryDecoder) ReadQualifiedName(value *QualifiedName) error {
	var ns uint16
	if err := dec.ReadUInt16(&ns); err != nil {
		return err
	}
	var name string
	if err := dec.ReadString(&name); err != nil {
		return err
	}
	*value = QualifiedName{dec.remoteToLocal(ns), name}
	return nil
}

// ReadLocalizedText reads a LocalizedText.
func (dec *BinaryDecoder) ReadLocalizedText(value *LocalizedText) error {
	var mask byte
	if err := dec.ReadByte(&mask); err != nil {
		return err
	}
	var lt LocalizedText
	if mask&1 != 0 {
		if err := dec.ReadString(&lt.Locale); err != nil {
			return err
		}
	}
	if mask&2 != 0 {
		if err := dec.ReadString(&lt.Text); err != nil {
			lt.clearWith(dec.a)
			return err
		}
	}
	*value = lt
	return nil
}

// ReadDecimal reads a Decimal.
func (dec *BinaryDecoder) ReadDecimal(value *Decimal) error {
	var d Decimal
	if err := dec.ReadInt16(&d.Scale); err != nil {
		return err
	}
	if err := dec.ReadByteString(&d.Value); err != nil {
		return err
	}
	*value = d
	return nil
}

// ReadExtensionObject reads an ExtensionObject. The body of a type found
// among the builtin, well-known and custom types is decoded, any other body
// is kept as it was encoded.
func (dec *BinaryDecoder) ReadExtensionObject(value *ExtensionObject) error {
	var typeID NodeID
	if err := dec.ReadNodeID(&typeID); err != nil {
		return err
	}
	var b byte
	if err := dec.ReadByte(&b); err != nil {
		typeID.clearWith(dec.a)
		return err
	}
	switch b {
	case 0x00:
		*value = ExtensionObject{typeID: typeID}
		return nil
	case 0x01:
		var n int32
		if err := dec.ReadInt32(&n); err != nil {
			typeID.clearWith(dec.a)
			return err
		}
		if typ, ok := findDataTypeByEncodingID(typeID, dec.custom); ok && n >= 0 {
			typeID.clearWith(dec.a)
			return dec.readBody(value, typ, int(n))
		}
		body, err := dec.readBytes(n)
		if err != nil {
			typeID.clearWith(dec.a)
			return err
		}
		*value = ExtensionObject{encoding: ExtensionObjectEncodingByteString, typeID: typeID, body: body}
		return nil
	case 0x02:
		var body string
		if err := dec.ReadString(&body); err != nil {
			typeID.clearWith(dec.a)
			return err
		}
		*value = ExtensionObject{encoding: ExtensionObjectEncodingXMLElement, typeID: typeID, body: body}
		return nil
	}
	typeID.clearWith(dec.a)
	return BadDecodingError
}

// readBody decodes a body of n bytes as a value of the type. The body is
// staged in a pooled buffer, so a body shorter than its length prefix fails
// without reading past it.
func (dec *BinaryDecoder) readBody(value *ExtensionObject, typ *DataType, n int) error {
	if r := dec.remaining(); r >= 0 && n > r {
		return BadDecodingError
	}
	if err := dec.enter(); err != nil {
		return err
	}
	defer dec.leave()
	var bs []byte
	if n <= defaultBufferSize {
		pooled := bytesPool.Get().([]byte)
		defer bytesPool.Put(pooled)
		bs = pooled[:n]
	} else {
		bs = make([]byte, n)
	}
	if err := dec.read(bs); err != nil {
		return err
	}
	p, err := allocNew(dec.a, typ.goType)
	if err != nil {
		return err
	}
	*value = ExtensionObject{encoding: ExtensionObjectEncodingDecoded, typ: typ, data: p.Interface()}
	sub := &BinaryDecoder{r: bytes.NewReader(bs), nm: dec.nm, custom: dec.custom, a: dec.a, depth: dec.depth}
	return sub.decodeValue(p.Elem(), typ)
}

// ReadDataValue reads a DataValue.
func (dec *BinaryDecoder) ReadDataValue(value *DataValue) error {
	var mask byte
	if err := dec.ReadByte(&mask); err != nil {
		return err
	}
	*value = DataValue{}
	if mask&1 != 0 {
		value.HasValue = true
		if err := dec.ReadVariant(&value.Value); err != nil {
			return err
		}
	}
	if mask&2 != 0 {
		value.HasStatus = true
		if err := dec.ReadStatusCode(&value.Status); err != nil {
			return err
		}
	}
	if mask&4 != 0 {
		value.HasSourceTimestamp = true
		if err := dec.ReadDateTime(&value.SourceTimestamp); err != nil {
			return err
		}
	}
	if mask&16 != 0 {
		value.HasSourcePicoseconds = true
		if err := dec.ReadUInt16(&value.SourcePicoseconds); err != nil {
			return err
		}
	}
	if mask&8 != 0 {
		value.HasServerTimestamp = true
		if err := dec.ReadDateTime(&value.ServerTimestamp); err != nil {
			return err
		}
	}
	if mask&32 != 0 {
		value.HasServerPicoseconds = true
		if err := dec.ReadUInt16(&value.ServerPicoseconds); err != nil {
			return err
		}
	}
	return nil
}

// ReadVariant reads a Variant. An ExtensionObject holding a decoded value is
// unwrapped, as is an array of ExtensionObjects that all hold decoded values
// of the same type.
func (dec *BinaryDecoder) ReadVariant(value *Variant) error {
	var mask byte
	if err := dec.ReadByte(&mask); err != nil {
		return err
	}
	*value = Variant{}
	id := mask & 0x3F
	if id == 0 {
		return nil
	}
	if id > byte(KindDiagnosticInfo)+1 || (mask&0x40 != 0 && mask&0x80 == 0) {
		return BadDecodingError
	}
	if err := dec.enter(); err != nil {
		return err
	}
	defer dec.leave()
	typ := DataTypes[id-1]
	if mask&0x80 == 0 {
		if typ == TypeExtensionObject {
			var eo ExtensionObject
			if err := dec.ReadExtensionObject(&eo); err != nil {
				eo.clearWith(dec.a)
				return err
			}
			if eo.encoding == ExtensionObjectEncodingDecoded {
				*value = Variant{typ: eo.typ, data: eo.data}
				return nil
			}
			p, err := allocNew(dec.a, typ.goType)
			if err != nil {
				eo.clearWith(dec.a)
				return err
			}
			*p.Interface().(*ExtensionObject) = eo
			*value = Variant{typ: typ, data: p.Interface()}
			return nil
		}
		p, err := allocNew(dec.a, typ.goType)
		if err != nil {
			return err
		}
		*value = Variant{typ: typ, data: p.Interface()}
		return dec.decodeValue(p.Elem(), typ)
	}

	s := reflect.New(reflect.SliceOf(typ.goType)).Elem()
	if err := dec.decodeArray(s, typ); err != nil {
		clearArray(s, typ, dec.a)
		return err
	}
	*value = Variant{typ: typ, array: true, data: s.Interface()}
	if typ == TypeExtensionObject {
		if err := value.unwrapExtensionObjects(dec.a); err != nil {
			return err
		}
	}
	if mask&0x40 == 0 {
		return nil
	}
	var nd int32
	if err := dec.ReadInt32(&nd); err != nil {
		return err
	}
	if nd < 0 {
		return nil
	}
	if r := dec.remaining(); r >= 0 && int(nd) > r {
		return BadDecodingError
	}
	dims, err := allocSlice(dec.a, uint32sType, int(nd))
	if err != nil {
		return err
	}
	value.arrayDimensions = dims.Interface().([]uint32)
	for i := range value.arrayDimensions {
		var d int32
		if err := dec.ReadInt32(&d); err != nil {
			return err
		}
		if d < 0 {
			return BadDecodingError
		}
		value.arrayDimensions[i] = uint32(d)
	}
	if nd > 0 && dimsProduct(value.arrayDimensions) != value.ArrayLength() {
		return BadDecodingError
	}
	return nil
}

// ReadDiagnosticInfo reads a DiagnosticInfo.
func (dec *BinaryDecoder) ReadDiagnosticInfo(value *DiagnosticInfo) error {
	if err := dec.enter(); err != nil {
		return err
	}
	defer dec.leave()
	var mask byte
	if err := dec.ReadByte(&mask); err != nil {
		return err
	}
	*value = DiagnosticInfo{}
	if mask&1 != 0 {
		value.HasSymbolicID = true
		if err := dec.ReadInt32(&value.SymbolicID); err != nil {
			return err
		}
	}
	if mask&2 != 0 {
		value.HasNamespaceURI = true
		if err := dec.ReadInt32(&value.NamespaceURI); err != nil {
			return err
		}
	}
	if mask&8 != 0 {
		value.HasLocale = true
		if err := dec.ReadInt32(&value.Locale); err != nil {
			return err
		}
	}
	if mask&4 != 0 {
		value.HasLocalizedText = true
		if err := dec.ReadInt32(&value.LocalizedText); err != nil {
			return err
		}
	}
	if mask&16 != 0 {
		value.HasAdditionalInfo = true
		if err := dec.ReadString(&value.AdditionalInfo); err != nil {
			return err
		}
	}
	if mask&32 != 0 {
		value.HasInnerStatusCode = true
		if err := dec.ReadStatusCode(&value.InnerStatusCode); err != nil {
			return err
		}
	}
	if mask&64 != 0 {
		value.HasInnerDiagnosticInfo = true
		p, err := allocNew(dec.a, diagnosticInfoType)
		if err != nil {
			return err
		}
		value.InnerDiagnosticInfo = p.Interface().(*DiagnosticInfo)
		return dec.ReadDiagnosticInfo(value.InnerDiagnosticInfo)
	}
	return nil
}
