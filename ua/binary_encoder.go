// Copyright 2020 Converter Systems LLC. All rights reserved.

package ua

import (
	"encoding/binary"
	"io"
	"math"
	"reflect"
	"time"
	"unsafe"

	"github.com/djherbis/buffer"
	"github.com/google/uuid"
)

// maxNestingDepth limits the recursion of the encoders and decoders.
const maxNestingDepth = 100

// EncodeBinaryOptions configure the binary encoder.
type EncodeBinaryOptions struct {
	// NamespaceMapping translates local namespace indices to the indices of
	// the remote end.
	NamespaceMapping *NamespaceMapping
}

// BinaryEncoder encodes the UA Binary protocol.
type BinaryEncoder struct {
	w     io.Writer
	nm    *NamespaceMapping
	bs    [8]byte
	depth int
}

// NewBinaryEncoder returns a new encoder that writes to an io.Writer.
func NewBinaryEncoder(w io.Writer, opts *EncodeBinaryOptions) *BinaryEncoder {
	enc := &BinaryEncoder{w: w}
	if opts != nil {
		enc.nm = opts.NamespaceMapping
	}
	return enc
}

// CalcSizeBinary returns the number of bytes of the binary encoding of the
// value pointed to by p.
func CalcSizeBinary(p any, typ *DataType, opts *EncodeBinaryOptions) (int, error) {
	w := &countingWriter{}
	if err := NewBinaryEncoder(w, opts).Encode(p, typ); err != nil {
		return 0, err
	}
	return int(w.n), nil
}

// EncodeBinary encodes the value pointed to by p into out. If out is nil, a
// buffer of the exact size is allocated. Returns the encoded bytes, or
// BadEncodingLimitsExceeded if out is too small.
func EncodeBinary(p any, typ *DataType, out []byte, opts *EncodeBinaryOptions) ([]byte, error) {
	if out == nil {
		n, err := CalcSizeBinary(p, typ, opts)
		if err != nil {
			return nil, err
		}
		out = make([]byte, n)
	}
	w := &fixedWriter{buf: out}
	if err := NewBinaryEncoder(w, opts).Encode(p, typ); err != nil {
		return nil, err
	}
	return out[:w.n], nil
}

// Encode encodes the value pointed to by p using the UA Binary protocol and
// writes the bytes to the io.Writer.
func (enc *BinaryEncoder) Encode(p any, typ *DataType) error {
	v, ok := valueOf(p, typ)
	if !ok {
		return BadTypeMismatch
	}
	return enc.encodeValue(v, typ)
}

func (enc *BinaryEncoder) write(b []byte) error {
	if _, err := enc.w.Write(b); err != nil {
		return toStatusCode(err, BadEncodingError)
	}
	return nil
}

func (enc *BinaryEncoder) enter() error {
	enc.depth++
	if enc.depth > maxNestingDepth {
		enc.depth--
		return BadEncodingError
	}
	return nil
}

func (enc *BinaryEncoder) leave() {
	enc.depth--
}

func (enc *BinaryEncoder) localToRemote(ns uint16) uint16 {
	if enc.nm == nil {
		return ns
	}
	return enc.nm.Local2Remote(ns)
}

// encodeValue encodes the addressable value v of the type.
func (enc *BinaryEncoder) encodeValue(v reflect.Value, typ *DataType) error {
	switch typ.Kind {
	case KindBoolean:
		return enc.WriteBoolean(v.Bool())
	case KindSByte:
		return enc.WriteSByte(int8(v.Int()))
	case KindByte:
		return enc.WriteByte(byte(v.Uint()))
	case KindInt16:
		return enc.WriteInt16(int16(v.Int()))
	case KindUInt16:
		return enc.WriteUInt16(uint16(v.Uint()))
	case KindInt32, KindEnum:
		return enc.WriteInt32(int32(v.Int()))
	case KindUInt32:
		return enc.WriteUInt32(uint32(v.Uint()))
	case KindInt64:
		return enc.WriteInt64(v.Int())
	case KindUInt64:
		return enc.WriteUInt64(v.Uint())
	case KindFloat:
		return enc.WriteFloat(float32(v.Float()))
	case KindDouble:
		return enc.WriteDouble(v.Float())
	case KindString:
		return enc.WriteString(v.String())
	case KindDateTime:
		return enc.WriteDateTime(*ptrTo[time.Time](v))
	case KindGUID:
		return enc.WriteGUID(*ptrTo[uuid.UUID](v))
	case KindByteString:
		return enc.WriteByteString(ByteString(v.String()))
	case KindXMLElement:
		return enc.WriteXMLElement(XMLElement(v.String()))
	case KindNodeID:
		return enc.WriteNodeID(*ptrTo[NodeID](v))
	case KindExpandedNodeID:
		return enc.WriteExpandedNodeID(*ptrTo[ExpandedNodeID](v))
	case KindStatusCode:
		return enc.WriteStatusCode(StatusCode(v.Uint()))
	case KindQualifiedName:
		return enc.WriteQualifiedName(*ptrTo[QualifiedName](v))
	case KindLocalizedText:
		return enc.WriteLocalizedText(*ptrTo[LocalizedText](v))
	case KindExtensionObject:
		return enc.WriteExtensionObject(ptrTo[ExtensionObject](v))
	case KindDataValue:
		return enc.WriteDataValue(ptrTo[DataValue](v))
	case KindVariant:
		return enc.WriteVariant(ptrTo[Variant](v))
	case KindDiagnosticInfo:
		return enc.WriteDiagnosticInfo(ptrTo[DiagnosticInfo](v))
	case KindDecimal:
		return enc.WriteDecimal(*ptrTo[Decimal](v))
	case KindStructure, KindOptStruct, KindUnion, KindBitfieldCluster:
		if err := enc.enter(); err != nil {
			return err
		}
		defer enc.leave()
		return enc.encodeStructure(v, typ)
	}
	return BadDataTypeIDUnknown
}

func (enc *BinaryEncoder) encodeStructure(v reflect.Value, typ *DataType) error {
	switch typ.Kind {
	case KindStructure:
		if typ.overlayable {
			return enc.write(rawBytes(v))
		}
		for i := range typ.Members {
			m := &typ.Members[i]
			if err := enc.encodeMember(v.Field(m.field), m); err != nil {
				return err
			}
		}
	case KindOptStruct:
		var mask uint32
		bit := uint32(1)
		for i := range typ.Members {
			m := &typ.Members[i]
			if !m.IsOptional {
				continue
			}
			if !v.Field(m.field).IsNil() {
				mask |= bit
			}
			bit <<= 1
		}
		if err := enc.WriteUInt32(mask); err != nil {
			return err
		}
		for i := range typ.Members {
			m := &typ.Members[i]
			f := v.Field(m.field)
			if m.IsOptional && f.IsNil() {
				continue
			}
			if err := enc.encodeMember(f, m); err != nil {
				return err
			}
		}
	case KindUnion:
		sw := uint32(v.Field(0).Uint())
		if sw > uint32(len(typ.Members)) {
			return BadEncodingError
		}
		if err := enc.WriteUInt32(sw); err != nil {
			return err
		}
		if sw == 0 {
			return nil
		}
		m := &typ.Members[sw-1]
		return enc.encodeMember(v.Field(m.field), m)
	case KindBitfieldCluster:
		n := (len(typ.Members) + 7) / 8
		for i := 0; i < n; i++ {
			var b byte
			for j := 0; j < 8 && i*8+j < len(typ.Members); j++ {
				if v.Field(typ.Members[i*8+j].field).Bool() {
					b |= 1 << j
				}
			}
			if err := enc.WriteByte(b); err != nil {
				return err
			}
		}
	}
	return nil
}

func (enc *BinaryEncoder) encodeMember(f reflect.Value, m *DataTypeMember) error {
	switch {
	case m.IsArray:
		return enc.encodeArray(f, m.Type)
	case m.IsOptional:
		return enc.encodeValue(f.Elem(), m.Type)
	default:
		return enc.encodeValue(f, m.Type)
	}
}

// encodeArray writes the length, -1 for a nil slice, then the elements.
func (enc *BinaryEncoder) encodeArray(s reflect.Value, typ *DataType) error {
	if s.IsNil() {
		return enc.WriteInt32(-1)
	}
	n := s.Len()
	if n > math.MaxInt32 {
		return BadEncodingLimitsExceeded
	}
	if err := enc.WriteInt32(int32(n)); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	if typ.overlayable {
		return enc.write(unsafe.Slice((*byte)(s.UnsafePointer()), n*int(typ.goType.Size())))
	}
	for i := 0; i < n; i++ {
		if err := enc.encodeValue(s.Index(i), typ); err != nil {
			return err
		}
	}
	return nil
}

// WriteBoolean writes a boolean.
func (enc *BinaryEncoder) WriteBoolean(value bool) error {
	if value {
		enc.bs[0] = 1
	} else {
		enc.bs[0] = 0
	}
	return enc.write(enc.bs[:1])
}

// WriteSByte writes a sbyte.
func (enc *BinaryEncoder) WriteSByte(value int8) error {
	enc.bs[0] = byte(value)
	return enc.write(enc.bs[:1])
}

// WriteByte writes a byte.
func (enc *BinaryEncoder) WriteByte(value byte) error {
	enc.bs[0] = value
	return enc.write(enc.bs[:1])
}

// WriteInt16 writes a int16.
func (enc *BinaryEncoder) WriteInt16(value int16) error {
	binary.LittleEndian.PutUint16(enc.bs[:2], uint16(value))
	return enc.write(enc.bs[:2])
}

// WriteUInt16 writes a uint16.
func (enc *BinaryEncoder) WriteUInt16(value uint16) error {
	binary.LittleEndian.PutUint16(enc.bs[:2], value)
	return enc.write(enc.bs[:2])
}

// WriteInt32 writes a int32.
func (enc *BinaryEncoder) WriteInt32(value int32) error {
	binary.LittleEndian.PutUint32(enc.bs[:4], uint32(value))
	return enc.write(enc.bs[:4])
}

// WriteUInt32 writes a uint32.
func (enc *BinaryEncoder) WriteUInt32(value uint32) error {
	binary.LittleEndian.PutUint32(enc.bs[:4], value)
	return enc.write(enc.bs[:4])
}

// WriteInt64 writes a int64.
func (enc *BinaryEncoder) WriteInt64(value int64) error {
	binary.LittleEndian.PutUint64(enc.bs[:8], uint64(value))
	return enc.write(enc.bs[:8])
}

// WriteUInt64 writes a uint64.
func (enc *BinaryEncoder) WriteUInt64(value uint64) error {
	binary.LittleEndian.PutUint64(enc.bs[:8], value)
	return enc.write(enc.bs[:8])
}

// WriteFloat writes a float.
func (enc *BinaryEncoder) WriteFloat(value float32) error {
	binary.LittleEndian.PutUint32(enc.bs[:4], math.Float32bits(value))
	return enc.write(enc.bs[:4])
}

// WriteDouble writes a double.
func (enc *BinaryEncoder) WriteDouble(value float64) error {
	binary.LittleEndian.PutUint64(enc.bs[:8], math.Float64bits(value))
	return enc.write(enc.bs[:8])
}

// WriteString writes a string. An empty string is written as null.
func (enc *BinaryEncoder) WriteString(value string) error {
	if len(value) == 0 {
		return enc.WriteInt32(-1)
	}
	if len(value) > math.MaxInt32 {
		return BadEncodingLimitsExceeded
	}
	if err := enc.WriteInt32(int32(len(value))); err != nil {
		return err
	}
	// write the bytes of the string without copying them.
	return enc.write(unsafe.Slice(unsafe.StringData(value), len(value)))
}

// WriteDateTime writes a date time.
func (enc *BinaryEncoder) WriteDateTime(value time.Time) error {
	return enc.WriteInt64(DateTimeToTicks(value))
}

// WriteGUID writes a UUID.
func (enc *BinaryEncoder) WriteGUID(value uuid.UUID) error {
	enc.bs[0] = value[3]
	enc.bs[1] = value[2]
	enc.bs[2] = value[1]
	enc.bs[3] = value[0]
	enc.bs[4] = value[5]
	enc.bs[5] = value[4]
	enc.bs[6] = value[7]
	enc.bs[7] = value[6]
	if err := enc.write(enc.bs[:8]); err != nil {
		return err
	}
	return enc.write(value[8:])
}

// WriteByteString writes a ByteString.
func (enc *BinaryEncoder) WriteByteString(value ByteString) error {
	return enc.WriteString(string(value))
}

// WriteXMLElement writes a XMLElement.
func (enc *BinaryEncoder) WriteXMLElement(value XMLElement) error {
	return enc.WriteString(string(value))
}

// WriteNodeID writes a NodeID, using the most compact form.
func (enc *BinaryEncoder) WriteNodeID(value NodeID) error {
	return enc.writeNodeID(value, 0)
}

// writeNodeID writes a NodeID with the flags of an ExpandedNodeID or-ed into
// the encoding byte.
func (enc *BinaryEncoder) writeNodeID(value NodeID, flags byte) error {
	ns := enc.localToRemote(value.namespaceIndex)
	switch value.idType {
	case IDTypeNumeric:
		switch {
		case value.nid <= 255 && ns == 0:
			if err := enc.WriteByte(0x00 | flags); err != nil {
				return err
			}
			return enc.WriteByte(byte(value.nid))
		case value.nid <= 65535 && ns <= 255:
			if err := enc.WriteByte(0x01 | flags); err != nil {
				return err
			}
			if err := enc.WriteByte(byte(ns)); err != nil {
				return err
			}
			return enc.WriteUInt16(uint16(value.nid))
		default:
			if err := enc.WriteByte(0x02 | flags); err != nil {
				return err
			}
			if err := enc.WriteUInt16(ns); err != nil {
				return err
			}
			return enc.WriteUInt32(value.nid)
		}
	case IDTypeString:
		if err := enc.WriteByte(0x03 | flags); err != nil {
			return err
		}
		if err := enc.WriteUInt16(ns); err != nil {
			return err
		}
		return enc.WriteString(value.sid)
	case IDTypeGUID:
		if err := enc.WriteByte(0x04 | flags); err != nil {
			return err
		}
		if err := enc.WriteUInt16(ns); err != nil {
			return err
		}
		return enc.WriteGUID(value.gid)
	case IDTypeOpaque:
		if err := enc.WriteByte(0x05 | flags); err != nil {
			return err
		}
		if err := enc.WriteUInt16(ns); err != nil {
			return err
		}
		return enc.WriteByteString(value.bid)
	}
	return BadEncodingError
}

// WriteExpandedNodeID writes an ExpandedNodeID.
func (enc *BinaryEncoder) WriteExpandedNodeID(value ExpandedNodeID) error {
	var flags byte
	if value.namespaceURI != "" {
		flags |= 0x80
	}
	if value.serverIndex > 0 {
		flags |= 0x40
	}
	if err := enc.writeNodeID(value.nodeID, flags); err != nil {
		return err
	}
	if flags&0x80 != 0 {
		if err := enc.WriteString(value.namespaceURI); err != nil {
			return err
		}
	}
	if flags&0x40 != 0 {
		return enc.WriteUInt32(value.serverIndex)
	}
	return nil
}

// WriteStatusCode writes a StatusCode.
func (enc *BinaryEncoder) WriteStatusCode(value StatusCode) error {
	return enc.WriteUInt32(uint32(value))
}

// WriteQualifiedName writes a QualifiedName.
func (enc *BinaryEncoder) WriteQualifiedName(value QualifiedName) error {
	if err := enc.WriteUInt16(enc.localToRemote(value.NamespaceIndex)); err != nil {
		return err
	}
	return enc.WriteString(value.Name)
}

// WriteLocalizedText writes a LocalizedText.
func (enc *BinaryEncoder) WriteLocalizedText(value LocalizedText) error {
	var mask byte
	if value.Locale != "" {
		mask |= 1
	}
	if value.Text != "" {
		mask |= 2
	}
	if err := enc.WriteByte(mask); err != nil {
		return err
	}
	if mask&1 != 0 {
		if err := enc.WriteString(value.Locale); err != nil {
			return err
		}
	}
	if mask&2 != 0 {
		return enc.WriteString(value.Text)
	}
	return nil
}

// WriteDecimal writes a Decimal as its scale followed by the bytes of the value.
func (enc *BinaryEncoder) WriteDecimal(value Decimal) error {
	if err := enc.WriteInt16(value.Scale); err != nil {
		return err
	}
	return enc.WriteByteString(value.Value)
}

// writeStructureAsExtensionObject writes the value v of a structured type
// with the binary encoding id of the type.
func (enc *BinaryEncoder) writeStructureAsExtensionObject(v reflect.Value, typ *DataType) error {
	if err := enc.WriteNodeID(typ.BinaryEncodingID); err != nil {
		return err
	}
	if err := enc.WriteByte(0x01); err != nil {
		return err
	}
	return enc.writeBody(v, typ)
}

// writeBody writes the length of the encoded value followed by the value.
// A writer that supports WriteAt gets the length patched in after the
// body was written, otherwise the body is staged in a pooled buffer.
func (enc *BinaryEncoder) writeBody(v reflect.Value, typ *DataType) error {
	if err := enc.enter(); err != nil {
		return err
	}
	defer enc.leave()
	switch w := enc.w.(type) {
	case buffer.BufferAt:
		mark := w.Len()
		if err := enc.WriteInt32(0); err != nil {
			return err
		}
		start := w.Len()
		if err := enc.encodeValue(v, typ); err != nil {
			return err
		}
		length := w.Len() - start
		if length > math.MaxInt32 {
			return BadEncodingLimitsExceeded
		}
		binary.LittleEndian.PutUint32(enc.bs[:4], uint32(length))
		if _, err := w.WriteAt(enc.bs[:4], mark); err != nil {
			return BadEncodingError
		}
		return nil
	case *countingWriter:
		w.n += 4
		return enc.encodeValue(v, typ)
	}
	buf := buffer.NewPartitionAt(bufferPool)
	defer buf.Reset()
	enc2 := &BinaryEncoder{w: buf, nm: enc.nm, depth: enc.depth}
	if err := enc2.encodeValue(v, typ); err != nil {
		return err
	}
	if buf.Len() > math.MaxInt32 {
		return BadEncodingLimitsExceeded
	}
	if err := enc.WriteInt32(int32(buf.Len())); err != nil {
		return err
	}
	bs := bytesPool.Get().([]byte)
	defer bytesPool.Put(bs)
	if _, err := io.CopyBuffer(enc.w, buf, bs); err != nil {
		return toStatusCode(err, BadEncodingError)
	}
	return nil
}

// WriteExtensionObject writes an ExtensionObject.
func (enc *BinaryEncoder) WriteExtensionObject(value *ExtensionObject) error {
	switch value.encoding {
	case ExtensionObjectEncodingNone:
		if err := enc.WriteNodeID(value.typeID); err != nil {
			return err
		}
		return enc.WriteByte(0x00)
	case ExtensionObjectEncodingByteString:
		if err := enc.WriteNodeID(value.typeID); err != nil {
			return err
		}
		if err := enc.WriteByte(0x01); err != nil {
			return err
		}
		if value.body == "" {
			return enc.WriteInt32(0)
		}
		return enc.WriteString(value.body)
	case ExtensionObjectEncodingXMLElement:
		if err := enc.WriteNodeID(value.typeID); err != nil {
			return err
		}
		if err := enc.WriteByte(0x02); err != nil {
			return err
		}
		return enc.WriteString(value.body)
	case ExtensionObjectEncodingDecoded, ExtensionObjectEncodingDecodedNoDelete:
		return enc.writeStructureAsExtensionObject(reflect.ValueOf(value.data).Elem(), value.typ)
	}
	return BadEncodingError
}

// WriteDataValue writes a DataValue.
func (enc *BinaryEncoder) WriteDataValue(value *DataValue) error {
	var mask byte
	if value.HasValue {
		mask |= 1
	}
	if value.HasStatus {
		mask |= 2
	}
	if value.HasSourceTimestamp {
		mask |= 4
	}
	if value.HasServerTimestamp {
		mask |= 8
	}
	if value.HasSourcePicoseconds {
		mask |= 16
	}
	if value.HasServerPicoseconds {
		mask |= 32
	}
	if err := enc.WriteByte(mask); err != nil {
		return err
	}
	if mask&1 != 0 {
		if err := enc.WriteVariant(&value.Value); err != nil {
			return err
		}
	}
	if mask&2 != 0 {
		if err := enc.WriteStatusCode(value.Status); err != nil {
			return err
		}
	}
	if mask&4 != 0 {
		if err := enc.WriteDateTime(value.SourceTimestamp); err != nil {
			return err
		}
	}
	if mask&16 != 0 {
		if err := enc.WriteUInt16(value.SourcePicoseconds); err != nil {
			return err
		}
	}
	if mask&8 != 0 {
		if err := enc.WriteDateTime(value.ServerTimestamp); err != nil {
			return err
		}
	}
	if mask&32 != 0 {
		if err := enc.WriteUInt16(value.ServerPicoseconds); err != nil {
			return err
		}
	}
	return nil
}

// WriteVariant writes a Variant. Values of types without a builtin type id
// are wrapped in ExtensionObjects.
func (enc *BinaryEncoder) WriteVariant(value *Variant) error {
	if value.typ == nil {
		return enc.WriteByte(0)
	}
	if err := enc.enter(); err != nil {
		return err
	}
	defer enc.leave()
	id := value.typ.builtinTypeID()
	wrap := id == 0
	if wrap {
		id = byte(KindExtensionObject) + 1
	}
	mask := id
	if value.array {
		mask |= 0x80
		if len(value.arrayDimensions) > 0 {
			mask |= 0x40
		}
	}
	if err := enc.WriteByte(mask); err != nil {
		return err
	}
	rv := reflect.ValueOf(value.data)
	if !value.array {
		if wrap {
			return enc.writeStructureAsExtensionObject(rv.Elem(), value.typ)
		}
		return enc.encodeValue(rv.Elem(), value.typ)
	}
	if !wrap {
		if err := enc.encodeArray(rv, value.typ); err != nil {
			return err
		}
	} else {
		if rv.IsNil() {
			if err := enc.WriteInt32(-1); err != nil {
				return err
			}
		} else {
			if rv.Len() > math.MaxInt32 {
				return BadEncodingLimitsExceeded
			}
			if err := enc.WriteInt32(int32(rv.Len())); err != nil {
				return err
			}
			for i := 0; i < rv.Len(); i++ {
				if err := enc.writeStructureAsExtensionObject(rv.Index(i), value.typ); err != nil {
					return err
				}
			}
		}
	}
	if mask&0x40 != 0 {
		if err := enc.WriteInt32(int32(len(value.arrayDimensions))); err != nil {
			return err
		}
		for _, d := range value.arrayDimensions {
			if d > math.MaxInt32 {
				return BadEncodingLimitsExceeded
			}
			if err := enc.WriteInt32(int32(d)); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteDiagnosticInfo writes a DiagnosticInfo.
func (enc *BinaryEncoder) WriteDiagnosticInfo(value *DiagnosticInfo) error {
	if err := enc.enter(); err != nil {
		return err
	}
	defer enc.leave()
	var mask byte
	if value.HasSymbolicID {
		mask |= 1
	}
	if value.HasNamespaceURI {
		mask |= 2
	}
	if value.HasLocalizedText {
		mask |= 4
	}
	if value.HasLocale {
		mask |= 8
	}
	if value.HasAdditionalInfo {
		mask |= 16
	}
	if value.HasInnerStatusCode {
		mask |= 32
	}
	if value.HasInnerDiagnosticInfo && value.InnerDiagnosticInfo != nil {
		mask |= 64
	}
	if err := enc.WriteByte(mask); err != nil {
		return err
	}
	if mask&1 != 0 {
		if err := enc.WriteInt32(value.SymbolicID); err != nil {
			return err
		}
	}
	if mask&2 != 0 {
		if err := enc.WriteInt32(value.NamespaceURI); err != nil {
			return err
		}
	}
	if mask&8 != 0 {
		if err := enc.WriteInt32(value.Locale); err != nil {
			return err
		}
	}
	if mask&4 != 0 {
		if err := enc.WriteInt32(value.LocalizedText); err != nil {
			return err
		}
	}
	if mask&16 != 0 {
		if err := enc.WriteString(value.AdditionalInfo); err != nil {
			return err
		}
	}
	if mask&32 != 0 {
		if err := enc.WriteStatusCode(value.InnerStatusCode); err != nil {
			return err
		}
	}
	if mask&64 != 0 {
		return enc.WriteDiagnosticInfo(value.InnerDiagnosticInfo)
	}
	return nil
}

// countingWriter counts the bytes written.
type countingWriter struct {
	n int64
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.n += int64(len(p))
	return len(p), nil
}

// fixedWriter writes into a caller supplied slice and fails once it is full.
type fixedWriter struct {
	buf  []byte
	n, r int
}

var _ buffer.BufferAt = (*fixedWriter)(nil)

func (w *fixedWriter) Len() int64 {
	return int64(w.n - w.r)
}

func (w *fixedWriter) Cap() int64 {
	return int64(len(w.buf))
}

func (w *fixedWriter) Write(p []byte) (int, error) {
	if len(p) > len(w.buf)-w.n {
		return 0, BadEncodingLimitsExceeded
	}
	w.n += copy(w.buf[w.n:], p)
	return len(p), nil
}

func (w *fixedWriter) WriteAt(p []byte, off int64) (int, error) {
	start := w.r + int(off)
	if off < 0 || start+len(p) > w.n {
		return 0, io.ErrShortWrite
	}
	return copy(w.buf[start:], p), nil
}

func (w *fixedWriter) Read(p []byte) (int, error) {
	if w.r == w.n {
		return 0, io.EOF
	}
	n := copy(p, w.buf[w.r:w.n])
	w.r += n
	return n, nil
}

func (w *fixedWriter) ReadAt(p []byte, off int64) (int, error) {
	start := w.r + int(off)
	if off < 0 || start >= w.n {
		return 0, io.EOF
	}
	n := copy(p, w.buf[start:w.n])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (w *fixedWriter) Reset() {
	w.n, w.r = 0, 0
}
