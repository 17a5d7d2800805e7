// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

import (
	"encoding/base64"
	"encoding/xml"
	"io"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// EncodeXMLOptions configure the XML encoder.
type EncodeXMLOptions struct {
	// NamespaceMapping translates local namespace indices to the indices of
	// the remote end.
	NamespaceMapping *NamespaceMapping
	// ServerURIs is the server table of the remote end.
	ServerURIs []string
}

// XMLEncoder encodes the OPC UA XML encoding.
type XMLEncoder struct {
	w     io.Writer
	opts  EncodeXMLOptions
	buf   []byte
	depth int
	err   error
}

// NewXMLEncoder returns a new encoder that writes to an io.Writer.
func NewXMLEncoder(w io.Writer, opts *EncodeXMLOptions) *XMLEncoder {
	enc := &XMLEncoder{w: w, buf: make([]byte, 0, 64)}
	if opts != nil {
		enc.opts = *opts
	}
	return enc
}

// CalcSizeXML returns the number of bytes of the XML encoding of the value
// pointed to by p.
func CalcSizeXML(p any, typ *DataType, opts *EncodeXMLOptions) (int, error) {
	w := &countingWriter{}
	if err := NewXMLEncoder(w, opts).Encode(p, typ); err != nil {
		return 0, err
	}
	return int(w.n), nil
}

// EncodeXML encodes the value pointed to by p into out. If out is nil, a
// buffer of the exact size is allocated. Returns the encoded bytes, or
// BadEncodingLimitsExceeded if out is too small.
func EncodeXML(p any, typ *DataType, out []byte, opts *EncodeXMLOptions) ([]byte, error) {
	if out == nil {
		n, err := CalcSizeXML(p, typ, opts)
		if err != nil {
			return nil, err
		}
		out = make([]byte, n)
	}
	w := &fixedWriter{buf: out}
	if err := NewXMLEncoder(w, opts).Encode(p, typ); err != nil {
		return nil, err
	}
	return out[:w.n], nil
}

// Encode encodes the value pointed to by p as an element named after the
// type, e.g. <Int32>5</Int32>, and writes the text to the io.Writer.
func (enc *XMLEncoder) Encode(p any, typ *DataType) error {
	v, ok := valueOf(p, typ)
	if !ok {
		return BadTypeMismatch
	}
	enc.start(typ.Name)
	if err := enc.encodeValue(v, typ); err != nil {
		return err
	}
	enc.end(typ.Name)
	return enc.err
}

func (enc *XMLEncoder) raw(s string) {
	if enc.err != nil {
		return
	}
	if _, err := io.WriteString(enc.w, s); err != nil {
		enc.err = toStatusCode(err, BadEncodingError)
	}
}

func (enc *XMLEncoder) flush() {
	if enc.err == nil {
		if _, err := enc.w.Write(enc.buf); err != nil {
			enc.err = toStatusCode(err, BadEncodingError)
		}
	}
	enc.buf = enc.buf[:0]
}

func (enc *XMLEncoder) enter() error {
	enc.depth++
	if enc.depth > maxNestingDepth {
		enc.depth--
		return BadEncodingError
	}
	return nil
}

func (enc *XMLEncoder) leave() {
	enc.depth--
}

func (enc *XMLEncoder) start(name string) {
	enc.raw("<" + name + ">")
}

func (enc *XMLEncoder) end(name string) {
	enc.raw("</" + name + ">")
}

// text writes character data with the XML special characters escaped.
func (enc *XMLEncoder) text(s string) {
	if enc.err != nil {
		return
	}
	if err := xml.EscapeText(enc.w, []byte(s)); err != nil {
		enc.err = toStatusCode(err, BadEncodingError)
	}
}

// element writes <name>text</name>.
func (enc *XMLEncoder) element(name, s string) {
	enc.start(name)
	enc.text(s)
	enc.end(name)
}

func (enc *XMLEncoder) writeFloat(value float64, bitSize int) {
	switch {
	case math.IsNaN(value):
		enc.raw("NaN")
	case math.IsInf(value, 1):
		enc.raw("INF")
	case math.IsInf(value, -1):
		enc.raw("-INF")
	default:
		enc.buf = strconv.AppendFloat(enc.buf, value, 'g', -1, bitSize)
		enc.flush()
	}
}

func (enc *XMLEncoder) writeDateTime(value time.Time) {
	ticks := DateTimeToTicks(value)
	switch {
	case ticks == 0:
		enc.raw("1601-01-01T00:00:00Z")
	case ticks >= ticksMax:
		enc.raw("9999-12-31T23:59:59Z")
	default:
		enc.buf = TicksToDateTime(ticks).AppendFormat(enc.buf, time.RFC3339Nano)
		enc.flush()
	}
}

func (enc *XMLEncoder) writeStatusCode(value StatusCode) {
	enc.start("Code")
	enc.buf = strconv.AppendUint(enc.buf, uint64(value), 10)
	enc.flush()
	enc.end("Code")
}

func (enc *XMLEncoder) writeNodeID(value NodeID) {
	enc.element("Identifier", printNodeIDRemote(value, enc.opts.NamespaceMapping))
}

func (enc *XMLEncoder) writeExpandedNodeID(value ExpandedNodeID) {
	enc.element("Identifier", printExpandedNodeIDRemote(value, enc.opts.NamespaceMapping))
}

// encodeValue writes the content of the element of the addressable value v.
func (enc *XMLEncoder) encodeValue(v reflect.Value, typ *DataType) error {
	switch typ.Kind {
	case KindBoolean:
		enc.raw(strconv.FormatBool(v.Bool()))
	case KindSByte, KindInt16, KindInt32, KindInt64, KindEnum:
		enc.buf = strconv.AppendInt(enc.buf, v.Int(), 10)
		enc.flush()
	case KindByte, KindUInt16, KindUInt32, KindUInt64:
		enc.buf = strconv.AppendUint(enc.buf, v.Uint(), 10)
		enc.flush()
	case KindFloat:
		enc.writeFloat(v.Float(), 32)
	case KindDouble:
		enc.writeFloat(v.Float(), 64)
	case KindString:
		enc.text(v.String())
	case KindXMLElement:
		enc.raw(v.String())
	case KindDateTime:
		enc.writeDateTime(*ptrTo[time.Time](v))
	case KindGUID:
		enc.element("String", ptrTo[uuid.UUID](v).String())
	case KindByteString:
		enc.raw(base64.StdEncoding.EncodeToString([]byte(v.String())))
	case KindNodeID:
		enc.writeNodeID(*ptrTo[NodeID](v))
	case KindExpandedNodeID:
		enc.writeExpandedNodeID(*ptrTo[ExpandedNodeID](v))
	case KindStatusCode:
		enc.writeStatusCode(StatusCode(v.Uint()))
	case KindQualifiedName:
		q := ptrTo[QualifiedName](v)
		if q.NamespaceIndex != 0 {
			ns := q.NamespaceIndex
			if enc.opts.NamespaceMapping != nil {
				ns = enc.opts.NamespaceMapping.Local2Remote(ns)
			}
			enc.element("NamespaceIndex", strconv.FormatUint(uint64(ns), 10))
		}
		enc.element("Name", q.Name)
	case KindLocalizedText:
		lt := ptrTo[LocalizedText](v)
		if lt.Locale != "" {
			enc.element("Locale", lt.Locale)
		}
		if lt.Text != "" {
			enc.element("Text", lt.Text)
		}
	case KindDecimal:
		d := ptrTo[Decimal](v)
		enc.element("Scale", strconv.FormatInt(int64(d.Scale), 10))
		enc.element("Value", base64.StdEncoding.EncodeToString([]byte(d.Value)))
	case KindExtensionObject:
		return enc.writeExtensionObject(ptrTo[ExtensionObject](v))
	case KindDataValue:
		return enc.writeDataValue(ptrTo[DataValue](v))
	case KindVariant:
		return enc.writeVariant(ptrTo[Variant](v))
	case KindDiagnosticInfo:
		return enc.writeDiagnosticInfo(ptrTo[DiagnosticInfo](v))
	case KindStructure, KindOptStruct, KindUnion, KindBitfieldCluster:
		if err := enc.enter(); err != nil {
			return err
		}
		defer enc.leave()
		return enc.encodeStructure(v, typ)
	default:
		return BadDataTypeIDUnknown
	}
	return nil
}

// encodeStructure writes an element per field. Absent optional fields and
// undefined arrays are left out.
func (enc *XMLEncoder) encodeStructure(v reflect.Value, typ *DataType) error {
	switch typ.Kind {
	case KindStructure, KindOptStruct:
		for i := range typ.Members {
			m := &typ.Members[i]
			f := v.Field(m.field)
			if (m.IsOptional || m.IsArray) && f.IsNil() {
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
		enc.element("SwitchField", strconv.FormatUint(uint64(sw), 10))
		if sw > 0 {
			m := &typ.Members[sw-1]
			return enc.encodeMember(v.Field(m.field), m)
		}
	case KindBitfieldCluster:
		for i := range typ.Members {
			m := &typ.Members[i]
			enc.element(m.Name, strconv.FormatBool(v.Field(m.field).Bool()))
		}
	}
	return nil
}

func (enc *XMLEncoder) encodeMember(f reflect.Value, m *DataTypeMember) error {
	enc.start(m.Name)
	switch {
	case m.IsArray:
		if err := enc.encodeArray(f, m.Type, m.Type.Name); err != nil {
			return err
		}
	case m.IsOptional:
		if err := enc.encodeValue(f.Elem(), m.Type); err != nil {
			return err
		}
	default:
		if err := enc.encodeValue(f, m.Type); err != nil {
			return err
		}
	}
	enc.end(m.Name)
	return nil
}

// encodeArray writes an element per item of the slice.
func (enc *XMLEncoder) encodeArray(s reflect.Value, typ *DataType, name string) error {
	if err := enc.enter(); err != nil {
		return err
	}
	defer enc.leave()
	for i := 0; i < s.Len(); i++ {
		enc.start(name)
		if err := enc.encodeValue(s.Index(i), typ); err != nil {
			return err
		}
		enc.end(name)
	}
	return nil
}

// writeStructureAsExtensionObject writes the content of an ExtensionObject
// element for the value v of a structured type.
func (enc *XMLEncoder) writeStructureAsExtensionObject(v reflect.Value, typ *DataType) error {
	if err := enc.enter(); err != nil {
		return err
	}
	defer enc.leave()
	id := typ.XMLEncodingID
	if id.IsNil() {
		id = typ.TypeID
	}
	enc.start("TypeId")
	enc.writeNodeID(id)
	enc.end("TypeId")
	enc.start("Body")
	enc.start(typ.Name)
	if err := enc.encodeValue(v, typ); err != nil {
		return err
	}
	enc.end(typ.Name)
	enc.end("Body")
	return nil
}

func (enc *XMLEncoder) writeExtensionObject(value *ExtensionObject) error {
	if value.IsDecoded() {
		return enc.writeStructureAsExtensionObject(reflect.ValueOf(value.data).Elem(), value.typ)
	}
	if !value.typeID.IsNil() {
		enc.start("TypeId")
		enc.writeNodeID(value.typeID)
		enc.end("TypeId")
	}
	switch value.encoding {
	case ExtensionObjectEncodingByteString:
		enc.start("Body")
		enc.element("ByteString", base64.StdEncoding.EncodeToString([]byte(value.body)))
		enc.end("Body")
	case ExtensionObjectEncodingXMLElement:
		enc.start("Body")
		enc.raw(value.body)
		enc.end("Body")
	}
	return nil
}

func (enc *XMLEncoder) writeDataValue(value *DataValue) error {
	if value.HasValue {
		enc.start("Value")
		if err := enc.writeVariant(&value.Value); err != nil {
			return err
		}
		enc.end("Value")
	}
	if value.HasStatus {
		enc.start("StatusCode")
		enc.writeStatusCode(value.Status)
		enc.end("StatusCode")
	}
	if value.HasSourceTimestamp {
		enc.start("SourceTimestamp")
		enc.writeDateTime(value.SourceTimestamp)
		enc.end("SourceTimestamp")
	}
	if value.HasSourcePicoseconds {
		enc.element("SourcePicoseconds", strconv.FormatUint(uint64(value.SourcePicoseconds), 10))
	}
	if value.HasServerTimestamp {
		enc.start("ServerTimestamp")
		enc.writeDateTime(value.ServerTimestamp)
		enc.end("ServerTimestamp")
	}
	if value.HasServerPicoseconds {
		enc.element("ServerPicoseconds", strconv.FormatUint(uint64(value.ServerPicoseconds), 10))
	}
	return nil
}

// writeVariant writes the Value element of a Variant. Scalars are written
// as element named after the builtin type, arrays as ListOf element and
// arrays with dimensions as Matrix. Values of types without a builtin type
// id are wrapped in ExtensionObjects.
func (enc *XMLEncoder) writeVariant(value *Variant) error {
	if value.typ == nil {
		return nil
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
	name := DataTypes[id-1].Name
	rv := reflect.ValueOf(value.data)
	enc.start("Value")
	switch {
	case !value.array:
		enc.start(name)
		if err := enc.writeVariantBody(rv.Elem(), value.typ); err != nil {
			return err
		}
		enc.end(name)
	case rv.IsNil():
		enc.raw("<ListOf" + name + ` xsi:nil="true"></ListOf` + name + ">")
	case len(value.arrayDimensions) > 0:
		enc.start("Matrix")
		enc.start("Dimensions")
		for _, d := range value.arrayDimensions {
			enc.element("Int32", strconv.FormatUint(uint64(d), 10))
		}
		enc.end("Dimensions")
		enc.start("Elements")
		if err := enc.writeVariantArray(rv, value.typ, name); err != nil {
			return err
		}
		enc.end("Elements")
		enc.end("Matrix")
	default:
		enc.start("ListOf" + name)
		if err := enc.writeVariantArray(rv, value.typ, name); err != nil {
			return err
		}
		enc.end("ListOf" + name)
	}
	enc.end("Value")
	return nil
}

func (enc *XMLEncoder) writeVariantBody(v reflect.Value, typ *DataType) error {
	if typ.builtinTypeID() == 0 {
		return enc.writeStructureAsExtensionObject(v, typ)
	}
	return enc.encodeValue(v, typ)
}

func (enc *XMLEncoder) writeVariantArray(s reflect.Value, typ *DataType, name string) error {
	if typ.builtinTypeID() != 0 {
		return enc.encodeArray(s, typ, name)
	}
	for i := 0; i < s.Len(); i++ {
		enc.start(name)
		if err := enc.writeStructureAsExtensionObject(s.Index(i), typ); err != nil {
			return err
		}
		enc.end(name)
	}
	return nil
}

func (enc *XMLEncoder) writeDiagnosticInfo(value *DiagnosticInfo) error {
	if err := enc.enter(); err != nil {
		return err
	}
	defer enc.leave()
	if value.HasSymbolicID {
		enc.element("SymbolicId", strconv.FormatInt(int64(value.SymbolicID), 10))
	}
	if value.HasNamespaceURI {
		enc.element("NamespaceUri", strconv.FormatInt(int64(value.NamespaceURI), 10))
	}
	if value.HasLocale {
		enc.element("Locale", strconv.FormatInt(int64(value.Locale), 10))
	}
	if value.HasLocalizedText {
		enc.element("LocalizedText", strconv.FormatInt(int64(value.LocalizedText), 10))
	}
	if value.HasAdditionalInfo {
		enc.element("AdditionalInfo", value.AdditionalInfo)
	}
	if value.HasInnerStatusCode {
		enc.start("InnerStatusCode")
		enc.writeStatusCode(value.InnerStatusCode)
		enc.end("InnerStatusCode")
	}
	if value.HasInnerDiagnosticInfo && value.InnerDiagnosticInfo != nil {
		enc.start("InnerDiagnosticInfo")
		if err := enc.writeDiagnosticInfo(value.InnerDiagnosticInfo); err != nil {
			return err
		}
		enc.end("InnerDiagnosticInfo")
	}
	return nil
}
