// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

import (
	"encoding/base64"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// EncodeJSONOptions configure the JSON encoder. The zero value produces the
// reversible encoding.
type EncodeJSONOptions struct {
	// NamespaceMapping translates local namespace indices to the indices of
	// the remote end.
	NamespaceMapping *NamespaceMapping
	// ServerURIs resolves server indices in the non-reversible encoding.
	ServerURIs []string
	// NonReversible produces the simpler encoding meant for consumers that
	// do not decode the values back, e.g. a Variant is written as its body.
	NonReversible bool
	// PrettyPrint adds line breaks and indentation.
	PrettyPrint bool
	// UnquotedKeys writes the keys of objects without quotes (JSON5).
	UnquotedKeys bool
	// StringNodeIDs writes NodeIds and ExpandedNodeIds in their string form.
	StringNodeIDs bool
	// Int64AsNumber writes Int64 and UInt64 as numbers instead of strings.
	Int64AsNumber bool
}

// JSONEncoder encodes the OPC UA JSON encoding.
type JSONEncoder struct {
	w     io.Writer
	opts  EncodeJSONOptions
	buf   []byte
	level int
	depth int
	err   error
}

// NewJSONEncoder returns a new encoder that writes to an io.Writer.
func NewJSONEncoder(w io.Writer, opts *EncodeJSONOptions) *JSONEncoder {
	enc := &JSONEncoder{w: w, buf: make([]byte, 0, 64)}
	if opts != nil {
		enc.opts = *opts
	}
	return enc
}

// CalcSizeJSON returns the number of bytes of the JSON encoding of the value
// pointed to by p.
func CalcSizeJSON(p any, typ *DataType, opts *EncodeJSONOptions) (int, error) {
	w := &countingWriter{}
	if err := NewJSONEncoder(w, opts).Encode(p, typ); err != nil {
		return 0, err
	}
	return int(w.n), nil
}

// EncodeJSON encodes the value pointed to by p into out. If out is nil, a
// buffer of the exact size is allocated. Returns the encoded bytes, or
// BadEncodingLimitsExceeded if out is too small.
func EncodeJSON(p any, typ *DataType, out []byte, opts *EncodeJSONOptions) ([]byte, error) {
	if out == nil {
		n, err := CalcSizeJSON(p, typ, opts)
		if err != nil {
			return nil, err
		}
		out = make([]byte, n)
	}
	w := &fixedWriter{buf: out}
	if err := NewJSONEncoder(w, opts).Encode(p, typ); err != nil {
		return nil, err
	}
	return out[:w.n], nil
}

// Print returns the value pointed to by p as indented JSON5 text, with
// unquoted keys and NodeIds in their string form.
func Print(p any, typ *DataType) (string, error) {
	b := new(strings.Builder)
	err := NewJSONEncoder(b, &EncodeJSONOptions{PrettyPrint: true, UnquotedKeys: true, StringNodeIDs: true}).Encode(p, typ)
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// Encode encodes the value pointed to by p and writes the text to the
// io.Writer.
func (enc *JSONEncoder) Encode(p any, typ *DataType) error {
	v, ok := valueOf(p, typ)
	if !ok {
		return BadTypeMismatch
	}
	if err := enc.encodeValue(v, typ); err != nil {
		return err
	}
	return enc.err
}

// raw writes the text unless an earlier write failed.
func (enc *JSONEncoder) raw(s string) {
	if enc.err != nil {
		return
	}
	if _, err := io.WriteString(enc.w, s); err != nil {
		enc.err = toStatusCode(err, BadEncodingError)
	}
}

func (enc *JSONEncoder) flush() {
	if enc.err == nil {
		if _, err := enc.w.Write(enc.buf); err != nil {
			enc.err = toStatusCode(err, BadEncodingError)
		}
	}
	enc.buf = enc.buf[:0]
}

func (enc *JSONEncoder) enter() error {
	enc.depth++
	if enc.depth > maxNestingDepth {
		enc.depth--
		return BadEncodingError
	}
	return nil
}

func (enc *JSONEncoder) leave() {
	enc.depth--
}

func (enc *JSONEncoder) localToRemote(ns uint16) uint16 {
	if enc.opts.NamespaceMapping == nil {
		return ns
	}
	return enc.opts.NamespaceMapping.Local2Remote(ns)
}

func (enc *JSONEncoder) newline() {
	if !enc.opts.PrettyPrint {
		return
	}
	enc.raw("\n")
	for i := 0; i < enc.level; i++ {
		enc.raw("  ")
	}
}

// open writes the opening bracket of an object or array.
func (enc *JSONEncoder) open(c string) {
	enc.raw(c)
	enc.level++
}

// close writes the closing bracket after n members.
func (enc *JSONEncoder) close(c string, n int) {
	enc.level--
	if n > 0 {
		enc.newline()
	}
	enc.raw(c)
}

// elem starts the next element of an array.
func (enc *JSONEncoder) elem(n *int) {
	if *n > 0 {
		enc.raw(",")
	}
	*n++
	enc.newline()
}

// key starts the next member of an object.
func (enc *JSONEncoder) key(n *int, name string) {
	enc.elem(n)
	if enc.opts.UnquotedKeys && isIdentifier(name) {
		enc.raw(name)
	} else {
		enc.writeString(name)
	}
	if enc.opts.PrettyPrint {
		enc.raw(": ")
	} else {
		enc.raw(":")
	}
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c == '_' || c == '$' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || (i > 0 && '0' <= c && c <= '9')) {
			return false
		}
	}
	return true
}

const hexDigits = "0123456789abcdef"

// writeString writes a quoted string. Invalid UTF-8 is replaced.
func (enc *JSONEncoder) writeString(s string) {
	b := append(enc.buf, '"')
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch {
			case c == '"' || c == '\\':
				b = append(b, '\\', c)
			case c == '\n':
				b = append(b, '\\', 'n')
			case c == '\r':
				b = append(b, '\\', 'r')
			case c == '\t':
				b = append(b, '\\', 't')
			case c < 0x20 || c == 0x7F:
				b = append(b, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xF])
			default:
				b = append(b, c)
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			b = append(b, `\ufffd`...)
		case r == '\u2028' || r == '\u2029':
			b = append(b, '\\', 'u', '2', '0', '2', hexDigits[r&0xF])
		default:
			b = append(b, s[i:i+size]...)
		}
		i += size
	}
	enc.buf = append(b, '"')
	enc.flush()
}

func (enc *JSONEncoder) writeInt(value int64) {
	enc.buf = strconv.AppendInt(enc.buf, value, 10)
	enc.flush()
}

func (enc *JSONEncoder) writeUint(value uint64) {
	enc.buf = strconv.AppendUint(enc.buf, value, 10)
	enc.flush()
}

// WriteBoolean writes a boolean.
func (enc *JSONEncoder) WriteBoolean(value bool) {
	enc.raw(strconv.FormatBool(value))
}

// WriteInt64 writes an Int64 as quoted decimal string.
func (enc *JSONEncoder) WriteInt64(value int64) {
	if enc.opts.Int64AsNumber {
		enc.writeInt(value)
		return
	}
	enc.buf = append(enc.buf, '"')
	enc.buf = strconv.AppendInt(enc.buf, value, 10)
	enc.buf = append(enc.buf, '"')
	enc.flush()
}

// WriteUInt64 writes an UInt64 as quoted decimal string.
func (enc *JSONEncoder) WriteUInt64(value uint64) {
	if enc.opts.Int64AsNumber {
		enc.writeUint(value)
		return
	}
	enc.buf = append(enc.buf, '"')
	enc.buf = strconv.AppendUint(enc.buf, value, 10)
	enc.buf = append(enc.buf, '"')
	enc.flush()
}

// writeFloat writes a number, or one of the strings "NaN", "Infinity" and
// "-Infinity".
func (enc *JSONEncoder) writeFloat(value float64, bitSize int) {
	switch {
	case math.IsNaN(value):
		enc.raw(`"NaN"`)
	case math.IsInf(value, 1):
		enc.raw(`"Infinity"`)
	case math.IsInf(value, -1):
		enc.raw(`"-Infinity"`)
	default:
		enc.buf = strconv.AppendFloat(enc.buf, value, 'g', -1, bitSize)
		enc.flush()
	}
}

// WriteString writes a String.
func (enc *JSONEncoder) WriteString(value string) {
	enc.writeString(value)
}

// WriteDateTime writes a DateTime in ISO 8601 format. The zero time is
// written as the minimum DateTime.
func (enc *JSONEncoder) WriteDateTime(value time.Time) {
	ticks := DateTimeToTicks(value)
	switch {
	case ticks == 0:
		enc.raw(`"1601-01-01T00:00:00Z"`)
	case ticks >= ticksMax:
		enc.raw(`"9999-12-31T23:59:59Z"`)
	default:
		enc.buf = append(enc.buf, '"')
		enc.buf = TicksToDateTime(ticks).AppendFormat(enc.buf, time.RFC3339Nano)
		enc.buf = append(enc.buf, '"')
		enc.flush()
	}
}

// WriteGUID writes a Guid in the upper case string form.
func (enc *JSONEncoder) WriteGUID(value uuid.UUID) {
	enc.raw(`"` + strings.ToUpper(value.String()) + `"`)
}

// WriteByteString writes a ByteString as base64 string.
func (enc *JSONEncoder) WriteByteString(value ByteString) {
	enc.raw(`"` + base64.StdEncoding.EncodeToString([]byte(value)) + `"`)
}

// WriteStatusCode writes a StatusCode as number. The non-reversible encoding
// adds the symbolic name.
func (enc *JSONEncoder) WriteStatusCode(value StatusCode) {
	if !enc.opts.NonReversible {
		enc.writeUint(uint64(value))
		return
	}
	n := 0
	enc.open("{")
	if value != Good {
		enc.key(&n, "Code")
		enc.writeUint(uint64(value))
		enc.key(&n, "Symbol")
		enc.writeString(value.Name())
	}
	enc.close("}", n)
}

func (enc *JSONEncoder) writeIdentifier(n *int, value NodeID) {
	switch value.idType {
	case IDTypeString:
		enc.key(n, "IdType")
		enc.writeInt(1)
	case IDTypeGUID:
		enc.key(n, "IdType")
		enc.writeInt(2)
	case IDTypeOpaque:
		enc.key(n, "IdType")
		enc.writeInt(3)
	}
	enc.key(n, "Id")
	switch value.idType {
	case IDTypeNumeric:
		enc.writeUint(uint64(value.nid))
	case IDTypeString:
		enc.writeString(value.sid)
	case IDTypeGUID:
		enc.WriteGUID(value.gid)
	case IDTypeOpaque:
		enc.WriteByteString(ByteString(value.bid))
	}
}

// writeNamespace writes the namespace index, or the namespace uri in the
// non-reversible encoding if known.
func (enc *JSONEncoder) writeNamespace(n *int, name string, ns uint16) {
	if ns == 0 {
		return
	}
	enc.key(n, name)
	if enc.opts.NonReversible && ns > 1 {
		if uri, err := enc.opts.NamespaceMapping.Index2URI(ns); err == nil {
			enc.writeString(uri)
			return
		}
	}
	enc.writeUint(uint64(enc.localToRemote(ns)))
}

// WriteNodeID writes a NodeId.
func (enc *JSONEncoder) WriteNodeID(value NodeID) {
	if enc.opts.StringNodeIDs {
		enc.writeString(printNodeIDRemote(value, enc.opts.NamespaceMapping))
		return
	}
	n := 0
	enc.open("{")
	enc.writeIdentifier(&n, value)
	enc.writeNamespace(&n, "Namespace", value.namespaceIndex)
	enc.close("}", n)
}

// WriteExpandedNodeID writes an ExpandedNodeId. A namespace uri is written
// as string.
func (enc *JSONEncoder) WriteExpandedNodeID(value ExpandedNodeID) {
	if enc.opts.StringNodeIDs {
		enc.writeString(printExpandedNodeIDRemote(value, enc.opts.NamespaceMapping))
		return
	}
	n := 0
	enc.open("{")
	enc.writeIdentifier(&n, value.nodeID)
	if value.namespaceURI != "" {
		enc.key(&n, "Namespace")
		enc.writeString(value.namespaceURI)
	} else {
		enc.writeNamespace(&n, "Namespace", value.nodeID.namespaceIndex)
	}
	if value.serverIndex != 0 {
		enc.key(&n, "ServerUri")
		if enc.opts.NonReversible && int(value.serverIndex) < len(enc.opts.ServerURIs) {
			enc.writeString(enc.opts.ServerURIs[value.serverIndex])
		} else {
			enc.writeUint(uint64(value.serverIndex))
		}
	}
	enc.close("}", n)
}

// WriteQualifiedName writes a QualifiedName.
func (enc *JSONEncoder) WriteQualifiedName(value QualifiedName) {
	n := 0
	enc.open("{")
	if value.Name != "" {
		enc.key(&n, "Name")
		enc.writeString(value.Name)
	}
	enc.writeNamespace(&n, "Uri", value.NamespaceIndex)
	enc.close("}", n)
}

// WriteLocalizedText writes a LocalizedText. The non-reversible encoding
// writes the text only.
func (enc *JSONEncoder) WriteLocalizedText(value LocalizedText) {
	if enc.opts.NonReversible {
		enc.writeString(value.Text)
		return
	}
	n := 0
	enc.open("{")
	if value.Locale != "" {
		enc.key(&n, "Locale")
		enc.writeString(value.Locale)
	}
	if value.Text != "" {
		enc.key(&n, "Text")
		enc.writeString(value.Text)
	}
	enc.close("}", n)
}

// WriteDecimal writes a Decimal.
func (enc *JSONEncoder) WriteDecimal(value Decimal) {
	n := 0
	enc.open("{")
	enc.key(&n, "Scale")
	enc.writeInt(int64(value.Scale))
	enc.key(&n, "Value")
	enc.WriteByteString(value.Value)
	enc.close("}", n)
}

// encodeValue encodes the addressable value v of the type.
func (enc *JSONEncoder) encodeValue(v reflect.Value, typ *DataType) error {
	switch typ.Kind {
	case KindBoolean:
		enc.WriteBoolean(v.Bool())
	case KindSByte, KindInt16, KindInt32, KindEnum:
		enc.writeInt(v.Int())
	case KindByte, KindUInt16, KindUInt32:
		enc.writeUint(v.Uint())
	case KindInt64:
		enc.WriteInt64(v.Int())
	case KindUInt64:
		enc.WriteUInt64(v.Uint())
	case KindFloat:
		enc.writeFloat(v.Float(), 32)
	case KindDouble:
		enc.writeFloat(v.Float(), 64)
	case KindString, KindXMLElement:
		enc.writeString(v.String())
	case KindDateTime:
		enc.WriteDateTime(*ptrTo[time.Time](v))
	case KindGUID:
		enc.WriteGUID(*ptrTo[uuid.UUID](v))
	case KindByteString:
		enc.WriteByteString(ByteString(v.String()))
	case KindNodeID:
		enc.WriteNodeID(*ptrTo[NodeID](v))
	case KindExpandedNodeID:
		enc.WriteExpandedNodeID(*ptrTo[ExpandedNodeID](v))
	case KindStatusCode:
		enc.WriteStatusCode(StatusCode(v.Uint()))
	case KindQualifiedName:
		enc.WriteQualifiedName(*ptrTo[QualifiedName](v))
	case KindLocalizedText:
		enc.WriteLocalizedText(*ptrTo[LocalizedText](v))
	case KindDecimal:
		enc.WriteDecimal(*ptrTo[Decimal](v))
	case KindExtensionObject:
		return enc.WriteExtensionObject(ptrTo[ExtensionObject](v))
	case KindDataValue:
		return enc.WriteDataValue(ptrTo[DataValue](v))
	case KindVariant:
		return enc.WriteVariant(ptrTo[Variant](v))
	case KindDiagnosticInfo:
		return enc.WriteDiagnosticInfo(ptrTo[DiagnosticInfo](v))
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

// encodeStructure writes an object with a member per field. Absent optional
// fields are left out.
func (enc *JSONEncoder) encodeStructure(v reflect.Value, typ *DataType) error {
	n := 0
	enc.open("{")
	switch typ.Kind {
	case KindStructure, KindOptStruct:
		for i := range typ.Members {
			m := &typ.Members[i]
			f := v.Field(m.field)
			if m.IsOptional && f.IsNil() {
				continue
			}
			enc.key(&n, m.Name)
			if err := enc.encodeMember(f, m); err != nil {
				return err
			}
		}
	case KindUnion:
		sw := uint32(v.Field(0).Uint())
		if sw > uint32(len(typ.Members)) {
			return BadEncodingError
		}
		enc.key(&n, "SwitchField")
		enc.writeUint(uint64(sw))
		if sw > 0 {
			m := &typ.Members[sw-1]
			enc.key(&n, "Value")
			if err := enc.encodeMember(v.Field(m.field), m); err != nil {
				return err
			}
		}
	case KindBitfieldCluster:
		for i := range typ.Members {
			m := &typ.Members[i]
			enc.key(&n, m.Name)
			enc.WriteBoolean(v.Field(m.field).Bool())
		}
	}
	enc.close("}", n)
	return nil
}

func (enc *JSONEncoder) encodeMember(f reflect.Value, m *DataTypeMember) error {
	switch {
	case m.IsArray:
		return enc.encodeArray(f, m.Type)
	case m.IsOptional:
		return enc.encodeValue(f.Elem(), m.Type)
	default:
		return enc.encodeValue(f, m.Type)
	}
}

// encodeArray writes the elements of the slice, or null for a nil slice.
func (enc *JSONEncoder) encodeArray(s reflect.Value, typ *DataType) error {
	if s.IsNil() {
		enc.raw("null")
		return nil
	}
	if err := enc.enter(); err != nil {
		return err
	}
	defer enc.leave()
	n := 0
	enc.open("[")
	for i := 0; i < s.Len(); i++ {
		enc.elem(&n)
		if err := enc.encodeValue(s.Index(i), typ); err != nil {
			return err
		}
	}
	enc.close("]", n)
	return nil
}

// writeStructureAsExtensionObject writes the value v of a structured type
// with the id of the type.
func (enc *JSONEncoder) writeStructureAsExtensionObject(v reflect.Value, typ *DataType) error {
	if enc.opts.NonReversible {
		return enc.encodeValue(v, typ)
	}
	if err := enc.enter(); err != nil {
		return err
	}
	defer enc.leave()
	n := 0
	enc.open("{")
	enc.key(&n, "TypeId")
	enc.WriteNodeID(typ.TypeID)
	enc.key(&n, "Body")
	if err := enc.encodeValue(v, typ); err != nil {
		return err
	}
	enc.close("}", n)
	return nil
}

// WriteExtensionObject writes an ExtensionObject. Decoded values are written
// as JSON objects, encoded bodies as strings with their encoding.
func (enc *JSONEncoder) WriteExtensionObject(value *ExtensionObject) error {
	if value.IsDecoded() {
		return enc.writeStructureAsExtensionObject(reflect.ValueOf(value.data).Elem(), value.typ)
	}
	n := 0
	enc.open("{")
	if !value.typeID.IsNil() {
		enc.key(&n, "TypeId")
		enc.WriteNodeID(value.typeID)
	}
	switch value.encoding {
	case ExtensionObjectEncodingByteString:
		enc.key(&n, "Encoding")
		enc.writeInt(1)
		enc.key(&n, "Body")
		enc.WriteByteString(ByteString(value.body))
	case ExtensionObjectEncodingXMLElement:
		enc.key(&n, "Encoding")
		enc.writeInt(2)
		enc.key(&n, "Body")
		enc.writeString(value.body)
	}
	enc.close("}", n)
	return nil
}

// WriteDataValue writes a DataValue. Only the fields that are set are written.
func (enc *JSONEncoder) WriteDataValue(value *DataValue) error {
	n := 0
	enc.open("{")
	if value.HasValue {
		enc.key(&n, "Value")
		if err := enc.WriteVariant(&value.Value); err != nil {
			return err
		}
	}
	if value.HasStatus {
		enc.key(&n, "Status")
		enc.WriteStatusCode(value.Status)
	}
	if value.HasSourceTimestamp {
		enc.key(&n, "SourceTimestamp")
		enc.WriteDateTime(value.SourceTimestamp)
	}
	if value.HasSourcePicoseconds {
		enc.key(&n, "SourcePicoseconds")
		enc.writeUint(uint64(value.SourcePicoseconds))
	}
	if value.HasServerTimestamp {
		enc.key(&n, "ServerTimestamp")
		enc.WriteDateTime(value.ServerTimestamp)
	}
	if value.HasServerPicoseconds {
		enc.key(&n, "ServerPicoseconds")
		enc.writeUint(uint64(value.ServerPicoseconds))
	}
	enc.close("}", n)
	return nil
}

// WriteVariant writes a Variant as object with the builtin type id, the body
// and the array dimensions. Values of types without a builtin type id are
// wrapped in ExtensionObjects. An empty Variant is written as {}. The
// non-reversible encoding writes the body only, with multi-dimensional
// arrays as nested arrays.
func (enc *JSONEncoder) WriteVariant(value *Variant) error {
	if value.typ == nil {
		if enc.opts.NonReversible {
			enc.raw("null")
			return nil
		}
		enc.raw("{}")
		return nil
	}
	if err := enc.enter(); err != nil {
		return err
	}
	defer enc.leave()
	rv := reflect.ValueOf(value.data)
	if enc.opts.NonReversible {
		if !value.array {
			return enc.writeVariantBody(rv.Elem(), value.typ)
		}
		if len(value.arrayDimensions) > 1 && dimsProduct(value.arrayDimensions) == rv.Len() {
			return enc.writeNestedArray(rv, value.typ, value.arrayDimensions)
		}
		return enc.writeVariantArray(rv, value.typ)
	}
	id := value.typ.builtinTypeID()
	if id == 0 {
		id = byte(KindExtensionObject) + 1
	}
	n := 0
	enc.open("{")
	enc.key(&n, "Type")
	enc.writeUint(uint64(id))
	enc.key(&n, "Body")
	if !value.array {
		if err := enc.writeVariantBody(rv.Elem(), value.typ); err != nil {
			return err
		}
	} else {
		if err := enc.writeVariantArray(rv, value.typ); err != nil {
			return err
		}
		if len(value.arrayDimensions) > 0 {
			enc.key(&n, "Dimensions")
			m := 0
			enc.open("[")
			for _, d := range value.arrayDimensions {
				enc.elem(&m)
				enc.writeUint(uint64(d))
			}
			enc.close("]", m)
		}
	}
	enc.close("}", n)
	return nil
}

func (enc *JSONEncoder) writeVariantBody(v reflect.Value, typ *DataType) error {
	if typ.builtinTypeID() == 0 {
		return enc.writeStructureAsExtensionObject(v, typ)
	}
	return enc.encodeValue(v, typ)
}

func (enc *JSONEncoder) writeVariantArray(s reflect.Value, typ *DataType) error {
	if typ.builtinTypeID() != 0 {
		return enc.encodeArray(s, typ)
	}
	if s.IsNil() {
		enc.raw("null")
		return nil
	}
	n := 0
	enc.open("[")
	for i := 0; i < s.Len(); i++ {
		enc.elem(&n)
		if err := enc.writeStructureAsExtensionObject(s.Index(i), typ); err != nil {
			return err
		}
	}
	enc.close("]", n)
	return nil
}

// writeNestedArray writes the flat slice s as arrays nested to the
// dimensions, the last dimension varying fastest.
func (enc *JSONEncoder) writeNestedArray(s reflect.Value, typ *DataType, dims []uint32) error {
	if len(dims) == 1 {
		n := 0
		enc.open("[")
		for i := 0; i < s.Len(); i++ {
			enc.elem(&n)
			if err := enc.writeVariantBody(s.Index(i), typ); err != nil {
				return err
			}
		}
		enc.close("]", n)
		return nil
	}
	if err := enc.enter(); err != nil {
		return err
	}
	defer enc.leave()
	stride := dimsProduct(dims[1:])
	n := 0
	enc.open("[")
	for i := 0; i < int(dims[0]); i++ {
		enc.elem(&n)
		if err := enc.writeNestedArray(s.Slice(i*stride, (i+1)*stride), typ, dims[1:]); err != nil {
			return err
		}
	}
	enc.close("]", n)
	return nil
}

// WriteDiagnosticInfo writes a DiagnosticInfo. Only the fields that are set
// are written.
func (enc *JSONEncoder) WriteDiagnosticInfo(value *DiagnosticInfo) error {
	if err := enc.enter(); err != nil {
		return err
	}
	defer enc.leave()
	n := 0
	enc.open("{")
	if value.HasSymbolicID {
		enc.key(&n, "SymbolicId")
		enc.writeInt(int64(value.SymbolicID))
	}
	if value.HasNamespaceURI {
		enc.key(&n, "NamespaceUri")
		enc.writeInt(int64(value.NamespaceURI))
	}
	if value.HasLocale {
		enc.key(&n, "Locale")
		enc.writeInt(int64(value.Locale))
	}
	if value.HasLocalizedText {
		enc.key(&n, "LocalizedText")
		enc.writeInt(int64(value.LocalizedText))
	}
	if value.HasAdditionalInfo {
		enc.key(&n, "AdditionalInfo")
		enc.writeString(value.AdditionalInfo)
	}
	if value.HasInnerStatusCode {
		enc.key(&n, "InnerStatusCode")
		enc.WriteStatusCode(value.InnerStatusCode)
	}
	if value.HasInnerDiagnosticInfo && value.InnerDiagnosticInfo != nil {
		enc.key(&n, "InnerDiagnosticInfo")
		if err := enc.WriteDiagnosticInfo(value.InnerDiagnosticInfo); err != nil {
			return err
		}
	}
	enc.close("}", n)
	return nil
}
