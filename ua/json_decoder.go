// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

import (
	"encoding/base64"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/awcullen/uatypes/ua/internal/json5"
	"github.com/google/uuid"
)

// DecodeJSONOptions configure the JSON decoder.
type DecodeJSONOptions struct {
	// NamespaceMapping translates the namespace indices of the remote end to
	// local indices and resolves namespace uris.
	NamespaceMapping *NamespaceMapping
	// ServerURIs resolves server uris of ExpandedNodeIds.
	ServerURIs []string
	// CustomTypes are searched for the type ids of ExtensionObjects after the
	// builtin and well-known types.
	CustomTypes *DataTypeArray
	// DecodedLength receives the number of bytes that were decoded. If it is
	// set, content after the value is allowed.
	DecodedLength *int
	// Allocator provides the storage of the decoded value. Defaults to the heap.
	Allocator Allocator
}

// DecodeJSON decodes the JSON text into the value pointed to by p. The
// decoder accepts JSON5: comments, trailing commas, unquoted keys, unquoted
// Int64 values and NodeIds in their string form. On failure the value is
// left cleared.
func DecodeJSON(in []byte, p any, typ *DataType, opts *DecodeJSONOptions) error {
	dec := &jsonDecoder{a: HeapAllocator}
	var decodedLength *int
	if opts != nil {
		dec.nm = opts.NamespaceMapping
		dec.serverURIs = opts.ServerURIs
		dec.custom = opts.CustomTypes
		dec.a = allocatorOrHeap(opts.Allocator)
		decodedLength = opts.DecodedLength
	}
	v, ok := valueOf(p, typ)
	if !ok {
		return BadTypeMismatch
	}
	v.SetZero()
	root, n, err := json5.Parse(in, maxNestingDepth)
	if err != nil {
		return BadDecodingError
	}
	if decodedLength != nil {
		*decodedLength = n
	} else if m, err := json5.SkipSpace(in[n:]); err != nil || n+m != len(in) {
		return BadDecodingError
	}
	if err := dec.decodeValue(v, typ, root); err != nil {
		clearValue(v, typ, dec.a)
		return err
	}
	return nil
}

// jsonDecoder decodes the tree of a parsed JSON text. Nesting is bounded by
// the parser.
type jsonDecoder struct {
	nm         *NamespaceMapping
	serverURIs []string
	custom     *DataTypeArray
	a          Allocator
}

func (dec *jsonDecoder) remoteToLocal(ns uint16) uint16 {
	if dec.nm == nil {
		return ns
	}
	return dec.nm.Remote2Local(ns)
}

var jsonNull = &json5.Value{Kind: json5.Null}

// member returns the member of an object, or null.
func member(j *json5.Value, key string) *json5.Value {
	if j.Kind == json5.Object {
		if m, ok := j.Get(key); ok {
			return m
		}
	}
	return jsonNull
}

// decodeValue decodes the json value into the addressable zero value v of
// the type. Every allocation is stored in v as soon as it is made.
func (dec *jsonDecoder) decodeValue(v reflect.Value, typ *DataType, j *json5.Value) error {
	switch typ.Kind {
	case KindBoolean:
		b, err := jsonBool(j)
		if err != nil {
			return err
		}
		v.SetBool(b)
	case KindSByte, KindInt16, KindInt32, KindInt64, KindEnum:
		i, err := jsonInt(j, typ.goType.Bits())
		if err != nil {
			return err
		}
		v.SetInt(i)
	case KindByte, KindUInt16, KindUInt32, KindUInt64, KindStatusCode:
		if typ.Kind == KindStatusCode && j.Kind == json5.Object {
			// non-reversible form
			j = member(j, "Code")
		}
		u, err := jsonUint(j, typ.goType.Bits())
		if err != nil {
			return err
		}
		v.SetUint(u)
	case KindFloat, KindDouble:
		f, err := jsonFloat(j, typ.goType.Bits())
		if err != nil {
			return err
		}
		v.SetFloat(f)
	case KindString, KindXMLElement:
		s, err := dec.jsonString(j)
		if err != nil {
			return err
		}
		v.SetString(s)
	case KindByteString:
		return dec.decodeByteString(ptrTo[ByteString](v), j)
	case KindDateTime:
		return decodeDateTime(ptrTo[time.Time](v), j)
	case KindGUID:
		return decodeGUID(ptrTo[uuid.UUID](v), j)
	case KindNodeID:
		return dec.decodeNodeID(ptrTo[NodeID](v), j)
	case KindExpandedNodeID:
		return dec.decodeExpandedNodeID(ptrTo[ExpandedNodeID](v), j)
	case KindQualifiedName:
		return dec.decodeQualifiedName(ptrTo[QualifiedName](v), j)
	case KindLocalizedText:
		return dec.decodeLocalizedText(ptrTo[LocalizedText](v), j)
	case KindDecimal:
		return dec.decodeDecimal(ptrTo[Decimal](v), j)
	case KindExtensionObject:
		return dec.decodeExtensionObject(ptrTo[ExtensionObject](v), j)
	case KindDataValue:
		return dec.decodeDataValue(ptrTo[DataValue](v), j)
	case KindVariant:
		return dec.decodeVariant(ptrTo[Variant](v), j)
	case KindDiagnosticInfo:
		return dec.decodeDiagnosticInfo(ptrTo[DiagnosticInfo](v), j)
	case KindStructure, KindOptStruct, KindUnion, KindBitfieldCluster:
		return dec.decodeStructure(v, typ, j)
	default:
		return BadDataTypeIDUnknown
	}
	return nil
}

func jsonBool(j *json5.Value) (bool, error) {
	switch {
	case j.IsNull():
		return false, nil
	case j.Kind == json5.Bool:
		return j.Bool, nil
	}
	return false, BadDecodingError
}

// jsonText returns the literal of a number or the content of a string,
// which is how Int64 values and special floats are written.
func jsonText(j *json5.Value) (string, bool, error) {
	switch {
	case j.IsNull():
		return "", false, nil
	case j.Kind == json5.Number || j.Kind == json5.String:
		return strings.TrimSpace(j.Text), true, nil
	}
	return "", false, BadDecodingError
}

func jsonInt(j *json5.Value, bits int) (int64, error) {
	s, ok, err := jsonText(j)
	if !ok {
		return 0, err
	}
	i, err := strconv.ParseInt(s, 0, bits)
	if err != nil {
		// integral numbers in exponent notation
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != math.Trunc(f) || f < -math.Exp2(float64(bits-1)) || f >= math.Exp2(float64(bits-1)) {
			return 0, BadDecodingError
		}
		return int64(f), nil
	}
	return i, nil
}

func jsonUint(j *json5.Value, bits int) (uint64, error) {
	s, ok, err := jsonText(j)
	if !ok {
		return 0, err
	}
	s = strings.TrimPrefix(s, "+")
	u, err := strconv.ParseUint(s, 0, bits)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != math.Trunc(f) || f < 0 || f >= math.Exp2(float64(bits)) {
			return 0, BadDecodingError
		}
		return uint64(f), nil
	}
	return u, nil
}

func jsonFloat(j *json5.Value, bits int) (float64, error) {
	s, ok, err := jsonText(j)
	if !ok {
		return 0, err
	}
	f, err := strconv.ParseFloat(s, bits)
	if err != nil {
		i, ierr := strconv.ParseInt(s, 0, 64)
		if ierr != nil {
			return 0, BadDecodingError
		}
		return float64(i), nil
	}
	return f, nil
}

// jsonString returns a string in storage taken from the allocator.
func (dec *jsonDecoder) jsonString(j *json5.Value) (string, error) {
	switch {
	case j.IsNull():
		return "", nil
	case j.Kind == json5.String:
		return allocString(dec.a, j.Text)
	}
	return "", BadDecodingError
}

func (dec *jsonDecoder) decodeByteString(value *ByteString, j *json5.Value) error {
	switch {
	case j.IsNull():
		return nil
	case j.Kind != json5.String:
		return BadDecodingError
	}
	bs, err := base64.StdEncoding.DecodeString(j.Text)
	if err != nil {
		return BadDecodingError
	}
	s, err := allocString(dec.a, string(bs))
	if err != nil {
		return err
	}
	*value = ByteString(s)
	return nil
}

func decodeDateTime(value *time.Time, j *json5.Value) error {
	switch {
	case j.IsNull():
		return nil
	case j.Kind != json5.String:
		return BadDecodingError
	}
	t, err := time.Parse(time.RFC3339Nano, j.Text)
	if err != nil {
		return BadDecodingError
	}
	*value = TicksToDateTime(DateTimeToTicks(t))
	return nil
}

func decodeGUID(value *uuid.UUID, j *json5.Value) error {
	switch {
	case j.IsNull():
		return nil
	case j.Kind != json5.String:
		return BadDecodingError
	}
	g, err := uuid.Parse(j.Text)
	if err != nil {
		return BadDecodingError
	}
	*value = g
	return nil
}

// decodeIdentifier reads the IdType and Id members of a NodeId object.
func decodeIdentifier(j *json5.Value, ns uint16) (NodeID, error) {
	idType, err := jsonInt(member(j, "IdType"), 32)
	if err != nil {
		return NilNodeID, err
	}
	id := member(j, "Id")
	switch idType {
	case 0:
		n, err := jsonUint(id, 32)
		if err != nil {
			return NilNodeID, err
		}
		return NewNodeIDNumeric(ns, uint32(n)), nil
	case 1:
		if id.IsNull() || id.Kind != json5.String {
			return NilNodeID, BadDecodingError
		}
		return NewNodeIDString(ns, id.Text), nil
	case 2:
		var g uuid.UUID
		if err := decodeGUID(&g, id); err != nil {
			return NilNodeID, err
		}
		return NewNodeIDGUID(ns, g), nil
	case 3:
		if id.IsNull() || id.Kind != json5.String {
			return NilNodeID, BadDecodingError
		}
		bs, err := base64.StdEncoding.DecodeString(id.Text)
		if err != nil {
			return NilNodeID, BadDecodingError
		}
		return NewNodeIDOpaque(ns, ByteString(bs)), nil
	}
	return NilNodeID, BadDecodingError
}

// namespace resolves a namespace index or uri to a local index. An unknown
// uri is returned for the caller to keep or reject.
func (dec *jsonDecoder) namespace(j *json5.Value) (uint16, string, error) {
	if j.IsNull() {
		return 0, "", nil
	}
	if j.Kind == json5.String {
		if _, err := strconv.ParseUint(j.Text, 10, 16); err != nil {
			if ns, err := dec.nm.URI2Index(j.Text); err == nil {
				return ns, "", nil
			}
			return 0, j.Text, nil
		}
	}
	ns, err := jsonUint(j, 16)
	if err != nil {
		return 0, "", err
	}
	return dec.remoteToLocal(uint16(ns)), "", nil
}

func (dec *jsonDecoder) decodeNodeID(value *NodeID, j *json5.Value) error {
	var id NodeID
	var err error
	switch {
	case j.IsNull():
		return nil
	case j.Kind == json5.String:
		id, err = parseNodeIDRemote(j.Text, dec.nm)
		if err != nil {
			return BadDecodingError
		}
	case j.Kind == json5.Object:
		ns, uri, err := dec.namespace(member(j, "Namespace"))
		if err != nil {
			return err
		}
		if uri != "" {
			// a NodeId cannot keep the uri
			ns = 0xFFFF
		}
		id, err = decodeIdentifier(j, ns)
		if err != nil {
			return err
		}
	default:
		return BadDecodingError
	}
	*value, err = id.copyWith(dec.a)
	return err
}

func (dec *jsonDecoder) decodeExpandedNodeID(value *ExpandedNodeID, j *json5.Value) error {
	var id ExpandedNodeID
	switch {
	case j.IsNull():
		return nil
	case j.Kind == json5.String:
		var err error
		id, err = parseExpandedNodeIDRemote(j.Text, dec.nm, dec.serverURIs)
		if err != nil {
			return BadDecodingError
		}
	case j.Kind == json5.Object:
		ns, uri, err := dec.namespace(member(j, "Namespace"))
		if err != nil {
			return err
		}
		n, err := decodeIdentifier(j, ns)
		if err != nil {
			return err
		}
		var svr uint32
		if s := member(j, "ServerUri"); !s.IsNull() {
			found := false
			if s.Kind == json5.String {
				for i, u := range dec.serverURIs {
					if u == s.Text {
						svr, found = uint32(i), true
						break
					}
				}
			}
			if !found {
				u, err := jsonUint(s, 32)
				if err != nil {
					return err
				}
				svr = uint32(u)
			}
		}
		id = NewExpandedNodeIDFull(svr, uri, n)
	default:
		return BadDecodingError
	}
	var err error
	*value, err = id.copyWith(dec.a)
	return err
}

func (dec *jsonDecoder) decodeQualifiedName(value *QualifiedName, j *json5.Value) error {
	switch {
	case j.IsNull():
		return nil
	case j.Kind == json5.String:
		q, err := ParseQualifiedNameEx(j.Text, dec.nm)
		if err != nil {
			return BadDecodingError
		}
		if !strings.HasPrefix(j.Text, "nsu=") && q.NamespaceIndex != 0 {
			q.NamespaceIndex = dec.remoteToLocal(q.NamespaceIndex)
		}
		*value, err = q.copyWith(dec.a)
		return err
	case j.Kind != json5.Object:
		return BadDecodingError
	}
	ns, uri, err := dec.namespace(member(j, "Uri"))
	if err != nil {
		return err
	}
	if uri != "" {
		return BadDecodingError
	}
	value.NamespaceIndex = ns
	value.Name, err = dec.jsonString(member(j, "Name"))
	return err
}

func (dec *jsonDecoder) decodeLocalizedText(value *LocalizedText, j *json5.Value) error {
	var err error
	switch {
	case j.IsNull():
		return nil
	case j.Kind == json5.String:
		// non-reversible form
		value.Text, err = dec.jsonString(j)
		return err
	case j.Kind != json5.Object:
		return BadDecodingError
	}
	if value.Locale, err = dec.jsonString(member(j, "Locale")); err != nil {
		return err
	}
	value.Text, err = dec.jsonString(member(j, "Text"))
	return err
}

func (dec *jsonDecoder) decodeDecimal(value *Decimal, j *json5.Value) error {
	switch {
	case j.IsNull():
		return nil
	case j.Kind != json5.Object:
		return BadDecodingError
	}
	scale, err := jsonInt(member(j, "Scale"), 16)
	if err != nil {
		return err
	}
	value.Scale = int16(scale)
	return dec.decodeByteString(&value.Value, member(j, "Value"))
}

// decodeStructure decodes an object with a member per field. Missing fields
// keep their zero value, missing optional fields are absent.
func (dec *jsonDecoder) decodeStructure(v reflect.Value, typ *DataType, j *json5.Value) error {
	switch {
	case j.IsNull():
		return nil
	case j.Kind != json5.Object:
		return BadDecodingError
	}
	switch typ.Kind {
	case KindStructure, KindOptStruct:
		for i := range typ.Members {
			m := &typ.Members[i]
			f, ok := j.Get(m.Name)
			if !ok || (m.IsOptional && f.IsNull()) {
				continue
			}
			if err := dec.decodeMember(v.Field(m.field), m, f); err != nil {
				return err
			}
		}
	case KindUnion:
		sw, err := jsonUint(member(j, "SwitchField"), 32)
		if err != nil {
			return err
		}
		if sw > uint64(len(typ.Members)) {
			return BadDecodingError
		}
		v.Field(0).SetUint(sw)
		if sw == 0 {
			return nil
		}
		m := &typ.Members[sw-1]
		return dec.decodeMember(v.Field(m.field), m, member(j, "Value"))
	case KindBitfieldCluster:
		for i := range typ.Members {
			m := &typ.Members[i]
			b, err := jsonBool(member(j, m.Name))
			if err != nil {
				return err
			}
			v.Field(m.field).SetBool(b)
		}
	}
	return nil
}

func (dec *jsonDecoder) decodeMember(f reflect.Value, m *DataTypeMember, j *json5.Value) error {
	switch {
	case m.IsArray:
		return dec.decodeArray(f, m.Type, j)
	case m.IsOptional:
		p, err := allocNew(dec.a, m.Type.goType)
		if err != nil {
			return err
		}
		f.Set(p)
		return dec.decodeValue(p.Elem(), m.Type, j)
	default:
		return dec.decodeValue(f, m.Type, j)
	}
}

// decodeArray decodes an array into the slice s. null leaves the slice nil.
func (dec *jsonDecoder) decodeArray(s reflect.Value, typ *DataType, j *json5.Value) error {
	switch {
	case j.IsNull():
		return nil
	case j.Kind != json5.Array:
		return BadDecodingError
	}
	sl, err := allocSlice(dec.a, s.Type(), len(j.Items))
	if err != nil {
		return err
	}
	s.Set(sl)
	for i, item := range j.Items {
		if err := dec.decodeValue(sl.Index(i), typ, item); err != nil {
			return err
		}
	}
	return nil
}

// findType returns the type with the type id or one of its encoding ids.
func (dec *jsonDecoder) findType(id NodeID) (*DataType, bool) {
	if typ, ok := FindDataTypeWithCustom(id, dec.custom); ok {
		return typ, true
	}
	return findDataTypeByEncodingID(id, dec.custom)
}

// decodeExtensionObject decodes an ExtensionObject. A body without encoding
// is decoded as the type with the TypeId, which must be known.
func (dec *jsonDecoder) decodeExtensionObject(value *ExtensionObject, j *json5.Value) error {
	switch {
	case j.IsNull():
		return nil
	case j.Kind != json5.Object:
		return BadDecodingError
	}
	var typeID NodeID
	if err := dec.decodeNodeID(&typeID, member(j, "TypeId")); err != nil {
		return err
	}
	encoding, err := jsonInt(member(j, "Encoding"), 32)
	if err != nil {
		typeID.clearWith(dec.a)
		return err
	}
	body, ok := j.Get("Body")
	switch {
	case !ok:
		*value = ExtensionObject{typeID: typeID}
		return nil
	case encoding == 1:
		var bs ByteString
		if err := dec.decodeByteString(&bs, body); err != nil {
			typeID.clearWith(dec.a)
			return err
		}
		*value = ExtensionObject{encoding: ExtensionObjectEncodingByteString, typeID: typeID, body: string(bs)}
		return nil
	case encoding == 2:
		s, err := dec.jsonString(body)
		if err != nil {
			typeID.clearWith(dec.a)
			return err
		}
		*value = ExtensionObject{encoding: ExtensionObjectEncodingXMLElement, typeID: typeID, body: s}
		return nil
	case encoding != 0:
		typeID.clearWith(dec.a)
		return BadDecodingError
	}
	typ, found := dec.findType(typeID)
	typeID.clearWith(dec.a)
	if !found {
		return BadDataTypeIDUnknown
	}
	p, err := allocNew(dec.a, typ.goType)
	if err != nil {
		return err
	}
	*value = ExtensionObject{encoding: ExtensionObjectEncodingDecoded, typ: typ, data: p.Interface()}
	return dec.decodeValue(p.Elem(), typ, body)
}

func (dec *jsonDecoder) decodeDataValue(value *DataValue, j *json5.Value) error {
	switch {
	case j.IsNull():
		return nil
	case j.Kind != json5.Object:
		return BadDecodingError
	}
	if f, ok := j.Get("Value"); ok {
		value.HasValue = true
		if err := dec.decodeVariant(&value.Value, f); err != nil {
			return err
		}
	}
	if f, ok := j.Get("Status"); ok {
		value.HasStatus = true
		if err := dec.decodeValue(reflect.ValueOf(&value.Status).Elem(), TypeStatusCode, f); err != nil {
			return err
		}
	}
	if f, ok := j.Get("SourceTimestamp"); ok {
		value.HasSourceTimestamp = true
		if err := decodeDateTime(&value.SourceTimestamp, f); err != nil {
			return err
		}
	}
	if f, ok := j.Get("SourcePicoseconds"); ok {
		value.HasSourcePicoseconds = true
		u, err := jsonUint(f, 16)
		if err != nil {
			return err
		}
		value.SourcePicoseconds = uint16(u)
	}
	if f, ok := j.Get("ServerTimestamp"); ok {
		value.HasServerTimestamp = true
		if err := decodeDateTime(&value.ServerTimestamp, f); err != nil {
			return err
		}
	}
	if f, ok := j.Get("ServerPicoseconds"); ok {
		value.HasServerPicoseconds = true
		u, err := jsonUint(f, 16)
		if err != nil {
			return err
		}
		value.ServerPicoseconds = uint16(u)
	}
	return nil
}

// decodeVariant decodes the reversible form of a Variant. A Body of null
// is an undefined array. ExtensionObjects holding decoded values are
// unwrapped as in the binary encoding.
func (dec *jsonDecoder) decodeVariant(value *Variant, j *json5.Value) error {
	switch {
	case j.IsNull():
		return nil
	case j.Kind != json5.Object:
		return BadDecodingError
	}
	t := member(j, "Type")
	if t.IsNull() {
		if len(j.Keys) == 0 {
			return nil
		}
		return BadDecodingError
	}
	id, err := jsonUint(t, 8)
	if err != nil {
		return err
	}
	if id == 0 || id > uint64(KindDiagnosticInfo)+1 {
		return BadDecodingError
	}
	typ := DataTypes[id-1]
	body := member(j, "Body")
	if body.IsNull() || body.Kind == json5.Array {
		s := reflect.New(reflect.SliceOf(typ.goType)).Elem()
		if err := dec.decodeArray(s, typ, body); err != nil {
			clearArray(s, typ, dec.a)
			return err
		}
		*value = Variant{typ: typ, array: true, data: s.Interface()}
		if typ == TypeExtensionObject {
			if err := value.unwrapExtensionObjects(dec.a); err != nil {
				return err
			}
		}
		d := member(j, "Dimensions")
		if d.IsNull() {
			return nil
		}
		dims := reflect.New(uint32sType).Elem()
		if err := dec.decodeArray(dims, TypeUInt32, d); err != nil {
			clearArray(dims, TypeUInt32, dec.a)
			return err
		}
		value.arrayDimensions = dims.Interface().([]uint32)
		if len(value.arrayDimensions) > 0 && dimsProduct(value.arrayDimensions) != value.ArrayLength() {
			return BadDecodingError
		}
		return nil
	}
	if typ == TypeExtensionObject {
		var eo ExtensionObject
		if err := dec.decodeExtensionObject(&eo, body); err != nil {
			eo.clearWith(dec.a)
			return err
		}
		if eo.IsDecoded() {
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
	return dec.decodeValue(p.Elem(), typ, body)
}

func (dec *jsonDecoder) decodeDiagnosticInfo(value *DiagnosticInfo, j *json5.Value) error {
	switch {
	case j.IsNull():
		return nil
	case j.Kind != json5.Object:
		return BadDecodingError
	}
	ints := []struct {
		key string
		has *bool
		val *int32
	}{
		{"SymbolicId", &value.HasSymbolicID, &value.SymbolicID},
		{"NamespaceUri", &value.HasNamespaceURI, &value.NamespaceURI},
		{"Locale", &value.HasLocale, &value.Locale},
		{"LocalizedText", &value.HasLocalizedText, &value.LocalizedText},
	}
	for _, f := range ints {
		if m, ok := j.Get(f.key); ok {
			i, err := jsonInt(m, 32)
			if err != nil {
				return err
			}
			*f.has, *f.val = true, int32(i)
		}
	}
	if m, ok := j.Get("AdditionalInfo"); ok {
		value.HasAdditionalInfo = true
		s, err := dec.jsonString(m)
		if err != nil {
			return err
		}
		value.AdditionalInfo = s
	}
	if m, ok := j.Get("InnerStatusCode"); ok {
		value.HasInnerStatusCode = true
		if err := dec.decodeValue(reflect.ValueOf(&value.InnerStatusCode).Elem(), TypeStatusCode, m); err != nil {
			return err
		}
	}
	if m, ok := j.Get("InnerDiagnosticInfo"); ok && !m.IsNull() {
		p, err := allocNew(dec.a, diagnosticInfoType)
		if err != nil {
			return err
		}
		value.HasInnerDiagnosticInfo = true
		value.InnerDiagnosticInfo = p.Interface().(*DiagnosticInfo)
		return dec.decodeDiagnosticInfo(value.InnerDiagnosticInfo, m)
	}
	return nil
}
