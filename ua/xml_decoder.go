// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"io"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/gammazero/deque"
	"github.com/google/uuid"
)

// DecodeXMLOptions configure the XML decoder.
type DecodeXMLOptions struct {
	// Unwrapped accepts the content of the element without the element named
	// after the type, e.g. 5 instead of <Int32>5</Int32>.
	Unwrapped bool
	// NamespaceMapping translates the namespace indices of the remote end to
	// local indices.
	NamespaceMapping *NamespaceMapping
	// ServerURIs resolves server uris of ExpandedNodeIds.
	ServerURIs []string
	// CustomTypes are searched for the type ids of ExtensionObjects after the
	// builtin and well-known types.
	CustomTypes *DataTypeArray
	// Allocator provides the storage of the decoded value. Defaults to the heap.
	Allocator Allocator
}

// DecodeXML decodes the XML text into the value pointed to by p. On failure
// the value is left cleared.
func DecodeXML(in []byte, p any, typ *DataType, opts *DecodeXMLOptions) error {
	dec := &xmlDecoder{a: HeapAllocator}
	unwrapped := false
	if opts != nil {
		dec.nm = opts.NamespaceMapping
		dec.serverURIs = opts.ServerURIs
		dec.custom = opts.CustomTypes
		dec.a = allocatorOrHeap(opts.Allocator)
		unwrapped = opts.Unwrapped
	}
	v, ok := valueOf(p, typ)
	if !ok {
		return BadTypeMismatch
	}
	v.SetZero()
	if unwrapped {
		w := make([]byte, 0, len(in)+7)
		w = append(w, "<r>"...)
		w = append(w, in...)
		in = append(w, "</r>"...)
	}
	root, err := parseXML(in)
	if err != nil {
		return err
	}
	if !unwrapped && root.name != typ.Name {
		return BadDecodingError
	}
	if err := dec.decodeValue(v, typ, root); err != nil {
		clearValue(v, typ, dec.a)
		return err
	}
	return nil
}

// xmlNode is an element of a parsed XML text.
type xmlNode struct {
	name     string
	isNil    bool
	text     string
	raw      string
	children []*xmlNode
}

// child returns the first child element with the name, or nil.
func (n *xmlNode) child(name string) *xmlNode {
	if n == nil {
		return nil
	}
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// first returns the first child element, or nil.
func (n *xmlNode) first() *xmlNode {
	if n == nil || len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

func (n *xmlNode) trimmed() string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.text)
}

// parseXML builds the tree of the single root element of the text. The raw
// inner XML of every element is kept for XmlElement values.
func parseXML(in []byte) (*xmlNode, error) {
	d := xml.NewDecoder(bytes.NewReader(in))
	stack := deque.Deque[*xmlNode]{}
	starts := deque.Deque[int64]{}
	var root *xmlNode
	for {
		off := d.InputOffset()
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, BadDecodingError
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if root != nil && stack.Len() == 0 {
				return nil, BadDecodingError
			}
			if stack.Len() >= 4*maxNestingDepth {
				return nil, BadDecodingError
			}
			n := &xmlNode{name: t.Name.Local}
			for _, a := range t.Attr {
				if a.Name.Local == "nil" && strings.TrimSpace(a.Value) == "true" {
					n.isNil = true
				}
			}
			if stack.Len() > 0 {
				parent := stack.Back()
				parent.children = append(parent.children, n)
			} else {
				root = n
			}
			stack.PushBack(n)
			starts.PushBack(d.InputOffset())
		case xml.EndElement:
			n := stack.PopBack()
			n.raw = string(in[starts.PopBack():off])
		case xml.CharData:
			if stack.Len() > 0 {
				n := stack.Back()
				n.text += string(t)
			} else if len(bytes.TrimSpace(t)) > 0 {
				return nil, BadDecodingError
			}
		}
	}
	if root == nil || stack.Len() > 0 {
		return nil, BadDecodingError
	}
	return root, nil
}

// xmlDecoder decodes the tree of a parsed XML text. Nesting is bounded by
// the parser.
type xmlDecoder struct {
	nm         *NamespaceMapping
	serverURIs []string
	custom     *DataTypeArray
	a          Allocator
}

// decodeValue decodes the content of the element n into the addressable zero
// value v of the type. A nil element leaves the zero value.
func (dec *xmlDecoder) decodeValue(v reflect.Value, typ *DataType, n *xmlNode) error {
	if n == nil {
		return nil
	}
	switch typ.Kind {
	case KindBoolean:
		switch n.trimmed() {
		case "true", "1":
			v.SetBool(true)
		case "false", "0", "":
		default:
			return BadDecodingError
		}
	case KindSByte, KindInt16, KindInt32, KindInt64, KindEnum:
		s := n.trimmed()
		if s == "" {
			return nil
		}
		if typ.Kind == KindEnum {
			// symbolic form Name_5
			if i := strings.LastIndexByte(s, '_'); i >= 0 {
				s = s[i+1:]
			}
		}
		i, err := strconv.ParseInt(s, 10, typ.goType.Bits())
		if err != nil {
			return BadDecodingError
		}
		v.SetInt(i)
	case KindByte, KindUInt16, KindUInt32, KindUInt64:
		s := n.trimmed()
		if s == "" {
			return nil
		}
		u, err := strconv.ParseUint(s, 10, typ.goType.Bits())
		if err != nil {
			return BadDecodingError
		}
		v.SetUint(u)
	case KindFloat, KindDouble:
		s := n.trimmed()
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, typ.goType.Bits())
		if err != nil {
			return BadDecodingError
		}
		v.SetFloat(f)
	case KindString:
		s, err := allocString(dec.a, n.text)
		if err != nil {
			return err
		}
		v.SetString(s)
	case KindXMLElement:
		s, err := allocString(dec.a, n.raw)
		if err != nil {
			return err
		}
		v.SetString(s)
	case KindByteString:
		return dec.decodeByteString(ptrTo[ByteString](v), n)
	case KindDateTime:
		return decodeXMLDateTime(ptrTo[time.Time](v), n)
	case KindGUID:
		s := n.child("String").trimmed()
		if s == "" {
			return nil
		}
		g, err := uuid.Parse(s)
		if err != nil {
			return BadDecodingError
		}
		*ptrTo[uuid.UUID](v) = g
	case KindNodeID:
		return dec.decodeNodeID(ptrTo[NodeID](v), n)
	case KindExpandedNodeID:
		return dec.decodeExpandedNodeID(ptrTo[ExpandedNodeID](v), n)
	case KindStatusCode:
		return decodeXMLStatusCode(ptrTo[StatusCode](v), n)
	case KindQualifiedName:
		return dec.decodeQualifiedName(ptrTo[QualifiedName](v), n)
	case KindLocalizedText:
		lt := ptrTo[LocalizedText](v)
		var err error
		if c := n.child("Locale"); c != nil {
			if lt.Locale, err = allocString(dec.a, c.text); err != nil {
				return err
			}
		}
		if c := n.child("Text"); c != nil {
			if lt.Text, err = allocString(dec.a, c.text); err != nil {
				return err
			}
		}
	case KindDecimal:
		d := ptrTo[Decimal](v)
		if s := n.child("Scale").trimmed(); s != "" {
			i, err := strconv.ParseInt(s, 10, 16)
			if err != nil {
				return BadDecodingError
			}
			d.Scale = int16(i)
		}
		return dec.decodeByteString(&d.Value, n.child("Value"))
	case KindExtensionObject:
		return dec.decodeExtensionObject(ptrTo[ExtensionObject](v), n)
	case KindDataValue:
		return dec.decodeDataValue(ptrTo[DataValue](v), n)
	case KindVariant:
		return dec.decodeVariant(ptrTo[Variant](v), n)
	case KindDiagnosticInfo:
		return dec.decodeDiagnosticInfo(ptrTo[DiagnosticInfo](v), n)
	case KindStructure, KindOptStruct, KindUnion, KindBitfieldCluster:
		return dec.decodeStructure(v, typ, n)
	default:
		return BadDataTypeIDUnknown
	}
	return nil
}

// decodeByteString decodes base64 text, which may be broken into lines.
func (dec *xmlDecoder) decodeByteString(value *ByteString, n *xmlNode) error {
	s := strings.Join(strings.Fields(n.trimmed()), "")
	if s == "" {
		return nil
	}
	bs, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return BadDecodingError
	}
	a, err := allocString(dec.a, string(bs))
	if err != nil {
		return err
	}
	*value = ByteString(a)
	return nil
}

// decodeXMLDateTime accepts xs:dateTime with or without a zone. A time
// without zone is taken as UTC.
func decodeXMLDateTime(value *time.Time, n *xmlNode) error {
	s := n.trimmed()
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, err = time.ParseInLocation("2006-01-02T15:04:05.999999999", s, time.UTC)
		if err != nil {
			return BadDecodingError
		}
	}
	*value = TicksToDateTime(DateTimeToTicks(t))
	return nil
}

func decodeXMLStatusCode(value *StatusCode, n *xmlNode) error {
	s := n.child("Code").trimmed()
	if s == "" {
		return nil
	}
	u, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return BadDecodingError
	}
	*value = StatusCode(u)
	return nil
}

func (dec *xmlDecoder) decodeNodeID(value *NodeID, n *xmlNode) error {
	s := n.child("Identifier").trimmed()
	if s == "" {
		return nil
	}
	id, err := parseNodeIDRemote(s, dec.nm)
	if err != nil {
		return BadDecodingError
	}
	*value, err = id.copyWith(dec.a)
	return err
}

func (dec *xmlDecoder) decodeExpandedNodeID(value *ExpandedNodeID, n *xmlNode) error {
	s := n.child("Identifier").trimmed()
	if s == "" {
		return nil
	}
	id, err := parseExpandedNodeIDRemote(s, dec.nm, dec.serverURIs)
	if err != nil {
		return BadDecodingError
	}
	*value, err = id.copyWith(dec.a)
	return err
}

func (dec *xmlDecoder) decodeQualifiedName(value *QualifiedName, n *xmlNode) error {
	if s := n.child("NamespaceIndex").trimmed(); s != "" {
		ns, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			return BadDecodingError
		}
		value.NamespaceIndex = uint16(ns)
		if dec.nm != nil {
			value.NamespaceIndex = dec.nm.Remote2Local(value.NamespaceIndex)
		}
	}
	if c := n.child("Name"); c != nil {
		var err error
		value.Name, err = allocString(dec.a, c.text)
		return err
	}
	return nil
}

// decodeStructure decodes an element per field. Missing fields keep their
// zero value, missing optional fields are absent.
func (dec *xmlDecoder) decodeStructure(v reflect.Value, typ *DataType, n *xmlNode) error {
	switch typ.Kind {
	case KindStructure, KindOptStruct:
		for i := range typ.Members {
			m := &typ.Members[i]
			c := n.child(m.Name)
			if c == nil {
				continue
			}
			if err := dec.decodeMember(v.Field(m.field), m, c); err != nil {
				return err
			}
		}
	case KindUnion:
		var sw uint64
		if s := n.child("SwitchField").trimmed(); s != "" {
			var err error
			if sw, err = strconv.ParseUint(s, 10, 32); err != nil {
				return BadDecodingError
			}
		}
		if sw > uint64(len(typ.Members)) {
			return BadDecodingError
		}
		v.Field(0).SetUint(sw)
		if sw == 0 {
			return nil
		}
		m := &typ.Members[sw-1]
		c := n.child(m.Name)
		if c == nil {
			return BadDecodingError
		}
		return dec.decodeMember(v.Field(m.field), m, c)
	case KindBitfieldCluster:
		for i := range typ.Members {
			m := &typ.Members[i]
			if err := dec.decodeValue(v.Field(m.field), TypeBoolean, n.child(m.Name)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (dec *xmlDecoder) decodeMember(f reflect.Value, m *DataTypeMember, n *xmlNode) error {
	switch {
	case m.IsArray:
		return dec.decodeArray(f, m.Type, n)
	case m.IsOptional:
		p, err := allocNew(dec.a, m.Type.goType)
		if err != nil {
			return err
		}
		f.Set(p)
		return dec.decodeValue(p.Elem(), m.Type, n)
	default:
		return dec.decodeValue(f, m.Type, n)
	}
}

// decodeArray decodes the child elements of n into the slice s. An element
// marked xsi:nil leaves the slice nil.
func (dec *xmlDecoder) decodeArray(s reflect.Value, typ *DataType, n *xmlNode) error {
	if n.isNil {
		return nil
	}
	sl, err := allocSlice(dec.a, s.Type(), len(n.children))
	if err != nil {
		return err
	}
	s.Set(sl)
	for i, c := range n.children {
		if err := dec.decodeValue(sl.Index(i), typ, c); err != nil {
			return err
		}
	}
	return nil
}

// findType returns the type with the type id or one of its encoding ids.
func (dec *xmlDecoder) findType(id NodeID) (*DataType, bool) {
	if typ, ok := FindDataTypeWithCustom(id, dec.custom); ok {
		return typ, true
	}
	return findDataTypeByEncodingID(id, dec.custom)
}

// decodeExtensionObject decodes an ExtensionObject. The body of an unknown
// type is kept as XmlElement.
func (dec *xmlDecoder) decodeExtensionObject(value *ExtensionObject, n *xmlNode) error {
	var typeID NodeID
	if err := dec.decodeNodeID(&typeID, n.child("TypeId")); err != nil {
		return err
	}
	body := n.child("Body")
	if body == nil {
		*value = ExtensionObject{typeID: typeID}
		return nil
	}
	if c := body.first(); c != nil && c.name == "ByteString" {
		var bs ByteString
		if err := dec.decodeByteString(&bs, c); err != nil {
			typeID.clearWith(dec.a)
			return err
		}
		*value = ExtensionObject{encoding: ExtensionObjectEncodingByteString, typeID: typeID, body: string(bs)}
		return nil
	}
	typ, found := dec.findType(typeID)
	if !found {
		s, err := allocString(dec.a, body.raw)
		if err != nil {
			typeID.clearWith(dec.a)
			return err
		}
		*value = ExtensionObject{encoding: ExtensionObjectEncodingXMLElement, typeID: typeID, body: s}
		return nil
	}
	typeID.clearWith(dec.a)
	p, err := allocNew(dec.a, typ.goType)
	if err != nil {
		return err
	}
	*value = ExtensionObject{encoding: ExtensionObjectEncodingDecoded, typ: typ, data: p.Interface()}
	return dec.decodeValue(p.Elem(), typ, body.first())
}

func (dec *xmlDecoder) decodeDataValue(value *DataValue, n *xmlNode) error {
	if c := n.child("Value"); c != nil {
		value.HasValue = true
		if err := dec.decodeVariant(&value.Value, c); err != nil {
			return err
		}
	}
	if c := n.child("StatusCode"); c != nil {
		value.HasStatus = true
		if err := decodeXMLStatusCode(&value.Status, c); err != nil {
			return err
		}
	}
	if c := n.child("SourceTimestamp"); c != nil {
		value.HasSourceTimestamp = true
		if err := decodeXMLDateTime(&value.SourceTimestamp, c); err != nil {
			return err
		}
	}
	if c := n.child("SourcePicoseconds"); c != nil {
		value.HasSourcePicoseconds = true
		u, err := strconv.ParseUint(c.trimmed(), 10, 16)
		if err != nil {
			return BadDecodingError
		}
		value.SourcePicoseconds = uint16(u)
	}
	if c := n.child("ServerTimestamp"); c != nil {
		value.HasServerTimestamp = true
		if err := decodeXMLDateTime(&value.ServerTimestamp, c); err != nil {
			return err
		}
	}
	if c := n.child("ServerPicoseconds"); c != nil {
		value.HasServerPicoseconds = true
		u, err := strconv.ParseUint(c.trimmed(), 10, 16)
		if err != nil {
			return BadDecodingError
		}
		value.ServerPicoseconds = uint16(u)
	}
	return nil
}

// builtinTypeByName returns the builtin type with the element name.
func builtinTypeByName(name string) (*DataType, bool) {
	for _, t := range DataTypes[:KindDiagnosticInfo+1] {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// decodeVariant decodes the Value element of a Variant, which holds a scalar
// element named after the builtin type, a ListOf element or a Matrix.
func (dec *xmlDecoder) decodeVariant(value *Variant, n *xmlNode) error {
	c := n.child("Value").first()
	if c == nil {
		return nil
	}
	var dims *xmlNode
	name := c.name
	switch {
	case name == "Matrix":
		dims = c.child("Dimensions")
		c = c.child("Elements")
		if c.first() == nil {
			return BadDecodingError
		}
		name = c.first().name
	case strings.HasPrefix(name, "ListOf"):
		name = name[len("ListOf"):]
	default:
		return dec.decodeVariantScalar(value, name, c)
	}
	typ, ok := builtinTypeByName(name)
	if !ok {
		return BadDecodingError
	}
	s := reflect.New(reflect.SliceOf(typ.goType)).Elem()
	if err := dec.decodeArray(s, typ, c); err != nil {
		clearArray(s, typ, dec.a)
		return err
	}
	*value = Variant{typ: typ, array: true, data: s.Interface()}
	if typ == TypeExtensionObject {
		if err := value.unwrapExtensionObjects(dec.a); err != nil {
			return err
		}
	}
	if dims == nil {
		return nil
	}
	d := reflect.New(uint32sType).Elem()
	if err := dec.decodeArray(d, TypeUInt32, dims); err != nil {
		clearArray(d, TypeUInt32, dec.a)
		return err
	}
	value.arrayDimensions = d.Interface().([]uint32)
	if dimsProduct(value.arrayDimensions) != value.ArrayLength() {
		return BadDecodingError
	}
	return nil
}

func (dec *xmlDecoder) decodeVariantScalar(value *Variant, name string, c *xmlNode) error {
	typ, ok := builtinTypeByName(name)
	if !ok {
		return BadDecodingError
	}
	if typ == TypeExtensionObject {
		var eo ExtensionObject
		if err := dec.decodeExtensionObject(&eo, c); err != nil {
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
	return dec.decodeValue(p.Elem(), typ, c)
}

func (dec *xmlDecoder) decodeDiagnosticInfo(value *DiagnosticInfo, n *xmlNode) error {
	ints := []struct {
		name string
		has  *bool
		val  *int32
	}{
		{"SymbolicId", &value.HasSymbolicID, &value.SymbolicID},
		{"NamespaceUri", &value.HasNamespaceURI, &value.NamespaceURI},
		{"Locale", &value.HasLocale, &value.Locale},
		{"LocalizedText", &value.HasLocalizedText, &value.LocalizedText},
	}
	for _, f := range ints {
		if c := n.child(f.name); c != nil {
			i, err := strconv.ParseInt(c.trimmed(), 10, 32)
			if err != nil {
				return BadDecodingError
			}
			*f.has, *f.val = true, int32(i)
		}
	}
	if c := n.child("AdditionalInfo"); c != nil {
		value.HasAdditionalInfo = true
		s, err := allocString(dec.a, c.text)
		if err != nil {
			return err
		}
		value.AdditionalInfo = s
	}
	if c := n.child("InnerStatusCode"); c != nil {
		value.HasInnerStatusCode = true
		if err := decodeXMLStatusCode(&value.InnerStatusCode, c); err != nil {
			return err
		}
	}
	if c := n.child("InnerDiagnosticInfo"); c != nil {
		p, err := allocNew(dec.a, diagnosticInfoType)
		if err != nil {
			return err
		}
		value.HasInnerDiagnosticInfo = true
		value.InnerDiagnosticInfo = p.Interface().(*DiagnosticInfo)
		return dec.decodeDiagnosticInfo(value.InnerDiagnosticInfo, c)
	}
	return nil
}
