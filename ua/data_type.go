// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

import (
	"reflect"
	"strconv"
	"unicode"
	"unsafe"
)

// DataTypeKind selects how the generic operations and the codecs treat a
// value of a DataType.
type DataTypeKind uint8

// DataTypeKinds. The first 25 kinds correspond to the builtin types in the
// order of their builtin type ids (kind + 1).
const (
	KindBoolean DataTypeKind = iota
	KindSByte
	KindByte
	KindInt16
	KindUInt16
	KindInt32
	KindUInt32
	KindInt64
	KindUInt64
	KindFloat
	KindDouble
	KindString
	KindDateTime
	KindGUID
	KindByteString
	KindXMLElement
	KindNodeID
	KindExpandedNodeID
	KindStatusCode
	KindQualifiedName
	KindLocalizedText
	KindExtensionObject
	KindDataValue
	KindVariant
	KindDiagnosticInfo
	KindDecimal
	KindEnum
	KindStructure
	KindOptStruct
	KindUnion
	KindBitfieldCluster
)

// DataTypeKinds is the number of kinds.
const DataTypeKinds = 31

var kindNames = [DataTypeKinds]string{
	"Boolean", "SByte", "Byte", "Int16", "UInt16", "Int32", "UInt32", "Int64",
	"UInt64", "Float", "Double", "String", "DateTime", "Guid", "ByteString",
	"XmlElement", "NodeId", "ExpandedNodeId", "StatusCode", "QualifiedName",
	"LocalizedText", "ExtensionObject", "DataValue", "Variant", "DiagnosticInfo",
	"Decimal", "Enum", "Structure", "OptStruct", "Union", "BitfieldCluster",
}

func (k DataTypeKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// IsBuiltin returns true for the 25 kinds that have a builtin type id.
func (k DataTypeKind) IsBuiltin() bool {
	return k <= KindDiagnosticInfo
}

// DataTypeMember describes one member of a Structure, OptStruct, Union or
// BitfieldCluster.
type DataTypeMember struct {
	Name       string
	Type       *DataType
	IsArray    bool
	IsOptional bool

	field   int
	padding uintptr
}

// Padding returns the gap in bytes between the previous member and this one.
func (m *DataTypeMember) Padding() uintptr {
	return m.padding
}

// goType returns the Go type of the member field: a slice for arrays, a
// pointer for optional scalars.
func (m *DataTypeMember) goType() reflect.Type {
	switch {
	case m.IsArray:
		return reflect.SliceOf(m.Type.goType)
	case m.IsOptional:
		return reflect.PointerTo(m.Type.goType)
	default:
		return m.Type.goType
	}
}

// DataType describes a value type. A value of the DataType is a Go value of
// GoType(). DataTypes are not mutated after they have been created.
type DataType struct {
	Name             string
	TypeID           NodeID
	BinaryEncodingID NodeID
	XMLEncodingID    NodeID
	Kind             DataTypeKind
	Members          []DataTypeMember

	goType      reflect.Type
	pointerFree bool
	overlayable bool
	hasFloat    bool
}

// GoType returns the Go type holding values of this DataType.
func (t *DataType) GoType() reflect.Type {
	return t.goType
}

// MemSize returns the in-memory size of a value.
func (t *DataType) MemSize() int {
	return int(t.goType.Size())
}

// PointerFree returns true if values own no storage.
func (t *DataType) PointerFree() bool {
	return t.pointerFree
}

// Overlayable returns true if the in-memory layout is identical to the binary
// encoding on this host.
func (t *DataType) Overlayable() bool {
	return t.overlayable
}

// IsNumeric returns true for the integer and floating point kinds.
func (t *DataType) IsNumeric() bool {
	return t.Kind >= KindSByte && t.Kind <= KindDouble
}

// Member returns the member with the given name.
func (t *DataType) Member(name string) (*DataTypeMember, bool) {
	for i := range t.Members {
		if t.Members[i].Name == name {
			return &t.Members[i], true
		}
	}
	return nil, false
}

// String returns the name.
func (t *DataType) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.Name
}

// builtinTypeID returns the builtin type id used to tag a Variant, or zero if
// values of the type are wrapped in an ExtensionObject.
func (t *DataType) builtinTypeID() byte {
	switch {
	case t.Kind.IsBuiltin():
		return byte(t.Kind) + 1
	case t.Kind == KindEnum:
		return byte(KindInt32) + 1
	}
	return 0
}

// DataTypeArray is a block of custom types. Blocks are linked to form the
// list of custom types consulted by the decoders.
type DataTypeArray struct {
	Next  *DataTypeArray
	Types []*DataType
	// Cleanup is set if the owner of the list releases this block together
	// with its types.
	Cleanup bool
}

// FindDataType returns the builtin or well-known type with the type id.
func FindDataType(id NodeID) (*DataType, bool) {
	t, ok := staticTypesByID[id]
	return t, ok
}

// FindDataTypeWithCustom searches the static table and then the custom list.
func FindDataTypeWithCustom(id NodeID, custom *DataTypeArray) (*DataType, bool) {
	if t, ok := staticTypesByID[id]; ok {
		return t, true
	}
	for a := custom; a != nil; a = a.Next {
		for _, t := range a.Types {
			if t.TypeID.Equal(id) {
				return t, true
			}
		}
	}
	return nil, false
}

// findDataTypeByEncodingID resolves a binary or xml encoding id, as found in
// the TypeId of an encoded ExtensionObject.
func findDataTypeByEncodingID(id NodeID, custom *DataTypeArray) (*DataType, bool) {
	if t, ok := staticTypesByEncodingID[id]; ok {
		return t, true
	}
	for a := custom; a != nil; a = a.Next {
		for _, t := range a.Types {
			if t.BinaryEncodingID.Equal(id) || t.XMLEncodingID.Equal(id) {
				return t, true
			}
		}
	}
	return nil, false
}

// FindDataTypeByName returns the type with the browse name, searching the
// static table and then the custom list.
func FindDataTypeByName(name string, custom *DataTypeArray) (*DataType, bool) {
	if t, ok := staticTypesByName[name]; ok {
		return t, true
	}
	for a := custom; a != nil; a = a.Next {
		for _, t := range a.Types {
			if t.Name == name {
				return t, true
			}
		}
	}
	return nil, false
}

// FindDataTypeForGoType returns the type whose values are held in the Go type.
func FindDataTypeForGoType(typ reflect.Type, custom *DataTypeArray) (*DataType, bool) {
	if t, ok := staticTypesByGoType[typ]; ok {
		return t, true
	}
	for a := custom; a != nil; a = a.Next {
		for _, t := range a.Types {
			if t.goType == typ {
				return t, true
			}
		}
	}
	return nil, false
}

// DataTypeDefinition describes a Structure, OptStruct, Union, Enum or
// BitfieldCluster to be created at runtime.
type DataTypeDefinition struct {
	Name             string
	TypeID           NodeID
	BinaryEncodingID NodeID
	XMLEncodingID    NodeID
	Kind             DataTypeKind
	Members          []DataTypeMember
	// GoType is the Go type of the values. If nil, a struct type is
	// synthesized from the members.
	GoType reflect.Type
}

const (
	maxMembers = 255
	maxMemSize = 65535
)

var hostLittleEndian = func() bool {
	x := uint16(1)
	return *(*byte)(unsafe.Pointer(&x)) == 1
}()

// NewDataType creates a DataType from a definition. Layout properties are
// computed once here: the Go struct layout, the member padding and the
// pointer-free and overlayable flags.
func NewDataType(def DataTypeDefinition) (*DataType, error) {
	if len(def.Members) > maxMembers {
		return nil, BadInvalidArgument
	}
	t := &DataType{
		Name:             def.Name,
		TypeID:           def.TypeID,
		BinaryEncodingID: def.BinaryEncodingID,
		XMLEncodingID:    def.XMLEncodingID,
		Kind:             def.Kind,
		Members:          append([]DataTypeMember(nil), def.Members...),
		goType:           def.GoType,
	}
	for _, m := range t.Members {
		if m.Type == nil || m.Type.goType == nil {
			return nil, BadInvalidArgument
		}
	}
	switch t.Kind {
	case KindEnum:
		if t.goType == nil {
			t.goType = reflect.TypeOf(int32(0))
		}
		if t.goType.Kind() != reflect.Int32 || len(t.Members) > 0 {
			return nil, BadInvalidArgument
		}
		t.pointerFree = true
		t.overlayable = hostLittleEndian
		return t, nil
	case KindStructure, KindOptStruct, KindUnion, KindBitfieldCluster:
	default:
		return nil, BadInvalidArgument
	}

	first := 0
	if t.Kind == KindUnion {
		first = 1
	}
	for i := range t.Members {
		m := &t.Members[i]
		m.field = first + i
		switch t.Kind {
		case KindStructure:
			if m.IsOptional {
				return nil, BadInvalidArgument
			}
		case KindUnion:
			if m.IsOptional {
				return nil, BadInvalidArgument
			}
		case KindBitfieldCluster:
			if m.IsArray || m.IsOptional || m.Type.Kind != KindBoolean {
				return nil, BadInvalidArgument
			}
		}
	}
	if t.goType == nil {
		t.goType = synthesizeStruct(t)
	}
	if err := checkStructLayout(t, first); err != nil {
		return nil, err
	}
	if t.goType.Size() > maxMemSize {
		return nil, BadInvalidArgument
	}

	t.pointerFree = t.Kind != KindOptStruct
	t.overlayable = t.Kind == KindStructure && hostLittleEndian
	var end uintptr
	for i := range t.Members {
		m := &t.Members[i]
		f := t.goType.Field(m.field)
		m.padding = f.Offset - end
		end = f.Offset + f.Type.Size()
		if m.IsArray || m.IsOptional || !m.Type.pointerFree {
			t.pointerFree = false
		}
		if m.IsArray || m.IsOptional || !m.Type.overlayable || m.padding != 0 {
			t.overlayable = false
		}
		if m.Type.hasFloat {
			t.hasFloat = true
		}
	}
	if end != t.goType.Size() {
		t.overlayable = false
	}
	if t.Kind == KindUnion && t.goType.Field(0).Offset != 0 {
		return nil, BadInvalidArgument
	}
	return t, nil
}

func mustNewDataType(def DataTypeDefinition) *DataType {
	t, err := NewDataType(def)
	if err != nil {
		panic("ua: invalid data type " + def.Name + ": " + err.Error())
	}
	return t
}

func synthesizeStruct(t *DataType) reflect.Type {
	fields := make([]reflect.StructField, 0, len(t.Members)+1)
	used := make(map[string]bool, len(t.Members)+1)
	if t.Kind == KindUnion {
		fields = append(fields, reflect.StructField{Name: "SwitchField", Type: reflect.TypeOf(uint32(0))})
		used["SwitchField"] = true
	}
	for i := range t.Members {
		name := exportedName(t.Members[i].Name, i)
		for used[name] {
			name += "_"
		}
		used[name] = true
		fields = append(fields, reflect.StructField{Name: name, Type: t.Members[i].goType()})
	}
	return reflect.StructOf(fields)
}

func exportedName(name string, i int) string {
	rs := []rune(name)
	for j, r := range rs {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			rs[j] = '_'
		}
	}
	if len(rs) == 0 || !unicode.IsLetter(rs[0]) {
		return "F" + strconv.Itoa(i) + string(rs)
	}
	rs[0] = unicode.ToUpper(rs[0])
	if !unicode.IsUpper(rs[0]) {
		return "F" + strconv.Itoa(i) + string(rs)
	}
	return string(rs)
}

func checkStructLayout(t *DataType, first int) error {
	if t.goType.Kind() != reflect.Struct || t.goType.NumField() != first+len(t.Members) {
		return BadInvalidArgument
	}
	if first == 1 && t.goType.Field(0).Type.Kind() != reflect.Uint32 {
		return BadInvalidArgument
	}
	for i := range t.Members {
		m := &t.Members[i]
		f := t.goType.Field(m.field)
		if !f.IsExported() || f.Type != m.goType() {
			return BadInvalidArgument
		}
	}
	return nil
}
