// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

import (
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Decimal is a fixed point number: Value is a signed little endian integer,
// the number is Value * 10^-Scale.
type Decimal struct {
	Scale int16
	Value ByteString
}

func newBuiltinType(name string, kind DataTypeKind, goType reflect.Type, pointerFree, overlayable bool) *DataType {
	id := NewNodeIDNumeric(0, uint32(kind)+1)
	return &DataType{
		Name:             name,
		TypeID:           id,
		BinaryEncodingID: id,
		XMLEncodingID:    id,
		Kind:             kind,
		goType:           goType,
		pointerFree:      pointerFree,
		overlayable:      overlayable && hostLittleEndian,
		hasFloat:         kind == KindFloat || kind == KindDouble,
	}
}

// The builtin types.
var (
	TypeBoolean         = newBuiltinType("Boolean", KindBoolean, reflect.TypeOf(false), true, false)
	TypeSByte           = newBuiltinType("SByte", KindSByte, reflect.TypeOf(int8(0)), true, true)
	TypeByte            = newBuiltinType("Byte", KindByte, reflect.TypeOf(byte(0)), true, true)
	TypeInt16           = newBuiltinType("Int16", KindInt16, reflect.TypeOf(int16(0)), true, true)
	TypeUInt16          = newBuiltinType("UInt16", KindUInt16, reflect.TypeOf(uint16(0)), true, true)
	TypeInt32           = newBuiltinType("Int32", KindInt32, reflect.TypeOf(int32(0)), true, true)
	TypeUInt32          = newBuiltinType("UInt32", KindUInt32, reflect.TypeOf(uint32(0)), true, true)
	TypeInt64           = newBuiltinType("Int64", KindInt64, reflect.TypeOf(int64(0)), true, true)
	TypeUInt64          = newBuiltinType("UInt64", KindUInt64, reflect.TypeOf(uint64(0)), true, true)
	TypeFloat           = newBuiltinType("Float", KindFloat, reflect.TypeOf(float32(0)), true, true)
	TypeDouble          = newBuiltinType("Double", KindDouble, reflect.TypeOf(float64(0)), true, true)
	TypeString          = newBuiltinType("String", KindString, reflect.TypeOf(""), false, false)
	TypeDateTime        = newBuiltinType("DateTime", KindDateTime, reflect.TypeOf(time.Time{}), true, false)
	TypeGUID            = newBuiltinType("Guid", KindGUID, reflect.TypeOf(uuid.UUID{}), true, false)
	TypeByteString      = newBuiltinType("ByteString", KindByteString, reflect.TypeOf(ByteString("")), false, false)
	TypeXMLElement      = newBuiltinType("XmlElement", KindXMLElement, reflect.TypeOf(XMLElement("")), false, false)
	TypeNodeID          = newBuiltinType("NodeId", KindNodeID, reflect.TypeOf(NodeID{}), false, false)
	TypeExpandedNodeID  = newBuiltinType("ExpandedNodeId", KindExpandedNodeID, reflect.TypeOf(ExpandedNodeID{}), false, false)
	TypeStatusCode      = newBuiltinType("StatusCode", KindStatusCode, reflect.TypeOf(StatusCode(0)), true, true)
	TypeQualifiedName   = newBuiltinType("QualifiedName", KindQualifiedName, reflect.TypeOf(QualifiedName{}), false, false)
	TypeLocalizedText   = newBuiltinType("LocalizedText", KindLocalizedText, reflect.TypeOf(LocalizedText{}), false, false)
	TypeExtensionObject = newBuiltinType("ExtensionObject", KindExtensionObject, reflect.TypeOf(ExtensionObject{}), false, false)
	TypeDataValue       = newBuiltinType("DataValue", KindDataValue, reflect.TypeOf(DataValue{}), false, false)
	TypeVariant         = newBuiltinType("Variant", KindVariant, reflect.TypeOf(Variant{}), false, false)
	TypeDiagnosticInfo  = newBuiltinType("DiagnosticInfo", KindDiagnosticInfo, reflect.TypeOf(DiagnosticInfo{}), false, false)
	TypeDecimal         = &DataType{
		Name:             "Decimal",
		TypeID:           NewNodeIDNumeric(0, 50),
		BinaryEncodingID: NewNodeIDNumeric(0, 50),
		XMLEncodingID:    NewNodeIDNumeric(0, 50),
		Kind:             KindDecimal,
		goType:           reflect.TypeOf(Decimal{}),
	}
)

// Range is the range of a value.
type Range struct {
	Low  float64
	High float64
}

// EUInformation describes an engineering unit.
type EUInformation struct {
	NamespaceURI string
	UnitID       int32
	DisplayName  LocalizedText
	Description  LocalizedText
}

// Argument describes a method argument.
type Argument struct {
	Name            string
	DataType        NodeID
	ValueRank       int32
	ArrayDimensions []uint32
	Description     LocalizedText
}

// ReadValueID identifies an attribute of a node to read.
type ReadValueID struct {
	NodeID       NodeID
	AttributeID  uint32
	IndexRange   string
	DataEncoding QualifiedName
}

// BuildInfo describes the build of a product.
type BuildInfo struct {
	ProductURI       string
	ManufacturerName string
	ProductName      string
	SoftwareVersion  string
	BuildNumber      string
	BuildDate        time.Time
}

// TimeZoneDataType is an offset from UTC in minutes.
type TimeZoneDataType struct {
	Offset                 int16
	DaylightSavingInOffset bool
}

// ComplexNumberType is a complex number of floats.
type ComplexNumberType struct {
	Real      float32
	Imaginary float32
}

// DoubleComplexNumberType is a complex number of doubles.
type DoubleComplexNumberType struct {
	Real      float64
	Imaginary float64
}

// NodeClass enumerates the classes of nodes.
type NodeClass int32

// NodeClasses
const (
	NodeClassUnspecified   NodeClass = 0
	NodeClassObject        NodeClass = 1
	NodeClassVariable      NodeClass = 2
	NodeClassMethod        NodeClass = 4
	NodeClassObjectType    NodeClass = 8
	NodeClassVariableType  NodeClass = 16
	NodeClassReferenceType NodeClass = 32
	NodeClassDataType      NodeClass = 64
	NodeClassView          NodeClass = 128
)

// ServerState enumerates the states of a server.
type ServerState int32

// ServerStates
const (
	ServerStateRunning            ServerState = 0
	ServerStateFailed             ServerState = 1
	ServerStateNoConfiguration    ServerState = 2
	ServerStateSuspended          ServerState = 3
	ServerStateShutdown           ServerState = 4
	ServerStateTest               ServerState = 5
	ServerStateCommunicationFault ServerState = 6
	ServerStateUnknown            ServerState = 7
)

func ns0(id uint32) NodeID {
	return NewNodeIDNumeric(0, id)
}

// Well-known types of namespace 0.
var (
	TypeRange = mustNewDataType(DataTypeDefinition{
		Name: "Range", TypeID: ns0(884), XMLEncodingID: ns0(885), BinaryEncodingID: ns0(886),
		Kind: KindStructure, GoType: reflect.TypeOf(Range{}),
		Members: []DataTypeMember{
			{Name: "Low", Type: TypeDouble},
			{Name: "High", Type: TypeDouble},
		},
	})
	TypeEUInformation = mustNewDataType(DataTypeDefinition{
		Name: "EUInformation", TypeID: ns0(887), XMLEncodingID: ns0(888), BinaryEncodingID: ns0(889),
		Kind: KindStructure, GoType: reflect.TypeOf(EUInformation{}),
		Members: []DataTypeMember{
			{Name: "NamespaceUri", Type: TypeString},
			{Name: "UnitId", Type: TypeInt32},
			{Name: "DisplayName", Type: TypeLocalizedText},
			{Name: "Description", Type: TypeLocalizedText},
		},
	})
	TypeArgument = mustNewDataType(DataTypeDefinition{
		Name: "Argument", TypeID: ns0(296), XMLEncodingID: ns0(297), BinaryEncodingID: ns0(298),
		Kind: KindStructure, GoType: reflect.TypeOf(Argument{}),
		Members: []DataTypeMember{
			{Name: "Name", Type: TypeString},
			{Name: "DataType", Type: TypeNodeID},
			{Name: "ValueRank", Type: TypeInt32},
			{Name: "ArrayDimensions", Type: TypeUInt32, IsArray: true},
			{Name: "Description", Type: TypeLocalizedText},
		},
	})
	TypeReadValueID = mustNewDataType(DataTypeDefinition{
		Name: "ReadValueId", TypeID: ns0(626), XMLEncodingID: ns0(627), BinaryEncodingID: ns0(628),
		Kind: KindStructure, GoType: reflect.TypeOf(ReadValueID{}),
		Members: []DataTypeMember{
			{Name: "NodeId", Type: TypeNodeID},
			{Name: "AttributeId", Type: TypeUInt32},
			{Name: "IndexRange", Type: TypeString},
			{Name: "DataEncoding", Type: TypeQualifiedName},
		},
	})
	TypeBuildInfo = mustNewDataType(DataTypeDefinition{
		Name: "BuildInfo", TypeID: ns0(338), XMLEncodingID: ns0(339), BinaryEncodingID: ns0(340),
		Kind: KindStructure, GoType: reflect.TypeOf(BuildInfo{}),
		Members: []DataTypeMember{
			{Name: "ProductUri", Type: TypeString},
			{Name: "ManufacturerName", Type: TypeString},
			{Name: "ProductName", Type: TypeString},
			{Name: "SoftwareVersion", Type: TypeString},
			{Name: "BuildNumber", Type: TypeString},
			{Name: "BuildDate", Type: TypeDateTime},
		},
	})
	TypeTimeZoneDataType = mustNewDataType(DataTypeDefinition{
		Name: "TimeZoneDataType", TypeID: ns0(8912), XMLEncodingID: ns0(8913), BinaryEncodingID: ns0(8917),
		Kind: KindStructure, GoType: reflect.TypeOf(TimeZoneDataType{}),
		Members: []DataTypeMember{
			{Name: "Offset", Type: TypeInt16},
			{Name: "DaylightSavingInOffset", Type: TypeBoolean},
		},
	})
	TypeComplexNumberType = mustNewDataType(DataTypeDefinition{
		Name: "ComplexNumberType", TypeID: ns0(12171), XMLEncodingID: ns0(12173), BinaryEncodingID: ns0(12181),
		Kind: KindStructure, GoType: reflect.TypeOf(ComplexNumberType{}),
		Members: []DataTypeMember{
			{Name: "Real", Type: TypeFloat},
			{Name: "Imaginary", Type: TypeFloat},
		},
	})
	TypeDoubleComplexNumberType = mustNewDataType(DataTypeDefinition{
		Name: "DoubleComplexNumberType", TypeID: ns0(12172), XMLEncodingID: ns0(12174), BinaryEncodingID: ns0(12182),
		Kind: KindStructure, GoType: reflect.TypeOf(DoubleComplexNumberType{}),
		Members: []DataTypeMember{
			{Name: "Real", Type: TypeDouble},
			{Name: "Imaginary", Type: TypeDouble},
		},
	})
	TypeNodeClass = mustNewDataType(DataTypeDefinition{
		Name: "NodeClass", TypeID: ns0(257), Kind: KindEnum, GoType: reflect.TypeOf(NodeClass(0)),
	})
	TypeServerState = mustNewDataType(DataTypeDefinition{
		Name: "ServerState", TypeID: ns0(852), Kind: KindEnum, GoType: reflect.TypeOf(ServerState(0)),
	})
)

// DataTypes lists the builtin and well-known types searched by FindDataType.
var DataTypes = []*DataType{
	TypeBoolean, TypeSByte, TypeByte, TypeInt16, TypeUInt16, TypeInt32, TypeUInt32,
	TypeInt64, TypeUInt64, TypeFloat, TypeDouble, TypeString, TypeDateTime, TypeGUID,
	TypeByteString, TypeXMLElement, TypeNodeID, TypeExpandedNodeID, TypeStatusCode,
	TypeQualifiedName, TypeLocalizedText, TypeExtensionObject, TypeDataValue,
	TypeVariant, TypeDiagnosticInfo, TypeDecimal,
	TypeRange, TypeEUInformation, TypeArgument, TypeReadValueID, TypeBuildInfo,
	TypeTimeZoneDataType, TypeComplexNumberType, TypeDoubleComplexNumberType,
	TypeNodeClass, TypeServerState,
}

var (
	staticTypesByID         = make(map[NodeID]*DataType)
	staticTypesByEncodingID = make(map[NodeID]*DataType)
	staticTypesByGoType     = make(map[reflect.Type]*DataType)
	staticTypesByName       = make(map[string]*DataType)
)

func init() {
	for _, t := range DataTypes {
		staticTypesByID[t.TypeID] = t
		staticTypesByGoType[t.goType] = t
		staticTypesByName[t.Name] = t
		if t.Kind > KindDiagnosticInfo && t.Kind != KindEnum {
			staticTypesByEncodingID[t.BinaryEncodingID] = t
			staticTypesByEncodingID[t.XMLEncodingID] = t
		}
	}
}
