// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua_test

import (
	"reflect"

	"github.com/awcullen/uatypes/ua"
)

// point is a custom structure with a layout identical to its encoding.
type point struct {
	X int32
	Y int32
}

// record is a custom structure with optional fields.
type record struct {
	ID     int32
	Scale  *float64
	Labels []string
}

// choice is a custom union.
type choice struct {
	SwitchField uint32
	Number      int32
	Text        string
}

// access is a custom bitfield cluster.
type access struct {
	Read    bool
	Write   bool
	History bool
}

// sample nests custom types.
type sample struct {
	Name     string
	Location point
	Tags     []ua.QualifiedName
	Value    ua.Variant
	Choice   choice
}

var (
	typePoint = mustNewDataType(ua.DataTypeDefinition{
		Name:             "Point",
		TypeID:           ua.NewNodeIDNumeric(1, 3001),
		BinaryEncodingID: ua.NewNodeIDNumeric(1, 3002),
		XMLEncodingID:    ua.NewNodeIDNumeric(1, 3003),
		Kind:             ua.KindStructure,
		GoType:           reflect.TypeOf(point{}),
		Members: []ua.DataTypeMember{
			{Name: "X", Type: ua.TypeInt32},
			{Name: "Y", Type: ua.TypeInt32},
		},
	})
	typeRecord = mustNewDataType(ua.DataTypeDefinition{
		Name:             "Record",
		TypeID:           ua.NewNodeIDNumeric(1, 3011),
		BinaryEncodingID: ua.NewNodeIDNumeric(1, 3012),
		XMLEncodingID:    ua.NewNodeIDNumeric(1, 3013),
		Kind:             ua.KindOptStruct,
		GoType:           reflect.TypeOf(record{}),
		Members: []ua.DataTypeMember{
			{Name: "Id", Type: ua.TypeInt32},
			{Name: "Scale", Type: ua.TypeDouble, IsOptional: true},
			{Name: "Labels", Type: ua.TypeString, IsArray: true, IsOptional: true},
		},
	})
	typeChoice = mustNewDataType(ua.DataTypeDefinition{
		Name:             "Choice",
		TypeID:           ua.NewNodeIDNumeric(1, 3021),
		BinaryEncodingID: ua.NewNodeIDNumeric(1, 3022),
		XMLEncodingID:    ua.NewNodeIDNumeric(1, 3023),
		Kind:             ua.KindUnion,
		GoType:           reflect.TypeOf(choice{}),
		Members: []ua.DataTypeMember{
			{Name: "Number", Type: ua.TypeInt32},
			{Name: "Text", Type: ua.TypeString},
		},
	})
	typeAccess = mustNewDataType(ua.DataTypeDefinition{
		Name:             "Access",
		TypeID:           ua.NewNodeIDNumeric(1, 3031),
		BinaryEncodingID: ua.NewNodeIDNumeric(1, 3032),
		XMLEncodingID:    ua.NewNodeIDNumeric(1, 3033),
		Kind:             ua.KindBitfieldCluster,
		GoType:           reflect.TypeOf(access{}),
		Members: []ua.DataTypeMember{
			{Name: "Read", Type: ua.TypeBoolean},
			{Name: "Write", Type: ua.TypeBoolean},
			{Name: "History", Type: ua.TypeBoolean},
		},
	})
	typeSample = mustNewDataType(ua.DataTypeDefinition{
		Name:             "Sample",
		TypeID:           ua.NewNodeIDNumeric(1, 3041),
		BinaryEncodingID: ua.NewNodeIDNumeric(1, 3042),
		XMLEncodingID:    ua.NewNodeIDNumeric(1, 3043),
		Kind:             ua.KindStructure,
		GoType:           reflect.TypeOf(sample{}),
		Members: []ua.DataTypeMember{
			{Name: "Name", Type: ua.TypeString},
			{Name: "Location", Type: typePoint},
			{Name: "Tags", Type: ua.TypeQualifiedName, IsArray: true},
			{Name: "Value", Type: ua.TypeVariant},
			{Name: "Choice", Type: typeChoice},
		},
	})

	customTypes = &ua.DataTypeArray{
		Types: []*ua.DataType{typePoint, typeRecord, typeChoice, typeAccess, typeSample},
	}
)

func mustNewDataType(def ua.DataTypeDefinition) *ua.DataType {
	t, err := ua.NewDataType(def)
	if err != nil {
		panic(err)
	}
	return t
}

func mustVariant(value any) ua.Variant {
	v, err := ua.NewVariant(value)
	if err != nil {
		panic(err)
	}
	return v
}

func float64Ptr(f float64) *float64 {
	return &f
}
