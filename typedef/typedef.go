// Copyright 2021 Converter Systems LLC. All rights reserved.

// Package typedef creates custom data types from a YAML definition, e.g.
//
//	namespaces:
//	  - http://opcfoundation.org/UA/
//	  - urn:example
//	types:
//	  - name: Point
//	    kind: structure
//	    typeId: nsu=urn:example;i=3001
//	    binaryEncodingId: nsu=urn:example;i=3002
//	    members:
//	      - {name: X, type: Double}
//	      - {name: Y, type: Double}
//
// A member type is the name of a builtin or well-known type, of a type
// defined earlier in the same file, or of a type in the list the block is
// linked onto.
package typedef

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/awcullen/uatypes/ua"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// File is the document root.
type File struct {
	// Namespaces is the namespace table used to resolve nsu= in node ids.
	Namespaces []string     `yaml:"namespaces"`
	Types      []Definition `yaml:"types"`
}

// Definition describes one type.
type Definition struct {
	Name             string   `yaml:"name"`
	Kind             string   `yaml:"kind"`
	TypeID           string   `yaml:"typeId"`
	BinaryEncodingID string   `yaml:"binaryEncodingId"`
	XMLEncodingID    string   `yaml:"xmlEncodingId"`
	Members          []Member `yaml:"members"`
}

// Member describes one member of a structured type.
type Member struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Array    bool   `yaml:"array"`
	Optional bool   `yaml:"optional"`
}

var kinds = map[string]ua.DataTypeKind{
	"structure": ua.KindStructure,
	"optstruct": ua.KindOptStruct,
	"union":     ua.KindUnion,
	"enum":      ua.KindEnum,
	"bitfield":  ua.KindBitfieldCluster,
}

// Load reads a definition and returns a block of the types linked onto next.
func Load(r io.Reader, next *ua.DataTypeArray) (*ua.DataTypeArray, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return &ua.DataTypeArray{Next: next}, nil
		}
		return nil, errors.Wrap(err, "error decoding type definition")
	}
	return f.Build(next)
}

// LoadFile reads the definition in the named file.
func LoadFile(name string, next *ua.DataTypeArray) (*ua.DataTypeArray, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading %s", name)
	}
	block, err := Load(bytes.NewReader(b), next)
	if err != nil {
		return nil, errors.Wrapf(err, "error loading %s", name)
	}
	return block, nil
}

// Build creates the types of the file in order. The returned block is linked
// onto next.
func (f *File) Build(next *ua.DataTypeArray) (*ua.DataTypeArray, error) {
	var nm *ua.NamespaceMapping
	if len(f.Namespaces) > 0 {
		nm = ua.NewNamespaceMapping(f.Namespaces, nil)
	}
	block := &ua.DataTypeArray{Next: next, Types: make([]*ua.DataType, 0, len(f.Types))}
	for i := range f.Types {
		def := &f.Types[i]
		t, err := def.build(block, nm)
		if err != nil {
			return nil, errors.Wrapf(err, "type %q", def.Name)
		}
		block.Types = append(block.Types, t)
	}
	return block, nil
}

func (d *Definition) build(block *ua.DataTypeArray, nm *ua.NamespaceMapping) (*ua.DataType, error) {
	if d.Name == "" {
		return nil, errors.New("missing name")
	}
	if _, ok := ua.FindDataTypeByName(d.Name, block); ok {
		return nil, errors.New("name already defined")
	}
	kind, ok := kinds[strings.ToLower(d.Kind)]
	if !ok {
		return nil, errors.Errorf("unknown kind %q", d.Kind)
	}
	def := ua.DataTypeDefinition{Name: d.Name, Kind: kind}
	var err error
	if def.TypeID, err = parseID(d.TypeID, nm, true); err != nil {
		return nil, errors.Wrap(err, "typeId")
	}
	if _, ok := ua.FindDataTypeWithCustom(def.TypeID, block); ok {
		return nil, errors.Errorf("typeId %s already defined", def.TypeID)
	}
	if def.BinaryEncodingID, err = parseID(d.BinaryEncodingID, nm, false); err != nil {
		return nil, errors.Wrap(err, "binaryEncodingId")
	}
	if def.XMLEncodingID, err = parseID(d.XMLEncodingID, nm, false); err != nil {
		return nil, errors.Wrap(err, "xmlEncodingId")
	}
	for _, m := range d.Members {
		mt, ok := ua.FindDataTypeByName(m.Type, block)
		if !ok {
			return nil, errors.Errorf("member %q: unknown type %q", m.Name, m.Type)
		}
		def.Members = append(def.Members, ua.DataTypeMember{
			Name:       m.Name,
			Type:       mt,
			IsArray:    m.Array,
			IsOptional: m.Optional,
		})
	}
	t, err := ua.NewDataType(def)
	if err != nil {
		return nil, errors.Wrap(err, "invalid definition")
	}
	return t, nil
}

func parseID(s string, nm *ua.NamespaceMapping, required bool) (ua.NodeID, error) {
	if s == "" {
		if required {
			return ua.NilNodeID, errors.New("missing")
		}
		return ua.NilNodeID, nil
	}
	id, err := ua.ParseNodeIDEx(s, nm)
	if err != nil {
		return ua.NilNodeID, errors.Wrapf(err, "invalid node id %q", s)
	}
	if strings.HasPrefix(s, "nsu=") && id.Identifier() == s {
		return ua.NilNodeID, errors.Errorf("unknown namespace in %q", s)
	}
	return id, nil
}
