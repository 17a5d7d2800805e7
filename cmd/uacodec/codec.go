// Copyright 2021 Converter Systems LLC. All rights reserved.

package main

import (
	"sort"
	"strings"

	"github.com/awcullen/uatypes/ua"
	"github.com/pkg/errors"
)

// format is one encoding of values.
type format struct {
	ext    string
	decode func(in []byte, p any, typ *ua.DataType, custom *ua.DataTypeArray) error
	encode func(p any, typ *ua.DataType) ([]byte, error)
}

func decodeJSON(in []byte, p any, typ *ua.DataType, custom *ua.DataTypeArray) error {
	return ua.DecodeJSON(in, p, typ, &ua.DecodeJSONOptions{CustomTypes: custom})
}

var formats = map[string]format{
	"binary": {
		ext: ".bin",
		decode: func(in []byte, p any, typ *ua.DataType, custom *ua.DataTypeArray) error {
			return ua.DecodeBinary(in, p, typ, &ua.DecodeBinaryOptions{CustomTypes: custom})
		},
		encode: func(p any, typ *ua.DataType) ([]byte, error) {
			return ua.EncodeBinary(p, typ, nil, nil)
		},
	},
	"json": {
		ext:    ".json",
		decode: decodeJSON,
		encode: func(p any, typ *ua.DataType) ([]byte, error) {
			return ua.EncodeJSON(p, typ, nil, nil)
		},
	},
	"json5": {
		ext:    ".json5",
		decode: decodeJSON,
		encode: func(p any, typ *ua.DataType) ([]byte, error) {
			return ua.EncodeJSON(p, typ, nil, &ua.EncodeJSONOptions{PrettyPrint: true, UnquotedKeys: true, StringNodeIDs: true})
		},
	},
	"xml": {
		ext: ".xml",
		decode: func(in []byte, p any, typ *ua.DataType, custom *ua.DataTypeArray) error {
			return ua.DecodeXML(in, p, typ, &ua.DecodeXMLOptions{CustomTypes: custom})
		},
		encode: func(p any, typ *ua.DataType) ([]byte, error) {
			return ua.EncodeXML(p, typ, nil, nil)
		},
	},
}

func formatNames() string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func lookupFormat(name string) (format, error) {
	f, ok := formats[strings.ToLower(name)]
	if !ok {
		return format{}, errors.Errorf("unknown format %q, expected one of %s", name, formatNames())
	}
	return f, nil
}

func lookupType(name string, custom *ua.DataTypeArray) (*ua.DataType, error) {
	typ, ok := ua.FindDataTypeByName(name, custom)
	if !ok {
		return nil, errors.Errorf("unknown data type %q", name)
	}
	return typ, nil
}

// convert decodes a value of the type and encodes it again.
func convert(in []byte, typ *ua.DataType, from, to format, custom *ua.DataTypeArray) ([]byte, error) {
	p := ua.New(typ)
	defer ua.Clear(p, typ)
	if err := from.decode(in, p, typ, custom); err != nil {
		return nil, errors.Wrap(err, "error decoding")
	}
	out, err := to.encode(p, typ)
	if err != nil {
		return nil, errors.Wrap(err, "error encoding")
	}
	return out, nil
}
