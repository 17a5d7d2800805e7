// Copyright 2024 Converter Systems LLC. All rights reserved.

package benchmarks

import (
	"testing"
	"time"

	"github.com/awcullen/uatypes/ua"
)

/*
run codec benchmarks with:
go test -bench=. -benchmem ./benchmarks
*/

// MockWriter discards everything written, like a network connection that
// never blocks.
type MockWriter struct {
}

func (w *MockWriter) Write(p []byte) (n int, err error) {
	return len(p), nil
}

var t0 = time.Date(1601, time.January, 01, 12, 0, 0, 0, time.UTC)

// payload is a typical notification: a Variant holding data values of double,
// string and structure arrays.
func payload() ua.Variant {
	args := make([]ua.ExtensionObject, 8)
	for i := range args {
		args[i].SetValue(&ua.Argument{
			Name:            "Argument",
			DataType:        ua.NewNodeIDNumeric(0, 11),
			ValueRank:       1,
			ArrayDimensions: []uint32{4},
			Description:     ua.NewLocalizedText("an argument", "en"),
		}, ua.TypeArgument)
	}
	values := []any{
		3.14159,
		"Simulation Examples.Functions.Sine",
		make([]float64, 100),
		[]string{"a", "bb", "ccc", "dddd"},
		args,
	}
	dvs := make([]ua.DataValue, 0, len(values))
	for _, value := range values {
		v, err := ua.NewVariant(value)
		if err != nil {
			panic(err)
		}
		dvs = append(dvs, ua.NewDataValue(v, ua.Good, t0, t0))
	}
	var v ua.Variant
	v.SetArray(dvs, ua.TypeDataValue)
	return v
}

func BenchmarkEncode(b *testing.B) {
	v := payload()
	benchmarks := []struct {
		name   string
		encode func() error
	}{
		{"binary", func() error {
			return ua.NewBinaryEncoder(&MockWriter{}, nil).Encode(&v, ua.TypeVariant)
		}},
		{"json", func() error {
			return ua.NewJSONEncoder(&MockWriter{}, nil).Encode(&v, ua.TypeVariant)
		}},
		{"xml", func() error {
			return ua.NewXMLEncoder(&MockWriter{}, nil).Encode(&v, ua.TypeVariant)
		}},
	}
	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if err := bm.encode(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkDecode(b *testing.B) {
	v := payload()
	benchmarks := []struct {
		name   string
		encode func(p any, typ *ua.DataType) ([]byte, error)
		decode func(in []byte, p any, typ *ua.DataType) error
	}{
		{"binary",
			func(p any, typ *ua.DataType) ([]byte, error) { return ua.EncodeBinary(p, typ, nil, nil) },
			func(in []byte, p any, typ *ua.DataType) error { return ua.DecodeBinary(in, p, typ, nil) }},
		{"json",
			func(p any, typ *ua.DataType) ([]byte, error) { return ua.EncodeJSON(p, typ, nil, nil) },
			func(in []byte, p any, typ *ua.DataType) error { return ua.DecodeJSON(in, p, typ, nil) }},
		{"xml",
			func(p any, typ *ua.DataType) ([]byte, error) { return ua.EncodeXML(p, typ, nil, nil) },
			func(in []byte, p any, typ *ua.DataType) error { return ua.DecodeXML(in, p, typ, nil) }},
	}
	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			in, err := bm.encode(&v, ua.TypeVariant)
			if err != nil {
				b.Fatal(err)
			}
			b.SetBytes(int64(len(in)))
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				var out ua.Variant
				if err := bm.decode(in, &out, ua.TypeVariant); err != nil {
					b.Fatal(err)
				}
				ua.Clear(&out, ua.TypeVariant)
			}
		})
	}
}

func BenchmarkCopy(b *testing.B) {
	v := payload()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var out ua.Variant
		if err := ua.Copy(&out, &v, ua.TypeVariant); err != nil {
			b.Fatal(err)
		}
		ua.Clear(&out, ua.TypeVariant)
	}
}

func BenchmarkEqual(b *testing.B) {
	v := payload()
	var other ua.Variant
	if err := ua.Copy(&other, &v, ua.TypeVariant); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if !ua.Equal(&v, &other, ua.TypeVariant) {
			b.Fatal("copies differ")
		}
	}
}
