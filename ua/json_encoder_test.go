// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua_test

import (
	"math"
	"testing"
	"time"

	"github.com/awcullen/uatypes/ua"
	"github.com/google/uuid"
	"gotest.tools/assert"
)

func TestJSONRoundTrip(t *testing.T) {
	var (
		b      = true
		i32    = int32(-5)
		i64    = int64(123)
		u64    = uint64(math.MaxUint64)
		f32    = float32(0.1)
		f64    = 1.5
		nan    = math.NaN()
		inf    = math.Inf(-1)
		str    = "a\"b\n"
		dt     = time.Date(2020, 7, 4, 12, 0, 0, 500000000, time.UTC)
		zero   = time.Time{}
		guid   = uuid.MustParse("72962b91-fa75-4ae6-8d28-b404dc7daf63")
		bs     = ua.ByteString("abc")
		nid    = ua.NewNodeIDNumeric(0, 85)
		sid    = ua.NewNodeIDString(2, "Demo")
		eid    = ua.NewExpandedNodeIDNumeric(1, "urn:x", 5)
		qn     = ua.NewQualifiedName(2, "Temp")
		lt     = ua.NewLocalizedText("Hi", "en")
		sc     = ua.BadDecodingError
		vi     = mustVariant(int32(7))
		ve     = ua.Variant{}
		vs     = mustVariant([]string{"a", "b"})
		dv     = ua.DataValue{Value: mustVariant(2.5), HasValue: true, HasStatus: true}
		rng    = ua.Range{Low: 0, High: 100}
		pt     = point{X: 1, Y: 2}
		rec    = record{ID: 7}
		recAll = record{ID: 7, Scale: float64Ptr(0.5), Labels: []string{}}
		ch     = choice{SwitchField: 2, Text: "x"}
		acc    = access{Read: true}
		eo     = ua.NewExtensionObjectEncoded(ua.NewNodeIDNumeric(1, 999), ua.ByteString("\x01\x02"))
		vpt    = ua.Variant{}
	)
	vpt.SetScalar(&point{X: 1, Y: 2}, typePoint)

	cases := []struct {
		name  string
		value any
		typ   *ua.DataType
		want  string
	}{
		{"boolean", &b, ua.TypeBoolean, `true`},
		{"int32", &i32, ua.TypeInt32, `-5`},
		{"int64", &i64, ua.TypeInt64, `"123"`},
		{"uint64", &u64, ua.TypeUInt64, `"18446744073709551615"`},
		{"float", &f32, ua.TypeFloat, `0.1`},
		{"double", &f64, ua.TypeDouble, `1.5`},
		{"nan", &nan, ua.TypeDouble, `"NaN"`},
		{"infinity", &inf, ua.TypeDouble, `"-Infinity"`},
		{"string", &str, ua.TypeString, `"a\"b\n"`},
		{"datetime", &dt, ua.TypeDateTime, `"2020-07-04T12:00:00.5Z"`},
		{"zero datetime", &zero, ua.TypeDateTime, `"1601-01-01T00:00:00Z"`},
		{"guid", &guid, ua.TypeGUID, `"72962B91-FA75-4AE6-8D28-B404DC7DAF63"`},
		{"bytestring", &bs, ua.TypeByteString, `"YWJj"`},
		{"numeric nodeid", &nid, ua.TypeNodeID, `{"Id":85}`},
		{"string nodeid", &sid, ua.TypeNodeID, `{"IdType":1,"Id":"Demo","Namespace":2}`},
		{"expanded nodeid", &eid, ua.TypeExpandedNodeID, `{"Id":5,"Namespace":"urn:x","ServerUri":1}`},
		{"qualified name", &qn, ua.TypeQualifiedName, `{"Name":"Temp","Uri":2}`},
		{"localized text", &lt, ua.TypeLocalizedText, `{"Locale":"en","Text":"Hi"}`},
		{"status code", &sc, ua.TypeStatusCode, `2147942400`},
		{"variant", &vi, ua.TypeVariant, `{"Type":6,"Body":7}`},
		{"empty variant", &ve, ua.TypeVariant, `{}`},
		{"variant array", &vs, ua.TypeVariant, `{"Type":12,"Body":["a","b"]}`},
		{"data value", &dv, ua.TypeDataValue, `{"Value":{"Type":11,"Body":2.5},"Status":0}`},
		{"range", &rng, ua.TypeRange, `{"Low":0,"High":100}`},
		{"structure", &pt, typePoint, `{"X":1,"Y":2}`},
		{"optional fields absent", &rec, typeRecord, `{"Id":7}`},
		{"optional fields present", &recAll, typeRecord, `{"Id":7,"Scale":0.5,"Labels":[]}`},
		{"union", &ch, typeChoice, `{"SwitchField":2,"Value":"x"}`},
		{"bitfield cluster", &acc, typeAccess, `{"Read":true,"Write":false,"History":false}`},
		{"encoded extension object", &eo, ua.TypeExtensionObject, `{"TypeId":{"Id":999,"Namespace":1},"Encoding":1,"Body":"AQI="}`},
		{"custom type in variant", &vpt, ua.TypeVariant, `{"Type":22,"Body":{"TypeId":{"Id":3001,"Namespace":1},"Body":{"X":1,"Y":2}}}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b, err := ua.EncodeJSON(c.value, c.typ, nil, nil)
			assert.NilError(t, err)
			assert.Equal(t, string(b), c.want)

			n, err := ua.CalcSizeJSON(c.value, c.typ, nil)
			assert.NilError(t, err)
			assert.Equal(t, n, len(c.want))

			out := ua.New(c.typ)
			err = ua.DecodeJSON(b, out, c.typ, &ua.DecodeJSONOptions{CustomTypes: customTypes})
			assert.NilError(t, err)
			assert.Assert(t, ua.Equal(c.value, out, c.typ), "decoded %s differs", b)
		})
	}
}

func TestJSONNested(t *testing.T) {
	in := sample{
		Name:     "s1",
		Location: point{X: 3, Y: 4},
		Tags:     []ua.QualifiedName{ua.NewQualifiedName(1, "a"), ua.NewQualifiedName(0, "b")},
		Value:    mustVariant([]float64{1, 2, 3}),
		Choice:   choice{SwitchField: 1, Number: 9},
	}
	b, err := ua.EncodeJSON(&in, typeSample, nil, nil)
	assert.NilError(t, err)
	assert.Equal(t, string(b), `{"Name":"s1","Location":{"X":3,"Y":4},"Tags":[{"Name":"a","Uri":1},{"Name":"b"}],`+
		`"Value":{"Type":11,"Body":[1,2,3]},"Choice":{"SwitchField":1,"Value":9}}`)

	var out sample
	assert.NilError(t, ua.DecodeJSON(b, &out, typeSample, nil))
	assert.Assert(t, ua.Equal(&in, &out, typeSample))
	ua.Clear(&out, typeSample)
}

func TestEncodeJSONOptions(t *testing.T) {
	vi := mustVariant(int32(7))
	lt := ua.NewLocalizedText("Hi", "en")
	sc := ua.BadDecodingError
	sid := ua.NewNodeIDString(2, "Demo")
	qn := ua.NewQualifiedName(2, "Temp")
	i64 := int64(123)
	pt := point{X: 1, Y: 2}
	var md ua.Variant
	md.SetArray([]int32{1, 2, 3, 4, 5, 6}, ua.TypeInt32)
	assert.NilError(t, md.SetArrayDimensions([]uint32{2, 3}))

	cases := []struct {
		name  string
		value any
		typ   *ua.DataType
		opts  ua.EncodeJSONOptions
		want  string
	}{
		{"non-reversible variant", &vi, ua.TypeVariant, ua.EncodeJSONOptions{NonReversible: true}, `7`},
		{"non-reversible localized text", &lt, ua.TypeLocalizedText, ua.EncodeJSONOptions{NonReversible: true}, `"Hi"`},
		{"non-reversible status code", &sc, ua.TypeStatusCode, ua.EncodeJSONOptions{NonReversible: true}, `{"Code":2147942400,"Symbol":"BadDecodingError"}`},
		{"non-reversible matrix", &md, ua.TypeVariant, ua.EncodeJSONOptions{NonReversible: true}, `[[1,2,3],[4,5,6]]`},
		{"reversible matrix", &md, ua.TypeVariant, ua.EncodeJSONOptions{}, `{"Type":6,"Body":[1,2,3,4,5,6],"Dimensions":[2,3]}`},
		{"string nodeids", &sid, ua.TypeNodeID, ua.EncodeJSONOptions{StringNodeIDs: true}, `"ns=2;s=Demo"`},
		{"unquoted keys", &qn, ua.TypeQualifiedName, ua.EncodeJSONOptions{UnquotedKeys: true}, `{Name:"Temp",Uri:2}`},
		{"int64 as number", &i64, ua.TypeInt64, ua.EncodeJSONOptions{Int64AsNumber: true}, `123`},
		{"pretty print", &pt, typePoint, ua.EncodeJSONOptions{PrettyPrint: true}, "{\n  \"X\": 1,\n  \"Y\": 2\n}"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			opts := c.opts
			b, err := ua.EncodeJSON(c.value, c.typ, nil, &opts)
			assert.NilError(t, err)
			assert.Equal(t, string(b), c.want)
		})
	}
}

func TestPrint(t *testing.T) {
	in := sample{
		Name:     "s1",
		Location: point{X: 3, Y: 4},
		Value:    mustVariant(ua.NewNodeIDNumeric(1, 42)),
	}
	s, err := ua.Print(&in, typeSample)
	assert.NilError(t, err)
	assert.Equal(t, s, `{
  Name: "s1",
  Location: {
    X: 3,
    Y: 4
  },
  Tags: null,
  Value: {
    Type: 17,
    Body: "ns=1;i=42"
  },
  Choice: {
    SwitchField: 0
  }
}`)

	// the printed text decodes back
	var out sample
	assert.NilError(t, ua.DecodeJSON([]byte(s), &out, typeSample, nil))
	assert.Assert(t, ua.Equal(&in, &out, typeSample))
}

func TestDecodeJSON5(t *testing.T) {
	var r ua.Range
	err := ua.DecodeJSON([]byte(`{
		// engineering range
		Low: 1,
		'High': +2.5, /* trailing comma */
	}`), &r, ua.TypeRange, nil)
	assert.NilError(t, err)
	assert.Equal(t, r, ua.Range{Low: 1, High: 2.5})

	var i64 int64
	assert.NilError(t, ua.DecodeJSON([]byte(`-9007199254740993`), &i64, ua.TypeInt64, nil))
	assert.Equal(t, i64, int64(-9007199254740993))

	var id ua.NodeID
	assert.NilError(t, ua.DecodeJSON([]byte(`"ns=1;i=42"`), &id, ua.TypeNodeID, nil))
	assert.Assert(t, id.Equal(ua.NewNodeIDNumeric(1, 42)))

	var v ua.Variant
	assert.NilError(t, ua.DecodeJSON([]byte(`{Type: 6, Body: 0x10}`), &v, ua.TypeVariant, nil))
	assert.Equal(t, v.Value(), int32(16))

	var f float64
	assert.NilError(t, ua.DecodeJSON([]byte(`Infinity`), &f, ua.TypeDouble, nil))
	assert.Assert(t, math.IsInf(f, 1))
}

func TestDecodeJSONDecodedLength(t *testing.T) {
	in := []byte(`[1,2] {"next": true}`)
	var v ua.Variant
	err := ua.DecodeJSON(in, &v, ua.TypeVariant, nil)
	assert.Equal(t, err, ua.BadDecodingError)

	var arr ua.Variant
	n := 0
	err = ua.DecodeJSON([]byte(`{"Type":6,"Body":[1,2]} trailing`), &arr, ua.TypeVariant, &ua.DecodeJSONOptions{DecodedLength: &n})
	assert.NilError(t, err)
	assert.Equal(t, n, 23)
	assert.DeepEqual(t, arr.Value(), []int32{1, 2})

	err = ua.DecodeJSON([]byte(`{"Type":6,"Body":[1,2]} trailing`), &arr, ua.TypeVariant, nil)
	assert.Equal(t, err, ua.BadDecodingError)
	assert.Assert(t, arr.IsEmpty())
}

func TestDecodeJSONErrors(t *testing.T) {
	cases := []struct {
		name string
		typ  *ua.DataType
		in   string
		err  error
	}{
		{"syntax", ua.TypeInt32, `{`, ua.BadDecodingError},
		{"not a number", ua.TypeInt32, `"abc"`, ua.BadDecodingError},
		{"out of range", ua.TypeByte, `256`, ua.BadDecodingError},
		{"bad variant type", ua.TypeVariant, `{"Type":99,"Body":1}`, ua.BadDecodingError},
		{"variant without type", ua.TypeVariant, `{"Body":1}`, ua.BadDecodingError},
		{"dimensions mismatch", ua.TypeVariant, `{"Type":6,"Body":[1,2,3],"Dimensions":[2,2]}`, ua.BadDecodingError},
		{"unknown body type", ua.TypeExtensionObject, `{"TypeId":{"Id":4242,"Namespace":3},"Body":{}}`, ua.BadDataTypeIDUnknown},
		{"bad union switch", typeChoice, `{"SwitchField":3}`, ua.BadDecodingError},
		{"bad base64", ua.TypeByteString, `"!!"`, ua.BadDecodingError},
		{"bad guid", ua.TypeGUID, `"not-a-guid"`, ua.BadDecodingError},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out := ua.New(c.typ)
			err := ua.DecodeJSON([]byte(c.in), out, c.typ, nil)
			assert.Equal(t, err, c.err)
		})
	}
}

func TestJSONNamespaceMapping(t *testing.T) {
	local := []string{"http://opcfoundation.org/UA/", "urn:a", "urn:b"}
	remote := []string{"http://opcfoundation.org/UA/", "urn:x", "urn:y", "urn:z", "urn:w", "urn:b"}
	nm := ua.NewNamespaceMapping(local, remote)

	in := ua.NewNodeIDNumeric(2, 1000)
	b, err := ua.EncodeJSON(&in, ua.TypeNodeID, nil, &ua.EncodeJSONOptions{NamespaceMapping: nm})
	assert.NilError(t, err)
	assert.Equal(t, string(b), `{"Id":1000,"Namespace":5}`)

	var out ua.NodeID
	assert.NilError(t, ua.DecodeJSON(b, &out, ua.TypeNodeID, &ua.DecodeJSONOptions{NamespaceMapping: nm}))
	assert.Assert(t, out.Equal(in))

	b, err = ua.EncodeJSON(&in, ua.TypeNodeID, nil, &ua.EncodeJSONOptions{NamespaceMapping: nm, NonReversible: true})
	assert.NilError(t, err)
	assert.Equal(t, string(b), `{"Id":1000,"Namespace":"urn:b"}`)

	assert.NilError(t, ua.DecodeJSON(b, &out, ua.TypeNodeID, &ua.DecodeJSONOptions{NamespaceMapping: nm}))
	assert.Assert(t, out.Equal(in))
}

func TestDecodeJSONLimitedAllocator(t *testing.T) {
	a := ua.NewLimitedAllocator(16, nil)
	var out sample
	err := ua.DecodeJSON([]byte(`{"Name":"a name longer than sixteen bytes"}`), &out, typeSample, &ua.DecodeJSONOptions{Allocator: a})
	assert.Equal(t, err, ua.BadOutOfMemory)
	assert.Equal(t, a.InUse, int64(0))
	assert.Equal(t, out.Name, "")
}
