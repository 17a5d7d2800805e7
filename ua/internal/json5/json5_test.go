// Copyright 2021 Converter Systems LLC. All rights reserved.

package json5_test

import (
	"strings"
	"testing"

	"github.com/awcullen/uatypes/ua/internal/json5"
	"gotest.tools/assert"
)

func TestParseScalars(t *testing.T) {
	cases := []struct {
		in   string
		kind json5.Kind
		text string
	}{
		{`null`, json5.Null, ""},
		{`"a\"bA"`, json5.String, `a"bA`},
		{`'single'`, json5.String, "single"},
		{`"😀"`, json5.String, "\U0001F600"},
		{`-12.5e3`, json5.Number, "-12.5e3"},
		{`+1`, json5.Number, "+1"},
		{`0x1F`, json5.Number, "0x1F"},
		{`.5`, json5.Number, ".5"},
		{`-Infinity`, json5.Number, "-Infinity"},
		{`NaN`, json5.Number, "NaN"},
		{"\"line\\\ncontinued\"", json5.String, "linecontinued"},
	}
	for _, c := range cases {
		v, n, err := json5.Parse([]byte(c.in), 10)
		assert.NilError(t, err, c.in)
		assert.Equal(t, v.Kind, c.kind, c.in)
		assert.Equal(t, v.Text, c.text, c.in)
		assert.Equal(t, n, len(c.in))
	}
}

func TestParseLenient(t *testing.T) {
	in := `// leading comment
	{
		unquoted: 1, /* inline */
		'quoted': [true, false, null,],
		"nested": {a: {}},
	}`
	v, n, err := json5.Parse([]byte(in), 10)
	assert.NilError(t, err)
	assert.Equal(t, n, len(in))
	assert.Equal(t, v.Kind, json5.Object)
	assert.DeepEqual(t, v.Keys, []string{"unquoted", "quoted", "nested"})
	a, ok := v.Get("quoted")
	assert.Assert(t, ok)
	assert.Equal(t, len(a.Items), 3)
	assert.Assert(t, a.Items[0].Bool)
	assert.Assert(t, a.Items[2].IsNull())
	nested, _ := v.Get("nested")
	inner, ok := nested.Get("a")
	assert.Assert(t, ok)
	assert.Equal(t, inner.Kind, json5.Object)
	assert.Equal(t, len(inner.Keys), 0)
}

func TestParseTrailingContent(t *testing.T) {
	in := []byte(`[1,2] {"next": true}`)
	v, n, err := json5.Parse(in, 10)
	assert.NilError(t, err)
	assert.Equal(t, len(v.Items), 2)
	assert.Equal(t, n, 5)
	skip, err := json5.SkipSpace(in[n:])
	assert.NilError(t, err)
	assert.Equal(t, skip, 1)
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		``,
		`{`,
		`[1 2]`,
		`{"a" 1}`,
		`"unterminated`,
		`/* open`,
		`tru`,
		`1x`,
		`{,}`,
		`[,]`,
	}
	for _, c := range cases {
		_, _, err := json5.Parse([]byte(c), 10)
		assert.Assert(t, err != nil, c)
	}
}

func TestParseDepth(t *testing.T) {
	in := strings.Repeat("[", 11) + strings.Repeat("]", 11)
	_, _, err := json5.Parse([]byte(in), 10)
	assert.ErrorContains(t, err, "depth")
	in = strings.Repeat("[", 10) + strings.Repeat("]", 10)
	_, _, err = json5.Parse([]byte(in), 10)
	assert.NilError(t, err)
}
