// Copyright 2021 Converter Systems LLC. All rights reserved.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/awcullen/uatypes/ua"
	"github.com/spf13/pflag"
	"gotest.tools/assert"
)

func TestConvert(t *testing.T) {
	cases := []struct {
		name     string
		from, to string
		in       string
		want     string
	}{
		{"json to xml", "json", "xml", `{"Type":6,"Body":7}`, `<Variant><Value><Int32>7</Int32></Value></Variant>`},
		{"json to binary", "json", "binary", `{"Type":6,"Body":7}`, "\x06\x07\x00\x00\x00"},
		{"binary to json", "binary", "json", "\x0c\x02\x00\x00\x00hi", `{"Type":12,"Body":"hi"}`},
		{"xml to json", "xml", "json", `<Variant><Value><Boolean>true</Boolean></Value></Variant>`, `{"Type":1,"Body":true}`},
		{"json5 to json", "json", "json", `{Type: 6, Body: 0x10, }`, `{"Type":6,"Body":16}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			from, err := lookupFormat(c.from)
			assert.NilError(t, err)
			to, err := lookupFormat(c.to)
			assert.NilError(t, err)
			out, err := convert([]byte(c.in), ua.TypeVariant, from, to, nil)
			assert.NilError(t, err)
			assert.Equal(t, string(out), c.want)
		})
	}
}

func TestConvertErrors(t *testing.T) {
	_, err := lookupFormat("yaml")
	assert.ErrorContains(t, err, "binary, json, json5, xml")
	_, err = lookupType("NoSuchType", nil)
	assert.ErrorContains(t, err, "unknown data type")

	from, _ := lookupFormat("json")
	to, _ := lookupFormat("xml")
	_, err = convert([]byte(`{"Type":6,`), ua.TypeVariant, from, to, nil)
	assert.ErrorContains(t, err, "error decoding")
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	// flag values persist between executions
	for _, c := range rootCmd.Commands() {
		resetFlags(c.Flags())
	}
	resetFlags(rootCmd.PersistentFlags())
	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
}

func TestConvertCommandStdin(t *testing.T) {
	out, err := execute(t, `{"Type":11,"Body":2.5}`, "convert", "-t", "Variant", "-f", "json", "-o", "json5")
	assert.NilError(t, err)
	assert.Equal(t, out, "{\n  Type: 11,\n  Body: 2.5\n}")
}

func TestConvertCommandFiles(t *testing.T) {
	dir := t.TempDir()
	typesFile := filepath.Join(dir, "types.yaml")
	assert.NilError(t, os.WriteFile(typesFile, []byte(`
types:
  - name: Vector
    kind: structure
    typeId: ns=1;i=3001
    binaryEncodingId: ns=1;i=3002
    xmlEncodingId: ns=1;i=3003
    members:
      - {name: X, type: Double}
      - {name: Y, type: Double}
`), 0o600))
	var inputs []string
	for i, body := range []string{`{"X":1,"Y":2}`, `{"X":-1}`, `{"Y":0.5}`} {
		name := filepath.Join(dir, "v"+string(rune('a'+i))+".json")
		assert.NilError(t, os.WriteFile(name, []byte(body), 0o600))
		inputs = append(inputs, name)
	}
	outDir := filepath.Join(dir, "out")

	args := append([]string{"convert", "--types", typesFile, "-t", "Vector", "-f", "json", "-o", "xml", "-d", outDir, "-w", "2"}, inputs...)
	_, err := execute(t, "", args...)
	assert.NilError(t, err)

	b, err := os.ReadFile(filepath.Join(outDir, "va.xml"))
	assert.NilError(t, err)
	assert.Equal(t, string(b), `<Vector><X>1</X><Y>2</Y></Vector>`)
	b, err = os.ReadFile(filepath.Join(outDir, "vb.xml"))
	assert.NilError(t, err)
	assert.Equal(t, string(b), `<Vector><X>-1</X><Y>0</Y></Vector>`)

	// a file that does not decode fails the command, the others are converted
	bad := filepath.Join(dir, "bad.json")
	assert.NilError(t, os.WriteFile(bad, []byte(`[`), 0o600))
	args = append([]string{"convert", "--types", typesFile, "-t", "Vector", "-f", "json", "-o", "binary", "-d", outDir, "-w", "2"}, inputs[0], bad)
	_, err = execute(t, "", args...)
	assert.ErrorContains(t, err, "1 of 2 files failed")
	b, err = os.ReadFile(filepath.Join(outDir, "va.bin"))
	assert.NilError(t, err)
	assert.Equal(t, len(b), 16)
}

func TestParseCommand(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want string
	}{
		{"nodeid", []string{"--as", "nodeid", "ns=2;s=Demo"}, "ns=2;s=Demo\n"},
		{"nodeid to uri", []string{"--as", "nodeid", "--uris", "--namespaces", "http://opcfoundation.org/UA/,urn:a", "ns=1;i=5"}, "nsu=urn:a;i=5\n"},
		{"uri to nodeid", []string{"--as", "nodeid", "--namespaces", "http://opcfoundation.org/UA/,urn:a", "nsu=urn:a;i=5"}, "ns=1;i=5\n"},
		{"expanded", []string{"--as", "expandednodeid", "svr=1;nsu=urn:x;i=5"}, "svr=1;nsu=urn:x;i=5\n"},
		{"qualified name", []string{"--as", "qualifiedname", "2:Name", "Other"}, "2:Name\nOther\n"},
		{"range", []string{"--as", "range", "1:2,3"}, "1:2,3\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out, err := execute(t, "", append([]string{"parse"}, c.args...)...)
			assert.NilError(t, err)
			assert.Equal(t, out, c.want)
		})
	}

	_, err := execute(t, "", "parse", "--as", "nodeid", "x=1")
	assert.ErrorContains(t, err, `error parsing "x=1"`)
}
