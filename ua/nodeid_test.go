// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua_test

import (
	"testing"

	"github.com/awcullen/uatypes/ua"
	"github.com/google/uuid"
	"gotest.tools/assert"
)

func TestParseNodeID(t *testing.T) {
	cases := []struct {
		in   string
		want ua.NodeID
	}{
		{"i=85", ua.NewNodeIDNumeric(0, 85)},
		{"ns=2;i=4294967295", ua.NewNodeIDNumeric(2, 4294967295)},
		{"ns=2;s=Demo.Static.Scalar.Float", ua.NewNodeIDString(2, "Demo.Static.Scalar.Float")},
		{"s=with;semicolon", ua.NewNodeIDString(0, "with;semicolon")},
		{"ns=2;s=Hello:World", ua.NewNodeIDString(2, "Hello:World")},
		{"s=", ua.NewNodeIDString(0, "")},
		{"ns=2;g=5ce9dbce-5d79-434c-9ac3-1cfba9a6e92c", ua.NewNodeIDGUID(2, uuid.MustParse("5ce9dbce-5d79-434c-9ac3-1cfba9a6e92c"))},
		{"ns=2;b=YWJjZA==", ua.NewNodeIDOpaque(2, ua.ByteString("abcd"))},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			id, err := ua.ParseNodeID(c.in)
			assert.NilError(t, err)
			assert.Assert(t, id.Equal(c.want), "got %s", id)
			assert.Equal(t, id.String(), c.in)
		})
	}
}

func TestParseNodeIDErrors(t *testing.T) {
	cases := []struct {
		in  string
		err error
	}{
		{"", ua.BadDecodingError},
		{"85", ua.BadDecodingError},
		{"x=85", ua.BadDecodingError},
		{"i=-1", ua.BadDecodingError},
		{"i=0x10", ua.BadDecodingError},
		{"i=4294967296", ua.BadEncodingLimitsExceeded},
		{"ns=65536;i=1", ua.BadEncodingLimitsExceeded},
		{"ns=2", ua.BadDecodingError},
		{"ns=;i=1", ua.BadDecodingError},
		{"ns=abc;i=1", ua.BadDecodingError},
		{"g=not-a-guid", ua.BadDecodingError},
		{"b=!!", ua.BadDecodingError},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			_, err := ua.ParseNodeID(c.in)
			assert.Equal(t, err, c.err)
			assert.Assert(t, ua.NodeIDFromString(c.in).IsNil())
		})
	}
}

func TestNodeIDNamespaceURI(t *testing.T) {
	nm := ua.NewNamespaceMapping([]string{"http://opcfoundation.org/UA/", "urn:a", "urn:with;semicolon"}, nil)

	id, err := ua.ParseNodeIDEx("nsu=urn:a;s=Demo", nm)
	assert.NilError(t, err)
	assert.Assert(t, id.Equal(ua.NewNodeIDString(1, "Demo")))
	assert.Equal(t, id.PrintEx(nm), "nsu=urn:a;s=Demo")
	assert.Equal(t, id.String(), "ns=1;s=Demo")

	// separators in the uri are escaped
	id = ua.NewNodeIDNumeric(2, 7)
	s := id.PrintEx(nm)
	assert.Equal(t, s, "nsu=urn:with%3Bsemicolon;i=7")
	back, err := ua.ParseNodeIDEx(s, nm)
	assert.NilError(t, err)
	assert.Assert(t, back.Equal(id))

	// an unknown uri leaves the entire text as string identifier
	id, err = ua.ParseNodeIDEx("nsu=urn:unknown;i=1", nm)
	assert.NilError(t, err)
	assert.Assert(t, id.Equal(ua.NewNodeIDString(0, "nsu=urn:unknown;i=1")))

	_, err = ua.ParseNodeIDEx("nsu=urn:a", nm)
	assert.Equal(t, err, ua.BadDecodingError)
}

func TestNodeIDOrder(t *testing.T) {
	// ascending
	ids := []ua.NodeID{
		ua.NilNodeID,
		ua.NewNodeIDNumeric(0, 85),
		ua.NewNodeIDString(0, "z"),
		ua.NewNodeIDString(0, "aa"),
		ua.NewNodeIDGUID(0, uuid.MustParse("00000000-0000-0000-0000-000000000001")),
		ua.NewNodeIDOpaque(0, ua.ByteString("a")),
		ua.NewNodeIDNumeric(1, 0),
	}
	for i := range ids {
		assert.Equal(t, ids[i].Order(ids[i]), ua.OrderEq)
		for j := i + 1; j < len(ids); j++ {
			assert.Equal(t, ids[i].Order(ids[j]), ua.OrderLess, "%s < %s", ids[i], ids[j])
			assert.Equal(t, ids[j].Order(ids[i]), ua.OrderMore, "%s > %s", ids[j], ids[i])
		}
	}
}

func TestNodeIDHash(t *testing.T) {
	a := ua.NewNodeIDString(2, "Demo")
	b, _ := ua.ParseNodeID("ns=2;s=Demo")
	assert.Equal(t, a.Hash(), b.Hash())
	assert.Assert(t, a.Hash() != ua.NewNodeIDString(3, "Demo").Hash())

	// a local ExpandedNodeID hashes like its NodeID
	assert.Equal(t, ua.NewExpandedNodeID(a).Hash(), a.Hash())
	assert.Assert(t, ua.NewExpandedNodeIDFull(1, "", a).Hash() != a.Hash())
	local, err := ua.ParseExpandedNodeID("ns=2;s=Demo")
	assert.NilError(t, err)
	assert.Equal(t, local.Hash(), a.Hash())
	remote, err := ua.ParseExpandedNodeID("nsu=urn:x;s=Demo")
	assert.NilError(t, err)
	assert.Assert(t, remote.Hash() != ua.NewNodeIDString(0, "Demo").Hash())
}

func TestNodeIDIsNil(t *testing.T) {
	assert.Assert(t, ua.NilNodeID.IsNil())
	assert.Assert(t, ua.NewNodeIDNumeric(0, 0).IsNil())
	assert.Assert(t, ua.NewNodeIDString(0, "").IsNil())
	assert.Assert(t, !ua.NewNodeIDNumeric(1, 0).IsNil())
	assert.Assert(t, !ua.NewNodeIDNumeric(0, 1).IsNil())
}

func TestParseExpandedNodeID(t *testing.T) {
	cases := []struct {
		in   string
		want ua.ExpandedNodeID
	}{
		{"i=85", ua.NewExpandedNodeID(ua.NewNodeIDNumeric(0, 85))},
		{"ns=2;s=Demo", ua.NewExpandedNodeID(ua.NewNodeIDString(2, "Demo"))},
		{"nsu=http://www.unifiedautomation.com/DemoServer/;s=Demo.Static.Scalar.Float",
			ua.NewExpandedNodeIDString(0, "http://www.unifiedautomation.com/DemoServer/", "Demo.Static.Scalar.Float")},
		{"svr=1;nsu=urn:x;b=YWJjZA==", ua.NewExpandedNodeIDOpaque(1, "urn:x", ua.ByteString("abcd"))},
		{"svr=3;ns=2;i=7", ua.NewExpandedNodeIDFull(3, "", ua.NewNodeIDNumeric(2, 7))},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			id, err := ua.ParseExpandedNodeID(c.in)
			assert.NilError(t, err)
			assert.Assert(t, id.Equal(c.want), "got %s", id)
			assert.Equal(t, id.String(), c.in)
		})
	}
}

func TestExpandedNodeIDServerURI(t *testing.T) {
	servers := []string{"urn:local", "urn:remote"}
	nm := ua.NewNamespaceMapping([]string{"http://opcfoundation.org/UA/", "urn:a"}, nil)

	id, err := ua.ParseExpandedNodeIDEx("svu=urn:remote;nsu=urn:a;i=5", nm, servers)
	assert.NilError(t, err)
	assert.Equal(t, id.ServerIndex(), uint32(1))
	assert.Equal(t, id.NamespaceURI(), "")
	assert.Assert(t, id.NodeID().Equal(ua.NewNodeIDNumeric(1, 5)))
	assert.Equal(t, id.PrintEx(nm, servers), "svu=urn:remote;nsu=urn:a;i=5")
	assert.Equal(t, id.String(), "svr=1;ns=1;i=5")

	_, err = ua.ParseExpandedNodeIDEx("svu=urn:missing;i=5", nm, servers)
	assert.Equal(t, err, ua.BadNotFound)

	// an unknown namespace uri is kept
	id, err = ua.ParseExpandedNodeIDEx("nsu=urn:b;i=5", nm, servers)
	assert.NilError(t, err)
	assert.Equal(t, id.NamespaceURI(), "urn:b")
	assert.Assert(t, !id.IsLocal())
	assert.Assert(t, id.ToNodeID([]string{"http://opcfoundation.org/UA/", "urn:a", "urn:b"}).Equal(ua.NewNodeIDNumeric(2, 5)))
	assert.Assert(t, id.ToNodeID(nil).IsNil())
}

func TestParseQualifiedName(t *testing.T) {
	cases := []struct {
		in   string
		want ua.QualifiedName
	}{
		{"Demo", ua.NewQualifiedName(0, "Demo")},
		{"2:Demo", ua.NewQualifiedName(2, "Demo")},
		{"2:", ua.NewQualifiedName(2, "")},
		{"x:Demo", ua.NewQualifiedName(0, "x:Demo")},
		{"70000:Demo", ua.NewQualifiedName(0, "70000:Demo")},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			qn := ua.ParseQualifiedName(c.in)
			assert.Equal(t, qn, c.want)
			assert.Equal(t, qn.String(), c.in)
		})
	}

	nm := ua.NewNamespaceMapping([]string{"http://opcfoundation.org/UA/", "urn:a"}, nil)
	qn, err := ua.ParseQualifiedNameEx("nsu=urn:a;Demo", nm)
	assert.NilError(t, err)
	assert.Equal(t, qn, ua.NewQualifiedName(1, "Demo"))
	assert.Equal(t, qn.PrintEx(nm), "nsu=urn:a;Demo")

	// an unknown namespace uri keeps the whole text as the name
	qn, err = ua.ParseQualifiedNameEx("nsu=urn:b;Demo", nm)
	assert.NilError(t, err)
	assert.Equal(t, qn, ua.NewQualifiedName(0, "nsu=urn:b;Demo"))
	_, err = ua.ParseQualifiedNameEx("nsu=urn:b", nm)
	assert.Equal(t, err, ua.BadDecodingError)
}

func TestQualifiedNameRoundTrip(t *testing.T) {
	cases := []struct {
		in   ua.QualifiedName
		text string
	}{
		{ua.NewQualifiedName(0, "Demo"), "Demo"},
		{ua.NewQualifiedName(0, "1:x"), "0:1:x"},
		{ua.NewQualifiedName(0, "0:x"), "0:0:x"},
		{ua.NewQualifiedName(0, "nsu=urn:a;x"), "0:nsu=urn:a;x"},
		{ua.NewQualifiedName(0, "70000:x"), "70000:x"},
		{ua.NewQualifiedName(3, "1:x"), "3:1:x"},
	}
	for _, c := range cases {
		t.Run(c.text, func(t *testing.T) {
			assert.Equal(t, c.in.String(), c.text)
			assert.Equal(t, ua.ParseQualifiedName(c.text), c.in)
		})
	}
}

func TestQualifiedNameHash(t *testing.T) {
	a := ua.NewQualifiedName(2, "Demo")
	assert.Equal(t, a.Hash(), ua.ParseQualifiedName("2:Demo").Hash())
	assert.Assert(t, a.Hash() != ua.NewQualifiedName(3, "Demo").Hash())
	assert.Assert(t, a.Hash() != ua.NewQualifiedName(2, "demo").Hash())
}
