// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua_test

import (
	"testing"

	"github.com/awcullen/uatypes/ua"
	"gotest.tools/assert"
)

func TestNamespaceMapping(t *testing.T) {
	local := []string{"http://opcfoundation.org/UA/", "urn:a", "urn:b", "urn:local"}
	remote := []string{"http://opcfoundation.org/UA/", "urn:b", "urn:remote", "urn:a"}
	nm := ua.NewNamespaceMapping(local, remote)

	cases := []struct {
		name       string
		local      uint16
		wantRemote uint16
	}{
		{"standard", 0, 0},
		{"a", 1, 3},
		{"b", 2, 1},
		{"missing remote", 3, 0xFFFF - 3},
		{"out of range", 9, 0xFFFF - 9},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, nm.Local2Remote(c.local), c.wantRemote)
		})
	}
	assert.Equal(t, nm.Remote2Local(3), uint16(1))
	assert.Equal(t, nm.Remote2Local(2), uint16(0xFFFF-2))

	idx, err := nm.URI2Index("urn:b")
	assert.NilError(t, err)
	assert.Equal(t, idx, uint16(2))
	_, err = nm.URI2Index("urn:remote")
	assert.Equal(t, err, ua.BadNotFound)

	uri, err := nm.Index2URI(3)
	assert.NilError(t, err)
	assert.Equal(t, uri, "urn:local")

	nm.Clear()
	assert.Equal(t, nm.Local2Remote(1), uint16(0xFFFF-1))
}

func TestNilNamespaceMapping(t *testing.T) {
	var nm *ua.NamespaceMapping
	assert.Equal(t, nm.Local2Remote(1), uint16(0xFFFE))
	assert.Equal(t, nm.Remote2Local(0), uint16(0xFFFF))
	_, err := nm.URI2Index("urn:a")
	assert.Equal(t, err, ua.BadNotFound)
}
