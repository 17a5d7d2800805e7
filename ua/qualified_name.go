// Copyright 2020 Converter Systems LLC. All rights reserved.

package ua

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/spaolacci/murmur3"
)

// QualifiedName pairs a name and a namespace index.
type QualifiedName struct {
	NamespaceIndex uint16
	Name           string
}

// NewQualifiedName constructs a QualifiedName from a namespace index and a name.
func NewQualifiedName(ns uint16, text string) QualifiedName {
	return QualifiedName{ns, text}
}

// NilQualifiedName is the nil value.
var NilQualifiedName = QualifiedName{}

// IsNil returns true if namespace index and name are empty.
func (a QualifiedName) IsNil() bool {
	return a.NamespaceIndex == 0 && a.Name == ""
}

// Equal returns true if namespace index and name are equal.
func (a QualifiedName) Equal(b QualifiedName) bool {
	return a.NamespaceIndex == b.NamespaceIndex && a.Name == b.Name
}

// Order orders by namespace index, then shortlex by name.
func (a QualifiedName) Order(b QualifiedName) Order {
	if a.NamespaceIndex != b.NamespaceIndex {
		return orderUint(uint64(a.NamespaceIndex), uint64(b.NamespaceIndex))
	}
	return orderShortlex(a.Name, b.Name)
}

// Hash returns a non-cryptographic hash of the QualifiedName.
func (a QualifiedName) Hash() uint32 {
	h := murmur3.New32()
	var bs [2]byte
	binary.LittleEndian.PutUint16(bs[:], a.NamespaceIndex)
	h.Write(bs[:])
	h.Write([]byte(a.Name))
	return h.Sum32()
}

func (a QualifiedName) copyWith(al Allocator) (QualifiedName, error) {
	name, err := allocString(al, a.Name)
	if err != nil {
		return NilQualifiedName, err
	}
	return QualifiedName{a.NamespaceIndex, name}, nil
}

func (a QualifiedName) clearWith(al Allocator) {
	freeString(al, a.Name)
}

// ParseQualifiedName returns a QualifiedName from a string, e.g. ParseQualifiedName("2:Demo")
func ParseQualifiedName(s string) QualifiedName {
	a, _ := ParseQualifiedNameEx(s, nil)
	return a
}

// ParseQualifiedNameEx parses "Name", "2:Name" or "nsu=uri;Name". A namespace
// uri is resolved with the mapping. If the mapping does not know the uri, the
// result is namespace 0 with the entire input as the name. A prefix that is
// not a namespace index is kept as part of the name.
func ParseQualifiedNameEx(s string, nm *NamespaceMapping) (QualifiedName, error) {
	if strings.HasPrefix(s, "nsu=") {
		pos := strings.IndexByte(s, ';')
		if pos == -1 {
			return NilQualifiedName, BadDecodingError
		}
		uri, err := unescapeURI(s[4:pos])
		if err != nil {
			return NilQualifiedName, err
		}
		ns, err := nm.URI2Index(uri)
		if err != nil {
			return QualifiedName{0, s}, nil
		}
		return QualifiedName{ns, s[pos+1:]}, nil
	}
	if ns, name, ok := splitNamespacePrefix(s); ok {
		return QualifiedName{ns, name}, nil
	}
	return QualifiedName{0, s}, nil
}

// splitNamespacePrefix splits "2:Name" into index and name.
func splitNamespacePrefix(s string) (uint16, string, bool) {
	pos := strings.IndexByte(s, ':')
	if pos == -1 {
		return 0, s, false
	}
	ns, err := strconv.ParseUint(s[:pos], 10, 16)
	if err != nil {
		return 0, s, false
	}
	return uint16(ns), s[pos+1:], true
}

// String returns a string representation, e.g. "2:Demo"
func (a QualifiedName) String() string {
	return a.PrintEx(nil)
}

// PrintEx returns a string representation. The namespace index is replaced by
// "nsu=" and the uri if the mapping knows it.
func (a QualifiedName) PrintEx(nm *NamespaceMapping) string {
	if a.NamespaceIndex == 0 {
		// names that would parse with a prefix keep an explicit "0:"
		if _, _, ok := splitNamespacePrefix(a.Name); ok || strings.HasPrefix(a.Name, "nsu=") {
			return "0:" + a.Name
		}
		return a.Name
	}
	if uri, err := nm.Index2URI(a.NamespaceIndex); err == nil {
		return "nsu=" + escapeURI(uri) + ";" + a.Name
	}
	return strconv.FormatUint(uint64(a.NamespaceIndex), 10) + ":" + a.Name
}
