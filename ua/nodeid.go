// Copyright 2020 Converter Systems LLC. All rights reserved.

package ua

import (
	"encoding/base64"
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spaolacci/murmur3"
)

// IDType is the kind of identifier of a NodeID.
type IDType byte

// IDTypes
const (
	IDTypeNumeric IDType = iota
	IDTypeString
	IDTypeGUID
	IDTypeOpaque
)

// NodeID identifies a Node.
type NodeID struct {
	namespaceIndex uint16
	idType         IDType
	nid            uint32
	sid            string
	gid            uuid.UUID
	bid            ByteString
}

// NewNodeIDNumeric constructs a new NodeID of numeric type.
func NewNodeIDNumeric(namespaceIndex uint16, identifier uint32) NodeID {
	return NodeID{namespaceIndex, IDTypeNumeric, identifier, "", uuid.Nil, ""}
}

// NewNodeIDString constructs a new NodeID of string type.
func NewNodeIDString(namespaceIndex uint16, identifier string) NodeID {
	return NodeID{namespaceIndex, IDTypeString, 0, identifier, uuid.Nil, ""}
}

// NewNodeIDGUID constructs a new NodeID of GUID type.
func NewNodeIDGUID(namespaceIndex uint16, identifier uuid.UUID) NodeID {
	return NodeID{namespaceIndex, IDTypeGUID, 0, "", identifier, ""}
}

// NewNodeIDOpaque constructs a new NodeID of opaque type.
func NewNodeIDOpaque(namespaceIndex uint16, identifier ByteString) NodeID {
	return NodeID{namespaceIndex, IDTypeOpaque, 0, "", uuid.Nil, identifier}
}

// NamespaceIndex returns the namespace index.
func (n NodeID) NamespaceIndex() uint16 {
	return n.namespaceIndex
}

// WithNamespaceIndex returns a copy of the NodeID in another namespace.
func (n NodeID) WithNamespaceIndex(ns uint16) NodeID {
	n.namespaceIndex = ns
	return n
}

// IDType returns the identifier type.
func (n NodeID) IDType() IDType {
	return n.idType
}

// Identifier returns the identifier.
func (n NodeID) Identifier() interface{} {
	switch n.idType {
	case IDTypeNumeric:
		return n.nid
	case IDTypeString:
		return n.sid
	case IDTypeGUID:
		return n.gid
	case IDTypeOpaque:
		return n.bid
	}
	return nil
}

// NilNodeID is the nil value.
var NilNodeID = NodeID{0, 0, 0, "", uuid.Nil, ""}

// IsNil returns true if the nodeId is nil
func (n NodeID) IsNil() bool {
	if n.namespaceIndex > 0 {
		return false
	}
	switch n.idType {
	case IDTypeNumeric:
		return n.nid == 0
	case IDTypeString:
		return len(n.sid) == 0
	case IDTypeGUID:
		return n.gid == uuid.Nil
	case IDTypeOpaque:
		return len(n.bid) == 0
	}
	return false
}

// IsValid returns true if the nodeId is valid
func (n NodeID) IsValid() bool {
	switch n.idType {
	case IDTypeNumeric:
		return n.nid != 0
	case IDTypeString:
		return len(n.sid) <= 4096 && len(n.sid) > 0
	case IDTypeGUID:
		return n.gid != uuid.Nil
	case IDTypeOpaque:
		return len(n.bid) <= 4096 && len(n.bid) > 0
	}
	return false
}

// Equal returns true if namespace index, identifier type and identifier are equal.
func (n NodeID) Equal(other NodeID) bool {
	return n.Order(other) == OrderEq
}

// Order returns the total order of two NodeIDs: namespace index first,
// then identifier type, then identifier. String and opaque identifiers
// are ordered shortlex.
func (n NodeID) Order(other NodeID) Order {
	if n.namespaceIndex != other.namespaceIndex {
		return orderUint(uint64(n.namespaceIndex), uint64(other.namespaceIndex))
	}
	if n.idType != other.idType {
		return orderUint(uint64(n.idType), uint64(other.idType))
	}
	switch n.idType {
	case IDTypeNumeric:
		return orderUint(uint64(n.nid), uint64(other.nid))
	case IDTypeString:
		return orderShortlex(n.sid, other.sid)
	case IDTypeGUID:
		return orderGUID(n.gid, other.gid)
	case IDTypeOpaque:
		return orderShortlex(string(n.bid), string(other.bid))
	}
	return OrderEq
}

// Hash returns a non-cryptographic hash of the NodeID.
func (n NodeID) Hash() uint32 {
	h := murmur3.New32()
	n.writeHash(h)
	return h.Sum32()
}

type hashWriter interface {
	Write(p []byte) (int, error)
}

func (n NodeID) writeHash(h hashWriter) {
	var bs [8]byte
	binary.LittleEndian.PutUint16(bs[:2], n.namespaceIndex)
	bs[2] = byte(n.idType)
	h.Write(bs[:3])
	switch n.idType {
	case IDTypeNumeric:
		binary.LittleEndian.PutUint32(bs[:4], n.nid)
		h.Write(bs[:4])
	case IDTypeString:
		h.Write([]byte(n.sid))
	case IDTypeGUID:
		h.Write(n.gid[:])
	case IDTypeOpaque:
		h.Write([]byte(n.bid))
	}
}

// copyWith returns a deep copy with the variable-length identifier placed in
// storage obtained from the allocator.
func (n NodeID) copyWith(a Allocator) (NodeID, error) {
	var err error
	switch n.idType {
	case IDTypeString:
		n.sid, err = allocString(a, n.sid)
	case IDTypeOpaque:
		var s string
		s, err = allocString(a, string(n.bid))
		n.bid = ByteString(s)
	}
	if err != nil {
		return NilNodeID, err
	}
	return n, nil
}

func (n NodeID) clearWith(a Allocator) {
	switch n.idType {
	case IDTypeString:
		freeString(a, n.sid)
	case IDTypeOpaque:
		freeString(a, string(n.bid))
	}
}

// ParseNodeID returns a NodeID from a string representation.
//   - ParseNodeID("i=85") // integer, assumes ns=0
//   - ParseNodeID("ns=2;s=Demo.Static.Scalar.Float") // string
//   - ParseNodeID("ns=2;g=5ce9dbce-5d79-434c-9ac3-1cfba9a6e92c") // guid
//   - ParseNodeID("ns=2;b=YWJjZA==") // opaque byte string
func ParseNodeID(s string) (NodeID, error) {
	return ParseNodeIDEx(s, nil)
}

// ParseNodeIDEx parses the string representation and uses the mapping to
// translate a "nsu=" namespace uri into the local namespace index. If the uri
// is unknown, a string NodeID in namespace 0 is returned that carries the
// entire original text.
func ParseNodeIDEx(s string, nm *NamespaceMapping) (NodeID, error) {
	var ns uint16
	rest := s
	switch {
	case strings.HasPrefix(s, "nsu="):
		pos := strings.IndexByte(s, ';')
		if pos == -1 {
			return NilNodeID, BadDecodingError
		}
		uri, err := unescapeURI(s[4:pos])
		if err != nil {
			return NilNodeID, err
		}
		idx, err := nm.URI2Index(uri)
		if err != nil {
			if _, err := parseIdentifier(s[pos+1:], 0); err != nil {
				return NilNodeID, err
			}
			return NewNodeIDString(0, s), nil
		}
		ns = idx
		rest = s[pos+1:]
	case strings.HasPrefix(s, "ns="):
		pos := strings.IndexByte(s, ';')
		if pos == -1 {
			return NilNodeID, BadDecodingError
		}
		v, err := parseUint(s[3:pos], 16)
		if err != nil {
			return NilNodeID, err
		}
		ns = uint16(v)
		rest = s[pos+1:]
	}
	return parseIdentifier(rest, ns)
}

func parseIdentifier(s string, ns uint16) (NodeID, error) {
	if len(s) < 2 || s[1] != '=' {
		return NilNodeID, BadDecodingError
	}
	switch s[0] {
	case 'i':
		id, err := parseUint(s[2:], 32)
		if err != nil {
			return NilNodeID, err
		}
		return NewNodeIDNumeric(ns, uint32(id)), nil
	case 's':
		return NewNodeIDString(ns, s[2:]), nil
	case 'g':
		id, err := uuid.Parse(s[2:])
		if err != nil {
			return NilNodeID, BadDecodingError
		}
		return NewNodeIDGUID(ns, id), nil
	case 'b':
		id, err := base64.StdEncoding.DecodeString(s[2:])
		if err != nil {
			return NilNodeID, BadDecodingError
		}
		return NewNodeIDOpaque(ns, ByteString(id)), nil
	}
	return NilNodeID, BadDecodingError
}

// parseUint accepts decimal digits only. Overflow is reported as exceeding
// the decoding limits, anything else as a syntax error.
func parseUint(s string, bitSize int) (uint64, error) {
	if len(s) == 0 {
		return 0, BadDecodingError
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, BadDecodingError
		}
	}
	v, err := strconv.ParseUint(s, 10, bitSize)
	if err != nil {
		return 0, BadEncodingLimitsExceeded
	}
	return v, nil
}

// NodeIDFromString parses the string representation and returns NilNodeID
// if parsing fails.
func NodeIDFromString(s string) NodeID {
	n, err := ParseNodeID(s)
	if err != nil {
		return NilNodeID
	}
	return n
}

// String returns a string representation of the NodeID, e.g. "ns=2;s=Demo"
func (n NodeID) String() string {
	return n.PrintEx(nil)
}

// PrintEx returns the string representation. If the mapping knows the
// namespace index, the namespace uri is printed instead, e.g.
// "nsu=http://widgets.com/schemas/hello;s=Hello World".
func (n NodeID) PrintEx(nm *NamespaceMapping) string {
	b := new(strings.Builder)
	if n.namespaceIndex > 0 {
		if uri, err := nm.Index2URI(n.namespaceIndex); err == nil {
			b.WriteString("nsu=")
			b.WriteString(escapeURI(uri))
			b.WriteByte(';')
		} else {
			b.WriteString("ns=")
			b.WriteString(strconv.FormatUint(uint64(n.namespaceIndex), 10))
			b.WriteByte(';')
		}
	}
	n.writeIdentifier(b)
	return b.String()
}

func (n NodeID) writeIdentifier(b *strings.Builder) {
	switch n.idType {
	case IDTypeNumeric:
		b.WriteString("i=")
		b.WriteString(strconv.FormatUint(uint64(n.nid), 10))
	case IDTypeString:
		b.WriteString("s=")
		b.WriteString(n.sid)
	case IDTypeGUID:
		b.WriteString("g=")
		b.WriteString(n.gid.String())
	case IDTypeOpaque:
		b.WriteString("b=")
		b.WriteString(base64.StdEncoding.EncodeToString([]byte(n.bid)))
	}
}

// ToExpandedNodeID converts the NodeID to an ExpandedNodeID.
// Note: When creating a reference, and the target NodeID is a local node,
// use: NewExpandedNodeID(nodeId)
func (n NodeID) ToExpandedNodeID(namespaceURIs []string) ExpandedNodeID {
	ns := n.namespaceIndex
	if namespaceURIs != nil && ns > 0 && int(ns) < len(namespaceURIs) {
		return ExpandedNodeID{0, namespaceURIs[ns], n.WithNamespaceIndex(0)}
	}
	return ExpandedNodeID{nodeID: n}
}

// Namespace uris in the text encoding escape the separators of the grammar.
func escapeURI(uri string) string {
	if !strings.ContainsAny(uri, ";% \t\r\n") {
		return uri
	}
	const hex = "0123456789ABCDEF"
	b := new(strings.Builder)
	for i := 0; i < len(uri); i++ {
		c := uri[i]
		switch c {
		case ';', '%', ' ', '\t', '\r', '\n':
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0x0F])
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func unescapeURI(s string) (string, error) {
	if strings.IndexByte(s, '%') == -1 {
		return s, nil
	}
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			b = append(b, s[i])
			continue
		}
		if i+2 >= len(s) {
			return "", BadDecodingError
		}
		v, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
		if err != nil {
			return "", BadDecodingError
		}
		b = append(b, byte(v))
		i += 2
	}
	return string(b), nil
}
