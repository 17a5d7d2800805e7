// Copyright 2020 Converter Systems LLC. All rights reserved.

package ua

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spaolacci/murmur3"
)

// ExpandedNodeID identifies a remote Node.
type ExpandedNodeID struct {
	serverIndex  uint32
	namespaceURI string
	nodeID       NodeID
}

// NewExpandedNodeID casts an ExpandedNodeID from a NodeID.
func NewExpandedNodeID(nodeID NodeID) ExpandedNodeID {
	return ExpandedNodeID{0, "", nodeID}
}

// NewExpandedNodeIDNumeric constructs a new ExpandedNodeID of numeric type.
func NewExpandedNodeIDNumeric(serverIndex uint32, namespaceURI string, identifier uint32) ExpandedNodeID {
	return ExpandedNodeID{serverIndex, namespaceURI, NewNodeIDNumeric(0, identifier)}
}

// NewExpandedNodeIDString constructs a new ExpandedNodeID of string type.
func NewExpandedNodeIDString(serverIndex uint32, namespaceURI string, identifier string) ExpandedNodeID {
	return ExpandedNodeID{serverIndex, namespaceURI, NewNodeIDString(0, identifier)}
}

// NewExpandedNodeIDGUID constructs a new ExpandedNodeID of GUID type.
func NewExpandedNodeIDGUID(serverIndex uint32, namespaceURI string, identifier uuid.UUID) ExpandedNodeID {
	return ExpandedNodeID{serverIndex, namespaceURI, NewNodeIDGUID(0, identifier)}
}

// NewExpandedNodeIDOpaque constructs a new ExpandedNodeID of opaque type.
func NewExpandedNodeIDOpaque(serverIndex uint32, namespaceURI string, identifier ByteString) ExpandedNodeID {
	return ExpandedNodeID{serverIndex, namespaceURI, NewNodeIDOpaque(0, identifier)}
}

// NewExpandedNodeIDFull constructs an ExpandedNodeID from all of its parts.
func NewExpandedNodeIDFull(serverIndex uint32, namespaceURI string, nodeID NodeID) ExpandedNodeID {
	return ExpandedNodeID{serverIndex, namespaceURI, nodeID}
}

// ServerIndex returns the index in the servers table.
func (n ExpandedNodeID) ServerIndex() uint32 {
	return n.serverIndex
}

// NamespaceURI returns the namespace uri.
func (n ExpandedNodeID) NamespaceURI() string {
	return n.namespaceURI
}

// NamespaceIndex returns the namespace index.
func (n ExpandedNodeID) NamespaceIndex() uint16 {
	return n.nodeID.NamespaceIndex()
}

// NodeID returns the embedded NodeID.
func (n ExpandedNodeID) NodeID() NodeID {
	return n.nodeID
}

// IDType returns the id type.
func (n ExpandedNodeID) IDType() IDType {
	return n.nodeID.IDType()
}

// Identifier returns the identifier.
func (n ExpandedNodeID) Identifier() interface{} {
	return n.nodeID.Identifier()
}

// NilExpandedNodeID is the nil value.
var NilExpandedNodeID = ExpandedNodeID{0, "", NilNodeID}

// IsNil returns true if the nodeId is nil
func (n ExpandedNodeID) IsNil() bool {
	if n.namespaceURI != "" || n.serverIndex != 0 {
		return false
	}
	return n.nodeID.IsNil()
}

// IsLocal returns true if the ExpandedNodeID points to a local node, i.e.
// neither a namespace uri nor a server index is set.
func (n ExpandedNodeID) IsLocal() bool {
	return n.namespaceURI == "" && n.serverIndex == 0
}

// Equal returns true if both ExpandedNodeIDs are identical.
func (n ExpandedNodeID) Equal(other ExpandedNodeID) bool {
	return n.Order(other) == OrderEq
}

// Order returns the total order by server index, namespace uri and NodeID.
func (n ExpandedNodeID) Order(other ExpandedNodeID) Order {
	if n.serverIndex != other.serverIndex {
		return orderUint(uint64(n.serverIndex), uint64(other.serverIndex))
	}
	if o := orderShortlex(n.namespaceURI, other.namespaceURI); o != OrderEq {
		return o
	}
	return n.nodeID.Order(other.nodeID)
}

// Hash returns a non-cryptographic hash. For a local ExpandedNodeID the
// hash is identical to the hash of the embedded NodeID.
func (n ExpandedNodeID) Hash() uint32 {
	if n.IsLocal() {
		return n.nodeID.Hash()
	}
	h := murmur3.New32()
	n.nodeID.writeHash(h)
	h.Write([]byte(n.namespaceURI))
	var bs [4]byte
	binary.LittleEndian.PutUint32(bs[:], n.serverIndex)
	h.Write(bs[:])
	return h.Sum32()
}

func (n ExpandedNodeID) copyWith(a Allocator) (ExpandedNodeID, error) {
	id, err := n.nodeID.copyWith(a)
	if err != nil {
		return NilExpandedNodeID, err
	}
	uri, err := allocString(a, n.namespaceURI)
	if err != nil {
		id.clearWith(a)
		return NilExpandedNodeID, err
	}
	return ExpandedNodeID{n.serverIndex, uri, id}, nil
}

func (n ExpandedNodeID) clearWith(a Allocator) {
	n.nodeID.clearWith(a)
	freeString(a, n.namespaceURI)
}

// ParseExpandedNodeID returns a NodeID from a string representation.
//   - ParseExpandedNodeID("i=85") // integer, assumes nsu=http://opcfoundation.org/UA/
//   - ParseExpandedNodeID("nsu=http://www.unifiedautomation.com/DemoServer/;s=Demo.Static.Scalar.Float") // string
//   - ParseExpandedNodeID("nsu=http://www.unifiedautomation.com/DemoServer/;g=5ce9dbce-5d79-434c-9ac3-1cfba9a6e92c") // guid
//   - ParseExpandedNodeID("svr=1;nsu=http://www.unifiedautomation.com/DemoServer/;b=YWJjZA==") // opaque byte string
func ParseExpandedNodeID(s string) (ExpandedNodeID, error) {
	return ParseExpandedNodeIDEx(s, nil, nil)
}

// ParseExpandedNodeIDEx parses the string representation. A "svu=" server uri
// is looked up in serverURIs. A "nsu=" namespace uri known to the mapping is
// replaced by the local namespace index; an unknown namespace uri is kept.
func ParseExpandedNodeIDEx(s string, nm *NamespaceMapping, serverURIs []string) (ExpandedNodeID, error) {
	var svr uint32
	switch {
	case strings.HasPrefix(s, "svr="):
		pos := strings.IndexByte(s, ';')
		if pos == -1 {
			return NilExpandedNodeID, BadDecodingError
		}
		v, err := parseUint(s[4:pos], 32)
		if err != nil {
			return NilExpandedNodeID, err
		}
		svr = uint32(v)
		s = s[pos+1:]
	case strings.HasPrefix(s, "svu="):
		pos := strings.IndexByte(s, ';')
		if pos == -1 {
			return NilExpandedNodeID, BadDecodingError
		}
		uri, err := unescapeURI(s[4:pos])
		if err != nil {
			return NilExpandedNodeID, err
		}
		found := false
		for i, u := range serverURIs {
			if u == uri {
				svr = uint32(i)
				found = true
				break
			}
		}
		if !found {
			return NilExpandedNodeID, BadNotFound
		}
		s = s[pos+1:]
	}

	if strings.HasPrefix(s, "nsu=") {
		pos := strings.IndexByte(s, ';')
		if pos == -1 {
			return NilExpandedNodeID, BadDecodingError
		}
		uri, err := unescapeURI(s[4:pos])
		if err != nil {
			return NilExpandedNodeID, err
		}
		// An unknown uri stays on the ExpandedNodeID so the reference can
		// still be resolved by the receiver.
		var ns uint16
		if idx, err := nm.URI2Index(uri); err == nil {
			ns = idx
			uri = ""
		}
		id, err := parseIdentifier(s[pos+1:], ns)
		if err != nil {
			return NilExpandedNodeID, err
		}
		return ExpandedNodeID{svr, uri, id}, nil
	}

	id, err := ParseNodeIDEx(s, nm)
	if err != nil {
		return NilExpandedNodeID, err
	}
	return ExpandedNodeID{svr, "", id}, nil
}

// ExpandedNodeIDFromString parses the string representation and returns
// NilExpandedNodeID if parsing fails.
func ExpandedNodeIDFromString(s string) ExpandedNodeID {
	n, err := ParseExpandedNodeID(s)
	if err != nil {
		return NilExpandedNodeID
	}
	return n
}

// String returns a string representation of the ExpandedNodeID, e.g. "nsu=http://www.unifiedautomation.com/DemoServer/;s=Demo"
func (n ExpandedNodeID) String() string {
	return n.PrintEx(nil, nil)
}

// PrintEx returns the string representation. The server index is printed as
// "svu=" uri if serverURIs knows it, the namespace index as "nsu=" uri if the
// mapping knows it.
func (n ExpandedNodeID) PrintEx(nm *NamespaceMapping, serverURIs []string) string {
	b := new(strings.Builder)
	if n.serverIndex > 0 {
		if int(n.serverIndex) < len(serverURIs) {
			b.WriteString("svu=")
			b.WriteString(escapeURI(serverURIs[n.serverIndex]))
			b.WriteByte(';')
		} else {
			b.WriteString("svr=")
			b.WriteString(strconv.FormatUint(uint64(n.serverIndex), 10))
			b.WriteByte(';')
		}
	}
	if len(n.namespaceURI) > 0 {
		b.WriteString("nsu=")
		b.WriteString(escapeURI(n.namespaceURI))
		b.WriteByte(';')
		n.nodeID.WithNamespaceIndex(0).writeIdentifier(b)
		return b.String()
	}
	b.WriteString(n.nodeID.PrintEx(nm))
	return b.String()
}

// ToNodeID converts ExpandedNodeID to NodeID by looking up the NamespaceURI and replacing it with the index.
func (n ExpandedNodeID) ToNodeID(namespaceURIs []string) NodeID {
	if n.namespaceURI == "" {
		return n.nodeID
	}
	for i, uri := range namespaceURIs {
		if uri == n.namespaceURI {
			return n.nodeID.WithNamespaceIndex(uint16(i))
		}
	}
	return NilNodeID
}
