// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

import "strings"

// NamespaceMapping translates namespace indices between the local namespace
// array and the namespace array of a remote peer. The codecs apply it to
// NodeIds, ExpandedNodeIds and QualifiedNames when it is set in the options:
// decoding maps remote to local, encoding maps local to remote.
//
// Lookups of unknown indices return (0xFFFF - index). Check the result against
// the valid range before trusting it.
type NamespaceMapping struct {
	// NamespaceURIs holds the namespaces with their local index.
	NamespaceURIs []string
	// LocalToRemote maps from local to remote indices.
	LocalToRemote []uint16
	// RemoteToLocal maps from remote to local indices.
	RemoteToLocal []uint16
}

// NewNamespaceMapping builds the mapping tables for the given local and
// remote namespace arrays. Namespaces that are missing on the other side
// get the sentinel (0xFFFF - index) in the table.
func NewNamespaceMapping(localURIs, remoteURIs []string) *NamespaceMapping {
	nm := &NamespaceMapping{
		NamespaceURIs: append([]string(nil), localURIs...),
		LocalToRemote: make([]uint16, len(localURIs)),
		RemoteToLocal: make([]uint16, len(remoteURIs)),
	}
	remoteIndex := make(map[string]int, len(remoteURIs))
	for i, uri := range remoteURIs {
		if _, ok := remoteIndex[uri]; !ok {
			remoteIndex[uri] = i
		}
		nm.RemoteToLocal[i] = 0xFFFF - uint16(i)
	}
	for i, uri := range localURIs {
		j, ok := remoteIndex[uri]
		if !ok {
			nm.LocalToRemote[i] = 0xFFFF - uint16(i)
			continue
		}
		nm.LocalToRemote[i] = uint16(j)
		if nm.RemoteToLocal[j] == 0xFFFF-uint16(j) {
			nm.RemoteToLocal[j] = uint16(i)
		}
	}
	return nm
}

// Local2Remote returns the remote index for a local namespace index.
func (nm *NamespaceMapping) Local2Remote(localIndex uint16) uint16 {
	if nm == nil || int(localIndex) >= len(nm.LocalToRemote) {
		return 0xFFFF - localIndex
	}
	return nm.LocalToRemote[localIndex]
}

// Remote2Local returns the local index for a remote namespace index.
func (nm *NamespaceMapping) Remote2Local(remoteIndex uint16) uint16 {
	if nm == nil || int(remoteIndex) >= len(nm.RemoteToLocal) {
		return 0xFFFF - remoteIndex
	}
	return nm.RemoteToLocal[remoteIndex]
}

// URI2Index returns the local index of the namespace uri.
func (nm *NamespaceMapping) URI2Index(uri string) (uint16, error) {
	if nm == nil {
		return 0, BadNotFound
	}
	for i, u := range nm.NamespaceURIs {
		if u == uri {
			return uint16(i), nil
		}
	}
	return 0, BadNotFound
}

// Index2URI returns the namespace uri of the local index.
func (nm *NamespaceMapping) Index2URI(index uint16) (string, error) {
	if nm == nil || int(index) >= len(nm.NamespaceURIs) {
		return "", BadNotFound
	}
	return nm.NamespaceURIs[index], nil
}

// Clear resets the mapping tables.
func (nm *NamespaceMapping) Clear() {
	nm.NamespaceURIs = nil
	nm.LocalToRemote = nil
	nm.RemoteToLocal = nil
}

// printNodeIDRemote prints the NodeID with its namespace index mapped to
// the remote end.
func printNodeIDRemote(id NodeID, nm *NamespaceMapping) string {
	if nm != nil && id.namespaceIndex != 0 {
		id = id.WithNamespaceIndex(nm.Local2Remote(id.namespaceIndex))
	}
	return id.String()
}

// printExpandedNodeIDRemote prints the ExpandedNodeID with its namespace
// index mapped to the remote end. A namespace uri is printed as is.
func printExpandedNodeIDRemote(id ExpandedNodeID, nm *NamespaceMapping) string {
	if id.namespaceURI == "" && nm != nil && id.nodeID.namespaceIndex != 0 {
		id.nodeID = id.nodeID.WithNamespaceIndex(nm.Local2Remote(id.nodeID.namespaceIndex))
	}
	return id.String()
}

// parseNodeIDRemote parses a NodeID printed by the remote end. A namespace
// index is mapped to the local index, a namespace uri is resolved.
func parseNodeIDRemote(s string, nm *NamespaceMapping) (NodeID, error) {
	if strings.HasPrefix(s, "nsu=") {
		return ParseNodeIDEx(s, nm)
	}
	id, err := ParseNodeID(s)
	if err != nil {
		return NilNodeID, err
	}
	if nm != nil && id.namespaceIndex != 0 {
		id = id.WithNamespaceIndex(nm.Remote2Local(id.namespaceIndex))
	}
	return id, nil
}

// parseExpandedNodeIDRemote parses an ExpandedNodeID printed by the remote
// end.
func parseExpandedNodeIDRemote(s string, nm *NamespaceMapping, serverURIs []string) (ExpandedNodeID, error) {
	if strings.HasPrefix(s, "nsu=") || strings.HasPrefix(s, "svr=") || strings.HasPrefix(s, "svu=") {
		id, err := ParseExpandedNodeIDEx(s, nm, serverURIs)
		if err != nil {
			return NilExpandedNodeID, err
		}
		if id.namespaceURI == "" && !strings.Contains(s, "nsu=") && nm != nil && id.nodeID.namespaceIndex != 0 {
			id.nodeID = id.nodeID.WithNamespaceIndex(nm.Remote2Local(id.nodeID.namespaceIndex))
		}
		return id, nil
	}
	id, err := parseNodeIDRemote(s, nm)
	if err != nil {
		return NilExpandedNodeID, err
	}
	return NewExpandedNodeID(id), nil
}
