// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package uritree builds the URI-tree (C3): a rooted forest, one root per
// host, whose internal nodes are path segments carrying the union of their
// descendants' example/query match sets (spec section 3/4.3).
//
// Per spec section 9's design note on cyclic references, nodes live in an
// arena (Tree.nodes) and are addressed by a stable NodeID; the parent
// pointer is an index into that arena, never an owning Go pointer, so the
// structure has no reference cycles for the garbage collector to worry
// about.
package uritree

import (
	"net/url"
	"strings"

	"github.com/dolthub/wpdxf/pair"
)

// NodeID addresses a node within a Tree's arena. The zero value is never a
// valid id (root nodes start at id 1) so a NodeID can double as an
// "absent" sentinel.
type NodeID int

const noParent NodeID = -1

// Node is one URI-tree node: a path segment label plus the union of its
// descendants' match sets. Leaves additionally carry the original URL.
type Node struct {
	id       NodeID
	parent   NodeID
	label    string
	children map[string]NodeID
	isLeaf   bool
	url      string

	exMatches map[string]pair.Pair
	qMatches  map[string]pair.Pair
}

func newNode(id, parent NodeID, label string) *Node {
	return &Node{
		id:        id,
		parent:    parent,
		label:     label,
		children:  make(map[string]NodeID),
		exMatches: make(map[string]pair.Pair),
		qMatches:  make(map[string]pair.Pair),
	}
}

func (n *Node) ID() NodeID       { return n.id }
func (n *Node) Label() string    { return n.label }
func (n *Node) IsLeaf() bool     { return n.isLeaf }
func (n *Node) URL() string      { return n.url }
func (n *Node) ExCount() int     { return len(n.exMatches) }
func (n *Node) QCount() int      { return len(n.qMatches) }

// ExMatches returns the node's example match set.
func (n *Node) ExMatches() map[string]pair.Pair { return n.exMatches }

// QMatches returns the node's query match set.
func (n *Node) QMatches() map[string]pair.Pair { return n.qMatches }

// Tree is the rooted forest over a corpus's URLs.
type Tree struct {
	nodes []*Node // index 0 unused so NodeID 0 stays invalid
	roots map[string]NodeID
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{nodes: make([]*Node, 1), roots: make(map[string]NodeID)}
}

func (t *Tree) alloc(parent NodeID, label string) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, newNode(id, parent, label))
	return id
}

// Node dereferences an id. It panics on an invalid id, matching the arena's
// contract that ids are only ever handed out by this package.
func (t *Tree) Node(id NodeID) *Node { return t.nodes[id] }

// Roots returns every host root currently in the tree.
func (t *Tree) Roots() map[string]NodeID { return t.roots }

// Children returns the child node ids of n, in insertion order is not
// guaranteed (map iteration); callers that need determinism should sort by
// label.
func (t *Tree) Children(id NodeID) []NodeID {
	n := t.Node(id)
	out := make([]NodeID, 0, len(n.children))
	for _, c := range n.children {
		out = append(out, c)
	}
	return out
}

// LeafURLs returns every leaf URL reachable under id, including id itself
// if it is a leaf. Used by the resource collector's callers to materialise
// the set of pages a decomposed resource actually covers.
func (t *Tree) LeafURLs(id NodeID) []string {
	n := t.Node(id)
	if n.isLeaf {
		return []string{n.url}
	}
	var out []string
	for _, c := range t.Children(id) {
		out = append(out, t.LeafURLs(c)...)
	}
	return out
}

// segments splits a URL into (host, [path_segments..., query, fragment])
// per spec section 4.3.
func segments(rawURL string) (host string, segs []string, ok bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "", nil, false
	}
	path := strings.Trim(u.Path, "/")
	if path != "" {
		segs = append(segs, strings.Split(path, "/")...)
	}
	if u.RawQuery != "" {
		segs = append(segs, "?"+u.RawQuery)
	}
	if u.Fragment != "" {
		segs = append(segs, "#"+u.Fragment)
	}
	return u.Host, segs, true
}

// Insert adds url to the tree, unioning exMatch/qMatch (whichever is
// non-nil) into every node along host->...->leaf, and recording the leaf's
// URL. A Pair that is both an example match and a query match for this URL
// is inserted with two calls.
func (t *Tree) Insert(rawURL string, exMatch, qMatch *pair.Pair) {
	host, segs, ok := segments(rawURL)
	if !ok {
		return
	}

	rootID, exists := t.roots[host]
	if !exists {
		rootID = t.alloc(noParent, host)
		t.roots[host] = rootID
	}

	cur := rootID
	t.mergeMatch(cur, exMatch, qMatch)
	for _, seg := range segs {
		n := t.Node(cur)
		childID, ok := n.children[seg]
		if !ok {
			childID = t.alloc(cur, seg)
			n.children[seg] = childID
		}
		cur = childID
		t.mergeMatch(cur, exMatch, qMatch)
	}

	leaf := t.Node(cur)
	leaf.isLeaf = true
	leaf.url = rawURL
}

func (t *Tree) mergeMatch(id NodeID, exMatch, qMatch *pair.Pair) {
	n := t.Node(id)
	if exMatch != nil {
		n.exMatches[exMatch.Key()] = *exMatch
	}
	if qMatch != nil {
		n.qMatches[qMatch.Key()] = *qMatch
	}
}

// ReduceRoots drops any host root whose example-match count is below tau
// (spec section 4.3, "Reduction").
func (t *Tree) ReduceRoots(tau int) {
	for host, id := range t.roots {
		if t.Node(id).ExCount() < tau {
			delete(t.roots, host)
		}
	}
}
