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

package uritree

import "github.com/dolthub/wpdxf/pair"

// Decompose implements the key algorithm of spec section 4.3. It is the
// "later design" spec.md section 9 calls out by name over the deprecated
// filter.py variant: split where children partition examples, but keep the
// parent whenever splitting would lose queries or fracture co-occurring
// examples.
func (t *Tree) Decompose(id NodeID, tau int) []NodeID {
	n := t.Node(id)

	var candidates []NodeID
	for _, c := range t.Children(id) {
		if t.Node(c).ExCount() >= tau {
			candidates = append(candidates, c)
		}
	}

	if len(candidates) == 0 || unionQueriesStrictSubset(t, candidates, n) {
		return []NodeID{id}
	}

	var d []NodeID
	for _, c := range candidates {
		d = append(d, t.Decompose(c, tau)...)
	}

	if len(d) > 1 && pairwiseDisjointEx(t, d) {
		return []NodeID{id}
	}
	return d
}

// unionQueriesStrictSubset reports whether the union of candidates'
// q_matches is a strict (proper) subset of node's q_matches.
func unionQueriesStrictSubset(t *Tree, candidates []NodeID, node *Node) bool {
	union := make(map[string]struct{})
	for _, c := range candidates {
		for k := range t.Node(c).qMatches {
			union[k] = struct{}{}
		}
	}

	for k := range union {
		if _, ok := node.qMatches[k]; !ok {
			// union contains something node doesn't: not even a subset.
			return false
		}
	}
	return len(union) < len(node.qMatches)
}

// pairwiseDisjointEx reports whether every pair of nodes in ids has
// disjoint ex_matches sets.
func pairwiseDisjointEx(t *Tree, ids []NodeID) bool {
	for i := 0; i < len(ids); i++ {
		a := t.Node(ids[i]).exMatches
		for j := i + 1; j < len(ids); j++ {
			b := t.Node(ids[j]).exMatches
			if !disjoint(a, b) {
				return false
			}
		}
	}
	return true
}

func disjoint(a, b map[string]pair.Pair) bool {
	small, big := a, b
	if len(big) < len(small) {
		small, big = big, small
	}
	for k := range small {
		if _, ok := big[k]; ok {
			return false
		}
	}
	return true
}
