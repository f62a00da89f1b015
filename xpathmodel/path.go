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

package xpathmodel

import (
	"strings"

	"github.com/dolthub/wpdxf/internal/editdistance"
)

// Path is an ordered list of Nodes (spec section 3).
type Path []Node

// Equal is element-wise equality.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if !p[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// Steps adapts a Path to []editdistance.Step for the reducer/aligner.
func (p Path) Steps() []editdistance.Step {
	out := make([]editdistance.Step, len(p))
	for i, n := range p {
		out[i] = n
	}
	return out
}

// Render serialises the path to its canonical string form, collapsing runs
// of consecutive descendant-or-self::node() steps into "//" (spec section
// 3/4.5). A leading descendant-or-self::node() run also collapses to a
// leading "//".
func (p Path) Render(b *Bindings) string {
	var sb strings.Builder
	i := 0
	first := true
	for i < len(p) {
		if p[i].Axis == AxisDescendantOrSelf && p[i].Test.Kind == NodeTestAny && p[i].Predicates.Empty() {
			// Collapse the whole run into one "//" separator.
			for i < len(p) && p[i].Axis == AxisDescendantOrSelf && p[i].Test.Kind == NodeTestAny && p[i].Predicates.Empty() {
				i++
			}
			sb.WriteString("/")
			first = false
			continue
		}
		if !first {
			sb.WriteString("/")
		}
		sb.WriteString(p[i].render(b))
		first = false
		i++
	}
	s := sb.String()
	if s == "" {
		s = "/"
	}
	return s
}

// InsertSelfAt returns a copy of p with a Self() placeholder inserted at
// each of positions (spec section 4.8's alignment step). positions need not
// be sorted; duplicates are inserted once each, in ascending order.
func (p Path) InsertSelfAt(positions []int) Path {
	if len(positions) == 0 {
		return append(Path{}, p...)
	}
	sorted := append([]int{}, positions...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1] > sorted[j]; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}

	out := make(Path, 0, len(p)+len(sorted))
	posSet := make(map[int]int)
	for _, pos := range sorted {
		posSet[pos]++
	}
	srcIdx := 0
	for outIdx := 0; outIdx < len(p)+len(sorted); outIdx++ {
		if posSet[outIdx] > 0 {
			out = append(out, Self())
			posSet[outIdx]--
			continue
		}
		if srcIdx < len(p) {
			out = append(out, p[srcIdx])
			srcIdx++
		}
	}
	return out
}
