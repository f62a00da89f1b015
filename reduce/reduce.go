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

// Package reduce is the reducer (C7): it resolves per-example ambiguity by
// minimizing tree-edit distance across pages (spec section 4.7), and
// provides the degenerate maximum-cost drop the wrap loop (C11) falls back
// to when a resource needs narrowing further.
package reduce

import (
	"github.com/dolthub/wpdxf/internal/editdistance"
	"github.com/dolthub/wpdxf/xpathmodel"
)

// Candidate is one (start-path, end-path) location for an example on one
// page, the unit the reducer chooses among.
type Candidate struct {
	ExampleKey string
	Page       string
	StartPath  xpathmodel.Path
	EndPath    xpathmodel.Path
}

// Group is every candidate found for one example on one page; the reducer
// narrows each Group to at most one Candidate (spec section 4.7: "each
// example should contribute exactly one (inp_node, out_node) pair per
// page").
type Group struct {
	ExampleKey string
	Page       string
	Candidates []Candidate
}

// ReduceAmbiguity implements spec section 4.7's main algorithm. It mutates
// and returns groups with ambiguous entries narrowed to a single candidate
// each, iterating until no group has more than one candidate left or no
// further change occurs (a second call is a no-op, the idempotence property
// of spec section 8).
func ReduceAmbiguity(groups []Group) []Group {
	for {
		changed := false
		all := flatten(groups)
		for i := range groups {
			g := &groups[i]
			if len(g.Candidates) <= 1 {
				continue
			}
			others := otherExamples(all, g.ExampleKey)
			best := 0
			bestCost := meanCost(g.Candidates[0], others)
			for j := 1; j < len(g.Candidates); j++ {
				c := meanCost(g.Candidates[j], others)
				if c < bestCost {
					bestCost = c
					best = j
				}
			}
			g.Candidates = []Candidate{g.Candidates[best]}
			changed = true
		}
		if !changed {
			break
		}
	}
	return groups
}

// Reduce implements the degenerate-case variant: among the supplied
// (already-unambiguous, one per example) candidates, it returns the
// ExampleKey of the single candidate with the MAXIMUM mean cost against all
// others -- spec section 4.7's "used when the resource appears over-fitted
// and must be narrowed further". Candidates must be non-empty.
func Reduce(candidates []Candidate) string {
	worst := 0
	worstCost := -1.0
	for i, c := range candidates {
		others := otherExamples(candidates, c.ExampleKey)
		cost := meanCost(c, others)
		if cost > worstCost {
			worstCost = cost
			worst = i
		}
	}
	return candidates[worst].ExampleKey
}

func flatten(groups []Group) []Candidate {
	var all []Candidate
	for _, g := range groups {
		all = append(all, g.Candidates...)
	}
	return all
}

func otherExamples(all []Candidate, exampleKey string) []Candidate {
	var out []Candidate
	for _, c := range all {
		if c.ExampleKey != exampleKey {
			out = append(out, c)
		}
	}
	return out
}

func meanCost(c Candidate, others []Candidate) float64 {
	if len(others) == 0 {
		return 0
	}
	total := 0
	for _, o := range others {
		total += editdistance.Distance(c.StartPath.Steps(), o.StartPath.Steps()).Distance
		total += editdistance.Distance(c.EndPath.Steps(), o.EndPath.Steps()).Distance
	}
	return float64(total) / float64(len(others))
}
