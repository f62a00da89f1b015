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

package dom

import (
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/dolthub/wpdxf/pair"
)

// MatchMode selects whether a candidate element's text must equal or merely
// contain a pair's term, the "-tm eq|cn" CLI flag of spec section 6.
type MatchMode int

const (
	MatchEquals MatchMode = iota
	MatchContains
)

// maxCandidatesPerNode bounds the cross product of input/output matches so
// a page with many loosely-matching elements cannot blow up the reducer's
// later pairwise comparisons.
const maxCandidatesPerNode = 8

func (m MatchMode) match(elementText, term string) bool {
	if m == MatchContains {
		return tokenContains(elementText, term)
	}
	return tokenEquals(elementText, term)
}

// LocateInitial implements the initial-evaluation half of spec section 4.6:
// for every pair, it finds every element whose text matches the pair's
// input term (and, for examples, every element whose text matches the
// output term), pairs each input match with each output match that shares a
// common ancestor, and records the result keyed by pair.Key().
func (p *WebPage) LocateInitial(pairs []pair.Pair, mode MatchMode) {
	ensureFuncsRegistered()

	var elements []*html.Node
	Walk(p.doc, func(n *html.Node) { elements = append(elements, n) })

	text := make(map[*html.Node]string, len(elements))
	for _, n := range elements {
		text[n] = htmlquery.InnerText(n)
	}

	for _, pr := range pairs {
		inputs := matchingElements(elements, text, mode, pr.Input())
		if len(inputs) == 0 {
			continue
		}

		if pr.IsQuery() {
			cands := make([]Candidate, 0, len(inputs))
			for _, in := range inputs {
				cands = append(cands, Candidate{Input: in})
			}
			p.Queries[pr.Key()] = cands
			continue
		}

		outputs := matchingElements(elements, text, mode, pr.Output())
		if len(outputs) == 0 {
			continue
		}

		var cands []Candidate
		for _, in := range inputs {
			for _, out := range outputs {
				if in == out {
					continue
				}
				root := CommonAncestor(in, out)
				if root == nil {
					// spec section 3's invariant requires a subtree root;
					// a candidate without one cannot be induced from and
					// is silently dropped.
					continue
				}
				cands = append(cands, Candidate{Input: in, Output: out, CommonRoot: root})
				if len(cands) >= maxCandidatesPerNode {
					break
				}
			}
			if len(cands) >= maxCandidatesPerNode {
				break
			}
		}
		if len(cands) > 0 {
			p.Examples[pr.Key()] = cands
		}
	}
}

func matchingElements(elements []*html.Node, text map[*html.Node]string, mode MatchMode, term string) []*html.Node {
	var out []*html.Node
	for _, n := range elements {
		if mode.match(text[n], term) {
			out = append(out, n)
		}
	}
	return out
}
