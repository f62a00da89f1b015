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

// Package enrich is the predicate enricher (C9): given a merged XPath step
// and the sets of nodes it should (indicated) and should not (overflow)
// select, it attaches whichever discriminating predicate separates the two
// sets (spec section 4.9). The caller -- induce.go -- is responsible for
// the DOM-specific work of classifying nodes into indicated/overflow via
// the probe-XPath technique spec section 4.9 describes; this package only
// implements the four discriminator strategies over the resulting node
// descriptions.
package enrich

import (
	"github.com/dolthub/wpdxf/internal/similarity"
	"github.com/dolthub/wpdxf/xpathmodel"
)

// NodeInfo is the minimal view of a DOM element the enricher needs: its
// tag, its attribute map, and its stringified text content.
type NodeInfo struct {
	Tag   string
	Attrs map[string]string
	Text  string
}

// Step enriches one merged step with a discriminating predicate. Per spec
// section 4.9, enrichment is skipped entirely (the step is returned
// unchanged) when overflow is empty or fewer than one indicated node
// exists.
func Step(step xpathmodel.Node, indicated, overflow []NodeInfo) xpathmodel.Node {
	if len(overflow) == 0 || len(indicated) < 1 {
		return step
	}

	if p, ok := precedingSibling(indicated, overflow); ok {
		return withPredicates(step, p)
	}
	if p, ok := similarAttributes(indicated); ok {
		return withPredicates(step, p)
	}
	if p, ok := nodeNameDiscriminator(indicated, overflow); ok {
		return withPredicates(step, p)
	}
	if p, ok := longestCommonPrefix(indicated); ok {
		return withPredicates(step, p)
	}
	return step
}

func withPredicates(step xpathmodel.Node, preds xpathmodel.Predicates) xpathmodel.Node {
	out := step
	out.Predicates = append(append(xpathmodel.Predicates{}, step.Predicates...), preds...)
	return out
}

// precedingSibling implements discriminator 1: add [preceding-sibling::tag]
// for every tag present on every indicated node's preceding siblings and
// absent from every overflow node's.
func precedingSibling(indicated, overflow []NodeInfo) (xpathmodel.Predicates, bool) {
	// Tags are read from NodeInfo.Attrs["__preceding_sibling_tags__"], the
	// comma-joined list dom.Attrs writes for each node.
	indicatedTags := commonPrecedingTags(indicated)
	if len(indicatedTags) == 0 {
		return nil, false
	}
	overflowTags := unionPrecedingTags(overflow)

	var preds xpathmodel.Predicates
	for tag := range indicatedTags {
		if _, bad := overflowTags[tag]; !bad {
			preds = append(preds, []xpathmodel.AtomicPredicate{xpathmodel.PrecedingSibling(tag)})
		}
	}
	return preds, len(preds) > 0
}

const precedingSiblingKey = "__preceding_sibling_tags__"

func commonPrecedingTags(nodes []NodeInfo) map[string]struct{} {
	if len(nodes) == 0 {
		return nil
	}
	common := tagSet(nodes[0])
	for _, n := range nodes[1:] {
		next := tagSet(n)
		for tag := range common {
			if _, ok := next[tag]; !ok {
				delete(common, tag)
			}
		}
	}
	return common
}

func unionPrecedingTags(nodes []NodeInfo) map[string]struct{} {
	union := make(map[string]struct{})
	for _, n := range nodes {
		for tag := range tagSet(n) {
			union[tag] = struct{}{}
		}
	}
	return union
}

func tagSet(n NodeInfo) map[string]struct{} {
	out := make(map[string]struct{})
	raw, ok := n.Attrs[precedingSiblingKey]
	if !ok {
		return out
	}
	for _, tag := range splitCSV(raw) {
		out[tag] = struct{}{}
	}
	return out
}

func splitCSV(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}

// similarAttributes implements discriminator 2: an attribute present on
// every indicated node, with an equal-value comparison when the value is
// constant across them and a bare existence test otherwise.
func similarAttributes(indicated []NodeInfo) (xpathmodel.Predicates, bool) {
	if len(indicated) == 0 {
		return nil, false
	}
	common := make(map[string]string)
	first := true
	for _, n := range indicated {
		if n.Attrs == nil {
			return nil, false
		}
		if first {
			for k, v := range n.Attrs {
				if k == precedingSiblingKey {
					continue
				}
				common[k] = v
			}
			first = false
			continue
		}
		for k, v := range common {
			nv, ok := n.Attrs[k]
			if !ok {
				delete(common, k)
				continue
			}
			if nv != v {
				common[k] = "" // present everywhere but not constant
			}
		}
	}
	if len(common) == 0 {
		return nil, false
	}

	var preds xpathmodel.Predicates
	for attr, val := range common {
		if val == "" {
			preds = append(preds, []xpathmodel.AtomicPredicate{xpathmodel.AttributePredicate(attr, nil)})
		} else {
			v := val
			preds = append(preds, []xpathmodel.AtomicPredicate{xpathmodel.AttributePredicate(attr, &v)})
		}
	}
	return preds, true
}

// nodeNameDiscriminator implements discriminator 3: a disjunction over
// indicated tags when they are wholly disjoint from overflow tags, else a
// numeric-content predicate when indicated text is numeric and overflow
// text is not.
func nodeNameDiscriminator(indicated, overflow []NodeInfo) (xpathmodel.Predicates, bool) {
	indTags := make(map[string]struct{})
	for _, n := range indicated {
		indTags[n.Tag] = struct{}{}
	}
	overTags := make(map[string]struct{})
	for _, n := range overflow {
		overTags[n.Tag] = struct{}{}
	}
	if similarity.Disjoint(indTags, overTags) {
		var disjunct []xpathmodel.AtomicPredicate
		for tag := range indTags {
			disjunct = append(disjunct, xpathmodel.NodeNameDisjunct(tag))
		}
		return xpathmodel.Predicates{disjunct}, true
	}

	indText := textsOf(indicated)
	overText := textsOf(overflow)
	if similarity.AllNumeric(indText) && !similarity.AllNumeric(overText) {
		return xpathmodel.Predicates{{xpathmodel.NumericTextPredicate()}}, true
	}
	return nil, false
}

// longestCommonPrefix implements discriminator 4, the final fallback.
func longestCommonPrefix(indicated []NodeInfo) (xpathmodel.Predicates, bool) {
	lcp := similarity.LongestCommonPrefix(textsOf(indicated))
	if lcp == "" {
		return nil, false
	}
	return xpathmodel.Predicates{{xpathmodel.StartsWith(lcp)}}, true
}

func textsOf(nodes []NodeInfo) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Text
	}
	return out
}
