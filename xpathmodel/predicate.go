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
	"fmt"
	"strings"
)

// AtomicPredicate is (left, comp?, right?), per spec section 3. When Comp is
// empty, Left alone is the predicate (an axis test like
// "preceding-sibling::head" or a bare "self::div"). When RightLiteral is
// set, its value is hoisted into the Bindings map rather than interpolated
// directly, sidestepping XPath quoting (spec section 9).
type AtomicPredicate struct {
	Left string
	Comp string

	// RightLiteral, if non-nil, is a string constant that gets hoisted.
	RightLiteral *string
	// RightVar, if non-empty, is an already-named variable reference
	// (e.g. "$abs_start_path") that is emitted verbatim, not hoisted.
	RightVar string
}

// AttributePredicate builds the AttributePredicate specialisation described
// in spec section 3: "@name (=value)". A nil value produces a bare
// existence test, "[@name]".
func AttributePredicate(name string, value *string) AtomicPredicate {
	p := AtomicPredicate{Left: "@" + name}
	if value != nil {
		p.Comp = "="
		p.RightLiteral = value
	}
	return p
}

// SelfTest builds "[self::tag]".
func SelfTest(tag string) AtomicPredicate {
	return AtomicPredicate{Left: "self::" + tag}
}

// PrecedingSibling builds "[preceding-sibling::tag]".
func PrecedingSibling(tag string) AtomicPredicate {
	return AtomicPredicate{Left: "preceding-sibling::" + tag}
}

// StartsWith builds "[starts-with(text(), $lcp)]" with lcp hoisted.
func StartsWith(prefix string) AtomicPredicate {
	return AtomicPredicate{Left: "starts-with(text(), ", Comp: ")call", RightLiteral: &prefix}
}

// AnchorEquals builds the relative-path anchor predicate
// "[self::x = $abs_start_path]" described in spec section 3's RelativeXPath.
func AnchorEquals(varName string) AtomicPredicate {
	return AtomicPredicate{Left: "self::x", Comp: "=", RightVar: varName}
}

// PositionPredicate builds a bare "[n]" positional predicate: the 1-based
// index among same-tag siblings a DOM-derived step constructor records
// (spec section 4.5).
func PositionPredicate(n int) AtomicPredicate {
	return AtomicPredicate{Left: fmt.Sprintf("%d", n)}
}

// NumericTextPredicate builds the numeric-content discriminator the
// enricher falls back to when indicated text is numeric and overflow text
// is not (spec section 4.9, "node-name discriminator" step).
func NumericTextPredicate() AtomicPredicate {
	return AtomicPredicate{Left: "translate(text(), '0123456789.-', '') = ''"}
}

// NodeNameDisjunct builds one "self::tag" disjunct for the node-name
// discriminator predicate "[self::t1 or self::t2 or ...]".
func NodeNameDisjunct(tag string) AtomicPredicate {
	return SelfTest(tag)
}

func (p AtomicPredicate) equal(o AtomicPredicate) bool {
	if p.Left != o.Left || p.Comp != o.Comp || p.RightVar != o.RightVar {
		return false
	}
	if (p.RightLiteral == nil) != (o.RightLiteral == nil) {
		return false
	}
	if p.RightLiteral != nil && *p.RightLiteral != *o.RightLiteral {
		return false
	}
	return true
}

func (p AtomicPredicate) render(b *Bindings) string {
	switch {
	case p.Comp == "":
		return p.Left
	case p.Comp == ")call":
		// starts-with(text(), $var)
		name := b.Hoist(*p.RightLiteral)
		return p.Left + name + ")"
	case p.RightVar != "":
		return p.Left + " " + p.Comp + " " + p.RightVar
	case p.RightLiteral != nil:
		name := b.Hoist(*p.RightLiteral)
		return p.Left + " " + p.Comp + " " + name
	default:
		return p.Left
	}
}

// Predicates is the step's predicate set in conjunctive normal form: the
// outer slice is AND'd (rendered as separate bracketed groups), each inner
// slice is OR'd (rendered joined by " or ") (spec section 3).
type Predicates [][]AtomicPredicate

// Equal is element-wise/order-sensitive: the aligner and merger always
// build predicates deterministically, so this is sufficient for the
// testable property in spec section 3 ("Two paths are equal iff
// element-wise equal").
func (ps Predicates) Equal(other Predicates) bool {
	if len(ps) != len(other) {
		return false
	}
	for i := range ps {
		if len(ps[i]) != len(other[i]) {
			return false
		}
		for j := range ps[i] {
			if !ps[i][j].equal(other[i][j]) {
				return false
			}
		}
	}
	return true
}

// Empty reports whether there are no predicates at all.
func (ps Predicates) Empty() bool { return len(ps) == 0 }

func (ps Predicates) render(b *Bindings) string {
	var sb strings.Builder
	for _, disjunct := range ps {
		parts := make([]string, len(disjunct))
		for i, atom := range disjunct {
			parts[i] = atom.render(b)
		}
		sb.WriteString("[")
		sb.WriteString(strings.Join(parts, " or "))
		sb.WriteString("]")
	}
	return sb.String()
}
