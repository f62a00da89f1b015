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

// Package xpathmodel is the typed XPath representation (C5): steps, paths,
// predicates, serialisation and variable binding. Axis and node-test naming
// follows github.com/antchfx/xpath's own vocabulary (the pack's XPath 1.0
// engine); the predicate/variable-hoisting layer on top is this package's
// own addition, since antchfx/xpath has no notion of parameterised
// variables (spec section 9, "Variable hoisting in XPath").
package xpathmodel

import (
	"fmt"
	"reflect"

	"github.com/dolthub/wpdxf/internal/editdistance"
)

// Axis enumerates the XPath axes this model supports (spec section 3).
type Axis string

const (
	AxisSelf                Axis = "self"
	AxisChild               Axis = "child"
	AxisParent              Axis = "parent"
	AxisDescendant          Axis = "descendant"
	AxisDescendantOrSelf    Axis = "descendant-or-self"
	AxisFollowingSibling    Axis = "following-sibling"
	AxisPrecedingSibling    Axis = "preceding-sibling"
	AxisAncestor            Axis = "ancestor"
	AxisAncestorOrSelf      Axis = "ancestor-or-self"
	AxisAttribute           Axis = "attribute"
)

// NodeTestKind distinguishes the universal node() test from a named element
// test or an attribute test.
type NodeTestKind int

const (
	NodeTestAny NodeTestKind = iota
	NodeTestName
	NodeTestAttr
)

// NodeTest is a step's node-test; the zero value is the universal node().
type NodeTest struct {
	Kind NodeTestKind
	Name string
}

// NodeTestAnyNode is the default node-test.
var NodeTestAnyNode = NodeTest{Kind: NodeTestAny}

// NamedTest builds a node-test matching elements of the given tag.
func NamedTest(name string) NodeTest { return NodeTest{Kind: NodeTestName, Name: name} }

func (nt NodeTest) String() string {
	switch nt.Kind {
	case NodeTestName:
		return nt.Name
	case NodeTestAttr:
		return "@" + nt.Name
	default:
		return "node()"
	}
}

func (nt NodeTest) Equal(other NodeTest) bool {
	return nt.Kind == other.Kind && nt.Name == other.Name
}

// Node is one XPathNode: an axis, a node-test, and predicates in
// conjunctive normal form (the outer slice is AND'd, each inner slice is
// OR'd, per spec section 3).
type Node struct {
	Axis       Axis
	Test       NodeTest
	Predicates Predicates
}

// Self builds a bare self::node() step, used as an alignment placeholder
// (spec section 4.8).
func Self() Node {
	return Node{Axis: AxisSelf, Test: NodeTestAnyNode}
}

// Equal reports structural equality: two Nodes are equal iff axis,
// node-test and predicates all match (spec section 3: "Two paths are equal
// iff element-wise equal").
func (n Node) Equal(other Node) bool {
	return n.Axis == other.Axis && n.Test.Equal(other.Test) && n.Predicates.Equal(other.Predicates)
}

// ReplaceCost implements editdistance.Step: replacement cost is
// axis_mismatch*1 + predicates_mismatch*1 + nodetest_mismatch*2
// (spec section 4.7).
func (n Node) ReplaceCost(other editdistance.Step) int {
	o := other.(Node)
	cost := 0
	if n.Axis != o.Axis {
		cost++
	}
	if !n.Predicates.Equal(o.Predicates) {
		cost++
	}
	if !n.Test.Equal(o.Test) {
		cost += 2
	}
	return cost
}

func (n Node) render(b *Bindings) string {
	var axisStr string
	switch n.Axis {
	case AxisAttribute:
		axisStr = "@"
		return fmt.Sprintf("%s%s%s", axisStr, n.Test.Name, n.Predicates.render(b))
	case AxisChild:
		axisStr = ""
	default:
		axisStr = string(n.Axis) + "::"
	}
	return fmt.Sprintf("%s%s%s", axisStr, n.Test.String(), n.Predicates.render(b))
}

// deepEqual is used where Predicates.Equal needs to compare atomic
// predicate payloads that may carry arbitrary literal values.
func deepEqual(a, b interface{}) bool {
	return reflect.DeepEqual(a, b)
}
