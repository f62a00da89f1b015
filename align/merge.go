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

package align

import "github.com/dolthub/wpdxf/xpathmodel"

// Merge zip-combines a set of equal-length aligned paths into one
// generalised XPath, per spec section 4.8's Merger: at each position, axis
// is kept only if all paths agree (else descendant-or-self); node-test is
// kept only if all agree (else node(), which also clears predicates); and
// predicates are kept only if all agree (else cleared). Intermediate
// self::node() placeholders introduced by alignment are dropped, keeping
// only a leading one if present.
func Merge(aligned []xpathmodel.Path) xpathmodel.Path {
	if len(aligned) == 0 {
		return nil
	}
	length := len(aligned[0])
	merged := make(xpathmodel.Path, length)

	for i := 0; i < length; i++ {
		axis := aligned[0][i].Axis
		test := aligned[0][i].Test
		preds := aligned[0][i].Predicates
		axisEqual, testEqual, predEqual := true, true, true

		for _, p := range aligned[1:] {
			if p[i].Axis != axis {
				axisEqual = false
			}
			if !p[i].Test.Equal(test) {
				testEqual = false
			}
			if !p[i].Predicates.Equal(preds) {
				predEqual = false
			}
		}

		node := xpathmodel.Node{}
		if axisEqual {
			node.Axis = axis
		} else {
			node.Axis = xpathmodel.AxisDescendantOrSelf
		}
		switch {
		case !testEqual:
			node.Test = xpathmodel.NodeTestAnyNode
		case testEqual && predEqual:
			node.Test = test
			node.Predicates = preds
		default:
			node.Test = test
		}
		merged[i] = node
	}

	return dropIntermediateSelf(merged)
}

func dropIntermediateSelf(p xpathmodel.Path) xpathmodel.Path {
	out := make(xpathmodel.Path, 0, len(p))
	for i, n := range p {
		isSelf := n.Axis == xpathmodel.AxisSelf && n.Test.Kind == xpathmodel.NodeTestAny && n.Predicates.Empty()
		if isSelf && i != 0 {
			continue
		}
		out = append(out, n)
	}
	return out
}
