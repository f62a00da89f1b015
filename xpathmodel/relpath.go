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

// AbsStartPathVar is the placeholder variable name substituted per page
// with the absolute path of the input anchor node (spec section 3,
// RelativeXPath).
const AbsStartPathVar = "$abs_start_path"

// RelativeXPath is the (start_path, end_path) pair relative to a subtree
// root: start_path locates the input node, end_path locates the output
// node (spec section 3).
type RelativeXPath struct {
	StartPath Path
	EndPath   Path
}

// Render produces the end_path string whose first step carries the anchor
// predicate [self::x = $abs_start_path], per spec section 3. The returned
// string still contains the literal placeholder; callers substitute it with
// the page-specific absolute path before handing it to the XPath engine.
func (r RelativeXPath) Render(b *Bindings) string {
	anchored := r.AnchoredEndPath()
	return anchored.Render(b)
}

// AnchoredEndPath returns EndPath with the anchor predicate attached to its
// first step, i.e. the path actually evaluated against a page (as opposed to
// EndPath, which is the bare path recorded by induction).
func (r RelativeXPath) AnchoredEndPath() Path {
	if len(r.EndPath) == 0 {
		return r.EndPath
	}
	out := append(Path{}, r.EndPath...)
	first := out[0]
	preds := append(Predicates{}, first.Predicates...)
	preds = append(preds, []AtomicPredicate{AnchorEquals(AbsStartPathVar)})
	first.Predicates = preds
	out[0] = first
	return out
}
