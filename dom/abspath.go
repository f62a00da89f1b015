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
	"golang.org/x/net/html"

	"github.com/dolthub/wpdxf/xpathmodel"
)

// RelativePath walks from root (exclusive) down to target, recording at
// each step the element's tag and its 1-based positional index among
// same-tag siblings (spec section 4.5's step constructor). ok is false if
// target is not a descendant of root.
func RelativePath(root, target *html.Node) (xpathmodel.Path, bool) {
	var chain []*html.Node
	for n := target; n != nil; n = n.Parent {
		if n == root {
			reverseNodes(chain)
			return buildPath(chain), true
		}
		if n.Type == html.ElementNode {
			chain = append(chain, n)
		}
	}
	return nil, false
}

func buildPath(chain []*html.Node) xpathmodel.Path {
	path := make(xpathmodel.Path, 0, len(chain))
	for _, n := range chain {
		path = append(path, xpathmodel.Node{
			Axis: xpathmodel.AxisChild,
			Test: xpathmodel.NamedTest(n.Data),
			Predicates: xpathmodel.Predicates{
				{xpathmodel.PositionPredicate(siblingIndex(n))},
			},
		})
	}
	return path
}

func siblingIndex(n *html.Node) int {
	idx := 1
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode && s.Data == n.Data {
			idx++
		}
	}
	return idx
}

func reverseNodes(ns []*html.Node) {
	for i, j := 0, len(ns)-1; i < j; i, j = i+1, j-1 {
		ns[i], ns[j] = ns[j], ns[i]
	}
}

// NodeChain is RelativePath's sibling: it returns the actual element nodes
// from root (exclusive) down to target, in the same order as the Path
// RelativePath would build from them. The inducer (C10) replays alignment
// insertions over this chain in lock-step with the abstract path so it can
// recover, at each merged step position, which real DOM node produced it.
func NodeChain(root, target *html.Node) ([]*html.Node, bool) {
	var chain []*html.Node
	for n := target; n != nil; n = n.Parent {
		if n == root {
			reverseNodes(chain)
			return chain, true
		}
		if n.Type == html.ElementNode {
			chain = append(chain, n)
		}
	}
	return nil, false
}

// AbsolutePath renders target's path from the page's document root as an
// XPath string, used to substitute $abs_start_path per page (spec section
// 3, RelativeXPath).
func AbsolutePath(page *WebPage, target *html.Node, b *xpathmodel.Bindings) string {
	path, ok := RelativePath(page.Root(), target)
	if !ok {
		return ""
	}
	return "/" + path.Render(b)
}

// CommonAncestor returns the nearest element that is an ancestor of (or
// equal to) both a and b, or nil if a and b belong to different trees.
// This is subtree_root(inp, out) from spec section 3.
func CommonAncestor(a, b *html.Node) *html.Node {
	ancestors := make(map[*html.Node]struct{})
	for n := a; n != nil; n = n.Parent {
		ancestors[n] = struct{}{}
	}
	for n := b; n != nil; n = n.Parent {
		if _, ok := ancestors[n]; ok {
			return n
		}
	}
	return nil
}

// Walk calls f for every element node in the subtree rooted at n, including
// n itself.
func Walk(n *html.Node, f func(*html.Node)) {
	if n.Type == html.ElementNode {
		f(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		Walk(c, f)
	}
}
