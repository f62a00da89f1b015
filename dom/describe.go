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
	"strings"

	"golang.org/x/net/html"
)

// precedingSiblingTagsAttr is the synthetic attribute key Attrs stashes
// each node's preceding-element-sibling tags under, so enrich.Step's
// preceding-sibling discriminator can read it off a plain NodeInfo without
// that package importing golang.org/x/net/html.
const precedingSiblingTagsAttr = "__preceding_sibling_tags__"

// Attrs returns n's element attributes plus a synthetic
// "__preceding_sibling_tags__" entry: a comma-joined, de-duplicated list of
// every element tag preceding n among its siblings (spec section 4.9's
// preceding-sibling discriminator probe).
func Attrs(n *html.Node) map[string]string {
	out := make(map[string]string, len(n.Attr)+1)
	for _, a := range n.Attr {
		out[a.Key] = a.Val
	}
	out[precedingSiblingTagsAttr] = strings.Join(precedingSiblingTags(n), ",")
	return out
}

func precedingSiblingTags(n *html.Node) []string {
	seen := make(map[string]struct{})
	var tags []string
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type != html.ElementNode {
			continue
		}
		if _, ok := seen[s.Data]; !ok {
			seen[s.Data] = struct{}{}
			tags = append(tags, s.Data)
		}
	}
	return tags
}

// SiblingsWithTag returns n's element siblings (not including n) that share
// n's tag, the candidate pool the enricher's overflow set is drawn from when
// probing one merged step position (spec section 4.9).
func SiblingsWithTag(n *html.Node) []*html.Node {
	var out []*html.Node
	if n.Parent == nil {
		return out
	}
	for c := n.Parent.FirstChild; c != nil; c = c.NextSibling {
		if c != n && c.Type == html.ElementNode && c.Data == n.Data {
			out = append(out, c)
		}
	}
	return out
}
