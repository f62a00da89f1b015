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

// Package dom is the DOM evaluator (C6): initial pair location in a page,
// evaluation of an induced extraction program, and output extraction. It is
// built on github.com/antchfx/htmlquery and golang.org/x/net/html (adopted
// from the lambdamechanic-xpath pack member, per DESIGN.md), the "opaque
// collaborator exposing an XPath 1.0 engine" spec section 1/6 treats HTML
// as.
package dom

import (
	"io"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/dolthub/wpdxf/pair"
	"github.com/dolthub/wpdxf/wpdxferrors"
)

// Candidate is one (input node, output node) location found for a pair on a
// page, plus the nearest common ancestor the two were located under
// (spec section 3: "subtree_root(inp, out) != bottom"). Output is nil for a
// Query candidate until a program has been evaluated against it.
type Candidate struct {
	Input      *html.Node
	Output     *html.Node
	CommonRoot *html.Node
}

// WebPage is the (URL, clean HTML) pair of spec section 3. DOM nodes handed
// out by a WebPage are references into its own parsed tree and must not
// outlive it (spec section 9).
type WebPage struct {
	URL string
	doc *html.Node

	// Examples/Queries map a Pair's content key (pair.Pair.Key()) to every
	// candidate location found for it on this page.
	Examples map[string][]Candidate
	Queries  map[string][]Candidate
}

// Parse builds a WebPage from already-fetched, cleaned HTML (spec section
// 6's HTML cache entries are pre-minified). Parse failures are reported as
// wpdxferrors.ErrBadHTML so callers can drop the page and continue (spec
// section 7).
func Parse(url string, r io.Reader) (*WebPage, error) {
	doc, err := htmlquery.Parse(r)
	if err != nil {
		return nil, wpdxferrors.ErrBadHTML.New(url, err.Error())
	}
	return &WebPage{
		URL:      url,
		doc:      doc,
		Examples: make(map[string][]Candidate),
		Queries:  make(map[string][]Candidate),
	}, nil
}

// ParseString is Parse over an in-memory HTML string, mainly used by tests.
func ParseString(url, htmlText string) (*WebPage, error) {
	return Parse(url, strings.NewReader(htmlText))
}

// Root returns the page's document root node.
func (p *WebPage) Root() *html.Node { return p.doc }

// CandidatesFor returns the candidates recorded for pair key in the given
// map (Examples or Queries); nil if the pair has no candidates on this
// page.
func CandidatesFor(m map[string][]Candidate, p pair.Pair) []Candidate {
	return m[p.Key()]
}
