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

// Package induce is the inducer (C10): given a resource's current example
// set, it builds the (start_path, end_path, bindings) extraction program
// spec section 4.10 describes, by running the aligner/merger (C8) over every
// example's document-root-relative paths and the predicate enricher (C9)
// over the merged end path, probing each page for the DOM nodes that would
// and wouldn't satisfy each merged step.
package induce

import (
	"golang.org/x/net/html"

	"github.com/dolthub/wpdxf/align"
	"github.com/dolthub/wpdxf/dom"
	"github.com/dolthub/wpdxf/enrich"
	"github.com/dolthub/wpdxf/wpdxferrors"
	"github.com/dolthub/wpdxf/xpathmodel"
)

// Example is one (page, common-root, input, output) location an example
// contributes to the induced program, the DOM-level counterpart of
// reduce.Candidate once the reducer has narrowed each group to one per page.
type Example struct {
	Page   *dom.WebPage
	Root   *html.Node
	Input  *html.Node
	Output *html.Node
}

// Program is the induced extraction program: a generalised, document-root-
// relative (start_path, end_path) pair plus the variable bindings its
// rendered form references. Rel.StartPath is carried for reporting only --
// the DOM evaluator locates each page's input node directly (spec section
// 4.6's initial evaluation), it does not walk Rel.StartPath -- while
// Rel.EndPath (via RelativeXPath.AnchoredEndPath) is what dom.Apply actually
// compiles and runs.
type Program struct {
	Rel      xpathmodel.RelativeXPath
	Bindings *xpathmodel.Bindings
}

// Option configures a single Induce call.
type Option func(*options)

type options struct {
	enrichPredicates bool
}

// WithEnrichPredicates toggles the predicate enricher (C9); it defaults to
// enabled. The CLI's --enrich_predicates flag (spec section 6) maps
// directly onto this.
func WithEnrichPredicates(enabled bool) Option {
	return func(o *options) { o.enrichPredicates = enabled }
}

// Induce runs spec section 4.10 end to end. It returns
// wpdxferrors.ErrUnreachableNode if any example's nodes are not related the
// way a Candidate invariant requires (output/input not under root).
func Induce(examples []Example, opts ...Option) (Program, error) {
	if len(examples) == 0 {
		return Program{}, wpdxferrors.ErrNoResources.New()
	}

	o := options{enrichPredicates: true}
	for _, opt := range opts {
		opt(&o)
	}

	startPaths := make([]xpathmodel.Path, len(examples))
	endPaths := make([]xpathmodel.Path, len(examples))
	endChains := make([][]*html.Node, len(examples))

	for i, ex := range examples {
		commonPath, ok := dom.RelativePath(ex.Page.Root(), ex.Root)
		if !ok && ex.Root != ex.Page.Root() {
			return Program{}, wpdxferrors.ErrUnreachableNode.New("common root not under page root")
		}
		commonChain, _ := dom.NodeChain(ex.Page.Root(), ex.Root)

		startRel, ok := dom.RelativePath(ex.Root, ex.Input)
		if !ok {
			return Program{}, wpdxferrors.ErrUnreachableNode.New("input not under common root")
		}
		endRel, ok := dom.RelativePath(ex.Root, ex.Output)
		if !ok {
			return Program{}, wpdxferrors.ErrUnreachableNode.New("output not under common root")
		}
		endChain, _ := dom.NodeChain(ex.Root, ex.Output)

		startPaths[i] = append(append(xpathmodel.Path{}, commonPath...), startRel...)
		endPaths[i] = append(append(xpathmodel.Path{}, commonPath...), endRel...)
		endChains[i] = append(append([]*html.Node{}, commonChain...), endChain...)
	}

	startMerged := align.Merge(align.Align(startPaths))

	endAligned, endOps := align.AlignWithOps(endPaths)
	endMerged := align.Merge(endAligned)
	enriched := endMerged
	if o.enrichPredicates {
		enriched = enrichEndPath(endMerged, endChains, endOps)
	}

	return Program{
		Rel: xpathmodel.RelativeXPath{
			StartPath: startMerged,
			EndPath:   enriched,
		},
		Bindings: xpathmodel.NewBindings(),
	}, nil
}

// enrichEndPath replays each example's insertion history over its DOM node
// chain, so position i of the replayed chain names the real node (or nil,
// at an alignment placeholder) that produced merged step i, then probes each
// indicated node's same-tag siblings for the overflow set spec section 4.9's
// discriminators compare against.
func enrichEndPath(merged xpathmodel.Path, chains [][]*html.Node, ops [][]align.Insertion) xpathmodel.Path {
	replayed := make([][]*html.Node, len(chains))
	for i, chain := range chains {
		replayed[i] = align.ReplayOn(chain, ops[i], (*html.Node)(nil))
	}

	out := append(xpathmodel.Path{}, merged...)
	for pos := range out {
		var indicated, overflow []enrich.NodeInfo
		seenOverflow := make(map[*html.Node]struct{})

		for _, chain := range replayed {
			if pos >= len(chain) || chain[pos] == nil {
				continue
			}
			n := chain[pos]
			indicated = append(indicated, describe(n))
			for _, sib := range dom.SiblingsWithTag(n) {
				if _, ok := seenOverflow[sib]; ok {
					continue
				}
				seenOverflow[sib] = struct{}{}
				overflow = append(overflow, describe(sib))
			}
		}

		out[pos] = enrich.Step(out[pos], indicated, overflow)
	}
	return out
}

func describe(n *html.Node) enrich.NodeInfo {
	return enrich.NodeInfo{
		Tag:   n.Data,
		Attrs: dom.Attrs(n),
		Text:  dom.ExtractText(n),
	}
}
