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

// Package wrap is the wrap loop (C11): for one resource, it locates every
// example's initial candidates, resolves per-page ambiguity, induces a
// program, evaluates that program over every example and query, reduces the
// resulting input/output table, and -- if fewer than tau inputs resolved --
// narrows the example set by the reducer's degenerate (maximum-cost) drop
// and tries again, until the table clears tau or the resource runs out of
// examples to drop below it (spec section 4.11).
package wrap

import (
	"context"
	"sort"
	"strings"

	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"

	"github.com/dolthub/wpdxf/dom"
	"github.com/dolthub/wpdxf/induce"
	"github.com/dolthub/wpdxf/reduce"
	"github.com/dolthub/wpdxf/wpdxferrors"
)

// candidate bundles one example's ambiguity-reduction view (reduce.Candidate,
// abstract paths only) with the DOM-level view (induce.Example, real nodes)
// the same located pair produced, keeping them in lock-step through
// resolveAmbiguity.
type candidate struct {
	exampleKey string
	page       string
	reduced    reduce.Candidate
	induceEx   induce.Example
}

// Table is the outcome of successfully wrapping a resource: the induced
// program, the example keys it was induced from, and the resolved
// input(pair key) -> output(text) table spec section 4.11 step d emits.
// Answers covers both example and query keys; only inputs that step c could
// resolve to a single value appear in it.
type Table struct {
	Program     induce.Program
	ExampleKeys []string
	Answers     map[string]string
}

// Run implements spec section 4.11. pages maps a page's URL to its already
// LocateInitial'd dom.WebPage; exampleKeys/queryKeys are the pair.Key()
// values the resource matched, per resource.Resource. tau is the minimum
// example count the resource must retain, and the minimum number of resolved
// table inputs required to emit. Run returns wpdxferrors.ErrResourceExhausted
// once narrowing would drop the example set below tau.
func Run(ctx context.Context, name string, pages map[string]*dom.WebPage, exampleKeys, queryKeys []string, tau int, enrichPredicates bool, log *logrus.Entry) (Table, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "wrap.resource")
	defer span.Finish()
	if log == nil {
		log = logrus.NewEntry(logrus.New())
	}

	groups := evaluateInitial(pages, exampleKeys)
	if len(groups) < tau {
		return Table{}, wpdxferrors.ErrResourceExhausted.New(name, tau)
	}

	current := resolveAmbiguity(groups)
	if len(uniqueExampleKeys(current)) < tau {
		return Table{}, wpdxferrors.ErrResourceExhausted.New(name, tau)
	}

	for {
		prog, err := induce.Induce(induceExamples(current), induce.WithEnrichPredicates(enrichPredicates))
		if err != nil {
			return Table{}, err
		}

		raw := evaluateTable(pages, uniqueExampleKeys(current), queryKeys, prog)
		resolved := reduceTable(raw)

		if len(resolved) >= tau {
			return Table{Program: prog, ExampleKeys: uniqueExampleKeys(current), Answers: resolved}, nil
		}

		reducedCandidates := make([]reduce.Candidate, len(current))
		for i, c := range current {
			reducedCandidates[i] = c.reduced
		}
		worst := reduce.Reduce(reducedCandidates)
		current = dropExampleCandidates(current, worst)
		log.WithField("dropped_example", worst).Info("wrap: degenerate reduce dropped worst-fit example")

		if len(uniqueExampleKeys(current)) < tau {
			return Table{}, wpdxferrors.ErrResourceExhausted.New(name, tau)
		}
	}
}

// evaluateInitial groups each page's located Example candidates by
// (exampleKey, page) -- spec section 4.6's initial evaluation, already run
// by dom.LocateInitial -- converting dom.Candidate into the parallel
// reduce/induce views this package threads through ambiguity resolution.
func evaluateInitial(pages map[string]*dom.WebPage, exampleKeys []string) map[string][]candidate {
	groups := make(map[string][]candidate)
	for url, page := range pages {
		for _, key := range exampleKeys {
			cands, ok := page.Examples[key]
			if !ok {
				continue
			}
			for _, c := range cands {
				startPath, ok1 := dom.RelativePath(c.CommonRoot, c.Input)
				endPath, ok2 := dom.RelativePath(c.CommonRoot, c.Output)
				if !ok1 || !ok2 {
					continue
				}
				groups[groupKey(key, url)] = append(groups[groupKey(key, url)], candidate{
					exampleKey: key,
					page:       url,
					reduced: reduce.Candidate{
						ExampleKey: key,
						Page:       url,
						StartPath:  startPath,
						EndPath:    endPath,
					},
					induceEx: induce.Example{Page: page, Root: c.CommonRoot, Input: c.Input, Output: c.Output},
				})
			}
		}
	}
	return groups
}

func groupKey(exampleKey, page string) string { return exampleKey + "\x00" + page }

// resolveAmbiguity runs the reducer (C7) over the abstract view of every
// group and projects the winning reduce.Candidate back to its parallel
// induce.Example.
func resolveAmbiguity(groups map[string][]candidate) []candidate {
	var keys []string
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys) // deterministic iteration order for reproducible runs

	var rgroups []reduce.Group
	for _, k := range keys {
		cs := groups[k]
		var rc []reduce.Candidate
		for _, c := range cs {
			rc = append(rc, c.reduced)
		}
		rgroups = append(rgroups, reduce.Group{ExampleKey: cs[0].exampleKey, Page: cs[0].page, Candidates: rc})
	}

	rgroups = reduce.ReduceAmbiguity(rgroups)

	var out []candidate
	for i, g := range rgroups {
		if len(g.Candidates) == 0 {
			continue
		}
		winner := g.Candidates[0]
		for _, c := range groups[keys[i]] {
			if c.reduced.StartPath.Equal(winner.StartPath) && c.reduced.EndPath.Equal(winner.EndPath) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

func induceExamples(cands []candidate) []induce.Example {
	out := make([]induce.Example, len(cands))
	for i, c := range cands {
		out[i] = c.induceEx
	}
	return out
}

func uniqueExampleKeys(cands []candidate) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, c := range cands {
		if _, ok := seen[c.exampleKey]; !ok {
			seen[c.exampleKey] = struct{}{}
			out = append(out, c.exampleKey)
		}
	}
	sort.Strings(out)
	return out
}

func dropExampleCandidates(current []candidate, exampleKey string) []candidate {
	out := make([]candidate, 0, len(current))
	for _, c := range current {
		if c.exampleKey == exampleKey {
			continue
		}
		out = append(out, c)
	}
	return out
}

// evaluateTable applies prog across every page for every example and query
// key (spec section 4.11 step b), collecting the distinct output texts
// observed for each input into the raw input -> set<output> table.
func evaluateTable(pages map[string]*dom.WebPage, exampleKeys, queryKeys []string, prog induce.Program) map[string]map[string]struct{} {
	table := make(map[string]map[string]struct{})
	addOutputs := func(key string, cands []dom.Candidate, page *dom.WebPage) {
		for _, c := range cands {
			got, err := dom.Apply(page, c.Input, prog.Rel, prog.Bindings)
			if err != nil {
				continue
			}
			for _, n := range got {
				text := dom.ExtractText(n)
				if table[key] == nil {
					table[key] = make(map[string]struct{})
				}
				table[key][text] = struct{}{}
			}
		}
	}
	for _, page := range pages {
		for _, key := range exampleKeys {
			if cands, ok := page.Examples[key]; ok {
				addOutputs(key, cands, page)
			}
		}
		for _, key := range queryKeys {
			if cands, ok := page.Queries[key]; ok {
				addOutputs(key, cands, page)
			}
		}
	}
	return table
}

// reduceTable implements spec section 4.11 step c: an input with a single
// observed output keeps it; an input with several keeps one only if it is a
// prefix of every other observed output for that input; anything else is
// left unbound, i.e. absent from the returned map.
func reduceTable(table map[string]map[string]struct{}) map[string]string {
	resolved := make(map[string]string, len(table))
	for key, outs := range table {
		switch len(outs) {
		case 0:
			continue
		case 1:
			for o := range outs {
				resolved[key] = o
			}
		default:
			if prefix, ok := commonPrefixOutput(outs); ok {
				resolved[key] = prefix
			}
		}
	}
	return resolved
}

// commonPrefixOutput returns the output that is a prefix of every other
// output in the set, if one exists.
func commonPrefixOutput(outs map[string]struct{}) (string, bool) {
	sorted := make([]string, 0, len(outs))
	for o := range outs {
		sorted = append(sorted, o)
	}
	sort.Strings(sorted) // deterministic candidate order

	for _, candidate := range sorted {
		allPrefix := true
		for _, other := range sorted {
			if other == candidate {
				continue
			}
			if !strings.HasPrefix(other, candidate) {
				allPrefix = false
				break
			}
		}
		if allPrefix {
			return candidate, true
		}
	}
	return "", false
}
