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

package reduce_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/wpdxf/reduce"
	"github.com/dolthub/wpdxf/xpathmodel"
)

func named(axis xpathmodel.Axis, name string) xpathmodel.Node {
	return xpathmodel.Node{Axis: axis, Test: xpathmodel.NamedTest(name)}
}

func path(names ...string) xpathmodel.Path {
	p := make(xpathmodel.Path, len(names))
	for i, n := range names {
		p[i] = named(xpathmodel.AxisChild, n)
	}
	return p
}

func TestReduceAmbiguityKeepsOneCandidatePerGroup(t *testing.T) {
	require := require.New(t)

	groups := []reduce.Group{
		{
			ExampleKey: "ex1",
			Page:       "pageA",
			Candidates: []reduce.Candidate{
				{ExampleKey: "ex1", Page: "pageA", StartPath: path("table", "tr", "td"), EndPath: path("table", "tr", "td2")},
				{ExampleKey: "ex1", Page: "pageA", StartPath: path("aside", "span"), EndPath: path("aside", "b")},
			},
		},
		{
			ExampleKey: "ex2",
			Page:       "pageA",
			Candidates: []reduce.Candidate{
				{ExampleKey: "ex2", Page: "pageA", StartPath: path("table", "tr", "td"), EndPath: path("table", "tr", "td2")},
			},
		},
	}

	out := reduce.ReduceAmbiguity(groups)
	require.Len(out[0].Candidates, 1)
	// The candidate structurally closest to ex2's unambiguous table/tr/td
	// path should win over the unrelated aside/span candidate.
	require.Equal("table", out[0].Candidates[0].StartPath[0].Test.Name)
}

func TestReduceAmbiguityIdempotent(t *testing.T) {
	require := require.New(t)

	groups := []reduce.Group{
		{
			ExampleKey: "ex1",
			Candidates: []reduce.Candidate{
				{ExampleKey: "ex1", StartPath: path("a"), EndPath: path("b")},
				{ExampleKey: "ex1", StartPath: path("c"), EndPath: path("d")},
			},
		},
	}
	first := reduce.ReduceAmbiguity(groups)
	second := reduce.ReduceAmbiguity(first)
	require.Equal(first, second)
	require.Len(second[0].Candidates, 1)
}

func TestReducePicksMaxMeanCost(t *testing.T) {
	require := require.New(t)

	candidates := []reduce.Candidate{
		{ExampleKey: "ex1", StartPath: path("table", "tr", "td"), EndPath: path("table", "tr", "td2")},
		{ExampleKey: "ex2", StartPath: path("table", "tr", "td"), EndPath: path("table", "tr", "td2")},
		{ExampleKey: "outlier", StartPath: path("section", "ul", "li", "span", "b"), EndPath: path("aside")},
	}
	require.Equal("outlier", reduce.Reduce(candidates))
}
