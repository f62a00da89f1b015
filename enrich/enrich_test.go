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

package enrich_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/wpdxf/enrich"
	"github.com/dolthub/wpdxf/xpathmodel"
)

func step() xpathmodel.Node {
	return xpathmodel.Node{Axis: xpathmodel.AxisChild, Test: xpathmodel.NamedTest("div")}
}

// TestPrecedingSiblingDiscriminator reproduces spec section 8 item 5: page
// A's target div has a preceding-sibling head (no overflow); page B's
// overflow div has no head preceding-sibling.
func TestPrecedingSiblingDiscriminator(t *testing.T) {
	require := require.New(t)

	indicated := []enrich.NodeInfo{
		{Tag: "div", Attrs: map[string]string{"__preceding_sibling_tags__": "head,p"}},
	}
	overflow := []enrich.NodeInfo{
		{Tag: "div", Attrs: map[string]string{"__preceding_sibling_tags__": "p"}},
	}

	enriched := enrich.Step(step(), indicated, overflow)
	require.Len(enriched.Predicates, 1)
	require.Equal("preceding-sibling::head", enriched.Predicates[0][0].Left)
}

func TestSkipsWhenOverflowEmpty(t *testing.T) {
	require := require.New(t)

	s := step()
	enriched := enrich.Step(s, []enrich.NodeInfo{{Tag: "div"}}, nil)
	require.Equal(s, enriched)
}

func TestNodeNameDiscriminatorWhenTagsDisjoint(t *testing.T) {
	require := require.New(t)

	indicated := []enrich.NodeInfo{{Tag: "span", Text: "Madrid"}}
	overflow := []enrich.NodeInfo{{Tag: "em", Text: "Lisbon"}}

	enriched := enrich.Step(step(), indicated, overflow)
	require.Len(enriched.Predicates, 1)
	require.Equal("self::span", enriched.Predicates[0][0].Left)
}

func TestLongestCommonPrefixFallback(t *testing.T) {
	require := require.New(t)

	indicated := []enrich.NodeInfo{{Tag: "div", Text: "Capital: Madrid"}, {Tag: "div", Text: "Capital: Lisbon"}}
	overflow := []enrich.NodeInfo{{Tag: "div", Text: "Footer text"}}

	enriched := enrich.Step(step(), indicated, overflow)
	require.Len(enriched.Predicates, 1)
	require.Contains(enriched.Predicates[0][0].Left, "starts-with(text(), ")
}
