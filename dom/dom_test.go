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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/wpdxf/pair"
)

const fixtureHTML = `<html><body>
<table>
<tr><td>Spain</td><td>Spanish</td></tr>
<tr><td>Germany</td><td>German</td></tr>
</table>
</body></html>`

func TestLocateInitialFindsExampleCandidate(t *testing.T) {
	require := require.New(t)

	page, err := ParseString("http://example.com/langs", fixtureHTML)
	require.NoError(err)

	ex, err := pair.MakeExample("Spain", "Spanish", false)
	require.NoError(err)

	page.LocateInitial([]pair.Pair{ex}, MatchEquals)

	cands := page.Examples[ex.Key()]
	require.NotEmpty(cands)
	require.NotNil(cands[0].CommonRoot)
}

func TestRelativePathFromRootToLocatedInput(t *testing.T) {
	require := require.New(t)

	page, err := ParseString("http://example.com/langs", fixtureHTML)
	require.NoError(err)

	ex, err := pair.MakeExample("Germany", "German", false)
	require.NoError(err)
	page.LocateInitial([]pair.Pair{ex}, MatchEquals)
	cands := page.Examples[ex.Key()]
	require.NotEmpty(cands)

	path, ok := RelativePath(page.Root(), cands[0].Input)
	require.True(ok)
	require.NotEmpty(path)
}

func TestQuoteXPathLiteralHandlesMixedQuotes(t *testing.T) {
	require := require.New(t)

	require.Equal(`"plain"`, quoteXPathLiteral("plain"))
	require.Equal(`'has "double"'`, quoteXPathLiteral(`has "double"`))
	got := quoteXPathLiteral(`both " and '`)
	require.Contains(got, "concat(")
}

func TestSubstituteBindingsOnlyWholeTokens(t *testing.T) {
	require := require.New(t)

	out := substituteBindings("//div[@x = $v_1 and $v_10 != 1]", map[string]string{
		"v_1":  "a",
		"v_10": "b",
	})
	require.Equal(`//div[@x = "a" and "b" != 1]`, out)
}
