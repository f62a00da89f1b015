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

package wrap_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/wpdxf/dom"
	"github.com/dolthub/wpdxf/pair"
	"github.com/dolthub/wpdxf/wrap"
)

const countryTable = `
<html><body>
<table>
<tr><th>capital</th><td>Madrid</td></tr>
<tr><th>capital</th><td>Lisbon</td></tr>
<tr><th>capital</th><td>Paris</td></tr>
</table>
</body></html>`

func TestRunInducesProgramAndAnswersQuery(t *testing.T) {
	require := require.New(t)

	page, err := dom.ParseString("http://example.test/capitals", countryTable)
	require.NoError(err)

	ex1, err := pair.MakeExample("capital", "madrid", false)
	require.NoError(err)
	ex2, err := pair.MakeExample("capital", "lisbon", false)
	require.NoError(err)
	q := pair.MakeQuery("capital", false)

	page.LocateInitial([]pair.Pair{ex1, ex2, q}, dom.MatchContains)

	pages := map[string]*dom.WebPage{page.URL: page}
	table, err := wrap.Run(context.Background(), "capitals",
		pages, []string{ex1.Key(), ex2.Key()}, []string{q.Key()}, 2, true, nil)
	require.NoError(err)
	require.NotEmpty(table.ExampleKeys)
	require.NotEmpty(table.Answers)
	require.Equal("madrid", table.Answers[ex1.Key()])
	require.Equal("lisbon", table.Answers[ex2.Key()])
}

// TestRunLeavesAmbiguousQueryUnbound exercises the table-reduction rule of
// spec section 4.11 step c directly: the query's header text matches every
// row, so its program output differs row over row with no output a prefix
// of the others -- it must be left unbound rather than forced to a pick,
// while the table still emits since the two examples alone clear tau.
func TestRunLeavesAmbiguousQueryUnbound(t *testing.T) {
	require := require.New(t)

	page, err := dom.ParseString("http://example.test/capitals", countryTable)
	require.NoError(err)

	ex1, err := pair.MakeExample("capital", "madrid", false)
	require.NoError(err)
	ex2, err := pair.MakeExample("capital", "lisbon", false)
	require.NoError(err)
	q := pair.MakeQuery("capital", false)

	page.LocateInitial([]pair.Pair{ex1, ex2, q}, dom.MatchContains)

	pages := map[string]*dom.WebPage{page.URL: page}
	table, err := wrap.Run(context.Background(), "capitals",
		pages, []string{ex1.Key(), ex2.Key()}, []string{q.Key()}, 2, true, nil)
	require.NoError(err)
	require.NotContains(table.Answers, q.Key())
}

func TestRunReturnsResourceExhaustedBelowTau(t *testing.T) {
	require := require.New(t)

	page, err := dom.ParseString("http://example.test/capitals", countryTable)
	require.NoError(err)

	ex1, err := pair.MakeExample("capital", "madrid", false)
	require.NoError(err)

	page.LocateInitial([]pair.Pair{ex1}, dom.MatchContains)

	pages := map[string]*dom.WebPage{page.URL: page}
	_, err = wrap.Run(context.Background(), "capitals",
		pages, []string{ex1.Key()}, nil, 5, true, nil)
	require.Error(err)
}
