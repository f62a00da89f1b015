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

package induce_test

import (
	"testing"

	"github.com/antchfx/htmlquery"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/wpdxf/dom"
	"github.com/dolthub/wpdxf/induce"
)

const twoRowTable = `
<html><body>
<table>
<tr><th>Country</th><td class="val">Germany</td></tr>
<tr><th>Country</th><td class="val">France</td></tr>
</table>
</body></html>`

func TestInduceProducesEndPathAndBindings(t *testing.T) {
	require := require.New(t)

	page, err := dom.ParseString("http://example.test/countries", twoRowTable)
	require.NoError(err)

	rows, err := htmlquery.QueryAll(page.Root(), "//tr")
	require.NoError(err)
	require.Len(rows, 2)

	var examples []induce.Example
	for _, row := range rows {
		th := htmlquery.FindOne(row, "./th")
		td := htmlquery.FindOne(row, "./td")
		require.NotNil(th)
		require.NotNil(td)
		examples = append(examples, induce.Example{Page: page, Root: row, Input: th, Output: td})
	}

	prog, err := induce.Induce(examples)
	require.NoError(err)
	require.NotEmpty(prog.Rel.EndPath)
	require.NotNil(prog.Bindings)
}

func TestInduceRejectsEmptyExampleSet(t *testing.T) {
	require := require.New(t)
	_, err := induce.Induce(nil)
	require.Error(err)
}
