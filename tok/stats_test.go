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

package tok_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/wpdxf/tok"
)

func TestStatsObserveAccumulatesFrequency(t *testing.T) {
	require := require.New(t)

	s := tok.NewStats(0)
	s.Observe(tok.Tokenize("red fox red dog", false, 0), nil)
	s.Observe(tok.Tokenize("red cat", false, 0), nil)

	snap := s.Snapshot()
	require.Equal(3, snap["red"])
	require.Equal(1, snap["fox"])
	require.Equal(1, snap["dog"])
	require.Equal(1, snap["cat"])
}

func TestStatsRelativeFrequency(t *testing.T) {
	require := require.New(t)

	s := tok.NewStats(0)
	s.Observe(tok.Tokenize("a a a b", false, 0), nil)

	require.InDelta(0.75, s.RelativeFrequency("a"), 1e-9)
	require.InDelta(0.25, s.RelativeFrequency("b"), 1e-9)
	require.Equal(0.0, s.RelativeFrequency("missing"))
}

func TestStatsFlushesEveryNObservations(t *testing.T) {
	require := require.New(t)

	s := tok.NewStats(2)
	flushes := 0
	onFlush := func(map[string]int) { flushes++ }

	s.Observe(tok.Tokenize("one", false, 0), onFlush)
	require.Equal(0, flushes)
	s.Observe(tok.Tokenize("two", false, 0), onFlush)
	require.Equal(1, flushes)
	s.Observe(tok.Tokenize("three", false, 0), onFlush)
	require.Equal(1, flushes)
	s.Observe(tok.Tokenize("four", false, 0), onFlush)
	require.Equal(2, flushes)
}
