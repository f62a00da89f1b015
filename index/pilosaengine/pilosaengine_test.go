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

package pilosaengine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/wpdxf/index"
	"github.com/dolthub/wpdxf/index/pilosaengine"
)

func TestStoreRoundTripsPostingsInOrder(t *testing.T) {
	require := require.New(t)

	s := pilosaengine.New()

	a := s.InternURI("http://a.test/")
	b := s.InternURI("http://b.test/")
	red := s.InternToken("red")
	blue := s.InternToken("blue")

	s.AddPosting(red, a, 3)
	s.AddPosting(red, a, 0)
	s.AddPosting(red, b, 1)
	s.AddPosting(blue, a, 0)

	id, ok := s.ResolveToken("red")
	require.True(ok)
	require.Equal(red, id)

	require.Equal("http://a.test/", s.URI(a))
	require.Equal("http://b.test/", s.URI(b))

	var uris []index.URIID
	var positions []int
	s.Postings(red, func(uri index.URIID, position int) bool {
		uris = append(uris, uri)
		positions = append(positions, position)
		return true
	})
	require.Equal([]index.URIID{a, a, b}, uris)
	require.Equal([]int{0, 3, 1}, positions)

	require.InDelta(0.75, s.CorpusFrequency(red), 1e-9)
	require.InDelta(0.25, s.CorpusFrequency(blue), 1e-9)
}

func TestStorePostingsStopsEarlyWhenYieldReturnsFalse(t *testing.T) {
	require := require.New(t)

	s := pilosaengine.New()
	a := s.InternURI("http://a.test/")
	red := s.InternToken("red")
	s.AddPosting(red, a, 0)
	s.AddPosting(red, a, 1)

	count := 0
	s.Postings(red, func(index.URIID, int) bool {
		count++
		return false
	})
	require.Equal(1, count)
}

var _ index.Store = (*pilosaengine.Store)(nil)
