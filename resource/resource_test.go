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

package resource_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/wpdxf/cache"
	"github.com/dolthub/wpdxf/index"
	"github.com/dolthub/wpdxf/pair"
	"github.com/dolthub/wpdxf/resource"
)

// memStore is a minimal index.Store fixture: every token in vocab resolves
// to the order it was first added in, and uriPostings lists every
// (token, uri, position) entry.
type memStore struct {
	uris         []string
	vocab        map[string]index.TokenID
	uriPostings  []postingEntry
}

type postingEntry struct {
	token index.TokenID
	uri   index.URIID
	pos   int
}

func newMemStore() *memStore {
	return &memStore{vocab: make(map[string]index.TokenID)}
}

func (s *memStore) addURL(url string) index.URIID {
	s.uris = append(s.uris, url)
	return index.URIID(len(s.uris) - 1)
}

func (s *memStore) addPosting(uri index.URIID, text string, pos int) {
	id, ok := s.vocab[text]
	if !ok {
		id = index.TokenID(len(s.vocab))
		s.vocab[text] = id
	}
	s.uriPostings = append(s.uriPostings, postingEntry{token: id, uri: uri, pos: pos})
}

func (s *memStore) ResolveToken(token string) (index.TokenID, bool) {
	id, ok := s.vocab[token]
	return id, ok
}
func (s *memStore) URI(id index.URIID) string { return s.uris[id] }
func (s *memStore) CorpusFrequency(index.TokenID) float64 { return 0 }
func (s *memStore) Postings(tokenID index.TokenID, yield func(uri index.URIID, position int) bool) {
	for _, p := range s.uriPostings {
		if p.token == tokenID {
			if !yield(p.uri, p.pos) {
				return
			}
		}
	}
}

func TestCollectOrdersByDescendingQueryCount(t *testing.T) {
	require := require.New(t)

	store := newMemStore()
	uriA := store.addURL("http://example.test/a")
	store.addPosting(uriA, "madrid", 0)

	engine := index.NewEngine(store, 0, nil)
	collector := resource.NewCollector(engine, nil, 0, nil)

	q := pair.MakeQuery("madrid", false)
	resources, err := collector.Collect([]pair.Pair{q}, 0)
	require.NoError(err)
	require.Len(resources, 1)
	require.Equal(1, resources[0].QCount())
}

func TestCollectRespectsLimit(t *testing.T) {
	require := require.New(t)

	store := newMemStore()
	for i, host := range []string{"http://a.test/p", "http://b.test/p"} {
		uri := store.addURL(host)
		store.addPosting(uri, "madrid", i)
	}

	engine := index.NewEngine(store, 0, nil)
	collector := resource.NewCollector(engine, nil, 0, nil)

	q := pair.MakeQuery("madrid", false)
	resources, err := collector.Collect([]pair.Pair{q}, 1)
	require.NoError(err)
	require.Len(resources, 1)
}

// TestCollectBypassesEngineOnCacheHit gives the engine an empty store (so
// it would resolve zero URLs for any pair), but pre-populates the URL-list
// cache for the query pair. A resource can only appear if Collect read the
// pair's URL list from the cache instead of querying the index.
func TestCollectBypassesEngineOnCacheHit(t *testing.T) {
	require := require.New(t)

	store := newMemStore()
	engine := index.NewEngine(store, 0, nil)

	urls, err := cache.NewURLListCache(filepath.Join(t.TempDir(), "urls.bolt"))
	require.NoError(err)
	defer urls.Close()

	q := pair.MakeQuery("madrid", false)
	require.NoError(urls.Store(q.Key(), []string{"http://example.test/a"}))

	collector := resource.NewCollector(engine, urls, 0, nil)
	resources, err := collector.Collect([]pair.Pair{q}, 0)
	require.NoError(err)
	require.Len(resources, 1)
	require.Equal(1, resources[0].QCount())
}
