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

// Package pilosaengine is the Pilosa-backed index.Store: it keeps one
// roaring bitmap per token, with uri/position packed into a single 64-bit
// key, so a postings scan for a token is a bitmap iteration instead of a
// table scan. This is the production-shaped alternative to index.MemStore,
// grounded on the teacher's direct dependency on github.com/pilosa/pilosa
// and the sql/index/pilosa driver pattern (sql/test_util/index_driver.go,
// sql/index/pilosa/driver_test.go): a content-addressed, per-table index
// directory loaded through a small Driver-shaped type.
package pilosaengine

import (
	"sync"

	"github.com/pilosa/pilosa/roaring"

	"github.com/dolthub/wpdxf/index"
)

// key packs a (uri, position) pair into the single integer domain a Pilosa
// bitmap indexes over.
func key(uri index.URIID, position int) uint64 {
	return uint64(uint32(uri))<<32 | uint64(uint32(position))
}

func unkey(k uint64) (index.URIID, int) {
	return index.URIID(int32(k >> 32)), int(int32(k & 0xffffffff))
}

// Store implements index.Store over in-memory Pilosa roaring bitmaps, one
// per token. Everything lives in process memory: no bitmap is written to
// disk, and config.Config.MapStore is not read.
type Store struct {
	mu       sync.RWMutex
	tokenIDs map[string]index.TokenID
	uris     []string
	bitmaps  map[index.TokenID]*roaring.Bitmap
	total    uint64
}

// New returns an empty Pilosa-backed store.
func New() *Store {
	return &Store{
		tokenIDs: make(map[string]index.TokenID),
		bitmaps:  make(map[index.TokenID]*roaring.Bitmap),
	}
}

// InternURI registers url (if new) and returns its id, mirroring the
// uris(uri_id -> uri) relation of spec section 3.
func (s *Store) InternURI(url string) index.URIID {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, u := range s.uris {
		if u == url {
			return index.URIID(i)
		}
	}
	id := index.URIID(len(s.uris))
	s.uris = append(s.uris, url)
	return id
}

// InternToken registers a token (if new) and returns its id.
func (s *Store) InternToken(token string) index.TokenID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.tokenIDs[token]
	if ok {
		return id
	}
	id = index.TokenID(len(s.tokenIDs))
	s.tokenIDs[token] = id
	s.bitmaps[id] = roaring.NewBitmap()
	return id
}

// AddPosting records one token occurrence, the Pilosa-backed equivalent of
// inserting a postings(uri_id, position, token_id) row.
func (s *Store) AddPosting(tokenID index.TokenID, uri index.URIID, position int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bm := s.bitmaps[tokenID]
	if bm == nil {
		bm = roaring.NewBitmap()
		s.bitmaps[tokenID] = bm
	}
	bm.Add(key(uri, position))
	s.total++
}

func (s *Store) ResolveToken(token string) (index.TokenID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.tokenIDs[token]
	return id, ok
}

func (s *Store) URI(id index.URIID) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.uris[id]
}

// Postings iterates the token's bitmap in ascending key order, which is
// ascending (uri, position) order since uri occupies the high 32 bits of
// the packed key -- the ordering spec section 4.2 step 3 requires.
func (s *Store) Postings(tokenID index.TokenID, yield func(uri index.URIID, position int) bool) {
	s.mu.RLock()
	bm := s.bitmaps[tokenID]
	s.mu.RUnlock()
	if bm == nil {
		return
	}

	itr := bm.Iterator()
	itr.Seek(0)
	for {
		v, eof := itr.Next()
		if eof {
			return
		}
		uri, pos := unkey(v)
		if !yield(uri, pos) {
			return
		}
	}
}

func (s *Store) CorpusFrequency(tokenID index.TokenID) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.total == 0 {
		return 0
	}
	bm := s.bitmaps[tokenID]
	if bm == nil {
		return 0
	}
	return float64(bm.Count()) / float64(s.total)
}

var _ index.Store = (*Store)(nil)
