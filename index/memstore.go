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

package index

import "github.com/dolthub/wpdxf/tok"

// MemStore is a small in-process Store, standing in for the relational
// tokens/uris/postings store described in spec section 6. It exists for
// tests and for small corpora where standing up the full external store is
// unwarranted; the pilosaengine and sqlengine sub-packages provide the
// production-shaped backends.
type MemStore struct {
	tokenIDs map[string]TokenID
	uris     []string
	postings map[TokenID][]posting
	total    int
}

type posting struct {
	URI      URIID
	Position int
}

// NewMemStore builds a MemStore from a map of url -> raw page text. Each
// page's text is tokenised (without stopword removal, so position offsets
// match whatever the caller later builds pair masks with) and every token
// occurrence becomes one posting.
func NewMemStore(pages map[string]string) *MemStore {
	s := &MemStore{
		tokenIDs: make(map[string]TokenID),
		postings: make(map[TokenID][]posting),
	}
	for url, text := range pages {
		uriID := URIID(len(s.uris))
		s.uris = append(s.uris, url)

		for _, t := range tok.Tokenize(text, false, 0) {
			id, ok := s.tokenIDs[t.Text]
			if !ok {
				id = TokenID(len(s.tokenIDs))
				s.tokenIDs[t.Text] = id
			}
			s.postings[id] = append(s.postings[id], posting{URI: uriID, Position: t.Position})
			s.total++
		}
	}
	return s
}

func (s *MemStore) ResolveToken(token string) (TokenID, bool) {
	id, ok := s.tokenIDs[token]
	return id, ok
}

func (s *MemStore) URI(id URIID) string {
	return s.uris[id]
}

func (s *MemStore) Postings(tokenID TokenID, yield func(uri URIID, position int) bool) {
	for _, p := range s.postings[tokenID] {
		if !yield(p.URI, p.Position) {
			return
		}
	}
}

func (s *MemStore) CorpusFrequency(tokenID TokenID) float64 {
	if s.total == 0 {
		return 0
	}
	return float64(len(s.postings[tokenID])) / float64(s.total)
}
