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

// Package index is the tokenized inverted-index query engine (C2): it
// translates a set of pairs into a scan of the external tokens/uris/postings
// relation and returns, per spec section 4.2, the set of URLs whose page
// contains every token of a pair's input (and output, for examples) in
// order, contiguously, at identical inter-token offsets.
package index

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/dolthub/wpdxf/pair"
	"github.com/dolthub/wpdxf/tok"
)

// TokenID and URIID are the surrogate keys of the tokens/uris relations
// (spec section 3).
type TokenID int64
type URIID int64

// Store is the minimal surface the query engine needs from the external
// relational index described in spec section 6. Implementations stream
// postings in (uri_id, position) order per token id; the query engine never
// asks a Store to buffer more than one token id's postings at a time.
type Store interface {
	// ResolveToken returns the surrogate id for a token's text.
	ResolveToken(token string) (TokenID, bool)
	// URI returns the URL for a uri id.
	URI(id URIID) string
	// Postings streams (uri_id, position) pairs for tokenID, ordered by
	// (uri_id, position). The callback's bool return stops iteration early
	// when false, the same short-circuit contract streaming callers in
	// this codebase use elsewhere.
	Postings(tokenID TokenID, yield func(uri URIID, position int) bool)
	// CorpusFrequency returns tokenID's occurrence count as a fraction of
	// total postings, for the max_rel_tf filter in spec section 4.2.
	CorpusFrequency(tokenID TokenID) float64
}

// maskElem is one (token_id, relative_offset) entry of a pair-half's mask,
// spec section 4.2 step 2.
type maskElem struct {
	Token  TokenID
	Offset int
}

// Engine runs query_pairs (spec section 4.2) against a Store.
type Engine struct {
	Store     Store
	MaxRelTF  float64 // 0 disables the frequency filter
	Log       *logrus.Entry
}

// NewEngine constructs an Engine. log may be nil, in which case an entry on
// a fresh logrus logger (writing to stderr) is used.
func NewEngine(store Store, maxRelTF float64, log *logrus.Entry) *Engine {
	if log == nil {
		l := logrus.New()
		log = logrus.NewEntry(l)
	}
	return &Engine{Store: store, MaxRelTF: maxRelTF, Log: log}
}

// QueryPairs implements C2's contract: for every url, the set of pairs for
// which every token (both halves, for examples) matches in order,
// contiguously, at identical offsets.
func (e *Engine) QueryPairs(pairs []pair.Pair) map[string]map[string]pair.Pair {
	result := make(map[string]map[string]pair.Pair)

	for _, p := range pairs {
		inMask, ok := e.buildMask(p.TokInp())
		if !ok {
			e.Log.WithField("pair", p.String()).Warn("dropping pair: unresolved input token")
			continue
		}

		var outMask []maskElem
		if p.IsExample() {
			outMask, ok = e.buildMask(p.TokOut())
			if !ok {
				e.Log.WithField("pair", p.String()).Warn("dropping pair: unresolved output token")
				continue
			}
		}

		inMatches := e.matchingURIs(inMask)
		urls := inMatches
		if p.IsExample() {
			outMatches := e.matchingURIs(outMask)
			urls = intersect(inMatches, outMatches)
		}

		for _, uri := range urls {
			url := e.Store.URI(uri)
			if result[url] == nil {
				result[url] = make(map[string]pair.Pair)
			}
			result[url][p.Key()] = p
		}
	}

	return result
}

// buildMask resolves ts's tokens and normalises the first token's offset to
// 0, per spec section 4.2 steps 1-2. A pair with an unresolved token is
// dropped (ok is false); an over-frequent token (when MaxRelTF > 0) is only
// left out of the mask, and the pair is dropped only if no token remains.
func (e *Engine) buildMask(ts []tok.Token) (mask []maskElem, ok bool) {
	if len(ts) == 0 {
		return nil, false
	}
	mask = make([]maskElem, 0, len(ts))
	for _, t := range ts {
		id, resolved := e.Store.ResolveToken(t.Text)
		if !resolved {
			return nil, false
		}
		if e.MaxRelTF > 0 && e.Store.CorpusFrequency(id) > e.MaxRelTF {
			continue
		}
		mask = append(mask, maskElem{Token: id, Offset: t.Position})
	}
	if len(mask) == 0 {
		return nil, false
	}
	base := mask[0].Offset
	for i := range mask {
		mask[i].Offset -= base
	}
	return mask, true
}

func intersect(a, b []URIID) []URIID {
	set := make(map[URIID]struct{}, len(b))
	for _, x := range b {
		set[x] = struct{}{}
	}
	var out []URIID
	for _, x := range a {
		if _, ok := set[x]; ok {
			out = append(out, x)
		}
	}
	return out
}

// matchingURIs runs steps 3-4 of spec section 4.2 for a single mask: it
// streams postings per mask token, partitions by uri, and slides a window
// to find contiguous, identically-offset matches.
func (e *Engine) matchingURIs(mask []maskElem) []URIID {
	if len(mask) == 0 {
		return nil
	}

	// byURI[uri][maskIdx] = set of positions of that mask element's token in
	// that uri. This is the partition-by-uri of spec section 4.2 step 3; it
	// holds every posting of every mask token at once, so memory grows with
	// the total postings of the mask tokens, not with one uri's partition.
	byURI := make(map[URIID]map[int]map[int]bool) // uri -> maskIdx -> positionSet

	for idx, m := range mask {
		e.Store.Postings(m.Token, func(uri URIID, position int) bool {
			u, ok := byURI[uri]
			if !ok {
				u = make(map[int]map[int]bool)
				byURI[uri] = u
			}
			if u[idx] == nil {
				u[idx] = make(map[int]bool)
			}
			u[idx][position] = true
			return true
		})
	}

	var matched []URIID
	for uri, byIdx := range byURI {
		starts := byIdx[0]
		if starts == nil {
			continue
		}
		ordered := make([]int, 0, len(starts))
		for s := range starts {
			ordered = append(ordered, s)
		}
		sort.Ints(ordered)

		for _, start := range ordered {
			ok := true
			for idx, m := range mask {
				want := start + (m.Offset - mask[0].Offset)
				set := byIdx[idx]
				if set == nil || !set[want] {
					ok = false
					break
				}
			}
			if ok {
				matched = append(matched, uri)
				break
			}
		}
	}
	return matched
}
