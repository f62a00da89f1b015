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

// Package resource is the resource collector (C4): it drives the index
// query engine (C2) and the URI-tree (C3) to turn a benchmark's pairs into
// an ordered list of resources -- decomposed URI-tree nodes, each carrying
// the example/query matches a wrap-loop run (C11) will try to induce a
// program from (spec section 4.4).
package resource

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/dolthub/wpdxf/cache"
	"github.com/dolthub/wpdxf/index"
	"github.com/dolthub/wpdxf/pair"
	"github.com/dolthub/wpdxf/uritree"
)

// Resource is one decomposed URI-tree node offered up for wrapping: its
// label path, the host it belongs to, and the example/query matches the
// tree accumulated under it.
type Resource struct {
	Host       string
	Tree       *uritree.Tree
	Node       uritree.NodeID
	ExampleIDs []string
	QueryIDs   []string
}

// ExCount/QCount expose the underlying node's match counts, used for the
// descending sort in Collect.
func (r Resource) ExCount() int { return len(r.ExampleIDs) }
func (r Resource) QCount() int  { return len(r.QueryIDs) }

// Collector wires index.Engine and uritree.Tree together behind the cached
// URL-list lookup spec section 6 describes, mirroring the way engine.go
// resolves and wires a Catalog's sub-components.
type Collector struct {
	Engine *index.Engine
	URLs   *cache.URLListCache
	Tau    int
	Log    *logrus.Entry
}

// NewCollector constructs a Collector. log may be nil.
func NewCollector(engine *index.Engine, urls *cache.URLListCache, tau int, log *logrus.Entry) *Collector {
	if log == nil {
		log = logrus.NewEntry(logrus.New())
	}
	return &Collector{Engine: engine, URLs: urls, Tau: tau, Log: log}
}

// Collect implements spec section 4.4: a cache hit on a pair's URL list
// (spec section 7) bypasses the index scan for that pair entirely; only
// cache misses are sent through the index query engine (C2). It then caches
// every freshly queried pair's resulting URL list, builds the URI-tree,
// reduces hosts below tau, decomposes each surviving host root, and returns
// every resulting Resource ordered by descending query-match count,
// truncated to limit (limit <= 0 means unbounded).
func (c *Collector) Collect(pairs []pair.Pair, limit int) ([]Resource, error) {
	cached, uncached := c.splitCached(pairs)
	matches := c.Engine.QueryPairs(uncached)

	tree := uritree.New()
	insert := func(url string, p pair.Pair) {
		pp := p
		if p.IsExample() {
			tree.Insert(url, &pp, nil)
		} else {
			tree.Insert(url, nil, &pp)
		}
	}
	for url, byKey := range matches {
		for _, p := range byKey {
			insert(url, p)
		}
	}
	for _, hit := range cached {
		for _, url := range hit.urls {
			insert(url, hit.pair)
		}
	}

	if err := c.cacheURLLists(uncached, matches); err != nil {
		return nil, err
	}

	tree.ReduceRoots(c.Tau)

	var resources []Resource
	for host, rootID := range tree.Roots() {
		for _, id := range tree.Decompose(rootID, c.Tau) {
			n := tree.Node(id)
			resources = append(resources, Resource{
				Host:       host,
				Tree:       tree,
				Node:       id,
				ExampleIDs: keys(n.ExMatches()),
				QueryIDs:   keys(n.QMatches()),
			})
		}
	}

	sort.SliceStable(resources, func(i, j int) bool {
		return resources[i].QCount() > resources[j].QCount()
	})
	if limit > 0 && len(resources) > limit {
		c.Log.WithField("dropped", len(resources)-limit).Info("truncating resource list to limit")
		resources = resources[:limit]
	}
	return resources, nil
}

// cachedHit is one pair resolved entirely from the URL-list cache, without
// ever reaching the index query engine.
type cachedHit struct {
	pair pair.Pair
	urls []string
}

// splitCached partitions pairs into those resolved by a URL-list cache hit
// and those that still need to go through the index query engine. Per spec
// section 7, a missing cache entry -- and, conservatively, a corrupt one --
// is just a cache miss, never a fatal error: it falls back to uncached
// instead of aborting Collect.
func (c *Collector) splitCached(pairs []pair.Pair) (cached []cachedHit, uncached []pair.Pair) {
	if c.URLs == nil {
		return nil, pairs
	}
	for _, p := range pairs {
		urls, ok, err := c.URLs.Lookup(p.Key())
		if err != nil {
			c.Log.WithError(err).WithField("pair", p.String()).Warn("resource: url-list cache read failed, treating as miss")
			ok = false
		}
		if ok {
			cached = append(cached, cachedHit{pair: p, urls: urls})
			continue
		}
		uncached = append(uncached, p)
	}
	return cached, uncached
}

// cacheURLLists stores, for every pair that matched at least one URL, the
// resulting URL list under the pair's content-addressed key (spec section
// 6's URL-list cache), so a repeat run can skip re-querying the index.
func (c *Collector) cacheURLLists(pairs []pair.Pair, matches map[string]map[string]pair.Pair) error {
	if c.URLs == nil {
		return nil
	}
	byPair := make(map[string][]string)
	for url, byKey := range matches {
		for key := range byKey {
			byPair[key] = append(byPair[key], url)
		}
	}
	for _, p := range pairs {
		urls, ok := byPair[p.Key()]
		if !ok {
			continue
		}
		if err := c.URLs.Store(p.Key(), urls); err != nil {
			return err
		}
	}
	return nil
}

func keys(m map[string]pair.Pair) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
