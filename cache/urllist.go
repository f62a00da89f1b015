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

package cache

import "strings"

// URLListCache wraps Cache with the "one URL per line" gzip file format
// spec section 6 prescribes for the URL-list cache, keyed by
// pair.Pair.Key() (sha1(input)+"_"+sha1(output)).
type URLListCache struct {
	*Cache
}

// NewURLListCache opens the bolt-backed URL-list cache at path.
func NewURLListCache(path string) (*URLListCache, error) {
	c, err := Open(path, "url_lists")
	if err != nil {
		return nil, err
	}
	return &URLListCache{Cache: c}, nil
}

// Lookup returns the cached URL list for a pair key, if present.
func (c *URLListCache) Lookup(pairKey string) ([]string, bool, error) {
	raw, ok, err := c.GetGzip(pairKey)
	if err != nil || !ok {
		return nil, ok, err
	}
	return splitLines(string(raw)), true, nil
}

// Store saves urls for pairKey.
func (c *URLListCache) Store(pairKey string, urls []string) error {
	return c.PutGzip(pairKey, []byte(strings.Join(urls, "\n")))
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
