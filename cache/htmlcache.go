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

import (
	"crypto/sha1"
	"encoding/hex"
	"io"
	"net/http"
)

// HTMLCache is the HTML body cache of spec section 6: keyed by sha1(url),
// each entry is the gzip of the page's HTML. A miss triggers Fetcher's
// on-demand retrieval; the original CDX-index/byte-range-GET-against-a-WARC-host
// retrieval path is corpus-retrieval infrastructure spec section 1 places
// out of scope, so Fetcher here is a plain HTTP GET against the live URL --
// same cache contract (gzip body keyed by sha1(url), miss-on-failure), a
// simpler fetch mechanism underneath it.
type HTMLCache struct {
	*Cache
	Fetcher func(url string) ([]byte, error)
}

// NewHTMLCache opens the bolt-backed HTML cache at path.
func NewHTMLCache(path string) (*HTMLCache, error) {
	c, err := Open(path, "html")
	if err != nil {
		return nil, err
	}
	return &HTMLCache{Cache: c, Fetcher: httpFetch}, nil
}

// Get returns url's cached HTML body, fetching and caching it on a miss. A
// fetch failure returns ok=false, matching spec section 7's "fetch failure
// returns null, page is skipped" rule.
func (c *HTMLCache) Get(url string) (html []byte, ok bool) {
	key := sha1Hex(url)
	if body, hit, err := c.GetGzip(key); err == nil && hit {
		return body, true
	}

	body, err := c.Fetcher(url)
	if err != nil {
		return nil, false
	}
	_ = c.PutGzip(key, body)
	return body, true
}

func sha1Hex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func httpFetch(url string) ([]byte, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}
