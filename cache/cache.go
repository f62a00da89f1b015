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

// Package cache is the content-addressed, gzip-compressed on-disk cache
// described in spec section 6: the HTML cache (keyed by sha1(url)) and the
// URL-list cache (keyed by sha1(input)+"_"+sha1(output), i.e. pair.Key()).
// It is backed by github.com/boltdb/bolt, a direct teacher dependency, one
// bucket per logical cache so a single file backs all of them.
package cache

import (
	"bytes"
	"compress/gzip"
	"io"

	"github.com/boltdb/bolt"

	"github.com/dolthub/wpdxf/wpdxferrors"
)

// Cache is a single bolt bucket addressed by content-hash keys. Readers
// tolerate a missing key (treated as a cache miss, per spec section 7);
// writers assume at-most-one writer, matching the concurrency model in
// spec section 5.
type Cache struct {
	db     *bolt.DB
	bucket []byte
}

// Open opens (creating if needed) a bolt database at path with the named
// bucket.
func Open(path string, bucket string) (*Cache, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, err
	}
	b := []byte(bucket)
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(b)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Cache{db: db, bucket: b}, nil
}

// Close releases the underlying bolt database.
func (c *Cache) Close() error { return c.db.Close() }

// Get returns the raw bytes stored under key. ok is false on a cache miss
// (key.absent), never an error -- per spec section 7, "missing cache file"
// is always just a miss.
func (c *Cache) Get(key string) (value []byte, ok bool, err error) {
	err = c.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(c.bucket).Get([]byte(key))
		if v != nil {
			value = append([]byte{}, v...)
			ok = true
		}
		return nil
	})
	return value, ok, err
}

// Put stores value under key, overwriting any existing entry.
func (c *Cache) Put(key string, value []byte) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(c.bucket).Put([]byte(key), value)
	})
}

// GetGzip is Get followed by gzip decompression, for the gzip-compressed
// payloads spec section 6 describes for both the HTML cache and the
// URL-list cache.
func (c *Cache) GetGzip(key string) ([]byte, bool, error) {
	raw, ok, err := c.Get(key)
	if err != nil || !ok {
		return nil, ok, err
	}
	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, false, wpdxferrors.ErrCacheMiss.New(key)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// PutGzip gzip-compresses value and stores it under key.
func (c *Cache) PutGzip(key string, value []byte) error {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(value); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return c.Put(key, buf.Bytes())
}
