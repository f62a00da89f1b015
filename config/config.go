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

// Package config resolves the process-wide configuration singleton described
// in spec section 6. It is populated once, lazily, from a JSON file; an
// override path may be supplied before the first read. After the first read
// all values are effectively immutable.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"sync"

	"github.com/spf13/cast"

	"github.com/dolthub/wpdxf/wpdxferrors"
)

// Config holds every recognised key from spec section 6.
type Config struct {
	BasePath       string `json:"BASE_PATH"`
	WetPaths       string `json:"WET_PATHS"`
	WetFiles       string `json:"WET_FILES"`
	WarcFiles      string `json:"WARC_FILES"`
	StatisticsPath string `json:"STATISTICS_PATH"`
	TermStore      string `json:"TERM_STORE"`
	MapStore       string `json:"MAP_STORE"`
	URLCache       string `json:"URL_CACHE"`
	ErrorPath      string `json:"ERROR_PATH"`
	LogPath        string `json:"LOG_PATH"`
	StopWords      string `json:"STOP_WORDS"`

	PostgresConfig map[string]interface{} `json:"POSTGRES_CONFIG"`

	CCDomain string `json:"CC_DOMAIN"`

	NumProducer int `json:"NUM_PRODUCER"`
	NumConsumer int `json:"NUM_CONSUMER"`

	UpdateStatsEach int     `json:"UPDATE_STATS_EACH"`
	MaxTokenLen     int     `json:"MAX_TOKEN_LEN"`
	MaxCorpusFreq   float64 `json:"MAX_CORPUS_FREQ"`
}

// defaults mirror the constants the original tuning knobs fell back to when
// a key was absent from the JSON file.
func defaults() Config {
	return Config{
		NumProducer:     2,
		NumConsumer:     4,
		UpdateStatsEach: 1000,
		MaxTokenLen:     25,
		MaxCorpusFreq:   0.5,
	}
}

var (
	once     sync.Once
	instance *Config
	initErr  error

	mu           sync.Mutex
	overridePath string
	accessed     bool
)

// SetOverridePath supplies the config file path to use on first access. It
// must be called before the first call to Get; calling it afterwards has no
// effect, matching the "one-shot" initialisation contract in spec section 6.
func SetOverridePath(path string) {
	mu.Lock()
	defer mu.Unlock()
	if accessed {
		return
	}
	overridePath = path
}

// Get returns the process-wide Config, loading it from disk on first call.
// Subsequent calls return the same value regardless of file changes.
func Get() (*Config, error) {
	once.Do(func() {
		mu.Lock()
		path := overridePath
		if path == "" {
			path = os.Getenv("WPDXF_CONFIG")
		}
		accessed = true
		mu.Unlock()

		instance, initErr = load(path)
	})
	return instance, initErr
}

func load(path string) (*Config, error) {
	cfg := defaults()
	if path == "" {
		return &cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, wpdxferrors.ErrMalformedConfig.New(err.Error())
	}
	defer f.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return nil, wpdxferrors.ErrMalformedConfig.New(err.Error())
	}

	// Round-trip through the typed struct first so well-formed files take
	// the fast path, then backfill loosely-typed numeric/string keys with
	// cast so a JSON file that uses strings for numbers (a common authoring
	// mistake in hand-edited configs) still resolves.
	buf, _ := json.Marshal(raw)
	if err := json.Unmarshal(buf, &cfg); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil, wpdxferrors.ErrMalformedConfig.New(err.Error())
		}
	}

	if v, ok := raw["MAX_TOKEN_LEN"]; ok {
		if n, err := cast.ToIntE(v); err == nil {
			cfg.MaxTokenLen = n
		}
	}
	if v, ok := raw["MAX_CORPUS_FREQ"]; ok {
		if f, err := cast.ToFloat64E(v); err == nil {
			cfg.MaxCorpusFreq = f
		}
	}
	if v, ok := raw["UPDATE_STATS_EACH"]; ok {
		if n, err := cast.ToIntE(v); err == nil {
			cfg.UpdateStatsEach = n
		}
	}
	if v, ok := raw["NUM_PRODUCER"]; ok {
		if n, err := cast.ToIntE(v); err == nil {
			cfg.NumProducer = n
		}
	}
	if v, ok := raw["NUM_CONSUMER"]; ok {
		if n, err := cast.ToIntE(v); err == nil {
			cfg.NumConsumer = n
		}
	}

	return &cfg, nil
}

// reset is test-only: it clears the singleton so successive tests can load
// distinct fixtures.
func reset() {
	once = sync.Once{}
	instance = nil
	initErr = nil
	mu.Lock()
	overridePath = ""
	accessed = false
	mu.Unlock()
}
