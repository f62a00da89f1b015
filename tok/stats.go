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

package tok

import "sync"

// Stats tracks incremental stopword/token frequency, flushed by the caller
// every UPDATE_STATS_EACH calls (config.UpdateStatsEach). This restores the
// tokenwriter.py frequency bookkeeping that spec.md's distillation dropped;
// the CLI's run command logs its distinct-token count (it is not written to
// metafile.txt).
type Stats struct {
	mu          sync.Mutex
	seen        int
	freq        map[string]int
	flushEvery  int
	flushCalled int
}

// NewStats creates a Stats that calls onFlush every flushEvery Observe calls.
// onFlush receives a snapshot copy and is called synchronously; passing a
// flushEvery <= 0 disables flushing (Snapshot can still be polled).
func NewStats(flushEvery int) *Stats {
	return &Stats{freq: make(map[string]int), flushEvery: flushEvery}
}

// Observe records one occurrence of each token in ts.
func (s *Stats) Observe(ts []Token, onFlush func(map[string]int)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range ts {
		s.freq[t.Text]++
	}
	s.seen++

	if s.flushEvery > 0 && s.seen%s.flushEvery == 0 && onFlush != nil {
		onFlush(s.snapshotLocked())
		s.flushCalled++
	}
}

// Snapshot returns a copy of the current frequency table.
func (s *Stats) Snapshot() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Stats) snapshotLocked() map[string]int {
	cp := make(map[string]int, len(s.freq))
	for k, v := range s.freq {
		cp[k] = v
	}
	return cp
}

// RelativeFrequency returns freq[token] / total observed tokens, used to
// drop tokens whose corpus frequency exceeds max_rel_tf (spec section 4.2).
func (s *Stats) RelativeFrequency(token string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen == 0 {
		return 0
	}
	total := 0
	for _, v := range s.freq {
		total += v
	}
	if total == 0 {
		return 0
	}
	return float64(s.freq[token]) / float64(total)
}
