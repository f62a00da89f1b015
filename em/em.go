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

// Package em is the EM consensus scorer (C12): it turns the resolved tables
// the wrap loop (C11) produced across every resource into one probability
// distribution per input, by iteratively re-estimating each table's trust
// from how well it reproduces the examples' known answers, then
// re-estimating every query's answer distribution from the tables that
// mention it, preserving an implicit bot-mass for "no confident answer"
// (spec section 4.12).
package em

import (
	"context"
	"math"

	"github.com/opentracing/opentracing-go"
)

// Alpha smooths each table's trust update; Prior is the prior weight in the
// trust formula; Epsilon bounds the maximum per-value probability change that
// counts as convergence; MaxIters is the iteration backstop if Epsilon is
// never reached (spec section 4.12).
const (
	Alpha    = 0.99
	Prior    = 0.5
	Epsilon  = 1e-3
	MaxIters = 100
)

// Table is one resource's resolved input(pair key) -> output(text) table,
// the wrap loop's (C11) per-resource Table.Answers, identified by ID
// (typically the resource label wrap.Run was given).
type Table struct {
	ID      string
	Answers map[string]string
}

// Distribution is the scorer's full per-input answer distribution -- full,
// not collapsed to an argmax, per spec section 9 Open Question (c), so a
// caller (the report writer) can render confidence alongside the winning
// answer. An input's entries never sum to more than 1; the remainder is the
// implicit bot-mass spec section 4.12 describes.
type Distribution map[string]map[string]float64

// Best returns the highest-probability value for x and its probability,
// ignoring the bot-mass. ok is false if x has no candidate answers at all.
func (d Distribution) Best(x string) (value string, probability float64, ok bool) {
	return argmax(d[x])
}

// Resolved applies spec section 4.12's output rule: x resolves to its best
// answer only once that answer's probability exceeds x's implicit bot-mass
// (1 minus the sum of all of x's recorded probabilities). Otherwise x has no
// confident answer (bot).
func (d Distribution) Resolved(x string) (value string, ok bool) {
	values := d[x]
	best, prob, found := argmax(values)
	if !found {
		return "", false
	}
	sum := 0.0
	for _, p := range values {
		sum += p
	}
	if prob > 1-sum {
		return best, true
	}
	return "", false
}

// Score runs spec section 4.12's EM loop to convergence (or MaxIters) and
// returns the final answer Distribution plus the per-table trust scores the
// loop converged on. examples maps every example pair key to its known
// ground-truth answer, anchoring table trust (spec section 4.12 step 2);
// queries lists every query pair key to be scored. tables is every
// resource's resolved table -- this build collects and wraps every resource
// once up front (resource.Collector / wrap.Run), so the source is always
// fully queried before Score runs and "finishedQuerying" (spec section
// 4.12's re-querying condition) holds from the first iteration.
func Score(ctx context.Context, tables []Table, examples map[string]string, queries []string) (Distribution, map[string]float64) {
	span, _ := opentracing.StartSpanFromContext(ctx, "em.iteration")
	defer span.Finish()

	a := initAnswers(examples, queries)

	var trust map[string]float64
	for i := 0; i < MaxIters; i++ {
		trust = updateTrust(tables, a)
		next := updateAnswers(tables, trust, queries, examples)

		delta := maxDelta(a, next)
		a = next
		if delta < Epsilon {
			break
		}
	}

	return a, trust
}

// initAnswers seeds every example with a fixed, fully-confident answer and
// every query with the empty distribution (all bot-mass) spec section
// 4.12's initialisation describes.
func initAnswers(examples map[string]string, queries []string) Distribution {
	a := make(Distribution, len(examples)+len(queries))
	for x, y := range examples {
		a[x] = map[string]float64{y: 1.0}
	}
	for _, q := range queries {
		if _, ok := a[q]; !ok {
			a[q] = map[string]float64{}
		}
	}
	return a
}

// updateTrust implements spec section 4.12 step 2: each table's trust is
// the smoothed ratio of the probability mass it got right (against the
// current best answers) over the mass it got right, got wrong, or never
// weighed in on (good, bad, unseen).
func updateTrust(tables []Table, a Distribution) map[string]float64 {
	trust := make(map[string]float64, len(tables))
	for _, t := range tables {
		var good, bad, unseen float64
		seen := make(map[string]struct{}, len(t.Answers))
		for x, y := range t.Answers {
			seen[x] = struct{}{}
			best, prob, ok := argmax(a[x])
			if ok && best == y {
				good += prob
			} else {
				bad++
			}
		}
		for x, values := range a {
			if _, ok := seen[x]; ok {
				continue
			}
			if _, prob, ok := argmax(values); ok {
				unseen += prob
			}
		}

		denom := Prior*good + (1-Prior)*(bad+unseen)
		score := 0.0
		if denom > 0 {
			score = Alpha * Prior * good / denom
		}
		trust[t.ID] = score
	}
	return trust
}

// updateAnswers implements spec section 4.12 step 3: every query's answer
// distribution is re-derived from the trust of the tables that mention it,
// normalised so that the candidate answers plus the implicit bot-mass sum to
// 1. Example answers never change -- only queries are re-estimated.
func updateAnswers(tables []Table, trust map[string]float64, queries []string, examples map[string]string) Distribution {
	type mention struct {
		table string
		value string
	}
	mentions := make(map[string][]mention)
	for _, t := range tables {
		for x, y := range t.Answers {
			mentions[x] = append(mentions[x], mention{table: t.ID, value: y})
		}
	}

	next := make(Distribution, len(examples)+len(queries))
	for x, y := range examples {
		next[x] = map[string]float64{y: 1.0}
	}

	for _, x := range queries {
		ms := mentions[x]
		if len(ms) == 0 {
			next[x] = map[string]float64{}
			continue
		}

		candidates := make(map[string]struct{})
		for _, m := range ms {
			candidates[m.value] = struct{}{}
		}

		scores := make(map[string]float64, len(candidates))
		for cand := range candidates {
			s := 1.0
			for _, m := range ms {
				if m.value == cand {
					s *= trust[m.table]
				} else {
					s *= 1 - trust[m.table]
				}
			}
			scores[cand] = s
		}

		bot := 1.0
		for _, m := range ms {
			bot *= 1 - trust[m.table]
		}

		total := bot
		for _, s := range scores {
			total += s
		}

		normalised := make(map[string]float64, len(scores))
		if total > 0 {
			for cand, s := range scores {
				normalised[cand] = s / total
			}
		}
		next[x] = normalised
	}
	return next
}

func argmax(values map[string]float64) (value string, probability float64, ok bool) {
	for v, p := range values {
		if !ok || p > probability {
			value, probability, ok = v, p, true
		}
	}
	return value, probability, ok
}

func maxDelta(a, b Distribution) float64 {
	max := 0.0
	seen := make(map[string]struct{}, len(a)+len(b))
	for x := range a {
		seen[x] = struct{}{}
	}
	for x := range b {
		seen[x] = struct{}{}
	}
	for x := range seen {
		keys := make(map[string]struct{}, len(a[x])+len(b[x]))
		for y := range a[x] {
			keys[y] = struct{}{}
		}
		for y := range b[x] {
			keys[y] = struct{}{}
		}
		for y := range keys {
			d := math.Abs(b[x][y] - a[x][y])
			if d > max {
				max = d
			}
		}
	}
	return max
}
