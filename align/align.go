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

// Package align is the aligner and merger (C8): greedy pairwise alignment
// of multiple XPaths to a common length, and the step-wise merge that turns
// aligned paths into one generalised consensus path (spec section 4.8).
package align

import (
	"math"
	"sort"

	"github.com/dolthub/wpdxf/internal/editdistance"
	"github.com/dolthub/wpdxf/xpathmodel"
)

// Insertion is one round of placeholder positions applied to a path during
// alignment, in the coordinate system the path had at that round. A path's
// full insertion history is the ordered list of Insertions recorded for it;
// replaying that history against any other per-position slice (e.g. the
// DOM node chain the path was built from) keeps it in lock-step with the
// aligned path, which is how the enricher (C9) recovers, for each merged
// step, which original DOM node it came from.
type Insertion struct {
	Positions []int
}

// Align runs spec section 4.8's greedy pairwise alignment: it picks the
// closest pair first, then repeatedly folds in the unaligned path closest
// to the aligned set, inserting self:: placeholders (Node.Self) into
// whichever side needs them until every path shares one common length.
// The result is ordered exactly like the input.
func Align(paths []xpathmodel.Path) []xpathmodel.Path {
	aligned, _ := AlignWithOps(paths)
	return aligned
}

// AlignWithOps is Align plus, for every input path, the ordered insertion
// history that produced its aligned form -- see Insertion and ReplayOn.
func AlignWithOps(paths []xpathmodel.Path) (aligned []xpathmodel.Path, ops [][]Insertion) {
	n := len(paths)
	if n == 0 {
		return nil, nil
	}
	ops = make([][]Insertion, n)
	if n == 1 {
		return []xpathmodel.Path{append(xpathmodel.Path{}, paths[0]...)}, ops
	}

	steps := make([][]editdistance.Step, n)
	for i, p := range paths {
		steps[i] = p.Steps()
	}

	aligned = make([]xpathmodel.Path, n)
	inAligned := make(map[int]bool, n)

	// Step 1: the closest pair seeds the aligned set.
	bi, bj, bestDist := -1, -1, math.MaxInt32
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := editdistance.Distance(steps[i], steps[j]).Distance
			if d < bestDist {
				bestDist, bi, bj = d, i, j
			}
		}
	}
	seed := editdistance.Distance(steps[bi], steps[bj])
	aligned[bi] = paths[bi].InsertSelfAt(seed.InsertionsA)
	aligned[bj] = paths[bj].InsertSelfAt(seed.InsertionsB)
	ops[bi] = append(ops[bi], Insertion{Positions: seed.InsertionsA})
	ops[bj] = append(ops[bj], Insertion{Positions: seed.InsertionsB})
	inAligned[bi], inAligned[bj] = true, true

	// Step 2: repeatedly fold in the nearest remaining path.
	for len(inAligned) < n {
		pick, ref := -1, -1
		pickMean := math.MaxFloat64
		for idx := 0; idx < n; idx++ {
			if inAligned[idx] {
				continue
			}
			total, nearestRef, nearestDist := 0, -1, math.MaxInt32
			for k := range inAligned {
				d := editdistance.Distance(paths[idx].Steps(), aligned[k].Steps()).Distance
				total += d
				if d < nearestDist {
					nearestDist, nearestRef = d, k
				}
			}
			mean := float64(total) / float64(len(inAligned))
			if mean < pickMean {
				pickMean, pick, ref = mean, idx, nearestRef
			}
		}

		res := editdistance.Distance(paths[pick].Steps(), aligned[ref].Steps())
		newAligned := paths[pick].InsertSelfAt(res.InsertionsA)
		ops[pick] = append(ops[pick], Insertion{Positions: res.InsertionsA})
		for k := range inAligned {
			aligned[k] = aligned[k].InsertSelfAt(res.InsertionsB)
			ops[k] = append(ops[k], Insertion{Positions: res.InsertionsB})
		}
		aligned[pick] = newAligned
		inAligned[pick] = true
	}

	return aligned, ops
}

// ReplayOn applies the same ordered sequence of placeholder insertions
// described by history to items, inserting placeholder at each recorded
// position. Used to keep a parallel per-step slice (DOM node chains, page
// references) in step with the aligned xpathmodel.Path it was derived from.
func ReplayOn[T any](items []T, history []Insertion, placeholder T) []T {
	out := append([]T{}, items...)
	for _, ins := range history {
		out = insertPlaceholders(out, ins.Positions, placeholder)
	}
	return out
}

func insertPlaceholders[T any](items []T, positions []int, placeholder T) []T {
	if len(positions) == 0 {
		return append([]T{}, items...)
	}
	sorted := append([]int{}, positions...)
	sort.Ints(sorted)

	posCount := make(map[int]int, len(sorted))
	for _, p := range sorted {
		posCount[p]++
	}

	out := make([]T, 0, len(items)+len(sorted))
	srcIdx := 0
	for outIdx := 0; outIdx < len(items)+len(sorted); outIdx++ {
		if posCount[outIdx] > 0 {
			out = append(out, placeholder)
			posCount[outIdx]--
			continue
		}
		if srcIdx < len(items) {
			out = append(out, items[srcIdx])
			srcIdx++
		}
	}
	return out
}
