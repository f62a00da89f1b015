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

// Package pair implements the immutable Pair value (Example/Query) and its
// derived token fields (C1).
package pair

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"

	"github.com/dolthub/wpdxf/tok"
)

// Kind distinguishes an Example (input+output) from a Query (input-only).
type Kind int

const (
	KindExample Kind = iota
	KindQuery
)

// Pair is an immutable input (and, for examples, output) string together
// with its tokenisation. Construct with MakeExample/MakeQuery only; the
// zero value is not valid (an Example with an empty output violates the
// invariant in spec section 3).
type Pair struct {
	kind   Kind
	input  string
	output string

	tokInp []tok.Token
	tokOut []tok.Token

	tokenSet map[string]struct{}
}

// MakeExample builds an Example pair. y must be non-empty: spec section 3's
// invariant is enforced here rather than left to callers.
func MakeExample(x, y string, ignoreStopwords bool) (Pair, error) {
	if y == "" {
		return Pair{}, fmt.Errorf("pair: example output must be non-empty (input=%q)", x)
	}
	p := Pair{
		kind:   KindExample,
		input:  x,
		output: y,
		tokInp: tok.Tokenize(x, ignoreStopwords, 0),
		tokOut: tok.Tokenize(y, ignoreStopwords, 0),
	}
	p.tokenSet = p.buildTokenSet()
	return p, nil
}

// MakeQuery builds a Query pair (input only).
func MakeQuery(x string, ignoreStopwords bool) Pair {
	p := Pair{
		kind:   KindQuery,
		input:  x,
		tokInp: tok.Tokenize(x, ignoreStopwords, 0),
	}
	p.tokenSet = p.buildTokenSet()
	return p
}

func (p Pair) buildTokenSet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.tokInp)+len(p.tokOut))
	for _, t := range p.tokInp {
		set[t.Text] = struct{}{}
	}
	for _, t := range p.tokOut {
		set[t.Text] = struct{}{}
	}
	return set
}

func (p Pair) IsExample() bool { return p.kind == KindExample }
func (p Pair) IsQuery() bool   { return p.kind == KindQuery }
func (p Pair) Input() string   { return p.input }
func (p Pair) Output() string  { return p.output }

// TokInp returns the ordered (token, position) sequence for the input.
func (p Pair) TokInp() []tok.Token { return p.tokInp }

// TokOut returns the ordered (token, position) sequence for the output; it
// is empty for queries.
func (p Pair) TokOut() []tok.Token { return p.tokOut }

// Tokens returns the unordered set of distinct tokens across input (and
// output, for examples).
func (p Pair) Tokens() map[string]struct{} { return p.tokenSet }

// Key returns the content-addressed cache key described in spec section 6:
// sha1(input) + "_" + sha1(output). For queries, output is empty and
// sha1("") is used, which is stable and distinguishable from any non-empty
// output hash.
func (p Pair) Key() string {
	return fmt.Sprintf("%s_%s", sha1Hex(p.input), sha1Hex(p.output))
}

func sha1Hex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// String renders "input -> output" for examples and "input -> ?" for
// queries, for logging.
func (p Pair) String() string {
	if p.IsQuery() {
		return fmt.Sprintf("%s -> ?", p.input)
	}
	return fmt.Sprintf("%s -> %s", p.input, p.output)
}
