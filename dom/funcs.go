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

package dom

import (
	"sync"

	"github.com/dolthub/wpdxf/internal/fnregistry"
	"github.com/dolthub/wpdxf/tok"
)

// registerOnce installs token_equals/token_contains into fnregistry's
// global namespace (spec section 9, "Custom XPath functions"). Both reuse
// tok.Tokenize so element-text matching is identical to the tokenizer C1
// uses everywhere else.
var registerOnce sync.Once

func ensureFuncsRegistered() {
	registerOnce.Do(func() {
		_ = fnregistry.Register("token_equals", func(args ...string) (bool, error) {
			if len(args) != 2 {
				return false, nil
			}
			return tok.Equal(tok.Tokenize(args[0], false, 0), tok.Tokenize(args[1], false, 0)), nil
		})
		_ = fnregistry.Register("token_contains", func(args ...string) (bool, error) {
			if len(args) != 2 {
				return false, nil
			}
			return tok.Contains(tok.Tokenize(args[0], false, 0), tok.Tokenize(args[1], false, 0)), nil
		})
	})
}

// tokenEquals/tokenContains call the registered functions directly. The
// locator (locate.go) uses these rather than compiling a raw
// "token_equals(...)" call into the antchfx/xpath expression string: that
// engine's public API has no hook for arbitrary boolean extension
// functions, so the equality/containment test this package builds its
// predicates around is evaluated here, once, against every candidate
// element's text -- functionally the same global-namespace, tokenizer-
// sharing contract spec section 9 describes (see DESIGN.md).
func tokenEquals(elementText, term string) bool {
	ensureFuncsRegistered()
	fn, _ := fnregistry.Get("token_equals")
	ok, _ := fn(elementText, term)
	return ok
}

func tokenContains(elementText, term string) bool {
	ensureFuncsRegistered()
	fn, _ := fnregistry.Get("token_contains")
	ok, _ := fn(elementText, term)
	return ok
}
