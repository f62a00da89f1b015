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

// Package fnregistry is a small named-function registry, the same shape as
// internal/regex's pluggable matcher-engine registry, repurposed here to
// hold the custom XPath functions (token_equals, token_contains) that the
// DOM evaluator (C6) registers into this package's global namespace; they
// are not installed into the antchfx/xpath engine itself.
package fnregistry

import (
	"sync"

	errors "gopkg.in/src-d/go-errors.v1"
)

// ErrFuncNameEmpty mirrors internal/regex's ErrRegexNameEmpty.
var ErrFuncNameEmpty = errors.NewKind("cannot register function with empty name")

// Func is a custom XPath function: it receives the already-evaluated string
// arguments (the XPath engine's variable-hoisting layer resolves $name
// references before calling in) and returns a boolean result.
type Func func(args ...string) (bool, error)

var (
	mu        sync.RWMutex
	functions = map[string]Func{}
)

// Register adds fn under name, in the global namespace. Re-registering an
// existing name overwrites it, matching the teacher's regex engine registry
// semantics.
func Register(name string, fn Func) error {
	if name == "" {
		return ErrFuncNameEmpty.New()
	}
	mu.Lock()
	defer mu.Unlock()
	functions[name] = fn
	return nil
}

// Get looks up a previously registered function.
func Get(name string) (Func, bool) {
	mu.RLock()
	defer mu.RUnlock()
	fn, ok := functions[name]
	return fn, ok
}

// Names returns every currently registered function name.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(functions))
	for n := range functions {
		names = append(names, n)
	}
	return names
}
