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

package xpathmodel

import (
	"fmt"

	"github.com/mitchellh/hashstructure"
)

// Bindings is the variable map a serialised XPath's $name references
// resolve against. Names are deterministic hashes of the literal value, so
// two equal constants anywhere in a path share one binding (spec section 9).
type Bindings struct {
	values map[string]string // name -> literal value
}

// NewBindings returns an empty binding map.
func NewBindings() *Bindings {
	return &Bindings{values: make(map[string]string)}
}

// Hoist returns the deterministic variable name for value, registering it
// if this is the first time value has been seen.
func (b *Bindings) Hoist(value string) string {
	name := variableName(value)
	if _, ok := b.values[name]; !ok {
		b.values[name] = value
	}
	return name
}

// Map returns the underlying name->value table, suitable for handing to an
// XPath engine's variable-context argument.
func (b *Bindings) Map() map[string]string {
	cp := make(map[string]string, len(b.values))
	for k, v := range b.values {
		cp[k] = v
	}
	return cp
}

// Merge copies other's bindings into b.
func (b *Bindings) Merge(other *Bindings) {
	for k, v := range other.values {
		b.values[k] = v
	}
}

func variableName(value string) string {
	h, err := hashstructure.Hash(value, nil)
	if err != nil {
		// hashstructure only errors on unhashable types; a string never
		// triggers this path, but fall back to a fixed name rather than
		// panicking.
		return "$v_fallback"
	}
	return fmt.Sprintf("$v_%x", h)
}
