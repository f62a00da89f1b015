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

// Package wpdxferrors collects the error kinds shared by every stage of the
// wrapper induction pipeline, and the per-kind recovery policy described by
// the error-handling table: each kind is either logged and swallowed by its
// caller, or left to propagate and terminate the run.
package wpdxferrors

import (
	errors "gopkg.in/src-d/go-errors.v1"
)

// Kinds that are recovered by their caller: the offending unit of work
// (a page, a pair, a cache entry) is dropped and the pipeline continues.
var (
	ErrBadHTML          = errors.NewKind("bad html in %s: %s")
	ErrXPathEval        = errors.NewKind("xpath evaluation failed for %q: %s")
	ErrUnresolvedToken  = errors.NewKind("token %q does not resolve in the index")
	ErrUnreachableNode  = errors.NewKind("corpus node unreachable: %s")
	ErrCacheMiss        = errors.NewKind("cache miss for key %s")
	ErrResourceExhausted = errors.NewKind("resource %s has fewer than tau=%d examples left after reduction")
)

// ErrNoResources is not an error: the pipeline terminates with an empty
// answer set when no resource clears tau. Callers should check for it with
// errors.Is-style Kind.Is and treat it as a normal, empty-result path.
var ErrNoResources = errors.NewKind("no resource met the coverage threshold")

// ErrMalformedConfig is fatal: startup aborts immediately.
var ErrMalformedConfig = errors.NewKind("malformed configuration: %s")
