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

// Package similarity provides the small text-comparison helpers the
// predicate enricher (C9) falls back to: the longest common prefix across a
// set of strings, and a numeric-content test. It plays the role
// internal/similartext plays for the teacher's "did you mean" suggestions,
// generalised from identifier suggestion to predicate discrimination.
package similarity

import "unicode"

// LongestCommonPrefix returns the longest string that is a prefix of every
// element of ss. An empty slice yields "".
func LongestCommonPrefix(ss []string) string {
	if len(ss) == 0 {
		return ""
	}
	prefix := ss[0]
	for _, s := range ss[1:] {
		prefix = commonPrefix(prefix, s)
		if prefix == "" {
			return ""
		}
	}
	return prefix
}

func commonPrefix(a, b string) string {
	ra, rb := []rune(a), []rune(b)
	n := len(ra)
	if len(rb) < n {
		n = len(rb)
	}
	i := 0
	for i < n && ra[i] == rb[i] {
		i++
	}
	return string(ra[:i])
}

// AllNumeric reports whether every string in ss is non-empty and consists
// solely of digits (optionally with a leading sign and decimal point), used
// by the enricher's numeric-regex discriminator (spec section 4.9).
func AllNumeric(ss []string) bool {
	if len(ss) == 0 {
		return false
	}
	for _, s := range ss {
		if !isNumeric(s) {
			return false
		}
	}
	return true
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	sawDigit := false
	for i, r := range s {
		switch {
		case unicode.IsDigit(r):
			sawDigit = true
		case r == '-' && i == 0:
		case r == '.':
		default:
			return false
		}
	}
	return sawDigit
}

// Disjoint reports whether a and b share no elements.
func Disjoint(a, b map[string]struct{}) bool {
	small, big := a, b
	if len(big) < len(small) {
		small, big = big, small
	}
	for k := range small {
		if _, ok := big[k]; ok {
			return false
		}
	}
	return true
}
