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

// Package tok implements the NIST-style tokenizer shared by the index query
// engine, the DOM evaluator and the reducer's text comparisons (C1).
package tok

import (
	"strings"
	"unicode"
)

// MaxTokenLen caps a single token; longer runs are split into consecutive
// sub-tokens of this length. It is the default Tokenize applies when
// maxLen <= 0; every caller in this module passes 0, so config's
// MAX_TOKEN_LEN does not reach the tokenizer.
const MaxTokenLen = 25

// Token is one normalised token and its 0-based position within the text it
// was extracted from.
type Token struct {
	Text     string
	Position int
}

var defaultStopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "has": {}, "he": {}, "in": {}, "is": {},
	"it": {}, "its": {}, "of": {}, "on": {}, "or": {}, "that": {}, "the": {},
	"to": {}, "was": {}, "were": {}, "will": {}, "with": {},
}

// Tokenize lower-cases text, splits it into Unicode-aware word runs, and
// optionally removes English stopwords. Tokens longer than maxLen are split
// into consecutive fixed-size sub-tokens; tokens with no alphanumeric rune
// are dropped. Positions are dense and 0-based over the kept tokens, so the
// function is deterministic and identity-restartable: tokenizing the same
// text twice always yields the same sequence.
func Tokenize(text string, ignoreStopwords bool, maxLen int) []Token {
	if maxLen <= 0 {
		maxLen = MaxTokenLen
	}

	var raw []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			raw = append(raw, cur.String())
			cur.Reset()
		}
	}
	for _, r := range text {
		if unicode.IsSpace(r) || unicode.IsPunct(r) {
			flush()
			continue
		}
		cur.WriteRune(unicode.ToLower(r))
	}
	flush()

	var out []Token
	pos := 0
	for _, word := range raw {
		for _, piece := range splitLong(word, maxLen) {
			if !hasAlphanumeric(piece) {
				continue
			}
			if ignoreStopwords {
				if _, stop := defaultStopwords[piece]; stop {
					continue
				}
			}
			out = append(out, Token{Text: piece, Position: pos})
			pos++
		}
	}
	return out
}

func splitLong(word string, maxLen int) []string {
	runes := []rune(word)
	if len(runes) <= maxLen {
		return []string{word}
	}
	var parts []string
	for i := 0; i < len(runes); i += maxLen {
		end := i + maxLen
		if end > len(runes) {
			end = len(runes)
		}
		parts = append(parts, string(runes[i:end]))
	}
	return parts
}

func hasAlphanumeric(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// TokenTexts extracts just the text of each token, in order.
func TokenTexts(ts []Token) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Text
	}
	return out
}

// Equal reports whether two token sequences are identical term-for-term.
// Used by token_equals.
func Equal(a, b []Token) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Text != b[i].Text {
			return false
		}
	}
	return true
}

// Contains reports whether needle occurs as a contiguous subsequence of
// haystack. Used by token_contains.
func Contains(haystack, needle []Token) bool {
	if len(needle) == 0 {
		return true
	}
	if len(needle) > len(haystack) {
		return false
	}
	for start := 0; start+len(needle) <= len(haystack); start++ {
		match := true
		for i := range needle {
			if haystack[start+i].Text != needle[i].Text {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
